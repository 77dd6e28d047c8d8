package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-escrow-backend/internal/domain"
)

const minimal = `
server:
  port: 50051
jwt:
  secret: "0123456789abcdef0123456789abcdef"
market:
  admin: "admin"
`

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(minimal))
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, "custody", cfg.Market.CustodyAccount)
	assert.Equal(t, domain.DefaultPlatformParams(), cfg.PlatformParams())
	assert.Equal(t, 10*time.Minute, cfg.BlockInterval())
	assert.Equal(t, "0 */10 * * * *", cfg.Scheduler.AutoReturnExpired)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "", cfg.GetHTTPAddress())
	assert.Equal(t, ":50051", cfg.GetServerAddress())
}

func TestParse_EnvOverride(t *testing.T) {
	t.Setenv("MARKET_ADMIN", "ops")
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Parse([]byte(minimal))
	require.NoError(t, err)
	assert.Equal(t, "ops", cfg.Market.Admin)
	assert.Equal(t, ":8080", cfg.GetHTTPAddress())
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestParse_ZeroFeeRate(t *testing.T) {
	cfg, err := Parse([]byte(minimal + `  platform_fee_rate: 0
`))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), cfg.FeeRate())
	assert.Equal(t, uint64(0), cfg.PlatformParams().FeeRateBps)

	t.Setenv("MARKET_PLATFORM_FEE_RATE", "0")
	cfg, err = Parse([]byte(minimal))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), cfg.PlatformParams().FeeRateBps)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"missing port", `jwt: {secret: "0123456789abcdef0123456789abcdef"}
market: {admin: a}`, "invalid server port"},
		{"short secret", `server: {port: 1}
jwt: {secret: short}
market: {admin: a}`, "at least 32"},
		{"no admin", `server: {port: 1}
jwt: {secret: "0123456789abcdef0123456789abcdef"}`, "market admin"},
		{"fee too high", minimal + `  platform_fee_rate: 2001
`, "exceeds"},
		{"postgres without host", minimal + `database:
  driver: postgres
`, "database host"},
		{"unknown driver", minimal + `database:
  driver: sqlite
`, "unknown database driver"},
		{"inverted durations", minimal + `  min_rental_duration: 500
  max_rental_duration: 100
`, "below max"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestGetSecurityLevel(t *testing.T) {
	assert.Equal(t, SecurityPublic, GetSecurityLevel(RentalMarketService+"GetListing"))
	assert.Equal(t, SecurityAccess, GetSecurityLevel(RentalMarketService+"RentNFT"))
	assert.Equal(t, SecurityAccess, GetSecurityLevel("/unknown.Service/Method"))
}
