package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"rental-escrow-backend/internal/domain"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	Log       LogConfig       `yaml:"log"`
	Market    MarketConfig    `yaml:"market"`
	Chain     ChainConfig     `yaml:"chain"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains gRPC and HTTP listener settings
type ServerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	HTTPPort int    `yaml:"http_port"`
}

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// DatabaseConfig selects the store. Connection settings apply to the postgres driver only.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // "memory" or "postgres"
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret            string `yaml:"secret"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// MarketConfig holds the deployment-time identities and the initial policy values.
// Policy can be changed afterwards through the admin operations; these only seed it.
type MarketConfig struct {
	Admin             string  `yaml:"admin"`
	CustodyAccount    string  `yaml:"custody_account"`
	PlatformFeeRate   *uint64 `yaml:"platform_fee_rate"` // nil means the default; 0 is a valid rate
	MinRentalDuration uint64  `yaml:"min_rental_duration"`
	MaxRentalDuration uint64  `yaml:"max_rental_duration"`
}

// ChainConfig describes how wall-clock time maps onto block heights.
type ChainConfig struct {
	GenesisUnix          int64 `yaml:"genesis_unix"`
	BlockIntervalSeconds int   `yaml:"block_interval_seconds"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	AutoReturnExpired string `yaml:"auto_return_expired"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration, applies environment overrides and validates.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_DRIVER"); val != "" {
		c.Database.Driver = val
	}
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}
	if val := os.Getenv("HTTP_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.HTTPPort)
	}

	// Market
	if val := os.Getenv("MARKET_ADMIN"); val != "" {
		c.Market.Admin = val
	}
	if val := os.Getenv("MARKET_CUSTODY_ACCOUNT"); val != "" {
		c.Market.CustodyAccount = val
	}
	if val := os.Getenv("MARKET_PLATFORM_FEE_RATE"); val != "" {
		var rate uint64
		if _, err := fmt.Sscanf(val, "%d", &rate); err == nil {
			c.Market.PlatformFeeRate = &rate
		}
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid and fills in defaults
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.HTTPPort < 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid http port: %d", c.Server.HTTPPort)
	}

	// Database validation
	if c.Database.Driver == "" {
		c.Database.Driver = DriverMemory
	}
	switch c.Database.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
		if c.Database.SSLMode == "" {
			c.Database.SSLMode = "disable"
		}
	default:
		return fmt.Errorf("unknown database driver: %q", c.Database.Driver)
	}

	// JWT validation
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 60
	}

	// Market validation
	if c.Market.Admin == "" {
		return fmt.Errorf("market admin is required")
	}
	if c.Market.CustodyAccount == "" {
		c.Market.CustodyAccount = "custody"
	}
	if c.Market.CustodyAccount == c.Market.Admin {
		return fmt.Errorf("custody account must differ from the admin")
	}
	if c.Market.PlatformFeeRate == nil {
		rate := domain.DefaultPlatformFeeRate
		c.Market.PlatformFeeRate = &rate
	}
	if *c.Market.PlatformFeeRate > domain.MaxPlatformFeeRate {
		return fmt.Errorf("platform fee rate %d exceeds %d", *c.Market.PlatformFeeRate, domain.MaxPlatformFeeRate)
	}
	if c.Market.MinRentalDuration == 0 {
		c.Market.MinRentalDuration = domain.DefaultMinRentalDuration
	}
	if c.Market.MaxRentalDuration == 0 {
		c.Market.MaxRentalDuration = domain.DefaultMaxRentalDuration
	}
	if c.Market.MinRentalDuration >= c.Market.MaxRentalDuration {
		return fmt.Errorf("min rental duration must be below max")
	}

	// Chain defaults
	if c.Chain.BlockIntervalSeconds == 0 {
		c.Chain.BlockIntervalSeconds = 600
	}
	if c.Chain.BlockIntervalSeconds < 0 {
		return fmt.Errorf("invalid block interval: %d", c.Chain.BlockIntervalSeconds)
	}

	// Scheduler defaults
	if c.Scheduler.AutoReturnExpired == "" {
		c.Scheduler.AutoReturnExpired = "0 */10 * * * *" // every 10 minutes
	}

	return nil
}

// PlatformParams returns the initial policy values for a fresh store.
func (c *Config) PlatformParams() domain.PlatformParams {
	return domain.PlatformParams{
		FeeRateBps:        c.FeeRate(),
		MinRentalDuration: c.Market.MinRentalDuration,
		MaxRentalDuration: c.Market.MaxRentalDuration,
	}
}

// FeeRate returns the configured platform fee in basis points.
func (c *Config) FeeRate() uint64 {
	if c.Market.PlatformFeeRate == nil {
		return domain.DefaultPlatformFeeRate
	}
	return *c.Market.PlatformFeeRate
}

// Genesis is the wall-clock time of block zero.
func (c *Config) Genesis() time.Time {
	return time.Unix(c.Chain.GenesisUnix, 0).UTC()
}

func (c *Config) BlockInterval() time.Duration {
	return time.Duration(c.Chain.BlockIntervalSeconds) * time.Second
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the gRPC server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetHTTPAddress returns the HTTP side-server address, or "" when disabled
func (c *Config) GetHTTPAddress() string {
	if c.Server.HTTPPort == 0 {
		return ""
	}
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.HTTPPort)
}
