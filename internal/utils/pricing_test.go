package utils

import (
	"errors"
	"math"
	"testing"

	"rental-escrow-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateRentalQuote(t *testing.T) {
	t.Run("Reference scenario", func(t *testing.T) {
		q, err := CalculateRentalQuote(100, 200, 500)
		require.NoError(t, err)
		assert.Equal(t, uint64(20000), q.RentalCost)
		assert.Equal(t, uint64(4000), q.CollateralRequired)
		assert.Equal(t, uint64(1000), q.PlatformFee)
		assert.Equal(t, uint64(19000), q.OwnerPayment)
		assert.Equal(t, uint64(24000), q.TotalPayment)
	})

	t.Run("Zero fee rate", func(t *testing.T) {
		q, err := CalculateRentalQuote(7, 150, 0)
		require.NoError(t, err)
		assert.Equal(t, uint64(0), q.PlatformFee)
		assert.Equal(t, q.RentalCost, q.OwnerPayment)
	})

	t.Run("Overflow", func(t *testing.T) {
		_, err := CalculateRentalQuote(math.MaxUint64, 2, 500)
		assert.True(t, errors.Is(err, domain.ErrInvalidAmount))
	})

	t.Run("Total payment overflow", func(t *testing.T) {
		_, err := CalculateRentalQuote(math.MaxUint64, 1, 500)
		assert.True(t, errors.Is(err, domain.ErrInvalidAmount))
	})
}

func TestCalculateRentalQuote_Truncation(t *testing.T) {
	tests := []struct {
		name       string
		price      uint64
		duration   uint64
		rate       uint64
		collateral uint64
		fee        uint64
	}{
		{"odd cost", 7, 149, 500, 208, 52},    // cost 1043: 208.6 -> 208, 52.15 -> 52
		{"tiny cost", 1, 3, 2000, 0, 0},        // cost 3: 0.6 -> 0, 0.6 -> 0
		{"prime price", 13, 1001, 333, 2602, 433}, // cost 13013: 2602.6 -> 2602, 433.3329 -> 433
		{"max rate", 3, 145, 2000, 87, 87},     // cost 435
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := CalculateRentalQuote(tt.price, tt.duration, tt.rate)
			require.NoError(t, err)
			assert.Equal(t, tt.price*tt.duration, q.RentalCost)
			assert.Equal(t, tt.collateral, q.CollateralRequired)
			assert.Equal(t, tt.fee, q.PlatformFee)
			assert.Equal(t, q.RentalCost, q.OwnerPayment+q.PlatformFee)
			assert.Equal(t, q.RentalCost+q.CollateralRequired, q.TotalPayment)
		})
	}
}

func TestPlatformFee(t *testing.T) {
	t.Run("Rate above 100%", func(t *testing.T) {
		_, err := PlatformFee(100, BasisPoints+1)
		assert.True(t, errors.Is(err, domain.ErrInvalidAmount))
	})

	t.Run("Large cost does not wrap", func(t *testing.T) {
		fee, err := PlatformFee(math.MaxUint64, 2000)
		require.NoError(t, err)
		assert.Equal(t, uint64(math.MaxUint64/5), fee)
	})
}

func TestOwnerPayment(t *testing.T) {
	_, err := OwnerPayment(10, 11)
	assert.True(t, errors.Is(err, domain.ErrInvalidAmount))

	p, err := OwnerPayment(10, 3)
	assert.NoError(t, err)
	assert.Equal(t, uint64(7), p)
}

func TestCheckedAdd(t *testing.T) {
	sum, err := CheckedAdd(2, 3)
	assert.NoError(t, err)
	assert.Equal(t, uint64(5), sum)

	_, err = CheckedAdd(math.MaxUint64, 1)
	assert.True(t, errors.Is(err, domain.ErrInvalidAmount))
}
