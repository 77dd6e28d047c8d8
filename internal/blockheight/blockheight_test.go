package blockheight

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManual(t *testing.T) {
	m := NewManual(10)
	ctx := context.Background()

	h, _ := m.Current(ctx)
	assert.Equal(t, uint64(10), h)

	assert.Equal(t, uint64(15), m.Advance(5))

	m.Set(3)
	h, _ = m.Current(ctx)
	assert.Equal(t, uint64(15), h)

	m.Set(40)
	h, _ = m.Current(ctx)
	assert.Equal(t, uint64(40), h)
}

func TestClock(t *testing.T) {
	genesis := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c, err := NewClock(genesis, 10*time.Minute)
	require.NoError(t, err)
	ctx := context.Background()

	now := genesis.Add(-time.Hour)
	c.SetNowFunc(func() time.Time { return now })
	h, _ := c.Current(ctx)
	assert.Equal(t, uint64(0), h)

	now = genesis.Add(25 * time.Minute)
	h, _ = c.Current(ctx)
	assert.Equal(t, uint64(2), h)

	now = genesis.Add(5 * time.Minute)
	h, _ = c.Current(ctx)
	assert.Equal(t, uint64(2), h, "height must not go backwards")

	_, err = NewClock(genesis, 0)
	assert.Error(t, err)
}
