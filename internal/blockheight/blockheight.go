// Package blockheight provides the monotonic height used for rental durations and expiry.
package blockheight

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Source reports the current block height. Heights never decrease.
type Source interface {
	Current(ctx context.Context) (uint64, error)
}

// Manual is a Source advanced explicitly by its owner.
type Manual struct {
	mu     sync.Mutex
	height uint64
}

func NewManual(start uint64) *Manual {
	return &Manual{height: start}
}

func (m *Manual) Current(ctx context.Context) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.height, nil
}

// Advance moves the height forward by n blocks and returns the new height.
func (m *Manual) Advance(n uint64) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.height += n
	return m.height
}

// Set moves the height to h. Attempts to move backwards are ignored.
func (m *Manual) Set(h uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h > m.height {
		m.height = h
	}
}

// Clock derives the height from wall time: one block per interval since genesis.
type Clock struct {
	genesis  time.Time
	interval time.Duration
	nowFn    func() time.Time

	mu   sync.Mutex
	last uint64
}

func NewClock(genesis time.Time, interval time.Duration) (*Clock, error) {
	if interval <= 0 {
		return nil, errors.New("block interval must be positive")
	}
	return &Clock{genesis: genesis, interval: interval, nowFn: time.Now}, nil
}

// SetNowFunc overrides the wall clock. Passing nil restores time.Now.
func (c *Clock) SetNowFunc(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	c.nowFn = now
}

func (c *Clock) Current(ctx context.Context) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elapsed := c.nowFn().Sub(c.genesis)
	var h uint64
	if elapsed > 0 {
		h = uint64(elapsed / c.interval)
	}
	// wall clocks can step backwards; the height must not
	if h < c.last {
		h = c.last
	}
	c.last = h
	return h, nil
}
