package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-escrow-backend/internal/config"
	"rental-escrow-backend/internal/jobs"
)

func TestNewScheduler(t *testing.T) {
	cfg := &config.Config{Scheduler: config.SchedulerConfig{AutoReturnExpired: "0 */10 * * * *"}}
	s, err := NewScheduler(jobs.NewJobRunner(nil, "sweeper", cfg))
	require.NoError(t, err)
	assert.True(t, s.IsRunning())

	s.Start()
	s.Stop()
}

func TestNewScheduler_BadSpec(t *testing.T) {
	cfg := &config.Config{Scheduler: config.SchedulerConfig{AutoReturnExpired: "every now and then"}}
	_, err := NewScheduler(jobs.NewJobRunner(nil, "sweeper", cfg))
	assert.Error(t, err)
}
