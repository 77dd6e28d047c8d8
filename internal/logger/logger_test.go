package logger

import (
	"bytes"
	"errors"
	"testing"

	"rental-escrow-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestExitMethodWithError(t *testing.T) {
	var buf bytes.Buffer
	InitializeWithWriter(&buf, "debug", "text")
	t.Cleanup(func() { Initialize("info", "text") })

	ExitMethodWithError("RentNFT", domain.ErrNotAvailable)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "code=205")

	buf.Reset()
	ExitMethodWithError("RentNFT", errors.New("connection reset"))
	assert.Contains(t, buf.String(), "level=ERROR")
}

func TestInitializeLevels(t *testing.T) {
	var buf bytes.Buffer
	InitializeWithWriter(&buf, "warn", "json")
	t.Cleanup(func() { Initialize("info", "text") })

	Info("hidden")
	Warn("shown", "listing_id", 1)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}

func TestLevelHelpers(t *testing.T) {
	var buf bytes.Buffer
	InitializeWithWriter(&buf, "debug", "text")
	t.Cleanup(func() { Initialize("info", "text") })

	Debug("sweep started")
	Info("listing created")
	Warn("retrying")
	Error("commit failed")
	out := buf.String()
	for _, level := range []string{"DEBUG", "INFO", "WARN", "ERROR"} {
		assert.Contains(t, out, "level="+level)
	}
}
