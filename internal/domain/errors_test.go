package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Is(t *testing.T) {
	err := Errorf(CodeNotFound, "listing %d", 7)

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrUnauthorized))

	wrapped := fmt.Errorf("rent: %w", err)
	assert.True(t, errors.Is(wrapped, ErrNotFound))
}

func TestError_Message(t *testing.T) {
	assert.Equal(t, "not-found (201): listing 7", Errorf(CodeNotFound, "listing %d", 7).Error())
	assert.Equal(t, "owner-only (200)", ErrOwnerOnly.Error())
	assert.Equal(t, "error-299", ErrorCode(299).String())
}

func TestCodeOf(t *testing.T) {
	code, ok := CodeOf(fmt.Errorf("wrap: %w", ErrInsufficientPayment))
	assert.True(t, ok)
	assert.Equal(t, ErrorCode(208), code)

	_, ok = CodeOf(errors.New("plain"))
	assert.False(t, ok)
}
