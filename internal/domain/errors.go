package domain

import (
	"errors"
	"fmt"
)

// ErrorCode is the numeric error surface exposed to callers.
type ErrorCode uint32

const (
	CodeOwnerOnly           ErrorCode = 200
	CodeNotFound            ErrorCode = 201
	CodeUnauthorized        ErrorCode = 202
	CodeInvalidAmount       ErrorCode = 203
	CodeAlreadyListed       ErrorCode = 204
	CodeNotAvailable        ErrorCode = 205
	CodeRentalActive        ErrorCode = 206
	CodeRentalNotExpired    ErrorCode = 207
	CodeInsufficientPayment ErrorCode = 208
	CodeInvalidDuration     ErrorCode = 209
	CodeTransferFailed      ErrorCode = 210
)

var codeNames = map[ErrorCode]string{
	CodeOwnerOnly:           "owner-only",
	CodeNotFound:            "not-found",
	CodeUnauthorized:        "unauthorized",
	CodeInvalidAmount:       "invalid-amount",
	CodeAlreadyListed:       "already-listed",
	CodeNotAvailable:        "not-available",
	CodeRentalActive:        "rental-active",
	CodeRentalNotExpired:    "rental-not-expired",
	CodeInsufficientPayment: "insufficient-payment",
	CodeInvalidDuration:     "invalid-duration",
	CodeTransferFailed:      "transfer-failed",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("error-%d", uint32(c))
}

// Error is a tagged failure carrying one of the codes above. Two Errors match under
// errors.Is when their codes are equal, so callers can compare against the sentinels
// regardless of the detail message.
type Error struct {
	Code   ErrorCode
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s (%d)", e.Code, uint32(e.Code))
	}
	return fmt.Sprintf("%s (%d): %s", e.Code, uint32(e.Code), e.Detail)
}

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Errorf builds an Error with a formatted detail message.
func Errorf(code ErrorCode, format string, args ...any) error {
	return &Error{Code: code, Detail: fmt.Sprintf(format, args...)}
}

var (
	ErrOwnerOnly           = &Error{Code: CodeOwnerOnly}
	ErrNotFound            = &Error{Code: CodeNotFound}
	ErrUnauthorized        = &Error{Code: CodeUnauthorized}
	ErrInvalidAmount       = &Error{Code: CodeInvalidAmount}
	ErrAlreadyListed       = &Error{Code: CodeAlreadyListed}
	ErrNotAvailable        = &Error{Code: CodeNotAvailable}
	ErrRentalActive        = &Error{Code: CodeRentalActive}
	ErrRentalNotExpired    = &Error{Code: CodeRentalNotExpired}
	ErrInsufficientPayment = &Error{Code: CodeInsufficientPayment}
	ErrInvalidDuration     = &Error{Code: CodeInvalidDuration}
	ErrTransferFailed      = &Error{Code: CodeTransferFailed}
)

// CodeOf extracts the error code from err. ok is false for errors outside the taxonomy.
func CodeOf(err error) (code ErrorCode, ok bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return 0, false
}
