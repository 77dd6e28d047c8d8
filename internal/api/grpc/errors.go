package grpc

import (
	"context"
	"errors"
	"strconv"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"rental-escrow-backend/internal/domain"
	"rental-escrow-backend/internal/logger"
)

// ErrorCodeTrailer carries the numeric market error code alongside the gRPC status.
const ErrorCodeTrailer = "x-rental-error-code"

var statusCodes = map[domain.ErrorCode]codes.Code{
	domain.CodeOwnerOnly:           codes.PermissionDenied,
	domain.CodeUnauthorized:        codes.PermissionDenied,
	domain.CodeNotFound:            codes.NotFound,
	domain.CodeInvalidAmount:       codes.InvalidArgument,
	domain.CodeInvalidDuration:     codes.InvalidArgument,
	domain.CodeAlreadyListed:       codes.AlreadyExists,
	domain.CodeNotAvailable:        codes.FailedPrecondition,
	domain.CodeRentalActive:        codes.FailedPrecondition,
	domain.CodeRentalNotExpired:    codes.FailedPrecondition,
	domain.CodeInsufficientPayment: codes.FailedPrecondition,
	domain.CodeTransferFailed:      codes.Aborted,
}

// StatusCode maps a market error code onto the gRPC status space.
func StatusCode(code domain.ErrorCode) codes.Code {
	if c, ok := statusCodes[code]; ok {
		return c
	}
	return codes.Unknown
}

// toStatus converts a service error into a gRPC status error. Coded failures also set
// the numeric code in the response trailer. Anything outside the taxonomy is Internal.
func toStatus(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	code, ok := domain.CodeOf(err)
	if !ok {
		if errors.Is(err, context.Canceled) {
			return status.Error(codes.Canceled, err.Error())
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return status.Error(codes.DeadlineExceeded, err.Error())
		}
		logger.Error("Unexpected service failure", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
	// no transport stream when handlers are invoked directly
	_ = grpc.SetTrailer(ctx, metadata.Pairs(ErrorCodeTrailer, strconv.FormatUint(uint64(code), 10)))
	return status.Error(StatusCode(code), err.Error())
}

// fromTrailer rebuilds the market error from the code trailer set by toStatus. Errors
// without the trailer are returned unchanged.
func fromTrailer(err error, trailer metadata.MD) error {
	if err == nil {
		return nil
	}
	values := trailer.Get(ErrorCodeTrailer)
	if len(values) == 0 {
		return err
	}
	code, perr := strconv.ParseUint(values[0], 10, 32)
	if perr != nil {
		return err
	}
	return domain.Errorf(domain.ErrorCode(code), "%s", status.Convert(err).Message())
}
