package grpc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/domain/model"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/pkg/money"
)

// toStatus maps use-case errors onto gRPC status codes. Rejection reasons are
// returned to the caller; anything unclassified is reported as Internal
// without its details.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	case errors.Is(err, model.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, reasonOf(err))
	case errors.Is(err, model.ErrNotFound):
		return status.Error(codes.NotFound, reasonOf(err))
	case errors.Is(err, model.ErrConflict), errors.Is(err, model.ErrPrecondition):
		return status.Error(codes.FailedPrecondition, reasonOf(err))
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

// reasonOf prefers the rejection's own message over the wrapped step chain.
func reasonOf(err error) string {
	var rej *model.RejectionError
	if errors.As(err, &rej) {
		return rej.Error()
	}
	return err.Error()
}

func invalidArgument(format string, args ...any) error {
	return status.Error(codes.InvalidArgument, fmt.Sprintf(format, args...))
}

func parseAmount(field, raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := money.ParseAmount(raw)
	if errors.Is(err, money.ErrSubCentPrecision) {
		return decimal.Zero, invalidArgument("invalid %s: %q has more than 2 decimal places", field, raw)
	}
	if err != nil {
		return decimal.Zero, invalidArgument("invalid %s: %q", field, raw)
	}
	return d, nil
}

func parseDate(field, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, invalidArgument("invalid %s: %q, want YYYY-MM-DD", field, raw)
	}
	return t, nil
}

func parseInstant(field, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, invalidArgument("invalid %s: %q, want RFC 3339", field, raw)
	}
	return t, nil
}
