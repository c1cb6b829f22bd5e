package model

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Rejection kinds. Every business rejection wraps exactly one of these.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("state conflict")
	ErrNotFound     = errors.New("not found")
	ErrPrecondition = errors.New("precondition failed")
)

var (
	ErrDebtNotFound              = fmt.Errorf("debt %w", ErrNotFound)
	ErrInstallmentNotFound       = fmt.Errorf("installment %w", ErrNotFound)
	ErrPaymentNotFound           = fmt.Errorf("payment %w", ErrNotFound)
	ErrInstallmentAlreadyPaid    = fmt.Errorf("installment already paid: %w", ErrConflict)
	ErrDebtAlreadyPaid           = fmt.Errorf("debt already paid: %w", ErrConflict)
	ErrPaymentExceedsBalance     = fmt.Errorf("payment exceeds remaining balance: %w", ErrConflict)
	ErrTargetInstallmentRequired = fmt.Errorf("target installment required: %w", ErrPrecondition)
	ErrConcurrentUpdate          = fmt.Errorf("debt modified concurrently: %w", ErrConflict)
)

// RejectionError is a typed business rejection. Reason is safe to show to the
// end user; Remaining is set for balance conflicts so callers can display it.
type RejectionError struct {
	Kind      error
	Reason    string
	Remaining *decimal.Decimal
}

func (e *RejectionError) Error() string {
	if e.Remaining != nil {
		return fmt.Sprintf("%s (remaining %s)", e.Reason, e.Remaining.StringFixed(2))
	}
	return e.Reason
}

func (e *RejectionError) Unwrap() error { return e.Kind }

func reject(kind error, format string, args ...any) error {
	return &RejectionError{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

func rejectWithRemaining(kind error, remaining decimal.Decimal, format string, args ...any) error {
	return &RejectionError{Kind: kind, Reason: fmt.Sprintf(format, args...), Remaining: &remaining}
}

// InvalidInput builds an input rejection for callers outside the domain package.
func InvalidInput(format string, args ...any) error {
	return reject(ErrInvalidInput, format, args...)
}

// RemainingOf extracts the remaining balance carried by a conflict rejection.
func RemainingOf(err error) (decimal.Decimal, bool) {
	var rej *RejectionError
	if errors.As(err, &rej) && rej.Remaining != nil {
		return *rej.Remaining, true
	}
	return decimal.Zero, false
}
