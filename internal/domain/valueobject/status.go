package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// InstallmentStatus – immutable value object
// ---------------------------------------------------------------------------

// InstallmentStatus is the derived state of one scheduled installment.
type InstallmentStatus struct {
	value string
}

const (
	installmentPending       = "PENDING"
	installmentPartiallyPaid = "PARTIALLY_PAID"
	installmentPaid          = "PAID"
	installmentOverdue       = "OVERDUE"
)

var (
	InstallmentPending       = InstallmentStatus{value: installmentPending}
	InstallmentPartiallyPaid = InstallmentStatus{value: installmentPartiallyPaid}
	InstallmentPaid          = InstallmentStatus{value: installmentPaid}
	InstallmentOverdue       = InstallmentStatus{value: installmentOverdue}
)

var validInstallmentStatuses = map[string]InstallmentStatus{
	installmentPending:       InstallmentPending,
	installmentPartiallyPaid: InstallmentPartiallyPaid,
	installmentPaid:          InstallmentPaid,
	installmentOverdue:       InstallmentOverdue,
}

// NewInstallmentStatus creates an InstallmentStatus from a raw string.
func NewInstallmentStatus(s string) (InstallmentStatus, error) {
	v, ok := validInstallmentStatuses[s]
	if !ok {
		return InstallmentStatus{}, fmt.Errorf("invalid installment status: %q", s)
	}
	return v, nil
}

func (s InstallmentStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s InstallmentStatus) IsZero() bool { return s.value == "" }

// IsOpen reports whether the installment still accepts payments.
func (s InstallmentStatus) IsOpen() bool { return !s.IsZero() && s != InstallmentPaid }

// ---------------------------------------------------------------------------
// DebtStatus – immutable value object
// ---------------------------------------------------------------------------

// DebtStatus is the derived repayment state of a whole debt.
type DebtStatus struct {
	value string
}

const (
	debtUnpaid  = "UNPAID"
	debtPartial = "PARTIAL"
	debtPaid    = "PAID"
	debtOngoing = "ONGOING"
)

var (
	DebtUnpaid  = DebtStatus{value: debtUnpaid}
	DebtPartial = DebtStatus{value: debtPartial}
	DebtPaid    = DebtStatus{value: debtPaid}
	DebtOngoing = DebtStatus{value: debtOngoing}
)

var validDebtStatuses = map[string]DebtStatus{
	debtUnpaid:  DebtUnpaid,
	debtPartial: DebtPartial,
	debtPaid:    DebtPaid,
	debtOngoing: DebtOngoing,
}

// NewDebtStatus creates a DebtStatus from a raw string.
func NewDebtStatus(s string) (DebtStatus, error) {
	v, ok := validDebtStatuses[s]
	if !ok {
		return DebtStatus{}, fmt.Errorf("invalid debt status: %q", s)
	}
	return v, nil
}

func (s DebtStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s DebtStatus) IsZero() bool { return s.value == "" }
