package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/domain/valueobject"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/pkg/money"
)

// Installment is one scheduled sub-payment of a fixed-schedule debt. It is
// immutable; payment application returns an updated copy.
type Installment struct {
	id         string
	debtID     string
	number     int
	dueDate    time.Time
	amountDue  decimal.Decimal
	amountPaid decimal.Decimal
	// status is the value last written to storage. Read paths use Status(today).
	status valueobject.InstallmentStatus
}

// ReconstructInstallment rebuilds an Installment from persistence.
func ReconstructInstallment(
	id, debtID string,
	number int,
	dueDate time.Time,
	amountDue, amountPaid decimal.Decimal,
	storedStatus valueobject.InstallmentStatus,
) Installment {
	return Installment{
		id:         id,
		debtID:     debtID,
		number:     number,
		dueDate:    DateOf(dueDate),
		amountDue:  amountDue,
		amountPaid: amountPaid,
		status:     storedStatus,
	}
}

func (i Installment) ID() string                                  { return i.id }
func (i Installment) DebtID() string                              { return i.debtID }
func (i Installment) Number() int                                 { return i.number }
func (i Installment) DueDate() time.Time                          { return i.dueDate }
func (i Installment) AmountDue() decimal.Decimal                  { return i.amountDue }
func (i Installment) AmountPaid() decimal.Decimal                 { return i.amountPaid }
func (i Installment) StoredStatus() valueobject.InstallmentStatus { return i.status }

// Status derives the installment's status for today.
func (i Installment) Status(today time.Time) valueobject.InstallmentStatus {
	return DeriveInstallmentStatus(i, today)
}

// Remaining is the unpaid part of the installment, never negative.
func (i Installment) Remaining() decimal.Decimal {
	return money.Max0(i.amountDue.Sub(i.amountPaid))
}

// IsSettled reports whether the installment is fully paid.
func (i Installment) IsSettled() bool {
	return i.amountPaid.GreaterThanOrEqual(i.amountDue)
}

func (i Installment) withPaid(paid decimal.Decimal, today time.Time) Installment {
	next := i
	next.amountPaid = paid
	next.status = DeriveInstallmentStatus(next, today)
	return next
}
