package event

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/BuildZone-Tech/gerenciador-de-dividas/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

const aggregateDebt = "Debt"

// Event type names published on the receivables topic.
const (
	TypeDebtRegistered     = "receivables.debt.registered"
	TypeDebtDeleted        = "receivables.debt.deleted"
	TypeDebtSettled        = "receivables.debt.settled"
	TypeDebtReconciled     = "receivables.debt.reconciled"
	TypePaymentRecorded    = "receivables.payment.recorded"
	TypeInstallmentSettled = "receivables.installment.settled"
)

// DebtRegistered is raised when a debt and, for fixed schedules, its installments are created.
type DebtRegistered struct {
	events.BaseEvent
	Name             string          `json:"name"`
	Scheme           string          `json:"scheme"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	InstallmentCount int             `json:"installment_count,omitempty"`
	RecurringAmount  decimal.Decimal `json:"recurring_amount"`
}

func NewDebtRegistered(
	debtID, ownerID, name, scheme string,
	amount decimal.Decimal, currency string,
	installmentCount int, recurringAmount decimal.Decimal,
) DebtRegistered {
	return DebtRegistered{
		BaseEvent:        events.NewBaseEvent(TypeDebtRegistered, debtID, aggregateDebt, ownerID),
		Name:             name,
		Scheme:           scheme,
		Amount:           amount,
		Currency:         currency,
		InstallmentCount: installmentCount,
		RecurringAmount:  recurringAmount,
	}
}

// DebtDeleted is raised when a debt is removed together with its installments and payments.
type DebtDeleted struct {
	events.BaseEvent
	CumulativePaid decimal.Decimal `json:"cumulative_paid"`
}

func NewDebtDeleted(debtID, ownerID string, cumulativePaid decimal.Decimal) DebtDeleted {
	return DebtDeleted{
		BaseEvent:      events.NewBaseEvent(TypeDebtDeleted, debtID, aggregateDebt, ownerID),
		CumulativePaid: cumulativePaid,
	}
}

// PaymentRecorded is raised for every accepted payment.
type PaymentRecorded struct {
	events.BaseEvent
	PaymentID         string          `json:"payment_id"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	PaidAt            time.Time       `json:"paid_at"`
	InstallmentID     string          `json:"installment_id,omitempty"`
	RecurringSequence int             `json:"recurring_sequence,omitempty"`
	CumulativePaid    decimal.Decimal `json:"cumulative_paid"`
}

func NewPaymentRecorded(
	debtID, ownerID, paymentID string,
	amount decimal.Decimal, currency string, paidAt time.Time,
	installmentID string, recurringSequence int,
	cumulativePaid decimal.Decimal,
) PaymentRecorded {
	return PaymentRecorded{
		BaseEvent:         events.NewBaseEvent(TypePaymentRecorded, debtID, aggregateDebt, ownerID),
		PaymentID:         paymentID,
		Amount:            amount,
		Currency:          currency,
		PaidAt:            paidAt,
		InstallmentID:     installmentID,
		RecurringSequence: recurringSequence,
		CumulativePaid:    cumulativePaid,
	}
}

// InstallmentSettled is raised when a payment brings an installment to PAID.
type InstallmentSettled struct {
	events.BaseEvent
	InstallmentID string          `json:"installment_id"`
	Number        int             `json:"number"`
	AmountDue     decimal.Decimal `json:"amount_due"`
}

func NewInstallmentSettled(debtID, ownerID, installmentID string, number int, amountDue decimal.Decimal) InstallmentSettled {
	return InstallmentSettled{
		BaseEvent:     events.NewBaseEvent(TypeInstallmentSettled, debtID, aggregateDebt, ownerID),
		InstallmentID: installmentID,
		Number:        number,
		AmountDue:     amountDue,
	}
}

// DebtSettled is raised when a single or fixed-schedule debt becomes fully paid.
type DebtSettled struct {
	events.BaseEvent
	TotalPaid decimal.Decimal `json:"total_paid"`
}

func NewDebtSettled(debtID, ownerID string, totalPaid decimal.Decimal) DebtSettled {
	return DebtSettled{
		BaseEvent: events.NewBaseEvent(TypeDebtSettled, debtID, aggregateDebt, ownerID),
		TotalPaid: totalPaid,
	}
}

// DebtReconciled is raised when stored running totals drifted from the payment log and were rewritten.
type DebtReconciled struct {
	events.BaseEvent
	PreviousPaid decimal.Decimal `json:"previous_paid"`
	LedgerPaid   decimal.Decimal `json:"ledger_paid"`
}

func NewDebtReconciled(debtID, ownerID string, previous, ledger decimal.Decimal) DebtReconciled {
	return DebtReconciled{
		BaseEvent:    events.NewBaseEvent(TypeDebtReconciled, debtID, aggregateDebt, ownerID),
		PreviousPaid: previous,
		LedgerPaid:   ledger,
	}
}
