package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/domain/event"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/domain/valueobject"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/pkg/money"
)

// ---------------------------------------------------------------------------
// Debt aggregate root
// ---------------------------------------------------------------------------

// Debt is what one debtor owes the owner. It is an immutable aggregate that
// exclusively owns its installments; mutations return a new copy.
type Debt struct {
	id              string
	ownerID         string
	name            string
	note            string
	scheme          valueobject.Scheme
	recurringReason valueobject.RecurringReason
	// principal is the single amount owed, the fixed contract total, or the
	// optional recurring upfront amount, depending on scheme.
	principal       decimal.Decimal
	currency        money.Currency
	cumulativePaid  decimal.Decimal
	recurringAmount decimal.Decimal
	recurringDay    int
	installments    []Installment
	status          valueobject.DebtStatus
	version         int
	createdAt       time.Time
	updatedAt       time.Time
	domainEvents    []event.DomainEvent
}

// DebtParams carries the caller's input for NewDebt.
type DebtParams struct {
	OwnerID         string
	Name            string
	Note            string
	Scheme          valueobject.Scheme
	RecurringReason valueobject.RecurringReason
	// Amount is the single amount, the fixed principal, or the recurring upfront.
	Amount           decimal.Decimal
	Currency         money.Currency
	InstallmentCount int
	FirstDueDate     time.Time
	RecurringAmount  decimal.Decimal
	RecurringDay     int
}

// NewDebt validates params for the chosen scheme and creates the debt. Fixed
// schedules get their installments generated in the same step.
func NewDebt(p DebtParams, now time.Time) (Debt, error) {
	name := strings.TrimSpace(p.Name)
	switch {
	case p.OwnerID == "":
		return Debt{}, reject(ErrInvalidInput, "owner is required")
	case name == "":
		return Debt{}, reject(ErrInvalidInput, "debtor name is required")
	case p.Scheme.IsZero():
		return Debt{}, reject(ErrInvalidInput, "scheme is required")
	case p.Currency.IsZero():
		return Debt{}, reject(ErrInvalidInput, "currency is required")
	case !money.HasCentPrecision(p.Amount) || !money.HasCentPrecision(p.RecurringAmount):
		return Debt{}, reject(ErrInvalidInput, "amounts must have at most 2 decimal places")
	}

	d := Debt{
		id:             uuid.NewString(),
		ownerID:        p.OwnerID,
		name:           name,
		note:           strings.TrimSpace(p.Note),
		scheme:         p.Scheme,
		currency:       p.Currency,
		principal:      p.Amount,
		cumulativePaid: decimal.Zero,
		version:        1,
		createdAt:      now,
		updatedAt:      now,
	}

	switch p.Scheme {
	case valueobject.SchemeSingle:
		if !p.Amount.IsPositive() {
			return Debt{}, reject(ErrInvalidInput, "amount owed must be positive")
		}

	case valueobject.SchemeFixed:
		schedule, err := GenerateSchedule(p.Amount, p.InstallmentCount, p.FirstDueDate)
		if err != nil {
			return Debt{}, err
		}
		for i := range schedule {
			schedule[i].id = uuid.NewString()
			schedule[i].debtID = d.id
		}
		d.installments = schedule

	case valueobject.SchemeRecurring:
		if p.RecurringReason.IsZero() {
			return Debt{}, reject(ErrInvalidInput, "recurring reason is required")
		}
		if !p.RecurringAmount.IsPositive() {
			return Debt{}, reject(ErrInvalidInput, "recurring amount must be positive")
		}
		if p.RecurringDay < 1 || p.RecurringDay > 31 {
			return Debt{}, reject(ErrInvalidInput, "recurring day must be between 1 and 31")
		}
		if p.Amount.IsNegative() {
			return Debt{}, reject(ErrInvalidInput, "upfront amount cannot be negative")
		}
		d.recurringReason = p.RecurringReason
		d.recurringAmount = p.RecurringAmount
		d.recurringDay = p.RecurringDay
	}

	d.status = DeriveDebtStatus(d, d.installments, DateOf(now))
	d.domainEvents = []event.DomainEvent{event.NewDebtRegistered(
		d.id, d.ownerID, d.name, d.scheme.String(),
		d.principal, d.currency.Code(), len(d.installments), d.recurringAmount,
	)}

	return d, nil
}

// ReconstructDebt rebuilds a Debt aggregate from persistence. Installments are
// expected in schedule order.
func ReconstructDebt(
	id, ownerID, name, note string,
	scheme valueobject.Scheme,
	recurringReason valueobject.RecurringReason,
	principal decimal.Decimal,
	currency money.Currency,
	cumulativePaid, recurringAmount decimal.Decimal,
	recurringDay int,
	installments []Installment,
	storedStatus valueobject.DebtStatus,
	version int,
	createdAt, updatedAt time.Time,
) Debt {
	return Debt{
		id:              id,
		ownerID:         ownerID,
		name:            name,
		note:            note,
		scheme:          scheme,
		recurringReason: recurringReason,
		principal:       principal,
		currency:        currency,
		cumulativePaid:  cumulativePaid,
		recurringAmount: recurringAmount,
		recurringDay:    recurringDay,
		installments:    installments,
		status:          storedStatus,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (d Debt) ID() string                                   { return d.id }
func (d Debt) OwnerID() string                              { return d.ownerID }
func (d Debt) Name() string                                 { return d.name }
func (d Debt) Note() string                                 { return d.note }
func (d Debt) Scheme() valueobject.Scheme                   { return d.scheme }
func (d Debt) RecurringReason() valueobject.RecurringReason { return d.recurringReason }
func (d Debt) Principal() decimal.Decimal                   { return d.principal }
func (d Debt) Currency() money.Currency                     { return d.currency }
func (d Debt) CumulativePaid() decimal.Decimal              { return d.cumulativePaid }
func (d Debt) RecurringAmount() decimal.Decimal             { return d.recurringAmount }
func (d Debt) RecurringDay() int                            { return d.recurringDay }
func (d Debt) StoredStatus() valueobject.DebtStatus         { return d.status }
func (d Debt) Version() int                                 { return d.version }
func (d Debt) CreatedAt() time.Time                         { return d.createdAt }
func (d Debt) UpdatedAt() time.Time                         { return d.updatedAt }
func (d Debt) DomainEvents() []event.DomainEvent            { return d.domainEvents }

// Installments returns a defensive copy of the schedule.
func (d Debt) Installments() []Installment {
	if d.installments == nil {
		return nil
	}
	out := make([]Installment, len(d.installments))
	copy(out, d.installments)
	return out
}

// Installment looks up an installment by id.
func (d Debt) Installment(id string) (Installment, bool) {
	for _, inst := range d.installments {
		if inst.id == id {
			return inst, true
		}
	}
	return Installment{}, false
}

// Status derives the debt status for today.
func (d Debt) Status(today time.Time) valueobject.DebtStatus {
	return DeriveDebtStatus(d, d.installments, today)
}

// TotalOwed is the amount the debt is expected to collect: the installment sum
// for fixed schedules and the principal otherwise. A fixed debt without
// installments owes nothing.
func (d Debt) TotalOwed() decimal.Decimal {
	if d.scheme.IsFixed() {
		amounts := make([]decimal.Decimal, 0, len(d.installments))
		for _, inst := range d.installments {
			amounts = append(amounts, inst.amountDue)
		}
		return money.Sum(amounts...)
	}
	return d.principal
}

// Remaining is max(0, TotalOwed - CumulativePaid).
func (d Debt) Remaining() decimal.Decimal {
	return money.Max0(d.TotalOwed().Sub(d.cumulativePaid))
}

// OutstandingInstallments sums the unpaid part of every installment. For
// non-fixed debts it equals Remaining.
func (d Debt) OutstandingInstallments() decimal.Decimal {
	if !d.scheme.IsFixed() {
		return d.Remaining()
	}
	remaining := make([]decimal.Decimal, 0, len(d.installments))
	for _, inst := range d.installments {
		remaining = append(remaining, inst.Remaining())
	}
	return money.Sum(remaining...)
}

// PaidInstallmentCount counts settled installments.
func (d Debt) PaidInstallmentCount() int {
	n := 0
	for _, inst := range d.installments {
		if inst.IsSettled() {
			n++
		}
	}
	return n
}

// NextPayableInstallment returns the first installment in schedule order that
// still accepts payment.
func (d Debt) NextPayableInstallment() (Installment, bool) {
	for _, inst := range d.installments {
		if !inst.IsSettled() {
			return inst, true
		}
	}
	return Installment{}, false
}

// refreshStatuses overwrites the stored status cache with derived values.
// d.installments must not be shared with another Debt.
func (d *Debt) refreshStatuses(today time.Time) {
	for i := range d.installments {
		d.installments[i].status = DeriveInstallmentStatus(d.installments[i], today)
	}
	d.status = DeriveDebtStatus(*d, d.installments, today)
}

// Deleted returns a copy carrying a DebtDeleted event.
func (d Debt) Deleted() Debt {
	next := d
	next.domainEvents = copyEvents(d.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewDebtDeleted(d.id, d.ownerID, d.cumulativePaid))
	return next
}

// ClearEvents returns a copy with an empty event list.
func (d Debt) ClearEvents() Debt {
	next := d
	next.domainEvents = nil
	return next
}

func copyEvents(src []event.DomainEvent) []event.DomainEvent {
	if len(src) == 0 {
		return nil
	}
	dst := make([]event.DomainEvent, len(src))
	copy(dst, src)
	return dst
}
