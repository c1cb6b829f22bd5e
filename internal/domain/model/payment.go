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
// PaymentRecord – append-only log entry
// ---------------------------------------------------------------------------

// PaymentRecord is one reported payment. Records are never updated; the log
// they form is the source of truth for every running total.
type PaymentRecord struct {
	id                string
	debtID            string
	ownerID           string
	paidAt            time.Time
	amount            decimal.Decimal
	method            string
	note              string
	installmentID     string
	recurringSequence int
	createdAt         time.Time
}

// ReconstructPaymentRecord rebuilds a PaymentRecord from persistence.
func ReconstructPaymentRecord(
	id, debtID, ownerID string,
	paidAt time.Time,
	amount decimal.Decimal,
	method, note, installmentID string,
	recurringSequence int,
	createdAt time.Time,
) PaymentRecord {
	return PaymentRecord{
		id:                id,
		debtID:            debtID,
		ownerID:           ownerID,
		paidAt:            paidAt,
		amount:            amount,
		method:            method,
		note:              note,
		installmentID:     installmentID,
		recurringSequence: recurringSequence,
		createdAt:         createdAt,
	}
}

func (p PaymentRecord) ID() string              { return p.id }
func (p PaymentRecord) DebtID() string          { return p.debtID }
func (p PaymentRecord) OwnerID() string         { return p.ownerID }
func (p PaymentRecord) PaidAt() time.Time       { return p.paidAt }
func (p PaymentRecord) Amount() decimal.Decimal { return p.amount }
func (p PaymentRecord) Method() string          { return p.method }
func (p PaymentRecord) Note() string            { return p.note }
func (p PaymentRecord) InstallmentID() string   { return p.installmentID }
func (p PaymentRecord) RecurringSequence() int  { return p.recurringSequence }
func (p PaymentRecord) CreatedAt() time.Time    { return p.createdAt }

// ---------------------------------------------------------------------------
// Payment application
// ---------------------------------------------------------------------------

// PaymentRequest is a proposed payment against a debt.
type PaymentRequest struct {
	Amount              decimal.Decimal
	Method              string
	Note                string
	TargetInstallmentID string
	// PaidAt defaults to the application time when zero.
	PaidAt time.Time
}

// PaymentApplication is the result of a successful ApplyPayment. Installment is
// set only for fixed-schedule debts.
type PaymentApplication struct {
	Payment     PaymentRecord
	Debt        Debt
	Installment *Installment
	// Before is the debt as it was prior to the payment.
	Before Debt
}

// ApplyPayment validates req against the debt's current state and returns the
// new payment record together with the updated debt. priorPayments is the
// number of payments already logged for this debt; it determines the recurring
// sequence number. On rejection nothing is returned and d is unchanged.
func (d Debt) ApplyPayment(req PaymentRequest, priorPayments int, now time.Time, loc *time.Location) (PaymentApplication, error) {
	amount := req.Amount
	if !amount.IsPositive() {
		return PaymentApplication{}, reject(ErrInvalidInput, "payment amount must be positive")
	}
	if !money.HasCentPrecision(amount) {
		return PaymentApplication{}, reject(ErrInvalidInput, "payment amount must have at most 2 decimal places")
	}
	if req.TargetInstallmentID != "" && !d.scheme.IsFixed() {
		return PaymentApplication{}, reject(ErrInvalidInput, "target installment only applies to fixed-schedule debts")
	}

	today := Today(now, loc)
	paidAt := req.PaidAt
	if paidAt.IsZero() {
		paidAt = now
	}

	record := PaymentRecord{
		id:        uuid.NewString(),
		debtID:    d.id,
		ownerID:   d.ownerID,
		paidAt:    paidAt,
		amount:    amount,
		method:    strings.TrimSpace(req.Method),
		note:      strings.TrimSpace(req.Note),
		createdAt: now,
	}

	next := d
	next.installments = d.Installments()
	next.cumulativePaid = d.cumulativePaid.Add(amount)
	next.updatedAt = now
	next.domainEvents = copyEvents(d.domainEvents)

	var settledInstallment *Installment

	switch d.scheme {
	case valueobject.SchemeFixed:
		if req.TargetInstallmentID == "" {
			return PaymentApplication{}, reject(ErrTargetInstallmentRequired, "select the installment this payment settles")
		}
		idx := -1
		for i, inst := range next.installments {
			if inst.id == req.TargetInstallmentID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return PaymentApplication{}, reject(ErrInstallmentNotFound, "installment %s does not belong to debt %s", req.TargetInstallmentID, d.id)
		}
		inst := next.installments[idx]
		if inst.IsSettled() {
			return PaymentApplication{}, rejectWithRemaining(ErrInstallmentAlreadyPaid, decimal.Zero,
				"installment %d is already paid", inst.number)
		}
		if remaining := inst.Remaining(); amount.GreaterThan(remaining) {
			return PaymentApplication{}, rejectWithRemaining(ErrPaymentExceedsBalance, remaining,
				"payment of %s exceeds the %s remaining on installment %d", amount.StringFixed(2), remaining.StringFixed(2), inst.number)
		}
		updated := inst.withPaid(inst.amountPaid.Add(amount), today)
		next.installments[idx] = updated
		settledInstallment = &updated
		record.installmentID = inst.id

	case valueobject.SchemeSingle:
		remaining := d.principal.Sub(d.cumulativePaid)
		if remaining.Sign() <= 0 {
			return PaymentApplication{}, rejectWithRemaining(ErrDebtAlreadyPaid, decimal.Zero, "debt is already paid")
		}
		if amount.GreaterThan(remaining) {
			return PaymentApplication{}, rejectWithRemaining(ErrPaymentExceedsBalance, remaining,
				"payment of %s exceeds the remaining balance of %s", amount.StringFixed(2), remaining.StringFixed(2))
		}

	case valueobject.SchemeRecurring:
		record.recurringSequence = priorPayments + 1
	}

	prevStatus := d.Status(today)
	next.refreshStatuses(today)

	next.domainEvents = append(next.domainEvents, event.NewPaymentRecorded(
		d.id, d.ownerID, record.id, amount, d.currency.Code(), record.paidAt,
		record.installmentID, record.recurringSequence, next.cumulativePaid,
	))
	if settledInstallment != nil && settledInstallment.IsSettled() {
		next.domainEvents = append(next.domainEvents, event.NewInstallmentSettled(
			d.id, d.ownerID, settledInstallment.id, settledInstallment.number, settledInstallment.amountDue,
		))
	}
	if next.status == valueobject.DebtPaid && prevStatus != valueobject.DebtPaid {
		next.domainEvents = append(next.domainEvents, event.NewDebtSettled(d.id, d.ownerID, next.cumulativePaid))
	}

	return PaymentApplication{
		Payment:     record,
		Debt:        next,
		Installment: settledInstallment,
		Before:      d,
	}, nil
}

// ---------------------------------------------------------------------------
// Reconciliation against the payment log
// ---------------------------------------------------------------------------

// Drift describes how far stored running totals were from the payment log.
type Drift struct {
	StoredPaid   decimal.Decimal
	LedgerPaid   decimal.Decimal
	Installments []InstallmentDrift
}

// InstallmentDrift is one installment whose stored paid amount disagreed with the log.
type InstallmentDrift struct {
	InstallmentID string
	Number        int
	StoredPaid    decimal.Decimal
	LedgerPaid    decimal.Decimal
}

// HasDrift reports whether any total disagreed.
func (dr Drift) HasDrift() bool {
	return !dr.StoredPaid.Equal(dr.LedgerPaid) || len(dr.Installments) > 0
}

// Reconcile recomputes cumulative and per-installment paid totals from payments,
// which must all belong to this debt. The returned debt carries a
// DebtReconciled event only when something drifted.
func (d Debt) Reconcile(payments []PaymentRecord, now time.Time, loc *time.Location) (Debt, Drift) {
	today := Today(now, loc)

	ledgerTotal := decimal.Zero
	perInstallment := make(map[string]decimal.Decimal)
	for _, p := range payments {
		ledgerTotal = ledgerTotal.Add(p.amount)
		if p.installmentID != "" {
			perInstallment[p.installmentID] = perInstallment[p.installmentID].Add(p.amount)
		}
	}

	drift := Drift{StoredPaid: d.cumulativePaid, LedgerPaid: ledgerTotal}

	next := d
	next.installments = d.Installments()
	for i, inst := range next.installments {
		ledger := perInstallment[inst.id]
		if !ledger.Equal(inst.amountPaid) {
			drift.Installments = append(drift.Installments, InstallmentDrift{
				InstallmentID: inst.id,
				Number:        inst.number,
				StoredPaid:    inst.amountPaid,
				LedgerPaid:    ledger,
			})
			next.installments[i] = inst.withPaid(ledger, today)
		}
	}

	if !drift.HasDrift() {
		return d, drift
	}

	next.cumulativePaid = ledgerTotal
	next.refreshStatuses(today)
	next.updatedAt = now
	next.domainEvents = copyEvents(d.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewDebtReconciled(d.id, d.ownerID, d.cumulativePaid, ledgerTotal))
	return next, drift
}
