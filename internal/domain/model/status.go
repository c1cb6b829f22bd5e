package model

import (
	"time"

	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/domain/valueobject"
)

// DeriveInstallmentStatus computes an installment's status from its amounts and
// due date relative to today. Only the cumulative paid amount matters, not the
// order in which payments arrived.
func DeriveInstallmentStatus(inst Installment, today time.Time) valueobject.InstallmentStatus {
	switch {
	case inst.IsSettled():
		return valueobject.InstallmentPaid
	case inst.dueDate.Before(DateOf(today)):
		return valueobject.InstallmentOverdue
	case inst.amountPaid.IsPositive():
		return valueobject.InstallmentPartiallyPaid
	default:
		return valueobject.InstallmentPending
	}
}

// DeriveDebtStatus computes a debt's status. It never fails: incomplete data
// degrades to UNPAID or PARTIAL.
func DeriveDebtStatus(d Debt, installments []Installment, today time.Time) valueobject.DebtStatus {
	switch d.scheme {
	case valueobject.SchemeRecurring:
		return valueobject.DebtOngoing

	case valueobject.SchemeFixed:
		if len(installments) == 0 {
			if d.cumulativePaid.IsPositive() {
				return valueobject.DebtPartial
			}
			return valueobject.DebtUnpaid
		}
		allPaid, anyProgress := true, false
		for _, inst := range installments {
			st := DeriveInstallmentStatus(inst, today)
			if st != valueobject.InstallmentPaid {
				allPaid = false
			}
			if st == valueobject.InstallmentPaid || st == valueobject.InstallmentPartiallyPaid || inst.amountPaid.IsPositive() {
				anyProgress = true
			}
		}
		switch {
		case allPaid:
			return valueobject.DebtPaid
		case anyProgress:
			return valueobject.DebtPartial
		default:
			return valueobject.DebtUnpaid
		}

	default:
		total, paid := d.principal, d.cumulativePaid
		switch {
		case total.Sub(paid).Sign() <= 0:
			return valueobject.DebtPaid
		case paid.IsPositive() && total.IsPositive():
			return valueobject.DebtPartial
		default:
			return valueobject.DebtUnpaid
		}
	}
}
