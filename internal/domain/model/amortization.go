package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/domain/valueobject"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/pkg/money"
)

// MaxInstallments bounds the length of a generated schedule.
const MaxInstallments = 600

// GenerateSchedule splits principal into count installments.
//
// Installments 1..count-1 carry round(principal/count, 2); the last one absorbs
// the rounding remainder so the schedule sums to principal exactly. Installment
// i is due one calendar month after installment i-1, with the day clamped to
// the end of shorter months. The clamped day becomes the anchor for the next
// month, so Jan 31 rolls to Feb 29 and then Mar 29.
//
// The returned installments carry no identifiers and no debt reference.
func GenerateSchedule(principal decimal.Decimal, count int, firstDue time.Time) ([]Installment, error) {
	if !principal.IsPositive() {
		return nil, reject(ErrInvalidInput, "principal must be positive")
	}
	if !money.HasCentPrecision(principal) {
		return nil, reject(ErrInvalidInput, "principal must have at most 2 decimal places")
	}
	if count <= 0 {
		return nil, reject(ErrInvalidInput, "installment count must be positive")
	}
	if count > MaxInstallments {
		return nil, reject(ErrInvalidInput, "installment count must be at most %d", MaxInstallments)
	}
	if firstDue.IsZero() {
		return nil, reject(ErrInvalidInput, "first due date is required")
	}

	n := decimal.NewFromInt(int64(count))
	base := money.Round(principal.Div(n))
	last := money.Round(base.Add(principal.Sub(base.Mul(n))))
	if !base.IsPositive() || !last.IsPositive() {
		return nil, reject(ErrInvalidInput, "principal %s is too small for %d installments", principal.StringFixed(2), count)
	}

	schedule := make([]Installment, 0, count)
	due := DateOf(firstDue)
	for i := 1; i <= count; i++ {
		amount := base
		if i == count {
			amount = last
		}
		schedule = append(schedule, Installment{
			number:     i,
			dueDate:    due,
			amountDue:  amount,
			amountPaid: decimal.Zero,
			status:     valueobject.InstallmentPending,
		})
		due = nextMonthClamped(due)
	}

	return schedule, nil
}
