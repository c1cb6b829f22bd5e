package service

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/domain/model"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/domain/valueobject"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/pkg/money"
)

// ---------------------------------------------------------------------------
// ReconciliationAggregator – portfolio totals over debts and payments
// ---------------------------------------------------------------------------

const (
	// DailySeriesDays is the length of the payment trend window, today included.
	DailySeriesDays = 30
	// ImmediateHorizonDays bounds how far ahead a pending installment still counts as immediate.
	ImmediateHorizonDays = 7
	// TopDebtorsLimit caps the largest-balance ranking.
	TopDebtorsLimit = 5
)

// DailyTotal is the sum of payments made on one calendar day.
type DailyTotal struct {
	Day    time.Time
	Amount decimal.Decimal
}

// DebtorBalance is one entry of the largest-balance ranking.
type DebtorBalance struct {
	DebtID    string
	Name      string
	Remaining decimal.Decimal
}

// PortfolioSummary holds the reconciled totals for one owner.
type PortfolioSummary struct {
	TotalPaid                decimal.Decimal
	TotalOwed                decimal.Decimal
	TotalRemaining           decimal.Decimal
	TotalImmediateReceivable decimal.Decimal
	// PendingOfOwed is max(0, TotalOwed - TotalPaid), the unpaid share of the portfolio.
	PendingOfOwed decimal.Decimal
	DailySeries   []DailyTotal
	TopDebtors    []DebtorBalance
}

// ReconciliationAggregator folds debts and payments into a PortfolioSummary.
// It is total: empty input yields zero totals and a zero-filled series.
type ReconciliationAggregator struct {
	loc *time.Location
}

// NewReconciliationAggregator buckets payment instants into days observed in loc.
func NewReconciliationAggregator(loc *time.Location) *ReconciliationAggregator {
	if loc == nil {
		loc = time.UTC
	}
	return &ReconciliationAggregator{loc: loc}
}

// Aggregate computes the summary as of the calendar day today.
func (a *ReconciliationAggregator) Aggregate(debts []model.Debt, payments []model.PaymentRecord, today time.Time) PortfolioSummary {
	today = model.DateOf(today)
	horizon := today.AddDate(0, 0, ImmediateHorizonDays)

	s := PortfolioSummary{
		TotalPaid:                decimal.Zero,
		TotalOwed:                decimal.Zero,
		TotalRemaining:           decimal.Zero,
		TotalImmediateReceivable: decimal.Zero,
	}

	ranking := make([]DebtorBalance, 0, len(debts))

	for _, d := range debts {
		s.TotalPaid = s.TotalPaid.Add(d.CumulativePaid())
		s.TotalOwed = s.TotalOwed.Add(d.TotalOwed())
		s.TotalRemaining = s.TotalRemaining.Add(d.Remaining())

		if d.Scheme().IsFixed() {
			for _, inst := range d.Installments() {
				remaining := inst.Remaining()
				if !remaining.IsPositive() {
					continue
				}
				switch inst.Status(today) {
				case valueobject.InstallmentOverdue:
					s.TotalImmediateReceivable = s.TotalImmediateReceivable.Add(remaining)
				case valueobject.InstallmentPending, valueobject.InstallmentPartiallyPaid:
					if !inst.DueDate().After(horizon) {
						s.TotalImmediateReceivable = s.TotalImmediateReceivable.Add(remaining)
					}
				}
			}
		} else if remaining := d.Remaining(); remaining.IsPositive() {
			s.TotalImmediateReceivable = s.TotalImmediateReceivable.Add(remaining)
		}

		if outstanding := d.OutstandingInstallments(); outstanding.IsPositive() {
			ranking = append(ranking, DebtorBalance{DebtID: d.ID(), Name: d.Name(), Remaining: outstanding})
		}
	}

	s.PendingOfOwed = money.Max0(s.TotalOwed.Sub(s.TotalPaid))
	s.DailySeries = a.dailySeries(payments, today)
	s.TopDebtors = topDebtors(ranking)

	return s
}

func (a *ReconciliationAggregator) dailySeries(payments []model.PaymentRecord, today time.Time) []DailyTotal {
	first := today.AddDate(0, 0, -(DailySeriesDays - 1))

	series := make([]DailyTotal, DailySeriesDays)
	for i := range series {
		series[i] = DailyTotal{Day: first.AddDate(0, 0, i), Amount: decimal.Zero}
	}

	for _, p := range payments {
		day := model.Today(p.PaidAt(), a.loc)
		if day.Before(first) || day.After(today) {
			continue
		}
		idx := int(day.Sub(first).Hours() / 24)
		series[idx].Amount = series[idx].Amount.Add(p.Amount())
	}

	return series
}

func topDebtors(ranking []DebtorBalance) []DebtorBalance {
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Remaining.GreaterThan(ranking[j].Remaining)
	})
	if len(ranking) > TopDebtorsLimit {
		ranking = ranking[:TopDebtorsLimit]
	}
	return ranking
}
