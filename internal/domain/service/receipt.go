package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/domain/model"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/domain/valueobject"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/pkg/money"
)

// ---------------------------------------------------------------------------
// ReceiptBuilder – snapshot of one applied payment
// ---------------------------------------------------------------------------

// Issuer is the presentation metadata printed on a receipt.
type Issuer struct {
	ReceivedBy string
	OfficeName string
	LogoURL    string
}

// Receipt is an immutable snapshot of a payment and the balances around it.
// Scheme-specific fields are zero when they do not apply.
type Receipt struct {
	ID         string
	DebtID     string
	PaymentID  string
	DebtorName string
	DebtorNote string
	Scheme     valueobject.Scheme

	PaidAt time.Time
	Amount money.Money
	Method string

	// Single and fixed schedules.
	OriginalTotal money.Money
	BalanceBefore money.Money
	NewBalance    money.Money

	TotalPaidBefore money.Money
	CumulativePaid  money.Money

	// Fixed schedules.
	InstallmentNumber int
	TotalInstallments int

	// Recurring debts.
	RecurringAmount   money.Money
	RecurringDay      int
	RecurringSequence int

	Issuer Issuer
}

// ReceiptBuilder assembles receipts. It applies no business rules.
type ReceiptBuilder struct {
	loc            *time.Location
	defaultLogoURL string
}

// NewReceiptBuilder stamps receipt ids with the payment day observed in loc and
// falls back to defaultLogoURL when the issuer has none.
func NewReceiptBuilder(loc *time.Location, defaultLogoURL string) *ReceiptBuilder {
	if loc == nil {
		loc = time.UTC
	}
	return &ReceiptBuilder{loc: loc, defaultLogoURL: defaultLogoURL}
}

// Build snapshots a payment that was just applied; debt is the post-payment state.
func (b *ReceiptBuilder) Build(payment model.PaymentRecord, debt model.Debt, issuer Issuer) Receipt {
	return b.build(payment, debt, debt.CumulativePaid(), issuer)
}

// BuildFromLog snapshots a past payment. Balances are rebuilt from log, the
// debt's payments oldest first, counting every entry up to and including
// payment. It fails with model.ErrPaymentNotFound when payment is not in log.
func (b *ReceiptBuilder) BuildFromLog(payment model.PaymentRecord, debt model.Debt, log []model.PaymentRecord, issuer Issuer) (Receipt, error) {
	through := decimal.Zero
	for _, p := range log {
		through = through.Add(p.Amount())
		if p.ID() == payment.ID() {
			return b.build(payment, debt, through, issuer), nil
		}
	}
	return Receipt{}, fmt.Errorf("payment %s is not in the log of debt %s: %w", payment.ID(), debt.ID(), model.ErrPaymentNotFound)
}

func (b *ReceiptBuilder) build(payment model.PaymentRecord, debt model.Debt, paidThrough decimal.Decimal, issuer Issuer) Receipt {
	cur := debt.Currency()
	m := func(d decimal.Decimal) money.Money { return money.New(d, cur) }

	if issuer.LogoURL == "" {
		issuer.LogoURL = b.defaultLogoURL
	}

	paidBefore := paidThrough.Sub(payment.Amount())

	r := Receipt{
		ID:              b.receiptID(payment),
		DebtID:          debt.ID(),
		PaymentID:       payment.ID(),
		DebtorName:      debt.Name(),
		DebtorNote:      debt.Note(),
		Scheme:          debt.Scheme(),
		PaidAt:          payment.PaidAt(),
		Amount:          m(payment.Amount()),
		Method:          payment.Method(),
		TotalPaidBefore: m(paidBefore),
		CumulativePaid:  m(paidThrough),
		Issuer:          issuer,
	}

	switch debt.Scheme() {
	case valueobject.SchemeRecurring:
		r.RecurringAmount = m(debt.RecurringAmount())
		r.RecurringDay = debt.RecurringDay()
		r.RecurringSequence = payment.RecurringSequence()

	default:
		total := debt.TotalOwed()
		r.OriginalTotal = m(total)
		r.BalanceBefore = m(money.Max0(total.Sub(paidBefore)))
		r.NewBalance = m(money.Max0(total.Sub(paidThrough)))

		if debt.Scheme().IsFixed() {
			r.TotalInstallments = len(debt.Installments())
			if inst, ok := debt.Installment(payment.InstallmentID()); ok {
				r.InstallmentNumber = inst.Number()
			}
		}
	}

	return r
}

// receiptID derives REC-YYYYMMDD-XXXXXXXX from the payment day and the first
// eight hex digits of the payment id, so rebuilding a receipt keeps its id.
func (b *ReceiptBuilder) receiptID(p model.PaymentRecord) string {
	hex := strings.ToUpper(strings.ReplaceAll(p.ID(), "-", ""))
	if len(hex) > 8 {
		hex = hex[:8]
	}
	return fmt.Sprintf("REC-%s-%s", p.PaidAt().In(b.loc).Format("20060102"), hex)
}
