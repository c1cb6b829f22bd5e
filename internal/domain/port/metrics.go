package port

import (
	"context"

	"github.com/shopspring/decimal"
)

// PaymentMetrics records payment outcomes. Implementations must be safe for
// concurrent use.
type PaymentMetrics interface {
	PaymentApplied(ctx context.Context, scheme, currency string, amount decimal.Decimal)
	PaymentRejected(ctx context.Context, scheme, reason string)
	DebtReconciled(ctx context.Context, drifted bool)
}
