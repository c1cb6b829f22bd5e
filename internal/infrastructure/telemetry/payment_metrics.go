package telemetry

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/BuildZone-Tech/gerenciador-de-dividas/payments"

// PaymentMetrics implements port.PaymentMetrics with OpenTelemetry instruments.
type PaymentMetrics struct {
	applied    metric.Int64Counter
	amount     metric.Float64Counter
	rejected   metric.Int64Counter
	reconciled metric.Int64Counter
}

// NewPaymentMetrics registers the payment instruments on provider.
func NewPaymentMetrics(provider metric.MeterProvider) (*PaymentMetrics, error) {
	meter := provider.Meter(meterName)

	applied, err := meter.Int64Counter("receivables_payments_applied_total",
		metric.WithDescription("Payments applied to debts."))
	if err != nil {
		return nil, fmt.Errorf("create applied counter: %w", err)
	}
	amount, err := meter.Float64Counter("receivables_payments_amount_total",
		metric.WithDescription("Sum of applied payment amounts."),
		metric.WithUnit("{currency}"))
	if err != nil {
		return nil, fmt.Errorf("create amount counter: %w", err)
	}
	rejected, err := meter.Int64Counter("receivables_payments_rejected_total",
		metric.WithDescription("Payments rejected by validation, by rejection kind."))
	if err != nil {
		return nil, fmt.Errorf("create rejected counter: %w", err)
	}
	reconciled, err := meter.Int64Counter("receivables_debts_reconciled_total",
		metric.WithDescription("Debt reconciliations, split by whether totals drifted."))
	if err != nil {
		return nil, fmt.Errorf("create reconciled counter: %w", err)
	}

	return &PaymentMetrics{
		applied:    applied,
		amount:     amount,
		rejected:   rejected,
		reconciled: reconciled,
	}, nil
}

func (m *PaymentMetrics) PaymentApplied(ctx context.Context, scheme, currency string, amount decimal.Decimal) {
	attrs := metric.WithAttributes(
		attribute.String("scheme", scheme),
		attribute.String("currency", currency),
	)
	m.applied.Add(ctx, 1, attrs)
	m.amount.Add(ctx, amount.InexactFloat64(), attrs)
}

func (m *PaymentMetrics) PaymentRejected(ctx context.Context, scheme, reason string) {
	m.rejected.Add(ctx, 1, metric.WithAttributes(
		attribute.String("scheme", scheme),
		attribute.String("reason", reason),
	))
}

func (m *PaymentMetrics) DebtReconciled(ctx context.Context, drifted bool) {
	m.reconciled.Add(ctx, 1, metric.WithAttributes(attribute.Bool("drifted", drifted)))
}
