package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/application/dto"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/domain/model"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/domain/port"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/domain/service"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/pkg/events"
)

// RecordPaymentUseCase validates and applies a payment to a debt.
type RecordPaymentUseCase struct {
	debtRepo    port.DebtRepository
	paymentRepo port.PaymentRepository
	outbox      port.Outbox
	uow         port.UnitOfWork
	receipts    *service.ReceiptBuilder
	metrics     port.PaymentMetrics
	calendar    Calendar
	logger      *slog.Logger
}

// NewRecordPaymentUseCase wires dependencies.
func NewRecordPaymentUseCase(
	debtRepo port.DebtRepository,
	paymentRepo port.PaymentRepository,
	outbox port.Outbox,
	uow port.UnitOfWork,
	receipts *service.ReceiptBuilder,
	metrics port.PaymentMetrics,
	calendar Calendar,
	logger *slog.Logger,
) *RecordPaymentUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &RecordPaymentUseCase{
		debtRepo:    debtRepo,
		paymentRepo: paymentRepo,
		outbox:      outbox,
		uow:         uow,
		receipts:    receipts,
		metrics:     metrics,
		calendar:    calendar,
		logger:      logger,
	}
}

// Execute applies the payment inside one unit of work: the debt row stays
// locked from the balance check until the payment record and events are
// written. The receipt is built after commit.
func (uc *RecordPaymentUseCase) Execute(
	ctx context.Context,
	req dto.RecordPaymentRequest,
) (resp dto.RecordPaymentResponse, err error) {
	ctx, span := startSpan(ctx, "RecordPayment", trace.WithAttributes(
		attribute.String("debt.id", req.DebtID),
		attribute.String("payment.amount", req.Amount.String()),
	))
	defer func() { endSpan(span, err) }()

	now := uc.calendar.now()
	var applied model.PaymentApplication

	err = uc.uow.Do(ctx, func(ctx context.Context) error {
		// 1. Lock the debt.
		debt, err := uc.debtRepo.FindForUpdate(ctx, req.OwnerID, req.DebtID)
		if err != nil {
			return fmt.Errorf("find debt: %w", err)
		}

		// 2. Count prior payments for the recurring sequence.
		prior, err := uc.paymentRepo.CountByDebt(ctx, req.OwnerID, req.DebtID)
		if err != nil {
			return fmt.Errorf("count payments: %w", err)
		}

		// 3. Validate and apply.
		applied, err = debt.ApplyPayment(model.PaymentRequest{
			Amount:              req.Amount,
			Method:              req.Method,
			Note:                req.Note,
			TargetInstallmentID: req.InstallmentID,
			PaidAt:              req.PaidAt,
		}, prior, now, uc.calendar.loc())
		if err != nil {
			uc.metrics.PaymentRejected(ctx, debt.Scheme().String(), kindLabel(err))
			return fmt.Errorf("apply payment: %w", err)
		}

		// 4. Persist totals, the log entry and the events.
		if err := uc.debtRepo.Update(ctx, applied.Debt); err != nil {
			return fmt.Errorf("update debt: %w", err)
		}
		if err := uc.paymentRepo.Append(ctx, applied.Payment); err != nil {
			return fmt.Errorf("append payment: %w", err)
		}
		entries, err := events.NewOutboxEntries(applied.Debt.DomainEvents())
		if err != nil {
			return fmt.Errorf("encode events: %w", err)
		}
		if err := uc.outbox.Store(ctx, entries); err != nil {
			return fmt.Errorf("store events: %w", err)
		}
		return nil
	})
	if err != nil {
		uc.logger.WarnContext(ctx, "payment not recorded",
			"debt_id", req.DebtID,
			"owner_id", req.OwnerID,
			"amount", req.Amount.String(),
			"error", err,
		)
		return dto.RecordPaymentResponse{}, err
	}

	debt := applied.Debt.ClearEvents()
	payment := applied.Payment

	uc.metrics.PaymentApplied(ctx, debt.Scheme().String(), debt.Currency().Code(), payment.Amount())
	uc.logger.InfoContext(ctx, "payment recorded",
		"debt_id", debt.ID(),
		"owner_id", debt.OwnerID(),
		"payment_id", payment.ID(),
		"amount", payment.Amount().StringFixed(2),
		"status", debt.StoredStatus().String(),
	)

	// 5. Snapshot the receipt.
	receipt := uc.receipts.Build(payment, debt, toIssuer(req.Issuer))

	today := model.Today(now, uc.calendar.loc())
	resp = dto.RecordPaymentResponse{
		Payment: toPaymentResponse(payment, debt),
		Debt:    toDebtResponse(debt, today),
		Receipt: toReceiptResponse(receipt),
	}
	if applied.Installment != nil {
		inst := toInstallmentResponse(*applied.Installment, today)
		resp.Installment = &inst
	}
	return resp, nil
}

type noopMetrics struct{}

func (noopMetrics) PaymentApplied(context.Context, string, string, decimal.Decimal) {}
func (noopMetrics) PaymentRejected(context.Context, string, string)                 {}
func (noopMetrics) DebtReconciled(context.Context, bool)                            {}

// kindLabel names the rejection kind of err for metrics.
func kindLabel(err error) string {
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, model.ErrConflict):
		return "conflict"
	case errors.Is(err, model.ErrPrecondition):
		return "precondition"
	case errors.Is(err, model.ErrNotFound):
		return "not_found"
	default:
		return "internal"
	}
}
