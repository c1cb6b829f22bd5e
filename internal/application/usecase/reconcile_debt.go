package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/application/dto"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/domain/model"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/domain/port"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/pkg/events"
)

// ReconcileDebtUseCase rebuilds a debt's running totals from its payment log.
type ReconcileDebtUseCase struct {
	debtRepo    port.DebtRepository
	paymentRepo port.PaymentRepository
	outbox      port.Outbox
	uow         port.UnitOfWork
	metrics     port.PaymentMetrics
	calendar    Calendar
	logger      *slog.Logger
}

// NewReconcileDebtUseCase wires dependencies.
func NewReconcileDebtUseCase(
	debtRepo port.DebtRepository,
	paymentRepo port.PaymentRepository,
	outbox port.Outbox,
	uow port.UnitOfWork,
	metrics port.PaymentMetrics,
	calendar Calendar,
	logger *slog.Logger,
) *ReconcileDebtUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &ReconcileDebtUseCase{
		debtRepo:    debtRepo,
		paymentRepo: paymentRepo,
		outbox:      outbox,
		uow:         uow,
		metrics:     metrics,
		calendar:    calendar,
		logger:      logger,
	}
}

// Execute compares stored totals with the payment log and persists the
// corrected totals when they drifted.
func (uc *ReconcileDebtUseCase) Execute(
	ctx context.Context,
	req dto.ReconcileDebtRequest,
) (resp dto.ReconcileDebtResponse, err error) {
	ctx, span := startSpan(ctx, "ReconcileDebt", trace.WithAttributes(
		attribute.String("debt.id", req.DebtID),
	))
	defer func() { endSpan(span, err) }()

	now := uc.calendar.now()
	var (
		reconciled model.Debt
		drift      model.Drift
	)

	err = uc.uow.Do(ctx, func(ctx context.Context) error {
		// 1. Lock the debt so payments cannot interleave with the rebuild.
		debt, err := uc.debtRepo.FindForUpdate(ctx, req.OwnerID, req.DebtID)
		if err != nil {
			return fmt.Errorf("find debt: %w", err)
		}

		// 2. Read the log.
		payments, err := uc.paymentRepo.ListByDebt(ctx, req.OwnerID, req.DebtID)
		if err != nil {
			return fmt.Errorf("list payments: %w", err)
		}

		// 3. Recompute.
		reconciled, drift = debt.Reconcile(payments, now, uc.calendar.loc())
		if !drift.HasDrift() {
			return nil
		}

		// 4. Persist the corrected totals.
		if err := uc.debtRepo.Update(ctx, reconciled); err != nil {
			return fmt.Errorf("update debt: %w", err)
		}
		entries, err := events.NewOutboxEntries(reconciled.DomainEvents())
		if err != nil {
			return fmt.Errorf("encode events: %w", err)
		}
		if err := uc.outbox.Store(ctx, entries); err != nil {
			return fmt.Errorf("store events: %w", err)
		}
		return nil
	})
	if err != nil {
		return dto.ReconcileDebtResponse{}, err
	}

	uc.metrics.DebtReconciled(ctx, drift.HasDrift())
	span.SetAttributes(attribute.Bool("debt.drifted", drift.HasDrift()))

	if drift.HasDrift() {
		uc.logger.WarnContext(ctx, "debt totals drifted from payment log",
			"debt_id", reconciled.ID(),
			"owner_id", reconciled.OwnerID(),
			"stored_paid", drift.StoredPaid.StringFixed(2),
			"ledger_paid", drift.LedgerPaid.StringFixed(2),
			"installments", len(drift.Installments),
		)
	}

	resp = dto.ReconcileDebtResponse{
		Debt:       toDebtResponse(reconciled.ClearEvents(), model.Today(now, uc.calendar.loc())),
		Drifted:    drift.HasDrift(),
		StoredPaid: drift.StoredPaid,
		LedgerPaid: drift.LedgerPaid,
	}
	for _, d := range drift.Installments {
		resp.Installments = append(resp.Installments, dto.InstallmentDriftResponse{
			InstallmentID: d.InstallmentID,
			Number:        d.Number,
			StoredPaid:    d.StoredPaid,
			LedgerPaid:    d.LedgerPaid,
		})
	}
	return resp, nil
}
