package usecase

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/application/dto"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/domain/port"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/domain/service"
)

// GetPortfolioSummaryUseCase computes an owner's reconciled totals.
type GetPortfolioSummaryUseCase struct {
	debtRepo    port.DebtRepository
	paymentRepo port.PaymentRepository
	aggregator  *service.ReconciliationAggregator
	calendar    Calendar
}

// NewGetPortfolioSummaryUseCase wires dependencies.
func NewGetPortfolioSummaryUseCase(
	debtRepo port.DebtRepository,
	paymentRepo port.PaymentRepository,
	aggregator *service.ReconciliationAggregator,
	calendar Calendar,
) *GetPortfolioSummaryUseCase {
	return &GetPortfolioSummaryUseCase{
		debtRepo:    debtRepo,
		paymentRepo: paymentRepo,
		aggregator:  aggregator,
		calendar:    calendar,
	}
}

// Execute aggregates all debts of the owner and the payments inside the daily
// series window.
func (uc *GetPortfolioSummaryUseCase) Execute(
	ctx context.Context,
	req dto.PortfolioSummaryRequest,
) (resp dto.PortfolioSummaryResponse, err error) {
	ctx, span := startSpan(ctx, "GetPortfolioSummary")
	defer func() { endSpan(span, err) }()

	today := uc.calendar.today()

	debts, err := uc.debtRepo.ListByOwner(ctx, req.OwnerID)
	if err != nil {
		return dto.PortfolioSummaryResponse{}, fmt.Errorf("list debts: %w", err)
	}

	first := today.AddDate(0, 0, -(service.DailySeriesDays - 1))
	since := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, uc.calendar.loc())

	payments, err := uc.paymentRepo.ListByOwner(ctx, req.OwnerID, since)
	if err != nil {
		return dto.PortfolioSummaryResponse{}, fmt.Errorf("list payments: %w", err)
	}

	span.SetAttributes(
		attribute.Int("portfolio.debts", len(debts)),
		attribute.Int("portfolio.payments", len(payments)),
	)

	return toSummaryResponse(uc.aggregator.Aggregate(debts, payments, today)), nil
}
