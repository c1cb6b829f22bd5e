package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/application/dto"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/domain/model"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/domain/port"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/domain/valueobject"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/pkg/events"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/pkg/money"
)

// CreateDebtUseCase registers a new debt and, for fixed schedules, its installments.
type CreateDebtUseCase struct {
	debtRepo        port.DebtRepository
	outbox          port.Outbox
	uow             port.UnitOfWork
	defaultCurrency money.Currency
	calendar        Calendar
	logger          *slog.Logger
}

// NewCreateDebtUseCase wires dependencies. defaultCurrency applies when the
// request names none.
func NewCreateDebtUseCase(
	debtRepo port.DebtRepository,
	outbox port.Outbox,
	uow port.UnitOfWork,
	defaultCurrency money.Currency,
	calendar Calendar,
	logger *slog.Logger,
) *CreateDebtUseCase {
	return &CreateDebtUseCase{
		debtRepo:        debtRepo,
		outbox:          outbox,
		uow:             uow,
		defaultCurrency: defaultCurrency,
		calendar:        calendar,
		logger:          logger,
	}
}

// Execute validates the request for its scheme and persists the debt.
func (uc *CreateDebtUseCase) Execute(
	ctx context.Context,
	req dto.CreateDebtRequest,
) (dto.DebtResponse, error) {
	now := uc.calendar.now()

	// 1. Parse enumerations.
	params, err := uc.toParams(req)
	if err != nil {
		return dto.DebtResponse{}, fmt.Errorf("create debt: %w", err)
	}

	// 2. Build the aggregate.
	debt, err := model.NewDebt(params, now)
	if err != nil {
		return dto.DebtResponse{}, fmt.Errorf("create debt: %w", err)
	}

	entries, err := events.NewOutboxEntries(debt.DomainEvents())
	if err != nil {
		return dto.DebtResponse{}, fmt.Errorf("encode events: %w", err)
	}

	// 3. Persist the debt and its events together.
	err = uc.uow.Do(ctx, func(ctx context.Context) error {
		if err := uc.debtRepo.Create(ctx, debt); err != nil {
			return fmt.Errorf("save debt: %w", err)
		}
		if err := uc.outbox.Store(ctx, entries); err != nil {
			return fmt.Errorf("store events: %w", err)
		}
		return nil
	})
	if err != nil {
		return dto.DebtResponse{}, err
	}

	uc.logger.InfoContext(ctx, "debt registered",
		"debt_id", debt.ID(),
		"owner_id", debt.OwnerID(),
		"scheme", debt.Scheme().String(),
	)

	return toDebtResponse(debt.ClearEvents(), model.Today(now, uc.calendar.loc())), nil
}

func (uc *CreateDebtUseCase) toParams(req dto.CreateDebtRequest) (model.DebtParams, error) {
	scheme, err := valueobject.NewScheme(req.Scheme)
	if err != nil {
		return model.DebtParams{}, model.InvalidInput("%s", err)
	}

	var reason valueobject.RecurringReason
	if scheme.IsRecurring() {
		if reason, err = valueobject.NewRecurringReason(req.RecurringReason); err != nil {
			return model.DebtParams{}, model.InvalidInput("%s", err)
		}
	}

	currency := uc.defaultCurrency
	if req.Currency != "" {
		if currency, err = money.NewCurrency(req.Currency); err != nil {
			return model.DebtParams{}, model.InvalidInput("%s", err)
		}
	}

	return model.DebtParams{
		OwnerID:          req.OwnerID,
		Name:             req.Name,
		Note:             req.Note,
		Scheme:           scheme,
		RecurringReason:  reason,
		Amount:           req.Amount,
		Currency:         currency,
		InstallmentCount: req.InstallmentCount,
		FirstDueDate:     req.FirstDueDate,
		RecurringAmount:  req.RecurringAmount,
		RecurringDay:     req.RecurringDay,
	}, nil
}
