package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/application/dto"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/domain/port"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/pkg/events"
)

// DeleteDebtUseCase removes a debt together with its installments and payments.
type DeleteDebtUseCase struct {
	debtRepo port.DebtRepository
	outbox   port.Outbox
	uow      port.UnitOfWork
	logger   *slog.Logger
}

// NewDeleteDebtUseCase wires dependencies.
func NewDeleteDebtUseCase(
	debtRepo port.DebtRepository,
	outbox port.Outbox,
	uow port.UnitOfWork,
	logger *slog.Logger,
) *DeleteDebtUseCase {
	return &DeleteDebtUseCase{
		debtRepo: debtRepo,
		outbox:   outbox,
		uow:      uow,
		logger:   logger,
	}
}

// Execute deletes the debt and records a DebtDeleted event.
func (uc *DeleteDebtUseCase) Execute(
	ctx context.Context,
	req dto.DeleteDebtRequest,
) (dto.DeleteDebtResponse, error) {
	var resp dto.DeleteDebtResponse

	err := uc.uow.Do(ctx, func(ctx context.Context) error {
		// 1. Lock the debt so no payment lands while it is removed.
		debt, err := uc.debtRepo.FindForUpdate(ctx, req.OwnerID, req.DebtID)
		if err != nil {
			return fmt.Errorf("find debt: %w", err)
		}

		// 2. Delete it.
		if err := uc.debtRepo.Delete(ctx, req.OwnerID, req.DebtID); err != nil {
			return fmt.Errorf("delete debt: %w", err)
		}

		// 3. Record the event.
		entries, err := events.NewOutboxEntries(debt.Deleted().DomainEvents())
		if err != nil {
			return fmt.Errorf("encode events: %w", err)
		}
		if err := uc.outbox.Store(ctx, entries); err != nil {
			return fmt.Errorf("store events: %w", err)
		}

		resp = dto.DeleteDebtResponse{DebtID: debt.ID(), CumulativePaid: debt.CumulativePaid()}
		return nil
	})
	if err != nil {
		return dto.DeleteDebtResponse{}, err
	}

	uc.logger.InfoContext(ctx, "debt deleted", "debt_id", req.DebtID, "owner_id", req.OwnerID)
	return resp, nil
}
