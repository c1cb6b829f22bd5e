package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/application/dto"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/domain/port"
)

// GetDebtUseCase retrieves a debt with its derived status and installments.
type GetDebtUseCase struct {
	debtRepo port.DebtRepository
	calendar Calendar
}

// NewGetDebtUseCase wires dependencies.
func NewGetDebtUseCase(debtRepo port.DebtRepository, calendar Calendar) *GetDebtUseCase {
	return &GetDebtUseCase{debtRepo: debtRepo, calendar: calendar}
}

// Execute returns the debt as of today.
func (uc *GetDebtUseCase) Execute(
	ctx context.Context,
	req dto.GetDebtRequest,
) (dto.DebtResponse, error) {
	debt, err := uc.debtRepo.FindByID(ctx, req.OwnerID, req.DebtID)
	if err != nil {
		return dto.DebtResponse{}, fmt.Errorf("find debt: %w", err)
	}
	return toDebtResponse(debt, uc.calendar.today()), nil
}

// ListDebtsUseCase lists every debt of an owner.
type ListDebtsUseCase struct {
	debtRepo port.DebtRepository
	calendar Calendar
}

// NewListDebtsUseCase wires dependencies.
func NewListDebtsUseCase(debtRepo port.DebtRepository, calendar Calendar) *ListDebtsUseCase {
	return &ListDebtsUseCase{debtRepo: debtRepo, calendar: calendar}
}

// Execute returns the owner's debts newest first.
func (uc *ListDebtsUseCase) Execute(
	ctx context.Context,
	req dto.ListDebtsRequest,
) (dto.ListDebtsResponse, error) {
	debts, err := uc.debtRepo.ListByOwner(ctx, req.OwnerID)
	if err != nil {
		return dto.ListDebtsResponse{}, fmt.Errorf("list debts: %w", err)
	}

	sort.SliceStable(debts, func(i, j int) bool {
		return debts[i].CreatedAt().After(debts[j].CreatedAt())
	})

	today := uc.calendar.today()
	resp := dto.ListDebtsResponse{Debts: make([]dto.DebtResponse, 0, len(debts))}
	for _, d := range debts {
		resp.Debts = append(resp.Debts, toDebtResponse(d, today))
	}
	return resp, nil
}
