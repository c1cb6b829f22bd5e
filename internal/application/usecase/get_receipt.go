package usecase

import (
	"context"
	"fmt"

	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/application/dto"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/domain/port"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/domain/service"
)

// GetReceiptUseCase rebuilds the receipt of a stored payment.
type GetReceiptUseCase struct {
	debtRepo    port.DebtRepository
	paymentRepo port.PaymentRepository
	receipts    *service.ReceiptBuilder
}

// NewGetReceiptUseCase wires dependencies.
func NewGetReceiptUseCase(
	debtRepo port.DebtRepository,
	paymentRepo port.PaymentRepository,
	receipts *service.ReceiptBuilder,
) *GetReceiptUseCase {
	return &GetReceiptUseCase{
		debtRepo:    debtRepo,
		paymentRepo: paymentRepo,
		receipts:    receipts,
	}
}

// Execute computes balances from the debt's log up to and including the
// payment, so the receipt matches the one issued when it was recorded.
func (uc *GetReceiptUseCase) Execute(
	ctx context.Context,
	req dto.GetReceiptRequest,
) (dto.ReceiptResponse, error) {
	payment, err := uc.paymentRepo.FindByID(ctx, req.OwnerID, req.PaymentID)
	if err != nil {
		return dto.ReceiptResponse{}, fmt.Errorf("find payment: %w", err)
	}

	debt, err := uc.debtRepo.FindByID(ctx, req.OwnerID, payment.DebtID())
	if err != nil {
		return dto.ReceiptResponse{}, fmt.Errorf("find debt: %w", err)
	}

	log, err := uc.paymentRepo.ListByDebt(ctx, req.OwnerID, payment.DebtID())
	if err != nil {
		return dto.ReceiptResponse{}, fmt.Errorf("list payments: %w", err)
	}

	receipt, err := uc.receipts.BuildFromLog(payment, debt, log, toIssuer(req.Issuer))
	if err != nil {
		return dto.ReceiptResponse{}, fmt.Errorf("build receipt: %w", err)
	}
	return toReceiptResponse(receipt), nil
}
