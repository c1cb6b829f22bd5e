package usecase

import (
	"context"
	"fmt"

	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/application/dto"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/domain/port"
)

// ListPaymentsUseCase returns the payment history of one debt.
type ListPaymentsUseCase struct {
	debtRepo    port.DebtRepository
	paymentRepo port.PaymentRepository
}

// NewListPaymentsUseCase wires dependencies.
func NewListPaymentsUseCase(debtRepo port.DebtRepository, paymentRepo port.PaymentRepository) *ListPaymentsUseCase {
	return &ListPaymentsUseCase{debtRepo: debtRepo, paymentRepo: paymentRepo}
}

// Execute returns the debt's payments newest first, annotated with the
// installment number they settled against.
func (uc *ListPaymentsUseCase) Execute(
	ctx context.Context,
	req dto.ListPaymentsRequest,
) (dto.ListPaymentsResponse, error) {
	debt, err := uc.debtRepo.FindByID(ctx, req.OwnerID, req.DebtID)
	if err != nil {
		return dto.ListPaymentsResponse{}, fmt.Errorf("find debt: %w", err)
	}

	payments, err := uc.paymentRepo.ListByDebt(ctx, req.OwnerID, req.DebtID)
	if err != nil {
		return dto.ListPaymentsResponse{}, fmt.Errorf("list payments: %w", err)
	}

	resp := dto.ListPaymentsResponse{Payments: make([]dto.PaymentResponse, 0, len(payments))}
	for i := len(payments) - 1; i >= 0; i-- {
		resp.Payments = append(resp.Payments, toPaymentResponse(payments[i], debt))
	}
	return resp, nil
}
