package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/application/dto"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/application/usecase"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/domain/model"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/domain/service"
)

func TestGetReceipt_Execute(t *testing.T) {
	debt := singleDebt(t, "1000")
	first, err := debt.ApplyPayment(model.PaymentRequest{Amount: dec("300")}, 0, testNow.AddDate(0, 0, -2), time.UTC)
	require.NoError(t, err)
	second, err := first.Debt.ApplyPayment(model.PaymentRequest{Amount: dec("200")}, 1, testNow, time.UTC)
	require.NoError(t, err)
	current := second.Debt.ClearEvents()
	log := []model.PaymentRecord{first.Payment, second.Payment}

	debts := &mockDebtRepository{
		findByIDFunc: func(ctx context.Context, owner, id string) (model.Debt, error) { return current, nil },
	}
	payments := &mockPaymentRepository{
		findByIDFunc: func(ctx context.Context, owner, id string) (model.PaymentRecord, error) {
			for _, p := range log {
				if p.ID() == id {
					return p, nil
				}
			}
			return model.PaymentRecord{}, model.ErrPaymentNotFound
		},
		listByDebtFunc: func(ctx context.Context, owner, debtID string) ([]model.PaymentRecord, error) { return log, nil },
	}
	uc := usecase.NewGetReceiptUseCase(debts, payments, service.NewReceiptBuilder(time.UTC, ""))

	t.Run("rebuilds balances as of the payment", func(t *testing.T) {
		resp, err := uc.Execute(context.Background(), dto.GetReceiptRequest{
			OwnerID: ownerID, PaymentID: first.Payment.ID(), Issuer: dto.IssuerRequest{LogoURL: "https://x/logo.png"},
		})

		require.NoError(t, err)
		assert.Equal(t, first.Payment.ID(), resp.PaymentID)
		assert.True(t, resp.TotalPaidBefore.IsZero())
		assert.True(t, dec("300").Equal(resp.CumulativePaid))
		require.NotNil(t, resp.NewBalance)
		assert.True(t, dec("700").Equal(*resp.NewBalance))
		assert.Equal(t, "https://x/logo.png", resp.LogoURL)
		assert.Contains(t, resp.ID, "REC-20240113-")
	})

	t.Run("later payment sees earlier ones", func(t *testing.T) {
		resp, err := uc.Execute(context.Background(), dto.GetReceiptRequest{OwnerID: ownerID, PaymentID: second.Payment.ID()})

		require.NoError(t, err)
		assert.True(t, dec("300").Equal(resp.TotalPaidBefore))
		require.NotNil(t, resp.BalanceBefore)
		assert.True(t, dec("700").Equal(*resp.BalanceBefore))
		assert.True(t, dec("500").Equal(*resp.NewBalance))
	})

	t.Run("unknown payment is not found", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), dto.GetReceiptRequest{OwnerID: ownerID, PaymentID: "missing"})

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrPaymentNotFound)
	})

	t.Run("payment missing from the debt log is not found", func(t *testing.T) {
		stale := &mockPaymentRepository{
			findByIDFunc: payments.findByIDFunc,
			listByDebtFunc: func(ctx context.Context, owner, debtID string) ([]model.PaymentRecord, error) {
				return log[:1], nil
			},
		}
		uc := usecase.NewGetReceiptUseCase(debts, stale, service.NewReceiptBuilder(time.UTC, ""))

		_, err := uc.Execute(context.Background(), dto.GetReceiptRequest{OwnerID: ownerID, PaymentID: second.Payment.ID()})

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrPaymentNotFound)
	})
}
