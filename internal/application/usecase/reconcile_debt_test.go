package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/application/dto"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/application/usecase"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/domain/event"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/domain/model"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/domain/valueobject"
)

func TestReconcileDebt_Execute(t *testing.T) {
	newUseCase := func(debt model.Debt, log []model.PaymentRecord) (*usecase.ReconcileDebtUseCase, *mockDebtRepository, *mockOutbox, *mockMetrics) {
		debts := &mockDebtRepository{
			findByIDFunc: func(ctx context.Context, owner, id string) (model.Debt, error) { return debt, nil },
		}
		payments := &mockPaymentRepository{
			listByDebtFunc: func(ctx context.Context, owner, debtID string) ([]model.PaymentRecord, error) { return log, nil },
		}
		outbox := &mockOutbox{}
		metrics := &mockMetrics{}
		uc := usecase.NewReconcileDebtUseCase(debts, payments, outbox, &mockUnitOfWork{}, metrics, testCalendar(), discardLogger())
		return uc, debts, outbox, metrics
	}

	t.Run("corrects drifted totals from the log", func(t *testing.T) {
		fresh := fixedDebt(t, "300", 3)
		insts := fresh.Installments()
		// Stored totals claim nothing was paid.
		debt := model.ReconstructDebt(
			fresh.ID(), ownerID, fresh.Name(), "", valueobject.SchemeFixed, valueobject.RecurringReason{},
			fresh.Principal(), fresh.Currency(), dec("0"), dec("0"), 0,
			insts, valueobject.DebtUnpaid, 3, fresh.CreatedAt(), fresh.UpdatedAt(),
		)
		log := []model.PaymentRecord{
			paymentFor(debt, "p1", "100", insts[0].ID(), 0, testNow.AddDate(0, 0, -3)),
			paymentFor(debt, "p2", "40", insts[1].ID(), 0, testNow.AddDate(0, 0, -1)),
		}

		uc, debts, outbox, metrics := newUseCase(debt, log)
		resp, err := uc.Execute(context.Background(), dto.ReconcileDebtRequest{OwnerID: ownerID, DebtID: debt.ID()})

		require.NoError(t, err)
		assert.True(t, resp.Drifted)
		assert.True(t, resp.StoredPaid.IsZero())
		assert.True(t, dec("140").Equal(resp.LedgerPaid))
		require.Len(t, resp.Installments, 2)
		assert.Equal(t, 1, resp.Installments[0].Number)

		assert.True(t, dec("140").Equal(resp.Debt.CumulativePaid))
		assert.Equal(t, "PAID", resp.Debt.Installments[0].Status)
		assert.Equal(t, "PARTIALLY_PAID", resp.Debt.Installments[1].Status)
		assert.Equal(t, "PARTIAL", resp.Debt.Status)

		require.Len(t, debts.updated, 1)
		assert.Equal(t, []string{event.TypeDebtReconciled}, outbox.eventTypes())
		assert.Equal(t, []bool{true}, metrics.reconciled)
	})

	t.Run("consistent debt is left untouched", func(t *testing.T) {
		debt := singleDebt(t, "100")

		uc, debts, outbox, metrics := newUseCase(debt, nil)
		resp, err := uc.Execute(context.Background(), dto.ReconcileDebtRequest{OwnerID: ownerID, DebtID: debt.ID()})

		require.NoError(t, err)
		assert.False(t, resp.Drifted)
		assert.Empty(t, debts.updated)
		assert.Empty(t, outbox.stored)
		assert.Equal(t, []bool{false}, metrics.reconciled)
	})
}
