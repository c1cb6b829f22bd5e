package grpc

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/domain/model"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/pkg/auth"
)

func ownerContext(owner string) context.Context {
	return auth.ContextWithClaims(context.Background(), &auth.Claims{
		OwnerID: owner,
		Roles:   []string{auth.RoleOwner},
	})
}

func TestToStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code codes.Code
	}{
		{"invalid input", fmt.Errorf("create debt: %w", model.InvalidInput("name is required")), codes.InvalidArgument},
		{"not found", fmt.Errorf("load debt: %w", model.ErrDebtNotFound), codes.NotFound},
		{"conflict", model.ErrDebtAlreadyPaid, codes.FailedPrecondition},
		{"precondition", model.ErrTargetInstallmentRequired, codes.FailedPrecondition},
		{"canceled", fmt.Errorf("save: %w", context.Canceled), codes.Canceled},
		{"infrastructure", errors.New("connection refused"), codes.Internal},
		{"already a status", status.Error(codes.Unauthenticated, "nope"), codes.Unauthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, status.Code(toStatus(tt.err)))
		})
	}

	t.Run("internal errors hide details", func(t *testing.T) {
		st, _ := status.FromError(toStatus(errors.New("pq: password authentication failed")))
		assert.Equal(t, "internal error", st.Message())
	})

	t.Run("rejection reason drops the step chain", func(t *testing.T) {
		err := fmt.Errorf("apply payment: %w", model.InvalidInput("amount must be positive"))
		st, _ := status.FromError(toStatus(err))
		assert.Equal(t, "amount must be positive", st.Message())
	})
}

func TestReceivablesHandler_RequiresOwner(t *testing.T) {
	h := newTestHandler(newMemStore())

	_, err := h.ListDebts(context.Background(), &ListDebtsRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = h.PreviewSchedule(context.Background(), &PreviewScheduleRequest{Principal: "100", InstallmentCount: 2})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestReceivablesHandler_CreateDebt(t *testing.T) {
	t.Run("fixed schedule", func(t *testing.T) {
		h := newTestHandler(newMemStore())

		resp, err := h.CreateDebt(ownerContext("owner-1"), &CreateDebtRequest{
			Name:             "  Carlos  ",
			Scheme:           "FIXED_SCHEDULE",
			Amount:           "1000.00",
			InstallmentCount: 3,
			FirstDueDate:     "2024-01-31",
		})
		require.NoError(t, err)

		assert.Equal(t, "Carlos", resp.Name)
		assert.Equal(t, "owner-1", resp.OwnerID)
		require.Len(t, resp.Installments, 3)
		assert.Equal(t, "2024-02-29", resp.Installments[1].DueDate.Format("2006-01-02"))
		assert.True(t, resp.Installments[2].AmountDue.Equal(decimal.RequireFromString("333.34")))
	})

	t.Run("malformed amount", func(t *testing.T) {
		h := newTestHandler(newMemStore())

		_, err := h.CreateDebt(ownerContext("owner-1"), &CreateDebtRequest{
			Name: "Carlos", Scheme: "SINGLE", Amount: "12,50",
		})
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	t.Run("sub-cent amount", func(t *testing.T) {
		h := newTestHandler(newMemStore())

		_, err := h.CreateDebt(ownerContext("owner-1"), &CreateDebtRequest{
			Name: "Carlos", Scheme: "SINGLE", Amount: "10.005",
		})
		require.Error(t, err)
		st, _ := status.FromError(err)
		assert.Equal(t, codes.InvalidArgument, st.Code())
		assert.Contains(t, st.Message(), "2 decimal places")
	})

	t.Run("installment count above maximum", func(t *testing.T) {
		store := newMemStore()
		h := newTestHandler(store)

		_, err := h.CreateDebt(ownerContext("owner-1"), &CreateDebtRequest{
			Name: "Carlos", Scheme: "FIXED_SCHEDULE", Amount: "1000.00",
			InstallmentCount: 2_000_000_000, FirstDueDate: "2024-01-31",
		})
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
		assert.Empty(t, store.debts)
	})

	t.Run("malformed due date", func(t *testing.T) {
		h := newTestHandler(newMemStore())

		_, err := h.CreateDebt(ownerContext("owner-1"), &CreateDebtRequest{
			Name: "Carlos", Scheme: "FIXED_SCHEDULE", Amount: "100", InstallmentCount: 2, FirstDueDate: "31/01/2024",
		})
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	t.Run("unknown scheme", func(t *testing.T) {
		h := newTestHandler(newMemStore())

		_, err := h.CreateDebt(ownerContext("owner-1"), &CreateDebtRequest{
			Name: "Carlos", Scheme: "WEEKLY", Amount: "100",
		})
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})
}

func TestReceivablesHandler_RecordPayment(t *testing.T) {
	store := newMemStore()
	h := newTestHandler(store)
	ctx := ownerContext("owner-1")

	debt, err := h.CreateDebt(ctx, &CreateDebtRequest{Name: "Ana", Scheme: "SINGLE", Amount: "500.00"})
	require.NoError(t, err)

	t.Run("overpayment reports the remaining balance", func(t *testing.T) {
		_, err := h.RecordPayment(ctx, &RecordPaymentRequest{DebtID: debt.ID, Amount: "500.01"})
		require.Error(t, err)
		st, _ := status.FromError(err)
		assert.Equal(t, codes.FailedPrecondition, st.Code())
		assert.Contains(t, st.Message(), "500.00")
		assert.Empty(t, store.payments)
	})

	t.Run("sub-cent payment is rejected before it is recorded", func(t *testing.T) {
		_, err := h.RecordPayment(ctx, &RecordPaymentRequest{DebtID: debt.ID, Amount: "0.001"})
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
		assert.Empty(t, store.payments)
	})

	t.Run("full payment settles the debt", func(t *testing.T) {
		resp, err := h.RecordPayment(ctx, &RecordPaymentRequest{
			DebtID: debt.ID,
			Amount: "500.00",
			Method: "PIX",
			PaidAt: "2024-03-01T10:00:00Z",
			Issuer: Issuer{ReceivedBy: "Dra. Souza"},
		})
		require.NoError(t, err)

		assert.Equal(t, "PAID", resp.Debt.Status)
		assert.Equal(t, "Dra. Souza", resp.Receipt.ReceivedBy)
		require.NotNil(t, resp.Receipt.NewBalance)
		assert.True(t, resp.Receipt.NewBalance.IsZero())
	})

	t.Run("further payments are rejected", func(t *testing.T) {
		_, err := h.RecordPayment(ctx, &RecordPaymentRequest{DebtID: debt.ID, Amount: "1.00"})
		assert.Equal(t, codes.FailedPrecondition, status.Code(err))
	})

	t.Run("receipt can be rebuilt", func(t *testing.T) {
		history, err := h.ListPayments(ctx, &ListPaymentsRequest{DebtID: debt.ID})
		require.NoError(t, err)
		require.Len(t, history.Payments, 1)

		receipt, err := h.GetReceipt(ctx, &GetReceiptRequest{PaymentID: history.Payments[0].ID})
		require.NoError(t, err)
		assert.Equal(t, "Ana", receipt.DebtorName)
	})

	t.Run("malformed paid_at", func(t *testing.T) {
		_, err := h.RecordPayment(ctx, &RecordPaymentRequest{DebtID: debt.ID, Amount: "1.00", PaidAt: "yesterday"})
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	t.Run("missing debt id", func(t *testing.T) {
		_, err := h.RecordPayment(ctx, &RecordPaymentRequest{Amount: "1.00"})
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})
}

func TestReceivablesHandler_OwnerScoping(t *testing.T) {
	h := newTestHandler(newMemStore())

	debt, err := h.CreateDebt(ownerContext("owner-1"), &CreateDebtRequest{Name: "Ana", Scheme: "SINGLE", Amount: "50"})
	require.NoError(t, err)

	_, err = h.GetDebt(ownerContext("owner-2"), &GetDebtRequest{DebtID: debt.ID})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = h.DeleteDebt(ownerContext("owner-2"), &DeleteDebtRequest{DebtID: debt.ID})
	assert.Equal(t, codes.NotFound, status.Code(err))

	list, err := h.ListDebts(ownerContext("owner-2"), &ListDebtsRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Debts)
}

func TestReceivablesHandler_Summary(t *testing.T) {
	h := newTestHandler(newMemStore())
	ctx := ownerContext("owner-1")

	debt, err := h.CreateDebt(ctx, &CreateDebtRequest{Name: "Ana", Scheme: "SINGLE", Amount: "300"})
	require.NoError(t, err)
	_, err = h.RecordPayment(ctx, &RecordPaymentRequest{DebtID: debt.ID, Amount: "100"})
	require.NoError(t, err)

	summary, err := h.GetPortfolioSummary(ctx, &GetPortfolioSummaryRequest{})
	require.NoError(t, err)
	assert.True(t, summary.TotalPaid.Equal(decimal.NewFromInt(100)))
	assert.True(t, summary.TotalRemaining.Equal(decimal.NewFromInt(200)))

	reconciled, err := h.ReconcileDebt(ctx, &ReconcileDebtRequest{DebtID: debt.ID})
	require.NoError(t, err)
	assert.False(t, reconciled.Drifted)
}
