package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/application/dto"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/application/usecase"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/domain/event"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/domain/model"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/pkg/money"
)

func TestCreateDebt_Execute(t *testing.T) {
	newUseCase := func(repo *mockDebtRepository, outbox *mockOutbox) *usecase.CreateDebtUseCase {
		return usecase.NewCreateDebtUseCase(repo, outbox, &mockUnitOfWork{}, money.BRL, testCalendar(), discardLogger())
	}

	t.Run("creates a fixed schedule with its installments", func(t *testing.T) {
		repo := &mockDebtRepository{}
		outbox := &mockOutbox{}

		resp, err := newUseCase(repo, outbox).Execute(context.Background(), dto.CreateDebtRequest{
			OwnerID:          ownerID,
			Name:             "  João  ",
			Scheme:           "FIXED_SCHEDULE",
			Amount:           dec("1000"),
			InstallmentCount: 3,
			FirstDueDate:     time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC),
		})

		require.NoError(t, err)
		assert.Equal(t, "João", resp.Name)
		assert.Equal(t, "BRL", resp.Currency)
		assert.Equal(t, "UNPAID", resp.Status)
		require.Len(t, resp.Installments, 3)
		assert.True(t, dec("333.33").Equal(resp.Installments[0].AmountDue))
		assert.True(t, dec("333.34").Equal(resp.Installments[2].AmountDue))
		assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), resp.Installments[1].DueDate)
		assert.Equal(t, time.Date(2024, time.March, 29, 0, 0, 0, 0, time.UTC), resp.Installments[2].DueDate)
		require.NotNil(t, resp.NextInstallment)
		assert.Equal(t, 1, resp.NextInstallment.Number)

		require.Len(t, repo.created, 1)
		assert.Equal(t, []string{event.TypeDebtRegistered}, outbox.eventTypes())
		assert.Equal(t, resp.ID, outbox.stored[0].AggregateID)
	})

	t.Run("creates a recurring debt in the requested currency", func(t *testing.T) {
		repo := &mockDebtRepository{}

		resp, err := newUseCase(repo, &mockOutbox{}).Execute(context.Background(), dto.CreateDebtRequest{
			OwnerID:         ownerID,
			Name:            "Ana",
			Scheme:          "RECURRING_OPEN_ENDED",
			RecurringReason: "PROCESS_END",
			Currency:        "USD",
			RecurringAmount: dec("150.00"),
			RecurringDay:    10,
		})

		require.NoError(t, err)
		assert.Equal(t, "USD", resp.Currency)
		assert.Equal(t, "ONGOING", resp.Status)
		assert.Equal(t, "PROCESS_END", resp.RecurringReason)
		assert.Empty(t, resp.Installments)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		tests := []struct {
			name string
			req  dto.CreateDebtRequest
		}{
			{"unknown scheme", dto.CreateDebtRequest{OwnerID: ownerID, Name: "x", Scheme: "WEEKLY", Amount: dec("10")}},
			{"unknown reason", dto.CreateDebtRequest{OwnerID: ownerID, Name: "x", Scheme: "RECURRING_OPEN_ENDED", RecurringReason: "FOREVER", RecurringAmount: dec("1"), RecurringDay: 1}},
			{"bad currency", dto.CreateDebtRequest{OwnerID: ownerID, Name: "x", Scheme: "SINGLE", Amount: dec("10"), Currency: "real"}},
			{"blank name", dto.CreateDebtRequest{OwnerID: ownerID, Name: "  ", Scheme: "SINGLE", Amount: dec("10")}},
			{"zero amount", dto.CreateDebtRequest{OwnerID: ownerID, Name: "x", Scheme: "SINGLE"}},
			{"recurring day out of range", dto.CreateDebtRequest{OwnerID: ownerID, Name: "x", Scheme: "RECURRING_OPEN_ENDED", RecurringReason: "DECISION_BASED", RecurringAmount: dec("1"), RecurringDay: 32}},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				repo := &mockDebtRepository{}
				_, err := newUseCase(repo, &mockOutbox{}).Execute(context.Background(), tc.req)

				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrInvalidInput)
				assert.Empty(t, repo.created)
			})
		}
	})

	t.Run("fails when save fails", func(t *testing.T) {
		repo := &mockDebtRepository{
			createFunc: func(ctx context.Context, d model.Debt) error {
				return fmt.Errorf("database unavailable")
			},
		}
		outbox := &mockOutbox{}

		_, err := newUseCase(repo, outbox).Execute(context.Background(), dto.CreateDebtRequest{
			OwnerID: ownerID, Name: "Maria", Scheme: "SINGLE", Amount: dec("10"),
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "save debt")
		assert.Empty(t, outbox.stored)
	})
}
