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
)

func TestPreviewSchedule_Execute(t *testing.T) {
	uc := usecase.NewPreviewScheduleUseCase()

	t.Run("splits principal and sums exactly", func(t *testing.T) {
		resp, err := uc.Execute(context.Background(), dto.PreviewScheduleRequest{
			Principal:        dec("100"),
			InstallmentCount: 3,
			FirstDueDate:     time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
		})

		require.NoError(t, err)
		require.Len(t, resp.Entries, 3)
		assert.True(t, dec("33.33").Equal(resp.Entries[0].Amount))
		assert.True(t, dec("33.34").Equal(resp.Entries[2].Amount))
		assert.True(t, dec("100").Equal(resp.Total))
		assert.Equal(t, time.Date(2024, time.May, 5, 0, 0, 0, 0, time.UTC), resp.Entries[2].DueDate)
	})

	t.Run("rejects a principal too small to split", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), dto.PreviewScheduleRequest{
			Principal:        dec("0.02"),
			InstallmentCount: 3,
			FirstDueDate:     time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})
}
