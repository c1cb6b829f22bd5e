package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/application/dto"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/domain/model"
)

// PreviewScheduleUseCase computes a fixed schedule without persisting anything.
type PreviewScheduleUseCase struct{}

// NewPreviewScheduleUseCase creates the use case.
func NewPreviewScheduleUseCase() *PreviewScheduleUseCase {
	return &PreviewScheduleUseCase{}
}

// Execute returns the schedule GenerateSchedule would persist for a debt.
func (uc *PreviewScheduleUseCase) Execute(
	_ context.Context,
	req dto.PreviewScheduleRequest,
) (dto.ScheduleResponse, error) {
	schedule, err := model.GenerateSchedule(req.Principal, req.InstallmentCount, req.FirstDueDate)
	if err != nil {
		return dto.ScheduleResponse{}, fmt.Errorf("generate schedule: %w", err)
	}

	resp := dto.ScheduleResponse{
		Entries: make([]dto.ScheduleEntryResponse, 0, len(schedule)),
		Total:   decimal.Zero,
	}
	for _, inst := range schedule {
		resp.Entries = append(resp.Entries, dto.ScheduleEntryResponse{
			Number:  inst.Number(),
			DueDate: inst.DueDate(),
			Amount:  inst.AmountDue(),
		})
		resp.Total = resp.Total.Add(inst.AmountDue())
	}
	return resp, nil
}
