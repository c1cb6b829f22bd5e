package grpc

import (
	"context"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/application/dto"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/application/usecase"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/pkg/auth"
)

// UseCases groups the application operations the handler exposes.
type UseCases struct {
	CreateDebt      *usecase.CreateDebtUseCase
	GetDebt         *usecase.GetDebtUseCase
	ListDebts       *usecase.ListDebtsUseCase
	DeleteDebt      *usecase.DeleteDebtUseCase
	PreviewSchedule *usecase.PreviewScheduleUseCase
	RecordPayment   *usecase.RecordPaymentUseCase
	ListPayments    *usecase.ListPaymentsUseCase
	Summary         *usecase.GetPortfolioSummaryUseCase
	ReconcileDebt   *usecase.ReconcileDebtUseCase
	GetReceipt      *usecase.GetReceiptUseCase
}

// ReceivablesHandler implements ReceivablesServiceServer. Every call acts for
// the owner carried by the authenticated token.
type ReceivablesHandler struct {
	UnimplementedReceivablesServiceServer
	uc     UseCases
	logger *slog.Logger
}

// NewReceivablesHandler creates a new handler with all use-case dependencies.
func NewReceivablesHandler(uc UseCases, logger *slog.Logger) *ReceivablesHandler {
	return &ReceivablesHandler{uc: uc, logger: logger}
}

func (h *ReceivablesHandler) CreateDebt(ctx context.Context, req *CreateDebtRequest) (*dto.DebtResponse, error) {
	owner, err := ownerOf(ctx)
	if err != nil {
		return nil, err
	}
	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		return nil, err
	}
	recurringAmount, err := parseAmount("recurring_amount", req.RecurringAmount)
	if err != nil {
		return nil, err
	}
	firstDue, err := parseDate("first_due_date", req.FirstDueDate)
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.CreateDebt.Execute(ctx, dto.CreateDebtRequest{
		OwnerID:          owner,
		Name:             req.Name,
		Note:             req.Note,
		Scheme:           req.Scheme,
		RecurringReason:  req.RecurringReason,
		Amount:           amount,
		Currency:         req.Currency,
		InstallmentCount: int(req.InstallmentCount),
		FirstDueDate:     firstDue,
		RecurringAmount:  recurringAmount,
		RecurringDay:     int(req.RecurringDay),
	})
	if err != nil {
		return nil, h.fail(ctx, "CreateDebt", err)
	}
	return &resp, nil
}

func (h *ReceivablesHandler) GetDebt(ctx context.Context, req *GetDebtRequest) (*dto.DebtResponse, error) {
	owner, err := ownerOf(ctx)
	if err != nil {
		return nil, err
	}
	if req.DebtID == "" {
		return nil, invalidArgument("debt_id is required")
	}

	resp, err := h.uc.GetDebt.Execute(ctx, dto.GetDebtRequest{OwnerID: owner, DebtID: req.DebtID})
	if err != nil {
		return nil, h.fail(ctx, "GetDebt", err)
	}
	return &resp, nil
}

func (h *ReceivablesHandler) ListDebts(ctx context.Context, _ *ListDebtsRequest) (*dto.ListDebtsResponse, error) {
	owner, err := ownerOf(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.ListDebts.Execute(ctx, dto.ListDebtsRequest{OwnerID: owner})
	if err != nil {
		return nil, h.fail(ctx, "ListDebts", err)
	}
	return &resp, nil
}

func (h *ReceivablesHandler) DeleteDebt(ctx context.Context, req *DeleteDebtRequest) (*dto.DeleteDebtResponse, error) {
	owner, err := ownerOf(ctx)
	if err != nil {
		return nil, err
	}
	if req.DebtID == "" {
		return nil, invalidArgument("debt_id is required")
	}

	resp, err := h.uc.DeleteDebt.Execute(ctx, dto.DeleteDebtRequest{OwnerID: owner, DebtID: req.DebtID})
	if err != nil {
		return nil, h.fail(ctx, "DeleteDebt", err)
	}
	return &resp, nil
}

// PreviewSchedule needs an authenticated caller but touches no owner data.
func (h *ReceivablesHandler) PreviewSchedule(ctx context.Context, req *PreviewScheduleRequest) (*dto.ScheduleResponse, error) {
	if _, err := ownerOf(ctx); err != nil {
		return nil, err
	}
	principal, err := parseAmount("principal", req.Principal)
	if err != nil {
		return nil, err
	}
	firstDue, err := parseDate("first_due_date", req.FirstDueDate)
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.PreviewSchedule.Execute(ctx, dto.PreviewScheduleRequest{
		Principal:        principal,
		InstallmentCount: int(req.InstallmentCount),
		FirstDueDate:     firstDue,
	})
	if err != nil {
		return nil, h.fail(ctx, "PreviewSchedule", err)
	}
	return &resp, nil
}

func (h *ReceivablesHandler) RecordPayment(ctx context.Context, req *RecordPaymentRequest) (*dto.RecordPaymentResponse, error) {
	owner, err := ownerOf(ctx)
	if err != nil {
		return nil, err
	}
	if req.DebtID == "" {
		return nil, invalidArgument("debt_id is required")
	}
	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		return nil, err
	}
	paidAt, err := parseInstant("paid_at", req.PaidAt)
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.RecordPayment.Execute(ctx, dto.RecordPaymentRequest{
		OwnerID:       owner,
		DebtID:        req.DebtID,
		Amount:        amount,
		Method:        req.Method,
		Note:          req.Note,
		InstallmentID: req.InstallmentID,
		PaidAt:        paidAt,
		Issuer:        toIssuerRequest(req.Issuer),
	})
	if err != nil {
		return nil, h.fail(ctx, "RecordPayment", err)
	}
	return &resp, nil
}

func (h *ReceivablesHandler) ListPayments(ctx context.Context, req *ListPaymentsRequest) (*dto.ListPaymentsResponse, error) {
	owner, err := ownerOf(ctx)
	if err != nil {
		return nil, err
	}
	if req.DebtID == "" {
		return nil, invalidArgument("debt_id is required")
	}

	resp, err := h.uc.ListPayments.Execute(ctx, dto.ListPaymentsRequest{OwnerID: owner, DebtID: req.DebtID})
	if err != nil {
		return nil, h.fail(ctx, "ListPayments", err)
	}
	return &resp, nil
}

func (h *ReceivablesHandler) GetPortfolioSummary(ctx context.Context, _ *GetPortfolioSummaryRequest) (*dto.PortfolioSummaryResponse, error) {
	owner, err := ownerOf(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.Summary.Execute(ctx, dto.PortfolioSummaryRequest{OwnerID: owner})
	if err != nil {
		return nil, h.fail(ctx, "GetPortfolioSummary", err)
	}
	return &resp, nil
}

func (h *ReceivablesHandler) ReconcileDebt(ctx context.Context, req *ReconcileDebtRequest) (*dto.ReconcileDebtResponse, error) {
	owner, err := ownerOf(ctx)
	if err != nil {
		return nil, err
	}
	if req.DebtID == "" {
		return nil, invalidArgument("debt_id is required")
	}

	resp, err := h.uc.ReconcileDebt.Execute(ctx, dto.ReconcileDebtRequest{OwnerID: owner, DebtID: req.DebtID})
	if err != nil {
		return nil, h.fail(ctx, "ReconcileDebt", err)
	}
	return &resp, nil
}

func (h *ReceivablesHandler) GetReceipt(ctx context.Context, req *GetReceiptRequest) (*dto.ReceiptResponse, error) {
	owner, err := ownerOf(ctx)
	if err != nil {
		return nil, err
	}
	if req.PaymentID == "" {
		return nil, invalidArgument("payment_id is required")
	}

	resp, err := h.uc.GetReceipt.Execute(ctx, dto.GetReceiptRequest{
		OwnerID:   owner,
		PaymentID: req.PaymentID,
		Issuer:    toIssuerRequest(req.Issuer),
	})
	if err != nil {
		return nil, h.fail(ctx, "GetReceipt", err)
	}
	return &resp, nil
}

// fail converts err to a status, logging the errors callers never see in full.
func (h *ReceivablesHandler) fail(ctx context.Context, method string, err error) error {
	st := toStatus(err)
	if status.Code(st) == codes.Internal {
		h.logger.ErrorContext(ctx, "request failed", "method", method, "error", err)
	}
	return st
}

func ownerOf(ctx context.Context) (string, error) {
	owner := auth.OwnerFromContext(ctx)
	if owner == "" {
		return "", status.Error(codes.Unauthenticated, "no owner in credentials")
	}
	return owner, nil
}

func toIssuerRequest(i Issuer) dto.IssuerRequest {
	return dto.IssuerRequest{
		ReceivedBy: i.ReceivedBy,
		OfficeName: i.OfficeName,
		LogoURL:    i.LogoURL,
	}
}
