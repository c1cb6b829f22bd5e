package grpc

// proto.go describes receivables.v1.ReceivablesService by hand. Messages travel
// through the JSON codec registered in json_codec.go.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/application/dto"
)

const serviceName = "receivables.v1.ReceivablesService"

// Full method names, as seen by interceptors.
const (
	MethodCreateDebt          = "/" + serviceName + "/CreateDebt"
	MethodGetDebt             = "/" + serviceName + "/GetDebt"
	MethodListDebts           = "/" + serviceName + "/ListDebts"
	MethodDeleteDebt          = "/" + serviceName + "/DeleteDebt"
	MethodPreviewSchedule     = "/" + serviceName + "/PreviewSchedule"
	MethodRecordPayment       = "/" + serviceName + "/RecordPayment"
	MethodListPayments        = "/" + serviceName + "/ListPayments"
	MethodGetPortfolioSummary = "/" + serviceName + "/GetPortfolioSummary"
	MethodReconcileDebt       = "/" + serviceName + "/ReconcileDebt"
	MethodGetReceipt          = "/" + serviceName + "/GetReceipt"
)

// ---------------------------------------------------------------------------
// Request messages. Amounts are decimal strings, due dates are YYYY-MM-DD and
// paid_at is RFC 3339. Responses reuse the application DTOs.
// ---------------------------------------------------------------------------

type CreateDebtRequest struct {
	Name             string `json:"name"`
	Note             string `json:"note,omitempty"`
	Scheme           string `json:"scheme"`
	RecurringReason  string `json:"recurring_reason,omitempty"`
	Amount           string `json:"amount,omitempty"`
	Currency         string `json:"currency,omitempty"`
	InstallmentCount int32  `json:"installment_count,omitempty"`
	FirstDueDate     string `json:"first_due_date,omitempty"`
	RecurringAmount  string `json:"recurring_amount,omitempty"`
	RecurringDay     int32  `json:"recurring_day,omitempty"`
}

type GetDebtRequest struct {
	DebtID string `json:"debt_id"`
}

type ListDebtsRequest struct{}

type DeleteDebtRequest struct {
	DebtID string `json:"debt_id"`
}

type PreviewScheduleRequest struct {
	Principal        string `json:"principal"`
	InstallmentCount int32  `json:"installment_count"`
	FirstDueDate     string `json:"first_due_date"`
}

// Issuer is the presentation metadata printed on receipts.
type Issuer struct {
	ReceivedBy string `json:"received_by,omitempty"`
	OfficeName string `json:"office_name,omitempty"`
	LogoURL    string `json:"logo_url,omitempty"`
}

type RecordPaymentRequest struct {
	DebtID        string `json:"debt_id"`
	Amount        string `json:"amount"`
	Method        string `json:"method,omitempty"`
	Note          string `json:"note,omitempty"`
	InstallmentID string `json:"installment_id,omitempty"`
	PaidAt        string `json:"paid_at,omitempty"`
	Issuer        Issuer `json:"issuer"`
}

type ListPaymentsRequest struct {
	DebtID string `json:"debt_id"`
}

type GetPortfolioSummaryRequest struct{}

type ReconcileDebtRequest struct {
	DebtID string `json:"debt_id"`
}

type GetReceiptRequest struct {
	PaymentID string `json:"payment_id"`
	Issuer    Issuer `json:"issuer"`
}

// ReceivablesServiceServer is the server API for ReceivablesService.
type ReceivablesServiceServer interface {
	CreateDebt(context.Context, *CreateDebtRequest) (*dto.DebtResponse, error)
	GetDebt(context.Context, *GetDebtRequest) (*dto.DebtResponse, error)
	ListDebts(context.Context, *ListDebtsRequest) (*dto.ListDebtsResponse, error)
	DeleteDebt(context.Context, *DeleteDebtRequest) (*dto.DeleteDebtResponse, error)
	PreviewSchedule(context.Context, *PreviewScheduleRequest) (*dto.ScheduleResponse, error)
	RecordPayment(context.Context, *RecordPaymentRequest) (*dto.RecordPaymentResponse, error)
	ListPayments(context.Context, *ListPaymentsRequest) (*dto.ListPaymentsResponse, error)
	GetPortfolioSummary(context.Context, *GetPortfolioSummaryRequest) (*dto.PortfolioSummaryResponse, error)
	ReconcileDebt(context.Context, *ReconcileDebtRequest) (*dto.ReconcileDebtResponse, error)
	GetReceipt(context.Context, *GetReceiptRequest) (*dto.ReceiptResponse, error)
	mustEmbedUnimplementedReceivablesServiceServer()
}

// UnimplementedReceivablesServiceServer provides forward-compatible default implementations.
type UnimplementedReceivablesServiceServer struct{}

func (UnimplementedReceivablesServiceServer) CreateDebt(context.Context, *CreateDebtRequest) (*dto.DebtResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CreateDebt not implemented")
}
func (UnimplementedReceivablesServiceServer) GetDebt(context.Context, *GetDebtRequest) (*dto.DebtResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetDebt not implemented")
}
func (UnimplementedReceivablesServiceServer) ListDebts(context.Context, *ListDebtsRequest) (*dto.ListDebtsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListDebts not implemented")
}
func (UnimplementedReceivablesServiceServer) DeleteDebt(context.Context, *DeleteDebtRequest) (*dto.DeleteDebtResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method DeleteDebt not implemented")
}
func (UnimplementedReceivablesServiceServer) PreviewSchedule(context.Context, *PreviewScheduleRequest) (*dto.ScheduleResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method PreviewSchedule not implemented")
}
func (UnimplementedReceivablesServiceServer) RecordPayment(context.Context, *RecordPaymentRequest) (*dto.RecordPaymentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RecordPayment not implemented")
}
func (UnimplementedReceivablesServiceServer) ListPayments(context.Context, *ListPaymentsRequest) (*dto.ListPaymentsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListPayments not implemented")
}
func (UnimplementedReceivablesServiceServer) GetPortfolioSummary(context.Context, *GetPortfolioSummaryRequest) (*dto.PortfolioSummaryResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetPortfolioSummary not implemented")
}
func (UnimplementedReceivablesServiceServer) ReconcileDebt(context.Context, *ReconcileDebtRequest) (*dto.ReconcileDebtResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ReconcileDebt not implemented")
}
func (UnimplementedReceivablesServiceServer) GetReceipt(context.Context, *GetReceiptRequest) (*dto.ReceiptResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetReceipt not implemented")
}
func (UnimplementedReceivablesServiceServer) mustEmbedUnimplementedReceivablesServiceServer() {}

// RegisterReceivablesServiceServer registers srv with the gRPC server.
func RegisterReceivablesServiceServer(s grpclib.ServiceRegistrar, srv ReceivablesServiceServer) {
	s.RegisterService(&receivablesServiceDesc, srv)
}

var receivablesServiceDesc = grpclib.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*ReceivablesServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "CreateDebt", Handler: unary(MethodCreateDebt, ReceivablesServiceServer.CreateDebt)},
		{MethodName: "GetDebt", Handler: unary(MethodGetDebt, ReceivablesServiceServer.GetDebt)},
		{MethodName: "ListDebts", Handler: unary(MethodListDebts, ReceivablesServiceServer.ListDebts)},
		{MethodName: "DeleteDebt", Handler: unary(MethodDeleteDebt, ReceivablesServiceServer.DeleteDebt)},
		{MethodName: "PreviewSchedule", Handler: unary(MethodPreviewSchedule, ReceivablesServiceServer.PreviewSchedule)},
		{MethodName: "RecordPayment", Handler: unary(MethodRecordPayment, ReceivablesServiceServer.RecordPayment)},
		{MethodName: "ListPayments", Handler: unary(MethodListPayments, ReceivablesServiceServer.ListPayments)},
		{MethodName: "GetPortfolioSummary", Handler: unary(MethodGetPortfolioSummary, ReceivablesServiceServer.GetPortfolioSummary)},
		{MethodName: "ReconcileDebt", Handler: unary(MethodReconcileDebt, ReceivablesServiceServer.ReconcileDebt)},
		{MethodName: "GetReceipt", Handler: unary(MethodGetReceipt, ReceivablesServiceServer.GetReceipt)},
	},
	Streams: []grpclib.StreamDesc{},
}

// unary adapts a typed service method to the grpc.MethodDesc handler shape.
func unary[Req, Resp any](
	fullMethod string,
	call func(ReceivablesServiceServer, context.Context, *Req) (*Resp, error),
) func(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ReceivablesServiceServer), ctx, in)
		}
		info := &grpclib.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ReceivablesServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}
