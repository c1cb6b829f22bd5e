package grpc

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/application/usecase"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/domain/model"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/domain/service"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/pkg/events"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/pkg/money"
)

// memStore backs every port with maps so handler tests run the real use cases.
type memStore struct {
	mu       sync.Mutex
	debts    map[string]model.Debt
	payments []model.PaymentRecord
	outbox   []events.OutboxEntry
}

func newMemStore() *memStore {
	return &memStore{debts: make(map[string]model.Debt)}
}

type memDebts struct{ s *memStore }

func (r memDebts) Create(_ context.Context, d model.Debt) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.debts[d.ID()] = d
	return nil
}

func (r memDebts) FindByID(_ context.Context, ownerID, id string) (model.Debt, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.debts[id]
	if !ok || d.OwnerID() != ownerID {
		return model.Debt{}, model.ErrDebtNotFound
	}
	return d, nil
}

func (r memDebts) FindForUpdate(ctx context.Context, ownerID, id string) (model.Debt, error) {
	return r.FindByID(ctx, ownerID, id)
}

func (r memDebts) ListByOwner(_ context.Context, ownerID string) ([]model.Debt, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Debt
	for _, d := range r.s.debts {
		if d.OwnerID() == ownerID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r memDebts) Update(_ context.Context, d model.Debt) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.debts[d.ID()] = d
	return nil
}

func (r memDebts) Delete(_ context.Context, ownerID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.debts[id]
	if !ok || d.OwnerID() != ownerID {
		return model.ErrDebtNotFound
	}
	delete(r.s.debts, id)
	return nil
}

type memPayments struct{ s *memStore }

func (r memPayments) Append(_ context.Context, p model.PaymentRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.payments = append(r.s.payments, p)
	return nil
}

func (r memPayments) FindByID(_ context.Context, ownerID, id string) (model.PaymentRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.payments {
		if p.ID() == id && p.OwnerID() == ownerID {
			return p, nil
		}
	}
	return model.PaymentRecord{}, model.ErrPaymentNotFound
}

func (r memPayments) ListByDebt(_ context.Context, ownerID, debtID string) ([]model.PaymentRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.PaymentRecord
	for _, p := range r.s.payments {
		if p.DebtID() == debtID && p.OwnerID() == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r memPayments) ListByOwner(_ context.Context, ownerID string, since time.Time) ([]model.PaymentRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.PaymentRecord
	for _, p := range r.s.payments {
		if p.OwnerID() == ownerID && !p.PaidAt().Before(since) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r memPayments) CountByDebt(ctx context.Context, ownerID, debtID string) (int, error) {
	list, err := r.ListByDebt(ctx, ownerID, debtID)
	return len(list), err
}

type memOutbox struct{ s *memStore }

func (o memOutbox) Store(_ context.Context, entries []events.OutboxEntry) error {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	o.s.outbox = append(o.s.outbox, entries...)
	return nil
}

type inlineUoW struct{}

func (inlineUoW) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

var handlerNow = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestHandler(store *memStore) *ReceivablesHandler {
	debts := memDebts{store}
	payments := memPayments{store}
	outbox := memOutbox{store}
	uow := inlineUoW{}
	cal := usecase.Calendar{Location: time.UTC, Now: func() time.Time { return handlerNow }}
	receipts := service.NewReceiptBuilder(time.UTC, "")
	logger := discardLogger()

	return NewReceivablesHandler(UseCases{
		CreateDebt:      usecase.NewCreateDebtUseCase(debts, outbox, uow, money.BRL, cal, logger),
		GetDebt:         usecase.NewGetDebtUseCase(debts, cal),
		ListDebts:       usecase.NewListDebtsUseCase(debts, cal),
		DeleteDebt:      usecase.NewDeleteDebtUseCase(debts, outbox, uow, logger),
		PreviewSchedule: usecase.NewPreviewScheduleUseCase(),
		RecordPayment:   usecase.NewRecordPaymentUseCase(debts, payments, outbox, uow, receipts, nil, cal, logger),
		ListPayments:    usecase.NewListPaymentsUseCase(debts, payments),
		Summary:         usecase.NewGetPortfolioSummaryUseCase(debts, payments, service.NewReconciliationAggregator(time.UTC), cal),
		ReconcileDebt:   usecase.NewReconcileDebtUseCase(debts, payments, outbox, uow, nil, cal, logger),
		GetReceipt:      usecase.NewGetReceiptUseCase(debts, payments, receipts),
	}, logger)
}
