package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/application/usecase"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/domain/model"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/domain/valueobject"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/pkg/events"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/pkg/money"
)

const ownerID = "owner-001"

var testNow = time.Date(2024, time.January, 15, 14, 30, 0, 0, time.UTC)

func testCalendar() usecase.Calendar {
	return usecase.Calendar{Location: time.UTC, Now: func() time.Time { return testNow }}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func singleDebt(t *testing.T, amount string) model.Debt {
	t.Helper()
	d, err := model.NewDebt(model.DebtParams{
		OwnerID:  ownerID,
		Name:     "Maria",
		Scheme:   valueobject.SchemeSingle,
		Amount:   dec(amount),
		Currency: money.BRL,
	}, testNow.AddDate(0, 0, -10))
	require.NoError(t, err)
	return d.ClearEvents()
}

func fixedDebt(t *testing.T, principal string, count int) model.Debt {
	t.Helper()
	d, err := model.NewDebt(model.DebtParams{
		OwnerID:          ownerID,
		Name:             "João",
		Scheme:           valueobject.SchemeFixed,
		Amount:           dec(principal),
		Currency:         money.BRL,
		InstallmentCount: count,
		FirstDueDate:     time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC),
	}, testNow.AddDate(0, 0, -10))
	require.NoError(t, err)
	return d.ClearEvents()
}

func recurringDebt(t *testing.T, amount string) model.Debt {
	t.Helper()
	d, err := model.NewDebt(model.DebtParams{
		OwnerID:         ownerID,
		Name:            "Ana",
		Scheme:          valueobject.SchemeRecurring,
		RecurringReason: valueobject.RecurringUntilDecision,
		Currency:        money.BRL,
		RecurringAmount: dec(amount),
		RecurringDay:    5,
	}, testNow.AddDate(0, 0, -10))
	require.NoError(t, err)
	return d.ClearEvents()
}

// ---------------------------------------------------------------------------
// Port mocks
// ---------------------------------------------------------------------------

type mockDebtRepository struct {
	createFunc        func(ctx context.Context, debt model.Debt) error
	findByIDFunc      func(ctx context.Context, ownerID, id string) (model.Debt, error)
	findForUpdateFunc func(ctx context.Context, ownerID, id string) (model.Debt, error)
	listByOwnerFunc   func(ctx context.Context, ownerID string) ([]model.Debt, error)
	updateFunc        func(ctx context.Context, debt model.Debt) error
	deleteFunc        func(ctx context.Context, ownerID, id string) error

	created []model.Debt
	updated []model.Debt
	deleted []string
}

func (m *mockDebtRepository) Create(ctx context.Context, debt model.Debt) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, debt)
	}
	m.created = append(m.created, debt)
	return nil
}

func (m *mockDebtRepository) FindByID(ctx context.Context, ownerID, id string) (model.Debt, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, ownerID, id)
	}
	return model.Debt{}, model.ErrDebtNotFound
}

func (m *mockDebtRepository) FindForUpdate(ctx context.Context, ownerID, id string) (model.Debt, error) {
	if m.findForUpdateFunc != nil {
		return m.findForUpdateFunc(ctx, ownerID, id)
	}
	return m.FindByID(ctx, ownerID, id)
}

func (m *mockDebtRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Debt, error) {
	if m.listByOwnerFunc != nil {
		return m.listByOwnerFunc(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockDebtRepository) Update(ctx context.Context, debt model.Debt) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, debt)
	}
	m.updated = append(m.updated, debt)
	return nil
}

func (m *mockDebtRepository) Delete(ctx context.Context, ownerID, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, ownerID, id)
	}
	m.deleted = append(m.deleted, id)
	return nil
}

type mockPaymentRepository struct {
	appendFunc      func(ctx context.Context, record model.PaymentRecord) error
	findByIDFunc    func(ctx context.Context, ownerID, id string) (model.PaymentRecord, error)
	listByDebtFunc  func(ctx context.Context, ownerID, debtID string) ([]model.PaymentRecord, error)
	listByOwnerFunc func(ctx context.Context, ownerID string, since time.Time) ([]model.PaymentRecord, error)
	countFunc       func(ctx context.Context, ownerID, debtID string) (int, error)

	appended []model.PaymentRecord
}

func (m *mockPaymentRepository) Append(ctx context.Context, record model.PaymentRecord) error {
	if m.appendFunc != nil {
		return m.appendFunc(ctx, record)
	}
	m.appended = append(m.appended, record)
	return nil
}

func (m *mockPaymentRepository) FindByID(ctx context.Context, ownerID, id string) (model.PaymentRecord, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, ownerID, id)
	}
	return model.PaymentRecord{}, model.ErrPaymentNotFound
}

func (m *mockPaymentRepository) ListByDebt(ctx context.Context, ownerID, debtID string) ([]model.PaymentRecord, error) {
	if m.listByDebtFunc != nil {
		return m.listByDebtFunc(ctx, ownerID, debtID)
	}
	return nil, nil
}

func (m *mockPaymentRepository) ListByOwner(ctx context.Context, ownerID string, since time.Time) ([]model.PaymentRecord, error) {
	if m.listByOwnerFunc != nil {
		return m.listByOwnerFunc(ctx, ownerID, since)
	}
	return nil, nil
}

func (m *mockPaymentRepository) CountByDebt(ctx context.Context, ownerID, debtID string) (int, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, ownerID, debtID)
	}
	return len(m.appended), nil
}

type mockOutbox struct {
	storeFunc func(ctx context.Context, entries []events.OutboxEntry) error
	stored    []events.OutboxEntry
}

func (m *mockOutbox) Store(ctx context.Context, entries []events.OutboxEntry) error {
	if m.storeFunc != nil {
		return m.storeFunc(ctx, entries)
	}
	m.stored = append(m.stored, entries...)
	return nil
}

func (m *mockOutbox) eventTypes() []string {
	out := make([]string, 0, len(m.stored))
	for _, e := range m.stored {
		out = append(out, e.EventType)
	}
	return out
}

// mockUnitOfWork runs fn directly and counts invocations.
type mockUnitOfWork struct {
	calls int
}

func (m *mockUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type mockMetrics struct {
	mu         sync.Mutex
	applied    []decimal.Decimal
	rejections []string
	reconciled []bool
}

func (m *mockMetrics) PaymentApplied(_ context.Context, _, _ string, amount decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.applied = append(m.applied, amount)
}

func (m *mockMetrics) PaymentRejected(_ context.Context, _, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejections = append(m.rejections, reason)
}

func (m *mockMetrics) DebtReconciled(_ context.Context, drifted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reconciled = append(m.reconciled, drifted)
}
