package port

import (
	"context"
	"time"

	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/domain/model"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/pkg/events"
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// DebtRepository persists debts together with their installments. Every
// lookup is scoped to an owner; a debt of another owner is reported as
// model.ErrDebtNotFound.
type DebtRepository interface {
	Create(ctx context.Context, debt model.Debt) error
	FindByID(ctx context.Context, ownerID, id string) (model.Debt, error)
	// FindForUpdate locks the debt row until the surrounding unit of work ends.
	FindForUpdate(ctx context.Context, ownerID, id string) (model.Debt, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Debt, error)
	// Update writes running totals and status caches. It fails with
	// model.ErrConcurrentUpdate when the stored version moved since debt was read.
	Update(ctx context.Context, debt model.Debt) error
	// Delete removes the debt, its installments and its payment records.
	Delete(ctx context.Context, ownerID, id string) error
}

// PaymentRepository is the append-only payment log.
type PaymentRepository interface {
	Append(ctx context.Context, record model.PaymentRecord) error
	FindByID(ctx context.Context, ownerID, id string) (model.PaymentRecord, error)
	// ListByDebt returns the debt's payments oldest first.
	ListByDebt(ctx context.Context, ownerID, debtID string) ([]model.PaymentRecord, error)
	// ListByOwner returns payments made at or after since, oldest first. A zero
	// since returns the full history.
	ListByOwner(ctx context.Context, ownerID string, since time.Time) ([]model.PaymentRecord, error)
	CountByDebt(ctx context.Context, ownerID, debtID string) (int, error)
}

// UnitOfWork runs fn atomically. Repositories called with the ctx passed to fn
// join the same transaction.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Event outbox port
// ---------------------------------------------------------------------------

// Outbox stores domain events inside the caller's unit of work.
type Outbox interface {
	Store(ctx context.Context, entries []events.OutboxEntry) error
}
