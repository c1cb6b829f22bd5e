package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/domain/model"
	pgutil "github.com/BuildZone-Tech/gerenciador-de-dividas/pkg/postgres"
)

const paymentColumns = `
	id, debt_id, owner_id, paid_at, amount, method, note,
	installment_id, recurring_sequence, created_at`

// PaymentRepo implements port.PaymentRepository. Rows are never updated.
type PaymentRepo struct {
	pool *pgxpool.Pool
}

// NewPaymentRepo creates a new PostgreSQL-backed payment log.
func NewPaymentRepo(pool *pgxpool.Pool) *PaymentRepo {
	return &PaymentRepo{pool: pool}
}

// Append adds a payment record to the log.
func (r *PaymentRepo) Append(ctx context.Context, p model.PaymentRecord) error {
	q := pgutil.QuerierFrom(ctx, r.pool)

	_, err := q.Exec(ctx, `
		INSERT INTO payments (`+paymentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID(), p.DebtID(), p.OwnerID(), p.PaidAt(), p.Amount(), p.Method(), p.Note(),
		nullableString(p.InstallmentID()), p.RecurringSequence(), p.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// FindByID retrieves one payment of an owner.
func (r *PaymentRepo) FindByID(ctx context.Context, ownerID, id string) (model.PaymentRecord, error) {
	q := pgutil.QuerierFrom(ctx, r.pool)

	p, err := scanPayment(q.QueryRow(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE owner_id = $1 AND id = $2`, ownerID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.PaymentRecord{}, model.ErrPaymentNotFound
	}
	return p, err
}

// ListByDebt returns the debt's payments in the order they were logged.
func (r *PaymentRepo) ListByDebt(ctx context.Context, ownerID, debtID string) ([]model.PaymentRecord, error) {
	return r.list(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE owner_id = $1 AND debt_id = $2
		ORDER BY seq`, ownerID, debtID)
}

// ListByOwner returns the owner's payments made at or after since, oldest
// first. A zero since returns the full history.
func (r *PaymentRepo) ListByOwner(ctx context.Context, ownerID string, since time.Time) ([]model.PaymentRecord, error) {
	return r.list(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE owner_id = $1 AND ($2::timestamptz IS NULL OR paid_at >= $2)
		ORDER BY paid_at, seq`, ownerID, nullableTime(since))
}

// CountByDebt returns the number of payments logged for a debt.
func (r *PaymentRepo) CountByDebt(ctx context.Context, ownerID, debtID string) (int, error) {
	q := pgutil.QuerierFrom(ctx, r.pool)

	var n int
	err := q.QueryRow(ctx, `
		SELECT count(*) FROM payments WHERE owner_id = $1 AND debt_id = $2`,
		ownerID, debtID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count payments: %w", err)
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// internal helpers
// ---------------------------------------------------------------------------

func (r *PaymentRepo) list(ctx context.Context, query string, args ...any) ([]model.PaymentRecord, error) {
	q := pgutil.QuerierFrom(ctx, r.pool)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	var out []model.PaymentRecord
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPayment(s scannable) (model.PaymentRecord, error) {
	var (
		id, debtID, ownerID, method, note string
		installmentID                     *string
		paidAt, createdAt                 time.Time
		amount                            decimal.Decimal
		sequence                          int
	)

	err := s.Scan(&id, &debtID, &ownerID, &paidAt, &amount, &method, &note, &installmentID, &sequence, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.PaymentRecord{}, err
	}
	if err != nil {
		return model.PaymentRecord{}, fmt.Errorf("scan payment: %w", err)
	}

	return model.ReconstructPaymentRecord(
		id, debtID, ownerID, paidAt.UTC(), amount, method, note,
		derefString(installmentID), sequence, createdAt.UTC(),
	), nil
}
