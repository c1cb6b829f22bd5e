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
	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/domain/valueobject"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/pkg/money"
	pgutil "github.com/BuildZone-Tech/gerenciador-de-dividas/pkg/postgres"
)

const debtColumns = `
	id, owner_id, name, note, scheme, recurring_reason,
	principal, currency, cumulative_paid, recurring_amount, recurring_day,
	status, version, created_at, updated_at`

// DebtRepo implements port.DebtRepository.
type DebtRepo struct {
	pool *pgxpool.Pool
}

// NewDebtRepo creates a new PostgreSQL-backed debt repository.
func NewDebtRepo(pool *pgxpool.Pool) *DebtRepo {
	return &DebtRepo{pool: pool}
}

// Create inserts a debt and its installments.
func (r *DebtRepo) Create(ctx context.Context, debt model.Debt) error {
	q := pgutil.QuerierFrom(ctx, r.pool)

	_, err := q.Exec(ctx, `
		INSERT INTO debts (`+debtColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		debt.ID(), debt.OwnerID(), debt.Name(), debt.Note(), debt.Scheme().String(), debt.RecurringReason().String(),
		debt.Principal(), debt.Currency().Code(), debt.CumulativePaid(), debt.RecurringAmount(), debt.RecurringDay(),
		debt.StoredStatus().String(), debt.Version(), debt.CreatedAt(), debt.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("insert debt: %w", err)
	}

	for _, inst := range debt.Installments() {
		_, err := q.Exec(ctx, `
			INSERT INTO installments (id, debt_id, number, due_date, amount_due, amount_paid, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			inst.ID(), debt.ID(), inst.Number(), inst.DueDate(),
			inst.AmountDue(), inst.AmountPaid(), inst.StoredStatus().String(),
		)
		if err != nil {
			return fmt.Errorf("insert installment %d: %w", inst.Number(), err)
		}
	}
	return nil
}

// FindByID retrieves a debt and its installments.
func (r *DebtRepo) FindByID(ctx context.Context, ownerID, id string) (model.Debt, error) {
	return r.findOne(ctx, `SELECT `+debtColumns+` FROM debts WHERE owner_id = $1 AND id = $2`, ownerID, id)
}

// FindForUpdate retrieves a debt and locks its row until the surrounding
// transaction ends. Outside a unit of work the lock is released immediately.
func (r *DebtRepo) FindForUpdate(ctx context.Context, ownerID, id string) (model.Debt, error) {
	return r.findOne(ctx, `SELECT `+debtColumns+` FROM debts WHERE owner_id = $1 AND id = $2 FOR UPDATE`, ownerID, id)
}

// ListByOwner retrieves every debt of an owner, newest first.
func (r *DebtRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.Debt, error) {
	q := pgutil.QuerierFrom(ctx, r.pool)

	rows, err := q.Query(ctx, `
		SELECT `+debtColumns+`
		FROM debts
		WHERE owner_id = $1
		ORDER BY created_at DESC, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query debts: %w", err)
	}
	defer rows.Close()

	var (
		debts []model.Debt
		ids   []string
	)
	for rows.Next() {
		d, err := scanDebt(rows)
		if err != nil {
			return nil, err
		}
		debts = append(debts, d)
		ids = append(ids, d.ID())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate debts: %w", err)
	}
	if len(debts) == 0 {
		return nil, nil
	}

	schedules, err := r.loadInstallments(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i, d := range debts {
		if insts := schedules[d.ID()]; len(insts) > 0 {
			debts[i] = withInstallments(d, insts)
		}
	}
	return debts, nil
}

// Update writes running totals and status caches, bumping the version. It
// fails with model.ErrConcurrentUpdate when the stored version moved.
func (r *DebtRepo) Update(ctx context.Context, debt model.Debt) error {
	q := pgutil.QuerierFrom(ctx, r.pool)

	tag, err := q.Exec(ctx, `
		UPDATE debts SET
			cumulative_paid = $1,
			status          = $2,
			version         = version + 1,
			updated_at      = $3
		WHERE owner_id = $4 AND id = $5 AND version = $6`,
		debt.CumulativePaid(), debt.StoredStatus().String(), debt.UpdatedAt(),
		debt.OwnerID(), debt.ID(), debt.Version(),
	)
	if err != nil {
		return fmt.Errorf("update debt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrConcurrentUpdate
	}

	for _, inst := range debt.Installments() {
		_, err := q.Exec(ctx, `
			UPDATE installments SET amount_paid = $1, status = $2
			WHERE debt_id = $3 AND id = $4`,
			inst.AmountPaid(), inst.StoredStatus().String(), debt.ID(), inst.ID(),
		)
		if err != nil {
			return fmt.Errorf("update installment %d: %w", inst.Number(), err)
		}
	}
	return nil
}

// Delete removes a debt. Installments and payments go with it by cascade.
func (r *DebtRepo) Delete(ctx context.Context, ownerID, id string) error {
	q := pgutil.QuerierFrom(ctx, r.pool)

	tag, err := q.Exec(ctx, `DELETE FROM debts WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return fmt.Errorf("delete debt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrDebtNotFound
	}
	return nil
}

// ---------------------------------------------------------------------------
// internal helpers
// ---------------------------------------------------------------------------

func (r *DebtRepo) findOne(ctx context.Context, query string, args ...any) (model.Debt, error) {
	q := pgutil.QuerierFrom(ctx, r.pool)

	d, err := scanDebt(q.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Debt{}, model.ErrDebtNotFound
	}
	if err != nil {
		return model.Debt{}, err
	}

	schedules, err := r.loadInstallments(ctx, []string{d.ID()})
	if err != nil {
		return model.Debt{}, err
	}
	return withInstallments(d, schedules[d.ID()]), nil
}

func (r *DebtRepo) loadInstallments(ctx context.Context, debtIDs []string) (map[string][]model.Installment, error) {
	q := pgutil.QuerierFrom(ctx, r.pool)

	rows, err := q.Query(ctx, `
		SELECT id, debt_id, number, due_date, amount_due, amount_paid, status
		FROM installments
		WHERE debt_id = ANY($1)
		ORDER BY debt_id, number`, debtIDs)
	if err != nil {
		return nil, fmt.Errorf("query installments: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]model.Installment, len(debtIDs))
	for rows.Next() {
		var (
			id, debtID, statusStr string
			number                int
			dueDate               time.Time
			amountDue, amountPaid decimal.Decimal
		)
		if err := rows.Scan(&id, &debtID, &number, &dueDate, &amountDue, &amountPaid, &statusStr); err != nil {
			return nil, fmt.Errorf("scan installment: %w", err)
		}
		status, err := valueobject.NewInstallmentStatus(statusStr)
		if err != nil {
			return nil, fmt.Errorf("parse installment status: %w", err)
		}
		out[debtID] = append(out[debtID], model.ReconstructInstallment(id, debtID, number, dueDate, amountDue, amountPaid, status))
	}
	return out, rows.Err()
}

func scanDebt(s scannable) (model.Debt, error) {
	var (
		id, ownerID, name, note                 string
		schemeStr, reasonStr, currencyStr       string
		principal, cumulativePaid, recurringAmt decimal.Decimal
		recurringDay, version                   int
		statusStr                               string
		createdAt, updatedAt                    time.Time
	)

	err := s.Scan(
		&id, &ownerID, &name, &note, &schemeStr, &reasonStr,
		&principal, &currencyStr, &cumulativePaid, &recurringAmt, &recurringDay,
		&statusStr, &version, &createdAt, &updatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Debt{}, err
	}
	if err != nil {
		return model.Debt{}, fmt.Errorf("scan debt: %w", err)
	}

	scheme, err := valueobject.NewScheme(schemeStr)
	if err != nil {
		return model.Debt{}, fmt.Errorf("parse scheme: %w", err)
	}
	reason, err := valueobject.NewRecurringReason(reasonStr)
	if err != nil {
		return model.Debt{}, fmt.Errorf("parse recurring reason: %w", err)
	}
	currency, err := money.NewCurrency(currencyStr)
	if err != nil {
		return model.Debt{}, fmt.Errorf("parse currency: %w", err)
	}
	status, err := valueobject.NewDebtStatus(statusStr)
	if err != nil {
		return model.Debt{}, fmt.Errorf("parse debt status: %w", err)
	}

	return model.ReconstructDebt(
		id, ownerID, name, note, scheme, reason,
		principal, currency, cumulativePaid, recurringAmt, recurringDay,
		nil, status, version, createdAt.UTC(), updatedAt.UTC(),
	), nil
}

func withInstallments(d model.Debt, installments []model.Installment) model.Debt {
	return model.ReconstructDebt(
		d.ID(), d.OwnerID(), d.Name(), d.Note(), d.Scheme(), d.RecurringReason(),
		d.Principal(), d.Currency(), d.CumulativePaid(), d.RecurringAmount(), d.RecurringDay(),
		installments, d.StoredStatus(), d.Version(), d.CreatedAt(), d.UpdatedAt(),
	)
}
