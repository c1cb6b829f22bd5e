package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuildZone-Tech/gerenciador-de-dividas/pkg/events"
	pgutil "github.com/BuildZone-Tech/gerenciador-de-dividas/pkg/postgres"
)

// OutboxRepo implements events.OutboxRepository and port.Outbox.
type OutboxRepo struct {
	pool *pgxpool.Pool
}

// NewOutboxRepo creates a new PostgreSQL-backed outbox.
func NewOutboxRepo(pool *pgxpool.Pool) *OutboxRepo {
	return &OutboxRepo{pool: pool}
}

// Store inserts entries, joining the caller's transaction when ctx carries one.
func (r *OutboxRepo) Store(ctx context.Context, entries []events.OutboxEntry) error {
	q := pgutil.QuerierFrom(ctx, r.pool)

	for _, e := range entries {
		_, err := q.Exec(ctx, `
			INSERT INTO outbox (id, aggregate_id, aggregate_type, event_type, owner_id, payload, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			e.ID, e.AggregateID, e.AggregateType, e.EventType, e.OwnerID, e.Payload, e.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert outbox entry %s: %w", e.EventType, err)
		}
	}
	return nil
}

// FetchUnpublished returns up to batchSize pending entries, oldest first. Rows
// are locked with SKIP LOCKED so concurrent relays inside a transaction do not
// pick the same entries.
func (r *OutboxRepo) FetchUnpublished(ctx context.Context, batchSize int) ([]events.OutboxEntry, error) {
	q := pgutil.QuerierFrom(ctx, r.pool)

	rows, err := q.Query(ctx, `
		SELECT id, aggregate_id, aggregate_type, event_type, owner_id, payload, created_at
		FROM outbox
		WHERE published_at IS NULL
		ORDER BY created_at, id
		LIMIT $1
		FOR UPDATE SKIP LOCKED`, batchSize)
	if err != nil {
		return nil, fmt.Errorf("query outbox: %w", err)
	}
	defer rows.Close()

	var out []events.OutboxEntry
	for rows.Next() {
		var e events.OutboxEntry
		if err := rows.Scan(&e.ID, &e.AggregateID, &e.AggregateType, &e.EventType, &e.OwnerID, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan outbox entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// MarkPublished stamps entries as delivered.
func (r *OutboxRepo) MarkPublished(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	q := pgutil.QuerierFrom(ctx, r.pool)

	if _, err := q.Exec(ctx, `UPDATE outbox SET published_at = $1 WHERE id = ANY($2)`, time.Now().UTC(), ids); err != nil {
		return fmt.Errorf("mark outbox published: %w", err)
	}
	return nil
}
