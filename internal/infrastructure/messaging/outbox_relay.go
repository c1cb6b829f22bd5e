package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/domain/port"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/pkg/events"
)

// RelayConfig tunes how often the relay polls the outbox and how much it moves
// per transaction.
type RelayConfig struct {
	PollInterval time.Duration
	BatchSize    int
	// Backoff is the wait after consecutive failures; the last value repeats.
	Backoff []time.Duration
}

// OutboxRelay moves committed outbox entries to the broker. Delivery is at
// least once: an entry is marked only after the broker acknowledged it.
type OutboxRelay struct {
	cfg       RelayConfig
	repo      events.OutboxRepository
	uow       port.UnitOfWork
	publisher events.EntryPublisher
	logger    *slog.Logger
}

// NewOutboxRelay creates a relay. Zero config values fall back to defaults.
func NewOutboxRelay(
	cfg RelayConfig,
	repo events.OutboxRepository,
	uow port.UnitOfWork,
	publisher events.EntryPublisher,
	logger *slog.Logger,
) *OutboxRelay {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if len(cfg.Backoff) == 0 {
		cfg.Backoff = []time.Duration{2 * time.Second, 5 * time.Second, 15 * time.Second, 60 * time.Second}
	}
	return &OutboxRelay{
		cfg:       cfg,
		repo:      repo,
		uow:       uow,
		publisher: publisher,
		logger:    logger,
	}
}

// Run relays until ctx is cancelled. A full batch is followed immediately by
// another poll; failures back off.
func (r *OutboxRelay) Run(ctx context.Context) error {
	r.logger.Info("outbox relay starting",
		"poll_interval", r.cfg.PollInterval,
		"batch_size", r.cfg.BatchSize,
	)

	failures := 0
	for {
		wait := r.cfg.PollInterval

		n, err := r.RelayOnce(ctx)
		switch {
		case err != nil && ctx.Err() != nil:
			r.logger.Info("outbox relay stopping")
			return nil
		case err != nil:
			wait = r.backoff(failures)
			failures++
			r.logger.Error("outbox relay failed", "error", err, "retry_in", wait)
		case n == r.cfg.BatchSize:
			failures = 0
			wait = 0
		default:
			failures = 0
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			r.logger.Info("outbox relay stopping")
			return nil
		case <-timer.C:
		}
	}
}

// Start runs the relay in its own goroutine. A non-nil error from Run is sent
// to errCh when errCh is not nil. The returned stop cancels the relay and
// blocks until Run has returned, so the publisher can be closed afterwards.
func (r *OutboxRelay) Start(ctx context.Context, errCh chan<- error) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := r.Run(ctx); err != nil && errCh != nil {
			errCh <- fmt.Errorf("outbox relay: %w", err)
		}
	}()
	return func() {
		cancel()
		<-done
	}
}

// RelayOnce publishes one batch and returns how many entries it delivered.
func (r *OutboxRelay) RelayOnce(ctx context.Context) (int, error) {
	var delivered int

	err := r.uow.Do(ctx, func(ctx context.Context) error {
		entries, err := r.repo.FetchUnpublished(ctx, r.cfg.BatchSize)
		if err != nil {
			return fmt.Errorf("fetch outbox: %w", err)
		}
		if len(entries) == 0 {
			return nil
		}

		if err := r.publisher.PublishEntries(ctx, entries); err != nil {
			return fmt.Errorf("publish outbox: %w", err)
		}

		ids := make([]string, 0, len(entries))
		for _, e := range entries {
			ids = append(ids, e.ID)
		}
		if err := r.repo.MarkPublished(ctx, ids); err != nil {
			return fmt.Errorf("mark outbox: %w", err)
		}

		delivered = len(entries)
		return nil
	})
	if err != nil {
		return 0, err
	}
	if delivered > 0 {
		r.logger.DebugContext(ctx, "outbox batch relayed", "count", delivered)
	}
	return delivered, nil
}

func (r *OutboxRelay) backoff(failures int) time.Duration {
	if failures >= len(r.cfg.Backoff) {
		return r.cfg.Backoff[len(r.cfg.Backoff)-1]
	}
	return r.cfg.Backoff[failures]
}
