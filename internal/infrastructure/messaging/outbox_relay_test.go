package messaging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuildZone-Tech/gerenciador-de-dividas/pkg/events"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/pkg/kafka"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeOutboxRepo struct {
	mu        sync.Mutex
	pending   []events.OutboxEntry
	published []string
	fetchErr  error
}

func (f *fakeOutboxRepo) Store(_ context.Context, entries []events.OutboxEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = append(f.pending, entries...)
	return nil
}

func (f *fakeOutboxRepo) FetchUnpublished(_ context.Context, batchSize int) ([]events.OutboxEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	n := min(batchSize, len(f.pending))
	out := make([]events.OutboxEntry, n)
	copy(out, f.pending[:n])
	return out, nil
}

func (f *fakeOutboxRepo) MarkPublished(_ context.Context, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	done := make(map[string]bool, len(ids))
	for _, id := range ids {
		done[id] = true
	}
	var rest []events.OutboxEntry
	for _, e := range f.pending {
		if !done[e.ID] {
			rest = append(rest, e)
		}
	}
	f.pending = rest
	f.published = append(f.published, ids...)
	return nil
}

type passthroughUoW struct{}

func (passthroughUoW) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// slowExitUoW blocks until ctx is cancelled and then takes a while to unwind.
type slowExitUoW struct {
	entered chan struct{}
	exited  atomic.Bool
}

func (u *slowExitUoW) Do(ctx context.Context, _ func(ctx context.Context) error) error {
	close(u.entered)
	<-ctx.Done()
	time.Sleep(50 * time.Millisecond)
	u.exited.Store(true)
	return ctx.Err()
}

type fakeProducer struct {
	mu       sync.Mutex
	topic    string
	messages []kafka.Message
	err      error
}

func (f *fakeProducer) Publish(_ context.Context, topic string, messages ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.topic = topic
	f.messages = append(f.messages, messages...)
	return nil
}

func entry(id, debtID, eventType string) events.OutboxEntry {
	return events.OutboxEntry{
		ID:            id,
		AggregateID:   debtID,
		AggregateType: "debt",
		EventType:     eventType,
		OwnerID:       "owner-001",
		Payload:       []byte(`{"debt_id":"` + debtID + `"}`),
		CreatedAt:     time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestKafkaEntryPublisher_PublishEntries(t *testing.T) {
	t.Run("keys messages by debt and sets headers", func(t *testing.T) {
		producer := &fakeProducer{}
		pub := NewKafkaEntryPublisher(producer, "receivables.events", discardLogger())

		err := pub.PublishEntries(context.Background(), []events.OutboxEntry{
			entry("e1", "debt-1", "receivables.payment.recorded"),
		})

		require.NoError(t, err)
		assert.Equal(t, "receivables.events", producer.topic)
		require.Len(t, producer.messages, 1)
		msg := producer.messages[0]
		assert.Equal(t, []byte("debt-1"), msg.Key)
		assert.Equal(t, "e1", msg.Headers[HeaderEventID])
		assert.Equal(t, "receivables.payment.recorded", msg.Headers[HeaderEventType])
		assert.Equal(t, "owner-001", msg.Headers[HeaderOwnerID])
	})

	t.Run("nothing to publish", func(t *testing.T) {
		producer := &fakeProducer{err: errors.New("must not be called")}
		pub := NewKafkaEntryPublisher(producer, "t", discardLogger())

		require.NoError(t, pub.PublishEntries(context.Background(), nil))
	})

	t.Run("wraps producer errors", func(t *testing.T) {
		producer := &fakeProducer{err: errors.New("broker down")}
		pub := NewKafkaEntryPublisher(producer, "t", discardLogger())

		err := pub.PublishEntries(context.Background(), []events.OutboxEntry{entry("e1", "d", "x")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "broker down")
	})
}

func TestOutboxRelay_RelayOnce(t *testing.T) {
	t.Run("publishes and marks a batch", func(t *testing.T) {
		repo := &fakeOutboxRepo{pending: []events.OutboxEntry{
			entry("e1", "d1", "a"), entry("e2", "d1", "b"), entry("e3", "d2", "c"),
		}}
		producer := &fakeProducer{}
		relay := NewOutboxRelay(RelayConfig{BatchSize: 2}, repo, passthroughUoW{},
			NewKafkaEntryPublisher(producer, "t", discardLogger()), discardLogger())

		n, err := relay.RelayOnce(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, []string{"e1", "e2"}, repo.published)

		n, err = relay.RelayOnce(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.Len(t, producer.messages, 3)

		n, err = relay.RelayOnce(context.Background())
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("failed publish leaves entries pending", func(t *testing.T) {
		repo := &fakeOutboxRepo{pending: []events.OutboxEntry{entry("e1", "d1", "a")}}
		relay := NewOutboxRelay(RelayConfig{}, repo, passthroughUoW{},
			NewKafkaEntryPublisher(&fakeProducer{err: errors.New("broker down")}, "t", discardLogger()), discardLogger())

		_, err := relay.RelayOnce(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "publish outbox")
		assert.Len(t, repo.pending, 1)
		assert.Empty(t, repo.published)
	})
}

func TestOutboxRelay_Run(t *testing.T) {
	t.Run("drains pending entries and stops on cancel", func(t *testing.T) {
		repo := &fakeOutboxRepo{pending: []events.OutboxEntry{entry("e1", "d1", "a"), entry("e2", "d2", "b")}}
		producer := &fakeProducer{}
		relay := NewOutboxRelay(RelayConfig{PollInterval: 10 * time.Millisecond, BatchSize: 1}, repo, passthroughUoW{},
			NewKafkaEntryPublisher(producer, "t", discardLogger()), discardLogger())

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- relay.Run(ctx) }()

		require.Eventually(t, func() bool {
			repo.mu.Lock()
			defer repo.mu.Unlock()
			return len(repo.published) == 2
		}, 2*time.Second, 5*time.Millisecond)

		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("relay did not stop")
		}
	})

	t.Run("backs off after failures", func(t *testing.T) {
		relay := NewOutboxRelay(RelayConfig{Backoff: []time.Duration{time.Second, 3 * time.Second}}, &fakeOutboxRepo{}, passthroughUoW{}, nil, discardLogger())

		assert.Equal(t, time.Second, relay.backoff(0))
		assert.Equal(t, 3*time.Second, relay.backoff(1))
		assert.Equal(t, 3*time.Second, relay.backoff(7))
	})
}

func TestOutboxRelay_Start(t *testing.T) {
	t.Run("stop waits for the relay to return", func(t *testing.T) {
		uow := &slowExitUoW{entered: make(chan struct{})}
		relay := NewOutboxRelay(RelayConfig{}, &fakeOutboxRepo{}, uow, nil, discardLogger())

		errCh := make(chan error, 1)
		stop := relay.Start(context.Background(), errCh)
		select {
		case <-uow.entered:
		case <-time.After(2 * time.Second):
			t.Fatal("relay never polled")
		}

		stop()
		assert.True(t, uow.exited.Load(), "stop returned while a batch was still unwinding")
		assert.Empty(t, errCh)
	})

	t.Run("parent cancellation also ends the relay", func(t *testing.T) {
		repo := &fakeOutboxRepo{pending: []events.OutboxEntry{entry("e1", "d1", "a")}}
		producer := &fakeProducer{}
		relay := NewOutboxRelay(RelayConfig{PollInterval: 10 * time.Millisecond}, repo, passthroughUoW{},
			NewKafkaEntryPublisher(producer, "t", discardLogger()), discardLogger())

		ctx, cancel := context.WithCancel(context.Background())
		stop := relay.Start(ctx, nil)
		require.Eventually(t, func() bool {
			repo.mu.Lock()
			defer repo.mu.Unlock()
			return len(repo.published) == 1
		}, 2*time.Second, 5*time.Millisecond)

		cancel()
		stopped := make(chan struct{})
		go func() {
			stop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-time.After(2 * time.Second):
			t.Fatal("relay did not stop")
		}
	})
}
