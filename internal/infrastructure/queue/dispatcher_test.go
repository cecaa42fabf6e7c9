package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/cydea/vulnbank/internal/core/domain"
)

type memAuditRepo struct {
	mu     sync.Mutex
	events []domain.SecurityEvent
}

func (r *memAuditRepo) Insert(_ context.Context, event *domain.SecurityEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *event)
	return nil
}

func (r *memAuditRepo) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func TestDispatcher_PersistsEvents(t *testing.T) {
	repo := &memAuditRepo{}
	d := NewDispatcher(2, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for i := 0; i < 20; i++ {
		d.Record(domain.SecurityEvent{
			Kind:      domain.EventLoginFailure,
			Subject:   "alice",
			Timestamp: time.Now().UTC(),
		})
	}

	deadline := time.Now().Add(2 * time.Second)
	for repo.len() < 20 {
		if time.Now().After(deadline) {
			t.Fatalf("expected 20 events persisted, got %d", repo.len())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestDispatcher_SameSubjectSameShard(t *testing.T) {
	d := NewDispatcher(4, &memAuditRepo{}, zerolog.Nop())
	first := d.shardIndex("bob")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("bob"); got != first {
			t.Fatalf("shard index not stable: %d vs %d", got, first)
		}
	}
}
