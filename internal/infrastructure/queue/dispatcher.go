package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/cydea/vulnbank/internal/core/domain"
	"github.com/cydea/vulnbank/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher fans security audit events out to a fixed set of workers,
// sharded by event subject so entries for one actor are persisted in order.
// Recording never blocks a request: when a worker's buffer is full the
// event is dropped with a warning.
type Dispatcher struct {
	workers []chan domain.SecurityEvent
	repo    ports.AuditRepository
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.AuditRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.SecurityEvent, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.SecurityEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Record enqueues an event for the worker owning its subject shard.
func (d *Dispatcher) Record(event domain.SecurityEvent) {
	ch := d.workers[d.shardIndex(event.Subject)]
	select {
	case ch <- event:
	default:
		d.log.Warn().
			Str("kind", event.Kind).
			Str("subject", event.Subject).
			Msg("audit buffer full, event dropped")
	}
}

func (d *Dispatcher) shardIndex(subject string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(subject))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.SecurityEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := d.repo.Insert(ctx, &event); err != nil {
				d.log.Error().Err(err).
					Str("kind", event.Kind).
					Int("worker_id", id).
					Msg("audit event insert failed")
			}
		}
	}
}
