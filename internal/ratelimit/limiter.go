// Package ratelimit implements per-client token buckets used to throttle
// the HTTP surface. Buckets refill continuously (a "greedy" refill: capacity
// spread evenly over the window) and idle buckets are evicted so the key map
// stays bounded.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Store is the check-and-consume operation the HTTP middleware depends on.
// Allow reports whether the request identified by key may proceed, consuming
// one permit when it does.
type Store interface {
	Allow(ctx context.Context, key string) (bool, error)
}

const idleWindows = 3

type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// Limiter is an in-memory Store keyed by client IP. A bucket holds at most
// capacity tokens and regains capacity/window tokens per unit time. Check
// and decrement happen under one lock, so two concurrent requests can never
// both win the last token.
type Limiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	capacity float64
	window   time.Duration
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

// NewLimiter creates a Limiter with the given bucket capacity and refill
// window and starts the idle-bucket sweeper.
func NewLimiter(capacity int, window time.Duration) *Limiter {
	if capacity <= 0 {
		capacity = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	l := &Limiter{
		buckets:  make(map[string]*bucket),
		capacity: float64(capacity),
		window:   window,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	go l.sweep()
	return l
}

// Allow consumes one token from the bucket for key, creating the bucket at
// full capacity on first sight. It never returns an error; the signature
// matches Store so a remote store can slot in.
func (l *Limiter) Allow(_ context.Context, key string) (bool, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: l.capacity, lastSeen: now}
		l.buckets[key] = b
	} else {
		elapsed := now.Sub(b.lastSeen)
		if elapsed > 0 {
			b.tokens += l.capacity * float64(elapsed) / float64(l.window)
			if b.tokens > l.capacity {
				b.tokens = l.capacity
			}
		}
		b.lastSeen = now
	}

	if b.tokens < 1 {
		return false, nil
	}
	b.tokens--
	return true, nil
}

// Close stops the background sweeper.
func (l *Limiter) Close() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *Limiter) sweep() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.evictIdle()
		}
	}
}

// evictIdle drops buckets untouched for idleWindows refill windows; by then
// they are back at full capacity and carry no state worth keeping.
func (l *Limiter) evictIdle() {
	cutoff := l.now().Add(-idleWindows * l.window)
	l.mu.Lock()
	for key, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
	l.mu.Unlock()
}
