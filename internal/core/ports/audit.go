package ports

import (
	"context"

	"github.com/cydea/vulnbank/internal/core/domain"
)

// AuditRepository persists security events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.SecurityEvent) error
}

// AuditSink accepts security events for asynchronous recording. Implementations
// must not block the caller: an event may be dropped under backpressure.
type AuditSink interface {
	Record(event domain.SecurityEvent)
}
