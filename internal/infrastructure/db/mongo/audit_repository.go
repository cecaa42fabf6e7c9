package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cydea/vulnbank/internal/core/domain"
)

const auditCollection = "security_events"

// AuditRepository appends security events to the audit collection.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

type mongoSecurityEvent struct {
	Kind      string `bson:"kind"`
	Subject   string `bson:"subject"`
	Detail    string `bson:"detail,omitempty"`
	ClientIP  string `bson:"client_ip,omitempty"`
	Timestamp int64  `bson:"timestamp"`
}

func (r *AuditRepository) Insert(ctx context.Context, event *domain.SecurityEvent) error {
	doc := mongoSecurityEvent{
		Kind:      event.Kind,
		Subject:   event.Subject,
		Detail:    event.Detail,
		ClientIP:  event.ClientIP,
		Timestamp: event.Timestamp.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert security event: %w", err)
	}
	return nil
}
