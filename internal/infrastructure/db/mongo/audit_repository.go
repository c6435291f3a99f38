package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/clinicdesk/clinic-web/internal/core/domain"
	"github.com/clinicdesk/clinic-web/internal/core/ports"
)

const auditCollection = "audit_events"

// AuditRepository appends audit events to the audit_events collection.
type AuditRepository struct {
	db *mongo.Database
}

var _ ports.AuditRepository = (*AuditRepository)(nil)

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{db: db}
}

// EnsureIndexes creates the lookup indexes used when reviewing the trail.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.db.Collection(auditCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "action", Value: 1}, {Key: "at", Value: -1}}},
		{Keys: bson.D{{Key: "actor_id", Value: 1}}, Options: options.Index().SetSparse(true)},
	})
	if err != nil {
		return fmt.Errorf("audit indexes: %w", err)
	}
	return nil
}

// Record inserts one event.
func (r *AuditRepository) Record(ctx context.Context, event domain.AuditEvent) error {
	at := event.At
	if at.IsZero() {
		at = time.Now()
	}
	doc := bson.M{
		"action":      event.Action,
		"actor_id":    event.ActorID,
		"subject":     event.Subject,
		"at":          at.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	if event.Detail != "" {
		doc["detail"] = event.Detail
	}

	if _, err := r.db.Collection(auditCollection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("audit record %s: %w", event.Action, err)
	}
	return nil
}
