package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shopdesk/commerce-api/internal/core/domain"
	"github.com/shopdesk/commerce-api/internal/core/ports"
)

const (
	collectionAuthEvents = "auth_events"

	// DefaultAuditRetention is how long auth events are kept before the TTL
	// monitor removes them.
	DefaultAuditRetention = 90 * 24 * time.Hour
)

type authEventDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Type       string             `bson:"type"`
	ActorID    string             `bson:"actor_id,omitempty"`
	SubjectID  string             `bson:"subject_id,omitempty"`
	Email      string             `bson:"email,omitempty"`
	Detail     string             `bson:"detail,omitempty"`
	IP         string             `bson:"ip,omitempty"`
	OccurredAt time.Time          `bson:"occurred_at"`
}

// AuditRepository implements ports.AuditRepository on the auth_events
// collection.
type AuditRepository struct {
	col       *mongo.Collection
	retention time.Duration
}

func NewAuditRepository(db *mongo.Database, retention time.Duration) *AuditRepository {
	if retention <= 0 {
		retention = DefaultAuditRetention
	}
	return &AuditRepository{col: db.Collection(collectionAuthEvents), retention: retention}
}

func (r *AuditRepository) Insert(ctx context.Context, event *domain.AuthEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := authEventDocument{
		Type:       string(event.Type),
		ActorID:    event.ActorID,
		SubjectID:  event.SubjectID,
		Email:      event.Email,
		Detail:     event.Detail,
		IP:         event.IP,
		OccurredAt: event.OccurredAt.UTC(),
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert auth event: %w", err)
	}
	event.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

// List returns the newest matching events. UserID matches either side of the
// event.
func (r *AuditRepository) List(ctx context.Context, filter ports.AuditFilter) ([]*domain.AuthEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.UserID != "" {
		query["$or"] = bson.A{
			bson.M{"actor_id": filter.UserID},
			bson.M{"subject_id": filter.UserID},
		}
	}
	if filter.Type != "" {
		query["type"] = string(filter.Type)
	}

	opts := options.Find().SetSort(bson.D{{Key: "occurred_at", Value: -1}, {Key: "_id", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list auth events: %w", err)
	}
	defer cur.Close(ctx)

	var docs []authEventDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode auth events: %w", err)
	}

	events := make([]*domain.AuthEvent, 0, len(docs))
	for _, d := range docs {
		events = append(events, &domain.AuthEvent{
			ID:         d.ID.Hex(),
			Type:       domain.AuthEventType(d.Type),
			ActorID:    d.ActorID,
			SubjectID:  d.SubjectID,
			Email:      d.Email,
			Detail:     d.Detail,
			IP:         d.IP,
			OccurredAt: d.OccurredAt,
		})
	}
	return events, nil
}

// EnsureIndexes creates the lookup indexes and the retention TTL index.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "occurred_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(r.retention / time.Second)),
		},
		{Keys: bson.D{{Key: "actor_id", Value: 1}, {Key: "occurred_at", Value: -1}}},
		{Keys: bson.D{{Key: "subject_id", Value: 1}, {Key: "occurred_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
