package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lecturerclaims/claims-system/internal/core/domain"
)

const collectionClaimEvents = "claim_events"

// EventRepository implements ports.ClaimEventRepository using MongoDB.
type EventRepository struct {
	col *mongo.Collection
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{col: db.Collection(collectionClaimEvents)}
}

type claimEventDocument struct {
	ClaimID    string    `bson:"claim_id"`
	Action     string    `bson:"action"`
	Actor      string    `bson:"actor"`
	ActorID    string    `bson:"actor_id,omitempty"`
	From       string    `bson:"from,omitempty"`
	To         string    `bson:"to"`
	Note       string    `bson:"note,omitempty"`
	OccurredAt time.Time `bson:"occurred_at"`
	RecordedAt time.Time `bson:"recorded_at"`
}

// Append persists a lifecycle transition to the claim_events audit collection.
func (r *EventRepository) Append(ctx context.Context, event *domain.ClaimEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := claimEventDocument{
		ClaimID:    event.ClaimID,
		Action:     event.Action,
		Actor:      string(event.Actor),
		ActorID:    event.ActorID,
		From:       string(event.From),
		To:         string(event.To),
		Note:       event.Note,
		OccurredAt: event.OccurredAt.UTC(),
		RecordedAt: time.Now().UTC(),
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert claim event: %w", err)
	}
	return nil
}

// ListByClaim returns the audit trail of a claim, oldest first.
func (r *EventRepository) ListByClaim(ctx context.Context, claimID string) ([]*domain.ClaimEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "occurred_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"claim_id": claimID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find claim events: %w", err)
	}
	defer cur.Close(ctx)

	var docs []claimEventDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode claim events: %w", err)
	}

	events := make([]*domain.ClaimEvent, 0, len(docs))
	for _, d := range docs {
		events = append(events, &domain.ClaimEvent{
			ClaimID:    d.ClaimID,
			Action:     d.Action,
			Actor:      domain.Role(d.Actor),
			ActorID:    d.ActorID,
			From:       domain.ClaimStatus(d.From),
			To:         domain.ClaimStatus(d.To),
			Note:       d.Note,
			OccurredAt: d.OccurredAt.UTC(),
		})
	}
	return events, nil
}

// EnsureIndexes creates necessary indexes on the claim_events collection.
func (r *EventRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "claim_id", Value: 1}, {Key: "occurred_at", Value: 1}},
	})
	return err
}
