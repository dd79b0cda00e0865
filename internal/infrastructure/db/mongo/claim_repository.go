package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lecturerclaims/claims-system/internal/core/domain"
	"github.com/lecturerclaims/claims-system/internal/core/ports"
)

const collectionClaims = "claims"

// ClaimRepository implements ports.ClaimRepository using MongoDB.
// Writes are guarded by the document's version field.
type ClaimRepository struct {
	col *mongo.Collection
}

func NewClaimRepository(db *mongo.Database) *ClaimRepository {
	return &ClaimRepository{col: db.Collection(collectionClaims)}
}

type evidenceDocument struct {
	OriginalName string `bson:"original_name"`
	Key          string `bson:"key"`
	SizeBytes    int64  `bson:"size_bytes"`
}

type historyDocument struct {
	Status    string    `bson:"status"`
	Actor     string    `bson:"actor"`
	Note      string    `bson:"note,omitempty"`
	Timestamp time.Time `bson:"timestamp"`
}

type claimDocument struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty"`
	ClaimantID       string               `bson:"claimant_id"`
	ClaimantName     string               `bson:"claimant_name"`
	HoursWorked      primitive.Decimal128 `bson:"hours_worked"`
	Rate             primitive.Decimal128 `bson:"rate"`
	Amount           primitive.Decimal128 `bson:"amount"`
	Status           string               `bson:"status"`
	PaymentStatus    string               `bson:"payment_status"`
	ReviewNote       string               `bson:"review_note,omitempty"`
	ReviewedBy       string               `bson:"reviewed_by,omitempty"`
	ReviewedAt       *time.Time           `bson:"reviewed_at,omitempty"`
	PaymentReference string               `bson:"payment_reference,omitempty"`
	PaidAt           *time.Time           `bson:"paid_at,omitempty"`
	Evidence         *evidenceDocument    `bson:"evidence,omitempty"`
	IdempotencyKey   string               `bson:"idempotency_key,omitempty"`
	StatusHistory    []historyDocument    `bson:"status_history"`
	Version          int64                `bson:"version"`
	CreatedAt        time.Time            `bson:"created_at"`
	UpdatedAt        time.Time            `bson:"updated_at"`
}

// Create inserts a new claim document and assigns its ID and initial version.
func (r *ClaimRepository) Create(ctx context.Context, c *domain.Claim) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := toClaimDocument(c)
	if err != nil {
		return err
	}
	doc.ID = primitive.NewObjectID()
	doc.Version = 1

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			if doc.IdempotencyKey != "" {
				return fmt.Errorf("insert claim: %w", domain.ErrDuplicateSubmission)
			}
			return fmt.Errorf("insert claim: %w", domain.ErrConcurrentModification)
		}
		return fmt.Errorf("insert claim: %w", err)
	}

	c.ID = doc.ID.Hex()
	c.Version = doc.Version
	return nil
}

// FindByID retrieves a claim by its hex ID. Malformed IDs are reported as not found.
func (r *ClaimRepository) FindByID(ctx context.Context, id string) (*domain.Claim, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrClaimNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// FindByIdempotencyKey retrieves an existing claim that was created with the given key.
func (r *ClaimRepository) FindByIdempotencyKey(ctx context.Context, key string) (*domain.Claim, error) {
	return r.findOne(ctx, bson.M{"idempotency_key": key})
}

func (r *ClaimRepository) findOne(ctx context.Context, filter bson.M) (*domain.Claim, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc claimDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrClaimNotFound
		}
		return nil, fmt.Errorf("find claim: %w", err)
	}
	return doc.toDomain()
}

// Save replaces the stored claim only when its version still matches c.Version.
func (r *ClaimRepository) Save(ctx context.Context, c *domain.Claim) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(c.ID)
	if err != nil {
		return domain.ErrClaimNotFound
	}
	doc, err := toClaimDocument(c)
	if err != nil {
		return err
	}
	doc.ID = oid
	doc.Version = c.Version + 1

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid, "version": c.Version}, doc)
	if err != nil {
		return fmt.Errorf("save claim: %w", err)
	}
	if res.MatchedCount == 0 {
		n, err := r.col.CountDocuments(ctx, bson.M{"_id": oid})
		if err != nil {
			return fmt.Errorf("save claim: %w", err)
		}
		if n == 0 {
			return domain.ErrClaimNotFound
		}
		return domain.ErrConcurrentModification
	}

	c.Version = doc.Version
	return nil
}

// List returns a page of claims matching the filter along with the total count.
func (r *ClaimRepository) List(ctx context.Context, f ports.ClaimFilter) ([]*domain.Claim, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.ClaimantID != "" {
		filter["claimant_id"] = f.ClaimantID
	}
	if f.ClaimantName != "" {
		filter["claimant_name"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.ClaimantName), Options: "i"}
	}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count claims: %w", err)
	}

	dir := -1
	if f.OrderBy == ports.OrderCreatedAsc {
		dir = 1
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: dir}, {Key: "_id", Value: dir}})
	if f.Limit > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		opts.SetSkip(int64((page - 1) * f.Limit)).SetLimit(int64(f.Limit))
	}

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find claims: %w", err)
	}
	defer cur.Close(ctx)

	var docs []claimDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode claims: %w", err)
	}

	claims := make([]*domain.Claim, 0, len(docs))
	for i := range docs {
		c, err := docs[i].toDomain()
		if err != nil {
			return nil, 0, err
		}
		claims = append(claims, c)
	}
	return claims, total, nil
}

// EnsureIndexes creates necessary indexes on the claims collection.
func (r *ClaimRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "claimant_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: 1}}},
		{
			Keys:    bson.D{{Key: "idempotency_key", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func toClaimDocument(c *domain.Claim) (*claimDocument, error) {
	hours, err := toDecimal128(c.HoursWorked)
	if err != nil {
		return nil, err
	}
	rate, err := toDecimal128(c.Rate)
	if err != nil {
		return nil, err
	}
	amount, err := toDecimal128(c.Amount)
	if err != nil {
		return nil, err
	}

	doc := &claimDocument{
		ClaimantID:       c.ClaimantID,
		ClaimantName:     c.ClaimantName,
		HoursWorked:      hours,
		Rate:             rate,
		Amount:           amount,
		Status:           string(c.Status),
		PaymentStatus:    string(c.PaymentStatus),
		ReviewNote:       c.ReviewNote,
		ReviewedBy:       string(c.ReviewedBy),
		ReviewedAt:       c.ReviewedAt,
		PaymentReference: c.PaymentReference,
		PaidAt:           c.PaidAt,
		IdempotencyKey:   c.IdempotencyKey,
		StatusHistory:    make([]historyDocument, 0, len(c.StatusHistory)),
		Version:          c.Version,
		CreatedAt:        c.CreatedAt.UTC(),
		UpdatedAt:        c.UpdatedAt.UTC(),
	}
	if c.Evidence != nil {
		doc.Evidence = &evidenceDocument{
			OriginalName: c.Evidence.OriginalName,
			Key:          c.Evidence.Key,
			SizeBytes:    c.Evidence.SizeBytes,
		}
	}
	for _, h := range c.StatusHistory {
		doc.StatusHistory = append(doc.StatusHistory, historyDocument{
			Status:    string(h.Status),
			Actor:     string(h.Actor),
			Note:      h.Note,
			Timestamp: h.Timestamp.UTC(),
		})
	}
	return doc, nil
}

func (d *claimDocument) toDomain() (*domain.Claim, error) {
	hours, err := fromDecimal128(d.HoursWorked)
	if err != nil {
		return nil, err
	}
	rate, err := fromDecimal128(d.Rate)
	if err != nil {
		return nil, err
	}
	amount, err := fromDecimal128(d.Amount)
	if err != nil {
		return nil, err
	}

	c := &domain.Claim{
		ID:               d.ID.Hex(),
		ClaimantID:       d.ClaimantID,
		ClaimantName:     d.ClaimantName,
		HoursWorked:      hours,
		Rate:             rate,
		Amount:           amount,
		Status:           domain.ClaimStatus(d.Status),
		PaymentStatus:    domain.PaymentStatus(d.PaymentStatus),
		ReviewNote:       d.ReviewNote,
		ReviewedBy:       domain.Role(d.ReviewedBy),
		ReviewedAt:       utcPtr(d.ReviewedAt),
		PaymentReference: d.PaymentReference,
		PaidAt:           utcPtr(d.PaidAt),
		IdempotencyKey:   d.IdempotencyKey,
		StatusHistory:    make([]domain.StatusHistoryEntry, 0, len(d.StatusHistory)),
		Version:          d.Version,
		CreatedAt:        d.CreatedAt.UTC(),
		UpdatedAt:        d.UpdatedAt.UTC(),
	}
	if d.Evidence != nil {
		c.Evidence = &domain.Evidence{
			OriginalName: d.Evidence.OriginalName,
			Key:          d.Evidence.Key,
			SizeBytes:    d.Evidence.SizeBytes,
		}
	}
	for _, h := range d.StatusHistory {
		c.StatusHistory = append(c.StatusHistory, domain.StatusHistoryEntry{
			Status:    domain.ClaimStatus(h.Status),
			Actor:     domain.Role(h.Actor),
			Note:      h.Note,
			Timestamp: h.Timestamp.UTC(),
		})
	}
	return c, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
