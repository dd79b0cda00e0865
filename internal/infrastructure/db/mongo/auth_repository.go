package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lecturerclaims/claims-system/internal/core/domain"
)

const authCollection = "users"

type MongoAuthRepository struct {
	coll *mongo.Collection
}

func NewAuthRepository(db *mongo.Database) *MongoAuthRepository {
	return &MongoAuthRepository{coll: db.Collection(authCollection)}
}

type mongoUser struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	Name         string               `bson:"name"`
	Email        string               `bson:"email"`
	PasswordHash string               `bson:"password_hash"`
	Role         string               `bson:"role"`
	HourlyRate   primitive.Decimal128 `bson:"hourly_rate"`
	CreatedAt    int64                `bson:"created_at"`
	UpdatedAt    int64                `bson:"updated_at"`
}

func (r *MongoAuthRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rate, err := toDecimal128(user.HourlyRate)
	if err != nil {
		return nil, err
	}
	doc := mongoUser{
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Role:         string(user.Role),
		HourlyRate:   rate,
		CreatedAt:    user.CreatedAt.Unix(),
		UpdatedAt:    user.UpdatedAt.Unix(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	// fetch back to get ID
	return r.FindByEmail(ctx, user.Email)
}

func (r *MongoAuthRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoAuthRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoAuthRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	rate, err := fromDecimal128(mu.HourlyRate)
	if err != nil {
		return nil, err
	}
	return &domain.User{
		ID:           mu.ID.Hex(),
		Name:         mu.Name,
		Email:        mu.Email,
		PasswordHash: mu.PasswordHash,
		Role:         domain.Role(mu.Role),
		HourlyRate:   rate,
		CreatedAt:    unixToTime(mu.CreatedAt),
		UpdatedAt:    unixToTime(mu.UpdatedAt),
	}, nil
}

// EnsureIndexes makes email the unique login key.
func (r *MongoAuthRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
