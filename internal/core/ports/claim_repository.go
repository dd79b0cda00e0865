package ports

import (
	"context"

	"github.com/lecturerclaims/claims-system/internal/core/domain"
)

// ClaimOrder selects the ordering of List results.
type ClaimOrder string

const (
	OrderCreatedAsc  ClaimOrder = "created_asc"
	OrderCreatedDesc ClaimOrder = "created_desc"
)

// ClaimFilter carries all query parameters for listing claims.
type ClaimFilter struct {
	ClaimantID   string             // exact match; empty = any claimant
	ClaimantName string             // case-insensitive substring match
	Status       domain.ClaimStatus // optional
	OrderBy      ClaimOrder
	Page         int // 1-based
	Limit        int // 0 = no limit
}

// ClaimRepository is the ClaimRecord Store.
type ClaimRepository interface {
	// Create inserts a new claim, assigning its ID and initial Version.
	Create(ctx context.Context, c *domain.Claim) error
	FindByID(ctx context.Context, id string) (*domain.Claim, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*domain.Claim, error)
	// Save writes c back only if the stored Version still equals c.Version,
	// then increments c.Version. A stale version yields domain.ErrConcurrentModification.
	Save(ctx context.Context, c *domain.Claim) error
	// List returns a page of claims matching filter and the total count.
	List(ctx context.Context, filter ClaimFilter) ([]*domain.Claim, int64, error)
}
