package ports

import (
	"context"

	"github.com/lecturerclaims/claims-system/internal/core/domain"
)

// ClaimEventRepository persists the claim audit trail.
type ClaimEventRepository interface {
	// Append records one lifecycle transition in the claim_events collection.
	Append(ctx context.Context, event *domain.ClaimEvent) error
	ListByClaim(ctx context.Context, claimID string) ([]*domain.ClaimEvent, error)
}

// ReferenceRegistry guards payment reference uniqueness.
type ReferenceRegistry interface {
	// Reserve claims ref for claimID; it reports false when ref is already taken.
	Reserve(ctx context.Context, ref, claimID string) (bool, error)
}
