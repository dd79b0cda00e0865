package ports

import (
	"context"
	"io"

	"github.com/shopspring/decimal"

	"github.com/lecturerclaims/claims-system/internal/core/domain"
)

// SubmitClaimInput carries everything needed to submit a new claim.
// ClaimantName and Rate are snapshotted from the claimant's profile by the caller.
type SubmitClaimInput struct {
	ClaimantID     string
	ClaimantName   string
	HoursWorked    decimal.Decimal
	Rate           decimal.Decimal
	Evidence       *EvidenceUpload // optional
	IdempotencyKey string
}

// ResubmitClaimInput carries a claimant's corrections to a Needs Fix claim.
type ResubmitClaimInput struct {
	ClaimID     string
	ClaimantID  string
	HoursWorked decimal.Decimal
	Rate        decimal.Decimal
	Evidence    *EvidenceUpload // optional; nil keeps the existing file
}

// ListClaimsInput carries all parameters for listing claims.
type ListClaimsInput struct {
	ClaimantID   string
	ClaimantName string
	Status       domain.ClaimStatus
	OrderBy      ClaimOrder
	Page         int
	Limit        int
}

// ListClaimsResult is returned by ListClaims.
type ListClaimsResult struct {
	Items      []*domain.Claim
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// SubmitResult is returned by SubmitClaim.
type SubmitResult struct {
	Claim *domain.Claim
	// AlreadyExisted is true when the Idempotency-Key matched an existing claim.
	AlreadyExisted bool
}

// EvidenceFile is a stored evidence document opened for download.
type EvidenceFile struct {
	Name    string
	Size    int64
	Content io.ReadCloser
}

// ClaimService defines the claim lifecycle use cases.
type ClaimService interface {
	SubmitClaim(ctx context.Context, input SubmitClaimInput) (*SubmitResult, error)
	ResubmitClaim(ctx context.Context, input ResubmitClaimInput) (*domain.Claim, error)
	ListClaims(ctx context.Context, input ListClaimsInput) (*ListClaimsResult, error)
	GetClaim(ctx context.Context, id string, actor domain.Actor) (*domain.Claim, error)
	ClaimEvents(ctx context.Context, id string, actor domain.Actor) ([]*domain.ClaimEvent, error)
	OpenEvidence(ctx context.Context, id string, actor domain.Actor) (*EvidenceFile, error)

	CoordinatorApprove(ctx context.Context, id string, actor domain.Actor) (*domain.Claim, error)
	CoordinatorReject(ctx context.Context, id string, actor domain.Actor, reason string) (*domain.Claim, error)
	ManagerApprove(ctx context.Context, id string, actor domain.Actor) (*domain.Claim, error)
	ManagerReject(ctx context.Context, id string, actor domain.Actor, reason string) (*domain.Claim, error)
}
