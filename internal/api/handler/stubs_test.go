package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/lecturerclaims/claims-system/internal/api/middleware"
	"github.com/lecturerclaims/claims-system/internal/core/domain"
	"github.com/lecturerclaims/claims-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Auth service stub
// ---------------------------------------------------------------------------

type stubAuthService struct {
	registerFn func(ctx context.Context, input ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
	profileFn  func(ctx context.Context, userID string) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	if s.profileFn == nil {
		return &domain.User{ID: userID, Name: "Ada Lovelace", Role: domain.RoleLecturer, HourlyRate: decimal.NewFromInt(350)}, nil
	}
	return s.profileFn(ctx, userID)
}

// ---------------------------------------------------------------------------
// Claim service stub
// ---------------------------------------------------------------------------

type stubClaimService struct {
	submitFn   func(ctx context.Context, input ports.SubmitClaimInput) (*ports.SubmitResult, error)
	resubmitFn func(ctx context.Context, input ports.ResubmitClaimInput) (*domain.Claim, error)
	listFn     func(ctx context.Context, input ports.ListClaimsInput) (*ports.ListClaimsResult, error)
	getFn      func(ctx context.Context, id string, actor domain.Actor) (*domain.Claim, error)
	eventsFn   func(ctx context.Context, id string, actor domain.Actor) ([]*domain.ClaimEvent, error)
	evidenceFn func(ctx context.Context, id string, actor domain.Actor) (*ports.EvidenceFile, error)
	approveFn  func(stage string, id string, actor domain.Actor) (*domain.Claim, error)
	rejectFn   func(stage string, id string, actor domain.Actor, reason string) (*domain.Claim, error)
}

func (s *stubClaimService) SubmitClaim(ctx context.Context, input ports.SubmitClaimInput) (*ports.SubmitResult, error) {
	return s.submitFn(ctx, input)
}

func (s *stubClaimService) ResubmitClaim(ctx context.Context, input ports.ResubmitClaimInput) (*domain.Claim, error) {
	return s.resubmitFn(ctx, input)
}

func (s *stubClaimService) ListClaims(ctx context.Context, input ports.ListClaimsInput) (*ports.ListClaimsResult, error) {
	return s.listFn(ctx, input)
}

func (s *stubClaimService) GetClaim(ctx context.Context, id string, actor domain.Actor) (*domain.Claim, error) {
	return s.getFn(ctx, id, actor)
}

func (s *stubClaimService) ClaimEvents(ctx context.Context, id string, actor domain.Actor) ([]*domain.ClaimEvent, error) {
	return s.eventsFn(ctx, id, actor)
}

func (s *stubClaimService) OpenEvidence(ctx context.Context, id string, actor domain.Actor) (*ports.EvidenceFile, error) {
	return s.evidenceFn(ctx, id, actor)
}

func (s *stubClaimService) CoordinatorApprove(_ context.Context, id string, actor domain.Actor) (*domain.Claim, error) {
	return s.approveFn("coordinator", id, actor)
}

func (s *stubClaimService) CoordinatorReject(_ context.Context, id string, actor domain.Actor, reason string) (*domain.Claim, error) {
	return s.rejectFn("coordinator", id, actor, reason)
}

func (s *stubClaimService) ManagerApprove(_ context.Context, id string, actor domain.Actor) (*domain.Claim, error) {
	return s.approveFn("manager", id, actor)
}

func (s *stubClaimService) ManagerReject(_ context.Context, id string, actor domain.Actor, reason string) (*domain.Claim, error) {
	return s.rejectFn("manager", id, actor, reason)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// newTestContext builds an echo context carrying the identity the Auth middleware would set.
func newTestContext(method, target string, body io.Reader, contentType string, actor domain.Actor) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if actor.ID != "" {
		c.Set(middleware.CtxUserID, actor.ID)
		c.Set(middleware.CtxRole, string(actor.Role))
	}
	return c, rec
}

func pendingClaim(id string) *domain.Claim {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	return &domain.Claim{
		ID:            id,
		ClaimantID:    "lect-1",
		ClaimantName:  "Ada Lovelace",
		HoursWorked:   decimal.NewFromInt(10),
		Rate:          decimal.NewFromInt(350),
		Amount:        decimal.NewFromInt(3500),
		Status:        domain.StatusPending,
		PaymentStatus: domain.PaymentUnpaid,
		StatusHistory: []domain.StatusHistoryEntry{{Status: domain.StatusPending, Actor: domain.RoleLecturer, Timestamp: now}},
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
