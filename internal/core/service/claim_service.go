package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/lecturerclaims/claims-system/internal/core/domain"
	"github.com/lecturerclaims/claims-system/internal/core/ports"
	"github.com/lecturerclaims/claims-system/internal/core/workflow"
	"github.com/lecturerclaims/claims-system/internal/pkg/metrics"
)

const (
	defaultPageLimit     = 20
	maxPageLimit         = 100
	maxReferenceAttempts = 5
)

// ClaimService runs the claim use cases: it loads a record, lets the workflow
// engine decide, persists the result and records the audit trail.
type ClaimService struct {
	repo     ports.ClaimRepository
	events   ports.ClaimEventRepository
	evidence ports.EvidenceStore
	refs     ports.ReferenceRegistry
	engine   *workflow.Engine
	log      zerolog.Logger
}

func NewClaimService(
	repo ports.ClaimRepository,
	events ports.ClaimEventRepository,
	evidence ports.EvidenceStore,
	refs ports.ReferenceRegistry,
	engine *workflow.Engine,
	log zerolog.Logger,
) *ClaimService {
	return &ClaimService{
		repo:     repo,
		events:   events,
		evidence: evidence,
		refs:     refs,
		engine:   engine,
		log:      log,
	}
}

// SubmitClaim creates a new Pending claim. If an idempotency key is provided and
// the claimant already used it, the earlier claim is returned without side effects.
func (s *ClaimService) SubmitClaim(ctx context.Context, input ports.SubmitClaimInput) (*ports.SubmitResult, error) {
	defer observe("submit", time.Now())

	key := scopedIdempotencyKey(input.ClaimantID, input.IdempotencyKey)
	if key != "" {
		existing, err := s.repo.FindByIdempotencyKey(ctx, key)
		switch {
		case err == nil:
			s.log.Info().Str("idempotency_key", input.IdempotencyKey).Str("claim_id", existing.ID).Msg("idempotent replay")
			return &ports.SubmitResult{Claim: existing, AlreadyExisted: true}, nil
		case !errors.Is(err, domain.ErrClaimNotFound):
			return nil, fmt.Errorf("submit claim: idempotency lookup: %w", err)
		}
	}

	claim, err := s.engine.Submit(workflow.Submission{
		ClaimantID:   input.ClaimantID,
		ClaimantName: input.ClaimantName,
		HoursWorked:  input.HoursWorked,
		Rate:         input.Rate,
		Evidence:     evidenceMeta(input.Evidence),
	})
	if err != nil {
		return nil, err
	}
	claim.IdempotencyKey = key

	if input.Evidence != nil {
		storageKey, err := s.storeEvidence(ctx, *input.Evidence)
		if err != nil {
			return nil, fmt.Errorf("submit claim: %w", err)
		}
		claim.Evidence.Key = storageKey
	}

	if err := s.repo.Create(ctx, claim); err != nil {
		s.discardEvidence(claim.Evidence)
		if errors.Is(err, domain.ErrDuplicateSubmission) {
			// A concurrent request with the same key won the insert.
			existing, findErr := s.repo.FindByIdempotencyKey(ctx, key)
			if findErr != nil {
				return nil, fmt.Errorf("submit claim: %w", findErr)
			}
			s.log.Info().Str("idempotency_key", input.IdempotencyKey).Str("claim_id", existing.ID).Msg("idempotent replay after concurrent submit")
			return &ports.SubmitResult{Claim: existing, AlreadyExisted: true}, nil
		}
		s.log.Error().Err(err).Str("claimant_id", input.ClaimantID).Msg("failed to create claim")
		return nil, fmt.Errorf("submit claim: %w", err)
	}

	s.audit(ctx, claim, domain.ActionSubmit, domain.Actor{ID: input.ClaimantID, Role: domain.RoleLecturer}, "", "")
	metrics.ClaimsSubmittedTotal.WithLabelValues("submit").Inc()

	s.log.Info().
		Str("claim_id", claim.ID).
		Str("claimant_id", claim.ClaimantID).
		Str("amount", claim.Amount.StringFixed(2)).
		Msg("claim submitted")

	return &ports.SubmitResult{Claim: claim}, nil
}

// ResubmitClaim applies corrections to a Needs Fix claim and returns it to Pending.
// A new evidence file replaces the old one only once the claim is saved.
func (s *ClaimService) ResubmitClaim(ctx context.Context, input ports.ResubmitClaimInput) (*domain.Claim, error) {
	defer observe("resubmit", time.Now())

	stored, err := s.repo.FindByID(ctx, input.ClaimID)
	if err != nil {
		return nil, err
	}

	claim := stored.Clone()
	from := claim.Status
	err = s.engine.Resubmit(claim, workflow.Submission{
		ClaimantID:  input.ClaimantID,
		HoursWorked: input.HoursWorked,
		Rate:        input.Rate,
		Evidence:    evidenceMeta(input.Evidence),
	})
	if err != nil {
		return nil, err
	}

	if input.Evidence != nil {
		storageKey, err := s.storeEvidence(ctx, *input.Evidence)
		if err != nil {
			return nil, fmt.Errorf("resubmit claim: %w", err)
		}
		claim.Evidence.Key = storageKey
	}

	if err := s.repo.Save(ctx, claim); err != nil {
		if input.Evidence != nil {
			s.discardEvidence(claim.Evidence)
		}
		return nil, saveError("resubmit claim", err)
	}

	if input.Evidence != nil {
		s.discardEvidence(stored.Evidence)
	}

	s.audit(ctx, claim, domain.ActionResubmit, domain.Actor{ID: input.ClaimantID, Role: domain.RoleLecturer}, from, "")
	metrics.ClaimsSubmittedTotal.WithLabelValues("resubmit").Inc()

	s.log.Info().Str("claim_id", claim.ID).Str("claimant_id", claim.ClaimantID).Msg("claim resubmitted")
	return claim, nil
}

// ListClaims returns a page of claims. Page defaults to 1 and Limit to 20, capped at 100.
func (s *ClaimService) ListClaims(ctx context.Context, input ports.ListClaimsInput) (*ports.ListClaimsResult, error) {
	if input.Status != "" && !input.Status.IsValid() {
		return nil, &domain.ValidationError{Field: "status", Reason: fmt.Sprintf("unknown claim status %q", input.Status)}
	}

	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	order := input.OrderBy
	if order != ports.OrderCreatedAsc {
		order = ports.OrderCreatedDesc
	}

	items, total, err := s.repo.List(ctx, ports.ClaimFilter{
		ClaimantID:   input.ClaimantID,
		ClaimantName: input.ClaimantName,
		Status:       input.Status,
		OrderBy:      order,
		Page:         page,
		Limit:        limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ports.ListClaimsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// GetClaim returns a single claim. Lecturers only see their own claims.
func (s *ClaimService) GetClaim(ctx context.Context, id string, actor domain.Actor) (*domain.Claim, error) {
	claim, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(claim, actor) {
		return nil, domain.ErrClaimNotFound
	}
	return claim, nil
}

// ClaimEvents returns the audit trail of a claim the actor may view.
func (s *ClaimService) ClaimEvents(ctx context.Context, id string, actor domain.Actor) ([]*domain.ClaimEvent, error) {
	if _, err := s.GetClaim(ctx, id, actor); err != nil {
		return nil, err
	}
	events, err := s.events.ListByClaim(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("claim events: %w", err)
	}
	return events, nil
}

// OpenEvidence streams the evidence attached to a claim the actor may view.
// The caller must close the returned content.
func (s *ClaimService) OpenEvidence(ctx context.Context, id string, actor domain.Actor) (*ports.EvidenceFile, error) {
	claim, err := s.GetClaim(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if claim.Evidence == nil || claim.Evidence.Key == "" {
		return nil, fmt.Errorf("%w: claim %s has no evidence attached", domain.ErrEvidenceNotFound, id)
	}
	rc, err := s.evidence.Open(ctx, claim.Evidence.Key)
	if err != nil {
		if errors.Is(err, domain.ErrEvidenceNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("open evidence: %w", err)
	}
	return &ports.EvidenceFile{
		Name:    claim.Evidence.OriginalName,
		Size:    claim.Evidence.SizeBytes,
		Content: rc,
	}, nil
}

func (s *ClaimService) CoordinatorApprove(ctx context.Context, id string, actor domain.Actor) (*domain.Claim, error) {
	return s.review(ctx, id, actor, domain.RoleCoordinator, domain.ActionApprove, func(c *domain.Claim) error {
		return s.engine.Approve(c, domain.RoleCoordinator)
	})
}

func (s *ClaimService) CoordinatorReject(ctx context.Context, id string, actor domain.Actor, reason string) (*domain.Claim, error) {
	return s.review(ctx, id, actor, domain.RoleCoordinator, domain.ActionReject, func(c *domain.Claim) error {
		return s.engine.Reject(c, domain.RoleCoordinator, reason)
	})
}

func (s *ClaimService) ManagerApprove(ctx context.Context, id string, actor domain.Actor) (*domain.Claim, error) {
	return s.review(ctx, id, actor, domain.RoleManager, domain.ActionApprove, func(c *domain.Claim) error {
		return s.engine.Approve(c, domain.RoleManager)
	})
}

func (s *ClaimService) ManagerReject(ctx context.Context, id string, actor domain.Actor, reason string) (*domain.Claim, error) {
	return s.review(ctx, id, actor, domain.RoleManager, domain.ActionReject, func(c *domain.Claim) error {
		return s.engine.Reject(c, domain.RoleManager, reason)
	})
}

// review runs one reviewer step. The stored record is only replaced when the
// engine accepts the transition and the versioned save succeeds.
func (s *ClaimService) review(
	ctx context.Context,
	id string,
	actor domain.Actor,
	stageRole domain.Role,
	action string,
	apply func(*domain.Claim) error,
) (_ *domain.Claim, err error) {
	op := string(stageRole) + "_" + action
	defer observe(op, time.Now())
	defer func() { recordTransition(action, stageRole, err) }()

	if actor.Role != stageRole && actor.Role != domain.RoleHR {
		return nil, fmt.Errorf("%w: role %q cannot act as %s", domain.ErrForbidden, actor.Role, stageRole)
	}

	stored, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	claim := stored.Clone()
	from := claim.Status
	if err := apply(claim); err != nil {
		var pv *domain.PolicyViolation
		if errors.As(err, &pv) {
			metrics.PolicyViolationsTotal.WithLabelValues(pv.Check, string(stageRole)).Inc()
			s.log.Info().Str("claim_id", id).Str("check", pv.Check).Str("role", string(stageRole)).Msg("approval blocked by policy")
		}
		return nil, err
	}

	if claim.IsPaid() {
		if err := s.reserveReference(ctx, claim); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := s.repo.Save(ctx, claim); err != nil {
		return nil, saveError(op, err)
	}

	note := ""
	if action == domain.ActionReject {
		note = claim.ReviewNote
	}
	s.audit(ctx, claim, action, actor, from, note)

	evt := s.log.Info().
		Str("claim_id", claim.ID).
		Str("actor_id", actor.ID).
		Str("from", string(from)).
		Str("to", string(claim.Status))
	if claim.PaymentReference != "" {
		evt = evt.Str("payment_reference", claim.PaymentReference)
	}
	evt.Str("action", action).Msg("claim reviewed")

	return claim, nil
}

// reserveReference registers the claim's payment reference, reissuing it on
// collision. Registry outages are logged and do not block the payment.
func (s *ClaimService) reserveReference(ctx context.Context, c *domain.Claim) error {
	for attempt := 1; ; attempt++ {
		ok, err := s.refs.Reserve(ctx, c.PaymentReference, c.ID)
		if err != nil {
			s.log.Warn().Err(err).Str("claim_id", c.ID).Msg("reference registry unavailable, keeping generated reference")
			return nil
		}
		if ok {
			return nil
		}

		metrics.PaymentReferenceCollisionsTotal.Inc()
		s.log.Warn().Str("claim_id", c.ID).Str("payment_reference", c.PaymentReference).Int("attempt", attempt).Msg("payment reference collision")
		if attempt >= maxReferenceAttempts {
			return fmt.Errorf("reserve payment reference: still colliding after %d attempts", attempt)
		}
		if err := s.engine.ReissueReference(c); err != nil {
			return err
		}
	}
}

func (s *ClaimService) storeEvidence(ctx context.Context, upload ports.EvidenceUpload) (string, error) {
	key, err := s.evidence.Put(ctx, upload)
	if err != nil {
		s.log.Error().Err(err).Str("filename", upload.Filename).Msg("failed to store evidence")
		return "", fmt.Errorf("store evidence: %w", err)
	}
	metrics.EvidenceBytesStored.Add(float64(upload.Size))
	return key, nil
}

// discardEvidence removes a stored file. Failures only leave an orphaned object.
func (s *ClaimService) discardEvidence(ev *domain.Evidence) {
	if ev == nil || ev.Key == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.evidence.Delete(ctx, ev.Key); err != nil {
		s.log.Warn().Err(err).Str("evidence_key", ev.Key).Msg("failed to delete evidence")
	}
}

// audit appends to the claim_events trail (non-fatal on failure).
func (s *ClaimService) audit(ctx context.Context, c *domain.Claim, action string, actor domain.Actor, from domain.ClaimStatus, note string) {
	event := &domain.ClaimEvent{
		ClaimID:    c.ID,
		Action:     action,
		Actor:      actor.Role,
		ActorID:    actor.ID,
		From:       from,
		To:         c.Status,
		Note:       note,
		OccurredAt: c.UpdatedAt,
	}
	if err := s.events.Append(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("claim_id", c.ID).Str("action", action).Msg("failed to insert audit event")
	}
}

func canView(c *domain.Claim, actor domain.Actor) bool {
	if actor.Role == domain.RoleLecturer {
		return c.ClaimantID == actor.ID
	}
	return true
}

func evidenceMeta(upload *ports.EvidenceUpload) *domain.Evidence {
	if upload == nil {
		return nil
	}
	return &domain.Evidence{OriginalName: upload.Filename, SizeBytes: upload.Size}
}

// scopedIdempotencyKey keeps keys from different claimants apart.
func scopedIdempotencyKey(claimantID, key string) string {
	if key == "" {
		return ""
	}
	return claimantID + ":" + key
}

func saveError(op string, err error) error {
	if errors.Is(err, domain.ErrConcurrentModification) || errors.Is(err, domain.ErrClaimNotFound) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

func observe(op string, start time.Time) {
	metrics.OperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func recordTransition(action string, role domain.Role, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrPolicyViolation):
		result = "policy_violation"
	case errors.Is(err, domain.ErrInvalidTransition):
		result = "invalid_transition"
	case errors.Is(err, domain.ErrForbidden):
		result = "forbidden"
	case errors.Is(err, domain.ErrClaimNotFound):
		result = "not_found"
	case errors.Is(err, domain.ErrConcurrentModification):
		result = "conflict"
	default:
		result = "error"
	}
	metrics.TransitionsTotal.WithLabelValues(action, string(role), result).Inc()
}
