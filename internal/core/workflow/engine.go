package workflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lecturerclaims/claims-system/internal/core/domain"
)

const (
	defaultCoordinatorRejectNote = "Please fix and resubmit"
	defaultManagerRejectNote     = "Changes Requested"
)

// stage is one reviewer step: the status a claim must be in and where approval takes it.
type stage struct {
	from     domain.ClaimStatus
	approved domain.ClaimStatus
}

// reviewStage maps a reviewer role to its step in the approval chain.
func reviewStage(role domain.Role) (stage, bool) {
	switch role {
	case domain.RoleCoordinator:
		return stage{from: domain.StatusPending, approved: domain.StatusCoordinatorApproved}, true
	case domain.RoleManager:
		return stage{from: domain.StatusCoordinatorApproved, approved: domain.StatusManagerApproved}, true
	case domain.RoleLecturer, domain.RoleHR:
		return stage{}, false
	}
	return stage{}, false
}

// Submission carries claimant-supplied fields for submit and resubmit.
// Rate is the claimant's current hourly rate, snapshotted by the caller.
type Submission struct {
	ClaimantID   string
	ClaimantName string
	HoursWorked  decimal.Decimal
	Rate         decimal.Decimal
	Evidence     *domain.Evidence // nil keeps the existing evidence on resubmit
}

// Engine applies the claim state machine. It is safe for concurrent use.
type Engine struct {
	policy Policy
	now    func() time.Time
	refs   ReferenceSource
}

// Option customises an Engine.
type Option func(*Engine)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithReferenceSource overrides payment reference generation.
func WithReferenceSource(src ReferenceSource) Option {
	return func(e *Engine) { e.refs = src }
}

// NewEngine returns an Engine enforcing policy.
func NewEngine(policy Policy, opts ...Option) *Engine {
	e := &Engine{
		policy: policy,
		now:    func() time.Time { return time.Now().UTC() },
		refs:   RandomReferences{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Policy returns the limits the engine enforces.
func (e *Engine) Policy() Policy { return e.policy }

// Submit validates a new claim and returns it in Pending with its amount derived.
func (e *Engine) Submit(s Submission) (*domain.Claim, error) {
	if strings.TrimSpace(s.ClaimantID) == "" || strings.TrimSpace(s.ClaimantName) == "" {
		return nil, &domain.ValidationError{Field: "claimant", Reason: "claimant identity is required"}
	}
	if err := e.checkSubmission(s); err != nil {
		return nil, err
	}

	now := e.now()
	c := &domain.Claim{
		ClaimantID:    s.ClaimantID,
		ClaimantName:  s.ClaimantName,
		HoursWorked:   s.HoursWorked,
		Rate:          s.Rate,
		Amount:        domain.ComputeAmount(s.HoursWorked, s.Rate),
		Status:        domain.StatusPending,
		PaymentStatus: domain.PaymentUnpaid,
		Evidence:      s.Evidence,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	c.StatusHistory = []domain.StatusHistoryEntry{{Status: domain.StatusPending, Actor: domain.RoleLecturer, Timestamp: now}}
	return c, nil
}

// Resubmit applies a claimant's corrections to a Needs Fix claim and returns it to Pending.
func (e *Engine) Resubmit(c *domain.Claim, s Submission) error {
	if c.ClaimantID != s.ClaimantID {
		return fmt.Errorf("resubmit claim %s: %w: only the original claimant may resubmit", c.ID, domain.ErrForbidden)
	}
	if c.Status != domain.StatusNeedsFix {
		return fmt.Errorf("%w: only claims in %q can be resubmitted (current: %q)",
			domain.ErrInvalidTransition, domain.StatusNeedsFix, c.Status)
	}
	if err := e.checkSubmission(s); err != nil {
		return err
	}

	now := e.now()
	c.HoursWorked = s.HoursWorked
	c.Rate = s.Rate
	c.Amount = domain.ComputeAmount(s.HoursWorked, s.Rate)
	if s.Evidence != nil {
		c.Evidence = s.Evidence
	}
	c.Status = domain.StatusPending
	c.ClearReview()
	c.ClearPayment()
	c.UpdatedAt = now
	c.StatusHistory = append(c.StatusHistory, domain.StatusHistoryEntry{Status: domain.StatusPending, Actor: domain.RoleLecturer, Timestamp: now})
	return nil
}

// Approve advances c one step in the chain on behalf of role, after the validation gate passes.
func (e *Engine) Approve(c *domain.Claim, role domain.Role) error {
	st, ok := reviewStage(role)
	if !ok {
		return fmt.Errorf("%w: role %q cannot approve claims", domain.ErrForbidden, role)
	}
	if c.Status != st.from {
		return fmt.Errorf("%w: %s cannot approve a claim in status %q", domain.ErrInvalidTransition, role, c.Status)
	}
	if err := CheckApproval(c, e.policy.LimitsFor(role)); err != nil {
		return err
	}

	now := e.now()
	c.Status = st.approved
	c.ReviewNote = ""
	if st.approved == domain.StatusManagerApproved {
		c.PaymentStatus = domain.PaymentPaid
		c.PaymentReference = e.refs.Next(now)
		c.PaidAt = &now
	}
	c.UpdatedAt = now
	c.StatusHistory = append(c.StatusHistory, domain.StatusHistoryEntry{Status: c.Status, Actor: role, Timestamp: now})
	return nil
}

// Reject bounces c back to Needs Fix on behalf of role. An empty reason
// is replaced with the role's standard message.
func (e *Engine) Reject(c *domain.Claim, role domain.Role, reason string) error {
	st, ok := reviewStage(role)
	if !ok {
		return fmt.Errorf("%w: role %q cannot reject claims", domain.ErrForbidden, role)
	}
	if c.Status != st.from {
		return fmt.Errorf("%w: %s cannot reject a claim in status %q", domain.ErrInvalidTransition, role, c.Status)
	}

	note := strings.TrimSpace(reason)
	if note == "" {
		note = defaultRejectNote(role)
	}

	now := e.now()
	c.Status = domain.StatusNeedsFix
	c.ReviewNote = note
	c.ReviewedBy = role
	c.ReviewedAt = &now
	c.ClearPayment()
	c.UpdatedAt = now
	c.StatusHistory = append(c.StatusHistory, domain.StatusHistoryEntry{Status: domain.StatusNeedsFix, Actor: role, Note: note, Timestamp: now})
	return nil
}

// ReissueReference replaces the payment reference of a paid claim, keeping PaidAt.
// Used when the issued reference collides with one already on record.
func (e *Engine) ReissueReference(c *domain.Claim) error {
	if !c.IsPaid() || c.PaidAt == nil {
		return fmt.Errorf("%w: claim %s has no payment reference to reissue", domain.ErrInvalidTransition, c.ID)
	}
	c.PaymentReference = e.refs.Next(*c.PaidAt)
	return nil
}

// PermittedActions lists the actions role may take on a claim in status.
func PermittedActions(status domain.ClaimStatus, role domain.Role) []string {
	switch role {
	case domain.RoleLecturer:
		if status == domain.StatusNeedsFix {
			return []string{domain.ActionResubmit}
		}
		return nil
	case domain.RoleCoordinator, domain.RoleManager:
		if st, _ := reviewStage(role); status == st.from {
			return []string{domain.ActionApprove, domain.ActionReject}
		}
		return nil
	case domain.RoleHR:
		return nil
	}
	return nil
}

func (e *Engine) checkSubmission(s Submission) error {
	if err := e.policy.CheckHours(s.HoursWorked); err != nil {
		return err
	}
	if s.Evidence != nil {
		if err := e.policy.CheckEvidence(s.Evidence.OriginalName, s.Evidence.SizeBytes); err != nil {
			return err
		}
	}
	return nil
}

func defaultRejectNote(role domain.Role) string {
	if role == domain.RoleManager {
		return defaultManagerRejectNote
	}
	return defaultCoordinatorRejectNote
}
