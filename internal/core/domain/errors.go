package domain

import "errors"

var (
	ErrInvalidTransition      = errors.New("invalid status transition")
	ErrClaimNotFound          = errors.New("claim not found")
	ErrForbidden              = errors.New("access forbidden")
	ErrConcurrentModification = errors.New("claim was modified concurrently")
	ErrValidation             = errors.New("validation failed")
	ErrPolicyViolation        = errors.New("policy violation")
	ErrEvidenceNotFound       = errors.New("evidence not found")
	ErrDuplicateSubmission    = errors.New("claim already submitted with this idempotency key")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
)

// ValidationError reports a submission-time field check failure.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Policy check identifiers carried by PolicyViolation.
const (
	CheckHours          = "hours"
	CheckRate           = "rate"
	CheckAmountMismatch = "amount_mismatch"
	CheckTotalAmount    = "total_amount"
)

// PolicyViolation reports an approval-gate check failure. The claim is left untouched.
type PolicyViolation struct {
	Check  string
	Reason string
}

func (e *PolicyViolation) Error() string { return e.Reason }

func (e *PolicyViolation) Unwrap() error { return ErrPolicyViolation }
