package domain

import "time"

// Workflow actions recorded in the audit trail.
const (
	ActionSubmit   = "submit"
	ActionResubmit = "resubmit"
	ActionApprove  = "approve"
	ActionReject   = "reject"
)

// ClaimEvent is an audit record of a single lifecycle transition.
type ClaimEvent struct {
	ClaimID    string
	Action     string
	Actor      Role
	ActorID    string
	From       ClaimStatus // empty for the initial submit
	To         ClaimStatus
	Note       string
	OccurredAt time.Time
}
