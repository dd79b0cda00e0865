package handler

// --- Request types ---

// submitClaimForm is the non-file part of a multipart claim submission.
// The optional evidence file travels in the "evidence" form field.
type submitClaimForm struct {
	HoursWorked string `form:"hours_worked" validate:"required,decimal"`
}

type listClaimsQuery struct {
	Status   string `query:"status"`
	Claimant string `query:"claimant"`
	Order    string `query:"order"`
	Page     int    `query:"page"`
	Limit    int    `query:"limit"`
}

type rejectRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// --- Response types ---

type evidenceResponse struct {
	OriginalName string `json:"original_name"`
	SizeBytes    int64  `json:"size_bytes"`
	Download     string `json:"download"`
}

type historyItemResponse struct {
	Status    string `json:"status"`
	Actor     string `json:"actor"`
	Note      string `json:"note,omitempty"`
	Timestamp string `json:"timestamp"`
}

type claimLinks struct {
	Self   string `json:"self"`
	Events string `json:"events"`
}

type claimResponse struct {
	ID               string                `json:"id"`
	ClaimantID       string                `json:"claimant_id"`
	ClaimantName     string                `json:"claimant_name"`
	HoursWorked      string                `json:"hours_worked"`
	Rate             string                `json:"rate"`
	Amount           string                `json:"amount"`
	Status           string                `json:"status"`
	PaymentStatus    string                `json:"payment_status"`
	ReviewNote       string                `json:"review_note,omitempty"`
	ReviewedBy       string                `json:"reviewed_by,omitempty"`
	ReviewedAt       string                `json:"reviewed_at,omitempty"`
	PaymentReference string                `json:"payment_reference,omitempty"`
	PaidAt           string                `json:"paid_at,omitempty"`
	Evidence         *evidenceResponse     `json:"evidence,omitempty"`
	StatusHistory    []historyItemResponse `json:"status_history"`
	AllowedActions   []string              `json:"allowed_actions"`
	Version          int64                 `json:"version"`
	CreatedAt        string                `json:"created_at"`
	UpdatedAt        string                `json:"updated_at"`
	Links            claimLinks            `json:"_links"`
}

type paginationMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type listClaimsResponse struct {
	Data       []claimResponse `json:"data"`
	Pagination paginationMeta  `json:"pagination"`
}

type claimEventResponse struct {
	Action     string `json:"action"`
	Actor      string `json:"actor"`
	ActorID    string `json:"actor_id,omitempty"`
	From       string `json:"from,omitempty"`
	To         string `json:"to"`
	Note       string `json:"note,omitempty"`
	OccurredAt string `json:"occurred_at"`
}

type errorResponse struct {
	Error string `json:"error"`
}
