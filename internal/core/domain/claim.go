package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClaimStatus represents the lifecycle state of a claim.
type ClaimStatus string

const (
	StatusPending             ClaimStatus = "Pending"
	StatusNeedsFix            ClaimStatus = "Needs Fix"
	StatusCoordinatorApproved ClaimStatus = "Coordinator Approved"
	StatusManagerApproved     ClaimStatus = "Manager Approved"
)

// IsValid reports whether s is one of the known claim statuses.
func (s ClaimStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusNeedsFix, StatusCoordinatorApproved, StatusManagerApproved:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition can leave s.
func (s ClaimStatus) IsTerminal() bool {
	return s == StatusManagerApproved
}

// PaymentStatus tracks whether a claim has been paid out.
type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "Unpaid"
	PaymentPaid   PaymentStatus = "Paid"
)

// Evidence references a supporting document kept in external storage.
// The core records the reference only; it never reads the file.
type Evidence struct {
	OriginalName string `json:"original_name"`
	Key          string `json:"key"`
	SizeBytes    int64  `json:"size_bytes"`
}

// StatusHistoryEntry records a single status transition on a claim.
type StatusHistoryEntry struct {
	Status    ClaimStatus `json:"status"`
	Actor     Role        `json:"actor"`
	Note      string      `json:"note,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Claim is the core aggregate root.
type Claim struct {
	ID           string `json:"id"`
	ClaimantID   string `json:"claimant_id"`
	ClaimantName string `json:"claimant_name"`

	HoursWorked decimal.Decimal `json:"hours_worked"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`

	Status        ClaimStatus   `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`

	ReviewNote string     `json:"review_note,omitempty"`
	ReviewedBy Role       `json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`

	PaymentReference string     `json:"payment_reference,omitempty"`
	PaidAt           *time.Time `json:"paid_at,omitempty"`

	Evidence *Evidence `json:"evidence,omitempty"`

	IdempotencyKey string               `json:"-"`
	StatusHistory  []StatusHistoryEntry `json:"status_history"`
	Version        int64                `json:"version"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// ComputeAmount returns hours * rate, the only source of a claim's amount.
func ComputeAmount(hours, rate decimal.Decimal) decimal.Decimal {
	return hours.Mul(rate)
}

// AmountConsistent reports whether the stored amount still equals hours * rate.
func (c *Claim) AmountConsistent() bool {
	return c.Amount.Equal(ComputeAmount(c.HoursWorked, c.Rate))
}

// IsPaid reports whether the claim satisfies every condition of a completed payment.
func (c *Claim) IsPaid() bool {
	return c.PaymentStatus == PaymentPaid &&
		c.Status == StatusManagerApproved &&
		c.PaymentReference != ""
}

// ClearReview drops reviewer metadata.
func (c *Claim) ClearReview() {
	c.ReviewNote = ""
	c.ReviewedBy = ""
	c.ReviewedAt = nil
}

// ClearPayment resets the claim to unpaid and drops payment metadata.
func (c *Claim) ClearPayment() {
	c.PaymentStatus = PaymentUnpaid
	c.PaymentReference = ""
	c.PaidAt = nil
}

// Clone returns a deep copy so callers can mutate without aliasing stored records.
func (c *Claim) Clone() *Claim {
	if c == nil {
		return nil
	}
	out := *c
	if c.ReviewedAt != nil {
		t := *c.ReviewedAt
		out.ReviewedAt = &t
	}
	if c.PaidAt != nil {
		t := *c.PaidAt
		out.PaidAt = &t
	}
	if c.Evidence != nil {
		e := *c.Evidence
		out.Evidence = &e
	}
	out.StatusHistory = append([]StatusHistoryEntry(nil), c.StatusHistory...)
	return &out
}
