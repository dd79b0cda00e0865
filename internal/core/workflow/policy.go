// Package workflow holds the claim lifecycle rules: submission checks, the
// approval validation gate, legal status transitions per role, and payment
// reference generation. It performs no I/O; callers load and persist claims.
package workflow

import (
	"github.com/shopspring/decimal"

	"github.com/lecturerclaims/claims-system/internal/core/domain"
)

// Limits are the ceilings applied by the validation gate for one approving role.
type Limits struct {
	MaxMonthlyHours decimal.Decimal
	MaxHourlyRate   decimal.Decimal
	MaxTotalAmount  decimal.Decimal
}

// EvidenceRules constrain the optional evidence file attached to a claim.
type EvidenceRules struct {
	AllowedExtensions []string // lower-case, with leading dot
	MaxFileSizeBytes  int64
}

// Policy is the full set of configurable claim limits.
type Policy struct {
	MaxMonthlyHours          decimal.Decimal
	MaxHourlyRateCoordinator decimal.Decimal
	MaxHourlyRateManager     decimal.Decimal
	MaxTotalAmount           decimal.Decimal
	Evidence                 EvidenceRules
}

// DefaultPolicy returns the limits the faculty has historically applied.
func DefaultPolicy() Policy {
	return Policy{
		MaxMonthlyHours:          decimal.NewFromInt(180),
		MaxHourlyRateCoordinator: decimal.NewFromInt(1000),
		MaxHourlyRateManager:     decimal.NewFromInt(400),
		MaxTotalAmount:           decimal.NewFromInt(100000),
		Evidence: EvidenceRules{
			AllowedExtensions: []string{".pdf", ".docx"},
			MaxFileSizeBytes:  5 * 1024 * 1024,
		},
	}
}

// LimitsFor returns the gate limits for an approving role. The manager stage
// uses its own, stricter rate ceiling; every other role gets the general one.
func (p Policy) LimitsFor(role domain.Role) Limits {
	rate := p.MaxHourlyRateCoordinator
	if role == domain.RoleManager {
		rate = p.MaxHourlyRateManager
	}
	return Limits{
		MaxMonthlyHours: p.MaxMonthlyHours,
		MaxHourlyRate:   rate,
		MaxTotalAmount:  p.MaxTotalAmount,
	}
}
