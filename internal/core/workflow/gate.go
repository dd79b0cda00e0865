package workflow

import (
	"fmt"

	"github.com/lecturerclaims/claims-system/internal/core/domain"
)

// CheckApproval runs the four-step validation gate against c using limits.
// The first failing check is returned as a *domain.PolicyViolation; c is never modified.
func CheckApproval(c *domain.Claim, limits Limits) error {
	if !c.HoursWorked.IsPositive() || c.HoursWorked.GreaterThan(limits.MaxMonthlyHours) {
		return &domain.PolicyViolation{
			Check: domain.CheckHours,
			Reason: fmt.Sprintf("hours worked (%s) must be greater than 0 and at most the maximum allowed per month (%s)",
				c.HoursWorked, limits.MaxMonthlyHours),
		}
	}

	if !c.Rate.IsPositive() || c.Rate.GreaterThan(limits.MaxHourlyRate) {
		return &domain.PolicyViolation{
			Check: domain.CheckRate,
			Reason: fmt.Sprintf("hourly rate (%s) must be greater than 0 and at most the maximum allowed (%s)",
				money(c.Rate), money(limits.MaxHourlyRate)),
		}
	}

	expected := domain.ComputeAmount(c.HoursWorked, c.Rate)
	if !c.Amount.Equal(expected) {
		return &domain.PolicyViolation{
			Check: domain.CheckAmountMismatch,
			Reason: fmt.Sprintf("claim total (%s) does not match hours worked * hourly rate (%s)",
				money(c.Amount), money(expected)),
		}
	}

	if c.Amount.GreaterThan(limits.MaxTotalAmount) {
		return &domain.PolicyViolation{
			Check: domain.CheckTotalAmount,
			Reason: fmt.Sprintf("claim total (%s) exceeds the maximum allowed total (%s)",
				money(c.Amount), money(limits.MaxTotalAmount)),
		}
	}

	return nil
}
