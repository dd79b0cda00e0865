package workflow

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lecturerclaims/claims-system/internal/core/domain"
)

// HoursDecimalPlaces bounds the precision of claimed hours so that
// hours * rate always fits a stored Decimal128.
const HoursDecimalPlaces = 2

// CheckHours validates claimed hours against the monthly ceiling.
func (p Policy) CheckHours(hours decimal.Decimal) error {
	if !hours.IsPositive() || hours.GreaterThan(p.MaxMonthlyHours) {
		return &domain.ValidationError{
			Field: "hours_worked",
			Reason: fmt.Sprintf("hours worked (%s) must be greater than 0 and at most %s per month",
				hours, p.MaxMonthlyHours),
		}
	}
	if !hours.Equal(hours.Truncate(HoursDecimalPlaces)) {
		return &domain.ValidationError{
			Field:  "hours_worked",
			Reason: fmt.Sprintf("hours worked (%s) may have at most %d decimal places", hours, HoursDecimalPlaces),
		}
	}
	return nil
}

// CheckEvidence validates an evidence file's name and size before it is stored.
func (p Policy) CheckEvidence(filename string, size int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !p.extensionAllowed(ext) {
		return &domain.ValidationError{
			Field: "evidence",
			Reason: fmt.Sprintf("evidence file type %q is not allowed (allowed: %s)",
				ext, strings.Join(p.Evidence.AllowedExtensions, ", ")),
		}
	}
	if size > p.Evidence.MaxFileSizeBytes {
		return &domain.ValidationError{
			Field: "evidence",
			Reason: fmt.Sprintf("evidence file size (%d bytes) exceeds the maximum of %d bytes",
				size, p.Evidence.MaxFileSizeBytes),
		}
	}
	return nil
}

func (p Policy) extensionAllowed(ext string) bool {
	if ext == "" {
		return false
	}
	for _, allowed := range p.Evidence.AllowedExtensions {
		if strings.EqualFold(allowed, ext) {
			return true
		}
	}
	return false
}

// money renders a currency amount with two decimal places.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
