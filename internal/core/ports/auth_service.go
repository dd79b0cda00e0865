package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/lecturerclaims/claims-system/internal/core/domain"
)

// RegisterInput carries the details of a new user account.
type RegisterInput struct {
	Name       string
	Email      string
	Password   string
	Role       string
	HourlyRate decimal.Decimal
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// Profile returns the current record of a user, used to snapshot name and rate.
	Profile(ctx context.Context, userID string) (*domain.User, error)
}
