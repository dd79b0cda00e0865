package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role is the closed set of actors the system recognises.
type Role string

const (
	RoleLecturer    Role = "lecturer"
	RoleCoordinator Role = "coordinator"
	RoleManager     Role = "manager"
	RoleHR          Role = "hr"
)

// ParseRole converts a raw role name into a Role. Unknown names return false.
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleLecturer, RoleCoordinator, RoleManager, RoleHR:
		return r, true
	}
	return "", false
}

func (r Role) String() string { return string(r) }

// Actor identifies who is performing an operation. It is always passed
// explicitly; the core never reads identity from ambient state.
type Actor struct {
	ID   string
	Role Role
}

// User models an authenticated actor in the system.
type User struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	PasswordHash string          `json:"-"`
	Role         Role            `json:"role"`
	HourlyRate   decimal.Decimal `json:"hourly_rate"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
