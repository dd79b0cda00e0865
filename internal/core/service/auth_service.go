package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/lecturerclaims/claims-system/internal/core/domain"
	"github.com/lecturerclaims/claims-system/internal/core/ports"
)

const minPasswordLength = 8

// AuthService implements registration, login and profile lookup.
type AuthService struct {
	repo      ports.AuthRepository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(repo ports.AuthRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	name := strings.TrimSpace(input.Name)
	email := normalizeEmail(input.Email)
	if name == "" {
		return nil, &domain.ValidationError{Field: "name", Reason: "name is required"}
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, &domain.ValidationError{Field: "email", Reason: "a valid email address is required"}
	}
	if len(input.Password) < minPasswordLength {
		return nil, &domain.ValidationError{Field: "password", Reason: fmt.Sprintf("password must be at least %d characters", minPasswordLength)}
	}
	role, ok := domain.ParseRole(input.Role)
	if !ok {
		return nil, &domain.ValidationError{Field: "role", Reason: fmt.Sprintf("unknown role %q", input.Role)}
	}
	if input.HourlyRate.IsNegative() {
		return nil, &domain.ValidationError{Field: "hourly_rate", Reason: "hourly rate cannot be negative"}
	}
	if !input.HourlyRate.Equal(input.HourlyRate.Truncate(2)) {
		return nil, &domain.ValidationError{Field: "hourly_rate", Reason: "hourly rate may have at most 2 decimal places"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		HourlyRate:   input.HourlyRate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// EnsureUser registers input unless an account with the same email already exists.
// Used to seed the first HR account at startup.
func (s *AuthService) EnsureUser(ctx context.Context, input ports.RegisterInput) (*domain.User, bool, error) {
	existing, err := s.repo.FindByEmail(ctx, normalizeEmail(input.Email))
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, false, err
	}
	created, err := s.Register(ctx, input)
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, domain.ErrUserNotFound
	}
	return s.repo.FindByID(ctx, userID)
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"name":    user.Name,
		"role":    string(user.Role),
		"exp":     time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
