package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/lecturerclaims/claims-system/internal/core/domain"
	"github.com/lecturerclaims/claims-system/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	Role       string `json:"role" validate:"required,role"`
	HourlyRate string `json:"hourly_rate" validate:"omitempty,decimal"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

// Register creates a new user account. Only HR may call it.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	rate := decimal.Zero
	if req.HourlyRate != "" {
		rate, _ = decimal.NewFromString(req.HourlyRate)
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Role:       req.Role,
		HourlyRate: rate,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResponse{User: user})
}

// Login authenticates a user and returns a JWT token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}

// Me returns the profile of the authenticated caller.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  authResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	user, err := h.authService.Profile(c.Request().Context(), actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{User: user})
}
