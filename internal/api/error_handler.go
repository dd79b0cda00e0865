package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/lecturerclaims/claims-system/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
	Check string `json:"check,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Passes the human-readable reason of validation and policy failures through.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, errorResponse{Error: ve.Reason, Field: ve.Field}
	}
	var pv *domain.PolicyViolation
	if errors.As(err, &pv) {
		return http.StatusUnprocessableEntity, errorResponse{Error: pv.Reason, Check: pv.Check}
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrClaimNotFound):
		return http.StatusNotFound, errorResponse{Error: "claim not found"}
	case errors.Is(err, domain.ErrEvidenceNotFound):
		return http.StatusNotFound, errorResponse{Error: "evidence not found"}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrConcurrentModification):
		return http.StatusConflict, errorResponse{Error: "claim was modified by another request, reload and retry"}
	case errors.Is(err, domain.ErrDuplicateSubmission):
		return http.StatusConflict, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "invalid credentials"}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errorResponse{Error: "user not found"}
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, errorResponse{Error: "user already exists"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
