package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lecturerclaims/claims-system/internal/api/middleware"
	"github.com/lecturerclaims/claims-system/internal/core/domain"
)

// ctxActor extracts the identity injected by the Auth middleware and
// performs a fast-fail check before any service call: both user id and a
// known role must be present (their presence proves the middleware ran).
func ctxActor(c echo.Context) (domain.Actor, error) {
	userID, _ := c.Get(middleware.CtxUserID).(string)
	rawRole, _ := c.Get(middleware.CtxRole).(string)
	role, ok := domain.ParseRole(rawRole)
	if userID == "" || !ok {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return domain.Actor{ID: userID, Role: role}, nil
}
