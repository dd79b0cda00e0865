package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/lecturerclaims/claims-system/internal/core/domain"
)

// Context keys set by Auth.
const (
	CtxUserID = "user_id"
	CtxName   = "name"
	CtxRole   = "role"
)

// Auth validates the JWT and injects the caller's identity into context.
// Tokens without a user id or with an unknown role are rejected.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			userID, _ := claims[CtxUserID].(string)
			rawRole, _ := claims[CtxRole].(string)
			role, ok := domain.ParseRole(rawRole)
			if userID == "" || !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing identity")
			}
			name, _ := claims[CtxName].(string)

			c.Set(CtxUserID, userID)
			c.Set(CtxName, name)
			c.Set(CtxRole, string(role))

			return next(c)
		}
	}
}
