package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthHandler handles GET /health, the liveness probe.
// Returns 200 immediately; confirms the process is alive.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Liveness reports that the process is up.
//
// @Summary  Liveness probe
// @Tags     health
// @Produce  json
// @Success  200  {object}  map[string]string
// @Router   /health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// DependencyCheck pings one backing service.
type DependencyCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

// MongoCheck verifies the primary answers and the claims database accepts commands.
func MongoCheck(db *mongo.Database) DependencyCheck {
	return DependencyCheck{Name: "mongodb", Ping: func(ctx context.Context) error {
		if err := db.Client().Ping(ctx, nil); err != nil {
			return err
		}
		return db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
	}}
}

// RedisCheck verifies the payment reference registry is reachable.
func RedisCheck(rdb *redis.Client) DependencyCheck {
	return DependencyCheck{Name: "redis", Ping: func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}}
}

// HealthDependenciesHandler handles GET /health/ready, the readiness probe.
// Checks every dependency before declaring the service ready.
type HealthDependenciesHandler struct {
	checks []DependencyCheck
}

func NewHealthDependenciesHandler(checks ...DependencyCheck) *HealthDependenciesHandler {
	return &HealthDependenciesHandler{checks: checks}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Readiness pings each dependency.
//
// @Summary  Readiness probe
// @Tags     health
// @Produce  json
// @Success  200  {object}  readinessResponse
// @Failure  503  {object}  readinessResponse
// @Router   /health/ready [get]
func (h *HealthDependenciesHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus, len(h.checks))
	healthy := true

	for _, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			deps[check.Name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
			continue
		}
		deps[check.Name] = dependencyStatus{Status: "ok"}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
