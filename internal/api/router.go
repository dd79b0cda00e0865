package api

import (
	"fmt"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/lecturerclaims/claims-system/internal/api/handler"
	"github.com/lecturerclaims/claims-system/internal/api/middleware"
	"github.com/lecturerclaims/claims-system/internal/core/domain"
	"github.com/lecturerclaims/claims-system/internal/core/ports"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	Auth      ports.AuthService
	Claims    ports.ClaimService
	Health    []handler.DependencyCheck
	JWTSecret string
	// MaxUploadBytes bounds multipart claim bodies; the evidence size rule itself is enforced in the core.
	MaxUploadBytes int64
	Logger         zerolog.Logger
	// Registry receives the HTTP request metrics; nil means the default Prometheus registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:                 "http",
		Registerer:                registerer,
		DoNotUseRequestPathFor404: true,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	claimHandler := handler.NewClaimHandler(deps.Claims, deps.Auth)
	coordinatorHandler := handler.NewCoordinatorHandler(deps.Claims)
	managerHandler := handler.NewManagerHandler(deps.Claims)
	authMiddleware := middleware.Auth(deps.JWTSecret)
	uploadLimit := echomiddleware.BodyLimit(bodyLimit(deps.MaxUploadBytes))

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/register", authHandler.Register, authMiddleware, middleware.RBAC(domain.RoleHR))
	e.GET("/auth/me", authHandler.Me, authMiddleware)

	v1 := e.Group("/v1", authMiddleware)

	// --- Claimant routes ---
	claims := v1.Group("/claims")
	claims.POST("", claimHandler.Submit, middleware.RBAC(domain.RoleLecturer), uploadLimit)
	claims.GET("", claimHandler.List, middleware.RBAC(domain.RoleLecturer))
	claims.GET("/:id", claimHandler.Get)
	claims.PUT("/:id", claimHandler.Resubmit, middleware.RBAC(domain.RoleLecturer), uploadLimit)
	claims.GET("/:id/events", claimHandler.Events)
	claims.GET("/:id/evidence", claimHandler.Evidence)

	// --- Reviewer routes ---
	coordinator := v1.Group("/coordinator/claims", middleware.RBAC(domain.RoleCoordinator))
	coordinator.GET("", coordinatorHandler.Queue)
	coordinator.POST("/:id/approve", coordinatorHandler.Approve)
	coordinator.POST("/:id/reject", coordinatorHandler.Reject)

	manager := v1.Group("/manager/claims", middleware.RBAC(domain.RoleManager))
	manager.GET("", managerHandler.Queue)
	manager.POST("/:id/approve", managerHandler.Approve)
	manager.POST("/:id/reject", managerHandler.Reject)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Health...)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil || v.Status >= 500 {
				evt = log.Error().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

// bodyLimit leaves headroom over the evidence size so the core can report
// oversized files with a proper validation error.
func bodyLimit(maxUpload int64) string {
	if maxUpload <= 0 {
		maxUpload = 5 << 20
	}
	return fmt.Sprintf("%dK", maxUpload/1024+512)
}
