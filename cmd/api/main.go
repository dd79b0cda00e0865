// Command api serves the lecturer claims HTTP API.
//
// @title                       Lecturer Claims API
// @version                     1.0
// @description                 Monthly claim submission with coordinator and manager approval.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	_ "github.com/lecturerclaims/claims-system/docs"
	"github.com/lecturerclaims/claims-system/internal/api"
	"github.com/lecturerclaims/claims-system/internal/api/handler"
	"github.com/lecturerclaims/claims-system/internal/core/domain"
	"github.com/lecturerclaims/claims-system/internal/core/ports"
	"github.com/lecturerclaims/claims-system/internal/core/service"
	"github.com/lecturerclaims/claims-system/internal/core/workflow"
	mongodb "github.com/lecturerclaims/claims-system/internal/infrastructure/db/mongo"
	redisdb "github.com/lecturerclaims/claims-system/internal/infrastructure/db/redis"
	"github.com/lecturerclaims/claims-system/internal/pkg/config"
	"github.com/lecturerclaims/claims-system/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "claims-api",
		Env:     cfg.Env,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:            cfg.Mongo.URI,
		Database:       cfg.Mongo.Database,
		AppName:        cfg.Mongo.AppName,
		ConnectTimeout: cfg.Mongo.ConnectTimeout,
		MaxPoolSize:    cfg.Mongo.MaxPoolSize,
		MinPoolSize:    cfg.Mongo.MinPoolSize,
	})
	if err != nil {
		return err
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Timeout:  cfg.Redis.Timeout,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		return err
	}
	defer func() { _ = rdb.Close() }()

	claimRepo := mongodb.NewClaimRepository(db)
	eventRepo := mongodb.NewEventRepository(db)
	authRepo := mongodb.NewAuthRepository(db)
	for _, idx := range []interface{ EnsureIndexes(context.Context) error }{claimRepo, eventRepo, authRepo} {
		if err := idx.EnsureIndexes(ctx); err != nil {
			return err
		}
	}
	evidence, err := mongodb.NewEvidenceStore(db)
	if err != nil {
		return err
	}

	// --- Core ---
	policy, err := cfg.WorkflowPolicy()
	if err != nil {
		return err
	}
	engine := workflow.NewEngine(policy)
	authService := service.NewAuthService(authRepo, cfg.JWTSecret, cfg.TokenTTL)
	claimService := service.NewClaimService(
		claimRepo,
		eventRepo,
		evidence,
		redisdb.NewReferenceRegistry(rdb),
		engine,
		logger.Component("claims"),
	)

	if cfg.Bootstrap.Enabled() {
		user, created, err := authService.EnsureUser(ctx, ports.RegisterInput{
			Name:     cfg.Bootstrap.HRName,
			Email:    cfg.Bootstrap.HREmail,
			Password: cfg.Bootstrap.HRPassword,
			Role:     string(domain.RoleHR),
		})
		if err != nil {
			return err
		}
		log.Info().Str("email", user.Email).Bool("created", created).Msg("hr account ready")
	}

	// --- HTTP ---
	e := api.NewRouter(api.Dependencies{
		Auth:           authService,
		Claims:         claimService,
		Health:         []handler.DependencyCheck{handler.MongoCheck(db), handler.RedisCheck(rdb)},
		JWTSecret:      cfg.JWTSecret,
		MaxUploadBytes: policy.Evidence.MaxFileSizeBytes,
		Logger:         logger.Component("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
