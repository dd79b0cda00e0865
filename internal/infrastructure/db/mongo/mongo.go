package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

const (
	defaultTimeout     = 10 * time.Second
	defaultAppName     = "claims-api"
	defaultMaxPoolSize = 50
)

// Config holds the connection settings for the claims database.
type Config struct {
	URI            string
	Database       string
	AppName        string
	ConnectTimeout time.Duration
	MaxPoolSize    uint64
	MinPoolSize    uint64
}

// clientOptions fills unset fields with defaults and builds the driver options.
func clientOptions(cfg Config) *options.ClientOptions {
	if cfg.AppName == "" {
		cfg.AppName = defaultAppName
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = defaultTimeout
	}
	if cfg.MaxPoolSize == 0 {
		cfg.MaxPoolSize = defaultMaxPoolSize
	}

	return options.Client().
		ApplyURI(cfg.URI).
		SetAppName(cfg.AppName).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ConnectTimeout).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetRetryWrites(true).
		SetWriteConcern(writeconcern.Majority())
}

// Connect opens the client, pings the primary and returns the claims database.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	if cfg.Database == "" {
		return nil, nil, fmt.Errorf("mongo connect: database name is required")
	}
	opts := clientOptions(cfg)

	connectCtx, cancel := context.WithTimeout(ctx, *opts.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping %s: %w", cfg.Database, err)
	}

	return client, client.Database(cfg.Database), nil
}
