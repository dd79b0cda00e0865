package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTimeout = 5 * time.Second

// Config holds the settings for the payment-reference registry connection.
type Config struct {
	Addr     string
	Password string
	DB       int
	Timeout  time.Duration
	PoolSize int
}

// clientOptions applies Timeout to dialing and to every command.
func clientOptions(cfg Config) *redis.Options {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}
}

// Connect builds the client and pings the server before returning it.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	opts := clientOptions(cfg)
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s db=%d: %w", cfg.Addr, cfg.DB, err)
	}
	return client, nil
}
