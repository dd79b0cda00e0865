package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// referenceTTL outlives any audit window in which a reference may be looked up.
const referenceTTL = 10 * 365 * 24 * time.Hour

// ReferenceRegistry records issued payment references backed by Redis.
// Key format: payref:<reference> -> claim ID
type ReferenceRegistry struct {
	client *redis.Client
}

// NewReferenceRegistry creates a ReferenceRegistry wrapping the given Redis client.
func NewReferenceRegistry(client *redis.Client) *ReferenceRegistry {
	return &ReferenceRegistry{client: client}
}

// Reserve claims ref for claimID. It reports false when another claim already
// holds ref; re-reserving a reference for the same claim succeeds.
func (r *ReferenceRegistry) Reserve(ctx context.Context, ref, claimID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	ok, err := r.client.SetNX(ctx, r.key(ref), claimID, referenceTTL).Result()
	if err != nil {
		return false, fmt.Errorf("reserve reference: %w", err)
	}
	if ok {
		return true, nil
	}

	owner, err := r.client.Get(ctx, r.key(ref)).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("reserve reference: %w", err)
	}
	return owner == claimID, nil
}

func (r *ReferenceRegistry) key(ref string) string {
	return fmt.Sprintf("payref:%s", ref)
}
