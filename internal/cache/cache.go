// Package cache wraps Redis for the two things BudgetMate keeps there:
// per-user totals aggregations and the logout token blacklist. Everything
// is best effort; with Redis unreachable the app behaves as if nothing
// were cached and tokens simply run out their expiry.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis key layout. All keys are minted here so the ledger service, the
// user service and the token store never disagree on naming.

// TotalsAllKey holds the admin-wide totals aggregation.
const TotalsAllKey = "totals:all"

// TotalsKey holds one user's totals aggregation.
func TotalsKey(userID uint) string {
	return fmt.Sprintf("totals:user:%d", userID)
}

// BlacklistKey marks a revoked token ID until its natural expiry.
func BlacklistKey(tokenID string) string {
	return "blacklist:token:" + tokenID
}

// Client is a nil-safe wrapper around redis.Client that swallows
// connectivity errors instead of propagating them.
type Client struct {
	client *redis.Client
}

// New creates a new Redis-backed cache client.
func New(addr, password string, db int) *Client {
	opts := &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}
	return &Client{client: redis.NewClient(opts)}
}

// Get returns the stored value, or nil when the key is missing or Redis
// is unavailable. Callers cannot tell the two apart on purpose.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	res, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		// degrade to a cache miss
		return nil, nil
	}
	return res, nil
}

// Set stores a value with the given TTL, ignoring Redis errors.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		// degrade to an uncached write
		return nil
	}
	return nil
}

// Delete removes a key, ignoring Redis errors.
func (c *Client) Delete(ctx context.Context, key string) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return nil
	}
	return nil
}
