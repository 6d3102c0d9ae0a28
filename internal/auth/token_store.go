package auth

import (
	"context"
	"time"

	"budgetmate/internal/cache"
)

// TokenStoreInterface defines the interface for token revocation storage.
type TokenStoreInterface interface {
	BlacklistToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, tokenID string) (bool, error)
}

// TokenStore records logged-out token IDs in Redis until their natural
// expiry. Redis being unavailable degrades to pure stateless tokens:
// the blacklist is best effort, expiry stays authoritative.
type TokenStore struct {
	cache *cache.Client
}

// Ensure TokenStore implements TokenStoreInterface
var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

// BlacklistToken marks a token ID as revoked until its TTL elapses.
func (s *TokenStore) BlacklistToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	// Store a simple marker
	return s.cache.Set(ctx, cache.BlacklistKey(tokenID), []byte("1"), ttl)
}

// IsBlacklisted checks if a token ID has been revoked.
func (s *TokenStore) IsBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	data, err := s.cache.Get(ctx, cache.BlacklistKey(tokenID))
	if err != nil {
		return false, nil // fail open: treat as not blacklisted
	}
	return data != nil, nil
}
