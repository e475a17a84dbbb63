package auth

import (
	"context"
	"time"

	"github.com/hongminglow/learnhub-be/internal/cache"
)

const revokedTokenKeyPrefix = "revoked:session_token:"

// Denylist records session tokens revoked before their natural expiry.
type Denylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// RedisDenylist keeps revoked token ids in Redis until the token would have expired.
type RedisDenylist struct {
	cache *cache.Client
}

var _ Denylist = (*RedisDenylist)(nil)

// NewRedisDenylist stores revoked token ids in c. A disabled client records nothing.
func NewRedisDenylist(c *cache.Client) *RedisDenylist {
	return &RedisDenylist{cache: c}
}

// Revoke marks tokenID as revoked for ttl. Non-positive ttls are ignored since
// the token has already expired.
func (d *RedisDenylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" || ttl <= 0 {
		return nil
	}
	return d.cache.Set(ctx, revokedTokenKeyPrefix+tokenID, []byte("1"), ttl)
}

// IsRevoked checks the list. An unreachable Redis reads as "not revoked".
func (d *RedisDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	data, err := d.cache.Get(ctx, revokedTokenKeyPrefix+tokenID)
	if err != nil {
		return false, nil
	}
	return data != nil, nil
}
