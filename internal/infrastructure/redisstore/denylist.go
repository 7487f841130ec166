package redisstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedPrefix = "auth:revoked:"

// Denylist records revoked session token ids until they would have expired anyway.
type Denylist struct {
	rdb *redis.Client
}

func NewDenylist(rdb *redis.Client) *Denylist {
	return &Denylist{rdb: rdb}
}

func (d *Denylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" || ttl <= 0 {
		return nil
	}
	return d.rdb.Set(ctx, revokedPrefix+tokenID, "1", ttl).Err()
}

func (d *Denylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	_, err := d.rdb.Get(ctx, revokedPrefix+tokenID).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
