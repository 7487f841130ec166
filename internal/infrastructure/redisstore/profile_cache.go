package redisstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/job-portal/internal/domain/entity"
	"github.com/oksasatya/job-portal/pkg/helpers"
)

const profileKeyPrefix = "user:profile:"

// ProfileCache keeps sanitized user views in redis. Failures are logged and
// treated as misses so the database stays the source of truth.
type ProfileCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

func NewProfileCache(rdb *redis.Client, ttl time.Duration, logger *logrus.Logger) *ProfileCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ProfileCache{rdb: rdb, ttl: ttl, logger: logger}
}

func profileKey(userID string) string { return profileKeyPrefix + userID }

func fenceKey(userID string) string { return profileKeyPrefix + userID + ":fence" }

func (c *ProfileCache) Get(ctx context.Context, userID string) (*entity.UserView, bool) {
	var v entity.UserView
	ok, err := helpers.RedisGetJSON(ctx, c.rdb, profileKey(userID), &v)
	if err != nil {
		c.warn(err, userID, "profile cache read failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return &v, true
}

// setIfCurrent writes the view unless a newer version has been fenced.
// KEYS[1] view, KEYS[2] fence; ARGV[1] json, ARGV[2] version, ARGV[3] ttl ms.
var setIfCurrent = redis.NewScript(`
local fence = redis.call('GET', KEYS[2])
if fence and tonumber(fence) > tonumber(ARGV[2]) then
  return 0
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
return 1
`)

// fenceAndDelete raises the fence to ARGV[1] and drops the cached view.
var fenceAndDelete = redis.NewScript(`
local fence = redis.call('GET', KEYS[2])
if not fence or tonumber(fence) < tonumber(ARGV[1]) then
  redis.call('SET', KEYS[2], ARGV[1], 'PX', ARGV[2])
end
redis.call('DEL', KEYS[1])
return 1
`)

func (c *ProfileCache) Set(ctx context.Context, v entity.UserView, version int64) {
	if v.ID == "" {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		c.warn(err, v.ID, "profile cache encode failed")
		return
	}
	keys := []string{profileKey(v.ID), fenceKey(v.ID)}
	if err := setIfCurrent.Run(ctx, c.rdb, keys, b, version, c.ttl.Milliseconds()).Err(); err != nil {
		c.warn(err, v.ID, "profile cache write failed")
	}
}

// Invalidate drops the cached view and fences out older versions for one
// TTL, which outlives any lookup still in flight.
func (c *ProfileCache) Invalidate(ctx context.Context, userID string, version int64) {
	keys := []string{profileKey(userID), fenceKey(userID)}
	if err := fenceAndDelete.Run(ctx, c.rdb, keys, version, c.ttl.Milliseconds()).Err(); err != nil {
		c.warn(err, userID, "profile cache invalidate failed")
		// a plain delete still bounds staleness when scripting is unavailable
		if dErr := helpers.RedisDel(ctx, c.rdb, profileKey(userID)); dErr != nil {
			c.warn(dErr, userID, "profile cache delete failed")
		}
	}
}

func (c *ProfileCache) warn(err error, userID, msg string) {
	if c.logger != nil {
		c.logger.WithError(err).WithField("user_id", userID).Warn(msg)
	}
}
