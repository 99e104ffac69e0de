package vocabulary

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/mapping-manager/internal/platform/logger"
)

// CacheObserver receives one event per lookup layer consulted.
type CacheObserver interface {
	ObserveTargetLookup(layer, result string)
}

type noopObserver struct{}

func (noopObserver) ObserveTargetLookup(string, string) {}

type CachedLookupConfig struct {
	TTL         time.Duration
	RedisPrefix string
}

// cachedLookup fronts a TargetLookup with an in-process cache and an optional shared redis
// cache. Only positive answers are cached: the terminology is read-only, so a target that
// exists keeps existing, while a missing one may still be loaded.
type cachedLookup struct {
	next     TargetLookup
	local    *gocache.Cache
	rdb      goredis.UniversalClient
	prefix   string
	ttl      time.Duration
	log      *logger.Logger
	observer CacheObserver
}

func NewCachedLookup(next TargetLookup, rdb goredis.UniversalClient, cfg CachedLookupConfig, baseLog *logger.Logger, observer CacheObserver) TargetLookup {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	prefix := strings.TrimSpace(cfg.RedisPrefix)
	if prefix == "" {
		prefix = "mapping:target:"
	}
	if observer == nil {
		observer = noopObserver{}
	}
	return &cachedLookup{
		next:     next,
		local:    gocache.New(ttl, 2*ttl),
		rdb:      rdb,
		prefix:   prefix,
		ttl:      ttl,
		log:      baseLog.With("repo", "CachedTargetLookup"),
		observer: observer,
	}
}

func (c *cachedLookup) Exists(ctx context.Context, tx *gorm.DB, targetID int64) (bool, error) {
	if targetID <= 0 {
		return false, nil
	}
	key := strconv.FormatInt(targetID, 10)

	if _, ok := c.local.Get(key); ok {
		c.observer.ObserveTargetLookup("local", "hit")
		return true, nil
	}
	c.observer.ObserveTargetLookup("local", "miss")

	if c.rdb != nil {
		err := c.rdb.Get(ctx, c.prefix+key).Err()
		switch {
		case err == nil:
			c.observer.ObserveTargetLookup("redis", "hit")
			c.local.Set(key, struct{}{}, gocache.DefaultExpiration)
			return true, nil
		case errors.Is(err, goredis.Nil):
			c.observer.ObserveTargetLookup("redis", "miss")
		default:
			// The shared cache is advisory; fall through to the store.
			c.observer.ObserveTargetLookup("redis", "error")
			c.log.Warn("Redis target lookup failed", "target_id", targetID, "error", err)
		}
	}

	ok, err := c.next.Exists(ctx, tx, targetID)
	if err != nil {
		return false, err
	}
	if !ok {
		c.observer.ObserveTargetLookup("store", "absent")
		return false, nil
	}
	c.observer.ObserveTargetLookup("store", "present")
	c.local.Set(key, struct{}{}, gocache.DefaultExpiration)
	if c.rdb != nil {
		if err := c.rdb.Set(ctx, c.prefix+key, "1", c.ttl).Err(); err != nil {
			c.log.Warn("Redis target cache write failed", "target_id", targetID, "error", err)
		}
	}
	return true, nil
}
