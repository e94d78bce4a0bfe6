package cmd

import (
	"context"
	"time"

	"f1dashboard/pkg/cache"
	"f1dashboard/pkg/config"
	"f1dashboard/pkg/openf1"
	"f1dashboard/pkg/season"
	"github.com/alitto/pond/v2"
	"go.uber.org/zap"
)

const purgeInterval = time.Hour

// backend is the data path shared by every command: cache, upstream client,
// worker pool and the season service on top of them.
type backend struct {
	store   cache.Store
	memory  *cache.MemoryStore
	redis   *cache.RedisStore
	client  *openf1.Client
	pool    pond.Pool
	policy  cache.Policy
	service *season.Service
}

func newBackend(ctx context.Context, c config.Config, logger *zap.Logger) (*backend, error) {
	b := &backend{
		policy: cache.NewPolicy(c.LiveTTL, c.SettleWindow),
	}

	switch c.CacheBackend {
	case config.BackendRedis:
		rs, err := cache.NewRedisStore(ctx, c.RedisAddr, c.RedisPassword, c.RedisDB, logger)
		if err != nil {
			return nil, err
		}
		b.redis = rs
		b.store = rs
	default:
		b.memory = cache.NewMemoryStore()
		b.store = b.memory
	}

	b.client = openf1.NewClient(c.APIBaseURL, b.store, logger,
		openf1.WithRetries(c.Retries, 250*time.Millisecond))
	b.pool = pond.NewPool(c.Workers)
	loader := season.NewLoader(b.client, b.pool, b.policy, c.FetchTimeout, logger)
	b.service = season.NewService(loader, b.client, b.policy)

	logger.Info("backend ready",
		zap.String("api", c.APIBaseURL),
		zap.String("cache", c.CacheBackend),
		zap.Int("workers", c.Workers))
	return b, nil
}

// purgeLoop drops expired in-memory entries until ctx is done.
func (b *backend) purgeLoop(ctx context.Context, logger *zap.Logger) {
	if b.memory == nil {
		return
	}
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n := b.memory.Purge()
			logger.Debug("cache purged", zap.Int("evicted", n), zap.Int("remaining", b.memory.Len()))
		}
	}
}

func (b *backend) Close() {
	b.pool.StopAndWait()
	if b.redis != nil {
		_ = b.redis.Close()
	}
}
