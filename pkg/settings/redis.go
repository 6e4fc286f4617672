package settings

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"storefilter/pkg/logging"
)

// RedisProvider reads settings from a redis key with a short in-process
// cache in front, so a burst of filter requests does not hammer redis.
// Missing key or any redis failure falls back to defaults.
type RedisProvider struct {
	client *redis.Client
	key    string
	ttl    time.Duration

	mu      sync.Mutex
	cached  Settings
	fetched time.Time
	valid   bool
}

func NewRedisProvider(client *redis.Client, key string, ttl time.Duration) *RedisProvider {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisProvider{client: client, key: key, ttl: ttl}
}

func (p *RedisProvider) Current(ctx context.Context) Settings {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.valid && time.Since(p.fetched) < p.ttl {
		return p.cached
	}

	out := Defaults()
	data, err := p.client.Get(ctx, p.key).Result()
	switch {
	case err == redis.Nil:
		// not configured yet, defaults apply
	case err != nil:
		logging.FromCtx(ctx).Warn("settings fetch failed, using defaults",
			zap.String("key", p.key), zap.Error(err))
		return out
	default:
		if err := json.Unmarshal([]byte(data), &out); err != nil {
			logging.FromCtx(ctx).Warn("settings payload malformed, using defaults",
				zap.String("key", p.key), zap.Error(err))
			out = Defaults()
		}
	}
	out.Sanitize()
	p.cached = out
	p.fetched = time.Now()
	p.valid = true
	return out
}

// Invalidate drops the local cache so the next read hits redis. Wired to
// the settings_change topic.
func (p *RedisProvider) Invalidate() {
	p.mu.Lock()
	p.valid = false
	p.mu.Unlock()
}
