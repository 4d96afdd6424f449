package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sandevgo/taleforge/internal/core"
	"github.com/sandevgo/taleforge/pkg/log"
)

type RedisConfig struct {
	Client redis.UniversalClient
	TTL    time.Duration
	Prefix string
}

func (c RedisConfig) Validate() error {
	if c.Client == nil {
		return errors.New("redis client is required")
	}
	if c.TTL <= 0 {
		return errors.New("ttl must be positive")
	}
	return nil
}

// Redis shares cached turns between processes. Expiry is delegated to Redis,
// so Sweep has nothing to do.
type Redis struct {
	client redis.UniversalClient
	ttl    time.Duration
	prefix string
}

func NewRedis(cfg RedisConfig) (*Redis, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Redis{client: cfg.Client, ttl: cfg.TTL, prefix: cfg.Prefix}, nil
}

func (r *Redis) Get(ctx context.Context, key string) (core.TurnResult, bool) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.FromCtx(ctx).Warn().Err(err).Msg("cache read failed")
		}
		return core.TurnResult{}, false
	}

	var value core.TurnResult
	if err := json.Unmarshal(data, &value); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("cache entry corrupt")
		return core.TurnResult{}, false
	}
	return value, true
}

func (r *Redis) Put(ctx context.Context, key string, value core.TurnResult) {
	data, err := json.Marshal(value)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("cache encode failed")
		return
	}
	if err := r.client.Set(ctx, r.prefix+key, data, r.ttl).Err(); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("cache write failed")
	}
}

func (r *Redis) Sweep(ctx context.Context) int {
	return 0
}
