package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/taleforge/pkg/log"
)

type PipelineConfig struct {
	HistoryLimit  int  `env:"TALEFORGE_HISTORY_LIMIT" envDefault:"10"`
	NudgesEnabled bool `env:"TALEFORGE_NUDGES_ENABLED" envDefault:"true"`
}

func NewPipelineConfig(ctx context.Context) *PipelineConfig {
	c := &PipelineConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Pipeline config")
	}
	if c.HistoryLimit < 0 {
		log.FromCtx(ctx).Fatal().Int("limit", c.HistoryLimit).Msg("TALEFORGE_HISTORY_LIMIT must not be negative")
	}
	return c
}

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

type CacheConfig struct {
	Backend  string        `env:"TALEFORGE_CACHE_BACKEND" envDefault:"memory"`
	TTL      time.Duration `env:"TALEFORGE_CACHE_TTL" envDefault:"30m"`
	Capacity int           `env:"TALEFORGE_CACHE_CAPACITY" envDefault:"100"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"REDIS_KEY_PREFIX" envDefault:"taleforge:turn:"`
}

func LoadCacheConfig() (*CacheConfig, error) {
	c := &CacheConfig{}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("parse cache config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func NewCacheConfig(ctx context.Context) *CacheConfig {
	c, err := LoadCacheConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Cache config")
	}
	return c
}

func (c *CacheConfig) Validate() error {
	switch c.Backend {
	case CacheBackendMemory, CacheBackendRedis:
	default:
		return fmt.Errorf("unknown cache backend %q", c.Backend)
	}
	if c.TTL <= 0 {
		return errors.New("TALEFORGE_CACHE_TTL must be positive")
	}
	if c.Capacity < 1 {
		return errors.New("TALEFORGE_CACHE_CAPACITY must be at least 1")
	}
	if c.Backend == CacheBackendRedis && c.RedisAddr == "" {
		return errors.New("REDIS_ADDR is required for the redis cache backend")
	}
	return nil
}
