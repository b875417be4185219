package state

import (
	"fmt"
	"strings"
	"time"
)

const (
	DriverMemory  = "memory"
	DriverRedis   = "redis"
	DriverUpstash = "upstash"
)

type Config struct {
	Driver   string        `split_words:"true" default:"memory"`
	RedisURL string        `envconfig:"REDIS_URL"`
	TTL      time.Duration `envconfig:"TTL" default:"24h"`
}

// Open builds the store for cfg.Driver. upstash is only consulted for the
// upstash driver.
func Open(cfg Config, upstash *UpstashRedisConfig) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverMemory:
		return NewMemoryStore(cfg.TTL), nil
	case DriverRedis:
		return NewRedisStore(cfg.RedisURL, cfg.TTL)
	case DriverUpstash:
		if upstash == nil {
			return nil, fmt.Errorf("upstash config is required for state driver=%q", cfg.Driver)
		}
		return NewUpstashRedisStore(*upstash, WithTTL(cfg.TTL))
	default:
		return nil, fmt.Errorf("unsupported state driver=%q", cfg.Driver)
	}
}
