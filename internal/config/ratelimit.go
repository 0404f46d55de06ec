package config

import (
	"time"
)

// RateLimitConfig holds token-bucket parameters for the Redis rate
// limiter.  Capacity is the bucket size; RefillTokens are added every
// RefillInterval.  TTL bounds how long idle buckets live in Redis.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	KeyStrategy    string
	Prefix         string
	Debug          bool
}

// LoadRateLimitConfig reads environment variables to build a
// RateLimitConfig, clamping nonsensical values to safe minimums.
func LoadRateLimitConfig() RateLimitConfig {
	def := RateLimitConfig{
		Enabled:        getenv("RATE_LIMIT_ENABLED", "true") == "true",
		Capacity:       atoiDefault("RATE_LIMIT_CAPACITY", 60),
		RefillTokens:   atoiDefault("RATE_LIMIT_REFILL_TOKENS", 1),
		RefillInterval: parseDurDefault("RATE_LIMIT_REFILL_INTERVAL", time.Second),
		TTL:            parseDurDefault("RATE_LIMIT_TTL", 10*time.Minute),
		KeyStrategy:    getenv("RATE_LIMIT_KEY_STRATEGY", "ip_route"),
		Prefix:         getenv("RATE_LIMIT_PREFIX", "rl"),
		Debug:          getenv("RATE_LIMIT_DEBUG", "false") == "true",
	}
	if def.Capacity < 1 {
		def.Capacity = 1
	}
	if def.RefillTokens < 1 {
		def.RefillTokens = 1
	}
	if def.RefillInterval <= 0 {
		def.RefillInterval = time.Second
	}
	// Keep idle buckets around long enough to refill fully.
	if minTTL := 5 * def.RefillInterval; def.TTL < minTTL {
		def.TTL = minTTL
	}
	return def
}

func atoiDefault(key string, def int) int {
	if n := atoi(getenv(key, "")); n != 0 {
		return n
	}
	return def
}

func parseDurDefault(key string, def time.Duration) time.Duration {
	if v := getenv(key, ""); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
