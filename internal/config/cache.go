package config

import (
    "os"
    "strconv"
    "time"
)

// CacheConfig defines settings for the Redis response cache applied to
// the public GET endpoints.  When Enabled is false or no Redis client
// is available, caching is disabled and requests go straight to the
// handlers.  ScheduleTTL applies to the official schedule proxy only;
// the upstream feed rotates on a multi-hour cadence, so it tolerates a
// much longer lifetime than the availability listing.
type CacheConfig struct {
    Enabled      bool
    TTL          time.Duration
    ScheduleTTL  time.Duration
    Prefix       string
    MaxBodyBytes int
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Defaults are used when variables are not set.
func LoadCacheConfig() CacheConfig {
    return CacheConfig{
        Enabled:      getenv("CACHE_ENABLED", "true") == "true",
        TTL:          parseDur(getenv("CACHE_TTL", "10s")),
        ScheduleTTL:  parseDur(getenv("CACHE_SCHEDULE_TTL", "55m")),
        Prefix:       getenv("CACHE_PREFIX", "cache"),
        MaxBodyBytes: atoi(getenv("CACHE_MAX_BODY_BYTES", "1048576")),
    }
}

// Helper functions shared with config.go and ratelimit.go.
func getenv(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

func atoi(s string) int {
    i, _ := strconv.Atoi(s)
    return i
}

func parseDur(s string) time.Duration {
    d, err := time.ParseDuration(s)
    if err != nil {
        return time.Second
    }
    return d
}
