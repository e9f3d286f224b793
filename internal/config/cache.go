package config

import (
    "os"
    "time"
)

// SlotCacheConfig defines settings for the Redis slot-availability
// cache.  When Enabled is false or no Redis client is configured the
// slots endpoint always reads from the database.  TTL bounds how stale
// a cached day grid may get if an invalidation is lost; the queue
// consumer purges entries eagerly on every booking change.
type SlotCacheConfig struct {
    Enabled bool
    TTL     time.Duration
    Prefix  string
}

// LoadSlotCacheConfig reads environment variables to build a
// SlotCacheConfig.  Defaults are used when variables are not set.
func LoadSlotCacheConfig() SlotCacheConfig {
    return SlotCacheConfig{
        Enabled: getenv("SLOT_CACHE_ENABLED", "true") == "true",
        TTL:     parseDur(getenv("SLOT_CACHE_TTL", "30s")),
        Prefix:  getenv("SLOT_CACHE_PREFIX", "slots"),
    }
}

// Helper functions reused from redis.go and ratelimit.go
func getenv(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

func parseDur(s string) time.Duration {
    d, err := time.ParseDuration(s)
    if err != nil {
        return time.Second
    }
    return d
}
