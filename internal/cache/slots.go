// Package cache holds the Redis-backed slot availability cache.  The
// booked hours of a field/date pair are the hottest read in the system
// and change only when a booking for that field and date is written,
// so they cache well: entries are keyed per field and date, carry a
// short TTL as a staleness bound, and are purged eagerly by the queue
// consumer whenever a booking event lands.  Only the booked hours are
// cached, never the rendered grid: the past/available split depends on
// the clock and is recomputed per request.
package cache

import (
    "context"
    "encoding/json"
    "fmt"
    "time"

    "github.com/redis/go-redis/v9"
)

// SlotCache stores the booked start hours of a field/date in Redis.  A
// nil client disables the cache entirely; every method then reports a
// miss or a no-op so callers never need to branch on availability.
type SlotCache struct {
    client *redis.Client
    prefix string
    ttl    time.Duration
}

// NewSlotCache builds a SlotCache on the given client.  Pass a nil
// client to run without caching.
func NewSlotCache(client *redis.Client, prefix string, ttl time.Duration) *SlotCache {
    return &SlotCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *SlotCache) key(fieldID uint64, date string) string {
    return fmt.Sprintf("%s:%d:%s", c.prefix, fieldID, date)
}

// Get returns the cached booked hours for a field and date, or
// ok=false on a miss.  Redis errors degrade to a miss; the database
// remains the source of truth.
func (c *SlotCache) Get(ctx context.Context, fieldID uint64, date string) ([]int, bool) {
    if c.client == nil {
        return nil, false
    }
    raw, err := c.client.Get(ctx, c.key(fieldID, date)).Bytes()
    if err != nil {
        return nil, false
    }
    var hours []int
    if err := json.Unmarshal(raw, &hours); err != nil {
        return nil, false
    }
    return hours, true
}

// Set stores the booked hours under the field/date key with the
// configured TTL.  Failures are swallowed; a cache write that did not
// happen only costs the next reader a database round trip.
func (c *SlotCache) Set(ctx context.Context, fieldID uint64, date string, hours []int) {
    if c.client == nil {
        return
    }
    if hours == nil {
        hours = []int{}
    }
    raw, err := json.Marshal(hours)
    if err != nil {
        return
    }
    c.client.Set(ctx, c.key(fieldID, date), raw, c.ttl)
}

// Invalidate drops the cached hours for one field and date.  The queue
// consumer calls this for every booking change event so readers see a
// freed or taken slot on their next request.
func (c *SlotCache) Invalidate(ctx context.Context, fieldID uint64, date string) error {
    if c.client == nil {
        return nil
    }
    return c.client.Del(ctx, c.key(fieldID, date)).Err()
}
