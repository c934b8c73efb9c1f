package api

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/atlasmet/extremecast/internal/models"
)

// forecastCache holds recent results per city so the request endpoint
// and the realtime stream coalesce onto one pipeline invocation per TTL
// window. The core itself is pure; caching lives entirely up here.
type forecastCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	clock   clockwork.Clock
	entries map[string]cacheEntry
}

type cacheEntry struct {
	at     time.Time
	result *models.Result
}

func newForecastCache(ttl time.Duration, clock clockwork.Clock) *forecastCache {
	return &forecastCache{
		ttl:     ttl,
		clock:   clock,
		entries: make(map[string]cacheEntry),
	}
}

func (c *forecastCache) get(city string) (*models.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[city]
	if !ok || c.clock.Since(entry.at) >= c.ttl {
		return nil, false
	}
	return entry.result, true
}

func (c *forecastCache) put(city string, result *models.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[city] = cacheEntry{at: c.clock.Now(), result: result}
}
