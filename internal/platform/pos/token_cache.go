package pos

import (
	"context"
	"sync"
	"time"
)

// FetchFunc obtains a fresh access token from the POS vendor.
type FetchFunc func(ctx context.Context) (string, error)

// TokenCache holds one POS access token and refreshes it through fetch
// once the TTL elapses. Each Client owns its own cache; tokens are never
// shared process-wide, so two venues talking to two POS accounts can never
// leak credentials into each other's requests. The clock is injectable for
// deterministic tests.
type TokenCache struct {
	mu        sync.Mutex
	token     string
	expiresAt time.Time

	ttl   time.Duration
	now   func() time.Time
	fetch FetchFunc
}

func NewTokenCache(ttl time.Duration, fetch FetchFunc) *TokenCache {
	return &TokenCache{
		ttl:   ttl,
		now:   time.Now,
		fetch: fetch,
	}
}

// WithClock replaces the cache's clock. Test hook.
func (c *TokenCache) WithClock(now func() time.Time) *TokenCache {
	c.now = now
	return c
}

// Token returns the cached token, refreshing it when absent or expired.
// A failed refresh leaves any previously cached (expired) token untouched
// so the next call retries the fetch.
func (c *TokenCache) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Before(c.expiresAt) {
		return c.token, nil
	}

	token, err := c.fetch(ctx)
	if err != nil {
		return "", err
	}
	c.token = token
	c.expiresAt = c.now().Add(c.ttl)
	return token, nil
}

// Invalidate drops the cached token, forcing a refresh on next use.
// Called after the vendor rejects a request with an auth error.
func (c *TokenCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.expiresAt = time.Time{}
}
