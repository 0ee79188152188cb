package pos

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestTokenCacheRefreshesAfterTTL(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fetches := 0
	cache := NewTokenCache(10*time.Minute, func(ctx context.Context) (string, error) {
		fetches++
		if fetches == 1 {
			return "tok-1", nil
		}
		return "tok-2", nil
	}).WithClock(func() time.Time { return now })

	ctx := context.Background()

	tok, err := cache.Token(ctx)
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if tok != "tok-1" || fetches != 1 {
		t.Fatalf("expected first fetch, got token=%q fetches=%d", tok, fetches)
	}

	// Still inside the TTL: served from cache.
	now = now.Add(9 * time.Minute)
	tok, err = cache.Token(ctx)
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if tok != "tok-1" || fetches != 1 {
		t.Fatalf("expected cached token, got token=%q fetches=%d", tok, fetches)
	}

	// TTL elapsed: refetched.
	now = now.Add(2 * time.Minute)
	tok, err = cache.Token(ctx)
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if tok != "tok-2" || fetches != 2 {
		t.Fatalf("expected refreshed token, got token=%q fetches=%d", tok, fetches)
	}
}

func TestTokenCacheInvalidate(t *testing.T) {
	fetches := 0
	cache := NewTokenCache(time.Hour, func(ctx context.Context) (string, error) {
		fetches++
		return "tok", nil
	})

	ctx := context.Background()
	if _, err := cache.Token(ctx); err != nil {
		t.Fatalf("Token: %v", err)
	}
	cache.Invalidate()
	if _, err := cache.Token(ctx); err != nil {
		t.Fatalf("Token: %v", err)
	}
	if fetches != 2 {
		t.Fatalf("expected refetch after Invalidate, got %d fetches", fetches)
	}
}

func TestTokenCacheFetchFailure(t *testing.T) {
	wantErr := errors.New("pos down")
	calls := 0
	cache := NewTokenCache(time.Hour, func(ctx context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", wantErr
		}
		return "tok", nil
	})

	ctx := context.Background()
	if _, err := cache.Token(ctx); !errors.Is(err, wantErr) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	// Next call retries instead of caching the failure.
	tok, err := cache.Token(ctx)
	if err != nil || tok != "tok" {
		t.Fatalf("expected retry to succeed, got token=%q err=%v", tok, err)
	}
}
