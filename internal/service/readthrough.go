package service

import (
	"context"
	"errors"

	"marketpulse/internal/cache"
	"marketpulse/internal/provider"
	"marketpulse/pkg/logger"
)

// fetchFunc loads a value from upstream. ok=false with a nil error means
// upstream answered with nothing worth caching.
type fetchFunc[T any] func(ctx context.Context) (value T, ok bool, err error)

// readThrough serves key from the cache while it is fresh, otherwise calls
// fetch and stores the result. When the upstream call fails the last cached
// value is returned even if it has expired. A response that arrived but did
// not parse (provider.ErrInvalidPayload) yields the zero value instead.
func readThrough[T any](ctx context.Context, c *cache.TTLCache, key string, force bool, log *logger.Entry, fetch fetchFunc[T]) (T, bool) {
	if !force {
		if v, fresh, ok := c.Peek(key); ok && fresh {
			if typed, ok := v.(T); ok {
				return typed, true
			}
		}
	}

	value, ok, err := fetch(ctx)
	if err == nil {
		if ok {
			c.Set(key, value)
		}
		return value, ok
	}

	entry := log.WithError(err).WithField("cache_key", key)
	if errors.Is(err, provider.ErrInvalidPayload) {
		entry.Warn("upstream payload invalid, not serving cache")
		var zero T
		return zero, false
	}
	if v, _, found := c.Peek(key); found {
		if typed, ok := v.(T); ok {
			entry.Warn("upstream fetch failed, serving stale cache entry")
			return typed, true
		}
	}
	entry.Warn("upstream fetch failed, nothing cached")

	var zero T
	return zero, false
}
