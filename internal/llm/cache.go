// ABOUTME: LRU response cache for gateway calls keyed on the rendered prompt
// ABOUTME: Repeated scenarios skip the model entirely; only successes are stored
package llm

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// WithCache caches successful completions in an LRU of the given size.
// A size of zero or less disables caching.
func WithCache(size int) Middleware {
	return func(next Gateway) Gateway {
		if size <= 0 {
			return next
		}
		cache, err := lru.New[string, string](size)
		if err != nil {
			return next
		}
		return &cachingGateway{next: next, cache: cache}
	}
}

type cachingGateway struct {
	next  Gateway
	cache *lru.Cache[string, string]
}

func (c *cachingGateway) Name() string { return c.next.Name() }

func (c *cachingGateway) Invoke(ctx context.Context, template string, vars map[string]string) (string, error) {
	key := c.next.Name() + "\x00" + Render(template, vars)
	if out, ok := c.cache.Get(key); ok {
		return out, nil
	}
	out, err := c.next.Invoke(ctx, template, vars)
	if err != nil {
		return "", err
	}
	c.cache.Add(key, out)
	return out, nil
}
