package environment

import (
	"context"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/collection"
	"github.com/zeromicro/go-zero/core/threading"
)

const defaultLoadTimeout = 10 * time.Second

// Cached memoizes a Provider per location and day. Failed lookups are not
// cached. Concurrent callers for one key share a single load, which runs on
// a context detached from any one caller and bounded by its own timeout;
// each caller still returns as soon as its own context ends.
type Cached struct {
	next        Provider
	cache       *collection.Cache
	now         func() time.Time
	loadTimeout time.Duration
}

func NewCached(next Provider, ttl time.Duration) (*Cached, error) {
	cache, err := collection.NewCache(ttl, collection.WithName("environment"))
	if err != nil {
		return nil, err
	}
	return &Cached{next: next, cache: cache, now: time.Now, loadTimeout: defaultLoadTimeout}, nil
}

func (c *Cached) Weather(ctx context.Context, location string, date *time.Time) (*Weather, error) {
	v, err := c.take(ctx, c.key("weather", location, date), func(loadCtx context.Context) (any, error) {
		return c.next.Weather(loadCtx, location, date)
	})
	if err != nil {
		return nil, err
	}
	w, _ := v.(*Weather)
	return w, nil
}

func (c *Cached) Trends(ctx context.Context, location string) ([]string, error) {
	v, err := c.take(ctx, c.key("trends", location, nil), func(loadCtx context.Context) (any, error) {
		return c.next.Trends(loadCtx, location)
	})
	if err != nil {
		return nil, err
	}
	trends, _ := v.([]string)
	return append([]string(nil), trends...), nil
}

func (c *Cached) Events(ctx context.Context, location string, date *time.Time) ([]Event, error) {
	v, err := c.take(ctx, c.key("events", location, date), func(loadCtx context.Context) (any, error) {
		return c.next.Events(loadCtx, location, date)
	})
	if err != nil {
		return nil, err
	}
	events, _ := v.([]Event)
	return append([]Event(nil), events...), nil
}

func (c *Cached) take(ctx context.Context, key string, load func(context.Context) (any, error)) (any, error) {
	type result struct {
		val any
		err error
	}
	done := make(chan result, 1)
	threading.GoSafe(func() {
		val, err := c.cache.Take(key, func() (any, error) {
			loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.loadTimeout)
			defer cancel()
			return load(loadCtx)
		})
		done <- result{val: val, err: err}
	})

	select {
	case r := <-done:
		return r.val, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Cached) key(kind, location string, date *time.Time) string {
	day := c.now()
	if date != nil {
		day = *date
	}
	return kind + "|" + strings.ToLower(strings.TrimSpace(location)) + "|" + day.Format(time.DateOnly)
}
