package cache

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Loader fills a cache on miss, collapsing concurrent loads of the same key.
type Loader[T any] struct {
	cache Cache[T]
	group singleflight.Group

	// generation is bumped by Invalidate; loads started under an older
	// generation are returned to their callers but not stored.
	// mu makes the bump and clear atomic with the check and store of a load.
	mu         sync.Mutex
	generation atomic.Uint64

	hits   atomic.Int64
	misses atomic.Int64
}

func NewLoader[T any](c Cache[T]) *Loader[T] {
	return &Loader[T]{cache: c}
}

// Get returns the cached value for key or computes it with load.
func (l *Loader[T]) Get(ctx context.Context, key string, load func(context.Context) (T, error)) (T, error) {
	if v, ok := l.cache.Get(key); ok {
		l.hits.Add(1)
		return v, nil
	}
	l.misses.Add(1)

	gen := l.generation.Load()
	// Keying flights by generation keeps callers arriving after Invalidate
	// from joining a load that started before it.
	v, err, _ := l.group.Do(strconv.FormatUint(gen, 10)+":"+key, func() (any, error) {
		if v, ok := l.cache.Get(key); ok {
			return v, nil
		}
		// Joined callers share this load, so one caller's cancellation must not fail it.
		v, err := load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		if l.generation.Load() == gen {
			l.cache.Set(key, v)
		}
		l.mu.Unlock()
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Invalidate drops every cached value.
func (l *Loader[T]) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.generation.Add(1)
	l.cache.Clear()
}

// Stats returns hit and miss counters since creation.
func (l *Loader[T]) Stats() (hits, misses int64) {
	return l.hits.Load(), l.misses.Load()
}
