// Package requestcache coalesces concurrent fetches for the same key into a
// single in-flight request. It is a coalescing policy only; completed values
// live in the entity stores.
package requestcache

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// Group deduplicates in-flight fetches per key. The zero value is not
// usable; create one with New.
type Group[V any] struct {
	flight *singleflight.Group
}

// New creates an empty group
func New[V any]() *Group[V] {
	return &Group[V]{flight: &singleflight.Group{}}
}

// GetOrFetch invokes fetch for the key unless a fetch for the same key is
// already in flight, in which case all callers share its result. The
// in-flight entry is dropped on completion, success or failure, so a later
// call always triggers a fresh fetch.
func (g *Group[V]) GetOrFetch(ctx context.Context, key string, fetch func(ctx context.Context) (V, error)) (V, error) {
	result, err, _ := g.flight.Do(key, func() (interface{}, error) {
		return fetch(ctx)
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return result.(V), nil
}
