package cache

import (
	"context"
	"time"
)

// NullCache is the backend used when caching is off. Every Get misses and
// writes are dropped, so each render runs the full pipeline.
type NullCache struct{}

var _ Cache = (*NullCache)(nil)

// NewNullCache returns a cache that remembers nothing.
func NewNullCache() Cache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (*NullCache) Delete(context.Context, string) error { return nil }

func (*NullCache) Close() error { return nil }
