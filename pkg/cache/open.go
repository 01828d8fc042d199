package cache

import (
	"context"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendNull   = "null"
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Options selects and configures a backend.
type Options struct {
	Backend       string
	Dir           string
	MemoryEntries int
	Redis         RedisOptions
}

// Open creates the configured backend. An empty backend name means null.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case "", BackendNull:
		return NewNullCache(), nil
	case BackendMemory:
		return NewMemoryCache(opts.MemoryEntries), nil
	case BackendFile:
		if opts.Dir == "" {
			return nil, fmt.Errorf("file cache requires a directory")
		}
		return NewFileCache(opts.Dir)
	case BackendRedis:
		return NewRedisCache(ctx, opts.Redis)
	}
	return nil, fmt.Errorf("unknown cache backend %q (null, memory, file, redis)", opts.Backend)
}
