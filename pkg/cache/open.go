package cache

import (
	"context"
	"time"

	"github.com/matzehuels/fct/pkg/errors"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendNone   = "none"
)

// Backends lists the valid backend names.
var Backends = []string{BackendFile, BackendMemory, BackendRedis, BackendMongo, BackendNone}

// Options selects and configures a backend for Open.
type Options struct {
	Backend string
	Dir     string // file backend root
	TTL     time.Duration
	Redis   RedisConfig
	Mongo   MongoConfig
}

// Open builds the cache named by opts.Backend. An empty backend means file.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case "", BackendFile:
		if opts.Dir == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "file cache requires a directory")
		}
		c, err := NewFileCache(opts.Dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeResourceUnavailable, err, "open file cache")
		}
		return c, nil
	case BackendMemory:
		return NewMemoryCache(opts.TTL, 0), nil
	case BackendRedis:
		c, err := NewRedisCache(ctx, opts.Redis)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeResourceUnavailable, err, "open redis cache")
		}
		return c, nil
	case BackendMongo:
		c, err := NewMongoCache(ctx, opts.Mongo)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeResourceUnavailable, err, "open mongo cache")
		}
		return c, nil
	case BackendNone:
		return NewNullCache(), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (want one of %v)", opts.Backend, Backends)
	}
}
