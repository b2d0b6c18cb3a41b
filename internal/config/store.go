package config

import (
	"context"
	"fmt"

	"github.com/goliatone/go-signupform/pkg/storage"
	"github.com/goliatone/go-signupform/pkg/storage/file"
	"github.com/goliatone/go-signupform/pkg/storage/memory"
	"github.com/goliatone/go-signupform/pkg/storage/redis"
)

// OpenStore builds the configured store. The returned close function is
// never nil.
func (c StorageConfig) OpenStore(ctx context.Context) (storage.Store, func() error, error) {
	noop := func() error { return nil }
	switch c.Driver {
	case DriverMemory:
		return memory.New(), noop, nil
	case DriverFile:
		return file.New(c.Dir), noop, nil
	case DriverRedis:
		store := redis.New(c.Redis.Addr, c.Redis.Password, c.Redis.DB,
			redis.WithPrefix(c.Redis.Prefix),
			redis.WithTTL(c.Redis.TTL),
		)
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, noop, fmt.Errorf("config: connect redis %s: %w", c.Redis.Addr, err)
		}
		return store, store.Close, nil
	default:
		return nil, noop, fmt.Errorf("config: unknown storage driver %q", c.Driver)
	}
}
