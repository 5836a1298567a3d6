package cache

import (
	"context"
	"fmt"
)

// Backend names accepted by Open
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendNone     = "none"
)

// Config selects and configures a Store
type Config struct {
	Backend string
	Dir     string
	Redis   RedisConfig
	DSN     string
	Table   string
}

// Open creates the Store described by cfg
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", BackendFile:
		if cfg.Dir == "" {
			return nil, fmt.Errorf("file cache requires a directory")
		}
		return NewFileStore(cfg.Dir), nil
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendNone:
		return NopStore{}, nil
	case BackendRedis:
		return NewRedisStore(ctx, cfg.Redis)
	case BackendSQLite:
		return OpenSQLStore(ctx, DialectSQLite, cfg.DSN, cfg.Table)
	case BackendPostgres:
		return OpenSQLStore(ctx, DialectPostgres, cfg.DSN, cfg.Table)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
