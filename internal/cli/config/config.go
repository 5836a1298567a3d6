package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/conduit-lang/chromeuri/internal/cache"
)

// FileName is the configuration file base name (.yml or .yaml)
const FileName = "chromeuri"

// EnvPrefix prefixes environment overrides, e.g. CHROMEURI_CACHE_BACKEND
const EnvPrefix = "CHROMEURI"

// Config represents the chromeuri configuration
type Config struct {
	Cache CacheConfig `mapstructure:"cache"`
	Log   LogConfig   `mapstructure:"log"`
}

// CacheConfig selects the registry cache backend
type CacheConfig struct {
	Backend string      `mapstructure:"backend"`
	Dir     string      `mapstructure:"dir"`
	Redis   RedisConfig `mapstructure:"redis"`
	SQL     SQLConfig   `mapstructure:"sql"`
}

// RedisConfig represents redis backend configuration
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// SQLConfig represents sqlite/postgres backend configuration
type SQLConfig struct {
	DSN   string `mapstructure:"dsn"`
	Table string `mapstructure:"table"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load loads the configuration from the nearest chromeuri.yml or
// chromeuri.yaml at or above the working directory. A missing file is not an
// error; defaults and environment variables still apply.
func Load() (*Config, error) {
	path, err := FindConfigFile()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile loads the configuration from path. An empty path loads defaults
// and environment variables only.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	redis := cache.DefaultRedisConfig()

	v.SetDefault("cache.backend", cache.BackendFile)
	v.SetDefault("cache.dir", DefaultCacheDir())
	v.SetDefault("cache.redis.addr", redis.Addr)
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.prefix", redis.Prefix)
	v.SetDefault("cache.sql.dsn", "")
	v.SetDefault("cache.sql.table", cache.DefaultTable)
	v.SetDefault("log.level", "warn")
}

// DefaultCacheDir returns the per-user cache directory for registry records
func DefaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "chromeuri")
}

// FindConfigFile walks up from the working directory looking for
// chromeuri.yml or chromeuri.yaml. It returns an error wrapping
// os.ErrNotExist when no file is found.
func FindConfigFile() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		for _, ext := range []string{".yml", ".yaml"} {
			candidate := filepath.Join(dir, FileName+ext)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s.yml found: %w", FileName, os.ErrNotExist)
		}
		dir = parent
	}
}

// CacheOptions converts the configuration into cache.Open options
func (c *Config) CacheOptions() cache.Config {
	return cache.Config{
		Backend: c.Cache.Backend,
		Dir:     c.Cache.Dir,
		Redis: cache.RedisConfig{
			Addr:     c.Cache.Redis.Addr,
			Password: c.Cache.Redis.Password,
			DB:       c.Cache.Redis.DB,
			Prefix:   c.Cache.Redis.Prefix,
		},
		DSN:   c.Cache.SQL.DSN,
		Table: c.Cache.SQL.Table,
	}
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	cfg.Cache.Backend = strings.ToLower(strings.TrimSpace(cfg.Cache.Backend))

	switch cfg.Cache.Backend {
	case cache.BackendFile:
		if cfg.Cache.Dir == "" {
			return fmt.Errorf("cache.dir must be set for the file backend")
		}
	case cache.BackendMemory, cache.BackendNone:
	case cache.BackendRedis:
		if cfg.Cache.Redis.Addr == "" {
			return fmt.Errorf("cache.redis.addr must be set for the redis backend")
		}
		if cfg.Cache.Redis.Prefix == "" {
			return fmt.Errorf("cache.redis.prefix must not be empty for the redis backend")
		}
		if cfg.Cache.Redis.DB < 0 {
			return fmt.Errorf("cache.redis.db must not be negative, got: %d", cfg.Cache.Redis.DB)
		}
	case cache.BackendSQLite, cache.BackendPostgres:
		if cfg.Cache.SQL.DSN == "" {
			return fmt.Errorf("cache.sql.dsn must be set for the %s backend", cfg.Cache.Backend)
		}
	default:
		return fmt.Errorf("cache.backend must be one of file, memory, redis, sqlite, postgres, none, got: %s", cfg.Cache.Backend)
	}
	return nil
}
