package commands

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/conduit-lang/chromeuri/internal/cache"
	"github.com/conduit-lang/chromeuri/internal/cli/config"
	"github.com/conduit-lang/chromeuri/internal/logging"
	"github.com/conduit-lang/chromeuri/internal/registry"
	"github.com/conduit-lang/chromeuri/internal/resolver"
)

// globalOptions are the flags shared by every command
type globalOptions struct {
	configFile string
	noColor    bool
	logLevel   string
}

// app holds the collaborators a command needs for one invocation
type app struct {
	config   *config.Config
	logger   *zap.Logger
	store    cache.Store
	builder  *registry.Builder
	resolver *resolver.Resolver
}

// configError marks failures caused by configuration rather than the tree
type configError struct {
	err error
}

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

func loadConfig(opts *globalOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configFile != "" {
		cfg, err = config.LoadFile(opts.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, &configError{err: err}
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	return cfg, nil
}

func newApp(ctx context.Context, opts *globalOptions) (*app, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		return nil, &configError{err: err}
	}

	store, err := cache.Open(ctx, cfg.CacheOptions())
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("failed to open %s cache: %w", cfg.Cache.Backend, err)
	}
	logger.Debug("cache opened", zap.String("backend", cfg.Cache.Backend))

	builder := registry.NewBuilder(store, registry.WithLogger(logger))
	return &app{
		config:   cfg,
		logger:   logger,
		store:    store,
		builder:  builder,
		resolver: resolver.New(builder, logger),
	}, nil
}

func (a *app) Close() error {
	err := a.store.Close()
	// Sync on a console core fails for non-syncable descriptors such as terminals
	_ = a.logger.Sync()
	return err
}

func isConfigError(err error) bool {
	var ce *configError
	return errors.As(err, &ce)
}
