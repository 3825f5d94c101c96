package pipeline

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/arloliu/chainsum/chain"
	"github.com/arloliu/chainsum/discover"
	"github.com/arloliu/chainsum/errs"
	"github.com/arloliu/chainsum/internal/options"
)

// Config holds the Reporter settings.
type Config struct {
	Logger *zap.Logger
	Lister discover.Lister
	// Concurrency bounds the number of chains read at once.
	Concurrency int
	ReadOptions []chain.ReadOption
}

func defaultConfig() Config {
	return Config{
		Logger:      zap.NewNop(),
		Lister:      discover.DirLister{},
		Concurrency: runtime.GOMAXPROCS(0),
	}
}

// Option configures a Reporter.
type Option = options.Option[*Config]

// WithLogger sets the logger; nil keeps the no-op default.
func WithLogger(l *zap.Logger) Option {
	return options.NoError(func(cfg *Config) {
		if l != nil {
			cfg.Logger = l
		}
	})
}

// WithLister replaces the directory lister.
func WithLister(l discover.Lister) Option {
	return options.New(func(cfg *Config) error {
		if l == nil {
			return fmt.Errorf("%w: nil lister", errs.ErrInvalidConfig)
		}
		cfg.Lister = l

		return nil
	})
}

// WithConcurrency bounds parallel chain reads; n must be positive.
func WithConcurrency(n int) Option {
	return options.New(func(cfg *Config) error {
		if n < 1 {
			return fmt.Errorf("%w: concurrency %d must be >= 1", errs.ErrInvalidConfig, n)
		}
		cfg.Concurrency = n

		return nil
	})
}

// WithReadOptions passes options to every chain read.
func WithReadOptions(opts ...chain.ReadOption) Option {
	return options.NoError(func(cfg *Config) {
		cfg.ReadOptions = append(cfg.ReadOptions, opts...)
	})
}
