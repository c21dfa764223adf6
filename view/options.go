package view

import (
	"log/slog"

	"github.com/arloliu/lazybson/bsontype"
	"github.com/arloliu/lazybson/errs"
	"github.com/arloliu/lazybson/internal/options"
)

// DefaultMaxDepth is the default limit on how deep nested containers are materialized.
const DefaultMaxDepth = 100

// Factory materializes a nested container found while decoding a parent view.
//
// t is either bsontype.EmbeddedDoc or bsontype.Array and raw holds the complete
// encoded sub-document, aliasing the parent's buffer. materialize builds the default
// representation (*Document or *List) and may be called, wrapped or ignored.
//
// The result is cached by the parent view, so the factory runs at most once per
// nested sub-region unless two goroutines race on the first access, in which case
// only one of the produced values is ever returned to callers.
type Factory func(t bsontype.Type, raw []byte, materialize func() any) any

type config struct {
	factory  Factory
	logger   *slog.Logger
	maxDepth int
}

func defaultConfig() *config {
	return &config{
		logger:   slog.New(slog.DiscardHandler),
		maxDepth: DefaultMaxDepth,
	}
}

// Option configures a Document or List.
type Option = options.Option[*config]

// WithFactory installs a custom factory for nested containers.
//
// Returns an error when factory is nil.
func WithFactory(factory Factory) Option {
	return options.New(func(c *config) error {
		if factory == nil {
			return errs.ErrNilFactory
		}
		c.factory = factory

		return nil
	})
}

// WithLogger sets the logger used for debug records about materialization and
// decode failures. A nil logger keeps the default, which discards everything.
func WithLogger(logger *slog.Logger) Option {
	return options.NoError(func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// WithMaxDepth limits the nesting depth of materialized containers.
// The top-level view has depth 0.
func WithMaxDepth(depth int) Option {
	return options.New(func(c *config) error {
		if depth <= 0 {
			return errs.ErrInvalidMaxDepth
		}
		c.maxDepth = depth

		return nil
	})
}

func newConfig(opts []Option) (*config, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}
