package jinx

import (
	"go.uber.org/zap"
)

// Option is a functional option for configuring an Environment.
type Option func(*environmentConfig)

// environmentConfig holds the internal configuration for an Environment.
type environmentConfig struct {
	maxDepth            int
	fuel                uint64
	undefinedBehavior   UndefinedBehavior
	keepTrailingNewline bool
	builtins            bool
	logger              *zap.Logger
}

// defaultEnvironmentConfig returns the default environment configuration.
func defaultEnvironmentConfig() *environmentConfig {
	return &environmentConfig{
		maxDepth:          DefaultMaxDepth,
		fuel:              DefaultFuel,
		undefinedBehavior: UndefinedLenient,
		builtins:          true,
		logger:            nil,
	}
}

// WithMaxDepth sets the maximum expression nesting depth, enforced at
// compile time and during evaluation.
// Use 0 for unlimited depth.
// Default: 100
func WithMaxDepth(depth int) Option {
	return func(c *environmentConfig) {
		c.maxDepth = depth
	}
}

// WithFuel caps the number of nodes and expressions visited per render.
// Use 0 for no limit.
// Default: 0
func WithFuel(fuel uint64) Option {
	return func(c *environmentConfig) {
		c.fuel = fuel
	}
}

// WithUndefinedBehavior sets how undefined values are treated.
// Default: UndefinedLenient
func WithUndefinedBehavior(behavior UndefinedBehavior) Option {
	return func(c *environmentConfig) {
		c.undefinedBehavior = behavior
	}
}

// WithKeepTrailingNewline keeps a single trailing newline of template
// sources, which is stripped by default.
func WithKeepTrailingNewline() Option {
	return func(c *environmentConfig) {
		c.keepTrailingNewline = true
	}
}

// WithoutBuiltins creates the environment without builtin filters and functions.
func WithoutBuiltins() Option {
	return func(c *environmentConfig) {
		c.builtins = false
	}
}

// WithLogger sets the logger for the environment.
// Default: nil (no logging)
func WithLogger(logger *zap.Logger) Option {
	return func(c *environmentConfig) {
		c.logger = logger
	}
}
