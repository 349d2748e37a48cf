package vm

import (
	"github.com/rs/zerolog"
)

// DefaultAsyncCallQueueLimit bounds how many async calls one transaction
// may enqueue in total, including calls enqueued from callbacks.
const DefaultAsyncCallQueueLimit = 100

// A Context defines a set of execution parameters shared by every
// transaction executed on one engine.
type Context struct {
	Logger              zerolog.Logger
	GasSchedule         GasSchedule
	AsyncCallQueueLimit int
}

// NewContext initializes a new execution context with the provided options.
func NewContext(opts ...Option) Context {
	return newContext(defaultContext(), opts...)
}

func defaultContext() Context {
	return Context{
		Logger:              zerolog.Nop(),
		GasSchedule:         DefaultGasSchedule(),
		AsyncCallQueueLimit: DefaultAsyncCallQueueLimit,
	}
}

func newContext(ctx Context, opts ...Option) Context {
	for _, applyOption := range opts {
		ctx = applyOption(ctx)
	}
	return ctx
}

// An Option sets a configuration parameter for an execution context.
type Option func(ctx Context) Context

// WithLogger sets the context logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(ctx Context) Context {
		ctx.Logger = logger
		return ctx
	}
}

// WithGasSchedule sets the gas costs charged at accounting points.
func WithGasSchedule(schedule GasSchedule) Option {
	return func(ctx Context) Context {
		ctx.GasSchedule = schedule
		return ctx
	}
}

// WithAsyncCallQueueLimit sets the per-transaction async queue bound.
func WithAsyncCallQueueLimit(limit int) Option {
	return func(ctx Context) Context {
		ctx.AsyncCallQueueLimit = limit
		return ctx
	}
}
