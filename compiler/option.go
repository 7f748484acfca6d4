package compiler

import (
	"log/slog"

	"github.com/syssam/gqlcodegen/internal/logging"
)

// Option configures a run.
type Option func(*options)

type options struct {
	log     *slog.Logger
	workers int
	hooks   []Hook
}

func newOptions(opts []Option) *options {
	o := &options{log: logging.Nop()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger. Stages log at debug level, the summary at
// info level.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithWorkers bounds the number of files written in parallel. Zero keeps
// the default, GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithHooks adds hooks around the emit stage.
func WithHooks(hooks ...Hook) Option {
	return func(o *options) {
		o.hooks = append(o.hooks, hooks...)
	}
}
