package gen

import "log/slog"

// Option configures a Writer.
type Option func(*Writer)

// WithWorkers sets the number of files rendered and written in parallel.
// Values below one keep the default, GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(w *Writer) {
		if n > 0 {
			w.workers = n
		}
	}
}

// WithLogger sets the logger receiving one debug record per written file.
func WithLogger(l *slog.Logger) Option {
	return func(w *Writer) {
		if l != nil {
			w.log = l
		}
	}
}
