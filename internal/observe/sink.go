package observe

import (
	"context"
	"log/slog"
)

// Sink is an injected observability capability. Core components emit
// named events with structured fields through it instead of calling any
// logging or network side channel directly, so the core stays pure and a
// test can capture the events (or use Nop and capture nothing).
type Sink interface {
	Event(ctx context.Context, name string, fields ...any)
}

type nopSink struct{}

func (nopSink) Event(context.Context, string, ...any) {}

// Nop returns a sink that discards everything.
func Nop() Sink { return nopSink{} }

type slogSink struct {
	logger *slog.Logger
}

// NewSlogSink returns a sink that records events at debug level on the
// given logger.
func NewSlogSink(logger *slog.Logger) Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &slogSink{logger: logger}
}

func (s *slogSink) Event(ctx context.Context, name string, fields ...any) {
	s.logger.DebugContext(ctx, name, fields...)
}
