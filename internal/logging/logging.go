// Package logging builds the engine's structured logging stack: a
// console slog handler fanned out to an optional Seq sink, plus a
// logr.Logger adapter over the same slog.Logger for library code written
// against logr. Grounded on the teacher's original multiHandler fan-out,
// generalized to take configuration instead of a hardcoded Seq endpoint.
package logging

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	slogseq "github.com/sokkalf/slog-seq"
)

// multiHandler forwards every record to each of its handlers in order.
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if err := h.Handle(ctx, r.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}

// Config configures Setup. A zero Config gets console-only logging at
// info level.
type Config struct {
	Level      slog.Level
	SeqAddr    string // empty disables the Seq sink
	BatchSize  int
	FlushEvery time.Duration
}

func (c Config) withDefaults() Config {
	if c.BatchSize == 0 {
		c.BatchSize = 1
	}
	if c.FlushEvery == 0 {
		c.FlushEvery = 500 * time.Millisecond
	}
	return c
}

// Setup builds the fan-out slog.Logger and returns a close function that
// flushes and shuts down any network sink. Safe to call even when no Seq
// sink was configured.
func Setup(cfg Config) (*slog.Logger, func() error) {
	cfg = cfg.withDefaults()
	opts := &slog.HandlerOptions{Level: cfg.Level, AddSource: true}
	console := slog.NewTextHandler(os.Stdout, opts)

	if cfg.SeqAddr == "" {
		return slog.New(console), func() error { return nil }
	}

	_, seqHandler := slogseq.NewLogger(
		cfg.SeqAddr,
		slogseq.WithBatchSize(cfg.BatchSize),
		slogseq.WithFlushInterval(cfg.FlushEvery),
		slogseq.WithHandlerOptions(opts),
	)
	if seqHandler == nil {
		return slog.New(console), func() error { return nil }
	}

	multi := &multiHandler{handlers: []slog.Handler{console, seqHandler}}
	logger := slog.New(multi)
	return logger, func() error {
		seqHandler.Close()
		return nil
	}
}

// LogrFrom adapts a slog.Logger to logr.Logger via stdr, for library
// code (e.g. OpenTelemetry internals) written against the logr
// interface rather than slog.
func LogrFrom(log *slog.Logger) logr.Logger {
	std := slog.NewLogLogger(log.Handler(), slog.LevelInfo)
	return stdr.New(std)
}
