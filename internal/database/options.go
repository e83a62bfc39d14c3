package database

import (
	"go.opentelemetry.io/otel/trace"

	"github.com/leengari/fltq/internal/store"
)

// Option configures a Database at construction time, following the same
// functional-options shape as the store package and the teacher's
// PersistOptions.
type Option func(*options)

type options struct {
	storeOptions []store.Option
	tracer       trace.Tracer
	observers    []Observer
	closers      []func() error
	indexOrder   int
}

// WithStoreOptions forwards options to the underlying stacked record
// store (maxSize, initialCapacity, storage-warning callback).
func WithStoreOptions(opts ...store.Option) Option {
	return func(o *options) { o.storeOptions = append(o.storeOptions, opts...) }
}

// WithTracer supplies an OpenTelemetry tracer for insert/query/append
// spans. When omitted, the global (no-op by default) TracerProvider's
// tracer is used, so tracing is free until a host wires a real exporter.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

// WithObserver attaches a lifecycle Observer.
func WithObserver(ob Observer) Option {
	return func(o *options) { o.observers = append(o.observers, ob) }
}

// WithCloser registers a cleanup function invoked (and error-aggregated)
// by Database.Close, e.g. for logging sinks that need flushing.
func WithCloser(fn func() error) Option {
	return func(o *options) { o.closers = append(o.closers, fn) }
}

// WithIndexOrder sets the B-tree branching factor used for every
// indexed column's tree (default btree.DefaultOrder).
func WithIndexOrder(order int) Option {
	return func(o *options) { o.indexOrder = order }
}

func newOptions(opts []Option) options {
	var o options
	for _, apply := range opts {
		apply(&o)
	}
	return o
}
