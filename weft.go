package weft

import (
	"context"
	"log/slog"

	"github.com/aretw0/weft/internal/logging"
	"github.com/aretw0/weft/pkg/domain"
	"github.com/aretw0/weft/pkg/loader"
	"github.com/aretw0/weft/pkg/pipeline"
	"github.com/aretw0/weft/pkg/registry"
)

// Version is the library version. Overridden at build time via ldflags.
var Version = "0.2.0"

// Engine is the high-level entry point for the weft library. It bundles a
// node registry with the options applied to every graph it materializes.
type Engine struct {
	registry    *registry.Registry
	logger      *slog.Logger
	hooks       domain.LifecycleHooks
	parallelism int
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithRegistry injects a pre-populated node registry.
func WithRegistry(r *registry.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithLogger sets the engine logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithLifecycleHooks registers observability hooks applied to every graph.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) { e.hooks = hooks }
}

// WithParallelism allows up to limit nodes of a ready batch to run
// concurrently.
func WithParallelism(limit int) Option {
	return func(e *Engine) { e.parallelism = limit }
}

// New creates an engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		registry: registry.New(),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the engine's node registry, the fixed registration point
// for node implementations.
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}

func (e *Engine) graphOptions() []pipeline.GraphOption {
	return []pipeline.GraphOption{
		pipeline.WithLogger(e.logger),
		pipeline.WithHooks(e.hooks),
		pipeline.WithParallelism(e.parallelism),
	}
}

// Load reads a pipeline document from disk and materializes it against the
// engine's registry.
func (e *Engine) Load(path string) (*pipeline.Graph, error) {
	return loader.Load(path, e.registry, e.graphOptions()...)
}

// Build materializes an already-parsed pipeline document.
func (e *Engine) Build(doc *loader.Document) (*pipeline.Graph, error) {
	return loader.Build(doc, e.registry, e.graphOptions()...)
}

// Run validates and executes a graph to completion.
func (e *Engine) Run(ctx context.Context, g *pipeline.Graph) error {
	if err := g.Validate(); err != nil {
		return err
	}
	return g.Run(ctx)
}
