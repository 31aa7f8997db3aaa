package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/weft/pkg/capability"
	"github.com/aretw0/weft/pkg/pipeline"
	"github.com/aretw0/weft/pkg/schema"
)

// Factory materializes the runner for one node instance. It receives the
// node's applied parameters (schema-validated, defaults filled in).
type Factory func(params map[string]any) (pipeline.Runner, error)

// Definition describes one registered node implementation.
type Definition struct {
	// Name is the "/"-separated catalog path, e.g. "loaders/csv".
	Name string
	// Summary is a one-line description for the manifest.
	Summary string
	// Inputs and Outputs declare the node's arity. Zero inputs marks a
	// source, zero outputs a sink.
	Inputs  int
	Outputs int
	// Effects and Requires form the capability template. Field names may
	// embed capability.Param placeholders resolved per instance.
	Effects  capability.List
	Requires capability.List
	// Params is the configuration schema (name, expected type, default).
	Params schema.Schema
	// Important lists parameters to prioritize for display.
	Important []string
	// New materializes the runner for an instance.
	New Factory
}

// Kind classifies the definition by arity, mirroring pipeline nodes.
func (d Definition) Kind() string {
	switch {
	case d.Inputs == 0:
		return "source"
	case d.Outputs == 0:
		return "sink"
	default:
		return "transform"
	}
}

// Registry manages the available node definitions.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		defs: make(map[string]Definition),
	}
}

// Register adds a definition to the registry. Registering the same name twice
// is an error: definitions are identities, not handlers to be swapped.
func (r *Registry) Register(def Definition) error {
	if def.Name == "" {
		return fmt.Errorf("registry: definition has no name")
	}
	if def.New == nil {
		return fmt.Errorf("registry: definition %q has no factory", def.Name)
	}
	for _, name := range def.Important {
		if _, ok := def.Params[name]; !ok {
			return fmt.Errorf("registry: definition %q marks unknown parameter %q as important", def.Name, name)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[def.Name]; exists {
		return fmt.Errorf("registry: definition %q already registered", def.Name)
	}
	r.defs[def.Name] = def
	return nil
}

// MustRegister panics on registration failure. Intended for package-init
// registration of built-in node sets.
func (r *Registry) MustRegister(def Definition) {
	if err := r.Register(def); err != nil {
		panic(err)
	}
}

// Lookup returns a definition by name.
func (r *Registry) Lookup(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[name]
	return def, ok
}

// Names returns all registered definition names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build materializes a node instance: it validates params against the
// definition's schema, applies defaults, constructs the runner, and wires
// everything into a pipeline node with the given instance id.
func (r *Registry) Build(name, id string, params map[string]any) (*pipeline.Node, error) {
	def, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("registry: no such definition: %s", name)
	}

	applied, err := def.Params.Apply(params)
	if err != nil {
		return nil, fmt.Errorf("registry: definition %q: %w", name, err)
	}

	runner, err := def.New(applied)
	if err != nil {
		return nil, fmt.Errorf("registry: definition %q: factory: %w", name, err)
	}

	return pipeline.NewNode(id,
		pipeline.WithArity(def.Inputs, def.Outputs),
		pipeline.WithConfig(applied),
		pipeline.WithDeclaration(def.Effects, def.Requires),
		pipeline.WithRunner(runner),
	), nil
}
