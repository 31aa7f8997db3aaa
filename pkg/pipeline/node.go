package pipeline

import (
	"context"
	"fmt"

	"github.com/aretw0/weft/pkg/capability"
	"github.com/aretw0/weft/pkg/domain"
)

// Runner is the user-supplied computation of a node. Implementations read
// predecessor results via Node.Input, compute a value, and call
// Node.Terminate with it.
type Runner interface {
	Run(ctx context.Context, node *Node) error
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, node *Node) error

// Run invokes the function.
func (f RunnerFunc) Run(ctx context.Context, node *Node) error {
	return f(ctx, node)
}

// Declaration is a node's capability pair: the effects it produces and the
// requirements it expects its ancestors to have produced.
type Declaration struct {
	Effects  capability.List
	Requires capability.List
}

// Clone returns an independent copy of the declaration.
func (d Declaration) Clone() Declaration {
	return Declaration{Effects: d.Effects.Clone(), Requires: d.Requires.Clone()}
}

// Node is a single unit of computation in the graph.
type Node struct {
	id         string
	numInputs  int
	numOutputs int
	runner     Runner

	config   map[string]any
	template Declaration // raw, placeholder form; never mutated
	resolved Declaration

	prev []*Node
	next []*Node

	result     domain.Payload
	terminated bool // has-run: the runner signaled completion

	depthVal   int
	depthKnown bool
}

// Option configures a Node at construction time.
type Option func(*Node)

// WithArity sets the number of input and output slots. The default is one of
// each.
func WithArity(inputs, outputs int) Option {
	return func(n *Node) {
		n.numInputs = inputs
		n.numOutputs = outputs
	}
}

// AsSource marks the node as a pure data source (zero inputs).
func AsSource() Option {
	return func(n *Node) { n.numInputs = 0 }
}

// AsSink marks the node as a pure data sink (zero outputs).
func AsSink() Option {
	return func(n *Node) { n.numOutputs = 0 }
}

// WithConfig sets the node's configuration map. The map is copied.
func WithConfig(config map[string]any) Option {
	return func(n *Node) { n.config = domain.CopyMap(config) }
}

// WithDeclaration sets the node's capability template. Field names may embed
// capability.Param placeholders; they are resolved against the node's
// configuration.
func WithDeclaration(effects, requires capability.List) Option {
	return func(n *Node) {
		n.template = Declaration{Effects: effects.Clone(), Requires: requires.Clone()}
	}
}

// WithRunner sets the node's computation.
func WithRunner(r Runner) Option {
	return func(n *Node) { n.runner = r }
}

// NewNode creates a node with the given instance id. Unless overridden it has
// one input, one output, an empty configuration, and an empty declaration.
func NewNode(id string, opts ...Option) *Node {
	n := &Node{
		id:         id,
		numInputs:  1,
		numOutputs: 1,
		config:     make(map[string]any),
	}
	for _, opt := range opts {
		opt(n)
	}
	n.resolve()
	return n
}

// resolve re-derives the resolved declaration from the raw template. It is
// idempotent: the template is kept separate from the resolved instance state,
// so re-resolving after a configuration change never compounds prior
// substitutions.
func (n *Node) resolve() {
	n.resolved = Declaration{
		Effects:  capability.Resolve(n.template.Effects, n.config),
		Requires: capability.Resolve(n.template.Requires, n.config),
	}
}

// ID returns the node's instance identifier.
func (n *Node) ID() string { return n.id }

// Kind classifies the node by arity.
func (n *Node) Kind() domain.NodeKind {
	switch {
	case n.numInputs == 0:
		return domain.KindSource
	case n.numOutputs == 0:
		return domain.KindSink
	default:
		return domain.KindTransform
	}
}

// NumInputs returns the declared input arity.
func (n *Node) NumInputs() int { return n.numInputs }

// NumOutputs returns the declared output arity.
func (n *Node) NumOutputs() int { return n.numOutputs }

// Config returns a copy of the node's configuration map.
func (n *Node) Config() map[string]any { return domain.CopyMap(n.config) }

// Param returns a single configuration value.
func (n *Node) Param(name string) (any, bool) {
	v, ok := n.config[name]
	return v, ok
}

// SetParam updates one configuration value and re-resolves the capability
// declaration from the raw template.
func (n *Node) SetParam(name string, value any) {
	if n.config == nil {
		n.config = make(map[string]any)
	}
	n.config[name] = value
	n.resolve()
}

// Template returns a copy of the raw (unresolved) declaration.
func (n *Node) Template() Declaration { return n.template.Clone() }

// Effects returns the node's resolved effect list.
func (n *Node) Effects() capability.List { return n.resolved.Effects.Clone() }

// Requires returns the node's resolved requirement list.
func (n *Node) Requires() capability.List { return n.resolved.Requires.Clone() }

// ConnectTo registers other as a successor of n and adds the symmetric
// back-edge. It fails when n is a sink or other is a source.
func (n *Node) ConnectTo(other *Node) error {
	if n.numOutputs == 0 {
		return &domain.WiringError{NodeID: n.id, Reason: "sink node has no output to connect"}
	}
	if other.numInputs == 0 {
		return &domain.WiringError{NodeID: other.id, Reason: "source node does not accept input"}
	}
	n.next = append(n.next, other)
	other.prev = append(other.prev, n)
	n.invalidateDepth()
	return nil
}

// ConnectFrom registers other as a predecessor of n. Inverse of ConnectTo.
func (n *Node) ConnectFrom(other *Node) error {
	return other.ConnectTo(n)
}

// Predecessors returns the node's predecessors in connection order. The
// references are navigational, not owning.
func (n *Node) Predecessors() []*Node {
	out := make([]*Node, len(n.prev))
	copy(out, n.prev)
	return out
}

// Successors returns the node's successors in connection order.
func (n *Node) Successors() []*Node {
	out := make([]*Node, len(n.next))
	copy(out, n.next)
	return out
}

// Completed reports whether the node holds a result.
func (n *Node) Completed() bool { return n.result != nil }

// HasRun reports whether the runner signaled termination. A node is never
// invoked twice in one graph run.
func (n *Node) HasRun() bool { return n.terminated }

// Ready reports whether every predecessor has completed. Sinks never appear
// as predecessors, so holding a result is the only completion signal needed.
func (n *Node) Ready() bool {
	for _, p := range n.prev {
		if !p.Completed() {
			return false
		}
	}
	return true
}

// Status derives the node's lifecycle state.
func (n *Node) Status() domain.Status {
	switch {
	case n.terminated || n.Completed():
		return domain.StatusCompleted
	case n.Ready():
		return domain.StatusReady
	default:
		return domain.StatusPending
	}
}

// Terminate stores the result and marks the node as having run. Runners must
// call it exactly once; the scheduler reports runners that do not. Sinks
// discard the value since nothing consumes it.
func (n *Node) Terminate(result domain.Payload) {
	if n.numOutputs > 0 {
		n.result = result
	}
	n.terminated = true
}

// SetResult stores a result without signaling termination. The scheduler
// treats a stored result with no termination signal as a recoverable protocol
// violation.
func (n *Node) SetResult(result domain.Payload) {
	n.result = result
}

// Result returns the node's cached result. With more than one successor it
// returns an independent deep copy so one consumer's in-place mutation cannot
// leak into a sibling's view; with at most one successor the live value is
// shared.
func (n *Node) Result() domain.Payload {
	if n.result == nil {
		return nil
	}
	if len(n.next) > 1 {
		return n.result.Clone()
	}
	return n.result
}

// Input returns the result of the i-th predecessor.
func (n *Node) Input(i int) (domain.Payload, error) {
	if i < 0 || i >= len(n.prev) {
		return nil, fmt.Errorf("node %q: no input %d (have %d)", n.id, i, len(n.prev))
	}
	p := n.prev[i]
	if !p.Completed() {
		return nil, fmt.Errorf("node %q: input %d (%q): %w", n.id, i, p.id, domain.ErrPredecessorsNotRun)
	}
	return p.Result(), nil
}

// Reset clears the node's result and run flag so the graph can run again.
func (n *Node) Reset() {
	n.result = nil
	n.terminated = false
}

// invalidateDepth clears the depth memo of this node and every transitive
// successor. Depths are derived from predecessors, so a new edge anywhere
// upstream invalidates everything downstream of it, including memos that
// would otherwise let the cycle coloring short-circuit on stale values.
func (n *Node) invalidateDepth() {
	n.invalidateDepthWalk(make(map[*Node]bool))
}

func (n *Node) invalidateDepthWalk(seen map[*Node]bool) {
	if seen[n] {
		return
	}
	seen[n] = true
	n.depthKnown = false
	for _, s := range n.next {
		s.invalidateDepthWalk(seen)
	}
}

// Depth returns the node's distance from a source node, memoized. A cycle
// reachable from the node is detected by coloring and reported instead of
// silently resolving to an artifact of traversal order.
func (n *Node) Depth() (int, error) {
	return n.depth(make(map[*Node]bool))
}

func (n *Node) depth(visiting map[*Node]bool) (int, error) {
	if n.depthKnown {
		return n.depthVal, nil
	}
	if visiting[n] {
		return 0, fmt.Errorf("node %q: %w", n.id, domain.ErrCycle)
	}
	visiting[n] = true
	defer delete(visiting, n)

	depth := 0
	for _, p := range n.prev {
		d, err := p.depth(visiting)
		if err != nil {
			return 0, err
		}
		if d+1 > depth {
			depth = d + 1
		}
	}
	n.depthVal = depth
	n.depthKnown = true
	return depth, nil
}

// CumulativeEffects folds the resolved effects of all ancestors into the
// node's own. Alternatives combine with the capability product, not the
// positional sum: sibling branches carry differing alternative counts in
// general, and Sum is only defined for equal-length lists.
func (n *Node) CumulativeEffects() capability.List {
	acc := capability.NewList()
	for _, p := range n.prev {
		acc = acc.Product(p.CumulativeEffects())
	}
	return acc.Product(n.resolved.Effects)
}

// CumulativeRequires folds the resolved requirements of all ancestors into
// the node's own, with the same product combination as CumulativeEffects.
// Most useful compared against CumulativeEffects.
func (n *Node) CumulativeRequires() capability.List {
	acc := capability.NewList()
	for _, p := range n.prev {
		acc = acc.Product(p.CumulativeRequires())
	}
	return acc.Product(n.resolved.Requires)
}

// ValidateInputs checks that every predecessor has completed and that the
// cumulative upstream effects satisfy this node's resolved requirements.
//
// The effect accumulation is a defensive upward search, not a prefix sum: it
// widens the ancestor frontier level by level, folding effects in with the
// product, and stops as soon as the accumulated list covers any requirement
// alternative.
func (n *Node) ValidateInputs() error {
	for _, p := range n.prev {
		if !p.Completed() {
			return fmt.Errorf("node %q: predecessor %q: %w", n.id, p.id, domain.ErrPredecessorsNotRun)
		}
	}
	return n.checkRequirements()
}

// checkRequirements performs the upward effect-accumulation walk without
// looking at predecessor results, so it is also usable for static validation
// before a run.
func (n *Node) checkRequirements() error {
	required := n.resolved.Requires
	acc := capability.NewList()
	frontier := n.prev
	seen := make(map[*Node]bool)
	for len(frontier) > 0 && !acc.Covers(required) {
		var next []*Node
		for _, p := range frontier {
			if seen[p] {
				continue
			}
			seen[p] = true
			acc = acc.Product(p.Effects())
			next = append(next, p.prev...)
		}
		frontier = next
	}
	if acc.Covers(required) {
		return nil
	}
	return &domain.RequirementsNotMetError{
		NodeID:   n.id,
		Unmet:    unmetFields(acc, required),
		Required: required.Clone(),
	}
}

// unmetFields flattens the accumulated effects and returns the smallest
// per-region difference against the requirement alternatives, for error
// reporting.
func unmetFields(effects, required capability.List) capability.Interaction {
	flat := capability.New(nil)
	for _, alt := range effects.Alternatives() {
		flat.Add(alt)
	}
	var best capability.Interaction
	for i, alt := range required.Alternatives() {
		diff := flat.Difference(alt)
		if i == 0 || diff.Size() < best.Size() {
			best = diff
		}
	}
	return best
}
