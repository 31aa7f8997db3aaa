package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aretw0/weft/internal/logging"
	"github.com/aretw0/weft/pkg/domain"
)

// Graph owns all nodes of a pipeline and drives the readiness-based run loop.
type Graph struct {
	nodes       map[string]*Node
	logger      *slog.Logger
	hooks       domain.LifecycleHooks
	parallelism int
}

// GraphOption configures a Graph.
type GraphOption func(*Graph)

// WithLogger sets the graph's logger. The default discards everything.
func WithLogger(logger *slog.Logger) GraphOption {
	return func(g *Graph) { g.logger = logger }
}

// WithHooks registers lifecycle callbacks for observability.
func WithHooks(hooks domain.LifecycleHooks) GraphOption {
	return func(g *Graph) { g.hooks = hooks }
}

// WithParallelism allows up to limit nodes of one ready batch to run
// concurrently. Nodes within a batch have no inter-dependency by
// construction; the next batch is only computed after the whole batch has
// joined. The default (limit <= 1) runs batches sequentially.
func WithParallelism(limit int) GraphOption {
	return func(g *Graph) { g.parallelism = limit }
}

// NewGraph creates an empty graph.
func NewGraph(opts ...GraphOption) *Graph {
	g := &Graph{
		nodes:  make(map[string]*Node),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Add registers a node. Node ids must be unique within the graph.
func (g *Graph) Add(nodes ...*Node) error {
	for _, n := range nodes {
		if _, exists := g.nodes[n.id]; exists {
			return fmt.Errorf("duplicate node id %q", n.id)
		}
		g.nodes[n.id] = n
	}
	return nil
}

// Node returns a node by id.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// IDs returns all node ids in sorted order.
func (g *Graph) IDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Nodes returns all nodes ordered by id.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodes))
	for _, id := range g.IDs() {
		out = append(out, g.nodes[id])
	}
	return out
}

// Validate performs the static checks that do not need results: cycle
// detection, arity consistency, and requirement coverage.
func (g *Graph) Validate() error {
	for _, n := range g.Nodes() {
		if _, err := n.Depth(); err != nil {
			return err
		}
		if len(n.prev) != n.numInputs {
			return &domain.WiringError{
				NodeID: n.id,
				Reason: fmt.Sprintf("declares %d inputs but has %d connected", n.numInputs, len(n.prev)),
			}
		}
		if err := n.checkRequirements(); err != nil {
			return err
		}
	}
	return nil
}

// Run executes the graph to completion. Nodes run in ready batches: a batch
// is the snapshot of all currently ready, not-yet-run nodes; running a batch
// can ready its successors for the next one. Each node runs at most once, and
// any node failure aborts the run.
func (g *Graph) Run(ctx context.Context) error {
	// Reject cycles up front; the loop below would silently starve on them.
	for _, n := range g.Nodes() {
		if _, err := n.Depth(); err != nil {
			return err
		}
	}

	start := time.Now()
	g.emitRun(ctx, &domain.RunEvent{Timestamp: start, Nodes: len(g.nodes)}, g.hooks.OnRunStart)

	var ready []*Node
	for _, n := range g.Nodes() {
		if n.Ready() && !n.HasRun() {
			ready = append(ready, n)
		}
	}

	var runErr error
	for len(ready) > 0 && runErr == nil {
		batch := ready
		ready = nil

		if g.parallelism > 1 {
			runErr = g.runBatchParallel(ctx, batch)
		} else {
			runErr = g.runBatch(ctx, batch)
		}
		if runErr != nil {
			break
		}

		// Barrier: only after the whole batch has finished do we compute the
		// next one. A successor reachable from several just-run nodes is
		// queued once.
		queued := make(map[string]bool)
		for _, n := range batch {
			for _, s := range n.next {
				if s.Ready() && !s.HasRun() && !queued[s.id] {
					queued[s.id] = true
					ready = append(ready, s)
				}
			}
		}
	}

	g.emitRun(ctx, &domain.RunEvent{
		Timestamp: time.Now(),
		Nodes:     len(g.nodes),
		Duration:  time.Since(start),
		Err:       runErr,
	}, g.hooks.OnRunFinish)
	return runErr
}

func (g *Graph) runBatch(ctx context.Context, batch []*Node) error {
	for _, n := range batch {
		if n.HasRun() {
			continue
		}
		if err := g.runNode(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

func (g *Graph) runBatchParallel(ctx context.Context, batch []*Node) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.parallelism)
	for _, n := range batch {
		if n.HasRun() {
			continue
		}
		n := n
		eg.Go(func() error {
			return g.runNode(ctx, n)
		})
	}
	return eg.Wait()
}

// runNode validates, executes, and post-checks a single node. The execution
// outcome is branched on as data: the combination of "terminated" and "has a
// result" decides between success, a recoverable protocol warning, and a
// fatal error.
func (g *Graph) runNode(ctx context.Context, n *Node) error {
	depth, err := n.Depth()
	if err != nil {
		return err
	}

	if err := n.ValidateInputs(); err != nil {
		return err
	}
	if n.runner == nil {
		return &domain.ExecutionError{NodeID: n.id, Depth: depth, Err: fmt.Errorf("no runner configured")}
	}

	started := time.Now()
	g.emitNode(ctx, n, depth, 0, nil, g.hooks.OnNodeStart)

	runErr := n.runner.Run(ctx, n)
	if runErr == nil {
		runErr = g.checkOutcome(n)
	}
	if runErr != nil {
		runErr = &domain.ExecutionError{NodeID: n.id, Depth: depth, Err: runErr}
	}

	g.emitNode(ctx, n, depth, time.Since(started), runErr, g.hooks.OnNodeFinish)
	return runErr
}

func (g *Graph) checkOutcome(n *Node) error {
	switch {
	case n.terminated && n.result == nil && n.numOutputs > 0:
		return domain.ErrNilResult
	case !n.terminated && n.result != nil:
		// A result exists, so downstream nodes can proceed; log and accept.
		g.logger.Warn("node stored a result without signaling termination",
			"node", n.id)
		n.terminated = true
		return nil
	case !n.terminated:
		return domain.ErrNoResult
	default:
		return nil
	}
}

// Reset clears every node's result so the graph can be run again.
func (g *Graph) Reset() {
	for _, n := range g.nodes {
		n.Reset()
	}
}

func (g *Graph) emitRun(ctx context.Context, ev *domain.RunEvent, hook func(context.Context, *domain.RunEvent)) {
	if hook != nil {
		hook(ctx, ev)
	}
}

func (g *Graph) emitNode(ctx context.Context, n *Node, depth int, d time.Duration, err error, hook func(context.Context, *domain.NodeEvent)) {
	if hook != nil {
		hook(ctx, &domain.NodeEvent{
			Timestamp: time.Now(),
			NodeID:    n.id,
			Kind:      n.Kind(),
			Depth:     depth,
			Duration:  d,
			Err:       err,
		})
	}
}
