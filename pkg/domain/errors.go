package domain

import (
	"errors"
	"fmt"

	"github.com/aretw0/weft/pkg/capability"
)

// ErrPredecessorsNotRun is returned when a node is asked to validate its
// inputs before every predecessor has completed.
var ErrPredecessorsNotRun = errors.New("predecessor nodes have not run")

// ErrNoResult is returned when a non-sink node's runner returned normally but
// neither terminated nor stored a result.
var ErrNoResult = errors.New("node finished without producing a result")

// ErrNilResult is returned when a non-sink node signaled termination with a
// nil result.
var ErrNilResult = errors.New("node terminated with a nil result")

// ErrCycle is returned when depth computation detects a cycle in the graph.
var ErrCycle = errors.New("graph contains a cycle")

// RequirementsNotMetError reports that the cumulative upstream effects do not
// satisfy a node's resolved requirements.
type RequirementsNotMetError struct {
	NodeID   string
	Unmet    capability.Interaction
	Required capability.List
}

func (e *RequirementsNotMetError) Error() string {
	return fmt.Sprintf("node %q: requirements not met: %s not provided by upstream effects (required: %s)",
		e.NodeID, e.Unmet, e.Required)
}

// WiringError reports a malformed graph connection: input wired to a source
// node, or output wired to a sink node.
type WiringError struct {
	NodeID string
	Reason string
}

func (e *WiringError) Error() string {
	return fmt.Sprintf("node %q: invalid wiring: %s", e.NodeID, e.Reason)
}

// ExecutionError wraps any error raised while running a node, annotated with
// the node's identity and depth for diagnostics. It is fatal to the run.
type ExecutionError struct {
	NodeID string
	Depth  int
	Err    error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("node %q (depth %d): %v", e.NodeID, e.Depth, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
