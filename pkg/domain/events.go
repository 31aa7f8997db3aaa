package domain

import (
	"context"
	"time"
)

// NodeEvent describes a node starting or finishing during a run.
type NodeEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	NodeID    string        `json:"node_id"`
	Kind      NodeKind      `json:"kind"`
	Depth     int           `json:"depth"`
	Duration  time.Duration `json:"duration,omitempty"`
	Err       error         `json:"-"`
}

// RunEvent describes a whole pipeline run starting or finishing.
type RunEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	Nodes     int           `json:"nodes"`
	Duration  time.Duration `json:"duration,omitempty"`
	Err       error         `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability. Nil callbacks
// are skipped.
type LifecycleHooks struct {
	OnRunStart   func(context.Context, *RunEvent)
	OnRunFinish  func(context.Context, *RunEvent)
	OnNodeStart  func(context.Context, *NodeEvent)
	OnNodeFinish func(context.Context, *NodeEvent)
}
