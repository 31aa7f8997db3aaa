package domain

// Status describes where a node is in its lifecycle during a graph run.
type Status string

const (
	// StatusPending means at least one predecessor has not completed.
	StatusPending Status = "pending"
	// StatusReady means every predecessor has completed and the node can run.
	StatusReady Status = "ready"
	// StatusCompleted means the node has run.
	StatusCompleted Status = "completed"
)

// NodeKind classifies a node by its arity.
type NodeKind string

const (
	// KindSource loads data into the pipeline (zero inputs).
	KindSource NodeKind = "source"
	// KindSink writes data out of the pipeline (zero outputs).
	KindSink NodeKind = "sink"
	// KindTransform consumes and produces data.
	KindTransform NodeKind = "transform"
)
