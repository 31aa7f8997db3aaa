package testutils

import (
	"context"
	"sync/atomic"

	"github.com/aretw0/weft/pkg/domain"
	"github.com/aretw0/weft/pkg/pipeline"
)

// Emit returns a source runner that terminates with the given value.
func Emit(value any) pipeline.RunnerFunc {
	return func(ctx context.Context, node *pipeline.Node) error {
		node.Terminate(domain.NewValue(value))
		return nil
	}
}

// Transform returns a runner that applies fn to the first input's unwrapped
// value and terminates with the result.
func Transform(fn func(any) any) pipeline.RunnerFunc {
	return func(ctx context.Context, node *pipeline.Node) error {
		in, err := node.Input(0)
		if err != nil {
			return err
		}
		node.Terminate(domain.NewValue(fn(in.(*domain.Value).Unwrap())))
		return nil
	}
}

// Discard returns a sink runner that consumes its input and terminates.
func Discard() pipeline.RunnerFunc {
	return func(ctx context.Context, node *pipeline.Node) error {
		if _, err := node.Input(0); err != nil {
			return err
		}
		node.Terminate(nil)
		return nil
	}
}

// Failing returns a runner that fails with err without terminating.
func Failing(err error) pipeline.RunnerFunc {
	return func(ctx context.Context, node *pipeline.Node) error {
		return err
	}
}

// Counting wraps a runner and counts invocations. Safe for parallel batches.
type Counting struct {
	Inner pipeline.Runner
	runs  atomic.Int32
}

// Run invokes the wrapped runner.
func (c *Counting) Run(ctx context.Context, node *pipeline.Node) error {
	c.runs.Add(1)
	return c.Inner.Run(ctx, node)
}

// Runs returns how many times the runner was invoked.
func (c *Counting) Runs() int32 {
	return c.runs.Load()
}
