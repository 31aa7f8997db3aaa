package pipeline_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/weft/internal/testutils"
	"github.com/aretw0/weft/pkg/capability"
	"github.com/aretw0/weft/pkg/domain"
	"github.com/aretw0/weft/pkg/pipeline"
)

func TestNodeDefaults(t *testing.T) {
	n := pipeline.NewNode("n")

	assert.Equal(t, "n", n.ID())
	assert.Equal(t, 1, n.NumInputs())
	assert.Equal(t, 1, n.NumOutputs())
	assert.Equal(t, domain.KindTransform, n.Kind())
	assert.False(t, n.HasRun())
	assert.False(t, n.Completed())
}

func TestNodeKinds(t *testing.T) {
	assert.Equal(t, domain.KindSource, pipeline.NewNode("s", pipeline.AsSource()).Kind())
	assert.Equal(t, domain.KindSink, pipeline.NewNode("k", pipeline.AsSink()).Kind())
	assert.Equal(t, domain.KindTransform, pipeline.NewNode("t", pipeline.WithArity(2, 1)).Kind())
}

func TestConnectTo(t *testing.T) {
	a := pipeline.NewNode("a", pipeline.AsSource())
	b := pipeline.NewNode("b")

	require.NoError(t, a.ConnectTo(b))

	require.Len(t, a.Successors(), 1)
	require.Len(t, b.Predecessors(), 1)
	assert.Equal(t, "b", a.Successors()[0].ID())
	assert.Equal(t, "a", b.Predecessors()[0].ID())
}

func TestConnectToRejectsSinkSource(t *testing.T) {
	sink := pipeline.NewNode("sink", pipeline.AsSink())
	source := pipeline.NewNode("source", pipeline.AsSource())
	mid := pipeline.NewNode("mid")

	var werr *domain.WiringError

	err := sink.ConnectTo(mid)
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, "sink", werr.NodeID)

	err = mid.ConnectTo(source)
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, "source", werr.NodeID)
}

func TestConnectFrom(t *testing.T) {
	a := pipeline.NewNode("a", pipeline.AsSource())
	b := pipeline.NewNode("b")

	require.NoError(t, b.ConnectFrom(a))
	require.Len(t, b.Predecessors(), 1)
	assert.Equal(t, "a", b.Predecessors()[0].ID())
}

func TestNodeReadiness(t *testing.T) {
	a := pipeline.NewNode("a", pipeline.AsSource())
	b := pipeline.NewNode("b")
	require.NoError(t, a.ConnectTo(b))

	assert.True(t, a.Ready(), "sources are ready immediately")
	assert.False(t, b.Ready())
	assert.Equal(t, domain.StatusPending, b.Status())

	a.Terminate(domain.NewValue(1))

	assert.True(t, b.Ready())
	assert.Equal(t, domain.StatusReady, b.Status())
	assert.Equal(t, domain.StatusCompleted, a.Status())
}

func TestTerminateOnSinkDiscardsResult(t *testing.T) {
	sink := pipeline.NewNode("sink", pipeline.AsSink())
	sink.Terminate(domain.NewValue("ignored"))

	assert.True(t, sink.HasRun())
	assert.False(t, sink.Completed())
	assert.Nil(t, sink.Result())
}

func TestResultFanOutCopies(t *testing.T) {
	src := pipeline.NewNode("src", pipeline.AsSource())
	b := pipeline.NewNode("b")
	c := pipeline.NewNode("c")
	require.NoError(t, src.ConnectTo(b))
	require.NoError(t, src.ConnectTo(c))

	src.Terminate(domain.NewValue(map[string]int{"count": 1}))

	first := src.Result().(*domain.Value).Unwrap().(map[string]int)
	first["count"] = 99

	second := src.Result().(*domain.Value).Unwrap().(map[string]int)
	assert.Equal(t, 1, second["count"], "each consumer sees an independent copy")
}

func TestResultSingleSuccessorShared(t *testing.T) {
	src := pipeline.NewNode("src", pipeline.AsSource())
	b := pipeline.NewNode("b")
	require.NoError(t, src.ConnectTo(b))

	src.Terminate(domain.NewValue(map[string]int{"count": 1}))

	first := src.Result().(*domain.Value).Unwrap().(map[string]int)
	first["count"] = 99

	second := src.Result().(*domain.Value).Unwrap().(map[string]int)
	assert.Equal(t, 99, second["count"], "single consumer shares the live value")
}

func TestInputErrors(t *testing.T) {
	a := pipeline.NewNode("a", pipeline.AsSource())
	b := pipeline.NewNode("b")
	require.NoError(t, a.ConnectTo(b))

	_, err := b.Input(1)
	assert.Error(t, err)

	_, err = b.Input(0)
	assert.ErrorIs(t, err, domain.ErrPredecessorsNotRun)

	a.Terminate(domain.NewValue(7))
	in, err := b.Input(0)
	require.NoError(t, err)
	assert.Equal(t, 7, in.(*domain.Value).Unwrap())
}

func TestReset(t *testing.T) {
	n := pipeline.NewNode("n", pipeline.AsSource())
	n.Terminate(domain.NewValue(1))
	require.True(t, n.HasRun())

	n.Reset()

	assert.False(t, n.HasRun())
	assert.False(t, n.Completed())
}

func TestDepth(t *testing.T) {
	a := pipeline.NewNode("a", pipeline.AsSource())
	b := pipeline.NewNode("b")
	c := pipeline.NewNode("c", pipeline.WithArity(2, 1))
	d := pipeline.NewNode("d")

	// a -> b -> c, a -> d -> c: c sits at max depth over both paths.
	require.NoError(t, a.ConnectTo(b))
	require.NoError(t, a.ConnectTo(d))
	require.NoError(t, b.ConnectTo(c))
	require.NoError(t, d.ConnectTo(c))

	for node, want := range map[*pipeline.Node]int{a: 0, b: 1, d: 1, c: 2} {
		got, err := node.Depth()
		require.NoError(t, err)
		assert.Equal(t, want, got, "node %s", node.ID())
	}
}

func TestDepthRecomputedAfterUpstreamEdge(t *testing.T) {
	a := pipeline.NewNode("a")
	b := pipeline.NewNode("b")
	require.NoError(t, a.ConnectTo(b))

	got, err := b.Depth()
	require.NoError(t, err)
	require.Equal(t, 1, got)

	// A new edge upstream of a memoized node must shift its depth.
	s := pipeline.NewNode("s", pipeline.AsSource())
	require.NoError(t, s.ConnectTo(a))

	got, err = b.Depth()
	require.NoError(t, err)
	assert.Equal(t, 2, got)
}

func TestDepthDetectsCycleClosedAfterQuery(t *testing.T) {
	a := pipeline.NewNode("a")
	b := pipeline.NewNode("b")
	c := pipeline.NewNode("c")
	d := pipeline.NewNode("d")
	require.NoError(t, a.ConnectTo(b))
	require.NoError(t, b.ConnectTo(c))
	require.NoError(t, c.ConnectTo(d))

	// Memoize the whole chain, then close the cycle. The stale memos must
	// not let the coloring walk short-circuit past the back-edge.
	_, err := d.Depth()
	require.NoError(t, err)
	require.NoError(t, d.ConnectTo(a))

	for _, n := range []*pipeline.Node{a, b, c, d} {
		_, err := n.Depth()
		assert.ErrorIs(t, err, domain.ErrCycle, "node %s", n.ID())
	}
}

func TestDepthDetectsCycle(t *testing.T) {
	a := pipeline.NewNode("a")
	b := pipeline.NewNode("b")
	require.NoError(t, a.ConnectTo(b))
	require.NoError(t, b.ConnectTo(a))

	_, err := a.Depth()
	assert.ErrorIs(t, err, domain.ErrCycle)
}

func TestSetParamReResolvesDeclaration(t *testing.T) {
	n := pipeline.NewNode("n",
		pipeline.WithDeclaration(
			capability.NewList(capability.New(capability.Fields{
				capability.RegionCols: {"col" + capability.Param("name")},
			})),
			capability.NewList(),
		),
		pipeline.WithConfig(map[string]any{"name": "a"}),
	)

	require.Equal(t, 1, n.Effects().Len())
	assert.Equal(t, []string{"col:a"}, n.Effects().At(0).Fields(capability.RegionCols))

	// Re-resolution starts from the raw template, never from a prior result.
	n.SetParam("name", []string{"b", "c"})
	assert.Equal(t, []string{"col:b", "col:c"}, n.Effects().At(0).Fields(capability.RegionCols))
}

func TestWithConfigCopies(t *testing.T) {
	cfg := map[string]any{"k": 1}
	n := pipeline.NewNode("n", pipeline.WithConfig(cfg))

	cfg["k"] = 2

	v, ok := n.Param("k")
	require.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestCumulativeEffects(t *testing.T) {
	src := pipeline.NewNode("src", pipeline.AsSource(),
		pipeline.WithDeclaration(
			capability.NewList(capability.New(capability.Fields{capability.RegionLayers: {"raw"}})),
			capability.NewList(),
		))
	mid := pipeline.NewNode("mid",
		pipeline.WithDeclaration(
			capability.NewList(capability.New(capability.Fields{capability.RegionLayers: {"scaled"}})),
			capability.NewList(),
		))
	require.NoError(t, src.ConnectTo(mid))

	cum := mid.CumulativeEffects()
	require.Equal(t, 1, cum.Len())
	assert.Equal(t, []string{"raw", "scaled"}, cum.At(0).Fields(capability.RegionLayers))
}

func TestValidateInputsRequirementsMetByGrandparent(t *testing.T) {
	src := pipeline.NewNode("src", pipeline.AsSource(),
		pipeline.WithDeclaration(
			capability.NewList(capability.New(capability.Fields{capability.RegionRows: {"cluster"}})),
			capability.NewList(),
		))
	mid := pipeline.NewNode("mid")
	end := pipeline.NewNode("end",
		pipeline.WithDeclaration(
			capability.NewList(),
			capability.NewList(capability.New(capability.Fields{capability.RegionRows: {"cluster"}})),
		))
	require.NoError(t, src.ConnectTo(mid))
	require.NoError(t, mid.ConnectTo(end))

	src.Terminate(domain.NewValue(1))
	mid.Terminate(domain.NewValue(2))

	assert.NoError(t, end.ValidateInputs(), "the effect search walks past direct predecessors")
}

func TestValidateInputsPredecessorNotRun(t *testing.T) {
	src := pipeline.NewNode("src", pipeline.AsSource())
	end := pipeline.NewNode("end")
	require.NoError(t, src.ConnectTo(end))

	err := end.ValidateInputs()
	assert.ErrorIs(t, err, domain.ErrPredecessorsNotRun)
}

func TestValidateInputsRequirementsNotMet(t *testing.T) {
	src := pipeline.NewNode("src", pipeline.AsSource(),
		pipeline.WithDeclaration(
			capability.NewList(capability.New(capability.Fields{capability.RegionLayers: {"raw"}})),
			capability.NewList(),
		))
	end := pipeline.NewNode("end",
		pipeline.WithDeclaration(
			capability.NewList(),
			capability.NewList(capability.New(capability.Fields{
				capability.RegionLayers: {"raw", "scaled"},
			})),
		))
	require.NoError(t, src.ConnectTo(end))
	src.Terminate(domain.NewValue(1))

	err := end.ValidateInputs()

	var unmet *domain.RequirementsNotMetError
	require.ErrorAs(t, err, &unmet)
	assert.Equal(t, "end", unmet.NodeID)
	assert.Equal(t, []string{"scaled"}, unmet.Unmet.Fields(capability.RegionLayers))
}

func TestValidateInputsAlternativeRequirement(t *testing.T) {
	src := pipeline.NewNode("src", pipeline.AsSource(),
		pipeline.WithDeclaration(
			capability.NewList(capability.New(capability.Fields{capability.RegionLayers: {"normalized"}})),
			capability.NewList(),
		))
	end := pipeline.NewNode("end",
		pipeline.WithDeclaration(
			capability.NewList(),
			capability.NewList(
				capability.New(capability.Fields{capability.RegionLayers: {"scaled"}}),
				capability.New(capability.Fields{capability.RegionLayers: {"normalized"}}),
			),
		))
	require.NoError(t, src.ConnectTo(end))
	src.Terminate(domain.NewValue(1))

	assert.NoError(t, end.ValidateInputs(), "any one alternative satisfies the requirement")
}

func TestTemplateSurvivesResolution(t *testing.T) {
	n := pipeline.NewNode("n",
		pipeline.WithDeclaration(
			capability.NewList(capability.New(capability.Fields{
				capability.RegionMeta: {"norm" + capability.Param("method")},
			})),
			capability.NewList(),
		),
		pipeline.WithConfig(map[string]any{"method": "max"}),
	)

	tpl := n.Template()
	assert.Equal(t, []string{"norm[method]"}, tpl.Effects.At(0).Fields(capability.RegionMeta))
	assert.Equal(t, []string{"norm:max"}, n.Effects().At(0).Fields(capability.RegionMeta))
}

func TestRunnerFunc(t *testing.T) {
	n := pipeline.NewNode("n", pipeline.AsSource(),
		pipeline.WithRunner(testutils.Emit("hello")))

	g := pipeline.NewGraph()
	require.NoError(t, g.Add(n))
	require.NoError(t, g.Run(context.Background()))

	assert.Equal(t, "hello", n.Result().(*domain.Value).Unwrap())
}
