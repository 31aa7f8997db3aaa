package weft_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/weft"
	"github.com/aretw0/weft/pkg/capability"
	"github.com/aretw0/weft/pkg/domain"
	"github.com/aretw0/weft/pkg/loader"
	"github.com/aretw0/weft/pkg/pipeline"
	"github.com/aretw0/weft/pkg/registry"
	"github.com/aretw0/weft/pkg/schema"
)

func registerDemoNodes(t *testing.T, reg *registry.Registry) {
	t.Helper()

	require.NoError(t, reg.Register(registry.Definition{
		Name:    "demo/emit",
		Inputs:  0,
		Outputs: 1,
		Effects: capability.NewList(capability.New(capability.Fields{
			capability.RegionLayers: {"raw"},
		})),
		Params: schema.Schema{"value": {Type: schema.Float(), Default: 1.0}},
		New: func(params map[string]any) (pipeline.Runner, error) {
			return pipeline.RunnerFunc(func(ctx context.Context, node *pipeline.Node) error {
				v, _ := node.Param("value")
				node.Terminate(domain.NewValue(v))
				return nil
			}), nil
		},
	}))

	require.NoError(t, reg.Register(registry.Definition{
		Name:    "demo/double",
		Inputs:  1,
		Outputs: 1,
		Effects: capability.NewList(capability.New(capability.Fields{
			capability.RegionLayers: {"doubled"},
		})),
		Requires: capability.NewList(capability.New(capability.Fields{
			capability.RegionLayers: {"raw"},
		})),
		Params: schema.Schema{},
		New: func(params map[string]any) (pipeline.Runner, error) {
			return pipeline.RunnerFunc(func(ctx context.Context, node *pipeline.Node) error {
				in, err := node.Input(0)
				if err != nil {
					return err
				}
				node.Terminate(domain.NewValue(in.(*domain.Value).Unwrap().(float64) * 2))
				return nil
			}), nil
		},
	}))
}

func TestEngineEndToEnd(t *testing.T) {
	eng := weft.New()
	registerDemoNodes(t, eng.Registry())

	path := filepath.Join(t.TempDir(), "pipe.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: demo
nodes:
  - id: a
    node: demo/emit
    params:
      value: 21.0
  - id: b
    node: demo/double
edges:
  - a-b-0
`), 0o644))

	g, err := eng.Load(path)
	require.NoError(t, err)
	require.NoError(t, eng.Run(context.Background(), g))

	b, ok := g.Node("b")
	require.True(t, ok)
	assert.Equal(t, 42.0, b.Result().(*domain.Value).Unwrap())
}

func TestEngineBuildFromDocument(t *testing.T) {
	eng := weft.New(weft.WithParallelism(2))
	registerDemoNodes(t, eng.Registry())

	g, err := eng.Build(&loader.Document{
		Name: "in-memory",
		Nodes: []loader.NodeDef{
			{ID: "a", Node: "demo/emit"},
			{ID: "b", Node: "demo/double"},
		},
		Edges: []string{"a-b-0"},
	})
	require.NoError(t, err)
	require.NoError(t, eng.Run(context.Background(), g))
}

func TestEngineRunRejectsInvalidGraph(t *testing.T) {
	eng := weft.New()
	registerDemoNodes(t, eng.Registry())

	// demo/double requires an upstream raw layer nothing provides.
	g, err := eng.Build(&loader.Document{
		Name: "broken",
		Nodes: []loader.NodeDef{
			{ID: "a", Node: "demo/emit"},
			{ID: "b", Node: "demo/double"},
			{ID: "c", Node: "demo/double"},
		},
		Edges: []string{"a-b-0"},
	})
	require.NoError(t, err)

	err = eng.Run(context.Background(), g)
	require.Error(t, err)

	var werr *domain.WiringError
	assert.ErrorAs(t, err, &werr, "c has no connected input")
}

func TestEngineHooks(t *testing.T) {
	var finished int
	eng := weft.New(weft.WithLifecycleHooks(domain.LifecycleHooks{
		OnNodeFinish: func(ctx context.Context, ev *domain.NodeEvent) { finished++ },
	}))
	registerDemoNodes(t, eng.Registry())

	g, err := eng.Build(&loader.Document{
		Nodes: []loader.NodeDef{{ID: "a", Node: "demo/emit"}},
	})
	require.NoError(t, err)
	require.NoError(t, eng.Run(context.Background(), g))

	assert.Equal(t, 1, finished)
}
