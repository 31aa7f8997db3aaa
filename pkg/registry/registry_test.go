package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/weft/pkg/capability"
	"github.com/aretw0/weft/pkg/domain"
	"github.com/aretw0/weft/pkg/pipeline"
	"github.com/aretw0/weft/pkg/schema"
)

func noopFactory(params map[string]any) (pipeline.Runner, error) {
	return pipeline.RunnerFunc(func(ctx context.Context, node *pipeline.Node) error {
		node.Terminate(domain.NewValue(params))
		return nil
	}), nil
}

func sampleDef() Definition {
	return Definition{
		Name:    "loaders/csv",
		Summary: "Loads a table from disk.",
		Inputs:  0,
		Outputs: 1,
		Effects: capability.NewList(capability.New(capability.Fields{
			capability.RegionLayers: {"raw"},
		})),
		Params: schema.Schema{
			"path":  {Type: schema.String()},
			"sep":   {Type: schema.String(), Default: ","},
			"limit": {Type: schema.Int(), Default: 0},
		},
		Important: []string{"path"},
		New:       noopFactory,
	}
}

func TestRegister(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(sampleDef()))

	def, ok := r.Lookup("loaders/csv")
	require.True(t, ok)
	assert.Equal(t, "source", def.Kind())
	assert.Equal(t, []string{"loaders/csv"}, r.Names())
}

func TestRegisterErrors(t *testing.T) {
	r := New()

	t.Run("no name", func(t *testing.T) {
		def := sampleDef()
		def.Name = ""
		assert.Error(t, r.Register(def))
	})

	t.Run("no factory", func(t *testing.T) {
		def := sampleDef()
		def.New = nil
		assert.Error(t, r.Register(def))
	})

	t.Run("important not in params", func(t *testing.T) {
		def := sampleDef()
		def.Important = []string{"nonexistent"}
		assert.Error(t, r.Register(def))
	})

	t.Run("duplicate", func(t *testing.T) {
		require.NoError(t, r.Register(sampleDef()))
		assert.Error(t, r.Register(sampleDef()))
	})
}

func TestMustRegisterPanics(t *testing.T) {
	r := New()
	def := sampleDef()
	def.Name = ""
	assert.Panics(t, func() { r.MustRegister(def) })
}

func TestDefinitionKind(t *testing.T) {
	assert.Equal(t, "source", Definition{Inputs: 0, Outputs: 1}.Kind())
	assert.Equal(t, "sink", Definition{Inputs: 1, Outputs: 0}.Kind())
	assert.Equal(t, "transform", Definition{Inputs: 1, Outputs: 1}.Kind())
}

func TestBuild(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(sampleDef()))

	n, err := r.Build("loaders/csv", "load-1", map[string]any{"path": "/data/x.csv"})
	require.NoError(t, err)

	assert.Equal(t, "load-1", n.ID())
	assert.Equal(t, domain.KindSource, n.Kind())
	assert.Equal(t, []string{"raw"}, n.Effects().At(0).Fields(capability.RegionLayers))

	// Defaults are applied into the instance config.
	sep, ok := n.Param("sep")
	require.True(t, ok)
	assert.Equal(t, ",", sep)
}

func TestBuildErrors(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(sampleDef()))

	_, err := r.Build("loaders/missing", "x", nil)
	assert.Error(t, err)

	// Required parameter absent.
	_, err = r.Build("loaders/csv", "x", map[string]any{})
	assert.Error(t, err)

	// Type mismatch.
	_, err = r.Build("loaders/csv", "x", map[string]any{"path": 42})
	assert.Error(t, err)
}

func TestBuildResolvesPlaceholders(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(Definition{
		Name:    "transform/tag",
		Inputs:  1,
		Outputs: 1,
		Effects: capability.NewList(capability.New(capability.Fields{
			capability.RegionMeta: {"tag" + capability.Param("label")},
		})),
		Params: schema.Schema{"label": {Type: schema.String()}},
		New:    noopFactory,
	}))

	n, err := r.Build("transform/tag", "t1", map[string]any{"label": "qc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"tag:qc"}, n.Effects().At(0).Fields(capability.RegionMeta))
}
