package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/weft/pkg/capability"
	"github.com/aretw0/weft/pkg/domain"
	"github.com/aretw0/weft/pkg/pipeline"
	"github.com/aretw0/weft/pkg/registry"
	"github.com/aretw0/weft/pkg/schema"
)

// registerBuiltins installs the node set that ships with the CLI: enough to
// express load/process/report pipelines and to exercise documents without a
// host application.
func registerBuiltins(reg *registry.Registry) error {
	defs := []registry.Definition{
		{
			Name:    "io/constant",
			Summary: "Emits a fixed numeric series.",
			Inputs:  0,
			Outputs: 1,
			Effects: capability.NewList(capability.New(capability.Fields{
				capability.RegionLayers: {"raw"},
			})),
			Params: schema.Schema{
				"values": {Type: schema.Slice(schema.Float())},
			},
			Important: []string{"values"},
			New:       newConstant,
		},
		{
			Name:    "transform/scale",
			Summary: "Multiplies every value by a constant factor.",
			Inputs:  1,
			Outputs: 1,
			Effects: capability.NewList(capability.New(capability.Fields{
				capability.RegionLayers: {"scaled"},
			})),
			Requires: capability.NewList(capability.New(capability.Fields{
				capability.RegionLayers: {"raw"},
			})),
			Params: schema.Schema{
				"factor": {Type: schema.Float(), Default: 3.0},
			},
			Important: []string{"factor"},
			New:       newScale,
		},
		{
			Name:    "transform/normalize",
			Summary: "Rescales the series by its maximum or sum.",
			Inputs:  1,
			Outputs: 1,
			Effects: capability.NewList(capability.New(capability.Fields{
				capability.RegionLayers: {"normalized"},
				capability.RegionMeta:   {"norm" + capability.Param("method")},
			})),
			Requires: capability.NewList(capability.New(capability.Fields{
				capability.RegionLayers: {"raw"},
			})),
			Params: schema.Schema{
				"method": {Type: schema.String(), Default: "max"},
			},
			New: newNormalize,
		},
		{
			Name:    "io/print",
			Summary: "Writes the incoming series to stdout or a file.",
			Inputs:  1,
			Outputs: 0,
			Requires: capability.NewList(
				capability.New(capability.Fields{capability.RegionLayers: {"scaled"}}),
				capability.New(capability.Fields{capability.RegionLayers: {"normalized"}}),
			),
			Params: schema.Schema{
				"save": {Type: schema.String(), Default: ""},
			},
			New: newPrint,
		},
	}
	for _, def := range defs {
		if err := reg.Register(def); err != nil {
			return err
		}
	}
	return nil
}

func newConstant(params map[string]any) (pipeline.Runner, error) {
	var cfg struct {
		Values []float64 `param:"values"`
	}
	if err := schema.Decode(params, &cfg); err != nil {
		return nil, err
	}
	return pipeline.RunnerFunc(func(ctx context.Context, node *pipeline.Node) error {
		node.Terminate(domain.NewValue(cfg.Values))
		return nil
	}), nil
}

func newScale(params map[string]any) (pipeline.Runner, error) {
	var cfg struct {
		Factor float64 `param:"factor"`
	}
	if err := schema.Decode(params, &cfg); err != nil {
		return nil, err
	}
	return pipeline.RunnerFunc(func(ctx context.Context, node *pipeline.Node) error {
		values, err := seriesInput(node, 0)
		if err != nil {
			return err
		}
		out := make([]float64, len(values))
		for i, v := range values {
			out[i] = v * cfg.Factor
		}
		node.Terminate(domain.NewValue(out))
		return nil
	}), nil
}

func newNormalize(params map[string]any) (pipeline.Runner, error) {
	var cfg struct {
		Method string `param:"method"`
	}
	if err := schema.Decode(params, &cfg); err != nil {
		return nil, err
	}
	if cfg.Method != "max" && cfg.Method != "sum" {
		return nil, fmt.Errorf("normalize: unknown method %q", cfg.Method)
	}
	return pipeline.RunnerFunc(func(ctx context.Context, node *pipeline.Node) error {
		values, err := seriesInput(node, 0)
		if err != nil {
			return err
		}
		denom := 0.0
		for _, v := range values {
			switch cfg.Method {
			case "max":
				if v > denom {
					denom = v
				}
			case "sum":
				denom += v
			}
		}
		out := make([]float64, len(values))
		if denom != 0 {
			for i, v := range values {
				out[i] = v / denom
			}
		}
		node.Terminate(domain.NewValue(out))
		return nil
	}), nil
}

func newPrint(params map[string]any) (pipeline.Runner, error) {
	var cfg struct {
		Save string `param:"save"`
	}
	if err := schema.Decode(params, &cfg); err != nil {
		return nil, err
	}
	return pipeline.RunnerFunc(func(ctx context.Context, node *pipeline.Node) error {
		in, err := node.Input(0)
		if err != nil {
			return err
		}
		rendered := fmt.Sprintln(in.(*domain.Value).Unwrap())
		if cfg.Save != "" {
			if err := os.WriteFile(cfg.Save, []byte(rendered), 0o644); err != nil {
				return err
			}
		} else {
			fmt.Print(rendered)
		}
		node.Terminate(nil)
		return nil
	}), nil
}

func seriesInput(node *pipeline.Node, i int) ([]float64, error) {
	in, err := node.Input(i)
	if err != nil {
		return nil, err
	}
	value, ok := in.(*domain.Value)
	if !ok {
		return nil, fmt.Errorf("node %q: unexpected payload %T", node.ID(), in)
	}
	values, ok := value.Unwrap().([]float64)
	if !ok {
		return nil, fmt.Errorf("node %q: expected numeric series, got %T", node.ID(), value.Unwrap())
	}
	return values, nil
}
