package loader

import (
	"path/filepath"

	"github.com/aretw0/weft/pkg/domain"
	"github.com/aretw0/weft/pkg/pipeline"
)

const (
	// PathParam is the conventional parameter naming a source node's input file.
	PathParam = "path"
	// SaveParam is the conventional parameter naming a sink node's output file.
	SaveParam = "save"
)

// AssignInputs sets the input path parameter on the named nodes. The map is
// keyed by node instance id; unknown ids are ignored so a host can pass its
// full file table.
func AssignInputs(g *pipeline.Graph, inputs map[string]string) {
	for id, path := range inputs {
		if node, ok := g.Node(id); ok {
			node.SetParam(PathParam, path)
		}
	}
}

// AssignOutputs prefixes every sink node's save parameter with the output
// directory.
func AssignOutputs(g *pipeline.Graph, outputDir string) {
	for _, node := range g.Nodes() {
		if node.Kind() != domain.KindSink {
			continue
		}
		save, ok := node.Param(SaveParam)
		if !ok {
			continue
		}
		if name, ok := save.(string); ok && name != "" {
			node.SetParam(SaveParam, filepath.Join(outputDir, name))
		}
	}
}
