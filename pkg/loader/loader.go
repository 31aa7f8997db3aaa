package loader

import (
	"fmt"
	"sort"

	"github.com/aretw0/weft/pkg/pipeline"
	"github.com/aretw0/weft/pkg/registry"
)

// Build materializes a graph from a document: nodes are built through the
// registry (parameters validated, defaults applied) and edges are wired in
// slot order so that a node's input positions match the document.
func Build(doc *Document, reg *registry.Registry, opts ...pipeline.GraphOption) (*pipeline.Graph, error) {
	g := pipeline.NewGraph(opts...)

	for _, def := range doc.Nodes {
		if def.ID == "" {
			return nil, fmt.Errorf("document %q: node missing id", doc.Name)
		}
		node, err := reg.Build(def.Node, def.ID, def.Params)
		if err != nil {
			return nil, fmt.Errorf("document %q: node %q: %w", doc.Name, def.ID, err)
		}
		if err := g.Add(node); err != nil {
			return nil, fmt.Errorf("document %q: %w", doc.Name, err)
		}
	}

	edges := make([]edge, 0, len(doc.Edges))
	for _, descriptor := range doc.Edges {
		e, err := parseEdge(descriptor)
		if err != nil {
			return nil, fmt.Errorf("document %q: %w", doc.Name, err)
		}
		edges = append(edges, e)
	}
	// Connection order determines input positions on the target, so wire each
	// target's edges by ascending slot.
	sort.SliceStable(edges, func(i, j int) bool {
		if edges[i].target != edges[j].target {
			return edges[i].target < edges[j].target
		}
		return edges[i].slot < edges[j].slot
	})
	for _, e := range edges {
		source, ok := g.Node(e.source)
		if !ok {
			return nil, fmt.Errorf("document %q: edge references unknown node %q", doc.Name, e.source)
		}
		target, ok := g.Node(e.target)
		if !ok {
			return nil, fmt.Errorf("document %q: edge references unknown node %q", doc.Name, e.target)
		}
		if err := source.ConnectTo(target); err != nil {
			return nil, fmt.Errorf("document %q: %w", doc.Name, err)
		}
	}

	return g, nil
}

// Load reads a document from disk and materializes it against the registry.
func Load(path string, reg *registry.Registry, opts ...pipeline.GraphOption) (*pipeline.Graph, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return nil, err
	}
	return Build(doc, reg, opts...)
}
