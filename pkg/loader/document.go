package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is the external description of a pipeline.
type Document struct {
	Name  string    `yaml:"name" json:"name"`
	Nodes []NodeDef `yaml:"nodes" json:"nodes"`
	// Edges are descriptors of the form "source-target-slot", where slot is
	// the zero-based input position on the target node.
	Edges []string `yaml:"edges" json:"edges"`
}

// NodeDef describes one node instance in a document.
type NodeDef struct {
	ID     string         `yaml:"id" json:"id"`
	Node   string         `yaml:"node" json:"node"` // registry reference
	Params map[string]any `yaml:"params" json:"params"`
}

// LoadDocument reads a pipeline document from disk. JSON is selected by file
// extension; everything else is parsed as YAML.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pipeline document: %w", err)
	}

	var doc Document
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse pipeline document %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse pipeline document %s: %w", path, err)
		}
	}
	return &doc, nil
}

// edge is a parsed edge descriptor.
type edge struct {
	source string
	target string
	slot   int
}

// parseEdge splits a "source-target-slot" descriptor. Node ids must not
// contain "-"; documents use opaque short ids assigned by the designer.
func parseEdge(descriptor string) (edge, error) {
	parts := strings.Split(descriptor, "-")
	if len(parts) != 3 {
		return edge{}, fmt.Errorf("malformed edge descriptor %q (want source-target-slot)", descriptor)
	}
	slot, err := strconv.Atoi(parts[2])
	if err != nil || slot < 0 {
		return edge{}, fmt.Errorf("malformed edge descriptor %q: bad slot %q", descriptor, parts[2])
	}
	return edge{source: parts[0], target: parts[1], slot: slot}, nil
}
