package registry

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aretw0/weft/pkg/capability"
)

// Manifest is the UI-facing catalog of all registered node definitions,
// grouped into a nested module tree keyed by the "/"-separated names.
type Manifest struct {
	DisplayName string  `json:"display_name"`
	Modules     *Module `json:"modules"`
}

// Module is one level of the manifest tree.
type Module struct {
	Name    string     `json:"name"`
	Modules []*Module  `json:"modules"`
	Nodes   []NodeInfo `json:"nodes"`
}

// NodeInfo is the manifest entry for a single node definition.
type NodeInfo struct {
	Name                string              `json:"name"`
	Module              string              `json:"module"`
	Kind                string              `json:"type"`
	NumInputs           int                 `json:"num_inputs"`
	NumOutputs          int                 `json:"num_outputs"`
	Effects             []capability.Fields `json:"effects"`
	Requirements        []capability.Fields `json:"requirements"`
	Parameters          []ParamInfo         `json:"parameters"`
	RequiredParameters  []string            `json:"required_parameters"`
	ImportantParameters []string            `json:"important_parameters,omitempty"`
	Summary             string              `json:"summary,omitempty"`
}

// ParamInfo describes one configuration parameter for the designer UI.
type ParamInfo struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Default any    `json:"default"`
}

// Manifest renders the catalog with the given display name.
func (r *Registry) Manifest(displayName string) *Manifest {
	root := &Module{Name: displayName, Modules: []*Module{}, Nodes: []NodeInfo{}}
	for _, name := range r.Names() {
		def, _ := r.Lookup(name)
		segments := strings.Split(name, "/")
		parent := root
		for _, segment := range segments[:len(segments)-1] {
			parent = parent.child(segment)
		}
		parent.Nodes = append(parent.Nodes, nodeInfo(def, segments[len(segments)-1]))
	}
	return &Manifest{DisplayName: displayName, Modules: root}
}

// child returns the named submodule, creating it if absent.
func (m *Module) child(name string) *Module {
	for _, sub := range m.Modules {
		if sub.Name == name {
			return sub
		}
	}
	sub := &Module{Name: name, Modules: []*Module{}, Nodes: []NodeInfo{}}
	m.Modules = append(m.Modules, sub)
	return sub
}

func nodeInfo(def Definition, shortName string) NodeInfo {
	params := make([]ParamInfo, 0, len(def.Params))
	for _, name := range def.Params.Names() {
		field := def.Params[name]
		params = append(params, ParamInfo{
			Name:    name,
			Type:    field.Type.Name(),
			Default: field.Default,
		})
	}
	return NodeInfo{
		Name:                shortName,
		Module:              def.Name,
		Kind:                def.Kind(),
		NumInputs:           def.Inputs,
		NumOutputs:          def.Outputs,
		Effects:             def.Effects.Literal(),
		Requirements:        def.Requires.Literal(),
		Parameters:          params,
		RequiredParameters:  def.Params.RequiredNames(),
		ImportantParameters: def.Important,
		Summary:             def.Summary,
	}
}

// JSON serializes the manifest for the designer UI.
func (m *Manifest) JSON() ([]byte, error) {
	return json.MarshalIndent(m, "", " ")
}

// Summary renders the module tree as indented text. Modules containing other
// modules are marked with an arrow, nodes with a bullet.
func (m *Manifest) Summary() string {
	var b strings.Builder
	summarize(&b, m.Modules, 0)
	return b.String()
}

func summarize(b *strings.Builder, mod *Module, depth int) {
	indent := strings.Repeat("  ", depth)
	if len(mod.Modules) > 0 {
		fmt.Fprintf(b, "%s%s ->\n", indent, mod.Name)
	} else {
		fmt.Fprintf(b, "%s%s\n", indent, mod.Name)
	}
	for _, n := range mod.Nodes {
		fmt.Fprintf(b, "%s  - %s\n", indent, n.Name)
	}
	for _, sub := range mod.Modules {
		summarize(b, sub, depth+1)
	}
}
