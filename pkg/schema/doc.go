// Package schema describes and validates node configuration parameters.
//
// A Schema maps parameter names to a Field (type plus optional default).
// Registered node definitions carry one so that pipeline documents can be
// validated before any node runs, and so the catalog manifest can expose
// each parameter's name, expected type, and default to a designer UI.
//
// Basic usage:
//
//	s := schema.Schema{
//	    "path":  {Type: schema.String()},
//	    "layer": {Type: schema.String(), Default: "raw"},
//	    "tags":  {Type: schema.Slice(schema.String()), Default: []string{}},
//	}
//
//	params, err := s.Apply(map[string]any{"path": "in.h5"})
//	// params now carries layer="raw" and tags=[] alongside path.
//
// Apply aggregates every failure (missing required parameters, type
// mismatches, unknown keys) into a single error. Decode maps the applied
// parameters onto a typed struct using `param` tags.
package schema
