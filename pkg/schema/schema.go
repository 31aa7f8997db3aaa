package schema

import (
	"sort"

	"github.com/mitchellh/mapstructure"
)

// Field describes a single configuration parameter: its type and an optional
// default. A field with a nil default must be supplied by the user.
type Field struct {
	Type    Type
	Default any
}

// Required reports whether the field has no default and therefore must be
// set explicitly.
func (f Field) Required() bool { return f.Default == nil }

// Schema maps parameter names to their field descriptions.
// Example: {"path": {Type: String()}, "layer": {Type: String(), Default: "raw"}}
type Schema map[string]Field

// Names returns all parameter names in sorted order.
func (s Schema) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RequiredNames returns the names of parameters without a default, sorted.
func (s Schema) RequiredNames() []string {
	var names []string
	for name, field := range s {
		if field.Required() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Validate checks params against the schema. Required parameters must be
// present, present parameters must match their declared type, and parameters
// not declared in the schema are rejected. All failures are aggregated.
func (s Schema) Validate(params map[string]any) error {
	var errs []error

	for _, name := range s.Names() {
		field := s[name]
		value, ok := params[name]
		if !ok || value == nil {
			if field.Required() {
				errs = append(errs, &ValidationError{Key: name, Reason: "required"})
			}
			continue
		}
		if err := field.Type.Validate(value); err != nil {
			errs = append(errs, &ValidationError{Key: name, Reason: err.Error(), Value: value})
		}
	}

	unknown := make([]string, 0)
	for name := range params {
		if _, ok := s[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		errs = append(errs, &ValidationError{Key: name, Reason: "not defined in schema", Value: params[name]})
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// Apply validates params and returns a new map with defaults filled in for
// omitted optional parameters. The input map is not modified.
func (s Schema) Apply(params map[string]any) (map[string]any, error) {
	if err := s.Validate(params); err != nil {
		return nil, err
	}
	out := make(map[string]any, len(s))
	for name, field := range s {
		if value, ok := params[name]; ok && value != nil {
			out[name] = value
			continue
		}
		if field.Default != nil {
			out[name] = field.Default
		}
	}
	return out, nil
}

// Decode maps a validated parameter map onto a typed config struct. It is
// weakly typed on purpose: values arriving from YAML/JSON documents carry
// interchangeable numeric kinds.
func Decode(params map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "param",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(params)
}
