package capability

import (
	"fmt"
	"reflect"
	"regexp"
)

// paramPattern matches a single bracketed placeholder inside a field name.
var paramPattern = regexp.MustCompile(`\[([^\[\]]+)\]`)

// Param returns the placeholder token for a configuration parameter, suitable
// for embedding in a declared field name: Param("name") -> "[name]".
func Param(name string) string {
	return "[" + name + "]"
}

// Resolve expands every placeholder in the list's field names against the
// given configuration and returns the resolved list. The input list is not
// modified, so callers can keep the raw template and re-resolve after a
// configuration change.
//
// Each token "[p]" is replaced by ":" followed by the string form of
// config["p"]. A collection-valued parameter fans out into one field per
// element; several collection parameters in one field expand to their full
// Cartesian product. A missing or nil parameter resolves the whole field to
// nothing: the unresolved entry is dropped without error.
func Resolve(l List, config map[string]any) List {
	out := List{alts: make([]Interaction, 0, len(l.alts))}
	for _, alt := range l.alts {
		out.alts = append(out.alts, resolveInteraction(alt, config))
	}
	return out
}

func resolveInteraction(in Interaction, config map[string]any) Interaction {
	out := Interaction{}
	for _, region := range allRegions {
		for field := range in.set(region) {
			for _, resolved := range expandField(field, config) {
				out.insert(region, resolved)
			}
		}
	}
	return out
}

// expandField substitutes the first placeholder in the field and recurses per
// branch until no placeholder remains.
func expandField(field string, config map[string]any) []string {
	loc := paramPattern.FindStringSubmatchIndex(field)
	if loc == nil {
		return []string{field}
	}
	value, ok := config[field[loc[2]:loc[3]]]
	if !ok || value == nil {
		return nil
	}
	var out []string
	for _, s := range valueStrings(value) {
		next := field[:loc[0]] + ":" + s + field[loc[1]:]
		out = append(out, expandField(next, config)...)
	}
	return out
}

// valueStrings renders a configuration value for substitution. Slices and
// arrays fan out element by element; anything else is a single scalar.
func valueStrings(value any) []string {
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out = append(out, fmt.Sprint(rv.Index(i).Interface()))
		}
		return out
	}
	return []string{fmt.Sprint(value)}
}
