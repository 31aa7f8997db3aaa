package domain

import "github.com/mohae/deepcopy"

// Payload is the opaque boxed value a node produces. Implementations are
// polymorphic over this minimal capability set rather than a concrete record
// type; the engine only ever needs to copy a result when it fans out to
// multiple consumers.
type Payload interface {
	// Clone returns an independent deep copy of the payload.
	Clone() Payload
}

// Value is the default Payload implementation: it boxes an arbitrary Go value
// and clones it structurally.
type Value struct {
	V any
}

// NewValue wraps v as a Payload.
func NewValue(v any) *Value {
	return &Value{V: v}
}

// Unwrap returns the boxed value.
func (v *Value) Unwrap() any {
	if v == nil {
		return nil
	}
	return v.V
}

// Clone deep-copies the boxed value.
func (v *Value) Clone() Payload {
	if v == nil {
		return nil
	}
	return &Value{V: deepcopy.Copy(v.V)}
}

// CopyMap deep-copies a configuration map. Used wherever a caller-supplied
// map must not alias engine-internal state.
func CopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	return deepcopy.Copy(m).(map[string]any)
}
