package schema

import (
	"fmt"
	"reflect"
)

// Type defines the contract for parameter validation.
// Implementations determine how configuration values are validated.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "string", "int").
	Name() string
	// Validate checks if a value conforms to this type.
	Validate(value any) error
}

// primitiveType implements Type with a name and a check function. All scalar
// types share it.
type primitiveType struct {
	name  string
	check func(any) error
}

func (t *primitiveType) Name() string { return t.name }

func (t *primitiveType) Validate(value any) error { return t.check(value) }

// SliceType validates slices of a specific element type.
type SliceType struct {
	elemType Type
}

func (t *SliceType) Name() string {
	return fmt.Sprintf("[%s]", t.elemType.Name())
}

func (t *SliceType) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return fmt.Errorf("expected slice, got %T", value)
	}
	for i := 0; i < rv.Len(); i++ {
		if err := t.elemType.Validate(rv.Index(i).Interface()); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

// String creates a string type validator.
func String() Type {
	return &primitiveType{name: "string", check: func(value any) error {
		if _, ok := value.(string); !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		return nil
	}}
}

// Int creates an integer type validator. Whole-number floats are accepted
// because JSON decoding produces float64 for all numbers.
func Int() Type {
	return &primitiveType{name: "int", check: func(value any) error {
		switch v := value.(type) {
		case int, int8, int16, int32, int64:
			return nil
		case float64:
			if v == float64(int64(v)) {
				return nil
			}
			return fmt.Errorf("expected int, got float (not a whole number)")
		default:
			return fmt.Errorf("expected int, got %T", value)
		}
	}}
}

// Float creates a float type validator. Integers are accepted.
func Float() Type {
	return &primitiveType{name: "float", check: func(value any) error {
		switch value.(type) {
		case float32, float64, int, int8, int16, int32, int64:
			return nil
		default:
			return fmt.Errorf("expected float, got %T", value)
		}
	}}
}

// Bool creates a boolean type validator.
func Bool() Type {
	return &primitiveType{name: "bool", check: func(value any) error {
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		return nil
	}}
}

// Slice creates a slice type validator for elements of the given type.
func Slice(elemType Type) Type {
	return &SliceType{elemType: elemType}
}

// Custom creates a type validator with a user-defined function.
func Custom(name string, validate func(any) error) Type {
	return &primitiveType{name: name, check: validate}
}

// ParseType converts a string type name to a Type.
// Supports "string", "int", "float", "bool", and slice forms like "[string]".
func ParseType(typeStr string) (Type, error) {
	if len(typeStr) > 2 && typeStr[0] == '[' && typeStr[len(typeStr)-1] == ']' {
		elemType, err := ParseType(typeStr[1 : len(typeStr)-1])
		if err != nil {
			return nil, err
		}
		return Slice(elemType), nil
	}
	switch typeStr {
	case "string":
		return String(), nil
	case "int":
		return Int(), nil
	case "float":
		return Float(), nil
	case "bool":
		return Bool(), nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", typeStr)
	}
}
