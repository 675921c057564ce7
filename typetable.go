package flatjson

import (
	"encoding/json"
	"fmt"
	"maps"
	"reflect"
)

// TypeTable maps static field types to their TypeClass. Entries override the
// kind-based defaults, so a named type can be routed to a Delegate or marked
// as a raw capture. A table is read-only once handed to Build.
type TypeTable struct {
	classes map[reflect.Type]TypeClass
}

// NewTypeTable returns an empty table; unregistered types fall back to
// kind-based classification.
func NewTypeTable() *TypeTable {
	return &TypeTable{classes: make(map[reflect.Type]TypeClass)}
}

// DefaultTypeTable returns a fresh table with the built-in entries.
func DefaultTypeTable() *TypeTable {
	t := NewTypeTable()
	for _, rt := range []reflect.Type{
		reflect.TypeFor[bool](),
		reflect.TypeFor[int](),
		reflect.TypeFor[int32](),
		reflect.TypeFor[int64](),
		reflect.TypeFor[float64](),
	} {
		t.Register(rt, ClassPrimitive)
		t.Register(reflect.PointerTo(rt), ClassNative)
	}
	t.Register(reflect.TypeFor[string](), ClassNative)
	t.Register(reflect.TypeFor[*string](), ClassNative)
	t.Register(reflect.TypeFor[json.Number](), ClassNative)
	t.Register(reflect.TypeFor[RawJSON](), ClassFlattenRaw)
	return t
}

// Register sets the class of rt and returns the table for chaining. It
// panics when the class cannot hold values of rt.
func (t *TypeTable) Register(rt reflect.Type, c TypeClass) *TypeTable {
	switch c {
	case ClassPrimitive:
		if !isScalarKind(rt.Kind()) || rt.Kind() == reflect.String {
			panic(fmt.Sprintf("flatjson: %s cannot be a primitive", rt))
		}
	case ClassNative:
		k := rt.Kind()
		if k == reflect.Pointer {
			k = rt.Elem().Kind()
		}
		if !isScalarKind(k) {
			panic(fmt.Sprintf("flatjson: %s cannot be a native scalar", rt))
		}
	case ClassFlattenRaw:
		if rt.Kind() != reflect.String {
			panic(fmt.Sprintf("flatjson: %s cannot hold raw JSON text", rt))
		}
	}
	t.classes[rt] = c
	return t
}

// Clone returns an independent copy of the table.
func (t *TypeTable) Clone() *TypeTable {
	return &TypeTable{classes: maps.Clone(t.classes)}
}

// Classify returns the class of rt. Unconstrained types and primitive kinds
// outside the supported set are rejected.
func (t *TypeTable) Classify(rt reflect.Type) (TypeClass, error) {
	if rt == nil || (rt.Kind() == reflect.Interface && rt.NumMethod() == 0) {
		return 0, ErrUnconstrainedType
	}
	if c, ok := t.classes[rt]; ok {
		return c, nil
	}
	switch rt.Kind() {
	case reflect.Bool, reflect.Int, reflect.Int32, reflect.Int64, reflect.Float64:
		return ClassPrimitive, nil
	case reflect.String:
		return ClassNative, nil
	case reflect.Pointer:
		switch rt.Elem().Kind() {
		case reflect.Bool, reflect.Int, reflect.Int32, reflect.Int64, reflect.Float64, reflect.String:
			return ClassNative, nil
		}
		return ClassDelegate, nil
	}
	if isScalarKind(rt.Kind()) {
		return 0, ErrUnsupportedPrimitive
	}
	return ClassDelegate, nil
}

func isScalarKind(k reflect.Kind) bool {
	switch k {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	}
	return false
}
