package flatjson

import (
	"fmt"
	"reflect"
)

// Assembly decides how read values become an instance of T: either by
// setting fields on a freshly allocated T as they are read, or by collecting
// them and calling a constructor once the object is complete.
type Assembly[T any] struct {
	construct func(args []any) (T, error)
}

// DirectMutation assigns every read value to the struct field named by the
// declaration. Promoted fields of embedded structs are allowed.
func DirectMutation[T any]() Assembly[T] { return Assembly[T]{} }

// Construct collects one slot per declared field, pre-set to the zero value of
// its type, and hands them to fn in declaration order after the object has
// been read and validated.
func Construct[T any](fn func(args []any) (T, error)) Assembly[T] {
	if fn == nil {
		panic("flatjson: Construct requires a constructor")
	}
	return Assembly[T]{construct: fn}
}

func (a Assembly[T]) deferred() bool { return a.construct != nil }

// bindFields resolves the struct field of every leaf for direct mutation.
func bindFields(target reflect.Type, tree *Tree) ([][]int, error) {
	if target.Kind() != reflect.Struct {
		return nil, fmt.Errorf("flatjson: direct mutation needs a struct target, got %s", target)
	}
	out := make([][]int, len(tree.Fields))
	for _, leaf := range tree.Fields {
		sf, ok := target.FieldByName(leaf.Name)
		if !ok || !sf.IsExported() {
			return nil, &BuildError{Target: tree.Target, Field: leaf.Name, Index: leaf.Index, Path: leaf.Path,
				Code: CodeUnboundField, Err: fmt.Errorf("no exported field %s on %s", leaf.Name, target)}
		}
		if !leaf.Type.AssignableTo(sf.Type) {
			return nil, &BuildError{Target: tree.Target, Field: leaf.Name, Index: leaf.Index, Path: leaf.Path,
				Code: CodeFieldTypeMismatch, Err: fmt.Errorf("declared %s but %s.%s is %s", leaf.Type, target, leaf.Name, sf.Type)}
		}
		out[leaf.Index] = sf.Index
	}
	return out, nil
}

// fieldByIndex is reflect.Value.FieldByIndex, allocating nil embedded
// pointers on the way.
func fieldByIndex(v reflect.Value, index []int) reflect.Value {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v
}
