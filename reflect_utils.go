package flatjson

import (
	"fmt"
	"reflect"
	"strings"
)

// FieldsOf derives declarations from the exported fields of struct type T.
//
// The key of a field is resolved as: flatjson tag path > json tag name >
// naming policy applied to the field name; "-" in either tag drops the field.
// Options after the path in the flatjson tag are "optional", "mandatory" and
// "direct". Untagged embedded structs contribute their fields.
//
//	type Order struct {
//		ID    string  `flatjson:"order.id,mandatory"`
//		Total float64 `flatjson:"order.amount.total"`
//		Note  *string `json:"note"`
//	}
func FieldsOf[T any]() ([]Field, error) {
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("flatjson: FieldsOf needs a struct type, got %s", t)
	}
	var out []Field
	if err := collectFields(t, &out, map[reflect.Type]bool{}); err != nil {
		return nil, err
	}
	return out, nil
}

func collectFields(t reflect.Type, out *[]Field, seen map[reflect.Type]bool) error {
	if seen[t] {
		return nil
	}
	seen[t] = true
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag, hasTag := sf.Tag.Lookup("flatjson")
		if sf.Anonymous && !hasTag && sf.Tag.Get("json") == "" {
			et := sf.Type
			if et.Kind() == reflect.Pointer {
				et = et.Elem()
			}
			if et.Kind() == reflect.Struct {
				if err := collectFields(et, out, seen); err != nil {
					return err
				}
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}
		f, skip, err := resolveStructField(sf, tag)
		if err != nil {
			return err
		}
		if !skip {
			*out = append(*out, f)
		}
	}
	return nil
}

// resolveStructField applies the tag rules of FieldsOf to one struct field.
func resolveStructField(sf reflect.StructField, tag string) (Field, bool, error) {
	f := Field{Name: sf.Name, Type: sf.Type}
	if tag == "-" {
		return f, true, nil
	}
	if tag != "" {
		parts := strings.Split(tag, ",")
		f.Path = strings.TrimSpace(parts[0])
		for _, p := range parts[1:] {
			switch strings.TrimSpace(p) {
			case "optional":
				f.Optional = true
			case "mandatory":
				f.Mandatory = true
			case "direct":
				f.Direct = true
			case "":
			default:
				return f, false, fmt.Errorf("flatjson: field %s: unknown tag option %q", sf.Name, p)
			}
		}
		if f.Path != "" {
			return f, false, nil
		}
	}
	if jt := sf.Tag.Get("json"); jt != "" {
		name, _, _ := strings.Cut(jt, ",")
		if name == "-" {
			return f, true, nil
		}
		f.Path = name
	}
	return f, false, nil
}

// Compile builds the tree of T from its struct tags and returns a
// direct-mutation Reader for it. opt.Target defaults to the type name.
func Compile[T any](opt BuildOpt, opts ...ReaderOption) (*Reader[T], error) {
	fields, err := FieldsOf[T]()
	if err != nil {
		return nil, err
	}
	if opt.Target == "" {
		opt.Target = reflect.TypeFor[T]().Name()
	}
	tree, err := Build(fields, opt)
	if err != nil {
		return nil, err
	}
	return NewReader(tree, DirectMutation[T](), opts...)
}

// MustCompile is like Compile but panics on error.
func MustCompile[T any](opt BuildOpt, opts ...ReaderOption) *Reader[T] {
	r, err := Compile[T](opt, opts...)
	if err != nil {
		panic(err)
	}
	return r
}
