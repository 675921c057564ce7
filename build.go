package flatjson

import (
	"errors"
	"reflect"
	"strings"
)

// Field declares one target field and where its value lives in the input.
type Field struct {
	Name string
	Type reflect.Type
	// Path is the explicit JSON path; empty means derive the key from Name
	// through the naming policy.
	Path      string
	Optional  bool
	Mandatory bool
	// Direct reads the enclosing value itself when the field is the only
	// child of its branch.
	Direct bool
}

// Build compiles declarations into a path tree. Declarations are processed in
// order; the first invalid one aborts the build.
func Build(fields []Field, opt BuildOpt) (*Tree, error) {
	types := opt.Types
	if types == nil {
		types = DefaultTypeTable()
	}
	delim := string(opt.delimiter())
	tree := &Tree{Target: opt.Target, Root: newBranch(), Fields: make([]*Leaf, 0, len(fields))}

	for i, f := range fields {
		fail := func(code, path string, err error) error {
			return &BuildError{Target: opt.Target, Field: f.Name, Index: i, Path: path, Code: code, Err: err}
		}

		class, err := types.Classify(f.Type)
		if err != nil {
			code := CodeUnsupportedType
			if errors.Is(err, ErrUnconstrainedType) {
				code = CodeUnconstrained
			}
			return nil, fail(code, f.Path, err)
		}

		path := f.Path
		if path != "" {
			for _, s := range opt.Substitutions {
				path = strings.ReplaceAll(path, "{"+s.Original+"}", s.Replacement)
			}
		} else {
			path = ApplyNaming(opt.Naming, f.Name)
		}

		required, err := isRequired(f, class, opt.Validation)
		if err != nil {
			code := CodeConflictMarkers
			if errors.Is(err, ErrPrimitiveMarker) {
				code = CodePrimitiveMarker
			}
			return nil, fail(code, path, err)
		}

		if strings.HasSuffix(path, delim) {
			path += f.Name
		}
		leaf := &Leaf{
			Index:    i,
			Name:     f.Name,
			Type:     f.Type,
			Class:    class,
			Required: required,
			Path:     path,
			Bit:      -1,
			Direct:   f.Direct,
		}
		if code, err := attach(tree.Root, strings.Split(path, delim), leaf); err != nil {
			return nil, fail(code, path, err)
		}
		if required && class != ClassPrimitive {
			leaf.Bit = len(tree.Mandatory)
			tree.Mandatory = append(tree.Mandatory, MandatoryFieldInfo{Bit: leaf.Bit, Path: path, Field: f.Name})
		}
		tree.Fields = append(tree.Fields, leaf)
	}
	return tree, nil
}

func isRequired(f Field, class TypeClass, policy ValidationPolicy) (bool, error) {
	if f.Mandatory && f.Optional {
		return false, ErrConflictingMarkers
	}
	if class == ClassPrimitive {
		if f.Mandatory || f.Optional {
			return false, ErrPrimitiveMarker
		}
	}
	if f.Optional {
		return false, nil
	}
	switch policy {
	case ValidateAll:
		return true, nil
	case ValidateExplicitNonNull:
		return class == ClassPrimitive || f.Mandatory, nil
	}
	return false, nil
}

// attach inserts leaf under root following segs, creating branches as needed.
func attach(root *Branch, segs []string, leaf *Leaf) (string, error) {
	for _, s := range segs {
		if s == "" {
			return CodeEmptySegment, ErrEmptySegment
		}
	}
	b := root
	last := len(segs) - 1
	for _, s := range segs[:last] {
		switch n := b.children[s].(type) {
		case nil:
			child := newBranch()
			b.put(s, child)
			b = child
		case *Branch:
			b = n
		case *Leaf:
			return CodePathConflict, ErrPathConflict
		}
	}
	if _, ok := b.children[segs[last]]; ok {
		return CodeDuplicatePath, ErrDuplicatePath
	}
	b.put(segs[last], leaf)
	return "", nil
}
