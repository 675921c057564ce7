// Package declfile loads path declarations from YAML files.
//
//	target: Order
//	naming: lower_case_with_underscores
//	validation: validate_explicit_non_null
//	delimiter: "."
//	substitutions:
//	  - original: root
//	    replacement: data
//	fields:
//	  - name: ID
//	    type: string
//	    path: "{root}.order.id"
//	    mandatory: true
//	  - name: Total
//	    type: float64
package declfile

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/reoring/flatjson"
)

// File is the YAML document shape.
type File struct {
	Target        string         `yaml:"target"`
	Naming        string         `yaml:"naming,omitempty"`
	Validation    string         `yaml:"validation,omitempty"`
	Delimiter     string         `yaml:"delimiter,omitempty"`
	Substitutions []Substitution `yaml:"substitutions,omitempty"`
	Fields        []FieldDecl    `yaml:"fields"`
}

// Substitution is one "{original}" replacement applied to explicit paths.
type Substitution struct {
	Original    string `yaml:"original"`
	Replacement string `yaml:"replacement"`
}

// FieldDecl declares one field. Type names are resolved through a TypeNames table.
type FieldDecl struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	Path      string `yaml:"path,omitempty"`
	Optional  bool   `yaml:"optional,omitempty"`
	Mandatory bool   `yaml:"mandatory,omitempty"`
	Direct    bool   `yaml:"direct,omitempty"`
}

// TypeNames maps the type names used in declaration files to Go types.
type TypeNames map[string]reflect.Type

// DefaultTypes returns the built-in type names. "object" and "array" are
// decoded generically; "any" is accepted here and rejected by the builder.
func DefaultTypes() TypeNames {
	return TypeNames{
		"bool":     reflect.TypeFor[bool](),
		"int":      reflect.TypeFor[int](),
		"int32":    reflect.TypeFor[int32](),
		"int64":    reflect.TypeFor[int64](),
		"float64":  reflect.TypeFor[float64](),
		"string":   reflect.TypeFor[string](),
		"*bool":    reflect.TypeFor[*bool](),
		"*int":     reflect.TypeFor[*int](),
		"*int32":   reflect.TypeFor[*int32](),
		"*int64":   reflect.TypeFor[*int64](),
		"*float64": reflect.TypeFor[*float64](),
		"*string":  reflect.TypeFor[*string](),
		"number":   reflect.TypeFor[json.Number](),
		"raw":      reflect.TypeFor[flatjson.RawJSON](),
		"object":   reflect.TypeFor[map[string]any](),
		"array":    reflect.TypeFor[[]any](),
		"any":      reflect.TypeFor[any](),
	}
}

// LoadFile loads and parses a YAML declaration file from the given path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read declaration file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses YAML data into a File.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse declaration YAML: %w", err)
	}
	applyDefaults(&f)
	return &f, nil
}

// applyDefaults fills in default values for optional settings.
func applyDefaults(f *File) {
	if f.Target == "" {
		f.Target = "Record"
	}
	if f.Delimiter == "" {
		f.Delimiter = string(flatjson.DefaultDelimiter)
	}
}

// Marshal serializes a File to YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}

// Resolve converts the file into builder input. A nil table means DefaultTypes.
func (f *File) Resolve(types TypeNames) ([]flatjson.Field, flatjson.BuildOpt, error) {
	if types == nil {
		types = DefaultTypes()
	}
	var opt flatjson.BuildOpt
	naming, err := flatjson.ParseNamingPolicy(f.Naming)
	if err != nil {
		return nil, opt, err
	}
	validation, err := flatjson.ParseValidationPolicy(f.Validation)
	if err != nil {
		return nil, opt, err
	}
	delim, size := utf8.DecodeRuneInString(f.Delimiter)
	if f.Delimiter != "" && size != len(f.Delimiter) {
		return nil, opt, fmt.Errorf("delimiter %q must be a single character", f.Delimiter)
	}
	opt = flatjson.BuildOpt{Target: f.Target, Naming: naming, Validation: validation}
	if f.Delimiter != "" {
		opt.Delimiter = delim
	}
	for _, s := range f.Substitutions {
		opt.Substitutions = append(opt.Substitutions, flatjson.Substitution{Original: s.Original, Replacement: s.Replacement})
	}
	fields := make([]flatjson.Field, 0, len(f.Fields))
	for i, d := range f.Fields {
		if d.Name == "" {
			return nil, opt, fmt.Errorf("field #%d: missing name", i)
		}
		t, ok := types[d.Type]
		if !ok {
			return nil, opt, fmt.Errorf("field %s: unknown type %q", d.Name, d.Type)
		}
		fields = append(fields, flatjson.Field{
			Name:      d.Name,
			Type:      t,
			Path:      d.Path,
			Optional:  d.Optional,
			Mandatory: d.Mandatory,
			Direct:    d.Direct,
		})
	}
	return fields, opt, nil
}

// Build resolves f and compiles its tree.
func (f *File) Build(types TypeNames) (*flatjson.Tree, error) {
	fields, opt, err := f.Resolve(types)
	if err != nil {
		return nil, err
	}
	return flatjson.Build(fields, opt)
}
