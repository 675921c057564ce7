package flatjson

import (
	"fmt"

	eng "github.com/reoring/flatjson/internal/engine"
)

// ValidationPolicy decides which fields are required when a declaration
// carries no explicit marker.
type ValidationPolicy int

const (
	// ValidateExplicitNonNull requires primitives and fields marked mandatory.
	ValidateExplicitNonNull ValidationPolicy = iota
	// ValidateAll requires every field not marked optional.
	ValidateAll
	// NoValidation requires nothing.
	NoValidation
)

var validationNames = map[ValidationPolicy]string{
	ValidateExplicitNonNull: "validate_explicit_non_null",
	ValidateAll:             "validate_all",
	NoValidation:            "no_validation",
}

func (p ValidationPolicy) String() string {
	if s, ok := validationNames[p]; ok {
		return s
	}
	return fmt.Sprintf("ValidationPolicy(%d)", int(p))
}

// ParseValidationPolicy resolves a policy from its snake_case name.
func ParseValidationPolicy(s string) (ValidationPolicy, error) {
	if s == "" {
		return ValidateExplicitNonNull, nil
	}
	for p, name := range validationNames {
		if name == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown validation policy %q", s)
}

// TypeClass is the static classification of a field type.
type TypeClass int

const (
	// ClassDelegate types are read through a type-keyed Delegate.
	ClassDelegate TypeClass = iota
	// ClassPrimitive types have no null representation: bool, int, int32, int64, float64.
	ClassPrimitive
	// ClassNative types are scalars read by the core that may be null.
	ClassNative
	// ClassFlattenRaw captures the raw JSON text of the value.
	ClassFlattenRaw
)

func (c TypeClass) String() string {
	switch c {
	case ClassDelegate:
		return "delegate"
	case ClassPrimitive:
		return "primitive"
	case ClassNative:
		return "native"
	case ClassFlattenRaw:
		return "flatten-raw"
	}
	return fmt.Sprintf("TypeClass(%d)", int(c))
}

// RawJSON marks a field that receives the verbatim (compacted) JSON text of
// its value instead of a parsed value.
type RawJSON string

// Substitution replaces every "{Original}" in an explicit path with Replacement.
type Substitution struct {
	Original    string
	Replacement string
}

// DefaultDelimiter separates path segments.
const DefaultDelimiter = '.'

// BuildOpt bundles the per-target options of Build.
type BuildOpt struct {
	Target        string // target type name used in diagnostics
	Naming        NamingPolicy
	Validation    ValidationPolicy
	Substitutions []Substitution
	Delimiter     rune       // zero means DefaultDelimiter
	Types         *TypeTable // nil means DefaultTypeTable()
}

func (o BuildOpt) delimiter() rune {
	if o.Delimiter == 0 {
		return DefaultDelimiter
	}
	return o.Delimiter
}

// Severity expresses the severity level for enforcement findings.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// ReadOpt configures runtime enforcement on the token stream.
type ReadOpt struct {
	OnDuplicateKey Severity
	MaxDepth       int
	MaxBytes       int64
	// OnWarn receives duplicate-key findings when OnDuplicateKey is Warn.
	OnWarn func(path, message string)
}

func (o ReadOpt) engine() eng.EnforceOptions {
	eo := eng.EnforceOptions{MaxDepth: o.MaxDepth, MaxBytes: o.MaxBytes}
	switch o.OnDuplicateKey {
	case Error:
		eo.OnDuplicate = eng.DupError
	case Warn:
		eo.OnDuplicate = eng.DupWarn
	}
	if o.OnWarn != nil {
		warn := o.OnWarn
		eo.OnWarn = func(si eng.SimpleIssue) { warn(si.Path, si.Message) }
	}
	return eo
}
