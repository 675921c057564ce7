package flatjson

import (
	"errors"
	"fmt"

	"github.com/reoring/flatjson/i18n"
	eng "github.com/reoring/flatjson/internal/engine"
)

// Error codes shared by build and read errors.
const (
	CodeInvalidType       = "invalid_type"
	CodeRequired          = "required"
	CodeDuplicateKey      = "duplicate_key"
	CodeParseError        = "parse_error"
	CodeTruncated         = "truncated"
	CodeDuplicatePath     = "duplicate_path"
	CodePathConflict      = "path_conflict"
	CodeEmptySegment      = "empty_segment"
	CodeUnconstrained     = "unconstrained_type"
	CodeUnsupportedType   = "unsupported_primitive"
	CodeConflictMarkers   = "conflicting_markers"
	CodePrimitiveMarker   = "primitive_marker"
	CodeUnboundField      = "unbound_field"
	CodeFieldTypeMismatch = "field_type_mismatch"
)

// Build-time sentinels, matched with errors.Is against a *BuildError.
var (
	ErrUnconstrainedType    = errors.New("invalid field type: unconstrained")
	ErrUnsupportedPrimitive = errors.New("unsupported primitive type: only bool, int, int32, int64 and float64 can be used")
	ErrConflictingMarkers   = errors.New("field cannot be both mandatory and optional")
	ErrPrimitiveMarker      = errors.New("primitives cannot be marked mandatory or optional")
	ErrEmptySegment         = errors.New("path contains an empty segment")
	ErrDuplicatePath        = errors.New("duplicate field path: each tree branch must use a unique value")
	ErrPathConflict         = errors.New("path descends through a field")
)

// ErrMissingField is matched with errors.Is against a *ReadError reporting an
// absent or null mandatory field.
var ErrMissingField = errors.New("mandatory field missing")

// BuildError reports a declaration that prevented the tree from being built.
type BuildError struct {
	Target string
	Field  string
	Index  int
	Path   string
	Code   string
	Err    error
}

func (e *BuildError) Error() string {
	where := e.Field
	if e.Target != "" {
		where = e.Target + "." + e.Field
	}
	if e.Path != "" {
		return fmt.Sprintf("field %s (#%d) at %q: %v", where, e.Index, e.Path, e.Err)
	}
	return fmt.Sprintf("field %s (#%d): %v", where, e.Index, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// ReadError reports a failed projection read. No partial instance accompanies it.
type ReadError struct {
	Code    string
	Path    string // declared path of the field, when known
	Type    string // target type name
	Message string
	Offset  int64 // byte offset in the input (-1 when unknown)
	Cause   error
}

func (e *ReadError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	msg := i18n.T(e.Code, nil)
	if e.Path != "" {
		msg += " at '" + e.Path + "'"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ReadError) Unwrap() error { return e.Cause }

// Is lets errors.Is(err, ErrMissingField) match required-field failures.
func (e *ReadError) Is(target error) bool {
	return target == ErrMissingField && e.Code == CodeRequired
}

// AsReadError extracts a *ReadError using errors.As.
func AsReadError(err error) (*ReadError, bool) {
	var re *ReadError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

func missingFieldError(path, typ string, wasNull bool, offset int64) *ReadError {
	data := map[string]string{"path": path, "type": typ}
	msg := i18n.T("field_not_found", data)
	if wasNull {
		msg = i18n.T("field_was_null", data)
	}
	return &ReadError{Code: CodeRequired, Path: path, Type: typ, Message: msg, Offset: offset}
}

// wrapStreamError maps token-level failures into a ReadError carrying the
// declared path being read.
func wrapStreamError(err error, path, typ string, offset int64) error {
	if err == nil {
		return nil
	}
	var re *ReadError
	if errors.As(err, &re) {
		return err
	}
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return &ReadError{Code: ie.Code, Path: path, Type: typ, Message: ie.Message + " at " + ie.Path, Offset: ie.Offset, Cause: err}
	}
	return &ReadError{Code: CodeParseError, Path: path, Type: typ, Offset: offset, Cause: err}
}
