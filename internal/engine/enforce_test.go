package engine_test

import (
	"errors"
	"io"
	"testing"

	eng "github.com/reoring/flatjson/internal/engine"
	"github.com/reoring/flatjson/source/gojson"
)

func drain(src eng.TokenSource) error {
	for {
		if _, err := src.NextToken(); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

func issueOf(t *testing.T, err error) eng.IssueError {
	t.Helper()
	var ie eng.IssueError
	if !errors.As(err, &ie) {
		t.Fatalf("expected IssueError, got: %v", err)
	}
	return ie
}

func TestEnforce_DuplicateKey_Error(t *testing.T) {
	src := eng.WrapWithEnforcement(gojson.NewBytes([]byte(`{"a":1,"a":2}`)), eng.EnforceOptions{OnDuplicate: eng.DupError})
	ie := issueOf(t, drain(src))
	if ie.Code != "duplicate_key" {
		t.Fatalf("expected duplicate_key, got: %s", ie.Code)
	}
	if ie.Path != "/a" {
		t.Fatalf("expected path=/a, got: %s", ie.Path)
	}
}

func TestEnforce_DuplicateKey_NestedPath(t *testing.T) {
	src := eng.WrapWithEnforcement(gojson.NewBytes([]byte(`[{"b":[]},{"a":1,"a":2}]`)), eng.EnforceOptions{OnDuplicate: eng.DupError})
	ie := issueOf(t, drain(src))
	if ie.Path != "/1/a" {
		t.Fatalf("expected path=/1/a, got: %s", ie.Path)
	}
}

func TestEnforce_DuplicateKey_Warn(t *testing.T) {
	var got []eng.SimpleIssue
	opt := eng.EnforceOptions{OnDuplicate: eng.DupWarn, OnWarn: func(si eng.SimpleIssue) { got = append(got, si) }}
	src := eng.WrapWithEnforcement(gojson.NewBytes([]byte(`{"x":{"k~/":1,"k~/":2},"k~/":3}`)), opt)
	if err := drain(src); err != nil {
		t.Fatalf("warn must not fail: %v", err)
	}
	if len(got) != 1 || got[0].Path != "/x/k~0~1" {
		t.Fatalf("expected one escaped warning, got: %+v", got)
	}
}

func TestEnforce_MaxDepth_Exceeded(t *testing.T) {
	// depth = 3 for { a: { b: { c: 1 } } }
	src := eng.WrapWithEnforcement(gojson.NewBytes([]byte(`{"a":{"b":{"c":1}}}`)), eng.EnforceOptions{MaxDepth: 2})
	ie := issueOf(t, drain(src))
	if ie.Code != "parse_error" || ie.Path != "/a/b" {
		t.Fatalf("unexpected issue: %+v", ie)
	}

	src = eng.WrapWithEnforcement(gojson.NewBytes([]byte(`{"a":{"b":{"c":1}}}`)), eng.EnforceOptions{MaxDepth: 3})
	if err := drain(src); err != nil {
		t.Fatalf("depth 3 should pass: %v", err)
	}
}

func TestEnforce_MaxBytes_Truncated(t *testing.T) {
	src := eng.WrapWithEnforcement(gojson.NewBytes([]byte(`{"a":"0123456789012345678901234567890123456789"}`)), eng.EnforceOptions{MaxBytes: 8})
	ie := issueOf(t, drain(src))
	if ie.Code != "truncated" {
		t.Fatalf("expected truncated, got: %s", ie.Code)
	}
}

func TestEnforce_DisabledReturnsInner(t *testing.T) {
	inner := gojson.NewBytes([]byte(`{}`))
	if got := eng.WrapWithEnforcement(inner, eng.EnforceOptions{}); got != inner {
		t.Fatalf("expected the inner source when nothing is enforced")
	}
}
