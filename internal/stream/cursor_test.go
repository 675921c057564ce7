package stream_test

import (
	"bytes"
	"errors"
	"io"
	"testing"

	eng "github.com/reoring/flatjson/internal/engine"
	"github.com/reoring/flatjson/internal/stream"
	"github.com/reoring/flatjson/source/gojson"
)

func cursor(s string) *stream.Cursor { return stream.NewCursor(gojson.NewBytes([]byte(s))) }

func TestCursor_ObjectWalk(t *testing.T) {
	c := cursor(`{"a":1,"b":null}`)
	if err := c.BeginObject(); err != nil {
		t.Fatalf("begin: %v", err)
	}
	more, err := c.HasNext()
	if err != nil || !more {
		t.Fatalf("expected an entry, got %v %v", more, err)
	}
	name, err := c.NextName()
	if err != nil || name != "a" {
		t.Fatalf("expected key a, got %q %v", name, err)
	}
	tok, err := c.Peek()
	if err != nil || tok.Kind != eng.KindNumber || tok.Number != "1" {
		t.Fatalf("peek: %+v %v", tok, err)
	}
	if null, err := c.ConsumeNull(); err != nil || null {
		t.Fatalf("1 is not null: %v %v", null, err)
	}
	if _, err := c.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}
	if name, _ := c.NextName(); name != "b" {
		t.Fatalf("expected key b, got %q", name)
	}
	if null, err := c.ConsumeNull(); err != nil || !null {
		t.Fatalf("expected null: %v %v", null, err)
	}
	if more, _ := c.HasNext(); more {
		t.Fatalf("expected end of object")
	}
	if err := c.EndObject(); err != nil {
		t.Fatalf("end: %v", err)
	}
}

func TestCursor_SkipValueSkipsKeyAndValue(t *testing.T) {
	c := cursor(`{"x":{"y":[1,[2],{"z":3}]},"k":true}`)
	if err := c.BeginObject(); err != nil {
		t.Fatal(err)
	}
	if err := c.SkipValue(); err != nil {
		t.Fatalf("skip: %v", err)
	}
	if name, err := c.NextName(); err != nil || name != "k" {
		t.Fatalf("expected key k after skip, got %q %v", name, err)
	}
}

func TestCursor_SkipValueRejectsEnd(t *testing.T) {
	c := cursor(`{}`)
	_ = c.BeginObject()
	err := c.SkipValue()
	if !errors.Is(err, eng.ErrUnexpectedToken) {
		t.Fatalf("expected unexpected token, got %v", err)
	}
}

func TestCursor_CaptureRawCompacts(t *testing.T) {
	c := cursor(` { "a" : [ 1 , 2.0e1 , "q\"<>&" ] , "b" : { } , "c" : [ ] , "d" : false } `)
	var buf bytes.Buffer
	if err := c.CaptureRaw(&buf); err != nil {
		t.Fatalf("capture: %v", err)
	}
	want := `{"a":[1,2.0e1,"q\"<>&"],"b":{},"c":[],"d":false}`
	if buf.String() != want {
		t.Fatalf("want %s, got %s", want, buf.String())
	}
}

func TestCursor_TruncatedInputIsUnexpectedEOF(t *testing.T) {
	c := cursor(`{"a":[1,2`)
	_ = c.BeginObject()
	if _, err := c.NextName(); err != nil {
		t.Fatal(err)
	}
	err := c.SkipValue()
	if err == nil {
		t.Fatalf("expected an error for truncated input")
	}
	if errors.Is(err, io.EOF) {
		t.Fatalf("a clean EOF must not leak from a truncated value: %v", err)
	}
}

func TestSubtree_BoundsOneValue(t *testing.T) {
	c := cursor(`[{"a":[1]},"next"]`)
	if _, err := c.Next(); err != nil {
		t.Fatal(err)
	}
	sub := c.Subtree()
	var kinds []eng.Kind
	for {
		tok, err := sub.NextToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("subtree: %v", err)
		}
		kinds = append(kinds, tok.Kind)
	}
	want := []eng.Kind{eng.KindBeginObject, eng.KindKey, eng.KindBeginArray, eng.KindNumber, eng.KindEndArray, eng.KindEndObject}
	if len(kinds) != len(want) {
		t.Fatalf("want %v, got %v", want, kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("want %v, got %v", want, kinds)
		}
	}
	tok, err := c.Next()
	if err != nil || tok.String != "next" {
		t.Fatalf("parent cursor misaligned: %+v %v", tok, err)
	}
}

func TestSubtree_DrainAfterPartialRead(t *testing.T) {
	c := cursor(`[[1,[2,3]],4]`)
	_, _ = c.Next()
	sub := c.Subtree()
	if _, err := sub.NextToken(); err != nil {
		t.Fatal(err)
	}
	if err := sub.Drain(); err != nil {
		t.Fatalf("drain: %v", err)
	}
	tok, err := c.Next()
	if err != nil || tok.Number != "4" {
		t.Fatalf("expected 4 after drain, got %+v %v", tok, err)
	}
	if err := c.Subtree().Drain(); !errors.Is(err, eng.ErrUnexpectedToken) {
		t.Fatalf("a subtree cannot start at ']': %v", err)
	}
}
