// Package stream provides pull-style navigation over an engine.TokenSource:
// a single-token lookahead cursor with object helpers, value skipping and raw
// capture, plus bounded subtree views.
package stream

import (
	"bytes"
	"errors"
	"io"

	j "github.com/goccy/go-json"

	eng "github.com/reoring/flatjson/internal/engine"
)

// Cursor wraps a TokenSource with one token of lookahead.
type Cursor struct {
	src     eng.TokenSource
	peeked  eng.Token
	hasPeek bool
}

// NewCursor returns a cursor positioned before the first token of src.
func NewCursor(src eng.TokenSource) *Cursor { return &Cursor{src: src} }

// Peek returns the next token without consuming it.
func (c *Cursor) Peek() (eng.Token, error) {
	if c.hasPeek {
		return c.peeked, nil
	}
	tok, err := c.src.NextToken()
	if err != nil {
		return eng.Token{}, err
	}
	c.peeked, c.hasPeek = tok, true
	return tok, nil
}

// Next consumes and returns the next token.
func (c *Cursor) Next() (eng.Token, error) {
	if c.hasPeek {
		c.hasPeek = false
		return c.peeked, nil
	}
	return c.src.NextToken()
}

// Location reports the byte offset of the underlying source.
func (c *Cursor) Location() int64 { return c.src.Location() }

// ConsumeNull consumes the next value if it is the null literal and reports
// whether it did.
func (c *Cursor) ConsumeNull() (bool, error) {
	tok, err := c.Peek()
	if err != nil {
		return false, unexpectedEOF(err)
	}
	if tok.Kind != eng.KindNull {
		return false, nil
	}
	c.hasPeek = false
	return true, nil
}

// BeginObject consumes a '{'.
func (c *Cursor) BeginObject() error { return c.expect(eng.KindBeginObject, "BEGIN_OBJECT") }

// EndObject consumes a '}'.
func (c *Cursor) EndObject() error { return c.expect(eng.KindEndObject, "END_OBJECT") }

// HasNext reports whether the current container has another entry.
func (c *Cursor) HasNext() (bool, error) {
	tok, err := c.Peek()
	if err != nil {
		return false, unexpectedEOF(err)
	}
	return tok.Kind != eng.KindEndObject && tok.Kind != eng.KindEndArray, nil
}

// NextName consumes an object key and returns it.
func (c *Cursor) NextName() (string, error) {
	tok, err := c.Next()
	if err != nil {
		return "", unexpectedEOF(err)
	}
	if tok.Kind != eng.KindKey {
		return "", &eng.UnexpectedTokenError{Want: "NAME", Got: tok.Kind, Offset: tok.Offset}
	}
	return tok.String, nil
}

// SkipValue consumes the next value, including nested containers. When the
// cursor sits on an object key, the key and its value are consumed together.
func (c *Cursor) SkipValue() error {
	tok, err := c.Next()
	if err != nil {
		return unexpectedEOF(err)
	}
	if tok.Kind == eng.KindKey {
		if tok, err = c.Next(); err != nil {
			return unexpectedEOF(err)
		}
	}
	switch tok.Kind {
	case eng.KindBeginObject, eng.KindBeginArray:
	case eng.KindEndObject, eng.KindEndArray, eng.KindKey:
		return &eng.UnexpectedTokenError{Want: "a value", Got: tok.Kind, Offset: tok.Offset}
	default:
		return nil
	}
	for depth := 1; depth > 0; {
		t, err := c.Next()
		if err != nil {
			return unexpectedEOF(err)
		}
		switch t.Kind {
		case eng.KindBeginObject, eng.KindBeginArray:
			depth++
		case eng.KindEndObject, eng.KindEndArray:
			depth--
		}
	}
	return nil
}

// CaptureRaw consumes the next value and appends its compact JSON text to buf.
func (c *Cursor) CaptureRaw(buf *bytes.Buffer) error {
	tok, err := c.Next()
	if err != nil {
		return unexpectedEOF(err)
	}
	return c.writeValue(buf, tok)
}

func (c *Cursor) writeValue(buf *bytes.Buffer, tok eng.Token) error {
	switch tok.Kind {
	case eng.KindBeginObject:
		buf.WriteByte('{')
		for first := true; ; first = false {
			t, err := c.Next()
			if err != nil {
				return unexpectedEOF(err)
			}
			if t.Kind == eng.KindEndObject {
				buf.WriteByte('}')
				return nil
			}
			if t.Kind != eng.KindKey {
				return &eng.UnexpectedTokenError{Want: "NAME", Got: t.Kind, Offset: t.Offset}
			}
			if !first {
				buf.WriteByte(',')
			}
			if err := writeString(buf, t.String); err != nil {
				return err
			}
			buf.WriteByte(':')
			v, err := c.Next()
			if err != nil {
				return unexpectedEOF(err)
			}
			if err := c.writeValue(buf, v); err != nil {
				return err
			}
		}
	case eng.KindBeginArray:
		buf.WriteByte('[')
		for first := true; ; first = false {
			t, err := c.Next()
			if err != nil {
				return unexpectedEOF(err)
			}
			if t.Kind == eng.KindEndArray {
				buf.WriteByte(']')
				return nil
			}
			if !first {
				buf.WriteByte(',')
			}
			if err := c.writeValue(buf, t); err != nil {
				return err
			}
		}
	case eng.KindString:
		return writeString(buf, tok.String)
	case eng.KindNumber:
		buf.WriteString(tok.Number)
	case eng.KindBool:
		if tok.Bool {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case eng.KindNull:
		buf.WriteString("null")
	default:
		return &eng.UnexpectedTokenError{Want: "a value", Got: tok.Kind, Offset: tok.Offset}
	}
	return nil
}

// writeString quotes s without HTML escaping so captured text keeps <, > and &.
func writeString(buf *bytes.Buffer, s string) error {
	enc := j.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	if b := buf.Bytes(); len(b) > 0 && b[len(b)-1] == '\n' {
		buf.Truncate(len(b) - 1)
	}
	return nil
}

func (c *Cursor) expect(k eng.Kind, want string) error {
	tok, err := c.Next()
	if err != nil {
		return unexpectedEOF(err)
	}
	if tok.Kind != k {
		return &eng.UnexpectedTokenError{Want: want, Got: tok.Kind, Offset: tok.Offset}
	}
	return nil
}

// unexpectedEOF maps a clean EOF in the middle of a value to io.ErrUnexpectedEOF.
func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
