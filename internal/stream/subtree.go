package stream

import (
	"io"

	eng "github.com/reoring/flatjson/internal/engine"
)

// SubtreeSource exposes exactly one value of a Cursor as a TokenSource. It
// stops after the value's last token (the matching EndObject/EndArray, or the
// single scalar token) and returns io.EOF afterwards. A token the cursor has
// already peeked is served first.
type SubtreeSource struct {
	cur *Cursor
	// depth counts open containers inside the subtree.
	depth   int
	started bool
	done    bool
}

// Subtree returns a bounded view over the next value of c.
func (c *Cursor) Subtree() *SubtreeSource { return &SubtreeSource{cur: c} }

func (s *SubtreeSource) NextToken() (eng.Token, error) {
	if s.done {
		return eng.Token{}, io.EOF
	}
	tok, err := s.cur.Next()
	if err != nil {
		return eng.Token{}, unexpectedEOF(err)
	}
	if !s.started {
		s.started = true
		switch tok.Kind {
		case eng.KindBeginObject, eng.KindBeginArray:
			s.depth = 1
		case eng.KindEndObject, eng.KindEndArray, eng.KindKey:
			return eng.Token{}, &eng.UnexpectedTokenError{Want: "a value", Got: tok.Kind, Offset: tok.Offset}
		default:
			// single-token subtree
			s.done = true
		}
		return tok, nil
	}
	switch tok.Kind {
	case eng.KindBeginObject, eng.KindBeginArray:
		s.depth++
	case eng.KindEndObject, eng.KindEndArray:
		s.depth--
		if s.depth == 0 {
			s.done = true
		}
	}
	return tok, nil
}

func (s *SubtreeSource) Location() int64 { return s.cur.Location() }

// Drain consumes whatever remains of the subtree so the parent cursor is
// positioned after the value.
func (s *SubtreeSource) Drain() error {
	for !s.done {
		if _, err := s.NextToken(); err != nil {
			return err
		}
	}
	return nil
}
