// Package gojson provides the default token source, backed by goccy/go-json.
package gojson

import (
	"bytes"
	"io"
	"strconv"

	j "github.com/goccy/go-json"

	eng "github.com/reoring/flatjson/internal/engine"
)

// Driver is the go-json backed flatjson.JSONDriver.
type Driver struct{}

func (Driver) NewReader(r io.Reader) eng.TokenSource { return NewReader(r) }
func (Driver) NewBytes(b []byte) eng.TokenSource     { return NewBytes(b) }
func (Driver) Name() string                          { return "go-json" }

type source struct {
	dec  *j.Decoder
	nest eng.Nesting
}

// NewReader wraps an io.Reader into an engine.TokenSource for JSON using go-json.
func NewReader(r io.Reader) eng.TokenSource {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	return &source{dec: dec}
}

// NewBytes wraps a byte slice into an engine.TokenSource for JSON using go-json.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *source) NextToken() (eng.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		return eng.Token{}, err
	}
	off := s.dec.InputOffset()
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			s.nest.Open(true)
			return eng.Token{Kind: eng.KindBeginObject, Offset: off}, nil
		case '}':
			s.nest.Close()
			return eng.Token{Kind: eng.KindEndObject, Offset: off}, nil
		case '[':
			s.nest.Open(false)
			return eng.Token{Kind: eng.KindBeginArray, Offset: off}, nil
		case ']':
			s.nest.Close()
			return eng.Token{Kind: eng.KindEndArray, Offset: off}, nil
		}
	case string:
		if s.nest.Key() {
			return eng.Token{Kind: eng.KindKey, String: v, Offset: off}, nil
		}
		s.nest.Value()
		return eng.Token{Kind: eng.KindString, String: v, Offset: off}, nil
	case bool:
		s.nest.Value()
		return eng.Token{Kind: eng.KindBool, Bool: v, Offset: off}, nil
	case j.Number:
		s.nest.Value()
		return eng.Token{Kind: eng.KindNumber, Number: string(v), Offset: off}, nil
	case float64:
		s.nest.Value()
		return eng.Token{Kind: eng.KindNumber, Number: strconv.FormatFloat(v, 'g', -1, 64), Offset: off}, nil
	}
	s.nest.Value()
	return eng.Token{Kind: eng.KindNull, Offset: off}, nil
}

func (s *source) Location() int64 { return s.dec.InputOffset() }
