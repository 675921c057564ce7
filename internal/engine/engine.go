package engine

import (
	"errors"
	"fmt"
)

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindBeginObject:
		return "BEGIN_OBJECT"
	case KindEndObject:
		return "END_OBJECT"
	case KindBeginArray:
		return "BEGIN_ARRAY"
	case KindEndArray:
		return "END_ARRAY"
	case KindKey:
		return "NAME"
	case KindString:
		return "STRING"
	case KindNumber:
		return "NUMBER"
	case KindBool:
		return "BOOLEAN"
	case KindNull:
		return "NULL"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Token represents a streaming token with approximate input offset.
type Token struct {
	Kind   Kind
	String string // key or string value
	Number string // number lexeme as written in the input
	Bool   bool
	Offset int64 // -1 when unknown
}

// TokenSource is a minimal interface required by the engine.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64 // byte offset; -1 if unknown
}

// ErrUnexpectedToken is wrapped by UnexpectedTokenError.
var ErrUnexpectedToken = errors.New("unexpected token")

// UnexpectedTokenError reports a structurally valid token that does not fit
// the position the caller expected.
type UnexpectedTokenError struct {
	Want   string
	Got    Kind
	Offset int64
}

func (e *UnexpectedTokenError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("expected %s but was %s at offset %d", e.Want, e.Got, e.Offset)
	}
	return fmt.Sprintf("expected %s but was %s", e.Want, e.Got)
}

func (e *UnexpectedTokenError) Unwrap() error { return ErrUnexpectedToken }
