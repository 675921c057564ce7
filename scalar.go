package flatjson

import (
	"bytes"
	"fmt"
	"math"
	"reflect"
	"strconv"

	eng "github.com/reoring/flatjson/internal/engine"
	"github.com/reoring/flatjson/internal/stream"
)

// typeMismatch reports a token that cannot be converted into the field type.
type typeMismatch struct {
	want reflect.Type
	got  eng.Kind
	text string
}

func (e *typeMismatch) Error() string {
	if e.text != "" {
		return fmt.Sprintf("expected %s but was %s %q", e.want, e.got, e.text)
	}
	return fmt.Sprintf("expected %s but was %s", e.want, e.got)
}

// readScalar reads a primitive or native value of type t. null is true when
// the value was the null literal; primitives never report null, a null token
// is a mismatch for them.
func readScalar(cur *stream.Cursor, t reflect.Type, class TypeClass) (reflect.Value, bool, error) {
	tok, err := cur.Next()
	if err != nil {
		return reflect.Value{}, false, err
	}
	if tok.Kind == eng.KindNull && class != ClassPrimitive {
		return reflect.Value{}, true, nil
	}
	if t.Kind() == reflect.Pointer {
		p := reflect.New(t.Elem())
		if err := decodeScalar(tok, p.Elem()); err != nil {
			return reflect.Value{}, false, err
		}
		return p, false, nil
	}
	v := reflect.New(t).Elem()
	if err := decodeScalar(tok, v); err != nil {
		return reflect.Value{}, false, err
	}
	return v, false, nil
}

// decodeScalar converts tok into dst. Numeric fields accept numeric strings
// and string fields accept number lexemes.
func decodeScalar(tok eng.Token, dst reflect.Value) error {
	mismatch := func() error {
		return &typeMismatch{want: dst.Type(), got: tok.Kind, text: scalarText(tok)}
	}
	switch dst.Kind() {
	case reflect.Bool:
		if tok.Kind != eng.KindBool {
			return mismatch()
		}
		dst.SetBool(tok.Bool)
	case reflect.String:
		switch tok.Kind {
		case eng.KindString:
			dst.SetString(tok.String)
		case eng.KindNumber:
			dst.SetString(tok.Number)
		default:
			return mismatch()
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		lex, ok := numericText(tok)
		if !ok {
			return mismatch()
		}
		n, err := parseInt(lex, dst.Type().Bits())
		if err != nil {
			return mismatch()
		}
		dst.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		lex, ok := numericText(tok)
		if !ok {
			return mismatch()
		}
		n, err := strconv.ParseUint(lex, 10, dst.Type().Bits())
		if err != nil {
			return mismatch()
		}
		dst.SetUint(n)
	case reflect.Float32, reflect.Float64:
		lex, ok := numericText(tok)
		if !ok {
			return mismatch()
		}
		f, err := strconv.ParseFloat(lex, dst.Type().Bits())
		if err != nil {
			return mismatch()
		}
		dst.SetFloat(f)
	default:
		return mismatch()
	}
	return nil
}

func numericText(tok eng.Token) (string, bool) {
	switch tok.Kind {
	case eng.KindNumber:
		return tok.Number, true
	case eng.KindString:
		return tok.String, true
	}
	return "", false
}

// parseInt accepts integral lexemes written in exponent or decimal form, such
// as 1e3 or 2.0, as long as the value is exact.
func parseInt(lex string, bits int) (int64, error) {
	if n, err := strconv.ParseInt(lex, 10, bits); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(lex, 64)
	if err != nil {
		return 0, err
	}
	limit := math.Ldexp(1, bits-1)
	if f != math.Trunc(f) || f < -limit || f >= limit {
		return 0, strconv.ErrRange
	}
	return int64(f), nil
}

func scalarText(tok eng.Token) string {
	switch tok.Kind {
	case eng.KindString:
		return tok.String
	case eng.KindNumber:
		return tok.Number
	}
	return ""
}

// readRaw captures the compact JSON text of the next value into a value of
// the string-kinded type t.
func readRaw(cur *stream.Cursor, t reflect.Type) (reflect.Value, bool, error) {
	null, err := cur.ConsumeNull()
	if err != nil || null {
		return reflect.Value{}, null, err
	}
	var buf bytes.Buffer
	if err := cur.CaptureRaw(&buf); err != nil {
		return reflect.Value{}, false, err
	}
	v := reflect.New(t).Elem()
	v.SetString(buf.String())
	return v, false, nil
}
