package flatjson

import (
	"bytes"
	"context"
	"fmt"
	"reflect"
	"sync"

	j "github.com/goccy/go-json"

	"github.com/reoring/flatjson/internal/stream"
)

// Delegate reads one value of a type the core does not handle itself. The
// Source yields exactly the tokens of that value and is never null at the
// top. Tokens left unread are drained by the caller.
type Delegate interface {
	ReadValue(ctx context.Context, src Source) (any, error)
}

// DelegateFunc adapts a function to Delegate.
type DelegateFunc func(ctx context.Context, src Source) (any, error)

func (f DelegateFunc) ReadValue(ctx context.Context, src Source) (any, error) { return f(ctx, src) }

// Delegates maps exact static types to their Delegate. Instantiated generic
// types are distinct keys. Safe for concurrent use.
type Delegates struct {
	mu sync.RWMutex
	m  map[reflect.Type]Delegate
}

// NewDelegates returns an empty table.
func NewDelegates() *Delegates { return &Delegates{m: make(map[reflect.Type]Delegate)} }

// Register binds d to t, replacing any previous entry.
func (d *Delegates) Register(t reflect.Type, del Delegate) *Delegates {
	d.mu.Lock()
	d.m[t] = del
	d.mu.Unlock()
	return d
}

// Lookup returns the Delegate registered for t.
func (d *Delegates) Lookup(t reflect.Type) (Delegate, bool) {
	if d == nil {
		return nil, false
	}
	d.mu.RLock()
	del, ok := d.m[t]
	d.mu.RUnlock()
	return del, ok
}

// RegisterDelegate binds fn to the static type T.
func RegisterDelegate[T any](d *Delegates, fn func(ctx context.Context, src Source) (T, error)) *Delegates {
	return d.Register(reflect.TypeFor[T](), DelegateFunc(func(ctx context.Context, src Source) (any, error) {
		return fn(ctx, src)
	}))
}

// readDelegated reads a delegate-class value: a registered record reader
// first, then an explicit Delegate, then go-json decoding of the captured
// value. A nil result from a reader or Delegate is reported as null.
func (r *Reader[T]) readDelegated(ctx context.Context, cur *stream.Cursor, t reflect.Type) (reflect.Value, bool, error) {
	if rr, ptr, ok := r.cfg.registry.lookup(t); ok {
		v, err := rr.readRecord(ctx, cur)
		if err != nil {
			return reflect.Value{}, false, err
		}
		if v.IsNil() {
			return reflect.Value{}, true, nil
		}
		if ptr {
			return v, false, nil
		}
		return v.Elem(), false, nil
	}
	if del, ok := r.cfg.delegates.Lookup(t); ok {
		sub := cur.Subtree()
		out, err := del.ReadValue(ctx, sub)
		if err != nil {
			return reflect.Value{}, false, err
		}
		if err := sub.Drain(); err != nil {
			return reflect.Value{}, false, err
		}
		if isNil(out) {
			return reflect.Value{}, true, nil
		}
		v := reflect.ValueOf(out)
		if !v.Type().AssignableTo(t) {
			return reflect.Value{}, false, fmt.Errorf("delegate for %s returned %s", t, v.Type())
		}
		return v, false, nil
	}
	var buf bytes.Buffer
	if err := cur.CaptureRaw(&buf); err != nil {
		return reflect.Value{}, false, err
	}
	p := reflect.New(t)
	if err := j.Unmarshal(buf.Bytes(), p.Interface()); err != nil {
		return reflect.Value{}, false, err
	}
	return p.Elem(), false, nil
}

// isNil reports an untyped nil or a nil pointer, map, slice, func, chan or
// interface held in v.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
