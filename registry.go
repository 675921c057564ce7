package flatjson

import (
	"context"
	"reflect"
	"sync"

	"github.com/reoring/flatjson/internal/stream"
)

// recordReader is the type-erased view of a Reader used for nested records.
type recordReader interface {
	// readRecord returns a *T, nil when the value was null.
	readRecord(ctx context.Context, cur *stream.Cursor) (reflect.Value, error)
}

// Registry holds compiled readers for record types so that fields of those
// types (or pointers to them) are projected with their own path trees.
type Registry struct {
	mu      sync.RWMutex
	readers map[reflect.Type]recordReader
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry { return &Registry{readers: make(map[reflect.Type]recordReader)} }

// Register adds r as the reader for T. A later registration for the same type
// replaces the earlier one.
func Register[T any](reg *Registry, r *Reader[T]) {
	reg.mu.Lock()
	reg.readers[reflect.TypeFor[T]()] = r
	reg.mu.Unlock()
}

// Registered reports whether t, or the type t points to, has a reader.
func (reg *Registry) Registered(t reflect.Type) bool {
	_, _, ok := reg.lookup(t)
	return ok
}

func (reg *Registry) lookup(t reflect.Type) (recordReader, bool, bool) {
	if reg == nil {
		return nil, false, false
	}
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	if rr, ok := reg.readers[t]; ok {
		return rr, false, true
	}
	if t.Kind() == reflect.Pointer {
		if rr, ok := reg.readers[t.Elem()]; ok {
			return rr, true, true
		}
	}
	return nil, false, false
}
