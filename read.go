package flatjson

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/reoring/flatjson/i18n"
	eng "github.com/reoring/flatjson/internal/engine"
	"github.com/reoring/flatjson/internal/stream"
)

// ReaderOption configures a Reader.
type ReaderOption func(*readerConfig)

type readerConfig struct {
	read      ReadOpt
	delegates *Delegates
	registry  *Registry
}

// WithReadOpt enables stream enforcement (duplicate keys, depth and size limits).
func WithReadOpt(o ReadOpt) ReaderOption { return func(c *readerConfig) { c.read = o } }

// WithDelegates sets the Delegates consulted for delegate-class fields.
func WithDelegates(d *Delegates) ReaderOption { return func(c *readerConfig) { c.delegates = d } }

// WithRegistry sets the Registry of nested record readers.
func WithRegistry(reg *Registry) ReaderOption { return func(c *readerConfig) { c.registry = reg } }

// Reader projects JSON values onto T using a compiled Tree. A Reader is
// immutable and safe for concurrent use; every read owns its own state.
type Reader[T any] struct {
	tree     *Tree
	asm      Assembly[T]
	typeName string
	index    [][]int // struct field index per leaf, direct mutation only
	zeros    []any   // initial slot values, deferred construction only
	cfg      readerConfig
}

// NewReader binds tree to T. With DirectMutation every leaf must name an
// exported field of T whose type accepts the declared type.
func NewReader[T any](tree *Tree, asm Assembly[T], opts ...ReaderOption) (*Reader[T], error) {
	if tree == nil {
		return nil, errors.New("flatjson: nil tree")
	}
	target := reflect.TypeFor[T]()
	r := &Reader[T]{tree: tree, asm: asm, typeName: tree.Target}
	if r.typeName == "" {
		r.typeName = target.String()
	}
	for _, o := range opts {
		o(&r.cfg)
	}
	if asm.deferred() {
		r.zeros = make([]any, len(tree.Fields))
		for _, leaf := range tree.Fields {
			r.zeros[leaf.Index] = reflect.Zero(leaf.Type).Interface()
		}
		return r, nil
	}
	index, err := bindFields(target, tree)
	if err != nil {
		return nil, err
	}
	r.index = index
	return r, nil
}

// Tree returns the compiled tree the reader walks.
func (r *Reader[T]) Tree() *Tree { return r.tree }

// Read consumes exactly one JSON value from src. A top-level null yields
// (nil, nil). On failure no partial instance is returned.
func (r *Reader[T]) Read(ctx context.Context, src Source) (*T, error) {
	if src == nil {
		return nil, errors.New("flatjson: nil source")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if eo := r.cfg.read.engine(); eo.Enabled() {
		src = eng.WrapWithEnforcement(src, eo)
	}
	out, _, err := r.run(ctx, stream.NewCursor(src))
	return out, err
}

// ReadBytes reads one value from b through the active JSONDriver.
func (r *Reader[T]) ReadBytes(ctx context.Context, b []byte) (*T, error) {
	return r.Read(ctx, JSONBytes(b))
}

// ReadFrom reads one value from rd through the active JSONDriver.
func (r *Reader[T]) ReadFrom(ctx context.Context, rd io.Reader) (*T, error) {
	return r.Read(ctx, JSONReader(rd))
}

func (r *Reader[T]) readRecord(ctx context.Context, cur *stream.Cursor) (reflect.Value, error) {
	out, _, err := r.run(ctx, cur)
	if err != nil {
		return reflect.Value{}, err
	}
	if out == nil {
		return reflect.Zero(reflect.PointerTo(reflect.TypeFor[T]())), nil
	}
	return reflect.ValueOf(out), nil
}

// readState is owned by a single read.
type readState struct {
	ctx   context.Context
	bits  []uint64
	obj   reflect.Value // addressable T under direct mutation
	slots []any
}

func (st *readState) mark(bit int) { st.bits[bit/64] |= 1 << (bit % 64) }

func (st *readState) marked(bit int) bool { return st.bits[bit/64]&(1<<(bit%64)) != 0 }

func (r *Reader[T]) run(ctx context.Context, cur *stream.Cursor) (*T, *readState, error) {
	null, err := cur.ConsumeNull()
	if err != nil {
		return nil, nil, wrapStreamError(err, "", r.typeName, cur.Location())
	}
	if null {
		return nil, nil, nil
	}
	st := &readState{ctx: ctx, bits: make([]uint64, (len(r.tree.Mandatory)+63)/64)}
	var out *T
	if r.asm.deferred() {
		st.slots = append([]any(nil), r.zeros...)
	} else {
		out = new(T)
		st.obj = reflect.ValueOf(out).Elem()
	}
	if err := r.readBranch(st, cur, r.tree.Root); err != nil {
		return nil, st, wrapStreamError(err, "", r.typeName, cur.Location())
	}
	for _, m := range r.tree.Mandatory {
		if !st.marked(m.Bit) {
			return nil, st, missingFieldError(m.Path, r.typeName, false, cur.Location())
		}
	}
	if out != nil {
		return out, st, nil
	}
	v, err := r.asm.construct(st.slots)
	if err != nil {
		return nil, st, fmt.Errorf("flatjson: construct %s: %w", r.typeName, err)
	}
	return &v, st, nil
}

func (r *Reader[T]) readBranch(st *readState, cur *stream.Cursor, b *Branch) error {
	if b.Len() == 0 {
		return cur.SkipValue()
	}
	if b.Len() == 1 {
		if leaf, ok := b.children[b.keys[0]].(*Leaf); ok && leaf.Direct {
			return r.readLeaf(st, cur, leaf)
		}
	}
	if err := cur.BeginObject(); err != nil {
		return err
	}
	counter := 0
	for {
		more, err := cur.HasNext()
		if err != nil {
			return err
		}
		if !more {
			break
		}
		if counter == b.Len() {
			// every declared key of this branch has been seen
			if err := cur.SkipValue(); err != nil {
				return err
			}
			continue
		}
		name, err := cur.NextName()
		if err != nil {
			return err
		}
		switch n := b.children[name].(type) {
		case *Leaf:
			counter++
			if err := r.readLeaf(st, cur, n); err != nil {
				return err
			}
		case *Branch:
			counter++
			null, err := cur.ConsumeNull()
			if err != nil {
				return err
			}
			if null {
				continue
			}
			if err := r.readBranch(st, cur, n); err != nil {
				return err
			}
		default:
			if err := cur.SkipValue(); err != nil {
				return err
			}
		}
	}
	return cur.EndObject()
}

func (r *Reader[T]) readLeaf(st *readState, cur *stream.Cursor, leaf *Leaf) error {
	var (
		v    reflect.Value
		null bool
		err  error
	)
	switch leaf.Class {
	case ClassPrimitive, ClassNative:
		v, null, err = readScalar(cur, leaf.Type, leaf.Class)
	case ClassFlattenRaw:
		v, null, err = readRaw(cur, leaf.Type)
	default:
		null, err = cur.ConsumeNull()
		if err == nil && !null {
			v, null, err = r.readDelegated(st.ctx, cur, leaf.Type)
		}
	}
	if err != nil {
		return r.fieldError(leaf, err, cur)
	}
	if null {
		if r.asm.deferred() && leaf.Required {
			return missingFieldError(leaf.Path, r.typeName, true, cur.Location())
		}
		return nil
	}
	if r.asm.deferred() {
		st.slots[leaf.Index] = v.Interface()
	} else {
		fieldByIndex(st.obj, r.index[leaf.Index]).Set(v)
	}
	if leaf.Bit >= 0 {
		st.mark(leaf.Bit)
	}
	return nil
}

func (r *Reader[T]) fieldError(leaf *Leaf, err error, cur *stream.Cursor) error {
	var (
		re *ReadError
		ie eng.IssueError
		ut *eng.UnexpectedTokenError
	)
	if errors.As(err, &re) || errors.As(err, &ie) || errors.As(err, &ut) || errors.Is(err, io.ErrUnexpectedEOF) {
		return wrapStreamError(err, leaf.Path, r.typeName, cur.Location())
	}
	// type mismatches and delegate failures
	return &ReadError{
		Code:    CodeInvalidType,
		Path:    leaf.Path,
		Type:    r.typeName,
		Message: i18n.T(CodeInvalidType, map[string]string{"path": leaf.Path, "detail": err.Error()}),
		Offset:  cur.Location(),
		Cause:   err,
	}
}

// Capture consumes one value from src and returns its compact JSON text.
// Delegates use it to keep a sub-document verbatim.
func Capture(src Source) (RawJSON, error) {
	var buf bytes.Buffer
	if err := stream.NewCursor(src).CaptureRaw(&buf); err != nil {
		return "", err
	}
	return RawJSON(buf.String()), nil
}
