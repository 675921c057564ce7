package flatjson

import (
	"fmt"
	"reflect"
	"strings"
)

// Node is either a *Branch or a *Leaf.
type Node interface {
	isNode()
}

// Branch is an interior node: an insertion-ordered mapping from path segment
// to child node.
type Branch struct {
	keys     []string
	children map[string]Node
}

func newBranch() *Branch { return &Branch{children: make(map[string]Node)} }

func (*Branch) isNode() {}

// Len returns the number of distinct child keys.
func (b *Branch) Len() int { return len(b.keys) }

// Keys returns the child keys in insertion order.
func (b *Branch) Keys() []string { return append([]string(nil), b.keys...) }

// Child returns the node stored under key.
func (b *Branch) Child(key string) (Node, bool) {
	n, ok := b.children[key]
	return n, ok
}

func (b *Branch) put(key string, n Node) {
	b.keys = append(b.keys, key)
	b.children[key] = n
}

// Leaf binds a path to one field of the target type.
type Leaf struct {
	Index    int // declaration ordinal
	Name     string
	Type     reflect.Type
	Class    TypeClass
	Required bool
	Path     string // full resolved path, delimiters included
	Bit      int    // mandatory bit, -1 when untracked
	Direct   bool
}

func (*Leaf) isNode() {}

// MandatoryFieldInfo identifies the field behind a mandatory bit.
type MandatoryFieldInfo struct {
	Bit   int
	Path  string
	Field string
}

// Tree is the compiled path tree of one target type. It is immutable and may
// be shared by concurrent reads.
type Tree struct {
	Target    string
	Root      *Branch
	Fields    []*Leaf // indexed by Leaf.Index
	Mandatory []MandatoryFieldInfo
}

// String renders the tree one node per line, children indented below their
// parent, for diagnostics.
func (t *Tree) String() string {
	var sb strings.Builder
	if t.Target != "" {
		sb.WriteString(t.Target)
		sb.WriteByte('\n')
	}
	writeBranch(&sb, t.Root, 1)
	return sb.String()
}

func writeBranch(sb *strings.Builder, b *Branch, depth int) {
	for _, k := range b.keys {
		sb.WriteString(strings.Repeat("  ", depth))
		switch n := b.children[k].(type) {
		case *Branch:
			fmt.Fprintf(sb, "%s:\n", k)
			writeBranch(sb, n, depth+1)
		case *Leaf:
			fmt.Fprintf(sb, "%s -> %s %s (%s", k, n.Name, n.Type, n.Class)
			if n.Required {
				sb.WriteString(", required")
			}
			if n.Direct {
				sb.WriteString(", direct")
			}
			sb.WriteString(")\n")
		}
	}
}
