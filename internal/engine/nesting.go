package engine

// Nesting tracks container nesting for decoders whose token API does not
// distinguish object keys from string values.
type Nesting struct {
	stack []nestFrame
}

type nestFrame struct {
	object       bool
	expectingKey bool
}

// Open records a '{' (object=true) or '['.
func (n *Nesting) Open(object bool) {
	n.stack = append(n.stack, nestFrame{object: object, expectingKey: object})
}

// Close records a '}' or ']' and completes the enclosing value.
func (n *Nesting) Close() {
	if k := len(n.stack); k > 0 {
		n.stack = n.stack[:k-1]
	}
	n.Value()
}

// Key reports whether a string token in the current position is an object
// key, and consumes the key slot when it is.
func (n *Nesting) Key() bool {
	if k := len(n.stack); k > 0 {
		top := &n.stack[k-1]
		if top.object && top.expectingKey {
			top.expectingKey = false
			return true
		}
	}
	return false
}

// Value completes a value in the current container.
func (n *Nesting) Value() {
	if k := len(n.stack); k > 0 {
		top := &n.stack[k-1]
		if top.object && !top.expectingKey {
			top.expectingKey = true
		}
	}
}
