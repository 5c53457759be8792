// Package tree defines the tagged trees exchanged by the parser, the
// lowering pass and the emitter.
//
// Trees are immutable: constructors copy their children, and accessors hand
// out copies, so a rewritten tree never aliases the tree it came from.
package tree

import (
	"fmt"
	"strconv"

	"github.com/strager/guestc/sexy"
)

// Value is a child of a Node: another *Node, an Ident, a Str or an Int.
// A nil Value marks an absent child (a call without receiver, an unnamed
// parameter).
type Value interface {
	String() string
	isValue()
}

// Ident is a bare name: a guest identifier (x, @x, $x, *rest, &blk), a
// runtime register (env, self, args) or a fresh temporary.
type Ident string

// Str is a string literal.
type Str string

// Int is an integer literal.
type Int int64

func (Ident) isValue() {}
func (Str) isValue()   {}
func (Int) isValue()   {}
func (*Node) isValue() {}

func (i Ident) String() string { return string(i) }
func (s Str) String() string   { return sexy.Quote(string(s)) }
func (i Int) String() string   { return strconv.FormatInt(int64(i), 10) }

// Node is a tagged tree value.
type Node struct {
	tag      Tag
	children []Value
}

// New builds a node. It panics if tag is not part of the closed tag set,
// which can only happen through a programming error.
func New(tag Tag, children ...Value) *Node {
	if !tag.Valid() {
		panic(fmt.Sprintf("tree.New: invalid tag %d", uint8(tag)))
	}
	return &Node{tag: tag, children: append([]Value(nil), children...)}
}

func (n *Node) Tag() Tag { return n.tag }

// Len returns the number of children.
func (n *Node) Len() int { return len(n.children) }

// Child returns the i-th child, or nil if i is out of range.
func (n *Node) Child(i int) Value {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Children returns a copy of the children.
func (n *Node) Children() []Value {
	return append([]Value(nil), n.children...)
}

// Rest returns a copy of the children from index i on.
func (n *Node) Rest(i int) []Value {
	if i >= len(n.children) {
		return nil
	}
	return append([]Value(nil), n.children[i:]...)
}

// WithChild returns a copy of n whose i-th child is v.
func (n *Node) WithChild(i int, v Value) *Node {
	out := New(n.tag, n.children...)
	out.children[i] = v
	return out
}

// Is reports whether v is a node tagged t.
func Is(v Value, t Tag) bool {
	n, ok := v.(*Node)
	return ok && n.tag == t
}

func (n *Node) String() string {
	return ToSexy(n).String()
}

// Walk calls fn for n and each node below it, parents first. Returning
// false from fn skips the node's children.
func Walk(v Value, fn func(*Node) bool) {
	n, ok := v.(*Node)
	if !ok || n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		Walk(c, fn)
	}
}

// Equal reports whether a and b are structurally identical.
func Equal(a, b Value) bool {
	an, aok := a.(*Node)
	bn, bok := b.(*Node)
	if aok != bok {
		return false
	}
	if !aok {
		return a == b
	}
	if an.tag != bn.tag || len(an.children) != len(bn.children) {
		return false
	}
	for i := range an.children {
		if !Equal(an.children[i], bn.children[i]) {
			return false
		}
	}
	return true
}
