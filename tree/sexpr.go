package tree

import (
	"fmt"
	"strconv"

	"github.com/strager/guestc/sexy"
)

// ConvertError reports a datum that does not describe a tree.
type ConvertError struct {
	Line    int
	Column  int
	Message string
}

func (e *ConvertError) Error() string {
	if e.Line == 0 {
		return e.Message
	}
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

func convertErrorf(d *sexy.Node, format string, args ...any) *ConvertError {
	return &ConvertError{Line: d.Line, Column: d.Column, Message: fmt.Sprintf(format, args...)}
}

// Parse reads a tree written as an S-expression.
func Parse(text string) (Value, error) {
	d, err := sexy.Parse(text)
	if err != nil {
		return nil, err
	}
	return FromSexy(d)
}

// ParseNode is Parse for text whose top-level datum must be a list.
func ParseNode(text string) (*Node, error) {
	v, err := Parse(text)
	if err != nil {
		return nil, err
	}
	n, ok := v.(*Node)
	if !ok {
		return nil, &ConvertError{Message: fmt.Sprintf("expected a node, got %s", Describe(v))}
	}
	return n, nil
}

// FromSexy converts a datum to a tree value. Lists become nodes whose first
// item names the tag; the symbol nil becomes an absent child.
func FromSexy(d *sexy.Node) (Value, error) {
	switch d.Type {
	case sexy.NodeSymbol:
		if d.Text == "nil" {
			return nil, nil
		}
		return Ident(d.Text), nil
	case sexy.NodeString:
		return Str(d.Text), nil
	case sexy.NodeInteger:
		i, err := strconv.ParseInt(d.Text, 10, 64)
		if err != nil {
			return nil, convertErrorf(d, "bad integer %s: %v", d.Text, err)
		}
		return Int(i), nil
	case sexy.NodeList:
		if len(d.Items) == 0 {
			return nil, convertErrorf(d, "empty list has no tag")
		}
		head := d.Items[0]
		if head.Type != sexy.NodeSymbol {
			return nil, convertErrorf(head, "node tag must be a symbol, got %s", head.Type)
		}
		tag, ok := LookupTag(head.Text)
		if !ok {
			return nil, convertErrorf(head, "unknown node tag %q", head.Text)
		}
		children := make([]Value, 0, len(d.Items)-1)
		for _, item := range d.Items[1:] {
			c, err := FromSexy(item)
			if err != nil {
				return nil, err
			}
			children = append(children, c)
		}
		return &Node{tag: tag, children: children}, nil
	default:
		return nil, convertErrorf(d, "unsupported datum %s", d.Type)
	}
}

// ToSexy converts a tree value to a datum for printing.
func ToSexy(v Value) *sexy.Node {
	switch v := v.(type) {
	case nil:
		return sexy.NewSymbol("nil")
	case Ident:
		return sexy.NewSymbol(string(v))
	case Str:
		return sexy.NewString(string(v))
	case Int:
		return sexy.NewInteger(v.String())
	case *Node:
		items := make([]*sexy.Node, 0, len(v.children)+1)
		items = append(items, sexy.NewSymbol(v.tag.String()))
		for _, c := range v.children {
			items = append(items, ToSexy(c))
		}
		return sexy.NewList(items)
	default:
		panic(fmt.Sprintf("tree.ToSexy: unexpected value %T", v))
	}
}

// Describe gives a short account of v for diagnostics.
func Describe(v Value) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case Ident:
		return "identifier " + string(v)
	case Str:
		return "string " + v.String()
	case Int:
		return "integer " + v.String()
	case *Node:
		return "(" + v.tag.String() + " ...)"
	default:
		return fmt.Sprintf("%T", v)
	}
}
