package lower

import "github.com/strager/guestc/tree"

// element is one already-lowered array element.
type element struct {
	value tree.Value
	splat bool
}

// buildArray collects already-lowered elements into a fresh array. The
// temporary is minted after the elements.
func (p *Pass) buildArray(elems []element) *tree.Node {
	arr := p.names.Next("arr")
	return p.fillArray(arr, elems)
}

func (p *Pass) fillArray(arr tree.Ident, elems []element) *tree.Node {
	stmts := make([]tree.Value, 0, len(elems)+2)
	stmts = append(stmts, tree.Declare(arr, tree.NatArray()))
	for _, e := range elems {
		if e.splat {
			stmts = append(stmts, tree.NatArrayPushSplat(arr, e.value))
		} else {
			stmts = append(stmts, tree.NatArrayPush(arr, e.value))
		}
	}
	stmts = append(stmts, arr)
	return tree.Block(stmts...)
}

// lowerElements lowers the items of an array literal or argument list in
// source order. A (splat x) item contributes x flattened.
func (p *Pass) lowerElements(items []tree.Value) []element {
	elems := make([]element, 0, len(items))
	for _, item := range items {
		if s, ok := item.(*tree.Node); ok && s.Tag() == tree.TagSplat {
			if s.Len() != 1 {
				panic(errorf(s, "splat in a value position needs an operand"))
			}
			elems = append(elems, element{value: p.lower(s.Child(0)), splat: true})
			continue
		}
		elems = append(elems, element{value: p.lower(item)})
	}
	return elems
}

// arrayLiteral lowers items into a fresh array. The temporary is minted
// before the items are lowered.
func (p *Pass) arrayLiteral(items []tree.Value) *tree.Node {
	arr := p.names.Next("arr")
	return p.fillArray(arr, p.lowerElements(items))
}

func (p *Pass) lowerArray(n *tree.Node) tree.Value {
	return p.arrayLiteral(n.Children())
}

func (p *Pass) lowerHash(n *tree.Node) tree.Value {
	if n.Len()%2 != 0 {
		panic(errorf(n, "hash needs key/value pairs, got %d children", n.Len()))
	}
	hash := p.names.Next("hash")
	stmts := []tree.Value{tree.Declare(hash, tree.NatHash())}
	for i := 0; i < n.Len(); i += 2 {
		k := p.lower(n.Child(i))
		v := p.lower(n.Child(i + 1))
		stmts = append(stmts, tree.NatHashPut(hash, k, v))
	}
	stmts = append(stmts, hash)
	return tree.Block(stmts...)
}

// lowerDstr seeds a string with the leading literal and appends each
// segment in order. Embedded expressions are converted with to_s.
func (p *Pass) lowerDstr(n *tree.Node) tree.Value {
	str := p.names.Next("string")
	stmts := []tree.Value{tree.Declare(str, tree.NatString(stringAt(n, 0)))}
	for _, seg := range n.Rest(1) {
		s, ok := seg.(*tree.Node)
		if !ok {
			panic(errorf(n, "dstr segment must be str or evstr, got %s", tree.Describe(seg)))
		}
		switch s.Tag() {
		case tree.TagStr:
			checkArity(s)
			stmts = append(stmts, tree.NatStringAppend(str, stringAt(s, 0)))
		case tree.TagEvstr:
			checkArity(s)
			if s.Len() == 0 {
				continue
			}
			toS := tree.New(tree.TagCall, s.Child(0), tree.Ident("to_s"))
			stmts = append(stmts, tree.NatStringAppendNatString(str, p.lower(toS)))
		default:
			panic(errorf(s, "dstr segment must be str or evstr, got %s", s.Tag()))
		}
	}
	stmts = append(stmts, str)
	return tree.Block(stmts...)
}

func lowerLit(n *tree.Node) tree.Value {
	switch v := n.Child(0).(type) {
	case tree.Int:
		return tree.NatInteger(int64(v))
	case tree.Ident:
		return tree.NatSymbol(string(v))
	case tree.Str:
		return tree.NatSymbol(string(v))
	default:
		panic(errorf(n, "lit must be an integer or a symbol, got %s", tree.Describe(v)))
	}
}
