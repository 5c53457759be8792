package lower

import "github.com/strager/guestc/tree"

// lowerMasgn picks a rule from the enclosing context: a nested pattern
// inside a full-mode parameter list, a nested target inside another
// multiple assignment, or a plain statement.
func (p *Pass) lowerMasgn(n *tree.Node) tree.Value {
	switch mode := p.modes.Peek(); mode {
	case ModeArgsFull:
		return p.fullParams(n.Children())
	case ModeMultiTarget:
		if n.Len() != 1 {
			panic(errorf(n, "nested assignment target cannot carry a value"))
		}
		return p.targets(nodeAt(n, 0))
	case ModePlain:
		return p.multiAssign(n)
	default:
		panic(errorf(n, "masgn not allowed in %s context", mode))
	}
}

// multiAssign lowers a, b = values into the generic multi-assign
// primitive. Targets are lowered before values.
func (p *Pass) multiAssign(n *tree.Node) tree.Value {
	if n.Len() != 2 {
		panic(errorf(n, "multiple assignment needs targets and a value"))
	}
	targets := p.targets(nodeAt(n, 0))

	var values tree.Value
	switch v := nodeAt(n, 1); v.Tag() {
	case tree.TagArray:
		values = p.arrayLiteral(v.Children())
	case tree.TagToAry:
		checkArity(v)
		values = p.lower(v.Child(0))
	case tree.TagSplat:
		checkArity(v)
		values = p.arrayLiteral([]tree.Value{v})
	default:
		panic(errorf(v, "unsupported multiple assignment value %s", v.Tag()))
	}
	return tree.NatMultiAssign(targets, values)
}

// targets turns (array target...) into an array of (name, nil) pairs.
// Names keep their sigils so the runtime can tell locals, instance
// variables and globals apart.
func (p *Pass) targets(list *tree.Node) *tree.Node {
	if list.Tag() != tree.TagArray {
		panic(errorf(list, "assignment targets must be an array, got %s", list.Tag()))
	}
	var elems []element
	pair := func(v tree.Value) {
		elems = append(elems, element{value: v}, element{value: tree.Nil()})
	}
	for _, t := range list.Children() {
		tn, ok := t.(*tree.Node)
		if !ok {
			panic(errorf(list, "unsupported assignment target %s", tree.Describe(t)))
		}
		switch tn.Tag() {
		case tree.TagLasgn, tree.TagIasgn, tree.TagGasgn:
			if tn.Len() != 1 {
				panic(errorf(tn, "assignment target cannot carry a value"))
			}
			pair(tree.NatSymbol(nameAt(tn, 0)))
		case tree.TagSplat:
			switch {
			case tn.Len() == 0:
				pair(tree.NatSymbol("*"))
			case tree.Is(tn.Child(0), tree.TagLasgn) && tn.Child(0).(*tree.Node).Len() == 1:
				pair(tree.NatSymbol("*" + nameAt(tn.Child(0).(*tree.Node), 0)))
			default:
				panic(errorf(tn, "unsupported splat target"))
			}
		case tree.TagMasgn:
			pair(p.within(ModeMultiTarget, func() tree.Value { return p.lower(tn) }))
		default:
			panic(errorf(tn, "unsupported assignment target %s", tn.Tag()))
		}
	}
	return p.buildArray(elems)
}

func (p *Pass) lowerDefined(n *tree.Node) tree.Value {
	op := nodeAt(n, 0)
	switch op.Tag() {
	case tree.TagLvar:
		return tree.NatDefined("local-variable", nameAt(op, 0))
	case tree.TagIvar:
		return tree.NatDefined("instance-variable", nameAt(op, 0))
	case tree.TagGvar:
		return tree.NatDefined("global-variable", nameAt(op, 0))
	case tree.TagConst:
		return tree.NatDefined("constant", nameAt(op, 0))
	case tree.TagCall:
		return tree.NatDefined("method", nameAt(op, 1))
	case tree.TagSelf:
		return tree.NatDefined("self", "self")
	case tree.TagNil, tree.TagTrue, tree.TagFalse:
		return tree.NatDefined("expression", op.Tag().String())
	}
	return tree.NatDefined("expression", "expression")
}
