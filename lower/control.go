package lower

import "github.com/strager/guestc/tree"

// (if cond then else) evaluates both branches lazily through a pair of
// zero-argument callables selected by the truthiness of cond.
func (p *Pass) lowerIf(n *tree.Node) tree.Value {
	trueFn, falseFn := p.names.Pair("if_result_true", "if_result_false")
	then := p.branch(n.Child(1))
	els := p.branch(n.Child(2))
	cond := p.lower(nodeAt(n, 0))
	return tree.Block(
		tree.Fn2(trueFn, then),
		tree.Fn2(falseFn, els),
		tree.Tern(tree.Truthy(cond), trueFn, falseFn),
	)
}

func (p *Pass) branch(v tree.Value) tree.Value {
	if v == nil {
		return tree.Nil()
	}
	return p.lower(v)
}

// lowerAnd binds the left side once so that it is evaluated once and its
// value, not a boolean, is the result when it is falsy.
func (p *Pass) lowerAnd(n *tree.Node) tree.Value {
	lhsName := p.names.Next("and_lhs")
	lhs := p.lower(nodeAt(n, 0))
	rhs := p.lower(nodeAt(n, 1))
	return tree.Block(
		tree.Declare(lhsName, lhs),
		tree.CIfElse(tree.Truthy(lhsName), rhs, lhsName),
	)
}

func (p *Pass) lowerOr(n *tree.Node) tree.Value {
	lhsName := p.names.Next("or_lhs")
	lhs := p.lower(nodeAt(n, 0))
	rhs := p.lower(nodeAt(n, 1))
	return tree.Block(
		tree.Declare(lhsName, lhs),
		tree.CIfElse(tree.Truthy(lhsName), lhsName, rhs),
	)
}

// lowerLoop handles while and until. The third child is true when the
// condition is tested before the first iteration and false for the
// begin...end while form. The loop expression always yields nil.
func (p *Pass) lowerLoop(n *tree.Node, until bool) tree.Value {
	testFirst := loopFlag(n)
	cond := p.lower(nodeAt(n, 0))
	body := p.branch(n.Child(1))

	var test tree.Value
	if until {
		test = tree.CIf(tree.Truthy(cond), tree.Break())
	} else {
		test = tree.CIf(tree.Not(tree.Truthy(cond)), tree.Break())
	}

	iteration := tree.Block(test, body)
	if !testFirst {
		iteration = tree.Block(body, test)
	}
	return tree.Block(tree.Loop(iteration), tree.Nil())
}

func loopFlag(n *tree.Node) bool {
	switch v := n.Child(2).(type) {
	case tree.Ident:
		switch v {
		case "true":
			return true
		case "false":
			return false
		}
	case *tree.Node:
		switch v.Tag() {
		case tree.TagTrue:
			return true
		case tree.TagFalse:
			return false
		}
	}
	panic(errorf(n, "%s flag must be true or false, got %s", n.Tag(), tree.Describe(n.Child(2))))
}
