package lower

import "github.com/strager/guestc/tree"

// rescueParts is a (rescue body... resbody... [else]) split into its
// sections.
type rescueParts struct {
	body     []tree.Value
	clauses  []*tree.Node
	elseBody tree.Value
}

func splitRescue(n *tree.Node) rescueParts {
	var parts rescueParts
	children := n.Children()
	i := 0
	for ; i < len(children) && !tree.Is(children[i], tree.TagResbody); i++ {
		parts.body = append(parts.body, children[i])
	}
	for ; i < len(children) && tree.Is(children[i], tree.TagResbody); i++ {
		parts.clauses = append(parts.clauses, children[i].(*tree.Node))
	}
	if len(parts.clauses) == 0 {
		return parts
	}
	switch rest := children[i:]; len(rest) {
	case 0:
	case 1:
		parts.elseBody = rest[0]
	default:
		panic(errorf(n, "rescue has statements after its else clause"))
	}
	return parts
}

// lowerRescue runs the protected body through nat_rescue. Clauses are
// tested in order; an exception no clause matches is re-raised.
func (p *Pass) lowerRescue(n *tree.Node) tree.Value {
	parts := splitRescue(n)
	beginFn, rescueFn := p.names.Pair("begin_fn", "rescue_fn")

	protected := p.lowerAll(parts.body)
	if parts.elseBody != nil {
		protected = append(protected, tree.ClearJumpBuf(), p.lower(parts.elseBody))
	}
	if len(protected) == 0 {
		protected = []tree.Value{tree.Nil()}
	}

	var arms []tree.Value
	for _, c := range parts.clauses {
		test, handler := p.rescueClause(c)
		arms = append(arms, test, handler)
	}
	arms = append(arms,
		tree.Else(),
		tree.Block(tree.NatRaiseException(tree.CurrentException())),
	)

	return tree.Block(
		tree.Fn2(beginFn, tree.Block(protected...)),
		tree.Fn2(rescueFn, tree.Cond(arms...)),
		tree.NatRescue(beginFn, rescueFn),
	)
}

// rescueClause lowers (resbody (array class... [binding]) handler...).
func (p *Pass) rescueClause(c *tree.Node) (test, handler tree.Value) {
	checkArity(c)
	match := nodeAt(c, 0)
	if match.Tag() != tree.TagArray {
		panic(errorf(c, "rescue clause must start with a class list"))
	}
	classes := match.Children()
	var binding tree.Value
	if len(classes) > 0 && tree.Is(classes[len(classes)-1], tree.TagLasgn) {
		binding = classes[len(classes)-1]
		classes = classes[:len(classes)-1]
	}
	if len(classes) == 0 {
		classes = []tree.Value{tree.New(tree.TagConst, tree.Ident("StandardError"))}
	}
	test = tree.IsA(p.lowerAll(classes)...)

	var stmts []tree.Value
	if binding != nil {
		stmts = append(stmts, p.lower(binding))
	}
	for _, h := range c.Rest(1) {
		stmts = append(stmts, p.branch(h))
	}
	if len(stmts) == 0 || (binding != nil && len(stmts) == 1) {
		stmts = append(stmts, tree.Nil())
	}
	return test, tree.Block(stmts...)
}
