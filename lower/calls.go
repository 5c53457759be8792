package lower

import "github.com/strager/guestc/tree"

// blockPass is a hoisted (block_pass x) argument: the proc temporary and
// its lowered value.
type blockPass struct {
	name  tree.Ident
	value tree.Value
}

// slot returns the block slot for a call: the hoisted proc, or null.
func (bp *blockPass) slot() tree.Value {
	if bp == nil {
		return tree.Null()
	}
	return tree.BlockOf(bp.name)
}

// wrap binds the hoisted proc around call.
func (bp *blockPass) wrap(call *tree.Node) *tree.Node {
	if bp == nil {
		return call
	}
	return tree.Block(tree.Declare(bp.name, bp.value), call)
}

// hoistBlockPass splits a trailing (block_pass x) off args and lowers it.
// The proc temporary is only minted when there is one.
func (p *Pass) hoistBlockPass(args []tree.Value) ([]tree.Value, *blockPass) {
	if len(args) == 0 || !tree.Is(args[len(args)-1], tree.TagBlockPass) {
		return args, nil
	}
	bpNode := args[len(args)-1].(*tree.Node)
	checkArity(bpNode)
	name := p.names.Next("proc_to_block")
	return args[:len(args)-1], &blockPass{name: name, value: p.lower(bpNode.Child(0))}
}

// packArgs lowers a positional argument list. Any splat turns the whole
// list into one argument array.
func (p *Pass) packArgs(args []tree.Value) *tree.Node {
	for _, a := range args {
		if tree.Is(a, tree.TagSplat) {
			return tree.ArgsArray(p.arrayLiteral(args))
		}
	}
	return tree.Args(p.lowerAll(args)...)
}

func (p *Pass) lowerCall(n *tree.Node) tree.Value {
	method := nameAt(n, 1)
	args, bp := p.hoistBlockPass(n.Rest(2))

	var call *tree.Node
	if recvNode := optNodeAt(n, 0); recvNode == nil {
		call = tree.NatLookupOrSend(method, p.packArgs(args), bp.slot())
	} else {
		recv := p.lower(recvNode)
		call = tree.NatSend(recv, method, p.packArgs(args), bp.slot())
	}
	return bp.wrap(call)
}

func (p *Pass) lowerAttrasgn(n *tree.Node) tree.Value {
	recv := p.lower(nodeAt(n, 0))
	method := nameAt(n, 1)
	return tree.NatSend(recv, method, p.packArgs(n.Rest(2)), tree.Null())
}

func (p *Pass) lowerSuper(n *tree.Node) tree.Value {
	args, bp := p.hoistBlockPass(n.Children())
	return bp.wrap(tree.NatSuper(p.packArgs(args), bp.slot()))
}

// withBlockSlot fills the block slot of a lowered call with blk.
func withBlockSlot(call tree.Value, blk tree.Ident) *tree.Node {
	n, ok := call.(*tree.Node)
	if !ok {
		panic(errorf(call, "literal block attached to %s", tree.Describe(call)))
	}
	switch n.Tag() {
	case tree.TagNatSend, tree.TagNatLookupOrSend:
		return n.WithChild(3, blk)
	case tree.TagNatSuper, tree.TagNatLambda:
		return n.WithChild(1, blk)
	case tree.TagBlock:
		panic(errorf(n, "call has both a block argument and a literal block"))
	default:
		panic(errorf(n, "literal block attached to %s", n.Tag()))
	}
}
