package lower

import (
	"log/slog"

	"github.com/strager/guestc/tree"
)

// callable builds the body shared by methods and blocks: the method name
// side channel, parameter binding, block capture and the statements.
func (p *Pass) callable(prologue []tree.Value, params []tree.Value, body []tree.Value) *tree.Node {
	bind, capture := p.bindParams(params)
	stmts := append(prologue, bind)
	if capture != nil {
		stmts = append(stmts, capture)
	}
	stmts = append(stmts, p.body(body))
	return tree.Block(stmts...)
}

func (p *Pass) method(fn tree.Ident, name string, params, body []tree.Value) *tree.Node {
	p.logger.Debug("defining method", slog.String("name", name), slog.String("fn", string(fn)))
	return tree.Fn(fn, p.callable([]tree.Value{
		tree.EnvSet("__method__", tree.NatString(name)),
		tree.EnvSetMethodName(name),
	}, params, body))
}

// (defn name (args ...) body...)
func (p *Pass) lowerDefn(n *tree.Node) tree.Value {
	name := nameAt(n, 0)
	fn := p.names.Next("fn")
	def := p.method(fn, name, paramList(n, 1), n.Rest(2))
	return tree.Block(def, tree.NatDefineMethod(name, fn), tree.NatSymbol(name))
}

// (defs owner name (args ...) body...)
func (p *Pass) lowerDefs(n *tree.Node) tree.Value {
	name := nameAt(n, 1)
	fn := p.names.Next("fn")
	def := p.method(fn, name, paramList(n, 2), n.Rest(3))
	owner := p.lower(nodeAt(n, 0))
	return tree.Block(def, tree.NatDefineSingletonMethod(owner, name, fn), tree.NatSymbol(name))
}

// (iter call params body...) attaches a literal block to call. Blocks do
// not rebind __method__; inside a block it still names the enclosing
// method.
func (p *Pass) lowerIter(n *tree.Node) tree.Value {
	blockFn, blk := p.names.Pair("block_fn", "block")
	call := withBlockSlot(p.lower(nodeAt(n, 0)), blk)
	p.logger.Debug("defining block", slog.String("fn", string(blockFn)))
	fn := tree.Fn(blockFn, p.callable([]tree.Value{
		tree.EnvSetMethodName("<block>"),
	}, paramList(n, 1), n.Rest(2)))
	return tree.Block(
		fn,
		tree.DeclareBlock(blk, tree.NatBlock(blockFn)),
		call,
	)
}

// (alias (lit new) (lit old))
func (p *Pass) lowerAlias(n *tree.Node) tree.Value {
	newName := aliasName(n, 0)
	oldName := aliasName(n, 1)
	return tree.Block(tree.NatAlias(newName, oldName), tree.Nil())
}

func aliasName(n *tree.Node, i int) string {
	lit := nodeAt(n, i)
	if lit.Tag() != tree.TagLit || lit.Len() != 1 {
		panic(errorf(n, "alias names must be symbol literals"))
	}
	return nameAt(lit, 0)
}
