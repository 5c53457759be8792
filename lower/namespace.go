package lower

import (
	"log/slog"

	"github.com/strager/guestc/tree"
)

// reopen runs body against the namespace bound to name, creating it with
// create only when the enclosing environment has no binding yet.
func reopen(bodyFn, ns tree.Ident, name string, body, create tree.Value) *tree.Node {
	return tree.Block(
		tree.Fn2(bodyFn, body),
		tree.Declare(ns, tree.EnvGet(tree.Env, name)),
		tree.CIf(tree.Not(ns), tree.Block(
			tree.Set(ns, create),
			tree.EnvSet(name, ns),
		)),
		tree.NatCall(bodyFn, tree.EnvOf(ns), ns),
	)
}

// (class name superclass body...)
func (p *Pass) lowerClass(n *tree.Node) tree.Value {
	name := nameAt(n, 0)
	bodyFn, class := p.names.Pair("class_body", "class")
	p.logger.Debug("opening class", slog.String("name", name))
	body := p.body(n.Rest(2))

	superclass := optNodeAt(n, 1)
	if superclass == nil {
		superclass = tree.New(tree.TagConst, tree.Ident("Object"))
	}
	return reopen(bodyFn, class, name, body, tree.NatSubclass(p.lower(superclass), name))
}

// (module name body...)
func (p *Pass) lowerModule(n *tree.Node) tree.Value {
	name := nameAt(n, 0)
	bodyFn, mod := p.names.Pair("module_body", "module")
	p.logger.Debug("opening module", slog.String("name", name))
	body := p.body(n.Rest(1))
	return reopen(bodyFn, mod, name, body, tree.NatModule(name))
}

// (sclass obj body...) runs body with the singleton class of obj as self.
func (p *Pass) lowerSclass(n *tree.Node) tree.Value {
	bodyFn, sclass := p.names.Pair("sclass_body", "sclass")
	body := p.body(n.Rest(1))
	obj := p.lower(nodeAt(n, 0))
	return tree.Block(
		tree.Fn2(bodyFn, body),
		tree.Declare(sclass, tree.NatSingletonClass(obj)),
		tree.NatCall(bodyFn, tree.EnvOf(sclass), sclass),
	)
}

// (colon2 parent Name)
func (p *Pass) lowerColon2(n *tree.Node) tree.Value {
	parent := p.names.Next("parent")
	value := p.lower(nodeAt(n, 0))
	return tree.Block(
		tree.Declare(parent, value),
		tree.EnvGet(tree.EnvOf(parent), nameAt(n, 1)),
	)
}
