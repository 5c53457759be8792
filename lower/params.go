package lower

import (
	"log/slog"
	"strings"

	"github.com/strager/guestc/tree"
)

// UseSimpleMode reports whether a parameter list can be bound by indexed
// extraction from the argument vector. Each parameter is classified as
// R (required), * (rest) or D (defaulted); the block parameter is
// ignored. Any other shape, a rest followed by anything, or a defaulted
// parameter directly followed by a required one needs full mode.
func UseSimpleMode(params []tree.Value) bool {
	var codes strings.Builder
	for _, prm := range params {
		switch v := prm.(type) {
		case nil:
			codes.WriteByte('*')
		case tree.Ident:
			switch {
			case strings.HasPrefix(string(v), "*"):
				codes.WriteByte('*')
			case strings.HasPrefix(string(v), "&"):
			default:
				codes.WriteByte('R')
			}
		case *tree.Node:
			if v.Tag() != tree.TagLasgn {
				return false
			}
			codes.WriteByte('D')
		default:
			return false
		}
	}
	s := codes.String()
	if i := strings.IndexByte(s, '*'); i >= 0 && i != len(s)-1 {
		return false
	}
	return !strings.Contains(s, "DR")
}

// paramList extracts the parameters of a definition or block. A literal
// 0 or an absent list means no parameters.
func paramList(n *tree.Node, i int) []tree.Value {
	switch v := n.Child(i).(type) {
	case nil:
		return nil
	case tree.Int:
		if v == 0 {
			return nil
		}
	case *tree.Node:
		if v.Tag() == tree.TagArgs {
			return v.Children()
		}
	}
	panic(errorf(n, "child %d of %s must be a parameter list, got %s", i, n.Tag(), tree.Describe(n.Child(i))))
}

// bindParams returns the statement binding params from the incoming
// argument vector and, when the list ends in &name, the statement that
// captures the incoming block as a proc. capture is nil otherwise.
func (p *Pass) bindParams(params []tree.Value) (bind, capture tree.Value) {
	if len(params) > 0 && isBlockParam(params[len(params)-1]) {
		name := strings.TrimPrefix(string(params[len(params)-1].(tree.Ident)), "&")
		capture = tree.EnvSet(name, tree.NatProc())
		params = params[:len(params)-1]
	}
	for _, prm := range params {
		if isBlockParam(prm) {
			panic(errorf(prm, "block parameter must be last"))
		}
	}

	if UseSimpleMode(params) {
		p.logger.Debug("binding parameters", slog.String("mode", ModeArgsSimple.String()), slog.Int("count", len(params)))
		bind = p.within(ModeArgsSimple, func() tree.Value { return p.simpleParams(params) })
	} else {
		p.logger.Debug("binding parameters", slog.String("mode", ModeArgsFull.String()), slog.Int("count", len(params)))
		bind = p.within(ModeArgsFull, func() tree.Value {
			return tree.NatMultiAssignArgs(p.fullParams(params))
		})
	}
	return bind, capture
}

func isBlockParam(v tree.Value) bool {
	id, ok := v.(tree.Ident)
	return ok && strings.HasPrefix(string(id), "&")
}

// simpleParams binds each parameter by its position in the list.
func (p *Pass) simpleParams(params []tree.Value) *tree.Node {
	var binds []tree.Value
	for i, prm := range params {
		switch v := prm.(type) {
		case nil:
		case tree.Ident:
			switch name := string(v); {
			case name == "*":
			case strings.HasPrefix(name, "*"):
				binds = append(binds, tree.EnvSet(name[1:], tree.BlockArg(i, tree.ArgRest, nil)))
			default:
				binds = append(binds, tree.EnvSet(name, tree.BlockArg(i, tree.ArgSingle, nil)))
			}
		case *tree.Node:
			if v.Tag() != tree.TagLasgn || v.Len() != 2 {
				panic(errorf(v, "unsupported parameter %s", v.Tag()))
			}
			def := p.defaultValue(v)
			binds = append(binds, tree.EnvSet(nameAt(v, 0), tree.BlockArg(i, tree.ArgSingle, def)))
		default:
			panic(errorf(prm, "unsupported parameter %s", tree.Describe(prm)))
		}
	}
	return tree.BlockArgs(binds...)
}

// fullParams builds the (name, default) pair array consumed by the
// runtime's general binder. Defaults are wrapped in thunks so that they
// only run when the argument is missing.
func (p *Pass) fullParams(params []tree.Value) *tree.Node {
	var elems []element
	pair := func(name, def tree.Value) {
		elems = append(elems, element{value: name}, element{value: def})
	}
	for _, prm := range params {
		switch v := prm.(type) {
		case nil:
			pair(tree.Null(), tree.Null())
		case tree.Ident:
			if isBlockParam(v) {
				panic(errorf(v, "block parameter must be last"))
			}
			pair(tree.NatSymbol(string(v)), tree.Null())
		case *tree.Node:
			switch v.Tag() {
			case tree.TagLasgn, tree.TagIasgn:
				if v.Len() != 2 {
					panic(errorf(v, "defaulted parameter needs a default value"))
				}
				fn := p.names.Next("default_fn")
				def := p.defaultValue(v)
				pair(tree.NatSymbol(nameAt(v, 0)),
					tree.Block(tree.Fn(fn, tree.Block(def)), tree.NatBlock(fn)))
			case tree.TagMasgn:
				pair(p.lower(v), tree.Null())
			case tree.TagShadow:
				p.warn(v, "block-local variables are not supported; ignoring")
			default:
				panic(errorf(v, "unsupported parameter %s", v.Tag()))
			}
		default:
			panic(errorf(prm, "unsupported parameter %s", tree.Describe(prm)))
		}
	}
	return p.buildArray(elems)
}

// defaultValue lowers the default of (lasgn x v) as an ordinary
// expression.
func (p *Pass) defaultValue(v *tree.Node) tree.Value {
	return p.within(ModePlain, func() tree.Value { return p.lower(v.Child(1)) })
}
