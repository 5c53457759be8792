// Package lower rewrites a guest-language tree into the primitive
// vocabulary of the runtime substrate.
//
// Lower is the only entry point. Each call owns a fresh Namer and
// ModeStack, so independent compilation units may be lowered concurrently.
package lower

import (
	"io"
	"log/slog"

	"github.com/strager/guestc/tree"
)

// Options configures one pass.
type Options struct {
	// VarPrefix is prepended to every temporary, so units emitted into
	// one output file cannot collide.
	VarPrefix string

	// MaxDepth bounds the nesting of the input tree. Zero means no limit.
	MaxDepth int

	// Logger receives debug records and warnings. Nil disables logging.
	Logger *slog.Logger
}

// Result is the outcome of a successful pass.
type Result struct {
	Tree        tree.Value
	Warnings    []Warning
	Temporaries int
}

// Pass holds the state of one lowering run.
type Pass struct {
	names    *Namer
	modes    *ModeStack
	logger   *slog.Logger
	maxDepth int
	depth    int
	warnings []Warning
}

func newPass(opts Options) *Pass {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Pass{
		names:    NewNamer(opts.VarPrefix),
		modes:    &ModeStack{},
		logger:   logger,
		maxDepth: opts.MaxDepth,
	}
}

// Lower rewrites root, one parsed compilation unit. Any malformed input
// aborts the pass with an *Error; there is no partial result.
func Lower(root *tree.Node, opts Options) (res *Result, err error) {
	if root == nil {
		return nil, errorf(nil, "no input tree")
	}
	p := newPass(opts)
	p.logger.Debug("lowering unit", slog.String("prefix", opts.VarPrefix), slog.String("root", root.Tag().String()))

	defer func() {
		if r := recover(); r != nil {
			lerr, ok := r.(*Error)
			if !ok {
				panic(r)
			}
			p.logger.Debug("lowering failed", slog.String("error", lerr.Message))
			res, err = nil, lerr
		}
	}()

	p.modes.Push(ModePlain)
	out := p.lowerNode(root)
	if p.modes.Pop() != ModePlain || p.modes.Depth() != 0 {
		panic(errorf(root, "context stack left unbalanced"))
	}
	checkOutput(out)

	p.logger.Debug("lowering complete",
		slog.Int("temporaries", p.names.Count()),
		slog.Int("warnings", len(p.warnings)))

	return &Result{Tree: out, Warnings: p.warnings, Temporaries: p.names.Count()}, nil
}

// checkOutput guarantees the emitter never sees an input-only tag.
func checkOutput(out tree.Value) {
	tree.Walk(out, func(n *tree.Node) bool {
		if !n.Tag().IsOutput() {
			panic(errorf(n, "input node %s survived lowering", n.Tag()))
		}
		return true
	})
}

// within runs fn with m on top of the context stack.
func (p *Pass) within(m Mode, fn func() tree.Value) tree.Value {
	p.modes.Push(m)
	defer p.modes.Pop()
	return fn()
}

func (p *Pass) warn(node tree.Value, msg string) {
	w := Warning{Message: msg, Node: node}
	p.warnings = append(p.warnings, w)
	p.logger.Warn(msg, slog.String("node", node.String()))
}

// lower rewrites one child, which must be a node.
func (p *Pass) lower(v tree.Value) tree.Value {
	n, ok := v.(*tree.Node)
	if !ok {
		panic(errorf(v, "expected a node, got %s", tree.Describe(v)))
	}
	return p.lowerNode(n)
}

// lowerNode is the dispatch from input tag to rewrite rule.
func (p *Pass) lowerNode(n *tree.Node) tree.Value {
	p.depth++
	defer func() { p.depth-- }()
	if p.maxDepth > 0 && p.depth > p.maxDepth {
		panic(errorf(n, "tree nested deeper than %d", p.maxDepth))
	}
	checkArity(n)

	switch n.Tag() {
	case tree.TagAlias:
		return p.lowerAlias(n)
	case tree.TagAnd:
		return p.lowerAnd(n)
	case tree.TagArray:
		return p.lowerArray(n)
	case tree.TagAttrasgn:
		return p.lowerAttrasgn(n)
	case tree.TagBegin:
		return p.lower(n.Child(0))
	case tree.TagBlock:
		return p.body(n.Children())
	case tree.TagCall:
		return p.lowerCall(n)
	case tree.TagCdecl:
		return tree.EnvSet(nameAt(n, 0), p.lower(n.Child(1)))
	case tree.TagClass:
		return p.lowerClass(n)
	case tree.TagColon2:
		return p.lowerColon2(n)
	case tree.TagConst:
		return tree.NatLookup(nameAt(n, 0))
	case tree.TagDefined:
		return p.lowerDefined(n)
	case tree.TagDefn:
		return p.lowerDefn(n)
	case tree.TagDefs:
		return p.lowerDefs(n)
	case tree.TagDstr:
		return p.lowerDstr(n)
	case tree.TagFalse:
		return tree.False()
	case tree.TagGasgn:
		return tree.GlobalSet(nameAt(n, 0), p.lower(n.Child(1)))
	case tree.TagGvar:
		return tree.GlobalGet(nameAt(n, 0))
	case tree.TagHash:
		return p.lowerHash(n)
	case tree.TagIasgn:
		return tree.IvarSet(nameAt(n, 0), p.lower(n.Child(1)))
	case tree.TagIf:
		return p.lowerIf(n)
	case tree.TagIter:
		return p.lowerIter(n)
	case tree.TagIvar:
		return tree.IvarGet(nameAt(n, 0))
	case tree.TagLambda:
		return tree.NatLambda(tree.Null())
	case tree.TagLasgn:
		return tree.EnvSet(nameAt(n, 0), p.lower(n.Child(1)))
	case tree.TagLit:
		return lowerLit(n)
	case tree.TagLvar:
		return tree.NatLookup(nameAt(n, 0))
	case tree.TagMasgn:
		return p.lowerMasgn(n)
	case tree.TagModule:
		return p.lowerModule(n)
	case tree.TagNil:
		return tree.Nil()
	case tree.TagOpAsgnAnd:
		return p.lowerAnd(n)
	case tree.TagOpAsgnOr:
		return p.lowerOr(n)
	case tree.TagOr:
		return p.lowerOr(n)
	case tree.TagRescue:
		return p.lowerRescue(n)
	case tree.TagSclass:
		return p.lowerSclass(n)
	case tree.TagSelf:
		return tree.Self
	case tree.TagStr:
		return tree.NatString(stringAt(n, 0))
	case tree.TagSuper:
		return p.lowerSuper(n)
	case tree.TagTrue:
		return tree.True()
	case tree.TagUntil:
		return p.lowerLoop(n, true)
	case tree.TagWhile:
		return p.lowerLoop(n, false)
	case tree.TagYield:
		return tree.NatRunBlock(p.packArgs(n.Children()))
	case tree.TagZsuper:
		return tree.NatSuper(tree.Args(), tree.Null())

	case tree.TagArgs, tree.TagShadow:
		panic(errorf(n, "parameter list outside of a definition or block"))
	case tree.TagBlockPass:
		panic(errorf(n, "block argument outside of a call"))
	case tree.TagEvstr:
		panic(errorf(n, "interpolated segment outside of a dstr"))
	case tree.TagResbody:
		panic(errorf(n, "rescue clause outside of a rescue"))
	case tree.TagSplat:
		panic(errorf(n, "splat outside of an array, argument list or assignment"))
	case tree.TagToAry:
		panic(errorf(n, "to_ary outside of a multiple assignment"))
	}

	if n.Tag().IsOutput() {
		panic(errorf(n, "%s is not part of the input vocabulary", n.Tag()))
	}
	panic(errorf(n, "no rewrite rule for %s", n.Tag()))
}

func (p *Pass) lowerAll(vs []tree.Value) []tree.Value {
	out := make([]tree.Value, 0, len(vs))
	for _, v := range vs {
		out = append(out, p.lower(v))
	}
	return out
}

// body lowers a statement list into one block whose value is the last
// statement, or nil when the list is empty.
func (p *Pass) body(stmts []tree.Value) *tree.Node {
	if len(stmts) == 0 {
		return tree.Block(tree.Nil())
	}
	return tree.Block(p.lowerAll(stmts)...)
}

// arity is the accepted child count of an input tag; max < 0 means
// unbounded.
type arity struct{ min, max int }

var inputArity = map[tree.Tag]arity{
	tree.TagAlias:     {2, 2},
	tree.TagAnd:       {2, 2},
	tree.TagArray:     {0, -1},
	tree.TagAttrasgn:  {2, -1},
	tree.TagBegin:     {1, 1},
	tree.TagBlock:     {0, -1},
	tree.TagBlockPass: {1, 1},
	tree.TagCall:      {2, -1},
	tree.TagCdecl:     {2, 2},
	tree.TagClass:     {2, -1},
	tree.TagColon2:    {2, 2},
	tree.TagConst:     {1, 1},
	tree.TagDefined:   {1, 1},
	tree.TagDefn:      {2, -1},
	tree.TagDefs:      {3, -1},
	tree.TagDstr:      {1, -1},
	tree.TagEvstr:     {0, 1},
	tree.TagFalse:     {0, 0},
	tree.TagGasgn:     {2, 2},
	tree.TagGvar:      {1, 1},
	tree.TagHash:      {0, -1},
	tree.TagIasgn:     {2, 2},
	tree.TagIf:        {3, 3},
	tree.TagIter:      {2, -1},
	tree.TagIvar:      {1, 1},
	tree.TagLambda:    {0, 0},
	tree.TagLasgn:     {2, 2},
	tree.TagLit:       {1, 1},
	tree.TagLvar:      {1, 1},
	tree.TagMasgn:     {1, -1},
	tree.TagModule:    {1, -1},
	tree.TagNil:       {0, 0},
	tree.TagOpAsgnAnd: {2, 2},
	tree.TagOpAsgnOr:  {2, 2},
	tree.TagOr:        {2, 2},
	tree.TagRescue:    {0, -1},
	tree.TagResbody:   {1, -1},
	tree.TagSclass:    {1, -1},
	tree.TagSelf:      {0, 0},
	tree.TagSplat:     {0, 1},
	tree.TagStr:       {1, 1},
	tree.TagSuper:     {0, -1},
	tree.TagToAry:     {1, 1},
	tree.TagTrue:      {0, 0},
	tree.TagUntil:     {3, 3},
	tree.TagWhile:     {3, 3},
	tree.TagYield:     {0, -1},
	tree.TagZsuper:    {0, 0},
}

func checkArity(n *tree.Node) {
	a, ok := inputArity[n.Tag()]
	if !ok {
		return
	}
	if n.Len() < a.min || (a.max >= 0 && n.Len() > a.max) {
		switch {
		case a.max < 0:
			panic(errorf(n, "%s takes at least %d children, got %d", n.Tag(), a.min, n.Len()))
		case a.min == a.max:
			panic(errorf(n, "%s takes %d children, got %d", n.Tag(), a.min, n.Len()))
		default:
			panic(errorf(n, "%s takes %d to %d children, got %d", n.Tag(), a.min, a.max, n.Len()))
		}
	}
}

// nameAt returns child i of n, which must be an identifier or a string.
func nameAt(n *tree.Node, i int) string {
	switch c := n.Child(i).(type) {
	case tree.Ident:
		return string(c)
	case tree.Str:
		return string(c)
	default:
		panic(errorf(n, "child %d of %s must be a name, got %s", i, n.Tag(), tree.Describe(c)))
	}
}

// stringAt returns child i of n, which must be a string.
func stringAt(n *tree.Node, i int) string {
	s, ok := n.Child(i).(tree.Str)
	if !ok {
		panic(errorf(n, "child %d of %s must be a string, got %s", i, n.Tag(), tree.Describe(n.Child(i))))
	}
	return string(s)
}

// nodeAt returns child i of n, which must be a node.
func nodeAt(n *tree.Node, i int) *tree.Node {
	c, ok := n.Child(i).(*tree.Node)
	if !ok {
		panic(errorf(n, "child %d of %s must be a node, got %s", i, n.Tag(), tree.Describe(n.Child(i))))
	}
	return c
}

// optNodeAt is nodeAt for children that may be absent.
func optNodeAt(n *tree.Node, i int) *tree.Node {
	if n.Child(i) == nil {
		return nil
	}
	return nodeAt(n, i)
}
