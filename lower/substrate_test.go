package lower

import (
	"fmt"
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/strager/guestc/tree"
)

// This file holds a small reference interpreter for the output vocabulary.
// It is only as faithful as the properties below need: enough to run the
// lowered form of a program and observe what it did.

type symbol string

type str struct{ s string }

type array struct{ elems []any }

type hash struct {
	keys []any
	vals []any
}

type env struct {
	vars      map[string]any
	parent    *env
	block     bool
	exception *object
}

func newEnv(parent *env, block bool) *env {
	return &env{vars: make(map[string]any), parent: parent, block: block}
}

func (e *env) lookup(name string) (any, bool) {
	for ; e != nil; e = e.parent {
		if v, ok := e.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// set updates a binding visible through enclosing blocks, or defines it in e.
func (e *env) set(name string, v any) {
	for cur := e; cur != nil; cur = cur.parent {
		if _, ok := cur.vars[name]; ok {
			cur.vars[name] = v
			return
		}
		if !cur.block {
			break
		}
	}
	e.vars[name] = v
}

type object struct {
	name      string
	class     *object
	super     *object
	isClass   bool
	methods   map[string]tree.Ident
	env       *env
	ivars     map[string]any
	singleton *object
}

type proc struct {
	fn     tree.Ident
	env    *env
	self   any
	lambda bool
}

type raised struct{ exc *object }

type breakSignal struct{}

type frame struct {
	env    *env
	self   any
	locals map[tree.Ident]any
	args   []any
	block  *proc
	method string
	owner  *object
}

type handler struct{ armed bool }

type machine struct {
	t          *testing.T
	fns        map[tree.Ident]*tree.Node
	root       *env
	globals    map[string]any
	main       *object
	object     *object
	log        []string
	subclasses int
	handlers   []*handler
}

func newMachine(t *testing.T) *machine {
	m := &machine{
		t:       t,
		fns:     make(map[tree.Ident]*tree.Node),
		root:    newEnv(nil, false),
		globals: make(map[string]any),
	}
	m.object = m.newClass("Object", nil)
	exception := m.newClass("Exception", m.object)
	standard := m.newClass("StandardError", exception)
	m.newClass("ArgumentError", standard)
	m.newClass("TypeError", standard)
	m.newClass("RuntimeError", standard)
	m.main = &object{name: "main", class: m.object, ivars: make(map[string]any)}
	return m
}

func (m *machine) newClass(name string, super *object) *object {
	c := &object{
		name:    name,
		super:   super,
		isClass: true,
		methods: make(map[string]tree.Ident),
		env:     newEnv(m.root, false),
		ivars:   make(map[string]any),
	}
	m.root.vars[name] = c
	return c
}

func (m *machine) fail(format string, args ...any) {
	m.t.Helper()
	m.t.Fatalf("substrate: "+format, args...)
}

// run lowers program and evaluates it at the top level.
func (m *machine) run(program string) any {
	m.t.Helper()
	res := mustLower(m.t, program)
	f := &frame{env: m.root, self: m.main, locals: make(map[tree.Ident]any)}
	return m.eval(f, res.Tree)
}

func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	}
	return true
}

func (m *machine) evalAll(f *frame, vs []tree.Value) []any {
	out := make([]any, 0, len(vs))
	for _, v := range vs {
		out = append(out, m.eval(f, v))
	}
	return out
}

func (m *machine) eval(f *frame, v tree.Value) any {
	switch v := v.(type) {
	case tree.Ident:
		switch v {
		case tree.Env:
			return f.env
		case tree.Self:
			return f.self
		case tree.Argv:
			return f.args
		case tree.Argc:
			return int64(len(f.args))
		case tree.BlockParam:
			return f.block
		}
		val, ok := f.locals[v]
		if !ok {
			m.fail("undeclared temporary %s", v)
		}
		return val
	case tree.Str:
		return string(v)
	case tree.Int:
		return int64(v)
	case *tree.Node:
		return m.evalNode(f, v)
	}
	m.fail("cannot evaluate %v", v)
	return nil
}

func (m *machine) envArg(f *frame, n *tree.Node, i int) *env {
	e, ok := m.eval(f, n.Child(i)).(*env)
	if !ok {
		m.fail("child %d of %s is not an environment", i, n)
	}
	return e
}

func (m *machine) evalNode(f *frame, n *tree.Node) any {
	c := n.Child
	switch n.Tag() {
	case tree.TagBlock:
		var last any
		for _, s := range n.Children() {
			last = m.eval(f, s)
		}
		return last
	case tree.TagNil, tree.TagNull:
		return nil
	case tree.TagTrue:
		return true
	case tree.TagFalse:
		return false
	case tree.TagDeclare, tree.TagSet, tree.TagDeclareBlock:
		val := m.eval(f, c(1))
		f.locals[c(0).(tree.Ident)] = val
		return val
	case tree.TagFn, tree.TagFn2:
		m.fns[c(0).(tree.Ident)] = n
		return nil
	case tree.TagNatCall:
		return m.call(c(0).(tree.Ident), m.envArg(f, n, 1), m.eval(f, c(2)), nil, nil, "", nil)
	case tree.TagEnvOf:
		switch o := m.eval(f, c(0)).(type) {
		case *object:
			return o.env
		case *proc:
			return o.env
		}
		m.fail("env_of a value without an environment")
	case tree.TagTern:
		fn := c(2)
		if truthy(m.eval(f, c(0))) {
			fn = c(1)
		}
		return m.callInner(f, fn.(tree.Ident), f.env, f.self)
	case tree.TagCIf:
		if truthy(m.eval(f, c(0))) {
			return m.eval(f, c(1))
		}
		if n.Len() == 3 {
			return m.eval(f, c(2))
		}
		return nil
	case tree.TagNot:
		return !truthy(m.eval(f, c(0)))
	case tree.TagNatTruthy:
		return truthy(m.eval(f, c(0)))
	case tree.TagLoop:
		for m.iterate(f, c(0)) {
		}
		return nil
	case tree.TagBreak:
		panic(breakSignal{})
	case tree.TagNatInteger:
		return int64(c(1).(tree.Int))
	case tree.TagNatSymbol:
		return symbol(c(1).(tree.Str))
	case tree.TagNatString:
		return &str{string(c(1).(tree.Str))}
	case tree.TagNatStringAppend:
		s := m.eval(f, c(0)).(*str)
		s.s += string(c(1).(tree.Str))
		return s
	case tree.TagNatStringAppendNatString:
		s := m.eval(f, c(0)).(*str)
		s.s += m.eval(f, c(1)).(*str).s
		return s
	case tree.TagNatArray:
		return &array{}
	case tree.TagNatArrayPush:
		a := m.eval(f, c(0)).(*array)
		a.elems = append(a.elems, m.eval(f, c(1)))
		return a
	case tree.TagNatArrayPushSplat:
		a := m.eval(f, c(1)).(*array)
		if src, ok := m.eval(f, c(2)).(*array); ok {
			a.elems = append(a.elems, src.elems...)
		} else {
			m.fail("splat of a non-array")
		}
		return a
	case tree.TagNatHash:
		return &hash{}
	case tree.TagNatHashPut:
		h := m.eval(f, c(1)).(*hash)
		h.keys = append(h.keys, m.eval(f, c(2)))
		h.vals = append(h.vals, m.eval(f, c(3)))
		return h
	case tree.TagNatLookup:
		name := string(c(1).(tree.Str))
		v, ok := m.envArg(f, n, 0).lookup(name)
		if !ok {
			m.fail("undefined name %s", name)
		}
		return v
	case tree.TagEnvGet:
		v, _ := m.envArg(f, n, 0).lookup(string(c(1).(tree.Str)))
		return v
	case tree.TagEnvSet:
		v := m.eval(f, c(2))
		m.envArg(f, n, 0).set(string(c(1).(tree.Str)), v)
		return v
	case tree.TagGlobalGet:
		return m.globals[string(c(1).(tree.Str))]
	case tree.TagGlobalSet:
		v := m.eval(f, c(2))
		m.globals[string(c(1).(tree.Str))] = v
		return v
	case tree.TagIvarGet:
		return m.eval(f, c(1)).(*object).ivars[string(c(2).(tree.Str))]
	case tree.TagIvarSet:
		v := m.eval(f, c(3))
		m.eval(f, c(1)).(*object).ivars[string(c(2).(tree.Str))] = v
		return v
	case tree.TagArgs:
		return m.evalAll(f, n.Children())
	case tree.TagArgsArray:
		return append([]any(nil), m.eval(f, c(0)).(*array).elems...)
	case tree.TagBlockOf:
		p, _ := m.eval(f, c(0)).(*proc)
		return p
	case tree.TagNatSend:
		recv := m.eval(f, c(0))
		args := m.eval(f, c(2)).([]any)
		blk, _ := m.eval(f, c(3)).(*proc)
		return m.send(recv, string(c(1).(tree.Str)), args, blk)
	case tree.TagNatLookupOrSend:
		name := string(c(1).(tree.Str))
		args := m.eval(f, c(2)).([]any)
		blk, _ := m.eval(f, c(3)).(*proc)
		if len(args) == 0 && blk == nil {
			if v, ok := f.env.lookup(name); ok {
				return v
			}
		}
		return m.send(m.eval(f, c(0)), name, args, blk)
	case tree.TagNatSubclass:
		m.subclasses++
		super := m.eval(f, c(1)).(*object)
		cls := &object{
			name:    string(c(2).(tree.Str)),
			super:   super,
			isClass: true,
			methods: make(map[string]tree.Ident),
			env:     newEnv(m.envArg(f, n, 0), false),
			ivars:   make(map[string]any),
		}
		return cls
	case tree.TagNatModule:
		return &object{
			name:    string(c(1).(tree.Str)),
			isClass: true,
			methods: make(map[string]tree.Ident),
			env:     newEnv(m.envArg(f, n, 0), false),
			ivars:   make(map[string]any),
		}
	case tree.TagNatSingletonClass:
		return m.singletonOf(m.eval(f, c(1)).(*object))
	case tree.TagNatAlias:
		cls := m.definitionTarget(m.eval(f, c(1)))
		cls.methods[string(c(2).(tree.Str))] = cls.methods[string(c(3).(tree.Str))]
		return nil
	case tree.TagNatDefined:
		kind, name := string(c(2).(tree.Str)), string(c(3).(tree.Str))
		if kind == "local-variable" {
			if _, ok := m.envArg(f, n, 0).lookup(name); !ok {
				return nil
			}
		}
		return &str{kind}
	case tree.TagNatProc:
		return m.eval(f, c(1))
	case tree.TagNatLambda:
		p := m.eval(f, c(1)).(*proc)
		p.lambda = true
		return p
	case tree.TagNatBlock:
		return &proc{fn: c(2).(tree.Ident), env: m.envArg(f, n, 0), self: m.eval(f, c(1))}
	case tree.TagBlockArgs:
		for _, b := range n.Children() {
			m.eval(f, b)
		}
		return nil
	case tree.TagBlockArg:
		i := int(c(0).(tree.Int))
		if c(1).(tree.Ident) == tree.ArgRest {
			rest := &array{}
			if i < len(f.args) {
				rest.elems = append(rest.elems, f.args[i:]...)
			}
			return rest
		}
		if i < len(f.args) {
			return f.args[i]
		}
		if n.Len() == 3 {
			return m.eval(f, c(2))
		}
		return nil
	case tree.TagNatMultiAssignArgs:
		pairs := m.eval(f, c(2)).(*array).elems
		m.bindPattern(f, pairs, f.args)
		return nil
	case tree.TagNatMultiAssign:
		pairs := m.eval(f, c(2)).(*array).elems
		var values []any
		switch v := m.eval(f, c(3)).(type) {
		case *array:
			values = v.elems
		default:
			values = []any{v}
		}
		m.bindPattern(f, pairs, values)
		return nil
	case tree.TagEnvSetMethodName:
		f.method = string(c(0).(tree.Str))
		return nil
	case tree.TagNatDefineMethod:
		cls := m.definitionTarget(m.eval(f, c(0)))
		cls.methods[string(c(1).(tree.Str))] = c(2).(tree.Ident)
		return nil
	case tree.TagNatDefineSingletonMethod:
		owner := m.eval(f, c(1)).(*object)
		m.singletonOf(owner).methods[string(c(2).(tree.Str))] = c(3).(tree.Ident)
		return nil
	case tree.TagNatRescue:
		return m.rescue(f, n)
	case tree.TagClearJumpBuf:
		m.handlers[len(m.handlers)-1].armed = false
		return nil
	case tree.TagCond:
		for i := 0; i+1 < n.Len(); i += 2 {
			if tree.Is(c(i), tree.TagElse) || truthy(m.eval(f, c(i))) {
				return m.eval(f, c(i+1))
			}
		}
		return nil
	case tree.TagIsA:
		exc := m.eval(f, c(0)).(*object)
		for _, cls := range m.evalAll(f, n.Rest(1)) {
			if isA(exc, cls.(*object)) {
				return true
			}
		}
		return false
	case tree.TagCurrentException:
		return m.envArg(f, n, 0).exception
	case tree.TagNatRaiseException:
		panic(&raised{exc: m.eval(f, c(1)).(*object)})
	case tree.TagNatSuper:
		args := m.eval(f, c(0)).([]any)
		blk, _ := m.eval(f, c(1)).(*proc)
		fn, owner := lookupMethod(f.owner.super, f.method)
		if fn == "" {
			m.fail("no superclass method %s", f.method)
		}
		return m.call(fn, newEnv(owner.env, false), f.self, args, blk, f.method, owner)
	case tree.TagNatRunBlock:
		return m.callProc(f.block, m.eval(f, c(0)).([]any))
	}
	m.fail("no semantics for %s", n.Tag())
	return nil
}

// iterate runs one loop iteration and reports whether to continue.
func (m *machine) iterate(f *frame, body tree.Value) (more bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(breakSignal); !ok {
				panic(r)
			}
			more = false
		}
	}()
	m.eval(f, body)
	return true
}

func (m *machine) rescue(f *frame, n *tree.Node) (result any) {
	e := m.envArg(f, n, 0)
	self := m.eval(f, n.Child(1))
	h := &handler{armed: true}
	m.handlers = append(m.handlers, h)
	defer func() {
		m.handlers = m.handlers[:len(m.handlers)-1]
		if r := recover(); r != nil {
			exc, ok := r.(*raised)
			if !ok || !h.armed {
				panic(r)
			}
			e.exception = exc.exc
			result = m.callInner(f, n.Child(3).(tree.Ident), e, self)
		}
	}()
	return m.callInner(f, n.Child(2).(tree.Ident), e, self)
}

// bindPattern assigns values to (name, default) pairs: leading and
// trailing names take one value each and a rest name takes what is left.
func (m *machine) bindPattern(f *frame, pairs []any, values []any) {
	type slot struct {
		name   any
		def    any
		rest   bool
		hasDef bool
	}
	var slots []slot
	required := 0
	for i := 0; i+1 < len(pairs); i += 2 {
		s := slot{name: pairs[i], def: pairs[i+1]}
		switch name := s.name.(type) {
		case nil:
			s.rest = true
		case symbol:
			s.rest = strings.HasPrefix(string(name), "*")
		}
		_, s.hasDef = s.def.(*proc)
		if !s.rest && !s.hasDef {
			required++
		}
		slots = append(slots, s)
	}

	optional := len(values) - required
	vi := 0
	for k, s := range slots {
		var v any
		switch {
		case s.rest:
			after := 0
			for _, later := range slots[k+1:] {
				if !later.rest && !later.hasDef {
					after++
				}
			}
			rest := &array{}
			for vi < len(values)-after {
				rest.elems = append(rest.elems, values[vi])
				vi++
			}
			v = rest
		case s.hasDef:
			if optional > 0 && vi < len(values) {
				v = values[vi]
				vi++
				optional--
			} else {
				v = m.callProc(s.def.(*proc), nil)
			}
		default:
			if vi < len(values) {
				v = values[vi]
			}
			vi++
		}

		switch name := s.name.(type) {
		case nil:
		case symbol:
			m.assign(f, strings.TrimPrefix(string(name), "*"), v)
		case *array:
			var inner []any
			if a, ok := v.(*array); ok {
				inner = a.elems
			} else {
				inner = []any{v}
			}
			m.bindPattern(f, name.elems, inner)
		default:
			m.fail("bad pattern name %v", name)
		}
	}
}

func (m *machine) assign(f *frame, name string, v any) {
	switch {
	case name == "":
	case strings.HasPrefix(name, "@"):
		f.self.(*object).ivars[name] = v
	case strings.HasPrefix(name, "$"):
		m.globals[name] = v
	default:
		f.env.set(name, v)
	}
}

func (m *machine) call(fn tree.Ident, e *env, self any, args []any, blk *proc, method string, owner *object) any {
	def, ok := m.fns[fn]
	if !ok {
		m.fail("call to undefined function %s", fn)
	}
	f := &frame{
		env:    e,
		self:   self,
		locals: make(map[tree.Ident]any),
		args:   args,
		block:  blk,
		method: method,
		owner:  owner,
	}
	return m.eval(f, def.Child(1))
}

// callInner runs a fn2 that belongs to the body of f, so it sees the same
// block and method.
func (m *machine) callInner(f *frame, fn tree.Ident, e *env, self any) any {
	return m.call(fn, e, self, f.args, f.block, f.method, f.owner)
}

func (m *machine) callProc(p *proc, args []any) any {
	if p == nil {
		m.fail("no block given")
	}
	return m.call(p.fn, newEnv(p.env, true), p.self, args, nil, "", nil)
}

func (m *machine) singletonOf(o *object) *object {
	if o.singleton == nil {
		o.singleton = &object{
			name:    "#<Class:" + o.name + ">",
			isClass: true,
			methods: make(map[string]tree.Ident),
			env:     newEnv(m.root, false),
			ivars:   make(map[string]any),
		}
	}
	return o.singleton
}

// definitionTarget is where def inside self defines methods.
func (m *machine) definitionTarget(self any) *object {
	o := self.(*object)
	if o.isClass {
		return o
	}
	return o.class
}

func lookupMethod(cls *object, name string) (tree.Ident, *object) {
	for ; cls != nil; cls = cls.super {
		if fn, ok := cls.methods[name]; ok {
			return fn, cls
		}
	}
	return "", nil
}

func isA(o *object, cls *object) bool {
	for c := o.class; c != nil; c = c.super {
		if c == cls {
			return true
		}
	}
	return false
}

func (m *machine) send(recv any, name string, args []any, blk *proc) any {
	if o, ok := recv.(*object); ok {
		if o.singleton != nil {
			if fn, ok := o.singleton.methods[name]; ok {
				return m.call(fn, newEnv(o.singleton.env, false), o, args, blk, name, o.singleton)
			}
		}
		if fn, owner := lookupMethod(o.class, name); fn != "" {
			return m.call(fn, newEnv(owner.env, false), o, args, blk, name, owner)
		}
	}

	switch name {
	case "record":
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = show(a)
		}
		m.log = append(m.log, strings.Join(parts, " "))
		if len(args) > 0 {
			return args[0]
		}
		return nil
	case "raise":
		var exc *object
		switch a := args[0].(type) {
		case *object:
			exc = &object{name: a.name, class: a, ivars: make(map[string]any)}
		case *str:
			exc = &object{name: a.s, class: m.root.vars["RuntimeError"].(*object), ivars: make(map[string]any)}
		}
		m.globals["$!"] = exc
		panic(&raised{exc: exc})
	case "new":
		cls := recv.(*object)
		inst := &object{name: "#<" + cls.name + ">", class: cls, ivars: make(map[string]any)}
		if fn, owner := lookupMethod(cls, "initialize"); fn != "" {
			m.call(fn, newEnv(owner.env, false), inst, args, blk, "initialize", owner)
		}
		return inst
	case "to_s":
		return &str{show(recv)}
	case "call":
		return m.callProc(recv.(*proc), args)
	case "each":
		for _, e := range recv.(*array).elems {
			m.callProc(blk, []any{e})
		}
		return recv
	case "size":
		return int64(len(recv.(*array).elems))
	case "+", "-", "<":
		a, b := recv.(int64), args[0].(int64)
		switch name {
		case "+":
			return a + b
		case "-":
			return a - b
		default:
			return a < b
		}
	}
	m.fail("undefined method %s for %s", name, show(recv))
	return nil
}

func show(v any) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case bool:
		return fmt.Sprint(v)
	case int64:
		return fmt.Sprint(v)
	case symbol:
		return ":" + string(v)
	case *str:
		return v.s
	case *array:
		parts := make([]string, len(v.elems))
		for i, e := range v.elems {
			parts[i] = show(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *hash:
		parts := make([]string, len(v.keys))
		for i := range v.keys {
			parts[i] = show(v.keys[i]) + "=>" + show(v.vals[i])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *object:
		return v.name
	case *proc:
		return "#<Proc>"
	}
	return fmt.Sprintf("%T", v)
}

func TestShortCircuit(t *testing.T) {
	m := newMachine(t)
	m.run(`
		(block
		  (and (false) (call nil record (lit 1)))
		  (or (true) (call nil record (lit 2)))
		  (call nil record (and (lit 1) (lit 3)))
		  (call nil record (or (nil) (lit 4)))
		  (call nil record (or (lit 5) (call nil record (lit 9))))
		  (call nil record (and (nil) (call nil record (lit 9))))
		  (and (call nil record (lit 6)) (lit 0)))`)
	be.Equal(t, m.log, []string{"3", "4", "5", "nil", "6"})
}

func TestOrAssign(t *testing.T) {
	m := newMachine(t)
	m.run(`
		(block
		  (lasgn a (nil))
		  (op_asgn_or (lvar a) (lasgn a (lit 1)))
		  (op_asgn_or (lvar a) (lasgn a (lit 2)))
		  (op_asgn_and (lvar a) (lasgn a (lit 3)))
		  (call nil record (lvar a)))`)
	be.Equal(t, m.log, []string{"3"})
}

func TestMultipleAssignmentRuns(t *testing.T) {
	m := newMachine(t)
	m.run(`
		(block
		  (masgn (array (lasgn a) (lasgn b)) (array (lit 1) (lit 2)))
		  (call nil record (lvar a) (lvar b))
		  (masgn (array (lasgn c) (splat (lasgn d)) (lasgn e)) (array (lit 1) (lit 2) (lit 3) (lit 4)))
		  (call nil record (lvar c) (lvar d) (lvar e))
		  (masgn (array (masgn (array (lasgn f) (lasgn g))) (iasgn @h)) (array (array (lit 5) (lit 6)) (lit 7)))
		  (call nil record (lvar f) (lvar g) (ivar @h))
		  (masgn (array (gasgn $i) (lasgn j)) (to_ary (array (lit 8))))
		  (call nil record (gvar $i) (lvar j)))`)
	be.Equal(t, m.log, []string{"1 2", "1 [2, 3] 4", "5 6 7", "8 nil"})
}

func TestClassReopening(t *testing.T) {
	m := newMachine(t)
	m.run(`
		(block
		  (class Foo nil (defn a (args) (lit 1)))
		  (class Foo nil (defn b (args) (lit 2)))
		  (lasgn foo (call (const Foo) new))
		  (call nil record (call (lvar foo) a) (call (lvar foo) b)))`)
	be.Equal(t, m.log, []string{"1 2"})
	be.Equal(t, m.subclasses, 1)
}

func TestModuleReopening(t *testing.T) {
	m := newMachine(t)
	m.run(`
		(block
		  (module M (cdecl X (lit 1)))
		  (module M (cdecl Y (lit 2)))
		  (call nil record (colon2 (const M) X) (colon2 (const M) Y)))`)
	be.Equal(t, m.log, []string{"1 2"})
}

func TestSuperclassAndSuper(t *testing.T) {
	m := newMachine(t)
	m.run(`
		(block
		  (class A nil (defn m (args x) (call (lvar x) + (lit 1))))
		  (class B (const A) (defn m (args x) (call (super (lvar x)) + (lit 10))))
		  (call nil record (call (call (const B) new) m (lit 5))))`)
	be.Equal(t, m.log, []string{"16"})
}

func TestRescueClauseOrder(t *testing.T) {
	tests := []struct {
		name     string
		program  string
		expected []string
	}{
		{
			"first matching clause wins",
			`(rescue
			  (call nil raise (const ArgumentError))
			  (resbody (array (const ArgumentError)) (call nil record (lit 1)))
			  (resbody (array (const StandardError)) (call nil record (lit 2))))`,
			[]string{"1"},
		},
		{
			"broader clause first",
			`(rescue
			  (call nil raise (const ArgumentError))
			  (resbody (array (const StandardError)) (call nil record (lit 1)))
			  (resbody (array (const ArgumentError)) (call nil record (lit 2))))`,
			[]string{"1"},
		},
		{
			"several classes in one clause",
			`(rescue
			  (call nil raise (const TypeError))
			  (resbody (array (const ArgumentError) (const TypeError)) (call nil record (lit 1))))`,
			[]string{"1"},
		},
		{
			"unmatched exception falls through",
			`(rescue
			  (rescue
			    (call nil raise (const ArgumentError))
			    (resbody (array (const TypeError)) (call nil record (lit 1))))
			  (resbody (array) (call nil record (lit 2))))`,
			[]string{"2"},
		},
		{
			"else runs without an exception",
			`(rescue
			  (call nil record (lit 1))
			  (resbody (array) (call nil record (lit 2)))
			  (call nil record (lit 3)))`,
			[]string{"1", "3"},
		},
		{
			"else is not protected by its own clauses",
			`(rescue
			  (rescue
			    (lit 1)
			    (resbody (array) (call nil record (lit 2)))
			    (call nil raise (const ArgumentError)))
			  (resbody (array) (call nil record (lit 3))))`,
			[]string{"3"},
		},
		{
			"exception binding",
			`(rescue
			  (call nil raise (const ArgumentError))
			  (resbody (array (lasgn e (gvar $!))) (call nil record (lvar e))))`,
			[]string{"ArgumentError"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			m := newMachine(t)
			m.run(test.program)
			be.Equal(t, m.log, test.expected)
		})
	}
}

func TestRescueValue(t *testing.T) {
	m := newMachine(t)
	got := m.run("(rescue (call nil raise (const ArgumentError)) (resbody (array) (lit 7)))")
	be.Equal(t, got, any(int64(7)))

	got = m.run("(rescue (lit 8) (resbody (array) (lit 7)))")
	be.Equal(t, got, any(int64(8)))
}

func TestArrayOrderAndArity(t *testing.T) {
	m := newMachine(t)
	got := m.run("(array (lit 1) (lit 2) (str \"x\") (lit 4) (nil))")
	be.Equal(t, show(got), "[1, 2, x, 4, nil]")

	got = m.run("(array (lit 1) (splat (array (lit 2) (lit 3))) (lit 4))")
	be.Equal(t, show(got), "[1, 2, 3, 4]")

	got = m.run("(array)")
	be.Equal(t, len(got.(*array).elems), 0)
}

func TestHashAndInterpolation(t *testing.T) {
	m := newMachine(t)
	got := m.run("(hash (lit a) (lit 1) (lit b) (lit 2) (lit a) (lit 3))")
	be.Equal(t, show(got), "{:a=>1, :b=>2, :a=>3}")

	got = m.run(`(dstr "a" (evstr (lit 1)) (str "b") (evstr) (evstr (str "c")))`)
	be.Equal(t, show(got), "a1bc")
}

func TestConditionalsAndLoops(t *testing.T) {
	m := newMachine(t)
	be.Equal(t, m.run("(if (nil) (lit 1) (lit 2))"), any(int64(2)))
	be.Equal(t, m.run("(if (lit 0) (lit 1) (lit 2))"), any(int64(1)))
	be.Equal(t, m.run("(if (false) (lit 1) nil)"), any(nil))

	got := m.run(`
		(block
		  (lasgn i (lit 0))
		  (while (call (lvar i) < (lit 3))
		    (block (call nil record (lvar i)) (lasgn i (call (lvar i) + (lit 1))))
		    true))`)
	be.Equal(t, got, any(nil))
	be.Equal(t, m.log, []string{"0", "1", "2"})

	m.log = nil
	m.run("(until (true) (call nil record (lit 1)) false)")
	be.Equal(t, m.log, []string{"1"})

	m.log = nil
	m.run("(until (true) (call nil record (lit 1)) true)")
	be.Equal(t, len(m.log), 0)
}

func TestSimpleModeDefaults(t *testing.T) {
	m := newMachine(t)
	m.run(`
		(block
		  (defn f (args x (lasgn y (lit 2))) (array (lvar x) (lvar y)))
		  (call nil record (call nil f (lit 1)))
		  (call nil record (call nil f (lit 1) (lit 5)))
		  (defn r (args x *rest) (lvar rest))
		  (call nil record (call nil r (lit 1) (lit 2) (lit 3))))`)
	be.Equal(t, m.log, []string{"[1, 2]", "[1, 5]", "[2, 3]"})
}

func TestFullModeDefaults(t *testing.T) {
	m := newMachine(t)
	m.run(`
		(block
		  (defn g (args (lasgn a (call nil record (lit 99))) b) (array (lvar a) (lvar b)))
		  (call nil record (call nil g (lit 1) (lit 2)))
		  (call nil record (call nil g (lit 1))))`)
	be.Equal(t, m.log, []string{"[1, 2]", "99", "[99, 1]"})
}

func TestBlocks(t *testing.T) {
	m := newMachine(t)
	m.run(`
		(block
		  (lasgn total (lit 0))
		  (iter (call (array (lit 1) (lit 2) (lit 3)) each) (args x)
		    (lasgn total (call (lvar total) + (lvar x))))
		  (call nil record (lvar total))
		  (defn twice (args) (block (yield (lit 1)) (yield (lit 2))))
		  (iter (call nil twice) (args v) (call nil record (lvar v)))
		  (lasgn p (iter (lambda) (args (masgn a b)) (call nil record (lvar a) (lvar b))))
		  (call (lvar p) call (array (lit 3) (lit 4)))
		  (call (array (array (lit 5) (lit 6))) each (block_pass (lvar p)))
		  (defn capture (args &blk) (lvar blk))
		  (call (iter (call nil capture) 0 (lit 7)) call))`)
	be.Equal(t, m.log, []string{"6", "1", "2", "3 4", "5 6"})
}

func TestSingletonMethods(t *testing.T) {
	m := newMachine(t)
	m.run(`
		(block
		  (defs (self) hi (args) (lit 7))
		  (sclass (self) (defn hey (args) (lit 8)))
		  (call nil record (call (self) hi) (call (self) hey))
		  (alias (lit greet) (lit hey)))`)
	be.Equal(t, m.log, []string{"7 8"})
}

func TestMethodDefinitionValue(t *testing.T) {
	m := newMachine(t)
	be.Equal(t, m.run("(defn f (args) (nil))"), any(symbol("f")))
}
