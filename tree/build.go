package tree

// Registers every lowered callable receives.
const (
	Env        Ident = "env"
	Self       Ident = "self"
	BlockParam Ident = "block"
	Argc       Ident = "argc"
	Argv       Ident = "args"
)

// Block argument kinds.
const (
	ArgSingle Ident = "single"
	ArgRest   Ident = "rest"
)

// Constructors for the output vocabulary. Each one fixes the arity and
// child order of its tag so that rules never assemble nodes by hand.

func Block(vs ...Value) *Node { return New(TagBlock, vs...) }
func Nil() *Node              { return New(TagNil) }
func True() *Node             { return New(TagTrue) }
func False() *Node            { return New(TagFalse) }
func Null() *Node             { return New(TagNull) }
func Break() *Node            { return New(TagBreak) }
func Else() *Node             { return New(TagElse) }
func ClearJumpBuf() *Node     { return New(TagClearJumpBuf) }

func Declare(name Ident, v Value) *Node      { return New(TagDeclare, name, v) }
func Set(name Ident, v Value) *Node          { return New(TagSet, name, v) }
func DeclareBlock(name Ident, v Value) *Node { return New(TagDeclareBlock, name, v) }

// Fn is a callable taking (env self argc args block).
func Fn(name Ident, body Value) *Node { return New(TagFn, name, body) }

// Fn2 is a callable taking only (env self).
func Fn2(name Ident, body Value) *Node { return New(TagFn2, name, body) }

func NatCall(fn Ident, env, self Value) *Node { return New(TagNatCall, fn, env, self) }
func EnvOf(obj Value) *Node                   { return New(TagEnvOf, obj) }

func Tern(test Value, ifTrue, ifFalse Ident) *Node { return New(TagTern, test, ifTrue, ifFalse) }
func CIf(test, then Value) *Node                   { return New(TagCIf, test, then) }
func CIfElse(test, then, els Value) *Node          { return New(TagCIf, test, then, els) }
func Loop(body Value) *Node                        { return New(TagLoop, body) }
func Not(v Value) *Node                            { return New(TagNot, v) }
func Truthy(v Value) *Node                         { return New(TagNatTruthy, v) }

func NatArray() *Node                            { return New(TagNatArray, Env) }
func NatArrayPush(arr Ident, v Value) *Node      { return New(TagNatArrayPush, arr, v) }
func NatArrayPushSplat(arr Ident, v Value) *Node { return New(TagNatArrayPushSplat, Env, arr, v) }

func NatHash() *Node                          { return New(TagNatHash, Env) }
func NatHashPut(hash Ident, k, v Value) *Node { return New(TagNatHashPut, Env, hash, k, v) }

func NatString(s string) *Node { return New(TagNatString, Env, Str(s)) }

func NatStringAppend(str Ident, s string) *Node {
	return New(TagNatStringAppend, str, Str(s))
}

func NatStringAppendNatString(str Ident, v Value) *Node {
	return New(TagNatStringAppendNatString, str, v)
}

func NatInteger(i int64) *Node            { return New(TagNatInteger, Env, Int(i)) }
func NatSymbol(name string) *Node         { return New(TagNatSymbol, Env, Str(name)) }
func NatLookup(name string) *Node         { return New(TagNatLookup, Env, Str(name)) }
func EnvGet(env Value, name string) *Node { return New(TagEnvGet, env, Str(name)) }
func EnvSet(name string, v Value) *Node   { return New(TagEnvSet, Env, Str(name), v) }

func GlobalGet(name string) *Node          { return New(TagGlobalGet, Env, Str(name)) }
func GlobalSet(name string, v Value) *Node { return New(TagGlobalSet, Env, Str(name), v) }
func IvarGet(name string) *Node            { return New(TagIvarGet, Env, Self, Str(name)) }
func IvarSet(name string, v Value) *Node   { return New(TagIvarSet, Env, Self, Str(name), v) }

// NatSend dispatches method on an explicit receiver. block is the block
// slot: Null(), a BlockOf node or a block temporary.
func NatSend(recv Value, method string, args *Node, block Value) *Node {
	return New(TagNatSend, recv, Str(method), args, block)
}

// NatLookupOrSend resolves method as a local or a method on self at runtime.
func NatLookupOrSend(method string, args *Node, block Value) *Node {
	return New(TagNatLookupOrSend, Self, Str(method), args, block)
}

func Args(vs ...Value) *Node    { return New(TagArgs, vs...) }
func ArgsArray(arr Value) *Node { return New(TagArgsArray, arr) }
func BlockOf(proc Ident) *Node  { return New(TagBlockOf, proc) }

func NatSubclass(superclass Value, name string) *Node {
	return New(TagNatSubclass, Env, superclass, Str(name))
}

func NatModule(name string) *Node       { return New(TagNatModule, Env, Str(name)) }
func NatSingletonClass(obj Value) *Node { return New(TagNatSingletonClass, Env, obj) }

func NatAlias(newName, oldName string) *Node {
	return New(TagNatAlias, Env, Self, Str(newName), Str(oldName))
}

func NatDefined(kind, name string) *Node { return New(TagNatDefined, Env, Self, Str(kind), Str(name)) }
func NatProc() *Node                     { return New(TagNatProc, Env, BlockParam) }
func NatLambda(block Value) *Node        { return New(TagNatLambda, Env, block) }
func NatBlock(fn Ident) *Node            { return New(TagNatBlock, Env, Self, fn) }

func BlockArgs(vs ...Value) *Node { return New(TagBlockArgs, vs...) }

// BlockArg extracts argument index from the incoming vector. A nil def
// means the parameter has no default.
func BlockArg(index int, kind Ident, def Value) *Node {
	if def == nil {
		return New(TagBlockArg, Int(index), kind)
	}
	return New(TagBlockArg, Int(index), kind, def)
}

func NatMultiAssignArgs(names Value) *Node {
	return New(TagNatMultiAssignArgs, Env, Self, names, Argc, Argv)
}

func NatMultiAssign(targets, values Value) *Node {
	return New(TagNatMultiAssign, Env, Self, targets, values)
}

func EnvSetMethodName(name string) *Node { return New(TagEnvSetMethodName, Str(name)) }

func NatDefineMethod(name string, fn Ident) *Node {
	return New(TagNatDefineMethod, Self, Str(name), fn)
}

func NatDefineSingletonMethod(owner Value, name string, fn Ident) *Node {
	return New(TagNatDefineSingletonMethod, Env, owner, Str(name), fn)
}

func NatRescue(begin, rescue Ident) *Node { return New(TagNatRescue, Env, Self, begin, rescue) }
func Cond(vs ...Value) *Node              { return New(TagCond, vs...) }
func CurrentException() *Node             { return New(TagCurrentException, Env) }
func NatRaiseException(v Value) *Node     { return New(TagNatRaiseException, Env, v) }

func IsA(classes ...Value) *Node {
	return New(TagIsA, append([]Value{CurrentException()}, classes...)...)
}

func NatSuper(args *Node, block Value) *Node { return New(TagNatSuper, args, block) }
func NatRunBlock(args *Node) *Node           { return New(TagNatRunBlock, args) }
