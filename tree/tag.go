package tree

import "fmt"

// Tag identifies the shape of a Node. The set is closed: every tag belongs
// to the input vocabulary produced by the parser, the output vocabulary
// consumed by the emitter, or both.
type Tag uint8

const (
	TagInvalid Tag = iota

	// Shared by both vocabularies.
	TagBlock
	TagNil
	TagTrue
	TagFalse
	TagArgs

	// Input vocabulary.
	TagAlias
	TagAnd
	TagArray
	TagAttrasgn
	TagBegin
	TagBlockPass
	TagCall
	TagCdecl
	TagClass
	TagColon2
	TagConst
	TagDefined
	TagDefn
	TagDefs
	TagDstr
	TagEvstr
	TagGasgn
	TagGvar
	TagHash
	TagIasgn
	TagIf
	TagIter
	TagIvar
	TagLambda
	TagLasgn
	TagLit
	TagLvar
	TagMasgn
	TagModule
	TagOpAsgnAnd
	TagOpAsgnOr
	TagOr
	TagRescue
	TagResbody
	TagSclass
	TagSelf
	TagShadow
	TagSplat
	TagStr
	TagSuper
	TagToAry
	TagUntil
	TagWhile
	TagYield
	TagZsuper

	// Output vocabulary.
	TagArgsArray
	TagBlockArg
	TagBlockArgs
	TagBlockOf
	TagBreak
	TagCIf
	TagClearJumpBuf
	TagCond
	TagCurrentException
	TagDeclare
	TagDeclareBlock
	TagElse
	TagEnvGet
	TagEnvOf
	TagEnvSet
	TagEnvSetMethodName
	TagFn
	TagFn2
	TagGlobalGet
	TagGlobalSet
	TagIsA
	TagIvarGet
	TagIvarSet
	TagLoop
	TagNatAlias
	TagNatArray
	TagNatArrayPush
	TagNatArrayPushSplat
	TagNatBlock
	TagNatCall
	TagNatDefineMethod
	TagNatDefineSingletonMethod
	TagNatDefined
	TagNatHash
	TagNatHashPut
	TagNatInteger
	TagNatLambda
	TagNatLookup
	TagNatLookupOrSend
	TagNatModule
	TagNatMultiAssign
	TagNatMultiAssignArgs
	TagNatProc
	TagNatRaiseException
	TagNatRescue
	TagNatRunBlock
	TagNatSend
	TagNatSingletonClass
	TagNatString
	TagNatStringAppend
	TagNatStringAppendNatString
	TagNatSubclass
	TagNatSuper
	TagNatSymbol
	TagNatTruthy
	TagNot
	TagNull
	TagSet
	TagTern

	tagCount
)

type vocabulary uint8

const (
	vocabInput vocabulary = 1 << iota
	vocabOutput
)

type tagInfo struct {
	name  string
	vocab vocabulary
}

var tagInfos = [tagCount]tagInfo{
	TagBlock: {"block", vocabInput | vocabOutput},
	TagNil:   {"nil", vocabInput | vocabOutput},
	TagTrue:  {"true", vocabInput | vocabOutput},
	TagFalse: {"false", vocabInput | vocabOutput},
	TagArgs:  {"args", vocabInput | vocabOutput},

	TagAlias:     {"alias", vocabInput},
	TagAnd:       {"and", vocabInput},
	TagArray:     {"array", vocabInput},
	TagAttrasgn:  {"attrasgn", vocabInput},
	TagBegin:     {"begin", vocabInput},
	TagBlockPass: {"block_pass", vocabInput},
	TagCall:      {"call", vocabInput},
	TagCdecl:     {"cdecl", vocabInput},
	TagClass:     {"class", vocabInput},
	TagColon2:    {"colon2", vocabInput},
	TagConst:     {"const", vocabInput},
	TagDefined:   {"defined", vocabInput},
	TagDefn:      {"defn", vocabInput},
	TagDefs:      {"defs", vocabInput},
	TagDstr:      {"dstr", vocabInput},
	TagEvstr:     {"evstr", vocabInput},
	TagGasgn:     {"gasgn", vocabInput},
	TagGvar:      {"gvar", vocabInput},
	TagHash:      {"hash", vocabInput},
	TagIasgn:     {"iasgn", vocabInput},
	TagIf:        {"if", vocabInput},
	TagIter:      {"iter", vocabInput},
	TagIvar:      {"ivar", vocabInput},
	TagLambda:    {"lambda", vocabInput},
	TagLasgn:     {"lasgn", vocabInput},
	TagLit:       {"lit", vocabInput},
	TagLvar:      {"lvar", vocabInput},
	TagMasgn:     {"masgn", vocabInput},
	TagModule:    {"module", vocabInput},
	TagOpAsgnAnd: {"op_asgn_and", vocabInput},
	TagOpAsgnOr:  {"op_asgn_or", vocabInput},
	TagOr:        {"or", vocabInput},
	TagRescue:    {"rescue", vocabInput},
	TagResbody:   {"resbody", vocabInput},
	TagSclass:    {"sclass", vocabInput},
	TagSelf:      {"self", vocabInput},
	TagShadow:    {"shadow", vocabInput},
	TagSplat:     {"splat", vocabInput},
	TagStr:       {"str", vocabInput},
	TagSuper:     {"super", vocabInput},
	TagToAry:     {"to_ary", vocabInput},
	TagUntil:     {"until", vocabInput},
	TagWhile:     {"while", vocabInput},
	TagYield:     {"yield", vocabInput},
	TagZsuper:    {"zsuper", vocabInput},

	TagArgsArray:                {"args_array", vocabOutput},
	TagBlockArg:                 {"block_arg", vocabOutput},
	TagBlockArgs:                {"block_args", vocabOutput},
	TagBlockOf:                  {"block_of", vocabOutput},
	TagBreak:                    {"break", vocabOutput},
	TagCIf:                      {"c_if", vocabOutput},
	TagClearJumpBuf:             {"clear_jump_buf", vocabOutput},
	TagCond:                     {"cond", vocabOutput},
	TagCurrentException:         {"current_exception", vocabOutput},
	TagDeclare:                  {"declare", vocabOutput},
	TagDeclareBlock:             {"declare_block", vocabOutput},
	TagElse:                     {"else", vocabOutput},
	TagEnvGet:                   {"env_get", vocabOutput},
	TagEnvOf:                    {"env_of", vocabOutput},
	TagEnvSet:                   {"env_set", vocabOutput},
	TagEnvSetMethodName:         {"env_set_method_name", vocabOutput},
	TagFn:                       {"fn", vocabOutput},
	TagFn2:                      {"fn2", vocabOutput},
	TagGlobalGet:                {"global_get", vocabOutput},
	TagGlobalSet:                {"global_set", vocabOutput},
	TagIsA:                      {"is_a", vocabOutput},
	TagIvarGet:                  {"ivar_get", vocabOutput},
	TagIvarSet:                  {"ivar_set", vocabOutput},
	TagLoop:                     {"loop", vocabOutput},
	TagNatAlias:                 {"nat_alias", vocabOutput},
	TagNatArray:                 {"nat_array", vocabOutput},
	TagNatArrayPush:             {"nat_array_push", vocabOutput},
	TagNatArrayPushSplat:        {"nat_array_push_splat", vocabOutput},
	TagNatBlock:                 {"nat_block", vocabOutput},
	TagNatCall:                  {"nat_call", vocabOutput},
	TagNatDefineMethod:          {"nat_define_method", vocabOutput},
	TagNatDefineSingletonMethod: {"nat_define_singleton_method", vocabOutput},
	TagNatDefined:               {"nat_defined", vocabOutput},
	TagNatHash:                  {"nat_hash", vocabOutput},
	TagNatHashPut:               {"nat_hash_put", vocabOutput},
	TagNatInteger:               {"nat_integer", vocabOutput},
	TagNatLambda:                {"nat_lambda", vocabOutput},
	TagNatLookup:                {"nat_lookup", vocabOutput},
	TagNatLookupOrSend:          {"nat_lookup_or_send", vocabOutput},
	TagNatModule:                {"nat_module", vocabOutput},
	TagNatMultiAssign:           {"nat_multi_assign", vocabOutput},
	TagNatMultiAssignArgs:       {"nat_multi_assign_args", vocabOutput},
	TagNatProc:                  {"nat_proc", vocabOutput},
	TagNatRaiseException:        {"nat_raise_exception", vocabOutput},
	TagNatRescue:                {"nat_rescue", vocabOutput},
	TagNatRunBlock:              {"nat_run_block", vocabOutput},
	TagNatSend:                  {"nat_send", vocabOutput},
	TagNatSingletonClass:        {"nat_singleton_class", vocabOutput},
	TagNatString:                {"nat_string", vocabOutput},
	TagNatStringAppend:          {"nat_string_append", vocabOutput},
	TagNatStringAppendNatString: {"nat_string_append_nat_string", vocabOutput},
	TagNatSubclass:              {"nat_subclass", vocabOutput},
	TagNatSuper:                 {"nat_super", vocabOutput},
	TagNatSymbol:                {"nat_symbol", vocabOutput},
	TagNatTruthy:                {"nat_truthy", vocabOutput},
	TagNot:                      {"not", vocabOutput},
	TagNull:                     {"null", vocabOutput},
	TagSet:                      {"set", vocabOutput},
	TagTern:                     {"tern", vocabOutput},
}

var tagsByName = func() map[string]Tag {
	m := make(map[string]Tag, tagCount)
	for t := TagInvalid + 1; t < tagCount; t++ {
		m[tagInfos[t].name] = t
	}
	return m
}()

func (t Tag) String() string {
	if t == TagInvalid || t >= tagCount {
		return fmt.Sprintf("Tag(%d)", uint8(t))
	}
	return tagInfos[t].name
}

// Valid reports whether t is a member of the closed tag set.
func (t Tag) Valid() bool {
	return t > TagInvalid && t < tagCount
}

// IsInput reports whether the parser may produce t.
func (t Tag) IsInput() bool {
	return t.Valid() && tagInfos[t].vocab&vocabInput != 0
}

// IsOutput reports whether the emitter accepts t.
func (t Tag) IsOutput() bool {
	return t.Valid() && tagInfos[t].vocab&vocabOutput != 0
}

// LookupTag maps a tag's spelling back to the tag.
func LookupTag(name string) (Tag, bool) {
	t, ok := tagsByName[name]
	return t, ok
}

// Tags returns every tag in declaration order.
func Tags() []Tag {
	tags := make([]Tag, 0, tagCount-1)
	for t := TagInvalid + 1; t < tagCount; t++ {
		tags = append(tags, t)
	}
	return tags
}
