package ruleengine

// Op identifies a bytecode instruction's operation.
type Op uint8

const (
	OpPush Op = iota
	OpPop
	OpDup

	OpLoadProfileField
	OpStoreProfileField
	OpLoadTxnField
	OpStoreTxnField
	OpLoadLocal
	OpStoreLocal

	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpNeg

	OpEq
	OpNe
	OpGt
	OpGte
	OpLt
	OpLte

	OpAnd
	OpOr
	OpNot

	OpJump
	OpJumpIfFalse
	OpReturn

	OpCallGlobal
	OpCallAction

	OpArrayAccess
	OpArrayContains
	OpObjectGet
	OpMethodCall
)

// ActionKind discriminates the five built-in action names plus a
// user-chosen custom action name.
type ActionKind uint8

const (
	ActionCreateCase ActionKind = iota
	ActionCreateComment
	ActionSendAuthAdvise
	ActionSetFraudScore
	ActionSetDecision
	ActionCustom
)

var builtinActionNames = map[string]ActionKind{
	"createCase":     ActionCreateCase,
	"createComment":  ActionCreateComment,
	"sendAuthAdvise": ActionSendAuthAdvise,
	"setFraudScore":  ActionSetFraudScore,
	"setDecision":    ActionSetDecision,
}

// Instruction is a single bytecode instruction. Only the fields relevant
// to Op are meaningful; the rest are zero. This flat layout (rather than
// a Go interface per opcode) lets the VM dispatch on Op without a type
// switch or a heap-allocated value per instruction.
type Instruction struct {
	Op Op

	// Push
	Value Value

	// LoadProfileField / StoreProfileField / LoadTxnField / StoreTxnField /
	// LoadLocal / StoreLocal / ObjectGet
	Name string

	// Jump / JumpIfFalse: absolute instruction index.
	Addr int

	// CallGlobal / CallAction / MethodCall
	NArgs int

	// CallAction
	ActionKind ActionKind

	// CallAction(Custom) / CallGlobal / MethodCall
	CallName string
}

// CompiledRule is one rule's compiled body plus its ordering metadata.
type CompiledRule struct {
	ID       string
	Priority int32
	Enabled  bool
	Code     []Instruction
}

// CompiledFunction is one function's compiled body plus its parameter
// names, in declaration order, used to bind CallGlobal arguments.
type CompiledFunction struct {
	Name   string
	Params []string
	Code   []Instruction
}

// CompiledProgram is the full output of the compiler: rules already
// sorted by priority descending (stable), and a name-to-function table.
type CompiledProgram struct {
	Rules     []*CompiledRule
	Functions map[string]*CompiledFunction
}
