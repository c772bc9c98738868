package ruleengine

// Program is the root of a parsed source file: its function declarations
// and rule declarations, each in source order.
type Program struct {
	Functions []*FunctionNode
	Rules     []*RuleNode
}

// FunctionNode is a `function name(params) { ... }` declaration.
type FunctionNode struct {
	Name   string
	Params []string
	Body   []Statement
	Line   int
	Col    int
}

// RuleNode is a `rule "id" { priority: n, enabled: b, ... }` declaration.
type RuleNode struct {
	ID       string
	Priority int32
	Enabled  bool
	Body     []Statement
	Line     int
	Col      int
}

// Statement is the interface implemented by every statement AST node.
type Statement interface {
	statementNode()
}

// IfStatement is `if (Cond) { Then } else { Else }`, Else may be nil.
type IfStatement struct {
	Cond Expression
	Then []Statement
	Else []Statement
}

// AssignTarget discriminates the three legal assignment-target shapes.
type AssignTarget uint8

const (
	// TargetLocal is `ident = expr;` or `let ident = expr;`.
	TargetLocal AssignTarget = iota
	// TargetProfile is `profile.field = expr;`.
	TargetProfile
	// TargetTxn is `txn.field = expr;` or `transaction.field = expr;`.
	TargetTxn
)

// AssignStatement covers all three assignment forms described in §4.3.
// Name holds the local-variable name (TargetLocal) or the field name
// (TargetProfile/TargetTxn). IsDeclare is true only for the `let` form.
type AssignStatement struct {
	Target    AssignTarget
	Name      string
	Value     Expression
	IsDeclare bool
}

// ActionCallStatement invokes one of the five built-in actions, or a
// custom action name not among them.
type ActionCallStatement struct {
	Kind ActionKind
	Name string // populated for ActionCustom; empty otherwise
	Args []Expression
}

// ReturnStatement is a bare `return;`.
type ReturnStatement struct{}

// ExprStatement wraps an expression evaluated for its side effects, with
// the result discarded (a bare FunctionCall statement).
type ExprStatement struct {
	Expr Expression
}

func (*IfStatement) statementNode()         {}
func (*AssignStatement) statementNode()     {}
func (*ActionCallStatement) statementNode() {}
func (*ReturnStatement) statementNode()     {}
func (*ExprStatement) statementNode()       {}

// Expression is the interface implemented by every expression AST node.
type Expression interface {
	expressionNode()
}

// BinaryOp enumerates the binary operators in precedence order low→high,
// grouped by the grammar level that produces them.
type BinaryOp uint8

const (
	BinOr BinaryOp = iota
	BinAnd
	BinEq
	BinNe
	BinGt
	BinGte
	BinLt
	BinLte
	BinAdd
	BinSub
	BinMul
	BinDiv
	BinMod
)

// UnaryOp enumerates the two unary prefix operators.
type UnaryOp uint8

const (
	UnaryNot UnaryOp = iota
	UnaryNeg
)

// BinaryExpr is `Left Op Right`.
type BinaryExpr struct {
	Op    BinaryOp
	Left  Expression
	Right Expression
}

// UnaryExpr is `Op Operand`.
type UnaryExpr struct {
	Op      UnaryOp
	Operand Expression
}

// FieldAccessExpr is `Object.Field`, legal only when Object is the bare
// identifier "profile", "txn", or "transaction".
type FieldAccessExpr struct {
	Object string
	Field  string
}

// ArrayAccessExpr is `Array[Index]`.
type ArrayAccessExpr struct {
	Array Expression
	Index Expression
}

// FunctionCallExpr is `Name(Args...)`. At the head of a statement, a call
// to one of the five built-in action names becomes an ActionCallStatement
// instead; in expression position any name produces a FunctionCallExpr.
type FunctionCallExpr struct {
	Name string
	Args []Expression
	Line int
	Col  int
}

// MethodCallExpr is `Receiver.Name(Args...)`.
type MethodCallExpr struct {
	Receiver Expression
	Name     string
	Args     []Expression
}

// LiteralKind discriminates the literal expression forms.
type LiteralKind uint8

const (
	LitNull LiteralKind = iota
	LitBool
	LitInt
	LitFloat
	LitString
)

// LiteralExpr is a constant value written directly in source.
type LiteralExpr struct {
	Kind  LiteralKind
	Bool  bool
	Int   int64
	Float float64
	Str   string
}

// VariableExpr is a bare identifier referring to a local variable.
type VariableExpr struct {
	Name string
}

func (*BinaryExpr) expressionNode()      {}
func (*UnaryExpr) expressionNode()       {}
func (*FieldAccessExpr) expressionNode() {}
func (*ArrayAccessExpr) expressionNode() {}
func (*FunctionCallExpr) expressionNode() {}
func (*MethodCallExpr) expressionNode()  {}
func (*LiteralExpr) expressionNode()     {}
func (*VariableExpr) expressionNode()    {}
