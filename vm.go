package ruleengine

// maxCallDepth bounds CallGlobal recursion. Overflow truncates the call
// silently: the overflowing call returns without executing, per the
// VM's never-abort contract.
const maxCallDepth = 64

// ExecutionContext holds all mutable state for one execute() invocation.
// A fresh ExecutionContext is allocated per call and never shared across
// concurrent evaluations.
type ExecutionContext struct {
	Txn     Transaction
	Profile UserProfile

	stack   []Value
	locals  map[string]Value
	actions []Action

	shouldReturn bool
	callDepth    int
}

func newExecutionContext(txn Transaction, profile UserProfile) *ExecutionContext {
	return &ExecutionContext{
		Txn:     txn,
		Profile: profile,
		stack:   make([]Value, 0, 128),
		locals:  make(map[string]Value),
	}
}

func (ctx *ExecutionContext) push(v Value) { ctx.stack = append(ctx.stack, v) }

// pop returns Null on underflow instead of panicking, per the VM's
// stack-underflow policy.
func (ctx *ExecutionContext) pop() Value {
	n := len(ctx.stack)
	if n == 0 {
		return Null
	}
	v := ctx.stack[n-1]
	ctx.stack = ctx.stack[:n-1]
	return v
}

// vm interprets one bytecode vector against a shared function table and
// an execution context. It is stateless across calls; all mutable state
// lives in the ExecutionContext and the functions map, neither of which
// the vm itself owns.
type vm struct {
	functions *functionTable
}

// run executes code against ctx. It returns only on Return or falling off
// the end of code; it never returns an error — §4.5/§7 require the VM to
// be total over well-formed bytecode.
func (m *vm) run(code []Instruction, ctx *ExecutionContext) {
	pc := 0
	for pc < len(code) {
		instr := code[pc]
		switch instr.Op {
		case OpPush:
			ctx.push(instr.Value)
		case OpPop:
			ctx.pop()
		case OpDup:
			n := len(ctx.stack)
			if n == 0 {
				ctx.push(Null)
			} else {
				ctx.push(ctx.stack[n-1])
			}

		case OpLoadProfileField:
			ctx.push(lookupField(ctx.Profile, instr.Name))
		case OpStoreProfileField:
			v := ctx.pop()
			if ctx.Profile != nil {
				ctx.Profile[instr.Name] = v
			}
		case OpLoadTxnField:
			ctx.push(lookupField(ctx.Txn, instr.Name))
		case OpStoreTxnField:
			v := ctx.pop()
			if ctx.Txn != nil {
				ctx.Txn[instr.Name] = v
			}
		case OpLoadLocal:
			if v, ok := ctx.locals[instr.Name]; ok {
				ctx.push(v)
			} else {
				ctx.push(Null)
			}
		case OpStoreLocal:
			ctx.locals[instr.Name] = ctx.pop()

		case OpAdd:
			b, a := ctx.pop(), ctx.pop()
			ctx.push(arithAdd(a, b))
		case OpSub:
			b, a := ctx.pop(), ctx.pop()
			ctx.push(arithBinary(a, b, func(x, y int64) int64 { return x - y }, func(x, y float64) float64 { return x - y }))
		case OpMul:
			b, a := ctx.pop(), ctx.pop()
			ctx.push(arithBinary(a, b, func(x, y int64) int64 { return x * y }, func(x, y float64) float64 { return x * y }))
		case OpDiv:
			b, a := ctx.pop(), ctx.pop()
			ctx.push(arithDiv(a, b))
		case OpMod:
			b, a := ctx.pop(), ctx.pop()
			ctx.push(arithMod(a, b))
		case OpNeg:
			a := ctx.pop()
			ctx.push(arithNeg(a))

		case OpEq:
			b, a := ctx.pop(), ctx.pop()
			ctx.push(Bool(a.Equal(b)))
		case OpNe:
			b, a := ctx.pop(), ctx.pop()
			ctx.push(Bool(!a.Equal(b)))
		case OpGt:
			b, a := ctx.pop(), ctx.pop()
			c, ok := compareValues(a, b)
			ctx.push(Bool(ok && c > 0))
		case OpGte:
			b, a := ctx.pop(), ctx.pop()
			c, ok := compareValues(a, b)
			ctx.push(Bool((ok && c > 0) || a.Equal(b)))
		case OpLt:
			b, a := ctx.pop(), ctx.pop()
			c, ok := compareValues(a, b)
			ctx.push(Bool(ok && c < 0))
		case OpLte:
			b, a := ctx.pop(), ctx.pop()
			c, ok := compareValues(a, b)
			ctx.push(Bool((ok && c < 0) || a.Equal(b)))

		case OpAnd:
			b, a := ctx.pop(), ctx.pop()
			ctx.push(Bool(a.AsBool() && b.AsBool()))
		case OpOr:
			b, a := ctx.pop(), ctx.pop()
			ctx.push(Bool(a.AsBool() || b.AsBool()))
		case OpNot:
			a := ctx.pop()
			ctx.push(Bool(!a.AsBool()))

		case OpJump:
			pc = instr.Addr
			continue
		case OpJumpIfFalse:
			cond := ctx.pop()
			if !cond.AsBool() {
				pc = instr.Addr
				continue
			}
		case OpReturn:
			ctx.shouldReturn = true
			return

		case OpCallGlobal:
			m.callGlobal(instr.CallName, instr.NArgs, ctx)
			// FunctionCall has no return-value slot (§4.5): push Null so an
			// expression-statement's trailing Pop, or any enclosing
			// expression, always finds exactly one value here.
			ctx.push(Null)
		case OpCallAction:
			m.callAction(instr, ctx)

		case OpArrayAccess:
			idx, arr := ctx.pop(), ctx.pop()
			ctx.push(arrayAccess(arr, idx))
		case OpArrayContains:
			item, arr := ctx.pop(), ctx.pop()
			ctx.push(Bool(arrayContains(arr, item)))
		case OpObjectGet:
			obj := ctx.pop()
			if m := obj.AsObject(); m != nil {
				if v, ok := m[instr.Name]; ok {
					ctx.push(v)
					break
				}
			}
			ctx.push(Null)
		case OpMethodCall:
			ctx.push(m.methodCall(instr, ctx))
		}

		pc++
	}
}

func lookupField(m map[string]Value, name string) Value {
	if m == nil {
		return Null
	}
	if v, ok := m[name]; ok {
		return v
	}
	return Null
}

// callGlobal resolves name in the function table and, if found, binds
// nargs popped-and-reversed arguments into ctx.locals by parameter name,
// then runs the function body against the same context. Missing function
// or call-depth overflow is a silent no-op (args are still popped).
func (m *vm) callGlobal(name string, nargs int, ctx *ExecutionContext) {
	args := popArgs(ctx, nargs)

	fn, ok := m.functions.lookupFunction(name)
	if !ok {
		return
	}
	if ctx.callDepth >= maxCallDepth {
		return
	}

	for i, pname := range fn.Params {
		if i < len(args) {
			ctx.locals[pname] = args[i]
		} else {
			ctx.locals[pname] = Null
		}
	}

	ctx.callDepth++
	m.run(fn.Code, ctx)
	ctx.callDepth--
}

func (m *vm) callAction(instr Instruction, ctx *ExecutionContext) {
	args := popArgs(ctx, instr.NArgs)
	ctx.actions = append(ctx.actions, buildAction(instr.ActionKind, instr.CallName, args))
}

func (m *vm) methodCall(instr Instruction, ctx *ExecutionContext) Value {
	args := popArgs(ctx, instr.NArgs)
	receiver := ctx.pop()

	switch {
	case instr.CallName == "length" && receiver.Kind() == KindArray:
		return Int(int64(len(receiver.AsArray())))
	case instr.CallName == "length" && receiver.Kind() == KindString:
		return Int(int64(len(receiver.AsString())))
	default:
		_ = args
		return Null
	}
}

// popArgs pops n values (arriving in reverse of call order) and returns
// them in argument order. Underflow pads with Null so side-effecting
// callers always see exactly n values.
func popArgs(ctx *ExecutionContext, n int) []Value {
	args := make([]Value, n)
	for i := n - 1; i >= 0; i-- {
		args[i] = ctx.pop()
	}
	return args
}

func arrayAccess(arr, idx Value) Value {
	items := arr.AsArray()
	if items == nil {
		return Null
	}
	i := idx.AsInt()
	if i < 0 || i >= int64(len(items)) {
		return Null
	}
	return items[i]
}

func arrayContains(arr, item Value) bool {
	for _, v := range arr.AsArray() {
		if v.Equal(item) {
			return true
		}
	}
	return false
}
