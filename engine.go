package ruleengine

import (
	"sync/atomic"
	"time"
)

// RuleMetadata describes one compiled rule's ordering attributes,
// returned by Engine.RulesMetadata for host-side observability.
type RuleMetadata struct {
	ID       string
	Priority int32
	Enabled  bool
}

// ExecutionMetadata is the observability half of an ExecutionResult.
type ExecutionMetadata struct {
	ExecutedRules  []string
	SkippedRules   []string
	RuleTimings    map[string]time.Duration
	TotalDuration  time.Duration
	ShortCircuited bool
}

// ExecutionResult is the full output of one Engine.Execute call.
type ExecutionResult struct {
	Profile     UserProfile
	Transaction Transaction
	Actions     []Action
	Metadata    ExecutionMetadata
}

// engineState bundles a compiled program with the function table built
// from it, so hot reload can swap both atomically as a single unit —
// an in-flight evaluation that already loaded the old state never
// observes half of a new one.
type engineState struct {
	program   *CompiledProgram
	functions *functionTable
}

// Engine is the compiled, shareable handle produced by FromSource or
// FromBytecode. Execute is reentrant and thread-safe: it only reads the
// current state and allocates a fresh ExecutionContext per call. Reload
// swaps the state atomically; evaluations already in flight keep
// running against the state they loaded at entry.
type Engine struct {
	state atomic.Pointer[engineState]
}

func newEngine(prog *CompiledProgram) *Engine {
	e := &Engine{}
	e.state.Store(&engineState{program: prog, functions: newFunctionTable(prog.Functions)})
	return e
}

// FromSource compiles DSL source text into a runnable Engine.
func FromSource(src string) (*Engine, error) {
	prog, err := ParseSource(src)
	if err != nil {
		return nil, err
	}
	compiled, err := Compile(prog)
	if err != nil {
		return nil, err
	}
	return newEngine(compiled), nil
}

// FromBytecode rebuilds an Engine from a blob produced by a prior
// (*Engine).ToBytecode call.
func FromBytecode(data []byte) (*Engine, error) {
	compiled, err := deserializeProgram(data)
	if err != nil {
		return nil, err
	}
	return newEngine(compiled), nil
}

// Validate compiles src through FromSource and discards the resulting
// Engine, returning only the CompilationError (or nil).
func Validate(src string) error {
	_, err := FromSource(src)
	return err
}

// ToBytecode serializes the engine's current compiled program.
func (e *Engine) ToBytecode() ([]byte, error) {
	return serializeProgram(e.state.Load().program)
}

// Reload atomically replaces the engine's compiled program with one
// freshly compiled from src. In-flight Execute calls keep running
// against the program they loaded at entry.
func (e *Engine) Reload(src string) error {
	prog, err := ParseSource(src)
	if err != nil {
		return err
	}
	compiled, err := Compile(prog)
	if err != nil {
		return err
	}
	e.state.Store(&engineState{program: compiled, functions: newFunctionTable(compiled.Functions)})
	return nil
}

// RulesMetadata lists every compiled rule's id, priority, and enabled
// flag, in the engine's stored (priority-descending) order.
func (e *Engine) RulesMetadata() []RuleMetadata {
	state := e.state.Load()
	out := make([]RuleMetadata, len(state.program.Rules))
	for i, r := range state.program.Rules {
		out[i] = RuleMetadata{ID: r.ID, Priority: r.Priority, Enabled: r.Enabled}
	}
	return out
}

// Functions lists every compiled function's name.
func (e *Engine) Functions() []string {
	return e.state.Load().functions.names()
}

// Execute runs every enabled rule in priority order against txn and
// profile, stopping early if a rule's bytecode reaches Return.
func (e *Engine) Execute(txn Transaction, profile UserProfile) ExecutionResult {
	state := e.state.Load()
	ctx := newExecutionContext(txn, profile)
	machine := &vm{functions: state.functions}

	meta := ExecutionMetadata{RuleTimings: make(map[string]time.Duration)}
	start := nowFunc()

	for _, rule := range state.program.Rules {
		if !rule.Enabled {
			meta.SkippedRules = append(meta.SkippedRules, rule.ID)
			continue
		}
		ruleStart := nowFunc()
		machine.run(rule.Code, ctx)
		meta.RuleTimings[rule.ID] = nowFunc().Sub(ruleStart)
		meta.ExecutedRules = append(meta.ExecutedRules, rule.ID)

		if ctx.shouldReturn {
			meta.ShortCircuited = true
			break
		}
	}

	meta.TotalDuration = nowFunc().Sub(start)

	return ExecutionResult{
		Profile:     ctx.Profile,
		Transaction: ctx.Txn,
		Actions:     ctx.actions,
		Metadata:    meta,
	}
}

// nowFunc is a var, not a direct time.Now call, purely so tests can
// observe metadata fields deterministically if they choose to stub it.
var nowFunc = time.Now
