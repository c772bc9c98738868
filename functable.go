package ruleengine

import art "github.com/plar/go-adaptive-radix-tree"

// functionTable is the engine's name-keyed lookup structure for
// user-defined functions, backed by an adaptive radix tree rather than a
// plain map so that prefix-dense rule sets (many functions sharing a
// naming convention) resolve calls with the same data structure the rest
// of the ecosystem uses for descriptor lookups.
type functionTable struct {
	tree art.Tree
}

func newFunctionTable(functions map[string]*CompiledFunction) *functionTable {
	tree := art.New()
	for name, fn := range functions {
		tree.Insert(art.Key(name), fn)
	}
	return &functionTable{tree: tree}
}

func (ft *functionTable) lookupFunction(name string) (*CompiledFunction, bool) {
	v, found := ft.tree.Search(art.Key(name))
	if !found {
		return nil, false
	}
	fn, ok := v.(*CompiledFunction)
	return fn, ok
}

// names returns every registered function name. Used by Engine.Functions.
func (ft *functionTable) names() []string {
	out := make([]string, 0, ft.tree.Size())
	ft.tree.ForEach(func(node art.Node) bool {
		out = append(out, string(node.Key()))
		return true
	})
	return out
}
