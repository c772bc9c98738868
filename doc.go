// Package ruleengine is a stateless, embeddable rule engine for fraud
// detection. A small DSL is compiled once into a compact bytecode
// representation, then evaluated against a transaction and a mutable
// user profile to produce a mutated profile, an ordered list of
// side-effect "action" descriptors for the host to apply asynchronously,
// and execution metadata for observability.
//
// A minimal example:
//
//	engine, err := ruleengine.FromSource(`
//	    rule "high-amount" {
//	        priority: 100
//	        if (txn.amount > 1000) {
//	            setFraudScore(0.8);
//	        }
//	    }
//	`)
//	if err != nil {
//	    panic(err)
//	}
//	result := engine.Execute(
//	    ruleengine.NewTransaction(map[string]ruleengine.Value{"amount": ruleengine.Float(5000)}),
//	    ruleengine.NewUserProfile(nil),
//	)
//	fmt.Println(result.Actions)
//
// Engine is safe for concurrent use: Execute allocates a fresh context
// per call and never mutates shared state beyond the caller-owned
// Transaction/UserProfile passed in. Reload swaps the compiled program
// atomically; in-flight Execute calls keep running against the program
// they loaded at entry.
package ruleengine
