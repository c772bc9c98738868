package ruleengine

import (
	"testing"

	. "gopkg.in/check.v1"
)

// Hook up gocheck into the "go test" runner, mirroring the teacher's own
// pongo2_issues_test.go: one table-style regression suite for literal
// scenarios pulled directly from the spec, kept separate from the
// testify-based unit tests in the rest of the package.

func TestRegressions(t *testing.T) { TestingT(t) }

type RegressionSuite struct{}

var _ = Suite(&RegressionSuite{})

// Scenario 1: a high-amount rule emits exactly one SetFraudScore action
// and is the sole executed rule.
func (s *RegressionSuite) TestHighAmountSetsFraudScore(c *C) {
	e, err := FromSource(`rule "high" { priority: 100, if (txn.amount > 1000) { setFraudScore(0.8); } }`)
	c.Assert(err, IsNil)

	result := e.Execute(NewTransaction(map[string]Value{"amount": Float(5000.0)}), NewUserProfile(nil))
	c.Check(result.Actions, HasLen, 1)
	c.Check(result.Actions[0].Kind, Equals, ActionSetFraudScore)
	c.Check(result.Actions[0].Score, Equals, 0.8)
	c.Check(result.Metadata.ExecutedRules, DeepEquals, []string{"high"})
	c.Check(result.Metadata.ShortCircuited, Equals, false)
}

// Scenario 2: profile.txn_count = profile.txn_count + 1 with an initial
// Int(5) must produce Int(6).
func (s *RegressionSuite) TestProfileCounterIncrement(c *C) {
	e, err := FromSource(`rule "r1" { profile.txn_count = profile.txn_count + 1; }`)
	c.Assert(err, IsNil)

	result := e.Execute(NewTransaction(nil), NewUserProfile(map[string]Value{"txn_count": Int(5)}))
	c.Check(result.Profile["txn_count"].AsInt(), Equals, int64(6))
}

// Scenario 3: the higher-priority rule returns, so only it executes and
// short_circuited is set.
func (s *RegressionSuite) TestReturnShortCircuitsLowerPriorityRules(c *C) {
	e, err := FromSource(`
		rule "first" { priority: 100, setDecision("first"); return; }
		rule "second" { priority: 90, setDecision("second"); }
	`)
	c.Assert(err, IsNil)

	result := e.Execute(NewTransaction(nil), NewUserProfile(nil))
	c.Check(result.Actions, HasLen, 1)
	c.Check(result.Metadata.ShortCircuited, Equals, true)
	c.Check(result.Metadata.ExecutedRules, DeepEquals, []string{"first"})
}

// Scenario 4: a disabled rule never executes and appears only in
// skipped_rules.
func (s *RegressionSuite) TestDisabledRuleNeverExecutes(c *C) {
	e, err := FromSource(`
		rule "off" { enabled: false, setDecision("should-not-run"); }
		rule "on" { setDecision("ran"); }
	`)
	c.Assert(err, IsNil)

	result := e.Execute(NewTransaction(nil), NewUserProfile(nil))
	c.Check(result.Metadata.SkippedRules, DeepEquals, []string{"off"})
	c.Check(result.Metadata.ExecutedRules, DeepEquals, []string{"on"})
}

// Scenario 5: arithmetic and branching on a missing field degrade to
// Null/false rather than erroring.
func (s *RegressionSuite) TestMissingFieldArithmeticAndBranching(c *C) {
	e, err := FromSource(`
		rule "r1" {
			profile.sum = profile.missing + 1;
			if (profile.missing) {
				setDecision("truthy");
			} else {
				setDecision("falsy");
			}
		}
	`)
	c.Assert(err, IsNil)

	result := e.Execute(NewTransaction(nil), NewUserProfile(nil))
	c.Check(result.Profile["sum"].IsNull(), Equals, true)
	c.Check(result.Actions, HasLen, 1)
	c.Check(result.Actions[0].Decision, Equals, "falsy")
}

// Scenario 6: a bytecode round trip of a three-rule program must execute
// identically to the source-compiled original.
func (s *RegressionSuite) TestBytecodeRoundTripScenario(c *C) {
	src := `
		rule "a" { priority: 10, setDecision("a"); }
		rule "b" { priority: 100, setDecision("b"); }
		rule "c" { priority: 50, setDecision("c"); }
	`
	e, err := FromSource(src)
	c.Assert(err, IsNil)

	bc, err := e.ToBytecode()
	c.Assert(err, IsNil)

	e2, err := FromBytecode(bc)
	c.Assert(err, IsNil)

	r1 := e.Execute(NewTransaction(nil), NewUserProfile(nil))
	r2 := e2.Execute(NewTransaction(nil), NewUserProfile(nil))

	c.Check(r1.Metadata.ExecutedRules, DeepEquals, r2.Metadata.ExecutedRules)
	c.Check(len(r1.Actions), Equals, len(r2.Actions))
	for i := range r1.Actions {
		c.Check(r1.Actions[i].Decision, Equals, r2.Actions[i].Decision)
	}
}
