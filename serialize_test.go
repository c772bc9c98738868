package ruleengine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const threeRuleProgram = `
	function bump(n) {
		profile.calls = profile.calls + 1;
	}

	rule "low" {
		priority: 10,
		bump(1);
		setDecision("low");
	}
	rule "high" {
		priority: 100,
		if (txn.amount > 1000) {
			createCase("severe", "large amount", profile);
		}
		setFraudScore(0.9);
	}
	rule "mid" {
		priority: 50,
		enabled: false,
		setDecision("mid");
	}
`

// TestSerializeRoundTripByteIdentical covers §8 scenario 6: compiling the
// same source twice and serializing both must produce byte-identical
// bytecode, since Compile/serializeProgram must not depend on Go's
// randomized map iteration order.
func TestSerializeRoundTripByteIdentical(t *testing.T) {
	progA, err := ParseSource(threeRuleProgram)
	require.NoError(t, err)
	compiledA, err := Compile(progA)
	require.NoError(t, err)
	bytesA, err := serializeProgram(compiledA)
	require.NoError(t, err)

	progB, err := ParseSource(threeRuleProgram)
	require.NoError(t, err)
	compiledB, err := Compile(progB)
	require.NoError(t, err)
	bytesB, err := serializeProgram(compiledB)
	require.NoError(t, err)

	assert.Equal(t, bytesA, bytesB, "two compilations of identical source must serialize byte-for-byte identically")
}

// TestSerializeDeserializeExecutesIdentically covers invariant I1: a
// program deserialized from bytecode produces the same executed-rule
// sequence and action list as the original, for the same inputs.
func TestSerializeDeserializeExecutesIdentically(t *testing.T) {
	e, err := FromSource(threeRuleProgram)
	require.NoError(t, err)

	bc, err := e.ToBytecode()
	require.NoError(t, err)

	e2, err := FromBytecode(bc)
	require.NoError(t, err)

	txn := NewTransaction(map[string]Value{"amount": Float(5000)})
	profile := NewUserProfile(map[string]Value{"calls": Int(0)})

	r1 := e.Execute(txn, profile)

	txn2 := NewTransaction(map[string]Value{"amount": Float(5000)})
	profile2 := NewUserProfile(map[string]Value{"calls": Int(0)})
	r2 := e2.Execute(txn2, profile2)

	// Value defines its own Equal method, which cmp picks up automatically,
	// so structural value comparison doesn't need to reach into its
	// unexported fields.
	if diff := cmp.Diff(r1.Actions, r2.Actions); diff != "" {
		t.Errorf("actions differ after bytecode round trip (-original +roundtripped):\n%s", diff)
	}
	assert.Equal(t, r1.Profile, r2.Profile)
	assert.Equal(t, r1.Metadata.ExecutedRules, r2.Metadata.ExecutedRules)
	assert.Equal(t, r1.Metadata.SkippedRules, r2.Metadata.SkippedRules)
}

// TestDeserializeBadMagicFails exercises the versioned-prefix mismatch
// path described in §6: a blob that doesn't start with the engine's own
// magic/version prefix yields a CompilationError, not a panic.
func TestDeserializeBadMagicFails(t *testing.T) {
	_, err := FromBytecode([]byte("not a real bytecode blob"))
	require.Error(t, err)
	var ce *CompilationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrCompile, ce.Kind)
}

func TestDeserializeTruncatedStreamFails(t *testing.T) {
	e, err := FromSource(threeRuleProgram)
	require.NoError(t, err)
	bc, err := e.ToBytecode()
	require.NoError(t, err)

	_, err = FromBytecode(bc[:len(bc)-3])
	require.Error(t, err)
}

func TestDeserializeUnsupportedVersionFails(t *testing.T) {
	e, err := FromSource(`rule "r1" { setDecision("v1"); }`)
	require.NoError(t, err)
	bc, err := e.ToBytecode()
	require.NoError(t, err)

	bad := append([]byte(nil), bc...)
	bad[3] = 0xFF // version byte
	_, err = FromBytecode(bad)
	require.Error(t, err)
}
