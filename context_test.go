package ruleengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTransactionClonesInput(t *testing.T) {
	src := map[string]Value{"amount": Float(10)}
	txn := NewTransaction(src)
	txn["amount"] = Float(999)
	assert.Equal(t, float64(10), src["amount"].AsFloat(), "mutating the returned Transaction must not alter the caller's map")
}

func TestNewUserProfileClonesInput(t *testing.T) {
	src := map[string]Value{"score": Int(1)}
	profile := NewUserProfile(src)
	profile["score"] = Int(99)
	assert.Equal(t, int64(1), src["score"].AsInt())
}

func TestNewTransactionNilFields(t *testing.T) {
	txn := NewTransaction(nil)
	assert.NotNil(t, txn)
	assert.Empty(t, txn)
}

func TestCheckForValidIdentifiers(t *testing.T) {
	assert.True(t, checkForValidIdentifiers(map[string]Value{"amount": Int(1), "user_id": Int(2)}))
	assert.False(t, checkForValidIdentifiers(map[string]Value{"1bad": Int(1)}))
	assert.False(t, checkForValidIdentifiers(map[string]Value{"has space": Int(1)}))
	assert.True(t, checkForValidIdentifiers(nil))
}

func TestIsValidFieldName(t *testing.T) {
	cases := []struct {
		name string
		ok   bool
	}{
		{"amount", true},
		{"_private", true},
		{"a1", true},
		{"1a", false},
		{"", false},
		{"has-dash", false},
		{"has.dot", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.ok, isValidFieldName(c.name), c.name)
	}
}
