package ruleengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexAllBasicTokens(t *testing.T) {
	tokens, err := LexAll(`rule "r1" { priority: 10, enabled: true if (x >= 1 && y != null) { } }`)
	require.NoError(t, err)

	var kinds []TokenKind
	for _, tok := range tokens {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, TokenRule, kinds[0])
	assert.Equal(t, TokenString, kinds[1])
	assert.Equal(t, TokenEOF, kinds[len(kinds)-1])
}

func TestLexNumberLiterals(t *testing.T) {
	tokens, err := LexAll("42 3.14")
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, TokenInt, tokens[0].Kind)
	assert.Equal(t, int64(42), tokens[0].IntVal)
	assert.Equal(t, TokenFloat, tokens[1].Kind)
	assert.InDelta(t, 3.14, tokens[1].FloatVal, 0)
}

func TestLexStringEscapes(t *testing.T) {
	tokens, err := LexAll(`"a\nb\t\"c\\d"`)
	require.NoError(t, err)
	require.Equal(t, TokenString, tokens[0].Kind)
	assert.Equal(t, "a\nb\t\"c\\d", tokens[0].Lit)
}

func TestLexCommentsAreSkipped(t *testing.T) {
	tokens, err := LexAll("1 // a line comment\n/* a block\ncomment */2")
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, int64(1), tokens[0].IntVal)
	assert.Equal(t, int64(2), tokens[1].IntVal)
}

func TestLexUnterminatedStringFails(t *testing.T) {
	_, err := LexAll(`"abc`)
	require.Error(t, err)
	var ce *CompilationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrParse, ce.Kind)
}

func TestLexUnexpectedCharacterFails(t *testing.T) {
	_, err := LexAll("$")
	require.Error(t, err)
}

func TestLexLineColTracking(t *testing.T) {
	tokens, err := LexAll("a\nb")
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, 1, tokens[0].Line)
	assert.Equal(t, 2, tokens[1].Line)
}

func TestLexKeywordsVsIdentifiers(t *testing.T) {
	tokens, err := LexAll("if else return true false null letter")
	require.NoError(t, err)
	want := []TokenKind{TokenIf, TokenElse, TokenReturn, TokenTrue, TokenFalse, TokenNull, TokenIdentifier, TokenEOF}
	for i, k := range want {
		assert.Equal(t, k, tokens[i].Kind, "token %d", i)
	}
}
