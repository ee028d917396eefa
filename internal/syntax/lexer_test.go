package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenKinds(t *testing.T, tokens []Token) []TokKind {
	t.Helper()
	kinds := make([]TokKind, len(tokens))
	for i, tok := range tokens {
		kinds[i] = tok.Kind
	}
	return kinds
}

func TestLexerPunctuationAndOperators(t *testing.T) {
	tokens, err := NewLexer().Tokenize("a.b[0][*]|| && ==!=<=<>=> [] [?")
	require.NoError(t, err)
	assert.Equal(t, []TokKind{
		TokUnquotedIdentifier, TokDot, TokUnquotedIdentifier,
		TokLbracket, TokNumber, TokRbracket,
		TokLbracket, TokStar, TokRbracket,
		TokOr, TokAnd,
		TokEQ, TokNE, TokLTE, TokLT, TokGTE, TokGT,
		TokFlatten, TokFilter,
		TokEOF,
	}, tokenKinds(t, tokens))
}

func TestLexerQuotedIdentifierEscapes(t *testing.T) {
	tokens, err := NewLexer().Tokenize(`"a\"bc"`)
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, TokQuotedIdentifier, tokens[0].Kind)
	assert.Equal(t, `a"bc`, tokens[0].Lexeme)
}

func TestLexerRawStringOnlyEscapesBackslashAndQuote(t *testing.T) {
	tokens, err := NewLexer().Tokenize(`'a\'b\nc'`)
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, TokRawString, tokens[0].Kind)
	assert.Equal(t, `a'b\nc`, tokens[0].Lexeme)
}

func TestLexerJSONLiteralKeepsRawText(t *testing.T) {
	tokens, err := NewLexer().Tokenize("`{\"a\": 1}`")
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, TokJSONLiteral, tokens[0].Kind)
	assert.Equal(t, `{"a": 1}`, tokens[0].Lexeme)
}

func TestLexerNegativeNumber(t *testing.T) {
	tokens, err := NewLexer().Tokenize("[-12]")
	require.NoError(t, err)
	require.Len(t, tokens, 4)
	assert.Equal(t, TokNumber, tokens[1].Kind)
	assert.Equal(t, "-12", tokens[1].Lexeme)
}

func TestLexerUnterminatedStringIsSyntaxError(t *testing.T) {
	_, err := NewLexer().Tokenize(`'unterminated`)
	require.Error(t, err)
	var synErr SyntaxError
	require.ErrorAs(t, err, &synErr)
}

func TestLexerInvalidCharacter(t *testing.T) {
	_, err := NewLexer().Tokenize("a = b")
	require.Error(t, err)
}

func TestLexerPositionTracksByteOffset(t *testing.T) {
	tokens, err := NewLexer().Tokenize("ab.cd")
	require.NoError(t, err)
	require.Len(t, tokens, 4)
	assert.Equal(t, 0, tokens[0].Position)
	assert.Equal(t, 2, tokens[1].Position)
	assert.Equal(t, 3, tokens[2].Position)
}
