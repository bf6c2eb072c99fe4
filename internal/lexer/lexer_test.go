package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-lang/lumen/internal/lexer"
)

func scanAll(source string) []lexer.Token {
	l := lexer.New(source)
	var tokens []lexer.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == lexer.EOF {
			return tokens
		}
	}
}

func TestScansPunctuationAndOperators(t *testing.T) {
	tokens := scanAll("(){},.-+;/*!!====<<=>>=")
	want := []lexer.Type{
		lexer.LEFT_PAREN, lexer.RIGHT_PAREN, lexer.LEFT_BRACE, lexer.RIGHT_BRACE,
		lexer.COMMA, lexer.DOT, lexer.MINUS, lexer.PLUS, lexer.SEMICOLON,
		lexer.SLASH, lexer.STAR,
		lexer.BANG, lexer.BANG_EQUAL, lexer.EQUAL_EQUAL, lexer.EQUAL,
		lexer.LESS, lexer.LESS_EQUAL, lexer.GREATER, lexer.GREATER_EQUAL,
		lexer.EOF,
	}
	require.Len(t, tokens, len(want))
	for i, tok := range tokens {
		assert.Equalf(t, want[i], tok.Type, "token %d", i)
	}
}

func TestSkipsLineCommentsAndWhitespace(t *testing.T) {
	tokens := scanAll("// a comment\n  print // trailing\n 1;")
	var kinds []lexer.Type
	for _, tok := range tokens {
		kinds = append(kinds, tok.Type)
	}
	assert.Equal(t, []lexer.Type{lexer.PRINT, lexer.NUMBER, lexer.SEMICOLON, lexer.EOF}, kinds)
}

func TestIdentifiersAndKeywords(t *testing.T) {
	source := "class fun hello_world _x2 while"
	tokens := scanAll(source)
	assert.Equal(t, lexer.CLASS, tokens[0].Type)
	assert.Equal(t, lexer.FUN, tokens[1].Type)
	assert.Equal(t, lexer.IDENTIFIER, tokens[2].Type)
	assert.Equal(t, "hello_world", tokens[2].Lexeme(source))
	assert.Equal(t, lexer.IDENTIFIER, tokens[3].Type)
	assert.Equal(t, lexer.WHILE, tokens[4].Type)
}

func TestNumberLiterals(t *testing.T) {
	source := "123 45.67"
	tokens := scanAll(source)
	assert.Equal(t, "123", tokens[0].Lexeme(source))
	assert.Equal(t, "45.67", tokens[1].Lexeme(source))
}

func TestStringLiteralTracksLineAndUnterminated(t *testing.T) {
	source := "\"hello\"\n\"unterminated"
	tokens := scanAll(source)
	require.GreaterOrEqual(t, len(tokens), 2)
	assert.Equal(t, lexer.STRING, tokens[0].Type)
	assert.Equal(t, "\"hello\"", tokens[0].Lexeme(source))
	assert.Equal(t, 1, tokens[0].Line)
	assert.Equal(t, lexer.ERROR, tokens[1].Type)
	assert.Equal(t, 2, tokens[1].Line)
	assert.Equal(t, "Unterminated string.", tokens[1].Message())
}

func TestUnexpectedCharacterIsAnErrorToken(t *testing.T) {
	tokens := scanAll("@")
	assert.Equal(t, lexer.ERROR, tokens[0].Type)
	assert.Equal(t, "Unexpected character.", tokens[0].Message())
}
