package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	cases := []struct {
		ident string
		want  Kind
	}{
		{"if", IF},
		{"end", IDENT}, // "end" itself is handled by the scanner's fusion, not reserved here
		{"function", FUNCTION},
		{"max", MAXFN},
		{"MAX", MAXFN},
		{"min", MINFN},
		{"MIN", MINFN},
		{"print", PRINT},
		{"x", IDENT},
		{"_foo123", IDENT},
	}
	for _, c := range cases {
		t.Run(c.ident, func(t *testing.T) {
			assert.Equal(t, c.want, Lookup(c.ident))
		})
	}
}

func TestIsReserved(t *testing.T) {
	assert.True(t, IsReserved("while"))
	assert.True(t, IsReserved("sort"))
	assert.False(t, IsReserved("counter"))
}

func TestEndFusion(t *testing.T) {
	k, ok := EndFusion("if")
	assert.True(t, ok)
	assert.Equal(t, ENDIF, k)

	_, ok = EndFusion("banana")
	assert.False(t, ok)
}

func TestPositionString(t *testing.T) {
	assert.Equal(t, "3:7", Position{Line: 3, Column: 7}.String())
}

func TestTokenString(t *testing.T) {
	tok := Token{Kind: IDENT, Lexeme: "foo", Pos: Position{Line: 1, Column: 1}}
	assert.Equal(t, `IDENT("foo")`, tok.String())

	tok2 := Token{Kind: EOF, Pos: Position{Line: 1, Column: 1}}
	assert.Equal(t, "EOF", tok2.String())
}
