package scanner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nikitos212/itmoscript/token"
)

func scanAll(t *testing.T, src string) []token.Token {
	t.Helper()
	s := New(src)
	var toks []token.Token
	for {
		tok, err := s.Next()
		require.NoError(t, err)
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestScanNumbers(t *testing.T) {
	toks := scanAll(t, "42 3.14 1e3 2.5e-2")
	require.Len(t, toks, 5)
	require.Equal(t, token.INT, toks[0].Kind)
	require.Equal(t, "42", toks[0].Lexeme)
	require.Equal(t, token.FLOAT, toks[1].Kind)
	require.Equal(t, token.FLOAT, toks[2].Kind)
	require.Equal(t, token.FLOAT, toks[3].Kind)
}

func TestScanMalformedExponent(t *testing.T) {
	s := New("1e")
	_, err := s.Next()
	require.Error(t, err)
}

func TestScanString(t *testing.T) {
	toks := scanAll(t, `"hello\nworld"`)
	require.Equal(t, token.STRING, toks[0].Kind)
	require.Equal(t, "hello\nworld", toks[0].Lexeme)
}

func TestScanUnterminatedString(t *testing.T) {
	s := New(`"abc`)
	_, err := s.Next()
	require.Error(t, err)
}

func TestScanUnknownEscape(t *testing.T) {
	s := New(`"\q"`)
	_, err := s.Next()
	require.Error(t, err)
}

func TestEndFusion(t *testing.T) {
	toks := kinds(scanAll(t, "end if end for end while end function end"))
	require.Equal(t, []token.Kind{
		token.ENDIF, token.ENDFOR, token.ENDWHILE, token.ENDFUNCTION, token.END, token.EOF,
	}, toks)
}

func TestOperatorLookahead(t *testing.T) {
	toks := kinds(scanAll(t, "= == != < <= > >= += -= *= /= %= ^="))
	require.Equal(t, []token.Kind{
		token.ASSIGN, token.EQ, token.NEQ, token.LT, token.LE, token.GT, token.GE,
		token.PLUSEQ, token.MINUSEQ, token.STAREQ, token.SLASHEQ, token.PERCENTEQ, token.CARETEQ,
		token.EOF,
	}, toks)
}

func TestLineComment(t *testing.T) {
	toks := scanAll(t, "1 // comment\n2")
	require.Equal(t, []token.Kind{token.INT, token.INT, token.EOF}, kinds(toks))
	require.Equal(t, 2, toks[1].Pos.Line)
}

func TestKeywordVsIdent(t *testing.T) {
	toks := kinds(scanAll(t, "if iffy"))
	require.Equal(t, []token.Kind{token.IF, token.IDENT, token.EOF}, toks)
}

func TestUnexpectedCharacter(t *testing.T) {
	s := New("@")
	_, err := s.Next()
	require.Error(t, err)
}

// Joining every scanned lexeme with spaces and scanning again must
// yield the same token stream.
func TestTokenStreamRoundTrip(t *testing.T) {
	src := "x = 1 + 2 * 3\nif x >= 7 then\nprintln(x)\nend if\nfor i in range(0, 3)\nx -= i\nend for"
	first := scanAll(t, src)

	var b strings.Builder
	for _, tok := range first {
		if tok.Kind == token.EOF {
			break
		}
		b.WriteString(tok.Lexeme)
		b.WriteByte(' ')
	}
	second := scanAll(t, b.String())
	require.Equal(t, kinds(first), kinds(second))
}
