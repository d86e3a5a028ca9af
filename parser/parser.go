// Package parser implements a recursive-descent parser with precedence
// climbing for expressions, turning a token stream from the scanner
// package into an *ast.Program.
package parser

import (
	"fmt"
	"strconv"

	"github.com/nikitos212/itmoscript/ast"
	"github.com/nikitos212/itmoscript/scanner"
	"github.com/nikitos212/itmoscript/token"
)

func parseInt(lexeme string) (int64, error) {
	return strconv.ParseInt(lexeme, 10, 64)
}

func parseFloat(lexeme string) (float64, error) {
	return strconv.ParseFloat(lexeme, 64)
}

// Error is a syntax error: a token was encountered where the grammar
// required something else.
type Error struct {
	Pos token.Position
	Msg string
}

func (e *Error) Error() string { return fmt.Sprintf("%s at %s", e.Msg, e.Pos) }

// Parser consumes tokens from a Scanner with one token of lookahead.
type Parser struct {
	sc   *scanner.Scanner
	cur  token.Token
	next token.Token
}

// Parse scans and parses a complete source string into a Program.
func Parse(src string) (*ast.Program, error) {
	p := &Parser{sc: scanner.New(src)}
	if err := p.prime(); err != nil {
		return nil, err
	}
	return p.parseProgram()
}

func (p *Parser) prime() error {
	t0, err := p.sc.Next()
	if err != nil {
		return err
	}
	t1, err := p.sc.Next()
	if err != nil {
		return err
	}
	p.cur, p.next = t0, t1
	return nil
}

func (p *Parser) advance() token.Token {
	tok := p.cur
	p.cur = p.next
	nt, err := p.sc.Next()
	if err != nil {
		// Surface the lex error the next time it's consulted by
		// stashing it as an ILLEGAL token; parsePrimary will reject it.
		p.next = token.Token{Kind: token.ILLEGAL, Lexeme: err.Error(), Pos: nt.Pos}
	} else {
		p.next = nt
	}
	return tok
}

func (p *Parser) check(k token.Kind) bool { return p.cur.Kind == k }

func (p *Parser) match(k token.Kind) bool {
	if p.check(k) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(k token.Kind) (token.Token, error) {
	if p.check(k) {
		return p.advance(), nil
	}
	return token.Token{}, &Error{
		Pos: p.cur.Pos,
		Msg: fmt.Sprintf("expected %s, got %s", k, p.cur.Kind),
	}
}

// expectEnd accepts either the specific fused end-<kw> token or a bare
// "end", per the lenient block-closing rule.
func (p *Parser) expectEnd(k token.Kind) error {
	if p.check(k) || p.check(token.END) {
		p.advance()
		return nil
	}
	return &Error{Pos: p.cur.Pos, Msg: fmt.Sprintf("expected %s, got %s", k, p.cur.Kind)}
}

func (p *Parser) parseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	for !p.check(token.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmt)
	}
	return prog, nil
}

// parseBlock parses statements until one of the given terminator kinds
// (checked against cur, also matching a bare END) is reached.
func (p *Parser) parseBlock(terminators ...token.Kind) ([]ast.Node, error) {
	var body []ast.Node
	for {
		if p.check(token.EOF) {
			return nil, &Error{Pos: p.cur.Pos, Msg: "unexpected end of input inside block"}
		}
		if p.check(token.END) {
			return body, nil
		}
		for _, t := range terminators {
			if p.check(t) {
				return body, nil
			}
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
}

func (p *Parser) parseStatement() (ast.Node, error) {
	switch p.cur.Kind {
	case token.IF:
		return p.parseIf()
	case token.FOR:
		return p.parseFor()
	case token.WHILE:
		return p.parseWhile()
	case token.BREAK:
		pos := p.advance().Pos
		return &ast.Break{Pos: pos}, nil
	case token.CONTINUE:
		pos := p.advance().Pos
		return &ast.Continue{Pos: pos}, nil
	case token.RETURN:
		return p.parseReturn()
	case token.IDENT:
		if isAssignOp(p.next.Kind) {
			return p.parseAssign()
		}
	}
	return p.parseExpression()
}

func isAssignOp(k token.Kind) bool {
	switch k {
	case token.ASSIGN, token.PLUSEQ, token.MINUSEQ, token.STAREQ, token.SLASHEQ, token.PERCENTEQ, token.CARETEQ:
		return true
	}
	return false
}

var compoundToBinary = map[token.Kind]token.Kind{
	token.PLUSEQ:    token.PLUS,
	token.MINUSEQ:   token.MINUS,
	token.STAREQ:    token.STAR,
	token.SLASHEQ:   token.SLASH,
	token.PERCENTEQ: token.PERCENT,
	token.CARETEQ:   token.CARET,
}

func (p *Parser) parseAssign() (ast.Node, error) {
	nameTok := p.advance() // IDENT
	opTok := p.advance()   // assignment operator
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if opTok.Kind == token.ASSIGN {
		return &ast.Assign{Pos: nameTok.Pos, Name: nameTok.Lexeme, Value: value}, nil
	}
	binOp := compoundToBinary[opTok.Kind]
	desugared := &ast.BinaryOp{
		Pos:   opTok.Pos,
		Op:    binOp,
		Left:  ast.NewIdent(nameTok.Pos, nameTok.Lexeme),
		Right: value,
	}
	return &ast.Assign{Pos: nameTok.Pos, Name: nameTok.Lexeme, Value: desugared}, nil
}

func (p *Parser) parseReturn() (ast.Node, error) {
	pos := p.advance().Pos // return
	if p.atStatementBoundary() {
		return &ast.Return{Pos: pos}, nil
	}
	val, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.Return{Pos: pos, Value: val}, nil
}

// atStatementBoundary reports whether cur cannot start an expression,
// meaning a preceding `return` has no operand.
func (p *Parser) atStatementBoundary() bool {
	switch p.cur.Kind {
	case token.EOF, token.END, token.ENDIF, token.ENDFOR, token.ENDWHILE, token.ENDFUNCTION,
		token.ELSE, token.IF, token.FOR, token.WHILE, token.BREAK, token.CONTINUE, token.RETURN:
		return true
	}
	return false
}

func (p *Parser) parseIf() (ast.Node, error) {
	pos := p.advance().Pos // if
	n := &ast.If{Pos: pos}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	n.Cond = cond
	if _, err := p.expect(token.THEN); err != nil {
		return nil, err
	}
	body, err := p.parseBlock(token.ELSE, token.ENDIF)
	if err != nil {
		return nil, err
	}
	n.Then = body

	for p.check(token.ELSE) && p.next.Kind == token.IF {
		p.advance() // else
		p.advance() // if
		econd, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.THEN); err != nil {
			return nil, err
		}
		ebody, err := p.parseBlock(token.ELSE, token.ENDIF)
		if err != nil {
			return nil, err
		}
		n.ElseIfs = append(n.ElseIfs, ast.ElseIf{Cond: econd, Body: ebody})
	}

	if p.match(token.ELSE) {
		ebody, err := p.parseBlock(token.ENDIF)
		if err != nil {
			return nil, err
		}
		n.Else = ebody
	}

	if err := p.expectEnd(token.ENDIF); err != nil {
		return nil, err
	}
	return n, nil
}

func (p *Parser) parseWhile() (ast.Node, error) {
	pos := p.advance().Pos // while
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock(token.ENDWHILE)
	if err != nil {
		return nil, err
	}
	if err := p.expectEnd(token.ENDWHILE); err != nil {
		return nil, err
	}
	return &ast.While{Pos: pos, Cond: cond, Body: body}, nil
}

func (p *Parser) parseFor() (ast.Node, error) {
	pos := p.advance().Pos // for
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.IN); err != nil {
		return nil, err
	}

	if p.check(token.IDENT) && p.cur.Lexeme == "range" && p.next.Kind == token.LPAREN {
		p.advance() // range
		p.advance() // (
		var bounds []ast.Node
		for !p.check(token.RPAREN) {
			e, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			bounds = append(bounds, e)
			if !p.match(token.COMMA) {
				break
			}
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		var start, end, step ast.Node
		switch len(bounds) {
		case 1:
			start, end, step = ast.NewIntLit(pos, 0), bounds[0], ast.NewIntLit(pos, 1)
		case 2:
			start, end, step = bounds[0], bounds[1], ast.NewIntLit(pos, 1)
		case 3:
			start, end, step = bounds[0], bounds[1], bounds[2]
		default:
			return nil, &Error{Pos: pos, Msg: "range() takes 1 to 3 arguments"}
		}
		body, err := p.parseBlock(token.ENDFOR)
		if err != nil {
			return nil, err
		}
		if err := p.expectEnd(token.ENDFOR); err != nil {
			return nil, err
		}
		return &ast.ForRange{Pos: pos, Var: nameTok.Lexeme, Start: start, End: end, Step: step, Body: body}, nil
	}

	iter, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock(token.ENDFOR)
	if err != nil {
		return nil, err
	}
	if err := p.expectEnd(token.ENDFOR); err != nil {
		return nil, err
	}
	return &ast.ForEach{Pos: pos, Var: nameTok.Lexeme, Iterable: iter, Body: body}, nil
}

// ---- expressions ----

func (p *Parser) parseExpression() (ast.Node, error) { return p.parseOr() }

func (p *Parser) parseOr() (ast.Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.check(token.OR) {
		pos := p.advance().Pos
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Pos: pos, Op: token.OR, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Node, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.check(token.AND) {
		pos := p.advance().Pos
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Pos: pos, Op: token.AND, Left: left, Right: right}
	}
	return left, nil
}

func isComparisonOp(k token.Kind) bool {
	switch k {
	case token.EQ, token.NEQ, token.LT, token.GT, token.LE, token.GE:
		return true
	}
	return false
}

func (p *Parser) parseComparison() (ast.Node, error) {
	left, err := p.parseArith()
	if err != nil {
		return nil, err
	}
	for isComparisonOp(p.cur.Kind) {
		pos := p.cur.Pos
		op := p.advance().Kind
		right, err := p.parseArith()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Pos: pos, Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseArith() (ast.Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == token.PLUS || p.cur.Kind == token.MINUS {
		pos := p.cur.Pos
		op := p.advance().Kind
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Pos: pos, Op: op, Left: left, Right: right}
	}
	return left, nil
}

func isTermOp(k token.Kind) bool {
	switch k {
	case token.STAR, token.SLASH, token.PERCENT, token.CARET:
		return true
	}
	return false
}

func (p *Parser) parseTerm() (ast.Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for isTermOp(p.cur.Kind) {
		pos := p.cur.Pos
		op := p.advance().Kind
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Pos: pos, Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Node, error) {
	if p.check(token.NOT) {
		pos := p.advance().Pos
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Pos: pos, Op: token.NOT, Operand: operand}, nil
	}
	if p.check(token.MINUS) {
		pos := p.advance().Pos
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Pos: pos, Op: token.MINUS, Operand: operand}, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (ast.Node, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur.Kind {
		case token.LPAREN:
			pos := p.advance().Pos
			args, err := p.parseArgs(token.RPAREN)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RPAREN); err != nil {
				return nil, err
			}
			expr = &ast.Call{Pos: pos, Callee: expr, Args: args}
		case token.LBRACKET:
			pos := p.advance().Pos
			next, err := p.parseIndexOrSlice(expr, pos)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBRACKET); err != nil {
				return nil, err
			}
			expr = next
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parseIndexOrSlice(container ast.Node, pos token.Position) (ast.Node, error) {
	var start ast.Node
	if !p.check(token.COLON) {
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		start = e
	}
	if !p.match(token.COLON) {
		return &ast.Index{Pos: pos, Container: container, Index: start}, nil
	}
	var end ast.Node
	if !p.check(token.RBRACKET) {
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		end = e
	}
	return &ast.Slice{Pos: pos, Container: container, Start: start, End: end}, nil
}

func (p *Parser) parseArgs(end token.Kind) ([]ast.Node, error) {
	var args []ast.Node
	for !p.check(end) {
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, e)
		if !p.match(token.COMMA) {
			break
		}
	}
	return args, nil
}

// builtinKinds is the set of token kinds that open a built-in call.
// Arity is not checked here: an arity mismatch is a runtime ArgError,
// validated by the evaluator only if the call is actually reached.
var builtinKinds = map[token.Kind]bool{
	token.PRINT:      true,
	token.PRINTLN:    true,
	token.READ:       true,
	token.STACKTRACE: true,
	token.LEN:        true,
	token.MAXFN:      true,
	token.MINFN:      true,
	token.ABS:        true,
	token.CEIL:       true,
	token.FLOOR:      true,
	token.ROUND:      true,
	token.SQRT:       true,
	token.RND:        true,
	token.PARSENUM:   true,
	token.TOSTRING:   true,
	token.LOWER:      true,
	token.UPPER:      true,
	token.SPLIT:      true,
	token.JOIN:       true,
	token.REPLACE:    true,
	token.PUSH:       true,
	token.POP:        true,
	token.SORT:       true,
	token.REMOVE:     true,
	token.INSERT:     true,
}

func isBuiltin(k token.Kind) bool {
	return builtinKinds[k]
}

// parseBuiltinCall only parses the call shape; arity is a runtime
// concern, validated by the evaluator when the call is reached.
func (p *Parser) parseBuiltinCall(kind token.Kind, pos token.Position) (ast.Node, error) {
	p.advance() // the builtin keyword
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	args, err := p.parseArgs(token.RPAREN)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return &ast.BuiltinCall{Pos: pos, Name: kind, Args: args}, nil
}

func (p *Parser) parsePrimary() (ast.Node, error) {
	tok := p.cur
	switch tok.Kind {
	case token.INT:
		p.advance()
		v, err := parseInt(tok.Lexeme)
		if err != nil {
			return nil, &Error{Pos: tok.Pos, Msg: err.Error()}
		}
		return ast.NewIntLit(tok.Pos, v), nil
	case token.FLOAT:
		p.advance()
		v, err := parseFloat(tok.Lexeme)
		if err != nil {
			return nil, &Error{Pos: tok.Pos, Msg: err.Error()}
		}
		return ast.NewFloatLit(tok.Pos, v), nil
	case token.STRING:
		p.advance()
		return ast.NewStringLit(tok.Pos, tok.Lexeme), nil
	case token.TRUE:
		p.advance()
		return ast.NewBoolLit(tok.Pos, true), nil
	case token.FALSE:
		p.advance()
		return ast.NewBoolLit(tok.Pos, false), nil
	case token.NIL:
		p.advance()
		return ast.NewNilLit(tok.Pos), nil
	case token.IDENT:
		p.advance()
		return ast.NewIdent(tok.Pos, tok.Lexeme), nil
	case token.LPAREN:
		p.advance()
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return e, nil
	case token.LBRACKET:
		return p.parseListLit()
	case token.FUNCTION:
		return p.parseFuncLit()
	}
	if isBuiltin(tok.Kind) {
		return p.parseBuiltinCall(tok.Kind, tok.Pos)
	}
	if tok.Kind == token.ILLEGAL {
		return nil, &Error{Pos: tok.Pos, Msg: tok.Lexeme}
	}
	return nil, &Error{Pos: tok.Pos, Msg: fmt.Sprintf("unexpected token %s", tok.Kind)}
}

func (p *Parser) parseListLit() (ast.Node, error) {
	pos := p.advance().Pos // [
	var elems []ast.Node
	for !p.check(token.RBRACKET) {
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if !p.match(token.COMMA) {
			break
		}
	}
	if _, err := p.expect(token.RBRACKET); err != nil {
		return nil, err
	}
	return &ast.ListLit{Pos: pos, Elems: elems}, nil
}

func (p *Parser) parseFuncLit() (ast.Node, error) {
	pos := p.advance().Pos // function
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var params []string
	for !p.check(token.RPAREN) {
		nameTok, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		params = append(params, nameTok.Lexeme)
		if !p.match(token.COMMA) {
			break
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseBlock(token.ENDFUNCTION)
	if err != nil {
		return nil, err
	}
	if err := p.expectEnd(token.ENDFUNCTION); err != nil {
		return nil, err
	}
	return &ast.FuncLit{Pos: pos, Params: params, Body: body}, nil
}
