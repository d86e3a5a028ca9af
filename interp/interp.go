// Package interp implements the ITMOScript evaluator: a recursive walk
// of the AST against a lexical scope chain and an output sink,
// surfacing LexError/ParseError/NameError/TypeError/ArgError/
// RangeError/ArithError/CallError as the single RuntimeError kind, and
// break/continue/return as three distinguishable non-local exits.
//
// Two public entry points: Interpret is the one-shot form (a fresh
// interpreter, one program, a success flag); New plus
// (*Interpreter).Eval is the persistent, shared-global-scope form the
// REPL shell uses. The command-line driver also uses New plus Eval, so
// that it can pass in its own logger.
package interp

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/nikitos212/itmoscript/ast"
	"github.com/nikitos212/itmoscript/parser"
	"github.com/nikitos212/itmoscript/scope"
	"github.com/nikitos212/itmoscript/value"
)

// Options configures a new Interpreter. Stdin/Stdout default to the
// process streams when left nil.
type Options struct {
	Stdin  io.Reader
	Stdout io.Writer
	Logger *logrus.Logger
}

// Interpreter holds the state that must outlive a single Eval call:
// the shared global scope and the observable call stack.
type Interpreter struct {
	stdin  *bufio.Reader
	stdout io.Writer
	log    *logrus.Logger

	global    *scope.Scope
	callStack []string
}

// New returns a persistent interpreter with a fresh global scope.
// Successive calls to Eval share that scope, the way a REPL session
// accumulates bindings across lines.
func New(opt Options) *Interpreter {
	stdin := opt.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	i := &Interpreter{
		// Wrapped once and kept for the interpreter's lifetime: read()
		// may be called many times across one program (or many Eval
		// snippets in a REPL session), and a fresh bufio.Reader per
		// call would silently drop whatever it had already buffered
		// past the last newline.
		stdin:  bufio.NewReader(stdin),
		stdout: opt.Stdout,
		log:    opt.Logger,
		global: scope.NewRoot(),
	}
	if i.stdout == nil {
		i.stdout = os.Stdout
	}
	if i.log == nil {
		i.log = logrus.New()
		i.log.SetOutput(io.Discard)
	}
	return i
}

// Eval parses and evaluates src against the interpreter's shared
// global scope, returning the value the last top-level statement
// evaluated to (an assignment yields the assigned value; if/for/while
// and an empty program yield Nil{}). A failure is reported both as a
// "Error: ..." line on the sink and as the returned error. Bindings made
// before the failure, including any the failing statement itself had
// already made, stay in the global scope; nothing is rolled back, and
// the next Eval call continues the session.
func (i *Interpreter) Eval(src string) (value.Value, error) {
	prog, err := parser.Parse(src)
	if err != nil {
		return i.fail(wrapParseError(err))
	}

	var last value.Value = value.Nil{}
	for _, stmt := range prog.Statements {
		v, err := i.eval(stmt, i.global)
		if err != nil {
			if _, ok := err.(returnSignal); ok {
				return i.fail(newErr(CallError, "", "return outside function"))
			}
			if _, ok := err.(breakSignal); ok {
				return i.fail(newErr(CallError, "", "break outside loop"))
			}
			if _, ok := err.(continueSignal); ok {
				return i.fail(newErr(CallError, "", "continue outside loop"))
			}
			return i.fail(err)
		}
		last = v
	}
	return last, nil
}

func (i *Interpreter) fail(err error) (value.Value, error) {
	i.log.WithError(err).Debug("evaluation failed")
	fmt.Fprintf(i.stdout, "Error: %s\n", errMessage(err))
	return value.Nil{}, err
}

// errMessage renders err for the sink: a RuntimeError renders as
// "<Kind> at <pos>: <message>" (or "<Kind>: <message>" with no
// position), any other error as its own Error() text.
func errMessage(err error) string {
	if re, ok := asRuntimeError(err); ok {
		return re.Error()
	}
	return err.Error()
}

func wrapParseError(err error) error {
	if pe, ok := err.(*parser.Error); ok {
		return newErr(ParseError, pe.Pos.String(), "%s", pe.Msg)
	}
	return newErr(LexError, "", "%s", err.Error())
}

// Interpret is the one-shot entry point: parse and evaluate source as
// a complete program against a fresh interpreter, returning true on
// success and false on any error (after writing "Error: ..." to out).
func Interpret(source string, out io.Writer) bool {
	it := New(Options{Stdout: out})
	_, err := it.Eval(source)
	return err == nil
}

// ---- the recursive walk ----

func (i *Interpreter) eval(n ast.Node, sc *scope.Scope) (value.Value, error) {
	switch node := n.(type) {
	case *ast.IntLit:
		return value.Int(node.Value), nil
	case *ast.FloatLit:
		return value.Float(node.Value), nil
	case *ast.StringLit:
		return value.String(node.Value), nil
	case *ast.BoolLit:
		return value.Bool(node.Value), nil
	case *ast.NilLit:
		return value.Nil{}, nil

	case *ast.Ident:
		v, ok := sc.Get(node.Name)
		if !ok {
			return nil, newErr(NameError, node.Pos.String(), "undefined variable %q", node.Name)
		}
		return v.(value.Value), nil

	case *ast.Assign:
		v, err := i.eval(node.Value, sc)
		if err != nil {
			return nil, err
		}
		// A function literal assigned directly to a name takes that
		// name for display in stacktrace(), the same way
		// `fact = function(n) ... end function` lets recursive calls
		// to fact(n-1) show up as "fact" rather than "<anon>".
		if fn, ok := v.(*value.Function); ok && fn.Name == "<anon>" {
			if _, isLit := node.Value.(*ast.FuncLit); isLit {
				fn.Name = node.Name
			}
		}
		sc.Set(node.Name, v)
		return v, nil

	case *ast.BinaryOp:
		return i.evalBinary(node, sc)
	case *ast.UnaryOp:
		return i.evalUnary(node, sc)

	case *ast.ListLit:
		items := make([]value.Value, 0, len(node.Elems))
		for _, e := range node.Elems {
			v, err := i.eval(e, sc)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return value.NewList(items), nil

	case *ast.Index:
		return i.evalIndex(node, sc)
	case *ast.Slice:
		return i.evalSlice(node, sc)

	case *ast.Call:
		return i.evalCall(node, sc)

	case *ast.FuncLit:
		return &value.Function{Name: "<anon>", Params: node.Params, Body: node.Body}, nil

	case *ast.If:
		return i.evalIf(node, sc)
	case *ast.ForRange:
		return i.evalForRange(node, sc)
	case *ast.ForEach:
		return i.evalForEach(node, sc)
	case *ast.While:
		return i.evalWhile(node, sc)

	case *ast.Break:
		return nil, breakSignal{}
	case *ast.Continue:
		return nil, continueSignal{}
	case *ast.Return:
		if node.Value == nil {
			return nil, returnSignal{Value: value.Nil{}}
		}
		v, err := i.eval(node.Value, sc)
		if err != nil {
			return nil, err
		}
		return nil, returnSignal{Value: v}

	case *ast.BuiltinCall:
		return i.evalBuiltin(node, sc)
	}

	return nil, newErr(ParseError, n.Position().String(), "unhandled node %T", n)
}
