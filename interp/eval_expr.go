package interp

import (
	"strconv"

	"github.com/nikitos212/itmoscript/ast"
	"github.com/nikitos212/itmoscript/scope"
	"github.com/nikitos212/itmoscript/token"
	"github.com/nikitos212/itmoscript/value"
)

func (i *Interpreter) evalBinary(node *ast.BinaryOp, sc *scope.Scope) (value.Value, error) {
	pos := node.Pos.String()

	// and/or short-circuit: the right side is only evaluated when the
	// left side did not already decide the result.
	if node.Op == token.AND {
		left, err := i.eval(node.Left, sc)
		if err != nil {
			return nil, err
		}
		if !left.Truthy() {
			return value.Bool(false), nil
		}
		right, err := i.eval(node.Right, sc)
		if err != nil {
			return nil, err
		}
		return value.Bool(right.Truthy()), nil
	}
	if node.Op == token.OR {
		left, err := i.eval(node.Left, sc)
		if err != nil {
			return nil, err
		}
		if left.Truthy() {
			return value.Bool(true), nil
		}
		right, err := i.eval(node.Right, sc)
		if err != nil {
			return nil, err
		}
		return value.Bool(right.Truthy()), nil
	}

	left, err := i.eval(node.Left, sc)
	if err != nil {
		return nil, err
	}
	right, err := i.eval(node.Right, sc)
	if err != nil {
		return nil, err
	}

	switch node.Op {
	case token.PLUS:
		v, err := value.Add(left, right)
		return v, wrapOpErr(err, pos)
	case token.MINUS:
		v, err := value.Sub(left, right)
		return v, wrapOpErr(err, pos)
	case token.STAR:
		v, err := value.Mul(left, right)
		return v, wrapArithErr(err, pos)
	case token.SLASH:
		v, err := value.Div(left, right)
		return v, wrapArithErr(err, pos)
	case token.PERCENT:
		v, err := value.Mod(left, right)
		return v, wrapArithErr(err, pos)
	case token.CARET:
		v, err := value.Pow(left, right)
		return v, wrapOpErr(err, pos)
	case token.EQ:
		eq, err := value.Equal(left, right)
		return value.Bool(eq), wrapTypeErr(err, pos)
	case token.NEQ:
		eq, err := value.Equal(left, right)
		return value.Bool(!eq), wrapTypeErr(err, pos)
	case token.LT, token.GT, token.LE, token.GE:
		c, err := value.Compare(left, right)
		if err != nil {
			return nil, wrapTypeErr(err, pos)
		}
		switch node.Op {
		case token.LT:
			return value.Bool(c < 0), nil
		case token.GT:
			return value.Bool(c > 0), nil
		case token.LE:
			return value.Bool(c <= 0), nil
		default:
			return value.Bool(c >= 0), nil
		}
	}
	return nil, newErr(TypeError, pos, "unsupported operator %s", node.Op)
}

func wrapOpErr(err error, pos string) error {
	if err == nil {
		return nil
	}
	return newErr(TypeError, pos, "%s", err.Error())
}

func wrapTypeErr(err error, pos string) error {
	if err == nil {
		return nil
	}
	return newErr(TypeError, pos, "%s", err.Error())
}

func wrapArithErr(err error, pos string) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*value.OpError); ok {
		return newErr(TypeError, pos, "%s", err.Error())
	}
	return newErr(ArithError, pos, "%s", err.Error())
}

func (i *Interpreter) evalUnary(node *ast.UnaryOp, sc *scope.Scope) (value.Value, error) {
	operand, err := i.eval(node.Operand, sc)
	if err != nil {
		return nil, err
	}
	switch node.Op {
	case token.NOT:
		return value.Bool(!operand.Truthy()), nil
	case token.MINUS:
		switch v := operand.(type) {
		case value.Int:
			return -v, nil
		case value.Float:
			return -v, nil
		}
		return nil, newErr(TypeError, node.Pos.String(), "unary - on %s", operand.Kind())
	}
	return nil, newErr(TypeError, node.Pos.String(), "unsupported unary operator %s", node.Op)
}

// asIndex converts a Value to an int index: floats truncate, bools are
// 0/1, numeric strings parse, anything else is a TypeError.
func asIndex(v value.Value, pos string) (int, error) {
	switch n := v.(type) {
	case value.Int:
		return int(n), nil
	case value.Float:
		return int(n), nil
	case value.Bool:
		if n {
			return 1, nil
		}
		return 0, nil
	case value.String:
		iv, err := strconv.ParseInt(string(n), 10, 64)
		if err != nil {
			return 0, newErr(TypeError, pos, "cannot use %q as an index", string(n))
		}
		return int(iv), nil
	}
	return 0, newErr(TypeError, pos, "cannot use %s as an index", v.Kind())
}

func (i *Interpreter) evalIndex(node *ast.Index, sc *scope.Scope) (value.Value, error) {
	container, err := i.eval(node.Container, sc)
	if err != nil {
		return nil, err
	}
	idxVal, err := i.eval(node.Index, sc)
	if err != nil {
		return nil, err
	}
	pos := node.Pos.String()
	idx, err := asIndex(idxVal, pos)
	if err != nil {
		return nil, err
	}
	if idx < 0 {
		return nil, newErr(RangeError, pos, "negative index %d", idx)
	}
	switch c := container.(type) {
	case *value.List:
		if idx >= len(c.Items) {
			return nil, newErr(RangeError, pos, "index %d out of range (length %d)", idx, len(c.Items))
		}
		return c.Items[idx], nil
	case value.String:
		if idx >= len(c) {
			return nil, newErr(RangeError, pos, "index %d out of range (length %d)", idx, len(c))
		}
		return c[idx : idx+1], nil
	}
	return nil, newErr(TypeError, pos, "cannot index a %s", container.Kind())
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

func (i *Interpreter) evalSlice(node *ast.Slice, sc *scope.Scope) (value.Value, error) {
	container, err := i.eval(node.Container, sc)
	if err != nil {
		return nil, err
	}
	pos := node.Pos.String()

	length, err := sequenceLen(container, pos)
	if err != nil {
		return nil, err
	}

	start := 0
	if node.Start != nil {
		sv, err := i.eval(node.Start, sc)
		if err != nil {
			return nil, err
		}
		start, err = asIndex(sv, pos)
		if err != nil {
			return nil, err
		}
	}
	end := length
	if node.End != nil {
		ev, err := i.eval(node.End, sc)
		if err != nil {
			return nil, err
		}
		end, err = asIndex(ev, pos)
		if err != nil {
			return nil, err
		}
	}

	start = clamp(start, 0, length)
	end = clamp(end, 0, length)
	if start > end {
		start = end
	}

	switch c := container.(type) {
	case *value.List:
		out := make([]value.Value, end-start)
		copy(out, c.Items[start:end])
		return value.NewList(out), nil
	case value.String:
		return value.String(c[start:end]), nil
	}
	return nil, newErr(TypeError, pos, "cannot slice a %s", container.Kind())
}

func sequenceLen(v value.Value, pos string) (int, error) {
	switch c := v.(type) {
	case *value.List:
		return len(c.Items), nil
	case value.String:
		return len(c), nil
	}
	return 0, newErr(TypeError, pos, "cannot take the length of a %s", v.Kind())
}

func (i *Interpreter) evalCall(node *ast.Call, sc *scope.Scope) (value.Value, error) {
	calleeVal, err := i.eval(node.Callee, sc)
	if err != nil {
		return nil, err
	}
	fn, ok := calleeVal.(*value.Function)
	if !ok {
		return nil, newErr(CallError, node.Pos.String(), "attempt to call a %s value", calleeVal.Kind())
	}

	args := make([]value.Value, 0, len(node.Args))
	for _, a := range node.Args {
		v, err := i.eval(a, sc)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	if len(args) != len(fn.Params) {
		return nil, newErr(ArgError, node.Pos.String(),
			"function %s expects %d argument(s), got %d", fn.Name, len(fn.Params), len(args))
	}

	callee := sc.Push()
	for idx, p := range fn.Params {
		callee.Set(p, args[idx])
	}

	name := fn.Name
	if name == "" {
		name = "<anon>"
	}
	i.callStack = append(i.callStack, name)
	defer func() { i.callStack = i.callStack[:len(i.callStack)-1] }()

	for _, stmt := range fn.Body {
		if _, err := i.eval(stmt, callee); err != nil {
			if ret, ok := err.(returnSignal); ok {
				return ret.Value, nil
			}
			// A function call is a barrier for break/continue the same
			// way it is for the call stack: a loop in the caller must
			// never catch a signal meant for a loop inside the callee.
			if _, ok := err.(breakSignal); ok {
				return nil, newErr(CallError, node.Pos.String(), "break outside loop")
			}
			if _, ok := err.(continueSignal); ok {
				return nil, newErr(CallError, node.Pos.String(), "continue outside loop")
			}
			return nil, err
		}
	}
	return value.Nil{}, nil
}

// evalBuiltin is defined in builtins.go.
