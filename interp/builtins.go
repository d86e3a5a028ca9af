package interp

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"github.com/nikitos212/itmoscript/ast"
	"github.com/nikitos212/itmoscript/scope"
	"github.com/nikitos212/itmoscript/token"
	"github.com/nikitos212/itmoscript/value"
)

// builtinArity gives the fixed arity of every built-in, keyed by its
// token.Kind. Validated at evaluation time, only if the call is
// actually reached, mirroring the arity check evalCall does for
// ordinary function calls.
var builtinArity = map[token.Kind]int{
	token.PRINT:      1,
	token.PRINTLN:    1,
	token.READ:       0,
	token.STACKTRACE: 0,
	token.LEN:        1,
	token.MAXFN:      1,
	token.MINFN:      1,
	token.ABS:        1,
	token.CEIL:       1,
	token.FLOOR:      1,
	token.ROUND:      1,
	token.SQRT:       1,
	token.RND:        1,
	token.PARSENUM:   1,
	token.TOSTRING:   1,
	token.LOWER:      1,
	token.UPPER:      1,
	token.SPLIT:      2,
	token.JOIN:       2,
	token.REPLACE:    3,
	token.PUSH:       2,
	token.POP:        1,
	token.SORT:       1,
	token.REMOVE:     2,
	token.INSERT:     3,
}

func (i *Interpreter) evalBuiltin(node *ast.BuiltinCall, sc *scope.Scope) (value.Value, error) {
	pos := node.Pos.String()
	args := make([]value.Value, 0, len(node.Args))
	for _, a := range node.Args {
		v, err := i.eval(a, sc)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	if want, ok := builtinArity[node.Name]; ok && len(args) != want {
		return nil, newErr(ArgError, pos, "%s expects %d argument(s), got %d", node.Name, want, len(args))
	}

	switch node.Name {
	case token.PRINT:
		fmt.Fprint(i.stdout, args[0].String())
		return value.Nil{}, nil
	case token.PRINTLN:
		fmt.Fprintln(i.stdout, args[0].String())
		return value.Nil{}, nil
	case token.READ:
		return i.builtinRead(pos)
	case token.STACKTRACE:
		items := make([]value.Value, len(i.callStack))
		for idx, name := range i.callStack {
			items[idx] = value.String(name)
		}
		return value.NewList(items), nil
	case token.LEN:
		n, err := sequenceLen(args[0], pos)
		if err != nil {
			return nil, err
		}
		return value.Int(n), nil
	case token.MAXFN:
		return builtinExtreme(args[0], pos, true)
	case token.MINFN:
		return builtinExtreme(args[0], pos, false)
	case token.ABS:
		return builtinUnaryMath(args[0], pos, "abs", math.Abs, func(n int64) int64 {
			if n < 0 {
				return -n
			}
			return n
		})
	case token.CEIL:
		return builtinRoundingMath(args[0], pos, "ceil", math.Ceil)
	case token.FLOOR:
		return builtinRoundingMath(args[0], pos, "floor", math.Floor)
	case token.ROUND:
		return builtinRoundingMath(args[0], pos, "round", math.Round)
	case token.SQRT:
		f, _, err := asNumber(args[0], "sqrt argument", pos)
		if err != nil {
			return nil, err
		}
		return value.Float(math.Sqrt(f)), nil
	case token.RND:
		return i.builtinRnd(args[0], pos)
	case token.PARSENUM:
		return builtinParseNum(args[0])
	case token.TOSTRING:
		return value.String(args[0].String()), nil
	case token.LOWER:
		s, err := asString(args[0], pos)
		if err != nil {
			return nil, err
		}
		return value.String(strings.ToLower(string(s))), nil
	case token.UPPER:
		s, err := asString(args[0], pos)
		if err != nil {
			return nil, err
		}
		return value.String(strings.ToUpper(string(s))), nil
	case token.SPLIT:
		return builtinSplit(args[0], args[1], pos)
	case token.JOIN:
		return builtinJoin(args[0], args[1], pos)
	case token.REPLACE:
		return builtinReplace(args[0], args[1], args[2], pos)
	case token.PUSH:
		return builtinPush(args[0], args[1], pos)
	case token.POP:
		return builtinPop(args[0], pos)
	case token.SORT:
		return builtinSort(args[0], pos)
	case token.REMOVE:
		return builtinRemove(args[0], args[1], pos)
	case token.INSERT:
		return builtinInsert(args[0], args[1], args[2], pos)
	}
	return nil, newErr(CallError, pos, "unknown built-in %s", node.Name)
}

func (i *Interpreter) builtinRead(pos string) (value.Value, error) {
	line, err := i.stdin.ReadString('\n')
	if err != nil && line == "" {
		return nil, newErr(CallError, pos, "read: %s", err.Error())
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return value.String(line), nil
}

func asList(v value.Value, pos string) (*value.List, error) {
	l, ok := v.(*value.List)
	if !ok {
		return nil, newErr(TypeError, pos, "expected a list, got %s", v.Kind())
	}
	return l, nil
}

func asString(v value.Value, pos string) (value.String, error) {
	s, ok := v.(value.String)
	if !ok {
		return "", newErr(TypeError, pos, "expected a string, got %s", v.Kind())
	}
	return s, nil
}

func builtinExtreme(v value.Value, pos string, wantMax bool) (value.Value, error) {
	l, err := asList(v, pos)
	if err != nil {
		return nil, err
	}
	var best int64
	found := false
	for _, el := range l.Items {
		n, ok := el.(value.Int)
		if !ok {
			continue
		}
		iv := int64(n)
		if !found || (wantMax && iv > best) || (!wantMax && iv < best) {
			best = iv
			found = true
		}
	}
	if !found {
		return nil, newErr(RangeError, pos, "no integers in list")
	}
	return value.Int(best), nil
}

func builtinUnaryMath(v value.Value, pos, name string, ffn func(float64) float64, ifn func(int64) int64) (value.Value, error) {
	switch n := v.(type) {
	case value.Int:
		return value.Int(ifn(int64(n))), nil
	case value.Float:
		return value.Float(ffn(float64(n))), nil
	}
	return nil, newErr(TypeError, pos, "%s argument must be numeric, got %s", name, v.Kind())
}

func builtinRoundingMath(v value.Value, pos, name string, fn func(float64) float64) (value.Value, error) {
	switch n := v.(type) {
	case value.Int:
		return n, nil
	case value.Float:
		return value.Int(int64(fn(float64(n)))), nil
	}
	return nil, newErr(TypeError, pos, "%s argument must be numeric, got %s", name, v.Kind())
}

func (i *Interpreter) builtinRnd(v value.Value, pos string) (value.Value, error) {
	n, ok := v.(value.Int)
	if !ok {
		return nil, newErr(TypeError, pos, "rnd argument must be an integer, got %s", v.Kind())
	}
	if n <= 0 {
		return nil, newErr(RangeError, pos, "rnd(n) requires n > 0, got %d", n)
	}
	return value.Int(rand.Int63n(int64(n))), nil
}

func builtinParseNum(v value.Value) (value.Value, error) {
	s, ok := v.(value.String)
	if !ok {
		return value.Nil{}, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(string(s)), 10, 64)
	if err != nil {
		return value.Nil{}, nil
	}
	return value.Int(n), nil
}

func builtinSplit(sv, dv value.Value, pos string) (value.Value, error) {
	s, err := asString(sv, pos)
	if err != nil {
		return nil, err
	}
	d, err := asString(dv, pos)
	if err != nil {
		return nil, err
	}
	parts := strings.Split(string(s), string(d))
	items := make([]value.Value, len(parts))
	for idx, p := range parts {
		items[idx] = value.String(p)
	}
	return value.NewList(items), nil
}

func builtinJoin(lv, dv value.Value, pos string) (value.Value, error) {
	l, err := asList(lv, pos)
	if err != nil {
		return nil, err
	}
	d, err := asString(dv, pos)
	if err != nil {
		return nil, err
	}
	parts := make([]string, len(l.Items))
	for idx, it := range l.Items {
		parts[idx] = it.String()
	}
	return value.String(strings.Join(parts, string(d))), nil
}

func builtinReplace(sv, fromV, toV value.Value, pos string) (value.Value, error) {
	s, err := asString(sv, pos)
	if err != nil {
		return nil, err
	}
	from, err := asString(fromV, pos)
	if err != nil {
		return nil, err
	}
	to, err := asString(toV, pos)
	if err != nil {
		return nil, err
	}
	if from == "" {
		return s, nil
	}
	return value.String(strings.ReplaceAll(string(s), string(from), string(to))), nil
}

func builtinPush(lv, x value.Value, pos string) (value.Value, error) {
	l, err := asList(lv, pos)
	if err != nil {
		return nil, err
	}
	l.Items = append(l.Items, x)
	return value.Nil{}, nil
}

func builtinPop(lv value.Value, pos string) (value.Value, error) {
	l, err := asList(lv, pos)
	if err != nil {
		return nil, err
	}
	if len(l.Items) == 0 {
		return nil, newErr(RangeError, pos, "pop on empty list")
	}
	l.Items = l.Items[:len(l.Items)-1]
	return value.Nil{}, nil
}

func builtinSort(lv value.Value, pos string) (value.Value, error) {
	l, err := asList(lv, pos)
	if err != nil {
		return nil, err
	}
	var sortErr error
	sort.SliceStable(l.Items, func(a, b int) bool {
		c, err := value.Compare(l.Items[a], l.Items[b])
		if err != nil && sortErr == nil {
			sortErr = err
		}
		return c < 0
	})
	if sortErr != nil {
		return nil, newErr(TypeError, pos, "sort: %s", sortErr.Error())
	}
	return value.Nil{}, nil
}

func builtinRemove(lv, idxV value.Value, pos string) (value.Value, error) {
	l, err := asList(lv, pos)
	if err != nil {
		return nil, err
	}
	idx, err := asIndex(idxV, pos)
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(l.Items) {
		return nil, newErr(RangeError, pos, "remove index %d out of range (length %d)", idx, len(l.Items))
	}
	l.Items = append(l.Items[:idx], l.Items[idx+1:]...)
	return value.Nil{}, nil
}

func builtinInsert(lv, idxV, x value.Value, pos string) (value.Value, error) {
	l, err := asList(lv, pos)
	if err != nil {
		return nil, err
	}
	idx, err := asIndex(idxV, pos)
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx > len(l.Items) {
		return nil, newErr(RangeError, pos, "insert index %d out of range (length %d)", idx, len(l.Items))
	}
	l.Items = append(l.Items, nil)
	copy(l.Items[idx+1:], l.Items[idx:])
	l.Items[idx] = x
	return value.Nil{}, nil
}
