package value

import (
	"fmt"
	"math"
)

// OpError reports that an operator or conversion could not be applied
// to the given value kind(s). The interp package wraps this into its
// own TypeError/ArithError taxonomy; this package only needs to signal
// failure with enough detail to build that message.
type OpError struct {
	Op       string
	Kind     Kind
	Kind2    Kind
	HasKind2 bool
}

func (e *OpError) Error() string {
	if e.HasKind2 {
		return fmt.Sprintf("unsupported operand kinds for %s: %s and %s", e.Op, e.Kind, e.Kind2)
	}
	return fmt.Sprintf("unsupported operand kind for %s: %s", e.Op, e.Kind)
}

func opErr2(op string, a, b Value) error {
	return &OpError{Op: op, Kind: a.Kind(), Kind2: b.Kind(), HasKind2: true}
}

// numeric promotes a and b to a common numeric representation: both
// ints stay int64, any float operand promotes both to float64.
func numeric(a, b Value) (af, bf float64, ai, bi int64, isFloat bool, ok bool) {
	switch va := a.(type) {
	case Int:
		ai = int64(va)
		af = float64(va)
	case Float:
		af = float64(va)
		isFloat = true
	default:
		return 0, 0, 0, 0, false, false
	}
	switch vb := b.(type) {
	case Int:
		bi = int64(vb)
		bf = float64(vb)
	case Float:
		bf = float64(vb)
		isFloat = true
	default:
		return 0, 0, 0, 0, false, false
	}
	if isFloat {
		af, bf = coerce(a), coerce(b)
	}
	return af, bf, ai, bi, isFloat, true
}

func coerce(v Value) float64 {
	switch n := v.(type) {
	case Int:
		return float64(n)
	case Float:
		return float64(n)
	}
	return 0
}

func isNumeric(v Value) bool {
	switch v.(type) {
	case Int, Float:
		return true
	}
	return false
}

// Add implements `+`: numeric addition with int/float promotion,
// string concatenation (always producing a fresh string), and list
// concatenation (always producing a fresh list).
func Add(a, b Value) (Value, error) {
	if as, ok := a.(String); ok {
		if bs, ok := b.(String); ok {
			return as + bs, nil
		}
		return nil, opErr2("+", a, b)
	}
	if al, ok := a.(*List); ok {
		if bl, ok := b.(*List); ok {
			out := make([]Value, 0, len(al.Items)+len(bl.Items))
			out = append(out, al.Items...)
			out = append(out, bl.Items...)
			return NewList(out), nil
		}
		return nil, opErr2("+", a, b)
	}
	if isNumeric(a) && isNumeric(b) {
		_, _, ai, bi, isFloat, _ := numeric(a, b)
		if isFloat {
			return Float(coerce(a) + coerce(b)), nil
		}
		return Int(ai + bi), nil
	}
	return nil, opErr2("+", a, b)
}

// Sub implements `-`: numeric subtraction, and string suffix removal
// ("abcdef" - "def" == "abc"; if the second operand is not a suffix of
// the first, the first is returned unchanged).
func Sub(a, b Value) (Value, error) {
	if as, ok := a.(String); ok {
		if bs, ok := b.(String); ok {
			s, suf := string(as), string(bs)
			if len(suf) > 0 && len(s) >= len(suf) && s[len(s)-len(suf):] == suf {
				return String(s[:len(s)-len(suf)]), nil
			}
			return as, nil
		}
		return nil, opErr2("-", a, b)
	}
	if isNumeric(a) && isNumeric(b) {
		_, _, ai, bi, isFloat, _ := numeric(a, b)
		if isFloat {
			return Float(coerce(a) - coerce(b)), nil
		}
		return Int(ai - bi), nil
	}
	return nil, opErr2("-", a, b)
}

// Mul implements `*`: numeric multiplication, and string/list
// repetition by a non-negative integer count (symmetric in operand
// order). A count of zero yields the empty string/list.
func Mul(a, b Value) (Value, error) {
	if n, s, ok := repeatOperands(a, b); ok {
		if n < 0 {
			return nil, fmt.Errorf("negative repetition count: %d", n)
		}
		switch v := s.(type) {
		case String:
			out := make([]byte, 0, len(v)*int(n))
			for i := int64(0); i < n; i++ {
				out = append(out, v...)
			}
			return String(out), nil
		case *List:
			out := make([]Value, 0, len(v.Items)*int(n))
			for i := int64(0); i < n; i++ {
				out = append(out, v.Items...)
			}
			return NewList(out), nil
		}
	}
	if isNumeric(a) && isNumeric(b) {
		_, _, ai, bi, isFloat, _ := numeric(a, b)
		if isFloat {
			return Float(coerce(a) * coerce(b)), nil
		}
		return Int(ai * bi), nil
	}
	return nil, opErr2("*", a, b)
}

// repeatOperands recognizes (string-or-list, int) in either order.
func repeatOperands(a, b Value) (count int64, seq Value, ok bool) {
	isSeq := func(v Value) bool {
		switch v.(type) {
		case String, *List:
			return true
		}
		return false
	}
	if n, ok := a.(Int); ok && isSeq(b) {
		return int64(n), b, true
	}
	if n, ok := b.(Int); ok && isSeq(a) {
		return int64(n), a, true
	}
	return 0, nil, false
}

// Div implements `/`: integer division between two ints, float
// division whenever either operand is a float. Division by zero is an
// error in both cases.
func Div(a, b Value) (Value, error) {
	if !isNumeric(a) || !isNumeric(b) {
		return nil, opErr2("/", a, b)
	}
	_, _, ai, bi, isFloat, _ := numeric(a, b)
	if isFloat {
		bf := coerce(b)
		if bf == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return Float(coerce(a) / bf), nil
	}
	if bi == 0 {
		return nil, fmt.Errorf("division by zero")
	}
	return Int(ai / bi), nil
}

// Mod implements `%`: integer-only remainder.
func Mod(a, b Value) (Value, error) {
	ai, ok1 := a.(Int)
	bi, ok2 := b.(Int)
	if !ok1 || !ok2 {
		return nil, opErr2("%", a, b)
	}
	if bi == 0 {
		return nil, fmt.Errorf("modulo by zero")
	}
	return ai % bi, nil
}

// Pow implements `^`: integer base with non-negative integer exponent
// computes an exact integer result by repeated multiplication;
// anything else (negative exponent, or either operand a float)
// computes via math.Pow.
func Pow(a, b Value) (Value, error) {
	if !isNumeric(a) || !isNumeric(b) {
		return nil, opErr2("^", a, b)
	}
	ai, aIsInt := a.(Int)
	bi, bIsInt := b.(Int)
	if aIsInt && bIsInt && bi >= 0 {
		result := int64(1)
		base := int64(ai)
		for i := int64(0); i < int64(bi); i++ {
			result *= base
		}
		return Int(result), nil
	}
	return Float(math.Pow(coerce(a), coerce(b))), nil
}

// Equal implements `==`/`!=`. nil equals only nil; numerics compare
// with int/float promotion; strings compare by content; lists compare
// by reference identity; functions are never comparable.
func Equal(a, b Value) (bool, error) {
	if _, ok := a.(Nil); ok {
		_, ok2 := b.(Nil)
		return ok2, nil
	}
	if _, ok := b.(Nil); ok {
		return false, nil
	}
	if _, ok := a.(*Function); ok {
		return false, fmt.Errorf("functions are not comparable")
	}
	if _, ok := b.(*Function); ok {
		return false, fmt.Errorf("functions are not comparable")
	}
	if isNumeric(a) && isNumeric(b) {
		return coerce(a) == coerce(b), nil
	}
	if as, ok := a.(String); ok {
		bs, ok2 := b.(String)
		return ok2 && as == bs, nil
	}
	if al, ok := a.(*List); ok {
		bl, ok2 := b.(*List)
		return ok2 && al == bl, nil
	}
	if ab, ok := a.(Bool); ok {
		bb, ok2 := b.(Bool)
		return ok2 && ab == bb, nil
	}
	return false, nil
}

// Compare implements `< > <= >=`: numeric pairs (with promotion) and
// same-kind string pairs (lexicographic). Returns -1/0/1 the way
// strings.Compare does.
func Compare(a, b Value) (int, error) {
	if isNumeric(a) && isNumeric(b) {
		af, bf := coerce(a), coerce(b)
		switch {
		case af < bf:
			return -1, nil
		case af > bf:
			return 1, nil
		default:
			return 0, nil
		}
	}
	if as, ok := a.(String); ok {
		if bs, ok := b.(String); ok {
			switch {
			case as < bs:
				return -1, nil
			case as > bs:
				return 1, nil
			default:
				return 0, nil
			}
		}
	}
	return 0, opErr2("comparison", a, b)
}
