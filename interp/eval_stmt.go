package interp

import (
	"github.com/nikitos212/itmoscript/ast"
	"github.com/nikitos212/itmoscript/scope"
	"github.com/nikitos212/itmoscript/value"
)

// runBlock evaluates a statement list in sc, the caller's own scope:
// if/for/while bodies never push a new frame, so loop variables and
// any names a branch assigns remain visible after the block ends.
func (i *Interpreter) runBlock(body []ast.Node, sc *scope.Scope) error {
	for _, stmt := range body {
		if _, err := i.eval(stmt, sc); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) evalIf(node *ast.If, sc *scope.Scope) (value.Value, error) {
	cond, err := i.eval(node.Cond, sc)
	if err != nil {
		return nil, err
	}
	if cond.Truthy() {
		return value.Nil{}, i.runBlock(node.Then, sc)
	}
	for _, ei := range node.ElseIfs {
		c, err := i.eval(ei.Cond, sc)
		if err != nil {
			return nil, err
		}
		if c.Truthy() {
			return value.Nil{}, i.runBlock(ei.Body, sc)
		}
	}
	if node.Else != nil {
		return value.Nil{}, i.runBlock(node.Else, sc)
	}
	return value.Nil{}, nil
}

func (i *Interpreter) evalWhile(node *ast.While, sc *scope.Scope) (value.Value, error) {
	for {
		cond, err := i.eval(node.Cond, sc)
		if err != nil {
			return nil, err
		}
		if !cond.Truthy() {
			return value.Nil{}, nil
		}
		if err := i.runBlock(node.Body, sc); err != nil {
			if _, ok := err.(breakSignal); ok {
				return value.Nil{}, nil
			}
			if _, ok := err.(continueSignal); ok {
				continue
			}
			return nil, err
		}
	}
}

func asNumber(v value.Value, what, pos string) (float64, bool, error) {
	switch n := v.(type) {
	case value.Int:
		return float64(n), false, nil
	case value.Float:
		return float64(n), true, nil
	}
	return 0, false, newErr(TypeError, pos, "%s must be numeric, got %s", what, v.Kind())
}

func (i *Interpreter) evalForRange(node *ast.ForRange, sc *scope.Scope) (value.Value, error) {
	pos := node.Pos.String()

	startV, err := i.eval(node.Start, sc)
	if err != nil {
		return nil, err
	}
	endV, err := i.eval(node.End, sc)
	if err != nil {
		return nil, err
	}
	stepV, err := i.eval(node.Step, sc)
	if err != nil {
		return nil, err
	}

	start, startFloat, err := asNumber(startV, "range start", pos)
	if err != nil {
		return nil, err
	}
	end, endFloat, err := asNumber(endV, "range end", pos)
	if err != nil {
		return nil, err
	}
	step, stepFloat, err := asNumber(stepV, "range step", pos)
	if err != nil {
		return nil, err
	}
	if step == 0 {
		return nil, newErr(RangeError, pos, "range step must not be zero")
	}
	isFloat := startFloat || endFloat || stepFloat

	cur := start
	for {
		if step > 0 && cur >= end {
			break
		}
		if step < 0 && cur <= end {
			break
		}
		if isFloat {
			sc.Set(node.Var, value.Float(cur))
		} else {
			sc.Set(node.Var, value.Int(int64(cur)))
		}
		if err := i.runBlock(node.Body, sc); err != nil {
			if _, ok := err.(breakSignal); ok {
				return value.Nil{}, nil
			}
			if _, ok := err.(continueSignal); ok {
				cur += step
				continue
			}
			return nil, err
		}
		cur += step
	}
	return value.Nil{}, nil
}

func (i *Interpreter) evalForEach(node *ast.ForEach, sc *scope.Scope) (value.Value, error) {
	pos := node.Pos.String()
	iterV, err := i.eval(node.Iterable, sc)
	if err != nil {
		return nil, err
	}

	var elems []value.Value
	switch v := iterV.(type) {
	case *value.List:
		elems = v.Items
	case value.String:
		for idx := 0; idx < len(v); idx++ {
			elems = append(elems, v[idx:idx+1])
		}
	default:
		return nil, newErr(TypeError, pos, "cannot iterate over a %s", iterV.Kind())
	}

	for _, el := range elems {
		sc.Set(node.Var, el)
		if err := i.runBlock(node.Body, sc); err != nil {
			if _, ok := err.(breakSignal); ok {
				return value.Nil{}, nil
			}
			if _, ok := err.(continueSignal); ok {
				continue
			}
			return nil, err
		}
	}
	return value.Nil{}, nil
}
