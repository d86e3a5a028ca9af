package interp

import "github.com/nikitos212/itmoscript/value"

// breakSignal, continueSignal and returnSignal are the three typed
// non-local exits the evaluator uses to implement break/continue/
// return. They travel back up the recursive eval() call chain as
// ordinary Go errors (so every eval call site only has to check one
// thing), but are never confused with RuntimeError: callers that want
// to catch one test for its concrete type first.
type breakSignal struct{}

func (breakSignal) Error() string { return "break outside loop" }

type continueSignal struct{}

func (continueSignal) Error() string { return "continue outside loop" }

type returnSignal struct {
	Value value.Value
}

func (returnSignal) Error() string { return "return outside function" }
