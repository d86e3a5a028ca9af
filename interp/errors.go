package interp

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind tags which error taxonomy bucket a failure falls in. The
// evaluator always constructs one of these rather than a bare error,
// so the driver can render a uniform "Error: <message>" diagnostic
// while still letting tests assert on which bucket fired.
type Kind int

const (
	LexError Kind = iota
	ParseError
	NameError
	TypeError
	ArgError
	RangeError
	ArithError
	CallError
)

func (k Kind) String() string {
	switch k {
	case LexError:
		return "LexError"
	case ParseError:
		return "ParseError"
	case NameError:
		return "NameError"
	case TypeError:
		return "TypeError"
	case ArgError:
		return "ArgError"
	case RangeError:
		return "RangeError"
	case ArithError:
		return "ArithError"
	case CallError:
		return "CallError"
	}
	return "Error"
}

// RuntimeError wraps a Kind and message. It is returned by eval and
// every built-in; the public Eval/Interpret entry points write it to
// the sink as "Error: " followed by its Error() text, so the Kind and
// position appear in the diagnostic.
type RuntimeError struct {
	Kind Kind
	Msg  string
	Pos  string
}

func (e *RuntimeError) Error() string {
	if e.Pos != "" {
		return fmt.Sprintf("%s at %s: %s", e.Kind, e.Pos, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func newErr(kind Kind, pos string, format string, args ...interface{}) error {
	return errors.WithStack(&RuntimeError{Kind: kind, Msg: fmt.Sprintf(format, args...), Pos: pos})
}

// asRuntimeError unwraps an error built by newErr back to its
// *RuntimeError, following github.com/pkg/errors' Cause chain so a
// stack trace wrapper never hides the underlying kind.
func asRuntimeError(err error) (*RuntimeError, bool) {
	re, ok := errors.Cause(err).(*RuntimeError)
	return re, ok
}
