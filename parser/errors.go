package parser

import (
	"fmt"

	"github.com/ava12/meta"
)

// Error codes used by parser:
const (
	// ExpectedTokenError indicates that a literal token was required but not found.
	ExpectedTokenError = meta.SyntaxErrors + iota

	// DidNotExpectTokenError indicates that a literal token marked with "not" was found.
	DidNotExpectTokenError

	// ExpectedWhitespaceError indicates that required whitespace is missing.
	ExpectedWhitespaceError

	// ExpectedNewLineError indicates trailing content after a line matched by Lines rule.
	ExpectedNewLineError

	// ExpectedNumberError indicates that a number was required but not found.
	ExpectedNumberError

	// ExpectedTextError indicates that a string literal was required but not found.
	ExpectedTextError

	// ExpectedSomethingError indicates an empty match where a non-empty one is required.
	ExpectedSomethingError

	// InvalidRuleError indicates malformed rule, e.g. unlinked Node or empty Select.
	InvalidRuleError

	// ParseNumberError indicates that recognized number cannot be converted, wraps lexer error.
	ParseNumberError

	// ParseStringError indicates malformed escape sequence in a string literal, wraps lexer error.
	ParseStringError

	// ExpectedEndError indicates that the root rule succeeded without consuming the whole text.
	ExpectedEndError
)

// Error is a parse error. It carries the range of source text and the debug id of the rule
// that produced it.
type Error struct {
	Code    int
	Range   meta.Range
	DebugID int
	// Text contains token text for token errors and the reason for InvalidRuleError.
	Text string
	// Err contains lexer error for ParseNumberError and ParseStringError.
	Err error
}

// Message returns error description without position information.
func (e *Error) Message() string {
	switch e.Code {
	case ExpectedTokenError:
		return fmt.Sprintf("expected %q", e.Text)
	case DidNotExpectTokenError:
		return fmt.Sprintf("did not expect %q", e.Text)
	case ExpectedWhitespaceError:
		return "expected whitespace"
	case ExpectedNewLineError:
		return "expected new line"
	case ExpectedNumberError:
		return "expected number"
	case ExpectedTextError:
		return "expected text"
	case ExpectedSomethingError:
		return "expected something"
	case InvalidRuleError:
		return "invalid rule: " + e.Text
	case ParseNumberError, ParseStringError:
		return e.Err.Error()
	case ExpectedEndError:
		return "expected end of text"
	default:
		return fmt.Sprintf("parse error %d", e.Code)
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %s (rule %d)", e.Message(), e.Range, e.DebugID)
}

// ErrorCode returns Error.Code.
func (e *Error) ErrorCode() int {
	return e.Code
}

// Unwrap returns wrapped lexer error if any.
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code, id int, rng meta.Range) *Error {
	return &Error{Code: code, Range: rng, DebugID: id}
}

func expectedTokenError(id int, rng meta.Range, text string) *Error {
	e := newError(ExpectedTokenError, id, rng)
	e.Text = text
	return e
}

func didNotExpectTokenError(id int, rng meta.Range, text string) *Error {
	e := newError(DidNotExpectTokenError, id, rng)
	e.Text = text
	return e
}

func invalidRuleError(id int, rng meta.Range, reason string) *Error {
	e := newError(InvalidRuleError, id, rng)
	e.Text = reason
	return e
}

func wrappedError(code, id int, rng meta.Range, err error) *Error {
	e := newError(code, id, rng)
	e.Err = err
	return e
}
