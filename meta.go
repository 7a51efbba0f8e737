/*
Package meta is a data-oriented meta-parsing library.

A grammar is a collection of a few primitive rules (tokens, whitespace, numbers, strings,
sequences, selections, repetitions, lines, and references to other rules). Parsing a text with
a grammar does not build a syntax tree, it produces a flat list of range-tagged events instead:
start and end of named nodes and bool, number, and string properties.

Consists of subpackages:
  - cmd/metagen: console utility to check grammar descriptions, generate Go sources, and parse documents;
  - grammar: rule types, rule collections, and the linker resolving references between rules;
  - langdef: the fixed bootstrap grammar describing the grammar notation and the converter
    turning parsed grammar descriptions into rule collections;
  - lexer: primitive scanner recognizing tokens, whitespace, numbers, and string literals;
  - parser: the rule evaluator producing event streams;
  - report: human-readable rendering of parse errors;
  - source: source text with line/column lookup;
  - tree: generic node tree reconstructed from an event stream.

Typical usage is:

1. Describe grammar using the notation described in langdef package.

2. Convert description to a rule collection using langdef.ParseString.

3. Parse documents with parser.Parse and read the resulting events.
*/
package meta

import (
	"fmt"
)

// Error classes used by subpackages, each class contains up to 99 error codes:
const (
	LangDefErrors = 1   // used by langdef
	LexicalErrors = 101 // used by lexer
	SyntaxErrors  = 201 // used by parser
	LinkErrors    = 301 // used by grammar linker
	ConfigErrors  = 401 // used by command line utilities
	TreeErrors    = 501 // used by tree
)

// Error is the error type used by meta subpackages (except for parse errors which carry a Range).
type Error struct {
	// Code contains non-zero error code.
	Code int

	// Message contains non-empty error message including source name and position information if provided.
	Message string

	// SourceName contains source name that caused this error or empty string.
	SourceName string

	// Line contains line number in source file or 0.
	Line int

	// Col contains column number in source file or 0.
	Col int
}

// SourcePos is used to retrieve source name and position information when constructing an error;
// source.Pos implements this interface.
type SourcePos interface {
	// SourceName returns source file name or empty string.
	SourceName() string
	// Line returns line number or 0.
	Line() int
	// Col returns column number or 0.
	Col() int
}

// NewError creates new Error structure.
// name, line, and col will be added to error message if provided (non-zero).
func NewError(code int, msg, name string, line, col int) *Error {
	if name != "" && line != 0 && col != 0 {
		msg += fmt.Sprintf(" in %s at line %d col %d", name, line, col)
	}
	return &Error{code, msg, name, line, col}
}

// Error simply returns Error.Message.
func (e *Error) Error() string {
	return e.Message
}

// ErrorCode returns Error.Code.
func (e *Error) ErrorCode() int {
	return e.Code
}

// FormatError creates Error structure with no source and position information.
// params will be added to error message using fmt.Sprintf function.
func FormatError(code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, "", 0, 0)
}

// FormatErrorPos creates Error structure with source and position information.
// pos must not be nil.
// params will be added to error message using fmt.Sprintf function.
func FormatErrorPos(pos SourcePos, code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, pos.SourceName(), pos.Line(), pos.Col())
}
