// Package parser evaluates grammar rules against source text and produces event streams.
//
// Each rule either succeeds with a (possibly empty) match or fails with an *Error.
// Rules append events to a Buffer shared by the whole parse; a failed rule rolls the buffer back
// to the checkpoint it was given, so no event of an abandoned alternative survives.
// Failures absorbed by Optional, Select, Repeat, and Lines rules are kept as soft diagnostics,
// the furthest one is reported when the parse fails.
package parser

import (
	"github.com/sirupsen/logrus"

	"github.com/ava12/meta"
	"github.com/ava12/meta/grammar"
	"github.com/ava12/meta/source"
)

// Option configures Parser.
type Option func(*Parser)

// WithTrace makes parser log every rule evaluation at trace level.
func WithTrace(log logrus.FieldLogger) Option {
	return func(p *Parser) {
		p.log = log
	}
}

// WithIndent sets initial indent settings.
func WithIndent(settings IndentSettings) Option {
	return func(p *Parser) {
		p.indent = settings
	}
}

// WithMaxDepth limits rule nesting, exceeding the limit fails the parse with InvalidRuleError.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		if depth > 0 {
			p.maxDepth = depth
		}
	}
}

// Parser holds linked syntax and parsing options.
// Parser is immutable and may be used by several goroutines at once.
type Parser struct {
	syntax   *grammar.Syntax
	log      logrus.FieldLogger
	indent   IndentSettings
	maxDepth int
}

// New creates parser for given syntax. Unlinked syntax is linked first.
// The last rule of syntax is the root one.
func New(syntax *grammar.Syntax, opts ...Option) (*Parser, error) {
	if !syntax.IsLinked() {
		linked, e := grammar.Link(syntax)
		if e != nil {
			return nil, e
		}

		syntax = linked
	}

	p := &Parser{
		syntax:   syntax,
		indent:   DefaultIndent(),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Syntax returns linked syntax used by parser.
func (p *Parser) Syntax() *grammar.Syntax {
	return p.syntax
}

// NewState creates evaluation state configured with parser options.
func (p *Parser) NewState(src *source.Source, buf *Buffer) *State {
	s := NewState(p.syntax, src, buf)
	s.indent = p.indent
	s.log = p.log
	s.maxDepth = p.maxDepth
	return s
}

// Parse matches the root rule against the whole src.
// Returns all events or *Error describing the furthest failure.
// If the root rule succeeds without consuming all text, the error is the soft diagnostic
// of the root rule if it reaches the end of the match, ExpectedEndError otherwise.
func (p *Parser) Parse(src *source.Source) ([]meta.Event, error) {
	buf := NewBuffer()
	root := p.syntax.Root()
	m, e := p.NewState(src, buf).Evaluate(root, buf.Checkpoint(), 0)
	if e != nil {
		return nil, e
	}

	end := m.Range.End()
	if end < src.Len() {
		if m.Soft != nil && m.Soft.Range.End() >= end {
			return nil, m.Soft
		}

		return nil, newError(ExpectedEndError, root.DebugID(), meta.EmptyRange(end))
	}

	return buf.Events(), nil
}

// ParseString parses text, name is used only for diagnostics.
func (p *Parser) ParseString(name, text string) ([]meta.Event, error) {
	return p.Parse(source.NewString(name, text))
}

// Parse links syntax if needed and parses text with default options.
func Parse(syntax *grammar.Syntax, text string) ([]meta.Event, error) {
	p, e := New(syntax)
	if e != nil {
		return nil, e
	}

	return p.ParseString("", text)
}
