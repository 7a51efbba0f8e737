package parser

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ava12/meta"
	"github.com/ava12/meta/grammar"
	"github.com/ava12/meta/lexer"
	"github.com/ava12/meta/source"
)

// DefaultMaxDepth limits nesting of rule evaluation unless overridden with WithMaxDepth.
const DefaultMaxDepth = 10000

// IndentSettings describe indentation of the block currently matched by Lines rule.
type IndentSettings struct {
	// Indent is the column of the current line content.
	Indent int
	// AlignFirst makes Lines rule take block indentation from its first content line,
	// otherwise the block inherits Indent.
	AlignFirst bool
}

// DefaultIndent returns top-level indent settings.
func DefaultIndent() IndentSettings {
	return IndentSettings{Indent: 0, AlignFirst: true}
}

// Match is the result of successful rule evaluation.
type Match struct {
	// Range covers all runes consumed by the rule, it may be empty.
	Range meta.Range
	// Checkpoint is the buffer length after the rule has written its events.
	Checkpoint Checkpoint
	// Soft contains the furthest error absorbed by the rule or nil.
	Soft *Error
}

// State holds everything a single parse needs. State is not safe for concurrent use.
type State struct {
	syntax   *grammar.Syntax
	reader   *lexer.Reader
	buffer   *Buffer
	indent   IndentSettings
	log      logrus.FieldLogger
	depth    int
	maxDepth int
}

// NewState creates evaluation state for a single parse of src.
// syntax is used to resolve Node rules and must be linked.
func NewState(syntax *grammar.Syntax, src *source.Source, buf *Buffer) *State {
	return &State{
		syntax:   syntax,
		reader:   lexer.New(src.Runes()),
		buffer:   buf,
		indent:   DefaultIndent(),
		maxDepth: DefaultMaxDepth,
	}
}

// Indent returns current indent settings.
func (s *State) Indent() IndentSettings {
	return s.indent
}

// SetIndent replaces current indent settings.
func (s *State) SetIndent(settings IndentSettings) {
	s.indent = settings
}

// Buffer returns the event buffer the state writes to.
func (s *State) Buffer() *Buffer {
	return s.buffer
}

func ruleKind(r grammar.Rule) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", r), "*grammar.")
}

// Evaluate matches rule r at offset. cp must be the current buffer checkpoint.
// On failure the buffer is rolled back to cp.
func (s *State) Evaluate(r grammar.Rule, cp Checkpoint, offset int) (m Match, e *Error) {
	if r == nil {
		return Match{}, invalidRuleError(0, meta.EmptyRange(offset), "missing rule")
	}

	if s.depth >= s.maxDepth {
		s.buffer.Rollback(cp)
		return Match{}, invalidRuleError(r.DebugID(), meta.EmptyRange(offset), "nesting is too deep")
	}

	s.depth++
	defer func() {
		s.depth--
		if e != nil {
			s.buffer.Rollback(cp)
		}
		if s.log != nil {
			s.trace(r, offset, m, e)
		}
	}()

	switch r := r.(type) {
	case *grammar.Whitespace:
		return s.whitespace(r, cp, offset)
	case *grammar.Token:
		return s.token(r, cp, offset)
	case *grammar.UntilAnyOrWhitespace:
		return s.untilAnyOrWhitespace(r, cp, offset)
	case *grammar.Text:
		return s.text(r, cp, offset)
	case *grammar.Number:
		return s.number(r, cp, offset)
	case *grammar.Sequence:
		return s.sequence(r, cp, offset)
	case *grammar.Select:
		return s.selectRule(r, cp, offset)
	case *grammar.Optional:
		return s.optional(r, cp, offset)
	case *grammar.Repeat:
		return s.repeat(r, cp, offset)
	case *grammar.Lines:
		return s.lines(r, cp, offset)
	case *grammar.Node:
		return s.node(r, cp, offset)
	default:
		return Match{}, invalidRuleError(r.DebugID(), meta.EmptyRange(offset), "unknown rule type "+ruleKind(r))
	}
}

func (s *State) trace(r grammar.Rule, offset int, m Match, e *Error) {
	entry := s.log.WithFields(logrus.Fields{
		"rule":   ruleKind(r),
		"id":     r.DebugID(),
		"offset": offset,
		"depth":  s.depth,
	})
	if e != nil {
		entry.WithField("error", e.Message()).Trace("rule failed")
	} else {
		entry.WithField("range", m.Range.String()).Trace("rule matched")
	}
}

func (s *State) write(cp Checkpoint, property meta.Name, rng meta.Range, data meta.Data) Checkpoint {
	if property.IsZero() {
		return cp
	}

	return s.buffer.Write(cp, rng, data)
}

func (s *State) whitespace(r *grammar.Whitespace, cp Checkpoint, offset int) (Match, *Error) {
	rng := s.reader.Whitespace(offset)
	if rng.Length == 0 && !r.Optional {
		return Match{}, newError(ExpectedWhitespaceError, r.ID, rng)
	}

	return Match{Range: rng, Checkpoint: cp}, nil
}

func (s *State) token(r *grammar.Token, cp Checkpoint, offset int) (Match, *Error) {
	rng, found := s.reader.Token(r.Text, offset)
	if r.Not {
		if found {
			return Match{}, didNotExpectTokenError(r.ID, rng, r.Text)
		}

		rng = meta.EmptyRange(offset)
		cp = s.write(cp, r.Property, rng, meta.Bool(r.Property, r.Inverted))
		return Match{Range: rng, Checkpoint: cp}, nil
	}

	if !found {
		return Match{}, expectedTokenError(r.ID, meta.EmptyRange(offset), r.Text)
	}

	cp = s.write(cp, r.Property, rng, meta.Bool(r.Property, !r.Inverted))
	return Match{Range: rng, Checkpoint: cp}, nil
}

func (s *State) untilAnyOrWhitespace(r *grammar.UntilAnyOrWhitespace, cp Checkpoint, offset int) (Match, *Error) {
	rng := s.reader.UntilAnyOrWhitespace(r.Any, offset)
	if rng.Length == 0 && !r.Optional {
		return Match{}, newError(ExpectedSomethingError, r.ID, rng)
	}

	if !r.Property.IsZero() {
		cp = s.buffer.Write(cp, rng, meta.String(r.Property, s.reader.Text(rng)))
	}
	return Match{Range: rng, Checkpoint: cp}, nil
}

func (s *State) text(r *grammar.Text, cp Checkpoint, offset int) (Match, *Error) {
	rng, found := s.reader.String(offset)
	if !found {
		return Match{}, newError(ExpectedTextError, r.ID, meta.EmptyRange(offset))
	}

	if rng.Length == 2 && !r.AllowEmpty {
		return Match{}, newError(ExpectedSomethingError, r.ID, rng)
	}

	value, err := s.reader.ParseString(rng)
	if err != nil {
		return Match{}, wrappedError(ParseStringError, r.ID, rng, err)
	}

	cp = s.write(cp, r.Property, rng, meta.String(r.Property, value))
	return Match{Range: rng, Checkpoint: cp}, nil
}

func (s *State) number(r *grammar.Number, cp Checkpoint, offset int) (Match, *Error) {
	settings := lexer.NumberSettings{AllowUnderscore: r.AllowUnderscore}
	rng, found := s.reader.Number(settings, offset)
	if !found {
		return Match{}, newError(ExpectedNumberError, r.ID, meta.EmptyRange(offset))
	}

	value, err := s.reader.ParseNumber(settings, rng)
	if err != nil {
		return Match{}, wrappedError(ParseNumberError, r.ID, rng, err)
	}

	cp = s.write(cp, r.Property, rng, meta.F64(r.Property, value))
	return Match{Range: rng, Checkpoint: cp}, nil
}

func (s *State) sequence(r *grammar.Sequence, cp Checkpoint, offset int) (Match, *Error) {
	var tracker Tracker
	pos := offset
	for _, arg := range r.Args {
		m, e := s.Evaluate(arg, cp, pos)
		if e != nil {
			return Match{}, tracker.Fail(e)
		}

		tracker.Add(m.Soft)
		pos = m.Range.End()
		cp = m.Checkpoint
	}

	return Match{Range: meta.Range{Offset: offset, Length: pos - offset}, Checkpoint: cp, Soft: tracker.Best()}, nil
}

func (s *State) selectRule(r *grammar.Select, cp Checkpoint, offset int) (Match, *Error) {
	if len(r.Args) == 0 {
		return Match{}, invalidRuleError(r.ID, meta.EmptyRange(offset), "select requires at least one alternative")
	}

	var tracker Tracker
	for _, arg := range r.Args {
		m, e := s.Evaluate(arg, cp, offset)
		if e != nil {
			tracker.Add(e)
			continue
		}

		tracker.Add(m.Soft)
		m.Soft = tracker.Best()
		return m, nil
	}

	return Match{}, tracker.Best()
}

func (s *State) optional(r *grammar.Optional, cp Checkpoint, offset int) (Match, *Error) {
	m, e := s.Evaluate(r.Rule, cp, offset)
	if e != nil {
		return Match{Range: meta.EmptyRange(offset), Checkpoint: cp, Soft: e}, nil
	}

	return m, nil
}

func (s *State) repeat(r *grammar.Repeat, cp Checkpoint, offset int) (Match, *Error) {
	var tracker Tracker
	pos := offset
	for first := true; ; first = false {
		m, e := s.Evaluate(r.Rule, cp, pos)
		if e != nil {
			if first && !r.Optional {
				return Match{}, tracker.Fail(e)
			}

			tracker.Add(e)
			break
		}

		tracker.Add(m.Soft)
		cp = m.Checkpoint
		if m.Range.End() == pos {
			// empty match would repeat forever
			break
		}
		pos = m.Range.End()
	}

	return Match{Range: meta.Range{Offset: offset, Length: pos - offset}, Checkpoint: cp, Soft: tracker.Best()}, nil
}

func (s *State) lines(r *grammar.Lines, cp Checkpoint, offset int) (Match, *Error) {
	saved := s.indent
	defer func() {
		s.indent = saved
	}()

	var tracker Tracker
	size := s.reader.Len()
	pos, end := offset, offset
	block := -1
	if !saved.AlignFirst {
		block = saved.Indent
	}
	matched := false

	for pos < size {
		lineEnd := s.reader.LineEnd(pos)
		if s.reader.IsBlank(pos, lineEnd) {
			pos = min(lineEnd+1, size)
			end = pos
			continue
		}

		start := pos + s.reader.Indent(pos)
		column := start - s.reader.LineStart(start)
		if block < 0 {
			block = column
		}
		if column < block {
			if !matched && !r.Optional {
				return Match{}, tracker.Fail(newError(ExpectedSomethingError, r.ID, meta.EmptyRange(start)))
			}
			break
		}

		s.indent.Indent = column
		m, e := s.Evaluate(r.Rule, cp, start)
		if e != nil {
			if !matched && !r.Optional {
				return Match{}, tracker.Fail(e)
			}

			tracker.Add(e)
			break
		}

		tracker.Add(m.Soft)
		if start == pos && m.Range.End() == start {
			// empty match at line start would repeat forever
			s.buffer.Rollback(cp)
			if !matched && !r.Optional {
				return Match{}, tracker.Fail(newError(ExpectedSomethingError, r.ID, meta.EmptyRange(start)))
			}
			break
		}

		matched = true
		cp = m.Checkpoint
		pos = m.Range.End()
		if pos < size && !s.reader.IsLineStart(pos) {
			lineEnd = s.reader.LineEnd(pos)
			if !s.reader.IsBlank(pos, lineEnd) {
				return Match{}, tracker.Fail(newError(ExpectedNewLineError, r.ID, meta.EmptyRange(pos)))
			}

			pos = min(lineEnd+1, size)
		}
		end = pos
	}

	return Match{Range: meta.Range{Offset: offset, Length: end - offset}, Checkpoint: cp, Soft: tracker.Best()}, nil
}

func (s *State) node(r *grammar.Node, cp Checkpoint, offset int) (Match, *Error) {
	index, linked := r.Index()
	if !linked || index >= s.syntax.Len() {
		return Match{}, invalidRuleError(r.ID, meta.EmptyRange(offset), fmt.Sprintf("reference to %q is not linked", r.Name))
	}

	cp = s.write(cp, r.Property, meta.EmptyRange(offset), meta.StartNode(r.Property))
	m, e := s.Evaluate(s.syntax.Rule(index), cp, offset)
	if e != nil {
		return Match{}, e
	}

	m.Checkpoint = s.write(m.Checkpoint, r.Property, m.Range, meta.EndNode(r.Property))
	return m, nil
}
