// Package source defines source text addressed by rune offsets.
package source

import (
	"sort"
	"unicode"
)

// Source is an immutable named text. All offsets are rune offsets.
// Safe for concurrent use.
type Source struct {
	name       string
	text       string
	runes      []rune
	lineStarts []int
}

// New creates new Source.
func New(name string, content []byte) *Source {
	return NewString(name, string(content))
}

// NewString creates new Source.
func NewString(name, text string) *Source {
	s := &Source{name: name, text: text, runes: []rune(text)}
	s.lineStarts = []int{0}
	for i, r := range s.runes {
		if r == '\n' {
			s.lineStarts = append(s.lineStarts, i+1)
		}
	}

	return s
}

func (s *Source) Name() string {
	return s.name
}

// Text returns the original text.
func (s *Source) Text() string {
	return s.text
}

// Runes returns source content, the slice must not be modified.
func (s *Source) Runes() []rune {
	return s.runes
}

// Len returns source length in runes.
func (s *Source) Len() int {
	return len(s.runes)
}

// Slice returns text between two rune offsets, offsets are clamped.
func (s *Source) Slice(from, to int) string {
	from = s.clamp(from)
	to = s.clamp(to)
	if from >= to {
		return ""
	}

	return string(s.runes[from:to])
}

// NumLines returns the number of lines, text without line feeds has one line.
func (s *Source) NumLines() int {
	return len(s.lineStarts)
}

// Line returns the text of 1-based line without line feed or empty string.
func (s *Source) Line(line int) string {
	from, to := s.LineBounds(line)
	return string(s.runes[from:to])
}

// LineBounds returns rune offsets of the first rune of 1-based line and of its line feed (or the end of source).
func (s *Source) LineBounds(line int) (from, to int) {
	if line <= 0 || line > len(s.lineStarts) {
		return 0, 0
	}

	from = s.lineStarts[line-1]
	if line < len(s.lineStarts) {
		to = s.lineStarts[line] - 1
	} else {
		to = len(s.runes)
	}
	return
}

// IsBlankLine reports whether 1-based line contains only whitespace runes.
func (s *Source) IsBlankLine(line int) bool {
	from, to := s.LineBounds(line)
	for _, r := range s.runes[from:to] {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// LineCol converts rune offset to 1-based line and column.
func (s *Source) LineCol(pos int) (line, col int) {
	pos = s.clamp(pos)
	lineIndex := s.findLineIndex(pos)
	return lineIndex + 1, pos - s.lineStarts[lineIndex] + 1
}

// Pos converts 1-based line and column to rune offset.
func (s *Source) Pos(line, col int) int {
	if line <= 0 || col <= 0 {
		return 0
	}

	l := len(s.runes)
	if line > len(s.lineStarts) {
		return l
	}

	res := s.lineStarts[line-1] + col - 1
	if res > l {
		return l
	} else {
		return res
	}
}

func (s *Source) clamp(pos int) int {
	if pos < 0 {
		return 0
	}
	if pos > len(s.runes) {
		return len(s.runes)
	}
	return pos
}

func (s *Source) findLineIndex(pos int) int {
	return sort.Search(len(s.lineStarts), func(i int) bool {
		return s.lineStarts[i] > pos
	}) - 1
}

// Pos is a position in source, implements meta.SourcePos.
type Pos struct {
	src            *Source
	pos, line, col int
}

// NewPos creates new Pos for rune offset in given source.
func NewPos(s *Source, pos int) Pos {
	line, col := s.LineCol(pos)
	return Pos{s, pos, line, col}
}

func (p Pos) Source() *Source {
	return p.src
}

func (p Pos) SourceName() string {
	if p.src == nil {
		return ""
	}

	return p.src.Name()
}

func (p Pos) Pos() int {
	return p.pos
}

func (p Pos) Line() int {
	return p.line
}

func (p Pos) Col() int {
	return p.col
}
