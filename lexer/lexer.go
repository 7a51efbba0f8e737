// Package lexer defines primitive scanner used by rules to recognize tokens, whitespace, numbers, and string literals.
package lexer

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ava12/meta"
)

// Error codes used by lexer:
const (
	// NumberFormatError indicates that recognized number cannot be converted to float64 (e.g. it is out of range).
	NumberFormatError = meta.LexicalErrors + iota

	// InvalidEscapeError indicates incorrect escape sequence in a string literal.
	InvalidEscapeError
)

func numberFormatError(text string, e error) *meta.Error {
	return meta.FormatError(NumberFormatError, "cannot convert %q to number: %s", text, e.Error())
}

func invalidEscapeError(text string) *meta.Error {
	return meta.FormatError(InvalidEscapeError, "invalid escape sequence %q", text)
}

// NumberSettings configures number recognition.
type NumberSettings struct {
	// AllowUnderscore allows underscores as visible digit separators, e.g. 10_000.
	AllowUnderscore bool
}

// Reader recognizes primitive lexemes in a rune sequence.
// Reader is immutable and safe for concurrent use.
// All methods take rune offset and return ranges of rune offsets.
// Offsets beyond the end of content are treated as the end of content.
type Reader struct {
	chars []rune
}

// New creates new Reader. chars must not be modified while Reader is in use.
func New(chars []rune) *Reader {
	return &Reader{chars}
}

// Len returns content length.
func (r *Reader) Len() int {
	return len(r.chars)
}

// Text returns content covered by given range.
func (r *Reader) Text(rng meta.Range) string {
	return string(r.chars[rng.Offset:rng.End()])
}

// Token matches literal text at offset.
func (r *Reader) Token(text string, offset int) (meta.Range, bool) {
	i := offset
	for _, c := range text {
		if i >= len(r.chars) || r.chars[i] != c {
			return meta.EmptyRange(offset), false
		}
		i++
	}
	return meta.Range{Offset: offset, Length: i - offset}, true
}

// Whitespace returns maximal (possibly empty) run of whitespace runes including line feeds.
func (r *Reader) Whitespace(offset int) meta.Range {
	i := offset
	for i < len(r.chars) && unicode.IsSpace(r.chars[i]) {
		i++
	}
	return meta.Range{Offset: offset, Length: i - offset}
}

// UntilAnyOrWhitespace returns maximal (possibly empty) run of runes
// containing neither whitespace nor any of stop runes.
func (r *Reader) UntilAnyOrWhitespace(stop string, offset int) meta.Range {
	i := offset
	for i < len(r.chars) {
		c := r.chars[i]
		if unicode.IsSpace(c) || strings.ContainsRune(stop, c) {
			break
		}
		i++
	}
	return meta.Range{Offset: offset, Length: i - offset}
}

func (r *Reader) isDigit(i int) bool {
	return i < len(r.chars) && r.chars[i] >= '0' && r.chars[i] <= '9'
}

func (r *Reader) digits(i int, underscore bool) int {
	if !r.isDigit(i) {
		return i
	}

	for i < len(r.chars) && (r.isDigit(i) || (underscore && r.chars[i] == '_')) {
		i++
	}
	return i
}

// Number recognizes decimal number: optional minus sign, integer part,
// optional fraction, and optional exponent.
func (r *Reader) Number(settings NumberSettings, offset int) (meta.Range, bool) {
	i := offset
	if i < len(r.chars) && r.chars[i] == '-' {
		i++
	}
	if !r.isDigit(i) {
		return meta.EmptyRange(offset), false
	}

	i = r.digits(i, settings.AllowUnderscore)
	if i < len(r.chars) && r.chars[i] == '.' && r.isDigit(i+1) {
		i = r.digits(i+1, settings.AllowUnderscore)
	}
	if i < len(r.chars) && (r.chars[i] == 'e' || r.chars[i] == 'E') {
		j := i + 1
		if j < len(r.chars) && (r.chars[j] == '+' || r.chars[j] == '-') {
			j++
		}
		if r.isDigit(j) {
			i = r.digits(j, false)
		}
	}

	return meta.Range{Offset: offset, Length: i - offset}, true
}

// ParseNumber converts number recognized by Number to float64.
func (r *Reader) ParseNumber(settings NumberSettings, rng meta.Range) (float64, error) {
	text := r.Text(rng)
	if settings.AllowUnderscore {
		text = strings.ReplaceAll(text, "_", "")
	}
	value, e := strconv.ParseFloat(text, 64)
	if e != nil {
		return 0, numberFormatError(r.Text(rng), e)
	}

	return value, nil
}

// String recognizes double-quoted string literal, quotes and backslashes inside must be escaped.
// Escape sequences are not validated.
func (r *Reader) String(offset int) (meta.Range, bool) {
	if offset >= len(r.chars) || r.chars[offset] != '"' {
		return meta.EmptyRange(offset), false
	}

	for i := offset + 1; i < len(r.chars); i++ {
		switch r.chars[i] {
		case '\\':
			i++
		case '"':
			return meta.Range{Offset: offset, Length: i + 1 - offset}, true
		}
	}
	return meta.EmptyRange(offset), false
}

var escapeChars = map[rune]rune{
	'"':  '"',
	'\\': '\\',
	'/':  '/',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
}

// ParseString returns content of string literal recognized by String with escape sequences resolved.
func (r *Reader) ParseString(rng meta.Range) (string, error) {
	chars := r.chars[rng.Offset+1 : rng.End()-1]
	var sb strings.Builder
	sb.Grow(len(chars))
	for i := 0; i < len(chars); i++ {
		c := chars[i]
		if c != '\\' {
			sb.WriteRune(c)
			continue
		}

		if i+1 >= len(chars) {
			return "", invalidEscapeError(`\`)
		}

		i++
		substitute, valid := escapeChars[chars[i]]
		if valid {
			sb.WriteRune(substitute)
			continue
		}

		if chars[i] != 'u' || i+4 >= len(chars) {
			return "", invalidEscapeError(string(chars[i-1 : i+1]))
		}

		hex := string(chars[i+1 : i+5])
		code, e := strconv.ParseUint(hex, 16, 32)
		if e != nil || !utf8.ValidRune(rune(code)) {
			return "", invalidEscapeError(`\u` + hex)
		}

		sb.WriteRune(rune(code))
		i += 4
	}
	return sb.String(), nil
}

// LineEnd returns offset of the line feed ending the line containing offset, or content length.
func (r *Reader) LineEnd(offset int) int {
	for i := offset; i < len(r.chars); i++ {
		if r.chars[i] == '\n' {
			return i
		}
	}
	return len(r.chars)
}

// LineStart returns offset of the first rune of the line containing offset.
func (r *Reader) LineStart(offset int) int {
	i := min(offset, len(r.chars))
	for i > 0 && r.chars[i-1] != '\n' {
		i--
	}
	return i
}

// IsLineStart reports whether offset is at the beginning of a line.
func (r *Reader) IsLineStart(offset int) bool {
	return offset <= 0 || (offset <= len(r.chars) && r.chars[offset-1] == '\n')
}

// IsBlank reports whether all runes between from and to are whitespace.
func (r *Reader) IsBlank(from, to int) bool {
	for i := from; i < to && i < len(r.chars); i++ {
		if !unicode.IsSpace(r.chars[i]) {
			return false
		}
	}
	return true
}

// Indent returns the number of whitespace runes (except for line feeds) starting at offset.
func (r *Reader) Indent(offset int) int {
	i := offset
	for i < len(r.chars) && r.chars[i] != '\n' && unicode.IsSpace(r.chars[i]) {
		i++
	}
	return i - offset
}
