// Package report renders parse errors in human-readable form.
//
// A rendered parse error consists of a header line, the lines of source text covered by the error
// range, and a caret line under each of them:
//
//	Error expected "]" (rule 8)
//	1,11: 1 "a" ["x"
//	1,11:           ^
//
// For a missing token the preceding non-blank line is printed too, since a forgotten
// terminator usually belongs to the end of that line.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/ava12/meta"
	"github.com/ava12/meta/parser"
	"github.com/ava12/meta/source"
)

// Context window limits, in runes: a line is shown from its beginning unless the error column
// is beyond contextLimit, then the window starts contextShift runes before the error column.
const (
	contextWidth = 100
	contextShift = 50
	contextLimit = 75
)

// Option configures Handler.
type Option func(*Handler)

// WithColor enables or disables ANSI colors, colors are disabled by default.
func WithColor(enabled bool) Option {
	return func(h *Handler) {
		h.color = enabled
	}
}

// Handler renders errors related to a single source.
type Handler struct {
	src   *source.Source
	color bool

	header, location, caret *color.Color
}

// New creates handler for errors produced while parsing src.
func New(src *source.Source, opts ...Option) *Handler {
	h := &Handler{
		src:      src,
		header:   color.New(color.FgRed, color.Bold),
		location: color.New(color.FgCyan),
		caret:    color.New(color.FgGreen, color.Bold),
	}
	for _, opt := range opts {
		opt(h)
	}

	for _, c := range []*color.Color{h.header, h.location, h.caret} {
		if h.color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return h
}

// Write renders e to w.
// *parser.Error gets source context, *meta.Error gets context if it carries a position,
// any other error is rendered as a single line.
func (h *Handler) Write(w io.Writer, e error) error {
	_, err := io.WriteString(w, h.String(e))
	return err
}

// String renders e.
func (h *Handler) String(e error) string {
	if e == nil {
		return ""
	}

	sb := &strings.Builder{}
	var pe *parser.Error
	var me *meta.Error
	switch {
	case errors.As(e, &pe):
		h.parseError(sb, pe)
	case errors.As(e, &me) && me.Line > 0 && h.src != nil:
		h.writeHeader(sb, me.Message)
		from, _ := h.src.LineBounds(me.Line)
		h.writeLine(sb, me.Line, from+me.Col-1)
	default:
		h.writeHeader(sb, e.Error())
	}
	return sb.String()
}

func (h *Handler) writeHeader(sb *strings.Builder, msg string) {
	sb.WriteString(h.header.Sprint("Error"))
	sb.WriteString(" ")
	sb.WriteString(msg)
	sb.WriteString("\n")
}

func (h *Handler) parseError(sb *strings.Builder, e *parser.Error) {
	msg := e.Message()
	if e.DebugID != 0 {
		msg += fmt.Sprintf(" (rule %d)", e.DebugID)
	}
	h.writeHeader(sb, msg)
	if h.src == nil {
		return
	}

	first, _ := h.src.LineCol(e.Range.Offset)
	last, _ := h.src.LineCol(e.Range.End())
	if e.Code == parser.ExpectedTokenError && first > 1 {
		prev := first - 1
		for prev > 1 && h.src.IsBlankLine(prev) {
			prev--
		}
		for l := prev; l < first; l++ {
			sb.WriteString(h.location.Sprintf("%d:", l))
			sb.WriteString(" ")
			sb.WriteString(h.src.Line(l))
			sb.WriteString("\n")
		}
	}

	for l := first; l <= last; l++ {
		from, _ := h.src.LineBounds(l)
		h.writeLine(sb, l, max(e.Range.Offset, from))
	}
}

// writeLine prints a window of the line and a caret under rune offset pos.
func (h *Handler) writeLine(sb *strings.Builder, line, pos int) {
	from, _ := h.src.LineBounds(line)
	runes := []rune(h.src.Line(line))
	col := min(max(pos-from, 0), len(runes))
	start := 0
	if col > contextLimit {
		start = col - contextShift
	}
	end := min(start+contextWidth, len(runes))

	prefix := h.location.Sprintf("%d,%d:", line, col+1) + " "
	sb.WriteString(prefix)
	sb.WriteString(string(runes[start:end]))
	sb.WriteString("\n")

	sb.WriteString(prefix)
	for _, r := range runes[start:col] {
		if r == '\t' {
			sb.WriteByte('\t')
		} else {
			sb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
		}
	}
	sb.WriteString(h.caret.Sprint("^"))
	sb.WriteString("\n")
}

// Must returns value if e is nil. Otherwise it renders e to standard error and panics with e.
func Must[T any](src *source.Source, value T, e error) T {
	if e != nil {
		_ = New(src, WithColor(!color.NoColor)).Write(color.Error, e)
		panic(e)
	}

	return value
}
