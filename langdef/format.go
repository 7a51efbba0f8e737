package langdef

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ava12/meta"
	"github.com/ava12/meta/grammar"
)

// Quote returns string literal in grammar notation.
func Quote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for _, c := range s {
		switch c {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		default:
			if c < 0x20 || c == 0x7f {
				fmt.Fprintf(&sb, `\u%04x`, c)
			} else {
				sb.WriteRune(c)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// Format prints rule collection in grammar notation, one declaration per line.
// Declarations are numbered from 1 in collection order.
// Token.Inverted flag is lost for tokens without property.
func Format(s *grammar.Syntax) string {
	var sb strings.Builder
	for i := 0; i < s.Len(); i++ {
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteByte(' ')
		sb.WriteString(Quote(s.Name(i).String()))
		sb.WriteByte(' ')
		formatRule(&sb, s.Rule(i))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FormatRule prints single rule in grammar notation.
func FormatRule(r grammar.Rule) string {
	var sb strings.Builder
	formatRule(&sb, r)
	return sb.String()
}

func flag(optional bool) string {
	if optional {
		return "?"
	}
	return "!"
}

func property(sb *strings.Builder, p meta.Name) {
	if !p.IsZero() {
		sb.WriteString(Quote(p.String()))
	}
}

func formatList(sb *strings.Builder, open, close string, args []grammar.Rule) {
	sb.WriteString(open)
	for i, arg := range args {
		if i > 0 {
			sb.WriteByte(' ')
		}
		formatRule(sb, arg)
	}
	sb.WriteString(close)
}

func formatRule(sb *strings.Builder, r grammar.Rule) {
	switch r := r.(type) {
	case *grammar.Whitespace:
		sb.WriteString("w" + flag(r.Optional))
	case *grammar.Token:
		if r.Not {
			sb.WriteByte('!')
		}
		sb.WriteString(Quote(r.Text))
		if !r.Property.IsZero() {
			sb.WriteByte(':')
			if r.Inverted {
				sb.WriteByte('!')
			}
			property(sb, r.Property)
		}
	case *grammar.UntilAnyOrWhitespace:
		sb.WriteString(".." + Quote(r.Any) + flag(r.Optional))
		property(sb, r.Property)
	case *grammar.Text:
		sb.WriteString("t" + flag(r.AllowEmpty))
		property(sb, r.Property)
	case *grammar.Number:
		sb.WriteByte('$')
		if r.AllowUnderscore {
			sb.WriteByte('_')
		}
		property(sb, r.Property)
	case *grammar.Sequence:
		formatList(sb, "[", "]", r.Args)
	case *grammar.Select:
		formatList(sb, "{", "}", r.Args)
	case *grammar.Optional:
		sb.WriteByte('?')
		formatRule(sb, r.Rule)
	case *grammar.Repeat:
		sb.WriteString("r" + flag(r.Optional) + "(")
		formatRule(sb, r.Rule)
		sb.WriteByte(')')
	case *grammar.Lines:
		sb.WriteString("l" + flag(r.Optional) + "(")
		formatRule(sb, r.Rule)
		sb.WriteByte(')')
	case *grammar.Node:
		sb.WriteString("@" + Quote(r.Name.String()))
		property(sb, r.Property)
	}
}
