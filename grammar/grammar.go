// Package grammar defines rules and rule collections.
package grammar

import (
	"github.com/ava12/meta"
)

// Rule is one of the rule types defined in this package:
// *Whitespace, *Token, *UntilAnyOrWhitespace, *Text, *Number,
// *Sequence, *Select, *Optional, *Repeat, *Lines, *Node.
type Rule interface {
	// DebugID returns an opaque number used only to track down the rule generating an error.
	DebugID() int
	rule()
}

// Whitespace matches maximal run of whitespace runes (line feeds included).
type Whitespace struct {
	ID int
	// Optional allows empty match.
	Optional bool
}

// Token matches literal text.
type Token struct {
	ID   int
	Text string
	// Not makes token fail when the text matches and succeed (with empty match) otherwise.
	Not bool
	// Inverted flips the bool value stored in Property.
	Inverted bool
	// Property is set to bool value if not zero.
	Property meta.Name
}

// UntilAnyOrWhitespace matches runes until whitespace or any of Any runes.
type UntilAnyOrWhitespace struct {
	ID  int
	Any string
	// Optional allows empty match.
	Optional bool
	// Property is set to matched text if not zero.
	Property meta.Name
}

// Text matches double-quoted string literal.
type Text struct {
	ID int
	// AllowEmpty allows "" literal.
	AllowEmpty bool
	// Property is set to literal content if not zero.
	Property meta.Name
}

// Number matches decimal number.
type Number struct {
	ID int
	// AllowUnderscore allows underscores as digit separators.
	AllowUnderscore bool
	// Property is set to float64 value if not zero.
	Property meta.Name
}

// Sequence matches all rules one after another.
type Sequence struct {
	ID   int
	Args []Rule
}

// Select matches the first successful rule.
type Select struct {
	ID   int
	Args []Rule
}

// Optional matches the rule or nothing.
type Optional struct {
	ID   int
	Rule Rule
}

// Repeat matches the rule as many times as possible.
type Repeat struct {
	ID   int
	Rule Rule
	// Optional allows zero matches.
	Optional bool
}

// Lines matches the rule once per line skipping blank lines.
type Lines struct {
	ID   int
	Rule Rule
	// Optional allows zero matching lines.
	Optional bool
}

// Node references another rule in the same Syntax by name.
// Node must be linked (see Link) before use.
type Node struct {
	ID   int
	Name meta.Name
	// Property wraps the referenced rule output with start and end node events if not zero.
	Property meta.Name
	index    int
}

func (r *Whitespace) DebugID() int           { return r.ID }
func (r *Token) DebugID() int                { return r.ID }
func (r *UntilAnyOrWhitespace) DebugID() int { return r.ID }
func (r *Text) DebugID() int                 { return r.ID }
func (r *Number) DebugID() int               { return r.ID }
func (r *Sequence) DebugID() int             { return r.ID }
func (r *Select) DebugID() int               { return r.ID }
func (r *Optional) DebugID() int             { return r.ID }
func (r *Repeat) DebugID() int               { return r.ID }
func (r *Lines) DebugID() int                { return r.ID }
func (r *Node) DebugID() int                 { return r.ID }

func (*Whitespace) rule()           {}
func (*Token) rule()                {}
func (*UntilAnyOrWhitespace) rule() {}
func (*Text) rule()                 {}
func (*Number) rule()               {}
func (*Sequence) rule()             {}
func (*Select) rule()               {}
func (*Optional) rule()             {}
func (*Repeat) rule()               {}
func (*Lines) rule()                {}
func (*Node) rule()                 {}

// Index returns the index of referenced rule in linked Syntax.
// Returns false if the node is not linked.
func (r *Node) Index() (int, bool) {
	return r.index - 1, r.index > 0
}

// Syntax is a collection of named rules. The last rule is the root one.
type Syntax struct {
	names  []meta.Name
	rules  []Rule
	linked bool
}

// New creates new empty Syntax.
func New() *Syntax {
	return &Syntax{}
}

// Push appends named rule to unlinked Syntax.
func (s *Syntax) Push(name meta.Name, r Rule) *Syntax {
	if s.linked {
		panic("cannot add rule " + name.String() + ": syntax is already linked")
	}

	s.names = append(s.names, name)
	s.rules = append(s.rules, r)
	return s
}

// Len returns the number of rules.
func (s *Syntax) Len() int {
	return len(s.rules)
}

// Rule returns i-th rule.
func (s *Syntax) Rule(i int) Rule {
	return s.rules[i]
}

// Name returns the name of i-th rule.
func (s *Syntax) Name(i int) meta.Name {
	return s.names[i]
}

// Root returns the last rule or nil for empty syntax.
func (s *Syntax) Root() Rule {
	if len(s.rules) == 0 {
		return nil
	}

	return s.rules[len(s.rules)-1]
}

// IsLinked reports whether Syntax is a result of Link.
func (s *Syntax) IsLinked() bool {
	return s.linked
}

// Walk calls f for r and all its nested rules (depth first, parents first).
// References are not followed.
func Walk(r Rule, f func(Rule)) {
	f(r)
	switch r := r.(type) {
	case *Sequence:
		for _, arg := range r.Args {
			Walk(arg, f)
		}
	case *Select:
		for _, arg := range r.Args {
			Walk(arg, f)
		}
	case *Optional:
		Walk(r.Rule, f)
	case *Repeat:
		Walk(r.Rule, f)
	case *Lines:
		Walk(r.Rule, f)
	}
}
