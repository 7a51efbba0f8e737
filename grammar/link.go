package grammar

import (
	"strings"

	"github.com/ava12/meta"
)

// Error codes used by linker:
const (
	// UnknownRuleError indicates that a node references rule name not defined in syntax.
	UnknownRuleError = meta.LinkErrors + iota

	// AmbiguousRuleError indicates that a node references rule name defined more than once.
	AmbiguousRuleError

	// EmptySyntaxError indicates that syntax contains no rules.
	EmptySyntaxError
)

func unknownRuleError(names []string) *meta.Error {
	return meta.FormatError(UnknownRuleError, "undefined rules: %s", strings.Join(names, ", "))
}

func ambiguousRuleError(names []string) *meta.Error {
	return meta.FormatError(AmbiguousRuleError, "rules defined more than once: %s", strings.Join(names, ", "))
}

func emptySyntaxError() *meta.Error {
	return meta.FormatError(EmptySyntaxError, "syntax contains no rules")
}

type linker struct {
	index     map[meta.Name]int
	ambiguous map[meta.Name]bool
	unknown   []string
	repeated  []string
	reported  map[meta.Name]bool
}

// Link resolves references in all Node rules and returns a linked copy of s.
// References may point forward, backward, or to the rule containing them.
// s itself is not modified and may be linked again, linking a linked Syntax returns an equal copy.
// Returns nil and meta.Error listing all unresolved (or ambiguous) names on error.
func Link(s *Syntax) (*Syntax, error) {
	if len(s.rules) == 0 {
		return nil, emptySyntaxError()
	}

	l := &linker{
		index:     make(map[meta.Name]int, len(s.names)),
		ambiguous: make(map[meta.Name]bool),
		reported:  make(map[meta.Name]bool),
	}
	for i, name := range s.names {
		_, has := l.index[name]
		if has {
			l.ambiguous[name] = true
		} else {
			l.index[name] = i
		}
	}

	result := &Syntax{
		names:  make([]meta.Name, len(s.names)),
		rules:  make([]Rule, len(s.rules)),
		linked: true,
	}
	copy(result.names, s.names)
	for i, r := range s.rules {
		result.rules[i] = l.clone(r)
	}

	if len(l.unknown) > 0 {
		return nil, unknownRuleError(l.unknown)
	}
	if len(l.repeated) > 0 {
		return nil, ambiguousRuleError(l.repeated)
	}

	return result, nil
}

func (l *linker) resolve(name meta.Name) int {
	i, has := l.index[name]
	if has && !l.ambiguous[name] {
		return i + 1
	}

	if !l.reported[name] {
		l.reported[name] = true
		if has {
			l.repeated = append(l.repeated, name.String())
		} else {
			l.unknown = append(l.unknown, name.String())
		}
	}
	return 0
}

func (l *linker) cloneArgs(args []Rule) []Rule {
	result := make([]Rule, len(args))
	for i, arg := range args {
		result[i] = l.clone(arg)
	}
	return result
}

func (l *linker) clone(r Rule) Rule {
	switch r := r.(type) {
	case *Node:
		c := *r
		c.index = l.resolve(r.Name)
		return &c
	case *Sequence:
		return &Sequence{ID: r.ID, Args: l.cloneArgs(r.Args)}
	case *Select:
		return &Select{ID: r.ID, Args: l.cloneArgs(r.Args)}
	case *Optional:
		return &Optional{ID: r.ID, Rule: l.clone(r.Rule)}
	case *Repeat:
		return &Repeat{ID: r.ID, Rule: l.clone(r.Rule), Optional: r.Optional}
	case *Lines:
		return &Lines{ID: r.ID, Rule: l.clone(r.Rule), Optional: r.Optional}
	default:
		// leaf rules are never modified
		return r
	}
}
