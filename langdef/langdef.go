package langdef

import (
	"github.com/ava12/meta"
	"github.com/ava12/meta/grammar"
	"github.com/ava12/meta/parser"
	"github.com/ava12/meta/source"
)

// ParseEvents parses grammar description with the bootstrap grammar and returns raw events.
// Returns *parser.Error on syntax error.
func ParseEvents(src *source.Source) ([]meta.Event, error) {
	p, e := parser.New(Rules())
	if e != nil {
		return nil, e
	}

	return p.Parse(src)
}

// ParseString converts grammar description to linked rule collection.
func ParseString(name, content string) (*grammar.Syntax, error) {
	return Parse(source.NewString(name, content))
}

// ParseBytes converts grammar description to linked rule collection.
func ParseBytes(name string, content []byte) (*grammar.Syntax, error) {
	return Parse(source.New(name, content))
}

// Parse converts grammar description to linked rule collection.
// Returns either *parser.Error (syntax error) or *meta.Error (conversion or linking error).
func Parse(src *source.Source) (*grammar.Syntax, error) {
	s, e := ParseUnlinked(src)
	if e != nil {
		return nil, e
	}

	return grammar.Link(s)
}

// ParseUnlinked converts grammar description to rule collection without linking it.
func ParseUnlinked(src *source.Source) (*grammar.Syntax, error) {
	events, e := ParseEvents(src)
	if e != nil {
		return nil, e
	}

	s, _, e := convert(src, events)
	return s, e
}
