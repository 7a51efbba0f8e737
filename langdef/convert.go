package langdef

import (
	"github.com/ava12/meta"
	"github.com/ava12/meta/grammar"
	"github.com/ava12/meta/internal/ints"
	"github.com/ava12/meta/source"
	"github.com/ava12/meta/tree"
)

type converter struct {
	errorPos
	ignored []meta.Event
}

type props struct {
	n    *tree.Node
	used *ints.Set
}

func (c *converter) props(n *tree.Node) *props {
	return &props{n, ints.NewSet()}
}

func (p *props) find(name meta.Name, kind meta.Kind) (meta.Data, bool) {
	for i := len(p.n.Props) - 1; i >= 0; i-- {
		d := p.n.Props[i].Data
		if d.Name == name && d.Kind == kind {
			p.used.Add(i)
			return d, true
		}
	}
	return meta.Data{}, false
}

func (p *props) str(name meta.Name) string {
	d, _ := p.find(name, meta.StringKind)
	return d.String
}

func (p *props) name(name meta.Name) meta.Name {
	s := p.str(name)
	if s == "" {
		return meta.Name{}
	}

	return meta.NewName(s)
}

func (p *props) flag(name meta.Name, def bool) bool {
	d, found := p.find(name, meta.BoolKind)
	if !found {
		return def
	}

	return d.Bool
}

func (p *props) f64(name meta.Name) (float64, bool) {
	d, found := p.find(name, meta.F64Kind)
	return d.F64, found
}

func (c *converter) done(p *props) {
	for i, ev := range p.n.Props {
		if !p.used.Contains(i) {
			c.ignored = append(c.ignored, ev)
		}
	}
}

func (c *converter) ignore(n *tree.Node) {
	if n != nil {
		c.ignored = append(c.ignored, tree.Events(n)...)
	}
}

// Convert turns events produced by Rules into unlinked rule collection.
// Debug ids of converted rules are set to declaration indexes.
// Events not describing any rule are returned as ignored.
// The result must be linked (see grammar.Link) before use.
func Convert(events []meta.Event) (*grammar.Syntax, []meta.Event, error) {
	return convert(nil, events)
}

func convert(src *source.Source, events []meta.Event) (*grammar.Syntax, []meta.Event, error) {
	root, e := tree.Build(events)
	if e != nil {
		return nil, nil, e
	}

	c := &converter{errorPos: errorPos{src}}
	c.ignored = append(c.ignored, root.Props...)
	s := grammar.New()
	indexes := make(map[int]bool)

	for n := root.FirstChild(); n != nil; n = n.Next() {
		if n.Name != declName {
			c.ignore(n)
			continue
		}

		p := c.props(n)
		value, _ := p.f64(idName)
		index := int(value)
		if float64(index) != value {
			return nil, nil, c.wrongIndexError(n.Range.Offset, value)
		}
		if indexes[index] {
			return nil, nil, c.duplicateIndexError(n.Range.Offset, index)
		}
		indexes[index] = true

		body := n.FirstChild()
		if body == nil {
			return nil, nil, c.missingRuleError(n.Range.Offset, "declaration")
		}

		r, e := c.rule(body, index)
		if e != nil {
			return nil, nil, e
		}

		s.Push(meta.NewName(p.str(nameName)), r)
		c.done(p)
		for extra := body.Next(); extra != nil; extra = extra.Next() {
			c.ignore(extra)
		}
	}

	return s, c.ignored, nil
}

func (c *converter) nested(n *tree.Node, id int) (grammar.Rule, error) {
	child := n.FirstChild()
	if child == nil {
		return nil, c.missingRuleError(n.Range.Offset, n.Name.String())
	}

	for extra := child.Next(); extra != nil; extra = extra.Next() {
		c.ignore(extra)
	}
	return c.rule(child, id)
}

func (c *converter) args(n *tree.Node, id int) ([]grammar.Rule, error) {
	var result []grammar.Rule
	for child := n.FirstChild(); child != nil; child = child.Next() {
		r, e := c.rule(child, id)
		if e != nil {
			return nil, e
		}

		result = append(result, r)
	}
	return result, nil
}

func (c *converter) rule(n *tree.Node, id int) (grammar.Rule, error) {
	var (
		r grammar.Rule
		e error
	)
	p := c.props(n)

	switch n.Name {
	case whitespaceKind:
		r = &grammar.Whitespace{ID: id, Optional: p.flag(optionalName, false)}
	case textKind:
		r = &grammar.Text{ID: id, AllowEmpty: p.flag(emptyName, false), Property: p.name(propertyName)}
	case numberKind:
		r = &grammar.Number{ID: id, AllowUnderscore: p.flag(underscoreName, false), Property: p.name(propertyName)}
	case untilKind:
		r = &grammar.UntilAnyOrWhitespace{
			ID:       id,
			Any:      p.str(anyName),
			Optional: p.flag(optionalName, false),
			Property: p.name(propertyName),
		}
	case tokenKind:
		r = &grammar.Token{
			ID:       id,
			Text:     p.str(textName),
			Not:      p.flag(notName, false),
			Inverted: p.flag(invertedName, false),
			Property: p.name(propertyName),
		}
	case referenceKind:
		r = &grammar.Node{ID: id, Name: meta.NewName(p.str(nameName)), Property: p.name(propertyName)}
	case sequenceKind:
		var args []grammar.Rule
		args, e = c.args(n, id)
		r = &grammar.Sequence{ID: id, Args: args}
	case selectKind:
		var args []grammar.Rule
		args, e = c.args(n, id)
		r = &grammar.Select{ID: id, Args: args}
	case optionalKind:
		var nested grammar.Rule
		nested, e = c.nested(n, id)
		r = &grammar.Optional{ID: id, Rule: nested}
	case repeatKind:
		var nested grammar.Rule
		nested, e = c.nested(n, id)
		r = &grammar.Repeat{ID: id, Rule: nested, Optional: p.flag(optionalName, false)}
	case linesKind:
		var nested grammar.Rule
		nested, e = c.nested(n, id)
		r = &grammar.Lines{ID: id, Rule: nested, Optional: p.flag(optionalName, true)}
	default:
		return nil, c.unknownKindError(n.Range.Offset, n.Name.String())
	}

	if e != nil {
		return nil, e
	}

	c.done(p)
	return r, nil
}
