package langdef

import (
	"sync"

	"github.com/ava12/meta"
	"github.com/ava12/meta/grammar"
)

// Node and property names produced by the bootstrap grammar.
var (
	declName       = meta.NewName("node")
	idName         = meta.NewName("id")
	nameName       = meta.NewName("name")
	propertyName   = meta.NewName("property")
	textName       = meta.NewName("text")
	anyName        = meta.NewName("any")
	optionalName   = meta.NewName("optional")
	notName        = meta.NewName("not")
	invertedName   = meta.NewName("inverted")
	emptyName      = meta.NewName("allow_empty")
	underscoreName = meta.NewName("allow_underscore")
	ruleName       = meta.NewName("rule")
	flagName       = meta.NewName("optional_flag")
	documentName   = meta.NewName("document")

	whitespaceKind = meta.NewName("whitespace")
	textKind       = meta.NewName("text")
	numberKind     = meta.NewName("number")
	untilKind      = meta.NewName("until_any_or_whitespace")
	tokenKind      = meta.NewName("token")
	referenceKind  = meta.NewName("reference")
	sequenceKind   = meta.NewName("sequence")
	selectKind     = meta.NewName("select")
	optionalKind   = meta.NewName("optional")
	repeatKind     = meta.NewName("repeat")
	linesKind      = meta.NewName("lines")
)

// ruleKinds lists rule variants in the order the bootstrap grammar tries them.
var ruleKinds = []meta.Name{
	whitespaceKind, textKind, numberKind, untilKind, referenceKind,
	sequenceKind, selectKind, optionalKind, repeatKind, linesKind, tokenKind,
}

type builder struct {
	id int
}

func (b *builder) next() int {
	b.id++
	return b.id
}

func (b *builder) token(text string) grammar.Rule {
	return &grammar.Token{ID: b.next(), Text: text}
}

func (b *builder) flag(text string, property meta.Name, inverted bool) grammar.Rule {
	return &grammar.Token{ID: b.next(), Text: text, Property: property, Inverted: inverted}
}

// choice matches "?" setting property to true or "!" setting it to false.
func (b *builder) choice(property meta.Name) grammar.Rule {
	return b.sel(b.flag("?", property, false), b.flag("!", property, true))
}

func (b *builder) text(property meta.Name, allowEmpty bool) grammar.Rule {
	return &grammar.Text{ID: b.next(), Property: property, AllowEmpty: allowEmpty}
}

func (b *builder) ws(optional bool) grammar.Rule {
	return &grammar.Whitespace{ID: b.next(), Optional: optional}
}

func (b *builder) seq(args ...grammar.Rule) grammar.Rule {
	return &grammar.Sequence{ID: b.next(), Args: args}
}

func (b *builder) sel(args ...grammar.Rule) grammar.Rule {
	return &grammar.Select{ID: b.next(), Args: args}
}

func (b *builder) opt(r grammar.Rule) grammar.Rule {
	return &grammar.Optional{ID: b.next(), Rule: r}
}

func (b *builder) ref(name, property meta.Name) grammar.Rule {
	return &grammar.Node{ID: b.next(), Name: name, Property: property}
}

func (b *builder) property() grammar.Rule {
	return b.opt(b.text(propertyName, false))
}

func (b *builder) list(open, close string) grammar.Rule {
	return b.seq(
		b.token(open),
		b.ws(true),
		&grammar.Repeat{ID: b.next(), Optional: true, Rule: b.seq(b.ref(ruleName, meta.Name{}), b.ws(true))},
		b.token(close),
	)
}

func (b *builder) wrapped(prefix string, flag grammar.Rule) grammar.Rule {
	return b.seq(
		b.token(prefix),
		flag,
		b.token("("),
		b.ws(true),
		b.ref(ruleName, meta.Name{}),
		b.ws(true),
		b.token(")"),
	)
}

func buildRules() *grammar.Syntax {
	b := &builder{}
	s := grammar.New()
	s.Push(flagName, b.choice(optionalName))
	s.Push(whitespaceKind, b.seq(b.token("w"), b.ref(flagName, meta.Name{})))
	s.Push(textKind, b.seq(b.token("t"), b.choice(emptyName), b.property()))
	s.Push(numberKind, b.seq(b.token("$"), b.opt(b.flag("_", underscoreName, false)), b.property()))
	s.Push(untilKind, b.seq(b.token(".."), b.text(anyName, true), b.ref(flagName, meta.Name{}), b.property()))
	s.Push(tokenKind, b.seq(
		b.opt(b.flag("!", notName, false)),
		b.text(textName, false),
		b.opt(b.seq(b.token(":"), b.opt(b.flag("!", invertedName, false)), b.text(propertyName, false))),
	))
	s.Push(referenceKind, b.seq(b.token("@"), b.text(nameName, false), b.property()))
	s.Push(sequenceKind, b.list("[", "]"))
	s.Push(selectKind, b.list("{", "}"))
	s.Push(optionalKind, b.seq(b.token("?"), b.ref(ruleName, meta.Name{})))
	s.Push(repeatKind, b.wrapped("r", b.ref(flagName, meta.Name{})))
	s.Push(linesKind, b.wrapped("l", b.opt(b.ref(flagName, meta.Name{}))))

	kinds := make([]grammar.Rule, len(ruleKinds))
	for i, kind := range ruleKinds {
		kinds[i] = b.ref(kind, kind)
	}
	s.Push(ruleName, b.sel(kinds...))

	s.Push(declName, b.seq(
		&grammar.Number{ID: b.next(), Property: idName},
		b.ws(false),
		b.text(nameName, true),
		b.ws(false),
		b.ref(ruleName, meta.Name{}),
	))
	s.Push(documentName, &grammar.Lines{ID: b.next(), Optional: true, Rule: b.ref(declName, declName)})

	linked, e := grammar.Link(s)
	if e != nil {
		panic(e)
	}
	return linked
}

var rules = sync.OnceValue(buildRules)

// Rules returns the fixed linked rule collection describing grammar notation.
// The returned collection is shared and must not be modified.
func Rules() *grammar.Syntax {
	return rules()
}
