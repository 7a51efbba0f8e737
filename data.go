package meta

import (
	"fmt"
	"strconv"
	"unique"
)

// Name is an interned string used for rule and property names.
// Copying and comparing names is cheap, equal strings always produce equal names.
// Zero Name means "no name".
type Name struct {
	h unique.Handle[string]
}

// NewName interns a string.
func NewName(s string) Name {
	return Name{unique.Make(s)}
}

// IsZero reports whether n is the zero Name.
func (n Name) IsZero() bool {
	return n == Name{}
}

func (n Name) String() string {
	if n.IsZero() {
		return ""
	}

	return n.h.Value()
}

// Range is a span of runes in source text. Length may be zero.
type Range struct {
	Offset int
	Length int
}

// EmptyRange returns zero-length range at given offset.
func EmptyRange(offset int) Range {
	return Range{offset, 0}
}

// End returns the offset right after the range.
func (r Range) End() int {
	return r.Offset + r.Length
}

// Union returns the smallest range covering both r and other.
func (r Range) Union(other Range) Range {
	start := min(r.Offset, other.Offset)
	end := max(r.End(), other.End())
	return Range{start, end - start}
}

func (r Range) String() string {
	return fmt.Sprintf("%d+%d", r.Offset, r.Length)
}

// Kind is the type of event data.
type Kind byte

const (
	StartNodeKind Kind = iota + 1
	EndNodeKind
	BoolKind
	F64Kind
	StringKind
)

var kindNames = map[Kind]string{
	StartNodeKind: "start",
	EndNodeKind:   "end",
	BoolKind:      "bool",
	F64Kind:       "f64",
	StringKind:    "string",
}

func (k Kind) String() string {
	name, has := kindNames[k]
	if has {
		return name
	}

	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Data describes either a node boundary or a property value.
// Only the field matching Kind is meaningful. Data values are comparable.
type Data struct {
	Kind   Kind
	Name   Name
	Bool   bool
	F64    float64
	String string
}

func StartNode(name Name) Data {
	return Data{Kind: StartNodeKind, Name: name}
}

func EndNode(name Name) Data {
	return Data{Kind: EndNodeKind, Name: name}
}

func Bool(name Name, value bool) Data {
	return Data{Kind: BoolKind, Name: name, Bool: value}
}

func F64(name Name, value float64) Data {
	return Data{Kind: F64Kind, Name: name, F64: value}
}

func String(name Name, value string) Data {
	return Data{Kind: StringKind, Name: name, String: value}
}

// Value returns property value or nil for node boundaries.
func (d Data) Value() any {
	switch d.Kind {
	case BoolKind:
		return d.Bool
	case F64Kind:
		return d.F64
	case StringKind:
		return d.String
	default:
		return nil
	}
}

func (d Data) Format(f fmt.State, verb rune) {
	switch d.Kind {
	case StartNodeKind, EndNodeKind:
		fmt.Fprintf(f, "%s(%s)", d.Kind, d.Name)
	case StringKind:
		fmt.Fprintf(f, "%s(%s, %q)", d.Kind, d.Name, d.String)
	default:
		fmt.Fprintf(f, "%s(%s, %v)", d.Kind, d.Name, d.Value())
	}
}

// Event is a piece of parser output: data with the range of source text that produced it.
type Event struct {
	Range Range
	Data  Data
}

func (e Event) String() string {
	return fmt.Sprintf("%v %v", e.Range, e.Data)
}
