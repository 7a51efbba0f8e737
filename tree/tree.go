// Package tree reconstructs a generic node tree from a parser event stream.
//
// Every StartNode/EndNode pair becomes a Node, property events become node properties.
// The tree is untyped: consumers look nodes and properties up by name.
package tree

import (
	"fmt"
	"io"
	"strings"

	"github.com/ava12/meta"
)

// Error codes used by tree builder:
const (
	// UnexpectedEndError indicates EndNode event without matching StartNode.
	UnexpectedEndError = meta.TreeErrors + iota

	// UnclosedNodeError indicates StartNode event without matching EndNode.
	UnclosedNodeError
)

func unexpectedEndError(ev meta.Event) *meta.Error {
	return meta.FormatError(UnexpectedEndError, "unexpected end of node %q at %s", ev.Data.Name, ev.Range)
}

func unclosedNodeError(n *Node) *meta.Error {
	return meta.FormatError(UnclosedNodeError, "node %q started at %d is not closed", n.Name, n.Range.Offset)
}

// Node is a tree node. The root node built by Build has zero Name.
type Node struct {
	Name  meta.Name
	Range meta.Range
	// Props contains property events in emission order.
	Props []meta.Event

	parent, prev, next    *Node
	firstChild, lastChild *Node
	numChildren           int
	// number of children preceding each property
	propSlots []int
}

// NewNode creates detached node.
func NewNode(name meta.Name, rng meta.Range) *Node {
	return &Node{Name: name, Range: rng}
}

func (n *Node) Parent() *Node     { return n.parent }
func (n *Node) Prev() *Node       { return n.prev }
func (n *Node) Next() *Node       { return n.next }
func (n *Node) FirstChild() *Node { return n.firstChild }
func (n *Node) LastChild() *Node  { return n.lastChild }

// AppendChild detaches c and makes it the last child of n.
func (n *Node) AppendChild(c *Node) {
	Detach(c)
	c.parent = n
	c.prev = n.lastChild
	if n.lastChild == nil {
		n.firstChild = c
	} else {
		n.lastChild.next = c
	}
	n.lastChild = c
	n.numChildren++
}

// Prop returns the last value of named property.
func (n *Node) Prop(name meta.Name) (meta.Data, bool) {
	for i := len(n.Props) - 1; i >= 0; i-- {
		if n.Props[i].Data.Name == name {
			return n.Props[i].Data, true
		}
	}
	return meta.Data{}, false
}

// PropValues returns all values of named property in emission order.
func (n *Node) PropValues(name meta.Name) []any {
	var result []any
	for _, p := range n.Props {
		if p.Data.Name == name {
			result = append(result, p.Data.Value())
		}
	}
	return result
}

// String returns named string property or empty string.
func (n *Node) String(name meta.Name) string {
	d, found := n.Prop(name)
	if found && d.Kind == meta.StringKind {
		return d.String
	}
	return ""
}

// F64 returns named number property or 0.
func (n *Node) F64(name meta.Name) float64 {
	d, found := n.Prop(name)
	if found && d.Kind == meta.F64Kind {
		return d.F64
	}
	return 0
}

// Bool returns named bool property or false.
func (n *Node) Bool(name meta.Name) bool {
	d, found := n.Prop(name)
	return found && d.Kind == meta.BoolKind && d.Bool
}

// Build reconstructs tree from events. Returned root node has zero name and covers all events.
// Events at the root level become root properties.
func Build(events []meta.Event) (*Node, error) {
	root := &Node{}
	current := root
	for _, ev := range events {
		switch ev.Data.Kind {
		case meta.StartNodeKind:
			n := NewNode(ev.Data.Name, ev.Range)
			current.AppendChild(n)
			current = n
		case meta.EndNodeKind:
			if current == root || current.Name != ev.Data.Name {
				return nil, unexpectedEndError(ev)
			}

			current.Range = current.Range.Union(ev.Range)
			current = current.parent
		default:
			current.Props = append(current.Props, ev)
			current.propSlots = append(current.propSlots, current.numChildren)
		}
	}

	if current != root {
		return nil, unclosedNodeError(current)
	}

	if len(events) > 0 {
		root.Range = events[0].Range
		for _, ev := range events[1:] {
			root.Range = root.Range.Union(ev.Range)
		}
	}
	return root, nil
}

func (n *Node) propSlot(i int) int {
	if i < len(n.propSlots) {
		return n.propSlots[i]
	}
	return 0
}

// Events converts subtree rooted at n back to event stream.
// Node with zero name is not bracketed. For a tree returned by Build the result equals its input.
func Events(n *Node) []meta.Event {
	var result []meta.Event
	var add func(n *Node)
	add = func(n *Node) {
		named := !n.Name.IsZero()
		if named {
			result = append(result, meta.Event{Range: meta.EmptyRange(n.Range.Offset), Data: meta.StartNode(n.Name)})
		}
		p := 0
		i := 0
		for c := n.firstChild; c != nil; c = c.next {
			for p < len(n.Props) && n.propSlot(p) <= i {
				result = append(result, n.Props[p])
				p++
			}
			add(c)
			i++
		}
		result = append(result, n.Props[p:]...)
		if named {
			result = append(result, meta.Event{Range: n.Range, Data: meta.EndNode(n.Name)})
		}
	}
	add(n)
	return result
}

func Ancestor(n *Node, level int) *Node {
	for n != nil && level >= 0 {
		n = n.parent
		level--
	}
	return n
}

func NodeLevel(n *Node) (l int) {
	if n == nil {
		return
	}

	for p := n.parent; p != nil; p = p.parent {
		l++
	}
	return
}

func SiblingIndex(n *Node) (i int) {
	if n == nil {
		return
	}

	for p := n.prev; p != nil; p = p.prev {
		i++
	}
	return
}

// NthChild returns i-th child of n, negative i counts from the last child (-1).
func NthChild(n *Node, i int) *Node {
	if n == nil {
		return nil
	}

	var c *Node
	if i >= 0 {
		c = n.firstChild
		for c != nil && i > 0 {
			c = c.next
			i--
		}
	} else {
		i++
		c = n.lastChild
		for c != nil && i < 0 {
			c = c.prev
			i++
		}
	}
	return c
}

const AllLevels = -1

func NumOfChildren(parent *Node, levels int) int {
	if parent == nil {
		return 0
	}

	i := 0
	for c := parent.firstChild; c != nil; c = c.next {
		i++
		if levels != 0 {
			i += NumOfChildren(c, levels-1)
		}
	}
	return i
}

func Children(n *Node) []*Node {
	if n == nil {
		return nil
	}

	var res []*Node
	for c := n.firstChild; c != nil; c = c.next {
		res = append(res, c)
	}
	return res
}

// Detach removes n from its parent.
func Detach(n *Node) {
	if n == nil || n.parent == nil {
		return
	}

	if n.prev == nil {
		n.parent.firstChild = n.next
	} else {
		n.prev.next = n.next
	}
	if n.next == nil {
		n.parent.lastChild = n.prev
	} else {
		n.next.prev = n.prev
	}
	n.parent.numChildren--
	n.parent, n.prev, n.next = nil, nil, nil
}

type NodeVisitor func(n *Node) (walkChildren, walkSiblings bool)

type WalkMode int

const (
	WalkLtr WalkMode = 0
	WalkRtl WalkMode = 1
)

func Walk(n *Node, mode WalkMode, visitor NodeVisitor) {
	if n != nil {
		visitNode(n, visitor, (mode&WalkRtl) != 0)
	}
}

func visitNode(n *Node, v NodeVisitor, rtl bool) (visitSiblings bool) {
	vc, vs := v(n)
	if !vc {
		return vs
	}

	if rtl {
		for c := n.lastChild; c != nil && vc; c = c.prev {
			vc = visitNode(c, v, true)
		}
	} else {
		for c := n.firstChild; c != nil && vc; c = c.next {
			vc = visitNode(c, v, false)
		}
	}
	return vs
}

type NodeFilter func(n *Node) bool

type NodeSelector func(n *Node) []*Node

// Selector applies a chain of node selectors to input nodes and returns unique results.
type Selector struct {
	selectors []NodeSelector
}

func NewSelector() *Selector {
	return &Selector{}
}

func (s *Selector) Apply(input ...*Node) []*Node {
	var res []*Node
	index := make(map[*Node]bool)
	for _, n := range input {
		if n == nil {
			continue
		}

		ns := []*Node{n}
		for _, sel := range s.selectors {
			var next []*Node
			for _, nn := range ns {
				next = append(next, sel(nn)...)
			}
			ns = next
		}

		for _, nn := range ns {
			if !index[nn] {
				index[nn] = true
				res = append(res, nn)
			}
		}
	}
	return res
}

func (s *Selector) Use(ns NodeSelector) *Selector {
	if ns != nil {
		s.selectors = append(s.selectors, ns)
	}
	return s
}

func (s *Selector) Filter(nf NodeFilter) *Selector {
	return s.Use(func(n *Node) []*Node {
		if nf(n) {
			return []*Node{n}
		}
		return nil
	})
}

// Search selects descendants of each node (the node itself included) matching nf.
// Found nodes are not searched further unless deepSearch is set.
func (s *Selector) Search(nf NodeFilter, deepSearch bool) *Selector {
	return s.Use(func(n *Node) []*Node {
		var res []*Node
		visitNode(n, func(nn *Node) (vc, vs bool) {
			if nf(nn) {
				res = append(res, nn)
				return deepSearch, true
			}
			return true, true
		}, false)
		return res
	})
}

func (s *Selector) Children() *Selector {
	return s.Use(Children)
}

func IsNot(f NodeFilter) NodeFilter {
	return func(n *Node) bool {
		return !f(n)
	}
}

func IsAny(fs ...NodeFilter) NodeFilter {
	return func(n *Node) bool {
		for _, f := range fs {
			if f(n) {
				return true
			}
		}
		return false
	}
}

// IsA matches nodes with any of given names.
func IsA(names ...string) NodeFilter {
	return func(n *Node) bool {
		nn := n.Name.String()
		for _, name := range names {
			if nn == name {
				return true
			}
		}
		return false
	}
}

// HasProp matches nodes having named property.
func HasProp(name string) NodeFilter {
	pn := meta.NewName(name)
	return func(n *Node) bool {
		_, found := n.Prop(pn)
		return found
	}
}

// Dump writes indented tree representation, one node or property per line.
func Dump(w io.Writer, n *Node) error {
	var e error
	Walk(n, WalkLtr, func(n *Node) (bool, bool) {
		if e != nil {
			return false, false
		}

		level := NodeLevel(n)
		indent := strings.Repeat("  ", level)
		if level > 0 {
			indent = indent[2:]
		}
		if level > 0 || !n.Name.IsZero() {
			_, e = fmt.Fprintf(w, "%s%s %s\n", indent, n.Name, n.Range)
			indent += "  "
		}
		for _, p := range n.Props {
			if e == nil {
				_, e = fmt.Fprintf(w, "%s%s = %#v\n", indent, p.Data.Name, p.Data.Value())
			}
		}
		return e == nil, e == nil
	})
	return e
}
