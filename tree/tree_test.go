package tree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/meta"
	"github.com/ava12/meta/internal/test"
)

var (
	numName = meta.NewName("num")
	valName = meta.NewName("val")
	tagName = meta.NewName("tag")
)

func ev(offset, length int, data meta.Data) meta.Event {
	return meta.Event{Range: meta.Range{Offset: offset, Length: length}, Data: data}
}

// events for "1 2 3" parsed as nested numbers with tags
func sampleEvents() []meta.Event {
	return []meta.Event{
		ev(0, 0, meta.StartNode(numName)),
		ev(0, 1, meta.F64(valName, 1)),
		ev(2, 0, meta.StartNode(numName)),
		ev(2, 1, meta.F64(valName, 2)),
		ev(4, 0, meta.StartNode(numName)),
		ev(4, 1, meta.F64(valName, 3)),
		ev(4, 1, meta.EndNode(numName)),
		ev(2, 3, meta.EndNode(numName)),
		ev(5, 0, meta.String(tagName, "first")),
		ev(0, 5, meta.EndNode(numName)),
	}
}

func TestBuild(t *testing.T) {
	root, e := Build(sampleEvents())
	require.NoError(t, e)
	assert.True(t, root.Name.IsZero())
	assert.Equal(t, meta.Range{Offset: 0, Length: 5}, root.Range)
	assert.Equal(t, 3, NumOfChildren(root, AllLevels))
	assert.Equal(t, 1, NumOfChildren(root, 0))

	first := root.FirstChild()
	require.NotNil(t, first)
	assert.Equal(t, numName, first.Name)
	assert.Equal(t, meta.Range{Offset: 0, Length: 5}, first.Range)
	assert.Equal(t, 1.0, first.F64(valName))
	assert.Equal(t, "first", first.String(tagName))
	assert.False(t, first.Bool(tagName))

	third := NthChild(NthChild(first, 0), -1)
	require.NotNil(t, third)
	assert.Equal(t, 3.0, third.F64(valName))
	assert.Equal(t, 2, NodeLevel(third))
	assert.Same(t, first, Ancestor(third, 0).Parent())
	assert.Nil(t, third.FirstChild())
}

func TestEventsRoundTrip(t *testing.T) {
	events := sampleEvents()
	root, e := Build(events)
	require.NoError(t, e)
	assert.Equal(t, events, Events(root))
}

func TestBuildErrors(t *testing.T) {
	samples := []struct {
		events []meta.Event
		code   int
	}{
		{[]meta.Event{ev(0, 0, meta.EndNode(numName))}, UnexpectedEndError},
		{[]meta.Event{ev(0, 0, meta.StartNode(numName)), ev(0, 0, meta.EndNode(valName))}, UnexpectedEndError},
		{[]meta.Event{ev(0, 0, meta.StartNode(numName)), ev(0, 0, meta.StartNode(numName)), ev(0, 0, meta.EndNode(numName))}, UnclosedNodeError},
	}

	for _, sample := range samples {
		_, e := Build(sample.events)
		test.ExpectErrorCode(t, sample.code, e)
	}
}

func TestSiblings(t *testing.T) {
	root := NewNode(meta.Name{}, meta.Range{})
	a := NewNode(numName, meta.EmptyRange(0))
	b := NewNode(valName, meta.EmptyRange(1))
	c := NewNode(numName, meta.EmptyRange(2))
	root.AppendChild(a)
	root.AppendChild(b)
	root.AppendChild(c)

	assert.Equal(t, []*Node{a, b, c}, Children(root))
	assert.Equal(t, 1, SiblingIndex(b))
	assert.Same(t, c, NthChild(root, -1))
	assert.Nil(t, NthChild(root, 3))

	Detach(b)
	assert.Nil(t, b.Parent())
	assert.Same(t, c, a.Next())
	assert.Same(t, a, c.Prev())
	assert.Equal(t, 2, NumOfChildren(root, 0))

	a.AppendChild(c)
	assert.Same(t, a, root.LastChild())
	assert.Same(t, c, a.FirstChild())
}

func TestSelector(t *testing.T) {
	root, e := Build(sampleEvents())
	require.NoError(t, e)

	all := NewSelector().Search(IsA("num"), true).Apply(root)
	assert.Len(t, all, 3)

	outer := NewSelector().Search(IsA("num"), false).Apply(root)
	assert.Len(t, outer, 1)

	tagged := NewSelector().Search(HasProp("tag"), true).Apply(root, root)
	require.Len(t, tagged, 1)
	assert.Same(t, root.FirstChild(), tagged[0])

	untagged := NewSelector().Search(IsA("num"), true).Filter(IsNot(HasProp("tag"))).Apply(root)
	assert.Len(t, untagged, 2)

	children := NewSelector().Children().Children().Apply(root)
	assert.Len(t, children, 1)
}

func TestWalkRtl(t *testing.T) {
	root := NewNode(meta.Name{}, meta.Range{})
	for _, name := range []string{"a", "b", "c"} {
		root.AppendChild(NewNode(meta.NewName(name), meta.Range{}))
	}

	var names []string
	Walk(root, WalkRtl, func(n *Node) (bool, bool) {
		names = append(names, n.Name.String())
		return true, n.Name.String() != "b"
	})
	assert.Equal(t, []string{"", "c", "b"}, names)
}

func TestDump(t *testing.T) {
	root, e := Build(sampleEvents())
	require.NoError(t, e)

	var sb strings.Builder
	require.NoError(t, Dump(&sb, root))
	expected := `num 0+5
  val = 1
  tag = "first"
  num 2+3
    val = 2
    num 4+1
      val = 3
`
	assert.Equal(t, expected, sb.String())
}
