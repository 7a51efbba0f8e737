package report

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/meta"
	"github.com/ava12/meta/langdef"
	"github.com/ava12/meta/parser"
	"github.com/ava12/meta/source"
)

func TestRender(t *testing.T) {
	longLine := strings.Repeat("a", 200)
	samples := []struct {
		text     string
		e        error
		expected string
	}{
		{
			"foo\n\nbar baz\n",
			&parser.Error{Code: parser.ExpectedTokenError, Range: meta.EmptyRange(9), DebugID: 2, Text: "x"},
			"Error expected \"x\" (rule 2)\n1: foo\n2: \n3,5: bar baz\n3,5:     ^\n",
		},
		{
			"\tфыв 世界x",
			&parser.Error{Code: parser.ExpectedNumberError, Range: meta.EmptyRange(7), DebugID: 1},
			"Error expected number (rule 1)\n1,8: \tфыв 世界x\n1,8: \t        ^\n",
		},
		{
			longLine,
			&parser.Error{Code: parser.ExpectedTextError, Range: meta.EmptyRange(120)},
			"Error expected text\n1,121: " + strings.Repeat("a", 100) + "\n1,121: " + strings.Repeat(" ", 50) + "^\n",
		},
		{
			"ab\ncd",
			&parser.Error{Code: parser.DidNotExpectTokenError, Range: meta.Range{Offset: 1, Length: 3}, DebugID: 4, Text: "bc"},
			"Error did not expect \"bc\" (rule 4)\n1,2: ab\n1,2:  ^\n2,1: cd\n2,1: ^\n",
		},
		{
			"first\nsecond",
			meta.NewError(1, "duplicate", "sample", 2, 3),
			"Error duplicate in sample at line 2 col 3\n2,3: second\n2,3:   ^\n",
		},
		{
			"",
			errors.New("boom"),
			"Error boom\n",
		},
	}

	for i, sample := range samples {
		t.Run(fmt.Sprintf("sample #%d", i), func(t *testing.T) {
			h := New(source.NewString("sample", sample.text))
			assert.Equal(t, sample.expected, h.String(sample.e))
		})
	}
}

func TestRenderGrammarError(t *testing.T) {
	text := "1 \"a\" [\"x\""
	_, e := langdef.ParseString("sample", text)
	require.Error(t, e)

	sb := &strings.Builder{}
	require.NoError(t, New(source.NewString("sample", text)).Write(sb, e))
	assert.True(t, strings.HasPrefix(sb.String(), "Error expected \"]\" (rule "), sb.String())
	assert.True(t, strings.HasSuffix(sb.String(), ")\n1,11: 1 \"a\" [\"x\"\n1,11:           ^\n"), sb.String())
}

func TestColor(t *testing.T) {
	src := source.NewString("", "x")
	e := &parser.Error{Code: parser.ExpectedNumberError}
	assert.Contains(t, New(src, WithColor(true)).String(e), "\x1b[")
	assert.NotContains(t, New(src).String(e), "\x1b[")
}

func TestMust(t *testing.T) {
	src := source.NewString("", "x")
	assert.Equal(t, 42, Must(src, 42, nil))
	assert.Panics(t, func() {
		Must(src, 0, &parser.Error{Code: parser.ExpectedNumberError})
	})
}
