package lexer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/meta"
	"github.com/ava12/meta/internal/test"
)

func reader(text string) *Reader {
	return New([]rune(text))
}

func TestToken(t *testing.T) {
	r := reader("fn foo()")
	rng, ok := r.Token("fn ", 0)
	assert.True(t, ok)
	assert.Equal(t, meta.Range{Offset: 0, Length: 3}, rng)

	rng, ok = r.Token("(", 6)
	assert.True(t, ok)
	assert.Equal(t, meta.Range{Offset: 6, Length: 1}, rng)

	rng, ok = r.Token("()x", 6)
	assert.False(t, ok)
	assert.Equal(t, meta.EmptyRange(6), rng)

	rng, ok = r.Token("ф", 100)
	assert.False(t, ok)
	assert.Equal(t, meta.EmptyRange(100), rng)
}

func TestWhitespace(t *testing.T) {
	r := reader("a,b, \n\tc")
	assert.Equal(t, meta.EmptyRange(0), r.Whitespace(0))
	assert.Equal(t, meta.Range{Offset: 4, Length: 3}, r.Whitespace(4))
	assert.Equal(t, meta.EmptyRange(8), r.Whitespace(8))
}

func TestUntilAnyOrWhitespace(t *testing.T) {
	r := reader("fn foo(bar) baz")
	assert.Equal(t, meta.Range{Offset: 0, Length: 2}, r.UntilAnyOrWhitespace("(", 0))
	assert.Equal(t, meta.EmptyRange(2), r.UntilAnyOrWhitespace("(", 2))
	assert.Equal(t, meta.Range{Offset: 3, Length: 3}, r.UntilAnyOrWhitespace("(", 3))
	assert.Equal(t, meta.Range{Offset: 7, Length: 3}, r.UntilAnyOrWhitespace("()", 7))
	assert.Equal(t, meta.Range{Offset: 12, Length: 3}, r.UntilAnyOrWhitespace("", 12))
}

func TestNumber(t *testing.T) {
	samples := []struct {
		text       string
		underscore bool
		length     int
		value      float64
	}{
		{"1", false, 1, 1},
		{"1.1", false, 3, 1.1},
		{"10e1", false, 4, 100},
		{"10.0E1", false, 6, 100},
		{"-2.5e-1", false, 7, -0.25},
		{"10_000", true, 6, 10000},
		{"10_000", false, 2, 10},
		{"7.", false, 1, 7},
		{"3e", false, 1, 3},
		{"42 foo", false, 2, 42},
	}

	for i, sample := range samples {
		t.Run(fmt.Sprintf("sample #%d", i), func(t *testing.T) {
			settings := NumberSettings{AllowUnderscore: sample.underscore}
			r := reader(sample.text)
			rng, ok := r.Number(settings, 0)
			require.True(t, ok)
			require.Equal(t, sample.length, rng.Length)
			value, e := r.ParseNumber(settings, rng)
			require.NoError(t, e)
			assert.Equal(t, sample.value, value)
		})
	}
}

func TestNotNumber(t *testing.T) {
	samples := []string{"", "foo", "-", "-x", ".5", "_1"}
	for _, sample := range samples {
		_, ok := reader(sample).Number(NumberSettings{AllowUnderscore: true}, 0)
		assert.False(t, ok, "sample %q", sample)
	}
}

func TestNumberOutOfRange(t *testing.T) {
	r := reader("1e999")
	rng, ok := r.Number(NumberSettings{}, 0)
	require.True(t, ok)
	_, e := r.ParseNumber(NumberSettings{}, rng)
	test.ExpectErrorCode(t, NumberFormatError, e)
}

func TestString(t *testing.T) {
	samples := []struct {
		text, value string
	}{
		{`""`, ""},
		{`"Hello world!"`, "Hello world!"},
		{`"a\"b\\c" tail`, `a"b\c`},
		{`"\n\t\/"`, "\n\t/"},
		{`"Жé"`, "Жé"},
		{`"привет"`, "привет"},
	}

	for i, sample := range samples {
		t.Run(fmt.Sprintf("sample #%d", i), func(t *testing.T) {
			r := reader(sample.text)
			rng, ok := r.String(0)
			require.True(t, ok)
			value, e := r.ParseString(rng)
			require.NoError(t, e)
			assert.Equal(t, sample.value, value)
		})
	}
}

func TestBrokenString(t *testing.T) {
	for _, text := range []string{``, `foo`, `"foo`, `"foo\"`} {
		_, ok := reader(text).String(0)
		assert.False(t, ok, "sample %q", text)
	}

	for _, text := range []string{`"\x"`, `"\u12"`, `"\uzzzz"`, `"\ud800"`} {
		r := reader(text)
		rng, ok := r.String(0)
		require.True(t, ok, "sample %q", text)
		_, e := r.ParseString(rng)
		test.ExpectErrorCode(t, InvalidEscapeError, e)
	}
}

func TestLines(t *testing.T) {
	r := reader("foo\n  \n\tbar")
	assert.Equal(t, 3, r.LineEnd(0))
	assert.Equal(t, 3, r.LineEnd(3))
	assert.Equal(t, 6, r.LineEnd(4))
	assert.Equal(t, 11, r.LineEnd(7))

	assert.Equal(t, 0, r.LineStart(2))
	assert.Equal(t, 4, r.LineStart(4))
	assert.Equal(t, 7, r.LineStart(11))

	assert.True(t, r.IsLineStart(0))
	assert.False(t, r.IsLineStart(3))
	assert.True(t, r.IsLineStart(4))
	assert.True(t, r.IsLineStart(7))

	assert.True(t, r.IsBlank(3, 7))
	assert.False(t, r.IsBlank(3, 9))

	assert.Equal(t, 2, r.Indent(4))
	assert.Equal(t, 1, r.Indent(7))
	assert.Equal(t, 0, r.Indent(0))
}
