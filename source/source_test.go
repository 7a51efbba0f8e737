package source

import (
	"testing"
)

type result struct {
	pos, line, col int
}

func TestSourceLineCol(t *testing.T) {
	samples := map[string][]result{
		"": {
			{0, 1, 1},
			{100, 1, 1},
			{100, 1, 1},
		},
		"\n": {
			{0, 1, 1},
			{1, 2, 1},
			{1, 2, 1},
			{100, 2, 1},
		},
		"0\n2\n4\n6789abcde\ng\ni\n": {
			{4, 3, 1},
			{5, 3, 2},
			{6, 4, 1},
			{7, 4, 2},
			{14, 4, 9},
			{19, 6, 2},
			{20, 7, 1},
			{9, 4, 4},
			{5, 3, 2},
		},
		"ёж\nщи": {
			{1, 1, 2},
			{2, 1, 3},
			{3, 2, 1},
			{4, 2, 2},
		},
	}

	for text, results := range samples {
		source := NewString("", text)
		for _, res := range results {
			l, c := source.LineCol(res.pos)
			if l != res.line || c != res.col {
				t.Errorf("sample %q: expected %v, got line: %d, col: %d", text, res, l, c)
			}
		}
	}
}

func TestSourcePos(t *testing.T) {
	samples := map[string][]result{
		"": {
			{0, 0, 1},
			{0, 1, 0},
			{0, 1, 1},
			{0, 1, 2},
			{0, 2, 1},
		},
		"\n": {
			{0, 0, 1},
			{0, 1, 1},
			{1, 1, 2},
			{1, 2, 1},
			{1, 2, 2},
			{1, 3, 1},
		},
		"hello\nworld\n": {
			{0, 1, 1},
			{1, 1, 2},
			{6, 2, 1},
			{7, 2, 2},
			{12, 2, 10},
			{12, 3, 1},
			{12, 4, 1},
		},
	}

	for text, results := range samples {
		source := NewString("", text)
		for _, res := range results {
			p := source.Pos(res.line, res.col)
			if p != res.pos {
				t.Errorf("sample %q: expected %v, got pos: %d", text, res, p)
			}
		}
	}
}

func TestLines(t *testing.T) {
	s := NewString("", "foo\n  \nbar")
	if s.NumLines() != 3 {
		t.Fatalf("expecting 3 lines, got %d", s.NumLines())
	}

	lines := []string{"foo", "  ", "bar"}
	blank := []bool{false, true, false}
	for i, expected := range lines {
		got := s.Line(i + 1)
		if got != expected {
			t.Errorf("line %d: expecting %q, got %q", i+1, expected, got)
		}
		if s.IsBlankLine(i+1) != blank[i] {
			t.Errorf("line %d: expecting blank=%v", i+1, blank[i])
		}
	}

	if s.Line(4) != "" {
		t.Errorf("expecting empty line beyond the end")
	}
}

func TestSlice(t *testing.T) {
	s := NewString("name", "привет мир")
	samples := []struct {
		from, to int
		expected string
	}{
		{0, 6, "привет"},
		{7, 100, "мир"},
		{-5, 1, "п"},
		{5, 2, ""},
	}

	for _, sample := range samples {
		got := s.Slice(sample.from, sample.to)
		if got != sample.expected {
			t.Errorf("slice(%d, %d): expecting %q, got %q", sample.from, sample.to, sample.expected, got)
		}
	}

	p := NewPos(s, 8)
	if p.SourceName() != "name" || p.Line() != 1 || p.Col() != 9 || p.Pos() != 8 {
		t.Errorf("unexpected pos: %+v", p)
	}
}
