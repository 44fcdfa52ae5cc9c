package core

import (
	"strings"
	"testing"
)

func TestSetAndGetWithBoundsChecks(t *testing.T) {
	s := NewScreen(10, 5)

	s.Set(3, 2, '@')
	if s.Get(3, 2) != '@' {
		t.Errorf("Get(3,2) = %q", s.Get(3, 2))
	}

	// Out of bounds writes are ignored, reads return space.
	s.Set(-1, 0, 'x')
	s.Set(10, 0, 'x')
	s.Set(0, 5, 'x')
	if s.Get(-1, 0) != ' ' || s.Get(10, 0) != ' ' {
		t.Error("out-of-bounds reads should return space")
	}
}

func TestSetColoredStoresColor(t *testing.T) {
	s := NewScreen(4, 4)
	s.SetColored(1, 1, '#', ColorRed)

	cell := s.GetCell(1, 1)
	if cell.Rune != '#' || cell.Color != ColorRed {
		t.Errorf("cell = %+v", cell)
	}
}

func TestClearResetsAllCells(t *testing.T) {
	s := NewScreen(4, 4)
	s.SetColored(2, 2, '#', ColorGreen)
	s.Clear()

	cell := s.GetCell(2, 2)
	if cell.Rune != ' ' || cell.Color != ColorDefault {
		t.Errorf("clear left %+v", cell)
	}
}

func TestDrawTextClipsAtEdge(t *testing.T) {
	s := NewScreen(5, 1)
	s.DrawText(3, 0, "abcd")

	if s.Get(3, 0) != 'a' || s.Get(4, 0) != 'b' {
		t.Error("visible part of the text missing")
	}
	// The rest fell off the edge without panicking.
}

func TestResizePreservesContent(t *testing.T) {
	s := NewScreen(10, 5)
	s.Set(2, 2, '@')

	s.Resize(20, 10)
	if s.Width() != 20 || s.Height() != 10 {
		t.Fatalf("resize dims = %dx%d", s.Width(), s.Height())
	}
	if s.Get(2, 2) != '@' {
		t.Error("content lost on grow")
	}

	s.Resize(3, 3)
	if s.Get(2, 2) != '@' {
		t.Error("content inside new bounds lost on shrink")
	}
}

func TestStringJoinsRows(t *testing.T) {
	s := NewScreen(3, 2)
	s.Set(0, 0, 'a')
	s.Set(2, 1, 'b')

	out := s.String()
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0] != "a  " || lines[1] != "  b" {
		t.Errorf("unexpected output %q", out)
	}
}
