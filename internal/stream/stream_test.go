package stream

import (
	"testing"

	"hl7play/internal/source"
)

// TestSequentialReading проверяет последовательное чтение "ab" → a, b, EOL
func TestSequentialReading(t *testing.T) {
	s := New("ab", 0, 0)

	if s.EOL() {
		t.Fatal("fresh stream must not be at EOL")
	}
	if got := s.Peek(); got != 'a' {
		t.Errorf("expected peek 'a', got %q", got)
	}
	if got := s.Next(); got != 'a' {
		t.Errorf("expected next 'a', got %q", got)
	}
	if got := s.Next(); got != 'b' {
		t.Errorf("expected next 'b', got %q", got)
	}
	if !s.EOL() {
		t.Fatal("expected EOL")
	}
	if got := s.Next(); got != 0 {
		t.Errorf("expected 0 past EOL, got %q", got)
	}
	if got := s.Peek(); got != 0 {
		t.Errorf("expected peek 0 past EOL, got %q", got)
	}
}

func TestColumnTracksTokenStart(t *testing.T) {
	s := New("αβγ", 0, 0)

	for want := 0; want < 3; want++ {
		s.Start()
		s.Next()
		if got := s.Column(); got != want {
			t.Errorf("token %d: expected column %d, got %d", want, want, got)
		}
	}
	s.Start()
	if s.Column() != 3 || !s.EOL() {
		t.Errorf("expected column 3 at EOL, got %d", s.Column())
	}
}

func TestEatWhileAndCurrent(t *testing.T) {
	s := New(`"abc" rest`, 10, 2)

	s.Start()
	s.Next()
	if !s.EatWhile(func(r rune) bool { return r != '"' }) {
		t.Fatal("expected EatWhile to consume")
	}
	if got := s.Current(); got != `"abc` {
		t.Errorf("Current = %q", got)
	}
	if got := s.Span(); got != (source.Span{File: 2, Start: 10, End: 14}) {
		t.Errorf("Span = %v", got)
	}
	if s.EatWhile(func(r rune) bool { return r == 'x' }) {
		t.Error("EatWhile must report false when nothing matched")
	}
}

func TestSkipToEnd(t *testing.T) {
	s := New("# comment", 0, 0)
	s.Start()
	if s.Next() != '#' {
		t.Fatal("expected '#'")
	}
	s.SkipToEnd()
	if !s.EOL() || s.Current() != "# comment" {
		t.Errorf("SkipToEnd left %q consumed, EOL=%v", s.Current(), s.EOL())
	}
}

func TestMultibyteSpan(t *testing.T) {
	s := New("\u00e9|", 4, 0)
	s.Start()
	s.Next()
	if got := s.Span(); got.Start != 4 || got.End != 6 {
		t.Errorf("expected 2-byte span 4-6, got %v", got)
	}
}
