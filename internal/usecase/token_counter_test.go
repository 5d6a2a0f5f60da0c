package usecase

import (
	"strings"
	"testing"
)

func TestHeuristicCounterEmpty(t *testing.T) {
	c := NewTokenCounter(EncodingHeuristic, testLogger())
	if got := c.CountText(""); got != 0 {
		t.Errorf("CountText(\"\") = %d, want 0", got)
	}
}

func TestHeuristicCounterShortText(t *testing.T) {
	c := NewTokenCounter("", testLogger())
	if got := c.CountText("hi"); got != 1 {
		t.Errorf("short non-empty text should cost at least 1 token, got %d", got)
	}
}

func TestHeuristicCounterScalesWithLength(t *testing.T) {
	c := NewTokenCounter(EncodingHeuristic, testLogger())
	short := c.CountText(strings.Repeat("word ", 10))
	long := c.CountText(strings.Repeat("word ", 1000))
	if long <= short {
		t.Errorf("longer text should cost more: short=%d long=%d", short, long)
	}
	// ~4 runes per token.
	if got := c.CountText(strings.Repeat("a", 400)); got != 100 {
		t.Errorf("400 runes = %d tokens, want 100", got)
	}
}

func TestHeuristicCounterDeterministic(t *testing.T) {
	c := NewTokenCounter(EncodingHeuristic, testLogger())
	text := "The Project Structure Agent owns directory conventions."
	first := c.CountText(text)
	for i := 0; i < 5; i++ {
		if got := c.CountText(text); got != first {
			t.Fatalf("counter not deterministic: %d != %d", got, first)
		}
	}
}
