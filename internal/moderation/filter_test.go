package moderation

import "testing"

func TestIsClean_AllowsCleanText(t *testing.T) {
	f := NewFilterWithWords([]string{"bad"})

	if !f.IsClean("a perfectly fine confession") {
		t.Fatal("clean text should pass")
	}
}

func TestIsClean_RejectsBannedWord(t *testing.T) {
	f := NewFilterWithWords([]string{"bad"})

	if f.IsClean("what a bad day") {
		t.Fatal("text containing a banned word should be rejected")
	}
}

func TestIsClean_RejectsObfuscatedWord(t *testing.T) {
	f := NewFilterWithWords([]string{"bad"})

	// "B-A-D day" normalizes to "badday", which contains "bad".
	if f.IsClean("B-A-D day") {
		t.Fatal("punctuation-obfuscated banned word should be rejected")
	}
}

func TestIsClean_IgnoresCase(t *testing.T) {
	f := NewFilterWithWords([]string{"bad"})

	if f.IsClean("BaD") {
		t.Fatal("case should not matter")
	}
}

func TestIsClean_SubstringMatch(t *testing.T) {
	f := NewFilterWithWords([]string{"bad"})

	// Documented trade-off: substring matching flags containing words too.
	if f.IsClean("badminton is great") {
		t.Fatal("substring matching should flag containing words")
	}
}

func TestIsClean_StripsDigitsAndSymbols(t *testing.T) {
	f := NewFilterWithWords([]string{"bad"})

	if f.IsClean("b4d b.a.d") {
		t.Fatal("expected 'b.a.d' to normalize to 'bad'")
	}
	if !f.IsClean("b4d") {
		t.Fatal("digits are stripped, 'b4d' normalizes to 'bd' which is clean")
	}
}

func TestIsClean_EmptyText(t *testing.T) {
	f := NewFilter()

	if !f.IsClean("") {
		t.Fatal("empty text is clean")
	}
}
