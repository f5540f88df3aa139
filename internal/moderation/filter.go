package moderation

import "strings"

// defaultBannedWords is the static moderation list. Matching is by
// substring over normalized text, so obfuscation with spacing or
// punctuation ("B-A-D") is still caught. The flip side is false
// positives on words that merely contain a banned substring.
var defaultBannedWords = []string{
	"fuck",
	"shit",
	"bitch",
	"asshole",
	"bastard",
	"dick",
	"cunt",
	"slut",
	"whore",
	"nigger",
	"faggot",
	"rape",
}

// Filter classifies text as clean or unclean against a banned-word list.
type Filter struct {
	words []string
}

// NewFilter creates a filter with the default banned-word list.
func NewFilter() *Filter {
	return &Filter{words: defaultBannedWords}
}

// NewFilterWithWords creates a filter with a custom banned-word list.
func NewFilterWithWords(words []string) *Filter {
	return &Filter{words: words}
}

// IsClean reports whether text contains no banned word. The input is
// normalized by dropping every character that is not an ASCII letter and
// lower-casing the rest before the substring check.
func (f *Filter) IsClean(text string) bool {
	normalized := normalize(text)
	for _, w := range f.words {
		if strings.Contains(normalized, w) {
			return false
		}
	}
	return true
}

func normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		}
	}
	return b.String()
}
