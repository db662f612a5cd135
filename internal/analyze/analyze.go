// Package analyze provides the deterministic local analysis path: extractive
// summaries and keyword topics computed without any network access. It is
// the fallback for every remote failure, so its output must always be usable
// as-is in the feed.
package analyze

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxKeywords caps how many topics local extraction produces per cycle.
const MaxKeywords = 6

var (
	sentenceEnd = regexp.MustCompile(`[.!?]+\s+`)
	nonWord     = regexp.MustCompile(`[^\p{L}\p{N}]+`)
)

// Summarize returns the first two sentences of text joined with ". " and a
// trailing period. Empty input yields an empty string.
func Summarize(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	var sentences []string
	for _, part := range sentenceEnd.Split(text, -1) {
		part = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(part), ".!?"))
		if part == "" {
			continue
		}
		sentences = append(sentences, part)
		if len(sentences) == 2 {
			break
		}
	}

	if len(sentences) == 0 {
		return ""
	}
	return strings.Join(sentences, ". ") + "."
}

// Keywords lowercases text, splits on runs of non-letter/non-digit runes,
// keeps tokens longer than 3 runes, and deduplicates preserving first-seen
// order. At most max entries are returned; max <= 0 means MaxKeywords.
func Keywords(text string, max int) []string {
	if max <= 0 {
		max = MaxKeywords
	}

	seen := make(map[string]bool)
	var out []string
	for _, tok := range nonWord.Split(strings.ToLower(text), -1) {
		if utf8.RuneCountInString(tok) <= 3 {
			continue
		}
		if seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
		if len(out) == max {
			break
		}
	}
	return out
}

// PlaceholderIntents is the fixed intent list used when the remote path is
// unavailable.
func PlaceholderIntents() []string {
	return []string{"Acompanhar os assuntos da conversa"}
}

// PlaceholderQuestions is the fixed question list used when the remote path
// is unavailable.
func PlaceholderQuestions() []string {
	return []string{"Quais são os próximos passos sobre esse tema?"}
}
