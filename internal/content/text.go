package content

import (
	"strings"
	"unicode"
)

// SplitSentences splits prose into sentences. A sentence ends at '.', '!' or
// '?' (optionally followed by closing quotes or brackets) when the next
// non-space rune starts a new sentence or the text ends. Abbreviation
// detection is deliberately minimal; the consumers of this tokenizer only
// need stable, deterministic boundaries.
func SplitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)
	start := 0

	for i := 0; i < len(runes); i++ {
		if !isSentenceEnd(runes[i]) {
			continue
		}

		// Swallow trailing closers like quotes and parens.
		end := i + 1
		for end < len(runes) && isCloser(runes[end]) {
			end++
		}

		// Boundary only when followed by whitespace or end of text.
		if end < len(runes) && !unicode.IsSpace(runes[end]) {
			continue
		}

		s := strings.TrimSpace(string(runes[start:end]))
		if s != "" {
			sentences = append(sentences, s)
		}
		start = end
		i = end - 1
	}

	if rest := strings.TrimSpace(string(runes[start:])); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}

// SplitParagraphs splits text on blank lines.
func SplitParagraphs(text string) []string {
	return strings.Split(text, "\n\n")
}

// splitWords breaks text into lowercase alphanumeric tokens.
func splitWords(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isCloser(r rune) bool {
	switch r {
	case '"', '\'', ')', ']', '”', '’':
		return true
	}
	return false
}
