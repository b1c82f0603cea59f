package studysheet

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/eduforge/eduforge/internal/content"
)

// maxKeyConcepts caps the Key Concepts section at the most frequent terms.
const maxKeyConcepts = 8

// termFallback is returned when no sentence in the corpus mentions a term.
const termFallback = "Important concept in this topic."

// keyConcepts aggregates key terms across all explanations, ranks them by
// raw frequency (stable ties by first appearance), and renders the top terms
// as a bolded definition list.
func keyConcepts(explanations []content.Record) string {
	counts := make(map[string]int)
	var order []string
	for _, exp := range explanations {
		for _, term := range exp.KeyTerms {
			if counts[term] == 0 {
				order = append(order, term)
			}
			counts[term]++
		}
	}
	if len(order) == 0 {
		return ""
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > maxKeyConcepts {
		order = order[:maxKeyConcepts]
	}

	lines := make([]string, 0, len(order))
	for _, term := range order {
		definition := findTermDefinition(term, explanations)
		lines = append(lines, fmt.Sprintf("**%s**: %s", titleCase(term), definition))
	}
	return strings.Join(lines, "\n\n")
}

// findTermDefinition scans every sentence of every explanation for a
// case-insensitive mention of term and returns the best-scoring one. A
// sentence scores its own length, plus 100 when it opens its body.
//
// A candidate replaces the incumbent when its score exceeds the incumbent's
// raw length, not the incumbent's score.
func findTermDefinition(term string, explanations []content.Record) string {
	termLower := strings.ToLower(term)
	best := termFallback

	for _, exp := range explanations {
		sentences := content.SplitSentences(exp.Body)
		for i, sentence := range sentences {
			if !strings.Contains(strings.ToLower(sentence), termLower) {
				continue
			}
			score := len(sentence)
			if i == 0 {
				score += 100
			}
			if len(best) < 10 || score > len(best) {
				best = sentence
			}
		}
	}
	return best
}

// titleCase capitalizes the first letter of each word.
func titleCase(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	startOfWord := true
	for _, r := range s {
		switch {
		case unicode.IsSpace(r) || r == '-':
			startOfWord = true
			sb.WriteRune(r)
		case startOfWord:
			startOfWord = false
			sb.WriteRune(unicode.ToUpper(r))
		default:
			sb.WriteRune(unicode.ToLower(r))
		}
	}
	return sb.String()
}
