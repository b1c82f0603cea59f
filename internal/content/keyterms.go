package content

import "sort"

// maxKeyTerms caps how many terms KeyTerms returns by default.
const maxKeyTerms = 10

// minKeyTermText is the minimum text length worth analyzing.
const minKeyTermText = 50

// english stopwords filtered out of key-term candidates. Subset of the usual
// list, biased toward words common in explanatory prose.
var stopwords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"a", "about", "above", "after", "again", "against", "all", "also", "am",
		"an", "and", "any", "are", "as", "at", "be", "because", "been", "before",
		"being", "below", "between", "both", "but", "by", "can", "could", "did",
		"do", "does", "doing", "down", "during", "each", "few", "for", "from",
		"further", "had", "has", "have", "having", "he", "her", "here", "hers",
		"him", "his", "how", "if", "in", "into", "is", "it", "its", "itself",
		"just", "may", "me", "might", "more", "most", "must", "my", "no", "nor",
		"not", "now", "of", "off", "on", "once", "only", "or", "other", "our",
		"out", "over", "own", "same", "she", "should", "so", "some", "such",
		"than", "that", "the", "their", "them", "then", "there", "these", "they",
		"this", "those", "through", "to", "too", "under", "until", "up", "very",
		"was", "we", "were", "what", "when", "where", "which", "while", "who",
		"whom", "why", "will", "with", "would", "you", "your", "yours",
	} {
		stopwords[w] = struct{}{}
	}
}

// KeyTerms extracts up to maxKeyTerms salient terms from text, ranked by
// occurrence count with ties broken by first appearance. Stopwords and tokens
// shorter than three characters are discarded; very short texts yield their
// raw filtered tokens instead of a ranking.
func KeyTerms(text string) []string {
	if len(text) < minKeyTermText {
		return nil
	}

	var filtered []string
	for _, w := range splitWords(text) {
		if len(w) <= 2 {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		filtered = append(filtered, w)
	}

	if len(filtered) < 10 {
		if len(filtered) > maxKeyTerms {
			return filtered[:maxKeyTerms]
		}
		return filtered
	}

	counts := make(map[string]int, len(filtered))
	var order []string
	for _, w := range filtered {
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > maxKeyTerms {
		order = order[:maxKeyTerms]
	}
	return order
}
