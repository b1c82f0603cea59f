package content

import (
	"math"
	"strings"
)

// Readability computes basic readability metrics for a text. The returned map
// always contains the keys flesch_reading_ease, sentence_count, word_count,
// avg_word_length and avg_sentence_length; texts shorter than 50 characters
// score zero on all of them.
//
// The Flesch value is a simplified variant using average word length in place
// of syllable counts, clamped to [0, 100].
func Readability(text string) map[string]float64 {
	metrics := map[string]float64{
		"flesch_reading_ease": 0,
		"sentence_count":      0,
		"word_count":          0,
		"avg_word_length":     0,
		"avg_sentence_length": 0,
	}
	if len(text) < minKeyTermText {
		return metrics
	}

	sentences := SplitSentences(text)
	words := splitWords(text)

	metrics["sentence_count"] = float64(len(sentences))
	metrics["word_count"] = float64(len(words))

	if len(words) > 0 {
		var chars int
		for _, w := range words {
			chars += len(w)
		}
		metrics["avg_word_length"] = float64(chars) / float64(len(words))
	}
	if len(sentences) > 0 {
		metrics["avg_sentence_length"] = float64(len(words)) / float64(len(sentences))
	}

	if len(sentences) > 0 && len(words) > 0 {
		flesch := 206.835 - 1.015*metrics["avg_sentence_length"] - 84.6*metrics["avg_word_length"]
		metrics["flesch_reading_ease"] = math.Max(0, math.Min(100, flesch))
	}
	return metrics
}

// difficultyLabels maps free-text difficulty metadata onto the 1-10 scale.
var difficultyLabels = map[string]float64{
	"beginner":     2.5,
	"easy":         3.5,
	"medium":       5.0,
	"intermediate": 6.5,
	"advanced":     8.5,
	"expert":       9.5,
}

// DifficultyScore derives a 1-10 difficulty rating from readability metrics,
// optionally blended with a textual difficulty label from source metadata.
// Higher Flesch means easier text, hence lower difficulty.
func DifficultyScore(readability map[string]float64, metadataLabel string) float64 {
	difficulty := DefaultDifficulty

	if flesch, ok := readability["flesch_reading_ease"]; ok && flesch > 0 {
		difficulty = 10 - flesch/10
		difficulty = math.Max(1, math.Min(10, difficulty))
	}

	if metadataLabel != "" {
		if mapped, ok := difficultyLabels[strings.ToLower(metadataLabel)]; ok {
			difficulty = (difficulty + mapped) / 2
		}
	}

	return math.Round(difficulty*10) / 10
}
