package studysheet

import (
	"fmt"
	"strings"

	"github.com/eduforge/eduforge/internal/content"
)

// blankMarker replaces the answer term in fill-in-the-blank questions.
const blankMarker = "________"

// Sentence length bounds (exclusive) for true/false statement candidates.
const (
	minStatementChars = 10
	maxStatementChars = 150
)

// maxFillBlank caps fill-in-the-blank items in the rendered sheet section.
const maxFillBlank = 5

// maxTrueFalse caps sampled true/false statements.
const maxTrueFalse = 3

// Question is a structured practice item in the platform's question schema.
type Question struct {
	Text          string   `json:"text"`
	Type          string   `json:"type"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	Difficulty    float64  `json:"difficulty"`
}

// practiceQuestions renders the Practice Questions sheet section: fill-in-
// the-blank items from key terms followed by true/false statements sampled
// from the explanation corpus. Numbering continues across the two groups,
// counting one item per three emitted lines.
//
// True/false statements are taken verbatim from the corpus and all keyed
// "True"; they are sourced, not validated.
func (a *Assembler) practiceQuestions(explanations, examples []content.Record) string {
	var lines []string

	var terms []string
	for _, exp := range explanations {
		terms = append(terms, exp.KeyTerms...)
	}
	if len(terms) > maxFillBlank {
		terms = terms[:maxFillBlank]
	}

	for i, term := range terms {
		definition := findTermDefinition(term, explanations)
		lines = append(lines,
			fmt.Sprintf("%d. %s", i+1, strings.ReplaceAll(definition, term, blankMarker)),
			fmt.Sprintf("   Answer: %s", term),
			"",
		)
	}

	var corpus strings.Builder
	for _, exp := range explanations {
		corpus.WriteString(exp.Body)
		corpus.WriteString(" ")
	}

	var candidates []string
	for _, s := range content.SplitSentences(corpus.String()) {
		if len(s) > minStatementChars && len(s) < maxStatementChars {
			candidates = append(candidates, s)
		}
	}

	for _, statement := range a.sample(candidates, maxTrueFalse) {
		lines = append(lines,
			fmt.Sprintf("%d. True or False: %s", len(lines)/3+1, statement),
			"   Answer: True",
			"",
		)
	}

	return strings.Join(lines, "\n")
}

// sample draws up to n elements without replacement, preserving nothing of
// the input order.
func (a *Assembler) sample(candidates []string, n int) []string {
	if len(candidates) == 0 {
		return nil
	}
	if n > len(candidates) {
		n = len(candidates)
	}
	perm := a.rng.Perm(len(candidates))
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = candidates[perm[i]]
	}
	return out
}

// minDefinitionChars is the shortest definition considered substantial
// enough to carry a structured question.
const minDefinitionChars = 20

// PersonalizedQuestions derives up to n structured fill-in-the-blank
// questions from the content pool, personalized by the user's knowledge
// level. Contents within the difficulty band are preferred, falling back to
// the whole pool. Terms whose resolved definition is minDefinitionChars or
// shorter are skipped without consuming a slot.
func PersonalizedQuestions(contents []content.Record, userLevel float64, n int) []Question {
	pool := filterByBand(contents, userLevel)
	if len(pool) == 0 {
		pool = contents
	}

	var terms []string
	for _, c := range pool {
		terms = append(terms, c.KeyTerms...)
	}

	questions := make([]Question, 0, n)
	for _, term := range terms {
		if len(questions) >= n {
			break
		}
		definition := findTermDefinition(term, pool)
		if len(definition) <= minDefinitionChars {
			continue
		}
		questions = append(questions, Question{
			Text:          strings.ReplaceAll(definition, term, blankMarker),
			Type:          "fill_blank",
			Options:       []string{},
			CorrectAnswer: term,
			Explanation:   definition,
			Difficulty:    userLevel,
		})
	}
	return questions
}
