// Package studysheet assembles structured study sheets and practice
// questions from pools of content records. Assembly is deterministic given
// identical input ordering and knowledge level; the only randomness is the
// true/false statement sampling, driven by an injectable rand source.
package studysheet

import (
	"fmt"
	"math/rand"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/eduforge/eduforge/internal/content"
)

// difficultyBand is how far a record's difficulty may sit from the user's
// knowledge level and still be selected for the sheet.
const difficultyBand = 2.0

// Section is one block of an assembled study sheet.
type Section struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Type    string `json:"type"`
}

// Sheet is a composed study document. On degenerate input (no content at
// all) the sheet carries Error=true and a human-readable Content message;
// assembly never fails outright.
type Sheet struct {
	Title           string    `json:"title"`
	TopicID         string    `json:"topic_id,omitempty"`
	Sections        []Section `json:"sections,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	DifficultyLevel float64   `json:"difficulty_level,omitempty"`
	Content         string    `json:"content,omitempty"`
	Error           bool      `json:"error,omitempty"`
}

// Assembler builds study sheets. It owns the rand source used for true/false
// statement sampling and the clock stamped on generated sheets.
type Assembler struct {
	rng *rand.Rand
	now func() time.Time
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithRand sets the random source used for statement sampling. Tests inject
// a seeded source to make sampling deterministic.
func WithRand(rng *rand.Rand) Option {
	return func(a *Assembler) { a.rng = rng }
}

// WithClock sets the time source stamped on generated sheets.
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) { a.now = now }
}

// New creates an Assembler with a time-seeded rand source.
func New(opts ...Option) *Assembler {
	a := &Assembler{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble composes a study sheet for a topic from the given content pool,
// personalized by the user's knowledge level.
//
// Contents within the difficulty band around the knowledge level are
// preferred; when nothing falls in the band the whole pool is used instead of
// producing an empty sheet. Sections appear in a fixed relative order
// (Introduction, Key Concepts, up to three full explanations, Examples,
// Practice Questions, Summary) and each is emitted only when its source
// material produced non-empty content.
func (a *Assembler) Assemble(topicID string, knowledgeLevel float64, contents []content.Record) Sheet {
	if len(contents) == 0 {
		return Sheet{
			Title:     "Study Sheet Unavailable",
			Content:   "We don't have enough content to generate a study sheet for this topic yet.",
			CreatedAt: a.now().UTC(),
			Error:     true,
		}
	}

	matching := filterByBand(contents, knowledgeLevel)
	if len(matching) == 0 {
		matching = contents
	}

	var explanations, examples []content.Record
	for _, c := range matching {
		switch c.Type {
		case content.TypeExplanation:
			explanations = append(explanations, c)
		case content.TypeExample:
			examples = append(examples, c)
		}
	}

	sheet := Sheet{
		Title:           "Personalized Study Sheet",
		TopicID:         topicID,
		CreatedAt:       a.now().UTC(),
		DifficultyLevel: knowledgeLevel,
	}

	appendSection := func(title, body, typ string) {
		if body == "" {
			return
		}
		sheet.Sections = append(sheet.Sections, Section{Title: title, Content: body, Type: typ})
	}

	appendSection("Introduction", introduction(explanations), content.TypeExplanation)
	appendSection("Key Concepts", keyConcepts(explanations), content.TypeExplanation)

	for i, exp := range explanations {
		if i >= 3 {
			break
		}
		title := exp.Title
		if title == "" {
			title = fmt.Sprintf("Concept %d", i+1)
		}
		appendSection(title, formatBody(exp.Body), content.TypeExplanation)
	}

	appendSection("Examples", compileExamples(examples), content.TypeExample)
	appendSection("Practice Questions", a.practiceQuestions(explanations, examples), content.TypePractice)
	appendSection("Summary", summary(explanations), content.TypeExplanation)

	return sheet
}

func filterByBand(contents []content.Record, knowledgeLevel float64) []content.Record {
	var matching []content.Record
	for _, c := range contents {
		diff := c.EffectiveDifficulty() - knowledgeLevel
		if diff < 0 {
			diff = -diff
		}
		if diff <= difficultyBand {
			matching = append(matching, c)
		}
	}
	return matching
}

// introduction takes the first paragraph of the lowest-difficulty
// explanation, trimmed to its first three sentences.
func introduction(explanations []content.Record) string {
	if len(explanations) == 0 {
		return ""
	}

	sorted := make([]content.Record, len(explanations))
	copy(sorted, explanations)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EffectiveDifficulty() < sorted[j].EffectiveDifficulty()
	})

	paragraphs := content.SplitParagraphs(sorted[0].Body)
	intro := sorted[0].Body
	if len(paragraphs) > 0 {
		intro = paragraphs[0]
	}

	sentences := content.SplitSentences(intro)
	if len(sentences) > 3 {
		sentences = sentences[:3]
	}
	return strings.Join(sentences, " ")
}

// summary uses the last paragraph of the first explanation, or its last
// three sentences when the body is a single paragraph.
func summary(explanations []content.Record) string {
	if len(explanations) == 0 {
		return ""
	}

	body := explanations[0].Body
	paragraphs := content.SplitParagraphs(body)
	if len(paragraphs) > 1 {
		return paragraphs[len(paragraphs)-1]
	}
	if len(paragraphs) == 1 {
		sentences := content.SplitSentences(paragraphs[0])
		if len(sentences) > 3 {
			return strings.Join(sentences[len(sentences)-3:], " ")
		}
		return paragraphs[0]
	}
	return "Summary unavailable."
}

// longParagraphChars is the threshold above which a paragraph is bisected.
const longParagraphChars = 500

var multiNewlineRE = regexp.MustCompile(`\n{3,}`)

// formatBody normalizes paragraph breaks and bisects overlong paragraphs at
// their sentence-count midpoint. This is a readability heuristic only; the
// split point carries no semantic meaning.
func formatBody(body string) string {
	formatted := multiNewlineRE.ReplaceAllString(body, "\n\n")

	var out []string
	for _, p := range content.SplitParagraphs(formatted) {
		if len(p) > longParagraphChars {
			sentences := content.SplitSentences(p)
			mid := len(sentences) / 2
			out = append(out, strings.Join(sentences[:mid], " "))
			out = append(out, strings.Join(sentences[mid:], " "))
		} else {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n\n")
}

// compileExamples renders up to three examples, easiest first, as titled
// blocks.
func compileExamples(examples []content.Record) string {
	if len(examples) == 0 {
		return ""
	}

	sorted := make([]content.Record, len(examples))
	copy(sorted, examples)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EffectiveDifficulty() < sorted[j].EffectiveDifficulty()
	})
	if len(sorted) > 3 {
		sorted = sorted[:3]
	}

	blocks := make([]string, 0, len(sorted))
	for i, ex := range sorted {
		title := ex.Title
		if title == "" {
			title = fmt.Sprintf("Example %d", i+1)
		}
		blocks = append(blocks, fmt.Sprintf("### %s\n\n%s", title, strings.TrimSpace(ex.Body)))
	}
	return strings.Join(blocks, "\n\n")
}
