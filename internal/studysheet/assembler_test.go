package studysheet

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/eduforge/eduforge/internal/content"
)

var testTime = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func testAssembler(seed int64) *Assembler {
	return New(
		WithRand(rand.New(rand.NewSource(seed))),
		WithClock(func() time.Time { return testTime }),
	)
}

func explanation(id, title, body string, difficulty float64, terms ...string) content.Record {
	return content.Record{
		ID:         id,
		Type:       content.TypeExplanation,
		Title:      title,
		Body:       body,
		Difficulty: difficulty,
		KeyTerms:   terms,
	}
}

func example(id, title, body string, difficulty float64) content.Record {
	return content.Record{
		ID:         id,
		Type:       content.TypeExample,
		Title:      title,
		Body:       body,
		Difficulty: difficulty,
	}
}

func TestAssembleEmptyPool(t *testing.T) {
	sheet := testAssembler(1).Assemble("t1", 5, nil)

	if !sheet.Error {
		t.Error("expected error sheet for empty pool")
	}
	if sheet.Title != "Study Sheet Unavailable" {
		t.Errorf("Title = %q", sheet.Title)
	}
	if sheet.Content == "" {
		t.Error("expected explanatory content message")
	}
	if len(sheet.Sections) != 0 {
		t.Errorf("error sheet has %d sections, want 0", len(sheet.Sections))
	}
	if !sheet.CreatedAt.Equal(testTime) {
		t.Errorf("CreatedAt = %v, want %v", sheet.CreatedAt, testTime)
	}
}

func TestAssembleSectionOrder(t *testing.T) {
	contents := []content.Record{
		explanation("e1", "Core Idea",
			"Photosynthesis converts light into chemical energy for the plant. "+
				"Chlorophyll absorbs the light in the chloroplasts of each leaf cell.\n\n"+
				"The resulting glucose stores energy and the oxygen escapes into the air.",
			5, "photosynthesis", "chlorophyll"),
		example("x1", "Window Plant", "A plant near a window grows toward the light over several days.", 5),
	}

	sheet := testAssembler(1).Assemble("t1", 5, contents)

	if sheet.Error {
		t.Fatal("unexpected error sheet")
	}
	if sheet.TopicID != "t1" || sheet.DifficultyLevel != 5 {
		t.Errorf("TopicID=%q DifficultyLevel=%v", sheet.TopicID, sheet.DifficultyLevel)
	}

	var titles []string
	for _, s := range sheet.Sections {
		titles = append(titles, s.Title)
	}
	want := []string{"Introduction", "Key Concepts", "Core Idea", "Examples", "Practice Questions", "Summary"}
	if strings.Join(titles, "|") != strings.Join(want, "|") {
		t.Errorf("section order = %v, want %v", titles, want)
	}
}

func TestAssembleEmptySectionsSuppressed(t *testing.T) {
	// Examples only: no explanations means no Introduction, Key Concepts,
	// or Summary sections.
	contents := []content.Record{
		example("x1", "Demo", "Watch the plant bend toward the lamp over a week.", 5),
	}
	sheet := testAssembler(1).Assemble("t1", 5, contents)

	for _, s := range sheet.Sections {
		switch s.Title {
		case "Introduction", "Key Concepts", "Summary", "Practice Questions":
			t.Errorf("unexpected section %q with no explanations", s.Title)
		}
	}
	if len(sheet.Sections) != 1 || sheet.Sections[0].Title != "Examples" {
		t.Errorf("sections = %+v, want only Examples", sheet.Sections)
	}
}

func TestAssembleDifficultyBand(t *testing.T) {
	contents := []content.Record{
		explanation("near", "Near", "Matter is made of atoms. Atoms bond into molecules.", 5),
		explanation("far", "Far", "Quantum chromodynamics describes the strong interaction.", 10),
	}
	sheet := testAssembler(1).Assemble("t1", 4, contents)

	for _, s := range sheet.Sections {
		if strings.Contains(s.Content, "chromodynamics") {
			t.Errorf("out-of-band content leaked into section %q", s.Title)
		}
	}
}

func TestAssembleBandFallback(t *testing.T) {
	// Everything is out of band; the whole pool is used rather than
	// returning an empty sheet.
	contents := []content.Record{
		explanation("hard", "Hard", "Tensor calculus generalizes derivatives to manifolds.", 10),
	}
	sheet := testAssembler(1).Assemble("t1", 1, contents)

	if sheet.Error || len(sheet.Sections) == 0 {
		t.Fatalf("expected fallback sheet with sections, got %+v", sheet)
	}
}

func TestIntroductionUsesLowestDifficultyFirstParagraph(t *testing.T) {
	contents := []content.Record{
		explanation("e1", "Harder", "Advanced paragraph. More advanced detail.", 8),
		explanation("e2", "Easier", "Para1. Extra sentence one. Extra two. Extra three.\n\nPara2.", 3),
	}
	sheet := testAssembler(1).Assemble("t1", 5, contents)

	var intro string
	for _, s := range sheet.Sections {
		if s.Title == "Introduction" {
			intro = s.Content
		}
	}
	// First paragraph of the easier record, capped at three sentences.
	if intro != "Para1. Extra sentence one. Extra two." {
		t.Errorf("Introduction = %q", intro)
	}
}

func TestSummaryLastParagraph(t *testing.T) {
	contents := []content.Record{
		explanation("e1", "E", "Opening paragraph here.\n\nClosing paragraph wraps it up.", 5),
	}
	sheet := testAssembler(1).Assemble("t1", 5, contents)

	var sum string
	for _, s := range sheet.Sections {
		if s.Title == "Summary" {
			sum = s.Content
		}
	}
	if sum != "Closing paragraph wraps it up." {
		t.Errorf("Summary = %q", sum)
	}
}

func TestSummarySingleParagraphLastThreeSentences(t *testing.T) {
	body := "One. Two. Three. Four. Five."
	sheet := testAssembler(1).Assemble("t1", 5, []content.Record{explanation("e1", "E", body, 5)})

	var sum string
	for _, s := range sheet.Sections {
		if s.Title == "Summary" {
			sum = s.Content
		}
	}
	if sum != "Three. Four. Five." {
		t.Errorf("Summary = %q", sum)
	}
}

func TestFormatBodyBisectsLongParagraphs(t *testing.T) {
	long := strings.TrimSpace(strings.Repeat("This filler sentence pads the paragraph well past the limit. ", 12))
	got := formatBody(long)
	parts := strings.Split(got, "\n\n")
	if len(parts) != 2 {
		t.Fatalf("expected bisection into 2 paragraphs, got %d", len(parts))
	}

	short := "Short paragraph.\n\n\n\nAnother."
	if formatBody(short) != "Short paragraph.\n\nAnother." {
		t.Errorf("formatBody(%q) = %q", short, formatBody(short))
	}
}

func TestCompileExamplesSortedAndCapped(t *testing.T) {
	examples := []content.Record{
		example("x3", "Hardest", "Body three.", 9),
		example("x1", "Easiest", "Body one.", 2),
		example("x2", "Middle", "Body two.", 5),
		example("x4", "Extra", "Body four.", 9.5),
	}
	got := compileExamples(examples)

	first := strings.Index(got, "Easiest")
	second := strings.Index(got, "Middle")
	third := strings.Index(got, "Hardest")
	if first == -1 || second == -1 || third == -1 || !(first < second && second < third) {
		t.Errorf("examples not sorted ascending by difficulty:\n%s", got)
	}
	if strings.Contains(got, "Extra") {
		t.Errorf("more than three examples rendered:\n%s", got)
	}
	if !strings.HasPrefix(got, "### Easiest") {
		t.Errorf("missing heading block prefix:\n%s", got)
	}
}
