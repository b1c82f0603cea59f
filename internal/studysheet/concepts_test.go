package studysheet

import (
	"strings"
	"testing"

	"github.com/eduforge/eduforge/internal/content"
)

func TestKeyConceptsRankingAndFormat(t *testing.T) {
	explanations := []content.Record{
		explanation("e1", "A", "Mitosis is the division of a cell into two identical cells.", 5, "mitosis", "cell"),
		explanation("e2", "B", "Each cell copies its chromosomes before mitosis begins.", 5, "cell", "chromosomes"),
	}
	got := keyConcepts(explanations)

	lines := strings.Split(got, "\n\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 concept lines, got %d:\n%s", len(lines), got)
	}
	// "cell" appears twice so it leads; "mitosis" beats "chromosomes" on
	// first appearance.
	if !strings.HasPrefix(lines[0], "**Cell**:") {
		t.Errorf("first line = %q, want cell first", lines[0])
	}
	if !strings.HasPrefix(lines[1], "**Mitosis**:") {
		t.Errorf("second line = %q, want mitosis second", lines[1])
	}
}

func TestKeyConceptsEmpty(t *testing.T) {
	if got := keyConcepts(nil); got != "" {
		t.Errorf("keyConcepts(nil) = %q, want empty", got)
	}
}

func TestFindTermDefinition(t *testing.T) {
	explanations := []content.Record{
		explanation("e1", "A",
			"Osmosis is the movement of water across a membrane. The weather was nice.", 5),
	}

	got := findTermDefinition("osmosis", explanations)
	if got != "Osmosis is the movement of water across a membrane." {
		t.Errorf("findTermDefinition = %q", got)
	}
}

func TestFindTermDefinitionFallback(t *testing.T) {
	explanations := []content.Record{
		explanation("e1", "A", "Nothing relevant in this body at all.", 5),
	}
	if got := findTermDefinition("entropy", explanations); got != termFallback {
		t.Errorf("findTermDefinition = %q, want fallback", got)
	}
}

func TestFindTermDefinitionLaterSentenceDisplacesShortIncumbent(t *testing.T) {
	// A later sentence replaces the incumbent when its score beats the
	// incumbent's length, even though the opening sentence carried the
	// +100 bonus and the higher score. Pinned so refactors don't silently
	// change which sentence wins.
	long := "Some people mistakenly think gravity only acts on heavy things and ignore that it acts on everything with mass everywhere."
	explanations := []content.Record{
		explanation("e1", "A", "Gravity pulls objects together. "+long, 5),
	}
	got := findTermDefinition("gravity", explanations)
	if got != long {
		t.Errorf("findTermDefinition = %q, want the later long sentence", got)
	}
}

func TestTitleCase(t *testing.T) {
	tests := map[string]string{
		"photosynthesis":   "Photosynthesis",
		"cell division":    "Cell Division",
		"self-replication": "Self-Replication",
		"DNA":              "Dna",
		"":                 "",
	}
	for in, want := range tests {
		if got := titleCase(in); got != want {
			t.Errorf("titleCase(%q) = %q, want %q", in, got, want)
		}
	}
}
