package personalize

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestDefaultPreferences(t *testing.T) {
	p := DefaultPreferences()
	if p.KnowledgeLevel != 5.0 {
		t.Errorf("KnowledgeLevel = %v, want 5.0", p.KnowledgeLevel)
	}
	if total := p.PreferExplanations + p.PreferExamples + p.PreferResources; !almostEqual(total, 1) {
		t.Errorf("type preferences sum to %v, want 1", total)
	}
}

func TestApplyInteractionHighRating(t *testing.T) {
	p := DefaultPreferences().ApplyInteraction(Interaction{
		ContentType:       "explanation",
		Rating:            5,
		ContentDifficulty: 7,
	})

	// +0.1 on explanations then renormalized over a 1.1 total.
	if !almostEqual(p.PreferExplanations, 0.7/1.1) {
		t.Errorf("PreferExplanations = %v, want %v", p.PreferExplanations, 0.7/1.1)
	}
	if !almostEqual(p.PreferExamples, 0.3/1.1) {
		t.Errorf("PreferExamples = %v, want %v", p.PreferExamples, 0.3/1.1)
	}
	if !almostEqual(p.PreferResources, 0.1/1.1) {
		t.Errorf("PreferResources = %v, want %v", p.PreferResources, 0.1/1.1)
	}
	// High rating on harder-than-level content bumps knowledge.
	if !almostEqual(p.KnowledgeLevel, 5.2) {
		t.Errorf("KnowledgeLevel = %v, want 5.2", p.KnowledgeLevel)
	}
	// No timing data: length preference untouched.
	if p.PreferLength != 0.5 {
		t.Errorf("PreferLength = %v, want 0.5", p.PreferLength)
	}
}

func TestApplyInteractionLowRating(t *testing.T) {
	p := DefaultPreferences().ApplyInteraction(Interaction{
		ContentType:       "example",
		Rating:            1,
		ContentDifficulty: 4,
	})

	if p.PreferExamples >= 0.3 {
		t.Errorf("PreferExamples = %v, expected decrease from 0.3", p.PreferExamples)
	}
	if !almostEqual(p.KnowledgeLevel, 4.8) {
		t.Errorf("KnowledgeLevel = %v, want 4.8", p.KnowledgeLevel)
	}
}

func TestApplyInteractionRenormalizes(t *testing.T) {
	p := DefaultPreferences()
	for i := 0; i < 25; i++ {
		p = p.ApplyInteraction(Interaction{ContentType: "resource", Rating: 5, ContentDifficulty: 5})
	}
	total := p.PreferExplanations + p.PreferExamples + p.PreferResources
	if !almostEqual(total, 1) {
		t.Errorf("type preferences sum to %v after repeated updates, want 1", total)
	}
	for _, v := range []float64{p.PreferExplanations, p.PreferExamples, p.PreferResources} {
		if v < 0 || v > 1 {
			t.Errorf("preference %v outside [0,1]", v)
		}
	}
}

func TestApplyInteractionTypePrefClampedAtZero(t *testing.T) {
	p := Preferences{KnowledgeLevel: 5, PreferExplanations: 0.02, PreferExamples: 0.49, PreferResources: 0.49, PreferLength: 0.5}
	p = p.ApplyInteraction(Interaction{ContentType: "explanation", Rating: 1, ContentDifficulty: 8})
	if p.PreferExplanations < 0 {
		t.Errorf("PreferExplanations = %v, want clamp at 0", p.PreferExplanations)
	}
}

func TestApplyInteractionKnowledgeBounds(t *testing.T) {
	p := DefaultPreferences()
	p.KnowledgeLevel = 9.9
	p = p.ApplyInteraction(Interaction{ContentType: "explanation", Rating: 5, ContentDifficulty: 10})
	if p.KnowledgeLevel > 10 {
		t.Errorf("KnowledgeLevel = %v, want cap at 10", p.KnowledgeLevel)
	}

	p.KnowledgeLevel = 1.1
	p = p.ApplyInteraction(Interaction{ContentType: "explanation", Rating: 1, ContentDifficulty: 1})
	if p.KnowledgeLevel < 1 {
		t.Errorf("KnowledgeLevel = %v, want floor at 1", p.KnowledgeLevel)
	}
}

func TestApplyInteractionReadingSpeed(t *testing.T) {
	// 200 seconds on 1000 chars: thorough reading, prefers shorter content.
	p := DefaultPreferences().ApplyInteraction(Interaction{
		ContentType:      "explanation",
		Rating:           3,
		TimeSpentSeconds: 200,
		ContentLength:    1000,
	})
	if !almostEqual(p.PreferLength, 0.45) {
		t.Errorf("PreferLength = %v, want 0.45 after thorough read", p.PreferLength)
	}

	// 5 seconds on 1000 chars: skimming, prefers longer content.
	p = DefaultPreferences().ApplyInteraction(Interaction{
		ContentType:      "explanation",
		Rating:           3,
		TimeSpentSeconds: 5,
		ContentLength:    1000,
	})
	if !almostEqual(p.PreferLength, 0.55) {
		t.Errorf("PreferLength = %v, want 0.55 after skim", p.PreferLength)
	}
}

func TestApplyInteractionZeroRatingTreatedAsNeutral(t *testing.T) {
	p := DefaultPreferences().ApplyInteraction(Interaction{ContentType: "explanation", ContentDifficulty: 9})
	if !almostEqual(p.PreferExplanations, 0.6) {
		t.Errorf("PreferExplanations = %v, want unchanged 0.6", p.PreferExplanations)
	}
	if !almostEqual(p.KnowledgeLevel, 5.0) {
		t.Errorf("KnowledgeLevel = %v, want unchanged 5.0", p.KnowledgeLevel)
	}
}

func TestVector(t *testing.T) {
	v := DefaultPreferences().Vector()
	want := Vector{0.5, 0.6, 0.3, 0.1, 0.5, 0.5}
	for i := range want {
		if !almostEqual(v[i], want[i]) {
			t.Errorf("slot %d = %v, want %v", i, v[i], want[i])
		}
	}

	// Zero-value preferences embed as the defaults.
	var zero Preferences
	if zero.Vector() != v {
		t.Errorf("zero preferences vector = %v, want defaults %v", zero.Vector(), v)
	}
}
