package content

import (
	"reflect"
	"strings"
	"testing"
)

func TestKeyTermsShortTextReturnsNil(t *testing.T) {
	if got := KeyTerms("too short"); got != nil {
		t.Errorf("expected nil for short text, got %v", got)
	}
}

func TestKeyTermsFiltersStopwordsAndShortTokens(t *testing.T) {
	text := "The cat and the dog sat on an old mat in the warm sun by the door."
	got := KeyTerms(text)
	for _, term := range got {
		if _, stop := stopwords[term]; stop {
			t.Errorf("stopword %q leaked into key terms", term)
		}
		if len(term) <= 2 {
			t.Errorf("short token %q leaked into key terms", term)
		}
	}
}

func TestKeyTermsFrequencyRanking(t *testing.T) {
	// "neuron" appears three times, "synapse" twice, everything else once.
	text := strings.Repeat("neuron ", 3) + strings.Repeat("synapse ", 2) +
		"axon dendrite cortex signal impulse brain memory cell tissue"
	got := KeyTerms(text)

	if len(got) != maxKeyTerms {
		t.Fatalf("expected %d terms, got %d: %v", maxKeyTerms, len(got), got)
	}
	if got[0] != "neuron" || got[1] != "synapse" {
		t.Errorf("frequency ranking wrong, got leading terms %v", got[:2])
	}
	// Equal-count terms keep first-appearance order.
	rest := got[2:]
	want := []string{"axon", "dendrite", "cortex", "signal", "impulse", "brain", "memory", "cell"}
	if !reflect.DeepEqual(rest, want) {
		t.Errorf("tie order = %v, want %v", rest, want)
	}
}

func TestKeyTermsFewTokensSkipsRanking(t *testing.T) {
	// Long enough to pass the length gate but with fewer than 10 candidate
	// tokens, so the raw filtered list comes back in document order.
	text := "alpha alpha beta gamma were on and the by to of in at is it as"
	if len(text) < minKeyTermText {
		t.Fatal("fixture too short")
	}
	got := KeyTerms(text)
	want := []string{"alpha", "alpha", "beta", "gamma"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("KeyTerms = %v, want %v", got, want)
	}
}
