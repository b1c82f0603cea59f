package storage

import (
	"testing"
	"time"

	"github.com/eduforge/eduforge/internal/content"
)

func testContent(id, topicID, typ string) content.Record {
	now := time.Now().UTC().Truncate(time.Second)
	return content.Record{
		ID:          id,
		TopicID:     topicID,
		Type:        typ,
		Title:       "Title " + id,
		Body:        "Body of " + id,
		Source:      "manual",
		Difficulty:  5.0,
		KeyTerms:    []string{"term"},
		Readability: map[string]float64{"flesch_reading_ease": 60},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestContentRoundTrip(t *testing.T) {
	s := openTestStore(t)

	want := testContent("c1", "t1", content.TypeExplanation)
	want.SourceURL = "https://example.com/cells"
	want.Metadata = map[string]string{"difficulty": "intermediate"}
	if err := s.CreateContent(want); err != nil {
		t.Fatalf("CreateContent: %v", err)
	}

	got, err := s.GetContent("c1")
	if err != nil {
		t.Fatalf("GetContent: %v", err)
	}
	if got.TopicID != "t1" {
		t.Errorf("TopicID = %q, want %q", got.TopicID, "t1")
	}
	if got.Type != content.TypeExplanation {
		t.Errorf("Type = %q, want %q", got.Type, content.TypeExplanation)
	}
	if got.Body != want.Body {
		t.Errorf("Body = %q, want %q", got.Body, want.Body)
	}
	if got.SourceURL != want.SourceURL {
		t.Errorf("SourceURL = %q, want %q", got.SourceURL, want.SourceURL)
	}
	if len(got.KeyTerms) != 1 || got.KeyTerms[0] != "term" {
		t.Errorf("KeyTerms = %v, want [term]", got.KeyTerms)
	}
	if got.Readability["flesch_reading_ease"] != 60 {
		t.Errorf("Readability = %v, want flesch 60", got.Readability)
	}
	if got.Metadata["difficulty"] != "intermediate" {
		t.Errorf("Metadata = %v, want difficulty=intermediate", got.Metadata)
	}
}

func TestGetContentNotFound(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.GetContent("missing"); err != ErrNotFound {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestListContentsFilterAndOrder(t *testing.T) {
	s := openTestStore(t)

	records := []content.Record{
		testContent("c1", "t1", content.TypeExplanation),
		testContent("c2", "t1", content.TypeExample),
		testContent("c3", "t2", content.TypeExplanation),
		testContent("c4", "t1", content.TypeExplanation),
	}
	for _, r := range records {
		if err := s.CreateContent(r); err != nil {
			t.Fatalf("CreateContent %s: %v", r.ID, err)
		}
	}

	got, err := s.ListContents(ContentFilter{TopicID: "t1"})
	if err != nil {
		t.Fatalf("ListContents(t1): %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d records for t1, want 3", len(got))
	}
	// Insertion order.
	if got[0].ID != "c1" || got[1].ID != "c2" || got[2].ID != "c4" {
		t.Errorf("order = %q %q %q, want c1 c2 c4", got[0].ID, got[1].ID, got[2].ID)
	}

	byType, err := s.ListContents(ContentFilter{TopicID: "t1", Type: content.TypeExplanation})
	if err != nil {
		t.Fatalf("ListContents(t1, explanation): %v", err)
	}
	if len(byType) != 2 {
		t.Fatalf("got %d explanations for t1, want 2", len(byType))
	}

	all, err := s.ListContents(ContentFilter{})
	if err != nil {
		t.Fatalf("ListContents(all): %v", err)
	}
	if len(all) != 4 {
		t.Errorf("got %d records total, want 4", len(all))
	}
}

func TestUpdateContent(t *testing.T) {
	s := openTestStore(t)

	rec := testContent("c1", "t1", content.TypeExplanation)
	if err := s.CreateContent(rec); err != nil {
		t.Fatalf("CreateContent: %v", err)
	}

	rec.Title = "Updated title"
	rec.Body = "Updated body"
	rec.Difficulty = 8.0
	rec.KeyTerms = []string{"updated"}
	if err := s.UpdateContent(rec); err != nil {
		t.Fatalf("UpdateContent: %v", err)
	}

	got, err := s.GetContent("c1")
	if err != nil {
		t.Fatalf("GetContent: %v", err)
	}
	if got.Title != "Updated title" {
		t.Errorf("Title = %q, want %q", got.Title, "Updated title")
	}
	if got.Difficulty != 8.0 {
		t.Errorf("Difficulty = %v, want 8.0", got.Difficulty)
	}
	if len(got.KeyTerms) != 1 || got.KeyTerms[0] != "updated" {
		t.Errorf("KeyTerms = %v, want [updated]", got.KeyTerms)
	}

	missing := testContent("missing", "t1", content.TypeExplanation)
	if err := s.UpdateContent(missing); err != ErrNotFound {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestDeleteContent(t *testing.T) {
	s := openTestStore(t)

	if err := s.CreateContent(testContent("c1", "t1", content.TypeExplanation)); err != nil {
		t.Fatalf("CreateContent: %v", err)
	}
	if err := s.DeleteContent("c1"); err != nil {
		t.Fatalf("DeleteContent: %v", err)
	}
	if _, err := s.GetContent("c1"); err != ErrNotFound {
		t.Errorf("GetContent after delete: %v, want ErrNotFound", err)
	}
	if err := s.DeleteContent("c1"); err != ErrNotFound {
		t.Errorf("second DeleteContent: %v, want ErrNotFound", err)
	}
}
