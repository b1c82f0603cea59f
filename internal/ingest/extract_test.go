package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestTextPagesSplitsOnFormFeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.txt")
	if err := os.WriteFile(path, []byte("page one\fpage two\fpage three"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	pages, err := FileExtractor{}.Pages(context.Background(), path)
	if err != nil {
		t.Fatalf("Pages: %v", err)
	}
	if len(pages) != 3 {
		t.Fatalf("got %d pages, want 3", len(pages))
	}
	if pages[1] != "page two" {
		t.Errorf("pages[1] = %q, want %q", pages[1], "page two")
	}
}

func TestTextPagesSinglePage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.md")
	if err := os.WriteFile(path, []byte("just one page of notes"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	pages, err := FileExtractor{}.Pages(context.Background(), path)
	if err != nil {
		t.Fatalf("Pages: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("got %d pages, want 1", len(pages))
	}
}

func TestPagesUnsupportedFormat(t *testing.T) {
	if _, err := (FileExtractor{}).Pages(context.Background(), "book.docx"); err == nil {
		t.Error("expected error for unsupported extension")
	}
}
