package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// FileExtractor extracts per-page text from textbook files on disk.
// PDFs are read page by page; plain text files are split on form feeds,
// or treated as a single page when none are present.
type FileExtractor struct{}

func (FileExtractor) Pages(ctx context.Context, path string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return pdfPages(ctx, path)
	case ".txt", ".md":
		return textPages(path)
	default:
		return nil, fmt.Errorf("unsupported textbook format %q", filepath.Ext(path))
	}
}

func pdfPages(ctx context.Context, path string) ([]string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not sink the whole book.
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}

func textPages(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading text file: %w", err)
	}
	text := string(data)
	if strings.Contains(text, "\f") {
		return strings.Split(text, "\f"), nil
	}
	return []string{text}, nil
}
