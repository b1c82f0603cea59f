// Package ingest processes uploaded textbooks in the background: it claims
// queued jobs, extracts per-page text, and turns matching pages into
// content records.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/eduforge/eduforge/internal/content"
	"github.com/eduforge/eduforge/internal/storage"
)

// JobType is the queue type claimed by this worker.
const JobType = "textbook_process"

// minPageChars is the shortest extracted page worth keeping.
const minPageChars = 30

// Store abstracts the queue and textbook operations the worker needs.
type Store interface {
	ClaimNextJob(types []string) (*storage.Job, error)
	CompleteJob(id string) error
	FailJob(id string, errMsg string) error

	GetTextbook(id string) (storage.Textbook, error)
	SaveTextbookPages(textbookID string, pages []storage.TextbookPage) error
	MarkTextbookProcessed(id string, pages int) error
	MarkTextbookFailed(id string, msg string) error

	ListTopics(subjectID string) ([]storage.Topic, error)
	CreateContent(c content.Record) error
}

// Extractor pulls per-page plain text out of a textbook file.
type Extractor interface {
	Pages(ctx context.Context, path string) ([]string, error)
}

// Worker processes textbook_process jobs from the SQLite job queue.
type Worker struct {
	store       Store
	extractor   Extractor
	poll        time.Duration
	concurrency int
	logger      *slog.Logger
}

// NewWorker creates a Worker. If pollInterval is <= 0 it defaults to 500ms;
// concurrency <= 0 defaults to 4.
func NewWorker(store Store, extractor Extractor, pollInterval time.Duration, concurrency int) *Worker {
	if pollInterval <= 0 {
		pollInterval = 500 * time.Millisecond
	}
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Worker{
		store:       store,
		extractor:   extractor,
		poll:        pollInterval,
		concurrency: concurrency,
		logger:      slog.Default(),
	}
}

// Run polls for jobs until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		done, err := w.RunOnce(ctx)
		if err != nil {
			w.logger.Error("worker iteration failed", "error", err)
		}
		if done {
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.poll):
		}
	}
}

// RunOnce claims and processes a single textbook_process job.
// Returns true if a job was processed (regardless of success/failure).
func (w *Worker) RunOnce(ctx context.Context) (bool, error) {
	job, err := w.store.ClaimNextJob([]string{JobType})
	if err != nil {
		return false, fmt.Errorf("claiming job: %w", err)
	}
	if job == nil {
		return false, nil
	}

	if err := w.processJob(ctx, job); err != nil {
		w.logger.Warn("job failed", "job_id", job.ID, "error", err)
		if failErr := w.store.FailJob(job.ID, err.Error()); failErr != nil {
			w.logger.Error("failed to mark job as failed", "job_id", job.ID, "error", failErr)
		}
		return true, nil
	}

	if err := w.store.CompleteJob(job.ID); err != nil {
		return true, fmt.Errorf("completing job %s: %w", job.ID, err)
	}
	return true, nil
}

type processPayload struct {
	TextbookID string `json:"textbook_id"`
}

func (w *Worker) processJob(ctx context.Context, job *storage.Job) error {
	var payload processPayload
	if err := json.Unmarshal([]byte(job.Payload), &payload); err != nil {
		return fmt.Errorf("parsing payload: %w", err)
	}

	tb, err := w.store.GetTextbook(payload.TextbookID)
	if err != nil {
		return fmt.Errorf("loading textbook %s: %w", payload.TextbookID, err)
	}

	raw, err := w.extractor.Pages(ctx, tb.FilePath)
	if err != nil {
		w.markFailed(tb.ID, err)
		return fmt.Errorf("extracting %s: %w", tb.FilePath, err)
	}

	pages, err := w.cleanPages(ctx, tb.ID, raw)
	if err != nil {
		w.markFailed(tb.ID, err)
		return err
	}
	if len(pages) == 0 {
		err := fmt.Errorf("no usable text in %s", filepath.Base(tb.FilePath))
		w.markFailed(tb.ID, err)
		return err
	}

	if err := w.store.SaveTextbookPages(tb.ID, pages); err != nil {
		w.markFailed(tb.ID, err)
		return fmt.Errorf("saving pages: %w", err)
	}

	created, err := w.deriveContents(tb, pages)
	if err != nil {
		w.logger.Warn("deriving contents failed", "textbook_id", tb.ID, "error", err)
	}

	if err := w.store.MarkTextbookProcessed(tb.ID, len(pages)); err != nil {
		return fmt.Errorf("marking processed: %w", err)
	}
	w.logger.Info("textbook processed", "textbook_id", tb.ID, "pages", len(pages), "contents", created)
	return nil
}

func (w *Worker) markFailed(textbookID string, cause error) {
	if err := w.store.MarkTextbookFailed(textbookID, cause.Error()); err != nil {
		w.logger.Error("failed to mark textbook as failed", "textbook_id", textbookID, "error", err)
	}
}

// cleanPages normalizes extracted pages concurrently, dropping pages that
// are blank or too short to matter. Page numbering follows the source file,
// so dropped pages leave gaps.
func (w *Worker) cleanPages(ctx context.Context, textbookID string, raw []string) ([]storage.TextbookPage, error) {
	cleaned := make([]string, len(raw))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)
	for i, text := range raw {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cleaned[i] = content.CleanText(text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("cleaning pages: %w", err)
	}

	var pages []storage.TextbookPage
	for i, text := range cleaned {
		if len(text) < minPageChars {
			continue
		}
		pages = append(pages, storage.TextbookPage{
			TextbookID: textbookID,
			Page:       i + 1,
			Content:    text,
		})
	}
	return pages, nil
}

// deriveContents turns pages that mention a known topic into resource
// content records for that topic. Matching is a plain case-insensitive
// substring check on the topic name; a page can feed several topics but
// each topic gets at most one record per textbook.
func (w *Worker) deriveContents(tb storage.Textbook, pages []storage.TextbookPage) (int, error) {
	topics, err := w.store.ListTopics("")
	if err != nil {
		return 0, fmt.Errorf("listing topics: %w", err)
	}

	created := 0
	for _, topic := range topics {
		name := strings.ToLower(topic.Name)
		if name == "" {
			continue
		}

		var matched []storage.TextbookPage
		for _, p := range pages {
			if strings.Contains(strings.ToLower(p.Content), name) {
				matched = append(matched, p)
				if len(matched) == 3 {
					break
				}
			}
		}
		if len(matched) == 0 {
			continue
		}

		var b strings.Builder
		for i, p := range matched {
			if i > 0 {
				b.WriteString("\n\n")
			}
			b.WriteString(p.Content)
		}
		body := b.String()

		rec := content.Record{
			ID:        uuid.New().String(),
			TopicID:   topic.ID,
			Type:      content.TypeResource,
			Title:     fmt.Sprintf("%s (from %s)", topic.Name, tb.Title),
			Body:      body,
			Source:    "textbook",
			SourceURL: tb.ID,
			KeyTerms:  content.KeyTerms(body),
			CreatedAt: time.Now().UTC(),
		}
		rec.Readability = content.Readability(body)
		rec.Difficulty = content.DifficultyScore(rec.Readability, tb.Grade)

		if err := w.store.CreateContent(rec); err != nil {
			return created, fmt.Errorf("creating content for topic %s: %w", topic.ID, err)
		}
		created++
	}
	return created, nil
}
