package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/eduforge/eduforge/internal/content"
	"github.com/eduforge/eduforge/internal/storage"
)

type contentRequest struct {
	TopicID    string            `json:"topic_id"`
	Type       string            `json:"type"`
	Title      string            `json:"title"`
	Body       string            `json:"body"`
	Source     string            `json:"source"`
	SourceURL  string            `json:"source_url"`
	Difficulty float64           `json:"difficulty"`
	Metadata   map[string]string `json:"metadata"`
}

var contentTypes = map[string]bool{
	content.TypeExplanation: true,
	content.TypeExample:     true,
	content.TypeResource:    true,
	content.TypePractice:    true,
}

func handleCreateContent(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req contentRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.TopicID == "" || req.Title == "" || req.Body == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "topic_id, title and body are required")
			return
		}
		if req.Type == "" {
			req.Type = content.TypeExplanation
		}
		if !contentTypes[req.Type] {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "unknown content type %q", req.Type)
			return
		}
		if _, err := deps.Store.GetTopic(req.TopicID); errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "unknown topic_id %s", req.TopicID)
			return
		}

		// Bodies are stored verbatim; paragraph breaks matter to the
		// study sheet assembler. CleanText is for scraped sources.
		body := req.Body
		now := time.Now().UTC()
		rec := content.Record{
			ID:          uuid.New().String(),
			TopicID:     req.TopicID,
			Type:        req.Type,
			Title:       req.Title,
			Body:        body,
			Source:      req.Source,
			SourceURL:   req.SourceURL,
			KeyTerms:    content.KeyTerms(body),
			Readability: content.Readability(body),
			Metadata:    req.Metadata,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if req.Difficulty > 0 {
			rec.Difficulty = req.Difficulty
		} else {
			rec.Difficulty = content.DifficultyScore(rec.Readability, req.Metadata["difficulty"])
		}

		if err := deps.Store.CreateContent(rec); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to create content: %v", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		writeJSON(w, rec)
	}
}

func handleListContents(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := storage.ContentFilter{
			TopicID: r.URL.Query().Get("topic_id"),
			Type:    r.URL.Query().Get("type"),
		}
		records, err := deps.Store.ListContents(filter)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list contents: %v", err)
			return
		}
		if records == nil {
			records = []content.Record{}
		}
		writeJSON(w, records)
	}
}

func handleGetContent(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := deps.Store.GetContent(chi.URLParam(r, "id"))
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "content not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get content: %v", err)
			return
		}
		writeJSON(w, rec)
	}
}

func handleUpdateContent(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := deps.Store.GetContent(chi.URLParam(r, "id"))
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "content not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get content: %v", err)
			return
		}

		var req contentRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Type != "" && !contentTypes[req.Type] {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "unknown content type %q", req.Type)
			return
		}

		if req.Title != "" {
			rec.Title = req.Title
		}
		if req.Type != "" {
			rec.Type = req.Type
		}
		if req.Source != "" {
			rec.Source = req.Source
		}
		if req.SourceURL != "" {
			rec.SourceURL = req.SourceURL
		}
		if req.Metadata != nil {
			rec.Metadata = req.Metadata
		}
		if req.Body != "" {
			rec.Body = req.Body
			rec.KeyTerms = content.KeyTerms(rec.Body)
			rec.Readability = content.Readability(rec.Body)
		}
		if req.Difficulty > 0 {
			rec.Difficulty = req.Difficulty
		} else if req.Body != "" {
			rec.Difficulty = content.DifficultyScore(rec.Readability, rec.Metadata["difficulty"])
		}
		rec.UpdatedAt = time.Now().UTC()

		if err := deps.Store.UpdateContent(rec); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to update content: %v", err)
			return
		}
		writeJSON(w, rec)
	}
}

func handleDeleteContent(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := deps.Store.DeleteContent(chi.URLParam(r, "id"))
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "content not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to delete content: %v", err)
			return
		}
		writeJSON(w, map[string]string{"status": "deleted"})
	}
}

type questionRequest struct {
	TopicID       string   `json:"topic_id"`
	ContentID     string   `json:"content_id"`
	Text          string   `json:"text"`
	Type          string   `json:"type"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	Difficulty    float64  `json:"difficulty"`
	Tags          []string `json:"tags"`
}

func handleCreateQuestion(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req questionRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.TopicID == "" || req.Text == "" || req.CorrectAnswer == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "topic_id, text and correct_answer are required")
			return
		}
		if req.Type == "" {
			req.Type = "short_answer"
		}

		q := storage.Question{
			ID:            uuid.New().String(),
			TopicID:       req.TopicID,
			ContentID:     req.ContentID,
			Text:          req.Text,
			Type:          req.Type,
			Options:       req.Options,
			CorrectAnswer: req.CorrectAnswer,
			Explanation:   req.Explanation,
			Difficulty:    req.Difficulty,
			Tags:          req.Tags,
			Source:        "manual",
			CreatedAt:     time.Now().UTC(),
		}
		if q.Difficulty == 0 {
			q.Difficulty = 5.0
		}

		if err := deps.Store.CreateQuestion(q); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to create question: %v", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		writeJSON(w, q)
	}
}

func handleListQuestions(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		questions, err := deps.Store.ListQuestions(r.URL.Query().Get("topic_id"))
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list questions: %v", err)
			return
		}
		if questions == nil {
			questions = []storage.Question{}
		}
		writeJSON(w, questions)
	}
}

func handleGetQuestion(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := deps.Store.GetQuestion(chi.URLParam(r, "id"))
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "question not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get question: %v", err)
			return
		}
		writeJSON(w, q)
	}
}

func handleDeleteQuestion(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := deps.Store.DeleteQuestion(chi.URLParam(r, "id"))
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "question not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to delete question: %v", err)
			return
		}
		writeJSON(w, map[string]string{"status": "deleted"})
	}
}
