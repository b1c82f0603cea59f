package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/eduforge/eduforge/internal/storage"
)

type subjectRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Source      string            `json:"source"`
	Metadata    map[string]string `json:"metadata"`
}

func handleCreateSubject(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req subjectRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Name == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "name is required")
			return
		}

		now := time.Now().UTC()
		sub := storage.Subject{
			ID:          uuid.New().String(),
			Name:        req.Name,
			Description: req.Description,
			Source:      req.Source,
			Metadata:    req.Metadata,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := deps.Store.CreateSubject(sub); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to create subject: %v", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		writeJSON(w, sub)
	}
}

func handleListSubjects(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subjects, err := deps.Store.ListSubjects()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list subjects: %v", err)
			return
		}
		if subjects == nil {
			subjects = []storage.Subject{}
		}
		writeJSON(w, subjects)
	}
}

func handleGetSubject(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, err := deps.Store.GetSubject(chi.URLParam(r, "id"))
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "subject not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get subject: %v", err)
			return
		}
		writeJSON(w, sub)
	}
}

func handleDeleteSubject(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := deps.Store.DeleteSubject(chi.URLParam(r, "id"))
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "subject not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to delete subject: %v", err)
			return
		}
		writeJSON(w, map[string]string{"status": "deleted"})
	}
}

type topicRequest struct {
	SubjectID     string            `json:"subject_id"`
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	Difficulty    float64           `json:"difficulty"`
	Prerequisites []string          `json:"prerequisites"`
	Source        string            `json:"source"`
	SourceURL     string            `json:"source_url"`
	Metadata      map[string]string `json:"metadata"`
}

func handleCreateTopic(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req topicRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Name == "" || req.SubjectID == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "name and subject_id are required")
			return
		}
		if _, err := deps.Store.GetSubject(req.SubjectID); errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "unknown subject_id %s", req.SubjectID)
			return
		}
		if req.Difficulty == 0 {
			req.Difficulty = 5.0
		}

		now := time.Now().UTC()
		topic := storage.Topic{
			ID:            uuid.New().String(),
			SubjectID:     req.SubjectID,
			Name:          req.Name,
			Description:   req.Description,
			Difficulty:    req.Difficulty,
			Prerequisites: req.Prerequisites,
			Source:        req.Source,
			SourceURL:     req.SourceURL,
			Metadata:      req.Metadata,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := deps.Store.CreateTopic(topic); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to create topic: %v", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		writeJSON(w, topic)
	}
}

func handleListTopics(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		topics, err := deps.Store.ListTopics(r.URL.Query().Get("subject_id"))
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list topics: %v", err)
			return
		}
		if topics == nil {
			topics = []storage.Topic{}
		}
		writeJSON(w, topics)
	}
}

func handleGetTopic(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		topic, err := deps.Store.GetTopic(chi.URLParam(r, "id"))
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "topic not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get topic: %v", err)
			return
		}
		writeJSON(w, topic)
	}
}

func handleDeleteTopic(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := deps.Store.DeleteTopic(chi.URLParam(r, "id"))
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "topic not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to delete topic: %v", err)
			return
		}
		writeJSON(w, map[string]string{"status": "deleted"})
	}
}
