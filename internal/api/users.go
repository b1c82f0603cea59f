package api

import (
	"net/http"
	"time"

	"github.com/eduforge/eduforge/internal/storage"
)

func handleUpdatePreferences(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(r)

		prefs := user.Preferences
		if !decodeJSON(w, r, &prefs) {
			return
		}
		if prefs.KnowledgeLevel < 1 || prefs.KnowledgeLevel > 10 {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "knowledge_level must be between 1 and 10")
			return
		}

		if err := deps.Store.UpdateUserPreferences(user.ID, prefs); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to update preferences: %v", err)
			return
		}

		user.Preferences = prefs
		writeJSON(w, userResponse(user))
	}
}

func handleListProgress(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		progress, err := deps.Store.ListProgress(currentUser(r).ID)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list progress: %v", err)
			return
		}
		if progress == nil {
			progress = []storage.Progress{}
		}
		writeJSON(w, progress)
	}
}

type progressRequest struct {
	TopicID           string  `json:"topic_id"`
	MasteryLevel      float64 `json:"mastery_level"`
	QuestionsAnswered int     `json:"questions_answered"`
	CorrectAnswers    int     `json:"correct_answers"`
}

func handleUpsertProgress(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req progressRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.TopicID == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "topic_id is required")
			return
		}
		if req.MasteryLevel < 0 || req.MasteryLevel > 10 {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "mastery_level must be between 0 and 10")
			return
		}

		p := storage.Progress{
			UserID:            currentUser(r).ID,
			TopicID:           req.TopicID,
			MasteryLevel:      req.MasteryLevel,
			QuestionsAnswered: req.QuestionsAnswered,
			CorrectAnswers:    req.CorrectAnswers,
			LastAccessed:      time.Now().UTC(),
		}
		if err := deps.Store.UpsertProgress(p); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to save progress: %v", err)
			return
		}
		writeJSON(w, p)
	}
}
