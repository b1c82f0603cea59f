package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/eduforge/eduforge/internal/content"
	"github.com/eduforge/eduforge/internal/personalize"
	"github.com/eduforge/eduforge/internal/storage"
	"github.com/eduforge/eduforge/internal/studysheet"
)

type studySheetRequest struct {
	TopicID string `json:"topic_id"`
}

func handleStudySheet(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req studySheetRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.TopicID == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "topic_id is required")
			return
		}

		topic, err := deps.Store.GetTopic(req.TopicID)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "topic not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get topic: %v", err)
			return
		}

		records, err := deps.Store.ListContents(storage.ContentFilter{TopicID: topic.ID})
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list contents: %v", err)
			return
		}

		user := currentUser(r)
		sheet := deps.Sheets.Assemble(topic.ID, user.Preferences.KnowledgeLevel, records)

		resp := map[string]any{
			"title":            sheet.Title,
			"topic_id":         sheet.TopicID,
			"topic_name":       topic.Name,
			"user_id":          user.ID,
			"username":         user.Username,
			"sections":         sheet.Sections,
			"created_at":       sheet.CreatedAt,
			"difficulty_level": sheet.DifficultyLevel,
		}
		if sheet.Error {
			resp["error"] = true
			resp["content"] = sheet.Content
			writeJSON(w, resp)
			return
		}

		sections, err := json.Marshal(sheet.Sections)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to encode sections: %v", err)
			return
		}
		record := storage.StudySheetRecord{
			ID:              uuid.New().String(),
			TopicID:         topic.ID,
			UserID:          user.ID,
			Title:           sheet.Title,
			Sections:        sections,
			DifficultyLevel: sheet.DifficultyLevel,
			CreatedAt:       sheet.CreatedAt,
		}
		if err := deps.Store.SaveStudySheet(record); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to save study sheet: %v", err)
			return
		}
		resp["id"] = record.ID

		writeJSON(w, resp)
	}
}

func handleListStudySheets(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := parseIntParam(r, "limit", 20, 100)
		sheets, err := deps.Store.ListStudySheets(currentUser(r).ID, limit)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list study sheets: %v", err)
			return
		}
		if sheets == nil {
			sheets = []storage.StudySheetRecord{}
		}
		writeJSON(w, sheets)
	}
}

type practiceRequest struct {
	TopicID string `json:"topic_id"`
	Count   int    `json:"count"`
}

func handlePracticeQuestions(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req practiceRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.TopicID == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "topic_id is required")
			return
		}
		if req.Count <= 0 {
			req.Count = 5
		}
		if req.Count > 20 {
			req.Count = 20
		}

		records, err := deps.Store.ListContents(storage.ContentFilter{TopicID: req.TopicID})
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list contents: %v", err)
			return
		}

		user := currentUser(r)
		questions := studysheet.PersonalizedQuestions(records, user.Preferences.KnowledgeLevel, req.Count)
		if questions == nil {
			questions = []studysheet.Question{}
		}

		// Generated questions also land in the question bank so they can
		// be re-served without regenerating.
		for _, q := range questions {
			stored := storage.Question{
				ID:            uuid.New().String(),
				TopicID:       req.TopicID,
				Text:          q.Text,
				Type:          q.Type,
				Options:       q.Options,
				CorrectAnswer: q.CorrectAnswer,
				Explanation:   q.Explanation,
				Difficulty:    q.Difficulty,
				Source:        "generated",
				CreatedAt:     time.Now().UTC(),
			}
			if err := deps.Store.CreateQuestion(stored); err != nil {
				httpError(w, http.StatusInternalServerError, "api_error", "failed to save question: %v", err)
				return
			}
		}

		writeJSON(w, map[string]any{
			"topic_id":  req.TopicID,
			"questions": questions,
		})
	}
}

func handleRecommendations(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		k := parseIntParam(r, "k", 5, 50)

		filter := storage.ContentFilter{TopicID: r.URL.Query().Get("topic_id")}
		records, err := deps.Store.ListContents(filter)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list contents: %v", err)
			return
		}

		index := personalize.Train(records)
		ids := index.Query(currentUser(r).Preferences.Vector(), k)

		byID := make(map[string]content.Record, len(records))
		for _, rec := range records {
			byID[rec.ID] = rec
		}
		recommended := make([]content.Record, 0, len(ids))
		for _, id := range ids {
			if rec, ok := byID[id]; ok {
				recommended = append(recommended, rec)
			}
		}

		writeJSON(w, map[string]any{
			"recommendations": recommended,
		})
	}
}

type interactionRequest struct {
	ContentID string  `json:"content_id"`
	Rating    int     `json:"rating"`
	TimeSpent float64 `json:"time_spent"`
}

func handleInteraction(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req interactionRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.ContentID == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "content_id is required")
			return
		}
		if req.Rating < 0 || req.Rating > 5 {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "rating must be between 1 and 5")
			return
		}

		rec, err := deps.Store.GetContent(req.ContentID)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "content not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get content: %v", err)
			return
		}

		user := currentUser(r)
		updated := user.Preferences.ApplyInteraction(personalize.Interaction{
			ContentType:       rec.Type,
			Rating:            req.Rating,
			TimeSpentSeconds:  req.TimeSpent,
			ContentDifficulty: rec.EffectiveDifficulty(),
			ContentLength:     len(rec.Body),
		})
		if err := deps.Store.UpdateUserPreferences(user.ID, updated); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to update preferences: %v", err)
			return
		}

		writeJSON(w, map[string]any{
			"status":      "recorded",
			"preferences": updated,
		})
	}
}
