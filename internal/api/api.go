// Package api exposes the platform's REST surface: auth, catalog and
// content CRUD, textbook uploads, and the personalized generation
// endpoints.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/eduforge/eduforge/internal/auth"
	"github.com/eduforge/eduforge/internal/storage"
	"github.com/eduforge/eduforge/internal/studysheet"
)

const maxRequestBodySize = 1 << 20  // 1MB
const maxUploadBodySize = 50 << 20 // 50MB

type Deps struct {
	Store       *storage.Store
	Issuer      *auth.Issuer
	Sheets      *studysheet.Assembler
	UploadDir   string
	OpenSignups bool
}

// NewHandler returns the REST API router. Everything except /health and
// the /auth endpoints requires a bearer token.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth)
	r.Post("/auth/register", handleRegister(deps))
	r.Post("/auth/token", handleToken(deps))

	r.Group(func(r chi.Router) {
		r.Use(JWTAuth(deps))

		r.Get("/auth/me", handleMe(deps))
		r.Put("/users/me", handleUpdatePreferences(deps))
		r.Get("/users/me/progress", handleListProgress(deps))
		r.Post("/users/me/progress", handleUpsertProgress(deps))

		r.Get("/subjects", handleListSubjects(deps))
		r.Post("/subjects", handleCreateSubject(deps))
		r.Get("/subjects/{id}", handleGetSubject(deps))
		r.Delete("/subjects/{id}", handleDeleteSubject(deps))

		r.Get("/topics", handleListTopics(deps))
		r.Post("/topics", handleCreateTopic(deps))
		r.Get("/topics/{id}", handleGetTopic(deps))
		r.Delete("/topics/{id}", handleDeleteTopic(deps))

		r.Get("/contents", handleListContents(deps))
		r.Post("/contents", handleCreateContent(deps))
		r.Get("/contents/{id}", handleGetContent(deps))
		r.Put("/contents/{id}", handleUpdateContent(deps))
		r.Delete("/contents/{id}", handleDeleteContent(deps))

		r.Get("/questions", handleListQuestions(deps))
		r.Post("/questions", handleCreateQuestion(deps))
		r.Get("/questions/{id}", handleGetQuestion(deps))
		r.Delete("/questions/{id}", handleDeleteQuestion(deps))

		r.Post("/ai/studysheet", handleStudySheet(deps))
		r.Get("/ai/studysheets", handleListStudySheets(deps))
		r.Post("/ai/questions", handlePracticeQuestions(deps))
		r.Get("/ai/recommendations", handleRecommendations(deps))
		r.Post("/ai/interactions", handleInteraction(deps))

		r.Post("/textbooks/upload", handleUploadTextbook(deps))
		r.Get("/textbooks", handleListTextbooks(deps))
		r.Get("/textbooks/{id}", handleGetTextbook(deps))
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
		return false
	}
	return true
}

func parseIntParam(r *http.Request, key string, defaultVal, maxVal int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	if maxVal > 0 && v > maxVal {
		return maxVal
	}
	return v
}
