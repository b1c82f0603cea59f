package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/eduforge/eduforge/internal/ingest"
	"github.com/eduforge/eduforge/internal/storage"
)

var uploadExtensions = map[string]bool{
	".pdf": true,
	".txt": true,
	".md":  true,
}

// handleUploadTextbook accepts a multipart upload (field "file" plus
// optional title/subject/grade/description fields), stores the file under
// the upload directory, and queues a processing job.
func handleUploadTextbook(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBodySize)
		if err := r.ParseMultipartForm(maxUploadBodySize); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid multipart form: %v", err)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "file field is required")
			return
		}
		defer file.Close()

		ext := strings.ToLower(filepath.Ext(header.Filename))
		if !uploadExtensions[ext] {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "unsupported file type %q", ext)
			return
		}

		id := uuid.New().String()
		if err := os.MkdirAll(deps.UploadDir, 0o755); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to create upload dir: %v", err)
			return
		}
		path := filepath.Join(deps.UploadDir, id+ext)
		dst, err := os.Create(path)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to store upload: %v", err)
			return
		}
		if _, err := io.Copy(dst, file); err != nil {
			dst.Close()
			os.Remove(path)
			httpError(w, http.StatusInternalServerError, "api_error", "failed to store upload: %v", err)
			return
		}
		if err := dst.Close(); err != nil {
			os.Remove(path)
			httpError(w, http.StatusInternalServerError, "api_error", "failed to store upload: %v", err)
			return
		}

		title := r.FormValue("title")
		if title == "" {
			title = strings.TrimSuffix(header.Filename, ext)
		}
		tb := storage.Textbook{
			ID:          id,
			Title:       title,
			Subject:     r.FormValue("subject"),
			Grade:       r.FormValue("grade"),
			Description: r.FormValue("description"),
			FilePath:    path,
			Status:      "pending",
			UploadedBy:  currentUser(r).ID,
			CreatedAt:   time.Now().UTC(),
		}
		if err := deps.Store.CreateTextbook(tb); err != nil {
			os.Remove(path)
			httpError(w, http.StatusInternalServerError, "api_error", "failed to create textbook: %v", err)
			return
		}

		payload, err := json.Marshal(map[string]string{"textbook_id": id})
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to create job payload: %v", err)
			return
		}
		job := storage.Job{
			ID:      uuid.New().String(),
			Type:    ingest.JobType,
			Payload: string(payload),
		}
		if err := deps.Store.EnqueueJob(job); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to enqueue job: %v", err)
			return
		}

		w.WriteHeader(http.StatusAccepted)
		writeJSON(w, map[string]string{
			"id":     id,
			"status": "queued",
		})
	}
}

func handleListTextbooks(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		textbooks, err := deps.Store.ListTextbooks()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list textbooks: %v", err)
			return
		}
		if textbooks == nil {
			textbooks = []storage.Textbook{}
		}
		writeJSON(w, textbooks)
	}
}

func handleGetTextbook(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tb, err := deps.Store.GetTextbook(chi.URLParam(r, "id"))
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "textbook not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get textbook: %v", err)
			return
		}
		writeJSON(w, tb)
	}
}
