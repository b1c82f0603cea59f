package storage

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/eduforge/eduforge/internal/personalize"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a uniqueness constraint would be violated
// (e.g. duplicate username or email).
var ErrConflict = errors.New("already exists")

// User is a registered account with stored learning preferences.
type User struct {
	ID           string                  `json:"id"`
	Username     string                  `json:"username"`
	Email        string                  `json:"email"`
	PasswordHash string                  `json:"-"`
	Preferences  personalize.Preferences `json:"preferences"`
	CreatedAt    time.Time               `json:"created_at"`
	UpdatedAt    time.Time               `json:"updated_at"`
}

// Subject groups topics under a curriculum area.
type Subject struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Source      string            `json:"source"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Topic is a unit of study within a subject.
type Topic struct {
	ID            string            `json:"id"`
	SubjectID     string            `json:"subject_id"`
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	Difficulty    float64           `json:"difficulty"`
	Prerequisites []string          `json:"prerequisites,omitempty"`
	Source        string            `json:"source"`
	SourceURL     string            `json:"source_url,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// Question is a stored practice question attached to a topic.
type Question struct {
	ID            string    `json:"id"`
	TopicID       string    `json:"topic_id"`
	ContentID     string    `json:"content_id,omitempty"`
	Text          string    `json:"text"`
	Type          string    `json:"type"`
	Options       []string  `json:"options,omitempty"`
	CorrectAnswer string    `json:"correct_answer"`
	Explanation   string    `json:"explanation,omitempty"`
	Difficulty    float64   `json:"difficulty"`
	Tags          []string  `json:"tags,omitempty"`
	Source        string    `json:"source"`
	CreatedAt     time.Time `json:"created_at"`
}

// Progress tracks a user's mastery of a topic.
type Progress struct {
	UserID            string    `json:"user_id"`
	TopicID           string    `json:"topic_id"`
	MasteryLevel      float64   `json:"mastery_level"`
	QuestionsAnswered int       `json:"questions_answered"`
	CorrectAnswers    int       `json:"correct_answers"`
	LastAccessed      time.Time `json:"last_accessed"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// StudySheetRecord is a persisted generated study sheet. Sections hold the
// sheet's section list as JSON, preserving the output schema of the
// assembler.
type StudySheetRecord struct {
	ID              string          `json:"id"`
	TopicID         string          `json:"topic_id"`
	UserID          string          `json:"user_id"`
	Title           string          `json:"title"`
	Sections        json.RawMessage `json:"sections"`
	DifficultyLevel float64         `json:"difficulty_level"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Textbook is an uploaded source document awaiting or past processing.
// Status is one of "pending", "processing", "processed", "error".
type Textbook struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Subject        string    `json:"subject"`
	Grade          string    `json:"grade"`
	Description    string    `json:"description"`
	FilePath       string    `json:"-"`
	Status         string    `json:"status"`
	PagesProcessed int       `json:"pages_processed"`
	ErrorMessage   string    `json:"error_message,omitempty"`
	UploadedBy     string    `json:"uploaded_by"`
	CreatedAt      time.Time `json:"created_at"`
	ProcessedAt    time.Time `json:"processed_at,omitzero"`
}

// TextbookPage is one extracted page of a processed textbook.
type TextbookPage struct {
	TextbookID string
	Page       int
	Content    string
}

// Job is a queued unit of background work with retry bookkeeping.
type Job struct {
	ID          string
	Type        string
	Payload     string
	Status      string // "pending", "running", "completed", "failed"
	Attempts    int
	MaxAttempts int
	RunAfter    time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	LastError   string
}

// marshalJSON renders v as a JSON column value, defaulting to fallback on
// nil maps/slices so columns never hold SQL NULL.
func marshalJSON(v any, fallback string) string {
	if v == nil {
		return fallback
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fallback
	}
	return string(b)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
