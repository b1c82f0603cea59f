// Package content defines the educational content record model and the
// preprocessing applied to raw material before storage: text cleanup,
// key-term extraction, and readability scoring.
package content

import "time"

// Content types recognized by the platform. Records may carry other type
// strings; downstream consumers treat them as opaque.
const (
	TypeExplanation = "explanation"
	TypeExample     = "example"
	TypeResource    = "resource"
	TypePractice    = "practice"
)

// DefaultDifficulty is assumed for records that carry no difficulty rating.
const DefaultDifficulty = 5.0

// defaultFlesch is assumed when a record has no readability metrics.
const defaultFlesch = 50.0

// Record is a stored unit of educational material attached to a topic.
type Record struct {
	ID          string             `json:"id"`
	TopicID     string             `json:"topic_id"`
	Type        string             `json:"type"`
	Title       string             `json:"title"`
	Body        string             `json:"body"`
	Source      string             `json:"source,omitempty"`
	SourceURL   string             `json:"source_url,omitempty"`
	Difficulty  float64            `json:"difficulty"`
	KeyTerms    []string           `json:"key_terms,omitempty"`
	Readability map[string]float64 `json:"readability,omitempty"`
	Metadata    map[string]string  `json:"metadata,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// EffectiveDifficulty returns the record's difficulty on the 1-10 scale,
// falling back to DefaultDifficulty when the field was never set. A missing
// rating must never make downstream selection fail.
func (r Record) EffectiveDifficulty() float64 {
	if r.Difficulty == 0 {
		return DefaultDifficulty
	}
	return r.Difficulty
}

// FleschReadingEase returns the stored Flesch reading-ease score, or the
// neutral default when readability metrics are absent.
func (r Record) FleschReadingEase() float64 {
	if v, ok := r.Readability["flesch_reading_ease"]; ok {
		return v
	}
	return defaultFlesch
}
