package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

const questionColumns = "id, topic_id, content_id, text, type, options, correct_answer, explanation, difficulty, tags, source, created_at"

// CreateQuestion inserts a stored practice question.
func (s *Store) CreateQuestion(q Question) error {
	_, err := s.db.Exec(`INSERT INTO questions (`+questionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		q.ID, q.TopicID, q.ContentID, q.Text, q.Type, marshalJSON(q.Options, "[]"),
		q.CorrectAnswer, q.Explanation, q.Difficulty, marshalJSON(q.Tags, "[]"),
		q.Source, formatTime(q.CreatedAt))
	return err
}

// GetQuestion fetches a question by ID.
func (s *Store) GetQuestion(id string) (Question, error) {
	row := s.db.QueryRow(`SELECT `+questionColumns+` FROM questions WHERE id = ?`, id)
	return scanQuestion(row.Scan)
}

// ListQuestions returns the questions of a topic, or all questions when
// topicID is empty.
func (s *Store) ListQuestions(topicID string) ([]Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions ORDER BY rowid ASC`
	var args []any
	if topicID != "" {
		query = `SELECT ` + questionColumns + ` FROM questions WHERE topic_id = ? ORDER BY rowid ASC`
		args = append(args, topicID)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Question
	for rows.Next() {
		q, err := scanQuestion(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// DeleteQuestion removes a question by ID.
func (s *Store) DeleteQuestion(id string) error {
	res, err := s.db.Exec(`DELETE FROM questions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func scanQuestion(scan func(...any) error) (Question, error) {
	var q Question
	var options, tags, createdAt string
	var contentID sql.NullString
	err := scan(&q.ID, &q.TopicID, &contentID, &q.Text, &q.Type, &options,
		&q.CorrectAnswer, &q.Explanation, &q.Difficulty, &tags, &q.Source, &createdAt)
	if err == sql.ErrNoRows {
		return Question{}, ErrNotFound
	}
	if err != nil {
		return Question{}, err
	}
	q.ContentID = contentID.String
	if err := json.Unmarshal([]byte(options), &q.Options); err != nil {
		return Question{}, fmt.Errorf("parsing options for %s: %w", q.ID, err)
	}
	if err := json.Unmarshal([]byte(tags), &q.Tags); err != nil {
		return Question{}, fmt.Errorf("parsing tags for %s: %w", q.ID, err)
	}
	if q.CreatedAt, err = parseTime(createdAt); err != nil {
		return Question{}, fmt.Errorf("parsing created_at: %w", err)
	}
	return q, nil
}

// --- Study sheets ---

// SaveStudySheet persists a generated study sheet.
func (s *Store) SaveStudySheet(r StudySheetRecord) error {
	sections := string(r.Sections)
	if sections == "" {
		sections = "[]"
	}
	_, err := s.db.Exec(`
		INSERT INTO study_sheets (id, topic_id, user_id, title, sections, difficulty_level, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.TopicID, r.UserID, r.Title, sections, r.DifficultyLevel, formatTime(r.CreatedAt))
	return err
}

// GetStudySheet fetches a stored sheet by ID.
func (s *Store) GetStudySheet(id string) (StudySheetRecord, error) {
	var r StudySheetRecord
	var sections, createdAt string
	err := s.db.QueryRow(`
		SELECT id, topic_id, user_id, title, sections, difficulty_level, created_at
		FROM study_sheets WHERE id = ?`, id,
	).Scan(&r.ID, &r.TopicID, &r.UserID, &r.Title, &sections, &r.DifficultyLevel, &createdAt)
	if err == sql.ErrNoRows {
		return StudySheetRecord{}, ErrNotFound
	}
	if err != nil {
		return StudySheetRecord{}, err
	}
	r.Sections = json.RawMessage(sections)
	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return StudySheetRecord{}, fmt.Errorf("parsing created_at: %w", err)
	}
	return r, nil
}

// ListStudySheets returns a user's stored sheets, newest first.
func (s *Store) ListStudySheets(userID string, limit int) ([]StudySheetRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, topic_id, user_id, title, sections, difficulty_level, created_at
		FROM study_sheets WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StudySheetRecord
	for rows.Next() {
		var r StudySheetRecord
		var sections, createdAt string
		if err := rows.Scan(&r.ID, &r.TopicID, &r.UserID, &r.Title, &sections, &r.DifficultyLevel, &createdAt); err != nil {
			return nil, err
		}
		r.Sections = json.RawMessage(sections)
		if r.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
