package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// --- Subjects ---

const subjectColumns = "id, name, description, source, metadata, created_at, updated_at"

func (s *Store) CreateSubject(sub Subject) error {
	_, err := s.db.Exec(`INSERT INTO subjects (`+subjectColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.Name, sub.Description, sub.Source, marshalJSON(sub.Metadata, "{}"),
		formatTime(sub.CreatedAt), formatTime(sub.UpdatedAt))
	return err
}

func (s *Store) GetSubject(id string) (Subject, error) {
	row := s.db.QueryRow(`SELECT `+subjectColumns+` FROM subjects WHERE id = ?`, id)
	return scanSubject(row.Scan)
}

func (s *Store) ListSubjects() ([]Subject, error) {
	rows, err := s.db.Query(`SELECT ` + subjectColumns + ` FROM subjects ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Subject
	for rows.Next() {
		sub, err := scanSubject(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

func (s *Store) DeleteSubject(id string) error {
	res, err := s.db.Exec(`DELETE FROM subjects WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func scanSubject(scan func(...any) error) (Subject, error) {
	var sub Subject
	var metadata, createdAt, updatedAt string
	err := scan(&sub.ID, &sub.Name, &sub.Description, &sub.Source, &metadata, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return Subject{}, ErrNotFound
	}
	if err != nil {
		return Subject{}, err
	}
	if err := json.Unmarshal([]byte(metadata), &sub.Metadata); err != nil {
		return Subject{}, fmt.Errorf("parsing metadata for %s: %w", sub.ID, err)
	}
	if sub.CreatedAt, err = parseTime(createdAt); err != nil {
		return Subject{}, fmt.Errorf("parsing created_at: %w", err)
	}
	if sub.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return Subject{}, fmt.Errorf("parsing updated_at: %w", err)
	}
	return sub, nil
}

// --- Topics ---

const topicColumns = "id, subject_id, name, description, difficulty, prerequisites, source, source_url, metadata, created_at, updated_at"

func (s *Store) CreateTopic(t Topic) error {
	_, err := s.db.Exec(`INSERT INTO topics (`+topicColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.SubjectID, t.Name, t.Description, t.Difficulty,
		marshalJSON(t.Prerequisites, "[]"), t.Source, t.SourceURL,
		marshalJSON(t.Metadata, "{}"), formatTime(t.CreatedAt), formatTime(t.UpdatedAt))
	return err
}

func (s *Store) GetTopic(id string) (Topic, error) {
	row := s.db.QueryRow(`SELECT `+topicColumns+` FROM topics WHERE id = ?`, id)
	return scanTopic(row.Scan)
}

// ListTopics returns the topics of a subject, or all topics when subjectID
// is empty.
func (s *Store) ListTopics(subjectID string) ([]Topic, error) {
	query := `SELECT ` + topicColumns + ` FROM topics ORDER BY name ASC`
	args := []any{}
	if subjectID != "" {
		query = `SELECT ` + topicColumns + ` FROM topics WHERE subject_id = ? ORDER BY name ASC`
		args = append(args, subjectID)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Topic
	for rows.Next() {
		t, err := scanTopic(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) DeleteTopic(id string) error {
	res, err := s.db.Exec(`DELETE FROM topics WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func scanTopic(scan func(...any) error) (Topic, error) {
	var t Topic
	var prereqs, metadata, createdAt, updatedAt string
	var sourceURL sql.NullString
	err := scan(&t.ID, &t.SubjectID, &t.Name, &t.Description, &t.Difficulty,
		&prereqs, &t.Source, &sourceURL, &metadata, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return Topic{}, ErrNotFound
	}
	if err != nil {
		return Topic{}, err
	}
	t.SourceURL = sourceURL.String
	if err := json.Unmarshal([]byte(prereqs), &t.Prerequisites); err != nil {
		return Topic{}, fmt.Errorf("parsing prerequisites for %s: %w", t.ID, err)
	}
	if err := json.Unmarshal([]byte(metadata), &t.Metadata); err != nil {
		return Topic{}, fmt.Errorf("parsing metadata for %s: %w", t.ID, err)
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return Topic{}, fmt.Errorf("parsing created_at: %w", err)
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return Topic{}, fmt.Errorf("parsing updated_at: %w", err)
	}
	return t, nil
}
