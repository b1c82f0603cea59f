package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/eduforge/eduforge/internal/content"
)

const contentColumns = "id, topic_id, type, title, body, source, source_url, difficulty, key_terms, readability, metadata, created_at, updated_at"

// ContentFilter narrows ListContents. Zero-value fields are ignored.
type ContentFilter struct {
	TopicID string
	Type    string
}

// CreateContent inserts a content record.
func (s *Store) CreateContent(c content.Record) error {
	_, err := s.db.Exec(`INSERT INTO contents (`+contentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.TopicID, c.Type, c.Title, c.Body, c.Source, c.SourceURL,
		c.Difficulty, marshalJSON(c.KeyTerms, "[]"), marshalJSON(c.Readability, "{}"),
		marshalJSON(c.Metadata, "{}"), formatTime(c.CreatedAt), formatTime(c.UpdatedAt))
	return err
}

// GetContent fetches a content record by ID.
func (s *Store) GetContent(id string) (content.Record, error) {
	row := s.db.QueryRow(`SELECT `+contentColumns+` FROM contents WHERE id = ?`, id)
	return scanContent(row.Scan)
}

// ListContents returns content records matching the filter, in insertion
// order. Insertion order keeps downstream ranking ties stable.
func (s *Store) ListContents(f ContentFilter) ([]content.Record, error) {
	query := `SELECT ` + contentColumns + ` FROM contents`
	var where []string
	var args []any
	if f.TopicID != "" {
		where = append(where, "topic_id = ?")
		args = append(args, f.TopicID)
	}
	if f.Type != "" {
		where = append(where, "type = ?")
		args = append(args, f.Type)
	}
	for i, cond := range where {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY rowid ASC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []content.Record
	for rows.Next() {
		rec, err := scanContent(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// UpdateContent replaces the mutable fields of a content record.
func (s *Store) UpdateContent(c content.Record) error {
	res, err := s.db.Exec(`UPDATE contents SET type = ?, title = ?, body = ?, difficulty = ?,
		key_terms = ?, readability = ?, metadata = ?, updated_at = ? WHERE id = ?`,
		c.Type, c.Title, c.Body, c.Difficulty,
		marshalJSON(c.KeyTerms, "[]"), marshalJSON(c.Readability, "{}"),
		marshalJSON(c.Metadata, "{}"), formatTime(c.UpdatedAt), c.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// DeleteContent removes a content record by ID.
func (s *Store) DeleteContent(id string) error {
	res, err := s.db.Exec(`DELETE FROM contents WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func scanContent(scan func(...any) error) (content.Record, error) {
	var c content.Record
	var keyTerms, readability, metadata, createdAt, updatedAt string
	var sourceURL sql.NullString
	err := scan(&c.ID, &c.TopicID, &c.Type, &c.Title, &c.Body, &c.Source, &sourceURL,
		&c.Difficulty, &keyTerms, &readability, &metadata, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return content.Record{}, ErrNotFound
	}
	if err != nil {
		return content.Record{}, err
	}
	c.SourceURL = sourceURL.String
	if err := json.Unmarshal([]byte(keyTerms), &c.KeyTerms); err != nil {
		return content.Record{}, fmt.Errorf("parsing key_terms for %s: %w", c.ID, err)
	}
	if err := json.Unmarshal([]byte(readability), &c.Readability); err != nil {
		return content.Record{}, fmt.Errorf("parsing readability for %s: %w", c.ID, err)
	}
	if err := json.Unmarshal([]byte(metadata), &c.Metadata); err != nil {
		return content.Record{}, fmt.Errorf("parsing metadata for %s: %w", c.ID, err)
	}
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return content.Record{}, fmt.Errorf("parsing created_at: %w", err)
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return content.Record{}, fmt.Errorf("parsing updated_at: %w", err)
	}
	return c, nil
}
