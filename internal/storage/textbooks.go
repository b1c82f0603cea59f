package storage

import (
	"database/sql"
	"fmt"
	"time"
)

const textbookColumns = "id, title, subject, grade, description, file_path, status, pages_processed, error_message, uploaded_by, created_at, processed_at"

// CreateTextbook records an uploaded textbook awaiting processing.
func (s *Store) CreateTextbook(tb Textbook) error {
	status := tb.Status
	if status == "" {
		status = "pending"
	}
	_, err := s.db.Exec(`INSERT INTO textbooks (`+textbookColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL)`,
		tb.ID, tb.Title, tb.Subject, tb.Grade, tb.Description, tb.FilePath,
		status, tb.PagesProcessed, tb.ErrorMessage, tb.UploadedBy, formatTime(tb.CreatedAt))
	return err
}

// GetTextbook fetches a textbook by ID.
func (s *Store) GetTextbook(id string) (Textbook, error) {
	row := s.db.QueryRow(`SELECT `+textbookColumns+` FROM textbooks WHERE id = ?`, id)
	return scanTextbook(row.Scan)
}

// ListTextbooks returns all textbooks, newest first.
func (s *Store) ListTextbooks() ([]Textbook, error) {
	rows, err := s.db.Query(`SELECT ` + textbookColumns + ` FROM textbooks ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Textbook
	for rows.Next() {
		tb, err := scanTextbook(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, tb)
	}
	return out, rows.Err()
}

// MarkTextbookProcessed flips a textbook to processed and records the page
// count.
func (s *Store) MarkTextbookProcessed(id string, pages int) error {
	res, err := s.db.Exec(`UPDATE textbooks SET status = 'processed', pages_processed = ?, error_message = '', processed_at = ? WHERE id = ?`,
		pages, formatTime(time.Now()), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// MarkTextbookFailed flips a textbook to the error state with a message.
func (s *Store) MarkTextbookFailed(id string, msg string) error {
	res, err := s.db.Exec(`UPDATE textbooks SET status = 'error', error_message = ? WHERE id = ?`, msg, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// SaveTextbookPages replaces the extracted pages of a textbook.
func (s *Store) SaveTextbookPages(textbookID string, pages []TextbookPage) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning pages transaction: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM textbook_pages WHERE textbook_id = ?`, textbookID); err != nil {
		tx.Rollback()
		return fmt.Errorf("clearing pages for %s: %w", textbookID, err)
	}

	stmt, err := tx.Prepare(`INSERT INTO textbook_pages (textbook_id, page, content) VALUES (?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("preparing page insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range pages {
		if _, err := stmt.Exec(textbookID, p.Page, p.Content); err != nil {
			tx.Rollback()
			return fmt.Errorf("inserting page %d: %w", p.Page, err)
		}
	}
	return tx.Commit()
}

// GetTextbookPages returns a textbook's extracted pages in page order.
func (s *Store) GetTextbookPages(textbookID string) ([]TextbookPage, error) {
	rows, err := s.db.Query(`SELECT textbook_id, page, content FROM textbook_pages WHERE textbook_id = ? ORDER BY page ASC`, textbookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TextbookPage
	for rows.Next() {
		var p TextbookPage
		if err := rows.Scan(&p.TextbookID, &p.Page, &p.Content); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanTextbook(scan func(...any) error) (Textbook, error) {
	var tb Textbook
	var createdAt string
	var processedAt sql.NullString
	err := scan(&tb.ID, &tb.Title, &tb.Subject, &tb.Grade, &tb.Description, &tb.FilePath,
		&tb.Status, &tb.PagesProcessed, &tb.ErrorMessage, &tb.UploadedBy, &createdAt, &processedAt)
	if err == sql.ErrNoRows {
		return Textbook{}, ErrNotFound
	}
	if err != nil {
		return Textbook{}, err
	}
	if tb.CreatedAt, err = parseTime(createdAt); err != nil {
		return Textbook{}, fmt.Errorf("parsing created_at: %w", err)
	}
	if processedAt.Valid {
		if tb.ProcessedAt, err = parseTime(processedAt.String); err != nil {
			return Textbook{}, fmt.Errorf("parsing processed_at: %w", err)
		}
	}
	return tb, nil
}
