package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/eduforge/eduforge/internal/personalize"
)

const userColumns = "id, username, email, password_hash, preferences, created_at, updated_at"

// CreateUser inserts a new account. Returns ErrConflict when the username or
// email is already taken.
func (s *Store) CreateUser(u User) error {
	var existing int
	err := s.db.QueryRow("SELECT COUNT(*) FROM users WHERE username = ? OR email = ?", u.Username, u.Email).Scan(&existing)
	if err != nil {
		return fmt.Errorf("checking user uniqueness: %w", err)
	}
	if existing > 0 {
		return fmt.Errorf("user %q: %w", u.Username, ErrConflict)
	}

	prefs, err := json.Marshal(u.Preferences)
	if err != nil {
		return fmt.Errorf("marshalling preferences: %w", err)
	}
	_, err = s.db.Exec(`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.Email, u.PasswordHash, string(prefs),
		formatTime(u.CreatedAt), formatTime(u.UpdatedAt))
	return err
}

// GetUser fetches an account by ID.
func (s *Store) GetUser(id string) (User, error) {
	return s.scanUser(s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

// GetUserByUsername fetches an account by username.
func (s *Store) GetUserByUsername(username string) (User, error) {
	return s.scanUser(s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE username = ?`, username))
}

// UpdateUserPreferences replaces the stored preferences for a user.
func (s *Store) UpdateUserPreferences(id string, prefs personalize.Preferences) error {
	b, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("marshalling preferences: %w", err)
	}
	res, err := s.db.Exec(`UPDATE users SET preferences = ?, updated_at = ? WHERE id = ?`,
		string(b), formatTime(time.Now()), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *Store) scanUser(row *sql.Row) (User, error) {
	var u User
	var prefs, createdAt, updatedAt string
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &prefs, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	if err := json.Unmarshal([]byte(prefs), &u.Preferences); err != nil {
		return User{}, fmt.Errorf("parsing preferences for %s: %w", u.ID, err)
	}
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return User{}, fmt.Errorf("parsing created_at: %w", err)
	}
	if u.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return User{}, fmt.Errorf("parsing updated_at: %w", err)
	}
	return u, nil
}

// requireRow converts a zero-row update into ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Progress ---

// UpsertProgress creates or updates a user's progress on a topic.
func (s *Store) UpsertProgress(p Progress) error {
	now := formatTime(time.Now())
	last := formatTime(p.LastAccessed)
	if p.LastAccessed.IsZero() {
		last = now
	}
	_, err := s.db.Exec(`
		INSERT INTO progress (user_id, topic_id, mastery_level, questions_answered, correct_answers, last_accessed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, topic_id) DO UPDATE SET
			mastery_level = excluded.mastery_level,
			questions_answered = excluded.questions_answered,
			correct_answers = excluded.correct_answers,
			last_accessed = excluded.last_accessed,
			updated_at = excluded.updated_at`,
		p.UserID, p.TopicID, p.MasteryLevel, p.QuestionsAnswered, p.CorrectAnswers, last, now, now)
	return err
}

// ListProgress returns all progress records for a user.
func (s *Store) ListProgress(userID string) ([]Progress, error) {
	rows, err := s.db.Query(`
		SELECT user_id, topic_id, mastery_level, questions_answered, correct_answers, last_accessed, created_at, updated_at
		FROM progress WHERE user_id = ? ORDER BY last_accessed DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Progress
	for rows.Next() {
		var p Progress
		var last, createdAt, updatedAt string
		if err := rows.Scan(&p.UserID, &p.TopicID, &p.MasteryLevel, &p.QuestionsAnswered, &p.CorrectAnswers, &last, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		if p.LastAccessed, err = parseTime(last); err != nil {
			return nil, fmt.Errorf("parsing last_accessed: %w", err)
		}
		if p.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, fmt.Errorf("parsing updated_at: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
