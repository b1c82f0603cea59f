package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/eduforge/eduforge/internal/personalize"
)

func testUser(id, username string) User {
	now := time.Now().UTC().Truncate(time.Second)
	return User{
		ID:           id,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "$2a$10$notarealhash",
		Preferences:  personalize.DefaultPreferences(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestCreateAndGetUser(t *testing.T) {
	s := openTestStore(t)

	want := testUser("u1", "alice")
	if err := s.CreateUser(want); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	got, err := s.GetUser("u1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Username != "alice" {
		t.Errorf("Username = %q, want %q", got.Username, "alice")
	}
	if got.Email != "alice@example.com" {
		t.Errorf("Email = %q, want %q", got.Email, "alice@example.com")
	}
	if got.PasswordHash != want.PasswordHash {
		t.Errorf("PasswordHash = %q, want %q", got.PasswordHash, want.PasswordHash)
	}
	if got.Preferences != want.Preferences {
		t.Errorf("Preferences = %+v, want %+v", got.Preferences, want.Preferences)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, want.CreatedAt)
	}

	byName, err := s.GetUserByUsername("alice")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if byName.ID != "u1" {
		t.Errorf("ID = %q, want %q", byName.ID, "u1")
	}
}

func TestGetUserNotFound(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.GetUser("missing"); err != ErrNotFound {
		t.Errorf("GetUser error = %v, want ErrNotFound", err)
	}
	if _, err := s.GetUserByUsername("nobody"); err != ErrNotFound {
		t.Errorf("GetUserByUsername error = %v, want ErrNotFound", err)
	}
}

func TestCreateUserConflict(t *testing.T) {
	s := openTestStore(t)

	if err := s.CreateUser(testUser("u1", "alice")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	// Same username, different ID and email.
	dup := testUser("u2", "alice")
	dup.Email = "other@example.com"
	if err := s.CreateUser(dup); !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate username error = %v, want ErrConflict", err)
	}

	// Same email, different username.
	dup = testUser("u3", "bob")
	dup.Email = "alice@example.com"
	if err := s.CreateUser(dup); !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate email error = %v, want ErrConflict", err)
	}
}

func TestUpdateUserPreferences(t *testing.T) {
	s := openTestStore(t)

	if err := s.CreateUser(testUser("u1", "alice")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	want := personalize.Preferences{
		KnowledgeLevel:     7.5,
		PreferExplanations: 0.5,
		PreferExamples:     0.4,
		PreferResources:    0.1,
		PreferLength:       0.8,
	}
	if err := s.UpdateUserPreferences("u1", want); err != nil {
		t.Fatalf("UpdateUserPreferences: %v", err)
	}

	got, err := s.GetUser("u1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Preferences != want {
		t.Errorf("Preferences = %+v, want %+v", got.Preferences, want)
	}

	if err := s.UpdateUserPreferences("missing", want); err != ErrNotFound {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestUpsertProgress(t *testing.T) {
	s := openTestStore(t)

	p := Progress{
		UserID:            "u1",
		TopicID:           "t1",
		MasteryLevel:      3.5,
		QuestionsAnswered: 10,
		CorrectAnswers:    7,
		LastAccessed:      time.Now().UTC().Truncate(time.Second),
	}
	if err := s.UpsertProgress(p); err != nil {
		t.Fatalf("UpsertProgress: %v", err)
	}

	// Second upsert on the same (user, topic) updates in place.
	p.MasteryLevel = 6.0
	p.QuestionsAnswered = 20
	if err := s.UpsertProgress(p); err != nil {
		t.Fatalf("UpsertProgress (update): %v", err)
	}

	got, err := s.ListProgress("u1")
	if err != nil {
		t.Fatalf("ListProgress: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d progress rows, want 1", len(got))
	}
	if got[0].MasteryLevel != 6.0 {
		t.Errorf("MasteryLevel = %v, want 6.0", got[0].MasteryLevel)
	}
	if got[0].QuestionsAnswered != 20 {
		t.Errorf("QuestionsAnswered = %d, want 20", got[0].QuestionsAnswered)
	}
}

func TestListProgressOrder(t *testing.T) {
	s := openTestStore(t)

	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	for i, topic := range []string{"t-old", "t-mid", "t-new"} {
		p := Progress{
			UserID:       "u1",
			TopicID:      topic,
			LastAccessed: base.Add(time.Duration(i) * time.Hour),
		}
		if err := s.UpsertProgress(p); err != nil {
			t.Fatalf("UpsertProgress %s: %v", topic, err)
		}
	}

	got, err := s.ListProgress("u1")
	if err != nil {
		t.Fatalf("ListProgress: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d rows, want 3", len(got))
	}
	// Most recently accessed first.
	if got[0].TopicID != "t-new" {
		t.Errorf("first topic = %q, want %q", got[0].TopicID, "t-new")
	}

	other, err := s.ListProgress("u2")
	if err != nil {
		t.Fatalf("ListProgress u2: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("got %d rows for other user, want 0", len(other))
	}
}
