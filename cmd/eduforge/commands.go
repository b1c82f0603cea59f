package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/eduforge/eduforge/internal/auth"
	"github.com/eduforge/eduforge/internal/config"
	"github.com/eduforge/eduforge/internal/content"
	"github.com/eduforge/eduforge/internal/personalize"
	"github.com/eduforge/eduforge/internal/storage"
)

// --- user ---

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var userCreateCmd = &cobra.Command{
	Use:   "create <username>",
	Short: "Create a user account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := args[0]
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		if email == "" {
			email = username + "@localhost"
		}
		if len(password) < 8 {
			return fmt.Errorf("--password must be at least 8 characters")
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		hash, err := auth.HashPassword(password)
		if err != nil {
			return err
		}
		user := storage.User{
			ID:           uuid.New().String(),
			Username:     username,
			Email:        email,
			PasswordHash: hash,
			Preferences:  personalize.DefaultPreferences(),
			CreatedAt:    time.Now().UTC(),
		}
		if err := store.CreateUser(user); err != nil {
			printError("could not create user: %v", err)
			return err
		}

		printSuccess("Created user %s (%s)", username, user.ID)
		return nil
	},
}

func init() {
	userCreateCmd.Flags().String("email", "", "email address (default <username>@localhost)")
	userCreateCmd.Flags().String("password", "", "password (min 8 characters)")
	userCmd.AddCommand(userCreateCmd)
}

// --- seed ---

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a small demo catalog into the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := seedCatalog(store)
		if err != nil {
			return err
		}
		printSuccess("Seeded %d content records", n)
		return nil
	},
}

func openStore() (*storage.Store, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}
	return store, nil
}

type seedContent struct {
	topic string
	typ   string
	title string
	body  string
}

var seedContents = []seedContent{
	{
		topic: "Photosynthesis",
		typ:   content.TypeExplanation,
		title: "What Is Photosynthesis",
		body: "Photosynthesis is the process by which green plants convert light energy into chemical energy. " +
			"Chlorophyll inside the chloroplasts absorbs sunlight. The absorbed energy drives a reaction between " +
			"carbon dioxide and water, producing glucose and oxygen. The glucose stores energy for the plant, " +
			"while the oxygen is released into the atmosphere.\n\n" +
			"The process has two stages. The light-dependent reactions capture energy from sunlight. " +
			"The light-independent reactions use that energy to build glucose from carbon dioxide.",
	},
	{
		topic: "Photosynthesis",
		typ:   content.TypeExample,
		title: "Photosynthesis in a Houseplant",
		body: "Place a healthy houseplant near a sunny window and another identical plant in a dark closet. " +
			"After two weeks the plant in the window remains green and firm while the plant in the closet " +
			"yellows and wilts. The difference shows the plant's dependence on light energy for making food.",
	},
	{
		topic: "Fractions",
		typ:   content.TypeExplanation,
		title: "Understanding Fractions",
		body: "A fraction represents a part of a whole. The number above the line is the numerator and counts " +
			"the parts taken. The number below the line is the denominator and tells how many equal parts the " +
			"whole is divided into. Two fractions are equivalent when they describe the same portion of the whole.\n\n" +
			"To add fractions with the same denominator, add the numerators and keep the denominator. " +
			"Fractions with different denominators must first be rewritten over a common denominator.",
	},
	{
		topic: "Fractions",
		typ:   content.TypePractice,
		title: "Fraction Addition Drill",
		body: "Practice adding fractions with unlike denominators. Start with halves and quarters, then move " +
			"to thirds and sixths. Rewrite each pair over the least common denominator before adding.",
	},
}

func seedCatalog(store *storage.Store) (int, error) {
	now := time.Now().UTC()

	subjects := map[string]string{}
	for _, name := range []string{"Science", "Mathematics"} {
		id := uuid.New().String()
		if err := store.CreateSubject(storage.Subject{
			ID:        id,
			Name:      name,
			Source:    "seed",
			CreatedAt: now,
			UpdatedAt: now,
		}); err != nil {
			return 0, fmt.Errorf("creating subject %s: %w", name, err)
		}
		subjects[name] = id
	}

	topics := map[string]string{}
	for name, subject := range map[string]string{
		"Photosynthesis": "Science",
		"Fractions":      "Mathematics",
	} {
		id := uuid.New().String()
		if err := store.CreateTopic(storage.Topic{
			ID:        id,
			SubjectID: subjects[subject],
			Name:      name,
			Source:    "seed",
			CreatedAt: now,
			UpdatedAt: now,
		}); err != nil {
			return 0, fmt.Errorf("creating topic %s: %w", name, err)
		}
		topics[name] = id
	}

	for _, sc := range seedContents {
		body := sc.body
		rec := content.Record{
			ID:          uuid.New().String(),
			TopicID:     topics[sc.topic],
			Type:        sc.typ,
			Title:       sc.title,
			Body:        body,
			Source:      "seed",
			KeyTerms:    content.KeyTerms(body),
			Readability: content.Readability(body),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		rec.Difficulty = content.DifficultyScore(rec.Readability, "")
		if err := store.CreateContent(rec); err != nil {
			return 0, fmt.Errorf("creating content %q: %w", sc.title, err)
		}
	}

	return len(seedContents), nil
}
