package personalize

import "math"

// Default preference values assigned at registration.
const (
	defaultKnowledgeLevel = 5.0
	defaultPreferExplain  = 0.6
	defaultPreferExample  = 0.3
	defaultPreferResource = 0.1
	defaultPreferLength   = 0.5
)

// Preferences is a user's stored learning preferences. The three type
// preferences are kept normalized to sum to 1.
type Preferences struct {
	KnowledgeLevel     float64 `json:"knowledge_level"`
	PreferExplanations float64 `json:"prefer_explanations"`
	PreferExamples     float64 `json:"prefer_examples"`
	PreferResources    float64 `json:"prefer_resources"`
	PreferLength       float64 `json:"prefer_length"`
}

// DefaultPreferences returns the preference set assigned to new users.
func DefaultPreferences() Preferences {
	return Preferences{
		KnowledgeLevel:     defaultKnowledgeLevel,
		PreferExplanations: defaultPreferExplain,
		PreferExamples:     defaultPreferExample,
		PreferResources:    defaultPreferResource,
		PreferLength:       defaultPreferLength,
	}
}

// IsZero reports whether the preferences were never initialized.
func (p Preferences) IsZero() bool {
	return p == Preferences{}
}

// Vector embeds the preferences into the content feature space. Slot 4 holds
// the inverse of the knowledge level: lower knowledge steers the profile
// toward easier, higher-readability content.
func (p Preferences) Vector() Vector {
	if p.IsZero() {
		p = DefaultPreferences()
	}
	return Vector{
		p.KnowledgeLevel / 10,
		p.PreferExplanations,
		p.PreferExamples,
		p.PreferResources,
		1 - p.KnowledgeLevel/10,
		p.PreferLength,
	}
}

// Interaction describes a single user interaction with a piece of content.
type Interaction struct {
	ContentType       string  `json:"content_type"`
	Rating            int     `json:"rating"`             // 1-5; zero means unrated and is treated as 3
	TimeSpentSeconds  float64 `json:"time_spent"`         // seconds
	ContentDifficulty float64 `json:"content_difficulty"` // 1-10; zero falls back to 5
	ContentLength     int     `json:"content_length"`     // characters
}

// Reading-speed thresholds in seconds per character. Above thorough the user
// read carefully; below skim they bounced through.
const (
	thoroughSecondsPerChar = 0.1
	skimSecondsPerChar     = 0.02
)

// ApplyInteraction returns the preferences after folding in one interaction.
// The steps run in order and the order matters: the matching type preference
// is nudged by (rating-3)*0.05 and clamped to [0,1], then the three type
// preferences are renormalized to sum to 1, then the knowledge level shifts
// by 0.2 when a high rating met hard content (or a low rating met easy
// content), then the length preference shifts by 0.05 from reading speed.
func (p Preferences) ApplyInteraction(ix Interaction) Preferences {
	if p.IsZero() {
		p = DefaultPreferences()
	}

	rating := ix.Rating
	if rating == 0 {
		rating = 3
	}
	delta := float64(rating-3) * 0.05

	switch ix.ContentType {
	case "explanation":
		p.PreferExplanations = clamp01(p.PreferExplanations + delta)
	case "example":
		p.PreferExamples = clamp01(p.PreferExamples + delta)
	case "resource":
		p.PreferResources = clamp01(p.PreferResources + delta)
	}

	// Renormalize type preferences; a zero sum is left alone.
	if total := p.PreferExplanations + p.PreferExamples + p.PreferResources; total > 0 {
		p.PreferExplanations /= total
		p.PreferExamples /= total
		p.PreferResources /= total
	}

	difficulty := ix.ContentDifficulty
	if difficulty == 0 {
		difficulty = defaultKnowledgeLevel
	}
	switch {
	case rating >= 4 && difficulty > p.KnowledgeLevel:
		// Understood content above their level.
		p.KnowledgeLevel = math.Min(10, p.KnowledgeLevel+0.2)
	case rating <= 2 && difficulty <= p.KnowledgeLevel:
		// Struggled with content at or below their level.
		p.KnowledgeLevel = math.Max(1, p.KnowledgeLevel-0.2)
	}

	if ix.ContentLength > 0 && ix.TimeSpentSeconds > 0 {
		perChar := ix.TimeSpentSeconds / float64(ix.ContentLength)
		switch {
		case perChar > thoroughSecondsPerChar:
			p.PreferLength = math.Max(0, p.PreferLength-0.05)
		case perChar < skimSecondsPerChar:
			p.PreferLength = math.Min(1, p.PreferLength+0.05)
		}
	}

	return p
}
