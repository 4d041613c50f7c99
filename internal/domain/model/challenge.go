package model

import "time"

type Difficulty struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Language is static reference data.
type Language struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

type Challenge struct {
	ID               int       `json:"id"`
	Title            string    `json:"title"`
	Slug             string    `json:"slug"`
	Description      string    `json:"description"`
	PublishedAt      time.Time `json:"published_at"`
	TimeLimitSeconds *int      `json:"time_limit_seconds,omitempty"`
	DifficultyID     int       `json:"-"`
	DifficultyName   string    `json:"difficulty"`
}

// ChallengeSummary is the listing projection, joined with the difficulty
// name.
type ChallengeSummary struct {
	ID             int       `json:"id"`
	Title          string    `json:"title"`
	Slug           string    `json:"slug"`
	PublishedAt    time.Time `json:"published_at"`
	DifficultyName string    `json:"difficulty"`
}

type TestCase struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
	IsPublic       bool   `json:"is_public"`
}

// ChallengeDetail aggregates the challenge row with its independent
// one-to-many relations. Tests holds public cases only.
type ChallengeDetail struct {
	Challenge
	Languages []Language `json:"allowed_languages"`
	Tests     []TestCase `json:"public_tests"`
}
