package models

import "time"

const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

type TestCase struct {
	ID             int    `db:"id" json:"id"`
	ChallengeID    int    `db:"challenge_id" json:"-"`
	Position       int    `db:"position" json:"position"`
	Input          string `db:"input" json:"input"`
	ExpectedOutput string `db:"expected_output" json:"expected_output"`
}

type Challenge struct {
	ID         int        `db:"id" json:"id"`
	Title      string     `db:"title" json:"title"`
	Difficulty string     `db:"difficulty" json:"difficulty"`
	Origin     string     `db:"origin" json:"origin"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	TestCases  []TestCase `db:"-" json:"test_cases,omitempty"`
}

type ChallengeListItem struct {
	ID         int    `db:"id" json:"id"`
	Title      string `db:"title" json:"title"`
	Difficulty string `db:"difficulty" json:"difficulty"`
	IsSolved   bool   `json:"is_solved"`
}

type ChallengeDetail struct {
	ID          int               `db:"id" json:"id"`
	Title       string            `db:"title" json:"title"`
	Difficulty  string            `db:"difficulty" json:"difficulty"`
	Origin      string            `db:"origin" json:"origin"`
	StarterCode map[string]string `json:"starter_code,omitempty"`
	IsSolved    bool              `json:"is_solved"`
}
