package models

import (
	"errors"
	"strings"
	"time"
)

const (
	StatusAttempted = "ATTEMPTED"
	StatusSolved    = "SOLVED"
	StatusFailed    = "FAILED"
)

type Submission struct {
	ID          int          `db:"id" json:"id"`
	UserID      int          `db:"user_id" json:"user_id"`
	ChallengeID int          `db:"challenge_id" json:"challenge_id"`
	Language    string       `db:"language" json:"language"`
	SourceCode  string       `db:"source_code" json:"source_code"`
	Status      string       `db:"status" json:"status"`
	SubmittedAt time.Time    `db:"submitted_at" json:"submitted_at"`
	TestResults []TestResult `db:"-" json:"test_results,omitempty"`
}

// TestResult is the graded outcome of one test case. ActualOutput is nil
// only when the executor itself errored, never for a wrong answer.
type TestResult struct {
	ID             int     `db:"id" json:"-"`
	SubmissionID   int     `db:"submission_id" json:"-"`
	Position       int     `db:"position" json:"position"`
	Input          string  `db:"input" json:"input"`
	ExpectedOutput string  `db:"expected_output" json:"expected_output"`
	ActualOutput   *string `db:"actual_output" json:"actual_output"`
	Status         string  `db:"status" json:"status"`
	Passed         bool    `db:"passed" json:"passed"`
	Error          *string `db:"error" json:"error,omitempty"`
}

type SubmissionRequest struct {
	Language   string `json:"language" binding:"required"`
	SourceCode string `json:"source_code" binding:"required"`
}

type SubmissionResponse struct {
	SubmissionID   int          `json:"submission_id"`
	Status         string       `json:"status"`
	TestResults    []TestResult `json:"test_results"`
	AllTestsPassed bool         `json:"all_tests_passed"`
}

type SubmissionListItem struct {
	ID          int       `db:"id" json:"id"`
	Language    string    `db:"language" json:"language"`
	Status      string    `db:"status" json:"status"`
	SubmittedAt time.Time `db:"submitted_at" json:"submitted_at"`
	// Derived field filled in by the handler
	FormattedTime string `db:"-" json:"submitted_time"`
}

func (r *SubmissionRequest) ValidateRequest() error {
	if strings.TrimSpace(r.Language) == "" {
		return errors.New("language cannot be empty")
	}

	if strings.TrimSpace(r.SourceCode) == "" {
		return errors.New("source code cannot be empty")
	}

	return nil
}
