package repositories

import (
	"codequest/internal/models"
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type SubmissionRepository interface {
	CreateSubmission(ctx context.Context, submission *models.Submission) error
	GetSubmissionByID(ctx context.Context, submissionID, userID int) (*models.Submission, error)
	GetSubmissionsByUserAndChallenge(ctx context.Context, userID, challengeID int) ([]models.SubmissionListItem, error)
}

type submissionRepository struct {
	db *sqlx.DB
}

func NewSubmissionRepository(db *sqlx.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

// CreateSubmission persists the submission together with its graded test
// results in one transaction. Submissions are append-only: a new grading
// attempt is always a new record.
func (r *submissionRepository) CreateSubmission(ctx context.Context, submission *models.Submission) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO submissions (user_id, challenge_id, language, source_code, status)
              VALUES (?, ?, ?, ?, ?)`

	result, err := tx.ExecContext(ctx, query,
		submission.UserID,
		submission.ChallengeID,
		submission.Language,
		submission.SourceCode,
		submission.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	submission.ID = int(id)

	resultQuery := `INSERT INTO submission_results
              (submission_id, position, input, expected_output, actual_output, status, passed, error)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	for i := range submission.TestResults {
		tr := &submission.TestResults[i]
		tr.SubmissionID = submission.ID
		if _, err := tx.ExecContext(ctx, resultQuery,
			tr.SubmissionID, tr.Position, tr.Input, tr.ExpectedOutput,
			tr.ActualOutput, tr.Status, tr.Passed, tr.Error,
		); err != nil {
			return fmt.Errorf("failed to store test result %d: %w", tr.Position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit submission: %w", err)
	}

	return nil
}

func (r *submissionRepository) GetSubmissionByID(ctx context.Context, submissionID, userID int) (*models.Submission, error) {
	query := `SELECT id, user_id, challenge_id, language, source_code, status, submitted_at
              FROM submissions WHERE id = ? AND user_id = ?`

	var submission models.Submission
	err := r.db.GetContext(ctx, &submission, query, submissionID, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("submission not found or access denied: %d", submissionID)
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	resultsQuery := `SELECT id, submission_id, position, input, expected_output, actual_output, status, passed, error
              FROM submission_results WHERE submission_id = ? ORDER BY position`

	if err := r.db.SelectContext(ctx, &submission.TestResults, resultsQuery, submissionID); err != nil {
		return nil, fmt.Errorf("failed to get test results: %w", err)
	}

	return &submission, nil
}

func (r *submissionRepository) GetSubmissionsByUserAndChallenge(ctx context.Context, userID, challengeID int) ([]models.SubmissionListItem, error) {
	query := `SELECT id, language, status, submitted_at
              FROM submissions
              WHERE user_id = ? AND challenge_id = ?
              ORDER BY submitted_at DESC`

	var submissions []models.SubmissionListItem
	if err := r.db.SelectContext(ctx, &submissions, query, userID, challengeID); err != nil {
		return nil, fmt.Errorf("failed to get user submissions: %w", err)
	}

	return submissions, nil
}
