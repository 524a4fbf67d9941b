package repositories

import (
	"codequest/internal/logger"
	"codequest/internal/models"
	"codequest/internal/services"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrChallengeNotFound = errors.New("challenge not found")

type ChallengeRepository interface {
	ListChallenges(ctx context.Context) ([]models.ChallengeListItem, error)
	GetChallenge(ctx context.Context, challengeID int) (*models.Challenge, error)
	GetChallengeDetail(ctx context.Context, challengeID int) (*models.ChallengeDetail, error)
	GetSolvedChallengeIDs(ctx context.Context, userID int) (map[int]bool, error)
}

type challengeRepository struct {
	db    *sqlx.DB
	cache services.Cache
}

func NewChallengeRepository(db *sqlx.DB, cache services.Cache) ChallengeRepository {
	return &challengeRepository{db: db, cache: cache}
}

func (r *challengeRepository) ListChallenges(ctx context.Context) ([]models.ChallengeListItem, error) {
	query := `SELECT id, title, difficulty FROM challenges`

	var challenges []models.ChallengeListItem
	if err := r.db.SelectContext(ctx, &challenges, query); err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}

	return challenges, nil
}

// GetChallenge loads a challenge with its test cases in stored order.
// Challenges are read-only to the judging pipeline, so the test cases are
// served cache-aside.
func (r *challengeRepository) GetChallenge(ctx context.Context, challengeID int) (*models.Challenge, error) {
	query := `SELECT id, title, difficulty, origin, created_at FROM challenges WHERE id = ?`

	var challenge models.Challenge
	if err := r.db.GetContext(ctx, &challenge, query, challengeID); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %d", ErrChallengeNotFound, challengeID)
		}
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}

	testCases, err := r.getTestCases(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	challenge.TestCases = testCases

	return &challenge, nil
}

func (r *challengeRepository) getTestCases(ctx context.Context, challengeID int) ([]models.TestCase, error) {
	cacheKey := fmt.Sprintf("challenge:%d:testcases", challengeID)

	var testCases []models.TestCase
	if err := r.cache.Get(ctx, cacheKey, &testCases); err == nil {
		return testCases, nil // Cache hit
	}
	logger.Log.Info("Test cases not in cache, retrieving from DB")

	query := `SELECT id, challenge_id, position, input, expected_output
              FROM test_cases WHERE challenge_id = ? ORDER BY position`

	if err := r.db.SelectContext(ctx, &testCases, query, challengeID); err != nil {
		return nil, fmt.Errorf("failed to get test cases: %w", err)
	}

	_ = r.cache.Set(ctx, cacheKey, testCases, 1*time.Hour)

	return testCases, nil
}

func (r *challengeRepository) GetChallengeDetail(ctx context.Context, challengeID int) (*models.ChallengeDetail, error) {
	query := `SELECT id, title, difficulty, origin FROM challenges WHERE id = ?`

	var detail models.ChallengeDetail
	if err := r.db.GetContext(ctx, &detail, query, challengeID); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %d", ErrChallengeNotFound, challengeID)
		}
		return nil, fmt.Errorf("failed to get challenge detail: %w", err)
	}

	snippetQuery := `SELECT language, starter_code FROM challenge_snippets WHERE challenge_id = ?`

	var rows []struct {
		Language    string `db:"language"`
		StarterCode string `db:"starter_code"`
	}
	if err := r.db.SelectContext(ctx, &rows, snippetQuery, challengeID); err != nil {
		return nil, fmt.Errorf("failed to get starter code: %w", err)
	}

	detail.StarterCode = make(map[string]string, len(rows))
	for _, row := range rows {
		detail.StarterCode[row.Language] = row.StarterCode
	}

	return &detail, nil
}

func (r *challengeRepository) GetSolvedChallengeIDs(ctx context.Context, userID int) (map[int]bool, error) {
	query := `SELECT challenge_id FROM solved_challenges WHERE user_id = ?`

	var challengeIDs []int
	if err := r.db.SelectContext(ctx, &challengeIDs, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get solved challenge IDs: %w", err)
	}

	solvedMap := make(map[int]bool, len(challengeIDs))
	for _, id := range challengeIDs {
		solvedMap[id] = true
	}

	return solvedMap, nil
}
