package repositories

import (
	"codequest/internal/models"
	"codequest/internal/ranking"
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type RankingRepository interface {
	ranking.Repository
	GetLeaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
	GetActivityHistory(ctx context.Context, userID int) (map[string]int, error)
}

type rankingRepository struct {
	db *sqlx.DB
}

func NewRankingRepository(db *sqlx.DB) RankingRepository {
	return &rankingRepository{db: db}
}

func (r *rankingRepository) GetRanking(ctx context.Context, userID int) (*models.StudentRanking, error) {
	query := `SELECT user_id, total_solved, easy_solved, medium_solved, hard_solved,
                  score, streak, longest_streak, last_solved_date, rank_position
              FROM student_rankings WHERE user_id = ?`

	var r2 models.StudentRanking
	err := r.db.GetContext(ctx, &r2, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			// Rankings are created lazily on first solve.
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ranking: %w", err)
	}

	return &r2, nil
}

func (r *rankingRepository) SaveRanking(ctx context.Context, rk *models.StudentRanking) error {
	query := `INSERT INTO student_rankings
              (user_id, total_solved, easy_solved, medium_solved, hard_solved,
               score, streak, longest_streak, last_solved_date, rank_position)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
              ON DUPLICATE KEY UPDATE
                total_solved = VALUES(total_solved),
                easy_solved = VALUES(easy_solved),
                medium_solved = VALUES(medium_solved),
                hard_solved = VALUES(hard_solved),
                score = VALUES(score),
                streak = VALUES(streak),
                longest_streak = VALUES(longest_streak),
                last_solved_date = VALUES(last_solved_date)`

	_, err := r.db.ExecContext(ctx, query,
		rk.UserID, rk.TotalSolved, rk.EasySolved, rk.MediumSolved, rk.HardSolved,
		rk.Score, rk.Streak, rk.LongestStreak, rk.LastSolvedDate, rk.RankPosition,
	)
	if err != nil {
		return fmt.Errorf("failed to save ranking: %w", err)
	}

	return nil
}

func (r *rankingRepository) HasSolved(ctx context.Context, userID, challengeID int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM solved_challenges WHERE user_id = ? AND challenge_id = ?)`

	var solved bool
	if err := r.db.GetContext(ctx, &solved, query, userID, challengeID); err != nil {
		return false, fmt.Errorf("failed to check solved set: %w", err)
	}

	return solved, nil
}

func (r *rankingRepository) MarkSolved(ctx context.Context, userID, challengeID int) error {
	query := `INSERT IGNORE INTO solved_challenges (user_id, challenge_id) VALUES (?, ?)`

	if _, err := r.db.ExecContext(ctx, query, userID, challengeID); err != nil {
		return fmt.Errorf("failed to mark challenge solved: %w", err)
	}

	return nil
}

func (r *rankingRepository) ListRankings(ctx context.Context) ([]models.StudentRanking, error) {
	query := `SELECT user_id, total_solved, easy_solved, medium_solved, hard_solved,
                  score, streak, longest_streak, last_solved_date, rank_position
              FROM student_rankings ORDER BY score DESC, total_solved DESC, user_id`

	var rankings []models.StudentRanking
	if err := r.db.SelectContext(ctx, &rankings, query); err != nil {
		return nil, fmt.Errorf("failed to list rankings: %w", err)
	}

	return rankings, nil
}

func (r *rankingRepository) UpdateRank(ctx context.Context, userID, rank int) error {
	query := `UPDATE student_rankings SET rank_position = ? WHERE user_id = ?`

	if _, err := r.db.ExecContext(ctx, query, rank, userID); err != nil {
		return fmt.Errorf("failed to update rank: %w", err)
	}

	return nil
}

// IncrementActivity bumps the day bucket of the activity histogram using the
// store's atomic upsert, so concurrent events never lose counts.
func (r *rankingRepository) IncrementActivity(ctx context.Context, userID int, day string, count int) error {
	query := `INSERT INTO activity_history (user_id, day, count) VALUES (?, ?, ?)
              ON DUPLICATE KEY UPDATE count = count + VALUES(count)`

	if _, err := r.db.ExecContext(ctx, query, userID, day, count); err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}

	return nil
}

func (r *rankingRepository) GetLeaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	query := `SELECT sr.rank_position, u.username, sr.score, sr.total_solved
              FROM student_rankings sr
              JOIN users u ON u.id = sr.user_id
              ORDER BY sr.rank_position
              LIMIT ?`

	var entries []models.LeaderboardEntry
	if err := r.db.SelectContext(ctx, &entries, query, limit); err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	return entries, nil
}

func (r *rankingRepository) GetActivityHistory(ctx context.Context, userID int) (map[string]int, error) {
	query := `SELECT day, count FROM activity_history WHERE user_id = ?`

	var rows []struct {
		Day   string `db:"day"`
		Count int    `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get activity history: %w", err)
	}

	history := make(map[string]int, len(rows))
	for _, row := range rows {
		history[row.Day] = row.Count
	}

	return history, nil
}
