package ranking

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"codequest/internal/logger"
	"codequest/internal/models"
	"codequest/internal/streak"

	"go.uber.org/zap"
)

// Repository is the slice of the ranking store the engine needs.
type Repository interface {
	GetRanking(ctx context.Context, userID int) (*models.StudentRanking, error)
	SaveRanking(ctx context.Context, r *models.StudentRanking) error
	HasSolved(ctx context.Context, userID, challengeID int) (bool, error)
	MarkSolved(ctx context.Context, userID, challengeID int) error
	ListRankings(ctx context.Context) ([]models.StudentRanking, error)
	UpdateRank(ctx context.Context, userID, rank int) error
	IncrementActivity(ctx context.Context, userID int, day string, count int) error
}

// Notifier signals that ranks need recomputing. The consumer side must be a
// single writer so concurrent recomputes cannot interleave.
type Notifier interface {
	NotifyRecompute(ctx context.Context) error
}

// Engine owns every mutation of StudentRanking records. Per-user updates are
// serialized through a keyed mutex so concurrent solves by the same student
// cannot lose updates.
type Engine struct {
	repo     Repository
	notifier Notifier
	locks    sync.Map // userID -> *sync.Mutex
}

func NewEngine(repo Repository, notifier Notifier) *Engine {
	return &Engine{repo: repo, notifier: notifier}
}

func scoreFor(difficulty string) int {
	switch difficulty {
	case models.DifficultyMedium:
		return 3
	case models.DifficultyHard:
		return 5
	default:
		return 1
	}
}

func (e *Engine) userLock(userID int) *sync.Mutex {
	v, _ := e.locks.LoadOrStore(userID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// Award records one fully solved submission. Score and the per-difficulty
// counters move only on the first solve of a challenge; the streak and
// activity histogram advance on every qualifying solve. A recompute is
// queued only when the score actually changed.
func (e *Engine) Award(ctx context.Context, userID int, challenge *models.Challenge, now time.Time) (*models.StudentRanking, error) {
	mu := e.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	r, err := e.repo.GetRanking(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ranking: %w", err)
	}
	if r == nil {
		r = &models.StudentRanking{UserID: userID}
	}

	alreadySolved, err := e.repo.HasSolved(ctx, userID, challenge.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check solved set: %w", err)
	}

	if !alreadySolved {
		r.Score += scoreFor(challenge.Difficulty)
		r.TotalSolved++
		switch challenge.Difficulty {
		case models.DifficultyEasy:
			r.EasySolved++
		case models.DifficultyMedium:
			r.MediumSolved++
		case models.DifficultyHard:
			r.HardSolved++
		}
		if err := e.repo.MarkSolved(ctx, userID, challenge.ID); err != nil {
			return nil, fmt.Errorf("failed to mark challenge solved: %w", err)
		}
	}

	st, delta := streak.Advance(streak.State{
		Streak:        r.Streak,
		LongestStreak: r.LongestStreak,
		LastUpdated:   r.LastSolvedDate,
	}, now, 1)
	r.Streak = st.Streak
	r.LongestStreak = st.LongestStreak
	r.LastSolvedDate = st.LastUpdated

	if err := e.repo.SaveRanking(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to save ranking: %w", err)
	}
	if err := e.repo.IncrementActivity(ctx, userID, delta.Day, delta.Increment); err != nil {
		return nil, fmt.Errorf("failed to record activity: %w", err)
	}

	if !alreadySolved {
		if err := e.notifier.NotifyRecompute(ctx); err != nil {
			// Ranks catch up on the next scoring event.
			logger.Log.Warn("Failed to queue rank recompute",
				zap.Int("user_id", userID),
				zap.Error(err))
		}
	}

	return r, nil
}

// RecordActivity applies a qualifying non-scoring activity (learning
// activity, project contribution) to the student's streak and histogram.
// Every subsystem that records activity goes through the engine; none keep
// their own streak arithmetic.
func (e *Engine) RecordActivity(ctx context.Context, userID int, now time.Time, increment int) (*models.StudentRanking, error) {
	mu := e.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	r, err := e.repo.GetRanking(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ranking: %w", err)
	}
	if r == nil {
		r = &models.StudentRanking{UserID: userID}
	}

	st, delta := streak.Advance(streak.State{
		Streak:        r.Streak,
		LongestStreak: r.LongestStreak,
		LastUpdated:   r.LastSolvedDate,
	}, now, increment)
	r.Streak = st.Streak
	r.LongestStreak = st.LongestStreak
	r.LastSolvedDate = st.LastUpdated

	if err := e.repo.SaveRanking(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to save ranking: %w", err)
	}
	if err := e.repo.IncrementActivity(ctx, userID, delta.Day, delta.Increment); err != nil {
		return nil, fmt.Errorf("failed to record activity: %w", err)
	}

	return r, nil
}

// RecomputeRanks reassigns 1-based ranks over all students ordered by
// (score desc, totalSolved desc). Students equal on both keys keep their
// stored iteration order; a secondary tie-break is an open product decision.
// Must only run on the single recompute consumer.
func (e *Engine) RecomputeRanks(ctx context.Context) error {
	rankings, err := e.repo.ListRankings(ctx)
	if err != nil {
		return fmt.Errorf("failed to list rankings: %w", err)
	}

	sort.SliceStable(rankings, func(i, j int) bool {
		if rankings[i].Score != rankings[j].Score {
			return rankings[i].Score > rankings[j].Score
		}
		return rankings[i].TotalSolved > rankings[j].TotalSolved
	})

	for i := range rankings {
		rank := i + 1
		if rankings[i].RankPosition == rank {
			continue
		}
		if err := e.repo.UpdateRank(ctx, rankings[i].UserID, rank); err != nil {
			return fmt.Errorf("failed to update rank for user %d: %w", rankings[i].UserID, err)
		}
	}

	return nil
}
