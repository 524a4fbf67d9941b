package ranking_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"codequest/internal/logger"
	"codequest/internal/models"
	"codequest/internal/ranking"
)

func TestMain(m *testing.M) {
	logger.InitLogger()
	os.Exit(m.Run())
}

type fakeRepo struct {
	mu       sync.Mutex
	rankings map[int]*models.StudentRanking
	solved   map[[2]int]bool
	activity map[int]map[string]int
	order    []int // insertion order for ListRankings
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		rankings: map[int]*models.StudentRanking{},
		solved:   map[[2]int]bool{},
		activity: map[int]map[string]int{},
	}
}

func (f *fakeRepo) GetRanking(_ context.Context, userID int) (*models.StudentRanking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rankings[userID]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRepo) SaveRanking(_ context.Context, r *models.StudentRanking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rankings[r.UserID]; !ok {
		f.order = append(f.order, r.UserID)
	}
	cp := *r
	f.rankings[r.UserID] = &cp
	return nil
}

func (f *fakeRepo) HasSolved(_ context.Context, userID, challengeID int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.solved[[2]int{userID, challengeID}], nil
}

func (f *fakeRepo) MarkSolved(_ context.Context, userID, challengeID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.solved[[2]int{userID, challengeID}] = true
	return nil
}

func (f *fakeRepo) ListRankings(_ context.Context) ([]models.StudentRanking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.StudentRanking, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, *f.rankings[id])
	}
	return out, nil
}

func (f *fakeRepo) UpdateRank(_ context.Context, userID, rank int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rankings[userID].RankPosition = rank
	return nil
}

func (f *fakeRepo) IncrementActivity(_ context.Context, userID int, day string, count int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.activity[userID] == nil {
		f.activity[userID] = map[string]int{}
	}
	f.activity[userID][day] += count
	return nil
}

type fakeNotifier struct {
	mu    sync.Mutex
	count int
}

func (f *fakeNotifier) NotifyRecompute(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count++
	return nil
}

func (f *fakeNotifier) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.count
}

func easy(id int) *models.Challenge {
	return &models.Challenge{ID: id, Difficulty: models.DifficultyEasy}
}

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestAwardFirstSolveScoresByDifficulty(t *testing.T) {
	t.Parallel()
	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	eng := ranking.NewEngine(repo, notifier)
	ctx := context.Background()

	cases := []struct {
		difficulty string
		points     int
	}{
		{models.DifficultyEasy, 1},
		{models.DifficultyMedium, 3},
		{models.DifficultyHard, 5},
	}

	total := 0
	for i, tc := range cases {
		total += tc.points
		r, err := eng.Award(ctx, 7, &models.Challenge{ID: i + 1, Difficulty: tc.difficulty}, day("2024-05-01"))
		if err != nil {
			t.Fatalf("award failed: %v", err)
		}
		if r.Score != total {
			t.Fatalf("after %s solve: score %d, want %d", tc.difficulty, r.Score, total)
		}
	}

	r, _ := repo.GetRanking(ctx, 7)
	if r.TotalSolved != 3 || r.EasySolved != 1 || r.MediumSolved != 1 || r.HardSolved != 1 {
		t.Fatalf("unexpected counters: %+v", r)
	}
	if notifier.calls() != 3 {
		t.Fatalf("each scoring event must queue a recompute, got %d", notifier.calls())
	}
}

func TestAwardResolveIsIdempotentForScore(t *testing.T) {
	t.Parallel()
	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	eng := ranking.NewEngine(repo, notifier)
	ctx := context.Background()

	if _, err := eng.Award(ctx, 1, easy(42), day("2024-05-01")); err != nil {
		t.Fatalf("award failed: %v", err)
	}
	r, err := eng.Award(ctx, 1, easy(42), day("2024-05-01"))
	if err != nil {
		t.Fatalf("re-award failed: %v", err)
	}

	if r.Score != 1 || r.TotalSolved != 1 || r.EasySolved != 1 {
		t.Fatalf("re-solve must not re-award: %+v", r)
	}
	if notifier.calls() != 1 {
		t.Fatalf("re-solve must not queue a recompute, got %d", notifier.calls())
	}
	// Same-day re-activity still lands in the histogram.
	if repo.activity[1]["2024-05-01"] != 2 {
		t.Fatalf("histogram must count every solve, got %d", repo.activity[1]["2024-05-01"])
	}
}

func TestAwardAdvancesStreakAcrossDays(t *testing.T) {
	t.Parallel()
	repo := newFakeRepo()
	eng := ranking.NewEngine(repo, &fakeNotifier{})
	ctx := context.Background()

	eng.Award(ctx, 3, easy(1), day("2024-01-01"))
	r, _ := eng.Award(ctx, 3, easy(2), day("2024-01-02"))
	if r.Streak != 2 {
		t.Fatalf("consecutive days: streak %d, want 2", r.Streak)
	}

	// Gap of one missed day resets.
	r, _ = eng.Award(ctx, 3, easy(3), day("2024-01-04"))
	if r.Streak != 1 || r.LongestStreak != 2 {
		t.Fatalf("gap reset: streak %d longest %d", r.Streak, r.LongestStreak)
	}
}

func TestRecordActivityAdvancesStreakWithoutScoring(t *testing.T) {
	t.Parallel()
	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	eng := ranking.NewEngine(repo, notifier)
	ctx := context.Background()

	eng.Award(ctx, 5, easy(1), day("2024-03-01"))
	r, err := eng.RecordActivity(ctx, 5, day("2024-03-02"), 1)
	if err != nil {
		t.Fatalf("record activity failed: %v", err)
	}

	if r.Streak != 2 {
		t.Fatalf("activity must extend the streak, got %d", r.Streak)
	}
	if r.Score != 1 || r.TotalSolved != 1 {
		t.Fatalf("activity must not score: %+v", r)
	}
	if notifier.calls() != 1 {
		t.Fatalf("activity must not queue a recompute, got %d", notifier.calls())
	}
	if repo.activity[5]["2024-03-02"] != 1 {
		t.Fatalf("activity day missing from histogram: %v", repo.activity[5])
	}
}

func TestRecomputeRanksOrdering(t *testing.T) {
	t.Parallel()
	repo := newFakeRepo()
	eng := ranking.NewEngine(repo, &fakeNotifier{})
	ctx := context.Background()

	seed := []models.StudentRanking{
		{UserID: 1, Score: 5, TotalSolved: 1},
		{UserID: 2, Score: 9, TotalSolved: 3},
		{UserID: 3, Score: 5, TotalSolved: 2},
		{UserID: 4, Score: 5, TotalSolved: 2}, // full tie with user 3
	}
	for i := range seed {
		repo.SaveRanking(ctx, &seed[i])
	}

	if err := eng.RecomputeRanks(ctx); err != nil {
		t.Fatalf("recompute failed: %v", err)
	}

	ordered, _ := repo.ListRankings(ctx)
	byRank := make([]models.StudentRanking, len(ordered))
	for _, r := range ordered {
		byRank[r.RankPosition-1] = r
	}

	for i := 0; i < len(byRank)-1; i++ {
		a, b := byRank[i], byRank[i+1]
		if a.Score < b.Score || (a.Score == b.Score && a.TotalSolved < b.TotalSolved) {
			t.Fatalf("rank order violated at %d: %+v before %+v", i+1, a, b)
		}
	}
	if byRank[0].UserID != 2 {
		t.Fatalf("highest score must rank first, got user %d", byRank[0].UserID)
	}
	// Full ties keep stored iteration order (stable sort).
	if byRank[1].UserID != 3 || byRank[2].UserID != 4 {
		t.Fatalf("tied users must keep stored order, got %d then %d", byRank[1].UserID, byRank[2].UserID)
	}
}

func TestAwardConcurrentSameUserDoesNotLoseUpdates(t *testing.T) {
	t.Parallel()
	repo := newFakeRepo()
	eng := ranking.NewEngine(repo, &fakeNotifier{})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(challengeID int) {
			defer wg.Done()
			if _, err := eng.Award(ctx, 9, easy(challengeID), day("2024-05-01")); err != nil {
				t.Errorf("award failed: %v", err)
			}
		}(i + 1)
	}
	wg.Wait()

	r, _ := repo.GetRanking(ctx, 9)
	if r.Score != 20 || r.TotalSolved != 20 {
		t.Fatalf("lost updates: %+v", r)
	}
}
