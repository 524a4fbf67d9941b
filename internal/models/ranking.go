package models

import "time"

// StudentRanking is the per-student leaderboard record. Score never
// decreases; it is mutated only by the ranking engine.
type StudentRanking struct {
	UserID         int        `db:"user_id" json:"user_id"`
	TotalSolved    int        `db:"total_solved" json:"total_solved"`
	EasySolved     int        `db:"easy_solved" json:"easy_solved"`
	MediumSolved   int        `db:"medium_solved" json:"medium_solved"`
	HardSolved     int        `db:"hard_solved" json:"hard_solved"`
	Score          int        `db:"score" json:"score"`
	Streak         int        `db:"streak" json:"streak"`
	LongestStreak  int        `db:"longest_streak" json:"longest_streak"`
	LastSolvedDate *time.Time `db:"last_solved_date" json:"last_solved_date,omitempty"`
	RankPosition   int        `db:"rank_position" json:"rank"`
}

type LeaderboardEntry struct {
	Rank        int    `db:"rank_position" json:"rank"`
	Username    string `db:"username" json:"username"`
	Score       int    `db:"score" json:"score"`
	TotalSolved int    `db:"total_solved" json:"total_solved"`
}

// ActivitySummary is the day-keyed activity histogram plus the streak
// counters, served for profile heatmaps.
type ActivitySummary struct {
	Streak        int            `json:"streak"`
	LongestStreak int            `json:"longest_streak"`
	History       map[string]int `json:"history"`
}
