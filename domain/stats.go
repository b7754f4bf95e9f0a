package domain

import "time"

// UserStats aggregates a user's task counters. Counters are recomputed from the
// task store on every mutation rather than maintained incrementally, so they
// can never drift from the tasks they describe.
type UserStats struct {
	UserID         string    `json:"user_id"`
	TotalTasks     int       `json:"total_tasks"`
	CompletedTasks int       `json:"completed_tasks"`
	PunishedTasks  int       `json:"punished_tasks"`
	CurrentStreak  int       `json:"current_streak"`
	MaxStreak      int       `json:"max_streak"`
	LazinessScore  float64   `json:"laziness_score"`
	LastActivity   time.Time `json:"last_activity"`
}

// LazinessScore derives the percentage of punished tasks, 0 when there are no
// tasks and never above 100.
func LazinessScore(punished, total int) float64 {
	if total <= 0 {
		return 0
	}
	score := float64(punished) / float64(total) * 100
	if score > 100 {
		return 100
	}
	return score
}

// RankingEntry is one row of a laziness leaderboard.
type RankingEntry struct {
	UserID        string  `json:"user_id"`
	Username      string  `json:"username"`
	DisplayName   string  `json:"display_name"`
	LazinessScore float64 `json:"laziness_score"`
	CurrentStreak int     `json:"current_streak"`
	PunishedTasks int     `json:"punished_tasks"`
}
