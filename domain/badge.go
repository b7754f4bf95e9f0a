package domain

import "time"

// Badge records a gamification achievement. At most one badge of a given type
// exists per user; badges are never revoked.
type Badge struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Type       string    `json:"badge_type"`
	Name       string    `json:"badge_name"`
	Icon       string    `json:"badge_icon"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

// Known badge types.
const (
	BadgeStreak7      = "streak_7"
	BadgeCompletion10 = "completion_10"
	BadgePerfect      = "perfect"
)

// BadgeSpec couples a badge type with its unlock condition.
type BadgeSpec struct {
	Type     string
	Name     string
	Icon     string
	Unlocked func(s UserStats) bool
}

// BadgeCatalog lists every badge in unlock-evaluation order.
var BadgeCatalog = []BadgeSpec{
	{
		Type: BadgeStreak7,
		Name: "7-Day Streak",
		Icon: "🔥",
		Unlocked: func(s UserStats) bool {
			return s.CurrentStreak >= 7
		},
	},
	{
		Type: BadgeCompletion10,
		Name: "Ten Done",
		Icon: "✨",
		Unlocked: func(s UserStats) bool {
			return s.CompletedTasks >= 10
		},
	},
	{
		Type: BadgePerfect,
		Name: "Perfectionist",
		Icon: "👑",
		Unlocked: func(s UserStats) bool {
			return s.TotalTasks >= 5 && s.PunishedTasks == 0
		},
	},
}
