package domain

import "time"

// Task represents a self-declared commitment with an optional deadline and a
// penalty the owner agreed to suffer publicly when the deadline is missed.
type Task struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	PenaltyText string     `json:"penalty_text"`
	IsPunished  bool       `json:"is_punished"`
	IsCompleted bool       `json:"is_completed"`
	NeedsPopup  bool       `json:"needs_popup"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// IsOverdue reports whether the task should be punished at the given instant.
// Tasks without a deadline never expire.
func (t *Task) IsOverdue(now time.Time) bool {
	if t == nil || t.Deadline == nil {
		return false
	}
	return !t.IsPunished && !t.IsCompleted && t.Deadline.Before(now)
}

// PraiseEligible reports whether completing the task at the given instant earns
// a praise message. The rule is strict: a task that was already punished gets
// no praise even when its deadline has not technically passed yet.
func (t *Task) PraiseEligible(now time.Time) bool {
	if t == nil || t.Deadline == nil {
		return false
	}
	return !t.IsPunished && !t.IsCompleted && t.Deadline.After(now)
}

// Punishment is the popup payload delivered to a polling client exactly once
// per punishment occurrence.
type Punishment struct {
	Title       string `json:"title"`
	PenaltyText string `json:"penalty_text"`
}
