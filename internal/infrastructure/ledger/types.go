package ledger

import "time"

// Event is one executed punishment, recorded after the task store commit so
// the history survives restarts independently of popup delivery.
type Event struct {
	TaskID      string    `json:"task_id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	PenaltyText string    `json:"penalty_text"`
	FiredAt     time.Time `json:"fired_at"`
	Delivered   bool      `json:"delivered"`
}
