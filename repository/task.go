package repository

import (
	"context"
	"time"

	"github.com/socialguillotine/backend/domain"
)

// TaskFilter narrows List results. ActiveOnly excludes completed tasks.
type TaskFilter struct {
	UserID     string
	ActiveOnly bool
	Limit      int
	Offset     int
}

type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)

	// Complete marks the task completed at the given instant. The check that
	// decides the praise path runs against the state before this mutation, so
	// the returned task carries the pre-completion punished flag and deadline.
	Complete(ctx context.Context, id, userID string, at time.Time) (*domain.Task, error)

	// ClaimOverdue atomically marks every task whose deadline lies before now
	// (and that is neither punished nor completed) as punished with a pending
	// popup, and returns the claimed tasks. A task is returned by exactly one
	// call ever, regardless of concurrent claims.
	ClaimOverdue(ctx context.Context, now time.Time) ([]domain.Task, error)

	// ClaimPopups atomically clears and returns the pending popups for a user.
	// Two racing calls never both receive the same task.
	ClaimPopups(ctx context.Context, userID string) ([]domain.Punishment, error)

	// CountByUser returns total, completed and punished task counts.
	CountByUser(ctx context.Context, userID string) (total, completed, punished int, err error)
}
