package task

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/socialguillotine/backend/domain"
	"github.com/socialguillotine/backend/repository"
	"github.com/socialguillotine/backend/usecase/praise"
	"github.com/socialguillotine/backend/usecase/stats"
)

type UseCase struct {
	tasks  repository.TaskRepository
	praise *praise.Service
	stats  *stats.Service
	logger *zap.Logger
	now    func() time.Time
}

func New(tasks repository.TaskRepository, praiseSvc *praise.Service, statsSvc *stats.Service, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		praise: praiseSvc,
		stats:  statsSvc,
		logger: logger,
		now:    time.Now,
	}
}

func (uc *UseCase) ListTasks(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	return uc.tasks.List(ctx, filter)
}

func (uc *UseCase) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	return uc.tasks.GetByID(ctx, id)
}

// CreateTask stores a new commitment. Deadline is optional; a nil deadline
// means the task can never be punished.
func (uc *UseCase) CreateTask(ctx context.Context, userID, title string, deadline *time.Time, penaltyText string) (*domain.Task, error) {
	title = strings.TrimSpace(title)
	if userID == "" || title == "" {
		return nil, domain.ErrInvalidPayload
	}

	created, err := uc.tasks.Create(ctx, &domain.Task{
		UserID:      userID,
		Title:       title,
		Deadline:    deadline,
		PenaltyText: strings.TrimSpace(penaltyText),
	})
	if err != nil {
		return nil, err
	}

	uc.recompute(ctx, userID, stats.EventCreated)
	return created, nil
}

// CompleteTask marks the task done and runs the praise path. Praise is only
// produced under the strict rule: the deadline must still be ahead and the
// task must not have been punished, even if the deadline has not passed yet.
func (uc *UseCase) CompleteTask(ctx context.Context, userID, id string) (*domain.Task, *praise.Praise, error) {
	now := uc.now()

	// Complete leaves is_punished and deadline untouched, so the returned row
	// still reflects the state the eligibility rule needs.
	completed, err := uc.tasks.Complete(ctx, id, userID, now)
	if err != nil {
		return nil, nil, err
	}

	early := completed.Deadline != nil && completed.Deadline.After(now) && !completed.IsPunished

	var msg *praise.Praise
	if early && uc.praise != nil {
		p := uc.praise.ForTask(ctx, completed.Title)
		msg = &p
	}

	// Streaks only grow on early completion; a late completion still refreshes
	// the counters.
	event := stats.EventCreated
	if early {
		event = stats.EventCompleted
	}
	uc.recompute(ctx, userID, event)

	return completed, msg, nil
}

// Popups atomically drains the user's pending punishment popups.
func (uc *UseCase) Popups(ctx context.Context, userID string) ([]domain.Punishment, error) {
	return uc.tasks.ClaimPopups(ctx, userID)
}

// recompute refreshes aggregates best-effort: a failed recount must not fail
// the task mutation that triggered it, the next mutation repairs the counters.
func (uc *UseCase) recompute(ctx context.Context, userID string, event stats.Event) {
	if uc.stats == nil {
		return
	}
	if _, _, err := uc.stats.Recompute(ctx, userID, event); err != nil {
		uc.logger.Error("stats recompute failed", zap.String("user_id", userID), zap.Error(err))
	}
}
