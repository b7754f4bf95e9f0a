package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/socialguillotine/backend/domain"
	"github.com/socialguillotine/backend/repository"
)

type taskRepository struct {
	db *DB
}

// NewTaskRepository returns an in-memory implementation of TaskRepository.
func NewTaskRepository(db *DB) repository.TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	task, ok := r.db.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	cp := *task
	return &cp, nil
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var tasks []domain.Task
	for _, task := range r.db.tasks {
		if filter.UserID != "" && task.UserID != filter.UserID {
			continue
		}
		if filter.ActiveOnly && task.IsCompleted {
			continue
		}
		tasks = append(tasks, *task)
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(tasks) {
			return nil, nil
		}
		tasks = tasks[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(tasks) {
		tasks = tasks[:filter.Limit]
	}
	return tasks, nil
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	cp := *task
	r.db.tasks[task.ID] = &cp
	return task, nil
}

func (r *taskRepository) Complete(ctx context.Context, id, userID string, at time.Time) (*domain.Task, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	task, ok := r.db.tasks[id]
	if !ok || task.UserID != userID || task.IsCompleted {
		return nil, domain.ErrTaskNotFound
	}
	task.IsCompleted = true
	task.NeedsPopup = false
	task.CompletedAt = &at

	cp := *task
	return &cp, nil
}

func (r *taskRepository) ClaimOverdue(ctx context.Context, now time.Time) ([]domain.Task, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var claimed []domain.Task
	for _, task := range r.db.tasks {
		if !task.IsOverdue(now) {
			continue
		}
		task.IsPunished = true
		task.NeedsPopup = true
		claimed = append(claimed, *task)
	}
	sort.Slice(claimed, func(i, j int) bool {
		return claimed[i].CreatedAt.Before(claimed[j].CreatedAt)
	})
	return claimed, nil
}

func (r *taskRepository) ClaimPopups(ctx context.Context, userID string) ([]domain.Punishment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	popups := []domain.Punishment{}
	for _, task := range r.db.tasks {
		if task.UserID != userID || !task.NeedsPopup {
			continue
		}
		task.NeedsPopup = false
		popups = append(popups, domain.Punishment{
			Title:       task.Title,
			PenaltyText: task.PenaltyText,
		})
	}
	return popups, nil
}

func (r *taskRepository) CountByUser(ctx context.Context, userID string) (total, completed, punished int, err error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, task := range r.db.tasks {
		if task.UserID != userID {
			continue
		}
		total++
		if task.IsCompleted {
			completed++
		}
		if task.IsPunished {
			punished++
		}
	}
	return total, completed, punished, nil
}
