package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/socialguillotine/backend/domain"
	"github.com/socialguillotine/backend/repository"
)

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

const taskColumns = `id, user_id, title, deadline, penalty_text, is_punished, is_completed, needs_popup, created_at, completed_at`

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	const query = `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)
	return scanTask(row)
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	// The predicates are built conditionally; comparing a uuid column against
	// a maybe-empty text parameter does not type-check in Postgres.
	query := `SELECT ` + taskColumns + ` FROM tasks`
	var (
		conds []string
		args  []interface{}
	)
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		conds = append(conds, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.ActiveOnly {
		conds = append(conds, "NOT is_completed")
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, clampLimit(filter.Limit))
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO tasks (id, user_id, title, deadline, penalty_text)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING created_at
	`
	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		nullTime(task.Deadline),
		task.PenaltyText,
	).Scan(&task.CreatedAt); err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) Complete(ctx context.Context, id, userID string, at time.Time) (*domain.Task, error) {
	// The RETURNING clause reads the row after the update; is_punished and
	// deadline are untouched by it, so the praise decision stays race-free
	// against a concurrent sweep that already claimed the task.
	const query = `
	UPDATE tasks
	SET is_completed = TRUE,
		needs_popup = FALSE,
		completed_at = $3
	WHERE id = $1 AND user_id = $2 AND NOT is_completed
	RETURNING ` + taskColumns + `
	`
	row := r.pool.QueryRow(ctx, query, id, userID, at)
	task, err := scanTask(row)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) ClaimOverdue(ctx context.Context, now time.Time) ([]domain.Task, error) {
	// Single UPDATE keeps the claim monotone: a row matches at most once in
	// its lifetime because is_punished never reverts.
	const query = `
	UPDATE tasks
	SET is_punished = TRUE,
		needs_popup = TRUE
	WHERE deadline IS NOT NULL
	  AND deadline < $1
	  AND NOT is_punished
	  AND NOT is_completed
	RETURNING ` + taskColumns + `
	`
	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

func (r *taskRepository) ClaimPopups(ctx context.Context, userID string) ([]domain.Punishment, error) {
	const query = `
	UPDATE tasks
	SET needs_popup = FALSE
	WHERE user_id = $1 AND needs_popup
	RETURNING title, penalty_text
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	popups := []domain.Punishment{}
	for rows.Next() {
		var p domain.Punishment
		if err := rows.Scan(&p.Title, &p.PenaltyText); err != nil {
			return nil, err
		}
		popups = append(popups, p)
	}
	return popups, rows.Err()
}

func (r *taskRepository) CountByUser(ctx context.Context, userID string) (total, completed, punished int, err error) {
	const query = `
	SELECT COUNT(*),
		   COUNT(*) FILTER (WHERE is_completed),
		   COUNT(*) FILTER (WHERE is_punished)
	FROM tasks
	WHERE user_id = $1
	`
	err = r.pool.QueryRow(ctx, query, userID).Scan(&total, &completed, &punished)
	return total, completed, punished, err
}

func scanTask(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Task, error) {
	var task domain.Task
	if err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Deadline,
		&task.PenaltyText,
		&task.IsPunished,
		&task.IsCompleted,
		&task.NeedsPopup,
		&task.CreatedAt,
		&task.CompletedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

func collectTasks(rows pgx.Rows) ([]domain.Task, error) {
	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 100
	}
	return limit
}
