package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/socialguillotine/backend/domain"
	"github.com/socialguillotine/backend/repository"
)

type statsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository returns a Postgres-backed implementation of StatsRepository.
func NewStatsRepository(pool *pgxpool.Pool) repository.StatsRepository {
	return &statsRepository{pool: pool}
}

func (r *statsRepository) GetByUser(ctx context.Context, userID string) (*domain.UserStats, error) {
	const query = `
	SELECT user_id, total_tasks, completed_tasks, punished_tasks,
		   current_streak, max_streak, laziness_score, last_activity
	FROM user_stats
	WHERE user_id = $1
	`
	var s domain.UserStats
	if err := r.pool.QueryRow(ctx, query, userID).Scan(
		&s.UserID,
		&s.TotalTasks,
		&s.CompletedTasks,
		&s.PunishedTasks,
		&s.CurrentStreak,
		&s.MaxStreak,
		&s.LazinessScore,
		&s.LastActivity,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// No stats row yet means no activity; report zeroes.
			return &domain.UserStats{UserID: userID}, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *statsRepository) Upsert(ctx context.Context, stats *domain.UserStats) error {
	if stats == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO user_stats (user_id, total_tasks, completed_tasks, punished_tasks,
							current_streak, max_streak, laziness_score, last_activity)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (user_id) DO UPDATE
	SET total_tasks = EXCLUDED.total_tasks,
		completed_tasks = EXCLUDED.completed_tasks,
		punished_tasks = EXCLUDED.punished_tasks,
		current_streak = EXCLUDED.current_streak,
		max_streak = EXCLUDED.max_streak,
		laziness_score = EXCLUDED.laziness_score,
		last_activity = EXCLUDED.last_activity
	`
	_, err := r.pool.Exec(ctx, query,
		stats.UserID,
		stats.TotalTasks,
		stats.CompletedTasks,
		stats.PunishedTasks,
		stats.CurrentStreak,
		stats.MaxStreak,
		stats.LazinessScore,
		stats.LastActivity,
	)
	return err
}

func (r *statsRepository) Rankings(ctx context.Context, userIDs []string, limit int) ([]domain.RankingEntry, error) {
	const query = `
	SELECT s.user_id, u.username, u.display_name,
		   s.laziness_score, s.current_streak, s.punished_tasks
	FROM user_stats s
	JOIN users u ON u.id = s.user_id
	WHERE $1::uuid[] IS NULL
	   OR cardinality($1::uuid[]) = 0
	   OR s.user_id = ANY($1::uuid[])
	ORDER BY s.laziness_score ASC, s.current_streak DESC, u.username ASC
	LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, userIDs, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.RankingEntry
	for rows.Next() {
		var e domain.RankingEntry
		if err := rows.Scan(
			&e.UserID,
			&e.Username,
			&e.DisplayName,
			&e.LazinessScore,
			&e.CurrentStreak,
			&e.PunishedTasks,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

type badgeRepository struct {
	pool *pgxpool.Pool
}

// NewBadgeRepository returns a Postgres-backed implementation of BadgeRepository.
func NewBadgeRepository(pool *pgxpool.Pool) repository.BadgeRepository {
	return &badgeRepository{pool: pool}
}

func (r *badgeRepository) ListByUser(ctx context.Context, userID string) ([]domain.Badge, error) {
	const query = `
	SELECT id, user_id, badge_type, badge_name, badge_icon, unlocked_at
	FROM badges
	WHERE user_id = $1
	ORDER BY unlocked_at ASC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var badges []domain.Badge
	for rows.Next() {
		var b domain.Badge
		if err := rows.Scan(&b.ID, &b.UserID, &b.Type, &b.Name, &b.Icon, &b.UnlockedAt); err != nil {
			return nil, err
		}
		badges = append(badges, b)
	}
	return badges, rows.Err()
}

func (r *badgeRepository) Unlock(ctx context.Context, badge *domain.Badge) (bool, error) {
	if badge == nil {
		return false, domain.ErrInvalidPayload
	}
	if badge.ID == "" {
		badge.ID = uuid.NewString()
	}

	// The (user_id, badge_type) unique index makes repeated unlocks no-ops.
	const query = `
	INSERT INTO badges (id, user_id, badge_type, badge_name, badge_icon, unlocked_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (user_id, badge_type) DO NOTHING
	`
	tag, err := r.pool.Exec(ctx, query,
		badge.ID,
		badge.UserID,
		badge.Type,
		badge.Name,
		badge.Icon,
		badge.UnlockedAt,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
