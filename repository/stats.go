package repository

import (
	"context"

	"github.com/socialguillotine/backend/domain"
)

type StatsRepository interface {
	GetByUser(ctx context.Context, userID string) (*domain.UserStats, error)
	Upsert(ctx context.Context, stats *domain.UserStats) error

	// Rankings returns users ordered by laziness ascending, streak descending.
	// An empty userIDs slice means all users.
	Rankings(ctx context.Context, userIDs []string, limit int) ([]domain.RankingEntry, error)
}

type BadgeRepository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Badge, error)

	// Unlock inserts the badge unless the user already holds one of that type.
	// It reports whether a new badge row was created.
	Unlock(ctx context.Context, badge *domain.Badge) (bool, error)
}
