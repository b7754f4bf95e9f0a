package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/socialguillotine/backend/domain"
	"github.com/socialguillotine/backend/repository"
)

type statsRepository struct {
	db *DB
}

// NewStatsRepository returns an in-memory implementation of StatsRepository.
func NewStatsRepository(db *DB) repository.StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) GetByUser(ctx context.Context, userID string) (*domain.UserStats, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	stats, ok := r.db.stats[userID]
	if !ok {
		return &domain.UserStats{UserID: userID}, nil
	}
	cp := *stats
	return &cp, nil
}

func (r *statsRepository) Upsert(ctx context.Context, stats *domain.UserStats) error {
	if stats == nil {
		return domain.ErrInvalidPayload
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	cp := *stats
	r.db.stats[stats.UserID] = &cp
	return nil
}

func (r *statsRepository) Rankings(ctx context.Context, userIDs []string, limit int) ([]domain.RankingEntry, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	include := map[string]bool{}
	for _, id := range userIDs {
		include[id] = true
	}

	var entries []domain.RankingEntry
	for userID, stats := range r.db.stats {
		if len(include) > 0 && !include[userID] {
			continue
		}
		entry := domain.RankingEntry{
			UserID:        userID,
			LazinessScore: stats.LazinessScore,
			CurrentStreak: stats.CurrentStreak,
			PunishedTasks: stats.PunishedTasks,
		}
		if user, ok := r.db.users[userID]; ok {
			entry.Username = user.Username
			entry.DisplayName = user.DisplayName
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].LazinessScore != entries[j].LazinessScore {
			return entries[i].LazinessScore < entries[j].LazinessScore
		}
		if entries[i].CurrentStreak != entries[j].CurrentStreak {
			return entries[i].CurrentStreak > entries[j].CurrentStreak
		}
		return entries[i].Username < entries[j].Username
	})
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries, nil
}

type badgeRepository struct {
	db *DB
}

// NewBadgeRepository returns an in-memory implementation of BadgeRepository.
func NewBadgeRepository(db *DB) repository.BadgeRepository {
	return &badgeRepository{db: db}
}

func (r *badgeRepository) ListByUser(ctx context.Context, userID string) ([]domain.Badge, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var badges []domain.Badge
	for _, badge := range r.db.badges[userID] {
		badges = append(badges, badge)
	}
	sort.Slice(badges, func(i, j int) bool {
		return badges[i].UnlockedAt.Before(badges[j].UnlockedAt)
	})
	return badges, nil
}

func (r *badgeRepository) Unlock(ctx context.Context, badge *domain.Badge) (bool, error) {
	if badge == nil {
		return false, domain.ErrInvalidPayload
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	held := r.db.badges[badge.UserID]
	if held == nil {
		held = make(map[string]domain.Badge)
		r.db.badges[badge.UserID] = held
	}
	if _, ok := held[badge.Type]; ok {
		return false, nil
	}
	if badge.ID == "" {
		badge.ID = uuid.NewString()
	}
	held[badge.Type] = *badge
	return true, nil
}
