// Package stats is the gamification aggregator: it recounts a user's task
// counters after every mutation and unlocks badges whose thresholds pass.
package stats

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/socialguillotine/backend/domain"
	"github.com/socialguillotine/backend/repository"
)

// Event describes the mutation that triggered a recompute. Counters are
// always recounted from the task store; the event only drives the streak.
type Event int

const (
	EventCreated Event = iota
	EventCompleted
	EventPunished
)

type Service struct {
	tasks  repository.TaskRepository
	stats  repository.StatsRepository
	badges repository.BadgeRepository
	logger *zap.Logger
	now    func() time.Time
}

func New(tasks repository.TaskRepository, statsRepo repository.StatsRepository, badges repository.BadgeRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		tasks:  tasks,
		stats:  statsRepo,
		badges: badges,
		logger: logger,
		now:    time.Now,
	}
}

// Recompute recounts the user's counters, applies the streak effect of the
// triggering event, persists the stats and evaluates every badge threshold.
// It returns the fresh stats and any badges unlocked by this call. Running it
// twice with the same underlying counts is a no-op beyond the timestamp.
func (s *Service) Recompute(ctx context.Context, userID string, event Event) (*domain.UserStats, []domain.Badge, error) {
	total, completed, punished, err := s.tasks.CountByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	current, err := s.stats.GetByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	next := *current
	next.UserID = userID
	next.TotalTasks = total
	next.CompletedTasks = completed
	next.PunishedTasks = punished
	next.LazinessScore = domain.LazinessScore(punished, total)
	next.LastActivity = s.now()

	switch event {
	case EventCompleted:
		next.CurrentStreak++
		if next.CurrentStreak > next.MaxStreak {
			next.MaxStreak = next.CurrentStreak
		}
	case EventPunished:
		next.CurrentStreak = 0
	}

	if err := s.stats.Upsert(ctx, &next); err != nil {
		return nil, nil, err
	}

	unlocked := s.evaluateBadges(ctx, next)
	return &next, unlocked, nil
}

// Stats returns the user's current counters.
func (s *Service) Stats(ctx context.Context, userID string) (*domain.UserStats, error) {
	return s.stats.GetByUser(ctx, userID)
}

// Badges lists the user's unlocked badges.
func (s *Service) Badges(ctx context.Context, userID string) ([]domain.Badge, error) {
	return s.badges.ListByUser(ctx, userID)
}

// Rankings returns the global laziness leaderboard.
func (s *Service) Rankings(ctx context.Context, limit int) ([]domain.RankingEntry, error) {
	return s.stats.Rankings(ctx, nil, limit)
}

func (s *Service) evaluateBadges(ctx context.Context, stats domain.UserStats) []domain.Badge {
	var unlocked []domain.Badge
	for _, spec := range domain.BadgeCatalog {
		if !spec.Unlocked(stats) {
			continue
		}
		badge := domain.Badge{
			UserID:     stats.UserID,
			Type:       spec.Type,
			Name:       spec.Name,
			Icon:       spec.Icon,
			UnlockedAt: s.now(),
		}
		created, err := s.badges.Unlock(ctx, &badge)
		if err != nil {
			s.logger.Error("badge unlock failed",
				zap.String("user_id", stats.UserID),
				zap.String("badge_type", spec.Type),
				zap.Error(err))
			continue
		}
		if created {
			s.logger.Info("badge unlocked",
				zap.String("user_id", stats.UserID),
				zap.String("badge_type", spec.Type))
			unlocked = append(unlocked, badge)
		}
	}
	return unlocked
}
