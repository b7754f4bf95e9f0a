package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/socialguillotine/backend/domain"
	"github.com/socialguillotine/backend/internal/infrastructure/discord"
	"github.com/socialguillotine/backend/internal/infrastructure/ledger"
	"github.com/socialguillotine/backend/repository"
	"github.com/socialguillotine/backend/usecase/stats"
)

// PunishmentNotifier dispatches the outbound punishment notice.
type PunishmentNotifier interface {
	NotifyPunishment(ctx context.Context, task domain.Task) discord.Delivery
}

// SweeperConfig controls the sweep schedule. Retention bounds how long
// executed punishments stay in the ledger; zero keeps them forever.
type SweeperConfig struct {
	Interval  time.Duration
	Retention time.Duration
}

// Sweeper is the timer-driven job that executes overdue tasks. Each tick
// claims overdue tasks atomically in the store and only then attempts the
// outbound notification, so a webhook outage can never unpunish a task or
// make the next tick fire twice for it.
type Sweeper struct {
	tasks    repository.TaskRepository
	notifier PunishmentNotifier
	ledger   *ledger.Store
	stats    *stats.Service
	logger   *zap.Logger
	cron     *cron.Cron
	cfg      SweeperConfig
	now      func() time.Time
}

func NewSweeper(
	tasks repository.TaskRepository,
	notifier PunishmentNotifier,
	ledgerStore *ledger.Store,
	statsSvc *stats.Service,
	logger *zap.Logger,
	cfg SweeperConfig,
) *Sweeper {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Sweeper{
		tasks:    tasks,
		notifier: notifier,
		ledger:   ledgerStore,
		stats:    statsSvc,
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
		// SkipIfStillRunning keeps ticks strictly sequential: a slow sweep
		// drops the overlapping tick instead of racing it.
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	if _, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval+10*time.Second)
		defer cancel()
		if err := s.Sweep(ctx); err != nil {
			s.logger.Error("deadline sweep failed", zap.Error(err))
		}
	}); err != nil {
		s.logger.Error("sweep schedule rejected",
			zap.String("schedule", schedule), zap.Error(err))
	}

	if cfg.Retention > 0 && ledgerStore != nil {
		if _, err := s.cron.AddFunc("0 0 * * * *", func() {
			if err := s.ledger.Cleanup(s.now().Add(-cfg.Retention)); err != nil {
				s.logger.Warn("punishment ledger cleanup failed", zap.Error(err))
			}
		}); err != nil {
			s.logger.Error("ledger cleanup schedule rejected", zap.Error(err))
		}
	}

	return s
}

// Start launches the cron scheduler.
func (s *Sweeper) Start() {
	if s == nil || s.cron == nil {
		return
	}
	s.cron.Start()
	s.logger.Info("deadline sweeper started", zap.Duration("interval", s.cfg.Interval))
}

// Stop gracefully stops the scheduler, waiting for an in-flight sweep.
func (s *Sweeper) Stop(ctx context.Context) {
	if s == nil || s.cron == nil {
		return
	}
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	s.logger.Info("deadline sweeper stopped")
}

// Sweep executes one tick synchronously: claim every overdue task, then
// record and notify each punishment. The claim is the only state mutation
// and it commits before any outbound call, so repeating a tick is harmless.
func (s *Sweeper) Sweep(ctx context.Context) error {
	claimed, err := s.tasks.ClaimOverdue(ctx, s.now())
	if err != nil {
		return err
	}
	if len(claimed) == 0 {
		return nil
	}

	punishedUsers := make(map[string]bool)
	for _, task := range claimed {
		delivery := discord.Delivery{Reason: "notifier not configured"}
		if s.notifier != nil {
			delivery = s.notifier.NotifyPunishment(ctx, task)
		}
		if !delivery.Delivered {
			s.logger.Warn("punishment notice not delivered",
				zap.String("task_id", task.ID),
				zap.String("reason", delivery.Reason))
		}

		if s.ledger != nil {
			if err := s.ledger.Append(ledger.Event{
				TaskID:      task.ID,
				UserID:      task.UserID,
				Title:       task.Title,
				PenaltyText: task.PenaltyText,
				FiredAt:     s.now(),
				Delivered:   delivery.Delivered,
			}); err != nil {
				s.logger.Warn("punishment ledger append failed", zap.Error(err))
			}
		}

		punishedUsers[task.UserID] = true
		s.logger.Info("task punished",
			zap.String("task_id", task.ID),
			zap.String("user_id", task.UserID),
			zap.Bool("webhook_delivered", delivery.Delivered))
	}

	if s.stats != nil {
		for userID := range punishedUsers {
			if _, _, err := s.stats.Recompute(ctx, userID, stats.EventPunished); err != nil {
				s.logger.Error("stats recompute failed after punishment",
					zap.String("user_id", userID), zap.Error(err))
			}
		}
	}
	return nil
}
