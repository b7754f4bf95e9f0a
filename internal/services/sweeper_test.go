package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialguillotine/backend/domain"
	"github.com/socialguillotine/backend/internal/infrastructure/discord"
	"github.com/socialguillotine/backend/internal/infrastructure/ledger"
	"github.com/socialguillotine/backend/repository/memory"
	"github.com/socialguillotine/backend/usecase/stats"
)

type fakeNotifier struct {
	delivered bool
	notices   []domain.Task
}

func (n *fakeNotifier) NotifyPunishment(ctx context.Context, task domain.Task) discord.Delivery {
	n.notices = append(n.notices, task)
	if n.delivered {
		return discord.Delivery{Delivered: true}
	}
	return discord.Delivery{Reason: "webhook unreachable"}
}

func newTestSweeper(t *testing.T, notifier PunishmentNotifier) (*Sweeper, *memory.DB, *stats.Service) {
	t.Helper()
	db := memory.Open()
	taskRepo := memory.NewTaskRepository(db)
	statsSvc := stats.New(taskRepo, memory.NewStatsRepository(db), memory.NewBadgeRepository(db), nil)
	s := NewSweeper(taskRepo, notifier, nil, statsSvc, nil, SweeperConfig{Interval: time.Second})
	return s, db, statsSvc
}

func seedTask(t *testing.T, db *memory.DB, task domain.Task) string {
	t.Helper()
	created, err := memory.NewTaskRepository(db).Create(context.Background(), &task)
	require.NoError(t, err)
	return created.ID
}

func TestSweeperSchedulesJobs(t *testing.T) {
	s, _, _ := newTestSweeper(t, &fakeNotifier{})
	assert.Len(t, s.cron.Entries(), 1, "sweep tick only; no ledger means no cleanup job")

	db := memory.Open()
	store, err := ledger.Open(filepath.Join(t.TempDir(), "ledger.db"), "punishments")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	withCleanup := NewSweeper(memory.NewTaskRepository(db), &fakeNotifier{}, store, nil, nil,
		SweeperConfig{Interval: time.Second, Retention: time.Hour})
	assert.Len(t, withCleanup.cron.Entries(), 2, "sweep tick plus hourly ledger cleanup")
}

func TestSweepPunishesOverdue(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	notifier := &fakeNotifier{delivered: true}
	s, db, statsSvc := newTestSweeper(t, notifier)
	s.now = func() time.Time { return now }

	overdue := seedTask(t, db, domain.Task{UserID: "u1", Title: "missed", Deadline: &past, PenaltyText: "dance"})
	pending := seedTask(t, db, domain.Task{UserID: "u1", Title: "still fine", Deadline: &future})
	seedTask(t, db, domain.Task{UserID: "u1", Title: "no deadline"})

	require.NoError(t, s.Sweep(context.Background()))

	repo := memory.NewTaskRepository(db)
	got, err := repo.GetByID(context.Background(), overdue)
	require.NoError(t, err)
	assert.True(t, got.IsPunished)
	assert.True(t, got.NeedsPopup)

	got, err = repo.GetByID(context.Background(), pending)
	require.NoError(t, err)
	assert.False(t, got.IsPunished)

	require.Len(t, notifier.notices, 1)
	assert.Equal(t, "missed", notifier.notices[0].Title)

	userStats, err := statsSvc.Stats(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, userStats.PunishedTasks)
	assert.Equal(t, 0, userStats.CurrentStreak)
}

func TestSweepIsIdempotent(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)

	notifier := &fakeNotifier{delivered: true}
	s, db, _ := newTestSweeper(t, notifier)
	s.now = func() time.Time { return now }

	seedTask(t, db, domain.Task{UserID: "u1", Title: "missed", Deadline: &past})

	require.NoError(t, s.Sweep(context.Background()))
	require.NoError(t, s.Sweep(context.Background()))

	assert.Len(t, notifier.notices, 1, "a punished task never fires twice")
}

func TestSweepSurvivesWebhookFailure(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)

	notifier := &fakeNotifier{delivered: false}
	s, db, _ := newTestSweeper(t, notifier)
	s.now = func() time.Time { return now }

	id := seedTask(t, db, domain.Task{UserID: "u1", Title: "missed", Deadline: &past})

	require.NoError(t, s.Sweep(context.Background()))

	// The punishment stands and is not retried even though delivery failed.
	got, err := memory.NewTaskRepository(db).GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, got.IsPunished)

	require.NoError(t, s.Sweep(context.Background()))
	assert.Len(t, notifier.notices, 1)
}

func TestSweepThenPopupFlow(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)

	s, db, _ := newTestSweeper(t, &fakeNotifier{delivered: true})
	s.now = func() time.Time { return now }

	seedTask(t, db, domain.Task{UserID: "u1", Title: "missed", Deadline: &past, PenaltyText: "karaoke"})
	require.NoError(t, s.Sweep(context.Background()))

	repo := memory.NewTaskRepository(db)
	popups, err := repo.ClaimPopups(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, popups, 1)
	assert.Equal(t, "karaoke", popups[0].PenaltyText)

	popups, err = repo.ClaimPopups(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, popups)
}
