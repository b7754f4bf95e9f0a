package task

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialguillotine/backend/domain"
	"github.com/socialguillotine/backend/repository/memory"
	"github.com/socialguillotine/backend/usecase/praise"
	"github.com/socialguillotine/backend/usecase/stats"
)

func newTestUseCase(t *testing.T) (*UseCase, *memory.DB) {
	t.Helper()
	db := memory.Open()
	taskRepo := memory.NewTaskRepository(db)
	statsSvc := stats.New(taskRepo, memory.NewStatsRepository(db), memory.NewBadgeRepository(db), nil)
	uc := New(taskRepo, praise.New(nil, nil), statsSvc, nil)
	return uc, db
}

func TestCreateTaskValidation(t *testing.T) {
	uc, _ := newTestUseCase(t)
	ctx := context.Background()

	_, err := uc.CreateTask(ctx, "u1", "   ", nil, "")
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)

	_, err = uc.CreateTask(ctx, "", "write tests", nil, "")
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}

func TestCreateTaskTrimsAndCounts(t *testing.T) {
	uc, _ := newTestUseCase(t)
	ctx := context.Background()

	created, err := uc.CreateTask(ctx, "u1", "  finish slides  ", nil, "  sing in the office  ")
	require.NoError(t, err)
	assert.Equal(t, "finish slides", created.Title)
	assert.Equal(t, "sing in the office", created.PenaltyText)
	assert.NotEmpty(t, created.ID)

	got, err := uc.stats.Stats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalTasks)
}

func TestCompleteTaskEarlyEarnsPraise(t *testing.T) {
	uc, _ := newTestUseCase(t)
	ctx := context.Background()
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return now }

	deadline := now.Add(2 * time.Hour)
	created, err := uc.CreateTask(ctx, "u1", "ship it", &deadline, "wear the cone of shame")
	require.NoError(t, err)

	completed, msg, err := uc.CompleteTask(ctx, "u1", created.ID)
	require.NoError(t, err)
	assert.True(t, completed.IsCompleted)
	assert.False(t, completed.NeedsPopup)
	require.NotNil(t, msg, "early completion earns praise")
	assert.NotEmpty(t, msg.Text)

	got, err := uc.stats.Stats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.CurrentStreak)
}

func TestCompleteTaskLateEarnsNothing(t *testing.T) {
	uc, _ := newTestUseCase(t)
	ctx := context.Background()
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return now }

	deadline := now.Add(-time.Hour)
	created, err := uc.CreateTask(ctx, "u1", "too late", &deadline, "")
	require.NoError(t, err)

	completed, msg, err := uc.CompleteTask(ctx, "u1", created.ID)
	require.NoError(t, err)
	assert.True(t, completed.IsCompleted)
	assert.Nil(t, msg)

	got, err := uc.stats.Stats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, got.CurrentStreak, "late completion does not grow the streak")
}

func TestCompleteTaskPunishedEarnsNoPraise(t *testing.T) {
	uc, db := newTestUseCase(t)
	ctx := context.Background()
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return now }

	// Deadline still ahead but the task was already punished; the strict
	// rule denies praise anyway.
	deadline := now.Add(time.Hour)
	seeded := domain.Task{UserID: "u1", Title: "tainted", Deadline: &deadline, IsPunished: true}
	_, err := memory.NewTaskRepository(db).Create(ctx, &seeded)
	require.NoError(t, err)

	_, msg, err := uc.CompleteTask(ctx, "u1", seeded.ID)
	require.NoError(t, err)
	assert.Nil(t, msg)
}

func TestCompleteTaskWrongOwner(t *testing.T) {
	uc, _ := newTestUseCase(t)
	ctx := context.Background()

	created, err := uc.CreateTask(ctx, "u1", "mine", nil, "")
	require.NoError(t, err)

	_, _, err = uc.CompleteTask(ctx, "intruder", created.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestCompleteTaskTwice(t *testing.T) {
	uc, _ := newTestUseCase(t)
	ctx := context.Background()

	created, err := uc.CreateTask(ctx, "u1", "once", nil, "")
	require.NoError(t, err)

	_, _, err = uc.CompleteTask(ctx, "u1", created.ID)
	require.NoError(t, err)

	_, _, err = uc.CompleteTask(ctx, "u1", created.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestPopupsDrainOnce(t *testing.T) {
	uc, db := newTestUseCase(t)
	ctx := context.Background()

	seeded := domain.Task{UserID: "u1", Title: "missed", PenaltyText: "buy pizza", IsPunished: true, NeedsPopup: true}
	_, err := memory.NewTaskRepository(db).Create(ctx, &seeded)
	require.NoError(t, err)

	popups, err := uc.Popups(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, popups, 1)
	assert.Equal(t, "missed", popups[0].Title)
	assert.Equal(t, "buy pizza", popups[0].PenaltyText)

	popups, err = uc.Popups(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, popups, "a claimed popup never reappears")
}
