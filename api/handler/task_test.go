package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/socialguillotine/backend/api/transport"
	"github.com/socialguillotine/backend/domain"
	"github.com/socialguillotine/backend/repository/memory"
	"github.com/socialguillotine/backend/usecase/praise"
	statsUC "github.com/socialguillotine/backend/usecase/stats"
	taskUC "github.com/socialguillotine/backend/usecase/task"
)

func newTestHandlers(t *testing.T) (*TaskHandler, *PunishmentHandler, *memory.DB) {
	t.Helper()
	db := memory.Open()
	taskRepo := memory.NewTaskRepository(db)
	statsSvc := statsUC.New(taskRepo, memory.NewStatsRepository(db), memory.NewBadgeRepository(db), nil)
	uc := taskUC.New(taskRepo, praise.New(nil, nil), statsSvc, nil)
	return NewTaskHandler(uc, statsSvc, nil, nil), NewPunishmentHandler(uc, nil, nil, nil), db
}

func formRequest(userID, body string) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(fasthttp.MethodPost)
	ctx.Request.Header.SetContentType("application/x-www-form-urlencoded")
	ctx.Request.Header.Set("X-User-ID", userID)
	ctx.Request.SetBodyString(body)
	return ctx
}

func decodeEnvelope(t *testing.T, ctx *fasthttp.RequestCtx) transport.Envelope {
	t.Helper()
	var envelope transport.Envelope
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &envelope))
	return envelope
}

func TestAddTask(t *testing.T) {
	taskHandler, _, _ := newTestHandlers(t)

	ctx := formRequest("u1", "task_title=Finish+slides&deadline=2099-01-02T15:04&penalty_text=sing+in+standup")
	taskHandler.AddTask(ctx)

	require.Equal(t, http.StatusCreated, ctx.Response.StatusCode())
	envelope := decodeEnvelope(t, ctx)
	assert.Equal(t, "success", envelope.Status)

	data, _ := envelope.Data.(map[string]interface{})
	require.NotNil(t, data)
	assert.Equal(t, "Finish slides", data["title"])
	assert.Equal(t, "sing in standup", data["penalty_text"])
}

func TestAddTaskJSONBody(t *testing.T) {
	taskHandler, _, _ := newTestHandlers(t)

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(fasthttp.MethodPost)
	ctx.Request.Header.SetContentType("application/json")
	ctx.Request.Header.Set("X-User-ID", "u1")
	ctx.Request.SetBodyString(`{"task_title":"Ship it","deadline":"2099-01-02T15:04","penalty_text":"wear the hat"}`)

	taskHandler.AddTask(ctx)

	require.Equal(t, http.StatusCreated, ctx.Response.StatusCode())
	envelope := decodeEnvelope(t, ctx)
	data, _ := envelope.Data.(map[string]interface{})
	require.NotNil(t, data)
	assert.Equal(t, "Ship it", data["title"])
}

func TestAddTaskInvalidDeadline(t *testing.T) {
	taskHandler, _, _ := newTestHandlers(t)

	ctx := formRequest("u1", "task_title=Oops&deadline=next+tuesday")
	taskHandler.AddTask(ctx)

	assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
}

func TestAddTaskWithoutDeadline(t *testing.T) {
	taskHandler, _, _ := newTestHandlers(t)

	ctx := formRequest("u1", "task_title=Someday")
	taskHandler.AddTask(ctx)

	assert.Equal(t, http.StatusCreated, ctx.Response.StatusCode())
}

func TestAddTaskUnauthorized(t *testing.T) {
	taskHandler, _, _ := newTestHandlers(t)

	ctx := formRequest("", "task_title=Nope")
	taskHandler.AddTask(ctx)

	assert.Equal(t, http.StatusUnauthorized, ctx.Response.StatusCode())
}

func TestCompleteTaskRoute(t *testing.T) {
	taskHandler, _, db := newTestHandlers(t)

	deadline := time.Now().Add(time.Hour)
	seeded := domain.Task{UserID: "u1", Title: "beat the clock", Deadline: &deadline}
	_, err := memory.NewTaskRepository(db).Create(context.Background(), &seeded)
	require.NoError(t, err)

	ctx := formRequest("u1", "")
	ctx.SetUserValue("id", seeded.ID)
	taskHandler.CompleteTask(ctx)

	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	envelope := decodeEnvelope(t, ctx)
	data, _ := envelope.Data.(map[string]interface{})
	require.NotNil(t, data)
	assert.NotNil(t, data["praise"], "beating the deadline earns praise")
}

func TestCompleteTaskMalformedID(t *testing.T) {
	taskHandler, _, _ := newTestHandlers(t)

	ctx := formRequest("u1", "")
	ctx.SetUserValue("id", "not-a-uuid")
	taskHandler.CompleteTask(ctx)

	assert.Equal(t, http.StatusNotFound, ctx.Response.StatusCode())
}

func TestCheckPunishmentsClaims(t *testing.T) {
	_, punishmentHandler, db := newTestHandlers(t)

	seeded := domain.Task{UserID: "u1", Title: "missed", PenaltyText: "bring donuts", IsPunished: true, NeedsPopup: true}
	_, err := memory.NewTaskRepository(db).Create(context.Background(), &seeded)
	require.NoError(t, err)

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.Set("X-User-ID", "u1")
	punishmentHandler.CheckPunishments(ctx)

	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	envelope := decodeEnvelope(t, ctx)
	popups, _ := envelope.Data.([]interface{})
	require.Len(t, popups, 1)

	// Second poll comes back empty.
	ctx = &fasthttp.RequestCtx{}
	ctx.Request.Header.Set("X-User-ID", "u1")
	punishmentHandler.CheckPunishments(ctx)
	envelope = decodeEnvelope(t, ctx)
	popups, _ = envelope.Data.([]interface{})
	assert.Empty(t, popups)
}
