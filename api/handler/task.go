package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/socialguillotine/backend/api/transport"
	"github.com/socialguillotine/backend/domain"
	"github.com/socialguillotine/backend/pkg/httpcontext"
	"github.com/socialguillotine/backend/repository"
	statsUC "github.com/socialguillotine/backend/usecase/stats"
	taskUC "github.com/socialguillotine/backend/usecase/task"
)

// deadlineLayout matches the HTML datetime-local input the dashboard submits.
const deadlineLayout = "2006-01-02T15:04"

type TaskHandler struct {
	baseHandler
	uc    *taskUC.UseCase
	stats *statsUC.Service
}

func NewTaskHandler(uc *taskUC.UseCase, stats *statsUC.Service, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		stats:       stats,
	}
}

// @Summary Dashboard: active tasks plus stats
// @Tags tasks
// @Router / [get]
func (h *TaskHandler) Dashboard(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.ListTasks(stdCtx, repository.TaskFilter{UserID: userID, ActiveOnly: true})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	stats, err := h.stats.Stats(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"tasks": tasks,
		"stats": stats,
	})
}

// @Summary Declare a task
// @Tags tasks
// @Router /add [post]
func (h *TaskHandler) AddTask(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	title, deadlineStr, penaltyText := taskFields(ctx)

	var deadline *time.Time
	if deadlineStr != "" {
		parsed, err := time.ParseInLocation(deadlineLayout, deadlineStr, time.Local)
		if err != nil {
			h.respondError(ctx, domain.ErrInvalidDeadline)
			return
		}
		deadline = &parsed
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateTask(stdCtx, userID, title, deadline, penaltyText)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Complete (guillotine-dodge) a task
// @Tags tasks
// @Router /delete/{id} [post]
func (h *TaskHandler) CompleteTask(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	id, _ := ctx.UserValue("id").(string)
	if _, err := uuid.Parse(id); err != nil {
		// A malformed id cannot name any task; pgx would reject it on encode.
		h.respondError(ctx, domain.ErrTaskNotFound)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	completed, praiseMsg, err := h.uc.CompleteTask(stdCtx, userID, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	payload := map[string]interface{}{"task": completed}
	if praiseMsg != nil {
		payload["praise"] = praiseMsg
	}
	h.respondSuccess(ctx, http.StatusOK, payload)
}

// taskFields reads the task payload from either the dashboard form or a JSON
// body, whichever the client sent.
func taskFields(ctx *fasthttp.RequestCtx) (title, deadline, penaltyText string) {
	if bytes.Contains(ctx.Request.Header.ContentType(), []byte("application/json")) {
		var req transport.TaskRequest
		if err := json.Unmarshal(ctx.PostBody(), &req); err == nil {
			return req.Title, req.Deadline, req.PenaltyText
		}
		return "", "", ""
	}
	args := ctx.PostArgs()
	return string(args.Peek("task_title")), string(args.Peek("deadline")), string(args.Peek("penalty_text"))
}

// @Summary List tasks
// @Tags tasks
// @Router /api/tasks [get]
func (h *TaskHandler) ListTasks(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	filter := repository.TaskFilter{
		UserID:     userID,
		ActiveOnly: string(ctx.QueryArgs().Peek("all")) == "",
		Limit:      parseInt(string(ctx.QueryArgs().Peek("limit")), 50),
		Offset:     parseInt(string(ctx.QueryArgs().Peek("offset")), 0),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.ListTasks(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tasks)
}
