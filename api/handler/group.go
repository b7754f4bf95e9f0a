package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/socialguillotine/backend/api/transport"
	"github.com/socialguillotine/backend/domain"
	"github.com/socialguillotine/backend/pkg/httpcontext"
	groupUC "github.com/socialguillotine/backend/usecase/group"
)

type GroupHandler struct {
	baseHandler
	uc *groupUC.UseCase
}

func NewGroupHandler(uc *groupUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *GroupHandler {
	return &GroupHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Create a shame group
// @Tags groups
// @Router /group/create [post]
func (h *GroupHandler) Create(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.GroupCreateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, domain.ErrInvalidPayload)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	group, err := h.uc.Create(stdCtx, userID, req.Name)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, group)
}

// @Summary Join a group by invite code
// @Tags groups
// @Router /group/join [post]
func (h *GroupHandler) Join(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.GroupJoinRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, domain.ErrInvalidPayload)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	group, err := h.uc.Join(stdCtx, userID, req.InviteCode)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, group)
}

// @Summary Group-scoped leaderboard
// @Tags groups
// @Router /api/group-rankings/{id} [get]
func (h *GroupHandler) Rankings(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	id, _ := ctx.UserValue("id").(string)
	if _, err := uuid.Parse(id); err != nil {
		h.respondError(ctx, domain.ErrGroupNotFound)
		return
	}
	limit := parseInt(string(ctx.QueryArgs().Peek("limit")), 20)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	entries, err := h.uc.Rankings(stdCtx, id, userID, limit)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, entries)
}
