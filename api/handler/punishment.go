package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/socialguillotine/backend/internal/infrastructure/ledger"
	"github.com/socialguillotine/backend/pkg/httpcontext"
	taskUC "github.com/socialguillotine/backend/usecase/task"
)

type PunishmentHandler struct {
	baseHandler
	uc     *taskUC.UseCase
	ledger *ledger.Store
}

func NewPunishmentHandler(uc *taskUC.UseCase, store *ledger.Store, adapter *httpcontext.Adapter, logger *zap.Logger) *PunishmentHandler {
	return &PunishmentHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		ledger:      store,
	}
}

// @Summary Claim pending punishment popups
// @Tags punishments
// @Router /check_punishments [get]
func (h *PunishmentHandler) CheckPunishments(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	// Claiming clears the popup flag, so each punishment surfaces exactly once.
	popups, err := h.uc.Popups(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, popups)
}

// @Summary Punishment execution history
// @Tags punishments
// @Router /api/punishments [get]
func (h *PunishmentHandler) History(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	limit := parseInt(string(ctx.QueryArgs().Peek("limit")), 50)
	events, err := h.ledger.ListByUser(userID, limit)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, events)
}
