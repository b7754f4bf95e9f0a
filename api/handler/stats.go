package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/socialguillotine/backend/pkg/httpcontext"
	statsUC "github.com/socialguillotine/backend/usecase/stats"
)

type StatsHandler struct {
	baseHandler
	stats *statsUC.Service
}

func NewStatsHandler(stats *statsUC.Service, adapter *httpcontext.Adapter, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{
		baseHandler: newBaseHandler(adapter, logger),
		stats:       stats,
	}
}

// @Summary Personal productivity counters
// @Tags stats
// @Router /api/stats [get]
func (h *StatsHandler) Stats(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	stats, err := h.stats.Stats(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, stats)
}

// @Summary Global laziness leaderboard
// @Tags stats
// @Router /api/rankings [get]
func (h *StatsHandler) Rankings(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	limit := parseInt(string(ctx.QueryArgs().Peek("limit")), 20)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	entries, err := h.stats.Rankings(stdCtx, limit)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, entries)
}

// @Summary Unlocked badges
// @Tags stats
// @Router /api/badges [get]
func (h *StatsHandler) Badges(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	badges, err := h.stats.Badges(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, badges)
}
