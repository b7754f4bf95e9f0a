package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/socialguillotine/backend/internal/infrastructure/monitor"
	"github.com/socialguillotine/backend/pkg/httpcontext"
)

type HealthHandler struct {
	baseHandler
	monitor *monitor.Monitor
}

func NewHealthHandler(mon *monitor.Monitor, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		monitor:     mon,
	}
}

// @Summary Service health
// @Tags system
// @Router /health [get]
func (h *HealthHandler) Health(ctx *fasthttp.RequestCtx) {
	status := h.monitor.GetStatus()

	code := http.StatusOK
	state := "OK"
	if !h.monitor.IsOnline() {
		code = http.StatusServiceUnavailable
		state = "DEGRADED"
	}

	h.respondSuccess(ctx, code, map[string]interface{}{
		"state":  state,
		"checks": status,
	})
}
