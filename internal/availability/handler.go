package availability

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	httpx "permitdesk/pkg/http"
)

// StatusHandler exposes the worker's sync state for operators.
type StatusHandler struct {
	worker *Worker
}

func NewStatusHandler(worker *Worker) *StatusHandler {
	return &StatusHandler{worker: worker}
}

func (h *StatusHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/availability/status", h.Status)
}

func (h *StatusHandler) Status(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	lastSynced := h.worker.LastSynced()
	payload := map[string]any{
		"synced": !lastSynced.IsZero(),
	}
	if !lastSynced.IsZero() {
		payload["last_synced_at"] = lastSynced.Format("2006-01-02T15:04:05Z07:00")
	}
	_ = httpx.WriteSuccess(w, payload)
}
