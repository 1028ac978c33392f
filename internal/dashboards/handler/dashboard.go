package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"permitdesk/internal/dashboards/refresher"
	"permitdesk/internal/dashboards/service"
	"permitdesk/pkg/config"
	httpx "permitdesk/pkg/http"
)

type DashboardHandler struct {
	cfg     *config.Config
	service service.DashboardService
}

func NewDashboardHandler(cfg *config.Config, svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{cfg: cfg, service: svc}
}

func (h *DashboardHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/dashboards/summary", h.Summary)
	router.GET("/api/v1/dashboards/cards", h.Cards)
	router.GET("/api/v1/dashboards/cards/:card/bookings", h.CardBookings)
	router.GET("/api/v1/dashboards/cards/:card/export", h.ExportCard)
	router.GET("/api/v1/dashboards/permits-by-product", h.PermitsByProduct)
	router.POST("/api/v1/dashboards/refresh", h.ForceRefresh)
}

// freshness is attached to every snapshot-backed response so clients can show
// a "last updated" stamp and a stale-data warning without a separate call.
type freshness struct {
	RefreshedAt string `json:"refreshed_at,omitempty"`
	Stale       bool   `json:"stale"`
	LastError   string `json:"last_error,omitempty"`
}

func freshnessOf(snap refresher.Snapshot) freshness {
	f := freshness{Stale: snap.Stale, LastError: snap.LastError}
	if !snap.RefreshedAt.IsZero() {
		f.RefreshedAt = snap.RefreshedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return f
}

func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	summary, snap := h.service.Summary(r.Context())
	_ = httpx.WriteSuccess(w, map[string]any{
		"summary":   summary,
		"freshness": freshnessOf(snap),
	})
}

func (h *DashboardHandler) Cards(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	cards, snap := h.service.Cards(r.Context())
	_ = httpx.WriteSuccess(w, map[string]any{
		"cards":     cards,
		"freshness": freshnessOf(snap),
	})
}

func (h *DashboardHandler) CardBookings(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bookings, err := h.service.CardBookings(r.Context(), ps.ByName("card"))
	if err != nil {
		_ = httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteSuccess(w, map[string]any{
		"bookings": bookings,
		"count":    len(bookings),
	})
}

func (h *DashboardHandler) ExportCard(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	records, err := h.service.ExportCard(r.Context(), ps.ByName("card"))
	if err != nil {
		_ = httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteSuccess(w, map[string]any{
		"records": records,
		"count":   len(records),
	})
}

func (h *DashboardHandler) PermitsByProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	onlyConfirmed := r.URL.Query().Get("confirmed") == "true"
	_ = httpx.WriteSuccess(w, map[string]any{
		"permits_by_product": h.service.PermitsByProduct(r.Context(), onlyConfirmed),
		"confirmed_only":     onlyConfirmed,
	})
}

// ForceRefresh schedules an immediate snapshot reload. The reload is
// asynchronous; callers poll freshness on the next read.
func (h *DashboardHandler) ForceRefresh(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	h.service.ForceRefresh()
	_ = httpx.WriteJSON(w, http.StatusAccepted, map[string]any{
		"status": "refresh scheduled",
	})
}
