package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"permitdesk/internal/bookings/service"
	"permitdesk/pkg/config"
	apperrors "permitdesk/pkg/errors"
	"permitdesk/pkg/filter"
	httpx "permitdesk/pkg/http"
	"permitdesk/pkg/middleware"
	"permitdesk/pkg/model"
)

type BookingHandler struct {
	cfg     *config.Config
	service service.BookingService
}

func NewBookingHandler(cfg *config.Config, svc service.BookingService) *BookingHandler {
	return &BookingHandler{cfg: cfg, service: svc}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings", h.GetAll)
	router.GET("/api/v1/bookings/search", h.Search)
	router.GET("/api/v1/bookings/id/:id", h.GetByID)
	router.PUT("/api/v1/bookings/id/:id", h.Update)
	router.DELETE("/api/v1/bookings/id/:id", h.Delete)
	router.GET("/api/v1/bookings/id/:id/actions", h.Actions)
	router.POST("/api/v1/bookings/id/:id/actions/:action", h.ApplyAction)
	router.POST("/api/v1/bookings/id/:id/payments", h.RecordPayment)
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var booking model.Booking
	if err := json.NewDecoder(r.Body).Decode(&booking); err != nil {
		_ = httpx.WriteError(w, apperrors.InvalidInput("invalid request body"))
		return
	}

	created, err := h.service.Create(r.Context(), &booking)
	if err != nil {
		_ = httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteCreated(w, created)
}

func (h *BookingHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httpx.ExtractLimitOffset(r)
	if err != nil {
		_ = httpx.WriteError(w, err)
		return
	}

	bookings, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		_ = httpx.WriteError(w, err)
		return
	}
	_ = httpx.WritePaginated(w, bookings, total, limit, offset)
}

// Search runs the query-parameter filter set over the collection. Unknown
// parameters are ignored; an empty query returns everything.
func (h *BookingHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	eng := filter.FromValues(filter.Config{
		LowAvailabilitySlots: h.cfg.LowAvailabilitySlots,
		TopUpWindowDays:      h.cfg.TopUpWindowDays,
	}, r.URL.Query())

	bookings, err := h.service.Search(r.Context(), eng)
	if err != nil {
		_ = httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteSuccess(w, map[string]any{
		"bookings":       bookings,
		"count":          len(bookings),
		"active_filters": eng.ActiveCount(),
	})
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		_ = httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteSuccess(w, booking)
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.BookingUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		_ = httpx.WriteError(w, apperrors.InvalidInput("invalid request body"))
		return
	}

	booking, err := h.service.Update(r.Context(), ps.ByName("id"), &update)
	if err != nil {
		_ = httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteSuccess(w, booking)
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		_ = httpx.WriteError(w, err)
		return
	}
	httpx.WriteNoContent(w)
}

// Actions lists the legal next transitions for the caller's role. The list is
// role-resolved server side; clients render exactly what they receive.
func (h *BookingHandler) Actions(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	role := middleware.RoleFromContext(r.Context())
	actions, err := h.service.Actions(r.Context(), ps.ByName("id"), role)
	if err != nil {
		_ = httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteSuccess(w, map[string]any{
		"role":    role,
		"actions": actions,
	})
}

func (h *BookingHandler) ApplyAction(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	role := middleware.RoleFromContext(r.Context())
	booking, err := h.service.ApplyAction(r.Context(), ps.ByName("id"), role, ps.ByName("action"))
	if err != nil {
		_ = httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteSuccess(w, booking)
}

type paymentRequest struct {
	Amount float64 `json:"amount"`
}

func (h *BookingHandler) RecordPayment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httpx.WriteError(w, apperrors.InvalidInput("invalid request body"))
		return
	}

	booking, err := h.service.RecordPayment(r.Context(), ps.ByName("id"), req.Amount)
	if err != nil {
		_ = httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteSuccess(w, booking)
}
