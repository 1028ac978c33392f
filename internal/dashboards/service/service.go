package service

import (
	"context"

	"github.com/samber/lo"

	"permitdesk/internal/dashboards/refresher"
	"permitdesk/pkg/config"
	apperrors "permitdesk/pkg/errors"
	"permitdesk/pkg/filter"
	"permitdesk/pkg/model"
	"permitdesk/pkg/status"
	"permitdesk/pkg/table"
)

// Card is one dashboard tile: a named, pre-seeded filter over the snapshot.
// Cards never accept caller-supplied thresholds; the tunables come from
// service configuration.
type Card struct {
	ID    string `json:"id"`
	Title string `json:"title"`

	build func(cfg filter.Config) *filter.Engine
}

// CardView is a card resolved against the current snapshot.
type CardView struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Count int    `json:"count"`
}

type DashboardService interface {
	Summary(ctx context.Context) (Summary, refresher.Snapshot)
	Cards(ctx context.Context) ([]CardView, refresher.Snapshot)
	CardBookings(ctx context.Context, cardID string) ([]model.Booking, error)
	ExportCard(ctx context.Context, cardID string) ([]map[string]string, error)
	PermitsByProduct(ctx context.Context, onlyConfirmed bool) map[string]int
	ForceRefresh()
}

type dashboardService struct {
	cfg       *config.Config
	refresher *refresher.Refresher
	cards     []Card
}

func NewDashboardService(cfg *config.Config, r *refresher.Refresher) DashboardService {
	return &dashboardService{
		cfg:       cfg,
		refresher: r,
		cards:     defaultCards(),
	}
}

// defaultCards is the fixed card catalogue. Each card owns a fresh engine per
// evaluation so concurrent requests never share filter state.
func defaultCards() []Card {
	return []Card{
		{
			ID:    "top_up_due",
			Title: "Top-Up Due",
			build: func(cfg filter.Config) *filter.Engine {
				e := filter.New(cfg)
				e.SetFlag(filter.KeyTopUpDue, true)
				return e
			},
		},
		{
			ID:    "low_availability",
			Title: "Low Availability",
			build: func(cfg filter.Config) *filter.Engine {
				e := filter.New(cfg)
				e.SetFlag(filter.KeyLowAvailability, true)
				return e
			},
		},
		{
			ID:    "unpaid",
			Title: "Unpaid Bookings",
			build: func(cfg filter.Config) *filter.Engine {
				e := filter.New(cfg)
				e.SetFlag(filter.KeyUnpaid, true)
				return e
			},
		},
		{
			ID:    "awaiting_validation",
			Title: "Awaiting Finance Validation",
			build: func(cfg filter.Config) *filter.Engine {
				e := filter.New(cfg)
				e.SetEnum(filter.KeyBookingStatus, string(status.ValidationRequest))
				return e
			},
		},
		{
			ID:    "do_not_purchase",
			Title: "Do Not Purchase",
			build: func(cfg filter.Config) *filter.Engine {
				e := filter.New(cfg)
				e.SetEnum(filter.KeyValidationStatus, string(status.DoNotPurchase))
				return e
			},
		},
		{
			ID:    "amended",
			Title: "Amended Bookings",
			build: func(cfg filter.Config) *filter.Engine {
				e := filter.New(cfg)
				e.SetEnum(filter.KeyBookingStatus, string(status.Amended))
				return e
			},
		},
	}
}

func (s *dashboardService) filterConfig() filter.Config {
	return filter.Config{
		LowAvailabilitySlots: s.cfg.LowAvailabilitySlots,
		TopUpWindowDays:      s.cfg.TopUpWindowDays,
	}
}

func (s *dashboardService) Summary(_ context.Context) (Summary, refresher.Snapshot) {
	snap := s.refresher.Snapshot()
	return Aggregate(snap.Bookings, s.filterConfig()), snap
}

func (s *dashboardService) Cards(_ context.Context) ([]CardView, refresher.Snapshot) {
	snap := s.refresher.Snapshot()
	views := lo.Map(s.cards, func(c Card, _ int) CardView {
		return CardView{
			ID:    c.ID,
			Title: c.Title,
			Count: len(c.build(s.filterConfig()).Apply(snap.Bookings)),
		}
	})
	return views, snap
}

func (s *dashboardService) CardBookings(_ context.Context, cardID string) ([]model.Booking, error) {
	card, ok := s.findCard(cardID)
	if !ok {
		return nil, apperrors.NotFoundWithID("dashboard card", cardID)
	}
	snap := s.refresher.Snapshot()
	return card.build(s.filterConfig()).Apply(snap.Bookings), nil
}

// exportColumns is the flat record layout shared by every card export.
var exportColumns = []table.Column{
	{Key: "reference", Label: "Reference"},
	{Key: "name", Label: "Name"},
	{Key: "head_of_file", Label: "Head of File"},
	{Key: "agent", Label: "Agent"},
	{Key: "product", Label: "Product"},
	{Key: "trek_date", Label: "Trek Date"},
	{Key: "permits", Label: "Permits"},
	{Key: "total_amount", Label: "Total"},
	{Key: "amount_received", Label: "Received"},
	{Key: "available_slots", Label: "Slots"},
	{Key: "booking_status", Label: "Status"},
	{Key: "payment_status", Label: "Payment"},
	{Key: "validation_status", Label: "Validation"},
}

// ExportCard renders a card's filtered bookings as flat export records.
func (s *dashboardService) ExportCard(_ context.Context, cardID string) ([]map[string]string, error) {
	card, ok := s.findCard(cardID)
	if !ok {
		return nil, apperrors.NotFoundWithID("dashboard card", cardID)
	}
	snap := s.refresher.Snapshot()

	viewport := table.NewViewport(exportColumns, card.build(s.filterConfig()))
	viewport.SetRows(snap.Bookings)
	return viewport.Export(), nil
}

func (s *dashboardService) PermitsByProduct(_ context.Context, onlyConfirmed bool) map[string]int {
	snap := s.refresher.Snapshot()
	var include func(model.Booking) bool
	if onlyConfirmed {
		include = func(b model.Booking) bool {
			return b.BookingStatus == status.Confirmed
		}
	}
	return PermitsByProduct(snap.Bookings, include)
}

func (s *dashboardService) ForceRefresh() {
	s.refresher.ForceRefresh()
}

func (s *dashboardService) findCard(id string) (Card, bool) {
	return lo.Find(s.cards, func(c Card) bool { return c.ID == id })
}
