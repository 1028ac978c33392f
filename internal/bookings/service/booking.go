package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "permitdesk/internal/bookings/errors"
	"permitdesk/internal/bookings/repository"
	bookingvalidator "permitdesk/internal/bookings/validator"
	"permitdesk/pkg/config"
	apperrors "permitdesk/pkg/errors"
	"permitdesk/pkg/filter"
	"permitdesk/pkg/kafka"
	"permitdesk/pkg/model"
	"permitdesk/pkg/sanitizer"
	"permitdesk/pkg/status"
)

// EventPublisher abstracts the Kafka producer so the service is testable
// without brokers.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// AvailabilitySource resolves open capacity for a product and trekking date.
type AvailabilitySource interface {
	Slots(ctx context.Context, product string, trekDate time.Time) (int, error)
}

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	Search(ctx context.Context, eng *filter.Engine) ([]model.Booking, error)
	Update(ctx context.Context, id string, update *model.BookingUpdate) (*model.Booking, error)
	Delete(ctx context.Context, id string) error
	Actions(ctx context.Context, id string, role status.Role) ([]status.Action, error)
	ApplyAction(ctx context.Context, id string, role status.Role, actionID string) (*model.Booking, error)
	RecordPayment(ctx context.Context, id string, amount float64) (*model.Booking, error)
}

type bookingService struct {
	cfg          *config.Config
	repo         repository.BookingRepository
	holds        repository.HoldLockRepository
	validator    *bookingvalidator.BookingValidator
	publisher    EventPublisher
	availability AvailabilitySource
}

func NewBookingService(
	cfg *config.Config,
	repo repository.BookingRepository,
	holds repository.HoldLockRepository,
	validator *bookingvalidator.BookingValidator,
	publisher EventPublisher,
	availability AvailabilitySource,
) BookingService {
	return &bookingService{
		cfg:          cfg,
		repo:         repo,
		holds:        holds,
		validator:    validator,
		publisher:    publisher,
		availability: availability,
	}
}

// Create validates and stores a new booking. New bookings always start at the
// initial tuple; the capacity check runs against whatever slot count is known
// at creation time, with a slot hold preventing concurrent creations from
// double-counting the same capacity.
func (s *bookingService) Create(ctx context.Context, booking *model.Booking) (*model.Booking, error) {
	s.sanitize(booking)

	booking.SetTuple(status.Initial())
	if booking.TotalAmount == 0 && booking.UnitCost > 0 {
		booking.TotalAmount = booking.UnitCost * float64(booking.Permits)
	}

	if booking.AvailableSlots == 0 && s.availability != nil {
		slots, err := s.availability.Slots(ctx, booking.Product, booking.TrekDate)
		if err != nil {
			s.cfg.Log.Warn("Availability lookup failed, creating without capacity check",
				"product", booking.Product,
				"error", err,
			)
		} else {
			booking.AvailableSlots = slots
		}
	}

	if err := s.validator.ValidateCreate(booking); err != nil {
		return nil, err
	}

	if s.holds != nil {
		if err := s.holds.Acquire(ctx, booking.Product, booking.TrekDate); err != nil {
			if errors.Is(err, bookingserrors.ErrHoldContested) {
				return nil, apperrors.Conflict("another booking is being created for this slot, retry shortly")
			}
			return nil, apperrors.Internal("failed to acquire slot hold", err)
		}
		defer func() {
			if err := s.holds.Release(context.WithoutCancel(ctx), booking.Product, booking.TrekDate); err != nil {
				s.cfg.Log.Warn("Failed to release slot hold", "error", err)
			}
		}()
	}

	if booking.AvailableSlots > 0 && booking.Permits > booking.AvailableSlots {
		return nil, apperrors.Conflict(bookingserrors.ErrSlotsExceeded.Error()).WithDetails(map[string]any{
			"permits":         booking.Permits,
			"available_slots": booking.AvailableSlots,
		})
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, apperrors.Internal("failed to create booking", err)
	}

	s.publish(ctx, model.EventBookingCreated, booking.ID, model.BookingStatusChanged{
		BookingID: booking.ID,
		From:      status.Initial(),
		To:        booking.Tuple(),
		At:        time.Now().UTC(),
	})

	s.cfg.Log.Info("Booking created",
		"booking_id", booking.ID,
		"product", booking.Product,
		"permits", booking.Permits,
	)
	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, id)
	}
	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	bookings, err := s.repo.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to list bookings", err)
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to count bookings", err)
	}
	return bookings, total, nil
}

// Search applies a filter engine to the full collection, preserving the
// repository's trek-date ordering.
func (s *bookingService) Search(ctx context.Context, eng *filter.Engine) ([]model.Booking, error) {
	snapshot, err := s.repo.Snapshot(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to load bookings", err)
	}
	return eng.Apply(snapshot), nil
}

// Update amends descriptive fields only. The status tuple is untouched:
// lifecycle changes go through ApplyAction, payment through RecordPayment.
func (s *bookingService) Update(ctx context.Context, id string, update *model.BookingUpdate) (*model.Booking, error) {
	if err := s.validator.ValidateUpdate(update); err != nil {
		return nil, err
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, id)
	}

	if update.Name != "" {
		booking.Name = sanitizer.NormalizeText(update.Name)
	}
	if update.HeadOfFile != "" {
		booking.HeadOfFile = sanitizer.NormalizeText(update.HeadOfFile)
	}
	if update.Agent != "" {
		booking.Agent = sanitizer.NormalizeText(update.Agent)
	}
	if update.Product != "" {
		booking.Product = update.Product
	}
	if update.TrekDate != nil {
		booking.TrekDate = *update.TrekDate
	}
	if update.Permits != nil {
		booking.Permits = *update.Permits
	}
	if update.UnitCost != nil {
		booking.UnitCost = *update.UnitCost
		booking.TotalAmount = booking.UnitCost * float64(booking.Permits)
	} else if update.Permits != nil && booking.UnitCost > 0 {
		booking.TotalAmount = booking.UnitCost * float64(booking.Permits)
	}

	if _, err := s.repo.Update(ctx, id, booking); err != nil {
		return nil, mapRepoError(err, id)
	}
	return booking, nil
}

func (s *bookingService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepoError(err, id)
	}
	s.cfg.Log.Info("Booking deleted", "booking_id", id)
	return nil
}

// Actions returns the legal next actions for the acting role. An empty set is
// a normal answer (viewer role, terminal booking), not an error.
func (s *bookingService) Actions(ctx context.Context, id string, role status.Role) ([]status.Action, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, id)
	}
	return status.ActionsFor(booking.Tuple(), role), nil
}

// ApplyAction runs one gate-approved transition. The read, gate decision and
// write share a transaction, so a stale caller gets an invalid-transition
// conflict rather than a silently re-applied action.
func (s *bookingService) ApplyAction(ctx context.Context, id string, role status.Role, actionID string) (*model.Booking, error) {
	var booking *model.Booking
	var from status.Tuple
	var action status.Action

	txErr := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		var err error
		booking, err = s.repo.FindByID(sessCtx, id)
		if err != nil {
			return mapRepoError(err, id)
		}

		from = booking.Tuple()
		action, err = status.Resolve(from, role, actionID)
		if err != nil {
			switch {
			case errors.Is(err, status.ErrPermissionDenied):
				return apperrors.PermissionDenied(actionID, string(role))
			case errors.Is(err, status.ErrInvalidTransition):
				return apperrors.InvalidTransition(actionID, string(from.Booking))
			default:
				return apperrors.Internal("failed to resolve action", err)
			}
		}

		if err := action.Next.Validate(); err != nil {
			s.cfg.Log.Error("Gate produced an invalid tuple",
				"booking_id", id,
				"action", actionID,
				"error", err,
			)
			return apperrors.InvariantViolation("transition produced an inconsistent status", err)
		}

		booking.SetTuple(action.Next)
		if _, err := s.repo.Update(sessCtx, id, booking); err != nil {
			return mapRepoError(err, id)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.publish(ctx, model.EventBookingStatusChanged, booking.ID, model.BookingStatusChanged{
		BookingID: booking.ID,
		Action:    actionID,
		Actor:     role,
		From:      from,
		To:        action.Next,
		At:        time.Now().UTC(),
	})

	s.cfg.Log.Info("Booking transition applied",
		"booking_id", id,
		"action", actionID,
		"actor", role,
		"from", from.Booking,
		"to", action.Next.Booking,
	)
	return booking, nil
}

// RecordPayment adds a received amount and rederives the payment status.
// Overpayment is flagged, never clamped. Cancelled payments stay cancelled.
func (s *bookingService) RecordPayment(ctx context.Context, id string, amount float64) (*model.Booking, error) {
	if amount <= 0 {
		return nil, apperrors.InvalidInput("payment amount must be positive")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, id)
	}

	if booking.PaymentStatus == status.PaymentCancelled {
		return nil, apperrors.Conflict(bookingserrors.ErrPaymentClosed.Error())
	}

	from := booking.Tuple()
	booking.AmountReceived += amount
	derived, overpaid := status.RecomputePayment(booking.TotalAmount, booking.AmountReceived, s.cfg.DepositFraction)
	booking.PaymentStatus = derived
	booking.Overpaid = overpaid

	if overpaid {
		s.cfg.Log.Warn("Booking overpaid",
			"booking_id", id,
			"total_amount", booking.TotalAmount,
			"amount_received", booking.AmountReceived,
		)
	}

	if _, err := s.repo.Update(ctx, id, booking); err != nil {
		return nil, mapRepoError(err, id)
	}

	if from.Payment != booking.PaymentStatus {
		s.publish(ctx, model.EventBookingStatusChanged, booking.ID, model.BookingStatusChanged{
			BookingID: booking.ID,
			From:      from,
			To:        booking.Tuple(),
			At:        time.Now().UTC(),
		})
	}
	return booking, nil
}

func (s *bookingService) sanitize(booking *model.Booking) {
	booking.Name = sanitizer.NormalizeText(booking.Name)
	booking.Reference = sanitizer.NormalizeReference(booking.Reference)
	booking.HeadOfFile = sanitizer.NormalizeText(booking.HeadOfFile)
	booking.Agent = sanitizer.NormalizeText(booking.Agent)
}

// publish sends an event without failing the request. The write already
// committed; a broker outage degrades downstream freshness, not correctness.
func (s *bookingService) publish(ctx context.Context, eventType, key string, payload any) {
	if s.publisher == nil {
		return
	}
	msg := kafka.NewMessage().
		WithKey(key).
		WithValue(payload).
		WithEventID("").
		WithEventType(eventType).
		WithSource("bookings").
		Build()
	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.cfg.Log.Error("Failed to publish event",
			"event_type", eventType,
			"key", key,
			"error", err,
		)
	}
}

func mapRepoError(err error, id string) error {
	switch {
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("booking", id)
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput("invalid booking ID: " + id)
	default:
		return apperrors.Internal("booking storage operation failed", err)
	}
}
