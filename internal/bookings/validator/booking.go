package validator

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "permitdesk/pkg/errors"
	"permitdesk/pkg/model"
	"permitdesk/pkg/status"
)

type BookingValidator struct {
	validate *validator.Validate
}

func NewBookingValidator() *BookingValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation("product", func(fl validator.FieldLevel) bool {
		return model.ValidProduct(fl.Field().String())
	})
	_ = v.RegisterValidation("booking_status", func(fl validator.FieldLevel) bool {
		return status.BookingStatus(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("payment_status", func(fl validator.FieldLevel) bool {
		return status.PaymentStatus(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("validation_status", func(fl validator.FieldLevel) bool {
		return status.ValidationStatus(fl.Field().String()).Valid()
	})

	return &BookingValidator{validate: v}
}

// ValidateCreate checks a new booking: struct tags, tuple coherence and the
// money cross-field rules.
func (bv *BookingValidator) ValidateCreate(booking *model.Booking) error {
	if err := bv.validate.Struct(booking); err != nil {
		return translateValidationErrors(err)
	}
	return bv.validateCrossFields(booking)
}

// ValidateUpdate checks an amendment payload. Only present fields are
// validated; status dimensions are not amendable here.
func (bv *BookingValidator) ValidateUpdate(update *model.BookingUpdate) error {
	if err := bv.validate.Struct(update); err != nil {
		return translateValidationErrors(err)
	}
	if update.TrekDate != nil && update.TrekDate.Before(time.Now().AddDate(0, 0, -1)) {
		return apperrors.Validation("trek_date cannot be in the past", map[string]any{
			"field": "trek_date",
		})
	}
	return nil
}

func (bv *BookingValidator) validateCrossFields(booking *model.Booking) error {
	if err := booking.Tuple().Validate(); err != nil {
		return apperrors.Validation(err.Error(), map[string]any{
			"booking_status":    booking.BookingStatus,
			"payment_status":    booking.PaymentStatus,
			"validation_status": booking.ValidationStatus,
		})
	}

	if booking.PaymentStatus == status.PaymentFullyPaid && booking.AmountReceived < booking.TotalAmount {
		return apperrors.Validation("fully paid booking has outstanding balance", map[string]any{
			"total_amount":    booking.TotalAmount,
			"amount_received": booking.AmountReceived,
		})
	}

	if booking.TrekDate.Before(time.Now().AddDate(0, 0, -1)) {
		return apperrors.Validation("trek_date cannot be in the past", map[string]any{
			"field": "trek_date",
		})
	}

	return nil
}

func translateValidationErrors(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.Validation("invalid booking payload", nil)
	}

	details := make(map[string]any, len(validationErrors))
	var messages []string
	for _, fieldErr := range validationErrors {
		field := strings.ToLower(fieldErr.Field())
		msg := messageForTag(field, fieldErr)
		details[field] = msg
		messages = append(messages, msg)
	}

	return apperrors.Validation(strings.Join(messages, "; "), details)
}

func messageForTag(field string, fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fieldErr.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fieldErr.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fieldErr.Param())
	case "product":
		return fmt.Sprintf("%s is not a recognised product", field)
	case "booking_status", "payment_status", "validation_status":
		return fmt.Sprintf("%s has an unknown value", field)
	case "mongodb":
		return fmt.Sprintf("%s must be a valid object ID", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
