// Package status models the three booking status dimensions (lifecycle stage,
// payment state, finance-validation verdict) and resolves the role-gated
// transitions between them. Everything here is pure: the same inputs always
// produce the same outputs, and no ambient session state is consulted.
package status

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition  = errors.New("action not valid for current booking status")
	ErrPermissionDenied   = errors.New("role not authorized for action")
	ErrInvariantViolation = errors.New("status tuple violates booking invariants")
)

// BookingStatus is the lifecycle stage of a booking, the primary
// state-machine dimension.
type BookingStatus string

const (
	Provisional       BookingStatus = "provisional"
	Requested         BookingStatus = "requested"
	ValidationRequest BookingStatus = "validation_request"
	Confirmed         BookingStatus = "confirmed"
	Rejected          BookingStatus = "rejected"
	Amended           BookingStatus = "amended"
)

var BookingStatuses = []BookingStatus{
	Provisional, Requested, ValidationRequest, Confirmed, Rejected, Amended,
}

func (s BookingStatus) Valid() bool {
	switch s {
	case Provisional, Requested, ValidationRequest, Confirmed, Rejected, Amended:
		return true
	}
	return false
}

// IsTerminal reports whether no further lifecycle transition is legal.
func (s BookingStatus) IsTerminal() bool {
	return s == Rejected
}

// PaymentStatus describes money received against the booking total. It is an
// independent axis: it evolves through payment recording, not lifecycle
// transitions, except for the reject -> cancelled coupling.
type PaymentStatus string

const (
	PaymentPending        PaymentStatus = "pending"
	PaymentPartial        PaymentStatus = "partial"
	PaymentDepositPaid    PaymentStatus = "deposit_paid"
	PaymentFullyPaid      PaymentStatus = "fully_paid"
	PaymentOverdue        PaymentStatus = "overdue"
	PaymentAuthorized     PaymentStatus = "authorized"
	PaymentRollingDeposit PaymentStatus = "rolling_deposit"
	PaymentCancelled      PaymentStatus = "cancelled"
)

var PaymentStatuses = []PaymentStatus{
	PaymentPending, PaymentPartial, PaymentDepositPaid, PaymentFullyPaid,
	PaymentOverdue, PaymentAuthorized, PaymentRollingDeposit, PaymentCancelled,
}

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPartial, PaymentDepositPaid, PaymentFullyPaid,
		PaymentOverdue, PaymentAuthorized, PaymentRollingDeposit, PaymentCancelled:
		return true
	}
	return false
}

// ValidationStatus is the verdict issued by a finance role on whether a
// booking may proceed to permit purchase.
type ValidationStatus string

const (
	ValidationPending   ValidationStatus = "pending"
	OkToPurchaseFull    ValidationStatus = "ok_to_purchase_full"
	OkToPurchaseDeposit ValidationStatus = "ok_to_purchase_deposit"
	DoNotPurchase       ValidationStatus = "do_not_purchase"
)

var ValidationStatuses = []ValidationStatus{
	ValidationPending, OkToPurchaseFull, OkToPurchaseDeposit, DoNotPurchase,
}

func (s ValidationStatus) Valid() bool {
	switch s {
	case ValidationPending, OkToPurchaseFull, OkToPurchaseDeposit, DoNotPurchase:
		return true
	}
	return false
}

// Role is the acting role resolved once at the request boundary and passed
// down explicitly.
type Role string

const (
	RoleUser         Role = "user"
	RoleAdmin        Role = "admin"
	RoleFinanceAdmin Role = "finance_admin"
	RoleViewer       Role = "viewer"
)

var Roles = []Role{RoleUser, RoleAdmin, RoleFinanceAdmin, RoleViewer}

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleFinanceAdmin, RoleViewer:
		return true
	}
	return false
}

// Tuple is the immutable three-dimensional status of a booking. A booking
// carries exactly one value per dimension at all times.
type Tuple struct {
	Booking    BookingStatus    `json:"booking_status" bson:"booking_status"`
	Payment    PaymentStatus    `json:"payment_status" bson:"payment_status"`
	Validation ValidationStatus `json:"validation_status" bson:"validation_status"`
}

// Initial is the tuple every booking is created with: a provisional hold with
// nothing paid and no verdict.
func Initial() Tuple {
	return Tuple{
		Booking:    Provisional,
		Payment:    PaymentPending,
		Validation: ValidationPending,
	}
}

// verdictStages are the lifecycle stages on which a finance verdict may rest.
// Amended is included because amending a confirmed booking retains the
// verdict until re-validation.
func verdictStage(s BookingStatus) bool {
	return s == ValidationRequest || s == Confirmed || s == Amended
}

// Validate checks the compatibility invariants between the three dimensions.
// The returned error wraps ErrInvariantViolation.
func (t Tuple) Validate() error {
	if !t.Booking.Valid() {
		return fmt.Errorf("%w: unknown booking_status %q", ErrInvariantViolation, t.Booking)
	}
	if !t.Payment.Valid() {
		return fmt.Errorf("%w: unknown payment_status %q", ErrInvariantViolation, t.Payment)
	}
	if !t.Validation.Valid() {
		return fmt.Errorf("%w: unknown validation_status %q", ErrInvariantViolation, t.Validation)
	}
	if t.Validation != ValidationPending && !verdictStage(t.Booking) {
		return fmt.Errorf("%w: verdict %q attached to %q booking", ErrInvariantViolation, t.Validation, t.Booking)
	}
	return nil
}
