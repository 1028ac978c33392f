// Package filter composes named boolean predicates over a booking collection
// into a single AND filter. Every dashboard card, table filter bar and
// filtered list view goes through the same engine so thresholds like "low
// availability" can never diverge between pages.
package filter

import (
	"strings"
	"time"

	"github.com/samber/lo"

	"permitdesk/pkg/model"
)

// Key is a filter key. The set is closed: booking field names plus the
// synthetic predicates.
type Key string

const (
	KeyName             Key = "name"
	KeyReference        Key = "reference"
	KeyHeadOfFile       Key = "head_of_file"
	KeyAgent            Key = "agent"
	KeyProduct          Key = "product"
	KeyBookingStatus    Key = "booking_status"
	KeyPaymentStatus    Key = "payment_status"
	KeyValidationStatus Key = "validation_status"
	KeyTrekDate         Key = "trek_date"

	KeyLowAvailability Key = "low_availability"
	KeyTopUpDue        Key = "top_up_due"
	KeyUnpaid          Key = "unpaid"
)

// Fixed predicate thresholds. Named constants so every consumer claims the
// same "low availability" and "top-up due" semantics.
const (
	DefaultLowAvailabilitySlots = 40
	DefaultTopUpWindowDays      = 45
)

// DateRange bounds are inclusive; a nil bound is unbounded on that side.
type DateRange struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

func (r DateRange) empty() bool {
	return r.From == nil && r.To == nil
}

// Config carries the tunables the synthetic predicates depend on. Now is
// injectable so window tests are deterministic.
type Config struct {
	Now                  func() time.Time
	LowAvailabilitySlots int
	TopUpWindowDays      int
}

func (c Config) withDefaults() Config {
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.LowAvailabilitySlots == 0 {
		c.LowAvailabilitySlots = DefaultLowAvailabilitySlots
	}
	if c.TopUpWindowDays == 0 {
		c.TopUpWindowDays = DefaultTopUpWindowDays
	}
	return c
}

// Engine holds the current filter configuration. An empty or absent filter is
// always satisfied; active filters combine with logical AND. Filtering is
// stable: input order is preserved.
type Engine struct {
	cfg   Config
	text  map[Key]string
	enum  map[Key]string
	dates map[Key]DateRange
	flags map[Key]bool
}

func New(cfg Config) *Engine {
	return &Engine{
		cfg:   cfg.withDefaults(),
		text:  make(map[Key]string),
		enum:  make(map[Key]string),
		dates: make(map[Key]DateRange),
		flags: make(map[Key]bool),
	}
}

// SetText sets a case-insensitive substring filter on a free-text field.
func (e *Engine) SetText(key Key, value string) {
	if strings.TrimSpace(value) == "" {
		delete(e.text, key)
		return
	}
	e.text[key] = value
}

// SetEnum sets an exact-match filter on an enum-valued field.
func (e *Engine) SetEnum(key Key, value string) {
	if value == "" {
		delete(e.enum, key)
		return
	}
	e.enum[key] = value
}

// SetDateRange sets an inclusive date-range filter.
func (e *Engine) SetDateRange(key Key, r DateRange) {
	if r.empty() {
		delete(e.dates, key)
		return
	}
	e.dates[key] = r
}

// SetFlag switches one of the fixed synthetic predicates on or off.
func (e *Engine) SetFlag(key Key, on bool) {
	if !on {
		delete(e.flags, key)
		return
	}
	e.flags[key] = true
}

// ActiveCount is the number of non-empty filters, used to drive UI badges.
func (e *Engine) ActiveCount() int {
	return len(e.text) + len(e.enum) + len(e.dates) + len(e.flags)
}

// Clear resets every filter in one step.
func (e *Engine) Clear() {
	e.text = make(map[Key]string)
	e.enum = make(map[Key]string)
	e.dates = make(map[Key]DateRange)
	e.flags = make(map[Key]bool)
}

// Apply returns the subset of bookings satisfying every active filter, in the
// input collection's original relative order.
func (e *Engine) Apply(bookings []model.Booking) []model.Booking {
	if e.ActiveCount() == 0 {
		return bookings
	}
	return lo.Filter(bookings, func(b model.Booking, _ int) bool {
		return e.matches(b)
	})
}

func (e *Engine) matches(b model.Booking) bool {
	for key, want := range e.text {
		if !strings.Contains(strings.ToLower(textField(b, key)), strings.ToLower(want)) {
			return false
		}
	}
	for key, want := range e.enum {
		if enumField(b, key) != want {
			return false
		}
	}
	for key, r := range e.dates {
		if !inRange(dateField(b, key), r) {
			return false
		}
	}
	for key := range e.flags {
		if !e.fixedPredicate(key, b) {
			return false
		}
	}
	return true
}

func inRange(t time.Time, r DateRange) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && t.After(*r.To) {
		return false
	}
	return true
}

func textField(b model.Booking, key Key) string {
	switch key {
	case KeyName:
		return b.Name
	case KeyReference:
		return b.Reference
	case KeyHeadOfFile:
		return b.HeadOfFile
	case KeyAgent:
		return b.Agent
	}
	return ""
}

func enumField(b model.Booking, key Key) string {
	switch key {
	case KeyProduct:
		return b.Product
	case KeyBookingStatus:
		return string(b.BookingStatus)
	case KeyPaymentStatus:
		return string(b.PaymentStatus)
	case KeyValidationStatus:
		return string(b.ValidationStatus)
	}
	return ""
}

func dateField(b model.Booking, key Key) time.Time {
	switch key {
	case KeyTrekDate:
		return b.TrekDate
	}
	return time.Time{}
}
