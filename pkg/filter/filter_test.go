package filter

import (
	"net/url"
	"testing"
	"time"

	"permitdesk/pkg/model"
	"permitdesk/pkg/status"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testConfig() Config {
	return Config{Now: func() time.Time { return testNow }}
}

func day(offset int) time.Time {
	return testNow.AddDate(0, 0, offset)
}

func fixtureBookings() []model.Booking {
	return []model.Booking{
		{
			ID:               "b1",
			Name:             "Okello Family",
			Reference:        "UWA/2026/001",
			HeadOfFile:       "J. Okello",
			Agent:            "Gorilla Highlands",
			Product:          "Bwindi Gorilla Trekking",
			TrekDate:         day(10),
			Permits:          4,
			AvailableSlots:   12,
			BookingStatus:    status.Confirmed,
			PaymentStatus:    status.PaymentDepositPaid,
			ValidationStatus: status.OkToPurchaseDeposit,
		},
		{
			ID:               "b2",
			Name:             "Smith Party",
			Reference:        "UWA/2026/002",
			HeadOfFile:       "A. Smith",
			Agent:            "Savannah Tours",
			Product:          "Kibale Chimpanzee Tracking",
			TrekDate:         day(90),
			Permits:          2,
			AvailableSlots:   80,
			BookingStatus:    status.Requested,
			PaymentStatus:    status.PaymentPending,
			ValidationStatus: status.ValidationPending,
		},
		{
			ID:               "b3",
			Name:             "Tanaka Group",
			Reference:        "UWA/2026/003",
			HeadOfFile:       "K. Tanaka",
			Agent:            "Savannah Tours",
			Product:          "Bwindi Gorilla Trekking",
			TrekDate:         day(30),
			Permits:          6,
			AvailableSlots:   60,
			BookingStatus:    status.Confirmed,
			PaymentStatus:    status.PaymentFullyPaid,
			ValidationStatus: status.OkToPurchaseFull,
		},
	}
}

func ids(bookings []model.Booking) []string {
	out := make([]string, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, b.ID)
	}
	return out
}

func assertIDs(t *testing.T, got []model.Booking, want ...string) {
	t.Helper()
	gotIDs := ids(got)
	if len(gotIDs) != len(want) {
		t.Fatalf("expected %v, got %v", want, gotIDs)
	}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, gotIDs)
		}
	}
}

func TestApplyEmptyEngineIsIdentity(t *testing.T) {
	e := New(testConfig())
	assertIDs(t, e.Apply(fixtureBookings()), "b1", "b2", "b3")
	if e.ActiveCount() != 0 {
		t.Errorf("expected 0 active filters, got %d", e.ActiveCount())
	}
}

func TestApplyTextFilterCaseInsensitiveSubstring(t *testing.T) {
	e := New(testConfig())
	e.SetText(KeyAgent, "savannah")
	assertIDs(t, e.Apply(fixtureBookings()), "b2", "b3")
}

func TestApplyEnumFilterExactMatch(t *testing.T) {
	e := New(testConfig())
	e.SetEnum(KeyBookingStatus, string(status.Confirmed))
	assertIDs(t, e.Apply(fixtureBookings()), "b1", "b3")
}

func TestApplyCombinesWithAnd(t *testing.T) {
	e := New(testConfig())
	e.SetEnum(KeyProduct, "Bwindi Gorilla Trekking")
	e.SetEnum(KeyPaymentStatus, string(status.PaymentFullyPaid))
	assertIDs(t, e.Apply(fixtureBookings()), "b3")
	if e.ActiveCount() != 2 {
		t.Errorf("expected 2 active filters, got %d", e.ActiveCount())
	}
}

func TestApplyDateRangeBoundsInclusive(t *testing.T) {
	from := day(10)
	to := day(30)
	e := New(testConfig())
	e.SetDateRange(KeyTrekDate, DateRange{From: &from, To: &to})
	assertIDs(t, e.Apply(fixtureBookings()), "b1", "b3")
}

func TestApplyIsIdempotent(t *testing.T) {
	e := New(testConfig())
	e.SetText(KeyAgent, "Savannah")
	once := e.Apply(fixtureBookings())
	twice := e.Apply(once)
	assertIDs(t, twice, ids(once)...)
}

func TestSetTextEmptyClearsFilter(t *testing.T) {
	e := New(testConfig())
	e.SetText(KeyName, "Okello")
	e.SetText(KeyName, "   ")
	if e.ActiveCount() != 0 {
		t.Errorf("expected empty value to clear the filter, count=%d", e.ActiveCount())
	}
}

func TestClearResetsEverything(t *testing.T) {
	e := New(testConfig())
	e.SetText(KeyName, "Okello")
	e.SetEnum(KeyProduct, "Bwindi Gorilla Trekking")
	e.SetFlag(KeyUnpaid, true)
	e.Clear()
	if e.ActiveCount() != 0 {
		t.Errorf("expected 0 after clear, got %d", e.ActiveCount())
	}
	assertIDs(t, e.Apply(fixtureBookings()), "b1", "b2", "b3")
}

func TestLowAvailabilityFlagUsesConfiguredThreshold(t *testing.T) {
	e := New(Config{Now: func() time.Time { return testNow }, LowAvailabilitySlots: 70})
	e.SetFlag(KeyLowAvailability, true)
	assertIDs(t, e.Apply(fixtureBookings()), "b1", "b3")

	e = New(testConfig()) // default threshold of 40
	e.SetFlag(KeyLowAvailability, true)
	assertIDs(t, e.Apply(fixtureBookings()), "b1")
}

func TestUnpaidFlag(t *testing.T) {
	e := New(testConfig())
	e.SetFlag(KeyUnpaid, true)
	assertIDs(t, e.Apply(fixtureBookings()), "b1", "b2")
}

func TestTopUpDueFlag(t *testing.T) {
	// b1 is 10 days out with only a deposit paid, b2 is 90 days out, b3 is
	// inside the window but fully paid.
	e := New(testConfig())
	e.SetFlag(KeyTopUpDue, true)
	assertIDs(t, e.Apply(fixtureBookings()), "b1")
}

func TestFromValues(t *testing.T) {
	values := url.Values{}
	values.Set("agent", "savannah")
	values.Set("booking_status", string(status.Confirmed))
	values.Set("trek_date_from", day(20).Format("2006-01-02"))
	values.Set("payment_status", string(status.PaymentFullyPaid))
	values.Set("bogus", "ignored")

	e := FromValues(testConfig(), values)
	if e.ActiveCount() != 4 {
		t.Errorf("expected 4 active filters, got %d", e.ActiveCount())
	}
	assertIDs(t, e.Apply(fixtureBookings()), "b3")
}

func TestFromValuesEmptyQuery(t *testing.T) {
	e := FromValues(testConfig(), url.Values{})
	if e.ActiveCount() != 0 {
		t.Errorf("expected 0 active filters, got %d", e.ActiveCount())
	}
}
