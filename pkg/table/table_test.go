package table

import (
	"testing"
	"time"

	"permitdesk/pkg/filter"
	"permitdesk/pkg/model"
	"permitdesk/pkg/status"
)

func testRows() []model.Booking {
	trek := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	return []model.Booking{
		{
			ID:            "b1",
			Name:          "Okello Family",
			Reference:     "UWA/2026/001",
			Agent:         "Gorilla Highlands",
			Product:       "Bwindi Gorilla Trekking",
			TrekDate:      trek,
			Permits:       4,
			TotalAmount:   2800,
			BookingStatus: status.Confirmed,
			PaymentStatus: status.PaymentDepositPaid,
		},
		{
			ID:            "b2",
			Name:          "Smith Party",
			Reference:     "UWA/2026/002",
			Agent:         "Savannah Tours",
			Product:       "Kibale Chimpanzee Tracking",
			TrekDate:      trek.AddDate(0, 1, 0),
			Permits:       2,
			TotalAmount:   500,
			BookingStatus: status.Requested,
			PaymentStatus: status.PaymentPending,
		},
	}
}

func newTestViewport(columns []Column) *Viewport {
	return NewViewport(columns, filter.New(filter.Config{}))
}

func TestRowsUnfiltered(t *testing.T) {
	v := newTestViewport(nil)
	v.SetRows(testRows())

	rows := v.Rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].ID != "b1" || rows[1].ID != "b2" {
		t.Errorf("row order changed: %s, %s", rows[0].ID, rows[1].ID)
	}
}

func TestSetColumnFilterRoutesByKind(t *testing.T) {
	v := newTestViewport(nil)
	v.SetRows(testRows())

	v.SetColumnFilter("agent", "savannah")
	if got := v.Rows(); len(got) != 1 || got[0].ID != "b2" {
		t.Fatalf("text filter failed: %+v", got)
	}

	v.ClearFilters()
	v.SetColumnFilter("booking_status", string(status.Confirmed))
	if got := v.Rows(); len(got) != 1 || got[0].ID != "b1" {
		t.Fatalf("enum filter failed: %+v", got)
	}

	v.ClearFilters()
	v.SetColumnFilter("unpaid", "true")
	if got := v.Rows(); len(got) != 2 {
		t.Fatalf("flag filter failed: %+v", got)
	}

	v.SetColumnFilter("no_such_column", "x")
	if v.ActiveFilterCount() != 1 {
		t.Errorf("unknown key should be ignored, count=%d", v.ActiveFilterCount())
	}
}

func TestClearFiltersRestoresAllRows(t *testing.T) {
	v := newTestViewport(nil)
	v.SetRows(testRows())
	v.SetColumnFilter("name", "Okello")
	if len(v.Rows()) != 1 {
		t.Fatal("filter did not apply")
	}

	v.ClearFilters()
	if len(v.Rows()) != 2 {
		t.Error("clear did not restore all rows")
	}
	if v.ActiveFilterCount() != 0 {
		t.Errorf("expected 0 active filters, got %d", v.ActiveFilterCount())
	}
}

func TestSelectionSurvivesFilteringNotRowReplacement(t *testing.T) {
	v := newTestViewport(nil)
	v.SetRows(testRows())
	v.Select("b1")
	v.Select("b2")

	v.SetColumnFilter("name", "Okello")
	selected := v.SelectedRows()
	if len(selected) != 1 || selected[0].ID != "b1" {
		t.Fatalf("expected only visible selected rows, got %+v", selected)
	}

	// Replacing rows drops selections that no longer resolve.
	v.ClearFilters()
	v.SetRows(testRows()[:1])
	selected = v.SelectedRows()
	if len(selected) != 1 || selected[0].ID != "b1" {
		t.Errorf("stale selection not dropped: %+v", selected)
	}

	v.Deselect("b1")
	if len(v.SelectedRows()) != 0 {
		t.Error("deselect did not remove the row")
	}
}

func TestExportFlatRecords(t *testing.T) {
	columns := []Column{
		{Key: "reference", Label: "Reference"},
		{Key: "trek_date", Label: "Trek Date"},
		{Key: "permits", Label: "Permits"},
		{Key: "total_amount", Label: "Total"},
	}
	v := newTestViewport(columns)
	v.SetRows(testRows())

	records := v.Export()
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	first := records[0]
	if first["reference"] != "UWA/2026/001" {
		t.Errorf("unexpected reference: %q", first["reference"])
	}
	if first["trek_date"] != "2026-06-15" {
		t.Errorf("unexpected trek_date: %q", first["trek_date"])
	}
	if first["permits"] != "4" {
		t.Errorf("unexpected permits: %q", first["permits"])
	}
	if first["total_amount"] != "2800.00" {
		t.Errorf("unexpected total_amount: %q", first["total_amount"])
	}
}

func TestExportAppliesCustomRenderer(t *testing.T) {
	columns := []Column{
		{
			Key:   "payment_status",
			Label: "Payment",
			Render: func(b model.Booking) string {
				if b.PaymentStatus == status.PaymentDepositPaid {
					return "DEPOSIT"
				}
				return string(b.PaymentStatus)
			},
		},
	}
	v := newTestViewport(columns)
	v.SetRows(testRows())

	records := v.Export()
	if records[0]["payment_status"] != "DEPOSIT" {
		t.Errorf("renderer not applied: %q", records[0]["payment_status"])
	}
	if records[1]["payment_status"] != string(status.PaymentPending) {
		t.Errorf("unexpected fallthrough value: %q", records[1]["payment_status"])
	}
}

func TestExportRespectsActiveFilters(t *testing.T) {
	v := newTestViewport([]Column{{Key: "reference", Label: "Reference"}})
	v.SetRows(testRows())
	v.SetColumnFilter("agent", "savannah")

	records := v.Export()
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0]["reference"] != "UWA/2026/002" {
		t.Errorf("unexpected record: %+v", records[0])
	}
}
