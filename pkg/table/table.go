// Package table is a generic tabular viewport over a booking collection:
// a column descriptor list, per-column filter inputs backed by the filter
// engine, row selection and flat export records. The composing page supplies
// the columns; the viewport never invents its own.
package table

import (
	"fmt"

	"permitdesk/pkg/filter"
	"permitdesk/pkg/model"
)

// Column describes one rendered column. Render is optional; when nil the
// field value is stringified by key.
type Column struct {
	Key    string
	Label  string
	Render func(model.Booking) string
}

// Viewport owns its row collection exclusively; callers replace rows via
// SetRows (re-fetch), never mutate them in place.
type Viewport struct {
	columns  []Column
	rows     []model.Booking
	engine   *filter.Engine
	selected map[string]bool
}

func NewViewport(columns []Column, engine *filter.Engine) *Viewport {
	return &Viewport{
		columns:  columns,
		engine:   engine,
		selected: make(map[string]bool),
	}
}

func (v *Viewport) Columns() []Column {
	return v.columns
}

// SetRows replaces the backing collection and drops selections that no
// longer resolve to a row.
func (v *Viewport) SetRows(rows []model.Booking) {
	v.rows = rows
	present := make(map[string]bool, len(rows))
	for _, b := range rows {
		present[b.ID] = true
	}
	for id := range v.selected {
		if !present[id] {
			delete(v.selected, id)
		}
	}
}

// SetColumnFilter routes a filter-bar input to the engine by key kind.
// Unknown keys are ignored, matching a filter bar over a closed column set.
func (v *Viewport) SetColumnFilter(key, value string) {
	switch k := filter.Key(key); k {
	case filter.KeyName, filter.KeyReference, filter.KeyHeadOfFile, filter.KeyAgent:
		v.engine.SetText(k, value)
	case filter.KeyProduct, filter.KeyBookingStatus, filter.KeyPaymentStatus, filter.KeyValidationStatus:
		v.engine.SetEnum(k, value)
	case filter.KeyLowAvailability, filter.KeyTopUpDue, filter.KeyUnpaid:
		v.engine.SetFlag(k, value == "true" || value == "1")
	}
}

// ActiveFilterCount drives the filter badge.
func (v *Viewport) ActiveFilterCount() int {
	return v.engine.ActiveCount()
}

// ClearFilters resets the filter bar in one step.
func (v *Viewport) ClearFilters() {
	v.engine.Clear()
}

// Rows returns the filtered view in original order.
func (v *Viewport) Rows() []model.Booking {
	return v.engine.Apply(v.rows)
}

func (v *Viewport) Select(id string)   { v.selected[id] = true }
func (v *Viewport) Deselect(id string) { delete(v.selected, id) }

// SelectedRows returns the selected bookings in view order.
func (v *Viewport) SelectedRows() []model.Booking {
	var out []model.Booking
	for _, b := range v.Rows() {
		if v.selected[b.ID] {
			out = append(out, b)
		}
	}
	return out
}

// Export produces the payload handed to the export collaborator: an ordered
// collection of flat records keyed by column key, with per-column renderers
// applied. No nesting, no circular references.
func (v *Viewport) Export() []map[string]string {
	rows := v.Rows()
	records := make([]map[string]string, 0, len(rows))
	for _, b := range rows {
		record := make(map[string]string, len(v.columns))
		for _, c := range v.columns {
			if c.Render != nil {
				record[c.Key] = c.Render(b)
				continue
			}
			record[c.Key] = defaultCell(b, c.Key)
		}
		records = append(records, record)
	}
	return records
}

func defaultCell(b model.Booking, key string) string {
	switch filter.Key(key) {
	case filter.KeyName:
		return b.Name
	case filter.KeyReference:
		return b.Reference
	case filter.KeyHeadOfFile:
		return b.HeadOfFile
	case filter.KeyAgent:
		return b.Agent
	case filter.KeyProduct:
		return b.Product
	case filter.KeyBookingStatus:
		return string(b.BookingStatus)
	case filter.KeyPaymentStatus:
		return string(b.PaymentStatus)
	case filter.KeyValidationStatus:
		return string(b.ValidationStatus)
	case filter.KeyTrekDate:
		return b.TrekDate.Format("2006-01-02")
	}
	switch key {
	case "id":
		return b.ID
	case "permits":
		return fmt.Sprintf("%d", b.Permits)
	case "unit_cost":
		return fmt.Sprintf("%.2f", b.UnitCost)
	case "total_amount":
		return fmt.Sprintf("%.2f", b.TotalAmount)
	case "amount_received":
		return fmt.Sprintf("%.2f", b.AmountReceived)
	case "available_slots":
		return fmt.Sprintf("%d", b.AvailableSlots)
	}
	return ""
}
