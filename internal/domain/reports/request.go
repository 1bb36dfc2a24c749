// Package reports assembles the monthly stock movement report.
package reports

import (
	"fmt"
	"time"

	"stockreport/internal/core/apperror"
	"stockreport/internal/domain/catalog"
	"stockreport/internal/domain/movement"
	"stockreport/internal/domain/period"
)

// SheetName is the worksheet title of the spreadsheet.
const SheetName = "Stock Movement Report"

// Request holds the wizard parameters. Dates are inclusive calendar days.
type Request struct {
	DateFrom time.Time
	DateTo   time.Time

	// Empty filters select everything.
	ProductIDs   []int64
	CategoryIDs  []int64
	WarehouseIDs []int64

	Channels movement.Channels
}

// DefaultRequest covers January 1st of the current year through today with
// every channel enabled.
func DefaultRequest(now time.Time) Request {
	today := period.Date(now)
	return Request{
		DateFrom: time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC),
		DateTo:   today,
		Channels: movement.AllChannels(),
	}
}

// Validate checks the date range and normalizes both dates to calendar days.
func (r *Request) Validate() error {
	if r.DateFrom.IsZero() || r.DateTo.IsZero() {
		return apperror.NewValidation("dateFrom and dateTo are required")
	}
	r.DateFrom = period.Date(r.DateFrom)
	r.DateTo = period.Date(r.DateTo)
	if r.DateFrom.After(r.DateTo) {
		return apperror.NewInvalidDateRange(r.DateFrom.Format(period.DateLayout), r.DateTo.Format(period.DateLayout))
	}
	return nil
}

// Filter returns the product selection part of the request.
func (r Request) Filter() catalog.Filter {
	return catalog.Filter{ProductIDs: r.ProductIDs, CategoryIDs: r.CategoryIDs}
}

// Title is the heading written above the report.
func (r Request) Title() string {
	return fmt.Sprintf("Stock Movement Report (%s to %s)",
		r.DateFrom.Format(period.DateLayout), r.DateTo.Format(period.DateLayout))
}

// FileName is the download name of the spreadsheet.
func (r Request) FileName() string {
	return fmt.Sprintf("Stock_Movement_Report_%s_%s.xlsx",
		r.DateFrom.Format(period.DateLayout), r.DateTo.Format(period.DateLayout))
}
