package reports

import (
	"context"
	"time"

	"stockreport/internal/core/id"
	"stockreport/internal/domain/movement"
	"stockreport/internal/domain/period"
)

// Run is the journal entry of one generated report.
type Run struct {
	RunID      id.ID     `json:"runId"`
	ArtifactID string    `json:"artifactId"`
	FileName   string    `json:"fileName"`
	UserID     string    `json:"userId,omitempty"`
	Login      string    `json:"login,omitempty"`
	Params     RunParams `json:"params"`
	Products   int       `json:"products"`
	Months     int       `json:"months"`
	Size       int       `json:"size"`
	CreatedAt  time.Time `json:"createdAt"`
}

// RunParams is the request as it is kept in the journal.
type RunParams struct {
	DateFrom     string            `json:"dateFrom"`
	DateTo       string            `json:"dateTo"`
	ProductIDs   []int64           `json:"productIds,omitempty"`
	CategoryIDs  []int64           `json:"categoryIds,omitempty"`
	WarehouseIDs []int64           `json:"warehouseIds,omitempty"`
	Channels     movement.Channels `json:"channels"`
}

// ParamsOf converts a request for the journal.
func ParamsOf(req Request) RunParams {
	return RunParams{
		DateFrom:     req.DateFrom.Format(period.DateLayout),
		DateTo:       req.DateTo.Format(period.DateLayout),
		ProductIDs:   req.ProductIDs,
		CategoryIDs:  req.CategoryIDs,
		WarehouseIDs: req.WarehouseIDs,
		Channels:     req.Channels,
	}
}

// Journal records generated reports.
type Journal interface {
	Record(ctx context.Context, run Run) error
	// Recent returns the latest runs, newest first.
	Recent(ctx context.Context, limit int) ([]Run, error)
}
