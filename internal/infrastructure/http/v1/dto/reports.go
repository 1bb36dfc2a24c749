package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"stockreport/internal/core/apperror"
	"stockreport/internal/domain/period"
	"stockreport/internal/domain/reports"
)

// --- Stock Movement Report ---

// StockMovementRequest is the wizard form. Missing fields take the wizard
// defaults.
type StockMovementRequest struct {
	DateFrom         string  `json:"dateFrom"`
	DateTo           string  `json:"dateTo"`
	ProductIDs       []int64 `json:"productIds"`
	CategoryIDs      []int64 `json:"categoryIds"`
	WarehouseIDs     []int64 `json:"warehouseIds"`
	IncludePurchases *bool   `json:"includePurchases"`
	IncludeSales     *bool   `json:"includeSales"`
	IncludePOS       *bool   `json:"includePos"`
}

// ToRequest overlays the form on defaults.
func (r StockMovementRequest) ToRequest(defaults reports.Request) (reports.Request, error) {
	req := defaults
	var err error
	if r.DateFrom != "" {
		if req.DateFrom, err = parseDate("dateFrom", r.DateFrom); err != nil {
			return reports.Request{}, err
		}
	}
	if r.DateTo != "" {
		if req.DateTo, err = parseDate("dateTo", r.DateTo); err != nil {
			return reports.Request{}, err
		}
	}
	req.ProductIDs = r.ProductIDs
	req.CategoryIDs = r.CategoryIDs
	req.WarehouseIDs = r.WarehouseIDs
	if r.IncludePurchases != nil {
		req.Channels.Purchases = *r.IncludePurchases
	}
	if r.IncludeSales != nil {
		req.Channels.Sales = *r.IncludeSales
	}
	if r.IncludePOS != nil {
		req.Channels.POS = *r.IncludePOS
	}
	return req, nil
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(period.DateLayout, value)
	if err != nil {
		return time.Time{}, apperror.NewValidation("invalid date, expected YYYY-MM-DD").
			WithDetail("field", field).
			WithDetail("value", value)
	}
	return t, nil
}

// StockMovementDefaults is the initial wizard state.
type StockMovementDefaults struct {
	DateFrom         string `json:"dateFrom"`
	DateTo           string `json:"dateTo"`
	IncludePurchases bool   `json:"includePurchases"`
	IncludeSales     bool   `json:"includeSales"`
	IncludePOS       bool   `json:"includePos"`
}

// FromDefaults converts the default request.
func FromDefaults(r reports.Request) StockMovementDefaults {
	return StockMovementDefaults{
		DateFrom:         r.DateFrom.Format(period.DateLayout),
		DateTo:           r.DateTo.Format(period.DateLayout),
		IncludePurchases: r.Channels.Purchases,
		IncludeSales:     r.Channels.Sales,
		IncludePOS:       r.Channels.POS,
	}
}

// StockMovementResult is returned after a report file was generated.
type StockMovementResult struct {
	RunID      string    `json:"runId"`
	ArtifactID string    `json:"artifactId"`
	FileName   string    `json:"fileName"`
	URL        string    `json:"url"`
	Size       int       `json:"size"`
	Products   int       `json:"products"`
	Months     int       `json:"months"`
	CreatedAt  time.Time `json:"createdAt"`
}

// FromResult converts a generation result.
func FromResult(r *reports.Result) StockMovementResult {
	return StockMovementResult{
		RunID:      r.RunID.String(),
		ArtifactID: r.ArtifactID,
		FileName:   r.FileName,
		URL:        r.URL,
		Size:       r.Size,
		Products:   r.Products,
		Months:     r.Months,
		CreatedAt:  r.CreatedAt,
	}
}

// StockMovementRun is a journal entry.
type StockMovementRun struct {
	RunID      string            `json:"runId"`
	ArtifactID string            `json:"artifactId"`
	FileName   string            `json:"fileName"`
	Login      string            `json:"login,omitempty"`
	Params     reports.RunParams `json:"params"`
	Size       int               `json:"size"`
	Products   int               `json:"products"`
	Months     int               `json:"months"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// FromRuns converts journal entries.
func FromRuns(runs []reports.Run) []StockMovementRun {
	out := make([]StockMovementRun, len(runs))
	for i, r := range runs {
		out[i] = StockMovementRun{
			RunID:      r.RunID.String(),
			ArtifactID: r.ArtifactID,
			FileName:   r.FileName,
			Login:      r.Login,
			Params:     r.Params,
			Size:       r.Size,
			Products:   r.Products,
			Months:     r.Months,
			CreatedAt:  r.CreatedAt,
		}
	}
	return out
}

// ColumnResponse is a sub-column header.
type ColumnResponse struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Kind  string `json:"kind"`
}

// GroupResponse is a top-level header.
type GroupResponse struct {
	Label   string           `json:"label"`
	Summary bool             `json:"summary"`
	Columns []ColumnResponse `json:"columns"`
}

// RowResponse is one product line with its cells in column order.
type RowResponse struct {
	ProductID int64             `json:"productId"`
	Name      string            `json:"name"`
	Cells     []decimal.Decimal `json:"cells"`
}

// StockMovementPreview is the report matrix as JSON.
type StockMovementPreview struct {
	Title    string          `json:"title"`
	FileName string          `json:"fileName"`
	DateFrom string          `json:"dateFrom"`
	DateTo   string          `json:"dateTo"`
	Groups   []GroupResponse `json:"groups"`
	Rows     []RowResponse   `json:"rows"`
}

// FromMatrix converts a report matrix.
func FromMatrix(m *reports.Matrix) StockMovementPreview {
	resp := StockMovementPreview{
		Title:    m.Title,
		FileName: m.FileName,
		DateFrom: m.DateFrom.Format(period.DateLayout),
		DateTo:   m.DateTo.Format(period.DateLayout),
		Rows:     make([]RowResponse, len(m.Rows)),
	}

	for _, g := range m.Groups() {
		group := GroupResponse{Label: g.Label, Summary: g.Kind == reports.GroupYear}
		for _, col := range g.Columns {
			group.Columns = append(group.Columns, ColumnResponse{Key: col.Key, Label: col.Label, Kind: col.Kind.String()})
		}
		resp.Groups = append(resp.Groups, group)
	}

	for i, row := range m.Rows {
		cells := row.Cells()
		values := make([]decimal.Decimal, len(cells))
		for j, c := range cells {
			values[j] = c.Value
		}
		resp.Rows[i] = RowResponse{ProductID: row.ProductID, Name: row.Name, Cells: values}
	}
	return resp
}
