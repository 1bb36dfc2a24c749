package reports

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"stockreport/internal/domain/movement"
	"stockreport/internal/domain/period"
)

// CellKind tells the renderer how to format a numeric cell.
type CellKind int

const (
	KindInteger CellKind = iota
	KindDecimal
	KindCurrency
)

func (k CellKind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindCurrency:
		return "currency"
	default:
		return "number"
	}
}

// MarshalText encodes the kind by name.
func (k CellKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Column is one metric sub-column.
type Column struct {
	Key   string   `json:"key"`
	Label string   `json:"label"`
	Kind  CellKind `json:"kind"`

	month func(movement.MonthMetrics) decimal.Decimal
	year  func(YearTotals) decimal.Decimal
}

// MonthColumns are repeated under every month header.
var MonthColumns = []Column{
	{Key: "opening_qty", Label: "Opening\nStock", Kind: KindInteger, month: func(m movement.MonthMetrics) decimal.Decimal { return m.Opening }},
	{Key: "purchase_qty", Label: "Purchased\nQty", Kind: KindInteger, month: func(m movement.MonthMetrics) decimal.Decimal { return m.Purchase.Qty }},
	{Key: "purchase_value", Label: "Purchase\nValue", Kind: KindCurrency, month: func(m movement.MonthMetrics) decimal.Decimal { return m.Purchase.Value }},
	{Key: "sale_qty", Label: "Sold Qty\n(Sales)", Kind: KindInteger, month: func(m movement.MonthMetrics) decimal.Decimal { return m.Sale.Qty }},
	{Key: "sale_value", Label: "Sales\nValue", Kind: KindCurrency, month: func(m movement.MonthMetrics) decimal.Decimal { return m.Sale.Value }},
	{Key: "pos_qty", Label: "Sold Qty\n(POS)", Kind: KindInteger, month: func(m movement.MonthMetrics) decimal.Decimal { return m.POS.Qty }},
	{Key: "pos_value", Label: "POS\nValue", Kind: KindCurrency, month: func(m movement.MonthMetrics) decimal.Decimal { return m.POS.Value }},
	{Key: "closing_qty", Label: "Closing\nStock", Kind: KindInteger, month: func(m movement.MonthMetrics) decimal.Decimal { return m.Closing }},
}

// YearColumns are repeated under every year header.
var YearColumns = []Column{
	{Key: "total_purchase_qty", Label: "Total\nPurchased", Kind: KindInteger, year: func(t YearTotals) decimal.Decimal { return t.Purchase.Qty }},
	{Key: "total_purchase_value", Label: "Total\nPurchase Value", Kind: KindCurrency, year: func(t YearTotals) decimal.Decimal { return t.Purchase.Value }},
	{Key: "total_sale_qty", Label: "Total\nSold (Sales)", Kind: KindInteger, year: func(t YearTotals) decimal.Decimal { return t.Sale.Qty }},
	{Key: "total_sale_value", Label: "Total\nSales Value", Kind: KindCurrency, year: func(t YearTotals) decimal.Decimal { return t.Sale.Value }},
	{Key: "total_pos_qty", Label: "Total\nSold (POS)", Kind: KindInteger, year: func(t YearTotals) decimal.Decimal { return t.POS.Qty }},
	{Key: "total_pos_value", Label: "Total\nPOS Value", Kind: KindCurrency, year: func(t YearTotals) decimal.Decimal { return t.POS.Value }},
}

// YearTotals sums one product's flows over the months of a year.
type YearTotals struct {
	Year     int           `json:"year"`
	Purchase movement.Flow `json:"purchase"`
	Sale     movement.Flow `json:"sale"`
	POS      movement.Flow `json:"pos"`
}

// Add accumulates a month into the totals.
func (t *YearTotals) Add(m movement.MonthMetrics) {
	t.Purchase = t.Purchase.Add(m.Purchase)
	t.Sale = t.Sale.Add(m.Sale)
	t.POS = t.POS.Add(m.POS)
}

// Row is one product line of the report.
type Row struct {
	ProductID int64                   `json:"productId"`
	Name      string                  `json:"name"`
	Months    []movement.MonthMetrics `json:"months"`
	Years     []YearTotals            `json:"years"`
}

// Cell is a typed numeric value of a row.
type Cell struct {
	Value decimal.Decimal `json:"value"`
	Kind  CellKind        `json:"kind"`
	// Summary marks cells of the yearly total columns.
	Summary bool `json:"summary,omitempty"`
}

// Cells flattens the row in column order: every month's columns, then
// every year's columns.
func (r Row) Cells() []Cell {
	cells := make([]Cell, 0, len(r.Months)*len(MonthColumns)+len(r.Years)*len(YearColumns))
	for _, m := range r.Months {
		for _, col := range MonthColumns {
			cells = append(cells, Cell{Value: col.month(m), Kind: col.Kind})
		}
	}
	for _, y := range r.Years {
		for _, col := range YearColumns {
			cells = append(cells, Cell{Value: col.year(y), Kind: col.Kind, Summary: true})
		}
	}
	return cells
}

// GroupKind distinguishes month groups from yearly total groups.
type GroupKind int

const (
	GroupMonth GroupKind = iota
	GroupYear
)

// HeaderGroup is a top-level header spanning its sub-columns.
type HeaderGroup struct {
	Label   string    `json:"label"`
	Kind    GroupKind `json:"kind"`
	Columns []Column  `json:"columns"`
}

// Matrix is the complete report: one row per product, month groups first,
// then yearly total groups.
type Matrix struct {
	Title     string         `json:"title"`
	SheetName string         `json:"sheetName"`
	FileName  string         `json:"fileName"`
	DateFrom  time.Time      `json:"dateFrom"`
	DateTo    time.Time      `json:"dateTo"`
	Months    []period.Month `json:"months"`
	Years     []int          `json:"years"`
	Rows      []Row          `json:"rows"`
}

// Groups returns the header structure.
func (m *Matrix) Groups() []HeaderGroup {
	groups := make([]HeaderGroup, 0, len(m.Months)+len(m.Years))
	for _, month := range m.Months {
		groups = append(groups, HeaderGroup{Label: month.Label, Kind: GroupMonth, Columns: MonthColumns})
	}
	for _, y := range m.Years {
		groups = append(groups, HeaderGroup{Label: fmt.Sprintf("Year %d Total", y), Kind: GroupYear, Columns: YearColumns})
	}
	return groups
}

// ColumnCount is the number of columns including the product column.
func (m *Matrix) ColumnCount() int {
	return 1 + len(m.Months)*len(MonthColumns) + len(m.Years)*len(YearColumns)
}
