// Package xlsx renders the stock movement report as an Excel workbook.
package xlsx

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"stockreport/internal/domain/reports"
)

// ContentType of the rendered workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DefaultCurrencyFormat is the number format of money cells.
const DefaultCurrencyFormat = `"Rp "#,##0.00`

// Layout constants of the sheet (1-based rows).
const (
	titleRow     = 1
	groupRow     = 2
	columnRow    = 3
	firstDataRow = 4

	productColWidth = 45
	dataColWidth    = 12
)

// Options configures the renderer.
type Options struct {
	// CurrencyFormat is an Excel number format for currency cells.
	CurrencyFormat string
}

// Renderer writes report matrices with excelize.
type Renderer struct {
	currencyFormat string
}

var _ reports.Renderer = (*Renderer)(nil)

// New creates a renderer.
func New(opts Options) *Renderer {
	if opts.CurrencyFormat == "" {
		opts.CurrencyFormat = DefaultCurrencyFormat
	}
	return &Renderer{currencyFormat: opts.CurrencyFormat}
}

// ContentType implements reports.Renderer.
func (r *Renderer) ContentType() string {
	return ContentType
}

// Extension implements reports.Renderer.
func (r *Renderer) Extension() string {
	return ".xlsx"
}

// Render implements reports.Renderer.
func (r *Renderer) Render(ctx context.Context, m *reports.Matrix) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := m.SheetName
	if sheet == "" {
		sheet = reports.SheetName
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	st, err := newStyles(f, r.currencyFormat)
	if err != nil {
		return nil, err
	}

	w := &sheetWriter{f: f, sheet: sheet}
	totalCols := m.ColumnCount()
	lastCol := colName(totalCols)

	// Title
	w.merge(1, titleRow, totalCols, titleRow, m.Title, st.title)

	// Group headers and their sub-columns
	w.set(1, groupRow, "Product", st.headerMonth)
	w.set(1, columnRow, "Variant", st.headerCol)
	col := 2
	for _, g := range m.Groups() {
		groupStyle, colStyle := st.headerMonth, st.headerCol
		if g.Kind == reports.GroupYear {
			groupStyle, colStyle = st.headerYear, st.headerYearCol
		}
		w.merge(col, groupRow, col+len(g.Columns)-1, groupRow, g.Label, groupStyle)
		for _, c := range g.Columns {
			w.set(col, columnRow, c.Label, colStyle)
			col++
		}
	}

	w.colWidth("A", "A", productColWidth)
	if totalCols > 1 {
		w.colWidth("B", lastCol, dataColWidth)
	}
	w.rowHeight(titleRow, 30)
	w.rowHeight(groupRow, 25)
	w.rowHeight(columnRow, 40)

	row := firstDataRow
	for _, r := range m.Rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		w.set(1, row, r.Name, st.product)
		for i, cell := range r.Cells() {
			w.set(i+2, row, cell.Value.InexactFloat64(), st.forCell(cell))
		}
		row++
	}
	lastRow := row - 1

	if w.err == nil {
		w.err = f.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			XSplit:      1,
			YSplit:      columnRow,
			TopLeftCell: cellName(2, firstDataRow),
			ActivePane:  "bottomRight",
		})
	}
	if w.err == nil {
		w.err = f.AutoFilter(sheet, fmt.Sprintf("A%d:%s%d", columnRow, lastCol, lastRow), nil)
	}
	if w.err != nil {
		return nil, fmt.Errorf("write sheet: %w", w.err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetWriter keeps the first error of a sequence of sheet edits.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (w *sheetWriter) set(col, row int, value any, style int) {
	if w.err != nil {
		return
	}
	cell := cellName(col, row)
	if w.err = w.f.SetCellValue(w.sheet, cell, value); w.err != nil {
		return
	}
	w.err = w.f.SetCellStyle(w.sheet, cell, cell, style)
}

func (w *sheetWriter) merge(col1, row1, col2, row2 int, value any, style int) {
	if w.err != nil {
		return
	}
	from, to := cellName(col1, row1), cellName(col2, row2)
	if from != to {
		if w.err = w.f.MergeCell(w.sheet, from, to); w.err != nil {
			return
		}
	}
	if w.err = w.f.SetCellValue(w.sheet, from, value); w.err != nil {
		return
	}
	w.err = w.f.SetCellStyle(w.sheet, from, to, style)
}

func (w *sheetWriter) colWidth(from, to string, width float64) {
	if w.err == nil {
		w.err = w.f.SetColWidth(w.sheet, from, to, width)
	}
}

func (w *sheetWriter) rowHeight(row int, height float64) {
	if w.err == nil {
		w.err = w.f.SetRowHeight(w.sheet, row, height)
	}
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func colName(col int) string {
	name, _ := excelize.ColumnNumberToName(col)
	return name
}
