// Package pdf renders the stock movement report as a landscape PDF, one
// table per month and per yearly total.
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"stockreport/internal/domain/reports"
)

// ContentType of the rendered document.
const ContentType = "application/pdf"

// Grid layout: the product column spans productSpan cells, every metric
// column spans valueSpan cells.
const (
	productSpan = 4
	valueSpan   = 2
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// Options configures the renderer.
type Options struct {
	// CurrencyPrefix is printed before money amounts.
	CurrencyPrefix string
}

// Renderer writes report matrices with maroto.
type Renderer struct {
	currencyPrefix string
}

var _ reports.Renderer = (*Renderer)(nil)

// New creates a renderer.
func New(opts Options) *Renderer {
	return &Renderer{currencyPrefix: opts.CurrencyPrefix}
}

// ContentType implements reports.Renderer.
func (r *Renderer) ContentType() string { return ContentType }

// Extension implements reports.Renderer.
func (r *Renderer) Extension() string { return ".pdf" }

// Render implements reports.Renderer.
func (r *Renderer) Render(ctx context.Context, m *reports.Matrix) ([]byte, error) {
	groups := m.Groups()

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithMaxGridSize(gridSize(groups)).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(8).WithBottomMargin(8).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 7}).
		WithTitle(m.Title, true).
		Build()

	doc := maroto.New(cfg)
	doc.AddRows(titleRow(m.Title))
	doc.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	offset := 0
	for _, g := range groups {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc.AddRows(groupRows(g)...)
		for _, rw := range m.Rows {
			cells := rw.Cells()[offset : offset+len(g.Columns)]
			doc.AddRows(r.dataRow(rw.Name, cells))
		}
		doc.AddRows(row.New(4))
		offset += len(g.Columns)
	}

	out, err := doc.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate document: %w", err)
	}
	return out.GetBytes(), nil
}

func gridSize(groups []reports.HeaderGroup) int {
	widest := 0
	for _, g := range groups {
		widest = max(widest, len(g.Columns))
	}
	return productSpan + widest*valueSpan
}

func titleRow(title string) core.Row {
	return row.New(10).Add(
		col.New().Add(text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 1,
		})),
	)
}

// groupRows are the group label and the column header rows.
func groupRows(g reports.HeaderGroup) []core.Row {
	header := make([]core.Col, 0, len(g.Columns)+1)
	header = append(header, col.New(productSpan).Add(text.New("Product", props.Text{
		Style: fontstyle.Bold, Size: 7, Top: 1,
	})))
	for _, c := range g.Columns {
		header = append(header, col.New(valueSpan).Add(text.New(strings.ReplaceAll(c.Label, "\n", " "), props.Text{
			Style: fontstyle.Bold, Size: 6, Align: align.Right, Top: 1, Right: 1,
		})))
	}

	return []core.Row{
		row.New(7).Add(col.New().Add(text.New(g.Label, props.Text{
			Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 1,
		}))),
		row.New(9).Add(header...),
		line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}),
	}
}

func (r *Renderer) dataRow(name string, cells []reports.Cell) core.Row {
	cols := make([]core.Col, 0, len(cells)+1)
	cols = append(cols, col.New(productSpan).Add(text.New(name, props.Text{Size: 7, Top: 1})))
	for _, c := range cells {
		style := fontstyle.Normal
		if c.Summary {
			style = fontstyle.Bold
		}
		cols = append(cols, col.New(valueSpan).Add(text.New(r.format(c), props.Text{
			Style: style, Size: 7, Align: align.Right, Top: 1, Right: 1,
		})))
	}
	return row.New(5).Add(cols...)
}

func (r *Renderer) format(c reports.Cell) string {
	switch c.Kind {
	case reports.KindInteger:
		return groupThousands(c.Value.Round(0).StringFixed(0))
	case reports.KindCurrency:
		return r.currencyPrefix + groupThousands(c.Value.StringFixed(2))
	default:
		return groupThousands(c.Value.StringFixed(2))
	}
}

// groupThousands inserts commas into the integer part of a fixed-point
// number, e.g. "-1234567.50" becomes "-1,234,567.50".
func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")

	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i := 0; i < n; i++ {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, intPart[i])
	}
	if hasFrac {
		return sign + string(buf) + "." + frac
	}
	return sign + string(buf)
}
