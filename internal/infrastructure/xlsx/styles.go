package xlsx

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"stockreport/internal/domain/reports"
)

// Built-in Excel number formats.
const (
	numFmtInteger = 3 // #,##0
	numFmtDecimal = 4 // #,##0.00
)

type styles struct {
	title         int
	headerMonth   int
	headerCol     int
	headerYear    int
	headerYearCol int
	product       int
	integer       int
	number        int
	currency      int
	yearNumber    int
	yearCurrency  int
}

func (s *styles) forCell(c reports.Cell) int {
	if c.Summary {
		if c.Kind == reports.KindCurrency {
			return s.yearCurrency
		}
		return s.yearNumber
	}
	switch c.Kind {
	case reports.KindInteger:
		return s.integer
	case reports.KindCurrency:
		return s.currency
	default:
		return s.number
	}
}

var thinBorder = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
}

func fill(color string) excelize.Fill {
	return excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}
}

func header(size float64, bg string) *excelize.Style {
	return &excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: size, Color: "FFFFFF"},
		Fill:      fill(bg),
		Border:    thinBorder,
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	}
}

func numeric(bg string) *excelize.Style {
	s := &excelize.Style{
		Font:      &excelize.Font{Size: 10},
		Border:    thinBorder,
		Alignment: &excelize.Alignment{Horizontal: "right", Vertical: "center"},
	}
	if bg != "" {
		s.Fill = fill(bg)
	}
	return s
}

func withNumFmt(s *excelize.Style, id int) *excelize.Style {
	s.NumFmt = id
	return s
}

func withCustomFmt(s *excelize.Style, format string) *excelize.Style {
	s.CustomNumFmt = &format
	return s
}

func newStyles(f *excelize.File, currencyFormat string) (*styles, error) {
	title := header(16, "2E7D32")
	title.Alignment.WrapText = false

	product := &excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 10},
		Fill:      fill("E3F2FD"),
		Border:    thinBorder,
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center", WrapText: true},
	}

	st := &styles{}
	defs := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&st.title, title},
		{&st.headerMonth, header(12, "1565C0")},
		{&st.headerCol, header(10, "42A5F5")},
		{&st.headerYear, header(12, "FF6F00")},
		{&st.headerYearCol, header(10, "FFB300")},
		{&st.product, product},
		{&st.integer, withNumFmt(numeric(""), numFmtInteger)},
		{&st.number, withNumFmt(numeric(""), numFmtDecimal)},
		{&st.currency, withCustomFmt(numeric(""), currencyFormat)},
		{&st.yearNumber, withNumFmt(numeric("FFF3E0"), numFmtDecimal)},
		{&st.yearCurrency, withCustomFmt(numeric("FFF3E0"), currencyFormat)},
	}

	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return nil, fmt.Errorf("create style: %w", err)
		}
		*d.dst = id
	}
	return st, nil
}
