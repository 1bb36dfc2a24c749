package reports

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"stockreport/internal/core/apperror"
	"stockreport/internal/domain/catalog"
	"stockreport/internal/domain/kit"
	"stockreport/internal/domain/movement"
	"stockreport/internal/domain/period"
	"stockreport/pkg/logger"
)

// Assembler builds the report matrix from a snapshot.
type Assembler struct {
	workers int
}

// NewAssembler creates an assembler computing up to workers product rows
// at once. Values below 2 compute rows sequentially on the caller's view.
func NewAssembler(workers int) *Assembler {
	return &Assembler{workers: workers}
}

// Build resolves products, months and locations, then computes every row.
// Any failure aborts the whole matrix.
func (a *Assembler) Build(ctx context.Context, snap Snapshot, req Request) (*Matrix, error) {
	selector := catalog.NewSelector(snap.Catalog())

	products, err := selector.Select(ctx, req.Filter())
	if err != nil {
		return nil, err
	}

	months := period.Months(req.DateFrom, req.DateTo)
	if len(months) == 0 {
		return nil, apperror.NewNoMonths()
	}

	locations, err := selector.Locations(ctx, req.WarehouseIDs)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "report scope resolved",
		"products", len(products),
		"months", len(months),
		"locations", locations.Len(),
	)

	m := &Matrix{
		Title:     req.Title(),
		SheetName: SheetName,
		FileName:  req.FileName(),
		DateFrom:  req.DateFrom,
		DateTo:    req.DateTo,
		Months:    months,
		Years:     period.Years(months),
		Rows:      make([]Row, len(products)),
	}

	agg := movement.NewAggregator(locations, req.Channels, kit.NewResolver())
	build := func(ctx context.Context, src movement.Source, i int) error {
		row, err := buildRow(ctx, agg, src, products[i], m)
		if err != nil {
			return err
		}
		m.Rows[i] = row
		return nil
	}

	workers := min(a.workers, len(products))
	if workers < 2 {
		for i := range products {
			if err := build(ctx, snap, i); err != nil {
				return nil, err
			}
		}
		return m, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan int)
	g.Go(func() error {
		defer close(jobs)
		for i := range products {
			select {
			case jobs <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			return snap.Attach(gctx, func(ctx context.Context, view Snapshot) error {
				for i := range jobs {
					if err := build(ctx, view, i); err != nil {
						return err
					}
				}
				return nil
			})
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return m, nil
}

func buildRow(ctx context.Context, agg *movement.Aggregator, src movement.Source, p catalog.Product, m *Matrix) (Row, error) {
	row := Row{
		ProductID: p.ID,
		Name:      p.DisplayName(),
		Months:    make([]movement.MonthMetrics, 0, len(m.Months)),
		Years:     make([]YearTotals, len(m.Years)),
	}
	yearIndex := make(map[int]int, len(m.Years))
	for i, y := range m.Years {
		row.Years[i].Year = y
		yearIndex[y] = i
	}

	for _, month := range m.Months {
		metrics, err := agg.Month(ctx, src, p.ID, month)
		if err != nil {
			return Row{}, fmt.Errorf("%s, %s: %w", row.Name, month.Label, err)
		}
		row.Months = append(row.Months, metrics)
		row.Years[yearIndex[month.Year]].Add(metrics)
	}
	return row, nil
}
