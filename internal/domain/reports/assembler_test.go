package reports_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockreport/internal/core/apperror"
	"stockreport/internal/domain/catalog"
	"stockreport/internal/domain/kit"
	"stockreport/internal/domain/movement"
	"stockreport/internal/domain/reports"
	"stockreport/internal/infrastructure/storage/memory"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	if !dec(want).Equal(got) {
		assert.Fail(t, fmt.Sprintf("want %s, got %s", want, got), msgAndArgs...)
	}
}

func request(from, to time.Time) reports.Request {
	return reports.Request{DateFrom: from, DateTo: to, Channels: movement.AllChannels()}
}

func build(t *testing.T, store *memory.Store, workers int, req reports.Request) (*reports.Matrix, error) {
	t.Helper()
	require.NoError(t, req.Validate())

	var m *reports.Matrix
	err := store.View(context.Background(), func(ctx context.Context, snap reports.Snapshot) error {
		var err error
		m, err = reports.NewAssembler(workers).Build(ctx, snap, req)
		return err
	})
	return m, err
}

// scenario: product P bought 10 at 100 on Jan 15, 4 sold at 150 on Jan 20.
func scenario() memory.Dataset {
	return memory.Dataset{
		Products: []catalog.Product{
			{ID: 1, TemplateID: 1, TemplateName: "P", Type: catalog.TypeConsumable, UoM: memory.Units},
		},
		Locations: []memory.Location{
			{ID: 10, Usage: memory.UsageInternal, WarehouseID: 1},
			{ID: 20, Usage: "supplier"},
			{ID: 21, Usage: "customer"},
		},
		Moves: []movement.Move{
			{ID: 1, ProductID: 1, SourceID: 20, DestID: 10, Qty: dec("10"), PriceUnit: dec("100"), State: movement.MoveStateDone, Date: day(2024, time.January, 15)},
		},
		PurchaseLines: []movement.PurchaseLine{
			{ID: 1, ProductID: 1, QtyReceived: dec("10"), PriceUnit: dec("100"), UoM: memory.Units, OrderState: "purchase", ApprovedAt: day(2024, time.January, 15)},
		},
		SaleLines: []movement.SaleLine{
			{ID: 1, ProductID: 1, QtyDelivered: dec("4"), PriceUnit: dec("150"), UoM: memory.Units, OrderState: "sale", OrderedAt: day(2024, time.January, 20)},
		},
	}
}

func TestBuild_EndToEndScenario(t *testing.T) {
	data := scenario()
	data.Moves = append(data.Moves, movement.Move{
		ID: 2, ProductID: 1, SourceID: 10, DestID: 21, Qty: dec("4"), PriceUnit: dec("100"),
		State: movement.MoveStateDone, Date: day(2024, time.January, 20),
	})

	m, err := build(t, memory.New(data), 1, request(day(2024, time.January, 1), day(2024, time.February, 29)))
	require.NoError(t, err)

	assert.Equal(t, "Stock Movement Report (2024-01-01 to 2024-02-29)", m.Title)
	assert.Equal(t, []int{2024}, m.Years)
	require.Len(t, m.Rows, 1)
	row := m.Rows[0]
	assert.Equal(t, "P", row.Name)
	require.Len(t, row.Months, 2)

	jan, feb := row.Months[0], row.Months[1]
	assertDec(t, "0", jan.Opening)
	assertDec(t, "10", jan.Purchase.Qty)
	assertDec(t, "1000", jan.Purchase.Value)
	assertDec(t, "4", jan.Sale.Qty)
	assertDec(t, "600", jan.Sale.Value)
	assertDec(t, "0", jan.POS.Qty)
	assertDec(t, "6", jan.Closing)

	assertDec(t, "6", feb.Opening)
	assertDec(t, "0", feb.Purchase.Qty)
	assertDec(t, "0", feb.Sale.Value)
	assertDec(t, "6", feb.Closing)

	require.Len(t, row.Years, 1)
	year := row.Years[0]
	assert.Equal(t, 2024, year.Year)
	assertDec(t, "10", year.Purchase.Qty)
	assertDec(t, "1000", year.Purchase.Value)
	assertDec(t, "4", year.Sale.Qty)
	assertDec(t, "600", year.Sale.Value)
	assertDec(t, "0", year.POS.Value)
}

func TestBuild_OrderFiguresIndependentOfMoves(t *testing.T) {
	// The sale has no delivery move: sales figures count it, the balance
	// does not.
	m, err := build(t, memory.New(scenario()), 1, request(day(2024, time.January, 1), day(2024, time.January, 31)))
	require.NoError(t, err)

	jan := m.Rows[0].Months[0]
	assertDec(t, "4", jan.Sale.Qty)
	assertDec(t, "10", jan.Closing)
}

func TestBuild_YearTotalsSumTheirMonths(t *testing.T) {
	data := memory.Demo()
	m, err := build(t, memory.New(data), 1, request(day(2023, time.November, 1), day(2024, time.March, 31)))
	require.NoError(t, err)
	assert.Equal(t, []int{2023, 2024}, m.Years)

	for _, row := range m.Rows {
		for yi, totals := range row.Years {
			want := reports.YearTotals{Year: m.Years[yi]}
			for mi, month := range m.Months {
				if month.Year == totals.Year {
					want.Add(row.Months[mi])
				}
			}
			assert.True(t, want.Purchase.Qty.Equal(totals.Purchase.Qty), row.Name)
			assert.True(t, want.Purchase.Value.Equal(totals.Purchase.Value), row.Name)
			assert.True(t, want.Sale.Qty.Equal(totals.Sale.Qty), row.Name)
			assert.True(t, want.Sale.Value.Equal(totals.Sale.Value), row.Name)
			assert.True(t, want.POS.Qty.Equal(totals.POS.Qty), row.Name)
			assert.True(t, want.POS.Value.Equal(totals.POS.Value), row.Name)
		}
	}
}

func TestBuild_KitsExcludedAndAttributed(t *testing.T) {
	m, err := build(t, memory.New(memory.Demo()), 1, request(day(2024, time.January, 1), day(2024, time.February, 29)))
	require.NoError(t, err)

	names := make([]string, 0, len(m.Rows))
	for _, row := range m.Rows {
		names = append(names, row.Name)
	}
	assert.Equal(t, []string{"Coffee Beans", "Mug (Color: Black)", "Mug (Color: White)"}, names)

	white := m.Rows[2]
	feb := white.Months[1]
	assertDec(t, "6", feb.Sale.Qty)     // 3 gift sets * 2 mugs
	assertDec(t, "360", feb.Sale.Value) // 3 * 60 * 2
	assertDec(t, "1", feb.POS.Qty)

	jan := white.Months[0]
	assertDec(t, "24", jan.Purchase.Qty.Round(6))
	assertDec(t, "480", jan.Purchase.Value)
	assertDec(t, "24", jan.Closing)
	assertDec(t, "18", feb.Closing)
}

func TestBuild_WarehouseFilterNarrowsLocations(t *testing.T) {
	req := request(day(2024, time.January, 1), day(2024, time.January, 31))
	req.WarehouseIDs = []int64{2}

	m, err := build(t, memory.New(memory.Demo()), 1, req)
	require.NoError(t, err)

	for _, row := range m.Rows {
		if row.ProductID == 2 {
			// Only the transfer into the shop crosses the shop boundary.
			assertDec(t, "10", row.Months[0].Closing)
		}
	}
}

func TestBuild_Preconditions(t *testing.T) {
	jan := request(day(2024, time.January, 1), day(2024, time.January, 31))

	noProducts := jan
	noProducts.ProductIDs = []int64{999}
	_, err := build(t, memory.New(memory.Demo()), 1, noProducts)
	assert.True(t, apperror.HasCode(err, apperror.CodeNoProducts))

	onlyKit := jan
	onlyKit.CategoryIDs = []int64{3}
	_, err = build(t, memory.New(memory.Demo()), 1, onlyKit)
	assert.True(t, apperror.HasCode(err, apperror.CodeNoProducts))

	noLocations := jan
	noLocations.WarehouseIDs = []int64{42}
	_, err = build(t, memory.New(memory.Demo()), 1, noLocations)
	assert.True(t, apperror.HasCode(err, apperror.CodeNoLocations))
}

func TestBuild_ParallelMatchesSequential(t *testing.T) {
	data := memory.Demo()
	for i := int64(100); i < 130; i++ {
		data.Products = append(data.Products, catalog.Product{
			ID: i, TemplateID: i, TemplateName: fmt.Sprintf("Item %03d", i), Type: catalog.TypeConsumable, UoM: memory.Units,
		})
		data.Moves = append(data.Moves, movement.Move{
			ID: 1000 + i, ProductID: i, SourceID: 20, DestID: 10, Qty: decimal.NewFromInt(i),
			State: movement.MoveStateDone, Date: day(2024, time.January, int(i%28)+1),
		})
	}
	store := memory.New(data)
	req := request(day(2024, time.January, 1), day(2024, time.June, 30))

	sequential, err := build(t, store, 1, req)
	require.NoError(t, err)
	parallel, err := build(t, store, 8, req)
	require.NoError(t, err)

	want, err := json.Marshal(sequential)
	require.NoError(t, err)
	got, err := json.Marshal(parallel)
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(got))
	assert.Len(t, parallel.Rows, 33)
}

type brokenBoMs struct{ err error }

func (b brokenBoMs) PhantomLines(context.Context, int64) ([]kit.Line, error) { return nil, b.err }
func (b brokenBoMs) TemplateVariants(context.Context, int64) ([]int64, error) {
	return nil, b.err
}

type brokenSnapshot struct {
	reports.Snapshot
	err error
}

func (s brokenSnapshot) BoMs() kit.Repository { return brokenBoMs{err: s.err} }

func (s brokenSnapshot) Attach(ctx context.Context, fn func(context.Context, reports.Snapshot) error) error {
	return fn(ctx, s)
}

func TestBuild_StoreFailureAbortsWholeReport(t *testing.T) {
	cause := errors.New("relation mrp_bom_line does not exist")
	req := request(day(2024, time.January, 1), day(2024, time.January, 31))
	require.NoError(t, req.Validate())

	for _, workers := range []int{1, 4} {
		err := memory.New(memory.Demo()).View(context.Background(), func(ctx context.Context, snap reports.Snapshot) error {
			m, err := reports.NewAssembler(workers).Build(ctx, brokenSnapshot{Snapshot: snap, err: cause}, req)
			assert.Nil(t, m)
			return err
		})
		assert.ErrorIs(t, err, cause, "workers=%d", workers)
	}
}
