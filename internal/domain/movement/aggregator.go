package movement

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"stockreport/internal/domain/catalog"
	"stockreport/internal/domain/kit"
	"stockreport/internal/domain/period"
)

// Ledger answers aggregate questions about one product. Every date is a
// calendar day; moves and orders are compared by their calendar day.
type Ledger interface {
	// StockBalance sums SignedQty of done moves dated on or before asOf.
	StockBalance(ctx context.Context, productID int64, locs catalog.LocationSet, asOf time.Time) (decimal.Decimal, error)

	// ExternalFlow sums done moves in the window crossing locs in dir.
	// Inbound value prefers the linked purchase line price over the move
	// price; outbound value uses the move price.
	ExternalFlow(ctx context.Context, productID int64, locs catalog.LocationSet, w period.Window, dir Direction) (Flow, error)

	// PurchaseFlow sums received quantity (converted to the product unit)
	// and received quantity times line price of confirmed purchase lines
	// approved in the window. Lines without a unit are ignored, as are
	// sale lines in SaleFlow.
	PurchaseFlow(ctx context.Context, productID int64, w period.Window) (Flow, error)

	// SaleFlow sums delivered quantity (converted to the product unit) and
	// delivered quantity times line price of confirmed sales lines ordered
	// in the window.
	SaleFlow(ctx context.Context, productID int64, w period.Window) (Flow, error)

	// POSFlow sums quantity and tax-included subtotal of settled POS lines
	// ordered in the window.
	POSFlow(ctx context.Context, productID int64, w period.Window) (Flow, error)
}

// Source is a consistent read view of the ledger and the bills of materials.
type Source interface {
	Ledger() Ledger
	BoMs() kit.Repository
}

// Aggregator computes balances and window flows against one location
// boundary and channel selection. It keeps no per-call state besides the
// kit cache and is safe for concurrent use.
type Aggregator struct {
	locations catalog.LocationSet
	channels  Channels
	kits      *kit.Resolver
}

// NewAggregator creates an aggregator.
func NewAggregator(locations catalog.LocationSet, channels Channels, kits *kit.Resolver) *Aggregator {
	if kits == nil {
		kits = kit.NewResolver()
	}
	return &Aggregator{locations: locations, channels: channels, kits: kits}
}

// StockAt returns the product balance in the internal locations at the end
// of asOf.
func (a *Aggregator) StockAt(ctx context.Context, src Source, productID int64, asOf time.Time) (decimal.Decimal, error) {
	qty, err := src.Ledger().StockBalance(ctx, productID, a.locations, period.Date(asOf))
	if err != nil {
		return decimal.Zero, fmt.Errorf("stock of product %d at %s: %w", productID, asOf.Format(period.DateLayout), err)
	}
	return qty, nil
}

// WindowMoves returns the flows of the product in the window. Sales and POS
// include the kit sales attributed to the product as a component.
func (a *Aggregator) WindowMoves(ctx context.Context, src Source, productID int64, w period.Window) (Moves, error) {
	ledger := src.Ledger()
	var out Moves
	var err error

	if out.In, err = ledger.ExternalFlow(ctx, productID, a.locations, w, Inbound); err != nil {
		return Moves{}, fmt.Errorf("inbound moves of product %d: %w", productID, err)
	}
	if out.Out, err = ledger.ExternalFlow(ctx, productID, a.locations, w, Outbound); err != nil {
		return Moves{}, fmt.Errorf("outbound moves of product %d: %w", productID, err)
	}

	if a.channels.Purchases {
		if out.Purchase, err = ledger.PurchaseFlow(ctx, productID, w); err != nil {
			return Moves{}, fmt.Errorf("purchases of product %d: %w", productID, err)
		}
	}

	if !a.channels.Sales && !a.channels.POS {
		return out, nil
	}

	kits, err := a.kits.KitsFor(ctx, src.BoMs(), productID)
	if err != nil {
		return Moves{}, err
	}

	if a.channels.Sales {
		if out.Sale, err = withKits(ctx, productID, kits, func(id int64) (Flow, error) {
			return ledger.SaleFlow(ctx, id, w)
		}); err != nil {
			return Moves{}, fmt.Errorf("sales of product %d: %w", productID, err)
		}
	}
	if a.channels.POS {
		if out.POS, err = withKits(ctx, productID, kits, func(id int64) (Flow, error) {
			return ledger.POSFlow(ctx, id, w)
		}); err != nil {
			return Moves{}, fmt.Errorf("pos sales of product %d: %w", productID, err)
		}
	}
	return out, nil
}

// Month computes one product's figures for a month bucket: the balance at
// the end of the previous day, the window flows, and the closing balance.
func (a *Aggregator) Month(ctx context.Context, src Source, productID int64, m period.Month) (MonthMetrics, error) {
	opening, err := a.StockAt(ctx, src, productID, m.OpeningDate())
	if err != nil {
		return MonthMetrics{}, err
	}
	moves, err := a.WindowMoves(ctx, src, productID, m.Window())
	if err != nil {
		return MonthMetrics{}, err
	}
	closing, err := a.StockAt(ctx, src, productID, m.End)
	if err != nil {
		return MonthMetrics{}, err
	}

	return MonthMetrics{
		Opening:  opening,
		Closing:  closing,
		In:       moves.In,
		Out:      moves.Out,
		Purchase: moves.Purchase,
		Sale:     moves.Sale,
		POS:      moves.POS,
	}, nil
}

// withKits adds the kit flows scaled by their multipliers to the product's
// own flow. Kits that sold nothing in the window contribute nothing.
func withKits(ctx context.Context, productID int64, kits []kit.Attribution, flow func(int64) (Flow, error)) (Flow, error) {
	total, err := flow(productID)
	if err != nil {
		return Flow{}, err
	}
	for _, k := range kits {
		if err := ctx.Err(); err != nil {
			return Flow{}, err
		}
		kf, err := flow(k.KitID)
		if err != nil {
			return Flow{}, fmt.Errorf("kit %d: %w", k.KitID, err)
		}
		if kf.Qty.IsZero() {
			continue
		}
		total = total.Add(kf.Scale(k.Multiplier))
	}
	return total, nil
}
