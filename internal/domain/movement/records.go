// Package movement computes stock balances and per-channel flows of a
// product from the stock ledger and the order books.
package movement

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"stockreport/internal/domain/catalog"
	"stockreport/internal/domain/uom"
)

// Document states that count as completed.
const MoveStateDone = "done"

var (
	PurchaseStates = []string{"purchase", "done"}
	SaleStates     = []string{"sale", "done"}
	POSStates      = []string{"paid", "done", "invoiced"}
)

// Move is a stock ledger entry. Qty is in the product's base unit.
type Move struct {
	ID             int64
	ProductID      int64
	SourceID       int64
	DestID         int64
	Qty            decimal.Decimal
	PriceUnit      decimal.Decimal
	State          string
	Date           time.Time
	PurchaseLineID *int64
}

// Done reports whether the move is validated.
func (m Move) Done() bool {
	return m.State == MoveStateDone
}

// SignedQty is the move's effect on the balance of locs: positive when it
// enters the set, negative when it leaves, zero when both or neither end is
// inside.
func (m Move) SignedQty(locs catalog.LocationSet) decimal.Decimal {
	src, dst := locs.Has(m.SourceID), locs.Has(m.DestID)
	switch {
	case dst && !src:
		return m.Qty
	case src && !dst:
		return m.Qty.Neg()
	default:
		return decimal.Zero
	}
}

// Crosses reports whether the move crosses the boundary of locs in dir.
func (m Move) Crosses(locs catalog.LocationSet, dir Direction) bool {
	src, dst := locs.Has(m.SourceID), locs.Has(m.DestID)
	if dir == Inbound {
		return dst && !src
	}
	return src && !dst
}

// PurchaseLine is a purchase order line with its order header fields.
type PurchaseLine struct {
	ID          int64
	ProductID   int64
	QtyReceived decimal.Decimal
	PriceUnit   decimal.Decimal
	UoM         uom.Unit
	OrderState  string
	ApprovedAt  time.Time
}

// Confirmed reports whether the order counts as purchased.
func (l PurchaseLine) Confirmed() bool {
	return slices.Contains(PurchaseStates, l.OrderState)
}

// SaleLine is a sales order line with its order header fields.
type SaleLine struct {
	ID           int64
	ProductID    int64
	QtyDelivered decimal.Decimal
	PriceUnit    decimal.Decimal
	UoM          uom.Unit
	OrderState   string
	OrderedAt    time.Time
}

// Confirmed reports whether the order counts as sold.
func (l SaleLine) Confirmed() bool {
	return slices.Contains(SaleStates, l.OrderState)
}

// POSLine is a point-of-sale order line. Qty is in the product's base unit.
type POSLine struct {
	ID               int64
	ProductID        int64
	Qty              decimal.Decimal
	PriceSubtotalInc decimal.Decimal
	OrderState       string
	OrderedAt        time.Time
}

// Settled reports whether the order counts as sold.
func (l POSLine) Settled() bool {
	return slices.Contains(POSStates, l.OrderState)
}
