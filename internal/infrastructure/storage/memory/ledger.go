package memory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"stockreport/internal/domain/catalog"
	"stockreport/internal/domain/movement"
	"stockreport/internal/domain/period"
	"stockreport/internal/domain/uom"
)

func (s *snapshot) StockBalance(_ context.Context, productID int64, locs catalog.LocationSet, asOf time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, m := range s.data.Moves {
		if m.ProductID != productID || !m.Done() || period.Date(m.Date).After(asOf) {
			continue
		}
		total = total.Add(m.SignedQty(locs))
	}
	return total, nil
}

func (s *snapshot) ExternalFlow(_ context.Context, productID int64, locs catalog.LocationSet, w period.Window, dir movement.Direction) (movement.Flow, error) {
	var f movement.Flow
	for _, m := range s.data.Moves {
		if m.ProductID != productID || !m.Done() || !w.Contains(m.Date) || !m.Crosses(locs, dir) {
			continue
		}
		price := m.PriceUnit
		if dir == movement.Inbound && m.PurchaseLineID != nil {
			if pl, ok := s.idx.purchaseLines[*m.PurchaseLineID]; ok {
				price = pl.PriceUnit
			}
		}
		f = f.Add(movement.Flow{Qty: m.Qty, Value: m.Qty.Mul(price)})
	}
	return f, nil
}

func (s *snapshot) PurchaseFlow(_ context.Context, productID int64, w period.Window) (movement.Flow, error) {
	var f movement.Flow
	for _, l := range s.data.PurchaseLines {
		if l.ProductID != productID || l.UoM.ID == 0 || !l.Confirmed() || !w.Contains(l.ApprovedAt) {
			continue
		}
		f = f.Add(movement.Flow{
			Qty:   s.toProductUnit(productID, l.QtyReceived, l.UoM),
			Value: l.QtyReceived.Mul(l.PriceUnit),
		})
	}
	return f, nil
}

func (s *snapshot) SaleFlow(_ context.Context, productID int64, w period.Window) (movement.Flow, error) {
	var f movement.Flow
	for _, l := range s.data.SaleLines {
		if l.ProductID != productID || l.UoM.ID == 0 || !l.Confirmed() || !w.Contains(l.OrderedAt) {
			continue
		}
		f = f.Add(movement.Flow{
			Qty:   s.toProductUnit(productID, l.QtyDelivered, l.UoM),
			Value: l.QtyDelivered.Mul(l.PriceUnit),
		})
	}
	return f, nil
}

func (s *snapshot) POSFlow(_ context.Context, productID int64, w period.Window) (movement.Flow, error) {
	var f movement.Flow
	for _, l := range s.data.POSLines {
		if l.ProductID != productID || !l.Settled() || !w.Contains(l.OrderedAt) {
			continue
		}
		f = f.Add(movement.Flow{Qty: l.Qty, Value: l.PriceSubtotalInc})
	}
	return f, nil
}

// toProductUnit converts an order line quantity without rounding. Callers
// skip lines with no unit.
func (s *snapshot) toProductUnit(productID int64, qty decimal.Decimal, from uom.Unit) decimal.Decimal {
	p, ok := s.idx.products[productID]
	if !ok {
		return qty
	}
	return uom.Convert(qty, from, p.UoM, false)
}
