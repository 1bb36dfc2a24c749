package report_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"stockreport/internal/domain/catalog"
	"stockreport/internal/domain/movement"
	"stockreport/internal/domain/period"
)

// signedQty mirrors movement.Move.SignedQty: moves between two internal
// locations leave the balance unchanged.
const signedQty = `COALESCE(SUM(CASE
	WHEN sm.location_dest_id = ANY(?) AND NOT sm.location_id = ANY(?) THEN sm.product_qty
	WHEN sm.location_id = ANY(?) AND NOT sm.location_dest_id = ANY(?) THEN -sm.product_qty
	ELSE 0 END), 0) AS qty`

// toProductUnit converts an order line quantity into the product unit.
// Lines already in the product unit are taken as is.
const toProductUnit = `CASE WHEN lu.id = pu.id THEN %[1]s
	ELSE %[1]s / NULLIF(lu.factor, 0) * pu.factor END`

func (r *Repo) balanceQuery(productID int64, locs catalog.LocationSet, asOf time.Time) squirrel.SelectBuilder {
	ids := locs.IDs()
	return r.builder.
		Select().
		Column(squirrel.Expr(signedQty, ids, ids, ids, ids)).
		From("stock_move sm").
		Where(squirrel.Eq{"sm.product_id": productID, "sm.state": movement.MoveStateDone}).
		Where("sm.date::date <= ?::date", day(asOf))
}

// StockBalance implements movement.Ledger.
func (r *Repo) StockBalance(ctx context.Context, productID int64, locs catalog.LocationSet, asOf time.Time) (decimal.Decimal, error) {
	sql, args, err := r.balanceQuery(productID, locs, asOf).ToSql()
	if err != nil {
		return decimal.Zero, fmt.Errorf("build balance query: %w", err)
	}

	var qty decimal.Decimal
	if err := pgxscan.Get(ctx, r.querier(ctx), &qty, sql, args...); err != nil {
		return decimal.Zero, fmt.Errorf("select stock balance: %w", err)
	}
	return qty, nil
}

func (r *Repo) externalFlowQuery(productID int64, locs catalog.LocationSet, w period.Window, dir movement.Direction) squirrel.SelectBuilder {
	ids := locs.IDs()
	price := "sm.price_unit"
	inside, outside := "sm.location_dest_id", "sm.location_id"
	if dir == movement.Outbound {
		inside, outside = outside, inside
	} else {
		price = "COALESCE(pol.price_unit, sm.price_unit)"
	}

	q := r.builder.
		Select(
			"COALESCE(SUM(sm.product_qty), 0) AS qty",
			"COALESCE(SUM(sm.product_qty * "+price+"), 0) AS value",
		).
		From("stock_move sm")
	if dir == movement.Inbound {
		q = q.LeftJoin("purchase_order_line pol ON pol.id = sm.purchase_line_id")
	}
	return q.
		Where(squirrel.Eq{"sm.product_id": productID, "sm.state": movement.MoveStateDone}).
		Where("sm.date::date BETWEEN ?::date AND ?::date", day(w.Start), day(w.End)).
		Where(inside+" = ANY(?)", ids).
		Where("NOT "+outside+" = ANY(?)", ids)
}

// ExternalFlow implements movement.Ledger.
func (r *Repo) ExternalFlow(ctx context.Context, productID int64, locs catalog.LocationSet, w period.Window, dir movement.Direction) (movement.Flow, error) {
	return r.flow(ctx, "external "+dir.String(), r.externalFlowQuery(productID, locs, w, dir))
}

func (r *Repo) orderLineQuery(table, orderTable, qtyCol, valueExpr, dateCol string, states []string, productID int64, w period.Window) squirrel.SelectBuilder {
	return r.builder.
		Select(
			"COALESCE(SUM("+fmt.Sprintf(toProductUnit, "l."+qtyCol)+"), 0) AS qty",
			"COALESCE(SUM("+valueExpr+"), 0) AS value",
		).
		From(table+" l").
		Join(orderTable+" o ON o.id = l.order_id").
		Join("product_product pp ON pp.id = l.product_id").
		Join("product_template pt ON pt.id = pp.product_tmpl_id").
		Join("uom_uom pu ON pu.id = pt.uom_id").
		Join("uom_uom lu ON lu.id = l.product_uom_id").
		Where(squirrel.Eq{"l.product_id": productID}).
		Where("o.state = ANY(?)", states).
		Where("o."+dateCol+"::date BETWEEN ?::date AND ?::date", day(w.Start), day(w.End))
}

func (r *Repo) purchaseQuery(productID int64, w period.Window) squirrel.SelectBuilder {
	return r.orderLineQuery("purchase_order_line", "purchase_order", "qty_received",
		"l.qty_received * l.price_unit", "date_approve", movement.PurchaseStates, productID, w)
}

func (r *Repo) saleQuery(productID int64, w period.Window) squirrel.SelectBuilder {
	return r.orderLineQuery("sale_order_line", "sale_order", "qty_delivered",
		"l.qty_delivered * l.price_unit", "date_order", movement.SaleStates, productID, w)
}

func (r *Repo) posQuery(productID int64, w period.Window) squirrel.SelectBuilder {
	return r.builder.
		Select(
			"COALESCE(SUM(l.qty), 0) AS qty",
			"COALESCE(SUM(l.price_subtotal_incl), 0) AS value",
		).
		From("pos_order_line l").
		Join("pos_order o ON o.id = l.order_id").
		Where(squirrel.Eq{"l.product_id": productID}).
		Where("o.state = ANY(?)", movement.POSStates).
		Where("o.date_order::date BETWEEN ?::date AND ?::date", day(w.Start), day(w.End))
}

// PurchaseFlow implements movement.Ledger.
func (r *Repo) PurchaseFlow(ctx context.Context, productID int64, w period.Window) (movement.Flow, error) {
	return r.flow(ctx, "purchase", r.purchaseQuery(productID, w))
}

// SaleFlow implements movement.Ledger.
func (r *Repo) SaleFlow(ctx context.Context, productID int64, w period.Window) (movement.Flow, error) {
	return r.flow(ctx, "sale", r.saleQuery(productID, w))
}

// POSFlow implements movement.Ledger.
func (r *Repo) POSFlow(ctx context.Context, productID int64, w period.Window) (movement.Flow, error) {
	return r.flow(ctx, "pos", r.posQuery(productID, w))
}

func (r *Repo) flow(ctx context.Context, name string, q squirrel.SelectBuilder) (movement.Flow, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return movement.Flow{}, fmt.Errorf("build %s flow query: %w", name, err)
	}

	var f movement.Flow
	if err := pgxscan.Get(ctx, r.querier(ctx), &f, sql, args...); err != nil {
		return movement.Flow{}, fmt.Errorf("select %s flow: %w", name, err)
	}
	return f, nil
}
