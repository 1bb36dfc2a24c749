package main

import (
	"strings"
	"time"

	"stockreport/internal/domain/catalog"
	"stockreport/internal/domain/uom"
	"stockreport/internal/infrastructure/storage/memory"
	"stockreport/internal/infrastructure/storage/postgres"
	"stockreport/internal/infrastructure/storage/postgres/report_repo"
)

// sequenceTables are the tables loaded with explicit ids.
var sequenceTables = []string{
	"uom_uom",
	"product_category",
	"product_template",
	"product_product",
	"product_attribute",
	"product_attribute_value",
	"stock_warehouse",
	"stock_location",
	"mrp_bom",
	"mrp_bom_line",
	"purchase_order",
	"purchase_order_line",
	"sale_order",
	"sale_order_line",
	"pos_order",
	"pos_order_line",
	"stock_move",
}

// tables converts a dataset into rows in foreign key order. Every order
// line gets an order of its own carrying the line's state and date.
func tables(d memory.Dataset) []postgres.Table {
	units := newUnitSet()
	for _, p := range d.Products {
		units.add(p.UoM)
	}
	for _, b := range d.BoMs {
		for _, l := range b.Lines {
			units.add(l.UoM)
		}
	}
	for _, l := range d.PurchaseLines {
		units.add(l.UoM)
	}
	for _, l := range d.SaleLines {
		units.add(l.UoM)
	}

	uomT := postgres.Table{Name: "uom_uom", Columns: []string{"id", "name", "factor", "rounding"}}
	for _, u := range units.list {
		uomT.Rows = append(uomT.Rows, []any{u.ID, translated(u.Name), u.Factor, u.Rounding})
	}

	categT := postgres.Table{Name: "product_category", Columns: []string{"id", "parent_id", "name"}}
	for _, c := range d.Categories {
		categT.Rows = append(categT.Rows, []any{c.ID, nullID(c.ParentID), c.Name})
	}

	tmplT := postgres.Table{Name: "product_template", Columns: []string{"id", "name", "type", "categ_id", "uom_id"}}
	variantT := postgres.Table{Name: "product_product", Columns: []string{"id", "product_tmpl_id"}}
	seenTmpl := make(map[int64]bool)
	for _, p := range d.Products {
		if !seenTmpl[p.TemplateID] {
			seenTmpl[p.TemplateID] = true
			tmplT.Rows = append(tmplT.Rows, []any{p.TemplateID, translated(p.TemplateName), p.Type, nullID(p.CategoryID), p.UoM.ID})
		}
		variantT.Rows = append(variantT.Rows, []any{p.ID, p.TemplateID})
	}

	attrT, valueT, comboT := attributeTables(d.Products)

	whT := postgres.Table{Name: "stock_warehouse", Columns: []string{"id", "name"}}
	locT := postgres.Table{Name: "stock_location", Columns: []string{"id", "name", "usage", "warehouse_id"}}
	seenWH := make(map[int64]bool)
	for _, l := range d.Locations {
		if l.WarehouseID != 0 && !seenWH[l.WarehouseID] {
			seenWH[l.WarehouseID] = true
			code, _, _ := strings.Cut(l.Name, "/")
			whT.Rows = append(whT.Rows, []any{l.WarehouseID, code})
		}
		locT.Rows = append(locT.Rows, []any{l.ID, l.Name, l.Usage, nullID(l.WarehouseID)})
	}

	bomT := postgres.Table{Name: "mrp_bom", Columns: []string{"id", "type", "product_tmpl_id", "product_id"}}
	bomLineT := postgres.Table{Name: "mrp_bom_line", Columns: []string{"id", "bom_id", "product_id", "product_qty", "product_uom_id"}}
	for _, b := range d.BoMs {
		var variant any
		if b.VariantID != nil {
			variant = *b.VariantID
		}
		bomT.Rows = append(bomT.Rows, []any{b.ID, b.Type, b.TemplateID, variant})
		for _, l := range b.Lines {
			bomLineT.Rows = append(bomLineT.Rows, []any{l.ID, b.ID, l.ComponentID, l.Qty, l.UoM.ID})
		}
	}

	poT := postgres.Table{Name: "purchase_order", Columns: []string{"id", "state", "date_approve"}}
	polT := postgres.Table{Name: "purchase_order_line", Columns: []string{"id", "order_id", "product_id", "qty_received", "price_unit", "product_uom_id"}}
	for _, l := range d.PurchaseLines {
		poT.Rows = append(poT.Rows, []any{l.ID, l.OrderState, nullTime(l.ApprovedAt)})
		polT.Rows = append(polT.Rows, []any{l.ID, l.ID, l.ProductID, l.QtyReceived, l.PriceUnit, nullID(l.UoM.ID)})
	}

	soT := postgres.Table{Name: "sale_order", Columns: []string{"id", "state", "date_order"}}
	solT := postgres.Table{Name: "sale_order_line", Columns: []string{"id", "order_id", "product_id", "qty_delivered", "price_unit", "product_uom_id"}}
	for _, l := range d.SaleLines {
		soT.Rows = append(soT.Rows, []any{l.ID, l.OrderState, l.OrderedAt})
		solT.Rows = append(solT.Rows, []any{l.ID, l.ID, l.ProductID, l.QtyDelivered, l.PriceUnit, nullID(l.UoM.ID)})
	}

	posT := postgres.Table{Name: "pos_order", Columns: []string{"id", "state", "date_order"}}
	poslT := postgres.Table{Name: "pos_order_line", Columns: []string{"id", "order_id", "product_id", "qty", "price_subtotal_incl"}}
	for _, l := range d.POSLines {
		posT.Rows = append(posT.Rows, []any{l.ID, l.OrderState, l.OrderedAt})
		poslT.Rows = append(poslT.Rows, []any{l.ID, l.ID, l.ProductID, l.Qty, l.PriceSubtotalInc})
	}

	moveT := postgres.Table{Name: "stock_move", Columns: []string{
		"id", "product_id", "location_id", "location_dest_id", "product_qty", "price_unit", "state", "date", "purchase_line_id",
	}}
	for _, m := range d.Moves {
		var line any
		if m.PurchaseLineID != nil {
			line = *m.PurchaseLineID
		}
		moveT.Rows = append(moveT.Rows, []any{m.ID, m.ProductID, m.SourceID, m.DestID, m.Qty, m.PriceUnit, m.State, m.Date, line})
	}

	return []postgres.Table{
		uomT, categT, tmplT, variantT, attrT, valueT, comboT, whT, locT,
		bomT, bomLineT, poT, polT, soT, solT, posT, poslT, moveT,
	}
}

// attributeTables numbers attributes and their values in order of first
// appearance. Attribute sequence follows that order so variant names keep
// the dataset's attribute order.
func attributeTables(products []catalog.Product) (attrs, values, combos postgres.Table) {
	attrs = postgres.Table{Name: "product_attribute", Columns: []string{"id", "name", "sequence"}}
	values = postgres.Table{Name: "product_attribute_value", Columns: []string{"id", "attribute_id", "name"}}
	combos = postgres.Table{Name: "product_variant_combination", Columns: []string{"product_id", "attribute_value_id"}}

	attrIDs := make(map[string]int64)
	valueIDs := make(map[[2]string]int64)
	for _, p := range products {
		for _, a := range p.Attributes {
			attrID, ok := attrIDs[a.Attribute]
			if !ok {
				attrID = int64(len(attrIDs) + 1)
				attrIDs[a.Attribute] = attrID
				attrs.Rows = append(attrs.Rows, []any{attrID, translated(a.Attribute), int32(attrID * 10)})
			}
			key := [2]string{a.Attribute, a.Value}
			valueID, ok := valueIDs[key]
			if !ok {
				valueID = int64(len(valueIDs) + 1)
				valueIDs[key] = valueID
				values.Rows = append(values.Rows, []any{valueID, attrID, translated(a.Value)})
			}
			combos.Rows = append(combos.Rows, []any{p.ID, valueID})
		}
	}
	return attrs, values, combos
}

type unitSet struct {
	seen map[int64]bool
	list []uom.Unit
}

func newUnitSet() *unitSet {
	return &unitSet{seen: make(map[int64]bool)}
}

func (s *unitSet) add(u uom.Unit) {
	if u.ID == 0 || s.seen[u.ID] {
		return
	}
	s.seen[u.ID] = true
	s.list = append(s.list, u)
}

// translated is a JSONB name holding one translation.
func translated(name string) map[string]string {
	return map[string]string{report_repo.DefaultLang: name}
}

func nullID(v int64) any {
	if v == 0 {
		return nil
	}
	return v
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
