package memory

import (
	"time"

	"github.com/shopspring/decimal"

	"stockreport/internal/domain/catalog"
	"stockreport/internal/domain/kit"
	"stockreport/internal/domain/movement"
	"stockreport/internal/domain/uom"
)

// Demo units of measure.
var (
	Units  = uom.Unit{ID: 1, Name: "Units", Factor: decimal.NewFromInt(1), Rounding: decimal.RequireFromString("0.01")}
	Dozens = uom.Unit{ID: 2, Name: "Dozens", Factor: decimal.NewFromInt(1).Div(decimal.NewFromInt(12)), Rounding: decimal.RequireFromString("0.01")}
)

// Demo returns a small shop: coffee beans bought and sold directly, two mug
// variants, and a gift set kit made of two mugs that sells over the counter.
func Demo() Dataset {
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
	}
	dec := decimal.RequireFromString

	return Dataset{
		Categories: []Category{
			{ID: 1, Name: "All"},
			{ID: 2, ParentID: 1, Name: "Goods"},
			{ID: 3, ParentID: 1, Name: "Bundles"},
		},
		Locations: []Location{
			{ID: 10, Name: "WH/Stock", Usage: UsageInternal, WarehouseID: 1},
			{ID: 11, Name: "WH/Stock/Shelf 1", Usage: UsageInternal, WarehouseID: 1},
			{ID: 12, Name: "SHOP/Stock", Usage: UsageInternal, WarehouseID: 2},
			{ID: 20, Name: "Partners/Vendors", Usage: "supplier"},
			{ID: 21, Name: "Partners/Customers", Usage: "customer"},
		},
		Products: []catalog.Product{
			{ID: 1, TemplateID: 1, TemplateName: "Coffee Beans", CategoryID: 2, Type: catalog.TypeConsumable, UoM: Units},
			{ID: 2, TemplateID: 2, TemplateName: "Mug", CategoryID: 2, Type: catalog.TypeConsumable, UoM: Units,
				Attributes: []catalog.AttributeValue{{Attribute: "Color", Value: "White"}}},
			{ID: 3, TemplateID: 2, TemplateName: "Mug", CategoryID: 2, Type: catalog.TypeConsumable, UoM: Units,
				Attributes: []catalog.AttributeValue{{Attribute: "Color", Value: "Black"}}},
			{ID: 4, TemplateID: 3, TemplateName: "Gift Set", CategoryID: 3, Type: catalog.TypeConsumable, UoM: Units},
		},
		BoMs: []kit.BoM{
			{ID: 1, Type: kit.TypePhantom, TemplateID: 3, Lines: []kit.BoMLine{
				{ID: 1, ComponentID: 2, Qty: dec("2"), UoM: Units},
			}},
		},
		Moves: []movement.Move{
			{ID: 1, ProductID: 1, SourceID: 20, DestID: 10, Qty: dec("10"), PriceUnit: dec("95"), State: movement.MoveStateDone, Date: day(2024, time.January, 15), PurchaseLineID: ptr(1)},
			{ID: 2, ProductID: 2, SourceID: 20, DestID: 10, Qty: dec("24"), PriceUnit: dec("20"), State: movement.MoveStateDone, Date: day(2024, time.January, 3), PurchaseLineID: ptr(2)},
			{ID: 3, ProductID: 2, SourceID: 10, DestID: 12, Qty: dec("10"), State: movement.MoveStateDone, Date: day(2024, time.January, 5)},
			{ID: 4, ProductID: 2, SourceID: 12, DestID: 21, Qty: dec("6"), PriceUnit: dec("20"), State: movement.MoveStateDone, Date: day(2024, time.February, 10)},
			{ID: 5, ProductID: 3, SourceID: 20, DestID: 10, Qty: dec("5"), PriceUnit: dec("22"), State: movement.MoveStateDone, Date: day(2024, time.February, 2)},
		},
		PurchaseLines: []movement.PurchaseLine{
			{ID: 1, ProductID: 1, QtyReceived: dec("10"), PriceUnit: dec("100"), UoM: Units, OrderState: "purchase", ApprovedAt: day(2024, time.January, 15)},
			{ID: 2, ProductID: 2, QtyReceived: dec("2"), PriceUnit: dec("240"), UoM: Dozens, OrderState: "done", ApprovedAt: day(2024, time.January, 2)},
		},
		SaleLines: []movement.SaleLine{
			{ID: 1, ProductID: 1, QtyDelivered: dec("4"), PriceUnit: dec("150"), UoM: Units, OrderState: "sale", OrderedAt: day(2024, time.January, 20)},
			{ID: 2, ProductID: 4, QtyDelivered: dec("3"), PriceUnit: dec("60"), UoM: Units, OrderState: "sale", OrderedAt: day(2024, time.February, 9)},
		},
		POSLines: []movement.POSLine{
			{ID: 1, ProductID: 2, Qty: dec("1"), PriceSubtotalInc: dec("33"), OrderState: "paid", OrderedAt: day(2024, time.February, 14)},
		},
	}
}

func ptr(v int64) *int64 { return &v }
