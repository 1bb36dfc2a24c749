// Package kit maps component products to the phantom kits that contain them.
package kit

import (
	"context"

	"github.com/shopspring/decimal"

	"stockreport/internal/domain/uom"
)

// TypePhantom marks a bill of materials whose parent is never stocked.
const TypePhantom = "phantom"

// BoM is a bill of materials header.
type BoM struct {
	ID         int64
	Type       string
	TemplateID int64
	// VariantID restricts the BoM to one variant of the template.
	VariantID *int64
	Lines     []BoMLine
}

// BoMLine is one component of a BoM.
type BoMLine struct {
	ID          int64
	ComponentID int64
	Qty         decimal.Decimal
	UoM         uom.Unit
}

// Line is a phantom BoM line seen from its component.
type Line struct {
	ID            int64           `db:"id"`
	BoMID         int64           `db:"bom_id"`
	KitTemplateID int64           `db:"kit_template_id"`
	KitVariantID  *int64          `db:"kit_variant_id"`
	ComponentID   int64           `db:"component_id"`
	Qty           decimal.Decimal `db:"qty"`
	LineUoM       uom.Unit        `db:"line_uom"`
	ComponentUoM  uom.Unit        `db:"component_uom"`
}

// Repository reads phantom bills of materials.
type Repository interface {
	// PhantomLines returns phantom BoM lines using the component,
	// ordered by line id.
	PhantomLines(ctx context.Context, componentID int64) ([]Line, error)

	// TemplateVariants returns the variant ids of a template.
	TemplateVariants(ctx context.Context, templateID int64) ([]int64, error)
}
