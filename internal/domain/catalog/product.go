// Package catalog resolves the product variants and stock locations a
// movement report covers.
package catalog

import (
	"strings"

	"stockreport/internal/domain/uom"
)

// TypeConsumable is the product type of goods tracked in stock.
const TypeConsumable = "consu"

// AttributeValue is one variant attribute, e.g. Color: Red.
type AttributeValue struct {
	Attribute string `db:"attribute" json:"attribute"`
	Value     string `db:"value" json:"value"`
}

// Product is a product variant.
type Product struct {
	ID           int64  `db:"id" json:"id"`
	TemplateID   int64  `db:"template_id" json:"templateId"`
	TemplateName string `db:"template_name" json:"templateName"`
	CategoryID   int64  `db:"category_id" json:"categoryId"`
	Type         string `db:"type" json:"type"`

	// UoM is the base unit every ledger quantity of the variant is kept in.
	UoM uom.Unit `db:"uom" json:"uom"`

	// Attributes in variant order.
	Attributes []AttributeValue `db:"-" json:"attributes,omitempty"`
}

// DisplayName is the template name followed by the variant attributes,
// e.g. "T-Shirt (Color: Red, Size: M)".
func (p Product) DisplayName() string {
	if len(p.Attributes) == 0 {
		return p.TemplateName
	}

	parts := make([]string, 0, len(p.Attributes))
	for _, a := range p.Attributes {
		parts = append(parts, a.Attribute+": "+a.Value)
	}
	return p.TemplateName + " (" + strings.Join(parts, ", ") + ")"
}

// Filter narrows the product selection. Empty slices do not filter.
type Filter struct {
	ProductIDs []int64
	// CategoryIDs match the listed categories and all their descendants.
	CategoryIDs []int64
}
