package report_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockreport/internal/domain/catalog"
	"stockreport/internal/domain/kit"
)

const categoryTree = `WITH RECURSIVE category_tree(id) AS (
	SELECT id FROM product_category WHERE id = ANY(?)
	UNION
	SELECT c.id FROM product_category c JOIN category_tree t ON c.parent_id = t.id
)`

func (r *Repo) productsQuery(f catalog.Filter) squirrel.SelectBuilder {
	q := r.builder.
		Select(
			"pp.id",
			"pt.id AS template_id",
			r.translated("pt.name", "template_name"),
			"COALESCE(pt.categ_id, 0) AS category_id",
			"pt.type",
			`u.id AS "uom.id"`,
			r.translated("u.name", `"uom.name"`),
			`u.factor AS "uom.factor"`,
			`u.rounding AS "uom.rounding"`,
		).
		From("product_product pp").
		Join("product_template pt ON pt.id = pp.product_tmpl_id").
		Join("uom_uom u ON u.id = pt.uom_id").
		Where(squirrel.Eq{"pp.active": true, "pt.type": catalog.TypeConsumable}).
		OrderBy("template_name", "pp.id")

	if len(f.ProductIDs) > 0 {
		q = q.Where("pp.id = ANY(?)", f.ProductIDs)
	}
	if len(f.CategoryIDs) > 0 {
		q = q.Prefix(categoryTree, f.CategoryIDs).
			Where("pt.categ_id IN (SELECT id FROM category_tree)")
	}
	return q
}

func (r *Repo) attributesQuery(productIDs []int64) squirrel.SelectBuilder {
	return r.builder.
		Select(
			"pvc.product_id",
			r.translated("pa.name", "attribute"),
			r.translated("pav.name", "value"),
		).
		From("product_variant_combination pvc").
		Join("product_attribute_value pav ON pav.id = pvc.attribute_value_id").
		Join("product_attribute pa ON pa.id = pav.attribute_id").
		Where("pvc.product_id = ANY(?)", productIDs).
		OrderBy("pvc.product_id", "pa.sequence", "pa.id")
}

// Products implements catalog.Repository.
func (r *Repo) Products(ctx context.Context, f catalog.Filter) ([]catalog.Product, error) {
	sql, args, err := r.productsQuery(f).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build products query: %w", err)
	}

	var products []catalog.Product
	if err := pgxscan.Select(ctx, r.querier(ctx), &products, sql, args...); err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	if len(products) == 0 {
		return nil, nil
	}

	ids := make([]int64, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	sql, args, err = r.attributesQuery(ids).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build attributes query: %w", err)
	}

	var attrs []struct {
		ProductID int64 `db:"product_id"`
		catalog.AttributeValue
	}
	if err := pgxscan.Select(ctx, r.querier(ctx), &attrs, sql, args...); err != nil {
		return nil, fmt.Errorf("select variant attributes: %w", err)
	}

	byProduct := make(map[int64][]catalog.AttributeValue, len(products))
	for _, a := range attrs {
		byProduct[a.ProductID] = append(byProduct[a.ProductID], a.AttributeValue)
	}
	for i := range products {
		products[i].Attributes = byProduct[products[i].ID]
	}
	return products, nil
}

func (r *Repo) kitTemplatesQuery(templateIDs []int64) squirrel.SelectBuilder {
	return r.builder.
		Select("DISTINCT product_tmpl_id").
		From("mrp_bom").
		Where(squirrel.Eq{"type": kit.TypePhantom, "active": true}).
		Where("product_tmpl_id = ANY(?)", templateIDs).
		OrderBy("product_tmpl_id")
}

// KitTemplateIDs implements catalog.Repository.
func (r *Repo) KitTemplateIDs(ctx context.Context, templateIDs []int64) ([]int64, error) {
	if len(templateIDs) == 0 {
		return nil, nil
	}
	sql, args, err := r.kitTemplatesQuery(templateIDs).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build kit templates query: %w", err)
	}

	var ids []int64
	if err := pgxscan.Select(ctx, r.querier(ctx), &ids, sql, args...); err != nil {
		return nil, fmt.Errorf("select kit templates: %w", err)
	}
	return ids, nil
}

func (r *Repo) locationsQuery(warehouseIDs []int64) squirrel.SelectBuilder {
	q := r.builder.
		Select("id").
		From("stock_location").
		Where(squirrel.Eq{"usage": "internal", "active": true}).
		OrderBy("id")
	if len(warehouseIDs) > 0 {
		q = q.Where("warehouse_id = ANY(?)", warehouseIDs)
	}
	return q
}

// InternalLocations implements catalog.Repository.
func (r *Repo) InternalLocations(ctx context.Context, warehouseIDs []int64) ([]int64, error) {
	sql, args, err := r.locationsQuery(warehouseIDs).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build locations query: %w", err)
	}

	var ids []int64
	if err := pgxscan.Select(ctx, r.querier(ctx), &ids, sql, args...); err != nil {
		return nil, fmt.Errorf("select internal locations: %w", err)
	}
	return ids, nil
}
