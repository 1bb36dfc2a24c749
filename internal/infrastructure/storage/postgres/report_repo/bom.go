package report_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockreport/internal/domain/kit"
)

func (r *Repo) phantomLinesQuery(componentID int64) squirrel.SelectBuilder {
	return r.builder.
		Select(
			"l.id",
			"b.id AS bom_id",
			"b.product_tmpl_id AS kit_template_id",
			"b.product_id AS kit_variant_id",
			"l.product_id AS component_id",
			"l.product_qty AS qty",
			`lu.id AS "line_uom.id"`,
			r.translated("lu.name", `"line_uom.name"`),
			`lu.factor AS "line_uom.factor"`,
			`lu.rounding AS "line_uom.rounding"`,
			`cu.id AS "component_uom.id"`,
			r.translated("cu.name", `"component_uom.name"`),
			`cu.factor AS "component_uom.factor"`,
			`cu.rounding AS "component_uom.rounding"`,
		).
		From("mrp_bom_line l").
		Join("mrp_bom b ON b.id = l.bom_id").
		Join("uom_uom lu ON lu.id = l.product_uom_id").
		Join("product_product pp ON pp.id = l.product_id").
		Join("product_template pt ON pt.id = pp.product_tmpl_id").
		Join("uom_uom cu ON cu.id = pt.uom_id").
		Where(squirrel.Eq{"l.product_id": componentID, "b.type": kit.TypePhantom, "b.active": true}).
		OrderBy("l.id")
}

// PhantomLines implements kit.Repository.
func (r *Repo) PhantomLines(ctx context.Context, componentID int64) ([]kit.Line, error) {
	sql, args, err := r.phantomLinesQuery(componentID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build phantom lines query: %w", err)
	}

	var lines []kit.Line
	if err := pgxscan.Select(ctx, r.querier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("select phantom lines: %w", err)
	}
	return lines, nil
}

// TemplateVariants implements kit.Repository.
func (r *Repo) TemplateVariants(ctx context.Context, templateID int64) ([]int64, error) {
	sql, args, err := r.builder.
		Select("id").
		From("product_product").
		Where(squirrel.Eq{"product_tmpl_id": templateID, "active": true}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build variants query: %w", err)
	}

	var ids []int64
	if err := pgxscan.Select(ctx, r.querier(ctx), &ids, sql, args...); err != nil {
		return nil, fmt.Errorf("select template variants: %w", err)
	}
	return ids, nil
}
