package memory

import (
	"context"
	"slices"
	"sort"

	"stockreport/internal/domain/catalog"
	"stockreport/internal/domain/kit"
)

func (s *snapshot) Products(_ context.Context, f catalog.Filter) ([]catalog.Product, error) {
	var categories map[int64]struct{}
	if len(f.CategoryIDs) > 0 {
		categories = s.descendants(f.CategoryIDs)
	}

	var out []catalog.Product
	for _, p := range s.data.Products {
		if p.Type != catalog.TypeConsumable {
			continue
		}
		if len(f.ProductIDs) > 0 && !slices.Contains(f.ProductIDs, p.ID) {
			continue
		}
		if categories != nil {
			if _, ok := categories[p.CategoryID]; !ok {
				continue
			}
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TemplateName < out[j].TemplateName })
	return out, nil
}

func (s *snapshot) descendants(roots []int64) map[int64]struct{} {
	seen := make(map[int64]struct{})
	stack := append([]int64(nil), roots...)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		stack = append(stack, s.idx.children[id]...)
	}
	return seen
}

func (s *snapshot) KitTemplateIDs(_ context.Context, templateIDs []int64) ([]int64, error) {
	var out []int64
	for _, b := range s.data.BoMs {
		if b.Type != kit.TypePhantom || !slices.Contains(templateIDs, b.TemplateID) {
			continue
		}
		if !slices.Contains(out, b.TemplateID) {
			out = append(out, b.TemplateID)
		}
	}
	return out, nil
}

func (s *snapshot) InternalLocations(_ context.Context, warehouseIDs []int64) ([]int64, error) {
	var out []int64
	for _, l := range s.data.Locations {
		if l.Usage != UsageInternal {
			continue
		}
		if len(warehouseIDs) > 0 && !slices.Contains(warehouseIDs, l.WarehouseID) {
			continue
		}
		out = append(out, l.ID)
	}
	return out, nil
}

func (s *snapshot) PhantomLines(_ context.Context, componentID int64) ([]kit.Line, error) {
	component, ok := s.idx.products[componentID]
	if !ok {
		return nil, nil
	}

	var out []kit.Line
	for _, b := range s.data.BoMs {
		if b.Type != kit.TypePhantom {
			continue
		}
		for _, l := range b.Lines {
			if l.ComponentID != componentID {
				continue
			}
			out = append(out, kit.Line{
				ID:            l.ID,
				BoMID:         b.ID,
				KitTemplateID: b.TemplateID,
				KitVariantID:  b.VariantID,
				ComponentID:   componentID,
				Qty:           l.Qty,
				LineUoM:       l.UoM,
				ComponentUoM:  component.UoM,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *snapshot) TemplateVariants(_ context.Context, templateID int64) ([]int64, error) {
	var out []int64
	for _, p := range s.data.Products {
		if p.TemplateID == templateID {
			out = append(out, p.ID)
		}
	}
	return out, nil
}
