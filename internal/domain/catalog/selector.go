package catalog

import (
	"context"
	"fmt"
	"sort"

	"stockreport/internal/core/apperror"
)

// Repository reads the product catalog and location hierarchy.
type Repository interface {
	// Products returns consumable variants matching the filter, attributes
	// included. Kits are not excluded here.
	Products(ctx context.Context, f Filter) ([]Product, error)

	// KitTemplateIDs returns those of the given templates that have at
	// least one phantom bill of materials.
	KitTemplateIDs(ctx context.Context, templateIDs []int64) ([]int64, error)

	// InternalLocations returns internal-usage locations, limited to the
	// given warehouses when any are listed.
	InternalLocations(ctx context.Context, warehouseIDs []int64) ([]int64, error)
}

// Selector resolves the rows and the location boundary of a report.
type Selector struct {
	repo Repository
}

// NewSelector creates a selector over repo.
func NewSelector(repo Repository) *Selector {
	return &Selector{repo: repo}
}

// Select returns the reportable variants ordered by display name.
// Variants of kit templates are dropped: their movements reach the report
// through their components. An empty result is a NO_PRODUCTS error.
func (s *Selector) Select(ctx context.Context, f Filter) ([]Product, error) {
	candidates, err := s.repo.Products(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	seen := make(map[int64]struct{}, len(candidates))
	var templateIDs []int64
	seenTemplates := make(map[int64]struct{})
	for _, p := range candidates {
		if _, ok := seenTemplates[p.TemplateID]; !ok {
			seenTemplates[p.TemplateID] = struct{}{}
			templateIDs = append(templateIDs, p.TemplateID)
		}
	}

	kits := make(map[int64]struct{})
	if len(templateIDs) > 0 {
		kitIDs, err := s.repo.KitTemplateIDs(ctx, templateIDs)
		if err != nil {
			return nil, fmt.Errorf("load kit templates: %w", err)
		}
		for _, id := range kitIDs {
			kits[id] = struct{}{}
		}
	}

	products := make([]Product, 0, len(candidates))
	for _, p := range candidates {
		if p.Type != TypeConsumable {
			continue
		}
		if _, isKit := kits[p.TemplateID]; isKit {
			continue
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		products = append(products, p)
	}

	if len(products) == 0 {
		return nil, apperror.NewNoProducts()
	}

	sort.SliceStable(products, func(i, j int) bool {
		ni, nj := products[i].DisplayName(), products[j].DisplayName()
		if ni != nj {
			return ni < nj
		}
		return products[i].ID < products[j].ID
	})
	return products, nil
}

// Locations returns the internal location boundary. An empty set is a
// NO_LOCATIONS error.
func (s *Selector) Locations(ctx context.Context, warehouseIDs []int64) (LocationSet, error) {
	ids, err := s.repo.InternalLocations(ctx, warehouseIDs)
	if err != nil {
		return LocationSet{}, fmt.Errorf("load locations: %w", err)
	}
	if len(ids) == 0 {
		return LocationSet{}, apperror.NewNoLocations().WithDetail("warehouseIds", warehouseIDs)
	}
	return NewLocationSet(ids...), nil
}
