package kit

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"stockreport/internal/domain/uom"
)

// Attribution links a component to one kit variant.
type Attribution struct {
	KitID int64
	// Multiplier is the component quantity per kit unit, in the
	// component's base unit.
	Multiplier decimal.Decimal
}

// Resolver computes kit attributions and caches them per component.
// It is safe for concurrent use; one resolver must only serve repositories
// that observe the same data.
type Resolver struct {
	mu    sync.RWMutex
	cache map[int64][]Attribution
}

// NewResolver creates an empty resolver.
func NewResolver() *Resolver {
	return &Resolver{cache: make(map[int64][]Attribution)}
}

// KitsFor returns the kits containing componentID, ordered by kit id.
//
// A variant-specific BoM attributes to that variant; a template BoM gives
// the same multiplier to every variant of the template. When several lines
// reach the same kit the one with the highest line id wins.
func (r *Resolver) KitsFor(ctx context.Context, repo Repository, componentID int64) ([]Attribution, error) {
	r.mu.RLock()
	cached, ok := r.cache[componentID]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	resolved, err := resolve(ctx, repo, componentID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cache[componentID] = resolved
	r.mu.Unlock()
	return resolved, nil
}

func resolve(ctx context.Context, repo Repository, componentID int64) ([]Attribution, error) {
	lines, err := repo.PhantomLines(ctx, componentID)
	if err != nil {
		return nil, fmt.Errorf("phantom lines of product %d: %w", componentID, err)
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].ID < lines[j].ID })

	multipliers := make(map[int64]decimal.Decimal)
	variants := make(map[int64][]int64)
	for _, line := range lines {
		qty := uom.Convert(line.Qty, line.LineUoM, line.ComponentUoM, true)

		if line.KitVariantID != nil {
			multipliers[*line.KitVariantID] = qty
			continue
		}

		ids, ok := variants[line.KitTemplateID]
		if !ok {
			ids, err = repo.TemplateVariants(ctx, line.KitTemplateID)
			if err != nil {
				return nil, fmt.Errorf("variants of template %d: %w", line.KitTemplateID, err)
			}
			variants[line.KitTemplateID] = ids
		}
		for _, id := range ids {
			multipliers[id] = qty
		}
	}

	out := make([]Attribution, 0, len(multipliers))
	for kitID, m := range multipliers {
		out = append(out, Attribution{KitID: kitID, Multiplier: m})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].KitID < out[j].KitID })
	return out, nil
}
