// Package memory is an in-process record store for tests and demos.
package memory

import (
	"context"
	"sync"

	"stockreport/internal/domain/catalog"
	"stockreport/internal/domain/kit"
	"stockreport/internal/domain/movement"
	"stockreport/internal/domain/reports"
)

// UsageInternal marks stock-holding locations.
const UsageInternal = "internal"

// Category is a product category node.
type Category struct {
	ID       int64
	ParentID int64
	Name     string
}

// Location is a stock location. WarehouseID is zero for locations outside
// any warehouse.
type Location struct {
	ID          int64
	Name        string
	Usage       string
	WarehouseID int64
}

// Dataset is the full content of the store.
type Dataset struct {
	Categories    []Category
	Products      []catalog.Product
	Locations     []Location
	BoMs          []kit.BoM
	Moves         []movement.Move
	PurchaseLines []movement.PurchaseLine
	SaleLines     []movement.SaleLine
	POSLines      []movement.POSLine
}

// Store holds a dataset. Views hold a read lock for their whole duration,
// so Update waits for running reports to finish.
type Store struct {
	mu   sync.RWMutex
	data Dataset
	idx  *index
}

var _ reports.Store = (*Store)(nil)

// New creates a store over data.
func New(data Dataset) *Store {
	return &Store{data: data, idx: buildIndex(&data)}
}

// Update mutates the dataset under the write lock.
func (s *Store) Update(fn func(d *Dataset)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.data)
	s.idx = buildIndex(&s.data)
}

// View implements reports.Store.
func (s *Store) View(ctx context.Context, fn func(ctx context.Context, snap reports.Snapshot) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx, &snapshot{data: &s.data, idx: s.idx})
}

type index struct {
	products      map[int64]catalog.Product
	purchaseLines map[int64]movement.PurchaseLine
	children      map[int64][]int64
}

func buildIndex(d *Dataset) *index {
	idx := &index{
		products:      make(map[int64]catalog.Product, len(d.Products)),
		purchaseLines: make(map[int64]movement.PurchaseLine, len(d.PurchaseLines)),
		children:      make(map[int64][]int64),
	}
	for _, p := range d.Products {
		idx.products[p.ID] = p
	}
	for _, l := range d.PurchaseLines {
		idx.purchaseLines[l.ID] = l
	}
	for _, c := range d.Categories {
		if c.ParentID != 0 {
			idx.children[c.ParentID] = append(idx.children[c.ParentID], c.ID)
		}
	}
	return idx
}

// snapshot reads the dataset under the store's read lock. It never
// mutates, so attached views share it.
type snapshot struct {
	data *Dataset
	idx  *index
}

func (s *snapshot) Catalog() catalog.Repository { return s }
func (s *snapshot) Ledger() movement.Ledger     { return s }
func (s *snapshot) BoMs() kit.Repository        { return s }

func (s *snapshot) Attach(ctx context.Context, fn func(ctx context.Context, view reports.Snapshot) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx, s)
}
