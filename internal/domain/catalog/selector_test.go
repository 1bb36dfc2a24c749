package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockreport/internal/core/apperror"
)

type stubRepo struct {
	products  []Product
	kits      []int64
	locations []int64
	err       error

	gotFilter     Filter
	gotTemplates  []int64
	gotWarehouses []int64
}

func (r *stubRepo) Products(_ context.Context, f Filter) ([]Product, error) {
	r.gotFilter = f
	return r.products, r.err
}

func (r *stubRepo) KitTemplateIDs(_ context.Context, templateIDs []int64) ([]int64, error) {
	r.gotTemplates = templateIDs
	return r.kits, nil
}

func (r *stubRepo) InternalLocations(_ context.Context, warehouseIDs []int64) ([]int64, error) {
	r.gotWarehouses = warehouseIDs
	return r.locations, r.err
}

func variant(id, tmpl int64, name string, attrs ...AttributeValue) Product {
	return Product{ID: id, TemplateID: tmpl, TemplateName: name, Type: TypeConsumable, Attributes: attrs}
}

func TestDisplayName(t *testing.T) {
	plain := variant(1, 1, "Desk")
	assert.Equal(t, "Desk", plain.DisplayName())

	shirt := variant(2, 2, "T-Shirt",
		AttributeValue{Attribute: "Color", Value: "Red"},
		AttributeValue{Attribute: "Size", Value: "M"},
	)
	assert.Equal(t, "T-Shirt (Color: Red, Size: M)", shirt.DisplayName())
}

func TestSelect_ExcludesKitsAndSortsByDisplayName(t *testing.T) {
	repo := &stubRepo{
		products: []Product{
			variant(3, 20, "Shirt", AttributeValue{"Size", "S"}),
			variant(1, 10, "Gift Box"),
			variant(2, 20, "Shirt", AttributeValue{"Size", "L"}),
			variant(4, 30, "Apron"),
			variant(2, 20, "Shirt", AttributeValue{"Size", "L"}),
		},
		kits: []int64{10},
	}

	products, err := NewSelector(repo).Select(context.Background(), Filter{CategoryIDs: []int64{7}})
	require.NoError(t, err)

	names := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, p.DisplayName())
	}
	assert.Equal(t, []string{"Apron", "Shirt (Size: L)", "Shirt (Size: S)"}, names)
	assert.Equal(t, []int64{20, 10, 30}, repo.gotTemplates)
	assert.Equal(t, []int64{7}, repo.gotFilter.CategoryIDs)
}

func TestSelect_DropsNonConsumables(t *testing.T) {
	service := variant(1, 1, "Delivery")
	service.Type = "service"
	repo := &stubRepo{products: []Product{service, variant(2, 2, "Chair")}}

	products, err := NewSelector(repo).Select(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, int64(2), products[0].ID)
}

func TestSelect_OnlyKitsIsNoProducts(t *testing.T) {
	repo := &stubRepo{products: []Product{variant(1, 10, "Gift Box")}, kits: []int64{10}}

	_, err := NewSelector(repo).Select(context.Background(), Filter{})
	assert.True(t, apperror.HasCode(err, apperror.CodeNoProducts))
}

func TestSelect_StoreFailurePropagates(t *testing.T) {
	cause := errors.New("connection reset")
	repo := &stubRepo{err: cause}

	_, err := NewSelector(repo).Select(context.Background(), Filter{})
	assert.ErrorIs(t, err, cause)
	_, isApp := apperror.AsAppError(err)
	assert.False(t, isApp)
}

func TestLocations(t *testing.T) {
	repo := &stubRepo{locations: []int64{12, 8}}

	set, err := NewSelector(repo).Locations(context.Background(), []int64{1})
	require.NoError(t, err)
	assert.Equal(t, []int64{8, 12}, set.IDs())
	assert.True(t, set.Has(12))
	assert.False(t, set.Has(9))
	assert.Equal(t, []int64{1}, repo.gotWarehouses)

	_, err = NewSelector(&stubRepo{}).Locations(context.Background(), nil)
	assert.True(t, apperror.HasCode(err, apperror.CodeNoLocations))
}
