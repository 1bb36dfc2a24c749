package movement

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"stockreport/internal/domain/catalog"
)

func TestMove_SignedQty(t *testing.T) {
	locs := catalog.NewLocationSet(1, 2)
	qty := decimal.NewFromInt(5)

	tests := []struct {
		name     string
		src, dst int64
		want     int64
		in, out  bool
	}{
		{"receipt", 9, 1, 5, true, false},
		{"issue", 2, 9, -5, false, true},
		{"internal transfer", 1, 2, 0, false, false},
		{"external to external", 8, 9, 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Move{SourceID: tt.src, DestID: tt.dst, Qty: qty, State: MoveStateDone}
			assert.True(t, decimal.NewFromInt(tt.want).Equal(m.SignedQty(locs)))
			assert.Equal(t, tt.in, m.Crosses(locs, Inbound))
			assert.Equal(t, tt.out, m.Crosses(locs, Outbound))
		})
	}
}

func TestOrderStates(t *testing.T) {
	assert.True(t, PurchaseLine{OrderState: "purchase"}.Confirmed())
	assert.False(t, PurchaseLine{OrderState: "sent"}.Confirmed())
	assert.True(t, SaleLine{OrderState: "done"}.Confirmed())
	assert.False(t, SaleLine{OrderState: "draft"}.Confirmed())
	assert.True(t, POSLine{OrderState: "invoiced"}.Settled())
	assert.False(t, POSLine{OrderState: "cancel"}.Settled())
}

func TestFlow_AddScale(t *testing.T) {
	f := Flow{Qty: decimal.NewFromInt(3), Value: decimal.NewFromInt(60)}
	got := Flow{}.Add(f.Scale(decimal.NewFromInt(2)))

	assert.Equal(t, "6", got.Qty.String())
	assert.Equal(t, "120", got.Value.String())
	assert.Equal(t, "in", Inbound.String())
	assert.Equal(t, "out", Outbound.String())
}
