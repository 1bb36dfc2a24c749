package movement

import (
	"github.com/shopspring/decimal"
)

// Direction of a move relative to the internal location boundary.
type Direction int

const (
	Inbound Direction = iota
	Outbound
)

func (d Direction) String() string {
	if d == Inbound {
		return "in"
	}
	return "out"
}

// Flow is a quantity and the value attached to it.
type Flow struct {
	Qty   decimal.Decimal `db:"qty" json:"qty"`
	Value decimal.Decimal `db:"value" json:"value"`
}

// Add returns the sum of two flows.
func (f Flow) Add(o Flow) Flow {
	return Flow{Qty: f.Qty.Add(o.Qty), Value: f.Value.Add(o.Value)}
}

// Scale multiplies quantity and value by m.
func (f Flow) Scale(m decimal.Decimal) Flow {
	return Flow{Qty: f.Qty.Mul(m), Value: f.Value.Mul(m)}
}

// Channels selects which order books feed a report.
type Channels struct {
	Purchases bool `json:"purchases"`
	Sales     bool `json:"sales"`
	POS       bool `json:"pos"`
}

// AllChannels enables every channel.
func AllChannels() Channels {
	return Channels{Purchases: true, Sales: true, POS: true}
}

// Moves is the flow summary of one product over one window.
type Moves struct {
	// In and Out are moves crossing the internal boundary.
	In  Flow `json:"in"`
	Out Flow `json:"out"`

	Purchase Flow `json:"purchase"`
	Sale     Flow `json:"sale"`
	POS      Flow `json:"pos"`
}

// MonthMetrics is one product's figures for one month.
type MonthMetrics struct {
	Opening  decimal.Decimal `json:"opening"`
	Closing  decimal.Decimal `json:"closing"`
	In       Flow            `json:"in"`
	Out      Flow            `json:"out"`
	Purchase Flow            `json:"purchase"`
	Sale     Flow            `json:"sale"`
	POS      Flow            `json:"pos"`
}
