package catalog

import (
	"slices"
)

// LocationSet is the set of internal stock locations in scope of a report.
// Moves crossing its boundary are receipts or issues; moves inside it are
// internal transfers.
type LocationSet struct {
	ids map[int64]struct{}
}

// NewLocationSet builds a set from location ids.
func NewLocationSet(ids ...int64) LocationSet {
	set := LocationSet{ids: make(map[int64]struct{}, len(ids))}
	for _, id := range ids {
		set.ids[id] = struct{}{}
	}
	return set
}

// Has reports whether the location is internal to the set.
func (s LocationSet) Has(id int64) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of locations.
func (s LocationSet) Len() int {
	return len(s.ids)
}

// IDs returns the location ids in ascending order.
func (s LocationSet) IDs() []int64 {
	out := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
