package random

// Pick draws one item with probability proportional to its weight.
//
// A value u is drawn uniformly from [0,total); weights are subtracted in
// slice order until u is no longer positive and that item is returned along
// with its index. Earlier items win ties. Pick returns the zero value and -1
// for an empty slice.
func Pick[T any](src Source, items []T, weight func(T) float64) (T, int) {
	var zero T
	if len(items) == 0 {
		return zero, -1
	}

	total := 0.0
	for _, it := range items {
		total += weight(it)
	}
	if total <= 0 {
		return items[0], 0
	}

	u := src.Float64() * total
	for i, it := range items {
		u -= weight(it)
		if u <= 0 {
			return it, i
		}
	}
	// Float rounding can leave a sliver past the last weight.
	last := len(items) - 1
	return items[last], last
}

// Outcome is one named row of a Table.
type Outcome[K comparable] struct {
	Key    K
	Weight float64
}

// Table is an ordered set of named outcomes. Rows are cumulative in
// declaration order, so a roll r lands on the first row whose running total
// is >= r (scaled to the table total).
type Table[K comparable] struct {
	outcomes []Outcome[K]
}

func NewTable[K comparable](outcomes ...Outcome[K]) Table[K] {
	return Table[K]{outcomes: outcomes}
}

// Roll draws one outcome key.
func (t Table[K]) Roll(src Source) K {
	o, _ := Pick(src, t.outcomes, func(o Outcome[K]) float64 { return o.Weight })
	return o.Key
}

// Outcomes returns the rows in declaration order.
func (t Table[K]) Outcomes() []Outcome[K] {
	out := make([]Outcome[K], len(t.outcomes))
	copy(out, t.outcomes)
	return out
}

// Probability returns the share of key in the table, 0 if absent.
func (t Table[K]) Probability(key K) float64 {
	total, w := 0.0, 0.0
	for _, o := range t.outcomes {
		total += o.Weight
		if o.Key == key {
			w += o.Weight
		}
	}
	if total == 0 {
		return 0
	}
	return w / total
}
