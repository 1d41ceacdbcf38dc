// Package sorting provides the sort strategies a chart can apply to its
// categories.
//
// Every strategy is a pure function of its input: it copies the record slice,
// sorts the copy and leaves the caller's slice untouched. Sorts are stable and
// break ties by category, so each strategy imposes a total order.
//
//	eng.UpdateSort(sorting.Descending)
//
//	s, err := sorting.ByName("ascending")
package sorting

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/barchart/pkg/chart"
	"github.com/matzehuels/barchart/pkg/errors"
)

// Strategy names accepted by ByName.
const (
	NameAlphabetical = "alphabetical"
	NameAscending    = "ascending"
	NameDescending   = "descending"
)

var (
	// Alphabetical orders records by category.
	Alphabetical chart.Sorter = byCategory{}

	// Ascending orders records by measure, smallest first.
	Ascending chart.Sorter = byMeasure{name: NameAscending}

	// Descending orders records by measure, largest first.
	Descending chart.Sorter = byMeasure{name: NameDescending, desc: true}
)

var strategies = map[string]chart.Sorter{
	NameAlphabetical: Alphabetical,
	NameAscending:    Ascending,
	NameDescending:   Descending,
}

// Names lists the available strategies in the order a UI should cycle them.
func Names() []string {
	return []string{NameAlphabetical, NameAscending, NameDescending}
}

// ByName returns the strategy registered under name.
func ByName(name string) (chart.Sorter, error) {
	if s, ok := strategies[name]; ok {
		return s, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unknown sort %q (must be one of %v)", name, Names())
}

// Next returns the strategy after s in Names order, wrapping around.
func Next(s chart.Sorter) chart.Sorter {
	names := Names()
	i := 0
	if s != nil {
		i = (slices.Index(names, s.Name()) + 1) % len(names)
	}
	return strategies[names[i]]
}

// entry pairs a record with its sort keys.
type entry struct {
	rec   chart.Record
	cat   string
	value float64
}

func entries(records []chart.Record, categoryKey, measureKey string) []entry {
	es := make([]entry, len(records))
	for i, r := range records {
		es[i] = entry{rec: r, cat: r[categoryKey].String(), value: math.NaN()}
		if measureKey != "" {
			if v, err := r.Measure(measureKey); err == nil {
				es[i].value = v
			}
		}
	}
	return es
}

func records(es []entry) []chart.Record {
	out := make([]chart.Record, len(es))
	for i, e := range es {
		out[i] = e.rec
	}
	return out
}

type byCategory struct{}

func (byCategory) Name() string { return NameAlphabetical }

func (byCategory) Sort(rs []chart.Record, categoryKey, _ string) []chart.Record {
	es := entries(rs, categoryKey, "")
	slices.SortStableFunc(es, func(a, b entry) int { return cmp.Compare(a.cat, b.cat) })
	return records(es)
}

type byMeasure struct {
	name string
	desc bool
}

func (s byMeasure) Name() string { return s.name }

// Sort orders by measure. Records without a numeric value sort last.
func (s byMeasure) Sort(rs []chart.Record, categoryKey, measureKey string) []chart.Record {
	es := entries(rs, categoryKey, measureKey)
	slices.SortStableFunc(es, func(a, b entry) int {
		an, bn := math.IsNaN(a.value), math.IsNaN(b.value)
		switch {
		case an && bn:
			return cmp.Compare(a.cat, b.cat)
		case an:
			return 1
		case bn:
			return -1
		}
		c := cmp.Compare(a.value, b.value)
		if s.desc {
			c = -c
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(a.cat, b.cat)
	})
	return records(es)
}
