package sorting

import (
	"slices"
	"testing"

	"github.com/matzehuels/barchart/pkg/chart"
	"github.com/matzehuels/barchart/pkg/errors"
)

func coffee() []chart.Record {
	return []chart.Record{
		{"chain": chart.Text("Tim Hortons"), "stores": chart.Number(4671), "revenue": chart.Number(3.16)},
		{"chain": chart.Text("Panera Bread"), "stores": chart.Number(1880), "revenue": chart.Number(2.53)},
		{"chain": chart.Text("Costa Coffee"), "stores": chart.Number(3080), "revenue": chart.Number(1.21)},
		{"chain": chart.Text("Caribou"), "stores": chart.Number(1880), "revenue": chart.Number(0.8)},
	}
}

func order(rs []chart.Record) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r["chain"].String()
	}
	return out
}

func TestStrategies(t *testing.T) {
	tests := []struct {
		sorter  chart.Sorter
		measure string
		want    []string
	}{
		{Alphabetical, "stores", []string{"Caribou", "Costa Coffee", "Panera Bread", "Tim Hortons"}},
		{Ascending, "stores", []string{"Caribou", "Panera Bread", "Costa Coffee", "Tim Hortons"}},
		{Descending, "stores", []string{"Tim Hortons", "Costa Coffee", "Caribou", "Panera Bread"}},
		{Descending, "revenue", []string{"Tim Hortons", "Panera Bread", "Costa Coffee", "Caribou"}},
	}

	for _, tt := range tests {
		t.Run(tt.sorter.Name()+"/"+tt.measure, func(t *testing.T) {
			got := order(tt.sorter.Sort(coffee(), "chain", tt.measure))
			if !slices.Equal(got, tt.want) {
				t.Errorf("order = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSortDoesNotMutateInput(t *testing.T) {
	in := coffee()
	before := order(in)
	for _, s := range []chart.Sorter{Alphabetical, Ascending, Descending} {
		s.Sort(in, "chain", "stores")
	}
	if got := order(in); !slices.Equal(got, before) {
		t.Errorf("input reordered to %v, want %v", got, before)
	}
}

func TestNonNumericSortsLast(t *testing.T) {
	in := []chart.Record{
		{"k": chart.Text("a"), "v": chart.Text("n/a")},
		{"k": chart.Text("b"), "v": chart.Number(1)},
		{"k": chart.Text("c"), "v": chart.Number(2)},
	}
	for _, s := range []chart.Sorter{Ascending, Descending} {
		got := s.Sort(in, "k", "v")
		if last := got[len(got)-1]["k"].String(); last != "a" {
			t.Errorf("%s: last = %q, want %q", s.Name(), last, "a")
		}
	}
}

func TestByName(t *testing.T) {
	for _, name := range Names() {
		s, err := ByName(name)
		if err != nil {
			t.Fatalf("ByName(%q) error: %v", name, err)
		}
		if s.Name() != name {
			t.Errorf("ByName(%q).Name() = %q", name, s.Name())
		}
	}

	if _, err := ByName("random"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ByName(random) error = %v, want INVALID_INPUT", err)
	}
}

func TestNext(t *testing.T) {
	if got := Next(nil); got != Alphabetical {
		t.Errorf("Next(nil) = %v, want Alphabetical", got.Name())
	}
	if got := Next(Alphabetical); got != Ascending {
		t.Errorf("Next(Alphabetical) = %v, want Ascending", got.Name())
	}
	if got := Next(Descending); got != Alphabetical {
		t.Errorf("Next(Descending) = %v, want Alphabetical", got.Name())
	}
}
