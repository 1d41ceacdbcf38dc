package records

import (
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/barchart/pkg/chart"
	"github.com/matzehuels/barchart/pkg/chart/sorting"
	"github.com/matzehuels/barchart/pkg/errors"
)

func TestAggregate(t *testing.T) {
	header := []string{"chain", "stores", "revenue"}
	rows := [][]string{
		{"Starbucks", "10", "1.5"},
		{"Dunkin", "4", "0.5"},
		{"Starbucks", "5", "0.75"},
	}
	table, err := Aggregate(header, rows)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	if table.CategoryKey != "chain" {
		t.Errorf("CategoryKey = %q, want chain", table.CategoryKey)
	}
	if got := table.Measures(); !slices.Equal(got, []string{"stores", "revenue"}) {
		t.Errorf("Measures() = %v", got)
	}
	if len(table.Records) != 2 {
		t.Fatalf("len(Records) = %d, want 2", len(table.Records))
	}

	tests := []struct {
		i       int
		chain   string
		stores  float64
		revenue float64
	}{
		{0, "Starbucks", 15, 2.25},
		{1, "Dunkin", 4, 0.5},
	}
	for _, tt := range tests {
		r := table.Records[tt.i]
		if got, _ := r.Category("chain"); got != tt.chain {
			t.Errorf("record %d chain = %q, want %q", tt.i, got, tt.chain)
		}
		if got, _ := r.Measure("stores"); got != tt.stores {
			t.Errorf("%s stores = %v, want %v", tt.chain, got, tt.stores)
		}
		if got, _ := r.Measure("revenue"); got != tt.revenue {
			t.Errorf("%s revenue = %v, want %v", tt.chain, got, tt.revenue)
		}
	}
}

func TestAggregateTextColumn(t *testing.T) {
	header := []string{"chain", "country", "stores"}
	rows := [][]string{
		{"Starbucks", "US", "10"},
		{"Costa", "UK", ""},
		{"Starbucks", "CA", "5"},
	}
	table, err := Aggregate(header, rows)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if table.Numeric["country"] || !table.Numeric["stores"] {
		t.Errorf("Numeric = %v, want only stores", table.Numeric)
	}
	if got := table.Records[0]["country"].String(); got != "US" {
		t.Errorf("Starbucks country = %q, want first row's US", got)
	}
	if got, _ := table.Records[1].Measure("stores"); got != 0 {
		t.Errorf("Costa stores = %v, want 0 from an empty cell", got)
	}

	// A text measure is rejected by the engine, not drawn as zeros.
	e := chart.New(chart.WithClock(chart.NewManualClock(time.Unix(0, 0))))
	err = e.Mount(table.Records, table.Config("country", sorting.Alphabetical))
	if !errors.Is(err, errors.ErrCodeInvalidDomain) {
		t.Errorf("Mount with text measure error = %v, want INVALID_DOMAIN", err)
	}
}

func TestAggregateShortRows(t *testing.T) {
	table, err := Aggregate([]string{"k", "a", "b"}, [][]string{{"x", "1"}, {"y"}})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if got, _ := table.Records[1].Measure("b"); got != 0 {
		t.Errorf("padded cell = %v, want 0", got)
	}
}

func TestAggregateErrors(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		rows   [][]string
	}{
		{"no header", nil, nil},
		{"blank column", []string{"k", " "}, nil},
		{"duplicate column", []string{"k", "v", "v"}, nil},
		{"wide row", []string{"k", "v"}, [][]string{{"a", "1", "2"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Aggregate(tt.header, tt.rows); !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("Aggregate error = %v, want INVALID_FORMAT", err)
			}
		})
	}
}

func TestAggregateNoRows(t *testing.T) {
	table, err := Aggregate([]string{"k", "v"}, nil)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if len(table.Records) != 0 {
		t.Errorf("Records = %v, want none", table.Records)
	}
}

func TestTableHelpers(t *testing.T) {
	table := Table{CategoryKey: "k", Columns: []string{"k", "a", "b"}}
	if got := table.DefaultMeasure(); got != "a" {
		t.Errorf("DefaultMeasure() = %q, want a", got)
	}
	if !table.HasMeasure("b") || table.HasMeasure("k") || table.HasMeasure("z") {
		t.Error("HasMeasure should accept only non-category columns")
	}
	if got := (Table{Columns: []string{"k"}}).DefaultMeasure(); got != "" {
		t.Errorf("DefaultMeasure() of category-only table = %q", got)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  ParseOptions
		want  []string
	}{
		{"comma", "k,v\na,1\nb,2\n", ParseOptions{}, []string{"a", "b"}},
		{"semicolon", "k;v\na;1\n", ParseOptions{Delimiter: ';'}, []string{"a"}},
		{"comments", "k,v\n# skipped\na,1\n", ParseOptions{Comment: '#'}, []string{"a"}},
		{"bom", "\ufeffk,v\na,1\n", ParseOptions{}, []string{"a"}},
		{"quoted", "k,v\n\"a, inc\",1\n", ParseOptions{}, []string{"a, inc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Parse(strings.NewReader(tt.input), tt.opts)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if table.CategoryKey != "k" {
				t.Errorf("CategoryKey = %q, want k", table.CategoryKey)
			}
			var got []string
			for _, r := range table.Records {
				got = append(got, r["k"].String())
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("categories = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{"", "k,v\n\"unterminated,1\n"} {
		if _, err := Parse(strings.NewReader(input), ParseOptions{}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("Parse(%q) error = %v, want INVALID_FORMAT", input, err)
		}
	}
}
