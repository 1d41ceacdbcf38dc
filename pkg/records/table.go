package records

import (
	"slices"
	"strings"

	"github.com/matzehuels/barchart/pkg/chart"
	"github.com/matzehuels/barchart/pkg/errors"
)

// Table is an aggregated CSV.
type Table struct {
	// CategoryKey is the first column, which identifies each record.
	CategoryKey string `json:"category_key"`

	// Columns is the header in file order, CategoryKey first.
	Columns []string `json:"columns"`

	// Numeric reports, per column, whether it was summed.
	Numeric map[string]bool `json:"numeric"`

	Records []chart.Record `json:"records"`
}

// Measures returns every column except the category.
func (t Table) Measures() []string {
	if len(t.Columns) < 2 {
		return nil
	}
	return slices.Clone(t.Columns[1:])
}

// DefaultMeasure is the first measure column, or "" when there is none.
func (t Table) DefaultMeasure() string {
	if len(t.Columns) < 2 {
		return ""
	}
	return t.Columns[1]
}

// HasMeasure reports whether key is one of the table's measures.
func (t Table) HasMeasure(key string) bool {
	return key != t.CategoryKey && slices.Contains(t.Columns, key)
}

// Config returns the chart config for measure with the given sort.
func (t Table) Config(measure string, sort chart.Sorter) chart.Config {
	return chart.Config{CategoryKey: t.CategoryKey, MeasureKey: measure, Sort: sort}
}

// Aggregate groups rows by their first cell. Short rows are padded with
// empty cells. It fails with INVALID_FORMAT for an empty or duplicated
// header, or a row wider than the header.
func Aggregate(header []string, rows [][]string) (Table, error) {
	if len(header) == 0 {
		return Table{}, errors.New(errors.ErrCodeInvalidFormat, "missing header row")
	}
	cols := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		if h == "" {
			return Table{}, errors.New(errors.ErrCodeInvalidFormat, "column %d has no name", i+1)
		}
		if seen[h] {
			return Table{}, errors.New(errors.ErrCodeInvalidFormat, "duplicate column %q", h)
		}
		seen[h] = true
		cols[i] = h
	}
	for i, row := range rows {
		if len(row) > len(cols) {
			return Table{}, errors.New(errors.ErrCodeInvalidFormat, "row %d has %d fields, header has %d", i+1, len(row), len(cols))
		}
	}

	numeric := make(map[string]bool, len(cols))
	for j, c := range cols {
		numeric[c] = j > 0 && isNumeric(rows, j)
	}

	var order []string
	groups := make(map[string]chart.Record)
	for _, row := range rows {
		key := cell(row, 0)
		rec, ok := groups[key]
		if !ok {
			rec = chart.Record{cols[0]: chart.Text(key)}
			for j, c := range cols[1:] {
				if numeric[c] {
					rec[c] = chart.Number(0)
				} else {
					rec[c] = chart.Text(cell(row, j+1))
				}
			}
			groups[key] = rec
			order = append(order, key)
		}
		for j, c := range cols[1:] {
			if !numeric[c] {
				continue
			}
			v, _ := chart.Text(cell(row, j+1)).Float()
			prev, _ := rec[c].Float()
			rec[c] = chart.Number(prev + v)
		}
	}

	t := Table{CategoryKey: cols[0], Columns: cols, Numeric: numeric, Records: make([]chart.Record, 0, len(order))}
	for _, key := range order {
		t.Records = append(t.Records, groups[key])
	}
	return t, nil
}

func cell(row []string, j int) string {
	if j < len(row) {
		return row[j]
	}
	return ""
}

// isNumeric reports whether every non-empty cell of column j is a finite number.
func isNumeric(rows [][]string, j int) bool {
	for _, row := range rows {
		if _, ok := chart.Text(cell(row, j)).Float(); !ok {
			return false
		}
	}
	return true
}
