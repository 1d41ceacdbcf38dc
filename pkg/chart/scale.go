package chart

import (
	"math"
	"slices"

	"github.com/matzehuels/barchart/pkg/errors"
)

// Band is a categorical scale. It maps each domain value to a
// non-overlapping pixel band. Domain order encodes the current sort.
type Band struct {
	Domain  []string
	Range   [2]float64
	Padding float64

	index map[string]int
}

// NewBand builds a band scale over domain spanning [0, width].
func NewBand(domain []string, width, padding float64) Band {
	b := Band{Domain: slices.Clone(domain), Range: [2]float64{0, width}, Padding: padding}
	b.index = make(map[string]int, len(domain))
	for i, d := range domain {
		b.index[d] = i
	}
	return b
}

// Step is the distance between the starts of adjacent bands.
func (b Band) Step() float64 {
	if len(b.Domain) == 0 {
		return 0
	}
	return (b.Range[1] - b.Range[0]) / float64(len(b.Domain))
}

// Bandwidth is the width of a single band.
func (b Band) Bandwidth() float64 {
	return b.Step() * (1 - b.Padding)
}

// Position returns the left edge of key's band.
func (b Band) Position(key string) (float64, bool) {
	i, ok := b.index[key]
	if !ok {
		return 0, false
	}
	step := b.Step()
	return b.Range[0] + float64(i)*step + step*b.Padding/2, true
}

// Center returns the midpoint of key's band, where its axis tick sits.
func (b Band) Center(key string) (float64, bool) {
	x, ok := b.Position(key)
	return x + b.Bandwidth()/2, ok
}

// Contains reports whether key is in the domain.
func (b Band) Contains(key string) bool {
	_, ok := b.index[key]
	return ok
}

// Linear is a continuous scale from Domain onto Range. The value axis uses
// Range [height, 0], so larger values map to smaller pixel-y.
type Linear struct {
	Domain [2]float64
	Range  [2]float64
}

// NewLinear builds the value scale [0, upper] onto [height, 0].
func NewLinear(upper, height float64) Linear {
	return Linear{Domain: [2]float64{0, upper}, Range: [2]float64{height, 0}}
}

// Scale maps v into the range. A degenerate domain maps every value to the
// start of the range, which is the baseline for the value axis.
func (s Linear) Scale(v float64) float64 {
	d0, d1 := s.Domain[0], s.Domain[1]
	if d1 == d0 {
		return s.Range[0]
	}
	t := (v - d0) / (d1 - d0)
	return s.Range[0] + t*(s.Range[1]-s.Range[0])
}

// Max is the domain's upper bound.
func (s Linear) Max() float64 { return s.Domain[1] }

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// Ticks returns roughly count evenly spaced round values covering the domain.
// Steps are 1, 2 or 5 times a power of ten.
func (s Linear) Ticks(count int) []float64 {
	start, stop := s.Domain[0], s.Domain[1]
	if start > stop {
		start, stop = stop, start
	}
	if count <= 0 {
		return nil
	}
	if start == stop {
		return []float64{start}
	}

	step := (stop - start) / float64(count)
	power := math.Floor(math.Log10(step))
	err := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case err >= e10:
		factor = 10
	case err >= e5:
		factor = 5
	case err >= e2:
		factor = 2
	}

	var ticks []float64
	if power < 0 {
		inc := math.Pow(10, -power) / factor
		i1, i2 := math.Round(start*inc), math.Round(stop*inc)
		if i1/inc < start {
			i1++
		}
		if i2/inc > stop {
			i2--
		}
		for i := i1; i <= i2; i++ {
			ticks = append(ticks, i/inc)
		}
		return ticks
	}
	inc := math.Pow(10, power) * factor
	i1, i2 := math.Round(start/inc), math.Round(stop/inc)
	if i1*inc < start {
		i1++
	}
	if i2*inc > stop {
		i2--
	}
	for i := i1; i <= i2; i++ {
		ticks = append(ticks, i*inc)
	}
	return ticks
}

// BuildScales derives the band and value scales for records over a plot
// area of width by height pixels. The band domain
// follows record order; this function never sorts.
//
// It fails with EMPTY_DATASET for no records, MISSING_KEY when a key is absent
// from any record, INVALID_DOMAIN when a measure is not a finite number, and
// INVALID_INPUT when two records share a category.
func BuildScales(records []Record, categoryKey, measureKey string, width, height, padding float64) (Band, Linear, error) {
	domain, values, err := extract(records, categoryKey, measureKey)
	if err != nil {
		return Band{}, Linear{}, err
	}
	return NewBand(domain, width, padding), NewLinear(domainMax(values), height), nil
}

// extract validates records and returns their categories and measure values.
func extract(records []Record, categoryKey, measureKey string) ([]string, []float64, error) {
	if len(records) == 0 {
		return nil, nil, errors.New(errors.ErrCodeEmptyDataset, "no records to draw")
	}
	domain := make([]string, len(records))
	values := make([]float64, len(records))
	seen := make(map[string]int, len(records))
	for i, r := range records {
		cat, err := r.Category(categoryKey)
		if err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeMissingKey, err, "record %d", i)
		}
		if j, dup := seen[cat]; dup {
			return nil, nil, errors.New(errors.ErrCodeInvalidInput, "records %d and %d share category %q", j, i, cat)
		}
		seen[cat] = i
		v, err := r.Measure(measureKey)
		if err != nil {
			return nil, nil, errors.Wrap(errors.GetCode(err), err, "record %d", i)
		}
		domain[i], values[i] = cat, v
	}
	return domain, values, nil
}

// domainMax is the value scale's upper bound. It never drops below zero.
func domainMax(values []float64) float64 {
	m := 0.0
	for _, v := range values {
		m = max(m, v)
	}
	return m
}
