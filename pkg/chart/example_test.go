package chart_test

import (
	"fmt"
	"time"

	"github.com/matzehuels/barchart/pkg/chart"
	"github.com/matzehuels/barchart/pkg/chart/sorting"
)

func coffee() []chart.Record {
	return []chart.Record{
		{"chain": chart.Text("Starbucks"), "stores": chart.Number(10), "revenue": chart.Number(1.0)},
		{"chain": chart.Text("Dunkin"), "stores": chart.Number(5), "revenue": chart.Number(2.0)},
	}
}

// run drives the engine with a virtual clock until it settles.
func run(e *chart.Engine, clock *chart.ManualClock) {
	for {
		next, busy := e.Next()
		if !busy {
			return
		}
		clock.Set(next)
		e.Tick()
	}
}

func ExampleEngine_Mount() {
	clock := chart.NewManualClock(time.Unix(0, 0))
	e := chart.New(chart.WithClock(clock))

	// Bars are ordered by the sort strategy, tallest first
	_ = e.Mount(coffee(), chart.Config{CategoryKey: "chain", MeasureKey: "stores", Sort: sorting.Descending})
	run(e, clock)

	for _, b := range e.Frame().Bars {
		fmt.Printf("%s x=%.0f h=%.0f\n", b.Key, b.X, b.Height)
	}
	// Output:
	// Starbucks x=15 h=400
	// Dunkin x=315 h=200
}

func ExampleEngine_UpdateMeasure() {
	clock := chart.NewManualClock(time.Unix(0, 0))
	e := chart.New(chart.WithClock(clock))
	_ = e.Mount(coffee(), chart.Config{CategoryKey: "chain", MeasureKey: "stores", Sort: sorting.Descending})
	run(e, clock)

	// Bars rescale first, then re-sort over the new measure
	_ = e.UpdateMeasure("revenue")
	run(e, clock)

	fmt.Println("Order:", e.Domain())
	fmt.Println("History:", e.History())
	// Output:
	// Order: [Dunkin Starbucks]
	// History: [mounting idle updating(measure) updating(sort) idle]
}

func ExampleEngine_PointerEnter() {
	clock := chart.NewManualClock(time.Unix(0, 0))
	e := chart.New(chart.WithClock(clock))
	_ = e.Mount(coffee(), chart.Config{CategoryKey: "chain", MeasureKey: "stores"})
	run(e, clock)

	_ = e.PointerEnter("Dunkin", 300, 200)
	clock.Advance(chart.DefaultFadeIn)

	tip := e.Frame().Tooltip
	fmt.Printf("%q at (%.0f, %.0f)\n", tip.Text, tip.X, tip.Y)
	// Output:
	// "stores: 5" at (310, 172)
}

func ExampleBuildScales() {
	band, linear, err := chart.BuildScales(coffee(), "chain", "stores", 600, 400, 0.1)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("Bandwidth:", band.Bandwidth())
	fmt.Println("Max:", linear.Max())
	fmt.Println("Ticks:", linear.Ticks(5))
	// Output:
	// Bandwidth: 270
	// Max: 10
	// Ticks: [0 2 4 6 8 10]
}
