// Package chart renders a single categorical bar chart and keeps it in sync
// with three independent inputs: the measure shown on the value axis, the
// sort order of categories, and the record set itself.
//
// # Overview
//
// An [Engine] owns a persistent scene made of bars keyed by category, a
// category axis, a value axis, two axis titles and one shared tooltip.
// Callers hand the engine the full input on every change:
//
//	eng := chart.New(chart.WithLogger(logger))
//	err := eng.Update(records, chart.Config{
//	    CategoryKey: "chain",
//	    MeasureKey:  "stores",
//	    Sort:        sorting.Descending,
//	})
//
// The engine diffs the input against what it last applied and reconciles
// the scene incrementally. Only a category key change rebuilds the scene.
// A measure change rescales the value axis and bar heights, and once that
// settles the current sort is applied again, because rank order under the
// new measure may differ.
//
// # Time
//
// Transitions are time-based. Nothing moves until [Engine.Tick] (or
// [Engine.Frame]) reads the engine's [Clock]. Use [SystemClock] with a
// ticker in interactive programs, or [ManualClock] to step through an
// animation deterministically:
//
//	clock := chart.NewManualClock(time.Unix(0, 0))
//	eng := chart.New(chart.WithClock(clock))
//	...
//	for t, busy := eng.Next(); busy; t, busy = eng.Next() {
//	    clock.Set(t)
//	    eng.Tick()
//	}
//
// An update that arrives while another is animating does not queue. Every
// element in flight is retargeted from wherever it is on screen.
//
// # Frames
//
// [Engine.Frame] returns an immutable [Frame] snapshot, which is what the
// renderers in the sink package consume.
//
// # Errors
//
// Input errors carry codes from the errors package: EMPTY_DATASET,
// INVALID_DOMAIN and MISSING_KEY. On any of them the engine reports the
// error and leaves the previous scene untouched.
package chart
