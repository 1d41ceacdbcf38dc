// Package pkg provides the libraries behind barchart, an animated bar chart
// renderer.
//
// # Overview
//
// The pkg directory is organized around the chart engine:
//
//  1. [chart] - Scales, animation, the scene and the render engine
//  2. [chart/sorting] - Sort strategies for categories
//  3. [chart/sink] - Frame output as SVG, PNG, JSON and terminal text
//  4. [records] - CSV loading and per-category aggregation
//  5. [cache] - Table caching on disk or in Redis
//
// # Architecture
//
// The typical data flow through barchart:
//
//	CSV file or URL
//	         ↓
//	    [records] package (group rows, sum numeric columns)
//	         ↓
//	    [chart] package (scales + animated scene)
//	         ↓
//	    [chart/sink] package (frame snapshot)
//	         ↓
//	    SVG/PNG/JSON/text output
//
// # Quick Start
//
//	table, err := records.NewLoader().Load(ctx, "coffee-house-chains.csv")
//	if err != nil {
//	    return err
//	}
//	eng := chart.New()
//	err = eng.Mount(table.Records, table.Config("Stores", sorting.Descending))
//	// ... let the animation run, then:
//	svg := sink.RenderSVG(eng.Frame())
//
// [chart]: github.com/matzehuels/barchart/pkg/chart
// [chart/sorting]: github.com/matzehuels/barchart/pkg/chart/sorting
// [chart/sink]: github.com/matzehuels/barchart/pkg/chart/sink
// [records]: github.com/matzehuels/barchart/pkg/records
// [cache]: github.com/matzehuels/barchart/pkg/cache
package pkg
