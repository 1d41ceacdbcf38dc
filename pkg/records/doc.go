// Package records turns CSV files into chart records.
//
// # Aggregation
//
// [Aggregate] groups rows by the first column, in order of first appearance,
// and emits one [chart.Record] per group:
//
//	chain,stores,revenue        chain,stores,revenue
//	Starbucks,10,1.5      -->   Starbucks,15,2.25
//	Dunkin,4,0.5                Dunkin,4,0.5
//	Starbucks,5,0.75
//
// A column is numeric when every non-empty cell is a finite number; numeric
// columns are summed per group. Other columns keep the text of the group's
// first row, so picking one as the measure is rejected by the engine with
// INVALID_DOMAIN rather than silently drawn as zero.
//
// # Loading
//
// A [Loader] reads a file, hashes its content and consults a [cache.Cache]
// before aggregating. Every read or parse failure is reported as LOAD_ERROR
// and never reaches the engine.
//
//	l := records.NewLoader(records.WithCache(c), records.WithLogger(logger))
//	table, err := l.Load(ctx, "coffee-house-chains.csv")
//
// [chart.Record]: github.com/matzehuels/barchart/pkg/chart.Record
// [cache.Cache]: github.com/matzehuels/barchart/pkg/cache.Cache
package records
