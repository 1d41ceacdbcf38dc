// Package sink renders chart frames to output formats.
//
// # Overview
//
// A "sink" turns a [chart.Frame] snapshot into bytes. Sinks are pure
// functions of the frame: they never touch the engine, so a frame taken at
// any instant of an animation renders the same way every time.
//
//   - SVG: the reference drawing, with an optional hover tooltip script
//   - PNG: raster output drawn with golang.org/x/image/vector
//   - JSON: the frame as data, for external tools and tests
//   - Text: a horizontal bar chart for terminals
//
// # SVG Output
//
// [RenderSVG] lays the chart out the same way the engine describes it: bars
// inside a group translated by the left and top margins, the category axis
// along the bottom with labels rotated -45 degrees, and the value axis on the
// left.
//
//	svg := sink.RenderSVG(eng.Frame(),
//	    sink.WithTitle("Coffee chains"),
//	    sink.WithInteractive(),
//	)
//
// # PNG Output
//
// [RenderPNG] rasterizes the same geometry in-process. Labels use the fixed
// 7x13 bitmap face and are not rotated.
//
//	png, err := sink.RenderPNG(eng.Frame(), sink.WithScale(2))
//
// # Colors
//
// Bar fills accept SVG color keywords ("blue", "steelblue") and hex
// notation ("#4682b4", "#48b"). Unknown colors fall back to [chart.DefaultFill].
//
// [chart.Frame]: github.com/matzehuels/barchart/pkg/chart.Frame
// [chart.DefaultFill]: github.com/matzehuels/barchart/pkg/chart.DefaultFill
package sink
