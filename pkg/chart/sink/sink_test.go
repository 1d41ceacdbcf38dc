package sink

import (
	"bytes"
	"encoding/json"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/barchart/pkg/chart"
	"github.com/matzehuels/barchart/pkg/chart/sorting"
)

func settledEngine(t *testing.T, records []chart.Record) (*chart.Engine, *chart.ManualClock) {
	t.Helper()
	clock := chart.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	e := chart.New(chart.WithClock(clock))
	cfg := chart.Config{CategoryKey: "chain", MeasureKey: "stores", Sort: sorting.Descending}
	if err := e.Mount(records, cfg); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	clock.Advance(chart.DefaultDuration)
	e.Tick()
	return e, clock
}

func testRecords() []chart.Record {
	return []chart.Record{
		{"chain": chart.Text("A"), "stores": chart.Number(10)},
		{"chain": chart.Text("B"), "stores": chart.Number(5)},
	}
}

func TestRenderSVG(t *testing.T) {
	e, _ := settledEngine(t, testRecords())
	svg := string(RenderSVG(e.Frame(), WithTitle("Stores")))

	want := []string{
		`viewBox="0 0 820.0 580.0"`,
		`<title>Stores</title>`,
		`transform="translate(120.00,60.00)"`,
		`<rect class="bar" id="bar-A" x="15.00" y="0.00" width="270.00" height="400.00" fill="blue" data-value="10"/>`,
		`<rect class="bar" id="bar-B" x="315.00" y="200.00" width="270.00" height="200.00" fill="blue" data-value="5"/>`,
		`transform="rotate(-45)"`,
		`<text class="label" x="650.00" y="400.00" text-anchor="middle">chain</text>`,
		`<text class="label" x="0.00" y="-40.00" text-anchor="middle">stores</text>`,
	}
	for _, w := range want {
		if !strings.Contains(svg, w) {
			t.Errorf("SVG missing %s", w)
		}
	}
	if strings.Contains(svg, `class="tooltip"`) {
		t.Error("hidden tooltip should not be drawn in static SVG")
	}
	if strings.Contains(svg, "<script") {
		t.Error("static SVG should not carry a script")
	}
}

func TestRenderSVGInteractive(t *testing.T) {
	e, _ := settledEngine(t, testRecords())
	svg := string(RenderSVG(e.Frame(), WithInteractive()))
	for _, w := range []string{`class="tooltip"`, `data-measure="stores"`, "<script", "mouseenter"} {
		if !strings.Contains(svg, w) {
			t.Errorf("interactive SVG missing %s", w)
		}
	}
}

func TestRenderSVGTooltip(t *testing.T) {
	e, clock := settledEngine(t, testRecords())
	if err := e.PointerEnter("B", 100, 100); err != nil {
		t.Fatalf("PointerEnter: %v", err)
	}
	clock.Advance(chart.DefaultFadeIn)
	svg := string(RenderSVG(e.Frame()))
	if !strings.Contains(svg, `<g class="tooltip" opacity="1.000" transform="translate(110.00,72.00)">`) {
		t.Errorf("tooltip not placed at pointer offset:\n%s", svg)
	}
	if !strings.Contains(svg, ">stores: 5</text>") {
		t.Error("tooltip text missing")
	}
}

func TestRenderSVGEscapes(t *testing.T) {
	records := []chart.Record{{"chain": chart.Text("Tom & <Jerry>"), "stores": chart.Number(1)}}
	e, _ := settledEngine(t, records)
	svg := string(RenderSVG(e.Frame()))
	if strings.Contains(svg, "Tom & <Jerry>") {
		t.Error("category label not escaped")
	}
	if !strings.Contains(svg, "Tom &amp; &lt;Jerry&gt;") {
		t.Error("escaped category label missing")
	}
}

func TestRenderPNG(t *testing.T) {
	e, _ := settledEngine(t, testRecords())
	data, err := RenderPNG(e.Frame())
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 820 || b.Dy() != 580 {
		t.Errorf("bounds = %v, want 820x580", b)
	}

	// Center of bar A: plot (150, 200) plus margins.
	r, g, b, _ := img.At(270, 260).RGBA()
	if r != 0 || g != 0 || b != 0xffff {
		t.Errorf("bar pixel = (%d, %d, %d), want blue", r>>8, g>>8, b>>8)
	}
	// Above bar B stays background.
	r, g, b, _ = img.At(570, 160).RGBA()
	if r != 0xffff || g != 0xffff || b != 0xffff {
		t.Errorf("background pixel = (%d, %d, %d), want white", r>>8, g>>8, b>>8)
	}
}

func TestRenderPNGScale(t *testing.T) {
	e, _ := settledEngine(t, testRecords())
	data, err := RenderPNG(e.Frame(), WithScale(2), WithBackground(color.Black))
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 1640 || b.Dy() != 1160 {
		t.Errorf("bounds = %v, want 1640x1160", b)
	}

	if _, err := RenderPNG(e.Frame(), WithScale(0)); err == nil {
		t.Error("RenderPNG with zero scale should fail")
	}
}

func TestRenderJSON(t *testing.T) {
	e, _ := settledEngine(t, testRecords())
	data, err := RenderJSON(e.Frame(), WithJSONState(e.State()), WithJSONConfig(e.Config()))
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if out.Width != 600 || out.Height != 400 {
		t.Errorf("size = %vx%v, want 600x400", out.Width, out.Height)
	}
	if out.Margin.Left != 120 {
		t.Errorf("Margin.Left = %v, want 120", out.Margin.Left)
	}
	if out.ValueMax != 10 {
		t.Errorf("ValueMax = %v, want 10", out.ValueMax)
	}
	if out.State != "idle" || out.Measure != "stores" || out.Sort != "descending" {
		t.Errorf("state/measure/sort = %q/%q/%q", out.State, out.Measure, out.Sort)
	}
	if len(out.Bars) != 2 || out.Bars[0].Key != "A" || out.Bars[0].Height != 400 {
		t.Errorf("Bars = %+v", out.Bars)
	}
	if len(out.Axes.Value) != 11 {
		t.Errorf("value ticks = %d, want 11", len(out.Axes.Value))
	}
	if out.Tooltip != nil {
		t.Errorf("Tooltip = %+v, want nil while hidden", out.Tooltip)
	}
}

func TestRenderText(t *testing.T) {
	e, _ := settledEngine(t, testRecords())
	got := RenderText(e.Frame(), WithPlain(), WithColumns(8))
	want := "stores by chain\n" +
		"A ████████ 10\n" +
		"B ████     5\n"
	if got != want {
		t.Errorf("RenderText() =\n%s\nwant\n%s", got, want)
	}
}

func TestBlocks(t *testing.T) {
	tests := []struct {
		n    float64
		want string
	}{
		{0, ""},
		{-1, ""},
		{1, "█"},
		{2.5, "██▌"},
		{0.125, "▏"},
	}
	for _, tt := range tests {
		if got := blocks(tt.n); got != tt.want {
			t.Errorf("blocks(%v) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
		ok   bool
	}{
		{"blue", color.RGBA{0, 0, 255, 255}, true},
		{" SteelBlue ", color.RGBA{70, 130, 180, 255}, true},
		{"#00f", color.RGBA{0, 0, 255, 255}, true},
		{"#4682b4", color.RGBA{70, 130, 180, 255}, true},
		{"#12345", color.RGBA{}, false},
		{"nope", color.RGBA{}, false},
	}
	for _, tt := range tests {
		got, ok := parseColor(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("parseColor(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
	if got := fillColor("nope"); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("fillColor fallback = %v, want blue", got)
	}
}
