package sink

import (
	"encoding/json"

	"github.com/matzehuels/barchart/pkg/chart"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	state  *chart.State
	config *chart.Config
}

// WithJSONState records the engine state the frame was taken in.
func WithJSONState(s chart.State) JSONOption { return func(r *jsonRenderer) { r.state = &s } }

// WithJSONConfig records the keys and sort strategy that produced the frame.
func WithJSONConfig(c chart.Config) JSONOption { return func(r *jsonRenderer) { r.config = &c } }

type jsonOutput struct {
	Width    float64      `json:"width"`
	Height   float64      `json:"height"`
	Margin   jsonMargin   `json:"margin"`
	ValueMax float64      `json:"value_max"`
	State    string       `json:"state,omitempty"`
	Category string       `json:"category_key,omitempty"`
	Measure  string       `json:"measure_key,omitempty"`
	Sort     string       `json:"sort,omitempty"`
	Bars     []jsonBar    `json:"bars"`
	Axes     jsonAxes     `json:"axes"`
	Labels   []jsonLabel  `json:"labels,omitempty"`
	Tooltip  *jsonTooltip `json:"tooltip,omitempty"`
}

type jsonMargin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

type jsonBar struct {
	Key    string  `json:"key"`
	Value  float64 `json:"value"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Fill   string  `json:"fill"`
}

type jsonAxes struct {
	Category []jsonTick `json:"category"`
	Value    []jsonTick `json:"value"`
}

type jsonTick struct {
	Label   string  `json:"label"`
	Pos     float64 `json:"pos"`
	Opacity float64 `json:"opacity"`
}

type jsonLabel struct {
	Text   string  `json:"text"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Anchor string  `json:"anchor,omitempty"`
}

type jsonTooltip struct {
	Text    string  `json:"text"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Opacity float64 `json:"opacity"`
}

// RenderJSON exports f as a pretty-printed JSON document. Bars appear in
// domain order and ticks in axis order. The tooltip is included only while
// it is visible.
func RenderJSON(f chart.Frame, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Width:    f.Width,
		Height:   f.Height,
		Margin:   jsonMargin{Top: f.Margin.Top, Right: f.Margin.Right, Bottom: f.Margin.Bottom, Left: f.Margin.Left},
		ValueMax: f.ValueMax,
		Bars:     make([]jsonBar, 0, len(f.Bars)),
		Axes: jsonAxes{
			Category: buildJSONTicks(f.CategoryAxis),
			Value:    buildJSONTicks(f.ValueAxis),
		},
	}
	if r.state != nil {
		out.State = r.state.String()
	}
	if r.config != nil {
		out.Category, out.Measure = r.config.CategoryKey, r.config.MeasureKey
		if r.config.Sort != nil {
			out.Sort = r.config.Sort.Name()
		}
	}
	for _, b := range f.Bars {
		out.Bars = append(out.Bars, jsonBar{
			Key: b.Key, Value: b.Value,
			X: b.X, Y: b.Y, Width: b.Width, Height: b.Height,
			Fill: b.Fill,
		})
	}
	for _, l := range f.Labels {
		out.Labels = append(out.Labels, jsonLabel{Text: l.Text, X: l.X, Y: l.Y, Anchor: l.Anchor})
	}
	if tip := f.Tooltip; tip.Visible() {
		out.Tooltip = &jsonTooltip{Text: tip.Text, X: tip.X, Y: tip.Y, Opacity: tip.Opacity}
	}

	return json.MarshalIndent(out, "", "  ")
}

func buildJSONTicks(a chart.AxisFrame) []jsonTick {
	ticks := make([]jsonTick, 0, len(a.Ticks))
	for _, tk := range a.Ticks {
		ticks = append(ticks, jsonTick{Label: tk.Label, Pos: tk.Pos, Opacity: tk.Opacity})
	}
	return ticks
}
