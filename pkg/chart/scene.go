package chart

import (
	"cmp"
	"slices"
	"strconv"
	"time"
)

// bar is a scene element bound to exactly one record's category.
type bar struct {
	key        string
	value      float64
	x, y, w, h prop

	// onEnter is installed when the bar is created. It closes over the
	// engine, not over the measure at creation time.
	onEnter func(px, py float64)
}

// tick is one axis tick keyed by its label.
type tick struct {
	label   string
	value   float64 // value axis only
	pos     prop
	opacity prop
	exiting bool
}

type axis struct {
	orient Orient
	ticks  map[string]*tick
}

func newAxis(o Orient) axis { return axis{orient: o, ticks: make(map[string]*tick)} }

type label struct {
	text   string
	x, y   float64
	anchor string
}

// tooltip is the single shared hover element. It is created with the scene
// and goes away with it.
type tooltip struct {
	text    string
	x, y    float64
	opacity prop
}

// scene is the engine's persistent visual state. Only the engine reads or
// writes it.
type scene struct {
	generation int

	band   Band
	linear Linear

	bars          map[string]*bar
	categoryAxis  axis
	valueAxis     axis
	categoryLabel label
	measureLabel  label
	tip           *tooltip
}

func newScene(gen int) *scene {
	return &scene{
		generation:   gen,
		bars:         make(map[string]*bar),
		categoryAxis: newAxis(OrientBottom),
		valueAxis:    newAxis(OrientLeft),
		tip:          &tooltip{opacity: fixed(0)},
	}
}

// finish is the instant every bar and axis transition has settled.
// The tooltip is excluded: hovering never holds an update open.
func (s *scene) finish() time.Time {
	var t time.Time
	later := func(p *prop) {
		if f := p.finish(); f.After(t) {
			t = f
		}
	}
	for _, b := range s.bars {
		later(&b.x)
		later(&b.y)
		later(&b.w)
		later(&b.h)
	}
	for _, a := range []*axis{&s.categoryAxis, &s.valueAxis} {
		for _, tk := range a.ticks {
			later(&tk.pos)
			later(&tk.opacity)
		}
	}
	return t
}

// sweep drops value-axis ticks that have finished fading out.
func (s *scene) sweep(now time.Time) {
	for k, tk := range s.valueAxis.ticks {
		if tk.exiting && tk.opacity.settled(now) {
			delete(s.valueAxis.ticks, k)
		}
	}
}

// barKeys returns the bar key set in sorted order.
func (s *scene) barKeys() []string {
	keys := make([]string, 0, len(s.bars))
	for k := range s.bars {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (s *scene) frame(now time.Time, o Options) Frame {
	f := Frame{
		Width:    o.Width,
		Height:   o.Height,
		Margin:   o.Margin,
		ValueMax: s.linear.Max(),
	}

	f.Bars = make([]BarFrame, 0, len(s.bars))
	for _, key := range s.band.Domain {
		b, ok := s.bars[key]
		if !ok {
			continue
		}
		f.Bars = append(f.Bars, BarFrame{
			Key:    b.key,
			Value:  b.value,
			X:      b.x.value(now),
			Y:      b.y.value(now),
			Width:  b.w.value(now),
			Height: max(0, b.h.value(now)),
			Fill:   o.Fill,
		})
	}

	f.CategoryAxis = s.categoryAxis.frame(now)
	f.ValueAxis = s.valueAxis.frame(now)
	for _, l := range []label{s.categoryLabel, s.measureLabel} {
		f.Labels = append(f.Labels, LabelFrame{Text: l.text, X: l.x, Y: l.y, Anchor: l.anchor})
	}
	if s.tip != nil {
		f.Tooltip = TooltipFrame{
			Text:    s.tip.text,
			X:       s.tip.x,
			Y:       s.tip.y,
			Opacity: s.tip.opacity.value(now),
		}
	}
	return f
}

func (a *axis) frame(now time.Time) AxisFrame {
	af := AxisFrame{Orient: a.orient, Ticks: make([]TickFrame, 0, len(a.ticks))}
	for _, tk := range a.ticks {
		af.Ticks = append(af.Ticks, TickFrame{
			Label:   tk.label,
			Pos:     tk.pos.value(now),
			Opacity: tk.opacity.value(now),
		})
	}
	slices.SortFunc(af.Ticks, func(x, y TickFrame) int {
		if c := cmp.Compare(x.Pos, y.Pos); c != 0 {
			return c
		}
		return cmp.Compare(x.Label, y.Label)
	})
	return af
}

// formatValue renders a measure value for tick and tooltip text.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
