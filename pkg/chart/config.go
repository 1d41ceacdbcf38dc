package chart

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/barchart/pkg/observability"
)

// Sorter imposes a total order on records given the active measure.
// Implementations must be pure: they return a new slice and leave the
// input untouched. Name identifies the strategy, so two configs compare
// equal when their sorters share a name.
type Sorter interface {
	Name() string
	Sort(records []Record, categoryKey, measureKey string) []Record
}

// Config is the per-cycle chart input. It is a value: a new Config triggers
// an update and the engine never mutates one in place.
type Config struct {
	CategoryKey string
	MeasureKey  string
	Sort        Sorter
}

func (c Config) sortName() string {
	if c.Sort == nil {
		return ""
	}
	return c.Sort.Name()
}

// sorted applies the config's strategy, or keeps input order when there is none.
func (c Config) sorted(records []Record) []Record {
	if c.Sort == nil {
		return records
	}
	return c.Sort.Sort(records, c.CategoryKey, c.MeasureKey)
}

// Margin is the space reserved around the plot area, in pixels.
type Margin struct {
	Top, Right, Bottom, Left float64
}

// Default drawing-surface and animation settings.
const (
	DefaultWidth   = 600.0
	DefaultHeight  = 400.0
	DefaultPadding = 0.1
	DefaultFill    = "blue"

	DefaultDuration = time.Second
	DefaultStagger  = 50 * time.Millisecond
	DefaultFadeIn   = 200 * time.Millisecond
	DefaultFadeOut  = 500 * time.Millisecond

	// valueTicks is the tick count hint for the value axis.
	valueTicks = 10
)

// DefaultMargin matches the reference layout.
var DefaultMargin = Margin{Top: 60, Right: 100, Bottom: 120, Left: 120}

// Options holds the engine's drawing-surface and timing configuration.
type Options struct {
	Width, Height float64 // plot area, excluding margins
	Margin        Margin
	Padding       float64 // band padding in [0, 1)
	Fill          string
	Duration      time.Duration
	Stagger       time.Duration // per-index delay for reorders
	FadeIn        time.Duration
	FadeOut       time.Duration

	Clock  Clock
	Logger *log.Logger
	Hooks  observability.EngineHooks
}

// Option configures an Engine.
type Option func(*Options)

// WithSize sets the plot area in pixels, excluding margins.
func WithSize(width, height float64) Option {
	return func(o *Options) { o.Width, o.Height = width, height }
}

// WithMargin sets the margins around the plot area.
func WithMargin(m Margin) Option { return func(o *Options) { o.Margin = m } }

// WithPadding sets the band padding.
func WithPadding(p float64) Option { return func(o *Options) { o.Padding = p } }

// WithFill sets the bar fill color.
func WithFill(fill string) Option { return func(o *Options) { o.Fill = fill } }

// WithDuration sets the length of every bar and axis transition.
func WithDuration(d time.Duration) Option { return func(o *Options) { o.Duration = d } }

// WithStagger sets the per-index start delay applied to reorders.
func WithStagger(d time.Duration) Option { return func(o *Options) { o.Stagger = d } }

// WithFades sets the tooltip fade-in and fade-out durations.
func WithFades(in, out time.Duration) Option {
	return func(o *Options) { o.FadeIn, o.FadeOut = in, out }
}

// WithClock sets the time source. Tests pass a *ManualClock.
func WithClock(c Clock) Option { return func(o *Options) { o.Clock = c } }

// WithLogger enables debug logging of state transitions.
func WithLogger(l *log.Logger) Option { return func(o *Options) { o.Logger = l } }

// WithHooks registers engine hooks, overriding the global registry.
func WithHooks(h observability.EngineHooks) Option { return func(o *Options) { o.Hooks = h } }

// DefaultOptions returns the reference settings.
func DefaultOptions() Options {
	return Options{
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		Margin:   DefaultMargin,
		Padding:  DefaultPadding,
		Fill:     DefaultFill,
		Duration: DefaultDuration,
		Stagger:  DefaultStagger,
		FadeIn:   DefaultFadeIn,
		FadeOut:  DefaultFadeOut,
	}
}
