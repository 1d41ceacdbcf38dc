package chart

import (
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/barchart/pkg/errors"
	"github.com/matzehuels/barchart/pkg/observability"
)

// buildScales is the scale builder the engine validates input with.
// Tests replace it to observe calls.
var buildScales = BuildScales

// historyLimit bounds the transition log kept by History.
const historyLimit = 64

// Stats counts the work an engine has done since it was created.
type Stats struct {
	Mounts     int // full scene constructions, including category-key rebuilds
	Updates    int // dispatched updates; no-op calls are not counted
	Animations int // tweens started
}

// callback is work scheduled for a later instant, such as the sort that
// follows a measure change. It is dropped if the scene has been rebuilt.
type callback struct {
	at   time.Time
	gen  int
	seq  int
	kind string
	fn   func(at time.Time)
}

// target is a validated input: everything the engine needs to move the scene
// to a new config, computed before any mutation.
type target struct {
	records []Record
	input   []string // categories in record order
	order   []string // categories after sorting
	values  map[string]float64
	upper   float64
}

// Engine owns the chart scene and reconciles it with each new input.
//
// The engine is a state machine over [Phase]. Callers hand it the full
// input on every change; it diffs against the last applied input and
// animates the scene toward the new target. Transitions are time-based and
// progress when [Engine.Tick] observes the clock. All methods are safe for
// concurrent use and are applied in call order.
type Engine struct {
	mu    sync.Mutex
	id    string
	opts  Options
	clock Clock
	log   *log.Logger
	hooks observability.EngineHooks

	state   State
	history []State
	scene   *scene
	gen     int

	records []Record
	cfg     Config

	pending []callback
	seq     int
	since   time.Time // start of the current update, for OnSettle
	stats   Stats
}

// New creates an unmounted engine.
func New(opts ...Option) *Engine {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Clock == nil {
		o.Clock = SystemClock{}
	}
	if o.Hooks == nil {
		o.Hooks = observability.Engine()
	}
	logger := o.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	id := uuid.NewString()
	return &Engine{
		id:    id,
		opts:  o,
		clock: o.Clock,
		log:   logger.With("engine", id[:8]),
		hooks: o.Hooks,
	}
}

// ID returns the engine's unique identifier.
func (e *Engine) ID() string { return e.id }

// Options returns the engine's drawing-surface and timing settings.
func (e *Engine) Options() Options { return e.opts }

// Mount builds the scene for the first time and starts the animate-in.
// The engine is Idle when Mount returns, with the animate-in still in flight.
func (e *Engine) Mount(records []Record, cfg Config) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Phase != Unmounted {
		return errors.New(errors.ErrCodeInvalidInput, "engine already mounted")
	}
	return e.mount(e.clock.Now(), records, cfg)
}

// Update applies the latest input. It compares it with the last applied
// input and dispatches exactly one transition:
//
//  1. a category key change discards the scene and mounts afresh
//  2. a measure change rescales values, then re-sorts once that settles
//  3. a record change reconciles bars, rescales and re-sorts
//  4. a sort change reorders bars
//
// An unchanged input starts no animation. On error the scene is left as it
// was. Update returns immediately; the scene settles over later ticks.
func (e *Engine) Update(records []Record, cfg Config) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.update(records, cfg)
}

// UpdateSort reapplies the current input with a new sort strategy.
func (e *Engine) UpdateSort(s Sorter) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	cfg := e.cfg
	cfg.Sort = s
	return e.update(e.records, cfg)
}

// UpdateMeasure reapplies the current input with a new measure key.
func (e *Engine) UpdateMeasure(key string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	cfg := e.cfg
	cfg.MeasureKey = key
	return e.update(e.records, cfg)
}

// UpdateCategoryKey reapplies the current input with a new category key.
func (e *Engine) UpdateCategoryKey(key string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	cfg := e.cfg
	cfg.CategoryKey = key
	return e.update(e.records, cfg)
}

// UpdateData reapplies the current config to a new record set.
func (e *Engine) UpdateData(records []Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.update(records, e.cfg)
}

// Unmount discards the scene, including the tooltip, and returns the engine
// to Unmounted. Pending work is dropped.
func (e *Engine) Unmount() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Phase == Unmounted {
		return
	}
	e.discard()
	e.records, e.cfg = nil, Config{}
	e.transition(State{Phase: Unmounted})
}

// Tick advances the engine to the clock's current time. Due callbacks run in
// time order, then an update whose animations have all settled returns to
// Idle.
func (e *Engine) Tick() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.advance(e.clock.Now())
	return e.state
}

// Next returns the next instant at which the engine changes state on its
// own. The second result is false once everything has settled.
func (e *Engine) Next() (time.Time, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.next(e.clock.Now())
}

// Settled reports whether no animation or scheduled work remains.
func (e *Engine) Settled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, busy := e.next(e.clock.Now())
	return !busy
}

// State returns the current state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// History returns the most recent state transitions, oldest first.
func (e *Engine) History() []State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.history)
}

// Config returns the last applied config.
func (e *Engine) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// Domain returns the categorical scale's domain, which is the current bar order.
func (e *Engine) Domain() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.scene == nil {
		return nil
	}
	return slices.Clone(e.scene.band.Domain)
}

// BarKeys returns the categories that currently have a bar, sorted.
func (e *Engine) BarKeys() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.scene == nil {
		return nil
	}
	return e.scene.barKeys()
}

// Stats returns the engine's work counters.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// Frame advances the engine to the clock's current time and returns a
// snapshot of the scene. An unmounted engine yields an empty frame.
func (e *Engine) Frame() Frame {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.clock.Now()
	e.advance(now)
	if e.scene == nil {
		return Frame{Width: e.opts.Width, Height: e.opts.Height, Margin: e.opts.Margin}
	}
	return e.scene.frame(now, e.opts)
}

// =============================================================================
// Dispatch
// =============================================================================

func (e *Engine) update(records []Record, cfg Config) error {
	now := e.clock.Now()
	e.advance(now)
	if e.state.Phase == Unmounted {
		return e.mount(now, records, cfg)
	}

	t, err := e.prepare(records, cfg)
	if err != nil {
		e.log.Debug("update rejected", "err", err)
		return err
	}

	prev := e.cfg
	switch {
	case cfg.CategoryKey != prev.CategoryKey:
		e.rebuild(now, t, cfg)
	case cfg.MeasureKey != prev.MeasureKey:
		e.changeMeasure(now, t, cfg)
	case !EqualRecords(t.records, e.records):
		e.changeData(now, t, cfg)
	case cfg.sortName() != prev.sortName():
		e.changeSort(now, t, cfg)
	default:
		e.cfg = cfg
	}
	return nil
}

// prepare validates records against cfg and computes the target state.
func (e *Engine) prepare(records []Record, cfg Config) (target, error) {
	if len(records) == 0 {
		return target{}, errors.New(errors.ErrCodeEmptyDataset, "no records to draw")
	}
	band, linear, err := buildScales(records, cfg.CategoryKey, cfg.MeasureKey, e.opts.Width, e.opts.Height, e.opts.Padding)
	if err != nil {
		return target{}, err
	}

	t := target{
		records: cloneRecords(records),
		input:   band.Domain,
		values:  make(map[string]float64, len(records)),
		upper:   linear.Max(),
	}
	for i, r := range t.records {
		t.values[band.Domain[i]], _ = r.Measure(cfg.MeasureKey)
	}

	sorted := cfg.sorted(cloneRecords(t.records))
	if len(sorted) != len(t.records) {
		return target{}, errors.New(errors.ErrCodeInternal, "sort %q returned %d of %d records", cfg.sortName(), len(sorted), len(t.records))
	}
	t.order = make([]string, len(sorted))
	seen := make(map[string]bool, len(sorted))
	for i, r := range sorted {
		cat, _ := r.Category(cfg.CategoryKey)
		if !band.Contains(cat) || seen[cat] {
			return target{}, errors.New(errors.ErrCodeInternal, "sort %q changed the record set", cfg.sortName())
		}
		seen[cat] = true
		t.order[i] = cat
	}
	return t, nil
}

func (e *Engine) mount(now time.Time, records []Record, cfg Config) error {
	t, err := e.prepare(records, cfg)
	if err != nil {
		return err
	}
	e.build(now, t, cfg)
	return nil
}

// rebuild replaces the scene wholesale. The old identity space is gone, so
// every pending callback goes with it.
func (e *Engine) rebuild(now time.Time, t target, cfg Config) {
	e.begin(now, CategoryKeyChanged)
	e.discard()
	e.build(now, t, cfg)
}

func (e *Engine) changeMeasure(now time.Time, t target, cfg Config) {
	e.begin(now, MeasureChanged)
	e.records, e.cfg = t.records, cfg

	n := e.reorder(now, interimOrder(e.scene.band.Domain, t.input), false)
	n += e.revalue(now, t)
	e.scene.measureLabel.text = cfg.MeasureKey
	e.started(n, MeasureChanged)

	// Rank order over the new measure may differ, so the current strategy is
	// applied again once the rescale settles.
	at := e.scene.finish()
	if at.Before(now) {
		at = now
	}
	e.schedule(at, "resort", e.resort)
}

// resort is the SortChanged half of a measure change. It reads the latest
// records and config at the time it fires.
func (e *Engine) resort(at time.Time) {
	t, err := e.prepare(e.records, e.cfg)
	if err != nil {
		e.log.Warn("resort failed", "err", err)
		return
	}
	e.begin(at, SortChanged)
	e.started(e.reorder(at, t.order, true), SortChanged)
}

func (e *Engine) changeData(now time.Time, t target, cfg Config) {
	e.begin(now, DataChanged)
	e.records, e.cfg = t.records, cfg
	n := e.reorder(now, t.order, true)
	n += e.revalue(now, t)
	e.started(n, DataChanged)
}

func (e *Engine) changeSort(now time.Time, t target, cfg Config) {
	e.begin(now, SortChanged)
	e.cfg = cfg
	e.started(e.reorder(now, t.order, true), SortChanged)
}

// =============================================================================
// Scene construction
// =============================================================================

// build constructs a fresh scene: axes, labels, the tooltip and one bar per
// record, with every bar growing up from the baseline.
func (e *Engine) build(now time.Time, t target, cfg Config) {
	e.transition(State{Phase: Mounting})
	o := e.opts
	e.gen++
	e.pending = nil
	s := newScene(e.gen)
	e.scene = s
	e.records, e.cfg = t.records, cfg

	s.band = NewBand(t.order, o.Width, o.Padding)
	s.linear = NewLinear(t.upper, o.Height)

	n := 0
	for _, key := range t.order {
		b := e.newBar(key, s.band)
		b.value = t.values[key]
		n += e.raise(now, b, 0)
		s.bars[key] = b

		cx, _ := s.band.Center(key)
		s.categoryAxis.ticks[key] = &tick{label: key, pos: fixed(cx), opacity: fixed(1)}
	}
	for _, v := range s.linear.Ticks(valueTicks) {
		tk := &tick{label: formatValue(v), value: v, pos: fixed(s.linear.Scale(v)), opacity: fixed(0)}
		n += count(tk.opacity.animate(now, 1, 0, o.Duration))
		s.valueAxis.ticks[tk.label] = tk
	}

	s.categoryLabel = label{text: cfg.CategoryKey, x: o.Width + 50, y: o.Height, anchor: "middle"}
	s.measureLabel = label{text: cfg.MeasureKey, x: 0, y: -o.Margin.Top + 20, anchor: "middle"}

	e.stats.Mounts++
	e.started(n, NoReason)
	e.transition(State{Phase: Idle})
}

// newBar creates a zero-height bar at key's slot.
func (e *Engine) newBar(key string, band Band) *bar {
	x, _ := band.Position(key)
	b := &bar{
		key: key,
		x:   fixed(x),
		w:   fixed(band.Bandwidth()),
		y:   fixed(e.opts.Height),
		h:   fixed(0),
	}
	b.onEnter = func(px, py float64) { e.showTooltip(key, px, py) }
	return b
}

// raise animates b's top edge and height to its bound value.
func (e *Engine) raise(now time.Time, b *bar, delay time.Duration) int {
	y := min(e.scene.linear.Scale(b.value), e.opts.Height)
	return count(b.y.animate(now, y, delay, e.opts.Duration)) +
		count(b.h.animate(now, e.opts.Height-y, delay, e.opts.Duration))
}

// reorder moves the band domain to order. Bars and ticks for categories that
// left are removed at once, new ones enter at their slot, and the rest slide
// over, each delayed by its index when stagger is set.
func (e *Engine) reorder(now time.Time, order []string, stagger bool) int {
	s, o := e.scene, e.opts
	if slices.Equal(order, s.band.Domain) {
		return 0
	}
	band := NewBand(order, o.Width, o.Padding)
	s.band = band

	for key := range s.bars {
		if !band.Contains(key) {
			delete(s.bars, key)
			delete(s.categoryAxis.ticks, key)
		}
	}

	n := 0
	for i, key := range order {
		var delay time.Duration
		if stagger {
			delay = time.Duration(i) * o.Stagger
		}
		x, _ := band.Position(key)
		cx, _ := band.Center(key)

		b, ok := s.bars[key]
		if !ok {
			s.bars[key] = e.newBar(key, band)
			tk := &tick{label: key, pos: fixed(cx), opacity: fixed(0)}
			n += count(tk.opacity.animate(now, 1, delay, o.Duration))
			s.categoryAxis.ticks[key] = tk
			continue
		}
		n += count(b.x.animate(now, x, delay, o.Duration))
		n += count(b.w.animate(now, band.Bandwidth(), delay, o.Duration))
		if tk, ok := s.categoryAxis.ticks[key]; ok {
			n += count(tk.pos.animate(now, cx, delay, o.Duration))
		}
	}
	return n
}

// revalue rebinds every bar to t's values and rescales the value axis.
// Ticks that leave slide with the new scale while fading out; ticks that
// enter start where the old scale put them.
func (e *Engine) revalue(now time.Time, t target) int {
	s, o := e.scene, e.opts
	old := s.linear
	s.linear = NewLinear(t.upper, o.Height)

	n := 0
	for key, b := range s.bars {
		b.value = t.values[key]
		n += e.raise(now, b, 0)
	}

	next := make(map[string]float64)
	for _, v := range s.linear.Ticks(valueTicks) {
		next[formatValue(v)] = v
	}
	for lbl, tk := range s.valueAxis.ticks {
		if _, keep := next[lbl]; keep {
			continue
		}
		tk.exiting = true
		n += count(tk.pos.animate(now, s.linear.Scale(tk.value), 0, o.Duration))
		n += count(tk.opacity.animate(now, 0, 0, o.Duration))
	}
	for lbl, v := range next {
		tk, ok := s.valueAxis.ticks[lbl]
		if !ok {
			tk = &tick{label: lbl, value: v, pos: fixed(old.Scale(v)), opacity: fixed(0)}
			s.valueAxis.ticks[lbl] = tk
		}
		tk.exiting = false
		n += count(tk.pos.animate(now, s.linear.Scale(v), 0, o.Duration))
		n += count(tk.opacity.animate(now, 1, 0, o.Duration))
	}
	return n
}

// interimOrder keeps the surviving categories of current in place and
// appends new ones in input order.
func interimOrder(current, input []string) []string {
	in := make(map[string]bool, len(input))
	for _, k := range input {
		in[k] = true
	}
	out := make([]string, 0, len(input))
	have := make(map[string]bool, len(input))
	for _, k := range current {
		if in[k] {
			out = append(out, k)
			have[k] = true
		}
	}
	for _, k := range input {
		if !have[k] {
			out = append(out, k)
		}
	}
	return out
}

// discard drops the scene and all pending work.
func (e *Engine) discard() {
	e.scene = nil
	e.pending = nil
}

// =============================================================================
// Scheduling
// =============================================================================

// schedule queues fn to run at the given instant, replacing any pending
// callback of the same kind.
func (e *Engine) schedule(at time.Time, kind string, fn func(time.Time)) {
	e.pending = slices.DeleteFunc(e.pending, func(cb callback) bool { return cb.kind == kind })
	e.seq++
	e.pending = append(e.pending, callback{at: at, gen: e.scene.generation, seq: e.seq, kind: kind, fn: fn})
}

// advance runs every callback due by now, in time order, and settles a
// finished update.
func (e *Engine) advance(now time.Time) {
	for {
		i := e.due(now)
		if i < 0 {
			break
		}
		cb := e.pending[i]
		e.pending = slices.Delete(e.pending, i, i+1)
		if e.scene == nil || cb.gen != e.scene.generation {
			continue
		}
		cb.fn(cb.at)
	}
	if e.scene == nil {
		return
	}
	e.scene.sweep(now)
	if e.state.Phase == Updating && len(e.pending) == 0 && !e.scene.finish().After(now) {
		reason := e.state.Reason
		e.transition(State{Phase: Idle})
		e.hooks.OnSettle(e.id, reason.String(), now.Sub(e.since))
	}
}

// due returns the index of the earliest callback due by now, or -1.
func (e *Engine) due(now time.Time) int {
	best := -1
	for i, cb := range e.pending {
		if cb.at.After(now) {
			continue
		}
		if best < 0 || cb.at.Before(e.pending[best].at) ||
			(cb.at.Equal(e.pending[best].at) && cb.seq < e.pending[best].seq) {
			best = i
		}
	}
	return best
}

func (e *Engine) next(now time.Time) (time.Time, bool) {
	if e.scene == nil {
		return time.Time{}, false
	}
	var t time.Time
	ok := false
	for _, cb := range e.pending {
		if !ok || cb.at.Before(t) {
			t, ok = cb.at, true
		}
	}
	if f := e.scene.finish(); f.After(now) && (!ok || f.Before(t)) {
		t, ok = f, true
	}
	if !ok && e.state.Phase == Updating {
		return now, true
	}
	return t, ok
}

// =============================================================================
// Bookkeeping
// =============================================================================

func (e *Engine) begin(now time.Time, r Reason) {
	if e.state.Phase != Updating {
		e.since = now
	}
	e.stats.Updates++
	e.transition(updating(r))
}

func (e *Engine) transition(to State) {
	from := e.state
	e.state = to
	e.history = append(e.history, to)
	if len(e.history) > historyLimit {
		e.history = slices.Clone(e.history[len(e.history)-historyLimit:])
	}
	e.log.Debug("transition", "from", from, "to", to)
	e.hooks.OnTransition(e.id, from.String(), to.String())
}

func (e *Engine) started(n int, r Reason) {
	if n == 0 {
		return
	}
	e.stats.Animations += n
	e.log.Debug("animations started", "reason", r, "count", n)
	e.hooks.OnAnimationStart(e.id, r.String(), n)
}

func count(started bool) int {
	if started {
		return 1
	}
	return 0
}
