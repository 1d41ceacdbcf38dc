package chart

import (
	"fmt"

	"github.com/matzehuels/barchart/pkg/errors"
)

// Tooltip offset from the pointer, in plot coordinates.
const (
	tooltipDX = 10.0
	tooltipDY = -28.0
)

// PointerEnter reports the pointer entering the bar for category key at
// (x, y). The shared tooltip fades in showing the bar's value under the
// measure that is active now.
func (e *Engine) PointerEnter(key string, x, y float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.advance(e.clock.Now())
	if e.scene == nil {
		return errors.New(errors.ErrCodeNotMounted, "no scene to hover")
	}
	b, ok := e.scene.bars[key]
	if !ok {
		return errors.New(errors.ErrCodeInvalidInput, "no bar for category %q", key)
	}
	b.onEnter(x, y)
	return nil
}

// PointerLeave fades the tooltip out.
func (e *Engine) PointerLeave() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.scene == nil {
		return
	}
	e.scene.tip.opacity.animate(e.clock.Now(), 0, 0, e.opts.FadeOut)
}

// showTooltip runs with the engine lock held, from a bar's enter handler.
func (e *Engine) showTooltip(key string, px, py float64) {
	s := e.scene
	b, ok := s.bars[key]
	if !ok {
		return
	}
	s.tip.text = fmt.Sprintf("%s: %s", e.cfg.MeasureKey, formatValue(b.value))
	s.tip.x, s.tip.y = px+tooltipDX, py+tooltipDY
	s.tip.opacity.animate(e.clock.Now(), 1, 0, e.opts.FadeIn)
}
