package chart

import "time"

// tween interpolates a single number from one value to another.
// The transition begins at start+delay and lasts for duration.
type tween struct {
	from, to float64
	begin    time.Time
	duration time.Duration
}

// at returns the tween's value at now, eased with cubic-in-out.
func (t tween) at(now time.Time) float64 {
	p := t.progress(now)
	return t.from + (t.to-t.from)*easeCubicInOut(p)
}

func (t tween) progress(now time.Time) float64 {
	if t.duration <= 0 || !now.Before(t.end()) {
		return 1
	}
	if !now.After(t.begin) {
		return 0
	}
	return float64(now.Sub(t.begin)) / float64(t.duration)
}

func (t tween) end() time.Time { return t.begin.Add(t.duration) }

func easeCubicInOut(t float64) float64 {
	t *= 2
	if t <= 1 {
		return t * t * t / 2
	}
	t -= 2
	return (t*t*t + 2) / 2
}

// prop is an animatable scalar attribute of a scene element.
// Writes are last-write-wins on target: retargeting a prop that is mid-flight
// starts the new tween from the value currently on screen.
type prop struct {
	tw tween
}

// fixed returns a prop that rests at v.
func fixed(v float64) prop {
	return prop{tw: tween{from: v, to: v}}
}

// value returns the prop's value at now.
func (p *prop) value(now time.Time) float64 { return p.tw.at(now) }

// target returns the value the prop settles at.
func (p *prop) target() float64 { return p.tw.to }

// settled reports whether the prop's tween has finished by now.
func (p *prop) settled(now time.Time) bool { return !now.Before(p.tw.end()) }

// set jumps the prop to v with no transition.
func (p *prop) set(v float64) { p.tw = tween{from: v, to: v} }

// animate retargets the prop to v. The tween starts after delay and runs for
// duration. It reports whether a new transition was started; a prop that is
// already heading to v is left alone.
func (p *prop) animate(now time.Time, v float64, delay, duration time.Duration) bool {
	if p.tw.to == v {
		return false
	}
	p.tw = tween{
		from:     p.value(now),
		to:       v,
		begin:    now.Add(delay),
		duration: duration,
	}
	return true
}

// finish returns the time the prop settles.
func (p *prop) finish() time.Time { return p.tw.end() }
