package chart

import (
	"testing"
	"time"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestEaseCubicInOut(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{0.25, 0.0625},
		{0.5, 0.5},
		{0.75, 0.9375},
		{1, 1},
	}
	for _, tt := range tests {
		if got := easeCubicInOut(tt.in); got != tt.want {
			t.Errorf("easeCubicInOut(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPropAnimate(t *testing.T) {
	p := fixed(0)
	if !p.animate(t0, 100, 100*time.Millisecond, time.Second) {
		t.Fatal("animate should start a transition")
	}
	if p.animate(t0, 100, 0, time.Second) {
		t.Error("retargeting to the same value should be a no-op")
	}

	tests := []struct {
		at   time.Duration
		want float64
	}{
		{0, 0},
		{100 * time.Millisecond, 0},
		{600 * time.Millisecond, 50},
		{1100 * time.Millisecond, 100},
		{time.Hour, 100},
	}
	for _, tt := range tests {
		if got := p.value(t0.Add(tt.at)); got != tt.want {
			t.Errorf("value(+%v) = %v, want %v", tt.at, got, tt.want)
		}
	}
	if p.settled(t0.Add(time.Second)) {
		t.Error("prop should not settle before its delay plus duration")
	}
	if !p.settled(p.finish()) {
		t.Error("prop should be settled at finish")
	}
}

func TestPropRedirectIsContinuous(t *testing.T) {
	p := fixed(0)
	p.animate(t0, 100, 0, time.Second)
	mid := t0.Add(300 * time.Millisecond)
	shown := p.value(mid)

	p.animate(mid, -50, 0, time.Second)
	if got := p.value(mid); got != shown {
		t.Errorf("redirect jumped from %v to %v", shown, got)
	}
	if got := p.target(); got != -50 {
		t.Errorf("target() = %v, want -50", got)
	}
}

func TestPropZeroDuration(t *testing.T) {
	p := fixed(1)
	p.animate(t0, 5, 0, 0)
	if got := p.value(t0); got != 5 {
		t.Errorf("value = %v, want 5", got)
	}
	p.set(9)
	if got := p.value(t0); got != 9 {
		t.Errorf("value after set = %v, want 9", got)
	}
}
