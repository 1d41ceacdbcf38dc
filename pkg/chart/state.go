package chart

import "fmt"

// Phase is the engine's top-level state.
type Phase int

const (
	Unmounted Phase = iota
	Mounting
	Idle
	Updating
)

func (p Phase) String() string {
	switch p {
	case Unmounted:
		return "unmounted"
	case Mounting:
		return "mounting"
	case Idle:
		return "idle"
	case Updating:
		return "updating"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Reason tags an Updating state with the input that changed.
type Reason int

const (
	NoReason Reason = iota
	SortChanged
	MeasureChanged
	CategoryKeyChanged
	DataChanged
)

func (r Reason) String() string {
	switch r {
	case NoReason:
		return ""
	case SortChanged:
		return "sort"
	case MeasureChanged:
		return "measure"
	case CategoryKeyChanged:
		return "category"
	case DataChanged:
		return "data"
	}
	return fmt.Sprintf("reason(%d)", int(r))
}

// State is a tagged variant: Reason is set only when Phase is Updating.
type State struct {
	Phase  Phase
	Reason Reason
}

func (s State) String() string {
	if s.Phase == Updating {
		return fmt.Sprintf("updating(%s)", s.Reason)
	}
	return s.Phase.String()
}

func updating(r Reason) State { return State{Phase: Updating, Reason: r} }
