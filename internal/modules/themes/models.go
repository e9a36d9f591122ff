package themes

import (
	"github.com/aristath/macro-trader/internal/modules/indicators"
)

// State is the discrete tercile of a theme value: -1 (low), 0 (neutral), +1 (high)
type State int

const (
	StateLow     State = -1
	StateNeutral State = 0
	StateHigh    State = 1
)

// Tercile boundaries on the continuous [-1, 1] theme score
const (
	LowerBoundary = -0.33
	UpperBoundary = 0.33
)

// StateOf discretizes a continuous theme value into its tercile state
func StateOf(value float64) State {
	switch {
	case value <= LowerBoundary:
		return StateLow
	case value >= UpperBoundary:
		return StateHigh
	default:
		return StateNeutral
	}
}

// String returns a display label for a state
func (s State) String() string {
	switch s {
	case StateLow:
		return "low"
	case StateHigh:
		return "high"
	default:
		return "neutral"
	}
}

// Value is a theme's continuous score and its discretization
type Value struct {
	Theme indicators.Theme `json:"theme"`
	Value float64          `json:"value"` // in [-1, 1]
	State State            `json:"state"`

	// Defaulted marks a theme that fell back to neutral because no
	// indicator carried usable data
	Defaulted bool `json:"defaulted,omitempty"`
}
