package engine

import (
	"fmt"
	"strings"
)

// Axis selects the line along which tiles slide.
type Axis int

const (
	// AxisRow slides tiles along rows (left/right, the x axis).
	AxisRow Axis = iota
	// AxisColumn slides tiles along columns (up/down, the y axis).
	AxisColumn
)

// String returns "row" or "column".
func (a Axis) String() string {
	switch a {
	case AxisRow:
		return "row"
	case AxisColumn:
		return "column"
	default:
		return "unknown"
	}
}

// Step is the signed unit direction along the active axis.
type Step int

const (
	StepDecrease Step = -1 // toward index 0
	StepNone     Step = 0
	StepIncrease Step = 1 // toward index N-1
)

// Swipe is one player move: an axis plus a non-zero step along it.
type Swipe struct {
	Axis Axis
	Step Step
}

// The four swipes a player can make.
var (
	SwipeLeft  = Swipe{Axis: AxisRow, Step: StepDecrease}
	SwipeRight = Swipe{Axis: AxisRow, Step: StepIncrease}
	SwipeUp    = Swipe{Axis: AxisColumn, Step: StepDecrease}
	SwipeDown  = Swipe{Axis: AxisColumn, Step: StepIncrease}
)

// AllSwipes lists the four swipes in a fixed order.
var AllSwipes = [4]Swipe{SwipeUp, SwipeDown, SwipeLeft, SwipeRight}

// Valid reports whether the swipe names a known axis and a non-zero step.
func (s Swipe) Valid() bool {
	if s.Axis != AxisRow && s.Axis != AxisColumn {
		return false
	}
	return s.Step == StepDecrease || s.Step == StepIncrease
}

// delta returns the per-axis step; the inactive axis is always StepNone.
func (s Swipe) delta() (dx, dy Step) {
	if s.Axis == AxisRow {
		return s.Step, StepNone
	}
	return StepNone, s.Step
}

// String returns the direction name ("left", "right", "up", "down").
func (s Swipe) String() string {
	switch s {
	case SwipeLeft:
		return "left"
	case SwipeRight:
		return "right"
	case SwipeUp:
		return "up"
	case SwipeDown:
		return "down"
	default:
		return fmt.Sprintf("swipe(%s, %d)", s.Axis, s.Step)
	}
}

// ParseSwipe converts a direction name (or its WASD key) into a Swipe.
func ParseSwipe(name string) (Swipe, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "left", "a":
		return SwipeLeft, nil
	case "right", "d":
		return SwipeRight, nil
	case "up", "w":
		return SwipeUp, nil
	case "down", "s":
		return SwipeDown, nil
	default:
		return Swipe{}, fmt.Errorf("engine: unknown direction %q", name)
	}
}

// RandomSwipe picks one of the four swipes uniformly.
func RandomSwipe(rng Rand) Swipe {
	return AllSwipes[rng.Intn(len(AllSwipes))]
}
