package engine

import (
	"math/rand"
	"testing"
)

func TestParseSwipe(t *testing.T) {
	tests := []struct {
		in      string
		want    Swipe
		wantErr bool
	}{
		{"left", SwipeLeft, false},
		{"RIGHT", SwipeRight, false},
		{" up ", SwipeUp, false},
		{"down", SwipeDown, false},
		{"a", SwipeLeft, false},
		{"d", SwipeRight, false},
		{"w", SwipeUp, false},
		{"s", SwipeDown, false},
		{"", Swipe{}, true},
		{"diagonal", Swipe{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSwipe(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSwipe(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseSwipe(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSwipeStringRoundTrip(t *testing.T) {
	for _, s := range AllSwipes {
		parsed, err := ParseSwipe(s.String())
		if err != nil || parsed != s {
			t.Errorf("ParseSwipe(%q) = %v, %v", s.String(), parsed, err)
		}
	}
}

func TestSwipeValid(t *testing.T) {
	for _, s := range AllSwipes {
		if !s.Valid() {
			t.Errorf("%v should be valid", s)
		}
	}
	invalid := []Swipe{
		{Axis: AxisRow, Step: StepNone},
		{Axis: AxisColumn, Step: 2},
		{Axis: Axis(7), Step: StepIncrease},
	}
	for _, s := range invalid {
		if s.Valid() {
			t.Errorf("%v should be invalid", s)
		}
	}
}

func TestScanOrder(t *testing.T) {
	tests := []struct {
		step  Step
		start int
		adv   int
	}{
		{StepDecrease, 1, 1},
		{StepIncrease, 2, -1},
		{StepNone, 0, 1},
	}
	for _, tt := range tests {
		if got := scanStart(tt.step, 4); got != tt.start {
			t.Errorf("scanStart(%d, 4) = %d, want %d", tt.step, got, tt.start)
		}
		if got := scanAdvance(tt.step); got != tt.adv {
			t.Errorf("scanAdvance(%d) = %d, want %d", tt.step, got, tt.adv)
		}
	}
}

func TestRandomSwipeCoversAllDirections(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	seen := map[Swipe]bool{}
	for range 200 {
		seen[RandomSwipe(rng)] = true
	}
	if len(seen) != 4 {
		t.Errorf("RandomSwipe produced %d distinct swipes, want 4", len(seen))
	}
}
