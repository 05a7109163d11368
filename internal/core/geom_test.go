package core

import "testing"

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 15)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"inside", 15, 15, true},
		{"top-left corner", 10, 10, true},
		{"bottom-right edge (exclusive)", 30, 25, false},
		{"outside left", 5, 15, false},
		{"outside right", 35, 15, false},
		{"outside top", 15, 5, false},
		{"outside bottom", 15, 30, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Contains(tc.x, tc.y); got != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, got, tc.expected)
			}
		})
	}
}

func TestRectCentered(t *testing.T) {
	outer := NewRect(0, 0, 80, 24)
	inner := outer.Centered(21, 9)

	if inner != NewRect(29, 7, 21, 9) {
		t.Errorf("Centered(21, 9) = %+v", inner)
	}
	if inner.Right() != 50 || inner.Bottom() != 16 {
		t.Errorf("edges = (%d, %d), expected (50, 16)", inner.Right(), inner.Bottom())
	}
}

func TestTileColor(t *testing.T) {
	tests := []struct {
		value int
		want  Color
	}{
		{0, ColorGray},
		{2, ColorWhite},
		{4, ColorBrightWhite},
		{2048, ColorBrightYellow},
		{1 << 16, ColorBrightYellow},
		{6, ColorGray},
		{1, ColorGray},
	}
	for _, tc := range tests {
		if got := TileColor(tc.value); got != tc.want {
			t.Errorf("TileColor(%d) = %d, want %d", tc.value, got, tc.want)
		}
	}
}
