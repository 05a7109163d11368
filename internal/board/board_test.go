package board

import (
	"errors"
	"testing"
)

func mustBoard(t *testing.T, cells ...int) *Board {
	t.Helper()
	b, err := FromCells(cells)
	if err != nil {
		t.Fatalf("FromCells(%v) failed: %v", cells, err)
	}
	return b
}

func TestFromCellsValidation(t *testing.T) {
	tests := []struct {
		name    string
		cells   []int
		wantErr error
	}{
		{"empty", nil, ErrEmpty},
		{"not square", []int{1, 2, 3}, ErrNotSquare},
		{"single cell", []int{2}, ErrTooSmall},
		{"negative value", []int{2, 0, -4, 0}, ErrNegativeValue},
		{"valid 2x2", []int{2, 0, 0, 4}, nil},
		{"valid 4x4", make([]int, 16), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromCells(tt.cells)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("FromCells(%v) unexpected error: %v", tt.cells, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("FromCells(%v) error = %v, want %v", tt.cells, err, tt.wantErr)
			}
		})
	}
}

func TestSizeDerivedFromLength(t *testing.T) {
	for _, n := range []int{2, 3, 4, 5, 6} {
		b := mustBoard(t, make([]int, n*n)...)
		if b.Size() != n {
			t.Errorf("Size() = %d, want %d", b.Size(), n)
		}
	}
}

func TestGetSetRowMajor(t *testing.T) {
	b := New(4)
	b.Set(1, 2, 8)

	if b.Get(1, 2) != 8 {
		t.Errorf("Get(1, 2) = %d, want 8", b.Get(1, 2))
	}
	if b.Cells()[2*4+1] != 8 {
		t.Errorf("cell at index y*N+x = %d, want 8", b.Cells()[9])
	}
	if b.At(Pos{X: 1, Y: 2}) != 8 {
		t.Error("At should agree with Get")
	}
}

func TestOutOfRangePanics(t *testing.T) {
	tests := []struct {
		name string
		x, y int
	}{
		{"negative x", -1, 0},
		{"negative y", 0, -1},
		{"x too large", 4, 0},
		{"y too large", 0, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(4)
			defer func() {
				if recover() == nil {
					t.Errorf("Get(%d, %d) should panic", tt.x, tt.y)
				}
			}()
			b.Get(tt.x, tt.y)
		})
	}
}

func TestPositionsWithValueScanOrder(t *testing.T) {
	b := mustBoard(t,
		2, 0, 8, 0,
		0, 64, 0, 256,
		512, 0, 2048, 0,
		0, 16, 0, 64,
	)

	empty := b.EmptyCells()
	if len(empty) != 8 {
		t.Fatalf("EmptyCells count = %d, want 8", len(empty))
	}

	want := []Pos{{1, 0}, {3, 0}, {0, 1}, {2, 1}, {1, 2}, {3, 2}, {0, 3}, {2, 3}}
	for i, p := range want {
		if empty[i] != p {
			t.Errorf("EmptyCells[%d] = %v, want %v", i, empty[i], p)
		}
	}

	sixtyFours := b.PositionsWithValue(64)
	if len(sixtyFours) != 2 || sixtyFours[0] != (Pos{1, 1}) || sixtyFours[1] != (Pos{3, 3}) {
		t.Errorf("PositionsWithValue(64) = %v", sixtyFours)
	}
}

func TestHasAnyAdjacentEqualPair(t *testing.T) {
	tests := []struct {
		name  string
		cells []int
		want  bool
	}{
		{
			name: "no pairs",
			cells: []int{
				2, 4, 8, 16,
				32, 64, 128, 256,
				512, 1024, 2048, 4096,
				8192, 16384, 32768, 65536,
			},
			want: false,
		},
		{
			name: "horizontal pair",
			cells: []int{
				2, 2, 8, 16,
				32, 64, 128, 256,
				512, 1024, 2048, 4096,
				8192, 16384, 32768, 65536,
			},
			want: true,
		},
		{
			name: "vertical pair in last column",
			cells: []int{
				2, 4, 8, 16,
				32, 64, 128, 256,
				512, 1024, 2048, 4096,
				8192, 16384, 32768, 4096,
			},
			want: true,
		},
		{
			name: "diagonal does not count",
			cells: []int{
				2, 4,
				4, 2,
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustBoard(t, tt.cells...)
			if got := b.HasAnyAdjacentEqualPair(); got != tt.want {
				t.Errorf("HasAnyAdjacentEqualPair() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSumMaxAndClone(t *testing.T) {
	b := mustBoard(t,
		2, 4, 0, 0,
		0, 2048, 0, 0,
		0, 0, 0, 0,
		0, 0, 0, 8,
	)

	if b.Sum() != 2062 {
		t.Errorf("Sum() = %d, want 2062", b.Sum())
	}
	if b.MaxTile() != 2048 {
		t.Errorf("MaxTile() = %d, want 2048", b.MaxTile())
	}

	c := b.Clone()
	c.Set(0, 0, 16)
	if b.Get(0, 0) != 2 {
		t.Error("Clone should not share storage with the original")
	}
	if b.Equal(c) {
		t.Error("Equal should detect the differing cell")
	}
	c.Set(0, 0, 2)
	if !b.Equal(c) {
		t.Error("Equal should hold after restoring the cell")
	}
}

func TestRowsAndString(t *testing.T) {
	b := mustBoard(t, 2, 0, 16, 4)

	rows := b.Rows()
	if len(rows) != 2 || rows[0][0] != 2 || rows[1][1] != 4 {
		t.Errorf("Rows() = %v", rows)
	}

	want := " 2  .\n16  4"
	if b.String() != want {
		t.Errorf("String() = %q, want %q", b.String(), want)
	}
}
