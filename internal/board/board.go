// Package board implements the square tile grid shared by the engine and its
// presentation layers. It contains no randomness and no game rules beyond the
// queries the rules need.
package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MinSize is the smallest playable board dimension.
const MinSize = 2

var (
	ErrEmpty         = errors.New("board: no cells")
	ErrNotSquare     = errors.New("board: cell count is not a perfect square")
	ErrTooSmall      = errors.New("board: size below minimum")
	ErrNegativeValue = errors.New("board: negative cell value")
)

// Pos is a cell coordinate. X is the column, Y the row.
type Pos struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// String formats the position as "(x, y)".
func (p Pos) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Board is an NxN grid stored row-major: cell (x, y) lives at index y*N + x.
// A value of 0 marks an empty cell.
type Board struct {
	size  int
	cells []int
}

// New creates an empty board of the given dimension.
// Panics if size is below MinSize.
func New(size int) *Board {
	if size < MinSize {
		panic(fmt.Sprintf("board: size %d below minimum %d", size, MinSize))
	}
	return &Board{
		size:  size,
		cells: make([]int, size*size),
	}
}

// FromCells builds a board from a flat row-major sequence.
// The size is derived from the sequence length, which must be a perfect square.
func FromCells(cells []int) (*Board, error) {
	if len(cells) == 0 {
		return nil, ErrEmpty
	}

	size := isqrt(len(cells))
	if size*size != len(cells) {
		return nil, fmt.Errorf("%w: %d cells", ErrNotSquare, len(cells))
	}
	if size < MinSize {
		return nil, fmt.Errorf("%w: %d", ErrTooSmall, size)
	}

	for i, v := range cells {
		if v < 0 {
			return nil, fmt.Errorf("%w: %d at index %d", ErrNegativeValue, v, i)
		}
	}

	b := &Board{size: size, cells: make([]int, len(cells))}
	copy(b.cells, cells)
	return b, nil
}

// isqrt returns floor(sqrt(n)) for n >= 0.
func isqrt(n int) int {
	r := 0
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}

// Size returns the board dimension N.
func (b *Board) Size() int {
	return b.size
}

// index maps a coordinate to its flat index.
// Out-of-range coordinates are a programmer error and panic.
func (b *Board) index(x, y int) int {
	if x < 0 || x >= b.size || y < 0 || y >= b.size {
		panic(fmt.Sprintf("board: position (%d, %d) out of range for size %d", x, y, b.size))
	}
	return y*b.size + x
}

// Get returns the value at (x, y).
func (b *Board) Get(x, y int) int {
	return b.cells[b.index(x, y)]
}

// Set stores value at (x, y).
func (b *Board) Set(x, y, value int) {
	b.cells[b.index(x, y)] = value
}

// At returns the value at p.
func (b *Board) At(p Pos) int {
	return b.Get(p.X, p.Y)
}

// PositionsWithValue returns every position holding value, in row-major order.
func (b *Board) PositionsWithValue(value int) []Pos {
	var out []Pos
	for i, v := range b.cells {
		if v == value {
			out = append(out, Pos{X: i % b.size, Y: i / b.size})
		}
	}
	return out
}

// EmptyCells returns the positions of all empty cells in row-major order.
func (b *Board) EmptyCells() []Pos {
	return b.PositionsWithValue(0)
}

// HasEmptyCell reports whether at least one cell is empty.
func (b *Board) HasEmptyCell() bool {
	for _, v := range b.cells {
		if v == 0 {
			return true
		}
	}
	return false
}

// HasAnyAdjacentEqualPair reports whether any cell has an orthogonal neighbour
// with the same value. Only meaningful on a full board: two empty neighbours
// also count as equal.
func (b *Board) HasAnyAdjacentEqualPair() bool {
	for y := range b.size {
		for x := range b.size {
			val := b.Get(x, y)
			// Right neighbour
			if x < b.size-1 && b.Get(x+1, y) == val {
				return true
			}
			// Bottom neighbour
			if y < b.size-1 && b.Get(x, y+1) == val {
				return true
			}
		}
	}
	return false
}

// Sum returns the total of all positive cell values.
func (b *Board) Sum() int {
	total := 0
	for _, v := range b.cells {
		if v > 0 {
			total += v
		}
	}
	return total
}

// MaxTile returns the highest value on the board.
func (b *Board) MaxTile() int {
	maxVal := 0
	for _, v := range b.cells {
		maxVal = max(maxVal, v)
	}
	return maxVal
}

// Cells returns a copy of the flat row-major cell sequence.
func (b *Board) Cells() []int {
	out := make([]int, len(b.cells))
	copy(out, b.cells)
	return out
}

// Rows returns a copy of the board as a slice of rows.
func (b *Board) Rows() [][]int {
	rows := make([][]int, b.size)
	for y := range b.size {
		rows[y] = make([]int, b.size)
		copy(rows[y], b.cells[y*b.size:(y+1)*b.size])
	}
	return rows
}

// Clone returns a deep copy.
func (b *Board) Clone() *Board {
	return &Board{size: b.size, cells: b.Cells()}
}

// Equal reports whether both boards have the same size and values.
func (b *Board) Equal(other *Board) bool {
	if other == nil || b.size != other.size {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// String renders the board as right-aligned rows, "." for empty cells.
func (b *Board) String() string {
	width := len(strconv.Itoa(b.MaxTile()))
	var sb strings.Builder
	for y := range b.size {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := range b.size {
			if x > 0 {
				sb.WriteByte(' ')
			}
			cell := "."
			if v := b.Get(x, y); v != 0 {
				cell = strconv.Itoa(v)
			}
			sb.WriteString(strings.Repeat(" ", max(0, width-len(cell))))
			sb.WriteString(cell)
		}
	}
	return sb.String()
}
