package engine

import "github.com/vovakirdan/tui-2048/internal/board"

// scanStart returns the first index scanned along an axis moving by step.
// The moving axis starts one cell away from the destination edge, since the
// edge cell has nowhere to go; the static axis starts at 0.
func scanStart(step Step, size int) int {
	switch step {
	case StepDecrease:
		return 1
	case StepIncrease:
		return size - 2
	default:
		return 0
	}
}

// scanAdvance returns the loop increment: away from the destination edge.
func scanAdvance(step Step) int {
	if step == StepIncrease {
		return -1
	}
	return 1
}

// collapse slides and merges tiles on b in the direction of s until a full
// pass changes nothing. It returns the move/merge events in scan order, the
// score gained, the position of the first merge producing threshold (nil if
// none) and whether anything changed.
//
// A cell receives at most one merge per swipe. The mark travels with the
// merged tile if it later slides, so [2,2,2,2] collapses to [4,4,0,0].
func collapse(b *board.Board, s Swipe, threshold int) (events []Event, gained int, reachedAt *board.Pos, changed bool) {
	size := b.Size()
	dx, dy := s.delta()
	merged := make([]bool, size*size)

	for {
		changes := 0

		for y := scanStart(dy, size); y >= 0 && y < size; y += scanAdvance(dy) {
			for x := scanStart(dx, size); x >= 0 && x < size; x += scanAdvance(dx) {
				val := b.Get(x, y)
				if val == 0 {
					continue
				}

				from := board.Pos{X: x, Y: y}
				to := board.Pos{X: x + int(dx), Y: y + int(dy)}
				src, dst := y*size+x, to.Y*size+to.X
				target := b.At(to)

				switch target {
				case 0:
					b.Set(to.X, to.Y, val)
					b.Set(x, y, 0)
					merged[dst], merged[src] = merged[src], false
					events = append(events, TileMoved{From: from, To: to, Value: val})
					changes++

				case val:
					if merged[src] || merged[dst] {
						continue
					}
					sum := val * 2
					b.Set(to.X, to.Y, sum)
					b.Set(x, y, 0)
					merged[dst] = true
					events = append(events, TileMerged{From: from, To: to, Value: sum})
					gained += sum
					if sum == threshold && reachedAt == nil {
						p := to
						reachedAt = &p
					}
					changes++
				}
			}
		}

		if changes == 0 {
			break
		}
		changed = true
	}

	return events, gained, reachedAt, changed
}
