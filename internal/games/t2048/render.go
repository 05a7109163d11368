package t2048

import (
	"fmt"
	"math"
	"strconv"

	"github.com/vovakirdan/tui-2048/internal/board"
	"github.com/vovakirdan/tui-2048/internal/core"
)

const (
	cellWidth  = 7 // Width of each cell (including left border)
	cellHeight = 2 // Height of each cell (including top border)
	hudHeight  = 4
)

// minScreen returns the smallest screen that fits a size x size board.
func minScreen(size int) (w, h int) {
	return size*cellWidth + 3, hudHeight + size*cellHeight + 3
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	size := g.eng.Size()
	boardW := size*cellWidth + 1
	boardH := size*cellHeight + 1
	boardX := (g.screenW - boardW) / 2
	boardY := hudHeight

	g.renderHUD(dst, boardX, boardW)
	g.renderGrid(dst, boardX, boardY, size)
	g.renderTiles(dst, boardX, boardY)
	g.renderOverlays(dst, boardX, boardY, boardW, boardH)

	controls := g.Controls()
	dst.DrawTextColor((g.screenW-len(controls))/2, boardY+boardH+1, controls, core.ColorGray)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	minW, minH := minScreen(g.eng.Size())
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need %dx%d", minW, minH))
}

// renderHUD draws the title, score and target.
func (g *Game) renderHUD(dst *core.Screen, boardX, boardW int) {
	v := g.Variant()
	title := v.Title
	dst.DrawTextColor(boardX+(boardW-len(title))/2, 0, title, core.ColorBrightYellow)

	dst.DrawText(boardX, 1, fmt.Sprintf("Score: %d", g.eng.Score()))

	info := fmt.Sprintf("Max: %d", g.eng.MaxTile())
	dst.DrawText(max(boardX, boardX+boardW-len(info)), 1, info)

	target := "Endless"
	if v.Threshold > 0 {
		target = fmt.Sprintf("Target: %d", v.Threshold)
		if g.eng.ThresholdReached() {
			target += " (reached)"
		}
	}
	dst.DrawText(boardX, 2, target)

	moves := fmt.Sprintf("Moves: %d", g.eng.Moves())
	dst.DrawText(max(boardX, boardX+boardW-len(moves)), 2, moves)
}

// renderGrid draws the cell borders.
func (g *Game) renderGrid(dst *core.Screen, boardX, boardY, size int) {
	for y := range size + 1 {
		for x := range size + 1 {
			px := boardX + x*cellWidth
			py := boardY + y*cellHeight

			var corner rune
			switch {
			case y == 0 && x == 0:
				corner = '┌'
			case y == 0 && x == size:
				corner = '┐'
			case y == size && x == 0:
				corner = '└'
			case y == size && x == size:
				corner = '┘'
			case y == 0:
				corner = '┬'
			case y == size:
				corner = '┴'
			case x == 0:
				corner = '├'
			case x == size:
				corner = '┤'
			default:
				corner = '┼'
			}
			dst.SetColor(px, py, corner, core.ColorGray)

			if x < size {
				for i := 1; i < cellWidth; i++ {
					dst.SetColor(px+i, py, '─', core.ColorGray)
				}
			}
			if y < size {
				for i := 1; i < cellHeight; i++ {
					dst.SetColor(px, py+i, '│', core.ColorGray)
				}
			}
		}
	}
}

// renderTiles draws the board, or the running animation frame.
func (g *Game) renderTiles(dst *core.Screen, boardX, boardY int) {
	progress := g.anim.Progress()

	if g.anim.Phase() == PhaseSlide {
		for _, t := range g.anim.Tiles() {
			fx, fy := t.interpolate(progress)
			px := boardX + int(math.Round(fx*cellWidth)) + 1
			py := boardY + int(math.Round(fy*cellHeight)) + 1
			drawTile(dst, px, py, t.Value)
		}
		return
	}

	popping := make(map[board.Pos]bool)
	if g.anim.Phase() == PhasePop {
		for _, t := range g.anim.Pops() {
			popping[t.Pos] = true
		}
	}

	b := g.eng.Board()
	for y := range b.Size() {
		for x := range b.Size() {
			v := b.Get(x, y)
			if v == 0 {
				continue
			}
			px := boardX + x*cellWidth + 1
			py := boardY + y*cellHeight + 1
			if popping[board.Pos{X: x, Y: y}] && progress < 0.5 {
				dst.SetColor(px+(cellWidth-1)/2, py, '·', core.TileColor(v))
				continue
			}
			drawTile(dst, px, py, v)
		}
	}
}

// drawTile writes a value centered in the cell whose interior starts at (px, py).
func drawTile(dst *core.Screen, px, py, value int) {
	s := strconv.Itoa(value)
	pad := max((cellWidth-1-len(s))/2, 0)
	dst.DrawTextColor(px+pad, py, s, core.TileColor(value))
}

// renderOverlays draws game state overlays.
func (g *Game) renderOverlays(dst *core.Screen, boardX, boardY, boardW, boardH int) {
	area := core.NewRect(boardX, boardY, boardW, boardH)

	switch {
	case g.paused:
		drawOverlay(dst, area, "PAUSED", "Press P to resume")
	case g.eng.GameOver():
		drawOverlay(dst, area, "GAME OVER", fmt.Sprintf("Max tile: %d", g.eng.MaxTile()), "Press R to restart")
	case g.banner > 0:
		drawOverlay(dst, area, fmt.Sprintf("%d!", g.Variant().Threshold), "Keep going")
	}
}

// drawOverlay draws a boxed message centered on area.
func drawOverlay(dst *core.Screen, area core.Rect, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len(line))
	}

	box := area.Centered(maxLen+4, len(lines)+2)
	dst.DrawRect(box, ' ')
	dst.DrawBox(box)

	for i, line := range lines {
		dst.DrawTextColor(box.X+(box.W-len(line))/2, box.Y+1+i, line, core.ColorBrightWhite)
	}
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "Arrows/WASD: Move | P: Pause | R: Restart | Q: Quit"
}
