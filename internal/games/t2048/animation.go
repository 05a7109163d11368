package t2048

import (
	"github.com/vovakirdan/tui-2048/internal/board"
	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/engine"
)

// AnimationPhase represents the current phase of animation.
type AnimationPhase int

const (
	PhaseNone AnimationPhase = iota
	PhaseSlide
	PhasePop
)

// TileAnimation is one tile travelling from its pre-swipe cell to where it
// ended up. Merged tiles show their pre-merge value while sliding.
type TileAnimation struct {
	Value  int
	From   board.Pos
	To     board.Pos
	Merged bool
}

// animator turns the per-step events of one swipe into whole-tile paths.
type animator struct {
	cfg      config.AnimationConfig
	snapshot func() *board.Board

	phase AnimationPhase
	ticks int
	tiles []TileAnimation
	pops  []engine.Tile

	// Bookkeeping for the swipe in progress, keyed by a tile's current cell.
	origin  map[board.Pos]board.Pos
	merged  map[board.Pos]bool
	ghosts  []TileAnimation
	spawned []engine.Tile
}

func newAnimator(cfg config.AnimationConfig, snapshot func() *board.Board) *animator {
	a := &animator{cfg: cfg, snapshot: snapshot}
	a.clearSwipe()
	return a
}

func (a *animator) clearSwipe() {
	a.origin = make(map[board.Pos]board.Pos)
	a.merged = make(map[board.Pos]bool)
	a.ghosts = nil
	a.spawned = nil
}

func (a *animator) originOf(p board.Pos) board.Pos {
	if o, ok := a.origin[p]; ok {
		return o
	}
	return p
}

// HandleEvent implements engine.Listener.
func (a *animator) HandleEvent(ev engine.Event) {
	if !a.cfg.Enabled {
		return
	}

	switch e := ev.(type) {
	case engine.TileMoved:
		a.origin[e.To] = a.originOf(e.From)
		delete(a.origin, e.From)
		if a.merged[e.From] {
			a.merged[e.To] = true
			delete(a.merged, e.From)
			for i := range a.ghosts {
				if a.ghosts[i].To == e.From {
					a.ghosts[i].To = e.To
				}
			}
		}

	case engine.TileMerged:
		a.ghosts = append(a.ghosts, TileAnimation{
			Value: e.Value / 2,
			From:  a.originOf(e.From),
			To:    e.To,
		})
		delete(a.origin, e.From)
		a.merged[e.To] = true

	case engine.TileSpawned:
		a.spawned = append(a.spawned, engine.Tile{Pos: e.At, Value: e.Value})

	case engine.MoveProcessed:
		if e.Changed {
			a.start()
		}
		a.clearSwipe()
	}
}

// start builds the slide for the swipe that just finished.
func (a *animator) start() {
	b := a.snapshot()
	spawned := make(map[board.Pos]bool, len(a.spawned))
	for _, t := range a.spawned {
		spawned[t.Pos] = true
	}

	a.tiles = a.tiles[:0]
	for y := range b.Size() {
		for x := range b.Size() {
			p := board.Pos{X: x, Y: y}
			v := b.At(p)
			if v == 0 || spawned[p] {
				continue
			}
			t := TileAnimation{Value: v, From: a.originOf(p), To: p}
			if a.merged[p] {
				t.Value = v / 2
				t.Merged = true
			}
			a.tiles = append(a.tiles, t)
		}
	}
	a.tiles = append(a.tiles, a.ghosts...)
	a.pops = append(a.pops[:0], a.spawned...)

	a.phase = PhaseSlide
	a.ticks = 0
}

// Advance moves the animation one tick forward.
func (a *animator) Advance() {
	if a.phase == PhaseNone {
		return
	}
	a.ticks++

	switch a.phase {
	case PhaseSlide:
		if a.ticks >= a.cfg.SlideTicks {
			a.phase = PhasePop
			a.ticks = 0
		}
	case PhasePop:
		if a.ticks >= a.cfg.PopTicks {
			a.Finish()
		}
	}
}

// Finish drops whatever is running so the board renders as is.
func (a *animator) Finish() {
	a.phase = PhaseNone
	a.ticks = 0
	a.tiles = a.tiles[:0]
	a.pops = a.pops[:0]
}

// Phase returns the running phase.
func (a *animator) Phase() AnimationPhase {
	return a.phase
}

// Progress returns how far the running phase is, in [0, 1].
func (a *animator) Progress() float64 {
	var duration int
	switch a.phase {
	case PhaseSlide:
		duration = a.cfg.SlideTicks
	case PhasePop:
		duration = a.cfg.PopTicks
	default:
		return 1
	}
	if duration <= 0 {
		return 1
	}
	return min(float64(a.ticks)/float64(duration), 1)
}

// Tiles returns the sliding tiles.
func (a *animator) Tiles() []TileAnimation {
	return a.tiles
}

// Pops returns the tiles spawned by the last swipe.
func (a *animator) Pops() []engine.Tile {
	return a.pops
}

// easeOutQuad provides smooth deceleration for animation.
func easeOutQuad(t float64) float64 {
	return t * (2 - t)
}

// interpolate returns the tile's position in cells at progress t.
func (ta TileAnimation) interpolate(t float64) (x, y float64) {
	t = easeOutQuad(t)
	x = float64(ta.From.X) + float64(ta.To.X-ta.From.X)*t
	y = float64(ta.From.Y) + float64(ta.To.Y-ta.From.Y)*t
	return x, y
}
