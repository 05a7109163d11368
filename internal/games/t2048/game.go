package t2048

import (
	"math/rand"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/engine"
)

// bannerTicks is how long the threshold banner stays up (2s at 60fps).
const bannerTicks = 120

// Game implements registry.Game over one engine session.
type Game struct {
	variant Variant
	eng     *engine.Engine
	anim    *animator
	tick    uint64

	// Screen dimensions
	screenW int
	screenH int

	paused    bool
	tooSmall  bool
	banner    int   // ticks left on the threshold banner
	resumeErr error // why a resumed board was rejected
}

// New creates a game for the given variant.
func New(v Variant) *Game {
	return &Game{variant: v}
}

// ID returns the variant identifier.
func (g *Game) ID() string {
	return g.variant.ID
}

// Title returns the display name.
func (g *Game) Title() string {
	return g.variant.Title
}

// Variant returns the variant with custom sizes resolved.
func (g *Game) Variant() Variant {
	return g.variant.Resolved()
}

// Reset starts a new session, resuming cfg.Resume when given.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	v := g.variant.Resolved()
	rng := rand.New(rand.NewSource(cfg.Seed))

	g.eng = engine.New(rules.Engine(v.Size, v.Threshold), rng)
	g.anim = newAnimator(rules.Animation, g.eng.Board)
	g.eng.Subscribe(g)

	g.tick = 0
	g.paused = false
	g.banner = 0
	g.resumeErr = nil

	if cfg.Resume != nil {
		g.resumeErr = g.eng.Load(cfg.Resume)
		if g.resumeErr == nil {
			g.eng.RestoreMoves(cfg.ResumeMoves)
		}
	}

	g.Resize(cfg.ScreenW, cfg.ScreenH)
}

// ResumeError reports why the last resumed board was discarded, or nil.
func (g *Game) ResumeError() error {
	return g.resumeErr
}

// Resize adapts to a new screen size. The board is untouched.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	minW, minH := minScreen(g.eng.Size())
	g.tooSmall = w < minW || h < minH
}

// HandleEvent feeds engine events to the animator and the banner.
func (g *Game) HandleEvent(ev engine.Event) {
	if _, ok := ev.(engine.ThresholdReached); ok {
		g.banner = bannerTicks
	}
	g.anim.HandleEvent(ev)
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	g.anim.Advance()
	if g.banner > 0 {
		g.banner--
	}

	if g.eng.GameOver() {
		return core.StepResult{State: g.State()}
	}

	s, ok := swipeFor(in)
	if !ok {
		return core.StepResult{State: g.State()}
	}

	// A new swipe cuts the running animation short.
	g.anim.Finish()
	g.banner = 0
	res := g.eng.Swipe(s)

	return core.StepResult{State: g.State(), Moved: res.Changed}
}

// swipeFor maps the frame's first direction action to a swipe.
func swipeFor(in core.InputFrame) (engine.Swipe, bool) {
	switch {
	case in.Has(core.ActionUp):
		return engine.SwipeUp, true
	case in.Has(core.ActionDown):
		return engine.SwipeDown, true
	case in.Has(core.ActionLeft):
		return engine.SwipeLeft, true
	case in.Has(core.ActionRight):
		return engine.SwipeRight, true
	}
	return engine.Swipe{}, false
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.eng.Score(),
		MaxTile:  g.eng.MaxTile(),
		Moves:    g.eng.Moves(),
		Won:      g.eng.ThresholdReached(),
		GameOver: g.eng.GameOver(),
		Paused:   g.paused || g.tooSmall,
	}
}

// Cells returns the board in its persisted form.
func (g *Game) Cells() []int {
	return g.eng.Cells()
}
