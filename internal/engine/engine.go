// Package engine implements the sliding-tile rules: swipes that slide and merge
// tiles to a fixed point, tile spawning, scoring and game-over detection.
//
// An Engine is not safe for concurrent use. Callers serialise swipes.
package engine

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-2048/internal/board"
)

// ErrMalformedBoard is returned by Load when a persisted board cannot be used.
var ErrMalformedBoard = errors.New("engine: malformed board")

// Rand is the random source used for spawning. *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Config holds the rule parameters of a session.
type Config struct {
	Size              int     // Board dimension N
	Threshold         int     // Winning tile value; 0 disables the event
	Spawn4Probability float64 // Chance a spawned tile is 4 instead of 2
	StartTiles        int     // Tiles spawned by Reset
}

// DefaultConfig returns the classic 4x4 rules.
func DefaultConfig() Config {
	return Config{
		Size:              4,
		Threshold:         2048,
		Spawn4Probability: 0.5,
		StartTiles:        2,
	}
}

// Validate checks that the config describes a playable game.
func (c Config) Validate() error {
	if c.Size < board.MinSize {
		return fmt.Errorf("engine: board size %d below minimum %d", c.Size, board.MinSize)
	}
	if c.Threshold < 0 {
		return fmt.Errorf("engine: negative threshold %d", c.Threshold)
	}
	if c.Spawn4Probability < 0 || c.Spawn4Probability > 1 {
		return fmt.Errorf("engine: spawn-4 probability %.2f outside [0, 1]", c.Spawn4Probability)
	}
	if c.StartTiles < 0 || c.StartTiles > c.Size*c.Size {
		return fmt.Errorf("engine: %d start tiles do not fit a %dx%d board", c.StartTiles, c.Size, c.Size)
	}
	return nil
}

// Tile is a value at a position.
type Tile struct {
	Pos   board.Pos
	Value int
}

// Result summarises one swipe.
type Result struct {
	Events     []Event // in emission order
	Changed    bool
	ScoreDelta int
	Spawned    *Tile // nil when nothing changed
	GameOver   bool
}

// Engine owns one game session: the board, score, move counter and the
// once-per-session threshold flag.
type Engine struct {
	cfg       Config
	rng       Rand
	board     *board.Board
	score     int
	moves     int
	reached   bool
	over      bool
	listeners []Listener
}

// New creates an engine with a fresh board.
// Panics if cfg is invalid or rng is nil.
func New(cfg Config, rng Rand) *Engine {
	if err := cfg.Validate(); err != nil {
		panic(err.Error())
	}
	if rng == nil {
		panic("engine: nil random source")
	}

	e := &Engine{cfg: cfg, rng: rng}
	e.Reset()
	return e
}

// Subscribe registers a listener for every subsequent event.
func (e *Engine) Subscribe(l Listener) {
	e.listeners = append(e.listeners, l)
}

// Reset starts a new session: empty board plus the configured start tiles,
// zero score, zero moves, threshold not yet reached.
func (e *Engine) Reset() {
	e.board = board.New(e.cfg.Size)
	e.score = 0
	e.moves = 0
	e.reached = false
	e.over = false

	events := make([]Event, 0, e.cfg.StartTiles)
	for range e.cfg.StartTiles {
		t := e.spawn()
		events = append(events, TileSpawned{At: t.Pos, Value: t.Value})
	}
	e.notify(events)
}

// Load resumes a session from a persisted flat board. The score is recomputed as
// the sum of all positive cells; the move counter restarts at zero.
// A malformed board (wrong length, non-square, negative values) is rejected: the
// engine falls back to a fresh game and the returned error wraps ErrMalformedBoard.
func (e *Engine) Load(cells []int) error {
	b, err := board.FromCells(cells)
	if err == nil && b.Size() != e.cfg.Size {
		err = fmt.Errorf("board size %d, want %d", b.Size(), e.cfg.Size)
	}
	if err != nil {
		e.Reset()
		return fmt.Errorf("%w: %w", ErrMalformedBoard, err)
	}

	e.board = b
	e.score = b.Sum()
	e.moves = 0
	e.reached = false
	e.over = !b.HasEmptyCell() && !b.HasAnyAdjacentEqualPair()
	return nil
}

// RestoreMoves sets the move counter of a resumed session, which Load resets.
// Negative counts are treated as zero.
func (e *Engine) RestoreMoves(n int) {
	e.moves = max(n, 0)
}

// Swipe processes one player move and returns every event it raised. The same
// events are delivered to subscribed listeners before Swipe returns.
// Panics if s is not a valid swipe.
func (e *Engine) Swipe(s Swipe) Result {
	if !s.Valid() {
		panic(fmt.Sprintf("engine: invalid swipe %v", s))
	}

	events, gained, reachedAt, changed := collapse(e.board, s, e.cfg.Threshold)

	if reachedAt != nil && !e.reached && e.cfg.Threshold > 0 {
		e.reached = true
		events = append(events, ThresholdReached{Value: e.cfg.Threshold, At: *reachedAt})
	}

	res := Result{Changed: changed, ScoreDelta: gained}

	if gained > 0 {
		e.score += gained
		events = append(events, ScoreChanged{Delta: gained, Total: e.score})
	}

	if changed {
		e.moves++
		t := e.spawn()
		res.Spawned = &t
		events = append(events, TileSpawned{At: t.Pos, Value: t.Value})
	}

	events = append(events, MoveProcessed{Swipe: s, Changed: changed, Moves: e.moves})

	if !e.board.HasEmptyCell() && !e.board.HasAnyAdjacentEqualPair() {
		e.over = true
		res.GameOver = true
		events = append(events, GameOver{Score: e.score, MaxTile: e.board.MaxTile()})
	}

	res.Events = events
	e.notify(events)
	return res
}

// spawn places a 2 or 4 on a uniformly chosen empty cell.
// Having no empty cell here means game-over detection failed; that is a defect.
func (e *Engine) spawn() Tile {
	empty := e.board.EmptyCells()
	if len(empty) == 0 {
		panic("engine: spawn requested on a full board")
	}

	pos := empty[e.rng.Intn(len(empty))]
	value := 2
	if e.rng.Float64() < e.cfg.Spawn4Probability {
		value = 4
	}

	e.board.Set(pos.X, pos.Y, value)
	return Tile{Pos: pos, Value: value}
}

func (e *Engine) notify(events []Event) {
	for _, l := range e.listeners {
		for _, ev := range events {
			l.HandleEvent(ev)
		}
	}
}

// Board returns a copy of the current board.
func (e *Engine) Board() *board.Board {
	return e.board.Clone()
}

// Cells returns the board as a flat row-major sequence, the persisted form.
func (e *Engine) Cells() []int {
	return e.board.Cells()
}

// Size returns the board dimension.
func (e *Engine) Size() int {
	return e.board.Size()
}

// Score returns the cumulative score.
func (e *Engine) Score() int {
	return e.score
}

// Moves returns the number of swipes that changed the board.
func (e *Engine) Moves() int {
	return e.moves
}

// MaxTile returns the highest tile on the board.
func (e *Engine) MaxTile() int {
	return e.board.MaxTile()
}

// ThresholdReached reports whether the winning tile was produced this session.
func (e *Engine) ThresholdReached() bool {
	return e.reached
}

// GameOver reports whether the last evaluation found no possible move.
func (e *Engine) GameOver() bool {
	return e.over
}

// Config returns the rule parameters.
func (e *Engine) Config() Config {
	return e.cfg
}
