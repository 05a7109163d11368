package engine

import "github.com/vovakirdan/tui-2048/internal/board"

// EventKind identifies an Event type.
type EventKind int

const (
	KindTileMoved EventKind = iota
	KindTileMerged
	KindThresholdReached
	KindScoreChanged
	KindTileSpawned
	KindMoveProcessed
	KindGameOver
)

// String returns a snake_case name suitable for wire formats.
func (k EventKind) String() string {
	switch k {
	case KindTileMoved:
		return "tile_moved"
	case KindTileMerged:
		return "tile_merged"
	case KindThresholdReached:
		return "threshold_reached"
	case KindScoreChanged:
		return "score_changed"
	case KindTileSpawned:
		return "tile_spawned"
	case KindMoveProcessed:
		return "move_processed"
	case KindGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Event is a notification raised while a swipe is processed.
// The set of implementations is closed; switch on the concrete type.
type Event interface {
	Kind() EventKind
	event()
}

// TileMoved is raised when a tile slides one cell into an empty neighbour.
type TileMoved struct {
	From  board.Pos
	To    board.Pos
	Value int
}

func (TileMoved) Kind() EventKind { return KindTileMoved }
func (TileMoved) event()          {}

// TileMerged is raised when a tile merges into an equal neighbour.
// Value is the resulting (doubled) tile.
type TileMerged struct {
	From  board.Pos
	To    board.Pos
	Value int
}

func (TileMerged) Kind() EventKind { return KindTileMerged }
func (TileMerged) event()          {}

// ThresholdReached is raised the first time in a session a merge produces the
// winning tile. Play continues.
type ThresholdReached struct {
	Value int
	At    board.Pos
}

func (ThresholdReached) Kind() EventKind { return KindThresholdReached }
func (ThresholdReached) event()          {}

// ScoreChanged carries the score gained by one swipe. Delta is always positive.
type ScoreChanged struct {
	Delta int
	Total int
}

func (ScoreChanged) Kind() EventKind { return KindScoreChanged }
func (ScoreChanged) event()          {}

// TileSpawned is raised when a new tile appears.
type TileSpawned struct {
	At    board.Pos
	Value int
}

func (TileSpawned) Kind() EventKind { return KindTileSpawned }
func (TileSpawned) event()          {}

// MoveProcessed is raised once per swipe, whether or not anything changed.
type MoveProcessed struct {
	Swipe   Swipe
	Changed bool
	Moves   int // move counter after this swipe
}

func (MoveProcessed) Kind() EventKind { return KindMoveProcessed }
func (MoveProcessed) event()          {}

// GameOver is raised when the board is full and no merge is possible.
type GameOver struct {
	Score   int
	MaxTile int
}

func (GameOver) Kind() EventKind { return KindGameOver }
func (GameOver) event()          {}

// Listener receives engine events synchronously, in emission order.
type Listener interface {
	HandleEvent(Event)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(Event)

// HandleEvent calls f(ev).
func (f ListenerFunc) HandleEvent(ev Event) {
	f(ev)
}
