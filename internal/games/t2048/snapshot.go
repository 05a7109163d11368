package t2048

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying     GameStateType = "playing"
	StateWon         GameStateType = "won" // threshold reached, still playing
	StateGameOver    GameStateType = "game_over"
	StatePaused      GameStateType = "paused"
	StatePausedSmall GameStateType = "paused_small_window"
)

// Snapshot captures the complete game state for determinism testing and replay.
type Snapshot struct {
	Tick      uint64
	Variant   string
	Size      int
	Threshold int
	Score     int
	Moves     int
	Board     []int
	MaxTile   int
	State     GameStateType
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case g.paused:
		state = StatePaused
	case g.eng.GameOver():
		state = StateGameOver
	case g.eng.ThresholdReached():
		state = StateWon
	}

	v := g.Variant()
	return Snapshot{
		Tick:      g.tick,
		Variant:   v.ID,
		Size:      v.Size,
		Threshold: v.Threshold,
		Score:     g.eng.Score(),
		Moves:     g.eng.Moves(),
		Board:     g.eng.Cells(),
		MaxTile:   g.eng.MaxTile(),
		State:     state,
	}
}
