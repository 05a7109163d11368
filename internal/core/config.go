package core

// RuntimeConfig contains configuration passed to games at initialization.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic gameplay

	// Resume is a persisted row-major board to continue from. Nil starts a
	// fresh game. A board that does not fit the game falls back to a fresh one.
	Resume      []int
	ResumeMoves int // move counter of the resumed board
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score    int  // Current score
	MaxTile  int  // Highest tile on the board
	Moves    int  // Swipes that changed the board
	Won      bool // Winning tile produced this session; play continues
	GameOver bool // No move left
	Paused   bool // Paused or window too small
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
	Moved bool // A swipe changed the board this tick
}
