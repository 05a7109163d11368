package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/registry"
)

var playCmd = &cobra.Command{
	Use:   "play [variant]",
	Short: "Play a board",
	Long: `Start playing the given variant (classic when omitted).
An unfinished board of the same variant is resumed automatically.

Controls:
  Arrows/WASD/hjkl  - Swipe
  P                 - Pause
  R                 - New board
  Ctrl+S            - Save a screenshot to ~/.t2048/screenshots
  B/Esc, Q/Ctrl+C   - Quit (the board is kept for next time)

Difficulty options change how often a 4 spawns:
  easy   - 10% fours
  normal - 50% fours
  hard   - 75% fours, three start tiles
  fixed  - whatever t2048.yaml says

Examples:
  t2048 play
  t2048 play mini
  t2048 play big --difficulty hard
  t2048 play custom --config ./my-2048.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, args []string) error {
	gameID := "classic"
	if len(args) == 1 {
		gameID = args[0]
	}
	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown variant %q, run 't2048 list' to see them", gameID)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		return err
	}

	store := openStore()
	defer closeStore(store)

	restore := logToFile()
	defer restore()

	if err := tui.Run(game, store, logger, runtimeConfig()); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}
