package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick a board from a menu",
	Long: `Start in interactive menu mode.

Boards with an unfinished game are marked [saved] and resume where you left.
Leaving a board with B/Esc returns to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Play
  Tab          - High scores
  Q            - Quit

Examples:
  t2048 menu
  t2048 menu --fps 30
  t2048 menu --db ./scores.db`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	store := openStore()
	defer closeStore(store)

	restore := logToFile()
	defer restore()

	cfg := runtimeConfig()
	for {
		res, err := tui.RunMenu(store, cfg)
		if err != nil {
			return fmt.Errorf("menu: %w", err)
		}
		cfg = res.Config

		if res.Quit {
			return nil
		}

		if res.WantsScoreboard {
			goBack, err := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				return fmt.Errorf("scoreboard: %w", err)
			}
			if !goBack {
				return nil
			}
			continue
		}

		game, err := registry.Create(res.GameID)
		if err != nil {
			logger.Error("cannot create game", "game", res.GameID, "err", err)
			continue
		}

		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}
		final, err := tui.RunGame(game, store, logger, cfg, false)
		if err != nil {
			return fmt.Errorf("running game: %w", err)
		}
		cfg = final.Config()
		if !final.BackToMenu() {
			return nil
		}
	}
}
