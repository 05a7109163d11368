package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/engine"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// maxAutoplaySwipes stops a runaway game; random play ends far sooner.
const maxAutoplaySwipes = 1_000_000

var (
	flagAutoGames   int
	flagAutoVariant string
	flagAutoRecord  bool
)

var autoplayCmd = &cobra.Command{
	Use:   "autoplay",
	Short: "Play games with random swipes",
	Long: `Play games headlessly, choosing every swipe uniformly at random,
and report how they ended. Useful as a smoke test of the rules.

Examples:
  t2048 autoplay
  t2048 autoplay --games 1000 --seed 42
  t2048 autoplay --variant mini --record`,
	Args: cobra.NoArgs,
	RunE: runAutoplay,
}

func init() {
	autoplayCmd.Flags().IntVar(&flagAutoGames, "games", 100, "Number of games to play")
	autoplayCmd.Flags().StringVar(&flagAutoVariant, "variant", "classic", "Variant to play")
	autoplayCmd.Flags().BoolVar(&flagAutoRecord, "record", false, "Save the scores to the database")
}

// autoplayResult summarises one finished game.
type autoplayResult struct {
	Score    int
	MaxTile  int
	Moves    int
	Swipes   int
	Reached  bool
	Finished bool
}

// autoplay plays one game to its end with random swipes from rng.
func autoplay(cfg engine.Config, rng *rand.Rand) autoplayResult {
	eng := engine.New(cfg, rng)

	swipes := 0
	for !eng.GameOver() && swipes < maxAutoplaySwipes {
		eng.Swipe(engine.RandomSwipe(rng))
		swipes++
	}

	return autoplayResult{
		Score:    eng.Score(),
		MaxTile:  eng.MaxTile(),
		Moves:    eng.Moves(),
		Swipes:   swipes,
		Reached:  eng.ThresholdReached(),
		Finished: eng.GameOver(),
	}
}

func runAutoplay(_ *cobra.Command, _ []string) error {
	if flagAutoGames <= 0 {
		return fmt.Errorf("--games must be positive, got %d", flagAutoGames)
	}
	v, ok := t2048.GetVariant(flagAutoVariant)
	if !ok {
		return fmt.Errorf("unknown variant %q, run 't2048 list' to see them", flagAutoVariant)
	}
	v = v.Resolved()
	cfg := t2048.Rules().Engine(v.Size, v.Threshold)

	var store *storage.Store
	if flagAutoRecord {
		store = openStore()
		defer closeStore(store)
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var total, best, bestTile, reached int
	start := time.Now()
	for i := range flagAutoGames {
		rng := rand.New(rand.NewSource(seed + int64(i)))
		res := autoplay(cfg, rng)

		logger.Debug("game finished",
			"game", i+1,
			"score", res.Score,
			"max_tile", res.MaxTile,
			"moves", res.Moves,
			"swipes", res.Swipes,
		)
		if !res.Finished {
			logger.Warn("game stopped before the board locked", "game", i+1, "swipes", res.Swipes)
		}

		total += res.Score
		best = max(best, res.Score)
		bestTile = max(bestTile, res.MaxTile)
		if res.Reached {
			reached++
		}

		if store != nil && res.Score > 0 {
			if _, err := store.SaveScore(v.ID, res.Score, res.MaxTile, res.Moves); err != nil {
				logger.Warn("cannot save score", "err", err)
			}
		}
	}

	logger.Info("autoplay done",
		"variant", v.ID,
		"games", flagAutoGames,
		"seed", seed,
		"best", best,
		"average", total/flagAutoGames,
		"best_tile", bestTile,
		"reached_target", reached,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return nil
}
