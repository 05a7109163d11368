package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var flagClearScores bool

var scoresCmd = &cobra.Command{
	Use:   "scores [variant]",
	Short: "Show high scores",
	Long: `Display the top 10 scores for a variant, or a summary of every
variant when none is given.

Examples:
  t2048 scores
  t2048 scores classic
  t2048 scores mini --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagClearScores, "clear", false, "Delete the variant's score history")
}

func runScores(_ *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer closeStore(store)

	if len(args) == 0 {
		if flagClearScores {
			return errors.New("--clear needs a variant")
		}
		return printSummary(store)
	}

	v, ok := t2048.GetVariant(args[0])
	if !ok {
		return fmt.Errorf("unknown variant %q, run 't2048 list' to see them", args[0])
	}

	if flagClearScores {
		if err := store.ClearScores(v.ID); err != nil {
			return err
		}
		fmt.Printf("Cleared scores for %s.\n", v.Title)
		return nil
	}

	return printTopScores(store, v)
}

func printTopScores(store *storage.Store, v t2048.Variant) error {
	scores, err := store.TopScores(v.ID, 10)
	if err != nil {
		return err
	}

	fmt.Printf("High Scores - %s\n", v.Title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 't2048 play %s' to set the first high score!\n", v.ID)
		return nil
	}

	fmt.Printf("  %-4s  %-8s  %-6s  %-6s  %s\n", "Rank", "Score", "Max", "Moves", "Date")
	fmt.Printf("  %-4s  %-8s  %-6s  %-6s  %s\n", "----", "-----", "---", "-----", "----")
	for i, e := range scores {
		fmt.Printf("  %-4d  %-8d  %-6d  %-6d  %s\n", i+1, e.Score, e.MaxTile, e.Moves, e.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func printSummary(store *storage.Store) error {
	stats, err := store.GetAllGamesStats()
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		fmt.Println("No scores recorded yet.")
		return nil
	}

	fmt.Printf("  %-14s  %-6s  %-8s  %-6s  %-8s  %s\n", "Board", "Games", "Best", "Tile", "Average", "Last played")
	fmt.Printf("  %-14s  %-6s  %-8s  %-6s  %-8s  %s\n", "-----", "-----", "----", "----", "-------", "-----------")
	for _, v := range t2048.Variants {
		s, ok := stats[v.ID]
		if !ok {
			continue
		}
		fmt.Printf("  %-14s  %-6d  %-8d  %-6d  %-8.0f  %s\n",
			v.Title, s.GamesCount, s.HighScore, s.BestTile, s.AvgScore, s.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}
