// t2048 is a sliding-tile puzzle for the terminal, playable locally, over SSH
// or through an HTTP API.
//
// Usage:
//
//	t2048 list               - List board variants
//	t2048 play [variant]     - Play a variant (default: classic)
//	t2048 menu               - Pick variants interactively
//	t2048 serve              - Start SSH server for remote play
//	t2048 api                - Start the HTTP/WebSocket API
//	t2048 scores [variant]   - Show high scores
//	t2048 autoplay           - Play games with random swipes
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible games
//	--db <path>           - Set database path (default: ~/.t2048/scores.db)
//	--config <path>       - Custom t2048.yaml
//	--difficulty <name>   - easy, normal, hard or fixed
//	--log-level <level>   - debug, info, warn, error
//
// A .env file in the working directory may set T2048_DB and T2048_LOG_LEVEL.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

const defaultDBPath = "~/.t2048/scores.db"

var (
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
)

// logger is set up by the root command before any subcommand runs.
var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Prefix:          "t2048",
})

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "t2048",
	Short: "2048 in your terminal",
	Long: `t2048 is a sliding-tile puzzle: swipe to slide every tile, equal tiles
merge, and a new 2 or 4 appears after each move that changed the board.

Examples:
  t2048 play
  t2048 play mini --difficulty hard
  t2048 menu
  t2048 serve --ssh :2222
  t2048 api --addr :8080
  t2048 autoplay --games 500 --seed 1`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagDBPath, "db", defaultDBPath, "Path to scores database")
	pf.StringVar(&flagConfig, "config", "", "Path to custom t2048.yaml")
	pf.StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(apiCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(autoplayCmd)
}

// setup loads .env, configures logging and installs the rules config.
// Explicit flags win over environment variables.
func setup(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("cannot load .env: %w", err)
	}

	flags := cmd.Flags()
	if v := os.Getenv("T2048_LOG_LEVEL"); v != "" && !flags.Changed("log-level") {
		flagLogLevel = v
	}
	if v := os.Getenv("T2048_DB"); v != "" && !flags.Changed("db") {
		flagDBPath = v
	}

	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	logger.SetLevel(level)

	if flagFPS <= 0 {
		return fmt.Errorf("--fps must be positive, got %d", flagFPS)
	}

	cfg, err := config.LoadT2048(flagConfig)
	if err != nil {
		return err
	}
	preset, err := config.ParseDifficulty(flagDifficulty)
	if err != nil {
		return err
	}
	config.ApplyT2048Preset(&cfg, preset)
	if err := cfg.Validate(); err != nil {
		return err
	}
	t2048.Configure(cfg)

	logger.Debug("rules loaded",
		"size", cfg.Board.Size,
		"threshold", cfg.Rules.Threshold,
		"spawn4", cfg.Rules.Spawn4Probability,
		"difficulty", preset,
	)
	return nil
}
