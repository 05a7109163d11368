// Package config provides YAML-based rules configuration and difficulty
// presets for the 2048 variants.
package config

import (
	"fmt"

	"github.com/vovakirdan/tui-2048/internal/engine"
)

// T2048Config contains all tunable parameters of a 2048 session.
type T2048Config struct {
	Board     BoardConfig     `yaml:"board"`
	Rules     RulesConfig     `yaml:"rules"`
	Animation AnimationConfig `yaml:"animation"`
}

// BoardConfig defines the grid of the "custom" variant and the opening tiles
// of every variant.
type BoardConfig struct {
	Size       int `yaml:"size"`
	StartTiles int `yaml:"start_tiles"`
}

// RulesConfig defines spawning and the winning tile of the "custom" variant.
type RulesConfig struct {
	Threshold         int     `yaml:"threshold"`          // 0 disables the win banner
	Spawn4Probability float64 `yaml:"spawn4_probability"` // 0.0 = always 2, 1.0 = always 4
}

// AnimationConfig defines tile animation lengths in simulation ticks.
type AnimationConfig struct {
	Enabled    bool `yaml:"enabled"`
	SlideTicks int  `yaml:"slide_ticks"`
	PopTicks   int  `yaml:"pop_ticks"`
}

// MinVariantSize is the smallest board among the fixed-size variants. Start
// tiles are shared by every variant, so they must fit this board too.
const MinVariantSize = 3

// Engine returns the engine rules for a board of the given size and threshold,
// taking spawning parameters from the config.
func (c T2048Config) Engine(size, threshold int) engine.Config {
	return engine.Config{
		Size:              size,
		Threshold:         threshold,
		Spawn4Probability: c.Rules.Spawn4Probability,
		StartTiles:        c.Board.StartTiles,
	}
}

// Validate checks the config describes playable rules and sane animation.
func (c T2048Config) Validate() error {
	if err := c.Engine(c.Board.Size, c.Rules.Threshold).Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := c.Engine(MinVariantSize, c.Rules.Threshold).Validate(); err != nil {
		return fmt.Errorf("config: start tiles shared by every variant: %w", err)
	}
	if c.Animation.SlideTicks < 0 || c.Animation.PopTicks < 0 {
		return fmt.Errorf("config: negative animation ticks")
	}
	return nil
}
