package config

import (
	"fmt"
	"strings"
)

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	// DifficultyFixed keeps whatever the YAML says.
	DifficultyFixed DifficultyPreset = "fixed"
)

// ParseDifficulty converts a flag value into a preset. Empty means fixed.
func ParseDifficulty(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return DifficultyFixed, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", s)
	}
}

// Spawn4ForPreset returns the spawn-4 probability of a preset.
// More fours fill the board faster, so harder presets spawn more of them.
func Spawn4ForPreset(preset DifficultyPreset) (float64, bool) {
	switch preset {
	case DifficultyEasy:
		return 0.1, true
	case DifficultyNormal:
		return 0.5, true
	case DifficultyHard:
		return 0.75, true
	default:
		return 0, false
	}
}

// ApplyT2048Preset modifies the config based on a difficulty preset.
func ApplyT2048Preset(cfg *T2048Config, preset DifficultyPreset) {
	if p, ok := Spawn4ForPreset(preset); ok {
		cfg.Rules.Spawn4Probability = p
	}

	switch preset {
	case DifficultyEasy:
		cfg.Board.StartTiles = max(cfg.Board.StartTiles, 2)
	case DifficultyHard:
		cfg.Board.StartTiles = max(cfg.Board.StartTiles, 3)
	}
}
