package config

import (
	_ "embed"
)

//go:embed defaults/t2048.yaml
var defaultT2048YAML []byte

// DefaultT2048Config returns the built-in configuration, used when the embedded
// YAML cannot be parsed.
func DefaultT2048Config() T2048Config {
	return T2048Config{
		Board: BoardConfig{
			Size:       4,
			StartTiles: 2,
		},
		Rules: RulesConfig{
			Threshold:         2048,
			Spawn4Probability: 0.5,
		},
		Animation: AnimationConfig{
			Enabled:    true,
			SlideTicks: 8, // ~133ms at 60fps
			PopTicks:   6, // ~100ms at 60fps
		},
	}
}
