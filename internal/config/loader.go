package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const t2048File = "t2048.yaml"

// LoadT2048 loads the 2048 configuration.
// Search order: customPath -> ~/.t2048/configs/t2048.yaml -> ./configs/t2048.yaml -> embedded default
func LoadT2048(customPath string) (T2048Config, error) {
	cfg := DefaultT2048Config()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	// Try user config directory, then local configs directory
	for _, path := range []string{userConfigPath(t2048File), filepath.Join("configs", t2048File)} {
		if path == "" {
			continue
		}
		if parsed, ok := readYAML(path, cfg); ok {
			return parsed, nil
		}
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultT2048YAML, &cfg); err != nil {
		return DefaultT2048Config(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// readYAML overlays the file at path on base. Unreadable, unparsable or
// invalid files are skipped.
func readYAML(path string, base T2048Config) (T2048Config, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, false
	}
	if err := yaml.Unmarshal(data, &base); err != nil {
		return base, false
	}
	if base.Validate() != nil {
		return base, false
	}
	return base, true
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".t2048", "configs", filename)
}
