package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads the configuration for a volleyball variant.
// Search order: customPath -> ~/.volley/configs/<game>.yaml -> ./configs/<game>.yaml -> embedded default.
// Files are decoded over the variant defaults, so a partial file only overrides what it names.
func Load(customPath, gameID string) (VolleyConfig, error) {
	filename := gameID + ".yaml"

	// Custom path errors are reported; the user asked for that file explicitly
	if customPath != "" {
		cfg, err := loadFile(customPath, gameID)
		if err != nil {
			return cfg, err
		}
		return cfg, cfg.Validate()
	}

	candidates := []string{userConfigPath(filename), filepath.Join("configs", filename)}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		if cfg, err := loadFile(path, gameID); err == nil && cfg.Validate() == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg := DefaultFor(gameID)
	if data := GetDefaultYAML(gameID); data != nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return DefaultFor(gameID), nil // Fallback to hardcoded if embed is broken
		}
	}
	return cfg, nil
}

// loadFile decodes one YAML file over the variant defaults.
func loadFile(path, gameID string) (VolleyConfig, error) {
	cfg := DefaultFor(gameID)

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".volley", "configs", filename)
}
