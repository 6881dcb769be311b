// Package cli holds the companion command-line tool's support code: its TOML
// configuration, the local workout history and the terminal renderer.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file. Every value is a pointer
// so that an absent key can be told apart from a zero value.
type FileConfig struct {
	Profile ProfileConfig `toml:"profile"`
	Gemini  GeminiConfig  `toml:"gemini"`
	Server  ServerConfig  `toml:"server"`
}

// ProfileConfig maps the training preferences used for local generation.
type ProfileConfig struct {
	Split              *string  `toml:"split"`
	Override           *string  `toml:"override"`
	Difficulty         *string  `toml:"difficulty"`
	Machines           []string `toml:"machines"`
	RepsStyle          *string  `toml:"reps-style"`
	RepsMin            *int     `toml:"reps-min"`
	RepsMax            *int     `toml:"reps-max"`
	ExercisesPerMuscle *string  `toml:"exercises-per-muscle"`
	SetsPerExercise    *string  `toml:"sets-per-exercise"`
	RestSeconds        *string  `toml:"rest-seconds"`
	IncludeBodyweight  *bool    `toml:"include-bodyweight"`
	FocusedMuscle      *string  `toml:"focused-muscle"`
}

// GeminiConfig maps the generation API settings.
type GeminiConfig struct {
	APIKey  *string `toml:"api-key"`
	Model   *string `toml:"model"`
	BaseURL *string `toml:"base-url"`
}

// ServerConfig points the mcp command at a running MomentumX server.
type ServerConfig struct {
	URL   *string `toml:"url"`
	Token *string `toml:"token"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// WriteDefaultConfig creates the config file with a commented template unless
// it already exists. It reports whether a file was written.
func WriteDefaultConfig(path string) (bool, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigTemplate), 0o600); err != nil {
		return false, fmt.Errorf("failed to write config: %w", err)
	}
	return true, nil
}

const defaultConfigTemplate = `# momentumx-cli configuration
# Uncomment a value to enable it. CLI flags override config values.

[profile]
# split = "upper-lower"          # upper-lower, push-pull-legs, full-body, bro-split
# override = "auto"              # auto or a fixed day such as "push" or "full-body"
# difficulty = "intermediate"    # beginner, intermediate, advanced
# machines = ["Dumbbells", "Cable Machine", "Leg Press"]
# reps-style = "auto"            # auto, strength, hypertrophy, endurance, power, custom
# reps-min = 8
# reps-max = 12
# exercises-per-muscle = "auto"
# sets-per-exercise = "auto"
# rest-seconds = "auto"
# include-bodyweight = true
# focused-muscle = "none"

[gemini]
# api-key = ""
# model = "gemini-1.5-flash-latest"
# base-url = "https://generativelanguage.googleapis.com/v1beta"

[server]
# url = "http://localhost:8000"
# token = ""                     # JWT from POST /api/auth/login
`

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), "momentumx", "config.toml")
}

// DefaultDBPath returns the default path for the history database.
func DefaultDBPath() string {
	return filepath.Join(XDGDataHome(), "momentumx", "history.db")
}
