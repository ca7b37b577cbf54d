// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Game GameConfig `toml:"game"`
}

// GameConfig maps game-related settings. Nil fields are unset.
type GameConfig struct {
	Mode       *string `toml:"mode"`
	Range      *int    `toml:"range"`
	RangeMin   *int    `toml:"range-min"`
	RangeMax   *int    `toml:"range-max"`
	Questions  *int    `toml:"questions"`
	Difficulty *string `toml:"difficulty"`
	Bonus      *bool   `toml:"bonus"`
	Moving     *bool   `toml:"moving"`
	Seed       *int64  `toml:"seed"`
	FocusWeak  *bool   `toml:"focus-weak"`
	WeakWindow *int    `toml:"weak-window"`
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
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
