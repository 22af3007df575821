package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/costajob/image-augmenter/pkg/dataset"
)

// Config holds user defaults loaded from the TOML config file at
// ~/.config/imgpack/config.toml (or $XDG_CONFIG_HOME/imgpack/config.toml).
// Zero values mean "unset": command-line flags and the pipeline defaults
// take over.
type Config struct {
	Size          int     `toml:"size"`
	Canvas        string  `toml:"canvas"`
	Cutoff        float64 `toml:"cutoff"`
	ShiftAxis     string  `toml:"shift_axis"`
	RankKind      string  `toml:"rank_kind"`
	BatchCapacity int     `toml:"batch_capacity"`
	LabelDigits   int     `toml:"label_digits"`
	Output        string  `toml:"output"`
	RedisAddr     string  `toml:"redis_addr"`
}

// configPath returns the config file location using the XDG standard.
func configPath() (string, error) {
	if cfgHome := os.Getenv("XDG_CONFIG_HOME"); cfgHome != "" {
		return filepath.Join(cfgHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// LoadConfig parses the TOML config file at path.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigOrDefault loads the user config, falling back to an empty
// Config when the file is missing or malformed. A broken config never
// blocks the CLI; flags still work.
func LoadConfigOrDefault() *Config {
	path, err := configPath()
	if err != nil {
		return &Config{}
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return &Config{}
	}
	return cfg
}

// Options returns a dataset.Options seeded with the configured defaults.
// Commands layer flag values on top before validation.
//
// A missing cutoff key decodes to zero, which the pipeline treats as
// skip-augmentation, so the full-catalog default is applied here; users
// wanting identity-only runs pass --cutoff 0 explicitly.
func (c *Config) Options() dataset.Options {
	cutoff := c.Cutoff
	if cutoff == 0 {
		cutoff = dataset.DefaultCutoff
	}
	return dataset.Options{
		OutputDir:     c.Output,
		Size:          c.Size,
		Canvas:        c.Canvas,
		Cutoff:        cutoff,
		ShiftAxis:     c.ShiftAxis,
		RankKind:      c.RankKind,
		BatchCapacity: c.BatchCapacity,
		LabelDigits:   c.LabelDigits,
	}
}
