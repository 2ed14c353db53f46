package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config is the application configuration. Values are layered: built-in
// defaults, then the YAML config file, then WORDUP_* environment variables,
// then command-line flags.
type Config struct {
	DBPath       string `koanf:"db_path" validate:"required"`
	GlossaryPath string `koanf:"glossary_path"`
	GitSource    string `koanf:"git_source"`
	ReposDir     string `koanf:"repos_dir"`

	DeckID        int64 `koanf:"deck_id" validate:"min=1"`
	DailyNewLimit int   `koanf:"daily_new_limit" validate:"min=0"`

	LearnAheadMinutes int  `koanf:"learn_ahead_minutes" validate:"min=0"`
	LearnAhead        bool `koanf:"learn_ahead"`

	DesiredRetention float64 `koanf:"desired_retention" validate:"gt=0,lte=1"`
	MaximumInterval  int     `koanf:"maximum_interval" validate:"min=1"`
	DisableFuzzing   bool    `koanf:"disable_fuzzing"`

	Listen string `koanf:"listen" validate:"required"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DBPath:            "wordup.db",
		GlossaryPath:      "B1-Glossary.csv",
		ReposDir:          "repos",
		DeckID:            1,
		DailyNewLimit:     200,
		LearnAheadMinutes: 60,
		LearnAhead:        true,
		DesiredRetention:  0.9,
		MaximumInterval:   36500,
		Listen:            "localhost:8484",
	}
}

// Load builds the configuration from the file at path (skipped when the
// file doesn't exist), the environment, and the given flag set, then
// validates the result.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	cfg := Default()
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return Config{}, fmt.Errorf("loading config file %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider("WORDUP_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "WORDUP_"))
	}), nil); err != nil {
		return Config{}, fmt.Errorf("loading environment: %w", err)
	}

	// Flag names match the koanf keys, so unchanged flags never shadow
	// file or environment values.
	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return Config{}, fmt.Errorf("loading flags: %w", err)
		}
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
