package app

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/loomwork/loomlint/internal/rules"
)

// DefaultSettingsFile is the settings file looked up in the working
// directory when no --config flag is given.
const DefaultSettingsFile = ".loomlint.yaml"

const (
	envLogLevel  = "LOOMLINT_LOG_LEVEL"
	envLogFormat = "LOOMLINT_LOG_FORMAT"
)

// Settings is the on-disk configuration of the tool.
type Settings struct {
	Log           LogSettings  `yaml:"log"`
	RegistryPaths []string     `yaml:"registry_paths"`
	Rules         RuleSettings `yaml:"rules"`
}

// LogSettings configures the logger the app builds at startup.
type LogSettings struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// RuleSettings overrides the rule-pass defaults. Zero values mean "keep
// the default"; an explicitly empty list is an override.
type RuleSettings struct {
	MaxIterationsHighWater int      `yaml:"max_iterations_high_water"`
	CommonFieldNames       []string `yaml:"common_field_names"`
	HeavyModules           []string `yaml:"heavy_modules"`
}

// DefaultSettings returns the shipping defaults.
func DefaultSettings() Settings {
	rc := rules.DefaultConfig()
	return Settings{
		Log: LogSettings{Level: "info", Format: "text"},
		Rules: RuleSettings{
			MaxIterationsHighWater: rc.MaxIterationsHighWater,
			CommonFieldNames:       rc.CommonFieldNames,
			HeavyModules:           rc.HeavyModules,
		},
	}
}

// LoadSettings reads the settings file at path, or DefaultSettingsFile
// in the working directory when path is empty. A missing default file
// falls back to DefaultSettings; a missing explicit file is an error.
// LOOMLINT_LOG_* environment variables override the log settings either
// way.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	explicit := path != ""
	if !explicit {
		path = DefaultSettingsFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("failed to parse settings file %s: %w", path, err)
		}
	case !explicit && errors.Is(err, os.ErrNotExist):
		// Running without a settings file is the common case.
	default:
		return Settings{}, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	if v := os.Getenv(envLogLevel); v != "" {
		s.Log.Level = v
	}
	if v := os.Getenv(envLogFormat); v != "" {
		s.Log.Format = v
	}
	return s, nil
}

// RuleConfig translates the settings into the rule-pass configuration.
func (s Settings) RuleConfig() rules.Config {
	cfg := rules.DefaultConfig()
	if s.Rules.MaxIterationsHighWater > 0 {
		cfg.MaxIterationsHighWater = s.Rules.MaxIterationsHighWater
	}
	if s.Rules.CommonFieldNames != nil {
		cfg.CommonFieldNames = s.Rules.CommonFieldNames
	}
	if s.Rules.HeavyModules != nil {
		cfg.HeavyModules = s.Rules.HeavyModules
	}
	return cfg
}
