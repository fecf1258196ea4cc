package rig

import (
	"os"
	"strings"

	"github.com/xraph/go-utils/errs"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Settings configures a container from YAML.
//
//	policy: last-registered
//	log_level: debug
//	development: true
//	default_component_scope: single
type Settings struct {
	Policy                string `yaml:"policy"`
	LogLevel              string `yaml:"log_level"`
	Development           bool   `yaml:"development"`
	DefaultComponentScope string `yaml:"default_component_scope"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Policy:                string(PolicyFirstMatch),
		LogLevel:              "info",
		DefaultComponentScope: string(ScopeSingle),
	}
}

// ParseSettings decodes YAML over DefaultSettings and validates the result.
func ParseSettings(data []byte) (Settings, error) {
	s := DefaultSettings()

	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, errs.NewError(CodeInvalidSetting, "could not parse settings", err)
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}

	return s, nil
}

// LoadSettings reads and parses a YAML settings file.
func LoadSettings(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, errs.NewError(CodeInvalidSetting, "could not read settings file", err).
			WithContext("path", path).(*errs.Error)
	}

	return ParseSettings(data)
}

// Validate checks every field and reports all invalid ones.
func (s Settings) Validate() error {
	var err error

	if _, policyErr := ParsePolicy(s.Policy); policyErr != nil {
		err = multierr.Append(err, policyErr)
	}

	if _, levelErr := s.level(); levelErr != nil {
		err = multierr.Append(err, levelErr)
	}

	if _, scopeErr := ParseScope(s.DefaultComponentScope); scopeErr != nil {
		err = multierr.Append(err, ErrInvalidSetting("default_component_scope", s.DefaultComponentScope))
	}

	return err
}

// Logger builds the zap logger described by the settings.
func (s Settings) Logger() (*zap.Logger, error) {
	level, err := s.level()
	if err != nil {
		return nil, err
	}

	config := zap.NewProductionConfig()
	if s.Development {
		config = zap.NewDevelopmentConfig()
	}

	config.Level = zap.NewAtomicLevelAt(level)

	return config.Build()
}

// Options returns the container options described by the settings.
func (s Settings) Options() ([]Option, error) {
	policy, err := ParsePolicy(s.Policy)
	if err != nil {
		return nil, err
	}

	logger, err := s.Logger()
	if err != nil {
		return nil, err
	}

	return []Option{WithPolicy(policy), WithLogger(logger)}, nil
}

// BuilderOptions returns the definition options described by the settings.
func (s Settings) BuilderOptions() ([]BuilderOption, error) {
	scope, err := ParseScope(s.DefaultComponentScope)
	if err != nil {
		return nil, ErrInvalidSetting("default_component_scope", s.DefaultComponentScope)
	}

	return []BuilderOption{WithDefaultScope(scope)}, nil
}

func (s Settings) level() (zapcore.Level, error) {
	text := strings.ToLower(s.LogLevel)
	if text == "warning" {
		text = "warn"
	}

	level, err := zapcore.ParseLevel(text)
	if err != nil {
		return zapcore.InfoLevel, ErrInvalidSetting("log_level", s.LogLevel)
	}

	return level, nil
}
