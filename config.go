package psl

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when no config file exists in dir or any parent.
var ErrConfigNotFound = errors.New("psl config file not found")

// Config represents the .psl.yaml configuration file.
type Config struct {
	// Engine is the external validator/formatter used for diagnostics and formatting.
	Engine EngineConfig `yaml:"engine,omitempty"`

	// Log configures the language server's logger.
	Log LogConfig `yaml:"log,omitempty"`

	// Completion tunes completion suggestions.
	Completion CompletionConfig `yaml:"completion,omitempty"`
}

// EngineConfig describes how to invoke the external schema engine.
type EngineConfig struct {
	// Command is the executable, e.g. "prisma-fmt". Empty disables the engine.
	Command string `yaml:"command,omitempty"`

	// Args are passed before the subcommand ("lint" or "format").
	Args []string `yaml:"args,omitempty"`

	// Timeout bounds a single engine invocation. Zero means DefaultEngineTimeout.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is a zap level name: debug, info, warn or error.
	Level string `yaml:"level,omitempty"`
}

// CompletionConfig holds completion settings.
type CompletionConfig struct {
	// PreviewFeatures extends the built-in list of known preview features.
	PreviewFeatures []string `yaml:"previewFeatures,omitempty"`
}

// DefaultEngineTimeout applies when EngineConfig.Timeout is unset.
const DefaultEngineTimeout = 5 * time.Second

// DefaultConfigNames returns the filenames we search for, in priority order.
func DefaultConfigNames() []string {
	return []string{".psl.yaml", ".psl.yml", "psl.yaml", "psl.yml"}
}

// LoadConfig finds and loads the nearest config file walking up from dir.
func LoadConfig(dir string) (*Config, error) {
	path, err := FindConfig(dir)
	if err != nil {
		return nil, err
	}

	return LoadConfigFile(path)
}

// FindConfig searches for a config file starting from dir and walking up.
func FindConfig(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for dir := absDir; ; {
		for _, name := range DefaultConfigNames() {
			path := filepath.Join(dir, name)

			_, err := os.Stat(path)
			if err == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrConfigNotFound
		}

		dir = parent
	}
}

// LoadConfigFile loads a config from a specific path.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	var cfg Config

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

// EngineTimeout returns the configured engine timeout or the default.
func (c *Config) EngineTimeout() time.Duration {
	if c == nil || c.Engine.Timeout <= 0 {
		return DefaultEngineTimeout
	}

	return c.Engine.Timeout
}
