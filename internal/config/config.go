// Package config loads the workbench configuration from a YAML file with
// flag/default fallbacks.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/quantdesk/quantdesk/pkg/errors"
)

// Config is the resolved workbench configuration.
type Config struct {
	// ServerURL is the base URL of the strategy lab backend.
	ServerURL string `validate:"required,url"`

	// PollInterval is the live paper-session refresh interval.
	PollInterval time.Duration `validate:"gt=0"`

	// HTTPTimeout bounds each lab API call.
	HTTPTimeout time.Duration `validate:"gt=0"`

	// FavoritesPath is where the starred-strategy set is persisted.
	FavoritesPath string `validate:"required"`
}

// fileConfig is the YAML shape of the config file. Durations are strings in
// time.ParseDuration format.
type fileConfig struct {
	ServerURL     string `yaml:"server_url"`
	PollInterval  string `yaml:"poll_interval"`
	HTTPTimeout   string `yaml:"http_timeout"`
	FavoritesPath string `yaml:"favorites_path"`
}

// Default returns the built-in configuration.
func Default() Config {
	favorites := "favorites.yaml"
	if home, err := os.UserHomeDir(); err == nil {
		favorites = filepath.Join(home, ".quantdesk", "favorites.yaml")
	}

	return Config{
		ServerURL:     "http://127.0.0.1:8000",
		PollInterval:  10 * time.Second,
		HTTPTimeout:   30 * time.Second,
		FavoritesPath: favorites,
	}
}

// Load reads the config file at path and merges it over the defaults.
// An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config file %s", path)
		}

		var file fileConfig
		if err := yaml.Unmarshal(data, &file); err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse config file", err)
		}

		if err := merge(&cfg, file); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func merge(cfg *Config, file fileConfig) error {
	if file.ServerURL != "" {
		cfg.ServerURL = file.ServerURL
	}

	if file.FavoritesPath != "" {
		cfg.FavoritesPath = file.FavoritesPath
	}

	if file.PollInterval != "" {
		interval, err := time.ParseDuration(file.PollInterval)
		if err != nil {
			return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid poll_interval %q", file.PollInterval)
		}

		cfg.PollInterval = interval
	}

	if file.HTTPTimeout != "" {
		timeout, err := time.ParseDuration(file.HTTPTimeout)
		if err != nil {
			return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid http_timeout %q", file.HTTPTimeout)
		}

		cfg.HTTPTimeout = timeout
	}

	return nil
}

// Validate checks the resolved configuration.
func (c Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid configuration", err)
	}

	return nil
}
