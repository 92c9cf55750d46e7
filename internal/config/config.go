package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultListenAddr = ":3000"
	DefaultBaseURL    = "https://api.wandb.ai"
)

// Duration is a time.Duration that unmarshals from yaml strings like "10m".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return errors.Wrapf(err, "invalid duration %q", raw)
	}
	*d = Duration(parsed)
	return nil
}

// Backend holds the tracking backend's connection parameters.
type Backend struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

// Config is the agent configuration. It implements ports.Settings for the
// command composer.
type Config struct {
	ListenAddr   string   `yaml:"listen_addr"`
	Backend      Backend  `yaml:"backend"`
	BuildTimeout Duration `yaml:"build_timeout"`
}

// Default returns a config with all defaults applied.
func Default() *Config {
	return &Config{
		ListenAddr: DefaultListenAddr,
		Backend:    Backend{BaseURL: DefaultBaseURL},
	}
}

// Load reads the yaml config at path on top of the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultListenAddr
	}
	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = DefaultBaseURL
	}
	return cfg, nil
}

// BaseURL implements ports.Settings.
func (c *Config) BaseURL() string {
	return c.Backend.BaseURL
}

// APIKey implements ports.Settings. The WANDB_API_KEY environment variable
// takes priority over the config file so keys stay out of checked-in files.
func (c *Config) APIKey() string {
	if key := os.Getenv("WANDB_API_KEY"); key != "" {
		return key
	}
	return c.Backend.APIKey
}
