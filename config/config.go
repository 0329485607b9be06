package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/songpengyi/enertalk-alwayson-calculator/core/baseline"
	"github.com/songpengyi/enertalk-alwayson-calculator/core/factory"
	"github.com/songpengyi/enertalk-alwayson-calculator/core/metrics"
)

// EnvPrefix marks environment overrides. ALWAYSON_SERVER__ADDRESS sets
// server.address.
const EnvPrefix = "ALWAYSON_"

type Config struct {
	Provider   factory.ModuleConfig `json:"provider"`
	Calculator CalculatorConfig     `json:"calculator"`
	Metrics    metrics.Config       `json:"metrics"`
	Server     ServerConfig         `json:"server"`
	Logging    LoggingConfig        `json:"logging"`
	Sentry     SentryConfig         `json:"sentry"`
}

// Load reads the file at path, applies environment overrides, fills defaults
// and validates the result. An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("%w: unsupported config format: %s", baseline.ErrConfiguration, ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}
	// Optional environment overrides
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("%w: %w", baseline.ErrConfiguration, err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults fills every section.
func (c *Config) SetDefaults() {
	if c.Provider.Type == "" {
		c.Provider.Type = "enertalk"
	}
	c.Calculator.SetDefaults()
	c.Server.SetDefaults()
	c.Logging.SetDefaults()
}

// Validate checks every section and wraps failures with ErrConfiguration.
func (c Config) Validate() error {
	if err := c.Calculator.Validate(); err != nil {
		return fmt.Errorf("%w: calculator: %w", baseline.ErrConfiguration, err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("%w: server: %w", baseline.ErrConfiguration, err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("%w: logging: %w", baseline.ErrConfiguration, err)
	}
	return nil
}
