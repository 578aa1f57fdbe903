package config

import (
	"fmt"
	"os"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"

	"MarketLens/pkg/util"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`
	Logger struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"logger"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Generator struct {
		Seed         int64   `yaml:"seed" default:"42"`
		Days         int     `yaml:"days" default:"180"`
		InitialPrice float64 `yaml:"initial_price" default:"100"`
		Drift        float64 `yaml:"drift" default:"0.0002"`
		Volatility   float64 `yaml:"volatility" default:"0.02"`
	} `yaml:"generator"`
	Analytics struct {
		RiskFreeRate float64 `yaml:"risk_free_rate" default:"0.02"`
	} `yaml:"analytics"`
	Remote struct {
		Enabled   bool              `yaml:"enabled" default:"true"`
		BaseURL   string            `yaml:"base_url" default:"https://query1.finance.yahoo.com"`
		Timeout   time.Duration     `yaml:"timeout" default:"10s"`
		SymbolMap map[string]string `yaml:"symbol_map"`
	} `yaml:"remote"`
	Delegate struct {
		Command     string        `yaml:"command"`
		ScratchFile string        `yaml:"scratch_file"`
		Timeout     time.Duration `yaml:"timeout" default:"5s"`
	} `yaml:"delegate"`
	RateLimit struct {
		Enabled bool    `yaml:"enabled" default:"true"`
		RPS     float64 `yaml:"rps" default:"20"`
		Burst   int     `yaml:"burst" default:"40"`
	} `yaml:"rate_limit"`
}

// Load builds the configuration from defaults overlaid with the YAML file
// at path. An empty or missing path runs entirely on defaults, so the
// binaries work out of the box. Defaults are applied before the file is
// parsed, which keeps explicit zero and false values in the file effective.
func Load(path string) (*Config, error) {
	c := &Config{}
	if err := defaults.Set(c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// run on defaults
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(b, c); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("ENVIRONMENT"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = util.ParseIntDefault(v, c.Server.Port)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logger.Level = v
	}
	if v := os.Getenv("GENERATOR_SEED"); v != "" {
		c.Generator.Seed = util.ParseInt64Default(v, c.Generator.Seed)
	}
	if v := os.Getenv("REMOTE_BASE_URL"); v != "" {
		c.Remote.BaseURL = v
	}
	if v := os.Getenv("DELEGATE_COMMAND"); v != "" {
		c.Delegate.Command = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in (0, 65535], got %d", c.Server.Port)
	}
	if c.Generator.Seed < 1 {
		return fmt.Errorf("generator.seed must be >= 1, got %d", c.Generator.Seed)
	}
	if c.Generator.Days <= 0 {
		return fmt.Errorf("generator.days must be positive, got %d", c.Generator.Days)
	}
	if c.Generator.InitialPrice <= 0 {
		return fmt.Errorf("generator.initial_price must be positive, got %g", c.Generator.InitialPrice)
	}
	if c.Generator.Volatility < 0 {
		return fmt.Errorf("generator.volatility must be non-negative, got %g", c.Generator.Volatility)
	}
	if c.RateLimit.Enabled && c.RateLimit.RPS <= 0 {
		return fmt.Errorf("rate_limit.rps must be positive, got %g", c.RateLimit.RPS)
	}
	return nil
}
