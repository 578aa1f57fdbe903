package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)

	assert.Equal(t, "development", c.Environment)
	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, 10*time.Second, c.Server.ReadTimeout)
	assert.Equal(t, "info", c.Logger.Level)
	assert.True(t, c.Metrics.Enabled)
	assert.Equal(t, int64(42), c.Generator.Seed)
	assert.Equal(t, 180, c.Generator.Days)
	assert.Equal(t, 100.0, c.Generator.InitialPrice)
	assert.Equal(t, 0.0002, c.Generator.Drift)
	assert.Equal(t, 0.02, c.Generator.Volatility)
	assert.Equal(t, 0.02, c.Analytics.RiskFreeRate)
	assert.True(t, c.Remote.Enabled)
	assert.Equal(t, 5*time.Second, c.Delegate.Timeout)
	assert.Equal(t, "", c.Delegate.Command)
	assert.True(t, c.RateLimit.Enabled)
}

func TestLoadOverridesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	raw := `
environment: production
server:
  port: 9000
  read_timeout: 5s
logger:
  level: debug
metrics:
  enabled: false
generator:
  seed: 7
  days: 30
  volatility: 0
delegate:
  command: /opt/tools/analytics.exe
  timeout: 2s
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "production", c.Environment)
	assert.Equal(t, 9000, c.Server.Port)
	assert.Equal(t, 5*time.Second, c.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, c.Server.WriteTimeout, "unset fields keep defaults")
	assert.Equal(t, "debug", c.Logger.Level)
	assert.False(t, c.Metrics.Enabled, "explicit false must win over the default")
	assert.Equal(t, int64(7), c.Generator.Seed)
	assert.Equal(t, 30, c.Generator.Days)
	assert.Equal(t, 0.0, c.Generator.Volatility, "explicit zero must win over the default")
	assert.Equal(t, "/opt/tools/analytics.exe", c.Delegate.Command)
	assert.Equal(t, 2*time.Second, c.Delegate.Timeout)
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9100")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("GENERATOR_SEED", "99")
	t.Setenv("DELEGATE_COMMAND", "/usr/local/bin/checker")

	c, err := LoadWithEnv("")
	require.NoError(t, err)

	assert.Equal(t, 9100, c.Server.Port)
	assert.Equal(t, "warn", c.Logger.Level)
	assert.Equal(t, int64(99), c.Generator.Seed)
	assert.Equal(t, "/usr/local/bin/checker", c.Delegate.Command)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"zero seed", func(c *Config) { c.Generator.Seed = 0 }},
		{"negative days", func(c *Config) { c.Generator.Days = -1 }},
		{"zero initial price", func(c *Config) { c.Generator.InitialPrice = 0 }},
		{"negative volatility", func(c *Config) { c.Generator.Volatility = -0.1 }},
		{"rate limit without rps", func(c *Config) { c.RateLimit.RPS = 0 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, err := Load("")
			require.NoError(t, err)
			tc.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}
