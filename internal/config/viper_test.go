package config

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeConfigDefaults(t *testing.T) {
	cfg, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, ",", cfg.CSV.Delimiter)
	assert.Equal(t, 0.5, cfg.Engine.ConfidenceThreshold)
	assert.Equal(t, "250", cfg.Engine.CountryCode)
	assert.Equal(t, "RWF", cfg.Engine.Currency)
	assert.Equal(t, 0, cfg.Engine.Workers)
	assert.Equal(t, "output", cfg.Output.Directory)
}

func TestInitializeConfigEnvOverrides(t *testing.T) {
	t.Setenv("MOMO_LOG_LEVEL", "debug")
	t.Setenv("MOMO_ENGINE_CONFIDENCE_THRESHOLD", "0.7")
	t.Setenv("MOMO_ENGINE_CURRENCY", "UGX")

	cfg, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 0.7, cfg.Engine.ConfidenceThreshold)
	assert.Equal(t, "UGX", cfg.Engine.Currency)
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		cfg, err := InitializeConfig()
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "verbose" }},
		{name: "bad log format", mutate: func(c *Config) { c.Log.Format = "xml" }},
		{name: "multi-char delimiter", mutate: func(c *Config) { c.CSV.Delimiter = ",," }},
		{name: "threshold above one", mutate: func(c *Config) { c.Engine.ConfidenceThreshold = 1.5 }},
		{name: "negative threshold", mutate: func(c *Config) { c.Engine.ConfidenceThreshold = -0.1 }},
		{name: "empty country code", mutate: func(c *Config) { c.Engine.CountryCode = "" }},
		{name: "non-digit country code", mutate: func(c *Config) { c.Engine.CountryCode = "+250" }},
		{name: "empty currency", mutate: func(c *Config) { c.Engine.Currency = "" }},
		{name: "negative workers", mutate: func(c *Config) { c.Engine.Workers = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, validateConfig(cfg))
		})
	}

	assert.NoError(t, validateConfig(valid()))
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	cfg, err := InitializeConfig()
	require.NoError(t, err)
	cfg.Log.Level = "debug"
	cfg.Log.Format = "json"

	logger := ConfigureLoggingFromConfig(cfg)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	_, isJSON := logger.Formatter.(*logrus.JSONFormatter)
	assert.True(t, isJSON)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("MOMO_TEST_KEY", "value")
	assert.Equal(t, "value", GetEnv("MOMO_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", GetEnv("MOMO_TEST_MISSING", "fallback"))
}
