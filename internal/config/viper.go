// Package config provides Viper-based hierarchical configuration:
// defaults, then an optional config file, then MOMO_-prefixed environment
// variables.
package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"momo-etl/internal/parsererror"
)

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Engine struct {
		ConfidenceThreshold float64 `mapstructure:"confidence_threshold" yaml:"confidence_threshold"`
		CountryCode         string  `mapstructure:"country_code" yaml:"country_code"`
		Currency            string  `mapstructure:"currency" yaml:"currency"`
		Workers             int     `mapstructure:"workers" yaml:"workers"`
	} `mapstructure:"engine" yaml:"engine"`

	Templates struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"templates" yaml:"templates"`

	Output struct {
		Directory string `mapstructure:"directory" yaml:"directory"`
	} `mapstructure:"output" yaml:"output"`
}

// InitializeConfig loads the configuration hierarchy.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.momo-etl")
	v.AddConfigPath(".momo-etl")
	v.AddConfigPath(".")

	v.SetEnvPrefix("MOMO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// A malformed config file is worth a warning but never blocks the
			// run; defaults and environment variables still apply.
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("engine.confidence_threshold", 0.5)
	v.SetDefault("engine.country_code", "250")
	v.SetDefault("engine.currency", "RWF")
	v.SetDefault("engine.workers", 0)

	v.SetDefault("templates.file", "")

	v.SetDefault("output.directory", "output")
}

func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return &parsererror.ConfigError{Key: "log.level", Reason: "unknown level " + config.Log.Level}
	}
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return &parsererror.ConfigError{Key: "log.format", Reason: "must be 'text' or 'json', got " + config.Log.Format}
	}
	if len(config.CSV.Delimiter) != 1 {
		return &parsererror.ConfigError{Key: "csv.delimiter", Reason: "must be a single character, got " + config.CSV.Delimiter}
	}
	if config.Engine.ConfidenceThreshold < 0.0 || config.Engine.ConfidenceThreshold > 1.0 {
		return &parsererror.ConfigError{
			Key:    "engine.confidence_threshold",
			Reason: fmt.Sprintf("must be between 0.0 and 1.0, got %f", config.Engine.ConfidenceThreshold),
		}
	}
	if config.Engine.CountryCode == "" {
		return &parsererror.ConfigError{Key: "engine.country_code", Reason: "must not be empty"}
	}
	for _, r := range config.Engine.CountryCode {
		if r < '0' || r > '9' {
			return &parsererror.ConfigError{Key: "engine.country_code", Reason: "must be digits, got " + config.Engine.CountryCode}
		}
	}
	if config.Engine.Currency == "" {
		return &parsererror.ConfigError{Key: "engine.currency", Reason: "must not be empty"}
	}
	if config.Engine.Workers < 0 {
		return &parsererror.ConfigError{Key: "engine.workers", Reason: fmt.Sprintf("must not be negative, got %d", config.Engine.Workers)}
	}
	return nil
}

// ConfigureLoggingFromConfig builds a logrus logger from the Config.
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
