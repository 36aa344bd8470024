// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"fjacquet/invoice-summaries/internal/summary"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override, e.g. INVOICE_AI_MODEL.
const EnvPrefix = "INVOICE"

// Config represents the complete application configuration
type Config struct {
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
	AI     AIConfig     `mapstructure:"ai" yaml:"ai"`
	Export ExportConfig `mapstructure:"export" yaml:"export"`
	Server ServerConfig `mapstructure:"server" yaml:"server"`
	Input  InputConfig  `mapstructure:"input" yaml:"input"`
}

// LogConfig controls the logrus adapter.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// AIConfig selects the text-generation provider.
type AIConfig struct {
	Provider       string `mapstructure:"provider" yaml:"provider"`
	Model          string `mapstructure:"model" yaml:"model"`
	MaxTokens      int    `mapstructure:"max_tokens" yaml:"max_tokens"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	Concurrency    int    `mapstructure:"concurrency" yaml:"concurrency"`
	BaseURL        string `mapstructure:"base_url" yaml:"base_url,omitempty"`
	APIKey         string `mapstructure:"api_key" yaml:"-"` // Never serialize API key
}

// ExportConfig controls the generated CSV.
type ExportConfig struct {
	FileName  string `mapstructure:"file_name" yaml:"file_name"`
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
}

// ServerConfig controls the HTTP upload surface.
type ServerConfig struct {
	Addr           string `mapstructure:"addr" yaml:"addr"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes" yaml:"max_upload_bytes"`
}

// InputConfig bounds what a single upload may contain.
type InputConfig struct {
	MaxRows int `mapstructure:"max_rows" yaml:"max_rows"`
}

// Load builds the configuration from defaults, an optional config file, and
// environment variables, in increasing order of precedence. When configFile
// is empty the standard locations are searched.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.invoice-summaries")
		v.AddConfigPath(".invoice-summaries")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless given explicitly)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	if err := v.BindEnv("ai.api_key", EnvPrefix+"_AI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind %s_AI_API_KEY: %w", EnvPrefix, err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.AI.Provider = strings.ToLower(strings.TrimSpace(config.AI.Provider))

	// 5. Model and key default per provider
	if strings.TrimSpace(config.AI.Model) == "" {
		config.AI.Model = providerModel(config.AI.Provider)
	}
	if config.AI.APIKey == "" {
		config.AI.APIKey = providerAPIKey(config.AI.Provider)
	}

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("ai.provider", "openai")
	// empty so INVOICE_AI_MODEL is still picked up; filled per provider
	v.SetDefault("ai.model", "")
	v.SetDefault("ai.max_tokens", 25)
	v.SetDefault("ai.timeout_seconds", 30)
	v.SetDefault("ai.concurrency", 1)
	v.SetDefault("ai.base_url", "")

	v.SetDefault("export.file_name", "invoice_with_ai_summaries.csv")
	v.SetDefault("export.delimiter", ",")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.max_upload_bytes", 10<<20)

	v.SetDefault("input.max_rows", 10000)
}

func providerModel(provider string) string {
	switch provider {
	case "gemini":
		return summary.DefaultGeminiModel
	case "openai":
		return summary.DefaultOpenAIModel
	default:
		return ""
	}
}

func providerAPIKey(provider string) string {
	switch provider {
	case "gemini":
		return GetEnv("GEMINI_API_KEY", "")
	default:
		return GetEnv("OPENAI_API_KEY", "")
	}
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if utf8.RuneCountInString(config.Export.Delimiter) != 1 {
		return fmt.Errorf("export delimiter must be a single character, got: %q", config.Export.Delimiter)
	}
	switch config.Export.Delimiter {
	case "\"", "\r", "\n":
		return fmt.Errorf("export delimiter %q is not allowed", config.Export.Delimiter)
	}

	if strings.TrimSpace(config.Export.FileName) == "" {
		return fmt.Errorf("export.file_name must not be empty")
	}

	switch config.AI.Provider {
	case "openai", "gemini":
	default:
		return fmt.Errorf("unknown ai.provider: %s (must be 'openai' or 'gemini')", config.AI.Provider)
	}

	if strings.TrimSpace(config.AI.Model) == "" {
		return fmt.Errorf("ai.model must not be empty")
	}

	if config.AI.MaxTokens < 1 || config.AI.MaxTokens > 4096 {
		return fmt.Errorf("ai.max_tokens must be between 1 and 4096, got: %d", config.AI.MaxTokens)
	}

	if config.AI.TimeoutSeconds < 1 || config.AI.TimeoutSeconds > 300 {
		return fmt.Errorf("ai.timeout_seconds must be between 1 and 300, got: %d", config.AI.TimeoutSeconds)
	}

	if config.AI.Concurrency < 1 || config.AI.Concurrency > 32 {
		return fmt.Errorf("ai.concurrency must be between 1 and 32, got: %d", config.AI.Concurrency)
	}

	if config.Server.MaxUploadBytes < 1 {
		return fmt.Errorf("server.max_upload_bytes must be positive, got: %d", config.Server.MaxUploadBytes)
	}

	if config.Input.MaxRows < 1 {
		return fmt.Errorf("input.max_rows must be positive, got: %d", config.Input.MaxRows)
	}

	return nil
}

// DelimiterRune returns the export delimiter as a rune.
func (c *Config) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Export.Delimiter)
	if r == utf8.RuneError {
		return ','
	}
	return r
}

// ToYAML renders the configuration. The API key is never included.
func (c *Config) ToYAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return out, nil
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
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
