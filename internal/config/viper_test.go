package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// isolate runs the test from an empty directory with a clean environment.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Chdir(dir)
	clearTestEnvVars(t)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	config, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, "openai", config.AI.Provider)
	assert.Equal(t, "gpt-3.5-turbo", config.AI.Model)
	assert.Equal(t, 25, config.AI.MaxTokens)
	assert.Equal(t, 30, config.AI.TimeoutSeconds)
	assert.Equal(t, 1, config.AI.Concurrency)
	assert.Empty(t, config.AI.BaseURL)
	assert.Empty(t, config.AI.APIKey)
	assert.Equal(t, "invoice_with_ai_summaries.csv", config.Export.FileName)
	assert.Equal(t, ",", config.Export.Delimiter)
	assert.Equal(t, ":8080", config.Server.Addr)
	assert.Equal(t, int64(10<<20), config.Server.MaxUploadBytes)
	assert.Equal(t, 10000, config.Input.MaxRows)
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	isolate(t)

	testEnvVars := map[string]string{
		"INVOICE_LOG_LEVEL":          "debug",
		"INVOICE_LOG_FORMAT":         "json",
		"INVOICE_EXPORT_DELIMITER":   ";",
		"INVOICE_AI_MODEL":           "gpt-4o-mini",
		"INVOICE_AI_CONCURRENCY":     "4",
		"INVOICE_SERVER_ADDR":        "127.0.0.1:9090",
		"INVOICE_INPUT_MAX_ROWS":     "50",
		"INVOICE_AI_TIMEOUT_SECONDS": "5",
		"OPENAI_API_KEY":             "test-api-key",
	}
	for key, value := range testEnvVars {
		t.Setenv(key, value)
	}

	config, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, ";", config.Export.Delimiter)
	assert.Equal(t, ';', config.DelimiterRune())
	assert.Equal(t, "gpt-4o-mini", config.AI.Model)
	assert.Equal(t, 4, config.AI.Concurrency)
	assert.Equal(t, 5, config.AI.TimeoutSeconds)
	assert.Equal(t, "127.0.0.1:9090", config.Server.Addr)
	assert.Equal(t, 50, config.Input.MaxRows)
	assert.Equal(t, "test-api-key", config.AI.APIKey)
}

func TestLoad_APIKeyFollowsProvider(t *testing.T) {
	isolate(t)
	t.Setenv("OPENAI_API_KEY", "openai-key")
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("INVOICE_AI_PROVIDER", "Gemini")
	t.Setenv("INVOICE_AI_MODEL", "gemini-2.0-flash")

	config, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "gemini", config.AI.Provider)
	assert.Equal(t, "gemini-key", config.AI.APIKey)
}

func TestLoad_ModelFollowsProvider(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		model    string
		want     string
	}{
		{"openai default", "openai", "", "gpt-3.5-turbo"},
		{"gemini default", "gemini", "", "gemini-2.0-flash"},
		{"gemini explicit model", "gemini", "gemini-1.5-pro", "gemini-1.5-pro"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv("INVOICE_AI_PROVIDER", tt.provider)
			t.Setenv("GEMINI_API_KEY", "k")
			if tt.model != "" {
				t.Setenv("INVOICE_AI_MODEL", tt.model)
			}

			config, err := Load("")
			require.NoError(t, err)
			assert.Equal(t, tt.want, config.AI.Model)
		})
	}
}

func TestLoad_PrefixedAPIKeyWins(t *testing.T) {
	isolate(t)
	t.Setenv("OPENAI_API_KEY", "openai-key")
	t.Setenv("INVOICE_AI_API_KEY", "prefixed-key")

	config, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "prefixed-key", config.AI.APIKey)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := isolate(t)

	configContent := `
log:
  level: "warn"
  format: "json"
ai:
  model: "gpt-4o-mini"
  max_tokens: 40
export:
  file_name: "summaries.csv"
  delimiter: "|"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(configContent), 0600))

	config, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, "gpt-4o-mini", config.AI.Model)
	assert.Equal(t, 40, config.AI.MaxTokens)
	assert.Equal(t, "summaries.csv", config.Export.FileName)
	assert.Equal(t, "|", config.Export.Delimiter)
	assert.Equal(t, 1, config.AI.Concurrency)
}

func TestLoad_ExplicitFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ai:\n  concurrency: 3\n"), 0600))

	config, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, config.AI.Concurrency)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_HierarchicalPrecedence(t *testing.T) {
	dir := isolate(t)

	configContent := `
log:
  level: "warn"
export:
  delimiter: "|"
ai:
  max_tokens: 40
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(configContent), 0600))

	t.Setenv("INVOICE_LOG_LEVEL", "error")
	t.Setenv("INVOICE_AI_MAX_TOKENS", "60")

	config, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "error", config.Log.Level)    // env var wins
	assert.Equal(t, "|", config.Export.Delimiter) // config file value
	assert.Equal(t, 60, config.AI.MaxTokens)      // env var wins
}

func TestLoad_InvalidEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("INVOICE_AI_PROVIDER", "mystery")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
	assert.Contains(t, err.Error(), "unknown ai.provider")
}

func validConfig() *Config {
	return &Config{
		Log:    LogConfig{Level: "info", Format: "text"},
		AI:     AIConfig{Provider: "openai", Model: "gpt-3.5-turbo", MaxTokens: 25, TimeoutSeconds: 30, Concurrency: 1},
		Export: ExportConfig{FileName: "out.csv", Delimiter: ","},
		Server: ServerConfig{Addr: ":8080", MaxUploadBytes: 1024},
		Input:  InputConfig{MaxRows: 10},
	}
}

func TestValidateConfig_Valid(t *testing.T) {
	assert.NoError(t, validateConfig(validConfig()))
}

func TestValidateConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name         string
		modifyConfig func(*Config)
		expectError  string
	}{
		{"invalid log level", func(c *Config) { c.Log.Level = "invalid" }, "invalid log level"},
		{"invalid log format", func(c *Config) { c.Log.Format = "xml" }, "invalid log format"},
		{"multi-char delimiter", func(c *Config) { c.Export.Delimiter = "abc" }, "export delimiter must be a single character"},
		{"empty delimiter", func(c *Config) { c.Export.Delimiter = "" }, "export delimiter must be a single character"},
		{"quote delimiter", func(c *Config) { c.Export.Delimiter = "\"" }, "is not allowed"},
		{"empty file name", func(c *Config) { c.Export.FileName = " " }, "export.file_name must not be empty"},
		{"unknown provider", func(c *Config) { c.AI.Provider = "other" }, "unknown ai.provider"},
		{"empty model", func(c *Config) { c.AI.Model = "" }, "ai.model must not be empty"},
		{"zero max tokens", func(c *Config) { c.AI.MaxTokens = 0 }, "ai.max_tokens must be between 1 and 4096"},
		{"zero timeout", func(c *Config) { c.AI.TimeoutSeconds = 0 }, "ai.timeout_seconds must be between 1 and 300"},
		{"too much concurrency", func(c *Config) { c.AI.Concurrency = 64 }, "ai.concurrency must be between 1 and 32"},
		{"zero upload size", func(c *Config) { c.Server.MaxUploadBytes = 0 }, "server.max_upload_bytes must be positive"},
		{"zero max rows", func(c *Config) { c.Input.MaxRows = 0 }, "input.max_rows must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.modifyConfig(config)
			err := validateConfig(config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestToYAML_OmitsAPIKey(t *testing.T) {
	config := validConfig()
	config.AI.APIKey = "sk-secret"

	out, err := config.ToYAML()
	require.NoError(t, err)
	assert.NotContains(t, string(out), "sk-secret")
	assert.NotContains(t, string(out), "api_key")

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Contains(t, decoded, "ai")
	assert.Contains(t, decoded, "export")
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		format string
		want   string
	}{
		{"text format info level", "info", "text", "info"},
		{"json format debug level", "debug", "json", "debug"},
		{"invalid level falls back to info", "loud", "text", "info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := ConfigureLoggingFromConfig(&Config{Log: LogConfig{Level: tt.level, Format: tt.format}})
			require.NotNil(t, logger)
			assert.Equal(t, tt.want, logger.GetLevel().String())
		})
	}
}

func TestFindEnvFile(t *testing.T) {
	parent := t.TempDir()
	child := filepath.Join(parent, "child")
	require.NoError(t, os.Mkdir(child, 0750))

	_, ok := findEnvFile(child)
	assert.False(t, ok)

	// a directory named .env is skipped
	require.NoError(t, os.Mkdir(filepath.Join(child, ".env"), 0750))
	_, ok = findEnvFile(child)
	assert.False(t, ok)

	require.NoError(t, os.WriteFile(filepath.Join(parent, ".env"), []byte("OPENAI_API_KEY=x\n"), 0600))
	path, ok := findEnvFile(child)
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(child, "..", ".env"), path)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("INVOICE_TEST_VALUE", "set")
	assert.Equal(t, "set", GetEnv("INVOICE_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", GetEnv("INVOICE_TEST_UNSET_VALUE", "fallback"))
}

// clearTestEnvVars unsets everything the loader reads, restoring it after
// the test.
func clearTestEnvVars(t *testing.T) {
	t.Helper()
	envVars := []string{
		"INVOICE_LOG_LEVEL",
		"INVOICE_LOG_FORMAT",
		"INVOICE_AI_PROVIDER",
		"INVOICE_AI_MODEL",
		"INVOICE_AI_MAX_TOKENS",
		"INVOICE_AI_TIMEOUT_SECONDS",
		"INVOICE_AI_CONCURRENCY",
		"INVOICE_AI_BASE_URL",
		"INVOICE_AI_API_KEY",
		"INVOICE_EXPORT_FILE_NAME",
		"INVOICE_EXPORT_DELIMITER",
		"INVOICE_SERVER_ADDR",
		"INVOICE_SERVER_MAX_UPLOAD_BYTES",
		"INVOICE_INPUT_MAX_ROWS",
		"OPENAI_API_KEY",
		"GEMINI_API_KEY",
	}

	for _, envVar := range envVars {
		t.Setenv(envVar, "")
		require.NoError(t, os.Unsetenv(envVar))
	}
}
