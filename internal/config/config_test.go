package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	t.Setenv("FIXER_ACCESS_KEY", "test-key")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.AccessKey)
	assert.Equal(t, "http://data.fixer.io/api", cfg.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.FixerAPI.Timeout)
	assert.Equal(t, 10, cfg.MaxRetries)
	assert.Equal(t, 300*time.Millisecond, cfg.BackoffFactor)
	assert.Equal(t, 120*time.Second, cfg.MaxBackoff)
	assert.Equal(t, []int{500, 502, 504}, cfg.RetryStatuses)
	assert.Equal(t, 100.0, cfg.Amount)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Brokers)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("FIXER_ACCESS_KEY", "test-key")
	t.Setenv("FX_RETRY_MAX", "3")
	t.Setenv("FX_RETRY_STATUSES", "429,503")
	t.Setenv("FX_KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, []int{429, 503}, cfg.RetryStatuses)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Brokers)
}

func TestLoadRequiresAccessKey(t *testing.T) {
	t.Setenv("FIXER_ACCESS_KEY", "")
	require.NoError(t, os.Unsetenv("FIXER_ACCESS_KEY"))

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("FIXER_ACCESS_KEY", "")
	require.NoError(t, os.Unsetenv("FIXER_ACCESS_KEY"))

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
env: prod
fixer_api:
  base_url: https://example.test/api
  access_key: file-key
retry:
  max_retries: 2
  backoff_factor: 1s
log_config:
  log_format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "https://example.test/api", cfg.BaseURL)
	assert.Equal(t, "file-key", cfg.AccessKey)
	assert.Equal(t, 2, cfg.MaxRetries)
	assert.Equal(t, time.Second, cfg.BackoffFactor)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() FXConfig {
		return FXConfig{
			FixerAPI:    FixerAPI{AccessKey: "k"},
			RetryConfig: RetryConfig{MaxRetries: 1, RetryStatuses: []int{502}},
			Conversion:  Conversion{Amount: 100},
		}
	}

	cfg := valid()
	assert.NoError(t, cfg.validate())

	cfg = valid()
	cfg.MaxRetries = -1
	assert.Error(t, cfg.validate())

	cfg = valid()
	cfg.Amount = 0
	assert.Error(t, cfg.validate())

	cfg = valid()
	cfg.RetryStatuses = []int{1000}
	assert.Error(t, cfg.validate())
}

func TestLoadEmptyBrokers(t *testing.T) {
	t.Setenv("FIXER_ACCESS_KEY", "test-key")
	t.Setenv("FX_KAFKA_BROKERS", " , ")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Nil(t, cfg.Brokers)
}
