package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "app:\n  name: pickup-test\npayment:\n  verifier: trusting\n"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "pickup-test", cfg.App.Name)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, 5*time.Second, cfg.Sync.PollInterval)
	assert.Equal(t, 5, cfg.Sync.MaxPollFailures)
	assert.Equal(t, 10*time.Second, cfg.Live.OrderTimeout)
	assert.Equal(t, 5*time.Second, cfg.Live.PaymentTimeout)
	assert.Equal(t, 8*time.Second, cfg.Live.QueueTimeout)
	assert.Equal(t, "keep", cfg.Lifecycle.RenotifyPolicy)
	assert.False(t, cfg.Lmstfy.Enabled())
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("PICKUP_PAYMENT_API_KEY", "sk_env")
	t.Setenv("PICKUP_SERVER_PORT", "9090")

	cfg, err := Load(writeConfig(t, `
payment:
  verifier: http
  base_url: https://pay.example.com/v1
  api_key: sk_file
`))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "sk_env", cfg.Payment.APIKey)
	assert.Equal(t, "9090", cfg.Server.Port)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func(t *testing.T) *Config {
		cfg, err := Load(writeConfig(t, "payment:\n  verifier: trusting\n"))
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "csv" }, false},
		{"redis kv without addr", func(c *Config) { c.Storage.Backend = BackendKV; c.Storage.KVDriver = "redis" }, false},
		{"memory kv", func(c *Config) { c.Storage.Backend = BackendKV }, true},
		{"mongo without uri", func(c *Config) { c.Storage.Backend = BackendMongo }, false},
		{"sql without dsn", func(c *Config) { c.Storage.Backend = BackendSQL }, false},
		{"sqlite", func(c *Config) { c.Storage.Backend = BackendSQL; c.SQL.DSN = "file::memory:" }, true},
		{"http verifier without key", func(c *Config) { c.Payment.Verifier = VerifierHTTP }, false},
		{"relay without redis", func(c *Config) { c.Sync.Channel = "pickup:changes" }, false},
		{"bad renotify policy", func(c *Config) { c.Lifecycle.RenotifyPolicy = "twice" }, false},
		{"bad timezone", func(c *Config) { c.App.Timezone = "Mars/Olympus" }, false},
		{"lmstfy without namespace", func(c *Config) { c.Lmstfy.Host = "127.0.0.1" }, false},
		{"zero poll interval", func(c *Config) { c.Sync.PollInterval = 0 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
