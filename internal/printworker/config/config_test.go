package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
app:
  name: pickup-printworker
  log_level: debug
lmstfy:
  host: 127.0.0.1
  port: 7777
  namespace: pickup
  token: from-file
printer:
  mode: http
  base_url: http://printer.local
workers:
  - name: receipts
    queue_name: receipts
    subscriber:
      threads: 2
      rate: 100ms
    processor:
      threads: 4
      buffer_size: 16
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "printworker.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("PICKUP_LMSTFY_TOKEN", "from-env")

	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "from-env", cfg.Lmstfy.Token)
	assert.Equal(t, PrinterHTTP, cfg.Printer.Mode)
	require.Len(t, cfg.Workers, 1)

	w := cfg.Workers[0]
	assert.Equal(t, 2, w.Subscriber.Threads)
	assert.Equal(t, 100*time.Millisecond, w.Subscriber.Rate)
	assert.Equal(t, 30*time.Second, w.Subscriber.TTR)
	assert.Equal(t, 4, w.Processor.Threads)
	assert.Equal(t, 10*time.Second, w.Processor.Timeout)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load(writeConfig(t, sample))
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"no name", func(c *Config) { c.App.Name = "" }},
		{"no lmstfy host", func(c *Config) { c.Lmstfy.Host = "" }},
		{"http printer without url", func(c *Config) { c.Printer.BaseURL = "" }},
		{"unknown printer", func(c *Config) { c.Printer.Mode = "fax" }},
		{"no workers", func(c *Config) { c.Workers = nil }},
		{"ttr too short", func(c *Config) { c.Workers[0].Subscriber.TTR = time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
