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
	path := filepath.Join(t.TempDir(), "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadServerConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
auth:
  api_key: "test-key"
`)

	cfg, err := LoadServerConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "Bandwidth Monitor", cfg.App.Name)
	assert.Equal(t, ":8000", cfg.App.Listen)
	assert.Equal(t, "release", cfg.App.Mode)
	assert.Equal(t, 15*time.Second, cfg.App.ReadTimeout)
	assert.True(t, cfg.Monitor.AutoDetect)
	assert.Equal(t, 5, cfg.Monitor.SampleInterval)
	assert.Equal(t, 43200, cfg.Monitor.WindowPeriod)
	assert.Equal(t, 300, cfg.Monitor.PersistInterval)
	assert.Equal(t, "data/monthly-usage.json", cfg.Monitor.StateFile)
	assert.Equal(t, "test-key", cfg.Auth.APIKey)
}

func TestLoadServerConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
app:
  listen: ":9000"
  mode: "debug"
monitor:
  interface: "ens3"
  sample_interval: 10
  window_period: 3600
  persist_interval: 60
  state_file: "/var/lib/bwmon/usage.json"
auth:
  api_key: "secret"
`)

	cfg, err := LoadServerConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.App.Listen)
	assert.Equal(t, "debug", cfg.App.Mode)
	assert.Equal(t, "ens3", cfg.Monitor.Interface)
	assert.Equal(t, 10, cfg.Monitor.SampleInterval)
	assert.Equal(t, 3600, cfg.Monitor.WindowPeriod)
	assert.Equal(t, 60, cfg.Monitor.PersistInterval)
	assert.Equal(t, "/var/lib/bwmon/usage.json", cfg.Monitor.StateFile)
}

func TestLoadServerConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing api key", `
app:
  listen: ":8000"
`},
		{"invalid sample interval", `
monitor:
  sample_interval: 0
auth:
  api_key: "k"
`},
		{"window smaller than interval", `
monitor:
  sample_interval: 30
  window_period: 10
auth:
  api_key: "k"
`},
		{"no interface without auto detect", `
monitor:
  auto_detect: false
auth:
  api_key: "k"
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadServerConfig(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadServerConfigMissingFile(t *testing.T) {
	_, err := LoadServerConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
