package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: debug
  format: json
rates:
  rates_source: file
  rates_file: /etc/rates.yaml
output: json
metrics:
  enabled: true
  addr: ":9090"
`)

	cfg, err := Load(path, false)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "~/.go-api-cost-tracker/logs/app.log", cfg.Logging.File)
	assert.Equal(t, "file", cfg.Rates.RatesSource)
	assert.Equal(t, "/etc/rates.yaml", cfg.Rates.RatesFile)
	assert.Equal(t, OutputJSON, cfg.Output)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
}

func TestLoadMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")

	cfg, err := Load(missing, true)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(missing, false)
	assert.Error(t, err)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "bad_yaml", content: "logging: [oops"},
		{name: "bad_output", content: "output: xml\n"},
		{name: "bad_source", content: "rates:\n  rates_source: litellm\n"},
		{name: "file_source_without_file", content: "rates:\n  rates_source: file\n"},
		{name: "bad_log_format", content: "logging:\n  format: xml\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content), false)
			assert.Error(t, err)
		})
	}
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}
