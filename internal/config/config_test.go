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
	t.Run("missing optional file yields defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"), false)
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
		assert.Equal(t, "./history.json", cfg.HistoryFile)
		assert.Equal(t, "visitors_{timestamp}.csv", cfg.OutputFileFormat)
		assert.Equal(t, "公务拜访", cfg.Defaults.VisitType)
		assert.Equal(t, "身份证", cfg.Defaults.IDType)
		assert.Equal(t, ',', cfg.Import.DelimiterRune())
	})

	t.Run("missing required file fails", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "config.yaml"), true)
		assert.Error(t, err)
	})

	t.Run("values override defaults", func(t *testing.T) {
		path := writeConfig(t, `
history_file: /tmp/approvers.json
output_dir: /tmp/out
log_level: debug
log_format: json
import:
  sheet_name: 访客
  encoding: GBK
  delimiter: tab
defaults:
  visit_type: campus
  id_type: 护照
  sites: [东区, 梅山校区]
  start_time: "09:30"
`)
		cfg, err := Load(path, true)
		require.NoError(t, err)
		assert.Equal(t, "/tmp/approvers.json", cfg.HistoryFile)
		assert.Equal(t, "/tmp/out", cfg.OutputDir)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Equal(t, "访客", cfg.Import.SheetName)
		assert.Equal(t, "GBK", cfg.Import.Encoding)
		assert.Equal(t, '\t', cfg.Import.DelimiterRune())
		assert.Equal(t, []string{"东区", "梅山校区"}, cfg.Defaults.Sites)
		assert.Equal(t, "09:30", cfg.Defaults.StartTime)
		assert.Equal(t, "18:00", cfg.Defaults.EndTime)
	})

	t.Run("malformed yaml fails", func(t *testing.T) {
		_, err := Load(writeConfig(t, "log_level: [unclosed"), true)
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"log level", func(c *Config) { c.LogLevel = "verbose" }},
		{"log format", func(c *Config) { c.LogFormat = "xml" }},
		{"encoding", func(c *Config) { c.Import.Encoding = "Big5" }},
		{"delimiter", func(c *Config) { c.Import.Delimiter = ";;" }},
		{"visit type", func(c *Config) { c.Defaults.VisitType = "tour" }},
		{"id type", func(c *Config) { c.Defaults.IDType = "licence" }},
		{"site", func(c *Config) { c.Defaults.Sites = []string{"南区"} }},
		{"start time", func(c *Config) { c.Defaults.StartTime = "8am" }},
	}

	require.NoError(t, Default().Validate())

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
