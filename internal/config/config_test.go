package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.True(t, cfg.Server.Open)
	assert.Equal(t, ".", cfg.Build.OutputDir)
	assert.Equal(t, "zip", cfg.Build.Format)
	assert.Equal(t, "portfolio.yaml", cfg.Portfolio.DataFile)
	assert.Empty(t, cfg.Portfolio.Theme)
	assert.Equal(t, 300*time.Millisecond, cfg.Preview.Debounce)
	assert.True(t, cfg.Preview.LiveReload)
	assert.Equal(t, "portfolio-preview-theme", cfg.Preview.StorageKey)
	assert.Equal(t, "file", cfg.Draft.Backend)
	assert.Equal(t, "portfolio-generator-draft", cfg.Draft.Key)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(v *viper.Viper)
		expectError bool
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "custom values",
			setup: func(v *viper.Viper) {
				v.Set("server.port", 3000)
				v.Set("server.host", "0.0.0.0")
				v.Set("server.allowed_origins", []string{"http://localhost:3000"})
				v.Set("build.format", "DIR")
				v.Set("preview.debounce", "1s")
				v.Set("draft.backend", "sqlite")
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 3000, cfg.Server.Port)
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
				assert.Equal(t, "dir", cfg.Build.Format)
				assert.Equal(t, time.Second, cfg.Preview.Debounce)
				assert.Equal(t, "sqlite", cfg.Draft.Backend)
			},
		},
		{
			name:        "port out of range",
			setup:       func(v *viper.Viper) { v.Set("server.port", 70000) },
			expectError: true,
		},
		{
			name:        "port not a number",
			setup:       func(v *viper.Viper) { v.Set("server.port", "invalid_port") },
			expectError: true,
		},
		{
			name:        "dangerous host",
			setup:       func(v *viper.Viper) { v.Set("server.host", "localhost;rm -rf /") },
			expectError: true,
		},
		{
			name:        "unknown build format",
			setup:       func(v *viper.Viper) { v.Set("build.format", "tar") },
			expectError: true,
		},
		{
			name:        "output dir traversal",
			setup:       func(v *viper.Viper) { v.Set("build.output_dir", "../../etc") },
			expectError: true,
		},
		{
			name:        "data file with shell characters",
			setup:       func(v *viper.Viper) { v.Set("portfolio.data_file", "a.yaml;ls") },
			expectError: true,
		},
		{
			name:        "unknown draft backend",
			setup:       func(v *viper.Viper) { v.Set("draft.backend", "redis") },
			expectError: true,
		},
		{
			name:        "empty draft key",
			setup:       func(v *viper.Viper) { v.Set("draft.key", " ") },
			expectError: true,
		},
		{
			name:        "negative debounce",
			setup:       func(v *viper.Viper) { v.Set("preview.debounce", "-1s") },
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			tt.setup(v)

			cfg, err := LoadFrom(v)
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
  open: false
portfolio:
  data_file: me.yaml
  theme: cool
`), 0o644))

	t.Setenv("FOLIO_SERVER_PORT", "9191")
	t.Setenv("FOLIO_LOG_LEVEL", "debug")

	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	require.NoError(t, v.ReadInConfig())

	cfg, err := LoadFrom(v)
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port, "env overrides file")
	assert.False(t, cfg.Server.Open)
	assert.Equal(t, "me.yaml", cfg.Portfolio.DataFile)
	assert.Equal(t, "cool", cfg.Portfolio.Theme)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestDraftStorePath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		cfg      DraftConfig
		expected string
	}{
		{DraftConfig{Backend: "file", Path: "/tmp/drafts"}, "/tmp/drafts"},
		{DraftConfig{Backend: "sqlite", Path: "/tmp/drafts"}, filepath.Join("/tmp/drafts", "drafts.db")},
		{DraftConfig{Backend: "sqlite", Path: "/tmp/mine.db"}, "/tmp/mine.db"},
		{DraftConfig{Backend: "file", Path: "~/.folio/drafts"}, filepath.Join(home, ".folio", "drafts")},
	}

	for _, tt := range tests {
		t.Run(tt.cfg.Backend+" "+tt.cfg.Path, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.cfg.StorePath())
		})
	}
}

func TestValidateConfigWithDetails(t *testing.T) {
	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)

	cfg.Server.Port = 80
	cfg.Server.Host = "0.0.0.0"
	cfg.Portfolio.Theme = "neon"
	cfg.Portfolio.DataFile = filepath.Join(t.TempDir(), "missing.yaml")
	cfg.Preview.Debounce = 10 * time.Millisecond

	result := ValidateConfigWithDetails(cfg)
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "portfolio.theme", result.Errors[0].Field)

	fields := make([]string, 0, len(result.Warnings))
	for _, w := range result.Warnings {
		fields = append(fields, w.Field)
	}
	assert.ElementsMatch(t, []string{"server.port", "server.host", "portfolio.data_file", "preview.debounce"}, fields)

	out := result.String()
	assert.Contains(t, out, "Validation Errors:")
	assert.Contains(t, out, "unknown theme \"neon\"")
	assert.Contains(t, out, "Validation Warnings:")
}

func TestValidateHostname(t *testing.T) {
	valid := []string{"localhost", "127.0.0.1", "::1", "example.com", "my-host"}
	for _, h := range valid {
		assert.NoError(t, validateHostname(h), h)
	}

	invalid := []string{"-bad", "bad_host", "host$(id)", "a..b"}
	for _, h := range invalid {
		assert.Error(t, validateHostname(h), h)
	}
}
