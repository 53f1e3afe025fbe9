// Package config provides configuration management for folio using Viper
// for loading from files, environment variables and command-line flags.
//
// Values come from .folio.yml (or the file named by --config or
// FOLIO_CONFIG_FILE) and can be overridden with FOLIO_<SECTION>_<KEY>
// environment variables such as FOLIO_SERVER_PORT or FOLIO_DRAFT_BACKEND.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "FOLIO"

// DefaultFileName is the config file looked up in the working directory.
const DefaultFileName = ".folio.yml"

type Config struct {
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	Build     BuildConfig     `mapstructure:"build" yaml:"build"`
	Portfolio PortfolioConfig `mapstructure:"portfolio" yaml:"portfolio"`
	Preview   PreviewConfig   `mapstructure:"preview" yaml:"preview"`
	Draft     DraftConfig     `mapstructure:"draft" yaml:"draft"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
}

type ServerConfig struct {
	Host           string   `mapstructure:"host" yaml:"host"`
	Port           int      `mapstructure:"port" yaml:"port"`
	Open           bool     `mapstructure:"open" yaml:"open"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

type BuildConfig struct {
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
	Format    string `mapstructure:"format" yaml:"format"`
}

type PortfolioConfig struct {
	DataFile string `mapstructure:"data_file" yaml:"data_file"`
	Theme    string `mapstructure:"theme" yaml:"theme"`
}

type PreviewConfig struct {
	Debounce   time.Duration `mapstructure:"debounce" yaml:"debounce"`
	LiveReload bool          `mapstructure:"live_reload" yaml:"live_reload"`
	StorageKey string        `mapstructure:"storage_key" yaml:"storage_key"`
}

type DraftConfig struct {
	Backend string `mapstructure:"backend" yaml:"backend"`
	Path    string `mapstructure:"path" yaml:"path"`
	Key     string `mapstructure:"key" yaml:"key"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	// Dir, when set, also appends every log line to a dated file there.
	Dir string `mapstructure:"dir" yaml:"dir,omitempty"`
}

// StorePath returns the location handed to the draft store: the directory
// itself for the file backend, and a drafts.db inside it for sqlite unless
// the path already names a database file. A leading ~ is expanded.
func (d DraftConfig) StorePath() string {
	p := ExpandHome(d.Path)
	if d.Backend == "sqlite" && filepath.Ext(p) != ".db" {
		return filepath.Join(p, "drafts.db")
	}
	return p
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// SetDefaults registers every default value on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.open", true)
	v.SetDefault("server.allowed_origins", []string{})

	v.SetDefault("build.output_dir", ".")
	v.SetDefault("build.format", "zip")

	v.SetDefault("portfolio.data_file", "portfolio.yaml")
	v.SetDefault("portfolio.theme", "")

	v.SetDefault("preview.debounce", "300ms")
	v.SetDefault("preview.live_reload", true)
	v.SetDefault("preview.storage_key", "portfolio-preview-theme")

	v.SetDefault("draft.backend", "file")
	v.SetDefault("draft.path", "~/.folio/drafts")
	v.SetDefault("draft.key", "portfolio-generator-draft")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.dir", "")
}

// Load reads the configuration from the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads and validates the configuration held by v. Defaults are
// applied for every key v does not set.
func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.Build.Format = strings.ToLower(strings.TrimSpace(config.Build.Format))
	config.Draft.Backend = strings.ToLower(strings.TrimSpace(config.Draft.Backend))

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// validateConfig validates configuration values for security and correctness
func validateConfig(config *Config) error {
	if err := validateServerConfig(&config.Server); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := validateBuildConfig(&config.Build); err != nil {
		return fmt.Errorf("build config: %w", err)
	}

	if err := validatePath(config.Portfolio.DataFile); err != nil {
		return fmt.Errorf("portfolio config: invalid data_file '%s': %w", config.Portfolio.DataFile, err)
	}

	if config.Preview.Debounce < 0 {
		return fmt.Errorf("preview config: debounce must not be negative")
	}

	if err := validateDraftConfig(&config.Draft); err != nil {
		return fmt.Errorf("draft config: %w", err)
	}

	if config.Log.Dir != "" {
		if err := checkDangerousChars(config.Log.Dir); err != nil {
			return fmt.Errorf("log config: invalid dir '%s': %w", config.Log.Dir, err)
		}
	}

	return nil
}

// validateServerConfig validates server configuration values
func validateServerConfig(config *ServerConfig) error {
	// Port 0 lets the system pick one.
	if config.Port < 0 || config.Port > 65535 {
		return fmt.Errorf("port %d is not in valid range 0-65535", config.Port)
	}

	if config.Host != "" {
		if err := validateHostname(config.Host); err != nil {
			return fmt.Errorf("host: %w", err)
		}
	}

	return nil
}

func validateBuildConfig(config *BuildConfig) error {
	switch config.Format {
	case "zip", "dir":
	default:
		return fmt.Errorf("format %q must be zip or dir", config.Format)
	}

	if config.OutputDir != "" {
		if err := validatePath(config.OutputDir); err != nil {
			return fmt.Errorf("invalid output_dir '%s': %w", config.OutputDir, err)
		}
	}

	return nil
}

func validateDraftConfig(config *DraftConfig) error {
	switch config.Backend {
	case "file", "sqlite":
	default:
		return fmt.Errorf("backend %q must be file or sqlite", config.Backend)
	}

	if strings.TrimSpace(config.Path) == "" {
		return fmt.Errorf("path must not be empty")
	}
	if err := checkDangerousChars(config.Path); err != nil {
		return fmt.Errorf("path: %w", err)
	}

	if strings.TrimSpace(config.Key) == "" {
		return fmt.Errorf("key must not be empty")
	}

	return nil
}

// validatePath validates a file path for security
func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty path")
	}

	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path contains traversal: %s", path)
	}

	return checkDangerousChars(cleanPath)
}

func checkDangerousChars(s string) error {
	dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'"}
	for _, char := range dangerousChars {
		if strings.Contains(s, char) {
			return fmt.Errorf("path contains dangerous character: %s", char)
		}
	}
	return nil
}
