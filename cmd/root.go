// Package cmd provides the command-line interface for folio.
//
// Configuration System:
//
//	Settings come from several sources with clear precedence:
//	1. Command-line flags (--config, --port, etc.) - highest priority
//	2. FOLIO_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (FOLIO_SERVER_PORT, etc.)
//	4. Configuration file (.folio.yml) - lowest priority
//
//	A .env file in the working directory is loaded before any of these.
//
// Environment Variables:
//
//	FOLIO_CONFIG_FILE: Path to custom configuration file
//	FOLIO_SERVER_PORT: Override preview server port
//	FOLIO_PORTFOLIO_THEME: Override the theme of every render
//	FOLIO_DRAFT_BACKEND: file or sqlite
//	And the rest following the FOLIO_<SECTION>_<OPTION> pattern
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/folio/internal/config"
	"github.com/conneroisu/folio/internal/draft"
	ferrors "github.com/conneroisu/folio/internal/errors"
	"github.com/conneroisu/folio/internal/logging"
	"github.com/conneroisu/folio/internal/portfolio"
	"github.com/conneroisu/folio/internal/validation"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Turn a portfolio data file into a themed static site",
	Long: `folio renders a portfolio / résumé data file into a self-contained static
site: index.html, css/style.css and a README with hosting instructions.

Quick Start:
  folio init                      Write a sample portfolio.yaml
  folio preview                   Live preview in the browser
  folio validate                  Report every problem in the data file
  folio build                     Write <name>-portfolio.zip
  folio themes                    List the available themes`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	defer closeLogFiles()
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .folio.yml, can also use FOLIO_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	addFlagValidation(rootCmd.PersistentFlags(), "log-level", oneOf("debug", "info", "warn", "error"))
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig wires .env, the config file and FOLIO_* variables into viper.
//
// Config file lookup order:
//  1. --config flag
//  2. FOLIO_CONFIG_FILE environment variable
//  3. .folio.yml in the current directory
func initConfig() {
	// A missing .env is normal.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("FOLIO_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(strings.TrimSuffix(config.DefaultFileName, ".yml"))
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "Warning: cannot read config file:", err)
		}
		return
	}
	fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
}

// loadConfig reads the effective configuration and decorates failures with
// suggestions.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, ferrors.NewEnhancedError("Failed to load configuration", err, []ferrors.ErrorSuggestion{
			{
				Title:       "Inspect the effective configuration",
				Description: "Values come from flags, FOLIO_* variables and " + config.DefaultFileName,
				Command:     "folio config show",
			},
			{
				Title:   "Start from a fresh configuration",
				Command: "folio init --force",
			},
		})
	}
	return cfg, nil
}

// logFiles are the file loggers opened by newLogger, closed on exit.
var logFiles []*logging.FileLogger

// newLogger builds the command logger. Diagnostics go to stderr so stdout
// stays clean for command output. With log.dir set they are also appended
// to a dated file there.
func newLogger(cmd *cobra.Command, cfg *config.Config) logging.Logger {
	logConfig := &logging.LoggerConfig{
		Level:  logging.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	}
	console := logging.NewLogger(logConfig)
	if cfg.Log.Dir == "" {
		return console
	}

	file, err := logging.NewFileLogger(logConfig, config.ExpandHome(cfg.Log.Dir))
	if err != nil {
		console.Warn(commandContext(cmd), err, "File logging disabled", "dir", cfg.Log.Dir)
		return console
	}
	logFiles = append(logFiles, file)
	return logging.NewMultiLogger(console, file)
}

func closeLogFiles() {
	for _, f := range logFiles {
		_ = f.Close()
	}
	logFiles = nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// dataFileArg returns the data file named on the command line, or the
// configured one, after checking the path is safe to open.
func dataFileArg(cfg *config.Config, args []string) (string, error) {
	path := cfg.Portfolio.DataFile
	if len(args) > 0 && args[0] != "" {
		path = args[0]
	}
	if err := validation.ValidateDataFile(path); err != nil {
		return "", ferrors.NewConfigError(ferrors.ErrCodeConfigInvalid,
			fmt.Sprintf("invalid data file %q: %v", path, err)).WithFile(path)
	}
	return path, nil
}

// loadData reads a data file, attaching suggestions when it cannot be read.
func loadData(path string) (portfolio.Data, error) {
	d, err := portfolio.Load(path)
	if err != nil {
		if ferrors.HasCode(err, ferrors.ErrCodeFileNotFound) {
			return portfolio.Data{}, ferrors.NewEnhancedError(
				fmt.Sprintf("Cannot read data file %s", path), err, ferrors.DataFileError(path))
		}
		return portfolio.Data{}, err
	}
	return d, nil
}

// openDrafts opens the configured draft store. The returned func closes it.
func openDrafts(cfg *config.Config, logger logging.Logger) (*draft.Manager, func(), error) {
	store, err := draft.Open(cfg.Draft.Backend, cfg.Draft.StorePath())
	if err != nil {
		return nil, nil, ferrors.WrapStorage(err, ferrors.ErrCodeStorageUnavailable, "cannot open draft store")
	}
	closeFn := func() {
		if err := store.Close(); err != nil {
			logger.Warn(context.Background(), err, "Failed to close draft store")
		}
	}
	return draft.NewManager(store, cfg.Draft.Key, logger), closeFn, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
