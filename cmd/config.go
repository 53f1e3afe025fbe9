package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/folio/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect folio configuration",
	Long: `Inspect the configuration folio resolves from .folio.yml, FOLIO_*
environment variables and flags.`,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long: `Validate the effective configuration for correctness and common mistakes.

This command checks for:
- Valid port ranges and hostnames
- Known output formats, themes and draft backends
- Safe file paths
- Settings that work but are probably unintended

Examples:
  folio config validate              # Validate the effective configuration
  folio config validate --strict     # Treat warnings as errors`,
	Args: cobra.NoArgs,
	RunE: runConfigValidate,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Display the current configuration including all resolved values.

This shows the final configuration after:
- Loading from configuration file
- Applying environment variable overrides
- Setting default values

Examples:
  folio config show                  # Show all configuration as YAML
  folio config show --format json    # Show as JSON`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var (
	configFormat string
	configStrict bool
)

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)

	configValidateCmd.Flags().BoolVar(&configStrict, "strict", false, "Treat warnings as errors")
	configShowCmd.Flags().StringVar(&configFormat, "format", formatYAML, "Output format (yaml, json)")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	switch configFormat {
	case formatYAML:
		if err := writeYAML(out, cfg); err != nil {
			return err
		}
	case formatJSON:
		if err := writeJSON(out, cfg); err != nil {
			return err
		}
	default:
		return unsupportedFormat(configFormat, formatYAML, formatJSON)
	}

	if result := config.ValidateConfigWithDetails(cfg); result.HasWarnings() {
		fmt.Fprint(cmd.ErrOrStderr(), result.String())
	}
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(out, "❌ Configuration is invalid:")
		fmt.Fprintf(out, "  %v\n", err)
		return errors.New("configuration validation failed")
	}

	result := config.ValidateConfigWithDetails(cfg)
	if result.HasErrors() || result.HasWarnings() {
		fmt.Fprint(out, result.String())
	}

	if result.HasErrors() {
		return errors.New("configuration validation failed")
	}
	if configStrict && result.HasWarnings() {
		return errors.New("configuration has warnings (strict mode)")
	}

	fmt.Fprintln(out, "✓ Configuration is valid")
	return nil
}
