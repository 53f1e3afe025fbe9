package cmd

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/conneroisu/folio/internal/portfolio"
	"github.com/conneroisu/folio/internal/render"
)

var instructionsCmd = &cobra.Command{
	Use:   "instructions [data-file]",
	Short: "Show the hosting instructions shipped with the bundle",
	Long: `Print the README that build puts into the bundle, formatted for the
terminal.

Examples:
  folio instructions              # Instructions for portfolio.yaml
  folio instructions --raw        # Plain markdown`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInstructions,
}

var (
	instructionsRaw   bool
	instructionsWidth int
)

func init() {
	rootCmd.AddCommand(instructionsCmd)

	instructionsCmd.Flags().BoolVar(&instructionsRaw, "raw", false, "Print plain markdown")
	instructionsCmd.Flags().IntVar(&instructionsWidth, "width", 80, "Word wrap width")
	addFlagValidation(instructionsCmd.Flags(), "width", validatePositive)
}

func runInstructions(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path, err := dataFileArg(cfg, args)
	if err != nil {
		return err
	}

	// Without a data file the instructions are still useful.
	var d portfolio.Data
	if fileExists(path) {
		if d, err = loadData(path); err != nil {
			return err
		}
	}
	d = portfolio.Normalize(d)
	if d.FullName == "" {
		d.FullName = "Your Name"
	}

	readme := render.Readme(d)
	out := cmd.OutOrStdout()
	if instructionsRaw {
		_, err := fmt.Fprint(out, readme)
		return err
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(instructionsWidth),
	)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	formatted, err := renderer.Render(readme)
	if err != nil {
		return fmt.Errorf("failed to render instructions: %w", err)
	}
	_, err = fmt.Fprint(out, formatted)
	return err
}
