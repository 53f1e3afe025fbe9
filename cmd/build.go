package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/conneroisu/folio/internal/bundle"
	ferrors "github.com/conneroisu/folio/internal/errors"
	"github.com/conneroisu/folio/internal/logging"
	"github.com/conneroisu/folio/internal/portfolio"
	"github.com/conneroisu/folio/internal/render"
)

var buildCmd = &cobra.Command{
	Use:     "build [data-file]",
	Aliases: []string{"b"},
	Short:   "Validate the data file and write the site bundle",
	Long: `Validate the portfolio data file with the submission rules, render it and
write the bundle: <name>-portfolio.zip holding portfolio/index.html,
portfolio/css/style.css and portfolio/README.md.

Examples:
  folio build                       # Build portfolio.yaml into ./<name>-portfolio.zip
  folio build me.json --output dist # Build another file into dist/
  folio build --dir                 # Write dist/portfolio/ instead of a ZIP
  folio build --theme forest        # Override the theme of the data file`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

var (
	buildOutput string
	buildDir    bool
	buildTheme  string
)

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "Output directory (default build.output_dir)")
	buildCmd.Flags().BoolVar(&buildDir, "dir", false, "Write a directory tree instead of a ZIP archive")
	buildCmd.Flags().StringVarP(&buildTheme, "theme", "t", "", "Theme id overriding the data file")
}

func runBuild(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx := commandContext(cmd)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cfg)

	outputDir := cfg.Build.OutputDir
	if buildOutput != "" {
		outputDir = buildOutput
	}
	format := cfg.Build.Format
	if buildDir {
		format = bundle.FormatDir
	}
	themeID := cfg.Portfolio.Theme
	if buildTheme != "" {
		themeID = buildTheme
	}

	path, err := dataFileArg(cfg, args)
	if err != nil {
		return err
	}
	b, err := buildBundle(ctx, path, themeID, logger)
	if err != nil {
		return err
	}

	written, err := bundle.NewWriter(outputDir, logger).Write(ctx, b, format)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Built %s with theme %s\n", written, b.Theme)
	fmt.Fprintf(out, "  Finished in %s\n", time.Since(start).Round(time.Millisecond))
	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintln(out, "  folio instructions   # hosting options for the bundle")
	return nil
}

// buildBundle loads, validates and renders a data file for export.
func buildBundle(ctx context.Context, path, themeID string, logger logging.Logger) (*render.Bundle, error) {
	op := logging.StartOperation(logger, "build")

	d, err := loadData(path)
	if err != nil {
		op.EndWithError(ctx, err)
		return nil, err
	}
	if themeID != "" {
		d.Theme = themeID
	}

	if err := render.CheckTheme(portfolio.Normalize(d).Theme); err != nil {
		op.EndWithError(ctx, err)
		return nil, err
	}
	if err := portfolio.Validate(d); err != nil {
		op.EndWithError(ctx, err)
		return nil, ferrors.NewEnhancedError(ferrors.FormatError(err), err, []ferrors.ErrorSuggestion{
			{
				Title:   "Fix the fields above and validate again",
				Command: "folio validate " + path,
			},
		})
	}

	b, err := render.Render(d, render.Options{})
	if err != nil {
		op.EndWithError(ctx, err)
		return nil, err
	}

	op.End(ctx, "data_file", path, "theme", b.Theme)
	return b, nil
}
