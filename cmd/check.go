package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/folio/internal/audit"
	"github.com/conneroisu/folio/internal/render"
	"github.com/conneroisu/folio/internal/server"
)

var checkCmd = &cobra.Command{
	Use:   "check [data-file]",
	Short: "Render the portfolio and audit the generated pages",
	Long: `Render the data file and audit both the exported index.html and the preview
page: language, title, skip link, external link rel, button labels, scripts
and meta description. Exits non-zero when any rule fails.

Examples:
  folio check                     # Audit portfolio.yaml
  folio check me.json --json      # Machine-readable report`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

var checkJSON bool

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "Print the reports as JSON")
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cfg)
	path, err := dataFileArg(cfg, args)
	if err != nil {
		return err
	}

	d, err := loadData(path)
	if err != nil {
		return err
	}
	opts := render.Options{Theme: cfg.Portfolio.Theme}

	b, err := render.Render(d, opts)
	if err != nil {
		return err
	}
	opts.StorageKey = cfg.Preview.StorageKey
	if cfg.Preview.LiveReload {
		opts.LiveReloadURL = server.ReloadPath
	}
	preview, err := render.RenderPreview(d, opts)
	if err != nil {
		return err
	}

	auditor := audit.New(audit.Config{ScriptSources: []string{server.ReloadPath}}, logger)

	var reports []*audit.Report
	for _, page := range []struct{ name, html string }{
		{"index.html", b.HTML},
		{"preview", preview},
	} {
		report, err := auditor.Audit(ctx, page.name, page.html)
		if err != nil {
			return err
		}
		reports = append(reports, report)
	}

	out := cmd.OutOrStdout()
	if checkJSON {
		if err := writeJSON(out, reports); err != nil {
			return err
		}
	} else {
		for _, r := range reports {
			fmt.Fprint(out, r.String())
		}
	}

	failed := 0
	for _, r := range reports {
		failed += len(r.Violations)
	}
	if failed > 0 {
		return fmt.Errorf("audit found %d violation(s)", failed)
	}
	if !checkJSON {
		fmt.Fprintln(out, "✓ All checks passed")
	}
	return nil
}
