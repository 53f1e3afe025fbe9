package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	ferrors "github.com/conneroisu/folio/internal/errors"
	"github.com/conneroisu/folio/internal/portfolio"
)

var validateCmd = &cobra.Command{
	Use:     "validate [data-file]",
	Aliases: []string{"v"},
	Short:   "Check the data file and report every problem",
	Long: `Check the portfolio data file against the schema and the submission rules
and print one line per problem. Exits non-zero when anything is wrong.

With --preview only the preview rules apply (a name is enough).

Examples:
  folio validate                  # Check portfolio.yaml
  folio validate me.json          # Check another file
  folio validate --preview        # Check the minimum the preview needs`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

var validatePreview bool

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validatePreview, "preview", false, "Apply the preview rules only")
}

// errValidationFailed is returned after the problems have been printed.
var errValidationFailed = errors.New("validation failed")

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path, err := dataFileArg(cfg, args)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	d, err := loadData(path)
	if err != nil {
		var fields ferrors.FieldErrors
		if !errors.As(err, &fields) {
			return err
		}
		printFieldErrors(cmd, path, fields)
		return errValidationFailed
	}
	if cfg.Portfolio.Theme != "" {
		d.Theme = cfg.Portfolio.Theme
	}

	if validatePreview {
		err = portfolio.ValidateForPreview(portfolio.Normalize(d))
	} else {
		err = portfolio.Validate(d)
	}
	if err != nil {
		var fields ferrors.FieldErrors
		if !errors.As(err, &fields) {
			return err
		}
		printFieldErrors(cmd, path, fields)
		return errValidationFailed
	}

	rules := "submission"
	if validatePreview {
		rules = "preview"
	}
	fmt.Fprintf(out, "✓ %s passes the %s rules\n", path, rules)
	return nil
}

func printFieldErrors(cmd *cobra.Command, path string, fields ferrors.FieldErrors) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✗ %s has %d problem(s):\n", path, len(fields))
	for _, f := range fields {
		fmt.Fprintf(out, "  - %s\n", f.Error())
	}
}
