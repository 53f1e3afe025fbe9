package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/folio/internal/portfolio"
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Manage the saved draft of the portfolio",
	Long: `The preview saves the last good record as a draft. These commands work with
that draft directly.

Examples:
  folio draft save                # Save portfolio.yaml as the draft
  folio draft show                # Print the draft as YAML
  folio draft restore me.yaml     # Write the draft to me.yaml
  folio draft clear               # Forget the draft`,
}

var draftSaveCmd = &cobra.Command{
	Use:   "save [data-file]",
	Short: "Save the data file as the draft",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDraftSave,
}

var draftShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the draft",
	Args:  cobra.NoArgs,
	RunE:  runDraftShow,
}

var draftRestoreCmd = &cobra.Command{
	Use:   "restore [data-file]",
	Short: "Write the draft to a data file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDraftRestore,
}

var draftClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the draft",
	Args:  cobra.NoArgs,
	RunE:  runDraftClear,
}

var (
	draftFormat       string
	draftRestoreForce bool
)

var (
	errNoDraft          = errors.New("no draft saved")
	errDraftUnavailable = errors.New("draft store unavailable, see the log for details")
)

func init() {
	rootCmd.AddCommand(draftCmd)
	draftCmd.AddCommand(draftSaveCmd, draftShowCmd, draftRestoreCmd, draftClearCmd)

	draftShowCmd.Flags().StringVarP(&draftFormat, "format", "f", formatYAML, "Output format (yaml, json)")
	draftRestoreCmd.Flags().BoolVar(&draftRestoreForce, "force", false, "Overwrite an existing data file")
}

func runDraftSave(cmd *cobra.Command, args []string) error {
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

	drafts, closeDrafts, err := openDrafts(cfg, logger)
	if err != nil {
		return err
	}
	defer closeDrafts()

	if !drafts.Save(commandContext(cmd), d) {
		return errDraftUnavailable
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Saved %s as draft %q\n", path, drafts.Key())
	return nil
}

func runDraftShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cfg)

	drafts, closeDrafts, err := openDrafts(cfg, logger)
	if err != nil {
		return err
	}
	defer closeDrafts()

	d, ok := drafts.Load(commandContext(cmd))
	if !ok {
		return errNoDraft
	}

	var format portfolio.Format
	switch draftFormat {
	case formatYAML:
		format = portfolio.FormatYAML
	case formatJSON:
		format = portfolio.FormatJSON
	default:
		return unsupportedFormat(draftFormat, formatYAML, formatJSON)
	}

	out, err := portfolio.Encode(d, format)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

func runDraftRestore(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cfg)
	path, err := dataFileArg(cfg, args)
	if err != nil {
		return err
	}

	if !draftRestoreForce && fileExists(path) {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	drafts, closeDrafts, err := openDrafts(cfg, logger)
	if err != nil {
		return err
	}
	defer closeDrafts()

	d, ok := drafts.Load(commandContext(cmd))
	if !ok {
		return errNoDraft
	}
	if err := portfolio.Save(path, d); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Restored draft %q to %s\n", drafts.Key(), path)
	return nil
}

func runDraftClear(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cfg)

	drafts, closeDrafts, err := openDrafts(cfg, logger)
	if err != nil {
		return err
	}
	defer closeDrafts()

	if !drafts.Clear(commandContext(cmd)) {
		return errDraftUnavailable
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Cleared draft %q\n", drafts.Key())
	return nil
}
