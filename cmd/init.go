package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/conneroisu/folio/internal/config"
	ferrors "github.com/conneroisu/folio/internal/errors"
	"github.com/conneroisu/folio/internal/portfolio"
)

var initCmd = &cobra.Command{
	Use:     "init [path]",
	Aliases: []string{"i"},
	Short:   "Write a sample portfolio.yaml and .folio.yml",
	Long: `Scaffold a portfolio project: a sample data file to edit and a configuration
file with every setting at its default.

Examples:
  folio init                      # Scaffold in the current directory
  folio init my-site              # Scaffold in ./my-site
  folio init --force              # Overwrite existing files`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

var initForce bool

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing files")
}

const defaultConfigYAML = `# folio configuration. Every key can be overridden with FOLIO_<SECTION>_<KEY>.
server:
  host: localhost
  port: 8080
  open: true
  # allowed_origins: ["http://localhost:3000"]

build:
  output_dir: .
  format: zip # zip or dir

portfolio:
  data_file: portfolio.yaml
  theme: "" # empty uses the theme in the data file

preview:
  debounce: 300ms
  live_reload: true
  storage_key: portfolio-preview-theme

draft:
  backend: file # file or sqlite
  path: ~/.folio/drafts
  key: portfolio-generator-draft

log:
  level: info
  format: text
  # dir: ~/.folio/logs
`

func runInit(cmd *cobra.Command, args []string) error {
	projectDir := "."
	if len(args) > 0 {
		projectDir = args[0]
	}
	out := cmd.OutOrStdout()

	if err := os.MkdirAll(projectDir, 0o755); err != nil {
		return ferrors.NewIOError(ferrors.ErrCodeWriteFailed, "cannot create project directory", err).
			WithFile(projectDir)
	}

	fmt.Fprintf(out, "Initializing folio project in %s\n", projectDir)

	dataFile := filepath.Join(projectDir, "portfolio.yaml")
	if keepExisting(dataFile) {
		fmt.Fprintln(out, "⚠ portfolio.yaml already exists, skipping")
	} else {
		if err := portfolio.Save(dataFile, portfolio.Sample()); err != nil {
			return err
		}
		fmt.Fprintln(out, "✓ Created portfolio.yaml")
	}

	configFile := filepath.Join(projectDir, config.DefaultFileName)
	if keepExisting(configFile) {
		fmt.Fprintf(out, "⚠ %s already exists, skipping\n", config.DefaultFileName)
	} else {
		if err := os.WriteFile(configFile, []byte(defaultConfigYAML), 0o644); err != nil {
			return ferrors.NewIOError(ferrors.ErrCodeWriteFailed, "cannot write configuration", err).
				WithFile(configFile)
		}
		fmt.Fprintf(out, "✓ Created %s\n", config.DefaultFileName)
	}

	fmt.Fprintln(out, "\nNext steps:")
	if projectDir != "." {
		fmt.Fprintln(out, "  cd "+projectDir)
	}
	fmt.Fprintln(out, "  Edit portfolio.yaml")
	fmt.Fprintln(out, "  folio preview")
	fmt.Fprintln(out, "  folio build")
	return nil
}

// keepExisting reports whether path exists and must not be overwritten.
func keepExisting(path string) bool {
	if initForce {
		return false
	}
	return fileExists(path)
}
