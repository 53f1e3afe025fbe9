package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/conneroisu/folio/internal/portfolio"
	"github.com/conneroisu/folio/internal/theme"
)

var themesCmd = &cobra.Command{
	Use:     "themes [data-file]",
	Aliases: []string{"t"},
	Short:   "List the available themes",
	Long: `List every theme with colour swatches for both modes.

With --pick an interactive list opens and the chosen theme id is written
into the data file.

Examples:
  folio themes                    # Table with swatches
  folio themes --format json      # Full token sets as JSON
  folio themes --pick             # Choose a theme for portfolio.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runThemes,
}

var (
	themesFormat string
	themesPick   bool
)

// swatchTokens are the tokens shown as colour blocks.
var swatchTokens = []string{"--color-bg", "--color-primary", "--color-text", "--color-border"}

var (
	themeIDStyle   = lipgloss.NewStyle().Bold(true).Width(16)
	themeNameStyle = lipgloss.NewStyle().Width(18)
	modeLabelStyle = lipgloss.NewStyle().Faint(true)
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
)

func init() {
	rootCmd.AddCommand(themesCmd)

	themesCmd.Flags().StringVarP(&themesFormat, "format", "f", formatTable, "Output format (table, json, yaml)")
	themesCmd.Flags().BoolVar(&themesPick, "pick", false, "Pick a theme interactively and save it to the data file")
}

func runThemes(cmd *cobra.Command, args []string) error {
	if themesPick {
		return runThemePicker(cmd, args)
	}

	out := cmd.OutOrStdout()
	switch themesFormat {
	case formatTable, formatText:
		renderThemeTable(out, theme.All(), "")
		return nil
	case formatJSON:
		return writeJSON(out, theme.All())
	case formatYAML:
		return writeYAML(out, theme.All())
	default:
		return unsupportedFormat(themesFormat, formatTable, formatJSON, formatYAML)
	}
}

func renderThemeTable(w io.Writer, themes []theme.Theme, current string) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%d themes", len(themes))))
	for _, t := range themes {
		marker := "  "
		if t.ID == current {
			marker = "* "
		}
		row := lipgloss.JoinHorizontal(lipgloss.Top,
			marker,
			themeIDStyle.Render(t.ID),
			themeNameStyle.Render(t.Name),
			modeLabelStyle.Render("light "),
			swatches(t.Light),
			modeLabelStyle.Render("  dark "),
			swatches(t.Dark),
		)
		fmt.Fprintln(w, row)
	}
}

// swatches renders the swatch tokens of a set as coloured blocks.
func swatches(set theme.TokenSet) string {
	var b strings.Builder
	for _, name := range swatchTokens {
		value, ok := set.Get(name)
		if !ok {
			continue
		}
		b.WriteString(lipgloss.NewStyle().Background(lipgloss.Color(value)).Render("  "))
	}
	return b.String()
}

func runThemePicker(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path, err := dataFileArg(cfg, args)
	if err != nil {
		return err
	}

	d, err := loadData(path)
	if err != nil {
		return err
	}
	current := portfolio.Normalize(d).Theme

	chosen, err := pickTheme(cmd.InOrStdin(), cmd.OutOrStdout(), current)
	if err != nil {
		return err
	}
	if chosen == "" || chosen == current {
		fmt.Fprintln(cmd.OutOrStdout(), "Theme unchanged")
		return nil
	}

	d.Theme = chosen
	if err := portfolio.Save(path, d); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s now uses theme %s\n", path, chosen)
	return nil
}
