package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/folio/internal/render"
	"github.com/conneroisu/folio/internal/server"
)

var previewCmd = &cobra.Command{
	Use:     "preview [data-file]",
	Aliases: []string{"p", "serve"},
	Short:   "Serve a live preview of the portfolio",
	Long: `Render the data file and serve the preview page. The page reloads whenever
the data file changes; the last good render stays up while the file has
errors. Each successful render is saved as a draft.

Examples:
  folio preview                     # Preview portfolio.yaml on localhost:8080
  folio preview me.json --port 3000 # Another file and port
  folio preview --no-open           # Do not open a browser
  folio preview --theme forest      # Try a theme without editing the file`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPreview,
}

var (
	previewNoOpen bool
	previewTheme  string
)

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().IntP("port", "p", 8080, "Port to serve on")
	previewCmd.Flags().String("host", "localhost", "Host to bind to")
	previewCmd.Flags().BoolVar(&previewNoOpen, "no-open", false, "Don't open browser automatically")
	previewCmd.Flags().StringVarP(&previewTheme, "theme", "t", "", "Theme id overriding the data file")

	addFlagValidation(previewCmd.Flags(), "port", validatePort)
	_ = viper.BindPFlag("server.port", previewCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("server.host", previewCmd.Flags().Lookup("host"))
}

func runPreview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if previewNoOpen {
		cfg.Server.Open = false
	}
	if previewTheme != "" {
		cfg.Portfolio.Theme = previewTheme
	}
	if cfg.Portfolio.Theme != "" {
		if err := render.CheckTheme(cfg.Portfolio.Theme); err != nil {
			return err
		}
	}

	path, err := dataFileArg(cfg, args)
	if err != nil {
		return err
	}

	logger := newLogger(cmd, cfg)

	drafts, closeDrafts, err := openDrafts(cfg, logger)
	if err != nil {
		// Previewing works without drafts.
		logger.Warn(commandContext(cmd), err, "Draft store unavailable; drafts will not be saved")
		drafts, closeDrafts = nil, func() {}
	}
	defer closeDrafts()

	srv, err := server.New(cfg, server.Options{
		DataFile: path,
		Logger:   logger,
		Drafts:   drafts,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Starting preview of %s at http://%s:%d (Ctrl+C to stop)\n",
		path, cfg.Server.Host, cfg.Server.Port)

	if err := srv.Start(ctx); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Preview server stopped")
	return nil
}
