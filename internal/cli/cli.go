// Package cli implements hrlctl, a terminal front-end to the project catalog
// and the explore page.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/rpggio/hrl-explorer/internal/app"
	"github.com/rpggio/hrl-explorer/internal/config"
	"github.com/rpggio/hrl-explorer/internal/explore"
	"github.com/spf13/cobra"
)

// RootCmd returns hrlctl with all subcommands.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hrlctl",
		Short: "Browse habitat restoration projects from the terminal",
		Long: `hrlctl imports a project catalog into the local database and renders the
explore page: the project list and the map camera for a selection.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().String("db", "", "Database path (default from HRL_DB_PATH or config)")
	root.PersistentFlags().Bool("verbose", false, "Log to stderr")

	root.AddCommand(ImportCmd())
	root.AddCommand(ListCmd())
	root.AddCommand(ShowCmd())
	root.AddCommand(LegendCmd())
	return root
}

// openApp loads configuration, applies flags and opens the database.
func openApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if dbPath, _ := cmd.Flags().GetString("db"); dbPath != "" {
		cfg.DB.Path = dbPath
	}

	logger := slog.New(slog.DiscardHandler)
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return app.Open(cfg, logger)
}

// toneColor picks the terminal color for a status tone.
func toneColor(tone explore.Tone) *color.Color {
	switch tone {
	case explore.ToneSuccess:
		return color.New(color.FgHiGreen)
	case explore.ToneWarning:
		return color.New(color.FgYellow)
	case explore.ToneInfo:
		return color.New(color.FgCyan)
	default:
		return color.New(color.FgHiBlack)
	}
}

func statusChip(style explore.StatusStyle) string {
	return toneColor(style.Tone).Sprintf("[%s]", style.Label)
}

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// Execute runs hrlctl and exits non-zero on error.
func Execute() {
	if err := RootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
