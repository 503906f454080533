package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var flagDebug bool

var rootCmd = &cobra.Command{
	Use:          "zsearch",
	Short:        "zsearch: search a static blog's published index",
	SilenceUsage: true, // don't print usage on operational errors
	Long: `zsearch loads a site's search-index.json once, ranks posts against a
query and renders highlighted results as text, HTML or an interactive view.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		configureLogging(flagDebug)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Print debug information")
}

// configureLogging routes library diagnostics to stderr.
func configureLogging(debug bool) {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(h))
}

// Execute is called by main.go.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
