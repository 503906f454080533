package cmd

import (
	"fmt"

	"github.com/kamusis/zsearch/internal/search/index"
	"github.com/kamusis/zsearch/internal/server"
	"github.com/spf13/cobra"
)

var (
	flagServe         searchFlags
	flagServeAddr     string
	flagServeAllowAll bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a site directory with a live search endpoint",
	Long: `Serve a built site directory and answer search queries over HTTP:

  GET /search?q=...      results panel as an HTML fragment
  GET /api/search?q=...  results as JSON
  GET /healthz           liveness and index state

The index is fetched on the first qualifying query and reused until exit.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	addSearchFlags(serveCmd, &flagServe)
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().BoolVar(&flagServeAllowAll, "cors-allow-all", false, "Allow cross-origin requests from any origin")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	setup, err := resolveSearchSetup(cmd, &flagServe)
	if err != nil {
		return err
	}

	cfg := server.Config{
		Addr:     flagServeAddr,
		AllowAll: flagServeAllowAll,
		Search:   setup.search,
	}
	// Only a local build can be served statically.
	if _, ok := setup.source.(*index.FileSource); ok {
		cfg.SiteDir = setup.site
	}

	printInfo("", fmt.Sprintf("serving %s on %s", setup.site, flagServeAddr))
	srv := server.New(cfg, index.NewLoader(setup.source))
	return srv.Run(cmd.Context())
}
