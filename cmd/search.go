package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kamusis/zsearch/internal/controller"
	"github.com/kamusis/zsearch/internal/render"
	"github.com/kamusis/zsearch/internal/search/index"
	"github.com/spf13/cobra"
)

var (
	flagSearch     searchFlags
	flagSearchHTML bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the site's posts once and print the ranked results",
	Long: `Load the site's search index and print the posts matching every query
term, best match first.

Configuration is read from ~/.zsearch/zsearch.yaml, then from the search
container of --page when set, then from flags given on the command line.`,
	Args: cobra.ArbitraryArgs,
	RunE: runSearch,
}

func init() {
	addSearchFlags(searchCmd, &flagSearch)
	searchCmd.Flags().BoolVar(&flagSearchHTML, "html", false, "Print the results panel as an HTML fragment")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	query := strings.Join(args, " ")

	setup, err := resolveSearchSetup(cmd, &flagSearch)
	if err != nil {
		return err
	}

	// Keep the last frame that is not a loading notice.
	var final render.Frame
	surface := render.SurfaceFunc(func(f render.Frame) {
		if f.Status.Kind != render.StatusLoading {
			final = f
		}
	})

	loader := index.NewLoader(setup.source)
	ctrl := controller.New(setup.search, loader, surface)
	defer ctrl.Close()

	if !ctrl.Search(cmd.Context(), query) {
		if err := cmd.Context().Err(); err != nil {
			return err
		}
	}

	if flagSearchHTML {
		if err := render.WriteHTML(os.Stdout, final); err != nil {
			return err
		}
	} else {
		fmt.Printf("\nzsearch search %q\n\n", query)
		fmt.Print(render.FormatText(final))
	}

	if loader.Failed() {
		return errors.New("search index could not be loaded (run with --debug for details)")
	}
	return nil
}
