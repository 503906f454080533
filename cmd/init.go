package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/kamusis/zsearch/internal/config"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [site]",
	Short: "Write a starter zsearch config",
	Long: `Create ~/.zsearch/zsearch.yaml and ~/.zsearch/.env.

The optional argument sets the site: an http(s) URL or a local build
directory containing search-index.json.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

var flagInitForce bool

func init() {
	initCmd.Flags().BoolVar(&flagInitForce, "force", false, "Overwrite an existing zsearch.yaml")
	rootCmd.AddCommand(initCmd)
}

func runInit(_ *cobra.Command, args []string) error {
	// ── 1. Resolve ~/.zsearch directory ───────────────────────────────────────
	dir, err := config.Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", dir, err)
	}
	printOK("", fmt.Sprintf("zsearch directory ready: %s", dir))

	// ── 2. Write zsearch.yaml if missing ──────────────────────────────────────
	cfgPath, err := config.ConfigPath()
	if err != nil {
		return err
	}
	_, statErr := os.Stat(cfgPath)
	switch {
	case statErr == nil && !flagInitForce:
		printSkip("", fmt.Sprintf("config already exists: %s", cfgPath))
	case statErr == nil || os.IsNotExist(statErr):
		cfg := config.DefaultConfig()
		if len(args) == 1 {
			cfg.Site = args[0]
			warnMissingSite(cfg.Site)
		}
		if err := config.Save(cfg); err != nil {
			return err
		}
		printOK("", fmt.Sprintf("config written: %s", cfgPath))
	default:
		return fmt.Errorf("cannot stat config %s: %w", cfgPath, statErr)
	}

	// ── 3. Dotenv template ────────────────────────────────────────────────────
	if err := config.EnsureDotEnvTemplate(); err != nil {
		return err
	}
	p, err := config.DotEnvPath()
	if err != nil {
		return err
	}
	printInfo("", fmt.Sprintf("environment overrides: %s", p))
	return nil
}

// warnMissingSite flags a local site directory that does not exist yet; the
// config is still written since the site may simply not be built.
func warnMissingSite(site string) {
	if strings.HasPrefix(site, "http://") || strings.HasPrefix(site, "https://") {
		return
	}
	p, err := config.ExpandPath(site)
	if err != nil {
		return
	}
	if _, err := os.Stat(p); err != nil {
		printWarn("", fmt.Sprintf("site directory not found: %s (build the site before searching)", p))
	}
}
