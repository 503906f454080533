package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kamusis/zsearch/internal/config"
	"github.com/kamusis/zsearch/internal/theme"
	"github.com/spf13/cobra"
)

var (
	flagThemePrefersDark bool
	flagThemeViewport    string
	flagThemeOrigin      string
)

// toggleInset is the distance of the toggle button from the top and right
// viewport edges when --origin is not given.
const toggleInset = 32

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Show or change the persisted theme preference",
	Long: `Show or change the light/dark/auto theme preference stored in
~/.zsearch/state.yaml. The interactive view reads the same preference.`,
	Args: cobra.NoArgs,
	RunE: runThemeShow,
}

var themeShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current theme state",
	Args:  cobra.NoArgs,
	RunE:  runThemeShow,
}

var themeCycleCmd = &cobra.Command{
	Use:   "cycle",
	Short: "Advance to the next mode (auto → light → dark)",
	Args:  cobra.NoArgs,
	RunE:  runThemeCycle,
}

var themeSetCmd = &cobra.Command{
	Use:       "set <light|dark|auto>",
	Short:     "Set the theme mode",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(theme.Light), string(theme.Dark), string(theme.Auto)},
	RunE:      runThemeSet,
}

func init() {
	themeCmd.PersistentFlags().BoolVar(&flagThemePrefersDark, "prefers-dark", false, "Resolve auto mode as if the system prefers dark")
	themeCmd.PersistentFlags().StringVar(&flagThemeViewport, "viewport", "1280x800", "Viewport size WxH used to size the reveal transition")
	themeCmd.PersistentFlags().StringVar(&flagThemeOrigin, "origin", "", "Toggle position X,Y in the viewport (default: top-right corner)")
	themeCmd.AddCommand(themeShowCmd, themeCycleCmd, themeSetCmd)
	rootCmd.AddCommand(themeCmd)
}

// newThemeToggle builds the toggle over the persisted state file. Auto mode
// resolves through prefersDark.
func newThemeToggle(prefersDark func() bool) (*theme.Toggle, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("cannot load config: %w", err)
	}
	statePath, err := config.StatePath()
	if err != nil {
		return nil, err
	}
	tc := theme.ResolveConfig(cfg.Theme.DefaultMode, cfg.Theme.StorageKey)
	return theme.NewToggle(tc, &theme.FileStore{Path: statePath}, "", prefersDark), nil
}

func flagPrefersDark() bool { return flagThemePrefersDark }

func runThemeShow(_ *cobra.Command, _ []string) error {
	t, err := newThemeToggle(flagPrefersDark)
	if err != nil {
		return err
	}
	return printThemeState(t.State())
}

func runThemeCycle(_ *cobra.Command, _ []string) error {
	t, err := newThemeToggle(flagPrefersDark)
	if err != nil {
		return err
	}
	return printThemeState(t.Cycle())
}

func runThemeSet(_ *cobra.Command, args []string) error {
	mode := theme.Mode(strings.ToLower(strings.TrimSpace(args[0])))
	if !mode.Valid() {
		return fmt.Errorf("unknown theme mode %q (want light, dark or auto)", args[0])
	}
	t, err := newThemeToggle(flagPrefersDark)
	if err != nil {
		return err
	}
	return printThemeState(t.Set(mode))
}

func printThemeState(st theme.State) error {
	printOK("", fmt.Sprintf("%s (mode %s, effective %s)", st.Label, st.Mode, st.Effective))
	printInfo("", st.AriaLabel)
	if !st.Animate {
		return nil
	}
	r, err := revealRadius(flagThemeViewport, flagThemeOrigin)
	if err != nil {
		return err
	}
	printInfo("", fmt.Sprintf("transition: %s reveal to radius %.0fpx, %s hold",
		theme.TransitionDuration, r, theme.AnimationHold))
	return nil
}

// revealRadius sizes the circular reveal for a "WxH" viewport centred on
// an "X,Y" origin. An empty origin places the toggle in the top-right corner.
func revealRadius(viewport, origin string) (float64, error) {
	w, h, err := parsePair(viewport, "x")
	if err != nil {
		return 0, fmt.Errorf("invalid viewport %q (want WxH): %w", viewport, err)
	}
	if w <= 0 || h <= 0 {
		return 0, fmt.Errorf("invalid viewport %q: size must be positive", viewport)
	}
	x, y := max(w-toggleInset, 0), min(float64(toggleInset), h)
	if origin != "" {
		if x, y, err = parsePair(origin, ","); err != nil {
			return 0, fmt.Errorf("invalid origin %q (want X,Y): %w", origin, err)
		}
	}
	return theme.RevealRadius(x, y, w, h), nil
}

func parsePair(s, sep string) (float64, float64, error) {
	a, b, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), sep)
	if !ok {
		return 0, 0, fmt.Errorf("missing %q", sep)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(a), 64)
	if err != nil {
		return 0, 0, err
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(b), 64)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}
