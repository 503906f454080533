package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kamusis/zsearch/internal/controller"
	"github.com/kamusis/zsearch/internal/search/index"
	"github.com/kamusis/zsearch/internal/tui"
	"github.com/spf13/cobra"
)

var flagInteractive searchFlags

var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"i"},
	Short:   "Search as you type in a terminal UI",
	Args:    cobra.NoArgs,
	RunE:    runInteractive,
}

func init() {
	addSearchFlags(interactiveCmd, &flagInteractive)
	rootCmd.AddCommand(interactiveCmd)
}

func runInteractive(cmd *cobra.Command, _ []string) error {
	setup, err := resolveSearchSetup(cmd, &flagInteractive)
	if err != nil {
		return err
	}

	toggle, err := newThemeToggle(tui.TerminalPrefersDark())
	if err != nil {
		return err
	}

	surface := tui.NewSurface()
	ctrl := controller.New(setup.search, index.NewLoader(setup.source), surface)
	defer ctrl.Close()
	ctrl.Start()

	p := tea.NewProgram(tui.NewModel(ctrl, surface, toggle), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	surface.SetNotify(p.Send)
	_, err = p.Run()
	return err
}
