package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/nconklindev/ratoolkit/internal/logging"
	"github.com/nconklindev/ratoolkit/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var errNoTerminal = errors.New("the interactive form needs a terminal; use `ratoolkit convert` instead")

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive form (same as default)",
	Long: `Open the interactive form: pick an input Excel file and an output HTML
file, then convert. Status messages appear in the log pane and are printed
to the console when the form closes.

Note: This is the same as running the program without any commands.`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		return errNoTerminal
	}

	// The alternate screen owns stdout while the form is open, so the console
	// copy of the log is printed once it closes.
	entries := logging.NewChannelSink(256)
	transcript := &logging.Recorder{}
	log := logging.New(logging.MultiSink{entries, transcript})

	warnOutsideHome(log)

	model := ui.NewModel(cfg, newController(log), entries.Entries(), log)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()

	console := logging.NewConsoleSink(os.Stdout)
	for _, e := range transcript.Entries() {
		console.Append(e)
	}
	if err != nil {
		return fmt.Errorf("running interactive form: %w", err)
	}
	return nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
