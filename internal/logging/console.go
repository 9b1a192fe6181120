package logging

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// ConsoleSink mirrors entries to a terminal stream, colored by severity.
// Colors are dropped automatically when w is not a terminal.
type ConsoleSink struct {
	mu     sync.Mutex
	w      io.Writer
	styles map[Level]lipgloss.Style
}

func NewConsoleSink(w io.Writer) *ConsoleSink {
	r := lipgloss.NewRenderer(w)
	return &ConsoleSink{
		w: w,
		styles: map[Level]lipgloss.Style{
			LevelInfo:    r.NewStyle().Foreground(lipgloss.Color("10")),
			LevelWarning: r.NewStyle().Foreground(lipgloss.Color("11")),
			LevelError:   r.NewStyle().Foreground(lipgloss.Color("9")),
		},
	}
}

func (c *ConsoleSink) Append(e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.w, c.styles[e.Level].Render(e.String()))
}
