package ui

import (
	"github.com/nconklindev/ratoolkit/internal/logging"

	"github.com/charmbracelet/lipgloss"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF8C42")).
			MarginTop(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			MarginBottom(1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFB84D")).
			Bold(true)

	ButtonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#374151")).
			Padding(0, 2)

	FocusedButtonStyle = ButtonStyle.
				Foreground(lipgloss.Color("#000000")).
				Background(lipgloss.Color("#FF8C42")).
				Bold(true)

	BusyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Italic(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			MarginTop(1)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FF8C42")).
			Padding(1, 2)

	LogBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#6B7280")).
			Padding(0, 1)

	// LogStyles color log view lines by severity.
	LogStyles = map[logging.Level]lipgloss.Style{
		logging.LevelInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E")),
		logging.LevelWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("#FACC15")),
		logging.LevelError:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4757")).Bold(true),
	}
)
