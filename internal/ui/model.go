package ui

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nconklindev/ratoolkit/internal/config"
	"github.com/nconklindev/ratoolkit/internal/converter"
	"github.com/nconklindev/ratoolkit/internal/logging"
	"github.com/nconklindev/ratoolkit/internal/types"
	"github.com/nconklindev/ratoolkit/internal/workflow"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	InputFileTypes  = []string{".xlsx", ".xls"}
	OutputFileTypes = []string{".html"}
)

type state int

const (
	stateForm state = iota
	statePickInput
	statePickOutput
)

// Focusable controls on the form, in tab order.
const (
	focusInputField = iota
	focusInputButton
	focusOutputField
	focusOutputButton
	focusConvertButton
	focusCount
)

const logHeight = 10

type Model struct {
	state      state
	focus      int
	input      textinput.Model
	output     textinput.Model
	filepicker filepicker.Model
	logView    viewport.Model
	logLines   []string
	entries    <-chan logging.Entry
	workflow   *workflow.Controller
	log        *slog.Logger
	converting bool
	lastState  workflow.State
	width      int
	height     int
}

type logEntryMsg logging.Entry

type conversionCompleteMsg struct {
	state workflow.State
	err   error
}

// NewModel builds the form. Fields start with the configured defaults when
// those files exist. entries feeds the log view; ctrl runs conversions.
func NewModel(cfg *config.Config, ctrl *workflow.Controller, entries <-chan logging.Entry, log *slog.Logger) Model {
	input := textinput.New()
	input.Placeholder = "path/to/Data.xlsx"
	input.Prompt = "› "
	input.Focus()

	output := textinput.New()
	output.Placeholder = "path/to/output.html"
	output.Prompt = "› "

	if converter.FileExists(cfg.InputFile) {
		input.SetValue(cfg.InputFile)
	}
	if converter.FileExists(cfg.OutputFile) {
		output.SetValue(cfg.OutputFile)
	}

	return Model{
		state:    stateForm,
		focus:    focusInputField,
		input:    input,
		output:   output,
		logView:  viewport.New(80, logHeight),
		entries:  entries,
		workflow: ctrl,
		log:      log,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForEntry(m.entries))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		m.logView.Width = max(msg.Width-4, 20)
		m.input.Width = max(msg.Width-30, 20)
		m.output.Width = m.input.Width

		if m.state != stateForm {
			m.filepicker.SetHeight(pickerHeight(msg.Height))
		}
		return m, nil

	case logEntryMsg:
		m.appendLog(logging.Entry(msg))
		return m, waitForEntry(m.entries)

	case conversionCompleteMsg:
		m.converting = false
		m.lastState = msg.state
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.state {
		case stateForm:
			return m.updateForm(msg)
		case statePickInput, statePickOutput:
			if msg.String() == "esc" {
				m.state = stateForm
				return m, nil
			}
		}
	}

	if m.state == statePickInput || m.state == statePickOutput {
		return m.updatePicker(msg)
	}

	var cmd tea.Cmd
	m.logView, cmd = m.logView.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "tab", "down":
		m.setFocus((m.focus + 1) % focusCount)
		return m, nil
	case "shift+tab", "up":
		m.setFocus((m.focus - 1 + focusCount) % focusCount)
		return m, nil
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.logView, cmd = m.logView.Update(msg)
		return m, cmd
	case "enter":
		switch m.focus {
		case focusInputButton:
			return m.openPicker(statePickInput, m.input.Value(), InputFileTypes)
		case focusOutputButton:
			return m.openPicker(statePickOutput, m.output.Value(), OutputFileTypes)
		case focusConvertButton:
			return m.convert()
		default:
			m.setFocus(m.focus + 1)
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusInputField:
		m.input, cmd = m.input.Update(msg)
	case focusOutputField:
		m.output, cmd = m.output.Update(msg)
	}
	return m, cmd
}

func (m *Model) setFocus(focus int) {
	m.focus = focus
	m.input.Blur()
	m.output.Blur()
	switch focus {
	case focusInputField:
		m.input.Focus()
	case focusOutputField:
		m.output.Focus()
	}
}

func (m Model) openPicker(s state, current string, allowed []string) (tea.Model, tea.Cmd) {
	fp := newFilePicker(allowed)
	if current != "" {
		if info, err := os.Stat(filepath.Dir(current)); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(filepath.Dir(current)); err == nil {
				fp.CurrentDirectory = abs
			}
		}
	}
	if m.height > 0 {
		fp.SetHeight(pickerHeight(m.height))
	}
	m.filepicker = fp
	m.state = s
	return m, m.filepicker.Init()
}

func (m Model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.filepicker, cmd = m.filepicker.Update(msg)

	if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect && converter.FileExists(path) {
		if m.state == statePickInput {
			m.input.SetValue(path)
			m.log.Info(fmt.Sprintf("Updated input file path: %s", path))
		} else {
			m.output.SetValue(path)
			m.log.Info(fmt.Sprintf("Updated output file path: %s", path))
		}
		m.state = stateForm
		return m, nil
	}

	return m, cmd
}

// convert starts a run unless one is already in progress.
func (m Model) convert() (tea.Model, tea.Cmd) {
	if m.converting {
		return m, nil
	}
	m.converting = true

	req := types.ConversionRequest{
		InputFile:  m.input.Value(),
		OutputFile: m.output.Value(),
	}
	ctrl := m.workflow
	return m, func() tea.Msg {
		s, err := ctrl.Run(req)
		return conversionCompleteMsg{state: s, err: err}
	}
}

func (m *Model) appendLog(e logging.Entry) {
	m.logLines = append(m.logLines, LogStyles[e.Level].Render(e.String()))
	m.logView.SetContent(strings.Join(m.logLines, "\n"))
	m.logView.GotoBottom()
}

func waitForEntry(entries <-chan logging.Entry) tea.Cmd {
	return func() tea.Msg {
		if entries == nil {
			return nil
		}
		e, ok := <-entries
		if !ok {
			return nil
		}
		return logEntryMsg(e)
	}
}

// pickerHeight leaves room for the title, subtitle and help lines.
func pickerHeight(windowHeight int) int {
	return max(windowHeight-8, 5)
}

func newFilePicker(allowed []string) filepicker.Model {
	fp := filepicker.New()
	fp.AllowedTypes = allowed
	fp.CurrentDirectory, _ = os.Getwd()

	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8C42"))
	fp.Styles.Symlink = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB84D"))
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB84D"))
	fp.Styles.File = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	fp.Styles.Permission = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8C42")).Bold(true)
	fp.Styles.FileSize = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	return fp
}

func (m Model) View() string {
	switch m.state {
	case statePickInput:
		return m.viewPicker("Import Riot Acts Excel File", "Excel files (.xlsx, .xls)")
	case statePickOutput:
		return m.viewPicker("Export Riot Acts HTML File", "HTML files (.html)")
	}
	return m.viewForm()
}

func (m Model) viewForm() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("Riot Acts Toolkit"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render("Convert an Excel sheet to an HTML table"))
	s.WriteString("\n")

	var form strings.Builder
	form.WriteString(LabelStyle.Render("Input Excel file location:"))
	form.WriteString("\n")
	form.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, m.input.View(), "  ", m.button("Select Input File...", focusInputButton)))
	form.WriteString("\n\n")
	form.WriteString(LabelStyle.Render("Output HTML file location:"))
	form.WriteString("\n")
	form.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, m.output.View(), "  ", m.button("Select Output File...", focusOutputButton)))
	form.WriteString("\n\n")
	form.WriteString(m.button("Convert", focusConvertButton))
	if m.converting {
		form.WriteString("  ")
		form.WriteString(BusyStyle.Render("converting..."))
	}

	s.WriteString(BoxStyle.Render(form.String()))
	s.WriteString("\n")
	s.WriteString(LogBoxStyle.Render(m.logView.View()))
	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("tab/shift+tab: move • enter: select • pgup/pgdown: scroll log • esc: quit"))

	return s.String()
}

func (m Model) button(label string, focus int) string {
	if m.focus == focus {
		return FocusedButtonStyle.Render(label)
	}
	return ButtonStyle.Render(label)
}

func (m Model) viewPicker(title, subtitle string) string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render(title))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render(subtitle))
	s.WriteString("\n\n")
	s.WriteString(m.filepicker.View())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("enter: select • esc: cancel"))

	return s.String()
}
