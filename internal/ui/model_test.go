package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nconklindev/ratoolkit/internal/backup"
	"github.com/nconklindev/ratoolkit/internal/config"
	"github.com/nconklindev/ratoolkit/internal/converter"
	"github.com/nconklindev/ratoolkit/internal/logging"
	"github.com/nconklindev/ratoolkit/internal/workflow"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestModel(t *testing.T, cfg *config.Config) (Model, *logging.Recorder) {
	t.Helper()
	rec := &logging.Recorder{}
	log := logging.New(rec)
	ctrl := workflow.NewController(
		converter.New(log),
		backup.NewService(filepath.Join(t.TempDir(), "backups"), "raBACKUP", log),
		log,
		workflow.Options{},
	)
	return NewModel(cfg, ctrl, nil, log), rec
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T; want Model", next)
	}
	return nm, cmd
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func TestNewModel_PrefillsExistingDefaults(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "Data.xlsx")
	if err := os.WriteFile(in, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	m, _ := newTestModel(t, &config.Config{InputFile: in, OutputFile: filepath.Join(dir, "missing.html")})

	if m.input.Value() != in {
		t.Errorf("input = %q; want %q", m.input.Value(), in)
	}
	if m.output.Value() != "" {
		t.Errorf("output = %q; want empty for a missing default", m.output.Value())
	}
}

func TestUpdate_FocusCycles(t *testing.T) {
	m, _ := newTestModel(t, &config.Config{})

	for i := 1; i <= focusCount; i++ {
		m, _ = update(t, m, key(tea.KeyTab))
		if m.focus != i%focusCount {
			t.Fatalf("After %d tabs focus = %d; want %d", i, m.focus, i%focusCount)
		}
	}

	m, _ = update(t, m, key(tea.KeyShiftTab))
	if m.focus != focusConvertButton {
		t.Errorf("shift+tab from first control: focus = %d; want %d", m.focus, focusConvertButton)
	}
}

func TestUpdate_TypingGoesToFocusedField(t *testing.T) {
	m, _ := newTestModel(t, &config.Config{})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if m.input.Value() != "q" {
		t.Errorf("input = %q; want q", m.input.Value())
	}

	m, _ = update(t, m, key(tea.KeyTab))
	m, _ = update(t, m, key(tea.KeyTab))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("o")})
	if m.output.Value() != "o" {
		t.Errorf("output = %q; want o", m.output.Value())
	}
}

func TestUpdate_ConvertRunsWorkflow(t *testing.T) {
	m, rec := newTestModel(t, &config.Config{})
	m.setFocus(focusConvertButton)

	m, cmd := update(t, m, key(tea.KeyEnter))
	if cmd == nil || !m.converting {
		t.Fatal("Expected a conversion command")
	}

	// A second press while running is ignored.
	if _, again := update(t, m, key(tea.KeyEnter)); again != nil {
		t.Error("Expected no command while a conversion is running")
	}

	msg := cmd()
	done, ok := msg.(conversionCompleteMsg)
	if !ok {
		t.Fatalf("cmd() returned %T; want conversionCompleteMsg", msg)
	}

	m, _ = update(t, m, done)
	if m.converting {
		t.Error("Expected converting to be cleared")
	}
	if m.lastState != workflow.StateRejected {
		t.Errorf("lastState = %v; want rejected for empty paths", m.lastState)
	}
	if rec.Count(logging.LevelWarning) != 1 {
		t.Errorf("Expected 1 warning, got %d", rec.Count(logging.LevelWarning))
	}
}

func TestUpdate_LogEntriesReachView(t *testing.T) {
	m, _ := newTestModel(t, &config.Config{})

	e := logging.Entry{Time: time.Now(), Level: logging.LevelInfo, Message: "Backed up a ---> b"}
	m, cmd := update(t, m, logEntryMsg(e))

	if cmd == nil {
		t.Error("Expected the model to keep listening for entries")
	}
	if len(m.logLines) != 1 || !strings.Contains(m.logLines[0], "Backed up a ---> b") {
		t.Errorf("logLines = %v", m.logLines)
	}
	if !strings.Contains(m.View(), "Backed up a ---> b") {
		t.Error("Log entry missing from view")
	}
}

func TestUpdate_PickerOpensAndCancels(t *testing.T) {
	m, _ := newTestModel(t, &config.Config{})
	m.setFocus(focusOutputButton)

	m, cmd := update(t, m, key(tea.KeyEnter))
	if m.state != statePickOutput || cmd == nil {
		t.Fatalf("state = %v, cmd nil = %v; want output picker with a read command", m.state, cmd == nil)
	}
	if len(m.filepicker.AllowedTypes) != 1 || m.filepicker.AllowedTypes[0] != ".html" {
		t.Errorf("AllowedTypes = %v; want [.html]", m.filepicker.AllowedTypes)
	}

	m, _ = update(t, m, key(tea.KeyEsc))
	if m.state != stateForm {
		t.Errorf("state = %v; want form after esc", m.state)
	}
}

func TestWaitForEntry(t *testing.T) {
	sink := logging.NewChannelSink(1)
	sink.Append(logging.Entry{Message: "hello"})

	msg := waitForEntry(sink.Entries())()
	e, ok := msg.(logEntryMsg)
	if !ok || e.Message != "hello" {
		t.Errorf("waitForEntry() = %#v; want entry hello", msg)
	}

	if waitForEntry(nil)() != nil {
		t.Error("Expected nil message without a channel")
	}
}
