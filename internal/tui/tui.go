// Package tui renders the run with a spinner and a final summary.
package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tsepang/aisplit/internal/app"
	"github.com/tsepang/aisplit/internal/model"
)

// --- Styles ---
var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))
	pathStyle    = lipgloss.NewStyle()
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// Task produces the summary to display; it runs in the background while
// the spinner animates.
type Task func() (model.Summary, error)

// --- Messages ---
type summaryMsg struct {
	model.Summary
}

type errorMsg struct{ err error }

func (e errorMsg) Error() string { return e.err.Error() }

// --- Model ---
type Model struct {
	task    Task
	spinner spinner.Model
	state   state
	summary summaryMsg
	err     error
}

type state int

const (
	stateProcessing state = iota
	stateSummary
	stateError
)

func New(task Task) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return Model{
		task:    task,
		spinner: s,
		state:   stateProcessing,
	}
}

// Run executes the task, with or without the spinner animation, and
// returns its summary.
func Run(task Task, noAnimation bool) (model.Summary, error) {
	if noAnimation {
		summary, err := task()
		if err != nil {
			return model.Summary{}, err
		}
		fmt.Print(renderSummary(summary))
		return summary, nil
	}

	m := New(task)
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return model.Summary{}, err
	}
	fm := final.(Model)
	if fm.err != nil {
		return model.Summary{}, fm.err
	}
	return fm.summary.Summary, nil
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.runTask)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case summaryMsg:
		m.state = stateSummary
		m.summary = msg
		return m, tea.Quit

	case errorMsg:
		m.state = stateError
		m.err = msg.err
		return m, tea.Quit

	default:
		var cmd tea.Cmd
		if m.state == stateProcessing {
			m.spinner, cmd = m.spinner.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	switch m.state {
	case stateProcessing:
		return fmt.Sprintf("%s Processing...", m.spinner.View())
	case stateError:
		return errorStyle.Render("Error: ", m.err.Error())
	case stateSummary:
		return renderSummary(m.summary.Summary)
	default:
		return ""
	}
}

func renderSummary(s model.Summary) string {
	var b strings.Builder

	if s.Message != "" {
		b.WriteString(headerStyle.Render(s.Message))
		b.WriteString("\n\n")
	}

	section := func(style lipgloss.Style, title string, files []string) {
		if len(files) == 0 {
			return
		}
		b.WriteString(style.Render(title))
		b.WriteString("\n")
		for _, f := range files {
			b.WriteString(fmt.Sprintf("  %s\n", pathStyle.Render(f)))
		}
	}

	section(successStyle, "Created:", s.Created)
	section(successStyle, "Modified:", s.Modified)
	section(warnStyle, "Skipped:", s.Skipped)
	section(errorStyle, "Failed:", s.Failed)

	if s.Empty() && s.Message == "" {
		b.WriteString(faintStyle.Render("Nothing to do."))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) runTask() tea.Msg {
	summary, err := m.task()
	if err != nil {
		// Print stack traces outside the TUI frame.
		if e, ok := err.(*app.DetailedError); ok {
			fmt.Fprintf(os.Stderr, "\n--- Stack Trace ---\n%s\n", e.Stack)
		}
		return errorMsg{err}
	}
	return summaryMsg{Summary: summary}
}
