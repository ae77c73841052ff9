package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SpinnerModel shows a spinner until done delivers the outcome of the
// remote call it waits for.
type SpinnerModel struct {
	title   string
	done    <-chan error
	spinner spinner.Model
	err     error
	fin     bool
}

type finishedMsg struct{ err error }

// NewSpinner returns a model that quits once done yields a value.
func NewSpinner(title string, done <-chan error) *SpinnerModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	return &SpinnerModel{title: title, done: done, spinner: sp}
}

// Err returns the outcome received from done.
func (m *SpinnerModel) Err() error { return m.err }

// Done reports whether the outcome arrived before the model quit.
func (m *SpinnerModel) Done() bool { return m.fin }

func (m *SpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return finishedMsg{err: <-m.done}
	})
}

func (m *SpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case finishedMsg:
		m.err = msg.err
		m.fin = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.fin {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *SpinnerModel) View() string {
	if m.fin {
		return ""
	}
	return m.spinner.View() + " " + m.title + "\n"
}
