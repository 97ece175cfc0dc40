package main

// progress.go - spinner shown while the engine runs on a terminal.

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"disagg/internal/disagg"
)

const pollInterval = 100 * time.Millisecond

type (
	progressMsg disagg.Progress
	doneMsg     struct{}
)

// progressModel polls the engine counters; it never touches the run
// itself except to cancel it.
type progressModel struct {
	label    string
	spinner  spinner.Model
	poll     func() disagg.Progress
	cancel   context.CancelFunc
	progress disagg.Progress

	canceling bool
	done      bool
}

func newProgressModel(label string, poll func() disagg.Progress, cancel context.CancelFunc) progressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return progressModel{label: label, spinner: s, poll: poll, cancel: cancel}
}

func (m progressModel) pollCmd() tea.Cmd {
	poll := m.poll
	return tea.Tick(pollInterval, func(time.Time) tea.Msg { return progressMsg(poll()) })
}

func (m progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.pollCmd())
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			// The engine stops at the next source and then sends doneMsg.
			if !m.canceling {
				m.canceling = true
				m.cancel()
			}
		}
		return m, nil
	case progressMsg:
		m.progress = disagg.Progress(msg)
		if m.done {
			return m, nil
		}
		return m, m.pollCmd()
	case doneMsg:
		m.done = true
		m.progress = m.poll()
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.done {
		return ""
	}
	status := progressLine(titleStyle.Render(m.label), m.progress)
	if m.canceling {
		status += dimStyle.Render("  canceling…")
	}
	return m.spinner.View() + " " + status + "\n"
}
