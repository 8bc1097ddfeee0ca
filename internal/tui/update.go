package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/dircacher/internal/tui/shared"
	"github.com/joe/dircacher/internal/warmer"
)

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case shared.TickMsg:
		if m.done {
			return m, nil
		}

		m.now = time.Time(msg)
		m.snapshot = m.source.Progress()

		return m, shared.TickCmd()

	case shared.EngineEventMsg:
		m.handleEvent(msg.Event)

		return m, m.bridge.ListenCmd()

	case shared.DoneMsg:
		m.done = true
		m.summary = msg.Summary
		m.err = msg.Err

		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case shared.KeyCtrlC, shared.KeyQuit:
		if !m.cancelling && !m.done {
			m.cancelling = true
			m.source.Cancel()
		}
	}

	return m, nil
}

func (m *Model) handleEvent(event warmer.Event) {
	switch e := event.(type) {
	case warmer.WarmStarted:
		m.workers = e.Workers
	case warmer.RootAccepted:
		m.roots = append(m.roots, e.Path)
	case warmer.RootRejected:
		m.rejected = append(m.rejected, e.Record)
	case warmer.EntryFailed:
		m.failures++

		m.recent = append(m.recent, e.Record)
		if len(m.recent) > shared.ErrorLimitInProgress {
			m.recent = m.recent[len(m.recent)-shared.ErrorLimitInProgress:]
		}
	case warmer.WarmProgress:
		m.snapshot = e.Progress
	case warmer.WarmComplete:
		m.snapshot = warmer.Progress{
			DirsVisited:   e.Summary.DirsVisited,
			Files:         e.Summary.Files,
			Symlinks:      e.Summary.Symlinks,
			EntriesProbed: e.Summary.EntriesProbed,
			Errors:        int64(e.Summary.TotalErrors()),
		}
	}
}
