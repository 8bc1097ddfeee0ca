// Package tui draws a live progress view while the engine warms the cache.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/joe/dircacher/internal/tui/shared"
	"github.com/joe/dircacher/internal/warmer"
	errs "github.com/joe/dircacher/pkg/errors"
)

// Source is what the view reads from a running engine. *warmer.Engine implements it.
type Source interface {
	Progress() warmer.Progress
	Cancel()
}

// Model represents the progress view state
type Model struct {
	source Source
	bridge *shared.EventBridge

	spinner  spinner.Model
	busy     progress.Model
	snapshot warmer.Progress

	roots    []string
	rejected []*errs.Record
	recent   []*errs.Record
	failures int
	workers  int

	started time.Time
	now     time.Time
	width   int

	cancelling bool
	done       bool
	summary    *warmer.Summary
	err        error
}

// NewModel creates a progress view for source, listening on bridge.
func NewModel(source Source, bridge *shared.EventBridge, started time.Time) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(shared.PrimaryColor())

	busy := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(busyBarWidth),
	)

	return Model{
		source:  source,
		bridge:  bridge,
		spinner: s,
		busy:    busy,
		started: started,
		now:     started,
	}
}

// Cancelling reports whether the user asked to stop the run.
func (m Model) Cancelling() bool {
	return m.cancelling
}

// Done reports whether the run has finished.
func (m Model) Done() bool {
	return m.done
}

// Init starts the spinner, the progress ticks and the event listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		shared.TickCmd(),
		m.bridge.ListenCmd(),
	)
}

// Result returns the summary and error delivered by DoneMsg.
func (m Model) Result() (*warmer.Summary, error) {
	return m.summary, m.err
}

// unexported constants.
const (
	busyBarWidth = 30
)
