package tui

import (
	"io"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/dircacher/internal/tui/shared"
	"github.com/joe/dircacher/internal/warmer"
)

// RunFunc performs the warm and returns its result.
type RunFunc func() (*warmer.Summary, error)

// Run draws the progress view on out while run executes on its own goroutine.
// The bridge must already be the engine's event emitter; Run closes it when
// run returns. Signals are left to the caller's context. A view that fails
// to start is logged and the warm still completes.
func Run(source Source, bridge *shared.EventBridge, out io.Writer, logger *slog.Logger, run RunFunc) (*warmer.Summary, error) {
	model := NewModel(source, bridge, time.Now())
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithoutSignalHandler())

	type result struct {
		summary *warmer.Summary
		err     error
	}

	results := make(chan result, 1)

	go func() {
		summary, err := run()
		bridge.Close()
		results <- result{summary: summary, err: err}
		program.Send(shared.DoneMsg{Summary: summary, Err: err})
	}()

	_, uiErr := program.Run()
	if uiErr != nil {
		logger.Warn("progress view failed", slog.Any("error", uiErr))
	}

	res := <-results

	return res.summary, res.err
}
