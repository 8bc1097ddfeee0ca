package tui

import (
	"fmt"
	"strings"

	"github.com/joe/dircacher/internal/tui/shared"
	errs "github.com/joe/dircacher/pkg/errors"
)

// View renders the progress box. It is empty once the run is done so the
// report printed afterwards stands alone.
func (m Model) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")

	if m.cancelling {
		b.WriteString(shared.RenderWarning("Cancelling, waiting for in-flight directories..."))
	} else {
		b.WriteString(shared.RenderTitle("Warming " + m.rootsLabel()))
	}

	b.WriteString("\n\n")

	elapsed := m.now.Sub(m.started)
	p := m.snapshot

	fmt.Fprintf(&b, "%s %s\n", shared.RenderLabel("Seen:"), shared.JoinSeries([]string{
		shared.FormatCount(p.Files, "file"),
		shared.FormatCount(p.Symlinks, "symlink"),
		shared.FormatCount(p.DirsVisited, "dir"),
	}))
	fmt.Fprintf(&b, "%s %s queued, %s in flight\n", shared.RenderLabel("Queue:"),
		shared.GroupDigits(p.Queued), shared.GroupDigits(p.InFlight))
	fmt.Fprintf(&b, "%s %s (%s)\n", shared.RenderLabel("Elapsed:"),
		shared.FormatDuration(elapsed), shared.FormatRate(p.EntriesProbed, elapsed, "entries"))

	if m.workers > 0 {
		fmt.Fprintf(&b, "%s %s %d/%d\n", shared.RenderLabel("Workers:"),
			m.busy.ViewAs(m.busyFraction()), min(p.InFlight, int64(m.workers)), m.workers)
	}

	m.renderErrors(&b)

	b.WriteString("\n")
	b.WriteString(shared.RenderDim("Press q or Ctrl+C to cancel"))

	return shared.RenderBox(b.String()) + "\n"
}

func (m Model) busyFraction() float64 {
	if m.workers <= 0 {
		return 0
	}

	return min(1, float64(m.snapshot.InFlight)/float64(m.workers))
}

func (m Model) maxPathWidth() int {
	const chrome = 12 // box border, padding and the indent of error lines

	if m.width <= chrome {
		return 0
	}

	return m.width - chrome
}

func (m Model) renderErrors(b *strings.Builder) {
	if len(m.rejected) == 0 && m.failures == 0 {
		return
	}

	b.WriteString("\n")
	fmt.Fprintf(b, "%s %s\n", shared.RenderError("Errors:"), shared.GroupDigits(int64(len(m.rejected)+m.failures)))

	records := make([]*errs.Record, 0, len(m.rejected)+len(m.recent))
	records = append(records, m.rejected...)
	records = append(records, m.recent...)

	b.WriteString(shared.RenderErrorList(shared.ErrorListConfig{
		Records:  records,
		Context:  shared.ContextInProgress,
		MaxWidth: m.maxPathWidth(),
	}))
}

func (m Model) rootsLabel() string {
	switch len(m.roots) {
	case 0:
		return "..."
	case 1:
		return m.roots[0]
	default:
		return fmt.Sprintf("%s and %d more", m.roots[0], len(m.roots)-1)
	}
}
