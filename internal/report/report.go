// Package report renders the summary of a warming run for humans.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/joe/dircacher/internal/tui/shared"
	"github.com/joe/dircacher/internal/warmer"
	errs "github.com/joe/dircacher/pkg/errors"
)

// Options control what the report includes.
type Options struct {
	// ListErrors lists every retained record with its hints instead of a short sample.
	ListErrors bool

	// MaxWidth truncates listed paths and messages; 0 leaves them whole.
	MaxWidth int
}

// Headline returns the one-line result, e.g. "Processed 3 files, 1 symlink, and 2 dirs in 420ms".
func Headline(summary *warmer.Summary) string {
	counts := shared.JoinSeries([]string{
		shared.FormatCount(summary.Files, "file"),
		shared.FormatCount(summary.Symlinks, "symlink"),
		shared.FormatCount(summary.DirsVisited, "dir"),
	})

	return "Processed " + counts + " in " + shared.FormatDuration(summary.Elapsed)
}

// Render returns the full report for summary.
func Render(summary *warmer.Summary, opts Options) string {
	var builder strings.Builder

	renderTitle(&builder, summary)
	builder.WriteString(Headline(summary))
	builder.WriteString("\n")

	renderRoots(&builder, summary, opts)
	renderSkipped(&builder, summary)
	renderStatistics(&builder, summary)
	renderErrors(&builder, summary, opts)

	return builder.String()
}

// Write renders the report for summary to w.
func Write(w io.Writer, summary *warmer.Summary, opts Options) error {
	_, err := io.WriteString(w, Render(summary, opts))
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}

func renderTitle(builder *strings.Builder, summary *warmer.Summary) {
	switch {
	case summary.Cancelled:
		builder.WriteString(shared.RenderWarning(shared.CancelledSymbol() + " Cache warm cancelled"))
	case summary.RootsRejected > 0:
		builder.WriteString(shared.RenderError(shared.ErrorSymbol() + " Cache warm finished with invalid roots"))
	case summary.RootsFailed > 0:
		builder.WriteString(shared.RenderError(shared.ErrorSymbol() + " Cache warm finished with unreadable roots"))
	case summary.TotalErrors() > 0:
		builder.WriteString(shared.RenderWarning(shared.SuccessSymbol() + " Cache warm complete with errors"))
	default:
		builder.WriteString(shared.RenderSuccess(shared.SuccessSymbol() + " Cache warm complete"))
	}

	builder.WriteString("\n")
}

func renderRoots(builder *strings.Builder, summary *warmer.Summary, opts Options) {
	builder.WriteString("\n")
	builder.WriteString(shared.RenderLabel("Roots:"))
	builder.WriteString("\n")

	for _, root := range summary.Roots {
		fmt.Fprintf(builder, "  %s %s\n", shared.BulletSymbol(), root)
	}

	if len(summary.Roots) == 0 {
		builder.WriteString(shared.RenderDim("  (none accepted)"))
		builder.WriteString("\n")
	}

	if summary.DuplicateRoots > 0 {
		writeLine(builder, "duplicates", shared.GroupDigits(int64(summary.DuplicateRoots)))
	}

	if summary.RootsFailed > 0 {
		writeLine(builder, "unreadable", shared.GroupDigits(int64(summary.RootsFailed)))
	}

	invalid := make([]*errs.Record, 0, summary.RootsRejected)

	for _, rec := range summary.Errors {
		if rec.Kind == errs.KindInvalidRoot {
			invalid = append(invalid, rec)
		}
	}

	if len(invalid) == 0 {
		return
	}

	builder.WriteString(shared.RenderError("Invalid roots:"))
	builder.WriteString("\n")
	builder.WriteString(shared.RenderErrorList(shared.ErrorListConfig{
		Records:  invalid,
		Context:  shared.ContextAll,
		MaxWidth: opts.MaxWidth,
	}))
}

func renderSkipped(builder *strings.Builder, summary *warmer.Summary) {
	if summary.MountsSkipped == 0 && summary.Excluded == 0 && summary.DuplicateDirs == 0 {
		return
	}

	builder.WriteString("\n")
	builder.WriteString(shared.RenderLabel("Skipped:"))
	builder.WriteString("\n")

	if summary.MountsSkipped > 0 {
		writeLine(builder, "mount boundaries", shared.GroupDigits(summary.MountsSkipped))
	}

	if summary.Excluded > 0 {
		writeLine(builder, "excluded", shared.GroupDigits(summary.Excluded))
	}

	if summary.DuplicateDirs > 0 {
		writeLine(builder, "already walked", shared.GroupDigits(summary.DuplicateDirs))
	}
}

func renderStatistics(builder *strings.Builder, summary *warmer.Summary) {
	builder.WriteString("\n")
	builder.WriteString(shared.RenderLabel("Statistics:"))
	builder.WriteString("\n")

	writeLine(builder, "dirs visited", shared.GroupDigits(summary.DirsVisited))
	writeLine(builder, "entries probed", shared.GroupDigits(summary.EntriesProbed))
	writeLine(builder, "workers", shared.GroupDigits(int64(summary.Workers)))
	writeLine(builder, "time elapsed", shared.FormatDuration(summary.Elapsed))

	if summary.Elapsed > 0 && summary.EntriesProbed > 0 {
		writeLine(builder, "rate", shared.FormatRate(summary.EntriesProbed, summary.Elapsed, "entries"))
	}
}

func renderErrors(builder *strings.Builder, summary *warmer.Summary, opts Options) {
	if summary.TotalErrors() == 0 {
		return
	}

	builder.WriteString("\n")
	builder.WriteString(shared.RenderError("Errors:"))
	builder.WriteString("\n")

	for _, kind := range errs.Kinds() {
		if n := summary.ErrorCounts[kind]; n > 0 {
			writeLine(builder, kind.Description(), shared.GroupDigits(int64(n)))
		}
	}

	if summary.DroppedErrors > 0 {
		writeLine(builder, "not retained", shared.GroupDigits(int64(summary.DroppedErrors)))
	}

	entries := make([]*errs.Record, 0, len(summary.Errors))

	for _, rec := range summary.Errors {
		if rec.Kind != errs.KindInvalidRoot {
			entries = append(entries, rec)
		}
	}

	if len(entries) == 0 {
		return
	}

	config := shared.ErrorListConfig{
		Records:  entries,
		Context:  shared.ContextComplete,
		MaxWidth: opts.MaxWidth,
	}

	switch {
	case opts.ListErrors:
		config.Context = shared.ContextAll
		config.ShowSuggestions = true
	case summary.Cancelled:
		config.Context = shared.ContextOther
	}

	builder.WriteString("\n")
	builder.WriteString(shared.RenderErrorList(config))
}

func writeLine(builder *strings.Builder, label, value string) {
	fmt.Fprintf(builder, "  %-*s %s\n", shared.LabelWidth, label, value)
}
