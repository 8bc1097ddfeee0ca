package shared

import (
	"fmt"
	"strings"

	errs "github.com/joe/dircacher/pkg/errors"
)

// Error display limits for different screen contexts
const (
	// ErrorLimitInProgress is for the live progress view
	ErrorLimitInProgress = 3

	// ErrorLimitComplete is for the final report of a finished run
	ErrorLimitComplete = 10

	// ErrorLimitOther is for the final report of a cancelled run
	ErrorLimitOther = 5
)

// ErrorDisplayContext defines the context in which errors are being displayed
type ErrorDisplayContext int

const (
	// ContextInProgress indicates errors shown while the walk is running
	ContextInProgress ErrorDisplayContext = iota
	// ContextComplete indicates errors shown after the walk finished
	ContextComplete
	// ContextOther indicates errors shown after cancellation
	ContextOther
	// ContextAll shows every record, as --list-errors asks for
	ContextAll
)

// ErrorListConfig holds configuration for rendering error lists
type ErrorListConfig struct {
	// Records is the list of failures to display
	Records []*errs.Record

	// Context determines the display limit and overflow message
	Context ErrorDisplayContext

	// MaxWidth is the maximum width for path and error message display
	MaxWidth int

	// ShowSuggestions appends the hints for each record's kind
	ShowSuggestions bool
}

// RenderErrorList renders a list of records with appropriate limits and formatting
// based on the display context. Returns the rendered error list as a string.
func RenderErrorList(config ErrorListConfig) string {
	if len(config.Records) == 0 {
		return ""
	}

	var builder strings.Builder

	limit := getErrorLimit(config.Context, len(config.Records))

	for i, rec := range config.Records {
		if i >= limit {
			remaining := len(config.Records) - limit
			fmt.Fprintf(&builder, "%s\n", getOverflowMessage(config.Context, remaining))

			break
		}

		displayPath := rec.Path
		if config.MaxWidth > 0 {
			displayPath = TruncatePath(rec.Path, config.MaxWidth)
		}

		fmt.Fprintf(&builder, "  %s %s\n",
			ErrorSymbol(),
			ErrorItemStyle().Render(displayPath))

		errMsg := rec.Op + ": " + rec.Kind.Description()
		if rec.Err != nil {
			errMsg = rec.Op + ": " + rec.Err.Error()
		}

		if config.MaxWidth > 0 && len(errMsg) > config.MaxWidth {
			errMsg = errMsg[:config.MaxWidth-3] + "..."
		}

		fmt.Fprintf(&builder, "    %s\n", errMsg)

		if !config.ShowSuggestions {
			continue
		}

		suggestions := errs.FormatSuggestions(rec)
		if suggestions != "" {
			indentedSuggestions := "    " + strings.ReplaceAll(suggestions, "\n", "\n    ")
			fmt.Fprintf(&builder, "%s\n", indentedSuggestions)
		}
	}

	return builder.String()
}

// TruncatePath shortens path to maxWidth by eliding its middle, keeping the
// leading component and as much of the tail as fits.
func TruncatePath(path string, maxWidth int) string {
	const ellipsis = "..."

	if len(path) <= maxWidth {
		return path
	}

	if maxWidth <= len(ellipsis) {
		return path[len(path)-maxWidth:]
	}

	keep := maxWidth - len(ellipsis)
	head := keep / 3 //nolint:mnd // a third of the room for the head
	tail := keep - head

	return path[:head] + ellipsis + path[len(path)-tail:]
}

// getErrorLimit returns the error display limit for a given context
func getErrorLimit(context ErrorDisplayContext, total int) int {
	switch context {
	case ContextInProgress:
		return ErrorLimitInProgress
	case ContextComplete:
		return ErrorLimitComplete
	case ContextOther:
		return ErrorLimitOther
	case ContextAll:
		return total
	default:
		return ErrorLimitOther
	}
}

// getOverflowMessage returns the appropriate message when error limit is exceeded
func getOverflowMessage(context ErrorDisplayContext, remaining int) string {
	switch context {
	case ContextInProgress:
		return fmt.Sprintf("  ... and %d more (see summary)", remaining)
	case ContextComplete, ContextOther, ContextAll:
		return fmt.Sprintf("  ... and %d more error(s), rerun with --list-errors to see them all", remaining)
	default:
		return fmt.Sprintf("  ... and %d more error(s)", remaining)
	}
}
