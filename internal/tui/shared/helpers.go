package shared

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ============================================================================
// Formatting Functions
// These are used by the progress view and the summary for consistent display
// ============================================================================

// FormatCount formats a count with its noun, pluralized (e.g., "1 file", "3 files")
func FormatCount(count int64, noun string) string {
	if count == 1 {
		return "1 " + noun
	}

	return strconv.FormatInt(count, 10) + " " + noun + "s"
}

// FormatDuration formats duration into human-readable format (e.g., "2m 30s").
// Durations under a second keep millisecond precision (e.g., "420ms").
func FormatDuration(duration time.Duration) string {
	if duration < time.Second {
		return fmt.Sprintf("%dms", duration.Milliseconds())
	}

	duration = duration.Round(time.Second)
	hours := duration / time.Hour
	duration %= time.Hour
	minutes := duration / time.Minute
	duration %= time.Minute
	seconds := duration / time.Second

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	} else if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}

	return fmt.Sprintf("%ds", seconds)
}

// FormatRate formats a per-second rate with its noun (e.g., "1,204 entries/s")
func FormatRate(count int64, elapsed time.Duration, noun string) string {
	if elapsed <= 0 {
		return "0 " + noun + "/s"
	}

	perSec := int64(float64(count) / elapsed.Seconds())

	return GroupDigits(perSec) + " " + noun + "/s"
}

// GroupDigits formats n with comma thousands separators (e.g., "12,345")
func GroupDigits(n int64) string {
	digits := strconv.FormatInt(n, 10)

	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}

	if len(digits) <= 3 {
		return sign + digits
	}

	var builder strings.Builder

	lead := len(digits) % 3
	if lead > 0 {
		builder.WriteString(digits[:lead])
	}

	for i := lead; i < len(digits); i += 3 {
		if builder.Len() > 0 {
			builder.WriteString(",")
		}

		builder.WriteString(digits[i : i+3])
	}

	return sign + builder.String()
}

// JoinSeries joins items as an English list (e.g., "a, b, and c")
func JoinSeries(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2: //nolint:mnd // two items read "a and b"
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}
