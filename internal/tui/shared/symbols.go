package shared

import (
	"os"
	"strings"
)

// unicodeDisabled is set when the locale or terminal cannot be trusted with
// non-ASCII glyphs.
var unicodeDisabled = detectUnicodeDisabled()

// CancelledSymbol returns a cancelled/prohibited symbol with ASCII fallback
func CancelledSymbol() string {
	if unicodeDisabled {
		return "[!]"
	}

	return "⊘"
}

// ErrorSymbol returns an error cross with ASCII fallback
func ErrorSymbol() string {
	if unicodeDisabled {
		return "[x]"
	}

	return "✗"
}

// SuccessSymbol returns a check mark with ASCII fallback
func SuccessSymbol() string {
	if unicodeDisabled {
		return "[ok]"
	}

	return "✓"
}

// BulletSymbol returns a list bullet with ASCII fallback
func BulletSymbol() string {
	if unicodeDisabled {
		return "-"
	}

	return "•"
}

func detectUnicodeDisabled() bool {
	if os.Getenv("TERM") == "dumb" {
		return true
	}

	for _, name := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		value := os.Getenv(name)
		if value == "" {
			continue
		}

		upper := strings.ToUpper(value)

		return !strings.Contains(upper, "UTF-8") && !strings.Contains(upper, "UTF8")
	}

	return false
}
