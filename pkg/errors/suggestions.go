package errors

import "fmt"

// SuggestionGenerator generates hints based on error kind.
type SuggestionGenerator interface {
	Generate(kind Kind, affectedPath string) []string
}

// NewSuggestionGenerator creates a new SuggestionGenerator.
func NewSuggestionGenerator() SuggestionGenerator {
	return &suggestionGenerator{}
}

// suggestionGenerator is the concrete implementation of SuggestionGenerator.
type suggestionGenerator struct{}

// Generate returns hints for the kind and affected path.
func (g *suggestionGenerator) Generate(kind Kind, affectedPath string) []string {
	switch kind {
	case KindInvalidRoot:
		return g.generateInvalidRootSuggestions(affectedPath)
	case KindPermissionDenied:
		return g.generatePermissionSuggestions(affectedPath)
	case KindRaceRemoved:
		return g.generateRaceSuggestions()
	case KindOtherIO:
		return g.generateOtherIOSuggestions(affectedPath)
	default:
		return g.generateOtherIOSuggestions(affectedPath)
	}
}

func (g *suggestionGenerator) generateInvalidRootSuggestions(path string) []string {
	suggestions := []string{
		"Pass an existing directory as each root argument",
	}

	if path != "" {
		suggestions = append(suggestions, "Check the path exists and is a directory: "+path)
	}

	suggestions = append(suggestions, "If the root is a mount point, make sure it is mounted before dircacher runs")

	return suggestions
}

func (g *suggestionGenerator) generateOtherIOSuggestions(path string) []string {
	suggestions := []string{
		"Check system logs (dmesg, journalctl -k) for device or filesystem errors",
	}

	if path != "" {
		suggestions = append(suggestions, "Verify the path is readable: "+path)
	}

	return suggestions
}

func (g *suggestionGenerator) generatePermissionSuggestions(path string) []string {
	suggestions := []string{
		"Run dircacher as a user that can read the whole tree (the boot unit usually runs as root)",
	}

	if path != "" {
		suggestions = append(suggestions, fmt.Sprintf("Check permissions with 'ls -ld %s'", path))
	}

	suggestions = append(suggestions, "Exclude the subtree with --exclude if it is not worth warming")

	return suggestions
}

func (g *suggestionGenerator) generateRaceSuggestions() []string {
	return []string{
		"The entry changed while the tree was walked; this is expected on a live system",
	}
}
