// Package errors classifies the failures a cache-warming run can hit and
// carries them as records.
//
// Every failure below a root is local: it becomes a [Record] with a [Kind],
// is counted, and the traversal continues. The kind decides how the failure
// is reported, never whether the run goes on.
//
// Basic Usage:
//
//	classifier := errors.NewClassifier()
//	_, err := os.Lstat("/var/lib/private/secret")
//	if err != nil {
//	    rec := errors.NewRecord(classifier, "lstat", "/var/lib/private/secret", err)
//	    fmt.Println(rec.Kind, rec.Error())
//	    fmt.Println(errors.FormatSuggestions(rec))
//	}
//
// Root arguments that cannot be warmed are built directly with
// [NewInvalidRoot], since "does not exist" means something different for a
// root argument than for an entry that vanished mid-walk.
package errors

import (
	"errors"
	"strings"
)

// Exported constants.
const (
	KindInvalidRoot      Kind = "invalid_root"
	KindOtherIO          Kind = "other_io"
	KindPermissionDenied Kind = "permission_denied"
	KindRaceRemoved      Kind = "race_removed"
)

// Kind is the category of a recorded failure.
type Kind string

// Description returns a short human label for the kind.
func (k Kind) Description() string {
	switch k {
	case KindInvalidRoot:
		return "invalid root"
	case KindPermissionDenied:
		return "permission denied"
	case KindRaceRemoved:
		return "removed during walk"
	case KindOtherIO:
		return "other I/O error"
	default:
		return string(k)
	}
}

// Kinds returns every kind in report order.
func Kinds() []Kind {
	return []Kind{KindInvalidRoot, KindPermissionDenied, KindRaceRemoved, KindOtherIO}
}

// Record is one failure, appended once and never mutated.
type Record struct {
	Path string
	Op   string
	Kind Kind
	Err  error
}

// NewRecord classifies err and wraps it in a Record.
func NewRecord(classifier Classifier, op, path string, err error) *Record {
	return &Record{
		Path: path,
		Op:   op,
		Kind: classifier.Classify(err),
		Err:  err,
	}
}

// NewInvalidRoot records a root argument that cannot be traversed.
func NewInvalidRoot(path string, err error) *Record {
	return &Record{
		Path: path,
		Op:   "root",
		Kind: KindInvalidRoot,
		Err:  err,
	}
}

// Error implements the error interface.
func (r *Record) Error() string {
	var builder strings.Builder

	builder.WriteString(r.Op)
	builder.WriteString(" ")
	builder.WriteString(r.Path)

	if r.Err != nil {
		builder.WriteString(": ")
		builder.WriteString(r.Err.Error())
	}

	return builder.String()
}

// Unwrap returns the underlying error.
func (r *Record) Unwrap() error {
	return r.Err
}

// FormatSuggestions formats the hints for a record's kind as a bulleted list.
// Returns empty string if err does not wrap a *Record.
func FormatSuggestions(err error) string {
	var rec *Record
	if !errors.As(err, &rec) || rec == nil {
		return ""
	}

	suggestions := NewSuggestionGenerator().Generate(rec.Kind, rec.Path)
	if len(suggestions) == 0 {
		return ""
	}

	var builder strings.Builder
	for i, suggestion := range suggestions {
		if i > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString("  • ")
		builder.WriteString(suggestion)
	}

	return builder.String()
}
