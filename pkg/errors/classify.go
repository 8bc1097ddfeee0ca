package errors

import (
	"errors"
	"io/fs"
	"syscall"
)

// Classifier maps a raw filesystem error to a Kind.
type Classifier interface {
	Classify(err error) Kind
}

// NewClassifier creates a Classifier that checks errno values first and falls
// back to message patterns for errors that lost their errno along the way.
func NewClassifier() Classifier {
	return &classifier{
		matcher: NewPatternMatcher(),
	}
}

// classifier is the concrete implementation of Classifier.
type classifier struct {
	matcher PatternMatcher
}

// Classify returns the kind for err. A nil error is KindOtherIO.
func (c *classifier) Classify(err error) Kind {
	if err == nil {
		return KindOtherIO
	}

	// An entry that is gone, or was swapped for a different type between the
	// listing and the probe, counts as removed.
	switch {
	case errors.Is(err, fs.ErrPermission):
		return KindPermissionDenied
	case errors.Is(err, fs.ErrNotExist),
		errors.Is(err, syscall.ENOTDIR),
		errors.Is(err, syscall.ESTALE),
		errors.Is(err, syscall.ELOOP):
		return KindRaceRemoved
	}

	return c.matcher.Match(err.Error())
}
