package shared

import (
	"github.com/joe/dircacher/internal/warmer"
)

// DoneMsg is sent when the engine's Run returns. It ends the progress view.
type DoneMsg struct {
	Summary *warmer.Summary
	Err     error
}
