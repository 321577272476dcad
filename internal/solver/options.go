package solver

import (
	"github.com/AgbediaSamuel/sudoku-solver/internal/board"
	"github.com/AgbediaSamuel/sudoku-solver/internal/validator"
)

// Observer receives one callback per search node, for interactive playback
// or progress rendering. The snapshot is a private copy; the most recent
// trace entry is empty when explanations are disabled. Observers are called
// synchronously on the solving goroutine and must not block for long.
type Observer interface {
	OnNode(snapshot *board.Board, lastEntry string)
}

// Options configures solving behavior.
type Options struct {
	// MRV selects the empty cell with the fewest remaining candidates
	// instead of the first empty cell in row-major order.
	MRV bool

	// ForwardChecking verifies after each trial assignment that every
	// still-empty cell retains at least one candidate, pruning a branch one
	// level before the recursion would discover the dead end.
	ForwardChecking bool

	// Explain records a human-readable trace entry for every decision the
	// search makes. Disable when solving purely for the result.
	Explain bool

	// Validator is an optional advisory second opinion; nil means none.
	Validator validator.ExternalValidator

	// Observer, when set, is invoked once per search node.
	Observer Observer
}

// DefaultOptions returns standard solver options: both heuristics on,
// explanations on.
func DefaultOptions() *Options {
	return &Options{
		MRV:             true,
		ForwardChecking: true,
		Explain:         true,
	}
}
