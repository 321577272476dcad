// Package validator defines the boundary to an optional external
// constraint-checking service. The solver consults it as an advisory second
// opinion only: the local constraint model always wins, and every failure
// mode degrades to "no objection" so an absent or broken validator can
// never block solving.
package validator

import "context"

// ExternalValidator is an advisory oracle for board legality and candidate
// sets. Implementations must be safe to call with any grid the solver is
// exploring and must never mutate it.
type ExternalValidator interface {
	// Available reports whether the oracle can be consulted at all.
	Available() bool

	// ValidateBoard asks for a second opinion on the grid. It returns true
	// ("no objection") when the validator is unavailable or fails internally.
	ValidateBoard(ctx context.Context, grid [][]int, n, side int) bool

	// Candidates returns the oracle's candidate set for the given cell, or
	// nil when it has no opinion.
	Candidates(ctx context.Context, grid [][]int, row, col, n, side int) []int
}

// Noop is the stand-in used when no external validator is configured.
type Noop struct{}

func (Noop) Available() bool { return false }

func (Noop) ValidateBoard(context.Context, [][]int, int, int) bool { return true }

func (Noop) Candidates(context.Context, [][]int, int, int, int, int) []int { return nil }
