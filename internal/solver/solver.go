package solver

import (
	"context"
	"errors"
	"fmt"
	"math/bits"
	"strings"
	"time"

	"github.com/AgbediaSamuel/sudoku-solver/internal/board"
	"github.com/AgbediaSamuel/sudoku-solver/internal/validator"
)

// ErrUnsatisfiable reports a terminal, expected search outcome: the puzzle
// admits no solution. It is not an internal fault; distinguish it from bad
// input with errors.Is.
var ErrUnsatisfiable = errors.New("puzzle has no solution")

// Stats captures the work a single Solve call performed, frozen when the
// search terminates.
type Stats struct {
	// Nodes counts search nodes: recursive steps that selected an empty
	// cell to branch on.
	Nodes int

	// Backtracks counts undone trial assignments, whether pruned by forward
	// checking or rejected after a failed subtree.
	Backtracks int

	// Duration spans the whole Solve call.
	Duration time.Duration

	// Heuristic configuration in effect for this solve.
	MRV             bool
	ForwardChecking bool
	ValidatorActive bool
}

// Solver is a backtracking search engine over the board's constraint model.
//
// Given identical options and an identical starting board, the search is
// fully deterministic: candidates are tried in ascending order and no
// randomness enters the engine. A Solver is not safe for concurrent use;
// each Solve call owns its working board and trace exclusively.
type Solver struct {
	options   *Options
	validator validator.ExternalValidator

	// Per-solve state, reset at the start of each Solve call.
	board           *board.Board
	nodes           int
	backtracks      int
	trace           []string
	validatorActive bool
}

// New creates a solver with the given options.
func New(options *Options) *Solver {
	if options == nil {
		options = DefaultOptions()
	}

	v := options.Validator
	if v == nil {
		v = validator.Noop{}
	}

	return &Solver{
		options:   options,
		validator: v,
	}
}

// Solve attempts to solve the puzzle. It operates on a private deep copy;
// the caller's board is never mutated. On success the completed board is
// returned; an exhausted search returns ErrUnsatisfiable, and a canceled
// context returns the context's error. Statistics are returned either way.
func (s *Solver) Solve(ctx context.Context, b *board.Board) (*board.Board, Stats, error) {
	start := time.Now()

	s.board = b.Copy()
	s.nodes = 0
	s.backtracks = 0
	s.trace = nil
	s.validatorActive = s.validator.Available()

	s.explainf("Starting solver for %dx%d Sudoku (n=%d)", b.Side(), b.Side(), b.N())
	s.explainf("MRV heuristic: %s", onOff(s.options.MRV))
	s.explainf("Forward checking: %s", onOff(s.options.ForwardChecking))
	s.explainf("External validation: %s", onOff(s.validatorActive))

	solved := s.search(ctx)

	stats := Stats{
		Nodes:           s.nodes,
		Backtracks:      s.backtracks,
		Duration:        time.Since(start),
		MRV:             s.options.MRV,
		ForwardChecking: s.options.ForwardChecking,
		ValidatorActive: s.validatorActive,
	}

	if !solved {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}
		s.explainf("No solution exists (explored %d nodes)", s.nodes)
		return nil, stats, ErrUnsatisfiable
	}

	s.explainf("Solution found in %v", stats.Duration)
	return s.board, stats, nil
}

// Explanations returns the trace recorded by the most recent Solve call,
// in decision order. The slice is owned by the caller once returned; the
// next Solve call starts a fresh trace.
func (s *Solver) Explanations() []string {
	return s.trace
}

// search is one node of the depth-first search. It returns true as soon as
// the first solution is found; no alternatives are enumerated after that.
func (s *Solver) search(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}

	row, col, found := s.selectCell()
	if !found {
		// Grid fully assigned: this is a completion candidate, not a node.
		return s.verifyComplete(ctx)
	}

	s.nodes++
	if s.options.Observer != nil {
		s.options.Observer.OnNode(s.board.Copy(), s.lastEntry())
	}

	candidates := s.cellCandidates(ctx, row, col)
	if len(candidates) == 0 {
		s.explainf("Cell (%d,%d) has no valid candidates - backtracking", row, col)
		return false
	}

	for _, val := range candidates {
		s.explainf("-> Trying %s at (%d,%d)", board.FormatValue(val), row, col)
		s.board.Set(row, col, val)

		if s.options.ForwardChecking && !s.consistent() {
			s.explain("Forward checking failed - creates dead end")
			s.board.Clear(row, col)
			s.backtracks++
			continue
		}

		if s.search(ctx) {
			return true
		}

		s.explainf("<- Backtracking from (%d,%d)", row, col)
		s.board.Clear(row, col)
		s.backtracks++
	}

	return false
}

// selectCell picks the next cell to branch on, or reports that no empty
// cell remains. With MRV enabled it scans every empty cell and returns the
// one with the smallest nonzero candidate count, ties broken by row-major
// order of first encounter; a cell with zero candidates short-circuits the
// scan, since the dead end is already certain.
func (s *Solver) selectCell() (int, int, bool) {
	side := s.board.Side()

	if !s.options.MRV {
		for r := 0; r < side; r++ {
			for c := 0; c < side; c++ {
				if s.board.Get(r, c) == board.EmptyCell {
					return r, c, true
				}
			}
		}
		return 0, 0, false
	}

	bestRow, bestCol := 0, 0
	bestCount := side + 1
	found := false

	for r := 0; r < side; r++ {
		for c := 0; c < side; c++ {
			if s.board.Get(r, c) != board.EmptyCell {
				continue
			}
			count := bits.OnesCount64(s.board.CandidatesMask(r, c))
			if count == 0 {
				return r, c, true
			}
			if count < bestCount {
				bestRow, bestCol, bestCount = r, c, count
				found = true
			}
		}
	}

	if found {
		s.explainf("[MRV] Selected cell (%d,%d) with %d candidates: [%s]",
			bestRow, bestCol, bestCount, formatCandidates(s.board.Candidates(bestRow, bestCol)))
	}
	return bestRow, bestCol, found
}

// cellCandidates computes the candidate set for the selected cell and, when
// an external validator is active, cross-checks it. The local set always
// wins; a disagreement only produces a diagnostic trace entry.
func (s *Solver) cellCandidates(ctx context.Context, row, col int) []int {
	candidates := s.board.Candidates(row, col)

	if s.validatorActive {
		external := s.validator.Candidates(ctx, s.board.Grid(), row, col, s.board.N(), s.board.Side())
		if external != nil && !sameCandidates(candidates, external) {
			s.explainf("External validator found different candidates for (%d,%d): [%s]",
				row, col, formatCandidates(external))
		}
	}

	return candidates
}

// verifyComplete is the terminal check for a fully assigned grid. The
// invariant discipline means an invalid full grid should be unreachable,
// but it is verified regardless; an invalid grid is treated as a failed
// branch rather than a crash.
func (s *Solver) verifyComplete(ctx context.Context) bool {
	if !s.board.IsValidSolution() {
		s.explain("Filled board failed final validation - backtracking")
		return false
	}

	if s.validatorActive && s.validator.ValidateBoard(ctx, s.board.Grid(), s.board.N(), s.board.Side()) {
		s.explain("All cells filled - solution confirmed by external validator")
	} else {
		s.explain("All cells filled - solution is valid!")
	}
	return true
}

// consistent re-derives every empty cell's candidate set after a trial
// assignment. O(empty cells × candidate computation), intentionally cheap
// relative to the recursive descent it prunes.
func (s *Solver) consistent() bool {
	side := s.board.Side()
	for r := 0; r < side; r++ {
		for c := 0; c < side; c++ {
			if s.board.Get(r, c) == board.EmptyCell && s.board.CandidatesMask(r, c) == 0 {
				return false
			}
		}
	}
	return true
}

func (s *Solver) explain(msg string) {
	if s.options.Explain {
		s.trace = append(s.trace, msg)
	}
}

func (s *Solver) explainf(format string, args ...any) {
	if s.options.Explain {
		s.trace = append(s.trace, fmt.Sprintf(format, args...))
	}
}

func (s *Solver) lastEntry() string {
	if len(s.trace) == 0 {
		return ""
	}
	return s.trace[len(s.trace)-1]
}

func formatCandidates(candidates []int) string {
	parts := make([]string, len(candidates))
	for i, v := range candidates {
		parts[i] = board.FormatValue(v)
	}
	return strings.Join(parts, ", ")
}

// sameCandidates compares two candidate sets ignoring order.
func sameCandidates(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	var am, bm uint64
	for _, v := range a {
		am |= 1 << uint(v)
	}
	for _, v := range b {
		bm |= 1 << uint(v)
	}
	return am == bm
}

func onOff(enabled bool) string {
	if enabled {
		return "ON"
	}
	return "OFF"
}
