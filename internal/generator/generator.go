package generator

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/AgbediaSamuel/sudoku-solver/internal/board"
	"github.com/AgbediaSamuel/sudoku-solver/internal/solver"
)

var (
	ErrGenerationFailed = errors.New("failed to generate a complete grid")
	ErrInvalidClueCount = errors.New("target clue count out of range")
	ErrCarveFailed      = errors.New("failed to remove enough cells")
)

// Generator creates complete grids and carves puzzles out of them for
// n²×n² boards. Randomness lives entirely here; the solver it delegates to
// is deterministic, so puzzle variety comes from the shuffled diagonal
// boxes and the carving permutation.
type Generator struct {
	n       int
	side    int
	options *Options
	rng     *rand.Rand
}

// New creates a puzzle generator for box size n.
func New(n int, options *Options) (*Generator, error) {
	if n < board.MinBoxSize || n > board.MaxBoxSize {
		return nil, fmt.Errorf("%w: box size %d must be in range [%d, %d]",
			board.ErrMalformedInput, n, board.MinBoxSize, board.MaxBoxSize)
	}
	if options == nil {
		options = DefaultOptions()
	}
	if options.MaxAttempts <= 0 {
		options.MaxAttempts = DefaultOptions().MaxAttempts
	}

	seed := options.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Generator{
		n:       n,
		side:    n * n,
		options: options,
		rng:     rand.New(rand.NewSource(seed)),
	}, nil
}

// BuildCompleteGrid produces a full valid solution grid. The n diagonal
// boxes share no row, column, or box with each other, so they are filled
// with independent shuffles first; the solver completes the rest with both
// heuristics on and explanations off.
func (g *Generator) BuildCompleteGrid(ctx context.Context) (*board.Board, error) {
	for attempt := 0; attempt < g.options.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		b, err := board.New(g.n)
		if err != nil {
			return nil, err
		}
		g.fillDiagonalBoxes(b)

		s := solver.New(&solver.Options{MRV: true, ForwardChecking: true})
		solution, _, err := s.Solve(ctx, b)
		if err == nil {
			return solution, nil
		}
		if !errors.Is(err, solver.ErrUnsatisfiable) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w after %d attempts", ErrGenerationFailed, g.options.MaxAttempts)
}

// fillDiagonalBoxes writes a shuffled 1..side into each diagonal n×n box.
func (g *Generator) fillDiagonalBoxes(b *board.Board) {
	values := make([]int, g.side)
	for i := range values {
		values[i] = i + 1
	}

	for box := 0; box < g.n; box++ {
		g.rng.Shuffle(len(values), func(i, j int) {
			values[i], values[j] = values[j], values[i]
		})

		start := box * g.n
		idx := 0
		for r := start; r < start+g.n; r++ {
			for c := start; c < start+g.n; c++ {
				b.Set(r, c, values[idx])
				idx++
			}
		}
	}
}

// Carve removes cells from a copy of the solution down to the target clue
// count, visiting cells in a seeded random permutation. By default removed
// cells are not re-verified: carving from a known-valid solution stays
// solvable, and the clue-count floor guards against degenerate puzzles.
// With EnsureUnique set, each removal that breaks uniqueness is reverted;
// in that mode the target may be unreachable, reported as ErrCarveFailed
// alongside the best puzzle found.
func (g *Generator) Carve(ctx context.Context, solution *board.Board, targetClues int) (*board.Board, error) {
	total := g.side * g.side
	if targetClues < MinClues(g.side) || targetClues > total {
		return nil, fmt.Errorf("%w: %d clues (allowed %d-%d for a %dx%d board)",
			ErrInvalidClueCount, targetClues, MinClues(g.side), total, g.side, g.side)
	}

	puzzle := solution.Copy()
	toRemove := total - targetClues
	removed := 0

	for _, pos := range g.rng.Perm(total) {
		if removed >= toRemove {
			break
		}
		row, col := pos/g.side, pos%g.side
		val := puzzle.Get(row, col)
		if val == board.EmptyCell {
			continue
		}

		puzzle.Clear(row, col)
		if g.options.EnsureUnique && g.countSolutions(ctx, puzzle, 2) != 1 {
			puzzle.Set(row, col, val)
			continue
		}
		removed++
	}

	if removed < toRemove {
		return puzzle, fmt.Errorf("%w: removed %d of %d cells", ErrCarveFailed, removed, toRemove)
	}
	return puzzle, nil
}

// Generate is the convenience path: build a complete grid, pick a clue
// count for the difficulty, and carve. Returns the puzzle and its solution.
func (g *Generator) Generate(ctx context.Context, difficulty Difficulty) (puzzle, solution *board.Board, err error) {
	solution, err = g.BuildCompleteGrid(ctx)
	if err != nil {
		return nil, nil, err
	}

	puzzle, err = g.Carve(ctx, solution, g.cluesFor(difficulty))
	if err != nil {
		return nil, nil, err
	}
	return puzzle, solution, nil
}

// cluesFor picks a clue count for the difficulty. Larger boards keep a
// higher clue fraction so solve times stay reasonable.
func (g *Generator) cluesFor(d Difficulty) int {
	total := g.side * g.side

	var lo, hi float64
	if g.side >= 16 {
		switch d {
		case Easy:
			lo, hi = 0.60, 0.70
		case Hard:
			lo, hi = 0.45, 0.55
		default:
			lo, hi = 0.50, 0.60
		}
	} else {
		switch d {
		case Easy:
			lo, hi = 0.50, 0.60
		case Hard:
			lo, hi = 0.25, 0.35
		default:
			lo, hi = 0.35, 0.45
		}
	}

	clues := int(float64(total) * (lo + g.rng.Float64()*(hi-lo)))
	if m := MinClues(g.side); clues < m {
		clues = m
	}
	return clues
}

// MinClues returns the clue-count floor for a board side. The 4x4 and 9x9
// floors are the known minimal-puzzle bounds; larger boards use a quarter
// of the grid as a pragmatic cutoff.
func MinClues(side int) int {
	switch side {
	case 4:
		return 6
	case 9:
		return 17
	default:
		return side * side / 4
	}
}

// countSolutions counts solutions of the puzzle up to limit, using the same
// MRV selection as the solver but without trace bookkeeping.
func (g *Generator) countSolutions(ctx context.Context, puzzle *board.Board, limit int) int {
	count := 0
	work := puzzle.Copy()

	var dfs func() bool // true = stop searching
	dfs = func() bool {
		if ctx.Err() != nil || count >= limit {
			return true
		}

		bestRow, bestCol := -1, -1
		bestCount := g.side + 1
		for r := 0; r < g.side; r++ {
			for c := 0; c < g.side; c++ {
				if work.Get(r, c) != board.EmptyCell {
					continue
				}
				n := work.CandidateCount(r, c)
				if n == 0 {
					return false
				}
				if n < bestCount {
					bestRow, bestCol, bestCount = r, c, n
				}
			}
		}

		if bestRow < 0 {
			count++
			return count >= limit
		}

		for _, val := range work.Candidates(bestRow, bestCol) {
			work.Set(bestRow, bestCol, val)
			stop := dfs()
			work.Clear(bestRow, bestCol)
			if stop {
				return true
			}
		}
		return false
	}

	dfs()
	return count
}
