package board

import (
	"fmt"
	"math/bits"
	"strings"
)

// Special cell values
const (
	EmptyCell = 0

	// MinBoxSize and MaxBoxSize bound the box size n of an n²×n² board.
	// The upper bound comes from the compact text form: cell values are
	// base-36 digits, so the side length cannot exceed 35.
	MinBoxSize = 2
	MaxBoxSize = 5
)

// Board represents a generalized n²×n² Sudoku board.
//
// Cells are stored row-major in a flat slice. A Board performs no legality
// checking on mutation: Set and Clear are unconditional so the solver's hot
// path stays branch-free, and legality is the caller's responsibility.
// Bounds are likewise the caller's responsibility; out-of-range coordinates
// panic like any slice access.
type Board struct {
	n     int // box size
	side  int // n*n, the grid dimension
	cells []int

	// emptyCount tracks unfilled cells for O(1) completion checks.
	// Once initialized, emptyCount is only touched inside Set and Clear.
	emptyCount int
}

// New creates an empty n²×n² Board.
func New(n int) (*Board, error) {
	if n < MinBoxSize || n > MaxBoxSize {
		return nil, fmt.Errorf("%w: box size %d must be in range [%d, %d]",
			ErrMalformedInput, n, MinBoxSize, MaxBoxSize)
	}
	side := n * n
	return &Board{
		n:          n,
		side:       side,
		cells:      make([]int, side*side),
		emptyCount: side * side,
	}, nil
}

// FromString creates a Board from its compact string form: exactly side²
// characters, one base-36 digit per cell ('1'-'9', then 'A'-'Z' for 10-35,
// lowercase accepted), with '.' or '0' for empty cells. Whitespace is
// ignored so multi-line puzzle files load as-is.
func FromString(n int, s string) (*Board, error) {
	b, err := New(n)
	if err != nil {
		return nil, err
	}

	compact := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)

	if len(compact) != len(b.cells) {
		return nil, fmt.Errorf("%w: puzzle must have %d characters, got %d",
			ErrMalformedInput, len(b.cells), len(compact))
	}

	for pos := 0; pos < len(b.cells); pos++ {
		val, err := parseCell(compact[pos], b.side)
		if err != nil {
			return nil, fmt.Errorf("%w at position %d", err, pos)
		}
		if val != EmptyCell {
			b.cells[pos] = val
			b.emptyCount--
		}
	}
	return b, nil
}

// FromGrid creates a Board from a side×side grid of integers in [0, side],
// where 0 denotes an empty cell. Only the shape and value range are
// validated; Sudoku legality is not (a grid holding duplicates loads fine
// and simply fails IsValidSolution).
func FromGrid(n int, grid [][]int) (*Board, error) {
	b, err := New(n)
	if err != nil {
		return nil, err
	}

	if len(grid) != b.side {
		return nil, fmt.Errorf("%w: grid must have %d rows, got %d",
			ErrMalformedInput, b.side, len(grid))
	}
	for r, row := range grid {
		if len(row) != b.side {
			return nil, fmt.Errorf("%w: row %d must have %d cells, got %d",
				ErrMalformedInput, r, b.side, len(row))
		}
		for c, val := range row {
			if val < EmptyCell || val > b.side {
				return nil, fmt.Errorf("%w: value %d at (%d,%d) out of range [0, %d]",
					ErrMalformedInput, val, r, c, b.side)
			}
			if val != EmptyCell {
				b.cells[r*b.side+c] = val
				b.emptyCount--
			}
		}
	}
	return b, nil
}

// parseCell decodes one character of the compact form.
func parseCell(ch byte, side int) (int, error) {
	var val int
	switch {
	case ch == '.' || ch == '0':
		return EmptyCell, nil
	case ch >= '1' && ch <= '9':
		val = int(ch - '0')
	case ch >= 'A' && ch <= 'Z':
		val = int(ch-'A') + 10
	case ch >= 'a' && ch <= 'z':
		val = int(ch-'a') + 10
	default:
		return 0, fmt.Errorf("%w: invalid character %q", ErrMalformedInput, ch)
	}
	if val > side {
		return 0, fmt.Errorf("%w: value %d exceeds board size %d", ErrMalformedInput, val, side)
	}
	return val, nil
}

// N returns the box size.
func (b *Board) N() int { return b.n }

// Side returns the grid dimension n².
func (b *Board) Side() int { return b.side }

// Get returns the value at (row, col); EmptyCell means unfilled.
func (b *Board) Get(row, col int) int {
	return b.cells[row*b.side+col]
}

// Set places a value at (row, col) unconditionally.
func (b *Board) Set(row, col, val int) {
	pos := row*b.side + col
	old := b.cells[pos]
	b.cells[pos] = val
	if old == EmptyCell && val != EmptyCell {
		b.emptyCount--
	} else if old != EmptyCell && val == EmptyCell {
		b.emptyCount++
	}
}

// Clear empties the cell at (row, col).
func (b *Board) Clear(row, col int) {
	b.Set(row, col, EmptyCell)
}

// seenMask collects the values already placed in the row, the column, and
// the n×n box containing (row, col). Bit i represents value i+1.
func (b *Board) seenMask(row, col int) uint64 {
	var seen uint64
	rowBase := row * b.side
	for i := 0; i < b.side; i++ {
		if v := b.cells[rowBase+i]; v != EmptyCell {
			seen |= 1 << uint(v-1)
		}
		if v := b.cells[i*b.side+col]; v != EmptyCell {
			seen |= 1 << uint(v-1)
		}
	}
	boxRow, boxCol := (row/b.n)*b.n, (col/b.n)*b.n
	for r := boxRow; r < boxRow+b.n; r++ {
		base := r * b.side
		for c := boxCol; c < boxCol+b.n; c++ {
			if v := b.cells[base+c]; v != EmptyCell {
				seen |= 1 << uint(v-1)
			}
		}
	}
	return seen
}

func (b *Board) allMask() uint64 {
	return (uint64(1) << uint(b.side)) - 1
}

// CandidatesMask returns the bitmask of legal values for (row, col), with
// bit i representing value i+1. A non-empty cell has no candidates. The
// mask is computed by set subtraction over the three units, never by a
// per-value legality probe.
func (b *Board) CandidatesMask(row, col int) uint64 {
	if b.cells[row*b.side+col] != EmptyCell {
		return 0
	}
	return b.allMask() &^ b.seenMask(row, col)
}

// Candidates returns the legal values for (row, col) in ascending order.
func (b *Board) Candidates(row, col int) []int {
	mask := b.CandidatesMask(row, col)
	candidates := make([]int, 0, bits.OnesCount64(mask))
	for mask != 0 {
		candidates = append(candidates, bits.TrailingZeros64(mask)+1)
		mask &= mask - 1
	}
	return candidates
}

// CandidateCount returns the number of legal values for (row, col).
func (b *Board) CandidateCount(row, col int) int {
	return bits.OnesCount64(b.CandidatesMask(row, col))
}

// IsComplete reports whether every cell is filled.
func (b *Board) IsComplete() bool {
	return b.emptyCount == 0
}

// EmptyCount returns the number of empty cells on the board.
func (b *Board) EmptyCount() int {
	return b.emptyCount
}

// ClueCount returns the number of filled cells on the board.
func (b *Board) ClueCount() int {
	return len(b.cells) - b.emptyCount
}

// Copy creates an independent deep copy of the Board.
func (b *Board) Copy() *Board {
	clone := *b
	clone.cells = make([]int, len(b.cells))
	copy(clone.cells, b.cells)
	return &clone
}

// Grid returns the board as a freshly allocated side×side grid of integers.
func (b *Board) Grid() [][]int {
	grid := make([][]int, b.side)
	for r := 0; r < b.side; r++ {
		grid[r] = make([]int, b.side)
		copy(grid[r], b.cells[r*b.side:(r+1)*b.side])
	}
	return grid
}

// FormatValue renders a cell value as its base-36 digit, or "." when empty.
func FormatValue(val int) string {
	switch {
	case val == EmptyCell:
		return "."
	case val < 10:
		return string(byte('0' + val))
	default:
		return string(byte('A' + val - 10))
	}
}

// String returns the board in compact string form.
func (b *Board) String() string {
	var sb strings.Builder
	sb.Grow(len(b.cells))
	for _, cell := range b.cells {
		sb.WriteString(FormatValue(cell))
	}
	return sb.String()
}

// Format returns a human-readable board representation with box rules.
func (b *Board) Format() string {
	var sb strings.Builder

	segment := strings.Repeat("-", b.n*2+1)
	parts := make([]string, b.n)
	for i := range parts {
		parts[i] = segment
	}
	line := "+" + strings.Join(parts, "+") + "+\n"

	for row := 0; row < b.side; row++ {
		if row%b.n == 0 {
			sb.WriteString(line)
		}
		sb.WriteString("|")
		for col := 0; col < b.side; col++ {
			if col%b.n == 0 && col > 0 {
				sb.WriteString(" |")
			}
			sb.WriteString(" ")
			sb.WriteString(FormatValue(b.Get(row, col)))
		}
		sb.WriteString(" |\n")
	}
	sb.WriteString(line)

	return sb.String()
}
