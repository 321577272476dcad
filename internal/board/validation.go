package board

import "errors"

// ErrMalformedInput is the kind wrapped by every board-construction failure:
// wrong length, bad dimensions, invalid characters, out-of-range values.
var ErrMalformedInput = errors.New("malformed board input")

// IsValid reports whether the board satisfies Sudoku constraints: no value
// repeats within a row, a column, or a box. Empty cells are ignored, so a
// partially filled board can be valid.
func (b *Board) IsValid() bool {
	rowCheck := make([]uint64, b.side)
	colCheck := make([]uint64, b.side)
	boxCheck := make([]uint64, b.side)

	for pos, val := range b.cells {
		if val == EmptyCell {
			continue
		}
		row, col := pos/b.side, pos%b.side
		box := (row/b.n)*b.n + col/b.n
		mask := uint64(1) << uint(val-1)

		if rowCheck[row]&mask != 0 ||
			colCheck[col]&mask != 0 ||
			boxCheck[box]&mask != 0 {
			return false
		}

		rowCheck[row] |= mask
		colCheck[col] |= mask
		boxCheck[box] |= mask
	}

	return true
}

// IsValidSolution reports whether the board is a complete, correct solution:
// every cell filled and every row, column, and box holding each value in
// {1..side} exactly once. This is the sole oracle for "is this actually a
// solution", independent of how the board was reached.
func (b *Board) IsValidSolution() bool {
	if !b.IsComplete() {
		return false
	}

	all := b.allMask()
	rowCheck := make([]uint64, b.side)
	colCheck := make([]uint64, b.side)
	boxCheck := make([]uint64, b.side)

	for pos, val := range b.cells {
		row, col := pos/b.side, pos%b.side
		box := (row/b.n)*b.n + col/b.n
		mask := uint64(1) << uint(val-1)
		rowCheck[row] |= mask
		colCheck[col] |= mask
		boxCheck[box] |= mask
	}

	for i := 0; i < b.side; i++ {
		if rowCheck[i] != all || colCheck[i] != all || boxCheck[i] != all {
			return false
		}
	}
	return true
}
