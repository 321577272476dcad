package cmd

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AgbediaSamuel/sudoku-solver/internal/board"
	"github.com/AgbediaSamuel/sudoku-solver/internal/generator"
)

var (
	genBoxSize    int
	genNumPuzzles int
	genClueCount  string
	genDifficulty string
	genSeed       int64
	genUnique     bool
	genOutputFile string
	genTimeout    time.Duration
)

func init() {
	genCmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate Sudoku puzzles",
		Long: `Generate one or more Sudoku puzzles, either at a difficulty level or
with an explicit clue count.

Examples:
  sudoku gen --difficulty hard
  sudoku gen -n 2 --clues 8
  sudoku gen --number 5 --clues 28:32 --output puzzles.html
  sudoku gen --seed 42 --unique`,
		RunE: runGen,
	}

	genCmd.Flags().IntVarP(&genBoxSize, "box-size", "n", 3, "Box size n (board is n²×n²)")
	genCmd.Flags().IntVar(&genNumPuzzles, "number", 1, "Number of puzzles to generate")
	genCmd.Flags().StringVarP(&genClueCount, "clues", "c", "", "Clue count, single number or range like 28:32")
	genCmd.Flags().StringVarP(&genDifficulty, "difficulty", "d", "medium", "Difficulty: easy, medium, or hard")
	genCmd.Flags().Int64Var(&genSeed, "seed", 0, "Seed for reproducible puzzles (0 = random)")
	genCmd.Flags().BoolVar(&genUnique, "unique", false, "Verify a unique solution while carving (slower)")
	genCmd.Flags().StringVarP(&genOutputFile, "output", "o", "", "Output file (e.g., puzzles.html)")
	genCmd.Flags().DurationVar(&genTimeout, "timeout", 30*time.Second, "Generation timeout per puzzle")

	rootCmd.AddCommand(genCmd)
}

// parseClueRange parses a clue count string which can be a single number
// ("32") or a range ("28:32"). Returns min and max.
func parseClueRange(s string) (int, int, error) {
	parts := strings.Split(s, ":")
	switch len(parts) {
	case 1:
		val, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return 0, 0, fmt.Errorf("invalid clue count: %w", err)
		}
		return val, val, nil
	case 2:
		minVal, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return 0, 0, fmt.Errorf("invalid clue count min: %w", err)
		}
		maxVal, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return 0, 0, fmt.Errorf("invalid clue count max: %w", err)
		}
		if minVal > maxVal {
			return 0, 0, fmt.Errorf("clue count min (%d) cannot be greater than max (%d)", minVal, maxVal)
		}
		return minVal, maxVal, nil
	}
	return 0, 0, fmt.Errorf("invalid clue count format: %s (use '32' or '28:32')", s)
}

func runGen(cmd *cobra.Command, args []string) error {
	side := genBoxSize * genBoxSize
	total := side * side

	var minClues, maxClues int
	if genClueCount != "" {
		var err error
		minClues, maxClues, err = parseClueRange(genClueCount)
		if err != nil {
			return err
		}
		if minClues < generator.MinClues(side) || maxClues > total {
			return fmt.Errorf("clue count must be between %d and %d for a %dx%d board",
				generator.MinClues(side), total, side, side)
		}
	}

	seed := genSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	var puzzles, solutions []*board.Board

	for i := 0; i < genNumPuzzles; i++ {
		opts := generator.DefaultOptions()
		opts.Seed = rng.Int63()
		opts.EnsureUnique = genUnique

		gen, err := generator.New(genBoxSize, opts)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), genTimeout)
		var puzzle, solution *board.Board
		if genClueCount != "" {
			clues := minClues
			if maxClues > minClues {
				clues = minClues + rng.Intn(maxClues-minClues+1)
			}
			solution, err = gen.BuildCompleteGrid(ctx)
			if err == nil {
				puzzle, err = gen.Carve(ctx, solution, clues)
			}
		} else {
			puzzle, solution, err = gen.Generate(ctx, generator.Difficulty(genDifficulty))
		}
		cancel()
		if err != nil {
			return fmt.Errorf("generation failed: %w", err)
		}

		if genOutputFile != "" {
			puzzles = append(puzzles, puzzle)
			solutions = append(solutions, solution)
			continue
		}

		fmt.Printf("Puzzle #%d (clues: %d):\n", i+1, puzzle.ClueCount())
		fmt.Println(puzzle.Format())
		fmt.Println("Solution:")
		fmt.Println(solution.Format())
	}

	if genOutputFile != "" {
		filename := genOutputFile
		if filepath.Ext(filename) != ".html" {
			filename += ".html"
		}
		if err := writeHTML(filename, genBoxSize, puzzles, solutions); err != nil {
			return fmt.Errorf("failed to write HTML file: %w", err)
		}
		fmt.Printf("Generated %d puzzle(s) in %s\n", genNumPuzzles, filename)
	}
	return nil
}

// writeHTML creates a printable HTML file with puzzles, one per page.
func writeHTML(filename string, n int, puzzles, solutions []*board.Board) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create HTML file: %w", err)
	}
	defer file.Close()

	_, err = fmt.Fprintf(file, `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Sudoku Puzzles</title>
    <style>
        body { font-family: Arial, sans-serif; max-width: 800px; margin: 0 auto; padding: 20px; }
        .page { page-break-after: always; padding: 40px; }
        .page:last-child { page-break-after: auto; }
        h1 { text-align: center; }
        h2 { color: #666; font-size: 1.2em; }
        .sudoku-grid { display: inline-block; border: 3px solid #000; margin: 20px auto;
                       font-family: 'Courier New', monospace; font-size: 20px; }
        .sudoku-grid table { border-collapse: collapse; margin: 0 auto; }
        .sudoku-grid td { width: 32px; height: 32px; text-align: center;
                          vertical-align: middle; border: 1px solid #333; padding: 0; }
        .sudoku-grid td.empty { color: #ccc; }
        .sudoku-grid tr:nth-child(%dn) td { border-bottom: 2px solid #000; }
        .sudoku-grid td:nth-child(%dn) { border-right: 2px solid #000; }
    </style>
</head>
<body>
`, n, n)
	if err != nil {
		return err
	}

	for i := range puzzles {
		_, err = fmt.Fprintf(file, `    <div class="page">
        <h1>Sudoku Puzzle #%d</h1>
        <h2>Puzzle</h2>
        %s
        <h2>Solution</h2>
        %s
    </div>
`, i+1, boardToHTML(puzzles[i]), boardToHTML(solutions[i]))
		if err != nil {
			return err
		}
	}

	_, err = fmt.Fprint(file, "</body>\n</html>\n")
	return err
}

// boardToHTML renders a board as an HTML table.
func boardToHTML(b *board.Board) string {
	var sb strings.Builder
	sb.WriteString("<div class=\"sudoku-grid\"><table>")

	for row := 0; row < b.Side(); row++ {
		sb.WriteString("<tr>")
		for col := 0; col < b.Side(); col++ {
			val := b.Get(row, col)
			if val == board.EmptyCell {
				sb.WriteString("<td class=\"empty\">&middot;</td>")
			} else {
				sb.WriteString("<td>" + board.FormatValue(val) + "</td>")
			}
		}
		sb.WriteString("</tr>")
	}

	sb.WriteString("</table></div>")
	return sb.String()
}
