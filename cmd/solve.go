package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/AgbediaSamuel/sudoku-solver/internal/board"
	"github.com/AgbediaSamuel/sudoku-solver/internal/solver"
	"github.com/AgbediaSamuel/sudoku-solver/internal/validator"
)

var (
	solveBoxSize   int
	solveFile      string
	solveMRV       bool
	solveFC        bool
	solveExplain   bool
	solveKeySteps  bool
	solveValidator string
	solveProfile   bool
	solveTimeout   time.Duration
)

func init() {
	solveCmd := &cobra.Command{
		Use:   "solve [puzzle]",
		Short: "Solve a Sudoku puzzle",
		Long: `Solve a puzzle given in compact string form: one base-36 digit per
cell ('1'-'9', 'A'-'Z'), with '.' or '0' for empty cells. The puzzle is
read from the argument, from a file, or from stdin.

Examples:
  sudoku solve "1.3...1...4.4.2." -n 2
  sudoku solve --file puzzle.txt --explain
  sudoku solve --file hard.txt --mrv=false --forward-checking=false`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSolve,
	}

	solveCmd.Flags().IntVarP(&solveBoxSize, "box-size", "n", 3, "Box size n (board is n²×n²)")
	solveCmd.Flags().StringVarP(&solveFile, "file", "f", "", "Read the puzzle from a file")
	solveCmd.Flags().BoolVar(&solveMRV, "mrv", true, "Use the minimum-remaining-values heuristic")
	solveCmd.Flags().BoolVar(&solveFC, "forward-checking", true, "Prune assignments that empty another cell's candidates")
	solveCmd.Flags().BoolVar(&solveExplain, "explain", false, "Print the decision trace after solving")
	solveCmd.Flags().BoolVar(&solveKeySteps, "key-steps", false, "With --explain, print only the key decisions")
	solveCmd.Flags().StringVar(&solveValidator, "validator", "", "Base URL of an external constraint validator")
	solveCmd.Flags().BoolVar(&solveProfile, "profile", false, "Write a CPU profile to the current directory")
	solveCmd.Flags().DurationVar(&solveTimeout, "timeout", 0, "Abort solving after this duration (0 = no limit)")

	rootCmd.AddCommand(solveCmd)
}

func runSolve(cmd *cobra.Command, args []string) error {
	if solveProfile {
		defer profile.Start(profile.ProfilePath(".")).Stop()
	}

	puzzle, err := readPuzzle(args)
	if err != nil {
		return err
	}

	b, err := board.FromString(solveBoxSize, puzzle)
	if err != nil {
		return err
	}

	opts := &solver.Options{
		MRV:             solveMRV,
		ForwardChecking: solveFC,
		Explain:         solveExplain,
	}
	if solveValidator != "" {
		client, err := validator.NewClient(solveValidator, nil)
		if err != nil {
			return err
		}
		opts.Validator = client
	}

	ctx := cmd.Context()
	if solveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, solveTimeout)
		defer cancel()
	}

	s := solver.New(opts)
	solution, stats, err := s.Solve(ctx, b)

	if solveExplain {
		trace := s.Explanations()
		if solveKeySteps {
			trace = solver.FilterKeySteps(trace)
		}
		for _, entry := range trace {
			fmt.Println(entry)
		}
		fmt.Println()
	}

	if err != nil {
		if errors.Is(err, solver.ErrUnsatisfiable) {
			fmt.Printf("No solution exists (explored %d nodes, %d backtracks in %v)\n",
				stats.Nodes, stats.Backtracks, stats.Duration)
		}
		return err
	}

	fmt.Println(solution.Format())
	fmt.Printf("Nodes explored: %d\n", stats.Nodes)
	fmt.Printf("Backtracks:     %d\n", stats.Backtracks)
	fmt.Printf("Time:           %v\n", stats.Duration)
	fmt.Printf("MRV heuristic:  %v\n", stats.MRV)
	fmt.Printf("Forward check:  %v\n", stats.ForwardChecking)
	return nil
}

// readPuzzle takes the puzzle from the argument, a file, or stdin.
func readPuzzle(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if solveFile != "" {
		data, err := os.ReadFile(solveFile)
		if err != nil {
			return "", fmt.Errorf("read puzzle file: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read puzzle from stdin: %w", err)
	}
	return string(data), nil
}
