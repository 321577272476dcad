package solver

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/AgbediaSamuel/sudoku-solver/internal/board"
)

const (
	puzzle4   = "1.3...1...4.4.2."
	solution4 = "1234341221434321"

	easy9   = "53..7....6..195....98....6.8...6...34..8.3..17...2...6.6....28....419..5....8..79"
	solved9 = "534678912672195348198342567859761423426853791713924856961537284287419635345286179"
)

// unsat4 has no solution: cell (0,3) needs a 4, but column 3 already has one.
var unsat4 = [][]int{
	{1, 2, 3, 0},
	{0, 0, 0, 4},
	{0, 0, 0, 0},
	{0, 0, 0, 0},
}

func mustBoard(t *testing.T, n int, puzzle string) *board.Board {
	t.Helper()
	b, err := board.FromString(n, puzzle)
	if err != nil {
		t.Fatalf("FromString failed: %v", err)
	}
	return b
}

func heuristicCombos() []struct {
	name    string
	mrv, fc bool
} {
	return []struct {
		name    string
		mrv, fc bool
	}{
		{"naive", false, false},
		{"mrv only", true, false},
		{"fc only", false, true},
		{"mrv+fc", true, true},
	}
}

func TestSolve4x4AllHeuristics(t *testing.T) {
	nodes := map[string]int{}

	for _, tc := range heuristicCombos() {
		t.Run(tc.name, func(t *testing.T) {
			s := New(&Options{MRV: tc.mrv, ForwardChecking: tc.fc})
			solution, stats, err := s.Solve(context.Background(), mustBoard(t, 2, puzzle4))
			if err != nil {
				t.Fatalf("Solve failed: %v", err)
			}
			if !solution.IsValidSolution() {
				t.Fatal("reported solution fails IsValidSolution")
			}
			if got := solution.String(); got != solution4 {
				t.Errorf("solution = %q, want %q", got, solution4)
			}
			if stats.Nodes <= 0 {
				t.Errorf("stats.Nodes = %d, want > 0", stats.Nodes)
			}
			nodes[tc.name] = stats.Nodes
		})
	}

	// Heuristics change the amount of work, never the outcome.
	if nodes["mrv+fc"] > nodes["naive"] {
		t.Errorf("mrv+fc explored %d nodes, naive %d; heuristics should not cost nodes",
			nodes["mrv+fc"], nodes["naive"])
	}
}

func TestSolve9x9(t *testing.T) {
	s := New(DefaultOptions())
	solution, stats, err := s.Solve(context.Background(), mustBoard(t, 3, easy9))
	if err != nil {
		t.Fatalf("Solve failed: %v (nodes=%d)", err, stats.Nodes)
	}
	if got := solution.String(); got != solved9 {
		t.Errorf("solution = %q, want %q", got, solved9)
	}
	if !stats.MRV || !stats.ForwardChecking {
		t.Errorf("stats flags = %+v, want both heuristics recorded as on", stats)
	}
}

func TestSolveDoesNotMutateInput(t *testing.T) {
	b := mustBoard(t, 2, puzzle4)
	before := b.String()
	if _, _, err := New(nil).Solve(context.Background(), b); err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if b.String() != before {
		t.Errorf("input board mutated: %q -> %q", before, b.String())
	}
}

func TestSolveSingleEmptyCell(t *testing.T) {
	full := mustBoard(t, 3, solved9)
	removed := full.Get(4, 4)
	full.Clear(4, 4)

	s := New(DefaultOptions())
	solution, stats, err := s.Solve(context.Background(), full)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if stats.Nodes != 1 {
		t.Errorf("stats.Nodes = %d, want exactly 1", stats.Nodes)
	}
	if stats.Backtracks != 0 {
		t.Errorf("stats.Backtracks = %d, want 0", stats.Backtracks)
	}
	if solution.Get(4, 4) != removed {
		t.Errorf("restored %d at (4,4), want %d", solution.Get(4, 4), removed)
	}
}

func TestSolveUnsatisfiable(t *testing.T) {
	for _, tc := range heuristicCombos() {
		t.Run(tc.name, func(t *testing.T) {
			b, err := board.FromGrid(2, unsat4)
			if err != nil {
				t.Fatalf("FromGrid failed: %v", err)
			}
			s := New(&Options{MRV: tc.mrv, ForwardChecking: tc.fc})
			_, stats, err := s.Solve(context.Background(), b)
			if !errors.Is(err, ErrUnsatisfiable) {
				t.Fatalf("Solve error = %v, want ErrUnsatisfiable", err)
			}
			if stats.Nodes <= 0 {
				t.Errorf("stats.Nodes = %d, want > 0", stats.Nodes)
			}
		})
	}
}

func TestSolveCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := New(nil).Solve(ctx, mustBoard(t, 3, easy9))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Solve error = %v, want context.Canceled", err)
	}
}

func TestTraceContent(t *testing.T) {
	s := New(&Options{MRV: true, ForwardChecking: true, Explain: true})
	if _, _, err := s.Solve(context.Background(), mustBoard(t, 2, puzzle4)); err != nil {
		t.Fatalf("Solve failed: %v", err)
	}

	trace := s.Explanations()
	if len(trace) == 0 {
		t.Fatal("no trace entries with Explain on")
	}
	if want := "Starting solver for 4x4 Sudoku (n=2)"; trace[0] != want {
		t.Errorf("trace[0] = %q, want %q", trace[0], want)
	}
	joined := strings.Join(trace, "\n")
	if !strings.Contains(joined, "[MRV] Selected cell") {
		t.Error("trace missing MRV selection entries")
	}
	if !strings.Contains(joined, "-> Trying") {
		t.Error("trace missing trial entries")
	}
	if last := trace[len(trace)-1]; !strings.HasPrefix(last, "Solution found") {
		t.Errorf("last entry = %q, want success entry", last)
	}
}

func TestTraceDisabled(t *testing.T) {
	s := New(&Options{MRV: true, ForwardChecking: true})
	if _, _, err := s.Solve(context.Background(), mustBoard(t, 2, puzzle4)); err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if got := s.Explanations(); len(got) != 0 {
		t.Errorf("Explanations() has %d entries with Explain off", len(got))
	}
}

func TestDeterministicSearch(t *testing.T) {
	run := func() ([]string, Stats) {
		s := New(&Options{MRV: true, ForwardChecking: true, Explain: true})
		_, stats, err := s.Solve(context.Background(), mustBoard(t, 3, easy9))
		if err != nil {
			t.Fatalf("Solve failed: %v", err)
		}
		return s.Explanations(), stats
	}

	trace1, stats1 := run()
	trace2, stats2 := run()

	if stats1.Nodes != stats2.Nodes || stats1.Backtracks != stats2.Backtracks {
		t.Errorf("counters differ across identical runs: %+v vs %+v", stats1, stats2)
	}
	if strings.Join(trace1, "\n") != strings.Join(trace2, "\n") {
		t.Error("traces differ across identical runs")
	}
}

// recordingObserver captures every node snapshot for invariant checks.
type recordingObserver struct {
	snapshots []*board.Board
	entries   []string
}

func (o *recordingObserver) OnNode(snapshot *board.Board, lastEntry string) {
	o.snapshots = append(o.snapshots, snapshot)
	o.entries = append(o.entries, lastEntry)
}

func TestObserverSeesOnlyConsistentBoards(t *testing.T) {
	obs := &recordingObserver{}
	s := New(&Options{MRV: true, ForwardChecking: true, Explain: true, Observer: obs})

	_, stats, err := s.Solve(context.Background(), mustBoard(t, 3, easy9))
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if len(obs.snapshots) != stats.Nodes {
		t.Errorf("observer saw %d nodes, stats counted %d", len(obs.snapshots), stats.Nodes)
	}
	for i, snap := range obs.snapshots {
		if !snap.IsValid() {
			t.Fatalf("snapshot %d violates the consistency invariant:\n%s", i, snap.Format())
		}
	}
}

// fakeValidator always has an opinion, possibly a wrong one.
type fakeValidator struct {
	candidates []int
}

func (f fakeValidator) Available() bool { return true }

func (f fakeValidator) ValidateBoard(context.Context, [][]int, int, int) bool { return true }

func (f fakeValidator) Candidates(context.Context, [][]int, int, int, int, int) []int {
	return f.candidates
}

func TestValidatorIsAdvisoryOnly(t *testing.T) {
	s := New(&Options{
		MRV:             true,
		ForwardChecking: true,
		Explain:         true,
		Validator:       fakeValidator{candidates: []int{1, 2, 3, 4}},
	})

	solution, stats, err := s.Solve(context.Background(), mustBoard(t, 2, puzzle4))
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if got := solution.String(); got != solution4 {
		t.Errorf("disagreeing validator changed the result: %q", got)
	}
	if !stats.ValidatorActive {
		t.Error("stats.ValidatorActive = false with an available validator")
	}

	joined := strings.Join(s.Explanations(), "\n")
	if !strings.Contains(joined, "External validator found different candidates") {
		t.Error("trace missing the disagreement diagnostic")
	}
	if !strings.Contains(joined, "solution confirmed by external validator") {
		t.Error("trace missing the corroboration entry")
	}
}
