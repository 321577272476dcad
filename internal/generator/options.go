package generator

// Difficulty selects how many clues a generated puzzle keeps.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Options configures puzzle generation behavior.
type Options struct {
	// Seed makes generation reproducible; 0 means time-derived.
	Seed int64

	// MaxAttempts bounds the retries when completing a seeded grid fails.
	// Given the diagonal seeding strategy, exhausting it is vanishingly rare.
	MaxAttempts int

	// EnsureUnique verifies after each carved cell that the puzzle still has
	// exactly one solution, reverting the removal otherwise. Slower but
	// strict; off by default, carving trusts the clue-count floor instead.
	EnsureUnique bool
}

// DefaultOptions returns standard generator options.
func DefaultOptions() *Options {
	return &Options{
		MaxAttempts: 10,
	}
}
