package solver

import (
	"fmt"
	"strings"
)

// filterKeySteps thresholds
const (
	filterThreshold = 100 // traces at or below this length pass through untouched
	headSteps       = 5
	tailSteps       = 5
	maxBacktracks   = 30
	milestoneStride = 50
)

// FilterKeySteps reduces a long trace to its decision-relevant entries:
// the opening lines, every MRV selection, every forward-checking failure,
// the first backtracks, periodic milestones, and the closing lines. Short
// traces are returned unchanged.
func FilterKeySteps(trace []string) []string {
	if len(trace) <= filterThreshold {
		return trace
	}

	keySteps := make([]string, 0, filterThreshold)
	keySteps = append(keySteps, trace[:headSteps]...)

	backtracks := 0
	for i := headSteps; i < len(trace)-tailSteps; i++ {
		entry := trace[i]
		switch {
		case strings.Contains(entry, "[MRV]"):
			keySteps = append(keySteps, entry)
		case strings.Contains(entry, "Forward checking failed"):
			keySteps = append(keySteps, entry)
		case strings.Contains(entry, "Backtracking"):
			backtracks++
			if backtracks <= maxBacktracks {
				keySteps = append(keySteps, entry)
			}
		case i%milestoneStride == 0:
			keySteps = append(keySteps, fmt.Sprintf("... [Milestone: Step %d] ...", i+1))
		}
	}

	keySteps = append(keySteps, trace[len(trace)-tailSteps:]...)
	return keySteps
}
