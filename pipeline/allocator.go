package pipeline

import "fmt"

// Allocate greedily accumulates candidates in resolver-ranked order until
// their cumulative native duration covers targetSeconds, then discards the
// rest of the list. A candidate that pushes the cumulative past the target
// is still included. Each selected candidate receives an equal share of the
// target, targetSeconds / countSelected, regardless of its native length.
//
// Allocation fails with ErrInsufficientFootage when the full candidate list
// cannot cover the target, or when a selected candidate's native duration
// is shorter than its equal share (looping clips is out of scope, so such
// an allocation could not be composited without truncating narration).
func Allocate(candidates []FootageCandidate, targetSeconds float64) (FootageAllocation, error) {
	if targetSeconds <= 0 {
		return nil, fmt.Errorf("allocate: target duration must be positive, got %f", targetSeconds)
	}

	var cumulative float64
	selected := 0
	for _, c := range candidates {
		if cumulative >= targetSeconds {
			break
		}
		cumulative += c.DurationSeconds
		selected++
	}

	if cumulative < targetSeconds {
		return nil, fmt.Errorf("%w: candidates cover %.2fs of %.2fs target",
			ErrInsufficientFootage, cumulative, targetSeconds)
	}

	share := targetSeconds / float64(selected)
	alloc := make(FootageAllocation, 0, selected)
	for _, c := range candidates[:selected] {
		if c.DurationSeconds < share {
			return nil, fmt.Errorf("%w: clip is %.2fs, shorter than its %.2fs share",
				ErrInsufficientFootage, c.DurationSeconds, share)
		}
		alloc = append(alloc, AllocatedClip{Candidate: c, ShareSeconds: share})
	}
	return alloc, nil
}
