package runtime

import "github.com/aretw0/interviewer/pkg/domain"

// AdjustDifficulty moves the difficulty one step towards the answer quality:
// strong raises it, weak lowers it, ok keeps it. The result is clamped to [lo, hi].
func AdjustDifficulty(current int, quality domain.Quality, lo, hi int) int {
	next := current
	switch quality {
	case domain.QualityStrong:
		next++
	case domain.QualityWeak:
		next--
	}
	return max(lo, min(hi, next))
}
