// Package scoring computes similarity scores between resume and job
// embeddings and applies the skill/title boosting on top of them.
package scoring

import (
	"math"

	"github.com/jobsift/jobsift/internal/vector"
)

// Cosine returns the cosine similarity of a and b remapped from [-1,1] to
// [0,1] so that unrelated content never produces a negative score. Empty,
// all-zero or non-finite vectors yield 0: "no signal" rather than an error.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	if !vector.Finite(a) || !vector.Finite(b) {
		return 0
	}

	denom := vector.Norm(a) * vector.Norm(b)
	if denom == 0 {
		return 0
	}

	sim := (vector.Dot(a, b)/denom + 1) / 2
	if math.IsNaN(sim) || math.IsInf(sim, 0) {
		return 0
	}

	return math.Min(math.Max(sim, 0), 1)
}
