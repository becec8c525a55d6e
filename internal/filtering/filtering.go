// Package filtering runs jobs through an ordered pipeline of filter steps,
// logging what each step dropped. The same pipeline serves both sync-time
// ingestion filters and match-time result filters.
package filtering

import (
	"go.uber.org/zap"

	"github.com/jobsift/jobsift/internal/store"
)

// Filter represents a single filtering step applied to jobs.
type Filter interface {
	Name() string
	Apply(jobs []store.Job) ([]store.Job, Step)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Run executes the supplied filters sequentially, returning the surviving
// jobs.
func Run(logger *zap.Logger, jobs []store.Job, steps ...Filter) []store.Job {
	for _, step := range steps {
		next, info := step.Apply(jobs)

		if logger != nil {
			logger.Info("filter step",
				zap.String("name", step.Name()),
				zap.Int("initial", info.Initial),
				zap.Int("dropped", info.Dropped),
				zap.Int("left", info.Left),
			)
		}

		jobs = next
	}

	return jobs
}

func keep(jobs []store.Job, pred func(*store.Job) bool) ([]store.Job, Step) {
	initial := len(jobs)

	kept := make([]store.Job, 0, initial)
	for i := range jobs {
		if pred(&jobs[i]) {
			kept = append(kept, jobs[i])
		}
	}

	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}
}
