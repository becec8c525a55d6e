// Package matcher scores stored jobs against a resume and ranks them,
// consulting the match cache before doing any embedding work.
package matcher

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/jobsift/jobsift/internal/embedding"
	"github.com/jobsift/jobsift/internal/filtering"
	"github.com/jobsift/jobsift/internal/matchcache"
	"github.com/jobsift/jobsift/internal/resumes"
	"github.com/jobsift/jobsift/internal/scoring"
	"github.com/jobsift/jobsift/internal/store"
)

// Filters narrow the job pool before any scoring happens.
type Filters struct {
	Remote   bool   `json:"remote,omitempty"`
	Location string `json:"location,omitempty"`
	Keywords string `json:"keywords,omitempty"`
}

func (f *Filters) IsZero() bool {
	return f == nil || (!f.Remote && f.Location == "" && f.Keywords == "")
}

// Match is one scored job.
type Match struct {
	Job       store.Job          `json:"job"`
	Score     float64            `json:"score"`
	Breakdown *scoring.Breakdown `json:"breakdown,omitempty"`
}

type Matcher struct {
	engine   *embedding.Engine
	jobs     *store.Store
	resumes  *resumes.Store
	cache    *matchcache.Cache
	skillMap map[string]string
	titleMap map[string]string
	logger   *zap.Logger
}

func New(engine *embedding.Engine, jobs *store.Store, res *resumes.Store, cache *matchcache.Cache, skillMap, titleMap map[string]string, logger *zap.Logger) *Matcher {
	return &Matcher{
		engine:   engine,
		jobs:     jobs,
		resumes:  res,
		cache:    cache,
		skillMap: skillMap,
		titleMap: titleMap,
		logger:   logger,
	}
}

// resolveEmbeddings returns the resume's cached embedding pair, computing
// and persisting it when absent or invalid.
func (m *Matcher) resolveEmbeddings(ctx context.Context, resumeID, text string) *embedding.Dual {
	if dual, ok := m.resumes.Embeddings(resumeID); ok {
		return dual
	}

	dual := m.engine.DualEmbed(ctx, text)
	if err := m.resumes.PutEmbeddings(resumeID, dual); err != nil {
		m.logger.Warn("caching resume embeddings failed",
			zap.String("resume", resumeID),
			zap.Error(err),
		)
	}

	return dual
}

// Match ranks all stored jobs against a stored resume.
func (m *Matcher) Match(ctx context.Context, resumeID string, filters *Filters) ([]Match, error) {
	text, err := m.resumes.Content(resumeID)
	if err != nil {
		return nil, err
	}

	dual := m.resolveEmbeddings(ctx, resumeID, text)

	return m.rank(ctx, dual, text, filters), nil
}

// MatchText ranks all stored jobs against raw resume text that is not
// stored, for one-off comparisons.
func (m *Matcher) MatchText(ctx context.Context, text string, filters *Filters) []Match {
	dual := m.engine.DualEmbed(ctx, text)

	return m.rank(ctx, dual, text, filters)
}

func (m *Matcher) rank(ctx context.Context, dual *embedding.Dual, resumeText string, filters *Filters) []Match {
	pool := m.jobs.AllJobs()
	pool = m.applyFilters(pool, filters)

	resumeTitle := ExtractResumeTitle(resumeText)

	matches := make([]Match, 0, len(pool))
	for _, job := range pool {
		jobText := job.Title + " " + job.Description
		jobDual := m.engine.DualEmbed(ctx, jobText)

		raw := (scoring.Cosine(dual.Narrative, jobDual.Narrative) +
			scoring.Cosine(dual.Skills, jobDual.Skills)) / 2

		score, breakdown := scoring.Boost(raw, resumeText, jobText, m.skillMap, resumeTitle, job.Title, m.titleMap)

		matches = append(matches, Match{Job: job, Score: score, Breakdown: breakdown})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	return matches
}

func (m *Matcher) applyFilters(pool []store.Job, filters *Filters) []store.Job {
	if filters.IsZero() {
		return pool
	}

	var steps []filtering.Filter
	if filters.Remote {
		steps = append(steps, filtering.NewRemoteOnly())
	}
	if filters.Location != "" {
		steps = append(steps, filtering.NewLocation(filters.Location))
	}
	if filters.Keywords != "" {
		steps = append(steps, filtering.NewKeywordsAny(filters.Keywords))
	}

	return filtering.Run(m.logger, pool, steps...)
}

// Percentages returns job URL to integer match percent for a stored resume,
// served from the match cache when the job pool and filters are unchanged.
func (m *Matcher) Percentages(ctx context.Context, resumeID string, filters *Filters) (map[string]int, error) {
	urls := make([]string, 0)
	for _, j := range m.jobs.AllJobs() {
		urls = append(urls, j.URL)
	}
	jobHash := matchcache.FingerprintJobs(urls)

	filterHash := matchcache.NoFilters
	if !filters.IsZero() {
		filterHash = matchcache.FingerprintFilters(filters)
	}

	if cached, ok := m.cache.Get(resumeID, jobHash, filterHash); ok {
		m.logger.Debug("match cache hit", zap.String("resume", resumeID))

		return cached, nil
	}

	matches, err := m.Match(ctx, resumeID, filters)
	if err != nil {
		return nil, err
	}

	percentages := make(map[string]int, len(matches))
	for _, match := range matches {
		percentages[match.Job.URL] = int(match.Score * 100)
	}

	if err := m.cache.Put(resumeID, jobHash, filterHash, percentages); err != nil {
		m.logger.Warn("storing match cache failed", zap.Error(err))
	}

	return percentages, nil
}

// ExtractResumeTitle guesses a job title from the first resume line that
// names a recognizable role.
func ExtractResumeTitle(text string) string {
	roles := []string{"developer", "engineer", "manager", "analyst", "designer", "architect", "scientist"}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lowered := strings.ToLower(line)
		for _, role := range roles {
			if strings.Contains(lowered, role) {
				return line
			}
		}
	}

	return ""
}
