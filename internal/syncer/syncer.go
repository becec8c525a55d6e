// Package syncer orchestrates a job sync run: paged searches against the
// jobs API per keyword, ingestion filtering and batch persistence.
package syncer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jobsift/jobsift/internal/adzuna"
	"github.com/jobsift/jobsift/internal/filtering"
	"github.com/jobsift/jobsift/internal/store"
)

// searcher is the slice of the API client the syncer needs.
type searcher interface {
	CheckCredentials() error
	SearchPage(ctx context.Context, params adzuna.SearchParams, page int) (*adzuna.PageResult, error)
}

// Options configure one sync run.
type Options struct {
	Keywords   []string
	Location   string
	Country    string
	MaxPages   int
	MaxDaysOld int
	Category   string
}

// Result summarizes one sync run.
type Result struct {
	Status       string         `json:"status"`
	Error        string         `json:"error,omitempty"`
	TotalJobs    int            `json:"total_jobs"`
	PagesFetched int            `json:"pages_fetched"`
	BatchID      string         `json:"batch_id,omitempty"`
	MatchSummary map[string]int `json:"match_summary,omitempty"`
}

type Syncer struct {
	client  searcher
	store   *store.Store
	limiter *RateLimiter
	logger  *zap.Logger
}

func New(client searcher, st *store.Store, limiter *RateLimiter, logger *zap.Logger) *Syncer {
	if limiter == nil {
		limiter = NewRateLimiter()
	}

	return &Syncer{
		client:  client,
		store:   st,
		limiter: limiter,
		logger:  logger,
	}
}

// Run executes one full sync. A page fetch error stops pagination but keeps
// everything fetched so far; only a run with zero surviving jobs reports an
// error result.
func (s *Syncer) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := s.client.CheckCredentials(); err != nil {
		return &Result{Status: "error", Error: err.Error()}, err
	}

	keywords := NormalizeKeywords(opts.Keywords)
	keywords, location := ApplyRemoteLocation(keywords, opts.Location)
	if len(keywords) == 0 {
		return &Result{Status: "error", Error: "no keywords to search"}, nil
	}

	var fetched []store.Job
	pages := 0
	apiErr := ""

fetch:
	for _, kw := range keywords {
		params := adzuna.SearchParams{
			Keyword:    kw,
			Location:   location,
			Country:    opts.Country,
			MaxDaysOld: opts.MaxDaysOld,
			Category:   opts.Category,
		}

		// Unset MaxPages means the API's reported page total is the bound.
		for page := 1; opts.MaxPages <= 0 || page <= opts.MaxPages; page++ {
			if pages > 0 {
				if err := s.limiter.DelayBetween(ctx); err != nil {
					apiErr = err.Error()

					break fetch
				}
			}
			if err := s.limiter.Wait(ctx); err != nil {
				apiErr = err.Error()

				break fetch
			}

			result, err := s.client.SearchPage(ctx, params, page)
			if err != nil {
				s.logger.Warn("search page failed, keeping jobs fetched so far",
					zap.String("keyword", kw),
					zap.Int("page", page),
					zap.Error(err),
				)
				apiErr = err.Error()

				break fetch
			}

			pages++
			fetched = append(fetched, result.Jobs...)

			s.logger.Debug("fetched page",
				zap.String("keyword", kw),
				zap.Int("page", page),
				zap.Int("jobs", len(result.Jobs)),
				zap.Int("total_pages", result.TotalPages),
			)

			if page >= result.TotalPages {
				break
			}
		}
	}

	hits := make(map[string]int, len(keywords))
	kept := filtering.Run(s.logger, fetched,
		filtering.NewDedup(s.store.SeenURLs()),
		filtering.NewExclusion(filtering.ExclusionTerms),
		filtering.NewKeywordMatch(keywords, hits),
	)

	if len(kept) == 0 {
		msg := apiErr
		if msg == "" {
			msg = "no new jobs found"
		}

		return &Result{Status: "error", Error: msg, PagesFetched: pages}, nil
	}

	info := &store.BatchInfo{
		ID:           uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Keywords:     keywords,
		Location:     location,
		Country:      opts.Country,
		MaxDaysOld:   opts.MaxDaysOld,
		MatchSummary: hits,
	}
	if err := s.store.SaveBatch(info, kept); err != nil {
		return &Result{Status: "error", Error: err.Error(), PagesFetched: pages}, err
	}

	s.logger.Info("sync complete",
		zap.String("batch", info.ID),
		zap.Int("jobs", len(kept)),
		zap.Int("pages", pages),
	)

	status := "success"
	if apiErr != "" {
		status = "partial"
	}

	return &Result{
		Status:       status,
		Error:        apiErr,
		TotalJobs:    len(kept),
		PagesFetched: pages,
		BatchID:      info.ID,
		MatchSummary: hits,
	}, nil
}
