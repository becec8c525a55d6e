// Package store keeps synced job batches on disk as JSON files plus a
// single index file that tracks batches, counters and the dedup set of
// already-seen job URLs.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"
)

const indexFile = "index.json"

// Status is a read-only snapshot of the store for reporting.
type Status struct {
	BatchCount int          `json:"batch_count"`
	JobCount   int          `json:"job_count"`
	LastSync   *time.Time   `json:"last_sync,omitempty"`
	LastBatch  string       `json:"last_batch,omitempty"`
	SeenURLs   int          `json:"seen_urls"`
	Batches    []*BatchInfo `json:"batches"`
}

// Store persists job batches under a single directory.
type Store struct {
	dir    string
	logger *zap.Logger
}

func New(dir string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	return &Store{dir: dir, logger: logger}, nil
}

func (s *Store) batchPath(id string) string {
	return filepath.Join(s.dir, "batch_"+id+".json")
}

func (s *Store) loadIndex() *Index {
	raw, err := os.ReadFile(filepath.Join(s.dir, indexFile))
	if err != nil {
		return newIndex()
	}

	var idx Index
	if err := json.Unmarshal(raw, &idx); err != nil {
		s.logger.Warn("store index unreadable, starting empty", zap.Error(err))

		return newIndex()
	}
	if idx.Batches == nil {
		idx.Batches = make(map[string]*BatchInfo)
	}
	if idx.SeenURLs == nil {
		idx.SeenURLs = []string{}
	}

	return &idx
}

// saveIndex writes the index atomically so a crash mid-write cannot leave a
// truncated index behind.
func (s *Store) saveIndex(idx *Index) error {
	raw, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding index: %w", err)
	}

	path := filepath.Join(s.dir, indexFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("writing index: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing index: %w", err)
	}

	return nil
}

// SaveBatch writes the batch file and updates the index: batch entry,
// aggregate counters and the dedup set.
func (s *Store) SaveBatch(info *BatchInfo, jobs []Job) error {
	raw, err := json.MarshalIndent(jobs, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding batch %s: %w", info.ID, err)
	}
	if err := os.WriteFile(s.batchPath(info.ID), raw, 0o644); err != nil {
		return fmt.Errorf("writing batch %s: %w", info.ID, err)
	}

	idx := s.loadIndex()

	info.JobCount = len(jobs)
	idx.Batches[info.ID] = info
	idx.JobCount += len(jobs)
	now := info.Timestamp
	idx.LastSync = &now
	idx.LastBatch = info.ID

	seen := make(map[string]struct{}, len(idx.SeenURLs))
	for _, u := range idx.SeenURLs {
		seen[u] = struct{}{}
	}
	for _, j := range jobs {
		if _, ok := seen[j.URL]; !ok {
			seen[j.URL] = struct{}{}
			idx.SeenURLs = append(idx.SeenURLs, j.URL)
		}
	}

	return s.saveIndex(idx)
}

// LoadBatch reads one batch file by id.
func (s *Store) LoadBatch(id string) ([]Job, error) {
	raw, err := os.ReadFile(s.batchPath(id))
	if err != nil {
		return nil, fmt.Errorf("reading batch %s: %w", id, err)
	}

	var jobs []Job
	if err := json.Unmarshal(raw, &jobs); err != nil {
		return nil, fmt.Errorf("parsing batch %s: %w", id, err)
	}

	return jobs, nil
}

// AllJobs returns the jobs of every batch in the index. Batches whose file
// is missing or unreadable are skipped with a warning.
func (s *Store) AllJobs() []Job {
	idx := s.loadIndex()

	ids := make([]string, 0, len(idx.Batches))
	for id := range idx.Batches {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var all []Job
	for _, id := range ids {
		jobs, err := s.LoadBatch(id)
		if err != nil {
			s.logger.Warn("skipping unreadable batch", zap.String("batch", id), zap.Error(err))

			continue
		}
		all = append(all, jobs...)
	}

	return all
}

// RecentJobs returns jobs posted within the last maxDays. Jobs whose posted
// date cannot be parsed are kept rather than silently dropped.
func (s *Store) RecentJobs(maxDays int) []Job {
	all := s.AllJobs()
	if maxDays <= 0 {
		return all
	}

	cutoff := time.Now().AddDate(0, 0, -maxDays)

	var recent []Job
	for _, j := range all {
		posted, ok := j.PostedTime()
		if !ok || !posted.Before(cutoff) {
			recent = append(recent, j)
		}
	}

	return recent
}

// SeenURLs returns the persistent dedup set as a lookup map.
func (s *Store) SeenURLs() map[string]struct{} {
	idx := s.loadIndex()

	seen := make(map[string]struct{}, len(idx.SeenURLs))
	for _, u := range idx.SeenURLs {
		seen[u] = struct{}{}
	}

	return seen
}

// Cleanup removes batches older than maxAgeDays and rebuilds the counters
// and the dedup set from the surviving batches. It returns the number of
// batches removed.
func (s *Store) Cleanup(maxAgeDays int) (int, error) {
	idx := s.loadIndex()
	cutoff := time.Now().AddDate(0, 0, -maxAgeDays)

	removed := 0
	for id, info := range idx.Batches {
		if info.Timestamp.Before(cutoff) {
			if err := os.Remove(s.batchPath(id)); err != nil && !os.IsNotExist(err) {
				return removed, fmt.Errorf("removing batch %s: %w", id, err)
			}
			delete(idx.Batches, id)
			removed++
		}
	}

	if removed > 0 {
		s.rebuild(idx)
		if err := s.saveIndex(idx); err != nil {
			return removed, err
		}
	}

	return removed, nil
}

// DeleteBatch removes one batch and rebuilds the index.
func (s *Store) DeleteBatch(id string) error {
	idx := s.loadIndex()

	if _, ok := idx.Batches[id]; !ok {
		return fmt.Errorf("batch %s not found", id)
	}
	if err := os.Remove(s.batchPath(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing batch %s: %w", id, err)
	}
	delete(idx.Batches, id)

	s.rebuild(idx)

	return s.saveIndex(idx)
}

// rebuild recomputes job count, last batch and the dedup set from the
// batches that remain, so seen URLs never outlive their batch.
func (s *Store) rebuild(idx *Index) {
	idx.JobCount = 0
	idx.LastBatch = ""
	idx.SeenURLs = []string{}

	var latest time.Time
	seen := make(map[string]struct{})
	for id, info := range idx.Batches {
		idx.JobCount += info.JobCount
		if info.Timestamp.After(latest) {
			latest = info.Timestamp
			idx.LastBatch = id
		}

		jobs, err := s.LoadBatch(id)
		if err != nil {
			s.logger.Warn("skipping unreadable batch during rebuild", zap.String("batch", id), zap.Error(err))

			continue
		}
		for _, j := range jobs {
			if _, ok := seen[j.URL]; !ok {
				seen[j.URL] = struct{}{}
				idx.SeenURLs = append(idx.SeenURLs, j.URL)
			}
		}
	}

	if len(idx.Batches) == 0 {
		idx.LastSync = nil
	}
}

// Status summarizes the store for reporting, batches newest first.
func (s *Store) Status() *Status {
	idx := s.loadIndex()

	batches := make([]*BatchInfo, 0, len(idx.Batches))
	for _, info := range idx.Batches {
		batches = append(batches, info)
	}
	sort.Slice(batches, func(i, j int) bool {
		return batches[i].Timestamp.After(batches[j].Timestamp)
	})

	return &Status{
		BatchCount: len(idx.Batches),
		JobCount:   idx.JobCount,
		LastSync:   idx.LastSync,
		LastBatch:  idx.LastBatch,
		SeenURLs:   len(idx.SeenURLs),
		Batches:    batches,
	}
}
