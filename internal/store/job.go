package store

import "time"

// Job is a normalized job posting as persisted in a batch file.
type Job struct {
	Title           string   `json:"title"`
	Company         string   `json:"company"`
	Description     string   `json:"description"`
	Location        string   `json:"location"`
	IsRemote        bool     `json:"is_remote"`
	PostedDate      string   `json:"posted_date"`
	URL             string   `json:"url"`
	Skills          []string `json:"skills"`
	SalaryRange     string   `json:"salary_range,omitempty"`
	MatchedKeywords []string `json:"matched_keywords,omitempty"`
}

// PostedTime parses the posted date. ok is false when the date is missing
// or unparseable.
func (j *Job) PostedTime() (time.Time, bool) {
	if j.PostedDate == "" {
		return time.Time{}, false
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05Z", "2006-01-02"} {
		if t, err := time.Parse(layout, j.PostedDate); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// BatchInfo describes one sync run recorded in the index.
type BatchInfo struct {
	ID           string         `json:"id"`
	Timestamp    time.Time      `json:"timestamp"`
	Keywords     []string       `json:"keywords"`
	Location     string         `json:"location"`
	Country      string         `json:"country"`
	JobCount     int            `json:"job_count"`
	MaxDaysOld   int            `json:"max_days_old"`
	MatchSummary map[string]int `json:"match_summary,omitempty"`
}

// Index is the persistent summary of all stored batches plus the dedup set
// of every job URL ever accepted.
type Index struct {
	Batches   map[string]*BatchInfo `json:"batches"`
	JobCount  int                   `json:"job_count"`
	LastSync  *time.Time            `json:"last_sync,omitempty"`
	LastBatch string                `json:"last_batch,omitempty"`
	SeenURLs  []string              `json:"seen_urls"`
}

func newIndex() *Index {
	return &Index{
		Batches:  make(map[string]*BatchInfo),
		SeenURLs: []string{},
	}
}
