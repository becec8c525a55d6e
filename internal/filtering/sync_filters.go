package filtering

import (
	"strings"

	"github.com/jobsift/jobsift/internal/store"
)

// ExclusionTerms is the default deny-list. A job whose title or description
// contains any of these terms is dropped before keyword matching, so an
// unrelated posting cannot survive on an incidental keyword hit.
var ExclusionTerms = []string{
	"nurse", "rn", "lpn", "med/surg", "icu", "surgical", "hospital",
	"auditor", "classroom", "teacher", "clinical", "rehab", "pharmacy",
	"therapist", "case manager",
}

type dedupFilter struct {
	seen    map[string]struct{}
	seenRun map[string]struct{}
}

// NewDedup creates a filter that drops jobs whose URL was already accepted,
// either in a previous sync (seen) or earlier in the current run.
func NewDedup(seen map[string]struct{}) Filter {
	return &dedupFilter{
		seen:    seen,
		seenRun: make(map[string]struct{}),
	}
}

func (f *dedupFilter) Name() string { return "dedup" }

func (f *dedupFilter) Apply(jobs []store.Job) ([]store.Job, Step) {
	return keep(jobs, func(j *store.Job) bool {
		if _, ok := f.seen[j.URL]; ok {
			return false
		}
		if _, ok := f.seenRun[j.URL]; ok {
			return false
		}
		f.seenRun[j.URL] = struct{}{}

		return true
	})
}

type exclusionFilter struct {
	terms []string
}

// NewExclusion creates a filter that drops jobs containing any of the given
// terms in their title or description.
func NewExclusion(terms []string) Filter {
	lowered := make([]string, len(terms))
	for i, t := range terms {
		lowered[i] = strings.ToLower(t)
	}

	return &exclusionFilter{terms: lowered}
}

func (f *exclusionFilter) Name() string { return "exclusion" }

func (f *exclusionFilter) Apply(jobs []store.Job) ([]store.Job, Step) {
	return keep(jobs, func(j *store.Job) bool {
		haystack := strings.ToLower(j.Title + " " + j.Description)
		for _, term := range f.terms {
			if strings.Contains(haystack, term) {
				return false
			}
		}

		return true
	})
}

type keywordMatchFilter struct {
	keywords []string
	hits     map[string]int
}

// NewKeywordMatch creates a filter that keeps only jobs whose title or
// description contains at least one search keyword. Hits for each keyword
// are counted and the matched keywords recorded on the job itself.
func NewKeywordMatch(keywords []string, hits map[string]int) Filter {
	return &keywordMatchFilter{keywords: keywords, hits: hits}
}

func (f *keywordMatchFilter) Name() string { return "keyword_match" }

func (f *keywordMatchFilter) Apply(jobs []store.Job) ([]store.Job, Step) {
	return keep(jobs, func(j *store.Job) bool {
		haystack := strings.ToLower(j.Title + " " + j.Description)

		var matched []string
		for _, kw := range f.keywords {
			if strings.Contains(haystack, kw) {
				matched = append(matched, kw)
				if f.hits != nil {
					f.hits[kw]++
				}
			}
		}
		if len(matched) == 0 {
			return false
		}
		j.MatchedKeywords = matched

		return true
	})
}
