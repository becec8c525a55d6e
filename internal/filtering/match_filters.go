package filtering

import (
	"strings"

	"github.com/jobsift/jobsift/internal/store"
)

type remoteOnlyFilter struct{}

// NewRemoteOnly creates a filter that keeps only remote jobs.
func NewRemoteOnly() Filter {
	return &remoteOnlyFilter{}
}

func (f *remoteOnlyFilter) Name() string { return "remote_only" }

func (f *remoteOnlyFilter) Apply(jobs []store.Job) ([]store.Job, Step) {
	return keep(jobs, func(j *store.Job) bool {
		return j.IsRemote
	})
}

type locationFilter struct {
	needle string
}

// NewLocation creates a filter that keeps jobs whose location contains the
// given substring, case insensitive.
func NewLocation(location string) Filter {
	return &locationFilter{needle: strings.ToLower(strings.TrimSpace(location))}
}

func (f *locationFilter) Name() string { return "location" }

func (f *locationFilter) Apply(jobs []store.Job) ([]store.Job, Step) {
	if f.needle == "" {
		return jobs, Step{Initial: len(jobs), Left: len(jobs)}
	}

	return keep(jobs, func(j *store.Job) bool {
		return strings.Contains(strings.ToLower(j.Location), f.needle)
	})
}

type keywordsAnyFilter struct {
	keywords []string
}

// NewKeywordsAny creates a filter that keeps jobs matching at least one of
// the comma separated keywords across title, description, company and
// skills.
func NewKeywordsAny(csv string) Filter {
	var keywords []string
	for _, kw := range strings.Split(csv, ",") {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			keywords = append(keywords, kw)
		}
	}

	return &keywordsAnyFilter{keywords: keywords}
}

func (f *keywordsAnyFilter) Name() string { return "keywords_any" }

func (f *keywordsAnyFilter) Apply(jobs []store.Job) ([]store.Job, Step) {
	if len(f.keywords) == 0 {
		return jobs, Step{Initial: len(jobs), Left: len(jobs)}
	}

	return keep(jobs, func(j *store.Job) bool {
		haystack := strings.ToLower(j.Title + " " + j.Description + " " + j.Company + " " + strings.Join(j.Skills, " "))
		for _, kw := range f.keywords {
			if strings.Contains(haystack, kw) {
				return true
			}
		}

		return false
	})
}
