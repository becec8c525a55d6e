package adzuna

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jobsift/jobsift/internal/store"
)

// techSkills is scanned against each description to surface a short list of
// recognizable skills per job.
var techSkills = []string{
	"python", "golang", "java", "javascript", "typescript", "ruby", "rust",
	"c++", "c#", "php", "scala", "kotlin", "swift",
	"react", "angular", "vue", "node", "django", "flask", "spring", "rails",
	"aws", "azure", "gcp", "docker", "kubernetes", "terraform", "ansible",
	"postgresql", "mysql", "mongodb", "redis", "elasticsearch", "kafka",
	"spark", "tensorflow", "pytorch", "graphql", "rest", "linux", "git",
	"ci/cd", "agile", "sql",
}

func decodeBody(body []byte, out *map[string]any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parsing response body: %w", err)
	}

	return nil
}

// convertResult maps one raw API result onto a Job. Missing fields degrade
// to empty values rather than failing the page.
func convertResult(r map[string]any) store.Job {
	title := str(r, "title")
	location := nestedStr(r, "location", "display_name")
	category := nestedStr(r, "category", "tag")

	job := store.Job{
		Title:       title,
		Company:     nestedStr(r, "company", "display_name"),
		Description: str(r, "description"),
		Location:    location,
		URL:         str(r, "redirect_url"),
		SalaryRange: formatSalary(num(r, "salary_min"), num(r, "salary_max")),
		IsRemote:    detectRemote(title, location, category),
	}

	if created := str(r, "created"); created != "" {
		if t, err := time.Parse(createdLayout, created); err == nil {
			job.PostedDate = t.Format(time.RFC3339)
		} else {
			job.PostedDate = created
		}
	}

	job.Skills = extractSkills(job.Description)

	return job
}

// extractSkills scans the description for known skill names.
func extractSkills(description string) []string {
	lowered := strings.ToLower(description)

	skills := []string{}
	for _, s := range techSkills {
		if strings.Contains(lowered, s) {
			skills = append(skills, s)
		}
	}

	return skills
}

// formatSalary renders a min/max pair as a range with thousands grouping.
// Zero bounds are omitted and a fully unknown salary yields "".
func formatSalary(min, max float64) string {
	switch {
	case min > 0 && max > 0:
		return fmt.Sprintf("%s - %s", group(min), group(max))
	case min > 0:
		return fmt.Sprintf("from %s", group(min))
	case max > 0:
		return fmt.Sprintf("up to %s", group(max))
	default:
		return ""
	}
}

func group(v float64) string {
	n := int64(v)
	s := fmt.Sprintf("%d", n)

	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)

	return "$" + strings.Join(parts, ",")
}

func detectRemote(title, location, categoryTag string) bool {
	for _, s := range []string{title, location, categoryTag} {
		if strings.Contains(strings.ToLower(s), "remote") {
			return true
		}
	}

	return false
}

func str(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}

	return ""
}

func nestedStr(m map[string]any, key, sub string) string {
	if inner, ok := m[key].(map[string]any); ok {
		return str(inner, sub)
	}

	return ""
}

func num(m map[string]any, key string) float64 {
	if v, ok := m[key].(float64); ok {
		return v
	}

	return 0
}
