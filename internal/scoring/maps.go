package scoring

import (
	"encoding/json"
	"fmt"
	"os"
)

// defaultSkillMap maps individual skills to broad categories. Overlapping
// categories between a resume and a job earn a score bonus even when the
// exact skill names differ.
var defaultSkillMap = map[string]string{
	"python":     "programming",
	"golang":     "programming",
	"java":       "programming",
	"javascript": "programming",
	"typescript": "programming",
	"ruby":       "programming",
	"rust":       "programming",
	"c++":        "programming",
	"c#":         "programming",

	"react":   "frontend",
	"angular": "frontend",
	"vue":     "frontend",
	"html":    "frontend",
	"css":     "frontend",

	"node":    "backend",
	"django":  "backend",
	"flask":   "backend",
	"spring":  "backend",
	"rails":   "backend",
	"express": "backend",

	"aws":          "cloud",
	"azure":        "cloud",
	"gcp":          "cloud",
	"google cloud": "cloud",

	"docker":     "devops",
	"kubernetes": "devops",
	"terraform":  "devops",
	"ansible":    "devops",
	"jenkins":    "devops",
	"ci/cd":      "devops",

	"postgresql":    "data",
	"postgres":      "data",
	"mysql":         "data",
	"mongodb":       "data",
	"redis":         "data",
	"elasticsearch": "data",
	"kafka":         "data",
	"spark":         "data",

	"machine learning": "ml",
	"tensorflow":       "ml",
	"pytorch":          "ml",
	"nlp":              "ml",
}

// defaultTitleMap collapses job title variants onto a canonical form so a
// "software developer" resume matches a "software engineer" posting.
var defaultTitleMap = map[string]string{
	"software developer":           "software engineer",
	"software dev":                 "software engineer",
	"programmer":                   "software engineer",
	"backend developer":            "backend engineer",
	"back end developer":           "backend engineer",
	"back-end developer":           "backend engineer",
	"frontend developer":           "frontend engineer",
	"front end developer":          "frontend engineer",
	"front-end developer":          "frontend engineer",
	"fullstack developer":          "full stack engineer",
	"full stack developer":         "full stack engineer",
	"full-stack developer":         "full stack engineer",
	"full stack software engineer": "full stack engineer",
	"devops developer":             "devops engineer",
	"site reliability engineer":    "devops engineer",
	"sre":                          "devops engineer",
	"data scientist":               "data engineer",
	"ml engineer":                  "machine learning engineer",
}

// LoadSkillMap reads a skill-to-category map from a JSON file. An empty path
// returns the built-in defaults.
func LoadSkillMap(path string) (map[string]string, error) {
	return loadStringMap(path, defaultSkillMap)
}

// LoadTitleMap reads a title alias map from a JSON file. An empty path
// returns the built-in defaults.
func LoadTitleMap(path string) (map[string]string, error) {
	return loadStringMap(path, defaultTitleMap)
}

func loadStringMap(path string, defaults map[string]string) (map[string]string, error) {
	if path == "" {
		return defaults, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	m := make(map[string]string)
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return m, nil
}
