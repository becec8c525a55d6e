package scoring

import (
	"math"
	"sort"
	"strings"

	"github.com/jobsift/jobsift/internal/textproc"
)

const (
	tokenBonusPerMatch = 0.02
	tokenBonusCap      = 0.10
	categoryBonusPer   = 0.05
	categoryBonusCap   = 0.20
	titleMatchBonus    = 0.05
)

// Breakdown explains how a boosted score was assembled. It is returned with
// every match so scoring can be inspected and tested.
type Breakdown struct {
	RawSimilarity         float64            `json:"raw_similarity"`
	MatchedTokens         []string           `json:"matched_tokens,omitempty"`
	MatchedCategories     []string           `json:"matched_categories,omitempty"`
	Bonuses               map[string]float64 `json:"bonus_breakdown,omitempty"`
	TitleMatch            bool               `json:"title_match"`
	NormalizedResumeTitle string             `json:"normalized_resume_title,omitempty"`
	NormalizedJobTitle    string             `json:"normalized_job_title,omitempty"`
}

// Boost adjusts a raw similarity upward based on token overlap, skill
// category overlap and a title match, capped at 1.0. The boosted score is
// never below the raw similarity. An unusable raw value yields 0 with an
// empty breakdown; boosting itself cannot fail the match.
func Boost(raw float64, resumeText, jobText string, skillMap map[string]string, resumeTitle, jobTitle string, titleMap map[string]string) (float64, *Breakdown) {
	if math.IsNaN(raw) || math.IsInf(raw, 0) || raw < 0 {
		return 0, &Breakdown{}
	}

	breakdown := &Breakdown{
		RawSimilarity:         raw,
		Bonuses:               map[string]float64{},
		NormalizedResumeTitle: resumeTitle,
		NormalizedJobTitle:    jobTitle,
	}
	score := raw

	if overlap := intersect(textproc.Tokenize(resumeText), textproc.Tokenize(jobText)); len(overlap) > 0 {
		bonus := math.Min(tokenBonusPerMatch*float64(len(overlap)), tokenBonusCap)
		score += bonus
		breakdown.MatchedTokens = overlap
		breakdown.Bonuses["token_overlap"] = bonus
	}

	resumeCats := CategoriesInText(resumeText, skillMap)
	jobCats := CategoriesInText(jobText, skillMap)
	if overlap := intersect(resumeCats, jobCats); len(overlap) > 0 {
		bonus := math.Min(categoryBonusPer*float64(len(overlap)), categoryBonusCap)
		score += bonus
		breakdown.MatchedCategories = overlap
		breakdown.Bonuses["category_overlap"] = bonus
	}

	if resumeTitle != "" && jobTitle != "" {
		normResume := NormalizeTitle(resumeTitle, titleMap)
		normJob := NormalizeTitle(jobTitle, titleMap)
		breakdown.NormalizedResumeTitle = normResume
		breakdown.NormalizedJobTitle = normJob

		if normResume == normJob {
			score += titleMatchBonus
			breakdown.TitleMatch = true
			breakdown.Bonuses["title_match"] = titleMatchBonus
		}
	}

	return math.Min(score, 1.0), breakdown
}

// CategoriesInText returns the skill categories whose skills appear as
// substrings of the lowercased text.
func CategoriesInText(text string, skillMap map[string]string) map[string]struct{} {
	lowered := strings.ToLower(text)

	cats := make(map[string]struct{})
	for skill, cat := range skillMap {
		if strings.Contains(lowered, skill) {
			cats[cat] = struct{}{}
		}
	}

	return cats
}

// NormalizeTitle maps a job title through the alias map, falling back to the
// title itself when no alias is known.
func NormalizeTitle(title string, titleMap map[string]string) string {
	key := strings.ToLower(strings.TrimSpace(title))
	if normalized, ok := titleMap[key]; ok {
		return normalized
	}

	return key
}

func intersect(a, b map[string]struct{}) []string {
	var out []string
	for k := range a {
		if _, ok := b[k]; ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)

	return out
}
