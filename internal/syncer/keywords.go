package syncer

import "strings"

// remoteSynonyms are searched in place of a location when the user asks for
// remote work, since the API treats "remote" as a literal place name.
var remoteSynonyms = []string{
	"remote",
	"work from home",
	"telecommute",
	"virtual",
	"distributed",
}

// NormalizeKeywords trims, lowercases and de-duplicates search keywords,
// preserving first-seen order.
func NormalizeKeywords(keywords []string) []string {
	seen := make(map[string]struct{}, len(keywords))

	out := []string{}
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
	}

	return out
}

// ApplyRemoteLocation clears a location of exactly "remote" and injects the
// remote-work synonyms into the keyword set instead, since the API would
// otherwise treat "remote" as a place name.
func ApplyRemoteLocation(keywords []string, location string) ([]string, string) {
	if strings.ToLower(strings.TrimSpace(location)) != "remote" {
		return keywords, location
	}

	return NormalizeKeywords(append(append([]string{}, keywords...), remoteSynonyms...)), ""
}
