package scoring

import (
	"context"
	"math"
	"testing"

	"go.uber.org/zap"

	"github.com/jobsift/jobsift/internal/embedding"
)

func TestCosineIdentical(t *testing.T) {
	v := []float64{1, 2, 3}

	got := Cosine(v, v)
	if math.Abs(got-1) > 1e-9 {
		t.Fatalf("expected 1 for identical vectors, got %v", got)
	}
}

func TestCosineOpposite(t *testing.T) {
	got := Cosine([]float64{1, 0}, []float64{-1, 0})
	if math.Abs(got) > 1e-9 {
		t.Fatalf("expected 0 for opposite vectors, got %v", got)
	}
}

func TestCosineOrthogonal(t *testing.T) {
	got := Cosine([]float64{1, 0}, []float64{0, 1})
	if math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("expected 0.5 for orthogonal vectors, got %v", got)
	}
}

func TestCosineZeroVector(t *testing.T) {
	if got := Cosine([]float64{0, 0}, []float64{1, 2}); got != 0 {
		t.Fatalf("expected 0 for a zero vector, got %v", got)
	}
}

func TestCosineNonFinite(t *testing.T) {
	if got := Cosine([]float64{math.NaN(), 1}, []float64{1, 1}); got != 0 {
		t.Fatalf("expected 0 for NaN input, got %v", got)
	}
	if got := Cosine([]float64{math.Inf(1), 1}, []float64{1, 1}); got != 0 {
		t.Fatalf("expected 0 for Inf input, got %v", got)
	}
}

func TestCosineRelevantBeatsDisjoint(t *testing.T) {
	e := embedding.NewEngine(embedding.NewHashing(), zap.NewNop())
	ctx := context.Background()

	resume := e.Embed(ctx, "golang developer kubernetes docker postgresql backend services")
	related := e.Embed(ctx, "backend developer golang kubernetes postgresql microservices")
	unrelated := e.Embed(ctx, "registered nurse hospital clinical patient care medication")

	if Cosine(resume, related) <= Cosine(resume, unrelated) {
		t.Fatalf("related job should score above unrelated job")
	}
}

func TestBoostNeverBelowRaw(t *testing.T) {
	raw := 0.6
	score, breakdown := Boost(raw, "golang developer", "golang engineer", defaultSkillMap, "", "", defaultTitleMap)

	if score < raw {
		t.Fatalf("boosted score %v below raw %v", score, raw)
	}
	if breakdown.RawSimilarity != raw {
		t.Fatalf("breakdown raw %v, want %v", breakdown.RawSimilarity, raw)
	}
}

func TestBoostCappedAtOne(t *testing.T) {
	resume := "python golang java react aws docker postgresql kubernetes terraform"
	score, _ := Boost(0.99, resume, resume, defaultSkillMap, "software engineer", "software engineer", defaultTitleMap)

	if score > 1.0 {
		t.Fatalf("score exceeded cap: %v", score)
	}
	if score != 1.0 {
		t.Fatalf("expected saturated score, got %v", score)
	}
}

func TestBoostTokenBonusCap(t *testing.T) {
	text := "alpha1 bravo2 charlie3 delta4 echo5 foxtrot6 golf7 hotel8"
	_, breakdown := Boost(0.1, text, text, map[string]string{}, "", "", map[string]string{})

	bonus := breakdown.Bonuses["token_overlap"]
	if bonus != tokenBonusCap {
		t.Fatalf("expected token bonus capped at %v, got %v", tokenBonusCap, bonus)
	}
}

func TestBoostCategoryOverlap(t *testing.T) {
	_, breakdown := Boost(0.1, "I know python well", "we use golang here", defaultSkillMap, "", "", defaultTitleMap)

	found := false
	for _, cat := range breakdown.MatchedCategories {
		if cat == "programming" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected shared programming category, got %v", breakdown.MatchedCategories)
	}
}

func TestBoostTitleMatchThroughAliases(t *testing.T) {
	score, breakdown := Boost(0.5, "text", "text2", map[string]string{},
		"Software Developer", "software engineer", defaultTitleMap)

	if !breakdown.TitleMatch {
		t.Fatalf("expected title match via alias normalization")
	}
	if math.Abs(score-0.55) > 1e-9 {
		t.Fatalf("expected 0.55 with title bonus, got %v", score)
	}
}

func TestBoostInvalidRaw(t *testing.T) {
	score, breakdown := Boost(math.NaN(), "a", "b", defaultSkillMap, "", "", defaultTitleMap)

	if score != 0 {
		t.Fatalf("expected 0 for NaN raw, got %v", score)
	}
	if breakdown.RawSimilarity != 0 || len(breakdown.Bonuses) != 0 {
		t.Fatalf("expected empty breakdown, got %+v", breakdown)
	}
}

func TestLoadMapsDefaults(t *testing.T) {
	skills, err := LoadSkillMap("")
	if err != nil {
		t.Fatalf("loading default skill map: %v", err)
	}
	if skills["python"] != "programming" {
		t.Fatalf("expected python in the default skill map")
	}

	titles, err := LoadTitleMap("")
	if err != nil {
		t.Fatalf("loading default title map: %v", err)
	}
	if titles["software developer"] != "software engineer" {
		t.Fatalf("expected software developer alias in the default title map")
	}
}
