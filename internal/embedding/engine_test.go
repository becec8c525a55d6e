package embedding

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/jobsift/jobsift/internal/vector"
)

type failingBackend struct{}

func (failingBackend) Name() string { return "failing" }

func (failingBackend) Encode(context.Context, string) ([]float64, error) {
	return nil, errors.New("backend unavailable")
}

func TestHashingDeterministic(t *testing.T) {
	b := NewHashing()

	first, err := b.Encode(context.Background(), "golang developer with kubernetes experience")
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	second, _ := b.Encode(context.Background(), "golang developer with kubernetes experience")

	if len(first) != Dim {
		t.Fatalf("expected dimension %d, got %d", Dim, len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("identical input produced different vectors at index %d", i)
		}
	}

	norm := vector.Norm(first)
	if norm < 0.999 || norm > 1.001 {
		t.Fatalf("expected unit norm, got %v", norm)
	}
}

func TestEmbedShortTextFloor(t *testing.T) {
	e := NewEngine(NewHashing(), zap.NewNop())

	v := e.Embed(context.Background(), "a b")
	if !vector.IsZero(v) {
		t.Fatalf("expected zero vector for text under the length floor")
	}
	if len(v) != Dim {
		t.Fatalf("expected dimension %d, got %d", Dim, len(v))
	}
}

func TestEmbedBackendFailureDegrades(t *testing.T) {
	e := NewEngine(failingBackend{}, zap.NewNop())

	v := e.Embed(context.Background(), "a perfectly reasonable piece of resume text")
	if !vector.IsZero(v) {
		t.Fatalf("expected zero vector on backend failure")
	}
}

func TestEmbedLongTextAveragesChunks(t *testing.T) {
	e := NewEngine(NewHashing(), zap.NewNop(), WithChunking(50, 10))

	long := strings.Repeat("experienced golang developer. ", 10)
	v := e.EmbedLongText(context.Background(), long)

	if vector.IsZero(v) {
		t.Fatalf("expected non-zero vector for long text")
	}
	if len(v) != Dim {
		t.Fatalf("expected dimension %d, got %d", Dim, len(v))
	}
}

func TestExtractSkillsBlock(t *testing.T) {
	text := "John Doe\nSenior Developer\n\nSkills:\nGo, Python\nKubernetes, Docker\n\nExperience:\nsome job"

	got := ExtractSkillsBlock(text)
	if !strings.Contains(got, "Go, Python") || !strings.Contains(got, "Kubernetes, Docker") {
		t.Fatalf("expected skills lines, got %q", got)
	}
	if strings.Contains(got, "some job") {
		t.Fatalf("skills block leaked past the blank line: %q", got)
	}
}

func TestExtractSkillsBlockMissing(t *testing.T) {
	if got := ExtractSkillsBlock("no headings here\njust text"); got != "" {
		t.Fatalf("expected empty block, got %q", got)
	}
}

func TestDualEmbedFallsBackToFullText(t *testing.T) {
	e := NewEngine(NewHashing(), zap.NewNop())

	dual := e.DualEmbed(context.Background(), "golang developer building backend services for years")
	if !dual.Valid() {
		t.Fatalf("expected a valid dual embedding")
	}
	if vector.IsZero(dual.Skills) {
		t.Fatalf("skills embedding should fall back to the full text")
	}
}
