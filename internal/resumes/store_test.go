package resumes

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/jobsift/jobsift/internal/embedding"
	"github.com/jobsift/jobsift/internal/vector"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}

	return s
}

func TestAddAndContent(t *testing.T) {
	s := newTestStore(t)

	id, err := s.Add("resume.txt", "golang developer")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	content, err := s.Content(id)
	if err != nil {
		t.Fatalf("content failed: %v", err)
	}
	if content != "golang developer" {
		t.Fatalf("unexpected content %q", content)
	}

	records := s.List()
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[id].Filename != "resume.txt" {
		t.Fatalf("filename not recorded: %+v", records[id])
	}
}

func TestIDsNewestFirst(t *testing.T) {
	s := newTestStore(t)

	first, err := s.Add("first.txt", "a")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	second, err := s.Add("second.txt", "b")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	ids := s.IDs()
	if len(ids) != 2 {
		t.Fatalf("expected 2 ids, got %d", len(ids))
	}
	if ids[0] != second || ids[1] != first {
		t.Fatalf("expected newest first, got %v", ids)
	}
}

func TestEmbeddingsRoundTrip(t *testing.T) {
	s := newTestStore(t)

	id, err := s.Add("resume.txt", "text")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if _, ok := s.Embeddings(id); ok {
		t.Fatalf("expected no embeddings on a fresh resume")
	}

	dual := &embedding.Dual{
		Narrative: vector.Zeros(embedding.Dim),
		Skills:    vector.Zeros(embedding.Dim),
	}
	dual.Narrative[0] = 1

	if err := s.PutEmbeddings(id, dual); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	got, ok := s.Embeddings(id)
	if !ok {
		t.Fatalf("expected stored embeddings")
	}
	if got.Narrative[0] != 1 {
		t.Fatalf("embedding values not preserved")
	}
}

func TestEmbeddingsInvalidDimension(t *testing.T) {
	s := newTestStore(t)

	id, err := s.Add("resume.txt", "text")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if err := s.PutEmbeddings(id, &embedding.Dual{
		Narrative: []float64{1, 2},
		Skills:    []float64{3},
	}); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	if _, ok := s.Embeddings(id); ok {
		t.Fatalf("wrong-dimension embeddings must be treated as absent")
	}
}

func TestPutEmbeddingsUnknownResume(t *testing.T) {
	s := newTestStore(t)

	if err := s.PutEmbeddings("ghost", &embedding.Dual{}); err == nil {
		t.Fatalf("expected an error for an unknown resume")
	}
}
