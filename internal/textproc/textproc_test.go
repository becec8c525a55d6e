package textproc

import (
	"reflect"
	"testing"
)

func TestCleanNormalizes(t *testing.T) {
	got := Clean("  Señor Go-Developer!!  (Remote)  ")
	want := "se or go developer remote"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestCleanEmpty(t *testing.T) {
	if got := Clean("   \t\n "); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestTokenizeSkipsStopWordsAndShortTokens(t *testing.T) {
	tokens := Tokenize("the quick go api and kubernetes")

	if _, ok := tokens["the"]; ok {
		t.Fatalf("stop word should not be tokenized")
	}
	if _, ok := tokens["go"]; ok {
		t.Fatalf("two-letter token should not survive the length floor")
	}
	if _, ok := tokens["kubernetes"]; !ok {
		t.Fatalf("expected kubernetes in tokens, got %v", tokens)
	}
	if _, ok := tokens["api"]; !ok {
		t.Fatalf("expected api in tokens, got %v", tokens)
	}
}

func TestSplitSentencesKeepsPunctuation(t *testing.T) {
	got := SplitSentences("One. Two! Three?")
	want := []string{"One.", "Two!", "Three?"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestChunkTextSplitsOnSentences(t *testing.T) {
	got := ChunkText("A. B. C.", 4, 0)
	want := []string{"A.", "B.", "C."}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestChunkTextSingleChunk(t *testing.T) {
	got := ChunkText("Short text.", 512, 50)
	if len(got) != 1 {
		t.Fatalf("expected a single chunk, got %v", got)
	}
}

func TestChunkTextCarriesOverlap(t *testing.T) {
	chunks := ChunkText("aaaaaaaa. bbbbbbbb. cccccccc.", 12, 4)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %v", chunks)
	}
	for _, c := range chunks {
		if c == "" {
			t.Fatalf("chunking produced an empty chunk: %v", chunks)
		}
	}
}
