// Package embedding converts free text into fixed-dimension numeric vectors.
// The actual vectorization is delegated to a pluggable Backend so the
// deterministic hashing variant and the Gemini model variant are
// interchangeable behind a single engine.
package embedding

import "context"

// Dim is the embedding dimension shared by all backends.
const Dim = 384

// minTextLength is the normalized-text length below which input is treated
// as carrying no content and embedded as a zero vector.
const minTextLength = 10

// Backend turns already-normalized text into a vector of length Dim.
type Backend interface {
	Name() string
	Encode(ctx context.Context, text string) ([]float64, error)
}

// Dual holds the two embeddings derived from one document: the full
// narrative text and the extracted skills section.
type Dual struct {
	Narrative []float64 `json:"narrative"`
	Skills    []float64 `json:"skills"`
}

// Valid reports whether both vectors are present with the expected dimension.
func (d *Dual) Valid() bool {
	return d != nil && len(d.Narrative) == Dim && len(d.Skills) == Dim
}
