package embedding

import (
	"context"
	"hash/fnv"
	"regexp"
	"strings"

	"github.com/jobsift/jobsift/internal/textproc"
	"github.com/jobsift/jobsift/internal/vector"
)

var hashingTokenRe = regexp.MustCompile(`[a-z0-9]{2,}`)

// HashingBackend is a deterministic feature-hashing vectorizer: each token is
// hashed into one of Dim buckets and the resulting counts are L2-normalized.
// Identical input always yields an identical vector, which the match cache
// and the test suite rely on.
type HashingBackend struct {
	dim int
}

// NewHashing returns a hashing backend producing vectors of dimension Dim.
func NewHashing() *HashingBackend {
	return &HashingBackend{dim: Dim}
}

func (b *HashingBackend) Name() string { return "hashing" }

// Encode hashes the tokens of text into buckets and L2-normalizes the
// counts. Text without usable tokens yields a zero vector. Encode never
// fails; the error return satisfies the Backend interface.
func (b *HashingBackend) Encode(_ context.Context, text string) ([]float64, error) {
	v := vector.Zeros(b.dim)

	for _, tok := range hashingTokenRe.FindAllString(strings.ToLower(text), -1) {
		if textproc.IsStopWord(tok) {
			continue
		}
		v[b.bucket(tok)]++
	}

	if norm := vector.Norm(v); norm > 0 {
		vector.Scale(v, 1/norm)
	}

	return v, nil
}

func (b *HashingBackend) bucket(token string) int {
	h := fnv.New32a()
	h.Write([]byte(token))

	return int(h.Sum32() % uint32(b.dim))
}
