package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-embedding-001"

// GeminiBackend produces model-based embeddings through the Gemini API. It
// is the non-deterministic counterpart of the hashing backend, selected by
// configuration.
type GeminiBackend struct {
	client    *genai.Client
	modelName string
}

// NewGemini creates a backend configured for the Gemini API.
func NewGemini(ctx context.Context, apiKey, model string) (*GeminiBackend, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultGeminiModel
	}

	return &GeminiBackend{client: client, modelName: model}, nil
}

func (b *GeminiBackend) Name() string { return "gemini" }

// Encode requests an embedding of the fixed dimension from the Gemini API.
func (b *GeminiBackend) Encode(ctx context.Context, text string) ([]float64, error) {
	if b == nil || b.client == nil {
		return nil, errors.New("gemini backend is not initialized")
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("text must not be empty")
	}

	cfg := &genai.EmbedContentConfig{
		OutputDimensionality: genai.Ptr(int32(Dim)),
	}

	resp, err := b.client.Models.EmbedContent(ctx, b.modelName, genai.Text(text), cfg)
	if err != nil {
		return nil, fmt.Errorf("embed content: %w", err)
	}

	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, errors.New("gemini api returned empty embedding")
	}

	values := resp.Embeddings[0].Values
	if len(values) != Dim {
		return nil, fmt.Errorf("unexpected embedding dimension: got %d, want %d", len(values), Dim)
	}

	out := make([]float64, Dim)
	for i, v := range values {
		out[i] = float64(v)
	}

	return out, nil
}

// Model returns the configured model name.
func (b *GeminiBackend) Model() string {
	if b == nil {
		return ""
	}
	return b.modelName
}
