package embedding

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/jobsift/jobsift/internal/textproc"
	"github.com/jobsift/jobsift/internal/vector"
)

const (
	defaultMaxChunkLength = 512
	defaultChunkOverlap   = 50
	maxSkillBlockLines    = 6
)

// skillHeadings are the section-heading markers that start a skills block.
var skillHeadings = []string{"skills", "technologies", "tools", "languages", "proficiencies"}

// Engine wraps a Backend with normalization, the short-text floor, chunked
// long-text averaging and dual (narrative + skills) embedding. All Engine
// methods degrade to a zero vector instead of returning an error; embedding
// failure must never fail a match request.
type Engine struct {
	backend  Backend
	logger   *zap.Logger
	maxChunk int
	overlap  int
}

// Option customizes an Engine.
type Option func(*Engine)

// WithChunking overrides the chunk length and overlap used for long text.
func WithChunking(maxChunk, overlap int) Option {
	return func(e *Engine) {
		e.maxChunk = maxChunk
		e.overlap = overlap
	}
}

// NewEngine creates an engine on top of the given backend.
func NewEngine(backend Backend, logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		backend:  backend,
		logger:   logger,
		maxChunk: defaultMaxChunkLength,
		overlap:  defaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Backend returns the name of the configured backend.
func (e *Engine) Backend() string {
	return e.backend.Name()
}

// Embed converts text into a vector of dimension Dim. Normalized text
// shorter than the floor yields a zero vector, as does any backend failure.
func (e *Engine) Embed(ctx context.Context, text string) []float64 {
	cleaned := textproc.Clean(text)
	if len(cleaned) < minTextLength {
		return vector.Zeros(Dim)
	}

	v, err := e.backend.Encode(ctx, cleaned)
	if err != nil || len(v) != Dim {
		e.logger.Error("embedding failed, falling back to zero vector",
			zap.String("backend", e.backend.Name()),
			zap.Error(err),
		)
		return vector.Zeros(Dim)
	}

	return v
}

// EmbedLongText embeds text that may exceed the backend's useful input size
// by chunking on sentence boundaries and averaging the chunk vectors.
func (e *Engine) EmbedLongText(ctx context.Context, text string) []float64 {
	cleaned := textproc.Clean(text)
	if len(cleaned) < minTextLength {
		return vector.Zeros(Dim)
	}

	if len(cleaned) <= e.maxChunk {
		return e.Embed(ctx, cleaned)
	}

	chunks := textproc.ChunkText(cleaned, e.maxChunk, e.overlap)

	var vectors [][]float64
	for _, chunk := range chunks {
		if len(strings.TrimSpace(chunk)) < minTextLength {
			continue
		}

		v := e.Embed(ctx, chunk)
		if vector.IsZero(v) {
			continue
		}
		vectors = append(vectors, v)
	}

	if len(vectors) == 0 {
		e.logger.Warn("no embeddable chunks found", zap.Int("chunks", len(chunks)))
		return vector.Zeros(Dim)
	}

	e.logger.Debug("embedded long text",
		zap.Int("chunks", len(chunks)),
		zap.Int("embedded", len(vectors)),
	)

	return vector.Mean(vectors)
}

// DualEmbed produces the narrative embedding of the full text plus a skills
// embedding of the extracted skills section. Without a skills section the
// skills embedding falls back to the full cleaned text.
func (e *Engine) DualEmbed(ctx context.Context, text string) *Dual {
	skillText := ExtractSkillsBlock(text)
	if skillText == "" {
		skillText = textproc.Clean(text)
	}

	return &Dual{
		Narrative: e.EmbedLongText(ctx, text),
		Skills:    e.EmbedLongText(ctx, skillText),
	}
}

// ExtractSkillsBlock returns the lines following a skills-style heading,
// collected until a blank line or the line budget is exhausted. Returns ""
// when no heading is found.
func ExtractSkillsBlock(text string) string {
	var lines []string
	collecting := false

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)

		if !collecting {
			for _, heading := range skillHeadings {
				if strings.Contains(lower, heading) {
					collecting = true
					break
				}
			}
			continue
		}

		if trimmed == "" || len(lines) >= maxSkillBlockLines {
			break
		}
		lines = append(lines, trimmed)
	}

	return strings.Join(lines, " ")
}
