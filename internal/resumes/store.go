// Package resumes persists resume texts and their cached embedding pairs.
package resumes

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jobsift/jobsift/internal/embedding"
)

const indexFile = "index.json"

// Metadata holds derived data cached alongside a resume.
type Metadata struct {
	EmbeddingNarrative []float64 `json:"embedding_narrative,omitempty"`
	EmbeddingSkills    []float64 `json:"embedding_skills,omitempty"`
}

// Record describes one stored resume.
type Record struct {
	Filename   string    `json:"filename"`
	ParsedDate time.Time `json:"parsed_date"`
	Metadata   Metadata  `json:"metadata"`
}

type index struct {
	Resumes   map[string]*Record `json:"resumes"`
	Count     int                `json:"count"`
	LastAdded string             `json:"last_added,omitempty"`
}

// Store keeps resumes under a directory: one text file per resume plus an
// index of records.
type Store struct {
	dir    string
	logger *zap.Logger
}

func New(dir string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating resume dir: %w", err)
	}

	return &Store{dir: dir, logger: logger}, nil
}

func (s *Store) contentPath(id string) string {
	return filepath.Join(s.dir, id+".txt")
}

func (s *Store) loadIndex() *index {
	raw, err := os.ReadFile(filepath.Join(s.dir, indexFile))
	if err != nil {
		return &index{Resumes: make(map[string]*Record)}
	}

	var idx index
	if err := json.Unmarshal(raw, &idx); err != nil {
		s.logger.Warn("resume index unreadable, starting empty", zap.Error(err))

		return &index{Resumes: make(map[string]*Record)}
	}
	if idx.Resumes == nil {
		idx.Resumes = make(map[string]*Record)
	}

	return &idx
}

func (s *Store) saveIndex(idx *index) error {
	raw, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding resume index: %w", err)
	}

	path := filepath.Join(s.dir, indexFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("writing resume index: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing resume index: %w", err)
	}

	return nil
}

// Add stores a resume text under a fresh id and returns the id.
func (s *Store) Add(filename, content string) (string, error) {
	id := uuid.NewString()

	if err := os.WriteFile(s.contentPath(id), []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing resume %s: %w", id, err)
	}

	idx := s.loadIndex()
	idx.Resumes[id] = &Record{
		Filename:   filename,
		ParsedDate: time.Now().UTC(),
	}
	idx.Count = len(idx.Resumes)
	idx.LastAdded = id

	if err := s.saveIndex(idx); err != nil {
		return "", err
	}

	return id, nil
}

// Content returns the stored text of a resume.
func (s *Store) Content(id string) (string, error) {
	raw, err := os.ReadFile(s.contentPath(id))
	if err != nil {
		return "", fmt.Errorf("reading resume %s: %w", id, err)
	}

	return string(raw), nil
}

// Embeddings returns the cached embedding pair for a resume. ok is false
// when no valid pair is stored, so the caller should recompute.
func (s *Store) Embeddings(id string) (*embedding.Dual, bool) {
	idx := s.loadIndex()

	rec, ok := idx.Resumes[id]
	if !ok {
		return nil, false
	}

	dual := &embedding.Dual{
		Narrative: rec.Metadata.EmbeddingNarrative,
		Skills:    rec.Metadata.EmbeddingSkills,
	}
	if !dual.Valid() {
		return nil, false
	}

	return dual, true
}

// PutEmbeddings caches a freshly computed embedding pair on the resume
// record.
func (s *Store) PutEmbeddings(id string, dual *embedding.Dual) error {
	idx := s.loadIndex()

	rec, ok := idx.Resumes[id]
	if !ok {
		return fmt.Errorf("resume %s not found", id)
	}
	rec.Metadata.EmbeddingNarrative = dual.Narrative
	rec.Metadata.EmbeddingSkills = dual.Skills

	return s.saveIndex(idx)
}

// List returns all stored resume records keyed by id.
func (s *Store) List() map[string]*Record {
	return s.loadIndex().Resumes
}

// IDs returns the resume ids, newest first.
func (s *Store) IDs() []string {
	idx := s.loadIndex()

	ids := make([]string, 0, len(idx.Resumes))
	for id := range idx.Resumes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return idx.Resumes[ids[i]].ParsedDate.After(idx.Resumes[ids[j]].ParsedDate)
	})

	return ids
}
