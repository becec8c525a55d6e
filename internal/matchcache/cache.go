// Package matchcache persists computed match percentages keyed by resume,
// job pool and filter settings, so repeated match requests against unchanged
// data skip the scoring pass entirely.
package matchcache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"
)

// NoFilters is the filter fingerprint used when a match runs without any
// filter settings.
const NoFilters = "nofilters"

type record struct {
	Timestamp time.Time      `json:"timestamp"`
	Matches   map[string]int `json:"matches"`
}

// cacheFile is resume id -> job fingerprint -> filter fingerprint -> record.
type cacheFile map[string]map[string]map[string]record

// Cache is a whole-file JSON cache of match percentages. A missing or
// corrupt file behaves as an empty cache.
type Cache struct {
	path   string
	logger *zap.Logger
}

func New(path string, logger *zap.Logger) *Cache {
	return &Cache{path: path, logger: logger}
}

// Get returns the cached percentages for the given fingerprints, or ok=false
// on any miss.
func (c *Cache) Get(resumeID, jobHash, filterHash string) (map[string]int, bool) {
	data := c.load()

	byJob, ok := data[resumeID]
	if !ok {
		return nil, false
	}
	byFilter, ok := byJob[jobHash]
	if !ok {
		return nil, false
	}
	rec, ok := byFilter[filterHash]
	if !ok {
		return nil, false
	}

	return rec.Matches, true
}

// Put stores percentages under the given fingerprints, creating intermediate
// levels as needed.
func (c *Cache) Put(resumeID, jobHash, filterHash string, matches map[string]int) error {
	data := c.load()

	if data[resumeID] == nil {
		data[resumeID] = make(map[string]map[string]record)
	}
	if data[resumeID][jobHash] == nil {
		data[resumeID][jobHash] = make(map[string]record)
	}
	data[resumeID][jobHash][filterHash] = record{
		Timestamp: time.Now().UTC(),
		Matches:   matches,
	}

	return c.save(data)
}

func (c *Cache) load() cacheFile {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		return cacheFile{}
	}

	var data cacheFile
	if err := json.Unmarshal(raw, &data); err != nil {
		c.logger.Warn("match cache unreadable, starting empty",
			zap.String("path", c.path),
			zap.Error(err),
		)

		return cacheFile{}
	}
	if data == nil {
		return cacheFile{}
	}

	return data
}

func (c *Cache) save(data cacheFile) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding match cache: %w", err)
	}

	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating cache dir: %w", err)
		}
	}

	if err := os.WriteFile(c.path, raw, 0o644); err != nil {
		return fmt.Errorf("writing match cache: %w", err)
	}

	return nil
}

// FingerprintJobs hashes the sorted job URLs. Any change to the live job
// pool changes the fingerprint and invalidates cached scores.
func FingerprintJobs(urls []string) string {
	sorted := make([]string, len(urls))
	copy(sorted, urls)
	sort.Strings(sorted)

	h := sha256.New()
	for _, u := range sorted {
		h.Write([]byte(u))
		h.Write([]byte{0})
	}

	return hex.EncodeToString(h.Sum(nil))
}

// FingerprintFilters hashes a canonical JSON encoding of the filter
// settings. nil or uncodable filters fingerprint as NoFilters.
func FingerprintFilters(filters any) string {
	if filters == nil {
		return NoFilters
	}

	raw, err := json.Marshal(filters)
	if err != nil {
		return NoFilters
	}

	// Round-trip through a map so key order is canonical.
	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return NoFilters
	}
	if len(generic) == 0 {
		return NoFilters
	}

	canonical, err := json.Marshal(generic)
	if err != nil {
		return NoFilters
	}

	sum := sha256.Sum256(canonical)

	return hex.EncodeToString(sum[:])
}
