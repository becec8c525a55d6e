// Package scheduler runs the sync pipeline on a daily timetable backed by a
// JSON config file.
package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/jobsift/jobsift/internal/syncer"
)

const stopWait = 5 * time.Second

var timeOfDayRe = regexp.MustCompile(`^([01]?\d|2[0-3]):([0-5]\d)$`)

// Config is the persisted scheduler configuration.
type Config struct {
	Enabled        bool       `json:"enabled"`
	DailySyncTime  string     `json:"daily_sync_time"`
	Keywords       []string   `json:"keywords"`
	Location       string     `json:"location"`
	Country        string     `json:"country"`
	CleanupOldJobs bool       `json:"cleanup_old_jobs"`
	CleanupDays    int        `json:"cleanup_days"`
	LastRun        *time.Time `json:"last_run,omitempty"`
	NextRun        *time.Time `json:"next_run,omitempty"`
}

func defaultConfig() *Config {
	return &Config{
		DailySyncTime: "06:00",
		CleanupDays:   30,
		Keywords:      []string{},
	}
}

// Runner performs the scheduled work. The sync command wires in the syncer
// and store; tests substitute a recorder.
type Runner interface {
	Sync(ctx context.Context, opts syncer.Options) (*syncer.Result, error)
	Cleanup(maxAgeDays int) (int, error)
}

// Scheduler drives daily sync runs via cron.
type Scheduler struct {
	path   string
	runner Runner
	logger *zap.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

func New(configPath string, runner Runner, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		path:   configPath,
		runner: runner,
		logger: logger,
	}
}

// LoadConfig reads the scheduler config, falling back to defaults when the
// file is missing or unreadable.
func (s *Scheduler) LoadConfig() *Config {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return defaultConfig()
	}

	cfg := defaultConfig()
	if err := json.Unmarshal(raw, cfg); err != nil {
		s.logger.Warn("scheduler config unreadable, using defaults", zap.Error(err))

		return defaultConfig()
	}

	return cfg
}

// SaveConfig persists the scheduler config.
func (s *Scheduler) SaveConfig(cfg *Config) error {
	raw, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding scheduler config: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("writing scheduler config: %w", err)
	}

	return nil
}

// UpdateConfig applies a mutation to the stored config.
func (s *Scheduler) UpdateConfig(mutate func(*Config)) (*Config, error) {
	cfg := s.LoadConfig()
	mutate(cfg)

	return cfg, s.SaveConfig(cfg)
}

// CronSpec converts an HH:MM time of day into a daily cron expression.
func CronSpec(timeOfDay string) (string, error) {
	m := timeOfDayRe.FindStringSubmatch(timeOfDay)
	if m == nil {
		return "", fmt.Errorf("invalid daily sync time %q, expected HH:MM", timeOfDay)
	}

	return fmt.Sprintf("%s %s * * *", m[2], m[1]), nil
}

// Start begins scheduling. Calling Start on a running scheduler is a no-op.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	cfg := s.LoadConfig()
	if !cfg.Enabled {
		return fmt.Errorf("scheduler is disabled in config")
	}

	spec, err := CronSpec(cfg.DailySyncTime)
	if err != nil {
		return err
	}

	c := cron.New()
	entryID, err := c.AddFunc(spec, func() { s.runOnce() })
	if err != nil {
		return fmt.Errorf("scheduling daily sync: %w", err)
	}

	c.Start()
	s.cron = c
	s.running = true

	next := c.Entry(entryID).Next
	cfg.NextRun = &next
	if err := s.SaveConfig(cfg); err != nil {
		s.logger.Warn("persisting next run time failed", zap.Error(err))
	}

	s.logger.Info("scheduler started",
		zap.String("daily_sync_time", cfg.DailySyncTime),
		zap.Time("next_run", next),
	)

	return nil
}

// Stop halts scheduling, waiting up to a bound for an in-flight run to
// finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(stopWait):
		s.logger.Warn("scheduler stop timed out, abandoning in-flight run")
	}

	s.cron = nil
	s.running = false
	s.logger.Info("scheduler stopped")
}

// Running reports whether the scheduler is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

func (s *Scheduler) runOnce() {
	cfg := s.LoadConfig()

	s.logger.Info("scheduled sync starting", zap.Strings("keywords", cfg.Keywords))

	result, err := s.runner.Sync(context.Background(), syncer.Options{
		Keywords: cfg.Keywords,
		Location: cfg.Location,
		Country:  cfg.Country,
	})
	if err != nil {
		s.logger.Error("scheduled sync failed", zap.Error(err))
	} else {
		s.logger.Info("scheduled sync finished",
			zap.String("status", result.Status),
			zap.Int("jobs", result.TotalJobs),
		)
	}

	if cfg.CleanupOldJobs {
		removed, err := s.runner.Cleanup(cfg.CleanupDays)
		if err != nil {
			s.logger.Error("scheduled cleanup failed", zap.Error(err))
		} else if removed > 0 {
			s.logger.Info("scheduled cleanup removed batches", zap.Int("removed", removed))
		}
	}

	now := time.Now().UTC()
	next := nextRunFrom(now, cfg.DailySyncTime)
	if _, err := s.UpdateConfig(func(c *Config) {
		c.LastRun = &now
		c.NextRun = next
	}); err != nil {
		s.logger.Warn("persisting run times failed", zap.Error(err))
	}
}

// nextRunFrom computes the next daily occurrence of an HH:MM time after the
// given moment. nil when the time of day is invalid.
func nextRunFrom(after time.Time, timeOfDay string) *time.Time {
	m := timeOfDayRe.FindStringSubmatch(timeOfDay)
	if m == nil {
		return nil
	}

	var hour, minute int
	fmt.Sscanf(m[1], "%d", &hour)
	fmt.Sscanf(m[2], "%d", &minute)

	next := time.Date(after.Year(), after.Month(), after.Day(), hour, minute, 0, 0, after.Location())
	if !next.After(after) {
		next = next.AddDate(0, 0, 1)
	}

	return &next
}
