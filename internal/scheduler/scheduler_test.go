package scheduler

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/jobsift/jobsift/internal/syncer"
)

type fakeRunner struct {
	syncs    int
	cleanups int
}

func (r *fakeRunner) Sync(context.Context, syncer.Options) (*syncer.Result, error) {
	r.syncs++

	return &syncer.Result{Status: "success"}, nil
}

func (r *fakeRunner) Cleanup(int) (int, error) {
	r.cleanups++

	return 1, nil
}

func newTestScheduler(t *testing.T, runner Runner) *Scheduler {
	t.Helper()

	return New(filepath.Join(t.TempDir(), "scheduler.json"), runner, zap.NewNop())
}

func TestCronSpec(t *testing.T) {
	spec, err := CronSpec("06:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec != "30 06 * * *" {
		t.Fatalf("unexpected spec %q", spec)
	}

	for _, bad := range []string{"", "25:00", "10:65", "noon", "6"} {
		if _, err := CronSpec(bad); err == nil {
			t.Fatalf("expected an error for %q", bad)
		}
	}
}

func TestNextRunFrom(t *testing.T) {
	after := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	next := nextRunFrom(after, "06:00")
	if next == nil {
		t.Fatalf("expected a next run time")
	}
	if next.Day() != 30 || next.Hour() != 6 {
		t.Fatalf("expected tomorrow 06:00, got %v", next)
	}

	later := nextRunFrom(after, "18:30")
	if later.Day() != 29 || later.Hour() != 18 || later.Minute() != 30 {
		t.Fatalf("expected today 18:30, got %v", later)
	}

	if nextRunFrom(after, "bogus") != nil {
		t.Fatalf("expected nil for an invalid time of day")
	}
}

func TestConfigRoundTrip(t *testing.T) {
	s := newTestScheduler(t, nil)

	cfg := s.LoadConfig()
	if cfg.DailySyncTime != "06:00" || cfg.CleanupDays != 30 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}

	updated, err := s.UpdateConfig(func(c *Config) {
		c.Enabled = true
		c.Keywords = []string{"golang"}
		c.DailySyncTime = "07:15"
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !updated.Enabled || updated.DailySyncTime != "07:15" {
		t.Fatalf("update not applied: %+v", updated)
	}

	reloaded := s.LoadConfig()
	if len(reloaded.Keywords) != 1 || reloaded.Keywords[0] != "golang" {
		t.Fatalf("config not persisted: %+v", reloaded)
	}
}

func TestRunOnceSyncsAndCleans(t *testing.T) {
	runner := &fakeRunner{}
	s := newTestScheduler(t, runner)

	if _, err := s.UpdateConfig(func(c *Config) {
		c.Keywords = []string{"golang"}
		c.CleanupOldJobs = true
	}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	s.runOnce()

	if runner.syncs != 1 {
		t.Fatalf("expected one sync, got %d", runner.syncs)
	}
	if runner.cleanups != 1 {
		t.Fatalf("expected one cleanup, got %d", runner.cleanups)
	}

	cfg := s.LoadConfig()
	if cfg.LastRun == nil {
		t.Fatalf("last run not recorded")
	}
	if cfg.NextRun == nil || !cfg.NextRun.After(*cfg.LastRun) {
		t.Fatalf("next run not recorded after last run: %+v", cfg)
	}
}

func TestStartDisabled(t *testing.T) {
	s := newTestScheduler(t, &fakeRunner{})

	if err := s.Start(); err == nil {
		t.Fatalf("expected an error when the scheduler is disabled")
	}
}

func TestStartStopIdempotent(t *testing.T) {
	s := newTestScheduler(t, &fakeRunner{})

	if _, err := s.UpdateConfig(func(c *Config) { c.Enabled = true }); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if err := s.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("second start must be a no-op: %v", err)
	}
	if !s.Running() {
		t.Fatalf("scheduler should be running")
	}

	s.Stop()
	s.Stop()
	if s.Running() {
		t.Fatalf("scheduler should be stopped")
	}
}
