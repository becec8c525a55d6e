package cmd

import (
	"context"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jobsift/jobsift/internal/adzuna"
	"github.com/jobsift/jobsift/internal/scheduler"
	"github.com/jobsift/jobsift/internal/syncer"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Manage the daily sync scheduler",
}

var scheduleRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scheduler in the foreground until interrupted",
	Run: func(cmd *cobra.Command, _ []string) {
		runSchedule(cmd)
	},
}

var scheduleStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the scheduler configuration",
	Run: func(cmd *cobra.Command, _ []string) {
		svc := newServices(cmd.Context())
		sched := scheduler.New(svc.config.ScheduleFile, nil, svc.logger)

		printJSON(sched.LoadConfig())
	},
}

var scheduleSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update the scheduler configuration",
	Run: func(cmd *cobra.Command, _ []string) {
		setSchedule(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
	scheduleCmd.AddCommand(scheduleRunCmd)
	scheduleCmd.AddCommand(scheduleStatusCmd)
	scheduleCmd.AddCommand(scheduleSetCmd)

	scheduleSetCmd.Flags().Bool("enabled", false, "enable the scheduler")
	scheduleSetCmd.Flags().Bool("disabled", false, "disable the scheduler")
	scheduleSetCmd.Flags().String("time", "", "daily sync time, HH:MM")
	scheduleSetCmd.Flags().String("keywords", "", "comma separated search keywords")
	scheduleSetCmd.Flags().String("location", "", "location for scheduled syncs")
	scheduleSetCmd.Flags().String("country", "", "country for scheduled syncs")
	scheduleSetCmd.Flags().Bool("cleanup", false, "also clean up old batches after each run")
	scheduleSetCmd.Flags().Int("cleanup-days", 0, "cleanup age threshold in days")
}

// scheduleRunner adapts the syncer and store to the scheduler.
type scheduleRunner struct {
	syncer *syncer.Syncer
	svc    *services
}

func (r *scheduleRunner) Sync(ctx context.Context, opts syncer.Options) (*syncer.Result, error) {
	return r.syncer.Run(ctx, opts)
}

func (r *scheduleRunner) Cleanup(maxAgeDays int) (int, error) {
	return r.svc.jobs.Cleanup(maxAgeDays)
}

func runSchedule(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc := newServices(ctx)

	client := adzuna.New(
		adzunaCredential("adzuna app id", "adzuna-app-id"),
		adzunaCredential("adzuna api key", "adzuna-api-key"),
		svc.logger,
	)
	runner := &scheduleRunner{
		syncer: syncer.New(client, svc.jobs, nil, svc.logger),
		svc:    svc,
	}

	sched := scheduler.New(svc.config.ScheduleFile, runner, svc.logger)
	if err := sched.Start(); err != nil {
		svc.logger.Fatal("starting scheduler", zap.Error(err))
	}

	<-ctx.Done()
	sched.Stop()
}

func setSchedule(cmd *cobra.Command) {
	svc := newServices(cmd.Context())
	sched := scheduler.New(svc.config.ScheduleFile, nil, svc.logger)

	cfg, err := sched.UpdateConfig(func(cfg *scheduler.Config) {
		if enabled, _ := cmd.Flags().GetBool("enabled"); enabled {
			cfg.Enabled = true
		}
		if disabled, _ := cmd.Flags().GetBool("disabled"); disabled {
			cfg.Enabled = false
		}
		if t, _ := cmd.Flags().GetString("time"); t != "" {
			cfg.DailySyncTime = t
		}
		if kw, _ := cmd.Flags().GetString("keywords"); kw != "" {
			cfg.Keywords = strings.Split(kw, ",")
		}
		if loc, _ := cmd.Flags().GetString("location"); loc != "" {
			cfg.Location = loc
		}
		if country, _ := cmd.Flags().GetString("country"); country != "" {
			cfg.Country = country
		}
		if cleanup, _ := cmd.Flags().GetBool("cleanup"); cleanup {
			cfg.CleanupOldJobs = true
		}
		if days, _ := cmd.Flags().GetInt("cleanup-days"); days > 0 {
			cfg.CleanupDays = days
		}
	})
	if err != nil {
		svc.logger.Fatal("updating scheduler config", zap.Error(err))
	}

	if cfg.DailySyncTime != "" {
		if _, err := scheduler.CronSpec(cfg.DailySyncTime); err != nil {
			svc.logger.Fatal("invalid daily sync time", zap.Error(err))
		}
	}

	printJSON(cfg)
}
