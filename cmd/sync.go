package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jobsift/jobsift/internal/adzuna"
	"github.com/jobsift/jobsift/internal/syncer"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch new job postings from Adzuna and store them as a batch",
	Run: func(cmd *cobra.Command, _ []string) {
		runSync(cmd)
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().StringSliceP("keywords", "k", nil, "search keywords, may be repeated")
	syncCmd.Flags().StringP("location", "l", "", "location filter, use 'remote' for remote-only search")
	syncCmd.Flags().StringP("country", "c", "", "two-letter country code (default us)")
	syncCmd.Flags().IntP("max-pages", "p", 0, "maximum result pages per keyword")
	syncCmd.Flags().Int("max-days-old", 0, "only fetch jobs posted within this many days")
}

func runSync(cmd *cobra.Command) {
	ctx := cmd.Context()
	svc := newServices(ctx)

	opts := syncOptions(cmd, svc.config)
	if len(opts.Keywords) == 0 {
		svc.logger.Fatal("no keywords given",
			zap.String("hint", "pass --keywords or set sync.keywords in the config file"),
		)
	}

	client := adzuna.New(
		adzunaCredential("adzuna app id", "adzuna-app-id"),
		adzunaCredential("adzuna api key", "adzuna-api-key"),
		svc.logger,
	)

	s := syncer.New(client, svc.jobs, nil, svc.logger)

	result, err := s.Run(ctx, opts)
	if err != nil {
		svc.logger.Fatal("sync failed", zap.Error(err))
	}

	pretty, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(pretty))
}

// syncOptions merges flag values over the config file's sync section.
func syncOptions(cmd *cobra.Command, config *Config) syncer.Options {
	opts := syncer.Options{}
	if config.Sync != nil {
		opts.Keywords = config.Sync.Keywords
		opts.Location = config.Sync.Location
		opts.Country = config.Sync.Country
		opts.MaxPages = config.Sync.MaxPages
		opts.MaxDaysOld = config.Sync.MaxDaysOld
		opts.Category = config.Sync.Category
	}

	if kw, _ := cmd.Flags().GetStringSlice("keywords"); len(kw) > 0 {
		opts.Keywords = kw
	}
	if loc, _ := cmd.Flags().GetString("location"); loc != "" {
		opts.Location = loc
	}
	if country, _ := cmd.Flags().GetString("country"); country != "" {
		opts.Country = country
	}
	if pages, _ := cmd.Flags().GetInt("max-pages"); pages > 0 {
		opts.MaxPages = pages
	}
	if days, _ := cmd.Flags().GetInt("max-days-old"); days > 0 {
		opts.MaxDaysOld = days
	}

	return opts
}
