package cmd

import (
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show stored batches, job counts and last sync time",
	Run: func(cmd *cobra.Command, _ []string) {
		svc := newServices(cmd.Context())

		printJSON(svc.jobs.Status())
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
