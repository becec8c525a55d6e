package cmd

import (
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete job batches older than a number of days",
	Run: func(cmd *cobra.Command, _ []string) {
		runCleanup(cmd)
	},
}

var deleteBatchCmd = &cobra.Command{
	Use:   "delete-batch <batch-id>",
	Short: "Delete a single job batch",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc := newServices(cmd.Context())

		if err := svc.jobs.DeleteBatch(args[0]); err != nil {
			svc.logger.Fatal("deleting batch", zap.Error(err))
		}

		svc.logger.Info("batch deleted", zap.String("batch", args[0]))
	},
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(deleteBatchCmd)

	cleanupCmd.Flags().Int("days", 30, "delete batches older than this many days")
	cleanupCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
}

func runCleanup(cmd *cobra.Command) {
	svc := newServices(cmd.Context())

	days, _ := cmd.Flags().GetInt("days")
	autoApprove, _ := cmd.Flags().GetBool("yes")

	if !autoApprove {
		prompt := promptui.Select{
			Label: fmt.Sprintf("Delete all batches older than %d days?", days),
			Items: []string{PromptYes, PromptNo},
		}

		_, action, err := prompt.Run()
		if err != nil {
			svc.logger.Fatal("exiting", zap.Error(err))
		}
		if action != PromptYes {
			svc.logger.Info("exiting", zap.String("reason", "got no from prompt"))

			return
		}
	}

	removed, err := svc.jobs.Cleanup(days)
	if err != nil {
		svc.logger.Fatal("cleanup failed", zap.Error(err))
	}

	svc.logger.Info("cleanup finished", zap.Int("removed_batches", removed))
}
