package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jobsift/jobsift/internal/resumes"
)

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Manage stored resumes",
}

var resumeAddCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Store a resume text file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc := newServices(cmd.Context())

		raw, err := os.ReadFile(args[0])
		if err != nil {
			svc.logger.Fatal("reading resume file", zap.Error(err))
		}

		id, err := svc.resumes.Add(filepath.Base(args[0]), string(raw))
		if err != nil {
			svc.logger.Fatal("storing resume", zap.Error(err))
		}

		fmt.Println(id)
	},
}

var resumeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored resumes, newest first",
	Run: func(cmd *cobra.Command, _ []string) {
		svc := newServices(cmd.Context())

		type entry struct {
			ID string `json:"id"`
			*resumes.Record
		}

		records := svc.resumes.List()
		out := make([]entry, 0, len(records))
		for _, id := range svc.resumes.IDs() {
			out = append(out, entry{ID: id, Record: records[id]})
		}

		printJSON(out)
	},
}

func init() {
	rootCmd.AddCommand(resumeCmd)
	resumeCmd.AddCommand(resumeAddCmd)
	resumeCmd.AddCommand(resumeListCmd)
}
