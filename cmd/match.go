package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jobsift/jobsift/internal/matcher"
)

var matchCmd = &cobra.Command{
	Use:   "match [resume-id]",
	Short: "Rank stored jobs against a resume",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runMatch(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringP("file", "f", "", "match against a resume text file instead of a stored resume")
	matchCmd.Flags().Bool("remote", false, "only remote jobs")
	matchCmd.Flags().String("location", "", "only jobs whose location contains this value")
	matchCmd.Flags().String("keywords", "", "comma separated keywords, keep jobs matching any")
	matchCmd.Flags().IntP("top", "t", 10, "number of results to print")
	matchCmd.Flags().Bool("percentages", false, "print the cached url to percent mapping instead of ranked results")
}

func runMatch(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	svc := newServices(ctx)

	filters := &matcher.Filters{}
	filters.Remote, _ = cmd.Flags().GetBool("remote")
	filters.Location, _ = cmd.Flags().GetString("location")
	filters.Keywords, _ = cmd.Flags().GetString("keywords")

	file, _ := cmd.Flags().GetString("file")

	var (
		matches []matcher.Match
		err     error
	)

	switch {
	case file != "":
		raw, readErr := os.ReadFile(file)
		if readErr != nil {
			svc.logger.Fatal("reading resume file", zap.Error(readErr))
		}
		matches = svc.matcher.MatchText(ctx, string(raw), filters)

	case len(args) == 1:
		if wantPercentages(cmd) {
			percentages, pErr := svc.matcher.Percentages(ctx, args[0], filters)
			if pErr != nil {
				svc.logger.Fatal("matching failed", zap.Error(pErr))
			}
			printJSON(percentages)

			return
		}

		matches, err = svc.matcher.Match(ctx, args[0], filters)
		if err != nil {
			svc.logger.Fatal("matching failed", zap.Error(err))
		}

	default:
		svc.logger.Fatal("a resume id or --file is required",
			zap.String("hint", "run 'jobsift resume list' to see stored resumes"),
		)
	}

	top, _ := cmd.Flags().GetInt("top")
	if top > 0 && len(matches) > top {
		matches = matches[:top]
	}

	printJSON(matches)
}

func wantPercentages(cmd *cobra.Command) bool {
	p, _ := cmd.Flags().GetBool("percentages")

	return p
}

func printJSON(v any) {
	pretty, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(pretty))
}
