package cli

import (
	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/atscheck/internal/output"
)

var trendCmd = &cobra.Command{
	Use:   "trend <document>",
	Short: "Show how a document's score changed across revisions",
	Long: `Show every stored run of a document in order, with the first, best and
latest score and whether the document is improving.

Examples:
  atscheck trend resume.pdf
  atscheck trend resume.pdf -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runTrend,
}

func init() {
	rootCmd.AddCommand(trendCmd)
}

func runTrend(cmd *cobra.Command, args []string) error {
	a, err := loadApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	trend, err := a.tracker.Trend(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return output.OutputTo(cmd.OutOrStdout(), outputFmt, trend)
}
