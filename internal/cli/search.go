package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/atscheck/internal/output"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search score runs",
	Long: `Search across all score runs by document name, job label, or keyword.

Examples:
  atscheck search resume-v2
  atscheck search "acme backend"
  atscheck search kubernetes`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	query := strings.Join(args, " ")

	a, err := loadApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	results, err := a.db.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	w := cmd.OutOrStdout()
	if outputFmt == "json" {
		return output.JSONTo(w, results)
	}

	if len(results) == 0 {
		fmt.Fprintf(w, "No score runs found matching: %s\n", query)
		return nil
	}

	fmt.Fprintf(w, "Found %d score run(s) matching: %s\n\n", len(results), query)
	return output.TableTo(w, results)
}
