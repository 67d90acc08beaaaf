package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/atscheck/internal/ats"
	"github.com/vijay-prabhu/atscheck/internal/database"
	"github.com/vijay-prabhu/atscheck/internal/output"
)

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"list"},
	Short:   "List stored score runs",
	Long: `List stored score runs, newest first, with optional filters.

Examples:
  atscheck history                        # Recent runs
  atscheck history --type coverLetter     # Cover letters only
  atscheck history --document resume      # Documents whose name contains "resume"
  atscheck history --since=7d             # Runs from the last 7 days
  atscheck history -o json                # Output as JSON`,
	RunE: runHistory,
}

var (
	historyType     string
	historyDocument string
	historySince    string
	historyLimit    int
	historyOffset   int
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVar(&historyType, "type", "", "Filter by document type (resume, coverLetter)")
	historyCmd.Flags().StringVar(&historyDocument, "document", "", "Filter by document name (partial match)")
	historyCmd.Flags().StringVar(&historySince, "since", "", "Filter by time (e.g., 7d, 2w, 1m)")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of results (0 for all)")
	historyCmd.Flags().IntVar(&historyOffset, "offset", 0, "Skip this many results")
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := loadApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	opts := database.ListOptions{
		Limit:  historyLimit,
		Offset: historyOffset,
	}

	if historyType != "" {
		docType, err := ats.ParseDocumentType(historyType)
		if err != nil {
			return err
		}
		opts.DocumentType = &docType
	}

	if historyDocument != "" {
		opts.Document = &historyDocument
	}

	since, err := sinceFlag(historySince)
	if err != nil {
		return err
	}
	opts.Since = since

	runs, err := a.db.ListScoreRuns(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to list score runs: %w", err)
	}

	return output.OutputTo(cmd.OutOrStdout(), outputFmt, runs)
}

// sinceFlag converts a --since value into a cutoff time, or nil when empty
func sinceFlag(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	d, err := parseDuration(value)
	if err != nil {
		return nil, fmt.Errorf("invalid duration: %w", err)
	}
	since := time.Now().Add(-d)
	return &since, nil
}

// parseDuration parses a human-readable duration like "7d", "2w", "1m"
func parseDuration(s string) (time.Duration, error) {
	if len(s) < 2 {
		return 0, fmt.Errorf("invalid duration format")
	}

	unit := s[len(s)-1]
	valueStr := s[:len(s)-1]

	var value int
	if _, err := fmt.Sscanf(valueStr, "%d", &value); err != nil || value < 0 {
		return 0, fmt.Errorf("invalid duration value")
	}

	switch unit {
	case 'h':
		return time.Duration(value) * time.Hour, nil
	case 'd':
		return time.Duration(value) * 24 * time.Hour, nil
	case 'w':
		return time.Duration(value) * 7 * 24 * time.Hour, nil
	case 'm':
		return time.Duration(value) * 30 * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unknown duration unit: %c (use h, d, w, or m)", unit)
	}
}
