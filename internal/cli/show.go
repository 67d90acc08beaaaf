package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/atscheck/internal/database"
	"github.com/vijay-prabhu/atscheck/internal/output"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a stored score run",
	Long: `Show the full result of a stored score run.

The identifier can be:
  - A run ID, or a unique prefix of one (as printed by 'atscheck history')
  - A document name, which shows its latest run

Examples:
  atscheck show 3f2a9c1e
  atscheck show resume-v3.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

// minIDPrefix is the shortest run ID prefix accepted
const minIDPrefix = 4

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	identifier := args[0]

	a, err := loadApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	run, err := findRun(ctx, a.db, identifier)
	if err != nil {
		return err
	}

	return output.OutputTo(cmd.OutOrStdout(), outputFmt, run)
}

// findRun resolves an exact ID, then a document's latest run, then an ID prefix
func findRun(ctx context.Context, db *database.DB, identifier string) (*database.ScoreRun, error) {
	run, err := db.GetScoreRun(ctx, identifier)
	if err == nil {
		return run, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	runs, err := db.ListDocumentRuns(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if len(runs) > 0 {
		return &runs[len(runs)-1], nil
	}

	runs, err = db.ListScoreRuns(ctx, database.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	var match *database.ScoreRun
	for i := range runs {
		if len(identifier) >= minIDPrefix && strings.HasPrefix(runs[i].ID, identifier) {
			if match != nil {
				return nil, fmt.Errorf("ambiguous run id prefix: %s", identifier)
			}
			match = &runs[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %s", database.ErrNotFound, identifier)
	}
	return match, nil
}
