package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vijay-prabhu/atscheck/internal/logger"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored score run",
	Long: `Delete a score run from the history.

The identifier is resolved like 'atscheck show': a run ID or unique prefix.
A document name deletes only that document's latest run.

Examples:
  atscheck delete 3f2a9c1e`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := loadApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	run, err := findRun(ctx, a.db, args[0])
	if err != nil {
		return err
	}

	if err := a.db.DeleteScoreRun(ctx, run.ID); err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	a.log.Info("score run deleted",
		zap.String(logger.FieldRunID, run.ID),
		zap.String(logger.FieldDocument, run.DocumentName),
	)

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s (%s, score %d)\n", run.ID, run.DocumentName, run.OverallScore)
	return nil
}
