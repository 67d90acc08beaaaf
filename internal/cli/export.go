package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/atscheck/internal/ats"
	"github.com/vijay-prabhu/atscheck/internal/database"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the score history to CSV or JSON",
	Long: `Export stored score runs.

Supported formats:
  - csv: Comma-separated values (spreadsheet-compatible)
  - json: JSON array of score runs

Examples:
  atscheck export --format=csv > scores.csv
  atscheck export --format=json --since=30d > scores.json`,
	RunE: runExport,
}

var (
	exportFormat string
	exportSince  string
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Export format (csv, json)")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "Only export runs from this period (e.g., 7d, 2w, 1m)")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := loadApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	since, err := sinceFlag(exportSince)
	if err != nil {
		return err
	}

	runs, err := a.db.ListScoreRuns(ctx, database.ListOptions{Since: since})
	if err != nil {
		return fmt.Errorf("failed to list score runs: %w", err)
	}

	w := cmd.OutOrStdout()
	switch exportFormat {
	case "csv":
		return exportCSV(w, runs)
	case "json":
		return exportJSON(w, runs)
	default:
		return fmt.Errorf("unknown format: %s (use csv or json)", exportFormat)
	}
}

// ExportRow is one score run flattened for export
type ExportRow struct {
	ID              string             `json:"id"`
	Document        string             `json:"document"`
	DocumentType    string             `json:"document_type"`
	JobLabel        string             `json:"job_label"`
	OverallScore    int                `json:"overall_score"`
	Breakdown       map[string]float64 `json:"breakdown"`
	MatchedKeywords []string           `json:"matched_keywords"`
	MissingKeywords []string           `json:"missing_keywords"`
	Suggestions     []string           `json:"suggestions"`
	CreatedAt       string             `json:"created_at"`
}

func toExportRow(r database.ScoreRun) ExportRow {
	row := ExportRow{
		ID:           r.ID,
		Document:     r.DocumentName,
		DocumentType: string(r.DocumentType),
		OverallScore: r.OverallScore,
		Breakdown:    make(map[string]float64, len(ats.AllFactors)),
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
	}
	if r.JobLabel != nil {
		row.JobLabel = *r.JobLabel
	}
	if r.Result != nil {
		for f, v := range r.Result.Breakdown {
			row.Breakdown[string(f)] = v
		}
		row.MatchedKeywords = r.Result.MatchedKeywords
		row.MissingKeywords = r.Result.MissingKeywords
		row.Suggestions = r.Result.Suggestions
	}
	return row
}

func exportCSV(w io.Writer, runs []database.ScoreRun) error {
	cw := csv.NewWriter(w)

	header := []string{"id", "document", "document_type", "job_label", "overall_score"}
	for _, f := range ats.AllFactors {
		header = append(header, string(f))
	}
	header = append(header, "matched_keywords", "missing_keywords", "suggestions", "created_at")
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range runs {
		row := toExportRow(r)
		record := []string{
			row.ID,
			row.Document,
			row.DocumentType,
			row.JobLabel,
			strconv.Itoa(row.OverallScore),
		}
		for _, f := range ats.AllFactors {
			record = append(record, strconv.FormatFloat(row.Breakdown[string(f)], 'f', 2, 64))
		}
		record = append(record,
			strings.Join(row.MatchedKeywords, "; "),
			strings.Join(row.MissingKeywords, "; "),
			strings.Join(row.Suggestions, "; "),
			row.CreatedAt,
		)
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func exportJSON(w io.Writer, runs []database.ScoreRun) error {
	rows := make([]ExportRow, len(runs))
	for i, r := range runs {
		rows[i] = toExportRow(r)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(rows); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
