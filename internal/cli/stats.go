package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/atscheck/internal/ats"
	"github.com/vijay-prabhu/atscheck/internal/database"
	"github.com/vijay-prabhu/atscheck/internal/output"
	"github.com/vijay-prabhu/atscheck/internal/tracker"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show score history statistics",
	Long: `Display aggregate statistics about your score history.

Examples:
  atscheck stats             # Overall stats
  atscheck stats --since=7d  # Stats for last 7 days
  atscheck stats --detailed  # Per-document trends and daily activity`,
	RunE: runStats,
}

var (
	statsSince    string
	statsDetailed bool
)

// activityDays is the window of the daily activity chart
const activityDays = 14

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVar(&statsSince, "since", "", "Time period (e.g., 7d, 2w, 1m)")
	statsCmd.Flags().BoolVar(&statsDetailed, "detailed", false, "Show per-document trends and daily activity")
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := loadApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	since, err := sinceFlag(statsSince)
	if err != nil {
		return err
	}

	stats, err := a.db.GetStats(ctx, since)
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	w := cmd.OutOrStdout()
	if !statsDetailed {
		return output.OutputTo(w, outputFmt, stats)
	}

	detailed, err := getDetailedStats(ctx, a.db, stats, since, time.Now())
	if err != nil {
		return fmt.Errorf("failed to get detailed stats: %w", err)
	}

	if outputFmt == "json" {
		return output.JSONTo(w, detailed)
	}
	printDetailedStats(w, detailed)
	return nil
}

// DetailedStats contains extended statistics
type DetailedStats struct {
	Basic          *database.Stats `json:"basic"`
	ByDocument     []DocumentStat  `json:"by_document"`
	RecentActivity []ActivityStat  `json:"recent_activity"`
}

// DocumentStat summarizes the runs of one document
type DocumentStat struct {
	Document  string                 `json:"document"`
	Type      ats.DocumentType       `json:"type"`
	Runs      int                    `json:"runs"`
	Best      int                    `json:"best"`
	Latest    int                    `json:"latest"`
	Direction tracker.TrendDirection `json:"direction"`
}

// ActivityStat shows activity over time
type ActivityStat struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

func getDetailedStats(ctx context.Context, db *database.DB, basic *database.Stats, since *time.Time, now time.Time) (*DetailedStats, error) {
	runs, err := db.ListScoreRuns(ctx, database.ListOptions{Since: since})
	if err != nil {
		return nil, err
	}
	return buildDetailedStats(basic, runs, now), nil
}

// buildDetailedStats groups newest-first runs by document and by day
func buildDetailedStats(basic *database.Stats, runs []database.ScoreRun, now time.Time) *DetailedStats {
	byName := make(map[string][]database.ScoreRun)
	var names []string
	for i := len(runs) - 1; i >= 0; i-- {
		r := runs[i]
		if _, ok := byName[r.DocumentName]; !ok {
			names = append(names, r.DocumentName)
		}
		byName[r.DocumentName] = append(byName[r.DocumentName], r)
	}

	byDocument := make([]DocumentStat, 0, len(names))
	for _, name := range names {
		docRuns := byName[name]
		trend := tracker.ComputeTrend(name, docRuns, now)
		byDocument = append(byDocument, DocumentStat{
			Document:  name,
			Type:      docRuns[len(docRuns)-1].DocumentType,
			Runs:      len(docRuns),
			Best:      trend.Best,
			Latest:    trend.Latest,
			Direction: trend.Direction,
		})
	}
	sort.SliceStable(byDocument, func(i, j int) bool {
		return byDocument[i].Latest > byDocument[j].Latest
	})

	activityByDay := make(map[string]int)
	for _, r := range runs {
		activityByDay[r.CreatedAt.Local().Format("2006-01-02")]++
	}
	recentActivity := make([]ActivityStat, 0, activityDays)
	for i := activityDays - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i).Format("2006-01-02")
		recentActivity = append(recentActivity, ActivityStat{Date: day, Count: activityByDay[day]})
	}

	return &DetailedStats{
		Basic:          basic,
		ByDocument:     byDocument,
		RecentActivity: recentActivity,
	}
}

func printDetailedStats(w io.Writer, d *DetailedStats) {
	fmt.Fprintln(w, "Score History Statistics (Detailed)")
	fmt.Fprintln(w, strings.Repeat("=", 50))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Summary")
	fmt.Fprintln(w, strings.Repeat("-", 30))
	fmt.Fprintf(w, "  Total runs:     %d\n", d.Basic.TotalRuns)
	fmt.Fprintf(w, "  Documents:      %d\n", d.Basic.Documents)
	fmt.Fprintf(w, "  Average score:  %.1f\n", d.Basic.AverageScore)
	fmt.Fprintln(w)

	if len(d.ByDocument) > 0 {
		fmt.Fprintln(w, "Documents (by latest score)")
		fmt.Fprintln(w, strings.Repeat("-", 30))
		for _, s := range d.ByDocument {
			fmt.Fprintf(w, "  %s %-24s latest %3d  best %3d  (%d run(s))\n",
				directionIcon(s.Direction), truncate(s.Document, 24), s.Latest, s.Best, s.Runs)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Activity (Last %d Days)\n", activityDays)
	fmt.Fprintln(w, strings.Repeat("-", 30))
	maxCount := 0
	for _, a := range d.RecentActivity {
		maxCount = max(maxCount, a.Count)
	}
	if maxCount == 0 {
		fmt.Fprintf(w, "  No runs in the last %d days\n", activityDays)
		return
	}
	for _, a := range d.RecentActivity {
		bar := strings.Repeat("█", (a.Count*20)/maxCount)
		fmt.Fprintf(w, "  %s %s %d\n", a.Date[5:], bar, a.Count)
	}
}

func directionIcon(d tracker.TrendDirection) string {
	switch d {
	case tracker.TrendImproving:
		return "▲"
	case tracker.TrendDeclining:
		return "▼"
	case tracker.TrendFlat:
		return "="
	default:
		return "•"
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
