package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/vijay-prabhu/atscheck/internal/ats"
	"github.com/vijay-prabhu/atscheck/internal/database"
	"github.com/vijay-prabhu/atscheck/internal/tracker"
)

// maxDensityRows limits the keyword density table
const maxDensityRows = 10

// Table writes data as a formatted table to stdout
func Table(data any) error {
	return TableTo(os.Stdout, data)
}

// TableTo writes data as a formatted table to the given writer
func TableTo(w io.Writer, data any) error {
	switch v := data.(type) {
	case *ats.Result:
		return resultDetail(w, v)
	case *database.ScoreRun:
		return runDetail(w, v)
	case []database.ScoreRun:
		return runsTable(w, v)
	case *database.Stats:
		return statsTable(w, v)
	case *tracker.Trend:
		return trendTable(w, v)
	case []tracker.BatchItem:
		return batchTable(w, v)
	default:
		return fmt.Errorf("unsupported data type for table output: %T", data)
	}
}

func runDetail(w io.Writer, r *database.ScoreRun) error {
	fmt.Fprintf(w, "Document:    %s\n", r.DocumentName)
	fmt.Fprintf(w, "Job:         %s\n", r.Label())
	if r.ID != "" {
		fmt.Fprintf(w, "Run:         %s\n", r.ID)
	}
	fmt.Fprintf(w, "Scored:      %s\n", r.CreatedAt.Local().Format("Jan 02, 2006 15:04"))
	fmt.Fprintln(w)

	if r.Result == nil {
		fmt.Fprintf(w, "Overall score: %d/100\n", r.OverallScore)
		return nil
	}
	return resultDetail(w, r.Result)
}

func resultDetail(w io.Writer, res *ats.Result) error {
	fmt.Fprintf(w, "Overall score: %d/100 (%s)\n\n", res.OverallScore, res.DocumentType)

	weights := ats.WeightsFor(res.DocumentType)
	table := tablewriter.NewWriter(w)
	table.Header("Factor", "Weight", "Score")
	for _, f := range ats.AllFactors {
		weight, ok := weights[f]
		if !ok {
			continue
		}
		if err := table.Append([]string{
			string(f),
			fmt.Sprintf("%.0f%%", weight*100),
			formatScore(res.Breakdown[f]),
		}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	if res.IsCoverLetter() {
		m := res.CoverLetterMetrics
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Length compliance:  %s\n", formatScore(m.LengthCompliance))
		fmt.Fprintf(w, "Call to action:     %s\n", yesNo(m.CallToActionPresent))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Matched keywords (%d): %s\n", len(res.MatchedKeywords), joinOrNone(res.MatchedKeywords))
	fmt.Fprintf(w, "Missing keywords (%d): %s\n", len(res.MissingKeywords), joinOrNone(res.MissingKeywords))

	if err := densityTable(w, res.KeywordDensity); err != nil {
		return err
	}

	if len(res.Suggestions) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Suggestions:")
		for _, s := range res.Suggestions {
			fmt.Fprintf(w, "  - %s\n", s)
		}
	}

	return nil
}

// densityTable lists the densest keywords, highest first
func densityTable(w io.Writer, density map[string]float64) error {
	type entry struct {
		keyword string
		pct     float64
	}
	var entries []entry
	for k, v := range density {
		if v > 0 {
			entries = append(entries, entry{k, v})
		}
	}
	if len(entries) == 0 {
		return nil
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].pct != entries[j].pct {
			return entries[i].pct > entries[j].pct
		}
		return entries[i].keyword < entries[j].keyword
	})
	if len(entries) > maxDensityRows {
		entries = entries[:maxDensityRows]
	}

	fmt.Fprintln(w)
	table := tablewriter.NewWriter(w)
	table.Header("Keyword", "Density")
	for _, e := range entries {
		if err := table.Append([]string{e.keyword, strconv.FormatFloat(e.pct, 'f', 2, 64) + "%"}); err != nil {
			return err
		}
	}
	return table.Render()
}

func runsTable(w io.Writer, runs []database.ScoreRun) error {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No score runs found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDOCUMENT\tTYPE\tJOB\tSCORE\tSCORED")
	fmt.Fprintln(tw, "--\t--------\t----\t---\t-----\t------")

	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
			shortID(r.ID),
			truncate(r.DocumentName, 30),
			r.DocumentType,
			truncate(r.Label(), 25),
			r.OverallScore,
			formatAge(time.Since(r.CreatedAt)),
		)
	}

	return tw.Flush()
}

func statsTable(w io.Writer, s *database.Stats) error {
	fmt.Fprintln(w, "Score History Statistics")
	fmt.Fprintln(w, strings.Repeat("-", 30))
	fmt.Fprintf(w, "Total runs:             %d\n", s.TotalRuns)
	fmt.Fprintf(w, "Documents:              %d\n", s.Documents)

	if s.TotalRuns == 0 {
		return nil
	}

	fmt.Fprintf(w, "Average score:          %.1f\n", s.AverageScore)
	if s.BestScore != nil {
		fmt.Fprintf(w, "Best score:             %d\n", *s.BestScore)
	}
	if s.WorstScore != nil {
		fmt.Fprintf(w, "Worst score:            %d\n", *s.WorstScore)
	}

	for _, dt := range []ats.DocumentType{ats.DocumentResume, ats.DocumentCoverLetter} {
		if ts, ok := s.ByType[dt]; ok {
			fmt.Fprintf(w, "%-24s%d runs, avg %.1f\n", string(dt)+":", ts.Runs, ts.AverageScore)
		}
	}

	return nil
}

func trendTable(w io.Writer, t *tracker.Trend) error {
	fmt.Fprintf(w, "Document:    %s\n", t.Document)
	fmt.Fprintf(w, "Trend:       %s (%+d)\n", t.Direction, t.Delta)
	fmt.Fprintf(w, "First/Best:  %d / %d\n", t.First, t.Best)
	fmt.Fprintf(w, "Latest:      %d (%s)\n", t.Latest, t.LastRun)
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tSCORE\tJOB\tRUN")
	for _, p := range t.Points {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n",
			p.CreatedAt.Local().Format("Jan 02 15:04"),
			p.Score,
			truncate(p.JobLabel, 25),
			shortID(p.RunID),
		)
	}
	return tw.Flush()
}

func batchTable(w io.Writer, items []tracker.BatchItem) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DOCUMENT\tTYPE\tSCORE\tMISSING\tSTATUS")

	for _, it := range items {
		if it.Err != nil {
			fmt.Fprintf(tw, "%s\t-\t-\t-\terror: %s\n", truncate(it.Request.DocumentName, 30), truncate(it.Err.Error(), 60))
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\tok\n",
			truncate(it.Run.DocumentName, 30),
			it.Run.DocumentType,
			it.Run.OverallScore,
			len(it.Run.Result.MissingKeywords),
		)
	}
	return tw.Flush()
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func formatAge(d time.Duration) string {
	days := int(d.Hours() / 24)
	switch {
	case days <= 0:
		return "today"
	case days == 1:
		return "yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		return fmt.Sprintf("%d weeks ago", days/7)
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
