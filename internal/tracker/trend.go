package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/vijay-prabhu/atscheck/internal/database"
)

// TrendDirection summarizes how a document's score has moved
type TrendDirection string

const (
	TrendNew       TrendDirection = "new"
	TrendImproving TrendDirection = "improving"
	TrendDeclining TrendDirection = "declining"
	TrendFlat      TrendDirection = "flat"
)

// TrendPoint is one stored score of a document
type TrendPoint struct {
	RunID     string    `json:"run_id"`
	Score     int       `json:"score"`
	JobLabel  string    `json:"job_label"`
	CreatedAt time.Time `json:"created_at"`
}

// Trend is the score history of one document
type Trend struct {
	Document  string         `json:"document"`
	Points    []TrendPoint   `json:"points"`
	First     int            `json:"first"`
	Latest    int            `json:"latest"`
	Best      int            `json:"best"`
	Delta     int            `json:"delta"`
	Direction TrendDirection `json:"direction"`
	LastRun   string         `json:"last_run"`
}

// Trend loads a document's runs in chronological order and summarizes them
func (t *Tracker) Trend(ctx context.Context, document string) (*Trend, error) {
	if t.db == nil {
		return nil, ErrHistoryDisabled
	}

	runs, err := t.db.ListDocumentRuns(ctx, document)
	if err != nil {
		return nil, fmt.Errorf("list runs for %s: %w", document, err)
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("%w: no runs for document %s", database.ErrNotFound, document)
	}

	return ComputeTrend(document, runs, time.Now()), nil
}

// ComputeTrend summarizes chronologically ordered runs of one document
func ComputeTrend(document string, runs []database.ScoreRun, now time.Time) *Trend {
	tr := &Trend{Document: document, Direction: TrendNew, LastRun: "never"}
	if len(runs) == 0 {
		return tr
	}

	for _, r := range runs {
		tr.Points = append(tr.Points, TrendPoint{
			RunID:     r.ID,
			Score:     r.OverallScore,
			JobLabel:  r.Label(),
			CreatedAt: r.CreatedAt,
		})
		if r.OverallScore > tr.Best {
			tr.Best = r.OverallScore
		}
	}

	tr.First = runs[0].OverallScore
	tr.Latest = runs[len(runs)-1].OverallScore
	tr.Delta = tr.Latest - tr.First
	tr.LastRun = ago(now.Sub(runs[len(runs)-1].CreatedAt))

	switch {
	case len(runs) == 1:
		tr.Direction = TrendNew
	case tr.Delta > 0:
		tr.Direction = TrendImproving
	case tr.Delta < 0:
		tr.Direction = TrendDeclining
	default:
		tr.Direction = TrendFlat
	}
	return tr
}

// ago renders an elapsed duration in days or weeks
func ago(d time.Duration) string {
	days := int(d.Hours() / 24)

	switch {
	case days <= 0:
		return "today"
	case days == 1:
		return "yesterday"
	case days < 7:
		return formatDays(days) + " ago"
	case days < 30:
		return formatWeeks(days/7) + " ago"
	default:
		return formatDays(days) + " ago"
	}
}

func formatDays(days int) string {
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}

func formatWeeks(weeks int) string {
	if weeks == 1 {
		return "1 week"
	}
	return fmt.Sprintf("%d weeks", weeks)
}
