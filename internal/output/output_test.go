package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijay-prabhu/atscheck/internal/ats"
	"github.com/vijay-prabhu/atscheck/internal/database"
	"github.com/vijay-prabhu/atscheck/internal/tracker"
)

func sampleResult() *ats.Result {
	return &ats.Result{
		DocumentType: ats.DocumentCoverLetter,
		OverallScore: 64,
		Breakdown: ats.Breakdown{
			ats.FactorKeywordMatch:        50,
			ats.FactorSkillsAlignment:     100,
			ats.FactorNarrativeQuality:    65,
			ats.FactorPersonalization:     70,
			ats.FactorToneProfessionalism: 60,
		},
		MatchedKeywords: []string{"python"},
		MissingKeywords: []string{"kubernetes"},
		Suggestions:     []string{ats.SuggestCallToAction},
		KeywordDensity:  map[string]float64{"python": 2.5, "kubernetes": 0},
		CoverLetterMetrics: &ats.CoverLetterMetrics{
			NarrativeQuality:     65,
			PersonalizationScore: 70,
			ToneProfessionalism:  60,
			LengthCompliance:     40,
		},
	}
}

func TestOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, OutputTo(&buf, "json", sampleResult()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, float64(64), decoded["overallScore"])
	// Embedded metrics are flattened
	assert.Equal(t, float64(40), decoded["lengthCompliance"])
	assert.Equal(t, false, decoded["callToActionPresent"])
}

func TestOutputUnknownFormat(t *testing.T) {
	err := OutputTo(&bytes.Buffer{}, "yaml", sampleResult())
	assert.EqualError(t, err, "unknown output format: yaml")
}

func TestResultTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TableTo(&buf, sampleResult()))
	out := buf.String()

	assert.Contains(t, out, "Overall score: 64/100 (coverLetter)")
	assert.Contains(t, out, "narrativeQuality")
	assert.NotContains(t, out, "jobTitleMatch")
	assert.Contains(t, out, "Call to action:     no")
	assert.Contains(t, out, "Missing keywords (1): kubernetes")
	assert.Contains(t, out, "2.50%")
	assert.Contains(t, out, ats.SuggestCallToAction)
}

func TestRunsTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TableTo(&buf, []database.ScoreRun{}))
	assert.Equal(t, "No score runs found.\n", buf.String())

	buf.Reset()
	runs := []database.ScoreRun{{
		ID:           "0123456789abcdef",
		DocumentName: "resume.pdf",
		DocumentType: ats.DocumentResume,
		OverallScore: 71,
		CreatedAt:    time.Now().Add(-3 * 24 * time.Hour),
	}}
	require.NoError(t, TableTo(&buf, runs))
	out := buf.String()
	assert.Contains(t, out, "01234567")
	assert.NotContains(t, out, "0123456789")
	assert.Contains(t, out, "3 days ago")
}

func TestStatsTable(t *testing.T) {
	best, worst := 90, 40
	stats := &database.Stats{
		TotalRuns:    3,
		Documents:    2,
		AverageScore: 63.3,
		BestScore:    &best,
		WorstScore:   &worst,
		ByType: map[ats.DocumentType]database.TypeStats{
			ats.DocumentResume: {Runs: 2, AverageScore: 50},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, TableTo(&buf, stats))
	out := buf.String()
	assert.Contains(t, out, "Best score:             90")
	assert.Contains(t, out, "2 runs, avg 50.0")
}

func TestBatchTable(t *testing.T) {
	items := []tracker.BatchItem{
		{Request: tracker.Request{DocumentName: "a.txt"}, Run: &database.ScoreRun{DocumentName: "a.txt", DocumentType: ats.DocumentResume, OverallScore: 80, Result: &ats.Result{MissingKeywords: []string{"go"}}}},
		{Request: tracker.Request{DocumentName: "b.bin"}, Err: errors.New("unsupported document format")},
	}

	var buf bytes.Buffer
	require.NoError(t, TableTo(&buf, items))
	out := buf.String()
	assert.Contains(t, out, "a.txt")
	assert.Contains(t, out, "error: unsupported document format")
}

func TestUnsupportedTableType(t *testing.T) {
	err := TableTo(&bytes.Buffer{}, 42)
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd...", truncate("abcdefghij", 7))
}
