package mcp

import (
	"archive/zip"
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vijay-prabhu/atscheck/internal/ats"
	"github.com/vijay-prabhu/atscheck/internal/config"
	"github.com/vijay-prabhu/atscheck/internal/database"
	"github.com/vijay-prabhu/atscheck/internal/ingestion"
	"github.com/vijay-prabhu/atscheck/internal/tracker"
)

type nounTagger struct{}

func (nounTagger) Tag(text string) ([]ats.Token, error) {
	var out []ats.Token
	for _, w := range strings.Fields(text) {
		out = append(out, ats.Token{Text: strings.Trim(w, ".,:;!?"), Tag: "NN"})
	}
	return out, nil
}

func newTestServer(t *testing.T, withDB bool) *Server {
	t.Helper()

	var db *database.DB
	if withDB {
		var err error
		db, err = database.Open(filepath.Join(t.TempDir(), "history.db"))
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })
	}
	cfg := config.Default()
	tr := tracker.New(ats.New(ats.WithTagger(nounTagger{})), db, cfg, zap.NewNop())
	return New(tr, cfg, zap.NewNop(), "test")
}

type rawResponse struct {
	ID     any             `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// roundTrip sends each message on its own line and decodes every response
func roundTrip(t *testing.T, s *Server, messages ...string) []rawResponse {
	t.Helper()

	var out bytes.Buffer
	err := s.Serve(context.Background(), strings.NewReader(strings.Join(messages, "\n")), &out)
	require.NoError(t, err)

	var responses []rawResponse
	scanner := bufio.NewScanner(&out)
	scanner.Buffer(make([]byte, 1<<20), 1<<20)
	for scanner.Scan() {
		var r rawResponse
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &r))
		responses = append(responses, r)
	}
	require.NoError(t, scanner.Err())
	return responses
}

func toolCall(t *testing.T, id int, name string, args any) string {
	t.Helper()

	argBytes, err := json.Marshal(args)
	require.NoError(t, err)
	msg, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  "tools/call",
		"params":  map[string]any{"name": name, "arguments": json.RawMessage(argBytes)},
	})
	require.NoError(t, err)
	return string(msg)
}

func decodeToolResult(t *testing.T, r rawResponse) callToolResult {
	t.Helper()

	require.Nil(t, r.Error)
	var res callToolResult
	require.NoError(t, json.Unmarshal(r.Result, &res))
	require.Len(t, res.Content, 1)
	return res
}

func TestInitializeAndLists(t *testing.T) {
	s := newTestServer(t, false)

	responses := roundTrip(t, s,
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`,
		`{"jsonrpc":"2.0","method":"initialized"}`,
		``,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
		`{"jsonrpc":"2.0","id":3,"method":"resources/list"}`,
	)
	require.Len(t, responses, 3, "notifications and blank lines get no response")

	var init initializeResult
	require.NoError(t, json.Unmarshal(responses[0].Result, &init))
	assert.Equal(t, "atscheck", init.ServerInfo.Name)
	assert.Equal(t, "test", init.ServerInfo.Version)

	var tools toolsListResult
	require.NoError(t, json.Unmarshal(responses[1].Result, &tools))
	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"score_document", "list_scores", "get_score", "search_scores", "get_stats", "get_trend",
	}, names)
	for _, name := range names {
		assert.Contains(t, s.handlers, name, "every listed tool has a handler")
	}

	var resources resourcesListResult
	require.NoError(t, json.Unmarshal(responses[2].Result, &resources))
	assert.Len(t, resources.Resources, 3)
}

func TestProtocolErrors(t *testing.T) {
	s := newTestServer(t, false)

	responses := roundTrip(t, s,
		`not json`,
		`{"jsonrpc":"2.0","id":2,"method":"bogus"}`,
		toolCall(t, 3, "no_such_tool", map[string]any{}),
		`{"jsonrpc":"2.0","id":4,"method":"resources/read","params":{"uri":"atscheck://nope"}}`,
	)
	require.Len(t, responses, 4)

	assert.Equal(t, codeParseError, responses[0].Error.Code)
	assert.Equal(t, codeMethodNotFound, responses[1].Error.Code)
	assert.Equal(t, codeInvalidParams, responses[2].Error.Code)
	assert.Contains(t, responses[2].Error.Message, "no_such_tool")
	assert.Equal(t, codeInvalidParams, responses[3].Error.Code)
}

func TestScoreDocumentTool(t *testing.T) {
	s := newTestServer(t, true)

	responses := roundTrip(t, s, toolCall(t, 1, "score_document", map[string]any{
		"document_name":   "resume.txt",
		"document_text":   "python developer with docker experience",
		"job_description": "python docker kubernetes",
		"job_label":       "Platform Engineer",
	}))
	require.Len(t, responses, 1)

	res := decodeToolResult(t, responses[0])
	assert.False(t, res.IsError, res.Content[0].Text)

	var scored struct {
		RunID        string        `json:"run_id"`
		Saved        bool          `json:"saved"`
		DocumentType string        `json:"documentType"`
		OverallScore int           `json:"overallScore"`
		Breakdown    ats.Breakdown `json:"breakdown"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.Content[0].Text), &scored))
	assert.True(t, scored.Saved, "history is saved by default")
	assert.NotEmpty(t, scored.RunID)
	assert.Equal(t, "resume", scored.DocumentType)
	assert.Len(t, scored.Breakdown, len(ats.AllFactors))

	stored, err := s.tracker.DB().GetScoreRun(context.Background(), scored.RunID)
	require.NoError(t, err)
	assert.Equal(t, scored.OverallScore, stored.OverallScore)
}

func TestScoreDocumentFromFiles(t *testing.T) {
	s := newTestServer(t, true)
	dir := t.TempDir()
	docPath := filepath.Join(dir, "letter.txt")
	jobPath := filepath.Join(dir, "job.txt")
	require.NoError(t, os.WriteFile(docPath, []byte("Dear Hiring Manager,\n\nI build python services.\n\nSincerely"), 0o644))
	require.NoError(t, os.WriteFile(jobPath, []byte("python engineer"), 0o644))

	responses := roundTrip(t, s, toolCall(t, 1, "score_document", map[string]any{
		"document_path": docPath,
		"job_path":      jobPath,
		"document_type": "cover-letter",
		"save":          false,
	}))

	res := decodeToolResult(t, responses[0])
	require.False(t, res.IsError, res.Content[0].Text)

	var scored struct {
		RunID               string `json:"run_id"`
		Saved               bool   `json:"saved"`
		DocumentName        string `json:"document_name"`
		DocumentType        string `json:"documentType"`
		CallToActionPresent *bool  `json:"callToActionPresent"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.Content[0].Text), &scored))
	assert.False(t, scored.Saved)
	assert.Empty(t, scored.RunID)
	assert.Equal(t, "letter.txt", scored.DocumentName)
	assert.Equal(t, "coverLetter", scored.DocumentType)
	require.NotNil(t, scored.CallToActionPresent)

	runs, err := s.tracker.DB().ListScoreRuns(context.Background(), database.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func writeDOCX(t *testing.T, path, text string) {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body><w:p><w:r><w:t>` + text + `</w:t></w:r></w:p></w:body>
</w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestScoreDocumentJobFromDOCX(t *testing.T) {
	s := newTestServer(t, false)
	jobPath := filepath.Join(t.TempDir(), "job.docx")
	writeDOCX(t, jobPath, "python docker kubernetes")

	responses := roundTrip(t, s, toolCall(t, 1, "score_document", map[string]any{
		"document_text": "python docker engineer",
		"job_path":      jobPath,
		"save":          false,
	}))

	res := decodeToolResult(t, responses[0])
	require.False(t, res.IsError, res.Content[0].Text)

	var scored struct {
		MatchedKeywords []string `json:"matchedKeywords"`
		MissingKeywords []string `json:"missingKeywords"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.Content[0].Text), &scored))
	assert.ElementsMatch(t, []string{"python", "docker"}, scored.MatchedKeywords)
	assert.Contains(t, scored.MissingKeywords, "kubernetes")
}

func TestScoreDocumentJobPathTooLarge(t *testing.T) {
	s := newTestServer(t, false)
	jobPath := filepath.Join(t.TempDir(), "job.txt")
	require.NoError(t, os.WriteFile(jobPath, bytes.Repeat([]byte("a"), ingestion.MaxFileSize+1), 0o644))

	responses := roundTrip(t, s, toolCall(t, 1, "score_document", map[string]any{
		"document_text": "python",
		"job_path":      jobPath,
	}))

	res := decodeToolResult(t, responses[0])
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content[0].Text, "read job description")
}

func TestScoreDocumentInvalid(t *testing.T) {
	s := newTestServer(t, false)

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{
			name: "missing document",
			args: map[string]any{"job_description": "python"},
			want: "invalid parameters",
		},
		{
			name: "missing job",
			args: map[string]any{"document_text": "python"},
			want: "invalid parameters",
		},
		{
			name: "unknown type",
			args: map[string]any{"document_text": "python", "job_description": "python", "document_type": "memo"},
			want: "unknown document type",
		},
		{
			name: "blank text",
			args: map[string]any{"document_text": "   ", "job_description": "python"},
			want: "document text is empty",
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			responses := roundTrip(t, s, toolCall(t, i, "score_document", tt.args))
			res := decodeToolResult(t, responses[0])
			assert.True(t, res.IsError)
			assert.Contains(t, res.Content[0].Text, tt.want)
		})
	}
}

func TestHistoryToolsDisabled(t *testing.T) {
	s := newTestServer(t, false)

	for i, name := range []string{"list_scores", "get_stats"} {
		responses := roundTrip(t, s, toolCall(t, i, name, map[string]any{}))
		res := decodeToolResult(t, responses[0])
		assert.True(t, res.IsError, name)
		assert.Equal(t, tracker.ErrHistoryDisabled.Error(), res.Content[0].Text, name)
	}
}

func TestHistoryTools(t *testing.T) {
	s := newTestServer(t, true)
	ctx := context.Background()

	for _, name := range []string{"resume-v1.txt", "resume-v1.txt", "letter.txt"} {
		_, err := s.tracker.Score(ctx, tracker.Request{
			DocumentName:   name,
			DocumentText:   "python developer with docker experience",
			JobDescription: "python docker kubernetes",
			JobLabel:       "Acme Platform",
			Save:           true,
		})
		require.NoError(t, err)
	}

	responses := roundTrip(t, s,
		toolCall(t, 1, "list_scores", map[string]any{"document": "resume", "limit": 5}),
		toolCall(t, 2, "search_scores", map[string]any{"query": "acme"}),
		toolCall(t, 3, "get_stats", map[string]any{"since_days": 7}),
		toolCall(t, 4, "get_trend", map[string]any{"document": "resume-v1.txt"}),
		toolCall(t, 5, "get_score", map[string]any{"id": "missing"}),
		toolCall(t, 6, "search_scores", map[string]any{"query": "  "}),
	)
	require.Len(t, responses, 6)

	var runs []database.ScoreRun
	require.NoError(t, json.Unmarshal([]byte(decodeToolResult(t, responses[0]).Content[0].Text), &runs))
	assert.Len(t, runs, 2)

	var found []database.ScoreRun
	require.NoError(t, json.Unmarshal([]byte(decodeToolResult(t, responses[1]).Content[0].Text), &found))
	assert.Len(t, found, 3)

	var stats database.Stats
	require.NoError(t, json.Unmarshal([]byte(decodeToolResult(t, responses[2]).Content[0].Text), &stats))
	assert.Equal(t, 3, stats.TotalRuns)
	assert.Equal(t, 2, stats.Documents)

	var trend tracker.Trend
	require.NoError(t, json.Unmarshal([]byte(decodeToolResult(t, responses[3]).Content[0].Text), &trend))
	assert.Len(t, trend.Points, 2)
	assert.Equal(t, tracker.TrendFlat, trend.Direction)

	missing := decodeToolResult(t, responses[4])
	assert.True(t, missing.IsError)
	assert.Contains(t, missing.Content[0].Text, database.ErrNotFound.Error())

	blank := decodeToolResult(t, responses[5])
	assert.True(t, blank.IsError)
	assert.Equal(t, "query is required", blank.Content[0].Text)
}

func TestReadResources(t *testing.T) {
	s := newTestServer(t, true)

	_, err := s.tracker.Score(context.Background(), tracker.Request{
		DocumentName:   "resume.txt",
		DocumentText:   "python developer",
		JobDescription: "python",
		Save:           true,
	})
	require.NoError(t, err)

	responses := roundTrip(t, s,
		`{"jsonrpc":"2.0","id":1,"method":"resources/read","params":{"uri":"atscheck://summary"}}`,
		`{"jsonrpc":"2.0","id":2,"method":"resources/read","params":{"uri":"atscheck://recent"}}`,
		`{"jsonrpc":"2.0","id":3,"method":"resources/read","params":{"uri":"atscheck://weights"}}`,
	)
	require.Len(t, responses, 3)

	texts := make([]string, len(responses))
	for i, r := range responses {
		require.Nil(t, r.Error)
		var res readResourceResult
		require.NoError(t, json.Unmarshal(r.Result, &res))
		require.Len(t, res.Contents, 1)
		texts[i] = res.Contents[0].Text
	}

	assert.Contains(t, texts[0], "Total Runs:    1")
	assert.Contains(t, texts[1], "resume.txt")
	assert.Contains(t, texts[2], "keywordMatch")
	assert.Contains(t, texts[2], "45%")
	assert.Contains(t, texts[2], "35%")
}

func TestServeStopsOnCancelledContext(t *testing.T) {
	s := newTestServer(t, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := s.Serve(ctx, strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`+"\n"), &out)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}
