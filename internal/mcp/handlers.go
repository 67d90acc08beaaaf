package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/vijay-prabhu/atscheck/internal/ats"
	"github.com/vijay-prabhu/atscheck/internal/database"
	"github.com/vijay-prabhu/atscheck/internal/ingestion"
	"github.com/vijay-prabhu/atscheck/internal/tracker"
)

const defaultListLimit = 20

func (s *Server) registerHandlers() {
	s.handlers["score_document"] = s.handleScoreDocument
	s.handlers["list_scores"] = s.handleListScores
	s.handlers["get_score"] = s.handleGetScore
	s.handlers["search_scores"] = s.handleSearchScores
	s.handlers["get_stats"] = s.handleGetStats
	s.handlers["get_trend"] = s.handleGetTrend
}

func decodeParams(params json.RawMessage, v any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, v); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	return nil
}

// history returns the score database or ErrHistoryDisabled
func (s *Server) history() (*database.DB, error) {
	db := s.tracker.DB()
	if db == nil {
		return nil, tracker.ErrHistoryDisabled
	}
	return db, nil
}

func sinceDays(days int) *time.Time {
	if days <= 0 {
		return nil
	}
	t := time.Now().AddDate(0, 0, -days)
	return &t
}

type scoreDocumentParams struct {
	DocumentName   string `json:"document_name" validate:"max=255"`
	DocumentText   string `json:"document_text" validate:"required_without=DocumentPath"`
	DocumentPath   string `json:"document_path" validate:"required_without=DocumentText"`
	JobDescription string `json:"job_description" validate:"required_without=JobPath"`
	JobPath        string `json:"job_path" validate:"required_without=JobDescription"`
	JobLabel       string `json:"job_label" validate:"max=200"`
	DocumentType   string `json:"document_type"`
	Save           *bool  `json:"save"`
}

type scoreDocumentResult struct {
	RunID        string `json:"run_id,omitempty"`
	DocumentName string `json:"document_name"`
	Saved        bool   `json:"saved"`
	*ats.Result
}

func (s *Server) handleScoreDocument(ctx context.Context, params json.RawMessage) (any, error) {
	var p scoreDocumentParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(p); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	docType, err := ats.ParseDocumentType(p.DocumentType)
	if err != nil {
		return nil, err
	}

	req := tracker.Request{
		DocumentName:   p.DocumentName,
		DocumentText:   p.DocumentText,
		JobDescription: p.JobDescription,
		DocumentType:   docType,
		JobLabel:       p.JobLabel,
		Save:           s.config.Database.SaveHistory,
	}
	if p.Save != nil {
		req.Save = *p.Save
	}

	if req.DocumentText == "" {
		doc, err := ingestion.ReadFile(ctx, p.DocumentPath)
		if err != nil {
			return nil, err
		}
		req.DocumentText = doc.Text
		if req.DocumentName == "" {
			req.DocumentName = doc.Name
		}
	}
	if req.DocumentName == "" {
		req.DocumentName = "untitled " + string(docType)
	}

	if req.JobDescription == "" {
		job, err := ingestion.ReadFile(ctx, p.JobPath)
		if err != nil {
			return nil, fmt.Errorf("read job description: %w", err)
		}
		req.JobDescription = job.Text
	}

	run, err := s.tracker.Score(ctx, req)
	if err != nil {
		return nil, err
	}

	return scoreDocumentResult{
		RunID:        run.ID,
		DocumentName: run.DocumentName,
		Saved:        run.ID != "",
		Result:       run.Result,
	}, nil
}

type listScoresParams struct {
	DocumentType string `json:"document_type"`
	Document     string `json:"document"`
	SinceDays    int    `json:"since_days"`
	Limit        int    `json:"limit"`
}

func (s *Server) handleListScores(ctx context.Context, params json.RawMessage) (any, error) {
	db, err := s.history()
	if err != nil {
		return nil, err
	}

	var p listScoresParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	opts := database.ListOptions{
		Since: sinceDays(p.SinceDays),
		Limit: defaultListLimit,
	}
	if p.Limit > 0 {
		opts.Limit = p.Limit
	}
	if p.DocumentType != "" && p.DocumentType != "all" {
		docType, err := ats.ParseDocumentType(p.DocumentType)
		if err != nil {
			return nil, err
		}
		opts.DocumentType = &docType
	}
	if p.Document != "" {
		opts.Document = &p.Document
	}

	runs, err := db.ListScoreRuns(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return runs, nil
}

type getScoreParams struct {
	ID string `json:"id" validate:"required"`
}

func (s *Server) handleGetScore(ctx context.Context, params json.RawMessage) (any, error) {
	db, err := s.history()
	if err != nil {
		return nil, err
	}

	var p getScoreParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(p); err != nil {
		return nil, fmt.Errorf("id is required")
	}

	run, err := db.GetScoreRun(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("get score %s: %w", p.ID, err)
	}
	return run, nil
}

type searchParams struct {
	Query string `json:"query" validate:"required"`
}

func (s *Server) handleSearchScores(ctx context.Context, params json.RawMessage) (any, error) {
	db, err := s.history()
	if err != nil {
		return nil, err
	}

	var p searchParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	p.Query = strings.TrimSpace(p.Query)
	if err := s.validate.Struct(p); err != nil {
		return nil, fmt.Errorf("query is required")
	}

	results, err := db.Search(ctx, p.Query)
	if err != nil {
		return nil, fmt.Errorf("search error: %w", err)
	}
	return results, nil
}

type getStatsParams struct {
	SinceDays int `json:"since_days"`
}

func (s *Server) handleGetStats(ctx context.Context, params json.RawMessage) (any, error) {
	db, err := s.history()
	if err != nil {
		return nil, err
	}

	var p getStatsParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	stats, err := db.GetStats(ctx, sinceDays(p.SinceDays))
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return stats, nil
}

type getTrendParams struct {
	Document string `json:"document" validate:"required"`
}

func (s *Server) handleGetTrend(ctx context.Context, params json.RawMessage) (any, error) {
	var p getTrendParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(p); err != nil {
		return nil, fmt.Errorf("document is required")
	}
	return s.tracker.Trend(ctx, p.Document)
}

// Resource handlers

func (s *Server) handleReadResource(ctx context.Context, uri string) (string, error) {
	switch uri {
	case uriSummary:
		return s.getResourceSummary(ctx)
	case uriRecent:
		return s.getResourceRecent(ctx)
	case uriWeights:
		return getResourceWeights(), nil
	default:
		return "", fmt.Errorf("unknown resource: %s", uri)
	}
}

func (s *Server) getResourceSummary(ctx context.Context) (string, error) {
	db, err := s.history()
	if err != nil {
		return "", err
	}
	stats, err := db.GetStats(ctx, nil)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("ATS Score Summary\n=================\n")
	fmt.Fprintf(&b, "Total Runs:    %d\n", stats.TotalRuns)
	fmt.Fprintf(&b, "Documents:     %d\n", stats.Documents)
	fmt.Fprintf(&b, "Average Score: %.1f\n", stats.AverageScore)
	if stats.BestScore != nil && stats.WorstScore != nil {
		fmt.Fprintf(&b, "Best / Worst:  %d / %d\n", *stats.BestScore, *stats.WorstScore)
	}

	for _, t := range []ats.DocumentType{ats.DocumentResume, ats.DocumentCoverLetter} {
		ts, ok := stats.ByType[t]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "  - %-12s %d run(s), average %.1f\n", t+":", ts.Runs, ts.AverageScore)
	}
	return b.String(), nil
}

func (s *Server) getResourceRecent(ctx context.Context) (string, error) {
	db, err := s.history()
	if err != nil {
		return "", err
	}
	runs, err := db.ListScoreRuns(ctx, database.ListOptions{Limit: 10})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Recent Scores (Last 10 Runs)\n============================\n\n")

	if len(runs) == 0 {
		b.WriteString("No scores yet. Run 'atscheck score' to score a document.\n")
		return b.String(), nil
	}

	for _, r := range runs {
		days := int(time.Since(r.CreatedAt).Hours() / 24)
		fmt.Fprintf(&b, "- %s | %s | %s | %d | %d day(s) ago\n",
			r.DocumentName, r.DocumentType, r.Label(), r.OverallScore, days)
	}
	return b.String(), nil
}

func getResourceWeights() string {
	var b strings.Builder
	b.WriteString("Scoring Weights\n===============\n")
	for _, t := range []ats.DocumentType{ats.DocumentResume, ats.DocumentCoverLetter} {
		w := ats.WeightsFor(t)
		fmt.Fprintf(&b, "\n%s:\n", t)
		for _, f := range ats.AllFactors {
			if v, ok := w[f]; ok {
				fmt.Fprintf(&b, "  %-20s %3.0f%%\n", f, v*100)
			}
		}
	}
	return b.String()
}
