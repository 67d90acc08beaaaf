// Package tracker runs scoring requests end to end: validation, scoring,
// logging and optional persistence of the score history.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vijay-prabhu/atscheck/internal/ats"
	"github.com/vijay-prabhu/atscheck/internal/config"
	"github.com/vijay-prabhu/atscheck/internal/database"
	"github.com/vijay-prabhu/atscheck/internal/ingestion"
	"github.com/vijay-prabhu/atscheck/internal/logger"
)

var (
	// ErrScoringUnavailable is returned when the scorer fails on a request.
	// The failure is logged and not retried.
	ErrScoringUnavailable = errors.New("scoring unavailable")

	// ErrHistoryDisabled is returned by history operations when no database is attached
	ErrHistoryDisabled = errors.New("score history is disabled")
)

// Request is one document to score against one job description
type Request struct {
	DocumentName   string           `json:"document_name" validate:"required,max=255"`
	DocumentText   string           `json:"document_text" validate:"required"`
	JobDescription string           `json:"job_description" validate:"required"`
	DocumentType   ats.DocumentType `json:"document_type" validate:"omitempty,oneof=resume coverLetter"`
	JobLabel       string           `json:"job_label,omitempty" validate:"max=200"`
	Save           bool             `json:"save"`
}

// Tracker orchestrates scoring and the score history
type Tracker struct {
	scorer      *ats.Scorer
	db          *database.DB
	log         *zap.Logger
	validate    *validator.Validate
	concurrency int
}

// New creates a new Tracker. db may be nil, in which case nothing is persisted.
func New(scorer *ats.Scorer, db *database.DB, cfg *config.Config, log *zap.Logger) *Tracker {
	concurrency := 1
	if cfg != nil && cfg.Scoring.MaxConcurrency > 0 {
		concurrency = cfg.Scoring.MaxConcurrency
	}
	return &Tracker{
		scorer:      scorer,
		db:          db,
		log:         logger.OrNop(log),
		validate:    validator.New(),
		concurrency: concurrency,
	}
}

// Scorer returns the scorer in use
func (t *Tracker) Scorer() *ats.Scorer {
	return t.scorer
}

// DB returns the history database, or nil
func (t *Tracker) DB() *database.DB {
	return t.db
}

// NewFileRequest reads a document file and builds a request for it
func NewFileRequest(ctx context.Context, path, jobDescription string, docType ats.DocumentType) (Request, error) {
	doc, err := ingestion.ReadFile(ctx, path)
	if err != nil {
		return Request{}, err
	}
	return Request{
		DocumentName:   doc.Name,
		DocumentText:   doc.Text,
		JobDescription: jobDescription,
		DocumentType:   docType,
	}, nil
}

// Validate checks a request without scoring it
func (t *Tracker) Validate(req Request) error {
	if strings.TrimSpace(req.DocumentText) == "" {
		return errors.New("document text is empty")
	}
	if strings.TrimSpace(req.JobDescription) == "" {
		return errors.New("job description is empty")
	}
	if err := t.validate.Struct(req); err != nil {
		return err
	}
	return nil
}

// Score validates, scores and, when requested, saves one request
func (t *Tracker) Score(ctx context.Context, req Request) (*database.ScoreRun, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := t.Validate(req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	docType := req.DocumentType
	if docType == "" {
		docType = ats.DocumentResume
	}
	fields := logger.DocumentFields(req.DocumentName, string(docType), req.JobLabel)

	start := time.Now()
	result, err := t.scorer.CalculateScore(req.DocumentText, req.JobDescription, docType)
	if err != nil {
		t.log.Error("scoring failed", append(fields, zap.Error(err))...)
		return nil, fmt.Errorf("%w: %w", ErrScoringUnavailable, err)
	}

	run := &database.ScoreRun{
		DocumentName: req.DocumentName,
		DocumentType: docType,
		DocumentHash: database.Hash(req.DocumentText),
		JobHash:      database.Hash(req.JobDescription),
		OverallScore: result.OverallScore,
		Result:       result,
		CreatedAt:    time.Now().UTC(),
	}
	if req.JobLabel != "" {
		label := req.JobLabel
		run.JobLabel = &label
	}

	t.log.Debug("document scored", append(fields,
		zap.Int(logger.FieldScore, result.OverallScore),
		zap.Int("matched", len(result.MatchedKeywords)),
		zap.Int("missing", len(result.MissingKeywords)),
		zap.Duration("took", time.Since(start)),
	)...)

	if req.Save && t.db != nil {
		if err := t.db.CreateScoreRun(ctx, run); err != nil {
			return nil, fmt.Errorf("save score run: %w", err)
		}
		t.log.Info("score saved", append(fields,
			zap.String(logger.FieldRunID, run.ID),
			zap.Int(logger.FieldScore, run.OverallScore),
		)...)
	}

	return run, nil
}

// BatchItem is the outcome of one request in a batch
type BatchItem struct {
	Request Request
	Run     *database.ScoreRun
	Err     error
}

// ScoreBatch scores requests concurrently, bounded by the configured
// concurrency. Items come back in request order; a failed request does not
// stop the others. The returned error is only set when ctx ends early.
func (t *Tracker) ScoreBatch(ctx context.Context, reqs []Request, progress ProgressCallback) ([]BatchItem, error) {
	items := make([]BatchItem, len(reqs))
	started := time.Now()

	var mu sync.Mutex
	done := 0
	report := func(name string) {
		if progress == nil {
			return
		}
		mu.Lock()
		done++
		p := Progress{
			Phase:       PhaseScoring,
			Current:     done,
			Total:       len(reqs),
			Description: name,
			StartedAt:   started,
		}
		progress(p)
		mu.Unlock()
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(t.concurrency)

	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				items[i] = BatchItem{Request: req, Err: err}
				return err
			}
			run, err := t.Score(gCtx, req)
			items[i] = BatchItem{Request: req, Run: run, Err: err}
			report(req.DocumentName)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return items, err
	}
	return items, nil
}

// Failed returns the batch items that carry an error
func Failed(items []BatchItem) []BatchItem {
	var failed []BatchItem
	for _, it := range items {
		if it.Err != nil {
			failed = append(failed, it)
		}
	}
	return failed
}
