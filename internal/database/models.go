package database

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"time"

	"github.com/vijay-prabhu/atscheck/internal/ats"
)

// ScoreRun is one stored scoring of a document against a job description
type ScoreRun struct {
	ID           string           `json:"id"`
	DocumentName string           `json:"document_name"`
	DocumentType ats.DocumentType `json:"document_type"`
	JobLabel     *string          `json:"job_label,omitempty"`
	DocumentHash string           `json:"document_hash"`
	JobHash      string           `json:"job_hash"`
	OverallScore int              `json:"overall_score"`
	Result       *ats.Result      `json:"result,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

// Label returns the job label or a placeholder
func (r *ScoreRun) Label() string {
	if r.JobLabel == nil || *r.JobLabel == "" {
		return "-"
	}
	return *r.JobLabel
}

// TypeStats aggregates runs of one document type
type TypeStats struct {
	Runs         int     `json:"runs"`
	AverageScore float64 `json:"average_score"`
}

// Stats represents aggregate statistics over the score history
type Stats struct {
	TotalRuns    int                            `json:"total_runs"`
	Documents    int                            `json:"documents"`
	AverageScore float64                        `json:"average_score"`
	BestScore    *int                           `json:"best_score,omitempty"`
	WorstScore   *int                           `json:"worst_score,omitempty"`
	ByType       map[ats.DocumentType]TypeStats `json:"by_type"`
}

// ListOptions contains options for listing score runs
type ListOptions struct {
	DocumentType *ats.DocumentType
	Document     *string
	Since        *time.Time
	Limit        int
	Offset       int
}

// Hash fingerprints document or job text so identical inputs can be recognised
func Hash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// NullString is a helper to convert *string to sql.NullString
func NullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// StringPtr converts sql.NullString to *string
func StringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

// IntPtr converts sql.NullInt64 to *int
func IntPtr(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	v := int(ni.Int64)
	return &v
}
