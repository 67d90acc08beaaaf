package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vijay-prabhu/atscheck/internal/ats"
)

const scoreRunColumns = `id, document_name, document_type, job_label, document_hash,
	job_hash, overall_score, result_json, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScoreRun(row rowScanner) (*ScoreRun, error) {
	r := &ScoreRun{}
	var jobLabel sql.NullString
	var resultJSON string

	if err := row.Scan(
		&r.ID, &r.DocumentName, &r.DocumentType, &jobLabel, &r.DocumentHash,
		&r.JobHash, &r.OverallScore, &resultJSON, &r.CreatedAt,
	); err != nil {
		return nil, err
	}

	r.JobLabel = StringPtr(jobLabel)
	r.Result = &ats.Result{}
	if err := json.Unmarshal([]byte(resultJSON), r.Result); err != nil {
		return nil, fmt.Errorf("decode result of run %s: %w", r.ID, err)
	}
	return r, nil
}

func scanScoreRuns(rows *sql.Rows) ([]ScoreRun, error) {
	defer rows.Close()

	var runs []ScoreRun
	for rows.Next() {
		r, err := scanScoreRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// CreateScoreRun inserts a new score run. ID and CreatedAt are filled in
// when empty.
func (db *DB) CreateScoreRun(ctx context.Context, r *ScoreRun) error {
	if r.Result == nil {
		return errors.New("score run has no result")
	}
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	resultJSON, err := json.Marshal(r.Result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	keywords := strings.Join(append(append([]string{}, r.Result.MatchedKeywords...), r.Result.MissingKeywords...), " ")

	_, err = db.ExecContext(ctx, `
		INSERT INTO score_runs (
			id, document_name, document_type, job_label, document_hash,
			job_hash, overall_score, keywords, result_json, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		r.ID, r.DocumentName, r.DocumentType, NullString(r.JobLabel), r.DocumentHash,
		r.JobHash, r.OverallScore, keywords, string(resultJSON), r.CreatedAt,
	)
	return err
}

// GetScoreRun retrieves a score run by ID
func (db *DB) GetScoreRun(ctx context.Context, id string) (*ScoreRun, error) {
	r, err := scanScoreRun(db.QueryRowContext(ctx,
		`SELECT `+scoreRunColumns+` FROM score_runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ListScoreRuns retrieves score runs, newest first, with optional filters
func (db *DB) ListScoreRuns(ctx context.Context, opts ListOptions) ([]ScoreRun, error) {
	query := `SELECT ` + scoreRunColumns + ` FROM score_runs WHERE 1=1`
	args := []any{}

	if opts.DocumentType != nil {
		query += " AND document_type = ?"
		args = append(args, *opts.DocumentType)
	}
	if opts.Document != nil {
		query += " AND LOWER(document_name) LIKE LOWER(?)"
		args = append(args, "%"+*opts.Document+"%")
	}
	if opts.Since != nil {
		query += " AND created_at >= ?"
		args = append(args, opts.Since.UTC())
	}

	query += " ORDER BY created_at DESC"

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
		if opts.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", opts.Offset)
		}
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanScoreRuns(rows)
}

// ListDocumentRuns returns every run of one document in chronological order
func (db *DB) ListDocumentRuns(ctx context.Context, document string) ([]ScoreRun, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+scoreRunColumns+` FROM score_runs
		WHERE document_name = ?
		ORDER BY created_at ASC`, document)
	if err != nil {
		return nil, err
	}
	return scanScoreRuns(rows)
}

// Search finds runs whose document name, job label or keywords contain query
func (db *DB) Search(ctx context.Context, query string) ([]ScoreRun, error) {
	searchPattern := "%" + strings.ToLower(query) + "%"

	rows, err := db.QueryContext(ctx, `
		SELECT `+scoreRunColumns+`
		FROM score_runs
		WHERE LOWER(document_name) LIKE ?
		   OR LOWER(job_label) LIKE ?
		   OR keywords LIKE ?
		ORDER BY created_at DESC
	`, searchPattern, searchPattern, searchPattern)
	if err != nil {
		return nil, err
	}
	return scanScoreRuns(rows)
}

// DeleteScoreRun removes a score run
func (db *DB) DeleteScoreRun(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM score_runs WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// GetStats aggregates the history, optionally limited to runs since a time
func (db *DB) GetStats(ctx context.Context, since *time.Time) (*Stats, error) {
	stats := &Stats{ByType: map[ats.DocumentType]TypeStats{}}

	whereClause := ""
	args := []any{}
	if since != nil {
		whereClause = "WHERE created_at >= ?"
		args = append(args, since.UTC())
	}

	var avg sql.NullFloat64
	var best, worst sql.NullInt64
	query := fmt.Sprintf(`
		SELECT
			COUNT(*) as total,
			COUNT(DISTINCT document_name) as documents,
			AVG(overall_score) as average,
			MAX(overall_score) as best,
			MIN(overall_score) as worst
		FROM score_runs %s
	`, whereClause)

	if err := db.QueryRowContext(ctx, query, args...).Scan(
		&stats.TotalRuns, &stats.Documents, &avg, &best, &worst,
	); err != nil {
		return nil, err
	}
	stats.AverageScore = avg.Float64
	stats.BestScore = IntPtr(best)
	stats.WorstScore = IntPtr(worst)

	rows, err := db.QueryContext(ctx, fmt.Sprintf(`
		SELECT document_type, COUNT(*), AVG(overall_score)
		FROM score_runs %s
		GROUP BY document_type
	`, whereClause), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var docType ats.DocumentType
		var ts TypeStats
		if err := rows.Scan(&docType, &ts.Runs, &ts.AverageScore); err != nil {
			return nil, err
		}
		stats.ByType[docType] = ts
	}

	return stats, rows.Err()
}
