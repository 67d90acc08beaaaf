package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/atscheck/internal/ats"
	"github.com/vijay-prabhu/atscheck/internal/database"
	"github.com/vijay-prabhu/atscheck/internal/ingestion"
	"github.com/vijay-prabhu/atscheck/internal/output"
	"github.com/vijay-prabhu/atscheck/internal/tracker"
)

// ErrBelowMinScore is returned when a document scores under --min-score
var ErrBelowMinScore = errors.New("score below minimum")

var scoreCmd = &cobra.Command{
	Use:   "score <document>...",
	Short: "Score documents against a job description",
	Long: `Score one or more resumes or cover letters against a job description.

Documents may be plain text, Markdown, PDF or DOCX. Use --job - to read the
job description from stdin.

Examples:
  atscheck score resume.pdf --job posting.txt
  atscheck score letter.md --job posting.txt --type coverLetter
  atscheck score v1.docx v2.docx v3.docx --job posting.txt
  atscheck score resume.pdf --job - --min-score 70 < posting.txt
  atscheck score resume.pdf --job posting.txt -o json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScore,
}

var (
	scoreJob      string
	scoreType     string
	scoreName     string
	scoreLabel    string
	scoreSave     bool
	scoreMinScore int
)

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringVarP(&scoreJob, "job", "j", "", "Job description file (- for stdin)")
	scoreCmd.Flags().StringVarP(&scoreType, "type", "t", "resume", "Document type (resume, coverLetter)")
	scoreCmd.Flags().StringVar(&scoreName, "name", "", "Name to store the document under (single document only)")
	scoreCmd.Flags().StringVar(&scoreLabel, "label", "", "Job label (default: job file name)")
	scoreCmd.Flags().BoolVar(&scoreSave, "save", true, "Save results to the score history (default from config)")
	scoreCmd.Flags().IntVar(&scoreMinScore, "min-score", 0, "Fail when any document scores below this value")
	_ = scoreCmd.MarkFlagRequired("job")
}

func runScore(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if scoreName != "" && len(args) > 1 {
		return fmt.Errorf("--name can only be used with a single document")
	}
	if scoreMinScore < 0 || scoreMinScore > 100 {
		return fmt.Errorf("--min-score must be between 0 and 100")
	}

	docType, err := ats.ParseDocumentType(scoreType)
	if err != nil {
		return err
	}

	job, err := readJobDescription(ctx, scoreJob, cmd.InOrStdin())
	if err != nil {
		return err
	}
	label := scoreLabel
	if label == "" {
		label = jobLabelFromPath(scoreJob)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	save := cfg.Database.SaveHistory
	if cmd.Flags().Changed("save") {
		save = scoreSave
	}

	a, err := newApp(cfg, save)
	if err != nil {
		return err
	}
	defer a.Close()

	w := cmd.OutOrStdout()
	terminal := NewTerminal(cmd.ErrOrStderr())

	if len(args) == 1 {
		req, err := tracker.NewFileRequest(ctx, args[0], job, docType)
		if err != nil {
			return err
		}
		if scoreName != "" {
			req.DocumentName = scoreName
		}
		req.JobLabel = label
		req.Save = save

		run, err := a.tracker.Score(ctx, req)
		if err != nil {
			return err
		}
		if err := output.OutputTo(w, outputFmt, run); err != nil {
			return err
		}
		return checkMinScore([]*database.ScoreRun{run}, scoreMinScore)
	}

	items, err := scoreFiles(ctx, a.tracker, args, job, label, docType, save, terminal)
	terminal.ClearLine()
	if err != nil {
		return err
	}

	if outputFmt == "json" {
		if err := output.JSONTo(w, batchJSON(items)); err != nil {
			return err
		}
	} else if err := output.TableTo(w, items); err != nil {
		return err
	}

	if failed := tracker.Failed(items); len(failed) > 0 {
		return fmt.Errorf("%d of %d document(s) could not be scored", len(failed), len(items))
	}

	runs := make([]*database.ScoreRun, 0, len(items))
	for _, it := range items {
		runs = append(runs, it.Run)
	}
	return checkMinScore(runs, scoreMinScore)
}

// scoreFiles reads every path and scores the readable ones as one batch.
// Unreadable files come back as failed items in their original position.
func scoreFiles(ctx context.Context, tr *tracker.Tracker, paths []string, job, label string,
	docType ats.DocumentType, save bool, terminal *Terminal) ([]tracker.BatchItem, error) {
	items := make([]tracker.BatchItem, len(paths))
	var reqs []tracker.Request
	var positions []int

	for i, path := range paths {
		terminal.Progress(tracker.Progress{
			Phase:       tracker.PhaseReading,
			Current:     i,
			Total:       len(paths),
			Description: filepath.Base(path),
		})

		req, err := tracker.NewFileRequest(ctx, path, job, docType)
		if err != nil {
			items[i] = tracker.BatchItem{Request: tracker.Request{DocumentName: filepath.Base(path)}, Err: err}
			continue
		}
		req.JobLabel = label
		req.Save = save
		reqs = append(reqs, req)
		positions = append(positions, i)
	}

	scored, err := tr.ScoreBatch(ctx, reqs, terminal.Progress)
	for j, it := range scored {
		items[positions[j]] = it
	}
	return items, err
}

func checkMinScore(runs []*database.ScoreRun, minScore int) error {
	if minScore <= 0 {
		return nil
	}
	var below []string
	for _, r := range runs {
		if r.OverallScore < minScore {
			below = append(below, fmt.Sprintf("%s (%d)", r.DocumentName, r.OverallScore))
		}
	}
	if len(below) == 0 {
		return nil
	}
	return fmt.Errorf("%w %d: %s", ErrBelowMinScore, minScore, strings.Join(below, ", "))
}

// readJobDescription loads the job text from a file, or from stdin for "-"
func readJobDescription(ctx context.Context, path string, stdin io.Reader) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(io.LimitReader(stdin, ingestion.MaxFileSize))
		if err != nil {
			return "", fmt.Errorf("read job description from stdin: %w", err)
		}
		doc, err := ingestion.Extract(ctx, data, "stdin")
		if err != nil {
			return "", fmt.Errorf("read job description: %w", err)
		}
		return doc.Text, nil
	}

	doc, err := ingestion.ReadFile(ctx, path)
	if err != nil {
		return "", fmt.Errorf("read job description: %w", err)
	}
	return doc.Text, nil
}

// jobLabelFromPath turns "jobs/acme-backend.txt" into "acme-backend"
func jobLabelFromPath(path string) string {
	if path == "" || path == "-" {
		return ""
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

type batchRow struct {
	Document string             `json:"document"`
	Run      *database.ScoreRun `json:"run,omitempty"`
	Error    string             `json:"error,omitempty"`
}

func batchJSON(items []tracker.BatchItem) []batchRow {
	rows := make([]batchRow, len(items))
	for i, it := range items {
		rows[i] = batchRow{Document: it.Request.DocumentName, Run: it.Run}
		if it.Err != nil {
			rows[i].Error = it.Err.Error()
		}
	}
	return rows
}
