package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vijay-prabhu/atscheck/internal/ats"
	"github.com/vijay-prabhu/atscheck/internal/database"
	"github.com/vijay-prabhu/atscheck/internal/debounce"
	"github.com/vijay-prabhu/atscheck/internal/logger"
	"github.com/vijay-prabhu/atscheck/internal/output"
	"github.com/vijay-prabhu/atscheck/internal/tracker"
)

var watchCmd = &cobra.Command{
	Use:   "watch <document>",
	Short: "Re-score a document every time it or the job description changes",
	Long: `Watch a document and its job description and print a fresh score after
every edit. Bursts of saves are coalesced; only the latest result is shown.

Examples:
  atscheck watch resume.md --job posting.txt
  atscheck watch letter.md --job posting.txt --type coverLetter --save`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

var (
	watchJob   string
	watchType  string
	watchLabel string
	watchSave  bool
)

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchJob, "job", "j", "", "Job description file")
	watchCmd.Flags().StringVarP(&watchType, "type", "t", "resume", "Document type (resume, coverLetter)")
	watchCmd.Flags().StringVar(&watchLabel, "label", "", "Job label (default: job file name)")
	watchCmd.Flags().BoolVar(&watchSave, "save", false, "Save every re-score to the score history")
	_ = watchCmd.MarkFlagRequired("job")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchJob == "-" {
		return fmt.Errorf("watch needs a job description file, not stdin")
	}
	docType, err := ats.ParseDocumentType(watchType)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(cfg, watchSave)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	label := watchLabel
	if label == "" {
		label = jobLabelFromPath(watchJob)
	}

	w := &documentWatcher{
		tracker:  a.tracker,
		log:      a.log,
		document: args[0],
		job:      watchJob,
		label:    label,
		docType:  docType,
		save:     watchSave,
		out:      cmd.OutOrStdout(),
		terminal: NewTerminal(cmd.OutOrStdout()),
	}
	return w.Run(ctx, cfg.Watch.Delay())
}

// documentWatcher re-scores one document when it or its job description changes
type documentWatcher struct {
	tracker  *tracker.Tracker
	log      *zap.Logger
	document string
	job      string
	label    string
	docType  ats.DocumentType
	save     bool
	out      io.Writer
	terminal *Terminal

	mu sync.Mutex
}

// Run watches until ctx is done
func (w *documentWatcher) Run(ctx context.Context, delay time.Duration) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	targets := make(map[string]bool)
	for _, path := range []string{w.document, w.job} {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", path, err)
		}
		targets[abs] = true

		// Editors often replace files on save, so watch the directory
		dir := filepath.Dir(abs)
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	debouncer := debounce.New(delay)
	defer debouncer.Close()

	w.rescore(ctx)
	w.log.Info("watching for changes", zap.String(logger.FieldDocument, w.document), zap.String(logger.FieldJob, w.job))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event, targets) {
				continue
			}
			w.log.Debug("file changed", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			debouncer.Trigger(w.rescore)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", zap.Error(err))
		}
	}
}

func relevant(event fsnotify.Event, targets map[string]bool) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return targets[abs]
}

// rescore reads both files, scores them and prints the result unless a newer
// change has superseded this run
func (w *documentWatcher) rescore(ctx context.Context) {
	job, err := readJobDescription(ctx, w.job, nil)
	if err != nil {
		w.report(ctx, nil, err)
		return
	}
	req, err := tracker.NewFileRequest(ctx, w.document, job, w.docType)
	if err != nil {
		w.report(ctx, nil, err)
		return
	}
	req.JobLabel = w.label
	req.Save = w.save

	run, err := w.tracker.Score(ctx, req)
	w.report(ctx, run, err)
}

func (w *documentWatcher) report(ctx context.Context, run *database.ScoreRun, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if ctx.Err() != nil {
		return
	}

	w.terminal.ClearScreen()
	header := time.Now().Format("15:04:05") + "  " + w.terminal.Color(ColorGray, "watching "+w.document)
	if err != nil {
		fmt.Fprintf(w.out, "%s\n\n%s\n", header, w.terminal.Color(ColorRed, "Error: "+err.Error()))
		return
	}
	fmt.Fprintf(w.out, "%s  %s\n\n", header, w.terminal.Color(ScoreColor(run.OverallScore), fmt.Sprintf("score %d", run.OverallScore)))
	if err := output.OutputTo(w.out, outputFmt, run); err != nil {
		w.log.Warn("render score", zap.Error(err))
	}
}
