package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/vijay-prabhu/atscheck/internal/tracker"
)

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
	ColorGray   = "\033[90m"
)

// Spinner frames for animated progress
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Terminal provides terminal-aware output utilities
type Terminal struct {
	IsTerminal   bool
	UseColor     bool
	out          io.Writer
	spinnerIndex int
}

// NewTerminal creates a Terminal for w. Color and cursor control are only
// enabled when w is a terminal.
func NewTerminal(w io.Writer) *Terminal {
	isTerminal := false
	if f, ok := w.(*os.File); ok {
		isTerminal = term.IsTerminal(int(f.Fd()))
	}
	return &Terminal{
		IsTerminal: isTerminal,
		UseColor:   isTerminal && os.Getenv("NO_COLOR") == "",
		out:        w,
	}
}

// ClearLine clears the current line (terminal only)
func (t *Terminal) ClearLine() {
	if t.IsTerminal {
		fmt.Fprint(t.out, "\r\033[K")
	}
}

// ClearScreen clears the screen and moves the cursor home (terminal only)
func (t *Terminal) ClearScreen() {
	if t.IsTerminal {
		fmt.Fprint(t.out, "\033[H\033[2J")
	}
}

// Spinner returns the next spinner frame
func (t *Terminal) Spinner() string {
	if !t.IsTerminal {
		return ""
	}
	frame := spinnerFrames[t.spinnerIndex]
	t.spinnerIndex = (t.spinnerIndex + 1) % len(spinnerFrames)
	return frame
}

// Color wraps text in ANSI color codes (terminal only)
func (t *Terminal) Color(color, text string) string {
	if !t.UseColor {
		return text
	}
	return color + text + ColorReset
}

// Progress renders one batch progress update. Terminals get a single
// rewritten line; other writers get one line per finished document.
func (t *Terminal) Progress(p tracker.Progress) {
	label := "Scoring"
	if p.Phase == tracker.PhaseReading {
		label = "Reading"
	}
	msg := fmt.Sprintf("%s: %d/%d (%d%%) %s", label, p.Current, p.Total, p.Percentage(), p.Description)
	if eta := FormatETA(p.ETA()); eta != "" {
		msg += fmt.Sprintf(" (ETA: %s)", eta)
	}

	if !t.IsTerminal {
		fmt.Fprintln(t.out, msg)
		return
	}
	t.ClearLine()
	fmt.Fprint(t.out, t.Color(ColorCyan, t.Spinner()+" "+msg))
}

// FormatETA formats a duration as a human-readable ETA string
func FormatETA(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		if s > 0 {
			return fmt.Sprintf("%dm%ds", m, s)
		}
		return fmt.Sprintf("%dm", m)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}

// ScoreColor picks a color for an overall score band
func ScoreColor(score int) string {
	switch {
	case score >= 80:
		return ColorGreen
	case score >= 60:
		return ColorYellow
	default:
		return ColorRed
	}
}
