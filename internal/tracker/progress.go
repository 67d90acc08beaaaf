package tracker

import "time"

// ProgressPhase represents the current batch phase
type ProgressPhase string

const (
	PhaseReading ProgressPhase = "reading"
	PhaseScoring ProgressPhase = "scoring"
)

// Progress represents the current batch progress
type Progress struct {
	Phase       ProgressPhase
	Current     int       // Items finished so far
	Total       int       // Total items in this phase
	Description string    // Human-readable description
	StartedAt   time.Time // When this phase started (for ETA calculation)
}

// ProgressCallback is called with progress updates during a batch
type ProgressCallback func(Progress)

// ETA returns the estimated time remaining based on current progress
func (p Progress) ETA() time.Duration {
	if p.Current == 0 || p.Total == 0 || p.StartedAt.IsZero() {
		return 0
	}
	elapsed := time.Since(p.StartedAt)
	rate := float64(p.Current) / elapsed.Seconds()
	if rate <= 0 {
		return 0
	}
	remaining := p.Total - p.Current
	return time.Duration(float64(remaining)/rate) * time.Second
}

// Percentage returns the completion percentage (0-100)
func (p Progress) Percentage() int {
	if p.Total == 0 {
		return 0
	}
	return (p.Current * 100) / p.Total
}
