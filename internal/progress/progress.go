// Package progress shows a spinner on the terminal while a CLI command
// waits on the scheduler service.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Indicator animates a single status line until stopped
type Indicator struct {
	writer     io.Writer
	label      string
	startTime  time.Time
	mu         sync.Mutex
	enabled    bool
	spinnerIdx int
	stopChan   chan struct{}
	stopOnce   sync.Once
	done       sync.WaitGroup
	isCI       bool
}

// Config holds configuration for progress indicator
type Config struct {
	Writer io.Writer
	IsCI   bool // Set to true in CI/CD environments to print plain lines instead
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// NewIndicator creates an indicator. It only animates when the writer is a
// terminal and the process is not running in CI.
func NewIndicator(cfg Config) *Indicator {
	if cfg.Writer == nil {
		cfg.Writer = os.Stderr
	}

	// Auto-detect CI environment
	if !cfg.IsCI {
		cfg.IsCI = os.Getenv("CI") == "true" || os.Getenv("GITHUB_ACTIONS") == "true"
	}

	return &Indicator{
		writer:   cfg.Writer,
		enabled:  isTerminal(cfg.Writer) && !cfg.IsCI,
		stopChan: make(chan struct{}),
		isCI:     cfg.IsCI,
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// Start shows label with a spinner. In CI the label is printed once.
func (p *Indicator) Start(label string) {
	p.mu.Lock()
	p.label = label
	p.startTime = time.Now()
	p.mu.Unlock()

	if p.isCI {
		fmt.Fprintf(p.writer, "▶ %s\n", label)
		return
	}
	if p.enabled {
		p.done.Add(1)
		go p.spinnerLoop()
	}
}

// Stop ends the animation and clears the line. Safe to call more than once.
func (p *Indicator) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopChan)
		if p.enabled {
			p.done.Wait()
			fmt.Fprintf(p.writer, "\r%s\r", strings.Repeat(" ", p.lineWidth()))
		}
	})
}

// Elapsed returns the time since Start
func (p *Indicator) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.startTime.IsZero() {
		return 0
	}
	return time.Since(p.startTime)
}

func (p *Indicator) spinnerLoop() {
	defer p.done.Done()
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopChan:
			return
		case <-ticker.C:
			p.mu.Lock()
			fmt.Fprint(p.writer, p.statusLine())
			p.spinnerIdx = (p.spinnerIdx + 1) % len(spinnerFrames)
			p.mu.Unlock()
		}
	}
}

// statusLine renders the current frame. Callers hold mu.
func (p *Indicator) statusLine() string {
	return fmt.Sprintf("\r%s %s (%s)", spinnerFrames[p.spinnerIdx], p.label, formatDuration(time.Since(p.startTime)))
}

func (p *Indicator) lineWidth() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len([]rune(p.label)) + 16
}

// formatDuration formats a duration in human-readable form
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm%ds", minutes, seconds)
}
