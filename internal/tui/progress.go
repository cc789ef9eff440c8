package tui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/EmundoT/asset-optimizer/internal/core"
)

var (
	progressStyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	progressStyleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))
	progressStyleErr     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
)

// ========================================
// Bubbletea Progress Model
// ========================================

// progressModel renders one phase's progress across categories.
type progressModel struct {
	current int
	total   int
	label   string
	message string
	done    bool
	failed  bool
	err     error
	width   int
}

func (m progressModel) Init() tea.Cmd {
	return nil
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case progressIncrementMsg:
		m.current++
		m.message = msg.message
	case progressSetTotalMsg:
		m.total = msg.total
	case progressCompleteMsg:
		m.done = true
		return m, tea.Quit
	case progressFailMsg:
		m.failed = true
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.done {
		return progressStyleSuccess.Render(fmt.Sprintf("✓ %s (%d/%d categories)", m.label, m.current, m.total))
	}
	if m.failed {
		return progressStyleErr.Render(fmt.Sprintf("✗ %s (failed: %v)", m.label, m.err))
	}

	barWidth := 40
	if m.width < 80 {
		barWidth = 20
	}
	filled := 0
	if m.total > 0 {
		filled = min(barWidth, m.current*barWidth/m.total)
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	status := fmt.Sprintf("[%s] %d/%d", bar, m.current, m.total)
	if m.message != "" {
		status += " - " + m.message
	}
	return fmt.Sprintf("%s\n%s", progressStyleTitle.Render(m.label), status)
}

type progressIncrementMsg struct {
	message string
}

type progressSetTotalMsg struct {
	total int
}

type progressCompleteMsg struct{}

type progressFailMsg struct {
	err error
}

// ========================================
// BubbletaeProgressTracker Implementation
// ========================================

// BubbletaeProgressTracker renders progress with bubbletea on a terminal.
type BubbletaeProgressTracker struct {
	program *tea.Program
	done    chan struct{}
}

var _ core.ProgressTracker = (*BubbletaeProgressTracker)(nil)

// NewBubbletaeProgressTracker starts a bubbletea program in the background.
func NewBubbletaeProgressTracker(total int, label string) *BubbletaeProgressTracker {
	m := progressModel{total: total, label: label, width: 80}
	t := &BubbletaeProgressTracker{
		program: tea.NewProgram(m),
		done:    make(chan struct{}),
	}
	go func() {
		defer close(t.done)
		_, _ = t.program.Run()
	}()
	return t
}

// Increment advances by one category. Safe for concurrent use.
func (t *BubbletaeProgressTracker) Increment(message string) {
	t.program.Send(progressIncrementMsg{message: message})
}

// SetTotal sets the total count.
func (t *BubbletaeProgressTracker) SetTotal(total int) {
	t.program.Send(progressSetTotalMsg{total: total})
}

// Complete marks the phase as complete and waits for the final render.
func (t *BubbletaeProgressTracker) Complete() {
	t.program.Send(progressCompleteMsg{})
	t.wait()
}

// Fail marks the phase as failed and waits for the final render.
func (t *BubbletaeProgressTracker) Fail(err error) {
	t.program.Send(progressFailMsg{err: err})
	t.wait()
}

func (t *BubbletaeProgressTracker) wait() {
	select {
	case <-t.done:
	case <-time.After(500 * time.Millisecond):
		t.program.Quit()
	}
}

// ========================================
// Text Progress (Non-TTY)
// ========================================

// TextProgressTracker writes one line per completed category.
type TextProgressTracker struct {
	mu      sync.Mutex
	w       io.Writer
	current int
	total   int
	label   string
}

// NewTextProgressTracker prints a start line to w.
func NewTextProgressTracker(w io.Writer, total int, label string) *TextProgressTracker {
	fmt.Fprintf(w, "Starting: %s (0/%d)\n", label, total)
	return &TextProgressTracker{w: w, total: total, label: label}
}

// Increment advances by one. Safe for concurrent use.
func (t *TextProgressTracker) Increment(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current++
	msg := fmt.Sprintf("  [%d/%d]", t.current, t.total)
	if message != "" {
		msg += " " + message
	}
	fmt.Fprintln(t.w, msg)
}

// SetTotal sets the total count.
func (t *TextProgressTracker) SetTotal(total int) {
	t.mu.Lock()
	t.total = total
	t.mu.Unlock()
}

// Complete prints the completion line.
func (t *TextProgressTracker) Complete() {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.w, "✓ %s: Completed (%d/%d)\n", t.label, t.current, t.total)
}

// Fail prints the failure line.
func (t *TextProgressTracker) Fail(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.w, "✗ %s: Failed - %v\n", t.label, err)
}

// ========================================
// No-Op Progress (Quiet/JSON)
// ========================================

// NoOpProgressTracker does nothing (for quiet/JSON/testing modes)
type NoOpProgressTracker struct{}

// NewNoOpProgressTracker creates a new no-op progress tracker
func NewNoOpProgressTracker() *NoOpProgressTracker {
	return &NoOpProgressTracker{}
}

func (t *NoOpProgressTracker) Increment(_ string) {}
func (t *NoOpProgressTracker) SetTotal(_ int)     {}
func (t *NoOpProgressTracker) Complete()          {}
func (t *NoOpProgressTracker) Fail(_ error)       {}
