package core

import "github.com/EmundoT/asset-optimizer/internal/types"

// UICallback handles user interaction during a run. The core never prints;
// everything user-visible goes through this interface.
type UICallback interface {
	ShowError(title, message string)
	ShowSuccess(message string)
	ShowWarning(title, message string)
	AskConfirmation(title, message string) bool
	StyleTitle(title string) string
	// ShowPhaseSummary is called once per completed phase.
	ShowPhaseSummary(summary types.PhaseSummary)
	// StartProgress begins tracking total units of work. The returned
	// tracker must be completed or failed by the caller.
	StartProgress(total int, label string) ProgressTracker
	GetOutputMode() OutputMode
	IsAutoApprove() bool
	FormatJSON(output JSONOutput) error
}

// ProgressTracker reports incremental progress for a long operation.
type ProgressTracker interface {
	Increment(message string)
	SetTotal(total int)
	Complete()
	Fail(err error)
}

// SilentUICallback is a no-op implementation used by tests and library callers.
type SilentUICallback struct{}

func (s *SilentUICallback) ShowError(_, _ string)                 {}
func (s *SilentUICallback) ShowSuccess(_ string)                  {}
func (s *SilentUICallback) ShowWarning(_, _ string)               {}
func (s *SilentUICallback) AskConfirmation(_, _ string) bool      { return false }
func (s *SilentUICallback) StyleTitle(title string) string        { return title }
func (s *SilentUICallback) ShowPhaseSummary(_ types.PhaseSummary) {}
func (s *SilentUICallback) GetOutputMode() OutputMode             { return OutputQuiet }
func (s *SilentUICallback) IsAutoApprove() bool                   { return false }
func (s *SilentUICallback) FormatJSON(_ JSONOutput) error         { return nil }
func (s *SilentUICallback) StartProgress(_ int, _ string) ProgressTracker {
	return noopTracker{}
}

type noopTracker struct{}

func (noopTracker) Increment(string) {}
func (noopTracker) SetTotal(int)     {}
func (noopTracker) Complete()        {}
func (noopTracker) Fail(error)       {}
