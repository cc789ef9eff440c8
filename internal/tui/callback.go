package tui

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/EmundoT/asset-optimizer/internal/core"
	"github.com/EmundoT/asset-optimizer/internal/types"
)

// TUICallback implements UICallback for interactive terminal use with styled output.
//
//nolint:revive // Name TUICallback is intentional and descriptive
type TUICallback struct {
	autoApprove bool
}

var _ core.UICallback = (*TUICallback)(nil)

// NewTUICallback creates a new interactive terminal UI callback. autoApprove
// skips confirmation prompts (--yes).
func NewTUICallback(autoApprove bool) *TUICallback {
	return &TUICallback{autoApprove: autoApprove}
}

// ShowError displays an error message.
func (t *TUICallback) ShowError(title, message string) {
	PrintError(title, message)
}

// ShowSuccess displays a success message with styled output.
func (t *TUICallback) ShowSuccess(message string) {
	PrintSuccess(message)
}

// ShowWarning displays a warning message with styled output.
func (t *TUICallback) ShowWarning(title, message string) {
	PrintWarning(title, message)
}

// AskConfirmation prompts the user for yes/no confirmation.
func (t *TUICallback) AskConfirmation(title, message string) bool {
	if t.autoApprove {
		return true
	}
	var confirm bool
	err := huh.NewConfirm().
		Title(title).
		Description(message).
		Value(&confirm).
		Affirmative("Yes").
		Negative("No").
		Run()
	if err != nil {
		return false
	}
	return confirm
}

// StyleTitle returns a styled title string for terminal output.
func (t *TUICallback) StyleTitle(title string) string {
	return StyleTitle(title)
}

// ShowPhaseSummary renders the phase summary as a bordered card.
func (t *TUICallback) ShowPhaseSummary(sum types.PhaseSummary) {
	fmt.Println(RenderPhaseSummary(sum, true))
}

// StartProgress starts a bubbletea progress bar.
func (t *TUICallback) StartProgress(total int, label string) core.ProgressTracker {
	return NewBubbletaeProgressTracker(total, label)
}

// GetOutputMode returns the output mode (normal for interactive TUI)
func (t *TUICallback) GetOutputMode() core.OutputMode {
	return core.OutputNormal
}

// IsAutoApprove reports whether --yes was given.
func (t *TUICallback) IsAutoApprove() bool {
	return t.autoApprove
}

// FormatJSON is not used in interactive mode
func (t *TUICallback) FormatJSON(_ core.JSONOutput) error {
	return nil
}
