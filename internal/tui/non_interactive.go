package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/EmundoT/asset-optimizer/internal/core"
	"github.com/EmundoT/asset-optimizer/internal/types"
)

// NonInteractiveTUICallback handles output when stdout is not a terminal or
// --quiet/--json is set.
type NonInteractiveTUICallback struct {
	flags  core.NonInteractiveFlags
	out    io.Writer
	errOut io.Writer
}

var _ core.UICallback = (*NonInteractiveTUICallback)(nil)

// NewNonInteractiveTUICallback creates a callback writing to stdout and stderr.
func NewNonInteractiveTUICallback(flags core.NonInteractiveFlags) *NonInteractiveTUICallback {
	return &NonInteractiveTUICallback{flags: flags, out: os.Stdout, errOut: os.Stderr}
}

// ShowError displays an error message
func (n *NonInteractiveTUICallback) ShowError(title, message string) {
	switch n.flags.Mode {
	case core.OutputJSON:
		_ = n.FormatJSON(core.JSONOutput{
			Status: "error",
			Error:  &core.JSONError{Title: title, Message: message},
		})
	case core.OutputQuiet:
	default:
		fmt.Fprintf(n.errOut, "Error: %s - %s\n", title, message)
	}
}

// ShowSuccess displays a success message
func (n *NonInteractiveTUICallback) ShowSuccess(message string) {
	switch n.flags.Mode {
	case core.OutputJSON:
		_ = n.FormatJSON(core.JSONOutput{Status: "success", Message: message})
	case core.OutputQuiet:
	default:
		fmt.Fprintln(n.out, message)
	}
}

// ShowWarning displays a warning message
func (n *NonInteractiveTUICallback) ShowWarning(title, message string) {
	switch n.flags.Mode {
	case core.OutputJSON:
		_ = n.FormatJSON(core.JSONOutput{Status: "warning", Message: fmt.Sprintf("%s: %s", title, message)})
	case core.OutputQuiet:
	default:
		fmt.Fprintf(n.errOut, "Warning: %s - %s\n", title, message)
	}
}

// AskConfirmation approves only with --yes. Without it the prompt fails
// closed and the reason is reported.
func (n *NonInteractiveTUICallback) AskConfirmation(title, message string) bool {
	if n.flags.Yes {
		return true
	}
	n.ShowError("Interactive Prompt Required",
		fmt.Sprintf("%s: %s\nUse --yes to auto-approve", title, message))
	return false
}

// StyleTitle returns the title unstyled.
func (n *NonInteractiveTUICallback) StyleTitle(title string) string {
	return title
}

// ShowPhaseSummary prints the summary as text, or as a JSON document with
// the summary under data.summary in JSON mode.
func (n *NonInteractiveTUICallback) ShowPhaseSummary(sum types.PhaseSummary) {
	switch n.flags.Mode {
	case core.OutputJSON:
		status := "success"
		if !sum.Summary.Success {
			status = "warning"
		}
		_ = n.FormatJSON(core.JSONOutput{
			Status:  status,
			Message: fmt.Sprintf("%s phase complete", sum.Phase),
			Data:    map[string]interface{}{"summary": sum},
		})
	case core.OutputQuiet:
	default:
		fmt.Fprintln(n.out, RenderPhaseSummary(sum, false))
	}
}

// StartProgress returns a line-per-category tracker in normal mode and a
// no-op tracker otherwise.
func (n *NonInteractiveTUICallback) StartProgress(total int, label string) core.ProgressTracker {
	if n.flags.Mode != core.OutputNormal {
		return NewNoOpProgressTracker()
	}
	return NewTextProgressTracker(n.out, total, label)
}

// GetOutputMode returns the current output mode
func (n *NonInteractiveTUICallback) GetOutputMode() core.OutputMode {
	return n.flags.Mode
}

// IsAutoApprove returns whether auto-approve is enabled
func (n *NonInteractiveTUICallback) IsAutoApprove() bool {
	return n.flags.Yes
}

// FormatJSON writes output as indented JSON to stdout.
func (n *NonInteractiveTUICallback) FormatJSON(output core.JSONOutput) error {
	encoder := json.NewEncoder(n.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
