package core

// OutputMode controls how output is displayed
type OutputMode int

// OutputMode constants define available output formatting modes.
const (
	OutputNormal OutputMode = iota // Default: styled output
	OutputQuiet                    // Minimal output
	OutputJSON                     // Structured JSON on stdout, logs on stderr
)

func (m OutputMode) String() string {
	switch m {
	case OutputQuiet:
		return "quiet"
	case OutputJSON:
		return "json"
	default:
		return "normal"
	}
}

// NonInteractiveFlags groups all non-interactive options
type NonInteractiveFlags struct {
	Yes     bool       // Auto-approve prompts (non-dry-run apply)
	Mode    OutputMode // Output formatting mode
	Verbose bool       // Debug logging
}

// JSONOutput represents structured output
type JSONOutput struct {
	Status  string                 `json:"status"`            // "success", "error", "warning"
	Message string                 `json:"message,omitempty"` // Optional message
	Data    map[string]interface{} `json:"data,omitempty"`    // Command-specific data
	Error   *JSONError             `json:"error,omitempty"`   // Error details
}

// JSONError represents error information in JSON output
type JSONError struct {
	Title   string `json:"title"`   // Error title
	Message string `json:"message"` // Error message
}
