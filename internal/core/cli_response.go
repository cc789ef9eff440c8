package core

import (
	"encoding/json"
	"errors"
	"io"
)

// CLIResponse is the structured JSON output of the query commands
// (presets, preset show, history, summary).
//
// Schema:
//
//	{
//	  "success": true|false,
//	  "data": { ... },          // Command-specific payload (omitted on error)
//	  "error": {                 // Present only on failure
//	    "code": "PRESET_NOT_FOUND",
//	    "message": "Human-readable description"
//	  }
//	}
type CLIResponse struct {
	Success bool            `json:"success"`
	Data    interface{}     `json:"data,omitempty"`
	Error   *CLIErrorDetail `json:"error,omitempty"`
}

// CLIErrorDetail contains machine-readable error code and human-readable message.
type CLIErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CLI exit codes.
const (
	ExitSuccess          = 0
	ExitGeneralError     = 1
	ExitInvalidArguments = 2
	ExitValidationFailed = 3
	ExitConfigError      = 4
	// ExitPhaseFailed means the run completed but at least one category failed.
	ExitPhaseFailed = 5
)

// CLI error codes for structured JSON error responses.
const (
	ErrCodePresetNotFound   = "PRESET_NOT_FOUND"
	ErrCodeArtifactNotFound = "ARTIFACT_NOT_FOUND"
	ErrCodeInvalidArguments = "INVALID_ARGUMENTS"
	ErrCodeConfigError      = "CONFIG_ERROR"
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeNotConfirmed     = "NOT_CONFIRMED"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// EmitCLISuccess writes a successful CLIResponse as indented JSON to w.
func EmitCLISuccess(w io.Writer, data interface{}) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(CLIResponse{Success: true, Data: data}) //nolint:errcheck
}

// EmitCLIError writes an error CLIResponse to w and returns exitCode for the
// caller to pass to os.Exit.
func EmitCLIError(w io.Writer, code string, message string, exitCode int) int {
	resp := CLIResponse{
		Success: false,
		Error:   &CLIErrorDetail{Code: code, Message: message},
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(resp) //nolint:errcheck
	return exitCode
}

// CLIExitCodeForError maps structured error types to CLI exit codes.
func CLIExitCodeForError(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case IsConfigurationError(err):
		return ExitConfigError
	case IsValidationError(err), errors.Is(err, ErrSummaryInvalid):
		return ExitValidationFailed
	default:
		return ExitGeneralError
	}
}

// CLIErrorCodeForError maps structured error types to CLI error code strings.
func CLIErrorCodeForError(err error) string {
	switch {
	case IsConfigurationError(err):
		return ErrCodeConfigError
	case IsValidationError(err), errors.Is(err, ErrSummaryInvalid):
		return ErrCodeValidationFailed
	case IsNotFound(err):
		return ErrCodeArtifactNotFound
	case errors.Is(err, ErrApplyNotConfirmed):
		return ErrCodeNotConfirmed
	default:
		return ErrCodeInternalError
	}
}
