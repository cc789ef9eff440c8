package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

// =============================================================================
// Structured Error Tests
// =============================================================================

func TestValidationError_Format(t *testing.T) {
	tests := []struct {
		name string
		err  *ValidationError
		want string
	}{
		{
			name: "with row",
			err:  &ValidationError{Artifact: "textures_audit.csv", Row: 4, Field: "issues", Reason: "empty"},
			want: `textures_audit.csv row 4: field "issues": empty`,
		},
		{
			name: "without row",
			err:  &ValidationError{Artifact: "assets.csv", Field: "asset_path", Reason: "missing column"},
			want: `assets.csv: field "asset_path": missing column`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMutationError_Unwrap(t *testing.T) {
	cause := errors.New("permission denied")
	err := fmt.Errorf("record 3: %w", &MutationError{AssetPath: "/Game/T_A", Op: "backup", Err: cause})

	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the wrapped cause")
	}
	if !IsMutationFailure(err) {
		t.Error("IsMutationFailure should match a wrapped *MutationError")
	}
	if !strings.Contains(err.Error(), "backup /Game/T_A: permission denied") {
		t.Errorf("message = %q", err.Error())
	}
}

func TestConfigurationError_Format(t *testing.T) {
	cause := errors.New("max_changes must be positive")
	tests := []struct {
		name string
		err  *ConfigurationError
		want string
	}{
		{"source and profile", &ConfigurationError{Source: "presets.yml", Profile: "Broken", Err: cause}, "configuration presets.yml (profile Broken): max_changes must be positive"},
		{"source only", &ConfigurationError{Source: "asset-optimizer.yml", Err: cause}, "configuration asset-optimizer.yml: max_changes must be positive"},
		{"profile only", &ConfigurationError{Profile: "Broken", Err: cause}, "profile Broken: max_changes must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
			if !errors.Is(tt.err, cause) || !IsConfigurationError(tt.err) {
				t.Error("configuration error should unwrap to its cause")
			}
		})
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(fmt.Errorf("load summary: %w", ErrArtifactNotFound)) {
		t.Error("wrapped ErrArtifactNotFound should be not found")
	}
	if IsNotFound(errors.New("artifact not found")) {
		t.Error("a different error with the same text is not the sentinel")
	}
}

// =============================================================================
// CLI Response Tests
// =============================================================================

func TestCLIExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		kind string
	}{
		{"nil", nil, ExitSuccess, ErrCodeInternalError},
		{"configuration", &ConfigurationError{Source: "x.yml", Err: errors.New("bad")}, ExitConfigError, ErrCodeConfigError},
		{"validation", &ValidationError{Artifact: "a.csv", Field: "f", Reason: "r"}, ExitValidationFailed, ErrCodeValidationFailed},
		{"summary invalid", fmt.Errorf("write: %w", ErrSummaryInvalid), ExitValidationFailed, ErrCodeValidationFailed},
		{"not found", fmt.Errorf("load: %w", ErrArtifactNotFound), ExitGeneralError, ErrCodeArtifactNotFound},
		{"not confirmed", ErrApplyNotConfirmed, ExitGeneralError, ErrCodeNotConfirmed},
		{"other", errors.New("disk full"), ExitGeneralError, ErrCodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CLIExitCodeForError(tt.err); got != tt.code {
				t.Errorf("CLIExitCodeForError() = %d, want %d", got, tt.code)
			}
			if tt.err == nil {
				return
			}
			if got := CLIErrorCodeForError(tt.err); got != tt.kind {
				t.Errorf("CLIErrorCodeForError() = %q, want %q", got, tt.kind)
			}
		})
	}
}

func TestEmitCLISuccess(t *testing.T) {
	var buf bytes.Buffer
	EmitCLISuccess(&buf, map[string]int{"presets": 9})

	var resp struct {
		Success bool           `json:"success"`
		Data    map[string]int `json:"data"`
		Error   *CLIErrorDetail
	}
	if err := json.Unmarshal(buf.Bytes(), &resp); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if !resp.Success || resp.Data["presets"] != 9 || resp.Error != nil {
		t.Errorf("response = %+v", resp)
	}
	if strings.Contains(buf.String(), `"error"`) {
		t.Error("success response should omit error")
	}
}

func TestEmitCLIError(t *testing.T) {
	var buf bytes.Buffer
	code := EmitCLIError(&buf, ErrCodePresetNotFound, fmt.Sprintf(ErrPresetNotFoundMsg, "Switch"), ExitInvalidArguments)

	if code != ExitInvalidArguments {
		t.Errorf("returned %d, want %d", code, ExitInvalidArguments)
	}
	var resp CLIResponse
	if err := json.Unmarshal(buf.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Success || resp.Error == nil || resp.Error.Code != ErrCodePresetNotFound || resp.Error.Message != "preset 'Switch' not found" {
		t.Errorf("response = %+v", resp)
	}
	if strings.Contains(buf.String(), `"data"`) {
		t.Error("error response should omit data")
	}
}

// =============================================================================
// Logging Tests
// =============================================================================

func TestLogLevel(t *testing.T) {
	tests := []struct {
		name        string
		flags       NonInteractiveFlags
		interactive bool
		want        slog.Level
	}{
		{"verbose wins", NonInteractiveFlags{Verbose: true, Mode: OutputQuiet}, true, slog.LevelDebug},
		{"quiet", NonInteractiveFlags{Mode: OutputQuiet}, false, slog.LevelError},
		{"interactive", NonInteractiveFlags{Mode: OutputNormal}, true, slog.LevelWarn},
		{"non-interactive", NonInteractiveFlags{Mode: OutputNormal}, false, slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LogLevel(tt.flags, tt.interactive); got != tt.want {
				t.Errorf("LogLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo, true)
	logger.Debug("hidden")
	logger.Info("phase complete", slog.String("phase", "audit"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1:\n%s", len(lines), buf.String())
	}
	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatal(err)
	}
	if entry["msg"] != "phase complete" || entry["phase"] != "audit" {
		t.Errorf("entry = %v", entry)
	}
}
