package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions.
// These can be used with errors.Is() for error type checking.
var (
	// ErrArtifactNotFound indicates a prerequisite artifact is missing.
	// Phases treat it as "nothing to do".
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrUnknownCategory indicates a category name outside the supported set
	ErrUnknownCategory = errors.New("unknown category")

	// ErrApplyNotConfirmed indicates the user declined a non-dry-run apply
	ErrApplyNotConfirmed = errors.New("apply not confirmed. Re-run with --yes or --dry-run")

	// ErrSummaryInvalid indicates a summary document failed schema validation
	ErrSummaryInvalid = errors.New("summary failed schema validation")
)

// Error message templates for formatted errors.
const (
	// ErrPresetNotFoundMsg is the message for unknown preset names
	ErrPresetNotFoundMsg = "preset '%s' not found"
)

// ValidationError reports a structurally malformed artifact row or field.
// The offending value is defaulted and the batch continues.
type ValidationError struct {
	Artifact string
	Row      int
	Field    string
	Reason   string
}

func (e *ValidationError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("%s row %d: field %q: %s", e.Artifact, e.Row, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: field %q: %s", e.Artifact, e.Field, e.Reason)
}

// MutationError wraps a failed call to an external inspector or mutator.
// It is confined to the record of the asset it names.
type MutationError struct {
	AssetPath string
	Op        string
	Err       error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.AssetPath, e.Err)
}

func (e *MutationError) Unwrap() error {
	return e.Err
}

// ConfigurationError reports an invalid preset, profile or override source.
// Callers fall back to defaults and log it as a warning.
type ConfigurationError struct {
	Profile string
	Source  string
	Err     error
}

func (e *ConfigurationError) Error() string {
	switch {
	case e.Source != "" && e.Profile != "":
		return fmt.Sprintf("configuration %s (profile %s): %v", e.Source, e.Profile, e.Err)
	case e.Source != "":
		return fmt.Sprintf("configuration %s: %v", e.Source, e.Err)
	default:
		return fmt.Sprintf("profile %s: %v", e.Profile, e.Err)
	}
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err indicates a missing artifact.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrArtifactNotFound)
}

// IsValidationError reports whether err is or wraps a *ValidationError.
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsMutationFailure reports whether err is or wraps a *MutationError.
func IsMutationFailure(err error) bool {
	var target *MutationError
	return errors.As(err, &target)
}

// IsConfigurationError reports whether err is or wraps a *ConfigurationError.
func IsConfigurationError(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}
