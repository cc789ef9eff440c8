package core

import (
	"strings"

	"github.com/EmundoT/asset-optimizer/internal/types"
)

// PhaseRequest is everything one phase needs to process one category.
type PhaseRequest struct {
	Category  types.Category
	Preset    types.PresetConfig
	Config    types.RunConfig
	OutputDir string
}

// artifact returns the request's artifact path for phase.
func (r PhaseRequest) artifact(phase types.Phase) string {
	return ArtifactPath(r.OutputDir, r.Category, phase)
}

// OutcomeKind classifies the result of processing one record.
type OutcomeKind string

// Record outcomes.
const (
	OutcomeSuccess OutcomeKind = "success"
	OutcomeSkip    OutcomeKind = "skip"
	OutcomeError   OutcomeKind = "error"
)

// RecordOutcome is the per-record result of the apply phase: success, a skip
// with a reason, or an error carrying the failure.
type RecordOutcome struct {
	Kind   OutcomeKind
	Reason string
	Err    error
}

func success() RecordOutcome { return RecordOutcome{Kind: OutcomeSuccess} }

func skip(reason string) RecordOutcome { return RecordOutcome{Kind: OutcomeSkip, Reason: reason} }

func failure(reason string, err error) RecordOutcome {
	return RecordOutcome{Kind: OutcomeError, Reason: reason, Err: err}
}

// Texture classification groups, from the LOD group property.
const (
	GroupUI     = "UI"
	GroupNormal = "Normal"
	GroupLUT    = "LUT"
	GroupWorld  = "World"
)

var standardGroups = []string{GroupUI, GroupNormal, GroupLUT, GroupWorld}

// textureGroup returns the canonical group for lodGroup, or "" when it is not
// one of the standard groups.
func textureGroup(lodGroup string) string {
	lodGroup = strings.TrimSpace(lodGroup)
	for _, g := range standardGroups {
		if strings.EqualFold(lodGroup, g) {
			return g
		}
	}
	return ""
}

func isNonColorGroup(group string) bool { return group == GroupNormal || group == GroupLUT }

func isUIOrLUTGroup(group string) bool { return group == GroupUI || group == GroupLUT }

// levelCounts tallies levels by name, omitting None.
func levelCounts[T any](records []T, level func(T) types.Level) map[string]int {
	counts := map[string]int{}
	for _, r := range records {
		l := level(r)
		if l == "" || l == types.LevelNone {
			continue
		}
		counts[string(l)]++
	}
	return counts
}

func sumSavings[T any](records []T, savings func(T) types.MemorySavings) types.MemorySavings {
	var total types.MemorySavings
	for _, r := range records {
		total += savings(r)
	}
	return total
}

// placeholderResult is returned for categories without rules.
func placeholderResult(phase types.Phase, category types.Category) types.CategoryResult {
	kind := strings.TrimSuffix(string(category), "s")
	if category == types.CategoryMeshes {
		kind = "Mesh"
	}
	return types.CategoryResult{
		Phase:    phase,
		Category: category,
		Success:  true,
		Message:  kind + " optimization not yet implemented",
	}
}

// storageFailure marks a result whose artifact could not be written.
func storageFailure(result *types.CategoryResult, path string) {
	result.Success = false
	result.StorageError = "failed to write " + path
}
