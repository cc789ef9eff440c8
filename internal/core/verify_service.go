package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/EmundoT/asset-optimizer/internal/types"
)

// StatusUnknownChange is the check status for an unrecognised change kind.
const StatusUnknownChange = "Unknown change type"

// VerifyServiceInterface defines the contract for the verify phase.
// ctx is passed through to the inspector.
type VerifyServiceInterface interface {
	// Verify checks successful apply records against current asset state.
	// Unsuccessful records are ignored.
	Verify(ctx context.Context, records []types.ApplyRecord, rules types.TextureRules) []types.VerifyRecord

	// Run reads the apply artifact, verifies it and writes the verify artifact.
	Run(ctx context.Context, req PhaseRequest) types.CategoryResult
}

// Compile-time interface satisfaction check.
var _ VerifyServiceInterface = (*VerifyService)(nil)

// VerifyService re-derives the expected post-state of each applied change and
// compares it with an inspector snapshot.
type VerifyService struct {
	store     ArtifactStore
	inspector AssetInspector
	logger    *slog.Logger
}

// NewVerifyService creates a new VerifyService
func NewVerifyService(store ArtifactStore, inspector AssetInspector, logger *slog.Logger) *VerifyService {
	if logger == nil {
		logger = slog.Default()
	}
	return &VerifyService{store: store, inspector: inspector, logger: logger}
}

// Verify implements VerifyServiceInterface.
func (s *VerifyService) Verify(ctx context.Context, records []types.ApplyRecord, rules types.TextureRules) []types.VerifyRecord {
	out := make([]types.VerifyRecord, 0, len(records))
	for _, r := range records {
		if !r.Success {
			continue
		}
		if err := ctx.Err(); err != nil {
			s.logger.Warn("verify cancelled", slog.String("error", err.Error()))
			break
		}

		state, err := s.inspector.Snapshot(ctx, r.AssetPath)
		if err != nil {
			// Checks run against an empty snapshot and fail with the zero value.
			s.logger.Warn("snapshot failed", slog.String("asset", r.AssetPath), slog.String("error", err.Error()))
			state = types.AssetRecord{AssetPath: r.AssetPath}
		}

		v := types.VerifyRecord{
			AssetPath:        r.AssetPath,
			AssetName:        r.AssetName,
			ChangesApplied:   r.ChangesApplied,
			EstimatedSavings: r.EstimatedSavings,
			DryRun:           r.DryRun,
		}
		for _, change := range r.ChangesApplied {
			if IsDryRunChange(change) {
				continue
			}
			check := CheckChange(change, state)
			v.Checks = append(v.Checks, check)
			if check.Passed {
				v.PassedChecks++
			}
		}
		v.TotalChecks = len(v.Checks)
		v.Status = types.VerificationFailed
		if v.TotalChecks > 0 && v.PassedChecks == v.TotalChecks {
			v.Status = types.VerificationPassed
		}
		v.ConsistencyWarnings = ConsistencyWarnings(state, rules)
		out = append(out, v)
	}
	return out
}

// CheckChange compares the new side of one descriptor with state.
func CheckChange(change string, state types.AssetRecord) types.ChangeCheck {
	check := types.ChangeCheck{Change: change}
	desc, ok := ParseChangeDescriptor(change)
	kind := ClassifyChange(change)
	if kind == ChangeUnknown {
		check.Status = StatusUnknownChange
		return check
	}
	if !ok {
		check.Status = fmt.Sprintf("Invalid %s change format", kind.Field())
		return check
	}

	target := desc.New
	var actual string
	switch kind {
	case ChangeSize:
		actual = state.SizeString()
		check.Passed = strings.EqualFold(actual, target)
	case ChangeCompression:
		actual = state.Compression
		check.Passed = strings.EqualFold(actual, target)
	case ChangeLODGroup:
		actual = state.LODGroup
		check.Passed = strings.EqualFold(actual, target)
	default:
		flag := assetFlag(kind, state)
		actual = BoolValue(flag)
		check.Passed = flag == strings.EqualFold(target, ValueEnabled)
	}

	if check.Passed {
		check.Status = fmt.Sprintf("%s correctly set to %s", kind.Field(), target)
	} else {
		check.Status = fmt.Sprintf("Expected %s, got %s", target, actual)
	}
	return check
}

func assetFlag(kind ChangeKind, a types.AssetRecord) bool {
	switch kind {
	case ChangeSRGB:
		return a.SRGB
	case ChangeMipmaps:
		return a.Mipmaps
	case ChangeVirtualTexture:
		return a.VirtualTexture
	case ChangeStreaming:
		return a.Streaming
	}
	return false
}

// ConsistencyWarnings runs fixed per-group property heuristics that are
// independent of what was requested.
func ConsistencyWarnings(a types.AssetRecord, rules types.TextureRules) []string {
	var warnings []string
	compression := strings.TrimSpace(a.Compression)
	switch textureGroup(a.LODGroup) {
	case GroupNormal:
		if a.SRGB {
			warnings = append(warnings, "SRGB should be Disabled for Normal maps")
		}
		if target := rules.CompressionNormal; !strings.EqualFold(compression, target) {
			warnings = append(warnings, fmt.Sprintf("Compression should be %s for Normal maps", target))
		}
	case GroupLUT:
		if a.SRGB {
			warnings = append(warnings, "SRGB should be Disabled for LUT/Mask textures")
		}
		if target := rules.CompressionMask; !strings.EqualFold(compression, target) {
			warnings = append(warnings, fmt.Sprintf("Compression should be %s for LUT/Mask textures", target))
		}
	case GroupUI:
		if a.Streaming {
			warnings = append(warnings, "Streaming should be Disabled for UI textures")
		}
		if a.VirtualTexture {
			warnings = append(warnings, "Virtual Texture should be Disabled for UI textures")
		}
	}
	return warnings
}

// Run implements VerifyServiceInterface.
func (s *VerifyService) Run(ctx context.Context, req PhaseRequest) types.CategoryResult {
	if req.Category != types.CategoryTextures {
		return placeholderResult(types.PhaseVerify, req.Category)
	}
	result := types.CategoryResult{Phase: types.PhaseVerify, Category: req.Category, Success: true}

	input := s.store.Read(req.artifact(types.PhaseApply))
	applied := make([]types.ApplyRecord, 0, len(input))
	for _, row := range input {
		r := ApplyRecordFromRow(row)
		if r.Success && r.AssetPath != "" {
			applied = append(applied, r)
		}
	}
	result.Scanned = len(applied)

	verified := s.Verify(ctx, applied, req.Preset.Textures)

	stats := &types.VerifyStats{Verified: len(verified)}
	rows := make([]Row, 0, len(verified))
	for _, v := range verified {
		rows = append(rows, VerifyRecordToRow(v))
		stats.ConsistencyWarnings += len(v.ConsistencyWarnings)
		switch {
		case !v.Counted():
			stats.Unverified++
		case v.Status == types.VerificationPassed:
			stats.Passed++
		default:
			stats.Failed++
		}
	}
	result.Errors = stats.Failed
	result.Verify = stats

	path := req.artifact(types.PhaseVerify)
	result.Artifact = path
	if !s.store.Write(path, VerifyFields, rows) {
		storageFailure(&result, path)
	}

	s.logger.Info("verify complete",
		slog.String("category", string(req.Category)), slog.Int("passed", stats.Passed),
		slog.Int("failed", stats.Failed), slog.Int("unverified", stats.Unverified),
		slog.Int("warnings", stats.ConsistencyWarnings))
	return result
}
