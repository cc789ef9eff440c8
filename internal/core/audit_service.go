package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/EmundoT/asset-optimizer/internal/types"
)

// Audit issue texts. Recommend matches on their lowercased content, so they
// are part of the artifact contract.
const (
	IssueCompression    = "Non-optimal compression format"
	IssueSizeFmt        = "Size exceeds preset limit (%d)"
	IssueSRGB           = "SRGB enabled on non-color texture"
	IssueMipmaps        = "Mipmaps disabled on non-UI texture"
	IssueLODGroup       = "Non-standard LOD group"
	IssueVirtualTexture = "Virtual texture enabled on UI/LUT texture"
	IssueStreaming      = "Streaming enabled on UI/LUT texture"
)

const savingsPerIssueMB = 2

var (
	blockCompressionFormats = []string{"BC1", "BC3", "BC4", "BC5", "BC7"}
	criticalIssueKeywords   = []string{"size", "memory", "format", "compression"}
)

// AuditServiceInterface defines the contract for the audit phase.
type AuditServiceInterface interface {
	// Audit evaluates preset rules against snapshots and returns one record
	// per asset with at least one issue, in input order.
	Audit(assets []types.AssetRecord, preset types.PresetConfig) []types.AuditRecord

	// Run lists and snapshots the category's assets, audits them and writes
	// the audit artifact. It never returns an error; failures are counted.
	Run(ctx context.Context, req PhaseRequest) types.CategoryResult
}

// Compile-time interface satisfaction check for AuditService.
var _ AuditServiceInterface = (*AuditService)(nil)

// AuditService implements the audit phase for textures.
type AuditService struct {
	store     ArtifactStore
	inspector AssetInspector
	logger    *slog.Logger
}

// NewAuditService creates an AuditService.
func NewAuditService(store ArtifactStore, inspector AssetInspector, logger *slog.Logger) *AuditService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditService{store: store, inspector: inspector, logger: logger}
}

// Audit implements AuditServiceInterface.
func (s *AuditService) Audit(assets []types.AssetRecord, preset types.PresetConfig) []types.AuditRecord {
	records := make([]types.AuditRecord, 0)
	for _, asset := range assets {
		issues := TextureIssues(asset, preset.Textures)
		if len(issues) == 0 {
			continue
		}
		records = append(records, types.AuditRecord{
			Asset:            asset,
			Issues:           issues,
			Priority:         IssuePriority(issues),
			EstimatedSavings: types.MemorySavings(len(issues) * savingsPerIssueMB),
		})
	}
	return records
}

// Run implements AuditServiceInterface.
func (s *AuditService) Run(ctx context.Context, req PhaseRequest) types.CategoryResult {
	if req.Category != types.CategoryTextures {
		return placeholderResult(types.PhaseAudit, req.Category)
	}
	result := types.CategoryResult{Phase: types.PhaseAudit, Category: req.Category, Success: true}

	filter := CandidateFilter{
		Category:      req.Category,
		IncludePaths:  req.Config.IncludePaths,
		ExcludePaths:  req.Config.ExcludePaths,
		SelectionOnly: req.Config.UseSelection,
	}
	paths, err := s.inspector.ListCandidates(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list candidates", slog.String("category", string(req.Category)), slog.String("error", err.Error()))
		result.Success = false
		result.Errors++
		result.Message = fmt.Sprintf("list candidates: %v", err)
		return result
	}
	result.Scanned = len(paths)

	assets := make([]types.AssetRecord, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			result.Success = false
			result.Message = err.Error()
			return result
		}
		asset, err := s.inspector.Snapshot(ctx, p)
		if err != nil {
			merr := &MutationError{AssetPath: p, Op: "snapshot", Err: err}
			s.logger.Warn("snapshot failed", slog.String("asset", p), slog.String("error", merr.Error()))
			result.Errors++
			continue
		}
		if asset.AssetPath == "" {
			asset.AssetPath = p
		}
		if asset.AssetName == "" {
			asset.AssetName = assetNameFromPath(p)
		}
		assets = append(assets, asset)
	}

	records := s.Audit(assets, req.Preset)
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, AuditRecordToRow(r))
	}

	path := req.artifact(types.PhaseAudit)
	result.Artifact = path
	if !s.store.Write(path, AuditFields, rows) {
		storageFailure(&result, path)
	}

	issueCounts := map[string]int{}
	for _, r := range records {
		for _, issue := range r.Issues {
			issueCounts[issue]++
		}
	}
	result.Audit = &types.AuditStats{
		AssetsWithIssues: len(records),
		PriorityCounts:   levelCounts(records, func(r types.AuditRecord) types.Level { return r.Priority }),
		IssueCounts:      issueCounts,
		TotalSavings:     sumSavings(records, func(r types.AuditRecord) types.MemorySavings { return r.EstimatedSavings }).String(),
	}

	s.logger.Info("audit complete",
		slog.String("category", string(req.Category)), slog.Int("scanned", result.Scanned),
		slog.Int("with_issues", len(records)), slog.Int("errors", result.Errors))
	return result
}

// TextureIssues runs every texture rule against one snapshot. Rules are
// independent and their issues are returned in rule order.
func TextureIssues(a types.AssetRecord, rules types.TextureRules) []string {
	var issues []string
	group := textureGroup(a.LODGroup)

	if !compressionOptimal(a.Compression, group, rules) {
		issues = append(issues, IssueCompression)
	}
	if ceiling := sizeCeiling(group, rules); ceiling > 0 && max(a.Width, a.Height) > ceiling {
		issues = append(issues, fmt.Sprintf(IssueSizeFmt, ceiling))
	}
	if a.SRGB && isNonColorGroup(group) {
		issues = append(issues, IssueSRGB)
	}
	if !a.Mipmaps && !isUIOrLUTGroup(group) {
		issues = append(issues, IssueMipmaps)
	}
	if group == "" {
		issues = append(issues, IssueLODGroup)
	}
	if a.VirtualTexture && isUIOrLUTGroup(group) {
		issues = append(issues, IssueVirtualTexture)
	}
	if a.Streaming && isUIOrLUTGroup(group) {
		issues = append(issues, IssueStreaming)
	}
	return issues
}

// IssuePriority escalates any size, memory, format or compression issue to
// High, more than two other issues to Medium, and anything else to Low.
func IssuePriority(issues []string) types.Level {
	if len(issues) == 0 {
		return types.LevelNone
	}
	for _, issue := range issues {
		if containsAny(strings.ToLower(issue), criticalIssueKeywords...) {
			return types.LevelHigh
		}
	}
	if len(issues) > 2 {
		return types.LevelMedium
	}
	return types.LevelLow
}

// sizeCeiling selects the ceiling for a group: normal maps and LUT/mask
// textures have their own limits, everything else uses the color limit.
func sizeCeiling(group string, rules types.TextureRules) int {
	switch group {
	case GroupNormal:
		return rules.MaxSizeNormal
	case GroupLUT:
		return rules.MaxSizeMask
	default:
		return rules.MaxSizeColor
	}
}

// targetCompression is the preferred format for a group.
func targetCompression(group string, rules types.TextureRules) string {
	switch group {
	case GroupNormal:
		return rules.CompressionNormal
	case GroupLUT:
		return rules.CompressionMask
	default:
		return rules.CompressionColor
	}
}

// compressionOptimal requires the exact preset format for normal and LUT
// textures and any block-compressed format otherwise.
func compressionOptimal(compression, group string, rules types.TextureRules) bool {
	compression = strings.TrimSpace(compression)
	if isNonColorGroup(group) {
		return strings.EqualFold(compression, targetCompression(group, rules))
	}
	for _, f := range blockCompressionFormats {
		if strings.EqualFold(compression, f) {
			return true
		}
	}
	return false
}
