package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/EmundoT/asset-optimizer/internal/types"
)

// RecommendServiceInterface defines the contract for the recommend phase.
type RecommendServiceInterface interface {
	// Recommend maps audit issues to concrete changes. Records that map to no
	// change are dropped. Output order follows input order.
	Recommend(records []types.AuditRecord, preset types.PresetConfig) []types.RecommendationRecord

	// Run reads the audit artifact, recommends and writes the recommendations
	// artifact. A missing audit artifact yields an empty result.
	Run(ctx context.Context, req PhaseRequest) types.CategoryResult
}

// Compile-time interface satisfaction check for RecommendService.
var _ RecommendServiceInterface = (*RecommendService)(nil)

// RecommendService implements the recommend phase for textures.
type RecommendService struct {
	store  ArtifactStore
	logger *slog.Logger
}

// NewRecommendService creates a RecommendService.
func NewRecommendService(store ArtifactStore, logger *slog.Logger) *RecommendService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecommendService{store: store, logger: logger}
}

// proposal is the output of one issue mapping.
type proposal struct {
	recommendation string
	change         string
	savings        types.MemorySavings
}

// issueMapping pairs an issue match with the function proposing its change.
// propose returns ok=false to decline.
type issueMapping struct {
	match   string
	propose func(a types.AssetRecord, rules types.TextureRules) (proposal, bool)
}

// issueMappings is checked in order; the first match handles the issue.
var issueMappings = []issueMapping{
	{"size exceeds", proposeSize},
	{"non-optimal compression", proposeCompression},
	{"srgb enabled on non-color", proposeSRGB},
	{"mipmaps disabled", proposeMipmaps},
	{"non-standard lod group", proposeLODGroup},
	{"virtual texture enabled", proposeVirtualTexture},
	{"streaming enabled", proposeStreaming},
}

// Recommend implements RecommendServiceInterface.
func (s *RecommendService) Recommend(records []types.AuditRecord, preset types.PresetConfig) []types.RecommendationRecord {
	out := make([]types.RecommendationRecord, 0, len(records))
	for _, r := range records {
		rec, ok := RecommendOne(r, preset.Textures)
		if !ok {
			s.logger.Debug("no applicable changes", slog.String("asset", r.Asset.AssetPath))
			continue
		}
		out = append(out, rec)
	}
	return out
}

// RecommendOne maps one audit record. ok is false when every mapping declined.
func RecommendOne(r types.AuditRecord, rules types.TextureRules) (types.RecommendationRecord, bool) {
	rec := types.RecommendationRecord{Asset: r.Asset, Priority: r.Priority}
	if rec.Priority == types.LevelNone {
		rec.Priority = types.LevelLow
	}
	for _, issue := range r.Issues {
		lower := strings.ToLower(issue)
		for _, m := range issueMappings {
			if !strings.Contains(lower, m.match) {
				continue
			}
			if p, ok := m.propose(r.Asset, rules); ok {
				rec.Recommendations = append(rec.Recommendations, p.recommendation)
				rec.Changes = append(rec.Changes, p.change)
				rec.EstimatedSavings += p.savings
			}
			break
		}
	}
	if len(rec.Changes) == 0 {
		return types.RecommendationRecord{}, false
	}
	rec.RiskLevel = RecordRisk(rec.Changes)
	rec.ApplySafety = RecordApplySafety(rec.Changes)
	return rec, true
}

// Run implements RecommendServiceInterface.
func (s *RecommendService) Run(ctx context.Context, req PhaseRequest) types.CategoryResult {
	if req.Category != types.CategoryTextures {
		return placeholderResult(types.PhaseRecommend, req.Category)
	}
	result := types.CategoryResult{Phase: types.PhaseRecommend, Category: req.Category, Success: true}

	input := s.store.Read(req.artifact(types.PhaseAudit))
	audits := make([]types.AuditRecord, 0, len(input))
	for _, row := range input {
		a := AuditRecordFromRow(row)
		if a.Asset.AssetPath == "" {
			s.logger.Warn("audit row without asset_path ignored", slog.String("category", string(req.Category)))
			continue
		}
		audits = append(audits, a)
	}
	result.Scanned = len(audits)

	recs := s.Recommend(audits, req.Preset)
	result.Skipped = len(audits) - len(recs)

	rows := make([]Row, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, RecommendationRecordToRow(r))
	}
	path := req.artifact(types.PhaseRecommend)
	result.Artifact = path
	if !s.store.Write(path, RecommendationFields, rows) {
		storageFailure(&result, path)
	}

	result.Recommend = &types.RecommendStats{
		TotalRecommendations: len(recs),
		RiskCounts:           levelCounts(recs, func(r types.RecommendationRecord) types.Level { return r.RiskLevel }),
		PriorityCounts:       levelCounts(recs, func(r types.RecommendationRecord) types.Level { return r.Priority }),
		TotalSavings:         sumSavings(recs, func(r types.RecommendationRecord) types.MemorySavings { return r.EstimatedSavings }).String(),
	}

	s.logger.Info("recommend complete",
		slog.String("category", string(req.Category)), slog.Int("audited", len(audits)), slog.Int("recommendations", len(recs)))
	return result
}

func proposeSize(a types.AssetRecord, rules types.TextureRules) (proposal, bool) {
	ceiling := sizeCeiling(textureGroup(a.LODGroup), rules)
	if a.Width <= 0 || a.Height <= 0 || ceiling <= 0 {
		return proposal{}, false
	}
	if a.Width <= ceiling && a.Height <= ceiling {
		return proposal{}, false
	}
	nw, nh := min(a.Width, ceiling), min(a.Height, ceiling)
	current := a.SizeString()
	target := fmt.Sprintf("%dx%d", nw, nh)
	return proposal{
		recommendation: fmt.Sprintf("Reduce size from %s to %s", current, target),
		change:         FormatChange(ChangeSize.Field(), current, target),
		savings:        types.MemorySavings((a.Width*a.Height - nw*nh) * 4 / (1024 * 1024)),
	}, true
}

func proposeCompression(a types.AssetRecord, rules types.TextureRules) (proposal, bool) {
	target := targetCompression(textureGroup(a.LODGroup), rules)
	if target == "" || strings.EqualFold(strings.TrimSpace(a.Compression), target) {
		return proposal{}, false
	}
	return proposal{
		recommendation: fmt.Sprintf("Change compression from %s to %s", a.Compression, target),
		change:         FormatChange(ChangeCompression.Field(), a.Compression, target),
		savings:        2,
	}, true
}

func proposeSRGB(a types.AssetRecord, _ types.TextureRules) (proposal, bool) {
	if !isNonColorGroup(textureGroup(a.LODGroup)) {
		return proposal{}, false
	}
	return proposal{
		recommendation: "Disable SRGB for non-color texture",
		change:         FormatChange(ChangeSRGB.Field(), ValueEnabled, ValueDisabled),
		savings:        1,
	}, true
}

func proposeMipmaps(a types.AssetRecord, _ types.TextureRules) (proposal, bool) {
	if isUIOrLUTGroup(textureGroup(a.LODGroup)) {
		return proposal{}, false
	}
	return proposal{
		recommendation: "Enable mipmaps for better performance",
		change:         FormatChange(ChangeMipmaps.Field(), ValueDisabled, ValueEnabled),
		savings:        1,
	}, true
}

// proposeLODGroup infers the group from the asset name.
func proposeLODGroup(a types.AssetRecord, _ types.TextureRules) (proposal, bool) {
	name := strings.ToLower(a.AssetName)
	target := GroupWorld
	switch {
	case strings.Contains(name, "normal"):
		target = GroupNormal
	case strings.Contains(name, "lut"):
		target = GroupLUT
	case strings.Contains(name, "ui"):
		target = GroupUI
	}
	if strings.TrimSpace(a.LODGroup) == target {
		return proposal{}, false
	}
	return proposal{
		recommendation: fmt.Sprintf("Change LOD group from %s to %s", a.LODGroup, target),
		change:         FormatChange(ChangeLODGroup.Field(), a.LODGroup, target),
		savings:        1,
	}, true
}

func proposeVirtualTexture(a types.AssetRecord, _ types.TextureRules) (proposal, bool) {
	if !isUIOrLUTGroup(textureGroup(a.LODGroup)) {
		return proposal{}, false
	}
	return proposal{
		recommendation: "Disable virtual texture for UI/LUT textures",
		change:         FormatChange(ChangeVirtualTexture.Field(), ValueEnabled, ValueDisabled),
		savings:        1,
	}, true
}

func proposeStreaming(a types.AssetRecord, _ types.TextureRules) (proposal, bool) {
	if !isUIOrLUTGroup(textureGroup(a.LODGroup)) {
		return proposal{}, false
	}
	return proposal{
		recommendation: "Disable streaming for UI/LUT textures",
		change:         FormatChange(ChangeStreaming.Field(), ValueEnabled, ValueDisabled),
		savings:        1,
	}, true
}
