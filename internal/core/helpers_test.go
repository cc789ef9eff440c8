package core

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/EmundoT/asset-optimizer/internal/types"
)

// ============================================================================
// Shared Test Helpers
// ============================================================================

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func balancedPreset(t *testing.T) types.PresetConfig {
	t.Helper()
	p, ok := NewPresetResolver(discardLogger()).Lookup(DefaultPresetName)
	if !ok {
		t.Fatalf("built-in preset %s missing", DefaultPresetName)
	}
	return p
}

// writeManifest writes a manifest CSV under dir and returns its path.
func writeManifest(t *testing.T, dir string, rows []Row) string {
	t.Helper()
	path := filepath.Join(dir, "assets.csv")
	if !NewArtifactStore(discardLogger()).Write(path, ManifestFields, rows) {
		t.Fatalf("failed to write manifest %s", path)
	}
	return path
}

func textureRow(path, size, compression, lodGroup string, srgb, mipmaps bool) Row {
	return Row{
		"asset_path":      path,
		"category":        string(types.CategoryTextures),
		"size":            size,
		"compression":     compression,
		"srgb":            formatBool(srgb),
		"mipmaps":         formatBool(mipmaps),
		"lod_group":       lodGroup,
		"virtual_texture": "false",
		"streaming":       "false",
	}
}

func recommendation(path string, risk types.Level, safety types.ApplySafety, changes ...string) types.RecommendationRecord {
	return types.RecommendationRecord{
		Asset:            types.AssetRecord{AssetPath: path, AssetName: assetNameFromPath(path)},
		Recommendations:  changes,
		Changes:          changes,
		EstimatedSavings: types.MemorySavings(len(changes)),
		Priority:         types.LevelLow,
		RiskLevel:        risk,
		ApplySafety:      safety,
	}
}

func boolPtr(b bool) *bool       { return &b }
func intPtr(n int) *int          { return &n }
func stringPtr(s string) *string { return &s }
