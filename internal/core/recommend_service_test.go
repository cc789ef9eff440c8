package core

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/EmundoT/asset-optimizer/internal/types"
)

// ============================================================================
// RecommendOne Tests
// ============================================================================

func TestRecommendOne_NormalMapWithColorSettings(t *testing.T) {
	audit := types.AuditRecord{
		Asset: types.AssetRecord{
			AssetPath: "/Game/Textures/T_Wall_N", AssetName: "T_Wall_N",
			LODGroup: "Normal", Compression: "BC3", SRGB: true, Mipmaps: true,
		},
		Issues:   []string{IssueCompression, IssueSRGB},
		Priority: types.LevelHigh,
	}

	rec, ok := RecommendOne(audit, balancedPreset(t).Textures)
	if !ok {
		t.Fatal("RecommendOne declined every issue")
	}
	wantChanges := []string{"Compression: BC3 -> BC5", "SRGB: Enabled -> Disabled"}
	if !reflect.DeepEqual(rec.Changes, wantChanges) {
		t.Errorf("Changes = %v, want %v", rec.Changes, wantChanges)
	}
	if len(rec.Recommendations) != len(rec.Changes) {
		t.Errorf("got %d recommendations for %d changes", len(rec.Recommendations), len(rec.Changes))
	}
	if rec.RiskLevel != types.LevelHigh {
		t.Errorf("RiskLevel = %s, want High", rec.RiskLevel)
	}
	if rec.ApplySafety != types.ApplySafetyWithBackup {
		t.Errorf("ApplySafety = %s, want WithBackup", rec.ApplySafety)
	}
	if rec.EstimatedSavings != 3 {
		t.Errorf("EstimatedSavings = %s, want 3MB", rec.EstimatedSavings)
	}
	if rec.Priority != types.LevelHigh {
		t.Errorf("Priority = %s, want High", rec.Priority)
	}
}

func TestRecommendOne_Mappings(t *testing.T) {
	rules := balancedPreset(t).Textures

	tests := []struct {
		name        string
		asset       types.AssetRecord
		issue       string
		wantChange  string
		wantSavings types.MemorySavings
		wantRisk    types.Level
		wantSafety  types.ApplySafety
	}{
		{
			name:        "size clamps each side to the ceiling",
			asset:       types.AssetRecord{AssetName: "T_Cliff", LODGroup: "World", Width: 8192, Height: 8192},
			issue:       "Size exceeds preset limit (4096)",
			wantChange:  "Size: 8192x8192 -> 4096x4096",
			wantSavings: 192,
			wantRisk:    types.LevelHigh,
			wantSafety:  types.ApplySafetyWithBackup,
		},
		{
			name:        "mipmaps",
			asset:       types.AssetRecord{AssetName: "T_Grass", LODGroup: "World"},
			issue:       IssueMipmaps,
			wantChange:  "Mipmaps: Disabled -> Enabled",
			wantSavings: 1,
			wantRisk:    types.LevelMedium,
			wantSafety:  types.ApplySafetyYes,
		},
		{
			name:        "lod group inferred from name",
			asset:       types.AssetRecord{AssetName: "T_Rock_Normal", LODGroup: "Custom"},
			issue:       IssueLODGroup,
			wantChange:  "LOD Group: Custom -> Normal",
			wantSavings: 1,
			wantRisk:    types.LevelMedium,
			wantSafety:  types.ApplySafetyYes,
		},
		{
			name:        "lod group defaults to world",
			asset:       types.AssetRecord{AssetName: "T_Rock", LODGroup: "Custom"},
			issue:       IssueLODGroup,
			wantChange:  "LOD Group: Custom -> World",
			wantSavings: 1,
			wantRisk:    types.LevelMedium,
			wantSafety:  types.ApplySafetyYes,
		},
		{
			name:        "streaming on UI",
			asset:       types.AssetRecord{AssetName: "T_Icon", LODGroup: "UI", Streaming: true},
			issue:       IssueStreaming,
			wantChange:  "Streaming: Enabled -> Disabled",
			wantSavings: 1,
			wantRisk:    types.LevelLow,
			wantSafety:  types.ApplySafetyYes,
		},
		{
			name:        "virtual texture on LUT",
			asset:       types.AssetRecord{AssetName: "T_Grade", LODGroup: "LUT", VirtualTexture: true},
			issue:       IssueVirtualTexture,
			wantChange:  "Virtual Texture: Enabled -> Disabled",
			wantSavings: 1,
			wantRisk:    types.LevelLow,
			wantSafety:  types.ApplySafetyYes,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, ok := RecommendOne(types.AuditRecord{Asset: tt.asset, Issues: []string{tt.issue}}, rules)
			if !ok {
				t.Fatal("mapping declined")
			}
			if len(rec.Changes) != 1 || rec.Changes[0] != tt.wantChange {
				t.Errorf("Changes = %v, want [%s]", rec.Changes, tt.wantChange)
			}
			if rec.EstimatedSavings != tt.wantSavings {
				t.Errorf("EstimatedSavings = %s, want %s", rec.EstimatedSavings, tt.wantSavings)
			}
			if rec.RiskLevel != tt.wantRisk || rec.ApplySafety != tt.wantSafety {
				t.Errorf("risk/safety = %s/%s, want %s/%s", rec.RiskLevel, rec.ApplySafety, tt.wantRisk, tt.wantSafety)
			}
			if rec.Priority != types.LevelLow {
				t.Errorf("missing priority should default to Low, got %s", rec.Priority)
			}
		})
	}
}

func TestRecommendOne_Declines(t *testing.T) {
	rules := balancedPreset(t).Textures

	tests := []struct {
		name  string
		asset types.AssetRecord
		issue string
	}{
		{"srgb on color texture", types.AssetRecord{LODGroup: "World", SRGB: true}, IssueSRGB},
		{"mipmaps on UI texture", types.AssetRecord{LODGroup: "UI"}, IssueMipmaps},
		{"size unknown", types.AssetRecord{LODGroup: "World"}, "Size exceeds preset limit (4096)"},
		{"compression already optimal", types.AssetRecord{LODGroup: "Normal", Compression: "bc5"}, IssueCompression},
		{"unmapped issue text", types.AssetRecord{LODGroup: "World"}, "Something else entirely"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec, ok := RecommendOne(types.AuditRecord{Asset: tt.asset, Issues: []string{tt.issue}}, rules); ok {
				t.Errorf("expected decline, got %v", rec.Changes)
			}
		})
	}
}

// ============================================================================
// RecommendService.Run Tests
// ============================================================================

func writeAuditArtifact(t *testing.T, dir string, records ...types.AuditRecord) {
	t.Helper()
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, AuditRecordToRow(r))
	}
	if !NewArtifactStore(discardLogger()).Write(ArtifactPath(dir, types.CategoryTextures, types.PhaseAudit), AuditFields, rows) {
		t.Fatal("failed to write audit artifact")
	}
}

func TestRecommendRun_IsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeAuditArtifact(t, dir,
		types.AuditRecord{
			Asset:    types.AssetRecord{AssetPath: "/Game/T_Wall_N", LODGroup: "Normal", Compression: "BC3", SRGB: true, Mipmaps: true},
			Issues:   []string{IssueCompression, IssueSRGB},
			Priority: types.LevelHigh,
		},
		types.AuditRecord{
			Asset:    types.AssetRecord{AssetPath: "/Game/T_Sky", LODGroup: "World", SRGB: true, Mipmaps: true, Compression: "BC1"},
			Issues:   []string{IssueSRGB},
			Priority: types.LevelLow,
		},
	)

	svc := NewRecommendService(NewArtifactStore(discardLogger()), discardLogger())
	req := PhaseRequest{Category: types.CategoryTextures, Preset: balancedPreset(t), OutputDir: dir}
	out := ArtifactPath(dir, types.CategoryTextures, types.PhaseRecommend)

	first := svc.Run(context.Background(), req)
	firstBytes, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	second := svc.Run(context.Background(), req)
	secondBytes, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(firstBytes, secondBytes) {
		t.Errorf("recommendations differ between runs:\n%s\n---\n%s", firstBytes, secondBytes)
	}
	if first.Scanned != 2 || first.Skipped != 1 || first.Recommend.TotalRecommendations != 1 {
		t.Errorf("first run = %+v / %+v", first, first.Recommend)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("results differ between runs: %+v vs %+v", first, second)
	}
}

func TestRecommendRun_MissingAuditArtifact(t *testing.T) {
	dir := t.TempDir()
	svc := NewRecommendService(NewArtifactStore(discardLogger()), discardLogger())

	result := svc.Run(context.Background(), PhaseRequest{Category: types.CategoryTextures, Preset: balancedPreset(t), OutputDir: dir})
	if !result.Success || result.Scanned != 0 {
		t.Errorf("result = %+v, want empty success", result)
	}
	if _, err := os.Stat(filepath.Join(dir, "textures_recommendations.csv")); err != nil {
		t.Errorf("empty artifact not written: %v", err)
	}
}
