package core

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/EmundoT/asset-optimizer/internal/types"
)

var fixedNow = time.Date(2026, 3, 1, 9, 30, 15, 0, time.UTC)

func TestLoadRunConfig_Defaults(t *testing.T) {
	cfg, err := LoadRunConfig(filepath.Join(t.TempDir(), "missing.yml"), ConfigOverrides{}, fixedNow)
	if err != nil {
		t.Fatalf("LoadRunConfig() error = %v", err)
	}

	if cfg.TargetProfile != DefaultPresetName || !cfg.DryRun || cfg.MaxChanges != 0 {
		t.Errorf("profile/dry_run/max_changes = %s/%v/%d", cfg.TargetProfile, cfg.DryRun, cfg.MaxChanges)
	}
	if !reflect.DeepEqual(cfg.Categories, []types.Category{types.CategoryTextures}) {
		t.Errorf("Categories = %v", cfg.Categories)
	}
	if cfg.RunID != "run_20260301_093015" {
		t.Errorf("RunID = %s", cfg.RunID)
	}
	if cfg.ConservativeMode != nil {
		t.Errorf("ConservativeMode = %v, want nil (preset decides)", *cfg.ConservativeMode)
	}
	if cfg.CreateBackups != nil {
		t.Errorf("CreateBackups = %v, want nil (preset decides)", *cfg.CreateBackups)
	}
	if cfg.OutputRoot != DefaultOutputDir || cfg.ManifestPath != DefaultManifest || cfg.Parallel != 1 {
		t.Errorf("paths = %+v", cfg)
	}
	if RunDir(cfg) != filepath.Join(DefaultOutputDir, "run_20260301_093015") {
		t.Errorf("RunDir = %s", RunDir(cfg))
	}
}

func TestLoadRunConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "asset-optimizer.yml")
	content := `target_profile: Mobile_Low
categories: [Textures, Meshes]
dry_run: true
max_changes: 40
conservative_mode: false
exclude_paths: ["/Game/Legacy"]
paths:
  output_dir: out/history
  manifest: from-file.csv
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ASSET_OPTIMIZER_MAX_CHANGES", "60")
	t.Setenv("ASSET_OPTIMIZER_PATHS_MANIFEST", "from-env.csv")

	cfg, err := LoadRunConfig(path, ConfigOverrides{
		DryRun:     boolPtr(false),
		Categories: []string{"textures,levels"},
		RunID:      stringPtr("run_manual"),
	}, fixedNow)
	if err != nil {
		t.Fatalf("LoadRunConfig() error = %v", err)
	}

	if cfg.TargetProfile != "Mobile_Low" {
		t.Errorf("TargetProfile = %s, want value from file", cfg.TargetProfile)
	}
	if cfg.MaxChanges != 60 || cfg.ManifestPath != "from-env.csv" {
		t.Errorf("environment should override file: max_changes=%d manifest=%s", cfg.MaxChanges, cfg.ManifestPath)
	}
	if cfg.DryRun {
		t.Error("command-line dry_run should win")
	}
	if cfg.ConservativeMode == nil || *cfg.ConservativeMode {
		t.Errorf("ConservativeMode = %v, want explicit false", cfg.ConservativeMode)
	}
	if !reflect.DeepEqual(cfg.Categories, []types.Category{types.CategoryTextures, types.CategoryLevels}) {
		t.Errorf("Categories = %v", cfg.Categories)
	}
	if !reflect.DeepEqual(cfg.ExcludePaths, []string{"/Game/Legacy"}) {
		t.Errorf("ExcludePaths = %v", cfg.ExcludePaths)
	}
	if cfg.RunID != "run_manual" || cfg.OutputRoot != "out/history" {
		t.Errorf("RunID/OutputRoot = %s/%s", cfg.RunID, cfg.OutputRoot)
	}
}

func TestLoadRunConfig_UnknownCategoryKept(t *testing.T) {
	cfg, err := LoadRunConfig("", ConfigOverrides{Categories: []string{"Textures", "Sounds"}}, fixedNow)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(cfg.Categories, []types.Category{types.CategoryTextures, "Sounds"}) {
		t.Errorf("Categories = %v", cfg.Categories)
	}
}

func TestLoadRunConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		o    ConfigOverrides
	}{
		{"negative max changes", ConfigOverrides{MaxChanges: intPtr(-1)}},
		{"run id with separator", ConfigOverrides{RunID: stringPtr("../escape")}},
		{"latest without runs", ConfigOverrides{RunID: stringPtr(LatestRunID), OutputDir: stringPtr(filepath.Join(os.TempDir(), "asset-optimizer-none"))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadRunConfig("", tt.o, fixedNow)
			if !IsConfigurationError(err) {
				t.Errorf("error = %v, want ConfigurationError", err)
			}
		})
	}
}

func TestLoadRunConfig_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	if err := os.WriteFile(path, []byte("dry_run: [unterminated\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRunConfig(path, ConfigOverrides{}, fixedNow); !IsConfigurationError(err) {
		t.Errorf("error = %v, want ConfigurationError", err)
	}
}

func TestLoadRunConfig_LatestRun(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"run_20260101_000000", "run_20260301_120000", "run_20260201_000000", "notes"} {
		if err := os.MkdirAll(filepath.Join(root, name), 0755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(root, "run_20261231_000000"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadRunConfig("", ConfigOverrides{RunID: stringPtr(LatestRunID), OutputDir: stringPtr(root)}, fixedNow)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.RunID != "run_20260301_120000" {
		t.Errorf("RunID = %s, want newest run directory", cfg.RunID)
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	if err := WriteDefaultConfig(path, false); err != nil {
		t.Fatal(err)
	}
	if err := WriteDefaultConfig(path, false); err == nil || !strings.Contains(err.Error(), "--force") {
		t.Errorf("second write error = %v, want refusal mentioning --force", err)
	}
	if err := WriteDefaultConfig(path, true); err != nil {
		t.Errorf("forced write error = %v", err)
	}

	cfg, err := LoadRunConfig(path, ConfigOverrides{}, fixedNow)
	if err != nil {
		t.Fatalf("default config does not load: %v", err)
	}
	if cfg.TargetProfile != DefaultPresetName || !cfg.DryRun || cfg.HistoryDB != DefaultHistoryDB {
		t.Errorf("default config = %+v", cfg)
	}
}

func TestResolveApplyOptions_BackupsFollowPresetUnlessConfigured(t *testing.T) {
	preset := types.PresetConfig{Safety: types.SafetyPolicy{MaxChanges: 300, CreateBackups: false}}

	dir := t.TempDir()
	cfg, err := LoadRunConfig(filepath.Join(dir, "missing.yml"), ConfigOverrides{}, fixedNow)
	if err != nil {
		t.Fatal(err)
	}
	if ResolveApplyOptions(cfg, preset).CreateBackups {
		t.Error("unset create_backups should defer to the preset")
	}

	path := filepath.Join(dir, "asset-optimizer.yml")
	if err := os.WriteFile(path, []byte("create_backups: true\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadRunConfig(path, ConfigOverrides{}, fixedNow)
	if err != nil {
		t.Fatal(err)
	}
	if !ResolveApplyOptions(cfg, preset).CreateBackups {
		t.Error("configured create_backups should win over the preset")
	}
}
