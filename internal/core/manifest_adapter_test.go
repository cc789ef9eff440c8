package core

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/EmundoT/asset-optimizer/internal/types"
)

func testManifest(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	selected := textureRow("/Game/Env/T_Wall_N", "4096x4096", "BC3", "Normal", true, true)
	selected["selected"] = "true"
	mesh := Row{"asset_path": "/Game/Env/SM_Rock", "category": "Meshes"}
	legacy := textureRow("/Game/Legacy/T_Old", "512x512", "DXT1", "World", false, false)
	legacy["category"] = ""
	return dir, writeManifest(t, dir, []Row{
		selected,
		textureRow("/Game/Env/T_Grass", "1024x1024", "BC1", "World", true, true),
		mesh,
		legacy,
	})
}

func TestManifestInspector_ListCandidates(t *testing.T) {
	_, path := testManifest(t)
	inspector := NewManifestInspector(NewArtifactStore(discardLogger()), path, discardLogger())

	tests := []struct {
		name   string
		filter CandidateFilter
		want   []string
	}{
		{
			name:   "all textures including uncategorised rows",
			filter: CandidateFilter{Category: types.CategoryTextures},
			want:   []string{"/Game/Env/T_Wall_N", "/Game/Env/T_Grass", "/Game/Legacy/T_Old"},
		},
		{
			name:   "meshes",
			filter: CandidateFilter{Category: types.CategoryMeshes},
			want:   []string{"/Game/Env/SM_Rock"},
		},
		{
			name:   "exclude wins over include",
			filter: CandidateFilter{Category: types.CategoryTextures, IncludePaths: []string{"/Game/"}, ExcludePaths: []string{"/Game/Legacy"}},
			want:   []string{"/Game/Env/T_Wall_N", "/Game/Env/T_Grass"},
		},
		{
			name:   "selection only",
			filter: CandidateFilter{Category: types.CategoryTextures, SelectionOnly: true},
			want:   []string{"/Game/Env/T_Wall_N"},
		},
		{
			name:   "no match",
			filter: CandidateFilter{Category: types.CategoryLevels},
			want:   nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := inspector.ListCandidates(context.Background(), tt.filter)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ListCandidates() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestManifestInspector_Snapshot(t *testing.T) {
	_, path := testManifest(t)
	inspector := NewManifestInspector(NewArtifactStore(discardLogger()), path, discardLogger())

	got, err := inspector.Snapshot(context.Background(), "/Game/Env/T_Wall_N")
	if err != nil {
		t.Fatal(err)
	}
	want := types.AssetRecord{
		AssetPath: "/Game/Env/T_Wall_N", AssetName: "T_Wall_N", Category: types.CategoryTextures,
		Width: 4096, Height: 4096, Compression: "BC3", SRGB: true, Mipmaps: true, LODGroup: "Normal",
	}
	if got != want {
		t.Errorf("Snapshot() = %+v, want %+v", got, want)
	}

	if _, err := inspector.Snapshot(context.Background(), "/Game/Missing"); !IsMutationFailure(err) {
		t.Errorf("Snapshot(missing) error = %v, want MutationError", err)
	}
}

func TestManifestMutator_ApplyChange(t *testing.T) {
	dir, path := testManifest(t)
	store := NewArtifactStore(discardLogger())
	mutator := NewManifestMutator(store, path, filepath.Join(dir, "backups"), discardLogger())
	ctx := context.Background()

	for _, change := range []string{"Compression: BC3 -> BC5", "SRGB: Enabled -> Disabled", "Size: 4096x4096 -> 2048x2048"} {
		ok, err := mutator.ApplyChange(ctx, "/Game/Env/T_Wall_N", change)
		if err != nil || !ok {
			t.Fatalf("ApplyChange(%q) = %v, %v", change, ok, err)
		}
	}

	snap, err := NewManifestInspector(store, path, discardLogger()).Snapshot(ctx, "/Game/Env/T_Wall_N")
	if err != nil {
		t.Fatal(err)
	}
	if snap.Compression != "BC5" || snap.SRGB || snap.SizeString() != "2048x2048" {
		t.Errorf("manifest not updated: %+v", snap)
	}
	if rows := store.Read(path); len(rows) != 4 || rows[1]["asset_path"] != "/Game/Env/T_Grass" {
		t.Errorf("other rows disturbed: %v", rows)
	}

	ok, err := mutator.ApplyChange(ctx, "/Game/Env/T_Wall_N", "Anisotropy: 2 -> 8")
	if ok || err != nil {
		t.Errorf("unknown change = %v, %v; want false, nil", ok, err)
	}
	if _, err := mutator.ApplyChange(ctx, "/Game/Missing", "SRGB: Enabled -> Disabled"); !IsMutationFailure(err) {
		t.Errorf("missing asset error = %v, want MutationError", err)
	}
}

func TestManifestMutator_RefusesMalformedManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "assets.csv")
	content := "asset_path,compression\n/Game/A,\"BC1\n/Game/B,BC3\n/Game/C,BC5\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	mutator := NewManifestMutator(NewArtifactStore(discardLogger()), path, filepath.Join(dir, "backups"), discardLogger())

	ok, err := mutator.ApplyChange(context.Background(), "/Game/B", "Compression: BC3 -> BC5")
	if ok || !IsMutationFailure(err) || !IsValidationError(err) {
		t.Errorf("ApplyChange() = %v, %v; want false and a MutationError wrapping a ValidationError", ok, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != content {
		t.Errorf("malformed manifest was rewritten:\n%s", data)
	}
}

func TestManifestMutator_Backup(t *testing.T) {
	dir, path := testManifest(t)
	store := NewArtifactStore(discardLogger())
	backupDir := filepath.Join(dir, "backups")
	mutator := NewManifestMutator(store, path, backupDir, discardLogger())
	mutator.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	ok, err := mutator.Backup(context.Background(), "/Game/Env/T_Wall_N")
	if err != nil || !ok {
		t.Fatalf("Backup() = %v, %v", ok, err)
	}

	backup := BackupPath(backupDir, "/Game/Env/T_Wall_N")
	if filepath.Base(backup) != "Game_Env_T_Wall_N.csv" {
		t.Errorf("backup file = %s", filepath.Base(backup))
	}
	rows := store.Read(backup)
	if len(rows) != 1 || rows[0]["compression"] != "BC3" {
		t.Errorf("backup rows = %v", rows)
	}
	index := store.Read(filepath.Join(backupDir, BackupIndexFile))
	if len(index) != 1 || index[0]["backed_up_at"] != "2026-03-01T12:00:00Z" || index[0]["backup_file"] != "Game_Env_T_Wall_N.csv" {
		t.Errorf("backup index = %v", index)
	}

	ok, err = mutator.Backup(context.Background(), "/Game/Missing")
	if ok || err != nil {
		t.Errorf("Backup(missing) = %v, %v; want false, nil", ok, err)
	}
	if _, err := os.Stat(BackupPath(backupDir, "/Game/Missing")); !os.IsNotExist(err) {
		t.Error("no backup file should exist for a missing asset")
	}
}

func TestCandidateFilter_Matches(t *testing.T) {
	f := CandidateFilter{IncludePaths: []string{"/Game/Env"}, ExcludePaths: []string{"", "/Game/Env/WIP"}}
	tests := map[string]bool{
		"/Game/Env/T_Wall":     true,
		"/Game/Env/WIP/T_Test": false,
		"/Game/UI/T_Icon":      false,
	}
	for path, want := range tests {
		if got := f.Matches(path); got != want {
			t.Errorf("Matches(%s) = %v, want %v", path, got, want)
		}
	}
}
