package core

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/EmundoT/asset-optimizer/internal/types"
)

// ManifestFields are the columns of an asset manifest.
var ManifestFields = []string{
	"asset_path", "asset_name", "category", "size", "compression", "srgb",
	"mipmaps", "lod_group", "virtual_texture", "streaming", "format", "selected",
}

// BackupIndexFields are the columns of the backup index under the backup dir.
var BackupIndexFields = []string{"asset_path", "backup_file", "backed_up_at"}

// BackupIndexFile is the name of the append-only backup index.
const BackupIndexFile = "backup_index.csv"

// manifestColumns maps change kinds to the manifest column they rewrite.
var manifestColumns = map[ChangeKind]string{
	ChangeSize:           "size",
	ChangeCompression:    "compression",
	ChangeSRGB:           "srgb",
	ChangeMipmaps:        "mipmaps",
	ChangeLODGroup:       "lod_group",
	ChangeVirtualTexture: "virtual_texture",
	ChangeStreaming:      "streaming",
}

// ManifestInspector implements AssetInspector over a manifest CSV.
type ManifestInspector struct {
	store  ArtifactStore
	path   string
	logger *slog.Logger
}

// Compile-time interface satisfaction checks.
var (
	_ AssetInspector = (*ManifestInspector)(nil)
	_ AssetMutator   = (*ManifestMutator)(nil)
)

// NewManifestInspector creates an inspector reading the manifest at path.
func NewManifestInspector(store ArtifactStore, path string, logger *slog.Logger) *ManifestInspector {
	if logger == nil {
		logger = slog.Default()
	}
	return &ManifestInspector{store: store, path: path, logger: logger}
}

// ListCandidates implements AssetInspector. Rows with an empty category are
// treated as textures.
func (i *ManifestInspector) ListCandidates(ctx context.Context, filter CandidateFilter) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var paths []string
	for _, row := range i.store.Read(i.path) {
		assetPath := strings.TrimSpace(row["asset_path"])
		if assetPath == "" {
			continue
		}
		if !manifestCategoryMatches(row["category"], filter.Category) {
			continue
		}
		if !filter.Matches(assetPath) {
			continue
		}
		if filter.SelectionOnly && !parseBool(row["selected"]) {
			continue
		}
		paths = append(paths, assetPath)
	}
	i.logger.Debug("manifest candidates listed",
		slog.String("manifest", i.path), slog.String("category", string(filter.Category)), slog.Int("count", len(paths)))
	return paths, nil
}

// Snapshot implements AssetInspector.
func (i *ManifestInspector) Snapshot(ctx context.Context, assetPath string) (types.AssetRecord, error) {
	if err := ctx.Err(); err != nil {
		return types.AssetRecord{}, err
	}
	for _, row := range i.store.Read(i.path) {
		if strings.TrimSpace(row["asset_path"]) == assetPath {
			return manifestRowToAsset(row), nil
		}
	}
	return types.AssetRecord{}, &MutationError{AssetPath: assetPath, Op: "snapshot", Err: fmt.Errorf("asset not in manifest %s", i.path)}
}

// ManifestMutator implements AssetMutator by rewriting manifest rows.
// Calls are serialised so concurrent categories never interleave rewrites.
type ManifestMutator struct {
	mu        sync.Mutex
	store     ArtifactStore
	path      string
	backupDir string
	logger    *slog.Logger
	now       func() time.Time
}

// NewManifestMutator creates a mutator for the manifest at path. Backups are
// written under backupDir.
func NewManifestMutator(store ArtifactStore, path, backupDir string, logger *slog.Logger) *ManifestMutator {
	if logger == nil {
		logger = slog.Default()
	}
	return &ManifestMutator{store: store, path: path, backupDir: backupDir, logger: logger, now: time.Now}
}

// Backup implements AssetMutator. The asset's row is copied to its own CSV.
func (m *ManifestMutator) Backup(ctx context.Context, assetPath string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	rows := m.store.Read(m.path)
	idx := findManifestRow(rows, assetPath)
	if idx < 0 {
		m.logger.Warn("backup: asset not in manifest", slog.String("asset", assetPath))
		return false, nil
	}
	dest := BackupPath(m.backupDir, assetPath)
	if !m.store.Write(dest, ManifestFields, []Row{rows[idx]}) {
		return false, nil
	}
	entry := Row{
		"asset_path":   assetPath,
		"backup_file":  filepath.Base(dest),
		"backed_up_at": m.now().UTC().Format(time.RFC3339),
	}
	if !m.store.Append(filepath.Join(m.backupDir, BackupIndexFile), BackupIndexFields, []Row{entry}) {
		m.logger.Warn("backup index not updated", slog.String("asset", assetPath))
	}
	m.logger.Debug("asset backed up", slog.String("asset", assetPath), slog.String("path", dest))
	return true, nil
}

// ApplyChange implements AssetMutator.
func (m *ManifestMutator) ApplyChange(ctx context.Context, assetPath, change string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	desc, ok := ParseChangeDescriptor(change)
	column, known := manifestColumns[desc.Kind]
	if !ok || !known {
		m.logger.Warn("unknown change type", slog.String("asset", assetPath), slog.String("change", change))
		return false, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// A rewrite of a manifest that did not parse cleanly would persist
	// whatever the salvage lost.
	rows, err := m.store.ReadStrict(m.path)
	if err != nil {
		return false, &MutationError{AssetPath: assetPath, Op: "apply", Err: fmt.Errorf("refusing to rewrite manifest: %w", err)}
	}
	idx := findManifestRow(rows, assetPath)
	if idx < 0 {
		return false, &MutationError{AssetPath: assetPath, Op: "apply", Err: fmt.Errorf("asset not in manifest %s", m.path)}
	}

	value := desc.New
	if desc.Kind.IsBoolean() {
		value = formatBool(strings.EqualFold(desc.New, ValueEnabled))
	}
	rows[idx][column] = value

	if !m.store.Write(m.path, ManifestFields, rows) {
		return false, &MutationError{AssetPath: assetPath, Op: "apply", Err: fmt.Errorf("rewrite manifest %s", m.path)}
	}
	return true, nil
}

// BackupPath returns the backup file for assetPath under dir.
func BackupPath(dir, assetPath string) string {
	return filepath.Join(dir, sanitizeAssetPath(assetPath)+".csv")
}

func sanitizeAssetPath(assetPath string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '.', ' ', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, assetPath)
	name = strings.Trim(name, "_")
	if name == "" {
		return "asset"
	}
	return name
}

func findManifestRow(rows []Row, assetPath string) int {
	for i, row := range rows {
		if strings.TrimSpace(row["asset_path"]) == assetPath {
			return i
		}
	}
	return -1
}

func manifestCategoryMatches(cell string, category types.Category) bool {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return category == types.CategoryTextures
	}
	c, ok := types.ParseCategory(cell)
	return ok && c == category
}

func manifestRowToAsset(row Row) types.AssetRecord {
	a := types.AssetRecord{
		AssetPath:      strings.TrimSpace(row["asset_path"]),
		AssetName:      row["asset_name"],
		Compression:    strings.TrimSpace(row["compression"]),
		SRGB:           parseBool(row["srgb"]),
		Mipmaps:        parseBool(row["mipmaps"]),
		LODGroup:       strings.TrimSpace(row["lod_group"]),
		VirtualTexture: parseBool(row["virtual_texture"]),
		Streaming:      parseBool(row["streaming"]),
		Format:         row["format"],
	}
	if c, ok := types.ParseCategory(row["category"]); ok {
		a.Category = c
	} else {
		a.Category = types.CategoryTextures
	}
	if w, h, ok := types.ParseSize(row["size"]); ok {
		a.Width, a.Height = w, h
	}
	if a.AssetName == "" {
		a.AssetName = assetNameFromPath(a.AssetPath)
	}
	return a
}
