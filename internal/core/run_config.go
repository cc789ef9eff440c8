package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/EmundoT/asset-optimizer/internal/types"
)

// DefaultConfigFile is the run configuration file looked up in the working directory.
const DefaultConfigFile = "asset-optimizer.yml"

// envPrefix namespaces environment overrides (ASSET_OPTIMIZER_DRY_RUN=false).
const envPrefix = "ASSET_OPTIMIZER"

// Configuration keys.
const (
	keyTargetProfile   = "target_profile"
	keyCategories      = "categories"
	keyDryRun          = "dry_run"
	keyMaxChanges      = "max_changes"
	keyConservative    = "conservative_mode"
	keyCreateBackups   = "create_backups"
	keyIncludePaths    = "include_paths"
	keyExcludePaths    = "exclude_paths"
	keyUseSelection    = "use_selection"
	keyOutputDir       = "paths.output_dir"
	keyManifest        = "paths.manifest"
	keyPresetOverrides = "paths.preset_overrides"
	keyHistoryDB       = "paths.history_db"
	keyParallel        = "parallel"
	keyMetricsFile     = "metrics_file"
)

// Defaults for keys absent from file and environment.
const (
	DefaultOutputDir       = "Saved/Optimizor/History"
	DefaultManifest        = "assets.csv"
	DefaultPresetOverrides = "asset-optimizer-presets.yml"
	DefaultHistoryDB       = "Saved/Optimizor/history.db"
)

// ConfigOverrides are command-line values. Nil or empty fields leave the
// file/environment value in place.
type ConfigOverrides struct {
	Profile      *string
	DryRun       *bool
	MaxChanges   *int
	Conservative *bool
	Categories   []string
	IncludePaths []string
	ExcludePaths []string
	UseSelection *bool
	RunID        *string
	OutputDir    *string
	Manifest     *string
	Parallel     *int
}

// NewRunID returns a run id of the form run_YYYYMMDD_HHMMSS.
func NewRunID(now time.Time) string {
	return "run_" + now.Format("20060102_150405")
}

func newConfigViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault(keyTargetProfile, DefaultPresetName)
	v.SetDefault(keyCategories, []string{string(types.CategoryTextures)})
	v.SetDefault(keyDryRun, true)
	v.SetDefault(keyMaxChanges, 0)
	v.SetDefault(keyIncludePaths, []string{})
	v.SetDefault(keyExcludePaths, []string{})
	v.SetDefault(keyUseSelection, false)
	v.SetDefault(keyOutputDir, DefaultOutputDir)
	v.SetDefault(keyManifest, DefaultManifest)
	v.SetDefault(keyPresetOverrides, DefaultPresetOverrides)
	v.SetDefault(keyHistoryDB, DefaultHistoryDB)
	v.SetDefault(keyParallel, 1)
	v.SetDefault(keyMetricsFile, "")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadRunConfig builds the run configuration from the config file at
// configPath (a missing file is not an error), ASSET_OPTIMIZER_* environment
// variables and command-line overrides, in increasing precedence.
func LoadRunConfig(configPath string, o ConfigOverrides, now time.Time) (types.RunConfig, error) {
	v := newConfigViper()
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			if err := v.ReadInConfig(); err != nil {
				return types.RunConfig{}, &ConfigurationError{Source: configPath, Err: err}
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return types.RunConfig{}, fmt.Errorf("stat config %s: %w", configPath, err)
		}
	}

	cfg := types.RunConfig{
		TargetProfile:   v.GetString(keyTargetProfile),
		DryRun:          v.GetBool(keyDryRun),
		MaxChanges:      v.GetInt(keyMaxChanges),
		IncludePaths:    cleanList(v.GetStringSlice(keyIncludePaths)),
		ExcludePaths:    cleanList(v.GetStringSlice(keyExcludePaths)),
		UseSelection:    v.GetBool(keyUseSelection),
		OutputRoot:      v.GetString(keyOutputDir),
		ManifestPath:    v.GetString(keyManifest),
		PresetOverrides: v.GetString(keyPresetOverrides),
		HistoryDB:       v.GetString(keyHistoryDB),
		MetricsFile:     v.GetString(keyMetricsFile),
		Parallel:        v.GetInt(keyParallel),
	}
	if v.IsSet(keyConservative) {
		b := v.GetBool(keyConservative)
		cfg.ConservativeMode = &b
	}
	if v.IsSet(keyCreateBackups) {
		b := v.GetBool(keyCreateBackups)
		cfg.CreateBackups = &b
	}
	categories := v.GetStringSlice(keyCategories)

	if o.Profile != nil {
		cfg.TargetProfile = *o.Profile
	}
	if o.DryRun != nil {
		cfg.DryRun = *o.DryRun
	}
	if o.MaxChanges != nil {
		cfg.MaxChanges = *o.MaxChanges
	}
	if o.Conservative != nil {
		b := *o.Conservative
		cfg.ConservativeMode = &b
	}
	if len(o.Categories) > 0 {
		categories = o.Categories
	}
	if len(o.IncludePaths) > 0 {
		cfg.IncludePaths = cleanList(o.IncludePaths)
	}
	if len(o.ExcludePaths) > 0 {
		cfg.ExcludePaths = cleanList(o.ExcludePaths)
	}
	if o.UseSelection != nil {
		cfg.UseSelection = *o.UseSelection
	}
	if o.OutputDir != nil {
		cfg.OutputRoot = *o.OutputDir
	}
	if o.Manifest != nil {
		cfg.ManifestPath = *o.Manifest
	}
	if o.Parallel != nil {
		cfg.Parallel = *o.Parallel
	}
	if o.RunID != nil && *o.RunID != "" {
		cfg.RunID = *o.RunID
	} else {
		cfg.RunID = NewRunID(now)
	}

	if cfg.MaxChanges < 0 {
		return types.RunConfig{}, &ConfigurationError{Source: keyMaxChanges, Err: fmt.Errorf("must be >= 0, got %d", cfg.MaxChanges)}
	}
	if cfg.Parallel < 1 {
		cfg.Parallel = 1
	}
	if strings.TrimSpace(cfg.TargetProfile) == "" {
		cfg.TargetProfile = DefaultPresetName
	}
	if strings.ContainsAny(cfg.RunID, `/\`) || cfg.RunID == "." || cfg.RunID == ".." {
		return types.RunConfig{}, &ConfigurationError{Source: "run_id", Err: fmt.Errorf("invalid run id %q", cfg.RunID)}
	}
	if cfg.RunID == LatestRunID {
		id, err := FindLatestRun(cfg.OutputRoot)
		if err != nil {
			return types.RunConfig{}, &ConfigurationError{Source: "run_id", Err: err}
		}
		cfg.RunID = id
	}

	// Unknown names are kept so the orchestrator can report them per category.
	for _, name := range cleanList(categories) {
		c, _ := types.ParseCategory(name)
		cfg.Categories = append(cfg.Categories, c)
	}
	return cfg, nil
}

// LatestRunID selects the most recent existing run directory.
const LatestRunID = "latest"

// FindLatestRun returns the newest run_* directory under root. Run ids sort
// chronologically by name.
func FindLatestRun(root string) (string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return "", fmt.Errorf("list runs in %s: %w", root, err)
	}
	latest := ""
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), "run_") && e.Name() > latest {
			latest = e.Name()
		}
	}
	if latest == "" {
		return "", fmt.Errorf("no runs in %s", root)
	}
	return latest, nil
}

// RunDir returns the output directory for the configured run.
func RunDir(cfg types.RunConfig) string {
	return filepath.Join(cfg.OutputRoot, cfg.RunID)
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

const defaultConfigTemplate = `# asset-optimizer run configuration.
# Every key can be overridden with an ASSET_OPTIMIZER_* environment variable
# (paths.output_dir -> ASSET_OPTIMIZER_PATHS_OUTPUT_DIR) or a command-line flag.

target_profile: PC_Balanced
categories:
  - Textures

# Simulate changes without touching assets. This always decides; a preset's
# dry_run_default is informational.
dry_run: true
# 0 uses the preset's max_changes.
max_changes: 0
# Unset uses the preset's conservative_mode.
# conservative_mode: true
# Unset uses the preset's create_backups.
# create_backups: true

include_paths: []
exclude_paths: []
use_selection: false

parallel: 1
metrics_file: ""

paths:
  output_dir: Saved/Optimizor/History
  manifest: assets.csv
  preset_overrides: asset-optimizer-presets.yml
  history_db: Saved/Optimizor/history.db
`

// WriteDefaultConfig writes a commented default configuration to path.
// An existing file is only replaced when force is set.
func WriteDefaultConfig(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	return writeFileAtomic(path, []byte(defaultConfigTemplate), 0644)
}
