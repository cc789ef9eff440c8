package core

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/EmundoT/asset-optimizer/internal/types"
)

// PresetResolverInterface maps profile names to immutable preset configurations.
type PresetResolverInterface interface {
	// Resolve returns the named preset, or the default preset (with a logged
	// warning) when the name is unknown. It never fails.
	Resolve(name string) types.PresetConfig
	// Lookup returns the named preset and whether it exists.
	Lookup(name string) (types.PresetConfig, bool)
	// ListPresets returns built-in presets in table order followed by custom
	// presets sorted by name.
	ListPresets() []types.PresetConfig
	// Describe renders the named preset as indented text.
	Describe(name string) (string, error)
	// ExportPreset writes the named preset to path as YAML.
	ExportPreset(name, path string) error
}

// Compile-time interface satisfaction check for PresetResolver.
var _ PresetResolverInterface = (*PresetResolver)(nil)

// PresetResolver resolves names against the built-in table overlaid with an
// optional override file. It is read-only after construction.
type PresetResolver struct {
	presets map[string]types.PresetConfig
	order   []string
	logger  *slog.Logger
}

// NewPresetResolver creates a resolver over the built-in table only.
func NewPresetResolver(logger *slog.Logger) *PresetResolver {
	if logger == nil {
		logger = slog.Default()
	}
	r := &PresetResolver{
		presets: make(map[string]types.PresetConfig, len(builtinPresets)),
		logger:  logger,
	}
	for _, p := range builtinPresets {
		r.presets[p.Name] = p
		r.order = append(r.order, p.Name)
	}
	return r
}

// LoadPresetResolver creates a resolver and overlays the override file at
// overridePath, if present.
//
// A malformed override file or an invalid entry is a *ConfigurationError: it is
// logged and skipped, and the built-in table stays in effect. Only a file that
// exists but cannot be read is returned as an error.
func LoadPresetResolver(overridePath string, logger *slog.Logger) (*PresetResolver, error) {
	r := NewPresetResolver(logger)
	if overridePath == "" {
		return r, nil
	}

	store := NewYAMLStoreAt[types.PresetOverrideFile](overridePath, true)
	file, err := store.Load()
	if err != nil {
		if IsConfigurationError(err) {
			r.logger.Warn("ignoring preset override file", slog.String("path", overridePath), slog.String("error", err.Error()))
			return r, nil
		}
		return nil, fmt.Errorf("read preset overrides %s: %w", overridePath, err)
	}

	names := make([]string, 0, len(file.Presets))
	for name := range file.Presets {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, rawName := range names {
		if err := r.applyOverride(rawName, file.Presets[rawName]); err != nil {
			r.logger.Warn("ignoring preset override", slog.String("path", overridePath), slog.String("error", err.Error()))
		}
	}
	return r, nil
}

// NormalizePresetName replaces spaces with underscores ("PC Balanced" → "PC_Balanced").
func NormalizePresetName(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
}

// Resolve implements PresetResolverInterface.
func (r *PresetResolver) Resolve(name string) types.PresetConfig {
	if p, ok := r.Lookup(name); ok {
		return p
	}
	cfgErr := &ConfigurationError{Profile: name, Err: fmt.Errorf(ErrPresetNotFoundMsg, name)}
	r.logger.Warn("unknown preset, using default",
		slog.String("profile", name), slog.String("default", DefaultPresetName), slog.String("error", cfgErr.Error()))
	return r.presets[DefaultPresetName]
}

// Lookup implements PresetResolverInterface.
func (r *PresetResolver) Lookup(name string) (types.PresetConfig, bool) {
	p, ok := r.presets[NormalizePresetName(name)]
	return p, ok
}

// ListPresets implements PresetResolverInterface.
func (r *PresetResolver) ListPresets() []types.PresetConfig {
	out := make([]types.PresetConfig, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.presets[name])
	}
	return out
}

// Describe implements PresetResolverInterface.
func (r *PresetResolver) Describe(name string) (string, error) {
	p, ok := r.Lookup(name)
	if !ok {
		return "", fmt.Errorf(ErrPresetNotFoundMsg, name)
	}
	t, s := p.Textures, p.Safety
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", p.Name, p.Description)
	fmt.Fprintf(&b, "  textures:\n")
	fmt.Fprintf(&b, "    max size (color/normal/mask): %d / %d / %d\n", t.MaxSizeColor, t.MaxSizeNormal, t.MaxSizeMask)
	fmt.Fprintf(&b, "    compression (color/normal/mask): %s / %s / %s (%s quality)\n", t.CompressionColor, t.CompressionNormal, t.CompressionMask, t.CompressionQuality)
	fmt.Fprintf(&b, "    mipmaps: %s, virtual texture: %s, streaming: %s\n", t.MipmapGeneration, t.VirtualTexture, t.Streaming)
	fmt.Fprintf(&b, "  safety:\n")
	fmt.Fprintf(&b, "    dry run by default: %t\n", s.DryRunDefault)
	fmt.Fprintf(&b, "    max changes: %d\n", s.MaxChanges)
	fmt.Fprintf(&b, "    conservative mode: %t\n", s.ConservativeMode)
	fmt.Fprintf(&b, "    create backups: %t\n", s.CreateBackups)
	return b.String(), nil
}

// ExportPreset implements PresetResolverInterface.
func (r *PresetResolver) ExportPreset(name, path string) error {
	p, ok := r.Lookup(name)
	if !ok {
		return fmt.Errorf(ErrPresetNotFoundMsg, name)
	}
	return NewYAMLStoreAt[types.PresetConfig](path, false).Save(p)
}

// applyOverride merges one override entry into the table.
func (r *PresetResolver) applyOverride(rawName string, o types.PresetOverride) error {
	name := NormalizePresetName(rawName)
	if name == "" {
		return &ConfigurationError{Source: "preset overrides", Err: errors.New("empty preset name")}
	}

	base, exists := r.presets[name]
	if !exists {
		baseName := DefaultPresetName
		if o.BasedOn != "" {
			baseName = NormalizePresetName(o.BasedOn)
		}
		b, ok := r.presets[baseName]
		if !ok {
			return &ConfigurationError{Profile: name, Source: "preset overrides", Err: fmt.Errorf("based_on: "+ErrPresetNotFoundMsg, o.BasedOn)}
		}
		base = b
		base.Name = name
		base.Description = "Custom preset based on " + baseName
	}

	merged := mergePreset(base, o)
	if err := validatePreset(merged); err != nil {
		return &ConfigurationError{Profile: name, Source: "preset overrides", Err: err}
	}

	r.presets[name] = merged
	if !exists {
		r.order = append(r.order, name)
	}
	r.logger.Debug("preset override applied", slog.String("profile", name), slog.Bool("custom", !exists))
	return nil
}

func mergePreset(base types.PresetConfig, o types.PresetOverride) types.PresetConfig {
	if o.Description != nil {
		base.Description = *o.Description
	}
	if t := o.Textures; t != nil {
		setInt(&base.Textures.MaxSizeColor, t.MaxSizeColor)
		setInt(&base.Textures.MaxSizeNormal, t.MaxSizeNormal)
		setInt(&base.Textures.MaxSizeMask, t.MaxSizeMask)
		setString(&base.Textures.CompressionColor, t.CompressionColor)
		setString(&base.Textures.CompressionNormal, t.CompressionNormal)
		setString(&base.Textures.CompressionMask, t.CompressionMask)
		setString(&base.Textures.CompressionQuality, t.CompressionQuality)
	}
	if s := o.Safety; s != nil {
		setBool(&base.Safety.DryRunDefault, s.DryRunDefault)
		setInt(&base.Safety.MaxChanges, s.MaxChanges)
		setBool(&base.Safety.ConservativeMode, s.ConservativeMode)
		setBool(&base.Safety.CreateBackups, s.CreateBackups)
	}
	return base
}

// validatePreset checks a merged preset for values the rules cannot use.
func validatePreset(p types.PresetConfig) error {
	t := p.Textures
	if t.MaxSizeColor <= 0 || t.MaxSizeNormal <= 0 || t.MaxSizeMask <= 0 {
		return fmt.Errorf("size ceilings must be positive (color=%d normal=%d mask=%d)", t.MaxSizeColor, t.MaxSizeNormal, t.MaxSizeMask)
	}
	if t.CompressionColor == "" || t.CompressionNormal == "" || t.CompressionMask == "" {
		return errors.New("compression formats must not be empty")
	}
	if p.Safety.MaxChanges <= 0 {
		return fmt.Errorf("max_changes must be positive, got %d", p.Safety.MaxChanges)
	}
	return nil
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
