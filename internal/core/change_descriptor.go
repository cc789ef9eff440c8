package core

import (
	"strings"

	"github.com/EmundoT/asset-optimizer/internal/types"
)

// DryRunPrefix marks a change that was simulated rather than applied.
const DryRunPrefix = "[DRY-RUN] "

// Values used on the right-hand side of boolean change descriptors.
const (
	ValueEnabled  = "Enabled"
	ValueDisabled = "Disabled"
)

// ChangeKind identifies the asset property a change descriptor targets.
type ChangeKind int

// Change kinds. ChangeUnknown is returned for unrecognised field prefixes.
const (
	ChangeUnknown ChangeKind = iota
	ChangeSize
	ChangeCompression
	ChangeSRGB
	ChangeMipmaps
	ChangeLODGroup
	ChangeVirtualTexture
	ChangeStreaming
)

// changeFields maps each kind to its canonical field label. The lowercased
// label followed by ":" is the prefix used to recognise a descriptor.
var changeFields = []struct {
	kind  ChangeKind
	field string
}{
	{ChangeSize, "Size"},
	{ChangeCompression, "Compression"},
	{ChangeSRGB, "SRGB"},
	{ChangeMipmaps, "Mipmaps"},
	{ChangeLODGroup, "LOD Group"},
	{ChangeVirtualTexture, "Virtual Texture"},
	{ChangeStreaming, "Streaming"},
}

// Field returns the canonical label ("LOD Group"), or "" for ChangeUnknown.
func (k ChangeKind) Field() string {
	for _, f := range changeFields {
		if f.kind == k {
			return f.field
		}
	}
	return ""
}

// IsBoolean reports whether the kind's values are Enabled/Disabled.
func (k ChangeKind) IsBoolean() bool {
	switch k {
	case ChangeSRGB, ChangeMipmaps, ChangeVirtualTexture, ChangeStreaming:
		return true
	}
	return false
}

// ChangeDescriptor is a parsed "Field: old -> new" entry.
type ChangeDescriptor struct {
	Kind  ChangeKind
	Field string
	Old   string
	New   string
}

// String renders the descriptor in storage form.
func (c ChangeDescriptor) String() string {
	return FormatChange(c.Field, c.Old, c.New)
}

// FormatChange renders "Field: old -> new".
func FormatChange(field, oldValue, newValue string) string {
	return field + ": " + oldValue + " -> " + newValue
}

// ClassifyChange returns the kind named by the descriptor's prefix
// (case-insensitive). A dry-run marker is ignored.
func ClassifyChange(change string) ChangeKind {
	lower := strings.ToLower(strings.TrimSpace(StripDryRun(change)))
	for _, f := range changeFields {
		if strings.HasPrefix(lower, strings.ToLower(f.field)+":") {
			return f.kind
		}
	}
	return ChangeUnknown
}

// ParseChangeDescriptor splits a descriptor into field, old and new values.
// ok is false when the text has no ":" or no "->".
func ParseChangeDescriptor(change string) (ChangeDescriptor, bool) {
	text := strings.TrimSpace(StripDryRun(change))
	field, rest, found := strings.Cut(text, ":")
	if !found {
		return ChangeDescriptor{}, false
	}
	oldValue, newValue, found := strings.Cut(rest, "->")
	if !found {
		return ChangeDescriptor{}, false
	}
	return ChangeDescriptor{
		Kind:  ClassifyChange(text),
		Field: strings.TrimSpace(field),
		Old:   strings.TrimSpace(oldValue),
		New:   strings.TrimSpace(newValue),
	}, true
}

// IsDryRunChange reports whether change carries the dry-run marker.
func IsDryRunChange(change string) bool {
	return strings.HasPrefix(strings.TrimSpace(change), strings.TrimSpace(DryRunPrefix))
}

// StripDryRun removes a leading dry-run marker.
func StripDryRun(change string) string {
	trimmed := strings.TrimSpace(change)
	if IsDryRunChange(trimmed) {
		return strings.TrimSpace(strings.TrimPrefix(trimmed, strings.TrimSpace(DryRunPrefix)))
	}
	return change
}

// ChangeRisk classifies one descriptor by its field name: size, compression
// or format is High; srgb, mipmaps or lod group is Medium; anything else Low.
func ChangeRisk(change string) types.Level {
	field := strings.ToLower(change)
	if f, _, found := strings.Cut(field, ":"); found {
		field = f
	}
	switch {
	case containsAny(field, "size", "compression", "format"):
		return types.LevelHigh
	case containsAny(field, "srgb", "mipmaps", "lod group"):
		return types.LevelMedium
	default:
		return types.LevelLow
	}
}

// RecordRisk is the highest ChangeRisk across changes, or None when empty.
func RecordRisk(changes []string) types.Level {
	level := types.LevelNone
	for _, c := range changes {
		if r := ChangeRisk(c); levelRank(r) > levelRank(level) {
			level = r
		}
	}
	return level
}

// RecordApplySafety is WithBackup when any change is High risk.
func RecordApplySafety(changes []string) types.ApplySafety {
	for _, c := range changes {
		if ChangeRisk(c) == types.LevelHigh {
			return types.ApplySafetyWithBackup
		}
	}
	return types.ApplySafetyYes
}

// BoolValue renders a flag as Enabled or Disabled.
func BoolValue(b bool) string {
	if b {
		return ValueEnabled
	}
	return ValueDisabled
}

func levelRank(l types.Level) int {
	switch l {
	case types.LevelLow:
		return 1
	case types.LevelMedium:
		return 2
	case types.LevelHigh:
		return 3
	default:
		return 0
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
