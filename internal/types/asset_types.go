// Package types defines the records, presets and summaries exchanged by the asset-optimizer pipeline.
package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Category names an asset category the pipeline can process.
type Category string

// Supported asset categories.
const (
	CategoryTextures  Category = "Textures"
	CategoryMeshes    Category = "Meshes"
	CategoryMaterials Category = "Materials"
	CategoryLevels    Category = "Levels"
)

// ValidCategories lists every category in canonical order.
var ValidCategories = []Category{CategoryTextures, CategoryMeshes, CategoryMaterials, CategoryLevels}

// ParseCategory matches s case-insensitively against ValidCategories.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range ValidCategories {
		if strings.EqualFold(s, string(c)) {
			return c, true
		}
	}
	return Category(s), false
}

// Slug returns the lowercase form used in artifact filenames ("textures").
func (c Category) Slug() string {
	return strings.ToLower(string(c))
}

// Phase is one of the four pipeline stages.
type Phase string

// Pipeline phases in execution order.
const (
	PhaseAudit     Phase = "audit"
	PhaseRecommend Phase = "recommend"
	PhaseApply     Phase = "apply"
	PhaseVerify    Phase = "verify"
)

// Phases lists the phases in execution order.
var Phases = []Phase{PhaseAudit, PhaseRecommend, PhaseApply, PhaseVerify}

// ParsePhase matches s case-insensitively against Phases.
func ParsePhase(s string) (Phase, bool) {
	for _, p := range Phases {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, true
		}
	}
	return "", false
}

// Level is the shared None/Low/Medium/High scale used for priority and risk.
type Level string

// Level values.
const (
	LevelNone   Level = "None"
	LevelLow    Level = "Low"
	LevelMedium Level = "Medium"
	LevelHigh   Level = "High"
)

// ParseLevel reads a stored level. Unrecognised values read as LevelNone.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return LevelLow
	case "medium":
		return LevelMedium
	case "high":
		return LevelHigh
	default:
		return LevelNone
	}
}

// ApplySafety controls mechanical gating in the apply phase.
type ApplySafety string

// ApplySafety values. WithBackup requires a backup before any mutation.
const (
	ApplySafetyYes        ApplySafety = "Yes"
	ApplySafetyWithBackup ApplySafety = "WithBackup"
)

// ParseApplySafety reads a stored apply-safety value, accepting the legacy
// "With backup" spelling.
func ParseApplySafety(s string) ApplySafety {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	if normalized == "withbackup" {
		return ApplySafetyWithBackup
	}
	return ApplySafetyYes
}

// VerificationStatus is the outcome of verifying one applied record.
type VerificationStatus string

// VerificationStatus values.
const (
	VerificationPassed VerificationStatus = "Passed"
	VerificationFailed VerificationStatus = "Failed"
)

// MemorySavings is an estimate in whole mebibytes, stored as "<n>MB".
type MemorySavings int

func (m MemorySavings) String() string {
	return fmt.Sprintf("%dMB", int(m))
}

// Bytes returns the estimate in bytes.
func (m MemorySavings) Bytes() uint64 {
	if m <= 0 {
		return 0
	}
	return uint64(m) * 1024 * 1024
}

// ParseMemorySavings reads "<n>MB". Malformed values read as zero.
func ParseMemorySavings(s string) MemorySavings {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.EqualFold(s[len(s)-2:], "MB") {
		s = strings.TrimSpace(s[:len(s)-2])
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return MemorySavings(n)
}

// AssetRecord is the current-property snapshot of one asset as reported by an
// inspector. Properties the inspector could not read are left at their zero value.
type AssetRecord struct {
	AssetPath      string
	AssetName      string
	Category       Category
	Width          int
	Height         int
	Compression    string
	SRGB           bool
	Mipmaps        bool
	LODGroup       string
	VirtualTexture bool
	Streaming      bool
	Format         string
}

// SizeString renders the dimensions as "WxH", or "" when unknown.
func (a AssetRecord) SizeString() string {
	if a.Width <= 0 || a.Height <= 0 {
		return ""
	}
	return fmt.Sprintf("%dx%d", a.Width, a.Height)
}

// ParseSize parses "WxH".
func ParseSize(s string) (width, height int, ok bool) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "x")
	if len(parts) != 2 {
		return 0, 0, false
	}
	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	return w, h, true
}

// AuditRecord is one asset with at least one rule violation.
type AuditRecord struct {
	Asset            AssetRecord
	Issues           []string
	Priority         Level
	EstimatedSavings MemorySavings
}

// RecommendationRecord is the concrete change set proposed for one audited asset.
type RecommendationRecord struct {
	Asset            AssetRecord
	Recommendations  []string
	Changes          []string
	EstimatedSavings MemorySavings
	Priority         Level
	RiskLevel        Level
	ApplySafety      ApplySafety
}

// ApplyRecord is the outcome of applying (or simulating) one recommendation.
type ApplyRecord struct {
	AssetPath           string
	AssetName           string
	Recommendations     []string
	ChangesRequested    []string
	ChangesApplied      []string
	ChangesAppliedCount int
	EstimatedSavings    MemorySavings
	RiskLevel           Level
	Success             bool
	SkipReason          string
	DryRun              bool
	Error               string
	// DeferredChanges holds requested changes not attempted because the
	// change budget ran out part-way through this record.
	DeferredChanges []string
	// PartialChanges holds changes the mutator made before a later change
	// on the same record failed. ChangesApplied stays empty on failure.
	PartialChanges []string
}

// ChangeCheck is the verification of one applied change.
type ChangeCheck struct {
	Change string
	Passed bool
	Status string
}

// VerifyRecord is the verification outcome for one successfully applied record.
type VerifyRecord struct {
	AssetPath           string
	AssetName           string
	ChangesApplied      []string
	Status              VerificationStatus
	Checks              []ChangeCheck
	PassedChecks        int
	TotalChecks         int
	EstimatedSavings    MemorySavings
	DryRun              bool
	ConsistencyWarnings []string
}

// Counted reports whether the record takes part in pass/fail tallies.
func (v VerifyRecord) Counted() bool {
	return v.TotalChecks > 0
}
