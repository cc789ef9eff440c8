package core

import (
	"strconv"
	"strings"

	"github.com/EmundoT/asset-optimizer/internal/types"
)

// Column sets for each artifact. Producers may add columns; consumers only
// read the ones they know.
var (
	AuditFields = []string{
		"asset_path", "asset_name", "current_size", "current_compression",
		"current_srgb", "current_mipmaps", "current_lod_group",
		"current_virtual_texture", "current_streaming",
		"issues", "priority", "estimated_memory_savings",
	}

	RecommendationFields = []string{
		"asset_path", "asset_name", "current_size", "current_compression",
		"current_srgb", "current_mipmaps", "current_lod_group",
		"current_virtual_texture", "current_streaming",
		"recommendations", "changes", "estimated_memory_savings",
		"priority", "risk_level", "apply_safety",
	}

	ApplyFields = []string{
		"asset_path", "asset_name", "recommendations", "changes_requested",
		"changes_applied", "changes_applied_count", "estimated_memory_savings",
		"risk_level", "success", "skip_reason", "dry_run", "error",
	}

	VerifyFields = []string{
		"asset_path", "asset_name", "changes_applied", "verification_status",
		"verification_details", "passed_checks", "total_checks",
		"estimated_memory_savings", "dry_run", "consistency_warnings",
	}
)

// joinList serializes a multi-valued field into one cell.
func joinList(items []string) string {
	return strings.Join(items, ListSeparator)
}

// splitList parses a multi-valued cell, dropping empty entries.
func splitList(cell string) []string {
	if strings.TrimSpace(cell) == "" {
		return nil
	}
	parts := strings.Split(cell, ListSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func formatBool(b bool) string {
	return strconv.FormatBool(b)
}

// parseBool accepts true/false in any case plus 1/0 and yes/no.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "enabled":
		return true
	default:
		return false
	}
}

func parseInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// firstOf returns the first non-empty value among keys, for legacy column names.
func firstOf(row Row, keys ...string) string {
	for _, k := range keys {
		if v, ok := row[k]; ok && v != "" {
			return v
		}
	}
	return ""
}

func snapshotToRow(a types.AssetRecord, row Row) {
	row["asset_path"] = a.AssetPath
	row["asset_name"] = a.AssetName
	row["current_size"] = a.SizeString()
	row["current_compression"] = a.Compression
	row["current_srgb"] = formatBool(a.SRGB)
	row["current_mipmaps"] = formatBool(a.Mipmaps)
	row["current_lod_group"] = a.LODGroup
	row["current_virtual_texture"] = formatBool(a.VirtualTexture)
	row["current_streaming"] = formatBool(a.Streaming)
}

func snapshotFromRow(row Row) types.AssetRecord {
	a := types.AssetRecord{
		AssetPath:      row["asset_path"],
		AssetName:      row["asset_name"],
		Compression:    row["current_compression"],
		SRGB:           parseBool(row["current_srgb"]),
		Mipmaps:        parseBool(firstOf(row, "current_mipmaps", "current_mips")),
		LODGroup:       row["current_lod_group"],
		VirtualTexture: parseBool(row["current_virtual_texture"]),
		Streaming:      parseBool(row["current_streaming"]),
	}
	if w, h, ok := types.ParseSize(row["current_size"]); ok {
		a.Width, a.Height = w, h
	}
	if a.AssetName == "" {
		a.AssetName = assetNameFromPath(a.AssetPath)
	}
	return a
}

// AuditRecordToRow encodes an audit record.
func AuditRecordToRow(r types.AuditRecord) Row {
	row := Row{}
	snapshotToRow(r.Asset, row)
	row["issues"] = joinList(r.Issues)
	row["priority"] = string(r.Priority)
	row["estimated_memory_savings"] = r.EstimatedSavings.String()
	return row
}

// AuditRecordFromRow decodes an audit record. Malformed cells default to zero values.
func AuditRecordFromRow(row Row) types.AuditRecord {
	return types.AuditRecord{
		Asset:            snapshotFromRow(row),
		Issues:           splitList(row["issues"]),
		Priority:         types.ParseLevel(row["priority"]),
		EstimatedSavings: types.ParseMemorySavings(row["estimated_memory_savings"]),
	}
}

// RecommendationRecordToRow encodes a recommendation record.
func RecommendationRecordToRow(r types.RecommendationRecord) Row {
	row := Row{}
	snapshotToRow(r.Asset, row)
	row["recommendations"] = joinList(r.Recommendations)
	row["changes"] = joinList(r.Changes)
	row["estimated_memory_savings"] = r.EstimatedSavings.String()
	row["priority"] = string(r.Priority)
	row["risk_level"] = string(r.RiskLevel)
	row["apply_safety"] = string(r.ApplySafety)
	return row
}

// RecommendationRecordFromRow decodes a recommendation record, accepting the
// legacy apply_safely column.
func RecommendationRecordFromRow(row Row) types.RecommendationRecord {
	return types.RecommendationRecord{
		Asset:            snapshotFromRow(row),
		Recommendations:  splitList(row["recommendations"]),
		Changes:          splitList(row["changes"]),
		EstimatedSavings: types.ParseMemorySavings(row["estimated_memory_savings"]),
		Priority:         types.ParseLevel(row["priority"]),
		RiskLevel:        types.ParseLevel(row["risk_level"]),
		ApplySafety:      types.ParseApplySafety(firstOf(row, "apply_safety", "apply_safely")),
	}
}

// ApplyRecordToRow encodes an apply record. deferred_changes is only emitted
// when the budget truncated the record.
func ApplyRecordToRow(r types.ApplyRecord) Row {
	row := Row{
		"asset_path":               r.AssetPath,
		"asset_name":               r.AssetName,
		"recommendations":          joinList(r.Recommendations),
		"changes_requested":        joinList(r.ChangesRequested),
		"changes_applied":          joinList(r.ChangesApplied),
		"changes_applied_count":    strconv.Itoa(r.ChangesAppliedCount),
		"estimated_memory_savings": r.EstimatedSavings.String(),
		"risk_level":               string(r.RiskLevel),
		"success":                  formatBool(r.Success),
		"skip_reason":              r.SkipReason,
		"dry_run":                  formatBool(r.DryRun),
		"error":                    r.Error,
	}
	if len(r.DeferredChanges) > 0 {
		row["deferred_changes"] = joinList(r.DeferredChanges)
	}
	if len(r.PartialChanges) > 0 {
		row["partial_changes"] = joinList(r.PartialChanges)
	}
	return row
}

// ApplyRecordFromRow decodes an apply record.
func ApplyRecordFromRow(row Row) types.ApplyRecord {
	return types.ApplyRecord{
		AssetPath:           row["asset_path"],
		AssetName:           row["asset_name"],
		Recommendations:     splitList(row["recommendations"]),
		ChangesRequested:    splitList(row["changes_requested"]),
		ChangesApplied:      splitList(row["changes_applied"]),
		ChangesAppliedCount: parseInt(row["changes_applied_count"]),
		EstimatedSavings:    types.ParseMemorySavings(row["estimated_memory_savings"]),
		RiskLevel:           types.ParseLevel(row["risk_level"]),
		Success:             parseBool(row["success"]),
		SkipReason:          row["skip_reason"],
		DryRun:              parseBool(row["dry_run"]),
		Error:               row["error"],
		DeferredChanges:     splitList(row["deferred_changes"]),
		PartialChanges:      splitList(row["partial_changes"]),
	}
}

// VerificationDetails renders checks as "change: status" joined by ListSeparator.
func VerificationDetails(checks []types.ChangeCheck) string {
	parts := make([]string, 0, len(checks))
	for _, c := range checks {
		parts = append(parts, c.Change+": "+c.Status)
	}
	return joinList(parts)
}

// VerifyRecordToRow encodes a verify record.
func VerifyRecordToRow(r types.VerifyRecord) Row {
	return Row{
		"asset_path":               r.AssetPath,
		"asset_name":               r.AssetName,
		"changes_applied":          joinList(r.ChangesApplied),
		"verification_status":      string(r.Status),
		"verification_details":     VerificationDetails(r.Checks),
		"passed_checks":            strconv.Itoa(r.PassedChecks),
		"total_checks":             strconv.Itoa(r.TotalChecks),
		"estimated_memory_savings": r.EstimatedSavings.String(),
		"dry_run":                  formatBool(r.DryRun),
		"consistency_warnings":     joinList(r.ConsistencyWarnings),
	}
}

// VerifyRecordFromRow decodes the scalar parts of a verify record. Per-change
// checks are not reconstructed from verification_details.
func VerifyRecordFromRow(row Row) types.VerifyRecord {
	status := types.VerificationFailed
	if strings.EqualFold(strings.TrimSpace(row["verification_status"]), string(types.VerificationPassed)) {
		status = types.VerificationPassed
	}
	return types.VerifyRecord{
		AssetPath:           row["asset_path"],
		AssetName:           row["asset_name"],
		ChangesApplied:      splitList(row["changes_applied"]),
		Status:              status,
		PassedChecks:        parseInt(row["passed_checks"]),
		TotalChecks:         parseInt(row["total_checks"]),
		EstimatedSavings:    types.ParseMemorySavings(row["estimated_memory_savings"]),
		DryRun:              parseBool(row["dry_run"]),
		ConsistencyWarnings: splitList(row["consistency_warnings"]),
	}
}

// assetNameFromPath returns the last path segment, minus any ".Object" suffix.
func assetNameFromPath(assetPath string) string {
	name := assetPath
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "."); i >= 0 {
		name = name[:i]
	}
	return name
}
