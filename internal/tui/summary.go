package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/EmundoT/asset-optimizer/internal/types"
)

// FormatSavings renders a "<n>MB" savings estimate in binary units ("12 MiB").
func FormatSavings(s string) string {
	m := types.ParseMemorySavings(s)
	if m <= 0 {
		return "0 B"
	}
	return humanize.IBytes(m.Bytes())
}

// RenderPhaseSummary renders a phase summary as a block of text. When styled
// is false no terminal styling is applied.
func RenderPhaseSummary(sum types.PhaseSummary, styled bool) string {
	title := fmt.Sprintf("%s · %s · %s", strings.ToUpper(string(sum.Phase)), sum.RunID, sum.Profile)
	status := "ok"
	if !sum.Summary.Success {
		status = fmt.Sprintf("%d of %d categories failed", sum.Summary.CategoriesWithErrors, sum.Summary.TotalCategories)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "scanned %s  changed %s  skipped %s  errors %s  (%s)\n",
		humanize.Comma(int64(sum.Scanned)), humanize.Comma(int64(sum.Changed)),
		humanize.Comma(int64(sum.Skipped)), humanize.Comma(int64(sum.Errors)), status)
	for _, r := range sum.CategoryResults {
		b.WriteString(renderCategory(r))
	}
	body := strings.TrimRight(b.String(), "\n")

	if !styled {
		return title + "\n" + body
	}
	titleStyle := styleTitle
	if !sum.Summary.Success {
		titleStyle = styleWarn.Bold(true)
	}
	return styleCard.Render(titleStyle.Render(title) + "\n" + body)
}

func renderCategory(r types.CategoryResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  %-10s %d scanned, %d changed, %d skipped, %d errors\n",
		r.Category, r.Scanned, r.Changed, r.Skipped, r.Errors)

	switch {
	case r.Audit != nil:
		fmt.Fprintf(&b, "    %d with issues (%s), est. savings %s\n",
			r.Audit.AssetsWithIssues, formatCounts(r.Audit.PriorityCounts), FormatSavings(r.Audit.TotalSavings))
	case r.Recommend != nil:
		fmt.Fprintf(&b, "    %d recommendations (risk %s), est. savings %s\n",
			r.Recommend.TotalRecommendations, formatCounts(r.Recommend.RiskCounts), FormatSavings(r.Recommend.TotalSavings))
	case r.Apply != nil:
		mode := "applied"
		if r.Apply.DryRun {
			mode = "simulated"
		}
		fmt.Fprintf(&b, "    %s %s (budget %d), est. savings %s\n",
			humanize.Comma(int64(r.Apply.TotalChangesApplied)), mode, r.Apply.MaxChanges, FormatSavings(r.Apply.TotalSavings))
		if r.Apply.BudgetExhausted {
			fmt.Fprintf(&b, "    change budget exhausted, %d records not processed\n", r.Apply.Unprocessed)
		}
	case r.Verify != nil:
		fmt.Fprintf(&b, "    %d passed, %d failed, %d unverified, %d consistency warnings\n",
			r.Verify.Passed, r.Verify.Failed, r.Verify.Unverified, r.Verify.ConsistencyWarnings)
	}
	if r.Message != "" {
		fmt.Fprintf(&b, "    %s\n", r.Message)
	}
	if r.StorageError != "" {
		fmt.Fprintf(&b, "    storage: %s\n", r.StorageError)
	}
	return b.String()
}

// formatCounts renders a breakdown map as "High 2, Low 1" in key order.
func formatCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %d", k, counts[k]))
	}
	return strings.Join(parts, ", ")
}

// RenderPresetList renders one line per preset.
func RenderPresetList(presets []types.PresetConfig, defaultName string) string {
	var b strings.Builder
	for _, p := range presets {
		marker := " "
		if p.Name == defaultName {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s %-22s %s\n", marker, p.Name, p.Description)
	}
	return b.String()
}

// RenderHistory renders history entries newest first, with relative times.
func RenderHistory(entries []types.HistoryEntry, now time.Time) string {
	if len(entries) == 0 {
		return "No runs recorded.\n"
	}
	var b strings.Builder
	for _, e := range entries {
		when := e.Timestamp
		if ts, err := time.Parse(time.RFC3339, e.Timestamp); err == nil {
			when = humanize.RelTime(ts, now, "ago", "from now")
		}
		status := "ok"
		if !e.Success {
			status = "FAILED"
		}
		fmt.Fprintf(&b, "%-22s %-9s %-20s %4d scanned %4d changed %4d errors  %-6s %s\n",
			e.RunID, e.Phase, e.Profile, e.Scanned, e.Changed, e.Errors, status, when)
	}
	return b.String()
}
